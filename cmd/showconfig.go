package cmd

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"odoomcp/cli/internal/config"
	"odoomcp/cli/internal/logging"
)

// configCmd prints the resolved connection settings without contacting Odoo.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved connection settings",
	Long: `The config command resolves the connection settings exactly like the server
does and prints each value with the place it came from (env, file or
keychain). The password is masked.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		r := resolver()
		path, err := r.FilePath(flagProject, flagEnvironment)
		if err != nil {
			return err
		}

		desc, err := r.Resolve(flagProject, flagEnvironment)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Profile:     %s\nConfig file: %s\n", profile(), path)
			logging.PresentStartupError(os.Stderr, err)
			return reportedError{err}
		}

		return renderDescriptor(cmd, desc, path)
	},
}

func renderDescriptor(cmd *cobra.Command, desc *config.Descriptor, path string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Profile:     %s\n", profile())
	fmt.Fprintf(out, "Config file: %s\n", path)
	if desc.Path == "" {
		fmt.Fprintln(out, "             (not read, environment is complete)")
	}

	data := pterm.TableData{
		{"Setting", "Value", "Source"},
		{"url", logging.Mask(desc.URL), string(desc.Sources["url"])},
		{"database", desc.Database, string(desc.Sources["database"])},
		{"username", desc.Username, string(desc.Sources["username"])},
		{"password", logging.MaskSecret(desc.Password), string(desc.Sources["password"])},
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(out).WithData(data).Render()
}

func init() {
	rootCmd.AddCommand(configCmd)
}
