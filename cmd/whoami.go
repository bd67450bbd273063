package cmd

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"odoomcp/cli/internal/backend"
	"odoomcp/cli/internal/logging"
)

// whoamiCmd checks the connection settings by logging in and reading the
// current user.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Test the Odoo connection and show the current user",
	Long: `The whoami command resolves the connection settings, logs in to Odoo and
reads the authenticated res.users record. Use it to check a profile before
registering the server with an MCP client.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		desc, err := resolver().Resolve(flagProject, flagEnvironment)
		if err != nil {
			logging.PresentStartupError(os.Stderr, err)
			return reportedError{err}
		}

		var user *backend.UserInfo
		err = spin("Connecting to "+desc.URL, func() error {
			sess, err := connect(ctx, desc)
			if err != nil {
				return err
			}
			defer sess.Close()
			user, err = sess.WhoAmI(ctx)
			return err
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "👤 %s (%s)\n", user.Name, user.Login)
		return pterm.DefaultTable.WithWriter(out).WithData(pterm.TableData{
			{"uid", fmt.Sprint(user.ID)},
			{"database", user.Database},
			{"url", logging.Mask(desc.URL)},
		}).Render()
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
