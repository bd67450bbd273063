// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"odoomcp/cli/internal/config"
	"odoomcp/cli/internal/keychain"
	"odoomcp/cli/internal/logging"
	"odoomcp/cli/internal/terminal"
)

// loginCmd verifies a password against Odoo and stores it in the OS keychain
// for the current profile.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Save the Odoo password in the OS keychain",
	Long: `The login command prompts for the Odoo password of the current profile,
checks it by logging in, and saves it in the OS keychain. Later runs with
--keychain read it from there when neither ODOO_PASSWORD nor the config
file provides one.

URL, database and username still come from the environment or the config
file.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if !terminal.IsInteractive() {
			return errors.New("login needs an interactive terminal")
		}

		km, err := keychain.GetManager()
		if err != nil {
			return errors.Wrap(err, "open keychain")
		}

		password, err := terminal.ReadPassword(fmt.Sprintf("Odoo password for %s: ", profile()))
		if err != nil {
			return err
		}
		if password == "" {
			return errors.New("password must not be empty")
		}

		r := resolver()
		r.Secrets = promptedSecret(password)
		desc, err := r.Resolve(flagProject, flagEnvironment)
		if err != nil {
			logging.PresentStartupError(os.Stderr, err)
			return reportedError{err}
		}
		// the prompt wins over env and file values
		desc.Password = password

		err = spin("Checking credentials", func() error {
			sess, err := connect(ctx, desc)
			if err != nil {
				return err
			}
			return sess.Close()
		})
		if err != nil {
			return err
		}

		if err := km.SavePassword(profile(), password); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Password for %s saved to the keychain\n", profile())
		return nil
	},
}

type promptedSecret string

func (p promptedSecret) LoadPassword(string) (string, error) { return string(p), nil }

var _ config.SecretStore = promptedSecret("")

func init() {
	rootCmd.AddCommand(loginCmd)
}
