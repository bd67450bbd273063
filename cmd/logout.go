// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"odoomcp/cli/internal/keychain"
	"odoomcp/cli/internal/terminal"
)

var logoutYes bool

// logoutCmd removes the saved password of the current profile.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved Odoo password from the OS keychain",
	Long: `The logout command deletes the keychain entry written by login for the
current profile. Environment variables and config files are left alone.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if !logoutYes && terminal.IsInteractive() {
			answer, err := terminal.ReadLine(os.Stdin, os.Stderr,
				fmt.Sprintf("Remove the saved password for %s? (y/n)", profile()), "n")
			if err != nil {
				return err
			}
			if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
				return nil
			}
		}

		km, err := keychain.GetManager()
		if err != nil {
			return err
		}
		if err := km.DeletePassword(profile()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Saved password for %s has been removed\n", profile())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
	logoutCmd.Flags().BoolVarP(&logoutYes, "yes", "y", false, "Do not ask for confirmation")
}
