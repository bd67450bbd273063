// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface of odoo-mcp. Running the
// binary without a subcommand resolves the Odoo profile, logs in and serves
// the tool catalog over MCP on stdio. The remaining subcommands inspect and
// manage the profile.
package cmd

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/spf13/cobra"

	"odoomcp/cli/internal/config"
	"odoomcp/cli/internal/keychain"
	"odoomcp/cli/internal/logging"
)

var logger = xlog.NewPackageLogger("odoomcp/cli", "cmd")

// Global flags shared by all subcommands.
var (
	flagProject     string
	flagEnvironment string
	flagConfigPath  string
	flagKeychain    bool
	flagVerbose     bool
	showVersion     bool
)

// rootCmd serves MCP on stdio when called without any subcommand.
var rootCmd = &cobra.Command{
	Use:   "odoo-mcp",
	Short: "MCP server for Odoo XML-RPC",
	Long: `odoo-mcp exposes Odoo record operations (search, read, create, write,
unlink, search_count, fields_get, search_read) as MCP tools.

Connection settings come from ODOO_URL, ODOO_DATABASE, ODOO_USERNAME and
ODOO_PASSWORD, or from ~/.odoo_config/<project>_<environment>.conf.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(flagVerbose)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Fprintf(cmd.OutOrStdout(), "odoo-mcp %s\n", Version)
			return nil
		}
		return runServe(cmd, serveOptions{})
	},
}

// reportedError marks an error whose diagnostics were already printed.
type reportedError struct{ error }

// Execute runs the CLI application and exits with status 1 on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var reported reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, logging.PresentError("Error", err))
		}
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagProject, "project", config.DefaultProject, "Project name for config file")
	pf.StringVar(&flagEnvironment, "environment", config.DefaultEnvironment, "Environment name for config file")
	pf.StringVar(&flagConfigPath, "config-path", "", "Path to the config file (overrides project/environment)")
	pf.BoolVar(&flagKeychain, "keychain", false, "Read the password from the OS keychain when not configured")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")
}

// profile is the keychain profile name for the current flags.
func profile() string {
	return config.Profile(flagProject, flagEnvironment)
}

// resolver builds the configuration resolver for the current flags.
func resolver() *config.Resolver {
	r := &config.Resolver{Path: flagConfigPath}
	if flagKeychain {
		if km, err := keychain.GetManager(); err == nil {
			r.Secrets = km
		} else {
			logger.KV(xlog.WARNING, "reason", "keychain", "err", err.Error())
		}
	}
	return r
}
