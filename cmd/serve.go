// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/effective-security/xlog"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"odoomcp/cli/internal/audit"
	"odoomcp/cli/internal/backend"
	"odoomcp/cli/internal/config"
	"odoomcp/cli/internal/httperrors"
	"odoomcp/cli/internal/logging"
	"odoomcp/cli/internal/mcpserver"
	"odoomcp/cli/internal/tools"
)

type serveOptions struct {
	listen   string
	audit    bool
	auditDSN string
}

var serveFlags serveOptions

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the Odoo tools over MCP",
	Long: `serve resolves the connection settings, logs in to Odoo and serves the
tool catalog. Without --listen the server speaks MCP on stdin/stdout; with
--listen it serves streamable HTTP on /mcp.

With --audit every invocation is recorded in a SQLite file under the XDG
state directory, or in the database named by --audit-dsn.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, serveFlags)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveFlags.listen, "listen", "", "Serve streamable HTTP on this address (e.g. 127.0.0.1:8080)")
	serveCmd.Flags().BoolVar(&serveFlags.audit, "audit", false, "Record every tool invocation")
	serveCmd.Flags().StringVar(&serveFlags.auditDSN, "audit-dsn", "", "Audit store DSN (postgres://... or sqlite path); implies --audit")
}

func runServe(cmd *cobra.Command, opts serveOptions) error {
	// stdout belongs to the MCP transport
	pterm.SetDefaultOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	desc, err := resolver().Resolve(flagProject, flagEnvironment)
	if err != nil {
		logging.PresentStartupError(os.Stderr, err)
		return reportedError{err}
	}

	sess, err := connect(ctx, desc)
	if err != nil {
		return err
	}
	defer sess.Close()

	var adapterOpts []tools.Option
	if opts.audit || opts.auditDSN != "" {
		store, err := audit.Open(ctx, opts.auditDSN)
		if err != nil {
			logging.PresentStartupError(os.Stderr, err)
			return reportedError{err}
		}
		defer store.Close()
		adapterOpts = append(adapterOpts, tools.WithRecorder(store))
	}

	server, err := mcpserver.New(tools.NewAdapter(sess, adapterOpts...), Version)
	if err != nil {
		return err
	}

	logger.KV(xlog.NOTICE,
		"status", "connected",
		"url", logging.Mask(desc.URL),
		"db", desc.Database,
		"uid", sess.UID())

	if opts.listen != "" {
		return mcpserver.ServeHTTP(ctx, opts.listen, server)
	}
	return mcpserver.ServeStdio(ctx, server)
}

// connect creates the backend session and logs in once. Failures are
// printed with network hints and returned as reportedError.
func connect(ctx context.Context, desc *config.Descriptor) (*backend.Session, error) {
	sess, err := backend.New(desc)
	if err != nil {
		logging.PresentStartupError(os.Stderr, err)
		return nil, reportedError{err}
	}
	if _, err := sess.Authenticate(ctx); err != nil {
		_ = sess.Close()
		httperrors.Present(err, desc.URL)
		logging.PresentStartupError(os.Stderr, err)
		return nil, reportedError{err}
	}
	return sess, nil
}
