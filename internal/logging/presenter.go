// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"os"

	"github.com/effective-security/xlog"
)

// EnvVerbose switches logging to DEBUG when set to "1".
const EnvVerbose = "ODOO_MCP_VERBOSE"

// Setup routes all package loggers to stderr. Stdout is reserved for MCP
// traffic in serve mode.
func Setup(verbose bool) {
	xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
	if verbose || os.Getenv(EnvVerbose) == "1" {
		xlog.SetGlobalLogLevel(xlog.DEBUG)
		return
	}
	xlog.SetGlobalLogLevel(xlog.INFO)
}

// PresentError formats an error for user display with masking.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", context, Mask(err.Error()))
}
