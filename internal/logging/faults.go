// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	apperrors "odoomcp/cli/internal/errors"
)

// FaultType is the category of an Odoo failure.
type FaultType int

const (
	FaultUnknown FaultType = iota
	FaultNetwork
	FaultCredentials
	FaultAccess
	FaultMissingModel
	FaultValidation
	FaultDatabase
)

// ParseFault categorizes an Odoo fault or transport error message.
func ParseFault(errMsg string) FaultType {
	lower := strings.ToLower(errMsg)

	switch {
	case strings.Contains(lower, "connection refused"),
		strings.Contains(lower, "no such host"),
		strings.Contains(lower, "timeout"),
		strings.Contains(lower, "connection reset"):
		return FaultNetwork
	case strings.Contains(lower, "check username/password"),
		strings.Contains(lower, "access denied") && strings.Contains(lower, "authenticat"):
		return FaultCredentials
	case strings.Contains(lower, "accesserror"),
		strings.Contains(lower, "access denied"),
		strings.Contains(lower, "not allowed to"):
		return FaultAccess
	case strings.Contains(lower, "doesn't exist"),
		strings.Contains(lower, "does not exist") && strings.Contains(lower, "object"):
		return FaultMissingModel
	case strings.Contains(lower, "validationerror"),
		strings.Contains(lower, "usererror"),
		strings.Contains(lower, "invalid field"):
		return FaultValidation
	case strings.Contains(lower, "database") && strings.Contains(lower, "not exist"):
		return FaultDatabase
	}
	return FaultUnknown
}

// Hint returns a one-line suggestion for the fault type, or "".
func Hint(t FaultType) string {
	switch t {
	case FaultNetwork:
		return "Check that the Odoo URL is reachable from this machine."
	case FaultCredentials:
		return "Check the username and password (or API key) for this profile."
	case FaultAccess:
		return "The Odoo user lacks access rights for this model or operation."
	case FaultMissingModel:
		return "The model name is wrong or its module is not installed."
	case FaultValidation:
		return "Odoo rejected the values; check required fields and field types."
	case FaultDatabase:
		return "Check the database name for this profile."
	}
	return ""
}

// FormatStartupError renders a fatal startup error for the terminal.
func FormatStartupError(err error) string {
	msg := Mask(err.Error())

	var b strings.Builder
	title := "Startup failed"
	switch apperrors.KindOf(err) {
	case apperrors.Configuration:
		title = "Configuration error"
	case apperrors.Authentication:
		title = "Authentication failed"
	}
	b.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint(title))
	b.WriteString("\n\n")
	b.WriteString(msg)
	b.WriteString("\n")

	if hint := Hint(ParseFault(msg)); hint != "" {
		b.WriteString("\n")
		b.WriteString(pterm.NewStyle(pterm.FgYellow).Sprint("→ " + hint))
		b.WriteString("\n")
	}
	return b.String()
}

// PresentStartupError writes FormatStartupError to w.
func PresentStartupError(w io.Writer, err error) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, FormatStartupError(err))
}
