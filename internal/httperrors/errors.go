// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors explains transport failures reaching the Odoo server.
package httperrors

import (
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
)

// Category is the kind of transport failure.
type Category string

const (
	CategoryNone              Category = ""
	CategoryTimeout           Category = "timeout"
	CategoryDNS               Category = "dns"
	CategoryConnectionRefused Category = "connection_refused"
	CategoryTLS               Category = "tls"
	CategoryServer            Category = "server"
	CategoryNotFound          Category = "not_found"
)

// Classify detects common network error types. It returns CategoryNone for
// errors that do not look transport related, such as Odoo faults.
func Classify(err error) Category {
	if err == nil {
		return CategoryNone
	}
	switch {
	case isTimeoutError(err):
		return CategoryTimeout
	case isDNSError(err):
		return CategoryDNS
	case isConnectionRefusedError(err):
		return CategoryConnectionRefused
	case isSSLError(err):
		return CategoryTLS
	case isNotFound(err.Error()):
		return CategoryNotFound
	case isServerError(err.Error()):
		return CategoryServer
	}
	return CategoryNone
}

func isTimeoutError(err error) bool {
	errStr := strings.ToLower(err.Error())
	if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such host")
}

func isConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) && errors.Is(opErr.Err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

func isSSLError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

// isNotFound matches the status line the xml-rpc client reports when the
// URL does not point at an Odoo server.
func isNotFound(errStr string) bool {
	return strings.Contains(errStr, "404")
}

func isServerError(errStr string) bool {
	lower := strings.ToLower(errStr)
	for _, s := range []string{"500", "502", "503", "504", "bad gateway", "service unavailable", "gateway timeout"} {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// Describe returns a short troubleshooting text for err when connecting to
// host. The result is empty when err is not a transport failure.
func Describe(err error, host string) string {
	var lines []string
	switch Classify(err) {
	case CategoryTimeout:
		lines = []string{
			"⏱️  Connection to " + host + " timed out.",
			"  • Check your network connection and VPN",
			"  • The server may be under heavy load",
		}
	case CategoryDNS:
		lines = []string{
			"🌐 Cannot resolve " + host + ".",
			"  • Check the url in your config file or ODOO_URL",
			"  • Check DNS settings and VPN",
		}
	case CategoryConnectionRefused:
		lines = []string{
			"🚫 " + host + " refused the connection.",
			"  • Is Odoo running and listening on that port?",
			"  • Check http vs https in the url",
		}
	case CategoryTLS:
		lines = []string{
			"🔒 Secure connection to " + host + " failed.",
			"  • Check the server certificate and your system clock",
			"  • Use http:// only for local development servers",
		}
	case CategoryNotFound:
		lines = []string{
			"❓ " + host + " has no XML-RPC endpoint at /xmlrpc/2.",
			"  • The url should be the Odoo base URL, without /web or /odoo",
		}
	case CategoryServer:
		lines = []string{
			"⚠️  " + host + " returned a server error.",
			"  • Check the Odoo server logs",
		}
	default:
		return ""
	}
	return strings.Join(lines, "\n")
}

// Present prints Describe to the pterm output when err is a transport
// failure. It reports whether anything was printed.
func Present(err error, rawURL string) bool {
	text := Describe(err, ExtractHostFromURL(rawURL))
	if text == "" {
		return false
	}
	pterm.Println()
	pterm.Println(text)
	pterm.Println()
	return true
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
