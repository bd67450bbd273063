// Package main is the entry point for odoo-mcp, an MCP server that proxies
// a fixed set of record operations to Odoo over XML-RPC.
package main

import (
	"odoomcp/cli/cmd"
)

func main() {
	cmd.Execute()
}
