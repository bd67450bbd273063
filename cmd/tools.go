package cmd

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"odoomcp/cli/internal/tools"
)

var toolsOutput string

// toolsCmd prints the tool catalog offered to MCP clients.
var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the MCP tools",
	Long: `The tools command prints the catalog of tools the server registers, with
their arguments. It does not need a connection to Odoo.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printCatalog(cmd.OutOrStdout(), toolsOutput, tools.Catalog())
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
	toolsCmd.Flags().StringVarP(&toolsOutput, "output", "o", "table", "Output format: table, json or yaml")
}

func printCatalog(w io.Writer, format string, defs []tools.Definition) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(defs)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(defs); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		data := pterm.TableData{{"Tool", "Arguments", "Description"}}
		for _, d := range defs {
			data = append(data, []string{d.Name, formatParams(d.Params), d.Description})
		}
		return pterm.DefaultTable.WithHasHeader().WithWriter(w).WithData(data).Render()
	default:
		return errors.Newf("unknown output format %q (want table, json or yaml)", format)
	}
}

func formatParams(params []tools.Param) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		typ := p.Type
		if p.Items != "" {
			typ += "<" + p.Items + ">"
		}
		s := p.Name + ":" + typ
		if !p.Required {
			s += "?"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}
