package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"odoomcp/cli/internal/audit"
)

var (
	auditDSN   string
	auditLimit int
)

// auditCmd lists the most recent recorded invocations.
var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show recent tool invocations recorded by serve --audit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := audit.Open(cmd.Context(), auditDSN)
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Recent(cmd.Context(), auditLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No invocations recorded yet")
			return nil
		}

		data := pterm.TableData{{"Time", "Tool", "Model", "OK", "Duration", "Message"}}
		for _, e := range entries {
			data = append(data, []string{
				e.CreatedAt.Local().Format(time.DateTime),
				e.Tool,
				e.Model,
				fmt.Sprint(e.OK),
				e.Duration.Round(time.Millisecond).String(),
				firstLine(e.Message, 60),
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(data).Render()
	},
}

func firstLine(s string, max int) string {
	s, _, _ = strings.Cut(s, "\n")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.Flags().StringVar(&auditDSN, "dsn", "", "Audit store DSN (defaults to the SQLite file in the state directory)")
	auditCmd.Flags().IntVarP(&auditLimit, "limit", "n", 20, "Number of entries to show")
}
