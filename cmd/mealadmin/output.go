package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mealdash/mealadmin/internal/api"
	"github.com/mealdash/mealadmin/internal/i18n"
	"github.com/mealdash/mealadmin/internal/mutate"
)

func getTerminalWidth() int {
	// Try to get terminal width from stdout
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	// Default width if terminal size cannot be determined
	return 80
}

// renderTable prints rows with go-pretty. Cells are truncated to a per
// column budget derived from the terminal width; runewidth keeps Arabic
// and other wide content aligned.
func renderTable(cmd *cobra.Command, headers []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)

	// Reserve space for table borders and padding (roughly 3 chars per
	// column), then spread the rest evenly.
	termWidth := getTerminalWidth()
	budget := (termWidth - len(headers)*3) / len(headers)
	if budget < 8 {
		budget = 8
	}

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	t.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			if runewidth.StringWidth(cell) > budget {
				cell = runewidth.Truncate(cell, budget, "...")
			}
			r[i] = cell
		}
		t.AppendRow(r)
	}

	t.Render()
}

// renderPageFooter prints the pagination line below a table.
func renderPageFooter(cmd *cobra.Command, page api.Pagination) {
	if page.TotalPages <= 1 {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d (%d total)\n", page.CurrentPage, page.TotalPages, page.Total)
}

func outputJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// availabilityLabel renders a meal's availability flag in the active
// language.
func availabilityLabel(lang i18n.Lang, available bool) string {
	if available {
		return i18n.T(lang, "available")
	}
	return i18n.T(lang, "unavailable")
}

// statusLabel renders an active flag (restaurants, users) in the active
// language.
func statusLabel(lang i18n.Lang, active bool) string {
	if active {
		return i18n.T(lang, "active")
	}
	return i18n.T(lang, "inactive")
}

// mutationError localizes a mutation failure. A declined confirmation is
// not an error; it reports cancellation and ends the command cleanly.
func mutationError(cmd *cobra.Command, lang i18n.Lang, err error) error {
	if errors.Is(err, mutate.ErrDeclined) {
		fmt.Fprintln(cmd.OutOrStdout(), i18n.T(lang, "cancelled"))
		return nil
	}
	return fmt.Errorf("%s: %w", i18n.T(lang, "operation_failed"), err)
}

// reportMutation prints the localized outcome of a mutation. successKey
// names the catalog entry printed on success (created, updated, deleted,
// refunded).
func reportMutation(cmd *cobra.Command, lang i18n.Lang, err error, successKey string) error {
	if err != nil {
		return mutationError(cmd, lang, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), i18n.T(lang, successKey))
	return nil
}

// renderList dispatches on the --format flag.
func renderList(cmd *cobra.Command, format string, headers []string, rows [][]string, page api.Pagination, jsonValue any) error {
	switch format {
	case "json":
		return outputJSON(cmd, jsonValue)
	case "table":
		renderTable(cmd, headers, rows)
		renderPageFooter(cmd, page)
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid values: table, json)", format)
	}
}
