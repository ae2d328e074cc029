// Package export generates report files locally: tab-delimited text and
// HTML tables that spreadsheet tools open directly. Both start with a
// UTF-8 BOM so Arabic content renders correctly.
package export

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
)

// BOM is the UTF-8 byte order mark written ahead of every export.
const BOM = "\xEF\xBB\xBF"

// WriteTabDelimited writes headers and rows as tab-separated lines and
// returns the file path. The .xls extension keeps spreadsheet tools
// opening it with the BOM honored.
func WriteTabDelimited(dir, name string, headers []string, rows [][]string) (string, error) {
	var b strings.Builder
	b.WriteString(BOM)
	b.WriteString(strings.Join(headers, "\t"))
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString(strings.Join(sanitizeTabs(row), "\t"))
		b.WriteString("\n")
	}
	return writeFile(dir, name+".xls", b.String())
}

// WriteHTMLTable writes headers and rows as a minimal HTML table and
// returns the file path.
func WriteHTMLTable(dir, name string, headers []string, rows [][]string) (string, error) {
	var b strings.Builder
	b.WriteString(BOM)
	b.WriteString("<html><head><meta charset=\"utf-8\"></head><body><table border=\"1\">\n")
	b.WriteString("<tr>")
	for _, h := range headers {
		fmt.Fprintf(&b, "<th>%s</th>", html.EscapeString(h))
	}
	b.WriteString("</tr>\n")
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(&b, "<td>%s</td>", html.EscapeString(cell))
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table></body></html>\n")
	return writeFile(dir, name+".html", b.String())
}

func writeFile(dir, name, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

// sanitizeTabs keeps embedded tabs and newlines from corrupting the
// column structure.
func sanitizeTabs(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		cell = strings.ReplaceAll(cell, "\t", " ")
		cell = strings.ReplaceAll(cell, "\n", " ")
		out[i] = cell
	}
	return out
}
