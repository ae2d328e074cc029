package export

import (
	"os"
	"strings"
	"testing"
)

func TestTabDelimitedExport(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteTabDelimited(dir, "payments-report",
		[]string{"ID", "Amount", "الحالة"},
		[][]string{
			{"1", "50.00", "مكتمل"},
			{"2", "30.00", "pending"},
		},
	)
	if err != nil {
		t.Fatalf("WriteTabDelimited failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	content := string(data)

	if !strings.HasPrefix(content, BOM) {
		t.Fatalf("export must start with UTF-8 BOM")
	}
	lines := strings.Split(strings.TrimPrefix(content, BOM), "\n")
	if lines[0] != "ID\tAmount\tالحالة" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "1\t50.00\tمكتمل" {
		t.Fatalf("unexpected row: %q", lines[1])
	}
	if !strings.HasSuffix(path, ".xls") {
		t.Fatalf("unexpected extension: %s", path)
	}
}

func TestTabDelimitedSanitizesCells(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteTabDelimited(dir, "r", []string{"A"}, [][]string{{"with\ttab\nand newline"}})
	if err != nil {
		t.Fatalf("WriteTabDelimited failed: %v", err)
	}
	data, _ := os.ReadFile(path)
	if strings.Count(string(data), "\t") != 0 {
		t.Fatalf("embedded tabs must be replaced: %q", data)
	}
}

func TestHTMLTableExport(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteHTMLTable(dir, "report",
		[]string{"Name"},
		[][]string{{"<script>alert(1)</script>"}},
	)
	if err != nil {
		t.Fatalf("WriteHTMLTable failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	content := string(data)

	if !strings.HasPrefix(content, BOM) {
		t.Fatalf("export must start with UTF-8 BOM")
	}
	if strings.Contains(content, "<script>") {
		t.Fatalf("cell content must be escaped")
	}
	if !strings.Contains(content, "&lt;script&gt;") {
		t.Fatalf("expected escaped cell, got %q", content)
	}
	if !strings.Contains(content, "<th>Name</th>") {
		t.Fatalf("missing header cell")
	}
	_ = path
}
