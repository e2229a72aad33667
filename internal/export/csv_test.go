package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ledger/internal/core"

	"github.com/shopspring/decimal"
)

func sample() []core.Record {
	return []core.Record{
		{ID: core.NewID(), Date: core.NewDate(2025, 10, 1), Amount: decimal.RequireFromString("1200"), Currency: "JPY", Category: "餐饮", Note: "银座寿司套餐", Location: "东京"},
		{ID: core.NewID(), Date: core.NewDate(2025, 10, 2), Amount: decimal.RequireFromString("12.5"), Currency: "GBP", Category: "交通", Note: `bus, "night" line`, Location: "London"},
	}
}

func TestExportFileTwoRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := ExportFile(path, sample()); err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d:\n%s", len(lines), data)
	}
	if lines[0] != "Date,Amount,Currency,Category,Note,Location" {
		t.Fatalf("unexpected header %q", lines[0])
	}
	if lines[1] != "2025-10-01,1200,JPY,餐饮,银座寿司套餐,东京" {
		t.Fatalf("unexpected first row %q", lines[1])
	}
	if lines[2] != `2025-10-02,12.5,GBP,交通,"bus, ""night"" line",London` {
		t.Fatalf("unexpected second row %q", lines[2])
	}
}

func TestWriteCSVRoundTripsThroughReader(t *testing.T) {
	var buf bytes.Buffer
	recs := sample()
	if err := WriteCSV(&buf, recs); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[2][4] != recs[1].Note {
		t.Fatalf("note not preserved verbatim: %q", rows[2][4])
	}
}

func TestExportFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := os.WriteFile(path, []byte("old\nold\nold\nold\nold\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ExportFile(path, nil); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "Date,Amount,Currency,Category,Note,Location\n" {
		t.Fatalf("expected header only, got %q", data)
	}
}
