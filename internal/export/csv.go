// Package export renders ledger records as CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"ledger/internal/core"
	"ledger/internal/storage"
)

// DefaultPath is the export target when none is given.
const DefaultPath = "expenses.csv"

// Header is the fixed first row of every export.
var Header = []string{"Date", "Amount", "Currency", "Category", "Note", "Location"}

// WriteCSV writes the header and one row per record, in the given order.
func WriteCSV(w io.Writer, records []core.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.Date.String(),
			r.Amount.String(),
			r.Currency,
			r.Category,
			r.Note,
			r.Location,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFile overwrites path with the CSV rendering of records.
func ExportFile(path string, records []core.Record) error {
	if path == "" {
		path = DefaultPath
	}
	if err := storage.WriteFileAtomic(path, 0o644, func(w io.Writer) error {
		return WriteCSV(w, records)
	}); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}
