package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"ledger/internal/core"

	"github.com/shopspring/decimal"
)

// DefaultJSONPath is used when no path is configured.
const DefaultJSONPath = "expenses.json"

// JSONFile persists the collection as an indented JSON array.
type JSONFile struct {
	path string
}

// fileRecord is the on-disk shape of one record. Pointer fields tell a
// missing key apart from a zero value. Files without "id" are accepted.
type fileRecord struct {
	ID       string       `json:"id,omitempty"`
	Date     *string      `json:"date"`
	Amount   *json.Number `json:"amount"`
	Currency string       `json:"currency"`
	Category string       `json:"category"`
	Note     string       `json:"note"`
	Location string       `json:"location"`
}

func NewJSONFile(path string) *JSONFile {
	if path == "" {
		path = DefaultJSONPath
	}
	return &JSONFile{path: path}
}

func (f *JSONFile) Location() string { return f.path }

func (f *JSONFile) Close() error { return nil }

// Read implements Persister
func (f *JSONFile) Read(ctx context.Context) ([]core.Record, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}

	var raw []fileRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParse, f.path, err)
	}

	records := make([]core.Record, 0, len(raw))
	for i, fr := range raw {
		r, err := fr.toRecord()
		if err != nil {
			return nil, fmt.Errorf("%w: %s: record %d: %v", ErrParse, f.path, i, err)
		}
		records = append(records, r)
	}

	slog.DebugContext(ctx, "Ledger read from JSON file", "path", f.path, "count", len(records))
	return records, nil
}

// Write implements Persister
func (f *JSONFile) Write(ctx context.Context, records []core.Record) error {
	out := make([]fileRecord, len(records))
	for i, r := range records {
		out[i] = fromRecord(r)
	}

	err := WriteFileAtomic(f.path, 0o644, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}

	slog.DebugContext(ctx, "Ledger written to JSON file", "path", f.path, "count", len(records))
	return nil
}

func (fr fileRecord) toRecord() (core.Record, error) {
	if fr.Date == nil {
		return core.Record{}, errors.New("missing date")
	}
	if fr.Amount == nil {
		return core.Record{}, errors.New("missing amount")
	}
	d, err := core.ParseDate(*fr.Date)
	if err != nil {
		return core.Record{}, fmt.Errorf("date %q: %w", *fr.Date, err)
	}
	amount, err := decimal.NewFromString(fr.Amount.String())
	if err != nil {
		return core.Record{}, fmt.Errorf("amount %q: %w", fr.Amount.String(), err)
	}
	return core.Record{
		ID:       fr.ID,
		Date:     d,
		Amount:   amount,
		Currency: fr.Currency,
		Category: fr.Category,
		Note:     fr.Note,
		Location: fr.Location,
	}, nil
}

func fromRecord(r core.Record) fileRecord {
	date := r.Date.String()
	amount := json.Number(r.Amount.String())
	return fileRecord{
		ID:       r.ID,
		Date:     &date,
		Amount:   &amount,
		Currency: r.Currency,
		Category: r.Category,
		Note:     r.Note,
		Location: r.Location,
	}
}
