package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"ledger/internal/core"

	"github.com/shopspring/decimal"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestLoggerJSONIncludesComponentAndRecordFields(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: "json", Component: ComponentApp, Output: &buf}).
		WithComponent(ComponentLedger)

	r := core.Record{ID: "r1", Date: core.NewDate(2025, 1, 2), Amount: decimal.RequireFromString("3.5"), Currency: "GBP", Category: "购物"}
	logger.Info("Record added", NewFields().WithOperation(OpCreate).WithRecord(r).WithError(errors.New("none")).ToSlice()...)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json log line %q: %v", buf.String(), err)
	}
	want := map[string]any{
		FieldComponent: ComponentLedger,
		FieldOperation: OpCreate,
		FieldRecordID:  "r1",
		FieldDate:      "2025-01-02",
		FieldAmount:    "3.5",
		FieldCurrency:  "GBP",
		FieldError:     "none",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("field %s = %v, want %v", k, entry[k], v)
		}
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelWarn, Component: ComponentStorage, Output: &buf})
	logger.Info("hidden")
	logger.Warn("shown", FieldPath, "expenses.json")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output %q", out)
	}
	if !strings.Contains(out, "component=storage") {
		t.Fatalf("component missing from %q", out)
	}
}
