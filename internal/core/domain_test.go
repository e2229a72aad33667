package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-02-29 ")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.String() != "2024-02-29" {
		t.Fatalf("unexpected date %s", d)
	}
	for _, in := range []string{"", "2024-13-01", "29/02/2024", "2023-02-29"} {
		if _, err := ParseDate(in); err == nil {
			t.Fatalf("%q expected error", in)
		}
	}
}

func TestTodayIsEvaluatedPerCall(t *testing.T) {
	now := time.Date(2025, 3, 1, 23, 59, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	if got := Today(clock).String(); got != "2025-03-01" {
		t.Fatalf("expected 2025-03-01, got %s", got)
	}
	now = now.Add(2 * time.Minute)
	if got := Today(clock).String(); got != "2025-03-02" {
		t.Fatalf("expected 2025-03-02 after midnight, got %s", got)
	}
}

func TestRecordValidate(t *testing.T) {
	good := Record{
		ID:       NewID(),
		Date:     NewDate(2025, 1, 1),
		Amount:   decimal.NewFromInt(100),
		Currency: "JPY",
		Category: "餐饮",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	zero := good
	zero.Amount = decimal.Zero
	if err := zero.Validate(); err != nil {
		t.Fatalf("zero amount should be valid, got %v", err)
	}

	bads := []Record{
		{ID: "", Date: NewDate(2025, 1, 1), Amount: decimal.NewFromInt(1)},
		{ID: "a", Date: Date{}, Amount: decimal.NewFromInt(1)},
		{ID: "a", Date: NewDate(2025, 1, 1), Amount: decimal.NewFromInt(-1)},
	}
	for i, r := range bads {
		if err := r.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestNewIDUnique(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 1000; i++ {
		id := NewID()
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = struct{}{}
	}
}
