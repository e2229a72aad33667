package core

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the on-disk and export representation of a Date.
const DateLayout = "2006-01-02"

type (
	// Date is a calendar day without time of day, stored at UTC midnight.
	Date struct {
		time.Time
	}

	// Record is one travel expense.
	Record struct {
		ID       string
		Date     Date
		Amount   decimal.Decimal
		Currency string
		Category string
		Note     string
		Location string
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyID       = errors.New("empty record id")
)

// Suggestions offered by input forms. Records are not restricted to these.
var (
	DefaultCurrencies = []string{"JPY", "CNY", "GBP"}
	DefaultCategories = []string{"餐饮", "交通", "住宿", "门票", "购物"}
)

// NewID returns a fresh record identifier.
func NewID() string {
	return uuid.New().String()
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf drops the time of day from t, keeping its calendar day in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// Today returns the calendar day of now(). It is evaluated on every call.
func Today(now func() time.Time) Date {
	if now == nil {
		now = time.Now
	}
	return DateOf(now())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Validate checks the fields every stored record must carry.
// Currency, category, note and location are free-form.
func (r Record) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return ErrEmptyID
	}
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if r.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// SameContent reports whether two records carry the same values,
// comparing amounts numerically.
func (r Record) SameContent(o Record) bool {
	return r.ID == o.ID &&
		r.Date.Equal(o.Date.Time) &&
		r.Amount.Equal(o.Amount) &&
		r.Currency == o.Currency &&
		r.Category == o.Category &&
		r.Note == o.Note &&
		r.Location == o.Location
}
