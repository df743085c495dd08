package models

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// DateLayout is the storage and display format for calendar dates
const DateLayout = "2006-01-02"

// Date is a calendar date without time of day, kept at UTC midnight
type Date struct {
	time.Time
}

// NewDate builds a Date from its parts
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses a YYYY-MM-DD string
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t}, nil
}

// Ptr returns a pointer to a copy of d
func (d Date) Ptr() *Date {
	return &d
}

// AddDays returns the date n calendar days later; n may be negative
func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

// AddWeeks returns the date n weeks later
func (d Date) AddWeeks(n int) Date {
	return d.AddDays(7 * n)
}

// String formats d as YYYY-MM-DD
func (d Date) String() string {
	return d.Format(DateLayout)
}

// Value implements driver.Valuer
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements sql.Scanner
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.parseInto(v)
	case []byte:
		return d.parseInto(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) parseInto(s string) error {
	// Drivers may hand back a full timestamp for date columns
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalYAML() (any, error) {
	return d.String(), nil
}

// FormatDate renders an optional date, using fallback when it is nil
func FormatDate(d *Date, fallback string) string {
	if d == nil {
		return fallback
	}
	return d.String()
}
