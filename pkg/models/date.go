package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// PresentSentinel marks an experience that has not ended.
const PresentSentinel = "Present"

// Date is a calendar day without time of day or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate accepts "2006-01-02" and, for clients that send full timestamps,
// any RFC 3339 value (only its date part is kept).
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return DateOf(t), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

func (d Date) IsZero() bool { return d == Date{} }

// Valid reports whether d names a real calendar day.
func (d Date) Valid() bool {
	if d.Month < time.January || d.Month > time.December || d.Day < 1 {
		return false
	}
	return DateOf(d.Time()) == d
}

func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	v, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// Value stores dates as ISO text, which both sqlite TEXT and postgres DATE accept.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) scanString(s string) error {
	if s == "" {
		*d = Date{}
		return nil
	}
	v, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// EndDate is either a concrete day or the "Present" sentinel.
type EndDate struct {
	On      Date
	Present bool
}

func EndOn(d Date) EndDate { return EndDate{On: d} }

// ParseEndDate accepts "Present" (exact spelling) or a date.
func ParseEndDate(s string) (EndDate, error) {
	if s == PresentSentinel {
		return EndDate{Present: true}, nil
	}
	d, err := ParseDate(s)
	if err != nil {
		return EndDate{}, fmt.Errorf("end date must be %q or YYYY-MM-DD, got %q", PresentSentinel, s)
	}
	return EndDate{On: d}, nil
}

// MustEndDate is ParseEndDate for generated content files; it panics on bad input.
func MustEndDate(s string) EndDate {
	e, err := ParseEndDate(s)
	if err != nil {
		panic(err)
	}
	return e
}

func (e EndDate) IsZero() bool { return !e.Present && e.On.IsZero() }

func (e EndDate) String() string {
	if e.Present {
		return PresentSentinel
	}
	return e.On.String()
}

func (e EndDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

func (e *EndDate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("end date must be a string: %w", err)
	}
	if s == "" {
		*e = EndDate{}
		return nil
	}
	v, err := ParseEndDate(s)
	if err != nil {
		return err
	}
	*e = v
	return nil
}
