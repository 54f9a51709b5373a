package frame

import (
	"fmt"
	"time"
)

// Kind is the declared element type of a column.
type Kind int

const (
	KindObject Kind = iota
	KindDateTime
	KindInt
	KindBool
	KindFloat
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindDateTime:
		return "datetime"
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindFloat:
		return "float"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// IsValid returns true if the kind is one of the defined values.
func (k Kind) IsValid() bool {
	return k >= KindObject && k <= KindFloat
}

const dateLayout = "2006-01-02"

// Date is a calendar date without time of day or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the date on which t occurs in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses an ISO 8601 date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// String returns the date in YYYY-MM-DD form.
func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

// Time returns midnight UTC at the start of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// normalize converts v to the canonical Go type for kind.
// Values that cannot be represented return ok=false.
func normalize(kind Kind, v any) (any, bool) {
	if v == nil {
		return nil, true
	}
	switch kind {
	case KindInt:
		switch n := v.(type) {
		case int64:
			return n, true
		case int:
			return int64(n), true
		case int8:
			return int64(n), true
		case int16:
			return int64(n), true
		case int32:
			return int64(n), true
		case uint8:
			return int64(n), true
		case uint16:
			return int64(n), true
		case uint32:
			return int64(n), true
		}
	case KindFloat:
		switch n := v.(type) {
		case float64:
			return n, true
		case float32:
			return float64(n), true
		}
	case KindBool:
		if b, ok := v.(bool); ok {
			return b, true
		}
	case KindDateTime:
		switch t := v.(type) {
		case time.Time:
			return t, true
		case *time.Time:
			if t == nil {
				return nil, true
			}
			return *t, true
		}
	case KindObject:
		return v, true
	}
	return nil, false
}
