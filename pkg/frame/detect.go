package frame

import (
	"strconv"
	"strings"
	"time"
)

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
}

// parseDateTime accepts the layouts pandas and PostgreSQL commonly emit.
func parseDateTime(s string) (time.Time, bool) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// detectColumn converts raw text cells into typed values. A nil cell is NULL.
// The first kind that parses every non-NULL cell wins, in order:
// int, float, bool, datetime, date (as KindObject of Date), text (KindObject).
func detectColumn(cells []*string) (Kind, []any) {
	candidates := []struct {
		kind  Kind
		parse func(string) (any, bool)
	}{
		{KindInt, func(s string) (any, bool) {
			n, err := strconv.ParseInt(s, 10, 64)
			return n, err == nil
		}},
		{KindFloat, func(s string) (any, bool) {
			n, err := strconv.ParseFloat(s, 64)
			return n, err == nil
		}},
		{KindBool, func(s string) (any, bool) { return parseBool(s) }},
		{KindDateTime, func(s string) (any, bool) { return parseDateTime(s) }},
		{KindObject, func(s string) (any, bool) {
			d, err := ParseDate(s)
			return d, err == nil
		}},
	}

	values := make([]any, len(cells))
	allNull := true
	for _, c := range cells {
		if c != nil {
			allNull = false
			break
		}
	}
	if allNull {
		return KindObject, values
	}

next:
	for _, cand := range candidates {
		for i, c := range cells {
			if c == nil {
				values[i] = nil
				continue
			}
			v, ok := cand.parse(*c)
			if !ok {
				continue next
			}
			values[i] = v
		}
		return cand.kind, values
	}

	for i, c := range cells {
		if c != nil {
			values[i] = *c
		} else {
			values[i] = nil
		}
	}
	return KindObject, values
}
