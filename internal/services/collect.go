package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/vvka-141/pgframe/pkg/frame"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// kindForOID maps a result column's type to the frame kind it is read into.
func kindForOID(oid uint32) frame.Kind {
	switch oid {
	case pgtype.Int2OID, pgtype.Int4OID, pgtype.Int8OID:
		return frame.KindInt
	case pgtype.Float4OID, pgtype.Float8OID, pgtype.NumericOID:
		return frame.KindFloat
	case pgtype.BoolOID:
		return frame.KindBool
	case pgtype.TimestampOID, pgtype.TimestamptzOID:
		return frame.KindDateTime
	default:
		return frame.KindObject
	}
}

// cellValue converts a decoded value to the canonical Go type for kind.
// ok is false when the value does not fit kind, e.g. 'infinity'::timestamp,
// in which case the column is read as KindObject instead.
func cellValue(oid uint32, kind frame.Kind, v any) (any, bool) {
	if v == nil {
		return nil, true
	}
	switch kind {
	case frame.KindFloat:
		if n, isNumeric := v.(pgtype.Numeric); isNumeric {
			f, err := n.Float64Value()
			if err != nil || !f.Valid {
				return nil, false
			}
			return f.Float64, true
		}
	case frame.KindObject:
		switch x := v.(type) {
		case time.Time:
			if oid == pgtype.DateOID {
				return frame.DateOf(x), true
			}
		case [16]byte:
			if oid == pgtype.UUIDOID {
				return uuid.UUID(x).String(), true
			}
		}
	}
	return v, true
}

// collectFrame drains rows into a frame. Duplicate result column names get a
// numeric suffix ("?column?", "?column?_1") because frame names are unique.
func collectFrame(rows pgframe.Rows) (*frame.Frame, error) {
	fields := rows.FieldDescriptions()
	columns := make([]*frame.Column, len(fields))
	demoted := make([]bool, len(fields))
	raw := make([][]any, len(fields))

	seen := make(map[string]int, len(fields))
	for i, fd := range fields {
		columns[i] = &frame.Column{Name: uniqueName(seen, fd.Name), Kind: kindForOID(fd.DataTypeOID)}
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to decode row: %w: %w", pgframe.ErrBackend, err)
		}
		for i, v := range values {
			raw[i] = append(raw[i], v)
			cv, ok := cellValue(fields[i].DataTypeOID, columns[i].Kind, v)
			if !ok {
				demoted[i] = true
			}
			columns[i].Values = append(columns[i].Values, cv)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query failed: %w: %w", pgframe.ErrBackend, err)
	}

	for i, col := range columns {
		if demoted[i] {
			col.Kind = frame.KindObject
			col.Values = raw[i]
		}
		// a value the driver decoded into an unexpected Go type stays an object
		if _, err := frame.New(col); err != nil {
			col.Kind = frame.KindObject
		}
	}

	f, err := frame.New(columns...)
	if err != nil {
		return nil, fmt.Errorf("failed to build result: %w: %w", pgframe.ErrDataShape, err)
	}
	return f, nil
}

func uniqueName(seen map[string]int, name string) string {
	n, dup := seen[name]
	seen[name] = n + 1
	if !dup {
		return name
	}
	candidate := name + "_" + strconv.Itoa(n)
	if _, taken := seen[candidate]; taken {
		return uniqueName(seen, candidate)
	}
	seen[candidate] = 1
	return candidate
}
