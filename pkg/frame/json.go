package frame

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/goccy/go-json"
)

// ReadJSON reads either a JSON array of objects or JSON Lines (one object per
// line). Columns appear in the order their keys are first seen; a key missing
// from an object is NULL in that row and a repeated key keeps its last value.
//
// Column kinds: all integers -> KindInt, numbers -> KindFloat, booleans ->
// KindBool, strings are detected like CSV cells, anything else -> KindObject
// with nested values re-encoded as JSON text.
func ReadJSON(r io.Reader) (*Frame, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("input is empty: %w", ErrShape)
		}
		return nil, err
	}

	var records []json.RawMessage
	if first == '[' {
		if err := json.NewDecoder(br).Decode(&records); err != nil {
			return nil, fmt.Errorf("failed to decode JSON array: %w", err)
		}
	} else {
		dec := json.NewDecoder(br)
		for dec.More() {
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, fmt.Errorf("failed to decode JSON line %d: %w", len(records)+1, err)
			}
			records = append(records, raw)
		}
	}

	var names []string
	cols := map[string][]any{}
	for row, raw := range records {
		keys, values, err := decodeObject(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", row+1, err)
		}
		for i, key := range keys {
			if _, seen := cols[key]; !seen {
				names = append(names, key)
				cols[key] = make([]any, row, len(records))
			}
			if len(cols[key]) > row {
				// repeated key: last one wins
				cols[key][row] = values[i]
				continue
			}
			cols[key] = append(cols[key], values[i])
		}
		for _, name := range names {
			if len(cols[name]) == row {
				cols[name] = append(cols[name], nil)
			}
		}
	}

	columns := make([]*Column, len(names))
	for i, name := range names {
		kind, values, err := jsonColumn(cols[name])
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		columns[i] = &Column{Name: name, Kind: kind, Values: values}
	}
	return New(columns...)
}

// WriteJSON writes the frame as a JSON array of objects with keys in column order.
func (f *Frame) WriteJSON(w io.Writer) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range f.Rows() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString("\n  {")
		for c, v := range row {
			if c > 0 {
				buf.WriteString(", ")
			}
			key, err := json.Marshal(f.columns[c].Name)
			if err != nil {
				return err
			}
			val, err := json.Marshal(jsonValue(v))
			if err != nil {
				return fmt.Errorf("column %q: %w", f.columns[c].Name, err)
			}
			buf.Write(key)
			buf.WriteString(": ")
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	if f.Len() > 0 {
		buf.WriteByte('\n')
	}
	buf.WriteString("]\n")
	_, err := w.Write(buf.Bytes())
	return err
}

func jsonValue(v any) any {
	switch x := v.(type) {
	case nil, string, int64, bool:
		return x
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return FormatValue(x)
		}
		return x
	default:
		return FormatValue(x)
	}
}

func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return b, br.UnreadByte()
	}
}

// decodeObject returns the keys of one JSON object in document order.
func decodeObject(raw json.RawMessage) ([]string, []any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected a JSON object: %w", ErrShape)
	}

	var keys []string
	var values []any
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected token %v: %w", tok, ErrShape)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("key %q: %w", key, err)
		}
		keys = append(keys, key)
		values = append(values, v)
	}
	return keys, values, nil
}

func jsonColumn(raw []any) (Kind, []any, error) {
	var nInt, nNum, nBool, nStr, nOther, nNull int
	for _, v := range raw {
		switch x := v.(type) {
		case nil:
			nNull++
		case json.Number:
			if _, err := x.Int64(); err == nil {
				nInt++
			} else {
				nNum++
			}
		case bool:
			nBool++
		case string:
			nStr++
		default:
			nOther++
		}
	}
	total := len(raw) - nNull
	values := make([]any, len(raw))

	switch {
	case total == 0:
		return KindObject, values, nil
	case nInt == total:
		for i, v := range raw {
			if v != nil {
				values[i], _ = v.(json.Number).Int64()
			}
		}
		return KindInt, values, nil
	case nInt+nNum == total:
		for i, v := range raw {
			if v != nil {
				f, err := v.(json.Number).Float64()
				if err != nil {
					return 0, nil, err
				}
				values[i] = f
			}
		}
		return KindFloat, values, nil
	case nBool == total:
		copy(values, raw)
		return KindBool, values, nil
	case nStr == total:
		cells := make([]*string, len(raw))
		for i, v := range raw {
			if s, ok := v.(string); ok {
				cells[i] = &s
			}
		}
		kind, detected := detectColumn(cells)
		return kind, detected, nil
	}

	for i, v := range raw {
		switch x := v.(type) {
		case nil:
		case string:
			values[i] = x
		case json.Number:
			values[i] = x.String()
		default:
			b, err := json.Marshal(x)
			if err != nil {
				return 0, nil, err
			}
			values[i] = string(b)
		}
	}
	return KindObject, values, nil
}
