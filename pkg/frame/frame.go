package frame

import (
	"errors"
	"fmt"
	"iter"
)

// ErrShape indicates columns that cannot form a frame: unequal lengths,
// duplicate or empty names, or values that do not match the declared kind.
var ErrShape = errors.New("invalid frame shape")

// Column is a named, typed sequence of values. A nil value is NULL.
type Column struct {
	Name   string
	Kind   Kind
	Values []any
}

// Len returns the number of values in the column.
func (c *Column) Len() int {
	return len(c.Values)
}

// Ints builds a KindInt column.
func Ints(name string, values ...int64) *Column {
	vs := make([]any, len(values))
	for i, v := range values {
		vs[i] = v
	}
	return &Column{Name: name, Kind: KindInt, Values: vs}
}

// Floats builds a KindFloat column.
func Floats(name string, values ...float64) *Column {
	vs := make([]any, len(values))
	for i, v := range values {
		vs[i] = v
	}
	return &Column{Name: name, Kind: KindFloat, Values: vs}
}

// Bools builds a KindBool column.
func Bools(name string, values ...bool) *Column {
	vs := make([]any, len(values))
	for i, v := range values {
		vs[i] = v
	}
	return &Column{Name: name, Kind: KindBool, Values: vs}
}

// Objects builds a KindObject column. Values may be of any type, including nil.
func Objects(name string, values ...any) *Column {
	return &Column{Name: name, Kind: KindObject, Values: append([]any(nil), values...)}
}

// Frame is an ordered collection of equally long columns.
type Frame struct {
	columns []*Column
	index   map[string]int
}

// New assembles a frame from columns. Values are normalized in place to the
// canonical Go type of their column's kind (e.g. int32 becomes int64).
func New(columns ...*Column) (*Frame, error) {
	f := &Frame{
		columns: make([]*Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}

	for i, col := range columns {
		if col == nil {
			return nil, fmt.Errorf("column %d is nil: %w", i, ErrShape)
		}
		if col.Name == "" {
			return nil, fmt.Errorf("column %d has no name: %w", i, ErrShape)
		}
		if _, dup := f.index[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q: %w", col.Name, ErrShape)
		}
		if !col.Kind.IsValid() {
			return nil, fmt.Errorf("column %q has invalid kind %v: %w", col.Name, col.Kind, ErrShape)
		}
		if i > 0 && col.Len() != columns[0].Len() {
			return nil, fmt.Errorf("column %q has %d values, want %d: %w",
				col.Name, col.Len(), columns[0].Len(), ErrShape)
		}
		for row, v := range col.Values {
			nv, ok := normalize(col.Kind, v)
			if !ok {
				return nil, fmt.Errorf("column %q row %d: %T is not a %s value: %w",
					col.Name, row, v, col.Kind, ErrShape)
			}
			col.Values[row] = nv
		}

		f.index[col.Name] = len(f.columns)
		f.columns = append(f.columns, col)
	}

	return f, nil
}

// MustNew is like New but panics on error. Intended for tests and literals.
func MustNew(columns ...*Column) *Frame {
	f, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return f
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if len(f.columns) == 0 {
		return 0
	}
	return f.columns[0].Len()
}

// Width returns the number of columns.
func (f *Frame) Width() int {
	return len(f.columns)
}

// Columns returns the columns in order. The slice is a copy; the columns are not.
func (f *Frame) Columns() []*Column {
	return append([]*Column(nil), f.columns...)
}

// Names returns the column names in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.columns))
	for i, c := range f.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name.
func (f *Frame) Column(name string) (*Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.columns[i], true
}

// Row returns the values of row i in column order.
// Panics if i is out of range, like a slice index.
func (f *Frame) Row(i int) []any {
	row := make([]any, len(f.columns))
	for c, col := range f.columns {
		row[c] = col.Values[i]
	}
	return row
}

// Rows iterates over rows in order, yielding the row index and its values.
func (f *Frame) Rows() iter.Seq2[int, []any] {
	return func(yield func(int, []any) bool) {
		for i := 0; i < f.Len(); i++ {
			if !yield(i, f.Row(i)) {
				return
			}
		}
	}
}

// Clone returns a frame with copied column headers and value slices.
// Values themselves are shared.
func (f *Frame) Clone() *Frame {
	out := &Frame{
		columns: make([]*Column, len(f.columns)),
		index:   make(map[string]int, len(f.index)),
	}
	for i, c := range f.columns {
		out.columns[i] = &Column{
			Name:   c.Name,
			Kind:   c.Kind,
			Values: append([]any(nil), c.Values...),
		}
		out.index[c.Name] = i
	}
	return out
}
