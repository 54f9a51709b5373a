package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
)

// CSVOptions controls ReadCSV.
type CSVOptions struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune

	// NullValues lists cell texts read as NULL. The empty cell is always NULL.
	NullValues []string
}

// ReadCSV reads a delimited file whose first record is the header and infers
// a kind for every column from its cells.
func ReadCSV(r io.Reader, opts CSVOptions) (*Frame, error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	if cr.Comma == '\t' {
		cr.LazyQuotes = true
	}

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("input has no header row: %w", ErrShape)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cells := make([][]*string, len(header))
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		for i := range header {
			s := record[i]
			if s == "" || slices.Contains(opts.NullValues, s) {
				cells[i] = append(cells[i], nil)
				continue
			}
			cells[i] = append(cells[i], &s)
		}
	}

	columns := make([]*Column, len(header))
	for i, name := range header {
		kind, values := detectColumn(cells[i])
		columns[i] = &Column{Name: name, Kind: kind, Values: values}
	}
	return New(columns...)
}

// WriteCSV writes the frame with a header row. NULL becomes the empty cell.
func (f *Frame) WriteCSV(w io.Writer, comma rune) error {
	cw := csv.NewWriter(w)
	if comma != 0 {
		cw.Comma = comma
	}
	if err := cw.Write(f.Names()); err != nil {
		return err
	}
	record := make([]string, f.Width())
	for _, row := range f.Rows() {
		for i, v := range row {
			record[i] = FormatValue(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
