package output

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/vvka-141/pgframe/pkg/frame"
)

var _ Formatter = (*Table)(nil)

// nullText marks NULL cells so they differ from empty strings.
const nullText = "NULL"

// Table renders an aligned, borderless text table with a row count footer.
type Table struct{}

func NewTable() *Table {
	return &Table{}
}

func (t *Table) Name() string {
	return "table"
}

func (t *Table) Format(f *frame.Frame, w io.Writer) error {
	tw := table.NewWriter()

	header := make(table.Row, 0, f.Width())
	for _, name := range f.Names() {
		header = append(header, name)
	}
	tw.AppendHeader(header)

	for _, row := range f.Rows() {
		cells := make(table.Row, len(row))
		for i, v := range row {
			if v == nil {
				cells[i] = nullText
				continue
			}
			cells[i] = frame.FormatValue(v)
		}
		tw.AppendRow(cells)
	}

	configs := make([]table.ColumnConfig, 0, f.Width())
	for i, col := range f.Columns() {
		if col.Kind == frame.KindInt || col.Kind == frame.KindFloat {
			configs = append(configs, table.ColumnConfig{Number: i + 1, Align: text.AlignRight})
		}
	}
	tw.SetColumnConfigs(configs)

	tw.SetStyle(table.StyleLight)
	tw.Style().Format = table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
	}
	tw.Style().Options.DrawBorder = false

	if _, err := io.WriteString(w, tw.Render()+"\n"); err != nil {
		return err
	}
	_, err := io.WriteString(w, rowCount(f.Len())+"\n")
	return err
}

func rowCount(n int) string {
	if n == 1 {
		return "(1 row)"
	}
	return fmt.Sprintf("(%d rows)", n)
}
