package output

import (
	"io"

	"github.com/vvka-141/pgframe/pkg/frame"
)

var _ Formatter = (*CSV)(nil)

// CSV writes delimited text with a header row.
type CSV struct {
	comma rune
}

func NewCSV(comma rune) *CSV {
	return &CSV{comma: comma}
}

func (c *CSV) Name() string {
	if c.comma == '\t' {
		return "tsv"
	}
	return "csv"
}

func (c *CSV) Format(f *frame.Frame, w io.Writer) error {
	return f.WriteCSV(w, c.comma)
}
