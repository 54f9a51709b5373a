package output

import (
	"io"

	"github.com/vvka-141/pgframe/pkg/frame"
)

var _ Formatter = (*JSON)(nil)

// JSON writes an array of row objects.
type JSON struct{}

func NewJSON() *JSON {
	return &JSON{}
}

func (j *JSON) Name() string {
	return "json"
}

func (j *JSON) Format(f *frame.Frame, w io.Writer) error {
	return f.WriteJSON(w)
}
