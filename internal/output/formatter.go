package output

import (
	"fmt"
	"io"
	"sort"

	"github.com/vvka-141/pgframe/pkg/frame"
	"github.com/vvka-141/pgframe/pkg/pgframe"
)

// Formatter writes a frame to w in one output format.
type Formatter interface {
	Name() string
	Format(f *frame.Frame, w io.Writer) error
}

var formatters = map[string]func() Formatter{
	"table": func() Formatter { return NewTable() },
	"csv":   func() Formatter { return NewCSV(',') },
	"tsv":   func() Formatter { return NewCSV('\t') },
	"json":  func() Formatter { return NewJSON() },
}

// ForName returns the formatter registered under name.
func ForName(name string) (Formatter, error) {
	newFormatter, ok := formatters[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (choose from %v): %w", name, Names(), pgframe.ErrInvalidConfig)
	}
	return newFormatter(), nil
}

// Names lists the registered formats, sorted.
func Names() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
