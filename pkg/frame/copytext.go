package frame

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is how datetime values are rendered for the server and for display.
const TimestampLayout = "2006-01-02 15:04:05.999999"

const copyNull = `\N`

var copyEscaper = strings.NewReplacer(
	`\`, `\\`,
	"\t", `\t`,
	"\n", `\n`,
	"\r", `\r`,
)

// WriteCopyText serializes every row as PostgreSQL COPY text format:
// tab-separated, no header, no row index, \N for NULL, one line per row.
func (f *Frame) WriteCopyText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i := 0; i < f.Len(); i++ {
		for c, col := range f.columns {
			if c > 0 {
				if err := bw.WriteByte('\t'); err != nil {
					return err
				}
			}
			if _, err := bw.WriteString(copyField(col.Values[i])); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func copyField(v any) string {
	if v == nil {
		return copyNull
	}
	if b, ok := v.([]byte); ok {
		// bytea hex input; the backslash itself must survive COPY unescaping
		return `\\x` + hex.EncodeToString(b)
	}
	if b, ok := v.(bool); ok {
		// Bool columns map to BIGINT. "1"/"0" is also valid boolean input.
		if b {
			return "1"
		}
		return "0"
	}
	return copyEscaper.Replace(FormatValue(v))
}

// FormatValue renders a cell as text. NULL renders as the empty string.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(TimestampLayout)
	case Date:
		return x.String()
	case []byte:
		return `\x` + hex.EncodeToString(x)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
