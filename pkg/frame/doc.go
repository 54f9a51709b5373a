// Package frame provides the in-memory table that pgframe loads into and
// reads out of PostgreSQL.
//
// A Frame is an ordered set of equally long columns. Each column declares one
// element Kind from a closed set:
//   - KindDateTime: time.Time values
//   - KindInt: int64 values
//   - KindBool: bool values
//   - KindFloat: float64 values
//   - KindObject: anything else (strings, Date, mixed values)
//
// A nil value is a SQL NULL in every kind.
//
// # Example Usage
//
//	f, err := frame.New(
//	    frame.Ints("id", 1, 2, 3),
//	    frame.Objects("name", "a", "b", "c"),
//	)
//
//	for i, row := range f.Rows() {
//	    fmt.Println(i, row)
//	}
//
// # Thread Safety
//
// A Frame is not safe for concurrent mutation. Read-only use from several
// goroutines is fine.
package frame
