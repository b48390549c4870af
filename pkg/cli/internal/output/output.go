// Package output provides common output formatting utilities.
package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// JSON writes indented JSON to w.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// JSONPath writes the values selected by the JSONPath expression path from
// the JSON form of v, as an indented JSON array.
func JSONPath(w io.Writer, v any, path string) error {
	x, err := jp.ParseString(path)
	if err != nil {
		return fmt.Errorf("invalid jsonpath %q: %w", path, err)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	doc, err := oj.Parse(data)
	if err != nil {
		return err
	}
	matches := x.Get(doc)
	if matches == nil {
		matches = []any{}
	}
	return JSON(w, matches)
}

// Table creates an aligned table writer for w.
// Remember to call Flush() when done writing.
func Table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// Warn prints a warning message to w, normally stderr.
func Warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "Warning: "+format+"\n", args...)
}
