// Package output renders the resolved offset and pattern maps as
// downstream artifacts: C# and C++ constant tables, a Rust module and
// JSON.
package output

import (
	"fmt"
	"io"
	"strings"
)

// Formatter writes indented line-oriented source text. The first write
// error sticks; later calls become no-ops.
type Formatter struct {
	w      io.Writer
	indent string
	depth  int
	err    error
}

// NewFormatter wraps w with the given indent width in spaces.
func NewFormatter(w io.Writer, indentWidth int) *Formatter {
	return &Formatter{w: w, indent: strings.Repeat(" ", indentWidth)}
}

// Err returns the first write error, if any.
func (f *Formatter) Err() error { return f.err }

// Line writes one indented line.
func (f *Formatter) Line(format string, args ...any) {
	if f.err != nil {
		return
	}
	_, f.err = fmt.Fprintf(f.w, "%s%s\n", strings.Repeat(f.indent, f.depth), fmt.Sprintf(format, args...))
}

// Blank writes an empty line.
func (f *Formatter) Blank() {
	if f.err != nil {
		return
	}
	_, f.err = io.WriteString(f.w, "\n")
}

// Block writes "header {", indents the body and closes with "}"
// followed by the given tail ("" or ";").
func (f *Formatter) Block(header, tail string, body func()) {
	f.Line("%s {", header)
	f.depth++
	body()
	f.depth--
	f.Line("}%s", tail)
}

// Raw writes s without indentation.
func (f *Formatter) Raw(s string) {
	if f.err != nil {
		return
	}
	_, f.err = io.WriteString(f.w, s)
}
