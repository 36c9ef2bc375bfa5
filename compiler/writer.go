package compiler

import (
	"fmt"
	"strings"
)

// jsWriter manages indented JavaScript output for the code generator.
// It encapsulates the output buffer and indentation level.
type jsWriter struct {
	sb     strings.Builder
	indent int
}

// Line writes an indented, formatted line (with trailing newline).
func (w *jsWriter) Line(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	if strings.HasSuffix(strings.TrimRight(line, "\n"), "\n") || line == "\n" {
		w.sb.WriteString(line)
		return
	}
	w.sb.WriteString(strings.Repeat("  ", w.indent) + line)
}

// Linef writes an indented, formatted line with a trailing newline appended.
func (w *jsWriter) Linef(format string, args ...interface{}) {
	w.Line(format+"\n", args...)
}

// Raw writes unindented text directly to the buffer.
func (w *jsWriter) Raw(s string) {
	w.sb.WriteString(s)
}

// Indent increases the indentation level.
func (w *jsWriter) Indent() { w.indent++ }

// Dedent decreases the indentation level.
func (w *jsWriter) Dedent() { w.indent-- }

// String returns the accumulated output.
func (w *jsWriter) String() string { return w.sb.String() }

// Capture runs fn while writing to a temporary buffer, then restores the
// original buffer and returns the captured output. Used to render
// function literal bodies inline inside expressions.
func (w *jsWriter) Capture(fn func() error) (string, error) {
	saved := w.sb
	w.sb = strings.Builder{}
	err := fn()
	result := w.sb.String()
	w.sb = saved
	return result, err
}
