// Package trace renders function-call events as newline-delimited JSON,
// used by the `run --trace` flag to let a student watch recursion
// unfold without a debugger. Each line is built incrementally with
// sjson rather than a struct-and-Marshal round trip, since a trace
// event is written once and never read back by the program itself.
package trace

import (
	"fmt"
	"io"

	"github.com/tidwall/sjson"
)

// Writer appends one JSON object per call/return event to an
// underlying io.Writer.
type Writer struct {
	out   io.Writer
	depth int
}

// New wraps out as a trace destination.
func New(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Call records a function invocation with its argument count.
func (w *Writer) Call(name string, argCount int) {
	line, _ := sjson.Set("", "event", "call")
	line, _ = sjson.Set(line, "function", name)
	line, _ = sjson.Set(line, "depth", w.depth)
	line, _ = sjson.Set(line, "args", argCount)
	w.depth++
	fmt.Fprintln(w.out, line)
}

// Return records a function returning, with the stringified result.
func (w *Writer) Return(name string, result string) {
	w.depth--
	line, _ := sjson.Set("", "event", "return")
	line, _ = sjson.Set(line, "function", name)
	line, _ = sjson.Set(line, "depth", w.depth)
	line, _ = sjson.Set(line, "result", result)
	fmt.Fprintln(w.out, line)
}
