package trace

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func TestWriterCallReturn(t *testing.T) {
	var buf bytes.Buffer
	w := New(&buf)

	w.Call("fib", 1)
	w.Call("fib", 1)
	w.Return("fib", "1")
	w.Return("fib", "2")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 trace lines, got %d", len(lines))
	}

	first := gjson.Parse(lines[0])
	if got := first.Get("event").String(); got != "call" {
		t.Errorf("line 0 event = %q, want call", got)
	}
	if got := first.Get("depth").Int(); got != 0 {
		t.Errorf("line 0 depth = %d, want 0", got)
	}

	second := gjson.Parse(lines[1])
	if got := second.Get("depth").Int(); got != 1 {
		t.Errorf("line 1 depth = %d, want 1", got)
	}

	last := gjson.Parse(lines[3])
	if got := last.Get("event").String(); got != "return" {
		t.Errorf("line 3 event = %q, want return", got)
	}
	if got := last.Get("result").String(); got != "2" {
		t.Errorf("line 3 result = %q, want 2", got)
	}
}
