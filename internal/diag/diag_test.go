package diag

import (
	"strings"
	"testing"

	"github.com/teachlang/teachlang/internal/token"
)

func TestFormatIsASingleLine(t *testing.T) {
	e := New("test.tl", token.Token{Type: token.IDENT, Literal: "x", Pos: token.Position{Line: 3, Column: 5}, Index: 7}, "undeclared identifier")
	got := e.Format(false)
	if strings.Contains(got, "\n") {
		t.Errorf("Format(false) should be a single line, got %q", got)
	}
	if !strings.Contains(got, "test.tl:3") || !strings.Contains(got, "undeclared identifier") {
		t.Errorf("Format(false) = %q, missing file:line or message", got)
	}
}

func TestFormatWithSourcePointsACaretAtTheColumn(t *testing.T) {
	e := New("test.tl", token.Token{Type: token.IDENT, Literal: "y", Pos: token.Position{Line: 2, Column: 5}, Index: 1}, "undeclared identifier")
	source := "var x: int = 1;\nout.display(y);\n"
	got := FormatWithSource(e, source)
	lines := strings.Split(got, "\n")
	if len(lines) < 3 || !strings.Contains(lines[1], "out.display(y);") {
		t.Fatalf("expected the offending source line quoted, got %q", got)
	}
	if !strings.Contains(lines[2], "^") {
		t.Fatalf("expected a caret line under the column, got %q", got)
	}
}
