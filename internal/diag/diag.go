// Package diag formats the single fatal diagnostic the interpreter
// reports before aborting: file, line, token index, lexeme, and message.
package diag

import (
	"fmt"
	"strings"

	"github.com/teachlang/teachlang/internal/token"
)

// Error is the one fatal diagnostic a run produces. Unlike the teacher's
// accumulating CompilerError list, the interpreter stops at the first
// Error: nothing here is ever caught or retried by the running program.
type Error struct {
	File    string
	Line    int
	Column  int
	Index   int
	Lexeme  string
	Message string
}

func (e *Error) Error() string {
	return e.Format(false)
}

// New builds an Error anchored on tok's position and lexeme.
func New(file string, tok token.Token, message string) *Error {
	return &Error{
		File:    file,
		Line:    tok.Pos.Line,
		Column:  tok.Pos.Column,
		Index:   tok.Index,
		Lexeme:  tok.Literal,
		Message: message,
	}
}

// Format renders the diagnostic as a one-line header plus the message.
// FormatWithSource renders a fuller, caret-annotated form when the
// offending source text is available.
func (e *Error) Format(color bool) string {
	var b strings.Builder
	header := fmt.Sprintf("%s:%d: token #%d %q: %s", e.File, e.Line, e.Index, e.Lexeme, e.Message)
	if color {
		b.WriteString("\x1b[31m")
		b.WriteString(header)
		b.WriteString("\x1b[0m")
	} else {
		b.WriteString(header)
	}
	return b.String()
}

// FormatWithSource renders the header plus the offending source line and
// a caret under the token's column, mirroring the teacher's
// file:line:col + gutter + caret presentation but for a single error.
// Used by `run --verbose` once the failing file's source text is on hand.
func FormatWithSource(e *Error, source string) string {
	lines := strings.Split(source, "\n")
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d: %s\n", e.File, e.Line, e.Message)
	if e.Line >= 1 && e.Line <= len(lines) {
		srcLine := lines[e.Line-1]
		lineNumStr := fmt.Sprintf("%4d | ", e.Line)
		b.WriteString(lineNumStr)
		b.WriteString(srcLine)
		b.WriteString("\n")
		if e.Column >= 1 {
			b.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Column-1))
			b.WriteString("^\n")
		}
	}
	fmt.Fprintf(&b, "[token #%d %q]\n", e.Index, e.Lexeme)
	return b.String()
}
