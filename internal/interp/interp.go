// Package interp is the tree-walking interpreter: the scope/symbol
// table, function table, call stack, statement executor, and expression
// evaluator are wired together here into a single Interpreter value, as
// recommended by the source design for packing what would otherwise be
// module-level globals into one context (symbol table and scope stack,
// function table, call stack, loop depth, the imported-files set, and
// the file currently being interpreted).
//
// This implementation parses each file into an AST once (see
// internal/parser) and walks it, rather than re-parsing function bodies
// from a token cursor on every call; both are sanctioned as observably
// identical implementations of the same language.
package interp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/teachlang/teachlang/internal/ast"
	"github.com/teachlang/teachlang/internal/diag"
	"github.com/teachlang/teachlang/internal/lexer"
	"github.com/teachlang/teachlang/internal/parser"
	"github.com/teachlang/teachlang/internal/scope"
	"github.com/teachlang/teachlang/internal/token"
	"github.com/teachlang/teachlang/internal/trace"
)

// Interpreter holds all state for a single program run: one Interpreter
// is created per CLI invocation and reused across every imported file.
type Interpreter struct {
	Scopes    *scope.Table
	Functions *FunctionTable
	Calls     *CallStack

	LoopDepth int
	Imported  map[string]bool

	// ImportPaths are extra directories searched, in order, for a
	// non-absolute import path that isn't found relative to the working
	// directory or the importing file (see internal/config).
	ImportPaths []string

	Out io.Writer
	In  *bufio.Reader

	// Trace, when non-nil, receives a call/return event for every user
	// function invocation (enabled by `run --trace`).
	Trace *trace.Writer

	// CurrentFile is the file whose tokens are currently being
	// interpreted, snapshotted and restored around import processing so
	// diagnostics always name the right file.
	CurrentFile string
}

// New builds an Interpreter that prints to out and reads user.in* input
// from in.
func New(out io.Writer, in io.Reader) *Interpreter {
	return &Interpreter{
		Scopes:    scope.New(),
		Functions: NewFunctionTable(),
		Calls:     NewCallStack(0),
		Imported:  make(map[string]bool),
		Out:       out,
		In:        bufio.NewReader(in),
	}
}

// SetMaxCallDepth overrides the recursion-depth limit before a run
// starts (see internal/config Config.MaxCallDepth).
func (ip *Interpreter) SetMaxCallDepth(n int) {
	ip.Calls = NewCallStack(n)
}

// errf builds a fatal diagnostic anchored on node's token, in the
// currently active file.
func (ip *Interpreter) errf(node ast.Node, format string, args ...interface{}) error {
	tok := tokOf(node)
	return diag.New(ip.CurrentFile, tok, fmt.Sprintf(format, args...))
}

// tokOf extracts the representative token.Token of an AST node for
// diagnostics. Every node defined in internal/ast implements Tok()
// except Program, which is never passed here.
func tokOf(node ast.Node) token.Token {
	type hasTok interface {
		Tok() token.Token
	}
	if n, ok := node.(hasTok); ok {
		return n.Tok()
	}
	return token.Token{Pos: node.Pos(), Literal: node.TokenLiteral()}
}

// RunFile reads, lexes, parses, and two-pass-interprets the named file
// as the program's entry point.
func (ip *Interpreter) RunFile(path string) error {
	source, err := readSourceFile(path)
	if err != nil {
		return err
	}
	return ip.Run(path, source)
}

// Run interprets source as the program's entry point, opening the one
// top-level scope that lives for the whole run.
func (ip *Interpreter) Run(file, source string) error {
	ip.Scopes.EnterScope()
	defer ip.Scopes.ExitScope()
	return ip.interpretFile(file, source)
}

// interpretFile lexes and parses source, then two-pass-interprets it
// into whatever scope is currently active. Used both for the entry file
// (via Run) and for each imported file (via execImport), which is how
// an import's top-level declarations end up merged into the caller's
// scope rather than isolated in one of their own (§4.I).
func (ip *Interpreter) interpretFile(file, source string) error {
	prevFile := ip.CurrentFile
	ip.CurrentFile = file
	defer func() { ip.CurrentFile = prevFile }()

	toks, err := lexer.New(file, source).Tokenize()
	if err != nil {
		return convertLexError(file, err)
	}
	prog, err := parser.New(file, toks).Parse()
	if err != nil {
		return err
	}
	return ip.execProgram(prog)
}

// execProgram runs the two-pass interpretation described in §5: pass one
// registers every top-level `fun`, pass two executes every other
// top-level statement in order, skipping the `fun` declarations already
// registered.
func (ip *Interpreter) execProgram(prog *ast.Program) error {
	for _, stmt := range prog.Statements {
		if fn, ok := stmt.(*ast.FunctionDecl); ok {
			if err := ip.Functions.Declare(fn); err != nil {
				return ip.errf(fn, "%v", err)
			}
		}
	}

	for _, stmt := range prog.Statements {
		if _, ok := stmt.(*ast.FunctionDecl); ok {
			continue
		}
		f, err := ip.execStatement(stmt)
		if err != nil {
			return err
		}
		if f.kind != flowNone {
			return ip.errf(stmt, "%s is not legal at the top level", f.kind)
		}
	}
	return nil
}

func convertLexError(file string, err error) error {
	le, ok := err.(*lexer.LexError)
	if !ok {
		return err
	}
	return &diag.Error{File: file, Line: le.Pos.Line, Index: -1, Message: le.Message}
}

func readSourceFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot read %s: %w", path, err)
	}
	return string(data), nil
}

func cleanImportPath(path string) string {
	return filepath.Clean(path)
}
