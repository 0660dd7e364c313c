package parser

import (
	"testing"

	"github.com/teachlang/teachlang/internal/ast"
	"github.com/teachlang/teachlang/internal/lexer"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, err := lexer.New("test.tl", src).Tokenize()
	if err != nil {
		t.Fatalf("lex error: %v", err)
	}
	prog, err := New("test.tl", toks).Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return prog
}

func TestParseVarDeclScalarAndArray(t *testing.T) {
	prog := parseProgram(t, `
		var x: int = 2 + 3;
		var a: float[10];
	`)
	if len(prog.Statements) != 2 {
		t.Fatalf("got %d statements, want 2", len(prog.Statements))
	}

	v, ok := prog.Statements[0].(*ast.VarDeclStatement)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.VarDeclStatement", prog.Statements[0])
	}
	if v.Name.Name != "x" || v.Type.Name != "int" || v.Value == nil {
		t.Errorf("unexpected var decl: %+v", v)
	}

	a, ok := prog.Statements[1].(*ast.VarDeclStatement)
	if !ok {
		t.Fatalf("statement 1 is %T, want *ast.VarDeclStatement", prog.Statements[1])
	}
	if a.Name.Name != "a" || a.Type.Name != "float" || a.Size == nil {
		t.Errorf("unexpected array decl: %+v", a)
	}
}

func TestParseIfWhileFor(t *testing.T) {
	prog := parseProgram(t, `
		if (x < 10) {
			out.display(x);
		} else {
			out.display(0);
		}
		while (x < 10) {
			x = x + 1;
		}
		for (var i: int = 0; i < 10; i = i + 1) {
			out.display(i);
		}
	`)
	if len(prog.Statements) != 3 {
		t.Fatalf("got %d statements, want 3", len(prog.Statements))
	}
	ifStmt, ok := prog.Statements[0].(*ast.IfStatement)
	if !ok || ifStmt.Alternative == nil {
		t.Errorf("expected an if/else statement, got %+v", prog.Statements[0])
	}
	if _, ok := prog.Statements[1].(*ast.WhileStatement); !ok {
		t.Errorf("expected a while statement, got %T", prog.Statements[1])
	}
	forStmt, ok := prog.Statements[2].(*ast.ForStatement)
	if !ok || forStmt.Init == nil || forStmt.Cond == nil || forStmt.Post == nil {
		t.Errorf("expected a fully-populated for statement, got %+v", prog.Statements[2])
	}
}

func TestParseFunctionDeclAndCall(t *testing.T) {
	prog := parseProgram(t, `
		fun add(a: int, b: int): int {
			return a + b;
		}
		var r: int = add(1, 2);
	`)
	fn, ok := prog.Statements[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.FunctionDecl", prog.Statements[0])
	}
	if fn.Name.Name != "add" || len(fn.Parameters) != 2 || fn.ReturnType.Name != "int" {
		t.Errorf("unexpected function decl: %+v", fn)
	}

	decl, ok := prog.Statements[1].(*ast.VarDeclStatement)
	if !ok {
		t.Fatalf("statement 1 is %T, want *ast.VarDeclStatement", prog.Statements[1])
	}
	call, ok := decl.Value.(*ast.CallExpression)
	if !ok || call.Function.Name != "add" || len(call.Arguments) != 2 {
		t.Errorf("unexpected call expression: %+v", decl.Value)
	}
}

func TestParseAssignmentToIndexExpression(t *testing.T) {
	prog := parseProgram(t, `a[i + 1] = 5;`)
	assign, ok := prog.Statements[0].(*ast.AssignmentStatement)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.AssignmentStatement", prog.Statements[0])
	}
	if _, ok := assign.Target.(*ast.IndexExpression); !ok {
		t.Errorf("target is %T, want *ast.IndexExpression", assign.Target)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	prog := parseProgram(t, `var r: boolean = 1 + 2 * 3 == 7 && true;`)
	decl := prog.Statements[0].(*ast.VarDeclStatement)

	top, ok := decl.Value.(*ast.BinaryExpression)
	if !ok || top.Operator != "&&" {
		t.Fatalf("top-level operator = %+v, want &&", decl.Value)
	}
	eq, ok := top.Left.(*ast.BinaryExpression)
	if !ok || eq.Operator != "==" {
		t.Fatalf("left of && = %+v, want ==", top.Left)
	}
	sum, ok := eq.Left.(*ast.BinaryExpression)
	if !ok || sum.Operator != "+" {
		t.Fatalf("left of == = %+v, want +", eq.Left)
	}
	if _, ok := sum.Right.(*ast.BinaryExpression); !ok {
		t.Fatalf("right of + = %+v, want a '*' expression (higher precedence)", sum.Right)
	}
}

func TestImportStatement(t *testing.T) {
	prog := parseProgram(t, `import "lib/math.tl";`)
	imp, ok := prog.Statements[0].(*ast.ImportStatement)
	if !ok || imp.Path != "lib/math.tl" {
		t.Fatalf("unexpected import statement: %+v", prog.Statements[0])
	}
}
