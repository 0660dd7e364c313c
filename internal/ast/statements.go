package ast

import (
	"strings"

	"github.com/teachlang/teachlang/internal/token"
)

// TypeAnnotation names a declared type: int, float, string, boolean, or
// void. Arrays are expressed by IsArray plus a Size expression on the
// declaration node that carries the annotation, never as a nested type.
type TypeAnnotation struct {
	Name    string
	IsArray bool
}

func (t TypeAnnotation) String() string {
	if t.IsArray {
		return t.Name + "[]"
	}
	return t.Name
}

// VarDeclStatement declares a variable or a fixed-size array.
//
//	var x: int = 2;
//	var a: int[10];
type VarDeclStatement struct {
	Token token.Token // the 'var' token
	Name  *Identifier
	Type  TypeAnnotation
	Size  Expression // non-nil only for array declarations
	Value Expression // non-nil only for scalar initializers
}

func (s *VarDeclStatement) statementNode()       {}
func (s *VarDeclStatement) TokenLiteral() string { return s.Token.Literal }
func (s *VarDeclStatement) Pos() token.Position  { return s.Token.Pos }
func (s *VarDeclStatement) String() string {
	var b strings.Builder
	b.WriteString("var ")
	b.WriteString(s.Name.Name)
	b.WriteString(": ")
	b.WriteString(s.Type.Name)
	if s.Size != nil {
		b.WriteString("[")
		b.WriteString(s.Size.String())
		b.WriteString("]")
	}
	if s.Value != nil {
		b.WriteString(" = ")
		b.WriteString(s.Value.String())
	}
	b.WriteString(";")
	return b.String()
}

// AssignmentStatement assigns Value to Target, where Target is either an
// Identifier or an IndexExpression.
type AssignmentStatement struct {
	Token  token.Token // the '=' token
	Target Expression
	Value  Expression
}

func (s *AssignmentStatement) statementNode()       {}
func (s *AssignmentStatement) TokenLiteral() string { return s.Token.Literal }
func (s *AssignmentStatement) Pos() token.Position  { return s.Target.Pos() }
func (s *AssignmentStatement) String() string {
	return s.Target.String() + " = " + s.Value.String() + ";"
}

// OutDisplayStatement is out.display(expr);
type OutDisplayStatement struct {
	Token token.Token // the 'out' token
	Value Expression
}

func (s *OutDisplayStatement) statementNode()       {}
func (s *OutDisplayStatement) TokenLiteral() string { return s.Token.Literal }
func (s *OutDisplayStatement) Pos() token.Position  { return s.Token.Pos }
func (s *OutDisplayStatement) String() string {
	return "out.display(" + s.Value.String() + ");"
}

// BlockStatement is a brace-delimited statement list.
type BlockStatement struct {
	Token      token.Token // the '{' token
	Statements []Statement
}

func (b *BlockStatement) statementNode()       {}
func (b *BlockStatement) TokenLiteral() string { return b.Token.Literal }
func (b *BlockStatement) Pos() token.Position  { return b.Token.Pos }
func (b *BlockStatement) String() string {
	var out strings.Builder
	out.WriteString("{\n")
	for _, stmt := range b.Statements {
		out.WriteString("  ")
		out.WriteString(strings.ReplaceAll(stmt.String(), "\n", "\n  "))
		out.WriteString("\n")
	}
	out.WriteString("}")
	return out.String()
}

// IfStatement is if (Condition) Consequence [else Alternative].
type IfStatement struct {
	Token       token.Token
	Condition   Expression
	Consequence *BlockStatement
	Alternative *BlockStatement
}

func (s *IfStatement) statementNode()       {}
func (s *IfStatement) TokenLiteral() string { return s.Token.Literal }
func (s *IfStatement) Pos() token.Position  { return s.Token.Pos }
func (s *IfStatement) String() string {
	out := "if (" + s.Condition.String() + ") " + s.Consequence.String()
	if s.Alternative != nil {
		out += " else " + s.Alternative.String()
	}
	return out
}

// WhileStatement is while (Condition) Body.
type WhileStatement struct {
	Token     token.Token
	Condition Expression
	Body      *BlockStatement
}

func (s *WhileStatement) statementNode()       {}
func (s *WhileStatement) TokenLiteral() string { return s.Token.Literal }
func (s *WhileStatement) Pos() token.Position  { return s.Token.Pos }
func (s *WhileStatement) String() string {
	return "while (" + s.Condition.String() + ") " + s.Body.String()
}

// ForStatement is for (Init; Cond; Post) Body; any of the header pieces
// may be nil.
type ForStatement struct {
	Token token.Token
	Init  Statement
	Cond  Expression
	Post  Statement
	Body  *BlockStatement
}

func (s *ForStatement) statementNode()       {}
func (s *ForStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ForStatement) Pos() token.Position  { return s.Token.Pos }
func (s *ForStatement) String() string {
	init, cond, post := "", "", ""
	if s.Init != nil {
		init = s.Init.String()
	}
	if s.Cond != nil {
		cond = s.Cond.String()
	}
	if s.Post != nil {
		post = s.Post.String()
	}
	return "for (" + init + " " + cond + "; " + post + ") " + s.Body.String()
}

// BreakStatement is break;
type BreakStatement struct{ Token token.Token }

func (s *BreakStatement) statementNode()       {}
func (s *BreakStatement) TokenLiteral() string { return s.Token.Literal }
func (s *BreakStatement) Pos() token.Position  { return s.Token.Pos }
func (s *BreakStatement) String() string       { return "break;" }

// ContinueStatement is continue;
type ContinueStatement struct{ Token token.Token }

func (s *ContinueStatement) statementNode()       {}
func (s *ContinueStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ContinueStatement) Pos() token.Position  { return s.Token.Pos }
func (s *ContinueStatement) String() string       { return "continue;" }

// ReturnStatement is return [Value];
type ReturnStatement struct {
	Token token.Token
	Value Expression // nil for a bare return
}

func (s *ReturnStatement) statementNode()       {}
func (s *ReturnStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ReturnStatement) Pos() token.Position  { return s.Token.Pos }
func (s *ReturnStatement) String() string {
	if s.Value == nil {
		return "return;"
	}
	return "return " + s.Value.String() + ";"
}

// ImportStatement is import "path";
type ImportStatement struct {
	Token token.Token
	Path  string
}

func (s *ImportStatement) statementNode()       {}
func (s *ImportStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ImportStatement) Pos() token.Position  { return s.Token.Pos }
func (s *ImportStatement) String() string       { return "import \"" + s.Path + "\";" }

// ExpressionStatement wraps a bare expression used as a statement
// (primarily calls for side effect).
type ExpressionStatement struct {
	Token      token.Token
	Expression Expression
}

func (s *ExpressionStatement) statementNode()       {}
func (s *ExpressionStatement) TokenLiteral() string { return s.Token.Literal }
func (s *ExpressionStatement) Pos() token.Position  { return s.Token.Pos }
func (s *ExpressionStatement) String() string       { return s.Expression.String() + ";" }

// Parameter is a single function parameter: a name and a primitive type.
// Parameters may not be arrays or void.
type Parameter struct {
	Token token.Token
	Name  *Identifier
	Type  TypeAnnotation
}

// FunctionDecl declares a top-level function.
type FunctionDecl struct {
	Token      token.Token // the 'fun' token
	Name       *Identifier
	Parameters []*Parameter
	ReturnType TypeAnnotation // defaults to {Name: "void"} if absent
	Body       *BlockStatement
}

func (f *FunctionDecl) statementNode()       {}
func (f *FunctionDecl) TokenLiteral() string { return f.Token.Literal }
func (f *FunctionDecl) Pos() token.Position  { return f.Token.Pos }
func (f *FunctionDecl) String() string {
	params := make([]string, len(f.Parameters))
	for i, p := range f.Parameters {
		params[i] = p.Name.Name + ": " + p.Type.Name
	}
	return "fun " + f.Name.Name + "(" + strings.Join(params, ", ") + "): " + f.ReturnType.Name + " " + f.Body.String()
}

func (s *VarDeclStatement) Tok() token.Token { return s.Token }
func (s *OutDisplayStatement) Tok() token.Token { return s.Token }
func (b *BlockStatement) Tok() token.Token { return b.Token }
func (s *IfStatement) Tok() token.Token { return s.Token }
func (s *WhileStatement) Tok() token.Token { return s.Token }
func (s *ForStatement) Tok() token.Token { return s.Token }
func (s *BreakStatement) Tok() token.Token { return s.Token }
func (s *ContinueStatement) Tok() token.Token { return s.Token }
func (s *ReturnStatement) Tok() token.Token { return s.Token }
func (s *ImportStatement) Tok() token.Token { return s.Token }
func (s *ExpressionStatement) Tok() token.Token { return s.Token }
func (f *FunctionDecl) Tok() token.Token       { return f.Token }
func (s *AssignmentStatement) Tok() token.Token { return s.Token }
