// Package ast defines the abstract syntax tree the parser builds and the
// interpreter walks.
package ast

import (
	"bytes"
	"strings"

	"github.com/teachlang/teachlang/internal/token"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() token.Position
}

// Expression is a node that produces a Value when evaluated.
type Expression interface {
	Node
	expressionNode()
}

// Statement is a node that performs an action without producing a value.
type Statement interface {
	Node
	statementNode()
}

// Program is the root of a file's AST: its top-level statements in
// source order, including function declarations.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

func (p *Program) Pos() token.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return token.Position{Line: 1, Column: 1}
}

// Identifier names a variable, function, or parameter.
type Identifier struct {
	Token token.Token
	Name  string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Name }
func (i *Identifier) Pos() token.Position  { return i.Token.Pos }

// IntegerLiteral is a decimal integer literal.
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (l *IntegerLiteral) expressionNode()      {}
func (l *IntegerLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *IntegerLiteral) String() string       { return l.Token.Literal }
func (l *IntegerLiteral) Pos() token.Position  { return l.Token.Pos }

// FloatLiteral is a floating-point literal.
type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (l *FloatLiteral) expressionNode()      {}
func (l *FloatLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *FloatLiteral) String() string       { return l.Token.Literal }
func (l *FloatLiteral) Pos() token.Position  { return l.Token.Pos }

// StringLiteral is a double-quoted string literal with escapes already
// resolved by the lexer.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (l *StringLiteral) expressionNode()      {}
func (l *StringLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *StringLiteral) String() string       { return "\"" + l.Value + "\"" }
func (l *StringLiteral) Pos() token.Position  { return l.Token.Pos }

// BooleanLiteral is the true/false literal.
type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (l *BooleanLiteral) expressionNode()      {}
func (l *BooleanLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *BooleanLiteral) String() string       { return l.Token.Literal }
func (l *BooleanLiteral) Pos() token.Position  { return l.Token.Pos }

// BinaryExpression is a left-associative binary operator application.
type BinaryExpression struct {
	Token    token.Token
	Left     Expression
	Operator string
	Right    Expression
}

func (b *BinaryExpression) expressionNode()      {}
func (b *BinaryExpression) TokenLiteral() string { return b.Token.Literal }
func (b *BinaryExpression) Pos() token.Position  { return b.Token.Pos }
func (b *BinaryExpression) String() string {
	return "(" + b.Left.String() + " " + b.Operator + " " + b.Right.String() + ")"
}

// UnaryExpression is a prefix operator application (! or -).
type UnaryExpression struct {
	Token    token.Token
	Operator string
	Right    Expression
}

func (u *UnaryExpression) expressionNode()      {}
func (u *UnaryExpression) TokenLiteral() string { return u.Token.Literal }
func (u *UnaryExpression) Pos() token.Position  { return u.Token.Pos }
func (u *UnaryExpression) String() string       { return "(" + u.Operator + u.Right.String() + ")" }

// GroupedExpression is a parenthesized sub-expression.
type GroupedExpression struct {
	Token      token.Token
	Expression Expression
}

func (g *GroupedExpression) expressionNode()      {}
func (g *GroupedExpression) TokenLiteral() string { return g.Token.Literal }
func (g *GroupedExpression) Pos() token.Position  { return g.Token.Pos }
func (g *GroupedExpression) String() string       { return "(" + g.Expression.String() + ")" }

// IndexExpression reads an array element: Left[Index].
type IndexExpression struct {
	Token token.Token
	Left  Expression
	Index Expression
}

func (e *IndexExpression) expressionNode()      {}
func (e *IndexExpression) TokenLiteral() string { return e.Token.Literal }
func (e *IndexExpression) Pos() token.Position  { return e.Token.Pos }
func (e *IndexExpression) String() string {
	return e.Left.String() + "[" + e.Index.String() + "]"
}

// CallExpression is a user-function or built-in invocation.
type CallExpression struct {
	Token     token.Token // the '(' token
	Function  *Identifier
	Arguments []Expression
}

func (c *CallExpression) expressionNode()      {}
func (c *CallExpression) TokenLiteral() string { return c.Token.Literal }
func (c *CallExpression) Pos() token.Position  { return c.Function.Pos() }
func (c *CallExpression) String() string {
	args := make([]string, len(c.Arguments))
	for i, a := range c.Arguments {
		args[i] = a.String()
	}
	return c.Function.Name + "(" + strings.Join(args, ", ") + ")"
}

// UserInputKind enumerates the four user.in* forms.
type UserInputKind int

const (
	UserInInt UserInputKind = iota
	UserInFloat
	UserInString
	UserInBoolean
)

// UserInputExpression represents user.in / user.in_float / user.in_string
// / user.in_boolean.
type UserInputExpression struct {
	Token token.Token
	Kind  UserInputKind
}

func (u *UserInputExpression) expressionNode()      {}
func (u *UserInputExpression) TokenLiteral() string { return u.Token.Literal }
func (u *UserInputExpression) Pos() token.Position  { return u.Token.Pos }
func (u *UserInputExpression) String() string       { return "user." + u.Token.Literal }

func (i *Identifier) Tok() token.Token { return i.Token }
func (l *IntegerLiteral) Tok() token.Token { return l.Token }
func (l *FloatLiteral) Tok() token.Token { return l.Token }
func (l *StringLiteral) Tok() token.Token { return l.Token }
func (l *BooleanLiteral) Tok() token.Token { return l.Token }
func (b *BinaryExpression) Tok() token.Token { return b.Token }
func (u *UnaryExpression) Tok() token.Token { return u.Token }
func (g *GroupedExpression) Tok() token.Token { return g.Token }
func (e *IndexExpression) Tok() token.Token { return e.Token }
func (u *UserInputExpression) Tok() token.Token { return u.Token }
func (c *CallExpression) Tok() token.Token      { return c.Token }
