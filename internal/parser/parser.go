// Package parser builds an AST from a token buffer using recursive
// descent for statements and precedence climbing for expressions.
//
// The source language specifies a token-cursor interpreter that may
// either re-parse bodies from the token stream on every execution, or
// parse once into a cached AST with identical observable behavior. This
// package takes the cached-AST route: each function and loop body is
// parsed exactly once, then walked by internal/interp on every
// execution. There is no execute=false parsing mode here because nothing
// is ever re-parsed; the interpreter skips unevaluated branches by
// simply not walking them.
package parser

import (
	"fmt"
	"strconv"

	"github.com/teachlang/teachlang/internal/ast"
	"github.com/teachlang/teachlang/internal/diag"
	"github.com/teachlang/teachlang/internal/token"
)

// precedence levels, low to high.
const (
	_ int = iota
	lowest
	orPrec
	andPrec
	equalsPrec
	relationalPrec
	sumPrec
	productPrec
	unaryPrec
	callPrec
	indexPrec
)

var precedences = map[token.Type]int{
	token.OR:       orPrec,
	token.AND:      andPrec,
	token.EQ:       equalsPrec,
	token.NEQ:      equalsPrec,
	token.GT:       relationalPrec,
	token.LT:       relationalPrec,
	token.GE:       relationalPrec,
	token.LE:       relationalPrec,
	token.PLUS:     sumPrec,
	token.MINUS:    sumPrec,
	token.ASTERISK: productPrec,
	token.SLASH:    productPrec,
	token.PERCENT:  productPrec,
	token.LPAREN:   callPrec,
	token.LBRACKET: indexPrec,
}

// Parser consumes a token buffer produced by the lexer and builds an
// ast.Program from it. The file name is carried through for diagnostics.
type Parser struct {
	file   string
	tokens []token.Token
	pos    int
}

// New constructs a Parser over a complete token buffer (already
// terminated by an EOF token, as produced by lexer.Tokenize).
func New(file string, tokens []token.Token) *Parser {
	return &Parser{file: file, tokens: tokens}
}

func (p *Parser) cur() token.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 < len(p.tokens) {
		return p.tokens[p.pos+1]
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) advance() {
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
}

func (p *Parser) errf(tok token.Token, format string, args ...interface{}) error {
	return diag.New(p.file, tok, fmt.Sprintf(format, args...))
}

func (p *Parser) expect(tt token.Type) (token.Token, error) {
	if p.cur().Type != tt {
		return token.Token{}, p.errf(p.cur(), "expected %s, found %s", tt, p.cur().Type)
	}
	tok := p.cur()
	p.advance()
	return tok, nil
}

// Parse builds a full Program from the token buffer, reading top-level
// statements (including function declarations, interleaved as written)
// until EOF.
func (p *Parser) Parse() (*ast.Program, error) {
	prog := &ast.Program{}
	for p.cur().Type != token.EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog, nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur().Type {
	case token.VAR:
		return p.parseVarDecl()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.BREAK:
		return p.parseBreak()
	case token.CONTINUE:
		return p.parseContinue()
	case token.RETURN:
		return p.parseReturn()
	case token.IMPORT:
		return p.parseImport()
	case token.FUN:
		return p.parseFunctionDecl()
	case token.OUT:
		return p.parseOutDisplay()
	case token.LBRACE:
		return p.parseBlock()
	case token.IDENT:
		return p.parseIdentifierStatement()
	default:
		return nil, p.errf(p.cur(), "unexpected token %s", p.cur().Type)
	}
}

func (p *Parser) parseType() (ast.TypeAnnotation, error) {
	tok := p.cur()
	var name string
	switch tok.Type {
	case token.INT_KW:
		name = "int"
	case token.FLOAT_KW:
		name = "float"
	case token.STRING_KW:
		name = "string"
	case token.BOOLEAN_KW:
		name = "boolean"
	case token.VOID:
		name = "void"
	default:
		return ast.TypeAnnotation{}, p.errf(tok, "expected a type, found %s", tok.Type)
	}
	p.advance()
	return ast.TypeAnnotation{Name: name}, nil
}

// parseVarDecl parses:
//
//	var name : type ;
//	var name : type = expr ;
//	var name : type [ size ] ;
func (p *Parser) parseVarDecl() (ast.Statement, error) {
	varTok := p.cur()
	p.advance()

	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	name := &ast.Identifier{Token: nameTok, Name: nameTok.Literal}

	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}

	decl := &ast.VarDeclStatement{Token: varTok, Name: name, Type: typ}

	if p.cur().Type == token.LBRACKET {
		p.advance()
		size, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		decl.Size = size
		decl.Type.IsArray = true
		if _, err := p.expect(token.RBRACKET); err != nil {
			return nil, err
		}
		if p.cur().Type == token.ASSIGN {
			return nil, p.errf(p.cur(), "array declarations may not use an initializer")
		}
	} else if p.cur().Type == token.ASSIGN {
		p.advance()
		val, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		decl.Value = val
	}

	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return decl, nil
}

func (p *Parser) parseBlock() (*ast.BlockStatement, error) {
	tok, err := p.expect(token.LBRACE)
	if err != nil {
		return nil, err
	}
	block := &ast.BlockStatement{Token: tok}
	for p.cur().Type != token.RBRACE {
		if p.cur().Type == token.EOF {
			return nil, p.errf(p.cur(), "unexpected EOF, expected '}'")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Statements = append(block.Statements, stmt)
	}
	p.advance() // consume '}'
	return block, nil
}

func (p *Parser) parseIf() (ast.Statement, error) {
	tok := p.cur()
	p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(lowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	cons, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStatement{Token: tok, Condition: cond, Consequence: cons}
	if p.cur().Type == token.ELSE {
		p.advance()
		alt, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Alternative = alt
	}
	return stmt, nil
}

func (p *Parser) parseWhile() (ast.Statement, error) {
	tok := p.cur()
	p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression(lowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Token: tok, Condition: cond, Body: body}, nil
}

func (p *Parser) parseFor() (ast.Statement, error) {
	tok := p.cur()
	p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	stmt := &ast.ForStatement{Token: tok}

	if p.cur().Type != token.SEMICOLON {
		init, err := p.parseForInit()
		if err != nil {
			return nil, err
		}
		stmt.Init = init
	} else {
		p.advance()
	}

	if p.cur().Type != token.SEMICOLON {
		cond, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		stmt.Cond = cond
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}

	if p.cur().Type != token.RPAREN {
		post, err := p.parseForPost()
		if err != nil {
			return nil, err
		}
		stmt.Post = post
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt.Body = body
	return stmt, nil
}

// parseForInit parses the init clause of a for-header: a var
// declaration (without its own trailing semicolon consumed twice) or an
// assignment/expression, followed by the required ';'.
func (p *Parser) parseForInit() (ast.Statement, error) {
	if p.cur().Type == token.VAR {
		return p.parseVarDecl() // consumes the trailing ';'
	}
	stmt, err := p.parseSimpleStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseForPost parses the increment clause: an assignment or a general
// expression, with no trailing semicolon (terminated by ')').
func (p *Parser) parseForPost() (ast.Statement, error) {
	return p.parseSimpleStatement()
}

// parseSimpleStatement parses an assignment or bare expression without
// consuming a trailing semicolon; used by for-header clauses.
func (p *Parser) parseSimpleStatement() (ast.Statement, error) {
	tok := p.cur()
	expr, err := p.parseExpression(lowest)
	if err != nil {
		return nil, err
	}
	if p.cur().Type == token.ASSIGN {
		if !isAssignable(expr) {
			return nil, p.errf(tok, "left-hand side of assignment must be a variable or array element")
		}
		eqTok := p.cur()
		p.advance()
		val, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		return &ast.AssignmentStatement{Token: eqTok, Target: expr, Value: val}, nil
	}
	return &ast.ExpressionStatement{Token: tok, Expression: expr}, nil
}

func (p *Parser) parseBreak() (ast.Statement, error) {
	tok := p.cur()
	p.advance()
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.BreakStatement{Token: tok}, nil
}

func (p *Parser) parseContinue() (ast.Statement, error) {
	tok := p.cur()
	p.advance()
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.ContinueStatement{Token: tok}, nil
}

func (p *Parser) parseReturn() (ast.Statement, error) {
	tok := p.cur()
	p.advance()
	stmt := &ast.ReturnStatement{Token: tok}
	if p.cur().Type != token.SEMICOLON {
		val, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		stmt.Value = val
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseImport() (ast.Statement, error) {
	tok := p.cur()
	p.advance()
	pathTok, err := p.expect(token.STRING)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.ImportStatement{Token: tok, Path: pathTok.Literal}, nil
}

func (p *Parser) parseOutDisplay() (ast.Statement, error) {
	tok := p.cur()
	p.advance()
	if _, err := p.expect(token.DOT); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.DISPLAY); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	val, err := p.parseExpression(lowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.OutDisplayStatement{Token: tok, Value: val}, nil
}

func (p *Parser) parseFunctionDecl() (ast.Statement, error) {
	tok := p.cur()
	p.advance()
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	fn := &ast.FunctionDecl{Token: tok, Name: &ast.Identifier{Token: nameTok, Name: nameTok.Literal}}

	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	for p.cur().Type != token.RPAREN {
		if len(fn.Parameters) > 0 {
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
		}
		pNameTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		pType, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if pType.Name == "void" {
			return nil, p.errf(pNameTok, "parameter %q may not have type void", pNameTok.Literal)
		}
		fn.Parameters = append(fn.Parameters, &ast.Parameter{
			Token: pNameTok,
			Name:  &ast.Identifier{Token: pNameTok, Name: pNameTok.Literal},
			Type:  pType,
		})
	}
	p.advance() // consume ')'

	fn.ReturnType = ast.TypeAnnotation{Name: "void"}
	if p.cur().Type == token.COLON {
		p.advance()
		rt, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fn.ReturnType = rt
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	fn.Body = body
	return fn, nil
}

// parseIdentifierStatement disambiguates an assignment
// (ident[...]? = expr;) from an expression-statement starting with an
// identifier, by scanning past an optional bracketed subscript for '='.
func (p *Parser) parseIdentifierStatement() (ast.Statement, error) {
	startTok := p.cur()
	if p.looksLikeAssignment() {
		target, err := p.parseExpression(callPrec) // identifier + optional index, no binary ops
		if err != nil {
			return nil, err
		}
		if !isAssignable(target) {
			return nil, p.errf(startTok, "left-hand side of assignment must be a variable or array element")
		}
		eqTok := p.cur()
		if _, err := p.expect(token.ASSIGN); err != nil {
			return nil, err
		}
		val, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMICOLON); err != nil {
			return nil, err
		}
		return &ast.AssignmentStatement{Token: eqTok, Target: target, Value: val}, nil
	}

	expr, err := p.parseExpression(lowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Token: startTok, Expression: expr}, nil
}

// looksLikeAssignment peeks past IDENT ('[' balanced-expr ']')? for a
// following '='. It never mutates the parser's cursor.
func (p *Parser) looksLikeAssignment() bool {
	i := p.pos + 1
	if i < len(p.tokens) && p.tokens[i].Type == token.LBRACKET {
		depth := 0
		for ; i < len(p.tokens); i++ {
			switch p.tokens[i].Type {
			case token.LBRACKET, token.LPAREN:
				depth++
			case token.RBRACKET, token.RPAREN:
				depth--
				if depth == 0 {
					i++
					goto checkEq
				}
			case token.EOF, token.SEMICOLON:
				return false
			}
		}
	checkEq:
	}
	return i < len(p.tokens) && p.tokens[i].Type == token.ASSIGN
}

func isAssignable(e ast.Expression) bool {
	switch e.(type) {
	case *ast.Identifier, *ast.IndexExpression:
		return true
	default:
		return false
	}
}

// --- expressions ---

func (p *Parser) parseExpression(precedence int) (ast.Expression, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for p.cur().Type != token.SEMICOLON && precedence < precedenceOf(p.cur().Type) {
		switch p.cur().Type {
		case token.LPAREN:
			left, err = p.parseCall(left)
		case token.LBRACKET:
			left, err = p.parseIndex(left)
		default:
			left, err = p.parseInfix(left)
		}
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

func precedenceOf(tt token.Type) int {
	if pr, ok := precedences[tt]; ok {
		return pr
	}
	return lowest
}

func (p *Parser) parsePrefix() (ast.Expression, error) {
	tok := p.cur()
	switch tok.Type {
	case token.INT:
		return p.parseIntegerLiteral()
	case token.FLOAT:
		return p.parseFloatLiteral()
	case token.STRING:
		p.advance()
		return &ast.StringLiteral{Token: tok, Value: tok.Literal}, nil
	case token.TRUE, token.FALSE:
		p.advance()
		return &ast.BooleanLiteral{Token: tok, Value: tok.Type == token.TRUE}, nil
	case token.NOT, token.MINUS:
		p.advance()
		right, err := p.parseExpression(unaryPrec)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Token: tok, Operator: tok.Literal, Right: right}, nil
	case token.LPAREN:
		p.advance()
		expr, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return &ast.GroupedExpression{Token: tok, Expression: expr}, nil
	case token.IDENT:
		p.advance()
		return &ast.Identifier{Token: tok, Name: tok.Literal}, nil
	case token.USER:
		return p.parseUserInput()
	default:
		return nil, p.errf(tok, "unexpected token %s in expression", tok.Type)
	}
}

func (p *Parser) parseIntegerLiteral() (ast.Expression, error) {
	tok := p.cur()
	v, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		return nil, p.errf(tok, "invalid integer literal %q", tok.Literal)
	}
	p.advance()
	return &ast.IntegerLiteral{Token: tok, Value: v}, nil
}

func (p *Parser) parseFloatLiteral() (ast.Expression, error) {
	tok := p.cur()
	v, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		return nil, p.errf(tok, "invalid float literal %q", tok.Literal)
	}
	p.advance()
	return &ast.FloatLiteral{Token: tok, Value: v}, nil
}

func (p *Parser) parseUserInput() (ast.Expression, error) {
	p.advance()
	if _, err := p.expect(token.DOT); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	var kind ast.UserInputKind
	switch nameTok.Literal {
	case "in":
		kind = ast.UserInInt
	case "in_float":
		kind = ast.UserInFloat
	case "in_string":
		kind = ast.UserInString
	case "in_boolean":
		kind = ast.UserInBoolean
	default:
		return nil, p.errf(nameTok, "unknown user input form %q", nameTok.Literal)
	}
	return &ast.UserInputExpression{Token: nameTok, Kind: kind}, nil
}

var infixOperatorLiteral = map[token.Type]string{
	token.PLUS: "+", token.MINUS: "-", token.ASTERISK: "*", token.SLASH: "/", token.PERCENT: "%",
	token.GT: ">", token.LT: "<", token.GE: ">=", token.LE: "<=",
	token.EQ: "==", token.NEQ: "!=", token.AND: "&&", token.OR: "||",
}

func (p *Parser) parseInfix(left ast.Expression) (ast.Expression, error) {
	tok := p.cur()
	prec := precedenceOf(tok.Type)
	p.advance()
	right, err := p.parseExpression(prec)
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpression{Token: tok, Left: left, Operator: infixOperatorLiteral[tok.Type], Right: right}, nil
}

func (p *Parser) parseIndex(left ast.Expression) (ast.Expression, error) {
	tok := p.cur()
	p.advance()
	idx, err := p.parseExpression(lowest)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.IndexExpression{Token: tok, Left: left, Index: idx}, nil
}

func (p *Parser) parseCall(left ast.Expression) (ast.Expression, error) {
	ident, ok := left.(*ast.Identifier)
	if !ok {
		return nil, p.errf(p.cur(), "only a plain name may be called as a function")
	}
	tok := p.cur()
	p.advance()
	call := &ast.CallExpression{Token: tok, Function: ident}
	for p.cur().Type != token.RPAREN {
		if len(call.Arguments) > 0 {
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
		}
		arg, err := p.parseExpression(lowest)
		if err != nil {
			return nil, err
		}
		call.Arguments = append(call.Arguments, arg)
	}
	p.advance() // consume ')'
	return call, nil
}
