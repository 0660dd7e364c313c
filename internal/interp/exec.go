package interp

import (
	"fmt"

	"github.com/teachlang/teachlang/internal/ast"
	"github.com/teachlang/teachlang/internal/scope"
	"github.com/teachlang/teachlang/internal/value"
)

// execBlock runs a block's statements in order. openScope is false only
// for a function's immediate body, whose parameter scope (opened by
// invokeFunction) already serves as the body's scope (§4.X "Block").
// A non-none flow returned partway through stops the remaining
// statements from executing at all, which is the AST equivalent of the
// source's execute=false statement-list skipping.
func (ip *Interpreter) execBlock(block *ast.BlockStatement, openScope bool) (flow, error) {
	if openScope {
		ip.Scopes.EnterScope()
		defer ip.Scopes.ExitScope()
	}
	for _, stmt := range block.Statements {
		if fd, ok := stmt.(*ast.FunctionDecl); ok {
			return noFlow, ip.errf(fd, "function declarations are only allowed at the top level")
		}
		f, err := ip.execStatement(stmt)
		if err != nil {
			return noFlow, err
		}
		if f.kind != flowNone {
			return f, nil
		}
	}
	return noFlow, nil
}

func (ip *Interpreter) execStatement(stmt ast.Statement) (flow, error) {
	switch s := stmt.(type) {
	case *ast.VarDeclStatement:
		return noFlow, ip.execVarDecl(s)
	case *ast.AssignmentStatement:
		return noFlow, ip.execAssignment(s)
	case *ast.OutDisplayStatement:
		return noFlow, ip.execOutDisplay(s)
	case *ast.IfStatement:
		return ip.execIf(s)
	case *ast.WhileStatement:
		return ip.execWhile(s)
	case *ast.ForStatement:
		return ip.execFor(s)
	case *ast.BreakStatement:
		if ip.LoopDepth <= 0 {
			return noFlow, ip.errf(s, "break is only legal inside a loop")
		}
		return flow{kind: flowBreak}, nil
	case *ast.ContinueStatement:
		if ip.LoopDepth <= 0 {
			return noFlow, ip.errf(s, "continue is only legal inside a loop")
		}
		return flow{kind: flowContinue}, nil
	case *ast.ReturnStatement:
		return ip.execReturn(s)
	case *ast.BlockStatement:
		return ip.execBlock(s, true)
	case *ast.ImportStatement:
		return noFlow, ip.execImport(s)
	case *ast.ExpressionStatement:
		_, err := ip.eval(s.Expression)
		return noFlow, err
	default:
		return noFlow, ip.errf(stmt, "unsupported statement")
	}
}

func (ip *Interpreter) execVarDecl(s *ast.VarDeclStatement) error {
	if s.Type.Name == "void" {
		return ip.errf(s, "void is not a valid variable type")
	}

	if s.Size != nil {
		sizeVal, err := ip.eval(s.Size)
		if err != nil {
			return err
		}
		sizeInt, ok := sizeVal.(value.Int)
		if !ok {
			return ip.errf(s, "array size must be an int, got %s", sizeVal.Type())
		}
		if sizeInt.V <= 0 {
			return ip.errf(s, "array size must be positive, got %d", sizeInt.V)
		}
		elems := make([]value.Value, sizeInt.V)
		for i := range elems {
			elems[i] = value.ZeroValue(s.Type.Name)
		}
		obj := &value.Object{ElementType: s.Type.Name, Elements: elems}
		v := &scope.Variable{
			Name: s.Name.Name, Type: "array", IsArray: true,
			ElementType: s.Type.Name, IsDefined: true, Array: obj,
		}
		if err := ip.Scopes.Declare(v); err != nil {
			return ip.errf(s, "%v", err)
		}
		return nil
	}

	v := &scope.Variable{Name: s.Name.Name, Type: s.Type.Name}
	if s.Value != nil {
		val, err := ip.eval(s.Value)
		if err != nil {
			return err
		}
		coerced, err := ip.coerceAssign(s.Type.Name, val, s)
		if err != nil {
			return err
		}
		v.Val = coerced
		v.IsDefined = true
	}
	if err := ip.Scopes.Declare(v); err != nil {
		return ip.errf(s, "%v", err)
	}
	return nil
}

func (ip *Interpreter) execAssignment(s *ast.AssignmentStatement) error {
	switch target := s.Target.(type) {
	case *ast.Identifier:
		v, ok := ip.Scopes.Lookup(target.Name)
		if !ok {
			return ip.errf(target, "undeclared identifier %q", target.Name)
		}
		if v.IsArray {
			return ip.errf(s, "assigning an entire array to another array variable is not supported")
		}
		val, err := ip.eval(s.Value)
		if err != nil {
			return err
		}
		coerced, err := ip.coerceAssign(v.Type, val, s)
		if err != nil {
			return err
		}
		v.Val = coerced
		v.IsDefined = true
		return nil

	case *ast.IndexExpression:
		arrVar, idx, err := ip.resolveIndexTarget(target)
		if err != nil {
			return err
		}
		val, err := ip.eval(s.Value)
		if err != nil {
			return err
		}
		coerced, err := ip.coerceAssign(arrVar.ElementType, val, s)
		if err != nil {
			return err
		}
		arrVar.Array.Elements[idx] = coerced
		return nil

	default:
		return ip.errf(s, "left-hand side of assignment must be a variable or array element")
	}
}

// resolveIndexTarget evaluates the array variable and in-bounds index
// for an IndexExpression used as an assignment target.
func (ip *Interpreter) resolveIndexTarget(e *ast.IndexExpression) (*scope.Variable, int64, error) {
	ident, ok := e.Left.(*ast.Identifier)
	if !ok {
		return nil, 0, ip.errf(e, "index target must be a plain array variable")
	}
	v, ok := ip.Scopes.Lookup(ident.Name)
	if !ok {
		return nil, 0, ip.errf(ident, "undeclared identifier %q", ident.Name)
	}
	if !v.IsArray {
		return nil, 0, ip.errf(e, "%q is not an array", ident.Name)
	}
	idxVal, err := ip.eval(e.Index)
	if err != nil {
		return nil, 0, err
	}
	idxInt, ok := idxVal.(value.Int)
	if !ok {
		return nil, 0, ip.errf(e, "array index must be an int, got %s", idxVal.Type())
	}
	n := int64(len(v.Array.Elements))
	if idxInt.V < 0 || idxInt.V >= n {
		return nil, 0, ip.errf(e, "array index %d out of bounds [0,%d)", idxInt.V, n)
	}
	return v, idxInt.V, nil
}

func (ip *Interpreter) execOutDisplay(s *ast.OutDisplayStatement) error {
	val, err := ip.eval(s.Value)
	if err != nil {
		return err
	}
	fmt.Fprintln(ip.Out, val.String())
	return nil
}

func (ip *Interpreter) execIf(s *ast.IfStatement) (flow, error) {
	cond, err := ip.eval(s.Condition)
	if err != nil {
		return noFlow, err
	}
	b, ok := cond.(value.Bool)
	if !ok {
		return noFlow, ip.errf(s, "if condition must be boolean, got %s", cond.Type())
	}
	if b.V {
		return ip.execBlock(s.Consequence, true)
	}
	if s.Alternative != nil {
		return ip.execBlock(s.Alternative, true)
	}
	return noFlow, nil
}

func (ip *Interpreter) execWhile(s *ast.WhileStatement) (flow, error) {
	ip.LoopDepth++
	defer func() { ip.LoopDepth-- }()

	for {
		cond, err := ip.eval(s.Condition)
		if err != nil {
			return noFlow, err
		}
		b, ok := cond.(value.Bool)
		if !ok {
			return noFlow, ip.errf(s, "while condition must be boolean, got %s", cond.Type())
		}
		if !b.V {
			return noFlow, nil
		}
		f, err := ip.execBlock(s.Body, true)
		if err != nil {
			return noFlow, err
		}
		switch f.kind {
		case flowBreak:
			return noFlow, nil
		case flowReturn:
			return f, nil
		}
	}
}

func (ip *Interpreter) execFor(s *ast.ForStatement) (flow, error) {
	ip.Scopes.EnterScope()
	defer ip.Scopes.ExitScope()

	if s.Init != nil {
		if vd, ok := s.Init.(*ast.VarDeclStatement); ok {
			if err := ip.execVarDecl(vd); err != nil {
				return noFlow, err
			}
			if v, ok := ip.Scopes.Lookup(vd.Name.Name); ok {
				v.IsLoopVar = true
			}
		} else if _, err := ip.execStatement(s.Init); err != nil {
			return noFlow, err
		}
	}

	ip.LoopDepth++
	defer func() { ip.LoopDepth-- }()

	for {
		if s.Cond != nil {
			cond, err := ip.eval(s.Cond)
			if err != nil {
				return noFlow, err
			}
			b, ok := cond.(value.Bool)
			if !ok {
				return noFlow, ip.errf(s, "for condition must be boolean, got %s", cond.Type())
			}
			if !b.V {
				return noFlow, nil
			}
		}

		f, err := ip.execBlock(s.Body, true)
		if err != nil {
			return noFlow, err
		}
		if f.kind == flowBreak {
			return noFlow, nil
		}
		if f.kind == flowReturn {
			return f, nil
		}

		if s.Post != nil {
			if _, err := ip.execStatement(s.Post); err != nil {
				return noFlow, err
			}
		}
	}
}

func (ip *Interpreter) execReturn(s *ast.ReturnStatement) (flow, error) {
	if ip.Calls.Depth() <= 0 {
		return noFlow, ip.errf(s, "return is only legal inside a function")
	}
	frame := ip.Calls.Current()

	if s.Value == nil {
		if frame.ReturnType != "void" {
			return noFlow, ip.errf(s, "function %q must return a value of type %s", frame.FunctionName, frame.ReturnType)
		}
		return flow{kind: flowReturn, value: value.Null{}}, nil
	}

	if frame.ReturnType == "void" {
		return noFlow, ip.errf(s, "void function %q may not return a value", frame.FunctionName)
	}

	val, err := ip.eval(s.Value)
	if err != nil {
		return noFlow, err
	}
	coerced, err := ip.coerceAssign(frame.ReturnType, val, s)
	if err != nil {
		return noFlow, err
	}
	return flow{kind: flowReturn, value: coerced}, nil
}

// coerceAssign checks v against targetType, promoting int to float, and
// fails on any other mismatch (§4.E "Numeric promotion").
func (ip *Interpreter) coerceAssign(targetType string, v value.Value, node ast.Node) (value.Value, error) {
	switch targetType {
	case "int":
		if iv, ok := v.(value.Int); ok {
			return iv, nil
		}
		return nil, ip.errf(node, "type mismatch: expected int, got %s", v.Type())
	case "float":
		switch n := v.(type) {
		case value.Float:
			return n, nil
		case value.Int:
			return value.Float{V: float64(n.V)}, nil
		}
		return nil, ip.errf(node, "type mismatch: expected float, got %s", v.Type())
	case "string":
		if sv, ok := v.(value.Str); ok {
			return sv, nil
		}
		return nil, ip.errf(node, "type mismatch: expected string, got %s", v.Type())
	case "boolean":
		if bv, ok := v.(value.Bool); ok {
			return bv, nil
		}
		return nil, ip.errf(node, "type mismatch: expected boolean, got %s", v.Type())
	default:
		return nil, ip.errf(node, "unknown target type %q", targetType)
	}
}
