package interp

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/teachlang/teachlang/internal/ast"
	"github.com/teachlang/teachlang/internal/scope"
	"github.com/teachlang/teachlang/internal/value"
)

const floatEpsilon = 1e-9

// maxStringLen bounds the result of string concatenation with +,
// matching the original MAX_STRING_LEN (cs-v0.0.3.c:14), a buffer size
// that includes the terminator: a result must be shorter than
// maxStringLen. A longer result is a Range error (§7 "string length
// overflow"), not silent truncation. Other string-producing operations
// are not checked against it.
const maxStringLen = 256

func (ip *Interpreter) eval(expr ast.Expression) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return value.Int{V: e.Value}, nil
	case *ast.FloatLiteral:
		return value.Float{V: e.Value}, nil
	case *ast.StringLiteral:
		return value.Str{V: e.Value}, nil
	case *ast.BooleanLiteral:
		return value.Bool{V: e.Value}, nil
	case *ast.Identifier:
		return ip.evalIdentifier(e)
	case *ast.GroupedExpression:
		return ip.eval(e.Expression)
	case *ast.UnaryExpression:
		return ip.evalUnary(e)
	case *ast.BinaryExpression:
		return ip.evalBinary(e)
	case *ast.IndexExpression:
		return ip.evalIndex(e)
	case *ast.CallExpression:
		return ip.evalCall(e)
	case *ast.UserInputExpression:
		return ip.evalUserInput(e)
	default:
		return nil, ip.errf(expr, "unsupported expression")
	}
}

func (ip *Interpreter) evalIdentifier(e *ast.Identifier) (value.Value, error) {
	v, ok := ip.Scopes.Lookup(e.Name)
	if !ok {
		return nil, ip.errf(e, "undeclared identifier %q", e.Name)
	}
	if v.IsArray {
		return value.Array{Obj: v.Array}, nil
	}
	if !v.IsDefined {
		return nil, ip.errf(e, "use of %q before it is assigned a value", e.Name)
	}
	return v.Val, nil
}

func (ip *Interpreter) evalIndex(e *ast.IndexExpression) (value.Value, error) {
	left, err := ip.eval(e.Left)
	if err != nil {
		return nil, err
	}
	arr, ok := left.(value.Array)
	if !ok {
		return nil, ip.errf(e, "cannot index a value of type %s", left.Type())
	}
	idxVal, err := ip.eval(e.Index)
	if err != nil {
		return nil, err
	}
	idx, ok := idxVal.(value.Int)
	if !ok {
		return nil, ip.errf(e, "array index must be an int, got %s", idxVal.Type())
	}
	n := int64(len(arr.Obj.Elements))
	if idx.V < 0 || idx.V >= n {
		return nil, ip.errf(e, "array index %d out of bounds [0,%d)", idx.V, n)
	}
	return arr.Obj.Elements[idx.V], nil
}

func (ip *Interpreter) evalUnary(e *ast.UnaryExpression) (value.Value, error) {
	right, err := ip.eval(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Operator {
	case "-":
		switch n := right.(type) {
		case value.Int:
			return value.Int{V: -n.V}, nil
		case value.Float:
			return value.Float{V: -n.V}, nil
		default:
			return nil, ip.errf(e, "unary - expects a numeric operand, got %s", right.Type())
		}
	case "!":
		b, ok := right.(value.Bool)
		if !ok {
			return nil, ip.errf(e, "unary ! expects a boolean operand, got %s", right.Type())
		}
		return value.Bool{V: !b.V}, nil
	default:
		return nil, ip.errf(e, "unsupported unary operator %q", e.Operator)
	}
}

// evalBinary implements every binary operator's typing rules, including
// short-circuit evaluation for && and || (§4.E "Short-circuit").
func (ip *Interpreter) evalBinary(e *ast.BinaryExpression) (value.Value, error) {
	if e.Operator == "&&" || e.Operator == "||" {
		return ip.evalLogical(e)
	}

	left, err := ip.eval(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := ip.eval(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator {
	case "+", "-", "*", "/", "%":
		return ip.evalArith(e, left, right)
	case "==", "!=":
		return ip.evalEquality(e, left, right)
	case "<", "<=", ">", ">=":
		return ip.evalCompare(e, left, right)
	default:
		return nil, ip.errf(e, "unsupported binary operator %q", e.Operator)
	}
}

func (ip *Interpreter) evalLogical(e *ast.BinaryExpression) (value.Value, error) {
	left, err := ip.eval(e.Left)
	if err != nil {
		return nil, err
	}
	lb, ok := left.(value.Bool)
	if !ok {
		return nil, ip.errf(e, "%s expects boolean operands, got %s", e.Operator, left.Type())
	}
	if e.Operator == "&&" && !lb.V {
		return value.Bool{V: false}, nil
	}
	if e.Operator == "||" && lb.V {
		return value.Bool{V: true}, nil
	}
	right, err := ip.eval(e.Right)
	if err != nil {
		return nil, err
	}
	rb, ok := right.(value.Bool)
	if !ok {
		return nil, ip.errf(e, "%s expects boolean operands, got %s", e.Operator, right.Type())
	}
	return rb, nil
}

// evalArith handles +, -, *, /, % with int/int, float/float, and mixed
// int/float (promoted to float) operands. + additionally concatenates
// when either operand is a string, displaying the other operand with
// its String() form (§4.E "String concatenation").
func (ip *Interpreter) evalArith(e *ast.BinaryExpression, left, right value.Value) (value.Value, error) {
	if e.Operator == "+" {
		if _, ok := left.(value.Str); ok {
			return ip.concatStrings(e, left.String(), displayForConcat(right))
		}
		if _, ok := right.(value.Str); ok {
			return ip.concatStrings(e, displayForConcat(left), right.String())
		}
	}

	li, lIsInt := left.(value.Int)
	ri, rIsInt := right.(value.Int)
	if lIsInt && rIsInt {
		switch e.Operator {
		case "+":
			return value.Int{V: li.V + ri.V}, nil
		case "-":
			return value.Int{V: li.V - ri.V}, nil
		case "*":
			return value.Int{V: li.V * ri.V}, nil
		case "/":
			if ri.V == 0 {
				return nil, ip.errf(e, "integer division by zero")
			}
			if li.V%ri.V == 0 {
				return value.Int{V: li.V / ri.V}, nil
			}
			return value.Float{V: float64(li.V) / float64(ri.V)}, nil
		case "%":
			if ri.V == 0 {
				return nil, ip.errf(e, "modulo by zero")
			}
			return value.Int{V: li.V % ri.V}, nil
		}
	}

	lf, lok := numericFloat(left)
	rf, rok := numericFloat(right)
	if !lok || !rok {
		return nil, ip.errf(e, "operator %s is not defined for %s and %s", e.Operator, left.Type(), right.Type())
	}
	switch e.Operator {
	case "+":
		return value.Float{V: lf + rf}, nil
	case "-":
		return value.Float{V: lf - rf}, nil
	case "*":
		return value.Float{V: lf * rf}, nil
	case "/":
		if rf == 0 {
			return nil, ip.errf(e, "float division by zero")
		}
		return value.Float{V: lf / rf}, nil
	case "%":
		return nil, ip.errf(e, "%% is not defined for float operands")
	default:
		return nil, ip.errf(e, "unsupported arithmetic operator %q", e.Operator)
	}
}

func displayForConcat(v value.Value) string { return v.String() }

// concatStrings joins a and b, rejecting the result if its length
// reaches maxStringLen (§4.E "String result bounded").
func (ip *Interpreter) concatStrings(e *ast.BinaryExpression, a, b string) (value.Value, error) {
	if len(a)+len(b) >= maxStringLen {
		return nil, ip.errf(e, "string concatenation result exceeds maximum length of %d", maxStringLen-1)
	}
	return value.Str{V: a + b}, nil
}

func numericFloat(v value.Value) (float64, bool) {
	switch n := v.(type) {
	case value.Int:
		return float64(n.V), true
	case value.Float:
		return n.V, true
	default:
		return 0, false
	}
}

// evalEquality implements == and !=. Arrays compare by reference
// identity (§3 "Array equality"); int and float compare numerically
// with an epsilon when either side is float; values of unrelated types
// (including two different non-numeric types) are always unequal,
// never an error (§9 Open Questions).
func (ip *Interpreter) evalEquality(e *ast.BinaryExpression, left, right value.Value) (value.Value, error) {
	eq := valuesEqual(left, right)
	if e.Operator == "!=" {
		eq = !eq
	}
	return value.Bool{V: eq}, nil
}

func valuesEqual(left, right value.Value) bool {
	switch l := left.(type) {
	case value.Int:
		switch r := right.(type) {
		case value.Int:
			return l.V == r.V
		case value.Float:
			return floatEq(float64(l.V), r.V)
		}
		return false
	case value.Float:
		switch r := right.(type) {
		case value.Int:
			return floatEq(l.V, float64(r.V))
		case value.Float:
			return floatEq(l.V, r.V)
		}
		return false
	case value.Str:
		r, ok := right.(value.Str)
		return ok && l.V == r.V
	case value.Bool:
		r, ok := right.(value.Bool)
		return ok && l.V == r.V
	case value.Null:
		_, ok := right.(value.Null)
		return ok
	case value.Array:
		r, ok := right.(value.Array)
		return ok && l.Obj == r.Obj
	default:
		return false
	}
}

func floatEq(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < floatEpsilon
}

func (ip *Interpreter) evalCompare(e *ast.BinaryExpression, left, right value.Value) (value.Value, error) {
	if ls, ok := left.(value.Str); ok {
		rs, ok := right.(value.Str)
		if !ok {
			return nil, ip.errf(e, "operator %s is not defined for string and %s", e.Operator, right.Type())
		}
		return value.Bool{V: compareOp(e.Operator, strings.Compare(ls.V, rs.V))}, nil
	}
	lf, lok := numericFloat(left)
	rf, rok := numericFloat(right)
	if !lok || !rok {
		return nil, ip.errf(e, "operator %s is not defined for %s and %s", e.Operator, left.Type(), right.Type())
	}
	switch e.Operator {
	case "<":
		return value.Bool{V: lf < rf}, nil
	case "<=":
		return value.Bool{V: lf <= rf}, nil
	case ">":
		return value.Bool{V: lf > rf}, nil
	case ">=":
		return value.Bool{V: lf >= rf}, nil
	default:
		return nil, ip.errf(e, "unsupported comparison operator %q", e.Operator)
	}
}

func compareOp(op string, cmp int) bool {
	switch op {
	case "<":
		return cmp < 0
	case "<=":
		return cmp <= 0
	case ">":
		return cmp > 0
	case ">=":
		return cmp >= 0
	default:
		return false
	}
}

func (ip *Interpreter) evalCall(e *ast.CallExpression) (value.Value, error) {
	name := e.Function.Name

	args := make([]value.Value, len(e.Arguments))
	for i, a := range e.Arguments {
		v, err := ip.eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if v, ok, err := ip.callBuiltin(name, args); ok {
		if err != nil {
			return nil, ip.errf(e, "%v", err)
		}
		return v, nil
	}

	fn, ok := ip.Functions.Lookup(name)
	if !ok {
		return nil, ip.errf(e, "call to undeclared function %q", name)
	}
	return ip.invokeFunction(e, fn, args)
}

// invokeFunction binds args to fn's parameters in a fresh scope, pushes
// a call frame, walks the body, and restores everything on return
// (§4.C). Because the body is an already-parsed AST subtree, resuming
// the caller on return is ordinary Go function return — no token cursor
// needs to be saved or restored.
func (ip *Interpreter) invokeFunction(call *ast.CallExpression, fn *ast.FunctionDecl, args []value.Value) (value.Value, error) {
	if len(args) != len(fn.Parameters) {
		return nil, ip.errf(call, "function %q expects %d argument(s), got %d", fn.Name.Name, len(fn.Parameters), len(args))
	}

	frame := &CallFrame{
		FunctionName:   fn.Name.Name,
		ReturnType:     fn.ReturnType.Name,
		LocalsMark:     ip.Scopes.Mark(),
		SavedLoopDepth: ip.LoopDepth,
	}
	if err := ip.Calls.Push(frame); err != nil {
		return nil, ip.errf(call, "%v", err)
	}
	ip.LoopDepth = 0

	if ip.Trace != nil {
		ip.Trace.Call(fn.Name.Name, len(args))
	}

	ip.Scopes.EnterScope()
	for i, p := range fn.Parameters {
		coerced, err := ip.coerceAssign(p.Type.Name, args[i], call)
		if err != nil {
			ip.Scopes.ExitScope()
			ip.Calls.Pop()
			ip.LoopDepth = frame.SavedLoopDepth
			return nil, err
		}
		_ = ip.Scopes.Declare(&scope.Variable{
			Name: p.Name.Name, Type: p.Type.Name, Val: coerced, IsDefined: true,
		})
	}

	f, err := ip.execBlock(fn.Body, false)

	ip.Scopes.ExitScope()
	ip.Scopes.TruncateTo(frame.LocalsMark)
	ip.Calls.Pop()
	ip.LoopDepth = frame.SavedLoopDepth

	if err != nil {
		return nil, err
	}

	var result value.Value = value.Null{}
	if f.kind == flowReturn {
		result = f.value
	} else if fn.ReturnType.Name != "void" {
		return nil, ip.errf(call, "function %q falls off the end without returning a value", fn.Name.Name)
	}
	if ip.Trace != nil {
		ip.Trace.Return(fn.Name.Name, result.String())
	}
	return result, nil
}

func (ip *Interpreter) evalUserInput(e *ast.UserInputExpression) (value.Value, error) {
	line, err := readLine(ip.In)
	if err != nil {
		return nil, ip.errf(e, "user input: %v", err)
	}
	line = strings.TrimSpace(line)

	switch e.Kind {
	case ast.UserInInt:
		n, err := strconv.ParseInt(line, 10, 64)
		if err != nil {
			return nil, ip.errf(e, "user.in: %q is not a valid int", line)
		}
		return value.Int{V: n}, nil
	case ast.UserInFloat:
		f, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, ip.errf(e, "user.in_float: %q is not a valid float", line)
		}
		return value.Float{V: f}, nil
	case ast.UserInString:
		return value.Str{V: line}, nil
	case ast.UserInBoolean:
		switch strings.ToLower(line) {
		case "true":
			return value.Bool{V: true}, nil
		case "false":
			return value.Bool{V: false}, nil
		default:
			return nil, ip.errf(e, "user.in_boolean: %q is not 'true' or 'false'", line)
		}
	default:
		return nil, ip.errf(e, "unsupported user input kind")
	}
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("no more input available")
	}
	return strings.TrimRight(line, "\r\n"), nil
}
