package interp

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/teachlang/teachlang/internal/value"
)

// callBuiltin dispatches a built-in call by name. ok is false if name is
// not a built-in, in which case the caller falls through to user
// function lookup.
func (in *Interpreter) callBuiltin(name string, args []value.Value) (value.Value, bool, error) {
	switch name {
	case "length":
		return builtinLength(args)
	case "int_to_string":
		return builtinIntToString(args)
	case "concat":
		return builtinConcat(args)
	case "sqrt":
		return builtinSqrt(args)
	case "to_upper":
		return builtinToUpper(args)
	case "to_lower":
		return builtinToLower(args)
	case "pow":
		return builtinPow(args)
	case "substring":
		return builtinSubstring(args)
	case "string_to_int":
		return builtinStringToInt(args)
	case "string_to_float":
		return builtinStringToFloat(args)
	case "type_of":
		return builtinTypeOf(args)
	case "read_file_text":
		return builtinReadFileText(args)
	case "write_file_text":
		return builtinWriteFileText(args)
	default:
		return nil, false, nil
	}
}

func arity(name string, args []value.Value, n int) error {
	if len(args) != n {
		return fmt.Errorf("%s expects %d argument(s), got %d", name, n, len(args))
	}
	return nil
}

func numericValue(v value.Value) (float64, bool, bool) {
	switch n := v.(type) {
	case value.Int:
		return float64(n.V), true, true
	case value.Float:
		return n.V, true, false
	default:
		return 0, false, false
	}
}

func builtinLength(args []value.Value) (value.Value, bool, error) {
	if err := arity("length", args, 1); err != nil {
		return nil, true, err
	}
	switch v := args[0].(type) {
	case value.Str:
		return value.Int{V: int64(len(v.V))}, true, nil
	case value.Array:
		return value.Int{V: int64(len(v.Obj.Elements))}, true, nil
	default:
		return nil, true, fmt.Errorf("length expects a string or array, got %s", v.Type())
	}
}

func builtinIntToString(args []value.Value) (value.Value, bool, error) {
	if err := arity("int_to_string", args, 1); err != nil {
		return nil, true, err
	}
	i, ok := args[0].(value.Int)
	if !ok {
		return nil, true, fmt.Errorf("int_to_string expects int, got %s", args[0].Type())
	}
	return value.Str{V: strconv.FormatInt(i.V, 10)}, true, nil
}

func builtinConcat(args []value.Value) (value.Value, bool, error) {
	if err := arity("concat", args, 2); err != nil {
		return nil, true, err
	}
	a, ok1 := args[0].(value.Str)
	b, ok2 := args[1].(value.Str)
	if !ok1 || !ok2 {
		return nil, true, fmt.Errorf("concat expects (string, string)")
	}
	return value.Str{V: a.V + b.V}, true, nil
}

func builtinSqrt(args []value.Value) (value.Value, bool, error) {
	if err := arity("sqrt", args, 1); err != nil {
		return nil, true, err
	}
	f, ok, _ := numericValue(args[0])
	if !ok {
		return nil, true, fmt.Errorf("sqrt expects a numeric argument, got %s", args[0].Type())
	}
	if f < 0 {
		return nil, true, fmt.Errorf("sqrt of negative number %g", f)
	}
	return value.Float{V: math.Sqrt(f)}, true, nil
}

func builtinToUpper(args []value.Value) (value.Value, bool, error) {
	if err := arity("to_upper", args, 1); err != nil {
		return nil, true, err
	}
	s, ok := args[0].(value.Str)
	if !ok {
		return nil, true, fmt.Errorf("to_upper expects string, got %s", args[0].Type())
	}
	return value.Str{V: strings.ToUpper(s.V)}, true, nil
}

func builtinToLower(args []value.Value) (value.Value, bool, error) {
	if err := arity("to_lower", args, 1); err != nil {
		return nil, true, err
	}
	s, ok := args[0].(value.Str)
	if !ok {
		return nil, true, fmt.Errorf("to_lower expects string, got %s", args[0].Type())
	}
	return value.Str{V: strings.ToLower(s.V)}, true, nil
}

func builtinPow(args []value.Value) (value.Value, bool, error) {
	if err := arity("pow", args, 2); err != nil {
		return nil, true, err
	}
	b, ok1, _ := numericValue(args[0])
	e, ok2, _ := numericValue(args[1])
	if !ok1 || !ok2 {
		return nil, true, fmt.Errorf("pow expects (numeric, numeric)")
	}
	return value.Float{V: math.Pow(b, e)}, true, nil
}

func builtinSubstring(args []value.Value) (value.Value, bool, error) {
	if err := arity("substring", args, 3); err != nil {
		return nil, true, err
	}
	s, ok1 := args[0].(value.Str)
	start, ok2 := args[1].(value.Int)
	length, ok3 := args[2].(value.Int)
	if !ok1 || !ok2 || !ok3 {
		return nil, true, fmt.Errorf("substring expects (string, int, int)")
	}
	if start.V < 0 || start.V > int64(len(s.V)) {
		return nil, true, fmt.Errorf("substring start %d out of range [0,%d]", start.V, len(s.V))
	}
	if length.V < 0 {
		return nil, true, fmt.Errorf("substring length must be non-negative")
	}
	end := start.V + length.V
	if end > int64(len(s.V)) {
		end = int64(len(s.V))
	}
	return value.Str{V: s.V[start.V:end]}, true, nil
}

func builtinStringToInt(args []value.Value) (value.Value, bool, error) {
	if err := arity("string_to_int", args, 1); err != nil {
		return nil, true, err
	}
	s, ok := args[0].(value.Str)
	if !ok {
		return nil, true, fmt.Errorf("string_to_int expects string, got %s", args[0].Type())
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s.V), 10, 64)
	if err != nil {
		return nil, true, fmt.Errorf("string_to_int: %q is not a valid integer", s.V)
	}
	return value.Int{V: n}, true, nil
}

func builtinStringToFloat(args []value.Value) (value.Value, bool, error) {
	if err := arity("string_to_float", args, 1); err != nil {
		return nil, true, err
	}
	s, ok := args[0].(value.Str)
	if !ok {
		return nil, true, fmt.Errorf("string_to_float expects string, got %s", args[0].Type())
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s.V), 64)
	if err != nil {
		return nil, true, fmt.Errorf("string_to_float: %q is not a valid float", s.V)
	}
	return value.Float{V: f}, true, nil
}

func builtinTypeOf(args []value.Value) (value.Value, bool, error) {
	if err := arity("type_of", args, 1); err != nil {
		return nil, true, err
	}
	return value.Str{V: args[0].Type()}, true, nil
}

const maxReadFileBytes = 1 << 20 // source buffer bound (§4.C read_file_text)

func builtinReadFileText(args []value.Value) (value.Value, bool, error) {
	if err := arity("read_file_text", args, 1); err != nil {
		return nil, true, err
	}
	path, ok := args[0].(value.Str)
	if !ok {
		return nil, true, fmt.Errorf("read_file_text expects string, got %s", args[0].Type())
	}
	data, err := os.ReadFile(path.V)
	if err != nil {
		return nil, true, fmt.Errorf("read_file_text: %v", err)
	}
	if len(data) > maxReadFileBytes {
		return nil, true, fmt.Errorf("read_file_text: %q exceeds the source buffer bound", path.V)
	}
	return value.Str{V: string(data)}, true, nil
}

func builtinWriteFileText(args []value.Value) (value.Value, bool, error) {
	if err := arity("write_file_text", args, 2); err != nil {
		return nil, true, err
	}
	path, ok1 := args[0].(value.Str)
	content, ok2 := args[1].(value.Str)
	if !ok1 || !ok2 {
		return nil, true, fmt.Errorf("write_file_text expects (string, string)")
	}
	if err := os.WriteFile(path.V, []byte(content.V), 0o644); err != nil {
		return value.Bool{V: false}, true, nil
	}
	return value.Bool{V: true}, true, nil
}
