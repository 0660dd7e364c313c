package interp

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

func run(t *testing.T, src string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	ip := New(&out, strings.NewReader(""))
	err := ip.Run("test.tl", src)
	return out.String(), err
}

func TestFibonacciRecursion(t *testing.T) {
	src := `
		fun fib(n: int): int {
			if (n < 2) {
				return n;
			}
			return fib(n - 1) + fib(n - 2);
		}
		out.display(fib(10));
	`
	out, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "55" {
		t.Errorf("got %q, want 55", out)
	}
}

func TestArrayDeclarationAndIndexing(t *testing.T) {
	src := `
		var a: int[5];
		for (var i: int = 0; i < 5; i = i + 1) {
			a[i] = i * i;
		}
		out.display(a[4]);
	`
	out, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "16" {
		t.Errorf("got %q, want 16", out)
	}
}

func TestArrayEqualityIsReferenceIdentity(t *testing.T) {
	src := `
		var a: int[3];
		var b: int[3];
		out.display(a == b);
		out.display(a == a);
	`
	out, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || lines[0] != "false" || lines[1] != "true" {
		t.Fatalf("got %q, want [false true] (reference identity, not element-wise)", lines)
	}
}

func TestWhileBreakContinue(t *testing.T) {
	src := `
		var i: int = 0;
		var sum: int = 0;
		while (i < 10) {
			i = i + 1;
			if (i % 2 == 0) {
				continue;
			}
			if (i > 7) {
				break;
			}
			sum = sum + i;
		}
		out.display(sum);
	`
	out, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// odd i in 1..7: 1+3+5+7 = 16
	if strings.TrimSpace(out) != "16" {
		t.Errorf("got %q, want 16", out)
	}
}

func TestBreakOutsideLoopIsAnError(t *testing.T) {
	_, err := run(t, `break;`)
	if err == nil {
		t.Fatal("expected an error for break outside a loop")
	}
}

func TestReturnOutsideFunctionIsAnError(t *testing.T) {
	_, err := run(t, `return 1;`)
	if err == nil {
		t.Fatal("expected an error for return outside a function")
	}
}

func TestIntFloatPromotionOnAssignment(t *testing.T) {
	src := `
		var f: float = 3;
		out.display(f);
	`
	out, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "3" {
		t.Errorf("got %q, want 3", out)
	}
}

func TestStringConcatenationDisplaysOtherOperand(t *testing.T) {
	src := `
		var s: string = "count: " + 5;
		out.display(s);
	`
	out, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "count: 5" {
		t.Errorf("got %q, want %q", out, "count: 5")
	}
}

func TestTypeMismatchOnAssignmentIsAnError(t *testing.T) {
	_, err := run(t, `var x: int = "not an int";`)
	if err == nil {
		t.Fatal("expected a type mismatch error")
	}
}

func TestDivisionByZeroIsAnError(t *testing.T) {
	_, err := run(t, `var x: int = 1 / 0;`)
	if err == nil {
		t.Fatal("expected a division-by-zero error")
	}
}

func TestIntDivisionPromotesToFloatWhenInexact(t *testing.T) {
	src := `
		var exact: int = 6 / 2;
		out.display(exact);
		var inexact: float = 7 / 2;
		out.display(inexact);
	`
	out, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || lines[0] != "3" || lines[1] != "3.5" {
		t.Fatalf("got %q, want [3 3.5]", lines)
	}
}

func TestStringConcatenationExceedingBoundIsAnError(t *testing.T) {
	src := `
		var s: string = "` + strings.Repeat("a", 250) + `" + "` + strings.Repeat("b", 250) + `";
	`
	_, err := run(t, src)
	if err == nil {
		t.Fatal("expected a string-length-overflow error")
	}
}

func TestStackOverflowOnUnboundedRecursion(t *testing.T) {
	src := `
		fun loop(n: int): int {
			return loop(n + 1);
		}
		out.display(loop(0));
	`
	_, err := run(t, src)
	if err == nil {
		t.Fatal("expected a stack overflow error for unbounded recursion")
	}
}

func TestBuiltinStringFunctions(t *testing.T) {
	src := `
		out.display(to_upper("hi"));
		out.display(concat("foo", "bar"));
		out.display(substring("hello world", 6, 5));
		out.display(length("hello"));
	`
	out, err := run(t, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	snaps.MatchSnapshot(t, out)
}

func TestUserFunctionCollidingWithBuiltinIsRejected(t *testing.T) {
	_, err := run(t, `
		fun length(s: string): int {
			return 0;
		}
	`)
	if err == nil {
		t.Fatal("expected an error for a function name colliding with a built-in")
	}
}

func TestVoidFunctionCannotReturnAValue(t *testing.T) {
	_, err := run(t, `
		fun sayHi(): void {
			return 1;
		}
		sayHi();
	`)
	if err == nil {
		t.Fatal("expected an error for a void function returning a value")
	}
}

func TestUseBeforeDefinitionIsAnError(t *testing.T) {
	_, err := run(t, `
		var x: int;
		out.display(x);
	`)
	if err == nil {
		t.Fatal("expected a use-before-definition error")
	}
}
