package dice

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
)

func TestParse_Valid(t *testing.T) {
	tcs := []struct {
		expr     string
		count    int
		sides    int
		modifier int
	}{
		{"1d20+5", 1, 20, 5},
		{"2d6", 2, 6, 0},
		{"3d8-2", 3, 8, -2},
		{"1d20+0", 1, 20, 0},
		{"10d4+10", 10, 4, 10},
		// Trailing text after a valid prefix is ignored.
		{"1d20 + 5", 1, 20, 0},
		{"2d6foo", 2, 6, 0},
	}

	for _, tc := range tcs {
		got, err := Parse(tc.expr)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", tc.expr, err)
		}
		if got.Count != tc.count || got.Sides != tc.sides || got.Modifier != tc.modifier {
			t.Fatalf("Parse(%q) = %+v, want count=%d sides=%d modifier=%d",
				tc.expr, got, tc.count, tc.sides, tc.modifier)
		}
		if got.Raw != tc.expr {
			t.Fatalf("Parse(%q) raw = %q", tc.expr, got.Raw)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, expr := range []string{"abc", "", "d20", "1d", "+5", " 1d20", "1x20", "99999999999999999999d6"} {
		if _, err := Parse(expr); !errors.Is(err, ErrInvalidFormat) {
			t.Fatalf("Parse(%q) error = %v, want %v", expr, err, ErrInvalidFormat)
		}
	}
}

func TestRoll_RangeAndTotal(t *testing.T) {
	roller := NewRoller(42)
	for _, sides := range []int{1, 2, 6, 20, 100} {
		for _, count := range []int{1, 3, 10} {
			for _, mod := range []int{0, 5, 17} {
				expr := fmt.Sprintf("%dd%d+%d", count, sides, mod)
				res, err := roller.RollString(expr)
				if err != nil {
					t.Fatalf("RollString(%q) error: %v", expr, err)
				}
				if len(res.Rolls) != count {
					t.Fatalf("%s: expected %d rolls, got %d", expr, count, len(res.Rolls))
				}
				sum := 0
				for _, r := range res.Rolls {
					if r < 1 || r > sides {
						t.Fatalf("%s: roll %d outside [1, %d]", expr, r, sides)
					}
					sum += r
				}
				if res.Total != sum+mod {
					t.Fatalf("%s: total %d, want %d", expr, res.Total, sum+mod)
				}
			}
		}
	}
}

func TestRoll_Deterministic(t *testing.T) {
	a, err := NewRoller(7).RollString("4d6+1")
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewRoller(7).RollString("4d6+1")
	if err != nil {
		t.Fatal(err)
	}
	if fmt.Sprint(a.Rolls) != fmt.Sprint(b.Rolls) || a.Total != b.Total {
		t.Fatalf("same seed produced different results: %v vs %v", a, b)
	}
}

func TestRoll_NegativeModifier(t *testing.T) {
	res, err := NewRoller(1).RollString("1d1-3")
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != -2 {
		t.Fatalf("expected total -2, got %d", res.Total)
	}
}

func TestRoll_ZeroCount(t *testing.T) {
	res, err := NewRoller(1).RollString("0d6+4")
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rolls) != 0 || res.Total != 4 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestRoll_InvalidSides(t *testing.T) {
	if _, err := NewRoller(1).RollString("1d0"); !errors.Is(err, ErrInvalidSides) {
		t.Fatalf("error = %v, want %v", err, ErrInvalidSides)
	}
}

func TestRoll_TooManyDice(t *testing.T) {
	expr := fmt.Sprintf("%dd6", MaxDice+1)
	if _, err := NewRoller(1).RollString(expr); !errors.Is(err, ErrTooManyDice) {
		t.Fatalf("error = %v, want %v", err, ErrTooManyDice)
	}
}

func TestRoll_TotalOverflow(t *testing.T) {
	expr := fmt.Sprintf("1d%d+%d", math.MaxInt, math.MaxInt)
	if _, err := NewRoller(1).RollString(expr); !errors.Is(err, ErrTotalOverflow) {
		t.Fatalf("error = %v, want %v", err, ErrTotalOverflow)
	}
	if got := UserMessage(ErrTotalOverflow); got != "Invalid dice: total is too large" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestRoll_AtMaxDice(t *testing.T) {
	res, err := NewRoller(1).RollString(fmt.Sprintf("%dd6", MaxDice))
	if err != nil {
		t.Fatalf("rolling exactly MaxDice dice: %v", err)
	}
	if len(res.Rolls) != MaxDice {
		t.Fatalf("expected %d rolls, got %d", MaxDice, len(res.Rolls))
	}
}

func TestCritical(t *testing.T) {
	d20 := Expression{Raw: "1d20+0", Count: 1, Sides: 20}
	tcs := []struct {
		name  string
		expr  Expression
		rolls []int
		want  Critical
	}{
		{"nat 20", d20, []int{20}, CriticalSuccess},
		{"nat 1", d20, []int{1}, CriticalFailure},
		{"plain d20", d20, []int{11}, CriticalNone},
		{"two d20", Expression{Count: 2, Sides: 20}, []int{20, 20}, CriticalNone},
		{"two d20 ones", Expression{Count: 2, Sides: 20}, []int{1, 1}, CriticalNone},
		{"d6 one", Expression{Count: 1, Sides: 6}, []int{1}, CriticalNone},
		{"d100 twenty", Expression{Count: 1, Sides: 100}, []int{20}, CriticalNone},
	}

	for _, tc := range tcs {
		res := Result{Expression: tc.expr, Rolls: tc.rolls}
		if got := res.Critical(); got != tc.want {
			t.Fatalf("%s: Critical() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestReport_Format(t *testing.T) {
	res := Result{
		Expression: Expression{Raw: "3d6-2", Count: 3, Sides: 6, Modifier: -2},
		Rolls:      []int{4, 1, 6},
		Modifier:   -2,
		Total:      9,
	}
	var buf bytes.Buffer
	if err := res.Report(&buf); err != nil {
		t.Fatal(err)
	}
	want := "Expression: 3d6-2\nRolls: [4, 1, 6]\nModifier: -2\nTotal: 9\n"
	if buf.String() != want {
		t.Fatalf("report mismatch:\n got: %q\nwant: %q", buf.String(), want)
	}
}

func TestReport_ZeroModifierIsSigned(t *testing.T) {
	res := Result{
		Expression: Expression{Raw: "1d20+0", Count: 1, Sides: 20},
		Rolls:      []int{20},
		Total:      20,
	}
	var buf bytes.Buffer
	if err := res.Report(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Modifier: +0\n") {
		t.Fatalf("expected signed zero modifier, got %q", out)
	}
	if !strings.HasSuffix(out, "CRITICAL SUCCESS! (Nat 20)\n") {
		t.Fatalf("expected critical success line, got %q", out)
	}
}

func TestReport_CriticalFailure(t *testing.T) {
	res := Result{
		Expression: Expression{Raw: "1d20+3", Count: 1, Sides: 20, Modifier: 3},
		Rolls:      []int{1},
		Modifier:   3,
		Total:      4,
	}
	var buf bytes.Buffer
	res.Report(&buf)
	if !strings.HasSuffix(buf.String(), "CRITICAL FAILURE! (Nat 1)\n") {
		t.Fatalf("expected critical failure line, got %q", buf.String())
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(ErrInvalidFormat); got != "Invalid format. Use XdY+Z (e.g., 1d20+5)" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := UserMessage(ErrInvalidSides); !strings.Contains(got, "sides") {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestNewRandomRoller(t *testing.T) {
	roller, err := NewRandomRoller()
	if err != nil {
		t.Fatalf("NewRandomRoller: %v", err)
	}
	res, err := roller.RollString("1d6")
	if err != nil {
		t.Fatal(err)
	}
	if res.Rolls[0] < 1 || res.Rolls[0] > 6 {
		t.Fatalf("roll out of range: %d", res.Rolls[0])
	}
}
