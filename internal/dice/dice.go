// Package dice parses XdY+Z dice expressions and rolls them.
package dice

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
)

// MaxDice caps how many dice a single expression may roll.
const MaxDice = 10000

// ErrInvalidFormat indicates the expression does not match XdY+Z.
var ErrInvalidFormat = errors.New("invalid format. Use XdY+Z (e.g., 1d20+5)")

// ErrInvalidSides indicates a die with fewer than one side.
var ErrInvalidSides = errors.New("dice must have at least one side")

// ErrTooManyDice indicates the dice count exceeds MaxDice.
var ErrTooManyDice = fmt.Errorf("cannot roll more than %d dice at once", MaxDice)

// ErrTotalOverflow indicates the total does not fit in an int.
var ErrTotalOverflow = errors.New("dice total is too large")

// expressionPattern is anchored at the start only; trailing text is ignored.
var expressionPattern = regexp.MustCompile(`^(\d+)d(\d+)([+-]\d+)?`)

// Critical describes a natural 20 or natural 1 on a single d20.
type Critical int

const (
	CriticalNone Critical = iota
	CriticalSuccess
	CriticalFailure
)

func (c Critical) String() string {
	switch c {
	case CriticalSuccess:
		return "CRITICAL SUCCESS! (Nat 20)"
	case CriticalFailure:
		return "CRITICAL FAILURE! (Nat 1)"
	default:
		return ""
	}
}

// Expression is a parsed dice expression.
type Expression struct {
	Raw      string
	Count    int
	Sides    int
	Modifier int
}

// Result captures the outcome of rolling an expression.
type Result struct {
	Expression Expression
	Rolls      []int
	Modifier   int
	Total      int
}

// Parse matches expr against the XdY+Z form.
func Parse(expr string) (Expression, error) {
	m := expressionPattern.FindStringSubmatch(expr)
	if m == nil {
		return Expression{}, ErrInvalidFormat
	}

	count, err := strconv.Atoi(m[1])
	if err != nil {
		return Expression{}, ErrInvalidFormat
	}
	sides, err := strconv.Atoi(m[2])
	if err != nil {
		return Expression{}, ErrInvalidFormat
	}
	modifier := 0
	if m[3] != "" {
		// Atoi accepts a leading '+' or '-'.
		modifier, err = strconv.Atoi(m[3])
		if err != nil {
			return Expression{}, ErrInvalidFormat
		}
	}

	return Expression{
		Raw:      expr,
		Count:    count,
		Sides:    sides,
		Modifier: modifier,
	}, nil
}

// Roller rolls dice expressions with its own random source.
type Roller struct {
	rng *rand.Rand
}

// NewRoller creates a roller. The same seed always produces the same rolls.
func NewRoller(seed int64) *Roller {
	return &Roller{rng: rand.New(rand.NewSource(seed))}
}

// Roll rolls every die of the expression and sums them with the modifier.
func (r *Roller) Roll(expr Expression) (Result, error) {
	if expr.Sides < 1 {
		return Result{}, ErrInvalidSides
	}
	if expr.Count > MaxDice {
		return Result{}, ErrTooManyDice
	}

	rolls := make([]int, expr.Count)
	total := expr.Modifier
	for i := range rolls {
		rolls[i] = r.rng.Intn(expr.Sides) + 1
		if total > math.MaxInt-rolls[i] {
			return Result{}, ErrTotalOverflow
		}
		total += rolls[i]
	}

	return Result{
		Expression: expr,
		Rolls:      rolls,
		Modifier:   expr.Modifier,
		Total:      total,
	}, nil
}

// RollString parses and rolls expr in one step.
func (r *Roller) RollString(expr string) (Result, error) {
	parsed, err := Parse(expr)
	if err != nil {
		return Result{}, err
	}
	return r.Roll(parsed)
}

// Critical reports a natural 20 or 1. Only a single d20 can crit.
func (res Result) Critical() Critical {
	if res.Expression.Count != 1 || res.Expression.Sides != 20 || len(res.Rolls) != 1 {
		return CriticalNone
	}
	switch res.Rolls[0] {
	case 20:
		return CriticalSuccess
	case 1:
		return CriticalFailure
	default:
		return CriticalNone
	}
}

// Report writes the human-readable roll summary.
func (res Result) Report(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Expression: %s\n", res.Expression.Raw)
	fmt.Fprintf(&b, "Rolls: %s\n", formatRolls(res.Rolls))
	fmt.Fprintf(&b, "Modifier: %+d\n", res.Modifier)
	fmt.Fprintf(&b, "Total: %d\n", res.Total)
	if c := res.Critical(); c != CriticalNone {
		b.WriteString(c.String())
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func formatRolls(rolls []int) string {
	parts := make([]string, len(rolls))
	for i, v := range rolls {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// UserMessage renders a roll error the way the CLI shows it.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidFormat):
		return "Invalid format. Use XdY+Z (e.g., 1d20+5)"
	case errors.Is(err, ErrInvalidSides):
		return "Invalid dice: sides must be at least 1"
	case errors.Is(err, ErrTooManyDice):
		return fmt.Sprintf("Invalid dice: at most %d dice per roll", MaxDice)
	case errors.Is(err, ErrTotalOverflow):
		return "Invalid dice: total is too large"
	default:
		return err.Error()
	}
}
