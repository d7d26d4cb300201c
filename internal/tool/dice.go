package tool

import (
	"context"
	"fmt"
	"strings"

	"agentrpg/internal/dice"
)

// RollDiceTool rolls an XdY+Z expression and returns the roll report.
type RollDiceTool struct{}

func NewRollDiceTool() *RollDiceTool {
	return &RollDiceTool{}
}

func (t *RollDiceTool) Name() string { return "roll_dice" }
func (t *RollDiceTool) Description() string {
	return "Roll dice using XdY+Z notation (e.g. 1d20+5). Reports each roll, the modifier, the total and natural 20/1 on a single d20."
}
func (t *RollDiceTool) Parameters() map[string]any {
	return ToolParameters(
		map[string]Param{
			"expression": {Type: "string", Description: "Dice expression such as 1d20+5, 2d6 or 3d8-2"},
			"seed":       {Type: "integer", Description: "Optional seed for a reproducible roll"},
		},
		[]string{"expression"},
	)
}

func (t *RollDiceTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	expr := ArgsString(args, "expression")
	if expr == "" {
		return "", fmt.Errorf("missing argument: expression")
	}

	seed, hasSeed, err := ArgsInt64(args, "seed")
	if err != nil {
		return "", err
	}
	var roller *dice.Roller
	if hasSeed {
		roller = dice.NewRoller(seed)
	} else if roller, err = dice.NewRandomRoller(); err != nil {
		return "", err
	}

	res, err := roller.RollString(expr)
	if err != nil {
		// Bad expressions are reported to the agent, not raised.
		return dice.UserMessage(err), nil
	}
	var b strings.Builder
	if err := res.Report(&b); err != nil {
		return "", err
	}
	return b.String(), nil
}
