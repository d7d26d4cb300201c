package skill

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"agentrpg/internal/domain"
	"agentrpg/internal/tool"
)

// placeholderPattern matches {{name}} in step arguments.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// Executor runs a skill by executing its steps sequentially.
type Executor struct {
	tools  *tool.Registry
	logger *slog.Logger
}

func NewExecutor(tools *tool.Registry, logger *slog.Logger) *Executor {
	return &Executor{
		tools:  tools,
		logger: logger,
	}
}

// Execute runs all steps in a skill definition and returns the combined output.
// The first failing tool step aborts the run.
func (e *Executor) Execute(ctx context.Context, skill domain.SkillDefinition, input domain.SkillInput) (*domain.SkillOutput, error) {
	e.logger.Info("executing skill", "name", skill.Name, "steps", len(skill.Steps))

	var accumulated []string
	executed := 0

	for i, step := range skill.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e.logger.Debug("skill step", "index", i, "action", step.Action, "tool", step.Tool)

		switch step.Action {
		case "tool":
			if e.tools == nil {
				return nil, fmt.Errorf("tool registry not available")
			}
			args, err := fillArgs(step.Args, input)
			if err != nil {
				return nil, fmt.Errorf("skill %s step %d: %w", skill.Name, i, err)
			}
			result, err := e.tools.Execute(ctx, step.Tool, args)
			if err != nil {
				return nil, fmt.Errorf("skill %s step %d (%s): %w", skill.Name, i, step.Tool, err)
			}
			accumulated = append(accumulated, strings.TrimRight(result, "\n"))
			executed++

		default:
			e.logger.Warn("unknown skill step action", "skill", skill.Name, "action", step.Action)
		}
	}

	return &domain.SkillOutput{
		Content: strings.Join(accumulated, "\n\n"),
		Metadata: map[string]any{
			"skill": skill.Name,
			"steps": executed,
		},
	}, nil
}

// fillArgs copies step args, substituting {{name}} from input.Args.
// {{message}} falls back to the user message.
func fillArgs(stepArgs map[string]any, input domain.SkillInput) (map[string]any, error) {
	args := make(map[string]any, len(stepArgs))
	for k, v := range stepArgs {
		s, ok := v.(string)
		if !ok {
			args[k] = v
			continue
		}
		var missing string
		filled := placeholderPattern.ReplaceAllStringFunc(s, func(m string) string {
			name := placeholderPattern.FindStringSubmatch(m)[1]
			if val, ok := input.Args[name]; ok {
				return val
			}
			if name == "message" {
				return input.UserMessage
			}
			if missing == "" {
				missing = name
			}
			return m
		})
		if missing != "" {
			return nil, fmt.Errorf("missing skill argument: %s", missing)
		}
		args[k] = filled
	}
	return args, nil
}

var _ domain.SkillExecutor = (*Executor)(nil)
