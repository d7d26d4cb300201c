package tool

import (
	"context"
	"fmt"
	"strings"

	"agentrpg/internal/campaign"
)

// --- GetStateTool ---

// GetStateTool returns a campaign's world state as indented JSON.
type GetStateTool struct {
	store *campaign.Store
}

func NewGetStateTool(store *campaign.Store) *GetStateTool {
	return &GetStateTool{store: store}
}

func (t *GetStateTool) Name() string { return "get_state" }
func (t *GetStateTool) Description() string {
	return "Show the full world state of a campaign as JSON. Unknown campaigns return {}."
}
func (t *GetStateTool) Parameters() map[string]any {
	return ToolParameters(
		map[string]Param{
			"campaign": {Type: "string", Description: "Campaign name"},
		},
		[]string{"campaign"},
	)
}

func (t *GetStateTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	name := ArgsString(args, "campaign")
	if name == "" {
		return "", fmt.Errorf("missing argument: campaign")
	}
	var b strings.Builder
	if err := t.store.WriteState(&b, name); err != nil {
		return "", err
	}
	return b.String(), nil
}

// --- SetFlagTool ---

// SetFlagTool sets flags[key] in a campaign's world state.
type SetFlagTool struct {
	store *campaign.Store
}

func NewSetFlagTool(store *campaign.Store) *SetFlagTool {
	return &SetFlagTool{store: store}
}

func (t *SetFlagTool) Name() string { return "set_flag" }
func (t *SetFlagTool) Description() string {
	return "Set a campaign flag. \"true\"/\"false\" are stored as booleans; any other value is stored as a string."
}
func (t *SetFlagTool) Parameters() map[string]any {
	return ToolParameters(
		map[string]Param{
			"campaign": {Type: "string", Description: "Campaign name"},
			"key":      {Type: "string", Description: "Flag name"},
			"value":    {Type: "string", Description: "Flag value"},
		},
		[]string{"campaign", "key", "value"},
	)
}

func (t *SetFlagTool) Execute(ctx context.Context, args map[string]any) (string, error) {
	name := ArgsString(args, "campaign")
	key := ArgsString(args, "key")
	if name == "" {
		return "", fmt.Errorf("missing argument: campaign")
	}
	if key == "" {
		return "", fmt.Errorf("missing argument: key")
	}
	if _, ok := args["value"]; !ok {
		return "", fmt.Errorf("missing argument: value")
	}

	var (
		stored any
		err    error
	)
	if b, ok := args["value"].(bool); ok {
		stored, err = t.store.SetFlagValue(name, key, b)
	} else {
		stored, err = t.store.SetFlag(name, key, ArgsString(args, "value"))
	}
	if err != nil {
		return "", err
	}
	return campaign.Confirmation(key, stored), nil
}

// RegisterDefaults registers the dice and campaign tools.
func RegisterDefaults(r *Registry, store *campaign.Store) {
	r.Register(NewRollDiceTool())
	r.Register(NewGetStateTool(store))
	r.Register(NewSetFlagTool(store))
}
