// Package skill provides YAML-defined skills built from agentrpg tool steps.
package skill

import (
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"agentrpg/internal/domain"
)

// ErrUnnamedSkill is returned when registering a skill without a name.
var ErrUnnamedSkill = errors.New("skill name is required")

// Registry manages available skills and matches them to user input.
type Registry struct {
	skills        []domain.SkillDefinition
	compiledRegex map[string]*regexp.Regexp // cached compiled patterns by skill name
	lowerKeywords map[string][]string       // cached lowercase keywords by skill name
	mu            sync.RWMutex
	logger        *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		compiledRegex: make(map[string]*regexp.Regexp),
		lowerKeywords: make(map[string][]string),
		logger:        logger,
	}
}

// Register adds a skill to the registry and pre-compiles its patterns.
// A skill with the same name replaces the earlier one.
func (r *Registry) Register(skill domain.SkillDefinition) error {
	if skill.Name == "" {
		return ErrUnnamedSkill
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	kws := make([]string, len(skill.Trigger.Keywords))
	for i, kw := range skill.Trigger.Keywords {
		kws[i] = strings.ToLower(kw)
	}
	r.lowerKeywords[skill.Name] = kws

	delete(r.compiledRegex, skill.Name)
	if skill.Trigger.Pattern != "" {
		if re, err := regexp.Compile(skill.Trigger.Pattern); err == nil {
			r.compiledRegex[skill.Name] = re
		} else {
			r.logger.Warn("invalid skill trigger pattern", "skill", skill.Name, "pattern", skill.Trigger.Pattern, "err", err)
		}
	}

	for i, s := range r.skills {
		if s.Name == skill.Name {
			r.skills[i] = skill
			r.logger.Debug("skill updated", "name", skill.Name)
			return nil
		}
	}

	r.skills = append(r.skills, skill)
	r.logger.Debug("skill registered", "name", skill.Name)
	return nil
}

// Match finds the first skill whose keywords or pattern match the input.
// Returns nil if no skill matches.
func (r *Registry) Match(input string) *domain.SkillDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lowerInput := strings.ToLower(input)

	for i := range r.skills {
		skill := &r.skills[i]

		if kws, ok := r.lowerKeywords[skill.Name]; ok {
			for _, kw := range kws {
				if strings.Contains(lowerInput, kw) {
					return skill
				}
			}
		}

		if re, ok := r.compiledRegex[skill.Name]; ok {
			if re.MatchString(input) {
				return skill
			}
		}
	}

	return nil
}

// Get returns the skill with the given name, or nil.
func (r *Registry) Get(name string) *domain.SkillDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.skills {
		if r.skills[i].Name == name {
			s := r.skills[i]
			return &s
		}
	}
	return nil
}

// List returns all registered skills.
func (r *Registry) List() []domain.SkillDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.SkillDefinition, len(r.skills))
	copy(result, r.skills)
	return result
}

// RegisterBuiltins loads the embedded built-in skills.
func (r *Registry) RegisterBuiltins() error {
	builtins, err := Builtins()
	if err != nil {
		return err
	}
	for _, s := range builtins {
		if err := r.Register(s); err != nil {
			return err
		}
	}
	return nil
}

// RegisterDirectory loads user skills from dir; they override built-ins of the same name.
func (r *Registry) RegisterDirectory(dir string) error {
	skills, err := LoadFromDirectory(dir, r.logger)
	if err != nil {
		return err
	}
	for _, s := range skills {
		if err := r.Register(s); err != nil {
			return err
		}
	}
	return nil
}

var _ domain.SkillRegistry = (*Registry)(nil)
