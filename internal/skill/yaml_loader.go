package skill

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"agentrpg/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed builtin.yaml
var builtinYAML []byte

// Builtins returns the skills shipped with agentrpg.
func Builtins() ([]domain.SkillDefinition, error) {
	skills, err := ParseList(builtinYAML)
	if err != nil {
		return nil, fmt.Errorf("parse builtin skills: %w", err)
	}
	for i := range skills {
		skills[i].BuiltIn = true
	}
	return skills, nil
}

// Parse decodes a single skill definition.
func Parse(data []byte) (domain.SkillDefinition, error) {
	var skill domain.SkillDefinition
	if err := yaml.Unmarshal(data, &skill); err != nil {
		return skill, err
	}
	return skill, validate(skill)
}

// ParseList decodes a YAML sequence of skill definitions.
func ParseList(data []byte) ([]domain.SkillDefinition, error) {
	var skills []domain.SkillDefinition
	if err := yaml.Unmarshal(data, &skills); err != nil {
		return nil, err
	}
	for _, s := range skills {
		if s.Name == "" {
			return nil, fmt.Errorf("skill without a name")
		}
		if err := validate(s); err != nil {
			return nil, err
		}
	}
	return skills, nil
}

func validate(skill domain.SkillDefinition) error {
	for i, step := range skill.Steps {
		if step.Action == "tool" && step.Tool == "" {
			return fmt.Errorf("skill %q step %d: tool step without a tool name", skill.Name, i)
		}
	}
	return nil
}

// LoadFromDirectory loads skill definitions from YAML files in a directory.
// Files must have .yaml or .yml extension; unreadable files are logged and skipped.
func LoadFromDirectory(dir string, logger *slog.Logger) ([]domain.SkillDefinition, error) {
	if dir == "" {
		return nil, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		logger.Debug("skills directory does not exist, skipping", "dir", dir)
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read skills dir: %w", err)
	}

	var skills []domain.SkillDefinition
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("cannot read skill file", "path", path, "err", err)
			continue
		}

		skill, err := Parse(data)
		if err != nil {
			logger.Warn("cannot parse skill file", "path", path, "err", err)
			continue
		}

		if skill.Name == "" {
			skill.Name = strings.TrimSuffix(name, filepath.Ext(name))
		}

		logger.Info("loaded user skill", "name", skill.Name, "path", path)
		skills = append(skills, skill)
	}

	return skills, nil
}
