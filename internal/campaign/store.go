// Package campaign persists per-campaign world state as flat JSON files.
package campaign

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultRoot is where campaigns live when no root is configured.
const DefaultRoot = "memory/rpg"

const (
	worldFile = "world.json"
	flagsKey  = "flags"
)

// ErrEmptyCampaign indicates a blank campaign name.
var ErrEmptyCampaign = errors.New("campaign name is required")

// ErrNotObject indicates the reserved flags entry is not a JSON object.
var ErrNotObject = errors.New("world state \"flags\" is not an object")

// World is a campaign's world state. Only the "flags" key is reserved.
// Keys keep the order they had in the file.
type World struct {
	Object
}

func NewWorld() *World {
	return &World{Object: *NewObject()}
}

// Flags returns the flags object, creating it when absent.
func (w *World) Flags() (*Object, error) {
	raw, ok := w.Get(flagsKey)
	if !ok || raw == nil {
		flags := NewObject()
		w.Set(flagsKey, flags)
		return flags, nil
	}
	flags, ok := raw.(*Object)
	if !ok {
		return nil, ErrNotObject
	}
	return flags, nil
}

// Store reads and writes world.json files under a root directory.
// There is no locking: concurrent writers to one campaign race and the last write wins.
type Store struct {
	root   string
	logger *slog.Logger
}

func NewStore(root string, logger *slog.Logger) *Store {
	if root == "" {
		root = DefaultRoot
	}
	return &Store{root: root, logger: logger}
}

// Root returns the directory campaigns are stored under.
func (s *Store) Root() string { return s.root }

// Path returns the world file for a campaign. The name is used verbatim.
func (s *Store) Path(campaign string) string {
	return filepath.Join(s.root, campaign, worldFile)
}

// Load reads a campaign's world state. A missing file yields an empty world.
func (s *Store) Load(campaign string) (*World, error) {
	if strings.TrimSpace(campaign) == "" {
		return nil, ErrEmptyCampaign
	}
	path := s.Path(campaign)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Debug("world state not found, using empty", "campaign", campaign, "path", path)
		return NewWorld(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read world state %s: %w", path, err)
	}

	world, err := decodeWorld(data)
	if err != nil {
		return nil, fmt.Errorf("parse world state %s: %w", path, err)
	}
	return world, nil
}

// Save writes a campaign's world state, creating parent directories as needed.
func (s *Store) Save(campaign string, world *World) error {
	if strings.TrimSpace(campaign) == "" {
		return ErrEmptyCampaign
	}
	path := s.Path(campaign)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create campaign directory: %w", err)
	}

	data, err := encodeWorld(world)
	if err != nil {
		return fmt.Errorf("encode world state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write world state %s: %w", path, err)
	}
	s.logger.Debug("world state saved", "campaign", campaign, "path", path, "bytes", len(data))
	return nil
}

// WriteState pretty-prints the campaign's world state to w.
func (s *Store) WriteState(w io.Writer, campaign string) error {
	world, err := s.Load(campaign)
	if err != nil {
		return err
	}
	data, err := encodeWorld(world)
	if err != nil {
		return fmt.Errorf("encode world state: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// SetFlag coerces value, stores it under flags[key] and persists the world.
// It returns the stored value.
func (s *Store) SetFlag(campaign, key, value string) (any, error) {
	return s.SetFlagValue(campaign, key, CoerceValue(value))
}

// SetFlagValue stores an already-typed value under flags[key].
func (s *Store) SetFlagValue(campaign, key string, value any) (any, error) {
	world, err := s.Load(campaign)
	if err != nil {
		return nil, err
	}
	flags, err := world.Flags()
	if err != nil {
		return nil, err
	}
	flags.Set(key, value)
	if err := s.Save(campaign, world); err != nil {
		return nil, err
	}
	s.logger.Info("flag set", "campaign", campaign, "key", key, "value", value)
	return value, nil
}

// CoerceValue turns "true"/"false" (any case) into booleans.
// Every other string, numeric-looking or not, is kept as is.
func CoerceValue(value string) any {
	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	default:
		return value
	}
}

// Confirmation is the line printed after a flag is set.
func Confirmation(key string, value any) string {
	return fmt.Sprintf("Set flag '%s' to %v", key, value)
}

func decodeWorld(data []byte) (*World, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after world state object")
	}
	switch v := v.(type) {
	case nil:
		return NewWorld(), nil
	case *Object:
		return &World{Object: *v}, nil
	default:
		return nil, fmt.Errorf("world state is a %T, not an object", v)
	}
}

// encodeWorld indents by two spaces and leaves non-ASCII and HTML characters unescaped.
func encodeWorld(world *World) ([]byte, error) {
	if world == nil {
		world = NewWorld()
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&world.Object); err != nil {
		return nil, err
	}
	return unescapeLineSeparators(buf.Bytes()), nil
}
