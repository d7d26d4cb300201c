package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// run executes rpgctx against an isolated root with no config file.
func run(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	base := []string{"--config", filepath.Join(root, "absent.json"), "--root", root}
	cmd.SetArgs(append(args, base...))
	err := cmd.Execute()
	return out.String(), err
}

func TestGetState_NoFile(t *testing.T) {
	root := t.TempDir()
	out, err := run(t, root, "get_state", "--campaign", "test")
	if err != nil {
		t.Fatalf("get_state: %v", err)
	}
	if out != "{}\n" {
		t.Fatalf("expected {}, got %q", out)
	}
}

func TestSetFlagThenGetState(t *testing.T) {
	root := t.TempDir()
	out, err := run(t, root, "set_flag", "--campaign", "test", "--key", "active", "--value", "true")
	if err != nil {
		t.Fatalf("set_flag: %v", err)
	}
	if out != "Set flag 'active' to true\n" {
		t.Fatalf("unexpected confirmation %q", out)
	}

	out, err = run(t, root, "get_state", "--campaign", "test")
	if err != nil {
		t.Fatalf("get_state: %v", err)
	}
	var world struct {
		Flags map[string]any `json:"flags"`
	}
	if err := json.Unmarshal([]byte(out), &world); err != nil {
		t.Fatalf("get_state output is not JSON: %v\n%s", err, out)
	}
	if world.Flags["active"] != true {
		t.Fatalf("expected boolean true, got %#v", world.Flags["active"])
	}
	if _, err := os.Stat(filepath.Join(root, "test", "world.json")); err != nil {
		t.Fatalf("world file not created: %v", err)
	}
}

func TestSetFlag_LastWriteWins(t *testing.T) {
	root := t.TempDir()
	for _, v := range []string{"dawn", "dusk"} {
		if _, err := run(t, root, "set_flag", "--campaign", "c", "--key", "time", "--value", v); err != nil {
			t.Fatalf("set_flag %s: %v", v, err)
		}
		data, err := os.ReadFile(filepath.Join(root, "c", "world.json"))
		if err != nil {
			t.Fatal(err)
		}
		if !json.Valid(data) {
			t.Fatalf("invalid JSON after set_flag %s:\n%s", v, data)
		}
	}
	out, _ := run(t, root, "get_state", "--campaign", "c")
	if out != "{\n  \"flags\": {\n    \"time\": \"dusk\"\n  }\n}\n" {
		t.Fatalf("unexpected state %q", out)
	}
}

func TestSetFlag_RequiresFlags(t *testing.T) {
	root := t.TempDir()
	if _, err := run(t, root, "set_flag", "--campaign", "c", "--key", "k"); err == nil {
		t.Fatal("expected error without --value")
	}
	if _, err := run(t, root, "get_state"); err == nil {
		t.Fatal("expected error without --campaign")
	}
}

func TestGetState_MalformedJSONFails(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "bad", "world.json")
	os.MkdirAll(filepath.Dir(path), 0o755)
	os.WriteFile(path, []byte("{oops"), 0o644)

	if _, err := run(t, root, "get_state", "--campaign", "bad"); err == nil {
		t.Fatal("expected parse failure")
	}
}

func TestRootFromConfigFile(t *testing.T) {
	dir := t.TempDir()
	campaigns := filepath.Join(dir, "campaigns")
	cfgPath := filepath.Join(dir, "config.json")
	os.WriteFile(cfgPath, []byte(`{"memory": {"root": "`+filepath.ToSlash(campaigns)+`"}}`), 0o644)

	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", cfgPath, "set_flag", "--campaign", "x", "--key", "k", "--value", "v"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("set_flag: %v", err)
	}
	if _, err := os.Stat(filepath.Join(campaigns, "x", "world.json")); err != nil {
		t.Fatalf("expected world file under configured root: %v", err)
	}
}
