package asset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bgricker/buildpipe/internal/command"
	"github.com/bgricker/buildpipe/internal/params"
)

func testRegistry() *command.Registry {
	r := command.NewRegistry()
	r.Register(command.Type{
		Tag: "note",
		New: func(name string) command.Command {
			return command.NewFunc(name, func(context.Context, *params.Parameters) error { return nil })
		},
	})
	r.Register(command.Type{
		Tag: "echo",
		New: func(name string) command.Command { return &echo{Base: command.NewBase(name)} },
		Fields: []command.Field{
			command.StringField("text", "text", true, func(e *echo) *string { return &e.Text }),
			command.IntField("times", "repeat", false, func(e *echo) *int { return &e.Times }),
		},
	})
	return r
}

type echo struct {
	command.Base
	Text  string
	Times int
}

func (e *echo) Validate(*params.Parameters) bool                   { return true }
func (e *echo) Execute(context.Context, *params.Parameters) error { return nil }

const androidAsset = `
name: Android QA
player_build: true
build:
  target: Android
  target_group: Android
  scripting_backend: il2cpp
  development: true
  product_name: Game QA
  bundle_id:
    override: false
    value: com.ignored
  environments: [qa]
  arguments:
    entries:
      - key: bundleId
        value: com.qa
        override: true
pre_build:
  - uses: echo
    name: hello
    with:
      text: hi
      times: 2
  - group: Prepare
    description: setup
    active: false
    steps:
      - uses: note
        name: inner
        active: false
      - group: Deeper
        steps:
          - uses: note
            name: deepest
post_build:
  - uses: note
`

func TestDecodeBuildMap(t *testing.T) {
	l := NewLoader("", testRegistry(), 0)
	m, warnings, err := l.Decode(strings.NewReader(androidAsset), "BuildPipelines/android.buildmap.yml")
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %+v", warnings)
	}

	if m.Name != "Android QA" || m.Source != "BuildPipelines/android.buildmap.yml" || !m.PlayerBuildEnabled {
		t.Fatalf("unexpected map header: %+v", m)
	}
	d := m.Data
	if d.Version != params.DataVersion || d.ScriptingBackend != params.BackendIL2CPP || !d.Development {
		t.Fatalf("unexpected build data: %+v", d)
	}
	if !d.OverrideProductName || d.ProductName != "Game QA" {
		t.Fatalf("scalar override not decoded: %+v", d)
	}
	if d.OverrideBundleID || d.BundleID != "com.ignored" {
		t.Fatalf("mapping override not decoded: %+v", d)
	}
	if !d.Arguments.Enabled || len(d.Arguments.Entries) != 1 || !d.Arguments.Entries[0].Override {
		t.Fatalf("unexpected arguments: %+v", d.Arguments)
	}

	all := m.PreBuild.All()
	names := make([]string, 0, len(all))
	for _, c := range all {
		names = append(names, c.Name())
	}
	if got := strings.Join(names, ","); got != "hello,inner,deepest" {
		t.Fatalf("unexpected flattening %s", got)
	}
	active := m.PreBuild.Commands()
	if len(active) != 2 || active[1].Name() != "deepest" {
		t.Fatalf("group flag must not filter members: %d active", len(active))
	}
	if g := m.PreBuild.Steps[1].Group(); g == nil || g.Active || g.Description != "setup" {
		t.Fatalf("unexpected group metadata: %+v", g)
	}

	hello, ok := m.FindCommand("hello").(*echo)
	if !ok || hello.Text != "hi" || hello.Times != 2 {
		t.Fatalf("fields not applied: %+v", hello)
	}
	if post := m.PostBuild.All(); len(post) != 1 || post[0].Name() != "note" {
		t.Fatalf("post-build name should default to the tag")
	}
}

func TestDecodeErrors(t *testing.T) {
	head := "build: {target: Android, target_group: Android}\n"
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", "", "empty document"},
		{"missing target", "name: x\n", "required"},
		{"newer version", "build: {version: 9, target: A, target_group: A}\n", "newer"},
		{"bad backend", "build: {target: A, target_group: A, scripting_backend: Lua}\n", "scripting backend"},
		{"unknown type", head + "pre_build:\n  - uses: nope\n", "unknown command type"},
		{"unknown field", head + "pre_build:\n  - uses: echo\n    with: {text: a, color: red}\n", "no field"},
		{"missing required", head + "pre_build:\n  - uses: echo\n", "missing required"},
		{"bad int", head + "pre_build:\n  - uses: echo\n    with: {text: a, times: many}\n", "times"},
		{"both kinds", head + "pre_build:\n  - uses: note\n    group: g\n", "both"},
		{"neither kind", head + "pre_build:\n  - name: x\n", "needs uses or group"},
		{"nested value", head + "pre_build:\n  - uses: echo\n    with: {text: [a]}\n", "scalar"},
	}
	l := NewLoader("", testRegistry(), 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := l.Decode(strings.NewReader(tt.doc), "p.buildmap.yml")
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestDecodeRejectsDeepGroups(t *testing.T) {
	doc := `
build: {target: A, target_group: A}
pre_build:
  - group: one
    steps:
      - group: two
        steps:
          - uses: note
`
	_, _, err := NewLoader("", testRegistry(), 1).Decode(strings.NewReader(doc), "deep.buildmap.yml")
	if !errors.Is(err, command.ErrTooDeep) {
		t.Fatalf("expected ErrTooDeep, got %v", err)
	}
}

func TestDecodeWarnings(t *testing.T) {
	doc := `
build: {target: A, target_group: A}
pre_build:
  - uses: note
  - group: empty
post_build:
  - uses: note
`
	m, warnings, err := NewLoader("", testRegistry(), 0).Decode(strings.NewReader(doc), "w.buildmap.yml")
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if m.Name != "w" {
		t.Fatalf("expected name from file, got %q", m.Name)
	}
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %+v", warnings)
	}
}

func TestLoadResolvesRelativePaths(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "BuildPipelines")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := "build: {target: iOS, target_group: iOS}\n"
	for _, name := range []string{"b.buildmap.yml", "a.buildmap.yaml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	maps, _, err := NewLoader(root, testRegistry(), 0).Load([]string{"BuildPipelines/b.buildmap.yml", "BuildPipelines/a.buildmap.yaml"})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(maps) != 2 || maps[0].Name != "b" || maps[1].Name != "a" {
		t.Fatalf("unexpected maps: %v, %v", maps[0].Name, maps[1].Name)
	}

	if _, _, err := NewLoader(root, testRegistry(), 0).Load([]string{"missing.buildmap.yml"}); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
