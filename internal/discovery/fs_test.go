package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestPipelinesAuto(t *testing.T) {
	root := t.TempDir()
	files := []string{
		"BuildPipelines/b.buildmap.yml",
		"BuildPipelines/a.buildmap.yaml",
		"BuildPipelines/mobile/c.buildmap.yml",
		"BuildPipelines/notes.yml",
		"Other/d.buildmap.yml",
	}
	for _, name := range files {
		writeFile(t, filepath.Join(root, name))
	}

	got, err := Pipelines(root, nil, nil)
	if err != nil {
		t.Fatalf("Pipelines returned error: %v", err)
	}

	want := []string{
		filepath.Join("BuildPipelines", "a.buildmap.yaml"),
		filepath.Join("BuildPipelines", "b.buildmap.yml"),
		filepath.Join("BuildPipelines", "mobile", "c.buildmap.yml"),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d files, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: want %q, got %q", i, want[i], got[i])
		}
	}
}

func TestPipelinesCustomDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Other", "d.buildmap.yml"))

	got, err := Pipelines(root, []string{"Missing", "Other"}, nil)
	if err != nil {
		t.Fatalf("Pipelines returned error: %v", err)
	}
	if len(got) != 1 || got[0] != filepath.Join("Other", "d.buildmap.yml") {
		t.Fatalf("unexpected result %v", got)
	}
}

func TestPipelinesExplicit(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "ios.buildmap.yml")
	writeFile(t, file)

	externalDir := t.TempDir()
	absOutside := filepath.Join(externalDir, "external.buildmap.yml")
	writeFile(t, absOutside)

	got, err := Pipelines(root, nil, []string{"ios.buildmap.yml", absOutside, "ios.buildmap.yml"})
	if err != nil {
		t.Fatalf("Pipelines returned error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 files, got %d: %v", len(got), got)
	}
	if got[0] != "ios.buildmap.yml" {
		t.Fatalf("first path mismatch: got %q", got[0])
	}
	if got[1] != absOutside {
		t.Fatalf("second path mismatch: got %q expected %q", got[1], absOutside)
	}
}

func TestPipelinesErrors(t *testing.T) {
	root := t.TempDir()

	if _, err := Pipelines(root, nil, nil); !errors.Is(err, ErrNoPipelines) {
		t.Fatalf("expected ErrNoPipelines, got %v", err)
	}

	if _, err := Pipelines(root, nil, []string{"missing.buildmap.yml"}); err == nil {
		t.Fatalf("expected error for missing file")
	}

	if _, err := Pipelines(root, nil, []string{"."}); err == nil {
		t.Fatalf("expected error for directory")
	}
}

func TestIsPipelineFile(t *testing.T) {
	cases := map[string]bool{
		"a.buildmap.yml":      true,
		"dir/B.BuildMap.YAML": true,
		"a.yml":               false,
		"buildmap.yml":        false,
	}
	for name, want := range cases {
		if got := IsPipelineFile(name); got != want {
			t.Fatalf("IsPipelineFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("name: test"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
}
