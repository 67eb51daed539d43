package version

import (
	"errors"
	"os/exec"
	"testing"
)

func TestParseBranch(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr error
	}{
		{"main\n", "main", nil},
		{"  feature/login ", "feature/login", nil},
		{"warning: noise\nrelease/1.2", "release/1.2", nil},
		{"HEAD", "", ErrDetachedHead},
	}
	for _, c := range cases {
		got, err := parseBranch(c.in)
		if c.wantErr != nil {
			if !errors.Is(err, c.wantErr) {
				t.Fatalf("parseBranch(%q) error = %v, want %v", c.in, err, c.wantErr)
			}
			continue
		}
		if err != nil || got != c.want {
			t.Fatalf("parseBranch(%q) = %q, %v want %q", c.in, got, err, c.want)
		}
	}
	if _, err := parseBranch(""); err == nil {
		t.Fatalf("expected error for empty output")
	}
}

func TestDetectGitBranch(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	git := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	git("init", "-q")
	git("checkout", "-q", "-b", "feature/pipeline")
	git("-c", "user.name=test", "-c", "user.email=test@example.com", "commit", "-q", "--allow-empty", "-m", "init")

	branch, err := DetectGitBranch(dir)
	if err != nil {
		t.Fatalf("DetectGitBranch returned error: %v", err)
	}
	if branch != "feature/pipeline" {
		t.Fatalf("unexpected branch %q", branch)
	}

	count, err := DetectCommitCount(dir)
	if err != nil || count != 1 {
		t.Fatalf("DetectCommitCount = %d, %v", count, err)
	}
}

func TestDetectOutsideRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	if _, err := DetectGitBranch(t.TempDir()); err == nil {
		t.Fatalf("expected error outside a repository")
	}
}

func TestMissing(t *testing.T) {
	_, err := exec.LookPath("definitely-not-a-real-binary-xyz")
	if !Missing(err) {
		t.Fatalf("expected Missing to detect %v", err)
	}
	if Missing(errors.New("other")) {
		t.Fatalf("unexpected Missing for generic error")
	}
}
