// Package version reads source control facts used as build defaults.
package version

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrDetachedHead is returned when HEAD does not point at a branch.
var ErrDetachedHead = errors.New("HEAD is detached")

// DetectGitBranch returns the current branch of the repository at dir by
// calling `git rev-parse --abbrev-ref HEAD`.
func DetectGitBranch(dir string) (string, error) {
	out, err := runCommand(dir, "git", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	return parseBranch(out)
}

// DetectCommitCount returns the number of commits reachable from HEAD, a
// common source for monotonically increasing build numbers.
func DetectCommitCount(dir string) (int, error) {
	out, err := runCommand(dir, "git", "rev-list", "--count", "HEAD")
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(out)
	if err != nil {
		return 0, fmt.Errorf("unable to parse commit count from %q", out)
	}
	return n, nil
}

func parseBranch(out string) (string, error) {
	branch := strings.TrimSpace(out)
	if i := strings.LastIndex(branch, "\n"); i >= 0 {
		branch = strings.TrimSpace(branch[i+1:])
	}
	switch branch {
	case "":
		return "", fmt.Errorf("unable to parse branch from %q", out)
	case "HEAD":
		return "", ErrDetachedHead
	}
	return branch, nil
}

func runCommand(dir, name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdin = nil
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return "", err
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Missing reports whether executing the command returns a not-found error.
func Missing(cmdErr error) bool {
	return errors.Is(cmdErr, exec.ErrNotFound)
}
