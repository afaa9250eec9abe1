// Package git inspects the surrounding git repository so labkey can warn
// when plaintext secret files are tracked or unignored. All checks degrade
// to "not a repository" when git is unavailable.
package git

import (
	"os/exec"
	"strings"
)

// IsRepository reports whether dir is inside a git work tree
func IsRepository(dir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) == "true"
}

// IsTracked reports whether path is tracked by git
func IsTracked(dir, path string) bool {
	cmd := exec.Command("git", "ls-files", "--error-unmatch", path)
	cmd.Dir = dir
	return cmd.Run() == nil
}

// IsIgnored reports whether path matches a gitignore rule
func IsIgnored(dir, path string) bool {
	cmd := exec.Command("git", "check-ignore", "-q", path)
	cmd.Dir = dir
	return cmd.Run() == nil
}

// PlaintextExposed reports whether a plaintext file would end up in git
// history: it is exposed when the repository exists and the file is either
// already tracked or not covered by any ignore rule.
func PlaintextExposed(dir, path string) bool {
	if !IsRepository(dir) {
		return false
	}
	if IsTracked(dir, path) {
		return true
	}
	return !IsIgnored(dir, path)
}
