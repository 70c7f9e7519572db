// Package project infers the project an entry belongs to from the working
// directory's git repository.
package project

import (
	"os/exec"
	"path/filepath"
	"strings"
)

// Detect returns the name of the git repository containing dir, taken from
// the basename of its top-level directory. It returns "" outside a
// repository or when git is unavailable. An empty dir means the current
// directory.
func Detect(dir string) string {
	top := runGitCmd(dir, "rev-parse", "--show-toplevel")
	if top == "" {
		return ""
	}
	return filepath.Base(top)
}

// Branch returns the checked-out branch of the repository containing dir,
// or "" for a detached HEAD or outside a repository.
func Branch(dir string) string {
	branch := runGitCmd(dir, "rev-parse", "--abbrev-ref", "HEAD")
	if branch == "HEAD" {
		return ""
	}
	return branch
}

func runGitCmd(dir string, args ...string) string {
	cmd := exec.Command("git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
