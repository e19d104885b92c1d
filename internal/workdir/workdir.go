// Package workdir resolves the directory that holds rangepick's .rangepick
// state, so config, presets and history are shared across a repository.
package workdir

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	rootFile = ".rangepick-root"
	stateDir = ".rangepick"

	// EnvDir overrides resolution entirely.
	EnvDir = "RANGEPICK_DIR"
)

// ResolveBaseDir resolves the state root with conservative heuristics:
//  0. Honor $RANGEPICK_DIR.
//  1. Honor .rangepick-root in the current directory.
//  2. Use current directory if it already has a .rangepick directory.
//  3. If inside git, check git root for .rangepick-root or .rangepick.
//
// If no markers are found, it returns the original baseDir unchanged.
func ResolveBaseDir(baseDir string) string {
	if env := strings.TrimSpace(os.Getenv(EnvDir)); env != "" {
		return filepath.Clean(env)
	}
	if baseDir == "" {
		return baseDir
	}
	baseDir = filepath.Clean(baseDir)

	if resolved, ok := readRootFile(baseDir); ok {
		return resolved
	}
	if hasStateDir(baseDir) {
		return baseDir
	}

	gitRoot, err := gitTopLevel(baseDir)
	if err != nil || gitRoot == "" {
		return baseDir
	}
	gitRoot = filepath.Clean(gitRoot)

	if resolved, ok := readRootFile(gitRoot); ok {
		return resolved
	}
	if hasStateDir(gitRoot) {
		return gitRoot
	}

	return baseDir
}

func readRootFile(dir string) (string, bool) {
	content, err := os.ReadFile(filepath.Join(dir, rootFile))
	if err != nil {
		return "", false
	}

	resolved := strings.TrimSpace(string(content))
	if resolved == "" {
		return "", false
	}
	if !filepath.IsAbs(resolved) {
		resolved = filepath.Join(dir, resolved)
	}

	return filepath.Clean(resolved), true
}

func hasStateDir(dir string) bool {
	fi, err := os.Stat(filepath.Join(dir, stateDir))
	return err == nil && fi.IsDir()
}

func gitTopLevel(dir string) (string, error) {
	out, err := exec.Command("git", "-C", dir, "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
