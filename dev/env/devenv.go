package devenv

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	moduleName = "xlinkfetcher"
	// paths starting with this are resolved under dev/.state
	StatePrefix = "<dev_state>"
)

var modName = regexp.MustCompile(`(?m)^module +([\w\-_./]+)\s*$`)

func isWorkspaceRoot(currentdir string) bool {
	mod, err := os.ReadFile(filepath.Join(currentdir, "go.mod"))
	if err != nil {
		return false
	}
	matches := modName.FindSubmatch(mod)
	return len(matches) >= 2 && string(matches[1]) == moduleName
}

// GetWorkspaceRoot walks up from the working directory to the module root.
func GetWorkspaceRoot() (string, error) {
	currentdir, err := filepath.Abs(".")
	if err != nil {
		return "", err
	}

	for {
		if isWorkspaceRoot(currentdir) {
			return currentdir, nil
		}
		parent := filepath.Dir(currentdir)
		if parent == currentdir {
			return "", os.ErrNotExist
		}
		currentdir = parent
	}
}

func StateDir() (string, error) {
	root, err := GetWorkspaceRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "dev", ".state"), nil
}

// ResolvePath expands a leading <dev_state> to the dev state directory,
// creating it if needed. Other paths are returned as is.
func ResolvePath(path string) (string, error) {
	if !strings.HasPrefix(path, StatePrefix) {
		return path, nil
	}

	state, err := StateDir()
	if err != nil {
		return "", err
	}
	err = os.MkdirAll(state, 0777)
	if err != nil {
		return "", err
	}

	subpath := strings.TrimLeft(strings.TrimPrefix(path, StatePrefix), `/\`)
	return filepath.Join(state, filepath.FromSlash(subpath)), nil
}
