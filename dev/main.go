package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	devenv "xlinkfetcher/dev/env"
	"xlinkfetcher/services/mirror"
)

// writes a copy of the embedded selectors into the dev state so they can be
// edited and loaded back through selectors_file.
func writeSelectors(state string) (string, error) {
	contents, err := json.MarshalIndent(mirror.DefaultSelectors(), "", "  ")
	if err != nil {
		return "", err
	}
	path := filepath.Join(state, "selectors.json5")
	return path, os.WriteFile(path, contents, 0644)
}

func writeLocalConfig(root, selectorsPath string) (string, error) {
	path := filepath.Join(root, "config.local.json5")
	_, err := os.Stat(path)
	if err == nil {
		return path, nil
	}
	contents := fmt.Sprintf(`{
  // local overrides, not committed
  environment: "development",
  selectors_file: %q,
}
`, selectorsPath)
	return path, os.WriteFile(path, []byte(contents), 0644)
}

func create(recreate bool) error {
	_, err := os.Stat("go.mod")
	if os.IsNotExist(err) {
		return fmt.Errorf("the dev environment must be created in the repository root (the same directory as the 'go.mod' file)")
	}
	root, err := devenv.GetWorkspaceRoot()
	if err != nil {
		return err
	}
	state, err := devenv.StateDir()
	if err != nil {
		return err
	}

	if recreate {
		err = os.RemoveAll(state)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	err = os.MkdirAll(state, 0777)
	if err != nil {
		return err
	}

	selectorsPath, err := writeSelectors(state)
	if err != nil {
		return err
	}
	configPath, err := writeLocalConfig(root, selectorsPath)
	if err != nil {
		return err
	}

	slog.Info("selectors", "path", selectorsPath)
	slog.Info("local config", "path", configPath)
	return nil
}

func main() {
	recreate := flag.Bool("recreate", false, "recreate the dev environment from scratch")
	flag.Parse()

	err := create(*recreate)
	if err != nil {
		slog.Error("failed to create dev environment", "err", err.Error())
		os.Exit(1)
	}

	slog.Info("dev environment created sucessfully!")
}
