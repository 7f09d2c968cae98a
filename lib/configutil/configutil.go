package configutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v6"
	"github.com/titanous/json5"
)

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

// reads a configuration file, `name` should come with a file extension,
// it will automatically be lopped off to produce the other extensions.
// this function will merge the following files, where higher number is more prioritized.
// 1. <name>.<ext>
// 2. <name>.local.<ext>
func ReadConfig[T any](name string) (T, error) {
	var out T
	allNotFound := true

	dirname := filepath.Dir(name)
	basename := filepath.Base(name)
	prefixname, ext := splitExt(basename)

	defaultFile, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(defaultFile) > 0 {
		err = json5.Unmarshal(defaultFile, &out)
		if err != nil {
			return out, fmt.Errorf("parse %s: %w", name, err)
		}
		allNotFound = false
	}

	localFilepath := filepath.Join(
		dirname,
		fmt.Sprintf("%s.local.%s", prefixname, ext),
	)
	localFile, err := os.ReadFile(localFilepath)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(localFile) > 0 {
		var override T
		err = json5.Unmarshal(localFile, &override)
		if err != nil {
			return out, fmt.Errorf("parse %s: %w", localFilepath, err)
		}
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Info("merging config with local overrides", "local", localFilepath)
		allNotFound = false
	}

	if allNotFound {
		return out, os.ErrNotExist
	}

	return out, nil
}

// Load resolves a config in order of increasing priority:
// 1. `defaults`
// 2. the files read by ReadConfig (missing files are skipped)
// 3. environment variables named by `env` struct tags
//
// zero values in a file never override a default, use the environment
// to switch a default `true` off.
func Load[T any](name string, defaults T) (T, error) {
	out := defaults

	if name != "" {
		fromFile, err := ReadConfig[T](name)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return out, err
		}
		if err == nil {
			err = mergo.Merge(&out, fromFile, mergo.WithOverride)
			if err != nil {
				return out, err
			}
		}
	}

	err := env.Parse(&out)
	if err != nil {
		return out, fmt.Errorf("parse environment: %w", err)
	}
	return out, nil
}

// ReadFile decodes a single json5 file into T.
func ReadFile[T any](name string) (T, error) {
	var out T
	contents, err := os.ReadFile(name)
	if err != nil {
		return out, err
	}
	err = json5.Unmarshal(contents, &out)
	if err != nil {
		return out, fmt.Errorf("parse %s: %w", name, err)
	}
	return out, nil
}
