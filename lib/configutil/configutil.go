package configutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
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

// LocalPath returns the path of the local override file for a config path,
// `sites.json5` becomes `sites.local.json5`.
func LocalPath(name string) string {
	prefixname, ext := splitExt(filepath.Base(name))
	return filepath.Join(
		filepath.Dir(name),
		fmt.Sprintf("%s.local.%s", prefixname, ext),
	)
}

func readInto[T any](path string, out *T) (found bool, err error) {
	contents, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(contents) == 0 {
		return false, nil
	}
	err = json5.Unmarshal(contents, out)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

// reads a configuration file, `name` should come with a file extension,
// it will automatically be lopped off to produce the other extensions.
// this function will merge the following files, where higher number is more prioritized.
// 1. <name>.<ext>
// 2. <name>.local.<ext>
func ReadConfig[T any](name string) (T, error) {
	var out T
	return out, mergeFiles(&out, name, true)
}

// Overlay reads the same files as ReadConfig but merges them on top of an
// existing value, a missing file leaves `base` untouched.
func Overlay[T any](base T, name string) (T, error) {
	err := mergeFiles(&base, name, false)
	return base, err
}

// ReadLayers reads <name>.<ext> and <name>.local.<ext> without merging
// them, the result is in increasing priority and only holds files that
// exist. Use it when a merge needs more care than mergo's defaults.
func ReadLayers[T any](name string) ([]T, error) {
	var layers []T
	for _, path := range []string{name, LocalPath(name)} {
		var layer T
		found, err := readInto(path, &layer)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		if path != name {
			slog.Info("merging config with local overrides", "local", path)
		}
		layers = append(layers, layer)
	}
	return layers, nil
}

func mergeFiles[T any](out *T, name string, requireOne bool) error {
	layers, err := ReadLayers[T](name)
	if err != nil {
		return err
	}
	if len(layers) == 0 && requireOne {
		return os.ErrNotExist
	}
	for _, layer := range layers {
		err = mergo.Merge(out, layer, mergo.WithOverride)
		if err != nil {
			return err
		}
	}
	return nil
}

// ReadConfig but it recursively goes up the filesystem until the root
// to find a configuration file matching the name.
func ReadRecursively[T any](name string) (T, error) {
	var defaultOut T

	root, err := filepath.Abs("/")
	if err != nil {
		return defaultOut, err
	}
	current, err := os.Getwd()
	if err != nil {
		return defaultOut, err
	}

	for {
		config, err := ReadConfig[T](filepath.Join(current, name))
		if errors.Is(err, os.ErrNotExist) {
			if current == root {
				return defaultOut, os.ErrNotExist
			}
			current = filepath.Dir(current)
			continue
		}
		if err != nil {
			return defaultOut, err
		}
		return config, nil
	}
}
