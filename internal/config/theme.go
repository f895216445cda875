package config

import (
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// SaveTheme records the UI theme in the config file at path, keeping every
// other key. The file and its directory are created when missing.
func SaveTheme(path, theme string) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	doc := map[string]any{}
	raw, err := readFile(resolved)
	if err != nil {
		return err
	}
	if raw != nil {
		if err := toml.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}
	doc["theme"] = theme

	out, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(resolved, out, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
