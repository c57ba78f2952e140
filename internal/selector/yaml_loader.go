package selector

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadOverrides applies selector overrides from YAML files in a directory to
// the table. Files must have .yaml or .yml extension and hold a mapping of
// concept name to selector list:
//
//	messageThread:
//	  - "[class*=msg-s-message-list]"
//	messageContent:
//	  - ".msg-s-event-listitem__body"
//
// Unknown concept names and selectors that fail to compile are skipped with a
// warning; a bad override file must not take the built-in tables down.
func LoadOverrides(table *Table, dir string, logger *slog.Logger) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		logger.Debug("selector overrides directory does not exist, skipping", "dir", dir)
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read selector overrides dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("cannot read selector override file", "path", path, "err", err)
			continue
		}

		var raw map[string][]string
		if err := yaml.Unmarshal(data, &raw); err != nil {
			logger.Warn("cannot parse selector override file", "path", path, "err", err)
			continue
		}

		for key, sels := range raw {
			concept := Concept(key)
			if _, known := defaults[concept]; !known {
				logger.Warn("unknown selector concept in override", "path", path, "concept", key)
				continue
			}
			if err := table.Override(concept, sels); err != nil {
				logger.Warn("invalid selector override", "path", path, "err", err)
				continue
			}
			logger.Info("loaded selector override", "concept", key, "path", path, "selectors", len(sels))
		}
	}

	return nil
}
