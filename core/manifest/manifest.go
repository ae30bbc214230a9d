package manifest

import (
	"errors"
	"fmt"
	"os"

	"deluge-submit/core/deluge"
	"deluge-submit/core/entry"

	"gopkg.in/yaml.v3"
)

// ErrNoTitle is returned for an entry without a title.
var ErrNoTitle = errors.New("entry has no title")

// Manifest is one batch file.
type Manifest struct {
	Name       string           `yaml:"name"`
	Deluge     any              `yaml:"deluge"`
	Plugins    []string         `yaml:"plugins"`
	StagingDir string           `yaml:"staging_dir"`
	Learn      bool             `yaml:"learn"`
	Entries    []map[string]any `yaml:"entries"`
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a manifest and validates its entries.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	for i, fields := range m.Entries {
		if title, _ := fields["title"].(string); title == "" {
			return nil, fmt.Errorf("entry %d: %w", i, ErrNoTitle)
		}
	}
	if m.Name == "" {
		m.Name = "manifest"
	}
	return &m, nil
}

// Config resolves the deluge section over base, the configured values.
// An absent section keeps base, a boolean toggles it, and a mapping overrides
// only the options it names.
func (m *Manifest) Config(base deluge.Config) (deluge.Config, error) {
	return deluge.ResolveOver(base, m.Deluge)
}

// Task builds the run's task with every entry accepted.
func (m *Manifest) Task() *entry.Task {
	entries := make([]*entry.Entry, 0, len(m.Entries))
	for _, fields := range m.Entries {
		entries = append(entries, entry.New(fields))
	}
	task := entry.NewTask(m.Name, entries...)
	task.Plugins = m.Plugins
	task.StagingDir = m.StagingDir
	task.Learn = m.Learn
	return task
}
