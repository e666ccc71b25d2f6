// Package settings provides the repository source configuration loader for pakt.
package settings

import (
	"os"
	"sort"

	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/pakt/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// sourcesFile represents the structure of the sources.yaml configuration file.
type sourcesFile struct {
	Sources []sourceDTO `yaml:"sources"`
}

// sourceDTO represents a single repository source entry.
type sourceDTO struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Priority int    `yaml:"priority"`
	Disabled bool   `yaml:"disabled"`
}

// FileSourceSettings implements ports.SourceSettings using a YAML file.
type FileSourceSettings struct {
	Path string
	log  ports.Logger
}

// NewLoader creates a settings loader reading from the given path.
func NewLoader(path string, log ports.Logger) *FileSourceSettings {
	return &FileSourceSettings{Path: path, log: log}
}

// Load reads the configured sources, ordered by priority descending. A missing
// settings file is not an error: it yields an empty source list so a fresh
// machine works before any repository has been added.
func (l *FileSourceSettings) Load() ([]domain.Source, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, zerr.Wrap(domain.ErrSettingsRead, err.Error())
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(domain.ErrSettingsParse, err.Error())
	}

	seen := make(map[string]bool, len(file.Sources))
	sources := make([]domain.Source, 0, len(file.Sources))
	for _, dto := range file.Sources {
		if dto.ID == "" || dto.URL == "" {
			return nil, zerr.With(domain.ErrSettingsParse, "reason", "source entry missing id or url")
		}
		if seen[dto.ID] {
			return nil, zerr.With(domain.ErrSettingsParse, "duplicate_source", dto.ID)
		}
		seen[dto.ID] = true
		sources = append(sources, domain.Source{
			ID:       dto.ID,
			Name:     dto.Name,
			URL:      dto.URL,
			Priority: dto.Priority,
			Enabled:  !dto.Disabled,
		})
	}

	sort.SliceStable(sources, func(i, j int) bool {
		if sources[i].Priority != sources[j].Priority {
			return sources[i].Priority > sources[j].Priority
		}
		return sources[i].ID < sources[j].ID
	})

	return sources, nil
}

// Save persists the given sources back to the settings file.
func (l *FileSourceSettings) Save(sources []domain.Source) error {
	file := sourcesFile{Sources: make([]sourceDTO, 0, len(sources))}
	for _, s := range sources {
		file.Sources = append(file.Sources, sourceDTO{
			ID:       s.ID,
			Name:     s.Name,
			URL:      s.URL,
			Priority: s.Priority,
			Disabled: !s.Enabled,
		})
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return zerr.Wrap(err, "failed to encode sources")
	}
	if err := os.WriteFile(l.Path, data, domain.FilePerm); err != nil {
		return zerr.Wrap(err, "failed to write sources file")
	}
	return nil
}
