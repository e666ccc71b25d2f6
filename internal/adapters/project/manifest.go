// Package project persists the project manifest and lockfile and scans the
// on-disk package directories.
package project

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/zerr"
)

// ManifestStore reads and writes pakt-manifest.json. Fields owned by other
// tools are carried through a load/save round trip byte-for-byte.
type ManifestStore struct{}

// NewManifestStore creates the manifest store.
func NewManifestStore() *ManifestStore {
	return &ManifestStore{}
}

// manifestOwnedFields are the top-level keys this tool owns; everything else
// in the document belongs to foreign tools and is preserved verbatim.
var manifestOwnedFields = map[string]bool{
	"dependencies": true,
	"engine":       true,
}

// Load reads the manifest at the project root. A missing file yields an empty
// manifest.
func (s *ManifestStore) Load(projectRoot string) (*domain.ProjectManifest, error) {
	data, err := os.ReadFile(domain.ManifestPath(projectRoot))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewProjectManifest(), nil
		}
		return nil, zerr.Wrap(domain.ErrManifestRead, err.Error())
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, zerr.Wrap(domain.ErrManifestParse, err.Error())
	}

	m := domain.NewProjectManifest()
	if raw, ok := envelope["dependencies"]; ok {
		var deps map[string]string
		if err := json.Unmarshal(raw, &deps); err != nil {
			return nil, zerr.Wrap(domain.ErrManifestParse, err.Error())
		}
		for name, rangeText := range deps {
			r, err := domain.ParseRange(rangeText)
			if err != nil {
				return nil, zerr.With(zerr.Wrap(domain.ErrManifestParse, err.Error()), "dependency", name)
			}
			m.Dependencies[name] = r
		}
	}
	if raw, ok := envelope["engine"]; ok {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil, zerr.Wrap(domain.ErrManifestParse, err.Error())
		}
		engine, err := domain.ParseEngineVersion(text)
		if err != nil {
			return nil, zerr.Wrap(domain.ErrManifestParse, err.Error())
		}
		m.Engine = engine
	}

	return m, nil
}

// Save writes the manifest back, merging our owned fields into whatever else
// the document already contains.
func (s *ManifestStore) Save(projectRoot string, m *domain.ProjectManifest) error {
	envelope := make(map[string]json.RawMessage)
	if data, err := os.ReadFile(domain.ManifestPath(projectRoot)); err == nil {
		// A document we cannot parse is one we must not rewrite.
		if err := json.Unmarshal(data, &envelope); err != nil {
			return zerr.Wrap(domain.ErrManifestParse, err.Error())
		}
	}
	for key := range envelope {
		if manifestOwnedFields[key] {
			delete(envelope, key)
		}
	}

	deps := make(map[string]string, len(m.Dependencies))
	for name, r := range m.Dependencies {
		deps[name] = r.String()
	}
	raw, err := json.Marshal(deps)
	if err != nil {
		return zerr.Wrap(err, "failed to encode dependencies")
	}
	envelope["dependencies"] = raw

	if !m.Engine.IsZero() {
		raw, err := json.Marshal(m.Engine.String())
		if err != nil {
			return zerr.Wrap(err, "failed to encode engine version")
		}
		envelope["engine"] = raw
	}

	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to encode manifest")
	}
	data = append(data, '\n')

	if err := os.WriteFile(domain.ManifestPath(projectRoot), data, domain.FilePerm); err != nil {
		return zerr.Wrap(domain.ErrManifestWrite, err.Error())
	}
	return nil
}
