package project

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/zerr"
)

// LockfileStore reads and writes pakt-lock.json.
type LockfileStore struct{}

// NewLockfileStore creates the lockfile store.
func NewLockfileStore() *LockfileStore {
	return &LockfileStore{}
}

type lockfileDoc struct {
	Version  int                     `json:"version"`
	Packages map[string]lockedPkgDoc `json:"packages"`
}

type lockedPkgDoc struct {
	Version      domain.Version          `json:"version"`
	Dependencies map[string]domain.Range `json:"dependencies,omitempty"`
	Source       string                  `json:"source,omitempty"`
	Fingerprint  string                  `json:"fingerprint,omitempty"`
}

// Load reads the lockfile at the project root. A missing file yields an empty
// lockfile.
func (s *LockfileStore) Load(projectRoot string) (*domain.Lockfile, error) {
	data, err := os.ReadFile(domain.LockfilePath(projectRoot))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NewLockfile(), nil
		}
		return nil, zerr.Wrap(domain.ErrLockfileRead, err.Error())
	}

	var doc lockfileDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, zerr.Wrap(domain.ErrLockfileParse, err.Error())
	}
	if doc.Version > domain.LockfileFormatVersion {
		return nil, zerr.With(domain.ErrLockfileParse, "format_version", doc.Version)
	}

	lock := domain.NewLockfile()
	for name, p := range doc.Packages {
		lock.Set(name, domain.LockedPackage{
			Version:      p.Version,
			Dependencies: p.Dependencies,
			SourceID:     p.Source,
			Fingerprint:  p.Fingerprint,
		})
	}
	return lock, nil
}

// Save writes the lockfile.
func (s *LockfileStore) Save(projectRoot string, l *domain.Lockfile) error {
	doc := lockfileDoc{
		Version:  domain.LockfileFormatVersion,
		Packages: make(map[string]lockedPkgDoc, len(l.Packages)),
	}
	for name, p := range l.Packages {
		doc.Packages[name] = lockedPkgDoc{
			Version:      p.Version,
			Dependencies: p.Dependencies,
			Source:       p.SourceID,
			Fingerprint:  p.Fingerprint,
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to encode lockfile")
	}
	data = append(data, '\n')

	if err := os.WriteFile(domain.LockfilePath(projectRoot), data, domain.FilePerm); err != nil {
		return zerr.Wrap(domain.ErrLockfileWrite, err.Error())
	}
	return nil
}
