// Package repocache fetches repository index documents and persists
// point-in-time snapshots on disk, keyed by source id.
package repocache

import (
	"encoding/json"
	"fmt"

	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/pakt/internal/core/ports"
	"go.trai.ch/zerr"
)

// indexDocument is the wire structure of a repository index. Unknown fields
// are ignored; the document is the publisher's, not ours.
type indexDocument struct {
	Name     string                `json:"name"`
	Packages map[string]packageDoc `json:"packages"`
}

type packageDoc struct {
	Versions map[string]versionDoc `json:"versions"`
}

type versionDoc struct {
	Name         string            `json:"name"`
	DisplayName  string            `json:"displayName"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies"`
	Engine       string            `json:"engine"`
	URL          string            `json:"url"`
	SHA256       string            `json:"sha256"`
	Deprecated   bool              `json:"deprecated"`
}

// parseIndex decodes a raw index document into a snapshot. Malformed
// individual version entries are dropped with a warning; only a document that
// cannot be decoded at all fails the load.
func parseIndex(sourceID string, data []byte, log ports.Logger) (*domain.RepositoryIndex, error) {
	var doc indexDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrIndexParse, err.Error()), "source", sourceID)
	}

	var entries []domain.PackageInfo
	for name, pkg := range doc.Packages {
		for verText, vd := range pkg.Versions {
			info, err := parseVersionEntry(sourceID, name, verText, vd)
			if err != nil {
				if log != nil {
					log.Warn(fmt.Sprintf("dropping malformed index entry %s@%s from %s: %v", name, verText, sourceID, err))
				}
				continue
			}
			entries = append(entries, info)
		}
	}

	return domain.NewRepositoryIndex(sourceID, doc.Name, entries), nil
}

func parseVersionEntry(sourceID, name, verText string, vd versionDoc) (domain.PackageInfo, error) {
	version, err := domain.ParseVersion(verText)
	if err != nil {
		return domain.PackageInfo{}, err
	}
	// The entry may restate its own version; when it does, the key wins but a
	// disagreement marks the entry malformed.
	if vd.Version != "" && vd.Version != verText {
		return domain.PackageInfo{}, zerr.With(domain.ErrIndexParse, "reason", "version key and entry disagree")
	}
	if vd.URL == "" {
		return domain.PackageInfo{}, zerr.With(domain.ErrIndexParse, "reason", "missing download url")
	}

	deps := make(map[string]domain.Range, len(vd.Dependencies))
	for depName, rangeText := range vd.Dependencies {
		r, err := domain.ParseRange(rangeText)
		if err != nil {
			return domain.PackageInfo{}, err
		}
		deps[depName] = r
	}

	engine, err := domain.ParseEngineRange(vd.Engine)
	if err != nil {
		return domain.PackageInfo{}, err
	}

	return domain.PackageInfo{
		Name:         domain.NewInternedString(name),
		DisplayName:  vd.DisplayName,
		Version:      version,
		Dependencies: deps,
		Engine:       engine,
		URL:          vd.URL,
		Checksum:     vd.SHA256,
		Deprecated:   vd.Deprecated,
		SourceID:     sourceID,
	}, nil
}
