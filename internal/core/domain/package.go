package domain

import (
	"slices"
	"strings"
)

// PackageInfo describes one published version of a package, as loaded from a
// repository index. Immutable once loaded.
type PackageInfo struct {
	// Name is the canonical package name (e.g. "com.acme.toolkit").
	Name InternedString

	// DisplayName is the human-readable name, if the index publishes one.
	DisplayName string

	// Version is the published version of this entry.
	Version Version

	// Dependencies maps dependency package names to the range this entry
	// requires of them.
	Dependencies map[string]Range

	// Engine is the minimum engine version this entry declares support for.
	Engine EngineRange

	// URL is the download location of the package archive.
	URL string

	// Checksum is the hex SHA-256 of the package archive. Empty when the
	// index does not publish one; verification is skipped in that case.
	Checksum string

	// Deprecated marks entries the publisher has retired. Deprecated
	// candidates lose tie-breaks but remain installable when locked.
	Deprecated bool

	// SourceID identifies the repository source this entry came from.
	SourceID string
}

// ID returns the "name@version" identity of the entry.
func (p PackageInfo) ID() string {
	return p.Name.String() + "@" + p.Version.String()
}

// RepositoryIndex is a point-in-time snapshot of one repository source.
// Snapshots are immutable; a refresh builds a new value and swaps the visible
// pointer, so in-flight resolutions always observe a consistent index.
type RepositoryIndex struct {
	// SourceID is the configured source this snapshot belongs to.
	SourceID string

	// Name is the repository's self-declared display name.
	Name string

	// Packages maps package names to their published versions, sorted by
	// version descending.
	Packages map[string][]PackageInfo
}

// NewRepositoryIndex builds a snapshot from a flat list of entries, grouping
// by name and sorting each group by version descending.
func NewRepositoryIndex(sourceID, name string, entries []PackageInfo) *RepositoryIndex {
	packages := make(map[string][]PackageInfo)
	for _, e := range entries {
		key := e.Name.String()
		packages[key] = append(packages[key], e)
	}
	for _, versions := range packages {
		slices.SortFunc(versions, func(a, b PackageInfo) int {
			return b.Version.Compare(a.Version)
		})
	}
	return &RepositoryIndex{
		SourceID: sourceID,
		Name:     name,
		Packages: packages,
	}
}

// Versions returns the published versions of a package, highest first, or nil
// when the repository does not carry it.
func (idx *RepositoryIndex) Versions(name string) []PackageInfo {
	return idx.Packages[name]
}

// PackageNames returns the names of all packages in the snapshot, sorted.
func (idx *RepositoryIndex) PackageNames() []string {
	names := make([]string, 0, len(idx.Packages))
	for name := range idx.Packages {
		names = append(names, name)
	}
	slices.SortFunc(names, strings.Compare)
	return names
}
