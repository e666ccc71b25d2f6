package domain

import (
	"slices"
	"strings"
)

// InstalledPackage is one package directory found beneath the packages root,
// with the metadata parsed from its embedded package manifest.
type InstalledPackage struct {
	// DirName is the directory name beneath the packages root.
	DirName string

	// Name is the package's self-declared name. Normally equal to DirName.
	Name string

	// Version is the installed version, zero when the embedded manifest was
	// missing or unreadable.
	Version Version

	// Dependencies are the package's own declared ranges.
	Dependencies map[string]Range
}

// ProjectState is a scan of what is actually on disk: which package
// directories exist, which of them are locked, and which were placed there by
// the user outside our control.
type ProjectState struct {
	// Installed holds directories whose name matches a lockfile entry,
	// keyed by package name.
	Installed map[string]InstalledPackage

	// Unlocked holds directories with no lockfile entry. They are never
	// touched by synchronization, but their dependencies join resolution so
	// installs stay compatible with them.
	Unlocked []InstalledPackage

	// Engine is the engine version probed from project settings, zero when
	// unavailable.
	Engine EngineVersion
}

// InstalledNames returns the locked-and-present package names, sorted.
func (s *ProjectState) InstalledNames() []string {
	names := make([]string, 0, len(s.Installed))
	for name := range s.Installed {
		names = append(names, name)
	}
	slices.SortFunc(names, strings.Compare)
	return names
}

// UnlockedNames returns the names of unlocked packages with a readable
// manifest, sorted.
func (s *ProjectState) UnlockedNames() []string {
	names := make([]string, 0, len(s.Unlocked))
	for _, p := range s.Unlocked {
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}
	slices.SortFunc(names, strings.Compare)
	return names
}

// ExtractReport summarizes one archive extraction.
type ExtractReport struct {
	// Files is the number of regular files written.
	Files int

	// Bytes is the total uncompressed size written.
	Bytes int64
}
