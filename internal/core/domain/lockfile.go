package domain

import (
	"slices"
	"strings"
)

// LockfileFormatVersion is the current lockfile schema version.
const LockfileFormatVersion = 1

// LockedPackage records one installed package: the exact version on disk, the
// dependency ranges it was published with, where it came from, and a
// fingerprint of the extracted file tree.
type LockedPackage struct {
	// Version is the exact installed version.
	Version Version

	// Dependencies are the package's own declared ranges, kept so resolution
	// can run offline from the lockfile alone.
	Dependencies map[string]Range

	// SourceID is the repository source the package was installed from.
	SourceID string

	// Fingerprint is the xxhash of the installed file tree, used to detect
	// divergence between lockfile and disk.
	Fingerprint string
}

// Lockfile records exactly which package versions are installed. Invariant:
// every entry corresponds to an extracted package directory; lockfile and
// disk only diverge while a synchronization is in flight.
type Lockfile struct {
	// Version is the lockfile format version, allowing schema migrations.
	Version int

	// Packages maps package names to their locked state.
	Packages map[string]LockedPackage
}

// NewLockfile returns an empty lockfile at the current format version.
func NewLockfile() *Lockfile {
	return &Lockfile{
		Version:  LockfileFormatVersion,
		Packages: make(map[string]LockedPackage),
	}
}

// Get returns the locked entry for a package, if present.
func (l *Lockfile) Get(name string) (LockedPackage, bool) {
	p, ok := l.Packages[name]
	return p, ok
}

// Set records or replaces a locked entry.
func (l *Lockfile) Set(name string, p LockedPackage) {
	if l.Packages == nil {
		l.Packages = make(map[string]LockedPackage)
	}
	l.Packages[name] = p
}

// Remove drops a locked entry.
func (l *Lockfile) Remove(name string) {
	delete(l.Packages, name)
}

// PackageNames returns the locked package names, sorted.
func (l *Lockfile) PackageNames() []string {
	names := make([]string, 0, len(l.Packages))
	for name := range l.Packages {
		names = append(names, name)
	}
	slices.SortFunc(names, strings.Compare)
	return names
}
