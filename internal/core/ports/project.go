package ports

import "go.trai.ch/pakt/internal/core/domain"

//go:generate mockgen -source=project.go -destination=mocks/mock_project.go -package=mocks

// ManifestStore persists the project manifest. Unknown fields present in the
// file must survive a load/save round trip.
type ManifestStore interface {
	// Load reads the manifest at the project root. A missing file yields an
	// empty manifest, not an error.
	Load(projectRoot string) (*domain.ProjectManifest, error)

	// Save writes the manifest back, preserving foreign fields.
	Save(projectRoot string, m *domain.ProjectManifest) error
}

// LockfileStore persists the lockfile.
type LockfileStore interface {
	// Load reads the lockfile at the project root. A missing file yields an
	// empty lockfile, not an error.
	Load(projectRoot string) (*domain.Lockfile, error)

	// Save writes the lockfile.
	Save(projectRoot string, l *domain.Lockfile) error
}

// ProjectScanner inspects the on-disk state of a project.
type ProjectScanner interface {
	// Scan walks the packages directory and classifies each package
	// directory as locked (present in lock) or unlocked, and probes the
	// project's engine version.
	Scan(projectRoot string, lock *domain.Lockfile) (*domain.ProjectState, error)
}

// Fingerprinter computes the installed-file fingerprint of a package
// directory, recorded in the lockfile.
type Fingerprinter interface {
	// Fingerprint returns a deterministic digest of the directory's file
	// tree (relative paths and contents).
	Fingerprint(dir string) (string, error)
}
