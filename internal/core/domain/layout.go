package domain

import (
	"os"
	"path/filepath"
)

const (
	// ManifestFileName is the project manifest at the project root.
	ManifestFileName = "pakt-manifest.json"

	// LockFileName is the lockfile alongside the manifest.
	LockFileName = "pakt-lock.json"

	// PackagesDirName is the directory beneath the project root holding one
	// subdirectory per installed package.
	PackagesDirName = "Packages"

	// SyncLockFileName guards the single-writer rule for a project.
	SyncLockFileName = ".pakt-sync.lock"

	// StagingPrefix names staging directories created next to the packages
	// directory during installation.
	StagingPrefix = ".pakt-staging-"

	// DirPerm is the permission for directories the tool creates.
	DirPerm = 0o755

	// FilePerm is the permission for files the tool creates.
	FilePerm = 0o644
)

// PackagesDir returns the packages directory for a project root.
func PackagesDir(projectRoot string) string {
	return filepath.Join(projectRoot, PackagesDirName)
}

// PackageDir returns the install directory for a package. Naming is
// deterministic from the package name alone so repeated synchronization is
// idempotent.
func PackageDir(projectRoot, name string) string {
	return filepath.Join(PackagesDir(projectRoot), name)
}

// ManifestPath returns the manifest location for a project root.
func ManifestPath(projectRoot string) string {
	return filepath.Join(projectRoot, ManifestFileName)
}

// LockfilePath returns the lockfile location for a project root.
func LockfilePath(projectRoot string) string {
	return filepath.Join(projectRoot, LockFileName)
}

// DefaultCacheDir returns the directory for persisted repository snapshots,
// honoring XDG_CACHE_HOME.
func DefaultCacheDir() string {
	if base := os.Getenv("XDG_CACHE_HOME"); base != "" {
		return filepath.Join(base, "pakt", "repos")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".pakt-cache", "repos")
	}
	return filepath.Join(home, ".cache", "pakt", "repos")
}

// DefaultSettingsPath returns the source settings file location, honoring
// XDG_CONFIG_HOME.
func DefaultSettingsPath() string {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, "pakt", "sources.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".pakt-config", "sources.yaml")
	}
	return filepath.Join(home, ".config", "pakt", "sources.yaml")
}
