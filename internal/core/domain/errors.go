package domain

import "go.trai.ch/zerr"

var (
	// ErrVersionParse is returned when a version string is not valid semver.
	ErrVersionParse = zerr.New("malformed version")

	// ErrRangeParse is returned when a version range expression cannot be parsed.
	ErrRangeParse = zerr.New("malformed version range")

	// ErrEngineVersionParse is returned when an engine version string cannot be parsed.
	ErrEngineVersionParse = zerr.New("malformed engine version")

	// ErrIndexParse is returned when a repository index document is structurally invalid.
	ErrIndexParse = zerr.New("malformed repository index")

	// ErrFetch is returned when a repository index or package archive cannot be fetched.
	ErrFetch = zerr.New("fetch failed")

	// ErrCacheMiss is returned when no cached copy exists for a repository source.
	ErrCacheMiss = zerr.New("no cached repository index")

	// ErrSourceNotFound is returned when a repository source id is not configured.
	ErrSourceNotFound = zerr.New("repository source not found")

	// ErrConflict is returned when the resolver cannot satisfy all version constraints.
	ErrConflict = zerr.New("unresolvable dependency conflict")

	// ErrDependencyNotFound is returned when no repository offers a required package.
	ErrDependencyNotFound = zerr.New("dependency not found in any repository")

	// ErrEngineIncompatible is returned when every candidate version excludes the project engine.
	ErrEngineIncompatible = zerr.New("no candidate compatible with project engine")

	// ErrDependencyNotDeclared is returned when removing a dependency the manifest does not declare.
	ErrDependencyNotDeclared = zerr.New("dependency not declared in manifest")

	// ErrIncompletePlan is returned when a plan with conflicts is handed to the synchronizer.
	ErrIncompletePlan = zerr.New("plan has unresolved conflicts")

	// ErrChecksumMismatch is returned when a downloaded archive fails checksum verification.
	ErrChecksumMismatch = zerr.New("archive checksum mismatch")

	// ErrExtract is returned when a package archive is malformed or cannot be extracted.
	ErrExtract = zerr.New("archive extraction failed")

	// ErrPathTraversal is returned when an archive entry would escape the target directory.
	ErrPathTraversal = zerr.New("archive entry escapes target directory")

	// ErrUnsupportedArchive is returned when the archive container format is not recognized.
	ErrUnsupportedArchive = zerr.New("unsupported archive format")

	// ErrFilesystem is returned when an install or removal fails with a filesystem error.
	ErrFilesystem = zerr.New("filesystem operation failed")

	// ErrSyncInProgress is returned when another synchronization already holds the project lock.
	ErrSyncInProgress = zerr.New("another synchronization is in progress")

	// ErrManifestRead is returned when the project manifest cannot be read.
	ErrManifestRead = zerr.New("failed to read project manifest")

	// ErrManifestParse is returned when the project manifest cannot be parsed.
	ErrManifestParse = zerr.New("failed to parse project manifest")

	// ErrManifestWrite is returned when the project manifest cannot be written.
	ErrManifestWrite = zerr.New("failed to write project manifest")

	// ErrLockfileRead is returned when the lockfile cannot be read.
	ErrLockfileRead = zerr.New("failed to read lockfile")

	// ErrLockfileParse is returned when the lockfile cannot be parsed.
	ErrLockfileParse = zerr.New("failed to parse lockfile")

	// ErrLockfileWrite is returned when the lockfile cannot be written.
	ErrLockfileWrite = zerr.New("failed to write lockfile")

	// ErrSettingsRead is returned when the source settings file cannot be read.
	ErrSettingsRead = zerr.New("failed to read source settings")

	// ErrSettingsParse is returned when the source settings file cannot be parsed.
	ErrSettingsParse = zerr.New("failed to parse source settings")
)
