package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"
)

// Requirement is one accumulated constraint on a package: who required it and
// what range they asked for. Requirer is empty for direct manifest
// dependencies.
type Requirement struct {
	Requirer string
	Range    Range
}

// Conflict describes one unsatisfiable package with the full chain of
// requirers that produced the contradiction.
type Conflict struct {
	// Package is the name that could not be satisfied.
	Package string

	// Requirements are every accumulated constraint on the package.
	Requirements []Requirement

	// Reason is the sentinel classifying the failure: ErrConflict,
	// ErrDependencyNotFound or ErrEngineIncompatible.
	Reason error
}

// ResolutionPlan is the resolver's output: what to install, what to remove,
// and what could not be satisfied. Transient; produced per synchronization
// attempt and never persisted.
type ResolutionPlan struct {
	// ToInstall holds the selected entries missing from disk or locked at a
	// different version, sorted by name.
	ToInstall []PackageInfo

	// ToRemove holds names of locked packages no longer reachable from the
	// manifest, sorted.
	ToRemove []string

	// Locked is the full resolved closure, keyed by name, including packages
	// already installed at the right version.
	Locked map[string]PackageInfo

	// Conflicts enumerates every unsatisfiable requirement. A plan with
	// conflicts must never reach the synchronizer.
	Conflicts []Conflict
}

// HasConflicts reports whether the plan is incomplete.
func (p *ResolutionPlan) HasConflicts() bool {
	return len(p.Conflicts) > 0
}

// IsNoop reports whether applying the plan would change nothing.
func (p *ResolutionPlan) IsNoop() bool {
	return len(p.ToInstall) == 0 && len(p.ToRemove) == 0 && !p.HasConflicts()
}

// ID returns a deterministic digest of the plan's effect. Two resolutions of
// the same inputs produce the same ID regardless of scheduling order.
func (p *ResolutionPlan) ID() string {
	h := sha256.New()

	writeField := func(s string) {
		_, _ = h.Write([]byte(s))
		_, _ = h.Write([]byte{0})
	}

	installs := make([]string, 0, len(p.ToInstall))
	for _, pkg := range p.ToInstall {
		installs = append(installs, pkg.ID()+"#"+pkg.SourceID)
	}
	slices.SortFunc(installs, strings.Compare)
	for _, s := range installs {
		writeField(s)
	}
	writeField("")

	removes := slices.Clone(p.ToRemove)
	slices.SortFunc(removes, strings.Compare)
	for _, s := range removes {
		writeField(s)
	}
	writeField("")

	conflicts := make([]string, 0, len(p.Conflicts))
	for _, c := range p.Conflicts {
		conflicts = append(conflicts, c.Package)
	}
	slices.SortFunc(conflicts, strings.Compare)
	for _, s := range conflicts {
		writeField(s)
	}

	return hex.EncodeToString(h.Sum(nil))
}

// PackageFailure records one package-local synchronization failure.
type PackageFailure struct {
	Package string
	Err     error
}

// SyncReport is the synchronizer's outcome. A report with failures is a
// partial application; a plan rejected for conflicts never produces a report
// at all, so the two cases cannot be conflated.
type SyncReport struct {
	// Installed lists packages whose staged directory was committed.
	Installed []string

	// Removed lists packages whose directory was deleted.
	Removed []string

	// Failed lists per-package failures; sibling packages are unaffected.
	Failed []PackageFailure
}

// Ok reports whether every per-package operation succeeded.
func (r *SyncReport) Ok() bool {
	return len(r.Failed) == 0
}
