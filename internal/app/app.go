// Package app implements the application layer for pakt: the collaborator API
// a presentation layer talks to. Each operation returns a result or a typed
// failure; formatting is the caller's problem.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/pakt/internal/core/ports"
	"go.trai.ch/pakt/internal/engine/resolver"
	"go.trai.ch/pakt/internal/engine/syncer"
	"go.trai.ch/zerr"
)

// App wires the ports and engines behind the collaborator API.
type App struct {
	settings      ports.SourceSettings
	cache         ports.RepositoryCache
	manifests     ports.ManifestStore
	locks         ports.LockfileStore
	scanner       ports.ProjectScanner
	fingerprinter ports.Fingerprinter
	resolver      *resolver.Resolver
	syncer        *syncer.Syncer
	log           ports.Logger
}

// New creates the application.
func New(
	settings ports.SourceSettings,
	cache ports.RepositoryCache,
	manifests ports.ManifestStore,
	locks ports.LockfileStore,
	scanner ports.ProjectScanner,
	fingerprinter ports.Fingerprinter,
	res *resolver.Resolver,
	sync *syncer.Syncer,
	log ports.Logger,
) *App {
	return &App{
		settings:      settings,
		cache:         cache,
		manifests:     manifests,
		locks:         locks,
		scanner:       scanner,
		fingerprinter: fingerprinter,
		resolver:      res,
		syncer:        sync,
		log:           log,
	}
}

// RepositoryStatus pairs a configured source with its cache state.
type RepositoryStatus struct {
	Source   domain.Source
	Cached   bool
	Packages int
}

// ListRepositories returns every configured source with its cached snapshot
// state, ordered by priority descending.
func (a *App) ListRepositories(ctx context.Context) ([]RepositoryStatus, error) {
	sources, err := a.settings.Load()
	if err != nil {
		return nil, err
	}

	statuses := make([]RepositoryStatus, 0, len(sources))
	for _, source := range sources {
		status := RepositoryStatus{Source: source}
		if idx, err := a.cache.LoadCached(source); err == nil {
			status.Cached = true
			status.Packages = len(idx.Packages)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// RefreshRepository fetches a fresh index for one source by id.
func (a *App) RefreshRepository(ctx context.Context, id string) (*domain.RepositoryIndex, error) {
	sources, err := a.settings.Load()
	if err != nil {
		return nil, err
	}
	for _, source := range sources {
		if source.ID == id {
			return a.cache.Refresh(ctx, source)
		}
	}
	return nil, zerr.With(domain.ErrSourceNotFound, "source", id)
}

// RefreshAllRepositories refreshes every enabled source, skipping per-source
// failures, and returns the indices that loaded.
func (a *App) RefreshAllRepositories(ctx context.Context) ([]*domain.RepositoryIndex, error) {
	sources, err := a.settings.Load()
	if err != nil {
		return nil, err
	}
	return a.cache.RefreshAll(ctx, sources), nil
}

// AddDependency declares a direct dependency and resolves. With an empty
// range the highest published version is taken and a caret range derived from
// it. The manifest is only persisted when resolution found no conflicts.
func (a *App) AddDependency(ctx context.Context, projectRoot, name, rangeText string) (*domain.ResolutionPlan, error) {
	return a.addOrUpgrade(ctx, projectRoot, name, rangeText, false)
}

// UpgradeDependency is AddDependency with the locked-version keep preference
// suspended for the named package, so it moves to the highest compatible
// version.
func (a *App) UpgradeDependency(ctx context.Context, projectRoot, name, rangeText string) (*domain.ResolutionPlan, error) {
	return a.addOrUpgrade(ctx, projectRoot, name, rangeText, true)
}

func (a *App) addOrUpgrade(ctx context.Context, projectRoot, name, rangeText string, upgrade bool) (*domain.ResolutionPlan, error) {
	manifest, err := a.manifests.Load(projectRoot)
	if err != nil {
		return nil, err
	}
	repos, err := a.loadRepositories(ctx)
	if err != nil {
		return nil, err
	}

	if rangeText == "" {
		rangeText, err = caretRangeForHighest(repos, name)
		if err != nil {
			return nil, err
		}
	}
	r, err := domain.ParseRange(rangeText)
	if err != nil {
		return nil, err
	}
	manifest.SetDependency(name, r)

	opts := resolver.Options{}
	if upgrade {
		opts.Upgrade = map[string]bool{name: true}
	}
	plan, err := a.resolvePlan(projectRoot, manifest, repos, opts)
	if err != nil {
		return nil, err
	}
	if plan.HasConflicts() {
		return plan, zerr.With(domain.ErrConflict, "package", name)
	}

	if err := a.manifests.Save(projectRoot, manifest); err != nil {
		return nil, err
	}
	return plan, nil
}

// RemoveDependency drops a direct dependency and resolves; packages only
// reachable through it land in the plan's removals.
func (a *App) RemoveDependency(ctx context.Context, projectRoot, name string) (*domain.ResolutionPlan, error) {
	manifest, err := a.manifests.Load(projectRoot)
	if err != nil {
		return nil, err
	}
	if err := manifest.RemoveDependency(name); err != nil {
		return nil, zerr.With(err, "package", name)
	}

	repos, err := a.loadRepositories(ctx)
	if err != nil {
		return nil, err
	}
	plan, err := a.resolvePlan(projectRoot, manifest, repos, resolver.Options{})
	if err != nil {
		return nil, err
	}
	if plan.HasConflicts() {
		return plan, zerr.With(domain.ErrConflict, "package", name)
	}

	if err := a.manifests.Save(projectRoot, manifest); err != nil {
		return nil, err
	}
	return plan, nil
}

// Resolve computes a plan for the manifest as it stands. Conflicts are
// reported in the plan, not as an error; the caller decides what to surface.
func (a *App) Resolve(ctx context.Context, projectRoot string) (*domain.ResolutionPlan, error) {
	manifest, err := a.manifests.Load(projectRoot)
	if err != nil {
		return nil, err
	}
	repos, err := a.loadRepositories(ctx)
	if err != nil {
		return nil, err
	}
	return a.resolvePlan(projectRoot, manifest, repos, resolver.Options{})
}

// Synchronize applies a plan produced by Resolve.
func (a *App) Synchronize(ctx context.Context, projectRoot string, plan *domain.ResolutionPlan) (*domain.SyncReport, error) {
	return a.syncer.Apply(ctx, projectRoot, plan)
}

// SetSyncJobs overrides the synchronizer's per-package parallelism.
func (a *App) SetSyncJobs(jobs int) {
	a.syncer.SetJobs(jobs)
}

// PackageStatus classifies one locked package against disk.
type PackageStatus struct {
	Name    string
	Version domain.Version
	State   PackageState
}

// PackageState is the divergence class of one package.
type PackageState string

const (
	// StateSynced means the directory exists and matches its fingerprint.
	StateSynced PackageState = "synced"
	// StateModified means the directory content diverged from the lockfile.
	StateModified PackageState = "modified"
	// StateMissing means the lockfile names a directory that is gone.
	StateMissing PackageState = "missing"
)

// StatusReport describes lockfile-versus-disk divergence.
type StatusReport struct {
	Packages []PackageStatus
	Unlocked []string
	Engine   domain.EngineVersion
}

// Status compares the lockfile against the packages directory without
// touching the network.
func (a *App) Status(projectRoot string) (*StatusReport, error) {
	lock, err := a.locks.Load(projectRoot)
	if err != nil {
		return nil, err
	}
	state, err := a.scanner.Scan(projectRoot, lock)
	if err != nil {
		return nil, err
	}

	report := &StatusReport{
		Unlocked: state.UnlockedNames(),
		Engine:   state.Engine,
	}
	for _, name := range lock.PackageNames() {
		locked, _ := lock.Get(name)
		status := PackageStatus{Name: name, Version: locked.Version}

		if _, onDisk := state.Installed[name]; !onDisk {
			status.State = StateMissing
		} else if locked.Fingerprint == "" {
			status.State = StateSynced
		} else if fp, err := a.fingerprinter.Fingerprint(domain.PackageDir(projectRoot, name)); err != nil || fp != locked.Fingerprint {
			status.State = StateModified
		} else {
			status.State = StateSynced
		}
		report.Packages = append(report.Packages, status)
	}
	return report, nil
}

// loadRepositories builds the resolver's repository list: every enabled
// source's snapshot, fetched on first use, ordered by priority descending.
func (a *App) loadRepositories(ctx context.Context) ([]resolver.Repository, error) {
	sources, err := a.settings.Load()
	if err != nil {
		return nil, err
	}

	repos := make([]resolver.Repository, 0, len(sources))
	for _, source := range sources {
		if !source.Enabled {
			continue
		}
		idx, err := a.cache.LoadCached(source)
		if errors.Is(err, domain.ErrCacheMiss) {
			idx, err = a.cache.Refresh(ctx, source)
		}
		if err != nil {
			if a.log != nil {
				a.log.Warn(fmt.Sprintf("skipping repository %s: %v", source.ID, err))
			}
			continue
		}
		repos = append(repos, resolver.Repository{Index: idx, Priority: source.Priority})
	}
	return repos, nil
}

func (a *App) resolvePlan(projectRoot string, manifest *domain.ProjectManifest, repos []resolver.Repository, opts resolver.Options) (*domain.ResolutionPlan, error) {
	lock, err := a.locks.Load(projectRoot)
	if err != nil {
		return nil, err
	}
	state, err := a.scanner.Scan(projectRoot, lock)
	if err != nil {
		return nil, err
	}

	return a.resolver.ResolveWith(resolver.Inputs{
		Manifest:     manifest,
		Lockfile:     lock,
		Repositories: repos,
		State:        state,
	}, opts)
}

// caretRangeForHighest derives "^<highest published version>" for a package,
// mirroring what a user means by "add the package". Deprecated and prerelease
// versions are passed over so the derived range cannot exclude every
// installable candidate; when nothing else is published the highest version
// is taken as-is.
func caretRangeForHighest(repos []resolver.Repository, name string) (string, error) {
	for _, repo := range repos {
		versions := repo.Index.Versions(name)
		if len(versions) == 0 {
			continue
		}
		for _, entry := range versions {
			if entry.Deprecated || entry.Version.IsPrerelease() {
				continue
			}
			return "^" + entry.Version.String(), nil
		}
		return "^" + versions[0].Version.String(), nil
	}
	return "", zerr.With(domain.ErrDependencyNotFound, "package", name)
}

// ProjectRoot returns the working directory as the project root. Kept as a
// seam so commands stay trivially testable.
func ProjectRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", zerr.Wrap(domain.ErrFilesystem, err.Error())
	}
	return cwd, nil
}
