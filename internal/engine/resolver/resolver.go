// Package resolver computes an installable dependency closure from the
// project manifest, the configured repositories and the lockfile. Resolution
// is a pure function of its inputs: no network, no filesystem, and the same
// inputs always produce the same plan.
package resolver

import (
	"slices"
	"strings"

	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/pakt/internal/core/ports"
	"go.trai.ch/zerr"
)

// maxIterations bounds the requirement-expansion loop. Dependency cycles are
// legal, so traversal is a worklist with a cap rather than recursion.
const maxIterations = 10_000

// Repository pairs an index snapshot with the priority of its source.
type Repository struct {
	Index    *domain.RepositoryIndex
	Priority int
}

// Inputs are everything a resolution pass reads.
type Inputs struct {
	Manifest *domain.ProjectManifest
	Lockfile *domain.Lockfile

	// Repositories must be ordered by priority descending. When two carry
	// the same package name at the same priority, the already-locked source
	// wins.
	Repositories []Repository

	// State is the on-disk scan; optional. Unlocked package directories pin
	// their own version and contribute their dependency ranges.
	State *domain.ProjectState
}

// Options tune one resolution pass.
type Options struct {
	// Upgrade suspends the locked-version keep preference for the named
	// packages, letting them move to the highest compatible version.
	Upgrade map[string]bool
}

// Resolver computes resolution plans.
type Resolver struct {
	log ports.Logger
}

// New creates a resolver.
func New(log ports.Logger) *Resolver {
	return &Resolver{log: log}
}

// selection is one picked version and where it came from.
type selection struct {
	pkg domain.PackageInfo

	// fromLock marks a version synthesized from the lockfile because no
	// index carries it anymore. Installable only if already on disk.
	fromLock bool

	// pinned marks an unlocked on-disk package whose version is fixed.
	pinned bool
}

type state struct {
	in       Inputs
	opts     Options
	engine   domain.EngineVersion
	pinned   map[string]domain.InstalledPackage
	reqs     map[string]map[string]domain.Range // target -> requirer -> range
	selected map[string]selection
	conflict map[string]*domain.Conflict
	log      ports.Logger
}

// Resolve runs the greedy highest-compatible-version strategy. Unsatisfiable
// requirements land in the plan's Conflicts with their full requirer chain;
// only the iteration cap produces an error.
func (r *Resolver) Resolve(in Inputs) (*domain.ResolutionPlan, error) {
	return r.ResolveWith(in, Options{})
}

// ResolveWith is Resolve with explicit options.
func (r *Resolver) ResolveWith(in Inputs, opts Options) (*domain.ResolutionPlan, error) {
	s := &state{
		in:       in,
		opts:     opts,
		pinned:   make(map[string]domain.InstalledPackage),
		reqs:     make(map[string]map[string]domain.Range),
		selected: make(map[string]selection),
		conflict: make(map[string]*domain.Conflict),
		log:      r.log,
	}

	s.engine = in.Manifest.Engine
	if s.engine.IsZero() && in.State != nil {
		s.engine = in.State.Engine
	}

	if in.State != nil {
		for _, pkg := range in.State.Unlocked {
			if pkg.Name != "" && !pkg.Version.IsZero() {
				s.pinned[pkg.Name] = pkg
			}
		}
	}

	// Seed requirements: the manifest's direct dependencies, then the
	// dependency ranges of user-dropped unlocked packages so installs stay
	// compatible with them.
	dirty := newWorklist()
	for _, name := range in.Manifest.DependencyNames() {
		s.setRequirement(name, "", in.Manifest.Dependencies[name], dirty)
	}
	for _, requirer := range sortedKeys(s.pinned) {
		pkg := s.pinned[requirer]
		for _, dep := range sortedKeys(pkg.Dependencies) {
			s.setRequirement(dep, requirer, pkg.Dependencies[dep], dirty)
		}
	}

	for i := 0; !dirty.empty(); i++ {
		if i >= maxIterations {
			return nil, zerr.With(domain.ErrIncompletePlan, "iterations", i)
		}
		s.pick(dirty.pop(), dirty)
	}

	return s.buildPlan(), nil
}

// setRequirement records or replaces requirer's range on target and requeues
// the target when the constraint actually changed.
func (s *state) setRequirement(target, requirer string, r domain.Range, dirty *worklist) {
	byRequirer, ok := s.reqs[target]
	if !ok {
		byRequirer = make(map[string]domain.Range)
		s.reqs[target] = byRequirer
	}
	if existing, ok := byRequirer[requirer]; ok && existing.String() == r.String() {
		return
	}
	byRequirer[requirer] = r
	dirty.push(target)
}

// dropRequirementsBy removes every range attributed to requirer, requeueing
// targets whose constraint set changed. Used when a requirer is re-picked at
// a different version.
func (s *state) dropRequirementsBy(requirer string, dirty *worklist) {
	for target, byRequirer := range s.reqs {
		if _, ok := byRequirer[requirer]; ok {
			delete(byRequirer, requirer)
			dirty.push(target)
		}
	}
}

// pick selects a version for name against its accumulated requirements.
func (s *state) pick(name string, dirty *worklist) {
	delete(s.conflict, name)

	byRequirer := s.reqs[name]
	if len(byRequirer) == 0 {
		// No requirer left; the package fell out of the closure.
		s.unselect(name, dirty)
		return
	}
	ranges := make([]domain.Range, 0, len(byRequirer))
	for _, r := range byRequirer {
		ranges = append(ranges, r)
	}

	// Unlocked on-disk packages are pinned: the user owns the directory, so
	// the pinned version either satisfies everyone or the closure fails.
	if pinnedPkg, ok := s.pinned[name]; ok {
		if satisfiesAll(pinnedPkg.Version, ranges) {
			s.applySelection(name, selection{
				pkg: domain.PackageInfo{
					Name:         domain.NewInternedString(name),
					Version:      pinnedPkg.Version,
					Dependencies: pinnedPkg.Dependencies,
				},
				pinned: true,
			}, dirty)
			return
		}
		s.fail(name, domain.ErrConflict, dirty)
		return
	}

	// Locked keep preference: a locked version that still satisfies every
	// range is kept to minimize churn, unless an upgrade was requested.
	if locked, ok := s.in.Lockfile.Get(name); ok && !s.opts.Upgrade[name] {
		if sel, ok := s.lockedSelection(name, locked, ranges); ok {
			s.applySelection(name, sel, dirty)
			return
		}
	}

	candidates := s.candidatesFor(name)
	if len(candidates) == 0 {
		s.fail(name, domain.ErrDependencyNotFound, dirty)
		return
	}

	pkg, reason := chooseCandidate(candidates, ranges, s.engine)
	if reason != nil {
		s.fail(name, reason, dirty)
		return
	}
	s.applySelection(name, selection{pkg: pkg}, dirty)
}

// lockedSelection tries to keep the locked version. Preference order: the
// live index entry for the exact locked version (it carries URL and engine
// range), falling back to a synthetic entry from the lockfile so resolution
// still works when the version was unpublished.
func (s *state) lockedSelection(name string, locked domain.LockedPackage, ranges []domain.Range) (selection, bool) {
	if !satisfiesAll(locked.Version, ranges) {
		return selection{}, false
	}

	for _, c := range s.candidatesFor(name) {
		if !c.Version.ExactEqual(locked.Version) {
			continue
		}
		if !c.Engine.IsAny() && !c.Engine.Allows(s.engine) {
			return selection{}, false
		}
		return selection{pkg: c}, true
	}

	return selection{
		pkg: domain.PackageInfo{
			Name:         domain.NewInternedString(name),
			Version:      locked.Version,
			Dependencies: locked.Dependencies,
			SourceID:     locked.SourceID,
		},
		fromLock: true,
	}, true
}

// candidatesFor returns the version list of the winning repository for the
// name: highest priority carrying it, ties broken toward the locked source.
func (s *state) candidatesFor(name string) []domain.PackageInfo {
	lockedSource := ""
	if locked, ok := s.in.Lockfile.Get(name); ok {
		lockedSource = locked.SourceID
	}

	var best []domain.PackageInfo
	bestPriority := 0
	for _, repo := range s.in.Repositories {
		versions := repo.Index.Versions(name)
		if len(versions) == 0 {
			continue
		}
		if best == nil {
			best, bestPriority = versions, repo.Priority
			continue
		}
		if repo.Priority == bestPriority && repo.Index.SourceID == lockedSource && best[0].SourceID != lockedSource {
			best = versions
		}
	}
	return best
}

// chooseCandidate walks the version-descending candidate list and returns the
// highest version satisfying every range and the engine gate. Deprecated
// entries only win when nothing else does.
func chooseCandidate(candidates []domain.PackageInfo, ranges []domain.Range, engine domain.EngineVersion) (domain.PackageInfo, error) {
	var deprecated *domain.PackageInfo
	engineBlocked := false

	for i, c := range candidates {
		if !satisfiesAll(c.Version, ranges) {
			continue
		}
		if !c.Engine.Allows(engine) {
			engineBlocked = true
			continue
		}
		if c.Deprecated {
			if deprecated == nil {
				deprecated = &candidates[i]
			}
			continue
		}
		return c, nil
	}

	if deprecated != nil {
		return *deprecated, nil
	}
	if engineBlocked {
		return domain.PackageInfo{}, domain.ErrEngineIncompatible
	}
	return domain.PackageInfo{}, domain.ErrConflict
}

// applySelection installs the pick and propagates its dependency ranges.
func (s *state) applySelection(name string, sel selection, dirty *worklist) {
	prev, had := s.selected[name]
	if had && prev.pkg.Version.ExactEqual(sel.pkg.Version) && prev.pkg.SourceID == sel.pkg.SourceID {
		return
	}

	if had {
		s.dropRequirementsBy(name, dirty)
	}
	s.selected[name] = sel

	for _, dep := range sortedKeys(sel.pkg.Dependencies) {
		s.setRequirement(dep, name, sel.pkg.Dependencies[dep], dirty)
	}
}

// unselect drops a package that is no longer required by anyone.
func (s *state) unselect(name string, dirty *worklist) {
	if _, ok := s.selected[name]; !ok {
		return
	}
	delete(s.selected, name)
	s.dropRequirementsBy(name, dirty)
}

// fail records a conflict with the full requirer chain and retracts any
// requirements its previous selection contributed.
func (s *state) fail(name string, reason error, dirty *worklist) {
	byRequirer := s.reqs[name]
	requirements := make([]domain.Requirement, 0, len(byRequirer))
	for _, requirer := range sortedKeys(byRequirer) {
		requirements = append(requirements, domain.Requirement{
			Requirer: requirer,
			Range:    byRequirer[requirer],
		})
	}
	s.conflict[name] = &domain.Conflict{
		Package:      name,
		Requirements: requirements,
		Reason:       reason,
	}
	if _, had := s.selected[name]; had {
		delete(s.selected, name)
		if dirty != nil {
			s.dropRequirementsBy(name, dirty)
		}
	}
}

// buildPlan diffs the final closure against lockfile and disk.
func (s *state) buildPlan() *domain.ResolutionPlan {
	graph := domain.NewDependencyGraph()
	for name, sel := range s.selected {
		graph.AddNode(name)
		for dep := range sel.pkg.Dependencies {
			graph.AddEdge(name, dep)
		}
	}

	// The closure is what is reachable from the manifest and from pinned
	// unlocked packages; anything else selected along the way is garbage.
	reachable := make(map[string]bool)
	var visit func(name string)
	visit = func(name string) {
		if reachable[name] {
			return
		}
		if _, ok := s.selected[name]; !ok {
			return
		}
		reachable[name] = true
		for _, dep := range graph.Dependencies(name) {
			visit(dep)
		}
	}
	for _, name := range s.in.Manifest.DependencyNames() {
		visit(name)
	}
	for _, name := range sortedKeys(s.pinned) {
		visit(name)
	}

	plan := &domain.ResolutionPlan{Locked: make(map[string]domain.PackageInfo)}

	for _, name := range sortedKeys(s.selected) {
		if !reachable[name] {
			continue
		}
		sel := s.selected[name]
		if sel.pinned {
			continue
		}
		plan.Locked[name] = sel.pkg

		if s.alreadyInstalled(name, sel) {
			continue
		}
		if sel.fromLock {
			// Locked version, gone from every index, and not on disk:
			// there is nothing to download it from.
			s.fail(name, domain.ErrDependencyNotFound, nil)
			delete(plan.Locked, name)
			continue
		}
		plan.ToInstall = append(plan.ToInstall, sel.pkg)
	}

	for _, name := range s.in.Lockfile.PackageNames() {
		if _, ok := plan.Locked[name]; !ok {
			if _, conflicted := s.conflict[name]; conflicted {
				continue
			}
			plan.ToRemove = append(plan.ToRemove, name)
		}
	}

	for _, name := range sortedKeys(s.conflict) {
		if len(s.reqs[name]) == 0 {
			continue
		}
		plan.Conflicts = append(plan.Conflicts, *s.conflict[name])
	}

	return plan
}

// alreadyInstalled reports whether the selected version is on disk at the
// locked version, making installation unnecessary.
func (s *state) alreadyInstalled(name string, sel selection) bool {
	locked, ok := s.in.Lockfile.Get(name)
	if !ok || !locked.Version.ExactEqual(sel.pkg.Version) {
		return false
	}
	if s.in.State == nil {
		// Without a disk scan the lockfile is trusted as-is.
		return true
	}
	_, present := s.in.State.Installed[name]
	return present
}

func satisfiesAll(v domain.Version, ranges []domain.Range) bool {
	for _, r := range ranges {
		if !r.SatisfiedBy(v) {
			return false
		}
	}
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, strings.Compare)
	return keys
}

// worklist is a deterministic set-queue: pop always returns the smallest
// pending name, so resolution order never depends on map iteration.
type worklist struct {
	pending map[string]bool
}

func newWorklist() *worklist {
	return &worklist{pending: make(map[string]bool)}
}

func (w *worklist) push(name string) {
	w.pending[name] = true
}

func (w *worklist) empty() bool {
	return len(w.pending) == 0
}

func (w *worklist) pop() string {
	names := sortedKeys(w.pending)
	name := names[0]
	delete(w.pending, name)
	return name
}
