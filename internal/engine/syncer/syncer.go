// Package syncer applies a resolution plan to the project's packages
// directory: downloads, verifies and extracts additions, removes obsolete
// directories, and rewrites the lockfile from what actually landed on disk.
package syncer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/pakt/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultJobs is the per-package parallelism when the caller does not choose.
const DefaultJobs = 4

// Syncer reconciles disk state with a resolution plan.
type Syncer struct {
	downloader    ports.Downloader
	extractor     ports.Extractor
	lockStore     ports.LockfileStore
	fingerprinter ports.Fingerprinter
	telemetry     ports.Telemetry
	log           ports.Logger
	jobs          int
}

// New creates a syncer. jobs caps concurrent package operations; values < 1
// fall back to DefaultJobs.
func New(
	downloader ports.Downloader,
	extractor ports.Extractor,
	lockStore ports.LockfileStore,
	fingerprinter ports.Fingerprinter,
	telemetry ports.Telemetry,
	log ports.Logger,
	jobs int,
) *Syncer {
	if jobs < 1 {
		jobs = DefaultJobs
	}
	return &Syncer{
		downloader:    downloader,
		extractor:     extractor,
		lockStore:     lockStore,
		fingerprinter: fingerprinter,
		telemetry:     telemetry,
		log:           log,
		jobs:          jobs,
	}
}

// SetJobs overrides the concurrency cap. Values < 1 reset to DefaultJobs.
// Not safe to call concurrently with Apply.
func (s *Syncer) SetJobs(jobs int) {
	if jobs < 1 {
		jobs = DefaultJobs
	}
	s.jobs = jobs
}

// Apply executes the plan against projectRoot. A plan with conflicts is
// rejected before any filesystem mutation. Per-package failures never abort
// sibling packages; they land in the report. The lockfile is rewritten once,
// after every job settles, from the directories actually present.
func (s *Syncer) Apply(ctx context.Context, projectRoot string, plan *domain.ResolutionPlan) (*domain.SyncReport, error) {
	if plan.HasConflicts() {
		return nil, zerr.With(domain.ErrIncompletePlan, "conflicts", len(plan.Conflicts))
	}
	if plan.IsNoop() {
		// Disk and lockfile stay byte-unchanged.
		return &domain.SyncReport{}, nil
	}

	unlock, err := s.acquireLock(projectRoot)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if err := os.MkdirAll(domain.PackagesDir(projectRoot), domain.DirPerm); err != nil {
		return nil, zerr.Wrap(domain.ErrFilesystem, err.Error())
	}

	report := &domain.SyncReport{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.jobs)

	for _, name := range plan.ToRemove {
		g.Go(func() error {
			err := os.RemoveAll(domain.PackageDir(projectRoot, name))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed = append(report.Failed, domain.PackageFailure{
					Package: name,
					Err:     zerr.Wrap(domain.ErrFilesystem, err.Error()),
				})
				return nil
			}
			report.Removed = append(report.Removed, name)
			return nil
		})
	}

	for _, pkg := range plan.ToInstall {
		g.Go(func() error {
			err := s.installOne(gctx, projectRoot, pkg)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed = append(report.Failed, domain.PackageFailure{
					Package: pkg.Name.String(),
					Err:     err,
				})
				if s.log != nil {
					s.log.Error(zerr.With(err, "package", pkg.ID()))
				}
				return nil
			}
			report.Installed = append(report.Installed, pkg.Name.String())
			return nil
		})
	}

	_ = g.Wait()

	if err := s.rewriteLockfile(projectRoot, plan, report); err != nil {
		return report, err
	}
	sortReport(report)
	return report, nil
}

// acquireLock enforces the single-writer rule with an exclusive lock file at
// the project root.
func (s *Syncer) acquireLock(projectRoot string) (func(), error) {
	lockPath := filepath.Join(projectRoot, domain.SyncLockFileName)
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, domain.FilePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, zerr.With(domain.ErrSyncInProgress, "lock_file", lockPath)
		}
		return nil, zerr.Wrap(domain.ErrFilesystem, err.Error())
	}
	_, _ = fmt.Fprintf(f, "%d\n", os.Getpid())
	_ = f.Close()

	return func() {
		_ = os.Remove(lockPath)
	}, nil
}

// installOne downloads, verifies, extracts to a staging directory and renames
// it into place. The target directory is only ever replaced whole.
func (s *Syncer) installOne(ctx context.Context, projectRoot string, pkg domain.PackageInfo) error {
	vctx, vertex := s.record(ctx, "install "+pkg.ID())
	err := s.installStaged(vctx, projectRoot, pkg, vertex)
	vertex.Complete(err)
	return err
}

func (s *Syncer) installStaged(ctx context.Context, projectRoot string, pkg domain.PackageInfo, vertex ports.Vertex) error {
	archive, err := os.CreateTemp("", "pakt-download-*")
	if err != nil {
		return zerr.Wrap(domain.ErrFilesystem, err.Error())
	}
	archivePath := archive.Name()
	_ = archive.Close()
	defer os.Remove(archivePath)

	vertex.Log("downloading " + pkg.URL)
	if err := s.downloader.Download(ctx, pkg.URL, archivePath); err != nil {
		return err
	}

	if pkg.Checksum != "" {
		if err := verifyChecksum(archivePath, pkg.Checksum); err != nil {
			return err
		}
	}

	staging, err := os.MkdirTemp(domain.PackagesDir(projectRoot), domain.StagingPrefix+"*")
	if err != nil {
		return zerr.Wrap(domain.ErrFilesystem, err.Error())
	}
	defer os.RemoveAll(staging)

	vertex.Log("extracting")
	if _, err := s.extractor.Extract(ctx, archivePath, staging); err != nil {
		return err
	}

	return swapDir(staging, domain.PackageDir(projectRoot, pkg.Name.String()))
}

// swapDir renames staging over target near-atomically: the old directory is
// moved aside first so a crash leaves either the old or the new content, never
// a mix.
func swapDir(staging, target string) error {
	aside := target + ".old"
	_ = os.RemoveAll(aside)

	hadOld := true
	if err := os.Rename(target, aside); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return zerr.Wrap(domain.ErrFilesystem, err.Error())
		}
		hadOld = false
	}

	if err := os.Rename(staging, target); err != nil {
		if hadOld {
			_ = os.Rename(aside, target)
		}
		return zerr.Wrap(domain.ErrFilesystem, err.Error())
	}

	if hadOld {
		_ = os.RemoveAll(aside)
	}
	return nil
}

func verifyChecksum(path, want string) error {
	f, err := os.Open(path)
	if err != nil {
		return zerr.Wrap(domain.ErrFilesystem, err.Error())
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return zerr.Wrap(domain.ErrFilesystem, err.Error())
	}

	got := hex.EncodeToString(h.Sum(nil))
	if !strings.EqualFold(got, want) {
		err := zerr.With(domain.ErrChecksumMismatch, "want", strings.ToLower(want))
		return zerr.With(err, "got", got)
	}
	return nil
}

// rewriteLockfile records exactly the plan entries whose directory is present
// after the run. A package that failed mid-install is simply absent, and a
// removal that failed keeps its previous entry, so the lockfile matches disk
// even for partial applications.
func (s *Syncer) rewriteLockfile(projectRoot string, plan *domain.ResolutionPlan, report *domain.SyncReport) error {
	prior, err := s.lockStore.Load(projectRoot)
	if err != nil {
		return err
	}
	failed := make(map[string]bool, len(report.Failed))
	for _, f := range report.Failed {
		failed[f.Package] = true
	}
	lock := domain.NewLockfile()

	for name, pkg := range plan.Locked {
		dir := domain.PackageDir(projectRoot, name)
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}

		// A failed install leaves the previous content in place; the plan's
		// entry would lie about what the directory holds.
		if failed[name] {
			if entry, ok := prior.Get(name); ok {
				lock.Set(name, entry)
			}
			continue
		}

		fingerprint, err := s.fingerprinter.Fingerprint(dir)
		if err != nil {
			report.Failed = append(report.Failed, domain.PackageFailure{Package: name, Err: err})
			continue
		}

		lock.Set(name, domain.LockedPackage{
			Version:      pkg.Version,
			Dependencies: pkg.Dependencies,
			SourceID:     pkg.SourceID,
			Fingerprint:  fingerprint,
		})
	}

	for _, name := range plan.ToRemove {
		info, err := os.Stat(domain.PackageDir(projectRoot, name))
		if err != nil || !info.IsDir() {
			continue
		}
		if entry, ok := prior.Get(name); ok {
			lock.Set(name, entry)
		}
	}

	return s.lockStore.Save(projectRoot, lock)
}

func (s *Syncer) record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	if s.telemetry == nil {
		return ctx, noopVertex{}
	}
	return s.telemetry.Record(ctx, name)
}

func sortReport(r *domain.SyncReport) {
	slices.SortFunc(r.Installed, strings.Compare)
	slices.SortFunc(r.Removed, strings.Compare)
	slices.SortFunc(r.Failed, func(a, b domain.PackageFailure) int {
		return strings.Compare(a.Package, b.Package)
	})
}

type noopVertex struct{}

func (noopVertex) Log(string)     {}
func (noopVertex) Cached()        {}
func (noopVertex) Complete(error) {}
