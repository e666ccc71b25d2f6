package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/pakt/internal/core/ports"
	"go.trai.ch/zerr"
)

// engineVersionFile is the project settings file carrying the editor version.
const engineVersionFile = "ProjectVersion.txt"

// Scanner implements ports.ProjectScanner.
type Scanner struct {
	log ports.Logger
}

// NewScanner creates a project scanner.
func NewScanner(log ports.Logger) *Scanner {
	return &Scanner{log: log}
}

// embeddedManifest is the package.json each extracted package carries.
type embeddedManifest struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Dependencies map[string]string `json:"dependencies"`
}

// Scan walks the packages directory and classifies each package directory as
// locked (named in lock) or unlocked (dropped there by the user). Staging
// leftovers are ignored. The engine version is probed from project settings.
func (s *Scanner) Scan(projectRoot string, lock *domain.Lockfile) (*domain.ProjectState, error) {
	state := &domain.ProjectState{
		Installed: make(map[string]domain.InstalledPackage),
	}

	entries, err := os.ReadDir(domain.PackagesDir(projectRoot))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.Wrap(domain.ErrFilesystem, err.Error())
		}
		entries = nil
	}

	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), domain.StagingPrefix) {
			continue
		}

		pkg := s.readPackageDir(filepath.Join(domain.PackagesDir(projectRoot), entry.Name()), entry.Name())
		if _, locked := lock.Get(entry.Name()); locked {
			state.Installed[entry.Name()] = pkg
		} else {
			state.Unlocked = append(state.Unlocked, pkg)
		}
	}

	state.Engine = s.probeEngine(projectRoot)
	return state, nil
}

// readPackageDir parses the directory's embedded package.json. A directory
// without a readable manifest still counts as present; it just carries no
// version or dependencies.
func (s *Scanner) readPackageDir(dir, dirName string) domain.InstalledPackage {
	pkg := domain.InstalledPackage{DirName: dirName}

	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return pkg
	}
	var em embeddedManifest
	if err := json.Unmarshal(data, &em); err != nil {
		if s.log != nil {
			s.log.Warn(fmt.Sprintf("unreadable package.json in %s: %v", dirName, err))
		}
		return pkg
	}

	pkg.Name = em.Name
	if v, err := domain.ParseVersion(em.Version); err == nil {
		pkg.Version = v
	}
	if len(em.Dependencies) > 0 {
		pkg.Dependencies = make(map[string]domain.Range, len(em.Dependencies))
		for name, rangeText := range em.Dependencies {
			r, err := domain.ParseRange(rangeText)
			if err != nil {
				continue
			}
			pkg.Dependencies[name] = r
		}
	}
	return pkg
}

// probeEngine reads ProjectSettings/ProjectVersion.txt and extracts the
// m_EditorVersion line. Absence is not an error; the manifest may pin the
// engine instead.
func (s *Scanner) probeEngine(projectRoot string) domain.EngineVersion {
	data, err := os.ReadFile(filepath.Join(projectRoot, "ProjectSettings", engineVersionFile))
	if err != nil {
		return domain.EngineVersion{}
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		text, found := strings.CutPrefix(line, "m_EditorVersion:")
		if !found {
			continue
		}
		v, err := domain.ParseEngineVersion(strings.TrimSpace(text))
		if err != nil {
			if s.log != nil {
				s.log.Warn(fmt.Sprintf("unparseable editor version %q: %v", strings.TrimSpace(text), err))
			}
			return domain.EngineVersion{}
		}
		return v
	}
	return domain.EngineVersion{}
}
