package domain

import (
	"slices"
	"strings"
)

// ProjectManifest holds the project's declared direct dependencies and its
// target engine version. Only explicit user-intent operations mutate it.
type ProjectManifest struct {
	// Dependencies maps direct dependency names to their declared ranges.
	Dependencies map[string]Range

	// Engine is the project's target engine version. Zero when the project
	// has not declared one.
	Engine EngineVersion
}

// NewProjectManifest returns an empty manifest.
func NewProjectManifest() *ProjectManifest {
	return &ProjectManifest{Dependencies: make(map[string]Range)}
}

// SetDependency declares or replaces a direct dependency.
func (m *ProjectManifest) SetDependency(name string, r Range) {
	if m.Dependencies == nil {
		m.Dependencies = make(map[string]Range)
	}
	m.Dependencies[name] = r
}

// RemoveDependency drops a direct dependency. Returns
// ErrDependencyNotDeclared when the manifest does not declare it.
func (m *ProjectManifest) RemoveDependency(name string) error {
	if _, ok := m.Dependencies[name]; !ok {
		return ErrDependencyNotDeclared
	}
	delete(m.Dependencies, name)
	return nil
}

// DependencyNames returns the declared dependency names, sorted.
func (m *ProjectManifest) DependencyNames() []string {
	names := make([]string, 0, len(m.Dependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	slices.SortFunc(names, strings.Compare)
	return names
}
