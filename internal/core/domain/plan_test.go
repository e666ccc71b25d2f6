package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/pakt/internal/core/domain"
)

func entry(name, version string) domain.PackageInfo {
	return domain.PackageInfo{
		Name:     domain.NewInternedString(name),
		Version:  domain.MustVersion(version),
		SourceID: "main",
	}
}

func TestResolutionPlan_IDIsOrderIndependent(t *testing.T) {
	a := &domain.ResolutionPlan{
		ToInstall: []domain.PackageInfo{entry("com.acme.a", "1.0.0"), entry("com.acme.b", "2.0.0")},
		ToRemove:  []string{"com.acme.x", "com.acme.y"},
	}
	b := &domain.ResolutionPlan{
		ToInstall: []domain.PackageInfo{entry("com.acme.b", "2.0.0"), entry("com.acme.a", "1.0.0")},
		ToRemove:  []string{"com.acme.y", "com.acme.x"},
	}

	assert.Equal(t, a.ID(), b.ID())
}

func TestResolutionPlan_IDChangesWithContent(t *testing.T) {
	a := &domain.ResolutionPlan{ToInstall: []domain.PackageInfo{entry("com.acme.a", "1.0.0")}}
	b := &domain.ResolutionPlan{ToInstall: []domain.PackageInfo{entry("com.acme.a", "1.0.1")}}

	assert.NotEqual(t, a.ID(), b.ID())
}

func TestResolutionPlan_IsNoop(t *testing.T) {
	assert.True(t, (&domain.ResolutionPlan{}).IsNoop())
	assert.False(t, (&domain.ResolutionPlan{ToRemove: []string{"x"}}).IsNoop())
	assert.False(t, (&domain.ResolutionPlan{
		Conflicts: []domain.Conflict{{Package: "x", Reason: domain.ErrConflict}},
	}).IsNoop())
}

func TestLockfile_Accessors(t *testing.T) {
	l := domain.NewLockfile()
	assert.Equal(t, domain.LockfileFormatVersion, l.Version)

	l.Set("com.acme.b", domain.LockedPackage{Version: domain.MustVersion("1.0.0")})
	l.Set("com.acme.a", domain.LockedPackage{Version: domain.MustVersion("2.0.0")})

	assert.Equal(t, []string{"com.acme.a", "com.acme.b"}, l.PackageNames())

	got, ok := l.Get("com.acme.a")
	assert.True(t, ok)
	assert.Equal(t, "2.0.0", got.Version.String())

	l.Remove("com.acme.a")
	_, ok = l.Get("com.acme.a")
	assert.False(t, ok)
}

func TestManifest_Dependencies(t *testing.T) {
	m := domain.NewProjectManifest()
	m.SetDependency("com.acme.b", domain.MustRange("^1.0.0"))
	m.SetDependency("com.acme.a", domain.MustRange(">=2.0.0"))

	assert.Equal(t, []string{"com.acme.a", "com.acme.b"}, m.DependencyNames())

	assert.NoError(t, m.RemoveDependency("com.acme.a"))
	assert.ErrorIs(t, m.RemoveDependency("com.acme.a"), domain.ErrDependencyNotDeclared)
}

func TestRepositoryIndex_SortsVersionsDescending(t *testing.T) {
	idx := domain.NewRepositoryIndex("main", "Main", []domain.PackageInfo{
		entry("com.acme.a", "1.0.0"),
		entry("com.acme.a", "2.0.0"),
		entry("com.acme.a", "1.5.0"),
		entry("com.acme.b", "0.1.0"),
	})

	versions := idx.Versions("com.acme.a")
	assert.Len(t, versions, 3)
	assert.Equal(t, "2.0.0", versions[0].Version.String())
	assert.Equal(t, "1.5.0", versions[1].Version.String())
	assert.Equal(t, "1.0.0", versions[2].Version.String())

	assert.Equal(t, []string{"com.acme.a", "com.acme.b"}, idx.PackageNames())
	assert.Nil(t, idx.Versions("com.acme.missing"))
}
