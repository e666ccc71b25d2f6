package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/pakt/internal/adapters/project"
	"go.trai.ch/pakt/internal/core/domain"
)

func writePackageDir(t *testing.T, root, dirName, manifest string) {
	t.Helper()
	dir := filepath.Join(domain.PackagesDir(root), dirName)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	if manifest != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(manifest), 0o644))
	}
}

func TestScan_ClassifiesLockedAndUnlocked(t *testing.T) {
	root := t.TempDir()
	writePackageDir(t, root, "com.acme.toolkit", `{"name":"com.acme.toolkit","version":"1.5.0","dependencies":{"com.acme.base":"^1.0.0"}}`)
	writePackageDir(t, root, "com.acme.base", `{"name":"com.acme.base","version":"1.2.0"}`)
	writePackageDir(t, root, "com.user.dropin", `{"name":"com.user.dropin","version":"0.3.0","dependencies":{"com.acme.base":"^1.0.0"}}`)

	lock := domain.NewLockfile()
	lock.Set("com.acme.toolkit", domain.LockedPackage{Version: domain.MustVersion("1.5.0")})
	lock.Set("com.acme.base", domain.LockedPackage{Version: domain.MustVersion("1.2.0")})

	state, err := project.NewScanner(nil).Scan(root, lock)
	require.NoError(t, err)

	assert.Equal(t, []string{"com.acme.base", "com.acme.toolkit"}, state.InstalledNames())
	assert.Equal(t, []string{"com.user.dropin"}, state.UnlockedNames())

	installed := state.Installed["com.acme.toolkit"]
	assert.Equal(t, "1.5.0", installed.Version.String())
	assert.Contains(t, installed.Dependencies, "com.acme.base")
}

func TestScan_IgnoresStagingLeftoversAndFiles(t *testing.T) {
	root := t.TempDir()
	writePackageDir(t, root, "com.acme.base", `{"name":"com.acme.base","version":"1.0.0"}`)
	writePackageDir(t, root, domain.StagingPrefix+"abc123", `{"name":"com.acme.base"}`)
	require.NoError(t, os.WriteFile(filepath.Join(domain.PackagesDir(root), "stray.txt"), []byte("x"), 0o644))

	state, err := project.NewScanner(nil).Scan(root, domain.NewLockfile())
	require.NoError(t, err)

	assert.Empty(t, state.InstalledNames())
	assert.Equal(t, []string{"com.acme.base"}, state.UnlockedNames())
}

func TestScan_MissingPackagesDir(t *testing.T) {
	state, err := project.NewScanner(nil).Scan(t.TempDir(), domain.NewLockfile())
	require.NoError(t, err)
	assert.Empty(t, state.InstalledNames())
	assert.Empty(t, state.Unlocked)
}

func TestScan_ProbesEngineVersion(t *testing.T) {
	root := t.TempDir()
	settings := filepath.Join(root, "ProjectSettings")
	require.NoError(t, os.MkdirAll(settings, 0o755))
	doc := "m_EditorVersion: 2022.3.22f1\nm_EditorVersionWithRevision: 2022.3.22f1 (887be4894c44)\n"
	require.NoError(t, os.WriteFile(filepath.Join(settings, "ProjectVersion.txt"), []byte(doc), 0o644))

	state, err := project.NewScanner(nil).Scan(root, domain.NewLockfile())
	require.NoError(t, err)
	assert.Equal(t, "2022.3.22f1", state.Engine.String())
}

func TestScan_DirWithoutManifestStillCounts(t *testing.T) {
	root := t.TempDir()
	writePackageDir(t, root, "com.acme.opaque", "")

	lock := domain.NewLockfile()
	lock.Set("com.acme.opaque", domain.LockedPackage{Version: domain.MustVersion("2.0.0")})

	state, err := project.NewScanner(nil).Scan(root, lock)
	require.NoError(t, err)

	installed, ok := state.Installed["com.acme.opaque"]
	require.True(t, ok)
	assert.True(t, installed.Version.IsZero())
}

func TestFingerprint_DeterministicAndContentSensitive(t *testing.T) {
	mkTree := func(t *testing.T, readme string) string {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "Editor"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name":"p"}`), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "Editor", "README.md"), []byte(readme), 0o644))
		return dir
	}

	fp := project.NewFingerprinter()

	a, err := fp.Fingerprint(mkTree(t, "hello"))
	require.NoError(t, err)
	b, err := fp.Fingerprint(mkTree(t, "hello"))
	require.NoError(t, err)
	assert.Equal(t, a, b, "identical trees must fingerprint identically")

	c, err := fp.Fingerprint(mkTree(t, "changed"))
	require.NoError(t, err)
	assert.NotEqual(t, a, c, "content change must change the fingerprint")
}

func TestFingerprint_EmptyDir(t *testing.T) {
	fp := project.NewFingerprinter()

	a, err := fp.Fingerprint(t.TempDir())
	require.NoError(t, err)
	b, err := fp.Fingerprint(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
