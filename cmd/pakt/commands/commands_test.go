package commands_test

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.trai.ch/pakt/cmd/pakt/commands"
	"go.trai.ch/pakt/internal/adapters/project"
	"go.trai.ch/pakt/internal/app"
	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/pakt/internal/core/ports/mocks"
	"go.trai.ch/pakt/internal/engine/resolver"
)

func newCLI(t *testing.T) (*commands.CLI, *bytes.Buffer, *mocks.MockSourceSettings, *mocks.MockRepositoryCache) {
	t.Helper()
	ctrl := gomock.NewController(t)

	settings := mocks.NewMockSourceSettings(ctrl)
	cache := mocks.NewMockRepositoryCache(ctrl)

	a := app.New(
		settings,
		cache,
		project.NewManifestStore(),
		project.NewLockfileStore(),
		project.NewScanner(nil),
		project.NewFingerprinter(),
		resolver.New(nil),
		nil,
		nil,
	)

	cli := commands.New(a)
	out := &bytes.Buffer{}
	cli.SetOutput(out)
	return cli, out, settings, cache
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestVersionCommand(t *testing.T) {
	cli, out, _, _ := newCLI(t)

	cli.SetArgs([]string{"version"})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "pakt version dev")
}

func TestReposCommand(t *testing.T) {
	cli, out, settings, cache := newCLI(t)

	source := domain.Source{ID: "official", URL: "https://official.example.com/index.json", Priority: 100, Enabled: true}
	settings.EXPECT().Load().Return([]domain.Source{source}, nil)
	index := domain.NewRepositoryIndex("official", "Official", []domain.PackageInfo{{
		Name:    domain.NewInternedString("com.acme.base"),
		Version: domain.MustVersion("1.0.0"),
		URL:     "https://dl.example.com/base.zip",
	}})
	cache.EXPECT().LoadCached(source).Return(index, nil)

	cli.SetArgs([]string{"repos"})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "official")
	assert.Contains(t, out.String(), "1 packages")
}

func TestReposRefreshUnknownSource(t *testing.T) {
	cli, _, settings, _ := newCLI(t)

	settings.EXPECT().Load().Return(nil, nil)

	cli.SetArgs([]string{"repos", "refresh", "bogus"})
	err := cli.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceNotFound)
}

func TestResolveCommandEmptyProject(t *testing.T) {
	cli, out, settings, _ := newCLI(t)
	chdir(t, t.TempDir())

	settings.EXPECT().Load().Return(nil, nil)

	cli.SetArgs([]string{"resolve"})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "nothing to do")
}

func TestRemoveCommandUndeclared(t *testing.T) {
	cli, _, _, _ := newCLI(t)
	chdir(t, t.TempDir())

	cli.SetArgs([]string{"remove", "com.acme.toolkit"})
	err := cli.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDependencyNotDeclared)
}

func TestAddCommandPersistsManifest(t *testing.T) {
	cli, out, settings, cache := newCLI(t)
	dir := t.TempDir()
	chdir(t, dir)

	source := domain.Source{ID: "official", URL: "https://official.example.com/index.json", Priority: 100, Enabled: true}
	settings.EXPECT().Load().Return([]domain.Source{source}, nil)
	index := domain.NewRepositoryIndex("official", "Official", []domain.PackageInfo{{
		Name:     domain.NewInternedString("com.acme.base"),
		Version:  domain.MustVersion("1.2.0"),
		URL:      "https://dl.example.com/base.zip",
		SourceID: "official",
	}})
	cache.EXPECT().LoadCached(source).Return(index, nil)

	cli.SetArgs([]string{"add", "com.acme.base@^1.0.0"})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Contains(t, out.String(), "+ com.acme.base 1.2.0")

	manifest, err := project.NewManifestStore().Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "^1.0.0", manifest.Dependencies["com.acme.base"].String())
}
