package repocache_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/pakt/internal/adapters/repocache"
	"go.trai.ch/pakt/internal/core/domain"
)

const indexDoc = `{
  "name": "Test Repository",
  "publisher": "ignored-unknown-field",
  "packages": {
    "com.acme.toolkit": {
      "versions": {
        "1.0.0": {"displayName": "Toolkit", "url": "https://dl.example.com/toolkit-1.0.0.zip", "sha256": "aa"},
        "1.5.0": {"dependencies": {"com.acme.base": "^1.0.0"}, "engine": "2019.4", "url": "https://dl.example.com/toolkit-1.5.0.zip"},
        "not-a-version": {"url": "https://dl.example.com/bad.zip"}
      }
    },
    "com.acme.base": {
      "versions": {
        "1.2.0": {"url": "https://dl.example.com/base-1.2.0.zip"}
      }
    }
  }
}`

func testSource(url string) domain.Source {
	return domain.Source{ID: "test", Name: "Test", URL: url, Priority: 10, Enabled: true}
}

func TestRefresh_ParsesAndPersists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(indexDoc))
	}))
	defer srv.Close()

	cache, err := repocache.NewCache(t.TempDir(), nil)
	require.NoError(t, err)

	idx, err := cache.Refresh(context.Background(), testSource(srv.URL))
	require.NoError(t, err)

	assert.Equal(t, "Test Repository", idx.Name)
	assert.Equal(t, "test", idx.SourceID)

	// The malformed "not-a-version" entry is dropped, not fatal.
	versions := idx.Versions("com.acme.toolkit")
	require.Len(t, versions, 2)
	assert.Equal(t, "1.5.0", versions[0].Version.String())
	assert.Equal(t, "1.0.0", versions[1].Version.String())
	assert.Equal(t, "aa", versions[1].Checksum)
	require.Contains(t, versions[0].Dependencies, "com.acme.base")
	assert.False(t, versions[0].Engine.IsAny())

	// Snapshot must be readable without network access afterwards.
	cached, err := cache.LoadCached(testSource(srv.URL))
	require.NoError(t, err)
	assert.Equal(t, idx.PackageNames(), cached.PackageNames())
}

func TestRefresh_FallsBackToCacheOnNetworkFailure(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(indexDoc))
	}))
	defer srv.Close()

	cache, err := repocache.NewCache(t.TempDir(), nil)
	require.NoError(t, err)

	_, err = cache.Refresh(context.Background(), testSource(srv.URL))
	require.NoError(t, err)

	fail.Store(true)
	idx, err := cache.Refresh(context.Background(), testSource(srv.URL))
	require.NoError(t, err, "refresh should fall back to the cached snapshot")
	assert.Contains(t, idx.PackageNames(), "com.acme.base")
}

func TestRefresh_NoCacheNoNetworkFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cache, err := repocache.NewCache(t.TempDir(), nil)
	require.NoError(t, err)

	_, err = cache.Refresh(context.Background(), testSource(srv.URL))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrFetch))
}

func TestRefresh_GarbageResponseKeepsLastGoodSnapshot(t *testing.T) {
	var garbage atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if garbage.Load() {
			_, _ = w.Write([]byte("<html>not json</html>"))
			return
		}
		_, _ = w.Write([]byte(indexDoc))
	}))
	defer srv.Close()

	cache, err := repocache.NewCache(t.TempDir(), nil)
	require.NoError(t, err)

	_, err = cache.Refresh(context.Background(), testSource(srv.URL))
	require.NoError(t, err)

	garbage.Store(true)
	_, err = cache.Refresh(context.Background(), testSource(srv.URL))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIndexParse))

	// The previous snapshot survives the bad response.
	idx, err := cache.LoadCached(testSource(srv.URL))
	require.NoError(t, err)
	assert.Contains(t, idx.PackageNames(), "com.acme.toolkit")
}

func TestLoadCached_Miss(t *testing.T) {
	cache, err := repocache.NewCache(t.TempDir(), nil)
	require.NoError(t, err)

	_, err = cache.LoadCached(testSource("https://unused.example.com"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCacheMiss))
}

func TestRefreshAll_SkipsDisabledAndFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(indexDoc))
	}))
	defer srv.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	cache, err := repocache.NewCache(t.TempDir(), nil)
	require.NoError(t, err)

	sources := []domain.Source{
		{ID: "good", URL: srv.URL, Priority: 10, Enabled: true},
		{ID: "broken", URL: bad.URL, Priority: 5, Enabled: true},
		{ID: "off", URL: srv.URL, Priority: 1, Enabled: false},
	}

	indices := cache.RefreshAll(context.Background(), sources)
	require.Len(t, indices, 1)
	assert.Equal(t, "good", indices[0].SourceID)
}

func TestDownloader_WritesFileAndCleansUpOnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("archive-bytes"))
	}))
	defer srv.Close()

	dl := repocache.NewDownloader()
	dest := filepath.Join(t.TempDir(), "pkg.zip")

	require.NoError(t, dl.Download(context.Background(), srv.URL+"/pkg.zip", dest))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "archive-bytes", string(data))

	missing := filepath.Join(t.TempDir(), "missing.zip")
	err = dl.Download(context.Background(), srv.URL+"/missing", missing)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrFetch))
	_, statErr := os.Stat(missing)
	assert.True(t, os.IsNotExist(statErr))
}
