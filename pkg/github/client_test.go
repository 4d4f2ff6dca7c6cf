package github

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jingkaihe/skillscout/pkg/types"
)

func testRepo() types.RepositoryRef {
	return types.RepositoryRef{
		Owner: "octocat",
		Name:  "skills",
		URL:   "https://github.com/octocat/skills",
	}
}

func rawClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(context.Background(), "", append(opts, WithRawBaseURL(server.URL))...)
}

func apiClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(context.Background(), "", append(opts, WithAPIBaseURL(server.URL))...)
}

func TestGetReadmeMasterFallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/octocat/skills/main/README.md", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/octocat/skills/master/README.md", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "# Skills\n\nA collection of claude skills.")
	})

	c := rawClient(t, mux)

	content, err := c.GetReadme(context.Background(), testRepo())
	require.NoError(t, err)
	assert.Contains(t, content, "claude skills")
}

func TestGetReadmeNotFound(t *testing.T) {
	c := rawClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.GetReadme(context.Background(), testRepo())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGetReadmeRateLimited(t *testing.T) {
	var requests atomic.Int32
	c := rawClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, "429 API rate limit exceeded")
	}))

	_, err := c.GetReadme(context.Background(), testRepo())
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrRateLimited))
	// Rate limits are not transient; no retry.
	assert.Equal(t, int32(1), requests.Load())
}

func TestGetReadmeRetriesTransientFailures(t *testing.T) {
	var requests atomic.Int32
	c := rawClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, "# Skills")
	}))

	content, err := c.GetReadme(context.Background(), testRepo())
	require.NoError(t, err)
	assert.Equal(t, "# Skills", content)
	assert.Equal(t, int32(2), requests.Load())
}

func TestGetReadmeTransientExhaustsRetries(t *testing.T) {
	var requests atomic.Int32
	c := rawClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.GetReadme(context.Background(), testRepo())
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrTransientNetwork))
	assert.Equal(t, int32(3), requests.Load())
}

func treeJSON() string {
	return `{"sha":"abc123","tree":[
		{"path":"README.md","type":"blob"},
		{"path":"skills","type":"tree"},
		{"path":"skills/foo/SKILL.md","type":"blob"}
	],"truncated":false}`
}

func TestGetTreeMasterFallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/octocat/skills/git/trees/main", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/api/v3/repos/octocat/skills/git/trees/master", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, treeJSON())
	})

	c := apiClient(t, mux)

	entries, err := c.GetTree(context.Background(), testRepo())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "skills/foo/SKILL.md", entries[2].Path)
	assert.True(t, entries[2].IsFile())
	assert.False(t, entries[1].IsFile())
}

func TestGetTreeNotFound(t *testing.T) {
	c := apiClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.GetTree(context.Background(), testRepo())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGetTreeForbiddenIsRateLimited(t *testing.T) {
	c := apiClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := c.GetTree(context.Background(), testRepo())
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrRateLimited))
}

func TestGetTreeServerErrorIsTransient(t *testing.T) {
	c := apiClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.GetTree(context.Background(), testRepo())
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrTransientNetwork))
}

func TestGetTreeBoundedByClientTimeout(t *testing.T) {
	c := apiClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(2 * time.Second)
		fmt.Fprint(w, treeJSON())
	}), WithTimeout(100*time.Millisecond))

	start := time.Now()
	_, err := c.GetTree(context.Background(), testRepo())
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrTransientNetwork))
	// An unresponsive host must not stall past the configured bound.
	assert.Less(t, elapsed, time.Second)
}
