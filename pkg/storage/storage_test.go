package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jingkaihe/skillscout/pkg/types"
)

func TestReposRoundTrip(t *testing.T) {
	store := New(t.TempDir())

	assert.False(t, store.HasRepos())

	repos := []types.RepositoryRef{
		{Owner: "alice", Name: "alpha", URL: "https://github.com/alice/alpha", Description: "first"},
		{Owner: "bob", Name: "beta", URL: "https://github.com/bob/beta"},
	}
	require.NoError(t, store.SaveRepos(repos))
	assert.True(t, store.HasRepos())

	loaded, err := store.LoadRepos()
	require.NoError(t, err)
	assert.Equal(t, repos, loaded)
}

func TestLoadReposMissingFile(t *testing.T) {
	store := New(t.TempDir())

	repos, err := store.LoadRepos()
	require.NoError(t, err)
	assert.Empty(t, repos)
}

func TestInstalledRecords(t *testing.T) {
	store := New(t.TempDir())

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.RecordInstalled([]InstalledRecord{
		{LocalName: "alice-alpha", SourceRepo: "alice/alpha", Confidence: 0.8, InstalledAt: now},
	}))
	require.NoError(t, store.RecordInstalled([]InstalledRecord{
		{LocalName: "bob-beta", SourceRepo: "bob/beta", Confidence: 0.6, InstalledAt: now},
	}))

	records, err := store.LoadInstalled()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "alice/alpha", records["alice-alpha"].SourceRepo)
	assert.Equal(t, 0.6, records["bob-beta"].Confidence)

	require.NoError(t, store.ForgetInstalled("alice-alpha"))
	records, err = store.LoadInstalled()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.NotContains(t, records, "alice-alpha")

	// Forgetting an unknown name is a no-op.
	require.NoError(t, store.ForgetInstalled("nobody"))
}
