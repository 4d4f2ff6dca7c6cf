package extractor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

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

func testClassification() types.ClassificationResult {
	return types.ClassificationResult{
		Repo:        testRepo(),
		IsSkillRepo: true,
		Confidence:  0.65,
	}
}

func testConfig() types.ExtractionConfig {
	c := types.ExtractAllConfig()
	return c
}

// fixtureClone returns a CloneFunc that writes the given files (path →
// content) into the destination, simulating a shallow clone.
func fixtureClone(files map[string]string) CloneFunc {
	return func(_ context.Context, _ string, _ int, dest string) error {
		for path, content := range files {
			full := filepath.Join(dest, filepath.FromSlash(path))
			if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
				return err
			}
		}
		return nil
	}
}

func skillManifest(name string) string {
	return "---\nname: " + name + "\ndescription: A test skill\n---\n\n# " + name + "\n"
}

func assertWorkspaceReleased(t *testing.T, root string) {
	t.Helper()
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "scratch workspace should be removed")
}

func TestExtract(t *testing.T) {
	root := t.TempDir()
	e := New(
		WithWorkspaceRoot(root),
		WithCloneFunc(fixtureClone(map[string]string{
			"skills/alpha/SKILL.md":     skillManifest("alpha"),
			"skills/alpha/reference.md": "alpha reference",
			"skills/alpha/data/x.csv":   "1,2,3",
			"skills/beta/SKILL.md":      skillManifest("beta"),
			"README.md":                 "# skills",
		})),
	)

	outcome := e.Extract(context.Background(), testRepo(), testClassification(), testConfig())

	require.True(t, outcome.Succeeded)
	require.Len(t, outcome.Artifacts, 2)

	alpha := outcome.Artifacts[0]
	assert.Equal(t, "octocat-alpha", alpha.LocalName)
	assert.Contains(t, alpha.RawContent, "# alpha")
	assert.Contains(t, alpha.RawContent, "**Extracted from**: [octocat/skills](https://github.com/octocat/skills)")
	assert.Contains(t, alpha.RawContent, "**Detection confidence**: 65%")
	assert.Contains(t, alpha.RawContent, "**Installed as**: octocat-alpha")

	require.Len(t, alpha.Resources, 2)
	assert.Equal(t, "data/x.csv", alpha.Resources[0].RelPath)
	assert.Equal(t, "reference.md", alpha.Resources[1].RelPath)

	assert.Equal(t, "octocat-beta", outcome.Artifacts[1].LocalName)
	assert.Empty(t, outcome.Artifacts[1].Resources)

	assertWorkspaceReleased(t, root)
}

func TestExtractRootManifest(t *testing.T) {
	root := t.TempDir()
	e := New(
		WithWorkspaceRoot(root),
		WithCloneFunc(fixtureClone(map[string]string{
			"SKILL.md": skillManifest("root-skill"),
		})),
	)

	outcome := e.Extract(context.Background(), testRepo(), testClassification(), testConfig())

	require.True(t, outcome.Succeeded)
	require.Len(t, outcome.Artifacts, 1)
	assert.Equal(t, "octocat-skills", outcome.Artifacts[0].LocalName)
	assertWorkspaceReleased(t, root)
}

func TestExtractCapsAtMaxSkills(t *testing.T) {
	root := t.TempDir()
	e := New(
		WithWorkspaceRoot(root),
		WithCloneFunc(fixtureClone(map[string]string{
			"skills/a/SKILL.md": skillManifest("a"),
			"skills/b/SKILL.md": skillManifest("b"),
			"skills/c/SKILL.md": skillManifest("c"),
		})),
	)

	config := testConfig()
	config.MaxSkillsPerRepo = 2

	outcome := e.Extract(context.Background(), testRepo(), testClassification(), config)

	require.True(t, outcome.Succeeded)
	assert.Len(t, outcome.Artifacts, 2)
	assert.Equal(t, 1, outcome.Skipped)
	// Deterministic lexicographic order keeps the first two.
	assert.Equal(t, "octocat-a", outcome.Artifacts[0].LocalName)
	assert.Equal(t, "octocat-b", outcome.Artifacts[1].LocalName)
	assertWorkspaceReleased(t, root)
}

func TestExtractNameCollision(t *testing.T) {
	root := t.TempDir()
	// Two sibling folders sanitize to the same local name.
	e := New(
		WithWorkspaceRoot(root),
		WithCloneFunc(fixtureClone(map[string]string{
			"My_Skill/SKILL.md": skillManifest("one"),
			"my.skill/SKILL.md": skillManifest("two"),
		})),
	)

	outcome := e.Extract(context.Background(), testRepo(), testClassification(), testConfig())

	require.True(t, outcome.Succeeded)
	require.Len(t, outcome.Artifacts, 2)
	assert.Equal(t, "octocat-my-skill", outcome.Artifacts[0].LocalName)
	assert.Equal(t, "octocat-my-skill-2", outcome.Artifacts[1].LocalName)
	assertWorkspaceReleased(t, root)
}

func TestExtractNameCollisionAcrossRepositories(t *testing.T) {
	root := t.TempDir()
	// Different repos by the same owner each carry skills/foo; the names
	// must stay unique across the whole run, not per repository.
	e := New(
		WithWorkspaceRoot(root),
		WithCloneFunc(fixtureClone(map[string]string{
			"skills/foo/SKILL.md": skillManifest("foo"),
		})),
	)

	alpha := types.RepositoryRef{Owner: "octo", Name: "alpha", URL: "https://github.com/octo/alpha"}
	beta := types.RepositoryRef{Owner: "octo", Name: "beta", URL: "https://github.com/octo/beta"}

	first := e.Extract(context.Background(), alpha, testClassification(), testConfig())
	second := e.Extract(context.Background(), beta, testClassification(), testConfig())

	require.Len(t, first.Artifacts, 1)
	require.Len(t, second.Artifacts, 1)
	assert.Equal(t, "octo-foo", first.Artifacts[0].LocalName)
	assert.Equal(t, "octo-foo-2", second.Artifacts[0].LocalName)
	assertWorkspaceReleased(t, root)
}

func TestExtractNoManifests(t *testing.T) {
	root := t.TempDir()
	e := New(
		WithWorkspaceRoot(root),
		WithCloneFunc(fixtureClone(map[string]string{
			"README.md": "# not a skill repo",
		})),
	)

	outcome := e.Extract(context.Background(), testRepo(), testClassification(), testConfig())

	assert.True(t, outcome.Succeeded)
	assert.Empty(t, outcome.Artifacts)
	assert.Empty(t, outcome.ErrorDetail)
	assertWorkspaceReleased(t, root)
}

func TestExtractCloneFailure(t *testing.T) {
	root := t.TempDir()
	e := New(
		WithWorkspaceRoot(root),
		WithCloneFunc(func(_ context.Context, url string, _ int, _ string) error {
			return errors.Wrapf(types.ErrTransientNetwork, "clone of %s failed", url)
		}),
	)

	outcome := e.Extract(context.Background(), testRepo(), testClassification(), testConfig())

	assert.False(t, outcome.Succeeded)
	assert.Contains(t, outcome.ErrorDetail, "transient network error")
	assert.Empty(t, outcome.Artifacts)
	assertWorkspaceReleased(t, root)
}

func TestExtractGitUnavailable(t *testing.T) {
	root := t.TempDir()
	e := New(
		WithWorkspaceRoot(root),
		WithGitPath(filepath.Join(t.TempDir(), "no-such-git")),
	)

	outcome := e.Extract(context.Background(), testRepo(), testClassification(), testConfig())

	assert.False(t, outcome.Succeeded)
	assert.Contains(t, outcome.ErrorDetail, types.ErrToolUnavailable.Error())
	assertWorkspaceReleased(t, root)
}

func TestExtractSkipsGitAndDotfiles(t *testing.T) {
	root := t.TempDir()
	e := New(
		WithWorkspaceRoot(root),
		WithCloneFunc(fixtureClone(map[string]string{
			"skills/a/SKILL.md":       skillManifest("a"),
			"skills/a/.hidden":        "secret",
			"skills/a/.cache/x":       "cached",
			".git/objects/SKILL.md":   "not a real manifest",
			"skills/a/scripts/run.sh": "#!/bin/sh\n",
		})),
	)

	outcome := e.Extract(context.Background(), testRepo(), testClassification(), testConfig())

	require.True(t, outcome.Succeeded)
	require.Len(t, outcome.Artifacts, 1)

	var paths []string
	for _, res := range outcome.Artifacts[0].Resources {
		paths = append(paths, res.RelPath)
	}
	assert.Equal(t, []string{"scripts/run.sh"}, paths)
	assertWorkspaceReleased(t, root)
}

func TestDeriveLocalName(t *testing.T) {
	repo := testRepo()

	cases := []struct {
		relDir string
		want   string
	}{
		{".", "octocat-skills"},
		{"skills/pdf-tools", "octocat-pdf-tools"},
		{"skills/pdf-tools/nested", "octocat-pdf-tools"},
		{"examples/demo", "octocat-demo"},
		{"anything/skills", "octocat-skills"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, deriveLocalName(tc.relDir, repo), "relDir %q", tc.relDir)
	}
}
