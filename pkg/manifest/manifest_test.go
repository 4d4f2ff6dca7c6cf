package manifest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jingkaihe/skillscout/pkg/types"
)

const validManifest = `---
name: pdf-tools
description: Work with PDF files
---

# PDF Tools

## Instructions
Use these tools to manipulate PDFs.
`

func TestParse(t *testing.T) {
	md, err := Parse([]byte(validManifest))
	require.NoError(t, err)
	assert.Equal(t, "pdf-tools", md.Name)
	assert.Equal(t, "Work with PDF files", md.Description)
}

func TestParseMissingFrontmatter(t *testing.T) {
	_, err := Parse([]byte("# Just a heading\n\nNo frontmatter here.\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frontmatter")
}

func TestParseMissingFields(t *testing.T) {
	t.Run("missing name", func(t *testing.T) {
		_, err := Parse([]byte("---\ndescription: something\n---\n\nbody\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name")
	})

	t.Run("missing description", func(t *testing.T) {
		_, err := Parse([]byte("---\nname: something\n---\n\nbody\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "description")
	})
}

func TestBody(t *testing.T) {
	body := Body(validManifest)
	assert.True(t, strings.HasPrefix(body, "# PDF Tools"))
	assert.NotContains(t, body, "name: pdf-tools")
}

func TestBodyWithoutFrontmatter(t *testing.T) {
	content := "# No frontmatter\n"
	assert.Equal(t, content, Body(content))
}

func TestAppendProvenance(t *testing.T) {
	repo := types.RepositoryRef{
		Owner: "octocat",
		Name:  "skills",
		URL:   "https://github.com/octocat/skills",
	}

	enriched := AppendProvenance(validManifest, repo, 0.65, "octocat-pdf-tools")

	assert.Contains(t, enriched, "**Extracted from**: [octocat/skills](https://github.com/octocat/skills)")
	assert.Contains(t, enriched, "**Detection confidence**: 65%")
	assert.Contains(t, enriched, "**Installed as**: octocat-pdf-tools")

	// The frontmatter block stays first.
	assert.True(t, strings.HasPrefix(enriched, "---\nname: pdf-tools"))

	// Parsing the enriched content still succeeds.
	md, err := Parse([]byte(enriched))
	require.NoError(t, err)
	assert.Equal(t, "pdf-tools", md.Name)
}

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"My_Skill", "my-skill"},
		{"hello...world", "hello-world"},
		{"UPPER", "upper"},
		{"a--b__c", "a-b-c"},
		{"-leading-trailing-", "leading-trailing"},
		{"skill 2", "skill-2"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, SanitizeName(tc.in), "input %q", tc.in)
	}
}

func TestAppendProvenanceIdempotent(t *testing.T) {
	repo := types.RepositoryRef{Owner: "octocat", Name: "skills", URL: "https://github.com/octocat/skills"}

	once := AppendProvenance(validManifest, repo, 0.5, "octocat-pdf-tools")
	twice := AppendProvenance(once, repo, 0.5, "octocat-pdf-tools")

	assert.Equal(t, once, twice)
}
