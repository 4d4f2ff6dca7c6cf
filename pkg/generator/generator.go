// Package generator builds metadata-stub artifacts: wrapper manifests
// that point at a repository without cloning it. Stubs are what the
// metadata mode produces, and what smart mode falls back to when
// extraction finds nothing.
package generator

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/jingkaihe/skillscout/pkg/manifest"
	"github.com/jingkaihe/skillscout/pkg/types"
)

const defaultDescription = "No description available"

type frontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// StubArtifact builds a wrapper manifest for the repository. The local
// name is the sanitized owner-name pair; the content carries the required
// frontmatter fields and the provenance footer.
func StubArtifact(repo types.RepositoryRef, classification types.ClassificationResult) (types.ExtractedArtifact, error) {
	description := strings.TrimSpace(repo.Description)
	if description == "" {
		description = defaultDescription
	}

	fm, err := yaml.Marshal(frontmatter{
		Name:        repo.FullName(),
		Description: description,
	})
	if err != nil {
		return types.ExtractedArtifact{}, errors.Wrap(err, "failed to marshal frontmatter")
	}

	localName := manifest.SanitizeName(repo.Owner + "-" + repo.Name)

	body := fmt.Sprintf(`---
%s---

# %s

GitHub Repository: %s

## Description

%s

## Usage

This skill provides context about the %s repository by %s.

Visit the repository for more information: %s
`, fm, repo.FullName(), repo.URL, description, repo.Name, repo.Owner, repo.URL)

	content := manifest.AppendProvenance(body, repo, classification.Confidence, localName)

	return types.ExtractedArtifact{
		SourceRepo: repo,
		LocalName:  localName,
		RawContent: content,
	}, nil
}
