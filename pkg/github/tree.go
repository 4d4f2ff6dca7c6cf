package github

import (
	"context"
	"net/http"

	gogithub "github.com/google/go-github/v57/github"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillscout/pkg/logger"
	"github.com/jingkaihe/skillscout/pkg/types"
)

// TreeEntry is one path in a repository's flattened file tree.
type TreeEntry struct {
	Path string
	Type string // "blob" or "tree"
}

// IsFile reports whether the entry is a regular file.
func (e TreeEntry) IsFile() bool {
	return e.Type == "blob"
}

// GetTree fetches the repository's recursive file tree, trying the main
// branch then master, bounded by the client timeout. Rate limits map to
// types.ErrRateLimited so the detector can degrade to README-only scoring.
func (c *Client) GetTree(ctx context.Context, repo types.RepositoryRef) ([]TreeEntry, error) {
	log := logger.G(ctx).WithField("repo", repo.FullName())

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var lastErr error
	for _, branch := range defaultBranches {
		tree, resp, err := c.api.Git.GetTree(ctx, repo.Owner, repo.Name, branch, true)
		if err != nil {
			lastErr = c.classifyTreeError(err, resp, repo)
			if errors.Is(lastErr, ErrNotFound) {
				continue
			}
			return nil, lastErr
		}

		entries := make([]TreeEntry, 0, len(tree.Entries))
		for _, entry := range tree.Entries {
			entries = append(entries, TreeEntry{
				Path: entry.GetPath(),
				Type: entry.GetType(),
			})
		}

		if tree.GetTruncated() {
			log.WithField("entries", len(entries)).Debug("tree response truncated, scoring partial data")
		}

		return entries, nil
	}

	if lastErr == nil {
		lastErr = errors.Wrapf(ErrNotFound, "no tree for %s", repo.FullName())
	}
	return nil, lastErr
}

func (c *Client) classifyTreeError(err error, resp *gogithub.Response, repo types.RepositoryRef) error {
	var rateErr *gogithub.RateLimitError
	if errors.As(err, &rateErr) {
		return errors.Wrapf(types.ErrRateLimited, "fetching tree for %s", repo.FullName())
	}

	if resp != nil {
		switch {
		case resp.StatusCode == http.StatusNotFound:
			return errors.Wrapf(ErrNotFound, "fetching tree for %s", repo.FullName())
		case resp.StatusCode == http.StatusForbidden:
			return errors.Wrapf(types.ErrRateLimited, "fetching tree for %s", repo.FullName())
		case resp.StatusCode >= http.StatusInternalServerError:
			return errors.Wrapf(types.ErrTransientNetwork, "fetching tree for %s: status %d", repo.FullName(), resp.StatusCode)
		}
	}

	return errors.Wrapf(types.ErrTransientNetwork, "fetching tree for %s: %v", repo.FullName(), err)
}
