package github

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillscout/pkg/logger"
	"github.com/jingkaihe/skillscout/pkg/types"
)

// ErrNotFound indicates the requested content does not exist on any of the
// conventional branches. Absence is not a failure for detection.
var ErrNotFound = errors.New("content not found")

// defaultBranches are tried in order when fetching raw content.
var defaultBranches = []string{"main", "master"}

// GetReadme fetches the repository's README text from the raw content
// host, trying the main branch then master. A missing README returns
// ErrNotFound; transient failures and rate limits map onto the shared
// taxonomy.
func (c *Client) GetReadme(ctx context.Context, repo types.RepositoryRef) (string, error) {
	var content string

	err := retry.Do(
		func() error {
			var err error
			content, err = c.fetchReadmeOnce(ctx, repo)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, types.ErrTransientNetwork)
		}),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return "", err
	}

	return content, nil
}

func (c *Client) fetchReadmeOnce(ctx context.Context, repo types.RepositoryRef) (string, error) {
	log := logger.G(ctx).WithField("repo", repo.FullName())

	for _, branch := range defaultBranches {
		path := fmt.Sprintf("/%s/%s/%s/README.md", repo.Owner, repo.Name, branch)

		resp, err := c.raw.R().SetContext(ctx).Get(path)
		if err != nil {
			return "", errors.Wrapf(types.ErrTransientNetwork, "fetching README for %s: %v", repo.FullName(), err)
		}

		switch {
		case resp.StatusCode() == http.StatusOK:
			return resp.String(), nil
		case resp.StatusCode() == http.StatusNotFound:
			continue
		case resp.StatusCode() == http.StatusForbidden && isRateLimitBody(resp.String()):
			return "", errors.Wrapf(types.ErrRateLimited, "fetching README for %s", repo.FullName())
		case resp.StatusCode() >= http.StatusInternalServerError:
			return "", errors.Wrapf(types.ErrTransientNetwork, "fetching README for %s: status %d", repo.FullName(), resp.StatusCode())
		default:
			log.WithField("status", resp.StatusCode()).Debug("unexpected status fetching README")
			return "", errors.Wrapf(types.ErrStructuralMismatch, "fetching README for %s: status %d", repo.FullName(), resp.StatusCode())
		}
	}

	return "", errors.Wrapf(ErrNotFound, "no README on branches %s", strings.Join(defaultBranches, ", "))
}

func isRateLimitBody(body string) bool {
	return strings.Contains(strings.ToLower(body), "rate limit")
}
