// Package scraper discovers candidate repositories from curated "awesome"
// list pages. It extracts unique owner/name pairs from the list's README
// and optionally enriches each candidate with a short description.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillscout/pkg/logger"
	"github.com/jingkaihe/skillscout/pkg/manifest"
	"github.com/jingkaihe/skillscout/pkg/types"
	"github.com/jingkaihe/skillscout/pkg/version"
)

var githubRepoPattern = regexp.MustCompile(`https?://(?:www\.)?github\.com/([^/\s]+)/([^/#?\s)]+)`)

var defaultBranches = []string{"main", "master"}

const noDescription = "No description available"

// Scraper fetches awesome-list READMEs and extracts linked repositories.
type Scraper struct {
	raw *resty.Client
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithRawBaseURL overrides the raw content host. Used by tests.
func WithRawBaseURL(baseURL string) Option {
	return func(s *Scraper) {
		s.raw.SetBaseURL(baseURL)
	}
}

// WithTimeout bounds each outbound call.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		s.raw.SetTimeout(d)
	}
}

// New creates a Scraper.
func New(opts ...Option) *Scraper {
	s := &Scraper{
		raw: resty.New().
			SetBaseURL("https://raw.githubusercontent.com").
			SetTimeout(30*time.Second).
			SetHeader("User-Agent", version.UserAgent()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScrapeAwesomeList extracts candidate repositories from the given GitHub
// repository URL. A repository that directly contains manifests, or whose
// README links no other repositories, is returned as the single candidate.
func (s *Scraper) ScrapeAwesomeList(ctx context.Context, listURL string) ([]types.RepositoryRef, error) {
	log := logger.G(ctx).WithField("url", listURL)

	owner, name, err := parseRepoURL(listURL)
	if err != nil {
		return nil, err
	}

	self := types.RepositoryRef{
		Owner: owner,
		Name:  name,
		URL:   strings.TrimRight(listURL, "/"),
	}

	if s.isDirectSkillRepo(ctx, owner, name) {
		log.Info("repository contains manifests directly, treating as skill repository")
		self.Description = "Skill repository"
		s.FetchRepoDetails(ctx, &self)
		return []types.RepositoryRef{self}, nil
	}

	content, err := s.fetchReadme(ctx, owner, name)
	if err != nil {
		log.WithError(err).Warn("could not fetch list README, treating as standalone repository")
		self.Description = noDescription
		return []types.RepositoryRef{self}, nil
	}

	repos := ExtractRepos(content)
	if len(repos) == 0 {
		log.Info("no linked repositories found, treating as standalone repository")
		self.Description = firstParagraph(content)
		if self.Description == "" {
			self.Description = noDescription
		}
		return []types.RepositoryRef{self}, nil
	}

	log.WithField("count", len(repos)).Info("extracted candidate repositories")
	return repos, nil
}

// FetchRepoDetails fills the repository description from the first
// meaningful paragraph of its README. Failures leave a placeholder.
func (s *Scraper) FetchRepoDetails(ctx context.Context, repo *types.RepositoryRef) {
	content, err := s.fetchReadme(ctx, repo.Owner, repo.Name)
	if err != nil {
		logger.G(ctx).WithError(err).WithField("repo", repo.FullName()).Debug("could not fetch README for details")
		repo.Description = noDescription
		return
	}

	if para := firstParagraph(content); para != "" {
		repo.Description = para
	} else {
		repo.Description = noDescription
	}
}

// ExtractRepos extracts unique GitHub repositories from markdown content,
// preserving first-occurrence order. Identity is (owner, name) lowercased.
func ExtractRepos(markdown string) []types.RepositoryRef {
	var repos []types.RepositoryRef
	seen := make(map[string]bool)

	for _, match := range githubRepoPattern.FindAllStringSubmatch(markdown, -1) {
		owner := match[1]
		name := strings.TrimRight(match[2], ".")

		repo := types.RepositoryRef{
			Owner: owner,
			Name:  name,
			URL:   fmt.Sprintf("https://github.com/%s/%s", owner, name),
		}

		if seen[repo.Key()] {
			continue
		}
		seen[repo.Key()] = true
		repos = append(repos, repo)
	}

	return repos
}

// isDirectSkillRepo probes the conventional manifest locations with HEAD
// requests.
func (s *Scraper) isDirectSkillRepo(ctx context.Context, owner, name string) bool {
	for _, branch := range defaultBranches {
		for _, prefix := range []string{"", "skills/"} {
			path := fmt.Sprintf("/%s/%s/%s/%s%s", owner, name, branch, prefix, manifest.FileName)
			resp, err := s.raw.R().SetContext(ctx).Head(path)
			if err == nil && resp.StatusCode() == http.StatusOK {
				return true
			}
		}
	}
	return false
}

func (s *Scraper) fetchReadme(ctx context.Context, owner, name string) (string, error) {
	for _, branch := range defaultBranches {
		path := fmt.Sprintf("/%s/%s/%s/README.md", owner, name, branch)
		resp, err := s.raw.R().SetContext(ctx).Get(path)
		if err != nil {
			return "", errors.Wrapf(types.ErrTransientNetwork, "fetching README for %s/%s: %v", owner, name, err)
		}
		if resp.StatusCode() == http.StatusOK {
			return resp.String(), nil
		}
		if resp.StatusCode() != http.StatusNotFound {
			return "", errors.Errorf("fetching README for %s/%s: status %d", owner, name, resp.StatusCode())
		}
	}
	return "", errors.Errorf("no README found for %s/%s", owner, name)
}

func parseRepoURL(rawURL string) (owner, name string, err error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", "", errors.Wrapf(err, "invalid URL %q", rawURL)
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("invalid GitHub repository URL %q: expected https://github.com/owner/repo", rawURL)
	}

	return parts[0], parts[1], nil
}
