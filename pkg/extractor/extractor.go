// Package extractor pulls skill artifacts out of repositories judged to be
// skill collections. It shallow clones into a scratch workspace, walks the
// tree for manifest files, derives collision-free local names, and enriches
// each manifest with provenance metadata. The workspace is always released,
// whatever path the extraction takes.
package extractor

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillscout/pkg/logger"
	"github.com/jingkaihe/skillscout/pkg/manifest"
	"github.com/jingkaihe/skillscout/pkg/types"
)

const manifestGlob = "**/" + manifest.FileName

// CloneFunc retrieves a repository snapshot into dest at the given depth.
type CloneFunc func(ctx context.Context, url string, depth int, dest string) error

// Extractor extracts skills from cloned repositories. Local names are
// unique across every repository extracted through the same instance, so
// one Extractor serves a whole run.
type Extractor struct {
	gitPath       string
	cloneTimeout  time.Duration
	workspaceRoot string
	clone         CloneFunc
	names         *nameRegistry
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithGitPath overrides the git binary used for shallow clones.
func WithGitPath(path string) Option {
	return func(e *Extractor) {
		e.gitPath = path
	}
}

// WithCloneTimeout bounds each clone. Defaults to 60s.
func WithCloneTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		e.cloneTimeout = d
	}
}

// WithWorkspaceRoot places scratch workspaces under the given directory
// instead of the system temp dir.
func WithWorkspaceRoot(dir string) Option {
	return func(e *Extractor) {
		e.workspaceRoot = dir
	}
}

// WithCloneFunc replaces the git-based retrieval. Used by tests.
func WithCloneFunc(fn CloneFunc) Option {
	return func(e *Extractor) {
		e.clone = fn
	}
}

// New creates an Extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		gitPath:      "git",
		cloneTimeout: 60 * time.Second,
		names:        newNameRegistry(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.clone == nil {
		e.clone = e.gitClone
	}
	return e
}

// Extract retrieves the repository and assembles one artifact per retained
// manifest file. Failures surface only on the outcome; they never
// propagate as errors across the repository boundary.
func (e *Extractor) Extract(ctx context.Context, repo types.RepositoryRef, classification types.ClassificationResult, config types.ExtractionConfig) types.ExtractionOutcome {
	log := logger.G(ctx).WithField("repo", repo.FullName())

	outcome := types.ExtractionOutcome{Repo: repo}

	workspace, err := os.MkdirTemp(e.workspaceRoot, "skillscout-"+uuid.NewString()[:8]+"-*")
	if err != nil {
		outcome.ErrorDetail = errors.Wrap(err, "failed to create scratch workspace").Error()
		return outcome
	}
	defer func() {
		if rmErr := os.RemoveAll(workspace); rmErr != nil {
			log.WithError(rmErr).Warn("failed to remove scratch workspace")
		}
	}()

	cloneCtx := ctx
	if e.cloneTimeout > 0 {
		var cancel context.CancelFunc
		cloneCtx, cancel = context.WithTimeout(ctx, e.cloneTimeout)
		defer cancel()
	}

	if err := e.clone(cloneCtx, repo.URL, config.CloneDepth, workspace); err != nil {
		log.WithError(err).Error("failed to retrieve repository")
		outcome.ErrorDetail = err.Error()
		return outcome
	}

	manifests, err := findManifests(workspace)
	if err != nil {
		outcome.ErrorDetail = errors.Wrap(err, "failed to walk workspace").Error()
		return outcome
	}

	if len(manifests) == 0 {
		// A repository may be misclassified; nothing to extract is not a failure.
		log.Warn("no manifest files found")
		outcome.Succeeded = true
		return outcome
	}

	if len(manifests) > config.MaxSkillsPerRepo {
		outcome.Skipped = len(manifests) - config.MaxSkillsPerRepo
		manifests = manifests[:config.MaxSkillsPerRepo]
		log.WithField("skipped", outcome.Skipped).Debug("capped manifests at max skills per repo")
	}

	for _, manifestPath := range manifests {
		artifact, err := e.buildArtifact(workspace, manifestPath, repo, classification, e.names)
		if err != nil {
			log.WithError(err).WithField("manifest", manifestPath).Warn("failed to extract manifest")
			continue
		}
		outcome.Artifacts = append(outcome.Artifacts, artifact)
	}

	outcome.Succeeded = true
	log.WithField("artifacts", len(outcome.Artifacts)).Info("extraction complete")
	return outcome
}

// gitClone performs a shallow git clone. A missing git binary is reported
// as types.ErrToolUnavailable so callers can surface an actionable message
// distinct from network failure.
func (e *Extractor) gitClone(ctx context.Context, url string, depth int, dest string) error {
	if _, err := exec.LookPath(e.gitPath); err != nil {
		return errors.Wrapf(types.ErrToolUnavailable, "%s not found in PATH", e.gitPath)
	}

	cmd := exec.CommandContext(ctx, e.gitPath,
		"clone", "--depth", strconv.Itoa(depth), "--quiet", url, dest)
	if output, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return errors.Wrapf(types.ErrTransientNetwork, "clone of %s timed out", url)
		}
		return errors.Wrapf(types.ErrTransientNetwork, "git clone of %s failed: %s", url, string(output))
	}

	return nil
}

// findManifests returns all manifest files under root in lexicographic
// path order, skipping .git.
func findManifests(root string) ([]string, error) {
	var manifests []string

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if ok, _ := doublestar.Match(manifestGlob, filepath.ToSlash(rel)); ok {
			manifests = append(manifests, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(manifests)
	return manifests, nil
}

// buildArtifact loads one manifest and its sibling resources, derives the
// local name, and appends the provenance footer.
func (e *Extractor) buildArtifact(workspace, manifestPath string, repo types.RepositoryRef, classification types.ClassificationResult, names *nameRegistry) (types.ExtractedArtifact, error) {
	skillDir := filepath.Dir(manifestPath)

	relDir, err := filepath.Rel(workspace, skillDir)
	if err != nil {
		return types.ExtractedArtifact{}, err
	}

	localName := names.resolve(deriveLocalName(relDir, repo))

	content, err := os.ReadFile(manifestPath)
	if err != nil {
		return types.ExtractedArtifact{}, errors.Wrap(err, "failed to read manifest")
	}

	resources, err := collectResources(skillDir)
	if err != nil {
		return types.ExtractedArtifact{}, errors.Wrap(err, "failed to collect resources")
	}

	enriched := manifest.AppendProvenance(string(content), repo, classification.Confidence, localName)

	return types.ExtractedArtifact{
		SourceRepo: repo,
		LocalName:  localName,
		RawContent: enriched,
		Resources:  resources,
	}, nil
}

// collectResources gathers every file under the skill directory except the
// manifest itself and dotfiles, preserving relative paths in lexicographic
// order.
func collectResources(skillDir string) ([]types.Resource, error) {
	var resources []types.Resource

	err := filepath.WalkDir(skillDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == skillDir {
			return nil
		}
		if d.Name() != "." && d.Name()[0] == '.' {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(skillDir, path)
		if err != nil {
			return err
		}
		if rel == manifest.FileName {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		resources = append(resources, types.Resource{
			RelPath: filepath.ToSlash(rel),
			Data:    data,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(resources, func(i, j int) bool {
		return resources[i].RelPath < resources[j].RelPath
	})
	return resources, nil
}
