// Package detector classifies repositories as skill collections using a
// confidence-scoring heuristic over README keywords and repository
// structure. Classification fails soft: any gateway error folds into a
// zero-weight contribution so detection never blocks the workflow.
package detector

import (
	"context"
	"path"
	"strings"

	"github.com/pkg/errors"

	"github.com/jingkaihe/skillscout/pkg/github"
	"github.com/jingkaihe/skillscout/pkg/logger"
	"github.com/jingkaihe/skillscout/pkg/types"
)

// manifestFileName is the conventional per-skill manifest.
const manifestFileName = "SKILL.md"

// skillsDirName is the conventional top-level collection directory.
const skillsDirName = "skills"

// skillKeywords is the README indicator vocabulary. Matching is
// case-insensitive substring; presence, not frequency, drives the score.
var skillKeywords = []string{
	"claude skill",
	"claude code skill",
	"skill.md",
	"skills folder",
	"skills directory",
	"claude agent skill",
}

// Weights are the tunable scoring constants. All weights must be
// non-negative so that matching an additional indicator can never lower
// the confidence.
type Weights struct {
	// Keyword is the contribution of each distinct README keyword.
	Keyword float64
	// ManifestFile is the contribution of finding any SKILL.md in the tree.
	ManifestFile float64
	// SkillsDir is the contribution of a top-level skills/ directory.
	SkillsDir float64
	// Threshold is the confidence above which a repo counts as a skill repo.
	Threshold float64
}

// DefaultWeights returns the tuned defaults: structural signals dominate
// keyword signals, and two keyword matches alone stay below the threshold.
func DefaultWeights() Weights {
	return Weights{
		Keyword:      0.15,
		ManifestFile: 0.40,
		SkillsDir:    0.25,
		Threshold:    0.5,
	}
}

// Gateway supplies per-repository README text and file-tree listings.
type Gateway interface {
	GetReadme(ctx context.Context, repo types.RepositoryRef) (string, error)
	GetTree(ctx context.Context, repo types.RepositoryRef) ([]github.TreeEntry, error)
}

// Detector scores repositories against the indicator vocabulary.
type Detector struct {
	gateway Gateway
	weights Weights
}

// Option configures a Detector.
type Option func(*Detector)

// WithWeights overrides the default scoring constants.
func WithWeights(w Weights) Option {
	return func(d *Detector) {
		d.weights = w
	}
}

// New creates a Detector backed by the given gateway.
func New(gateway Gateway, opts ...Option) *Detector {
	d := &Detector{
		gateway: gateway,
		weights: DefaultWeights(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Classify produces a classification for the repository. It never returns
// an error: unreachable READMEs and trees contribute zero to the score.
func (d *Detector) Classify(ctx context.Context, repo types.RepositoryRef) types.ClassificationResult {
	log := logger.G(ctx).WithField("repo", repo.FullName())

	result := types.ClassificationResult{Repo: repo}

	keywordIndicators := d.scoreReadme(ctx, repo)
	result.MatchedIndicators = append(result.MatchedIndicators, keywordIndicators...)

	structuralIndicators, manifestCount := d.scoreTree(ctx, repo)
	result.MatchedIndicators = append(result.MatchedIndicators, structuralIndicators...)

	confidence := 0.0
	for _, ind := range result.MatchedIndicators {
		switch ind.Type {
		case types.IndicatorReadmeKeyword:
			confidence += d.weights.Keyword
		case types.IndicatorManifestFile:
			confidence += d.weights.ManifestFile
		case types.IndicatorSkillsDir:
			confidence += d.weights.SkillsDir
		}
	}
	if confidence > 1.0 {
		confidence = 1.0
	}

	result.Confidence = confidence
	result.IsSkillRepo = confidence > d.weights.Threshold

	if manifestCount > 0 {
		result.EstimatedCount = manifestCount
	} else {
		// Without structural data, approximate with the number of distinct
		// keyword matches. This is coarse and callers must not assume the
		// extractor will find exactly this many manifests.
		result.EstimatedCount = len(keywordIndicators)
	}

	if result.IsSkillRepo {
		log.WithField("confidence", result.Confidence).
			WithField("estimated_count", result.EstimatedCount).
			Info("detected skill repository")
	} else {
		log.WithField("confidence", result.Confidence).Debug("not a skill repository")
	}

	return result
}

// scoreReadme returns one indicator per distinct vocabulary keyword found
// in the README. Fetch failures contribute nothing.
func (d *Detector) scoreReadme(ctx context.Context, repo types.RepositoryRef) []types.Indicator {
	log := logger.G(ctx).WithField("repo", repo.FullName())

	readme, err := d.gateway.GetReadme(ctx, repo)
	if err != nil {
		log.WithError(err).Debug("could not fetch README, skipping keyword scoring")
		return nil
	}

	content := strings.ToLower(readme)

	var indicators []types.Indicator
	for _, keyword := range skillKeywords {
		if count := strings.Count(content, keyword); count > 0 {
			indicators = append(indicators, types.Indicator{
				Type:  types.IndicatorReadmeKeyword,
				Value: keyword,
				Count: count,
			})
		}
	}

	return indicators
}

// scoreTree returns structural indicators and the number of manifest
// files found. Fetch failures, including rate limits, degrade to
// README-only scoring.
func (d *Detector) scoreTree(ctx context.Context, repo types.RepositoryRef) ([]types.Indicator, int) {
	log := logger.G(ctx).WithField("repo", repo.FullName())

	entries, err := d.gateway.GetTree(ctx, repo)
	if err != nil {
		if errors.Is(err, types.ErrRateLimited) {
			log.Warn("tree API rate limited, scoring README only")
		} else {
			log.WithError(err).Debug("could not fetch tree, skipping structural scoring")
		}
		return nil, 0
	}

	manifestCount := 0
	hasSkillsDir := false
	for _, entry := range entries {
		if entry.IsFile() && path.Base(entry.Path) == manifestFileName {
			manifestCount++
		}
		if entry.Path == skillsDirName || strings.HasPrefix(entry.Path, skillsDirName+"/") {
			hasSkillsDir = true
		}
	}

	var indicators []types.Indicator
	if manifestCount > 0 {
		indicators = append(indicators, types.Indicator{
			Type:  types.IndicatorManifestFile,
			Value: manifestFileName,
			Count: manifestCount,
		})
	}
	if hasSkillsDir {
		indicators = append(indicators, types.Indicator{
			Type:  types.IndicatorSkillsDir,
			Value: skillsDirName + "/",
		})
	}

	return indicators, manifestCount
}
