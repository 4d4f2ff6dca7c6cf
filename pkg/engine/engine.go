// Package engine orchestrates the scrape-detect-extract pipeline across a
// batch of repositories with bounded concurrency.
package engine

import (
	"context"
	"sync"

	"github.com/jingkaihe/skillscout/pkg/generator"
	"github.com/jingkaihe/skillscout/pkg/logger"
	"github.com/jingkaihe/skillscout/pkg/policy"
	"github.com/jingkaihe/skillscout/pkg/types"
)

const defaultWorkers = 4

// Classifier produces a detection verdict for a repository.
type Classifier interface {
	Classify(ctx context.Context, repo types.RepositoryRef) types.ClassificationResult
}

// Extractor clones a repository and pulls its skills out.
type Extractor interface {
	Extract(ctx context.Context, repo types.RepositoryRef, classification types.ClassificationResult, config types.ExtractionConfig) types.ExtractionOutcome
}

// StubFunc builds a metadata-only artifact for a repository.
type StubFunc func(repo types.RepositoryRef, classification types.ClassificationResult) (types.ExtractedArtifact, error)

// Observer receives progress callbacks from workers. Implementations must
// be safe for concurrent use.
type Observer interface {
	ClassifyStart(repo types.RepositoryRef)
	ClassifyDone(repo types.RepositoryRef, result types.ClassificationResult)
	ExtractStart(repo types.RepositoryRef)
	ExtractDone(repo types.RepositoryRef, outcome types.ExtractionOutcome)
	// ConfirmExtraction is asked before cloning when the config requires
	// confirmation. Declining forces the repository to the metadata branch.
	ConfirmExtraction(repo types.RepositoryRef, result types.ClassificationResult) bool
}

// NopObserver ignores every callback and approves every extraction.
type NopObserver struct{}

func (NopObserver) ClassifyStart(types.RepositoryRef) {}

func (NopObserver) ClassifyDone(types.RepositoryRef, types.ClassificationResult) {}

func (NopObserver) ExtractStart(types.RepositoryRef) {}

func (NopObserver) ExtractDone(types.RepositoryRef, types.ExtractionOutcome) {}
func (NopObserver) ConfirmExtraction(types.RepositoryRef, types.ClassificationResult) bool {
	return true
}

// Engine runs the per-repository pipeline over a batch.
type Engine struct {
	classifier Classifier
	extractor  Extractor
	stub       StubFunc
	observer   Observer
	workers    int
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers bounds the number of repositories processed concurrently.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithObserver installs a progress observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// WithStubFunc overrides the metadata stub builder.
func WithStubFunc(fn StubFunc) Option {
	return func(e *Engine) {
		e.stub = fn
	}
}

// New creates an Engine around a classifier and an extractor.
func New(classifier Classifier, extractor Extractor, opts ...Option) *Engine {
	e := &Engine{
		classifier: classifier,
		extractor:  extractor,
		stub:       generator.StubArtifact,
		observer:   NopObserver{},
		workers:    defaultWorkers,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run processes every repository and returns one outcome per input, in
// input order. Individual failures never abort the batch; cancellation
// marks the remaining repositories as failed.
func (e *Engine) Run(ctx context.Context, repos []types.RepositoryRef, config types.ExtractionConfig) []types.ExtractionOutcome {
	outcomes := make([]types.ExtractionOutcome, len(repos))

	var wg sync.WaitGroup
	sem := make(chan struct{}, e.workers)

	for i, repo := range repos {
		wg.Add(1)
		go func(idx int, repo types.RepositoryRef) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				outcomes[idx] = types.ExtractionOutcome{
					Repo:        repo,
					ErrorDetail: err.Error(),
				}
				return
			}

			outcomes[idx] = e.process(ctx, repo, config)
		}(i, repo)
	}

	wg.Wait()
	return outcomes
}

func (e *Engine) process(ctx context.Context, repo types.RepositoryRef, config types.ExtractionConfig) types.ExtractionOutcome {
	log := logger.G(ctx).WithField("repo", repo.FullName())

	classification := types.ClassificationResult{Repo: repo}
	if config.AutoDetect {
		e.observer.ClassifyStart(repo)
		classification = e.classifier.Classify(ctx, repo)
		e.observer.ClassifyDone(repo, classification)
	}

	action := policy.Resolve(classification, config)

	if config.ConfirmExtraction && (action == types.ActionExtractOnly || action == types.ActionBoth) {
		if !e.observer.ConfirmExtraction(repo, classification) {
			log.Debug("extraction declined, falling back to metadata")
			action = types.ActionMetadataOnly
		}
	}

	log.WithField("action", action.String()).Debug("resolved action")

	switch action {
	case types.ActionExtractOnly:
		return e.extract(ctx, repo, classification, config)
	case types.ActionMetadataOnly:
		return e.metadata(repo, classification)
	case types.ActionBoth:
		outcome := e.extract(ctx, repo, classification, config)
		if outcome.Succeeded && len(outcome.Artifacts) == 0 {
			log.Debug("extraction found no skills, generating metadata stub")
			return e.metadata(repo, classification)
		}
		return outcome
	default:
		return types.ExtractionOutcome{Repo: repo, Succeeded: true}
	}
}

func (e *Engine) extract(ctx context.Context, repo types.RepositoryRef, classification types.ClassificationResult, config types.ExtractionConfig) types.ExtractionOutcome {
	e.observer.ExtractStart(repo)
	outcome := e.extractor.Extract(ctx, repo, classification, config)
	e.observer.ExtractDone(repo, outcome)
	return outcome
}

func (e *Engine) metadata(repo types.RepositoryRef, classification types.ClassificationResult) types.ExtractionOutcome {
	artifact, err := e.stub(repo, classification)
	if err != nil {
		return types.ExtractionOutcome{
			Repo:        repo,
			ErrorDetail: err.Error(),
		}
	}
	return types.ExtractionOutcome{
		Repo:      repo,
		Artifacts: []types.ExtractedArtifact{artifact},
		Succeeded: true,
	}
}
