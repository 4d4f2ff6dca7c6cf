// Package types contains the shared value types passed between the
// detection, extraction, and installation stages of the pipeline.
package types

import (
	"fmt"
	"strings"
)

// RepositoryRef identifies a candidate repository. It is immutable once
// discovered; identity is (owner, name) lowercased.
type RepositoryRef struct {
	Owner       string `json:"owner"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// FullName returns the "owner/name" form used in user-facing output.
func (r RepositoryRef) FullName() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// Key returns the lowercased identity used for deduplication.
func (r RepositoryRef) Key() string {
	return strings.ToLower(r.FullName())
}

// IndicatorType tags the origin of a matched detection signal.
type IndicatorType string

// Indicator types emitted by the detector.
const (
	IndicatorReadmeKeyword IndicatorType = "readme_keyword"
	IndicatorManifestFile  IndicatorType = "manifest_file"
	IndicatorSkillsDir     IndicatorType = "skills_dir"
)

// Indicator is a single matched detection signal.
type Indicator struct {
	Type  IndicatorType `json:"type"`
	Value string        `json:"value"`
	Count int           `json:"count,omitempty"`
}

// ClassificationResult is the detector's verdict for one repository.
// Confidence is always within [0, 1].
type ClassificationResult struct {
	Repo              RepositoryRef `json:"repo"`
	IsSkillRepo       bool          `json:"is_skill_repo"`
	Confidence        float64       `json:"confidence"`
	EstimatedCount    int           `json:"estimated_count"`
	MatchedIndicators []Indicator   `json:"matched_indicators"`
}

// Resource is a file extracted alongside a manifest, keyed by its path
// relative to the manifest's directory.
type Resource struct {
	RelPath string
	Data    []byte
}

// ExtractedArtifact is one skill pulled out of a repository. The extractor
// owns it until handoff to the installer; nothing mutates it afterwards.
type ExtractedArtifact struct {
	SourceRepo RepositoryRef
	LocalName  string
	RawContent string
	Resources  []Resource
}

// ExtractionOutcome is the terminal per-repository record. A failed
// extraction never aborts the batch; it surfaces here instead.
type ExtractionOutcome struct {
	Repo        RepositoryRef
	Artifacts   []ExtractedArtifact
	Succeeded   bool
	ErrorDetail string
	Skipped     int
}

// Action is the mode policy's decision for a single repository.
type Action int

// Actions the engine can take per repository.
const (
	ActionSkip Action = iota
	ActionExtractOnly
	ActionMetadataOnly
	ActionBoth
)

func (a Action) String() string {
	switch a {
	case ActionSkip:
		return "skip"
	case ActionExtractOnly:
		return "extract"
	case ActionMetadataOnly:
		return "metadata"
	case ActionBoth:
		return "both"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}
