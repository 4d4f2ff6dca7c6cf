// Package policy decides, per repository, whether the engine extracts,
// generates a metadata stub, or does both. Resolution is a pure function
// of the classification and the run configuration.
package policy

import "github.com/jingkaihe/skillscout/pkg/types"

// Resolve maps a classification and run configuration to the action the
// engine takes for that repository. No I/O, fully deterministic.
func Resolve(classification types.ClassificationResult, config types.ExtractionConfig) types.Action {
	switch config.Mode {
	case types.ModeExtractOnly:
		// Extraction was asked for explicitly; classification is advisory.
		return types.ActionExtractOnly

	case types.ModeMetadataOnly:
		return types.ActionMetadataOnly

	case types.ModeBoth:
		if !config.AutoDetect {
			return types.ActionExtractOnly
		}
		if classification.IsSkillRepo {
			// Extract, falling back to a metadata stub when extraction
			// yields nothing.
			return types.ActionBoth
		}
		return types.ActionMetadataOnly

	default:
		return types.ActionSkip
	}
}
