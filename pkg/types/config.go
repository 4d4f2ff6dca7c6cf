package types

import "github.com/pkg/errors"

// Mode controls how skill repositories are handled.
type Mode string

// Extraction modes.
const (
	// ModeMetadataOnly creates a wrapper manifest pointing at the repo.
	ModeMetadataOnly Mode = "metadata"
	// ModeExtractOnly clones and extracts the actual skills.
	ModeExtractOnly Mode = "extract"
	// ModeBoth extracts when detection says so and falls back to metadata.
	ModeBoth Mode = "both"
)

// ParseMode validates a user-supplied mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeMetadataOnly, ModeExtractOnly, ModeBoth:
		return Mode(s), nil
	default:
		return "", errors.Errorf("invalid mode %q: expected metadata, extract, or both", s)
	}
}

// ExtractionConfig governs a full run. It is a value object; one instance
// is shared read-only across all workers.
type ExtractionConfig struct {
	Mode              Mode
	AutoDetect        bool
	ConfirmExtraction bool
	MaxSkillsPerRepo  int
	SkipExisting      bool
	CloneDepth        int
	InstallDir        string
}

// Validate checks the invariants the rest of the pipeline relies on.
func (c ExtractionConfig) Validate() error {
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return err
	}
	if c.MaxSkillsPerRepo < 1 {
		return errors.Errorf("max skills per repo must be positive, got %d", c.MaxSkillsPerRepo)
	}
	if c.CloneDepth < 1 {
		return errors.Errorf("clone depth must be at least 1, got %d", c.CloneDepth)
	}
	return nil
}

// MetadataOnlyConfig is the quick preset: wrapper manifests only, no
// detection pass.
func MetadataOnlyConfig() ExtractionConfig {
	c := defaultConfig()
	c.Mode = ModeMetadataOnly
	c.AutoDetect = false
	return c
}

// ExtractAllConfig is the thorough preset: always clone and extract.
func ExtractAllConfig() ExtractionConfig {
	c := defaultConfig()
	c.Mode = ModeExtractOnly
	c.AutoDetect = true
	c.ConfirmExtraction = false
	return c
}

// SmartConfig detects skill repositories and asks before extracting.
func SmartConfig() ExtractionConfig {
	c := defaultConfig()
	c.Mode = ModeBoth
	c.AutoDetect = true
	c.ConfirmExtraction = true
	return c
}

func defaultConfig() ExtractionConfig {
	return ExtractionConfig{
		Mode:             ModeMetadataOnly,
		AutoDetect:       true,
		MaxSkillsPerRepo: 50,
		SkipExisting:     true,
		CloneDepth:       1,
	}
}
