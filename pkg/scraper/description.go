package scraper

import (
	"regexp"
	"strings"

	"github.com/jingkaihe/skillscout/pkg/manifest"
)

var (
	markdownLinkPattern     = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	markdownEmphasisPattern = regexp.MustCompile("[*_`]")
)

const maxDescriptionLen = 200

// firstParagraph extracts the first meaningful paragraph from markdown:
// a leading frontmatter block, headings, badges, and images are skipped,
// inline links and emphasis are stripped, and the longest of the first
// five candidates wins.
func firstParagraph(markdown string) string {
	var candidates []string

	for _, line := range strings.Split(manifest.Body(markdown), "\n") {
		line = strings.TrimSpace(line)

		if line == "" || strings.HasPrefix(line, "#") ||
			strings.HasPrefix(line, "[![") || strings.HasPrefix(line, "![") {
			continue
		}

		cleaned := markdownLinkPattern.ReplaceAllString(line, "$1")
		cleaned = markdownEmphasisPattern.ReplaceAllString(cleaned, "")
		cleaned = strings.TrimSpace(cleaned)

		if len(cleaned) > 20 {
			candidates = append(candidates, cleaned)
		}
		if len(candidates) == 5 {
			break
		}
	}

	best := ""
	for _, candidate := range candidates {
		if len(candidate) > len(best) {
			best = candidate
		}
	}

	if len(best) > maxDescriptionLen {
		best = best[:maxDescriptionLen]
	}
	return best
}
