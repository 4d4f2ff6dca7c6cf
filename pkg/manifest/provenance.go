package manifest

import (
	"fmt"
	"strings"

	"github.com/jingkaihe/skillscout/pkg/types"
)

// provenanceMarker makes footer appending idempotent: content that
// already records its origin is left untouched.
const provenanceMarker = "extracted from"

// AppendProvenance adds the provenance footer recording the source
// repository, the detection confidence at extraction time, and the derived
// local name. The footer is appended after the body so a leading
// frontmatter block stays first.
func AppendProvenance(content string, repo types.RepositoryRef, confidence float64, localName string) string {
	if strings.Contains(strings.ToLower(content), provenanceMarker) {
		return content
	}

	footer := fmt.Sprintf(`

---
**Extracted from**: [%s](%s)
**Detection confidence**: %.0f%%
**Installed as**: %s
`, repo.FullName(), repo.URL, confidence*100, localName)

	return content + footer
}
