// Package manifest parses and enriches SKILL.md manifest files. A
// manifest carries a YAML frontmatter block with a display name and a
// one-line description, followed by the markdown body.
package manifest

import (
	"bytes"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// FileName is the conventional manifest file name.
const FileName = "SKILL.md"

// Metadata is the parsed frontmatter of a manifest.
type Metadata struct {
	Name        string
	Description string
}

// Parse extracts the frontmatter metadata from manifest content. Name and
// description are both required.
func Parse(content []byte) (Metadata, error) {
	md := goldmark.New(goldmark.WithExtensions(meta.Meta))

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return Metadata{}, errors.Wrap(err, "failed to parse markdown")
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return Metadata{}, errors.New("missing frontmatter")
	}

	name, _ := metaData["name"].(string)
	description, _ := metaData["description"].(string)

	if name == "" {
		return Metadata{}, errors.New("manifest name is required in frontmatter")
	}
	if description == "" {
		return Metadata{}, errors.New("manifest description is required in frontmatter")
	}

	return Metadata{Name: name, Description: description}, nil
}

// Body strips the YAML frontmatter and returns the markdown body.
func Body(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	frontmatterEnd := -1

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			frontmatterEnd = i
			break
		}
	}

	if frontmatterEnd == -1 {
		return content
	}

	return strings.TrimLeft(strings.Join(lines[frontmatterEnd+1:], "\n"), "\n")
}

// SanitizeName lowercases and collapses non-alphanumeric runs to a single
// hyphen, producing a filesystem- and identifier-safe local name.
func SanitizeName(name string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen

	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
