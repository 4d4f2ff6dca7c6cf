package extractor

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jingkaihe/skillscout/pkg/manifest"
	"github.com/jingkaihe/skillscout/pkg/types"
)

// deriveLocalName derives the installed name for a skill from its
// directory inside the repository. Skills at the repository root or in a
// folder named after the repository take the owner-repo name; skills under
// the conventional skills/ directory take the immediate child name.
func deriveLocalName(relDir string, repo types.RepositoryRef) string {
	relDir = filepath.ToSlash(relDir)
	folder := filepath.Base(relDir)

	if relDir == "." || folder == repo.Name {
		return manifest.SanitizeName(repo.Owner + "-" + repo.Name)
	}

	parts := strings.Split(relDir, "/")
	if parts[0] == "skills" && len(parts) > 1 {
		return manifest.SanitizeName(repo.Owner + "-" + parts[1])
	}

	return manifest.SanitizeName(repo.Owner + "-" + folder)
}

// nameRegistry resolves local-name collisions across a whole run by
// appending a counted suffix. Safe for concurrent workers.
type nameRegistry struct {
	mu    sync.Mutex
	taken map[string]int
}

func newNameRegistry() *nameRegistry {
	return &nameRegistry{taken: make(map[string]int)}
}

// resolve returns name unchanged on first use; later uses of the same name
// get -2, -3, and so on.
func (r *nameRegistry) resolve(name string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := r.taken[name]
	r.taken[name] = count + 1

	if count == 0 {
		return name
	}

	resolved := fmt.Sprintf("%s-%d", name, count+1)
	// The suffixed variant may itself collide with an earlier name.
	for r.taken[resolved] > 0 {
		count++
		resolved = fmt.Sprintf("%s-%d", name, count+1)
	}
	r.taken[resolved] = 1
	return resolved
}
