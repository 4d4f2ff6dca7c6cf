// Package installer writes extracted artifacts into the local skills
// directory and manages the installed set.
package installer

import (
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillscout/pkg/manifest"
	"github.com/jingkaihe/skillscout/pkg/types"
)

const skillsSubdir = ".claude/skills"

// DefaultDir returns the conventional install directory: repo-local
// ./.claude/skills, or the user-global one when global is set.
func DefaultDir(global bool) (string, error) {
	if !global {
		return filepath.Join(".", skillsSubdir), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(homeDir, skillsSubdir), nil
}

// Installer writes artifacts under a single skills directory.
type Installer struct {
	dir          string
	skipExisting bool
}

// Option configures an Installer.
type Option func(*Installer)

// WithSkipExisting leaves already-installed skills untouched instead of
// replacing them.
func WithSkipExisting(skip bool) Option {
	return func(i *Installer) {
		i.skipExisting = skip
	}
}

// New creates an Installer rooted at dir.
func New(dir string, opts ...Option) *Installer {
	i := &Installer{dir: dir}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Result summarizes one install pass.
type Result struct {
	Installed []string
	Skipped   []string
	Failed    []string
}

// Install writes each artifact as <dir>/<localName>/SKILL.md plus its
// resource files. One artifact's failure does not stop the others; all
// failures come back aggregated.
func (i *Installer) Install(artifacts []types.ExtractedArtifact) (Result, error) {
	var result Result
	var merr *multierror.Error

	if err := os.MkdirAll(i.dir, 0o755); err != nil {
		return result, errors.Wrap(err, "failed to create skills directory")
	}

	for _, artifact := range artifacts {
		target := filepath.Join(i.dir, artifact.LocalName)

		if _, err := os.Stat(target); err == nil {
			if i.skipExisting {
				result.Skipped = append(result.Skipped, artifact.LocalName)
				continue
			}
			if err := os.RemoveAll(target); err != nil {
				result.Failed = append(result.Failed, artifact.LocalName)
				merr = multierror.Append(merr, errors.Wrapf(err, "failed to replace %s", artifact.LocalName))
				continue
			}
		}

		if err := i.writeArtifact(target, artifact); err != nil {
			// Half-written skills are worse than absent ones.
			os.RemoveAll(target)
			result.Failed = append(result.Failed, artifact.LocalName)
			merr = multierror.Append(merr, errors.Wrapf(err, "failed to install %s", artifact.LocalName))
			continue
		}

		result.Installed = append(result.Installed, artifact.LocalName)
	}

	return result, merr.ErrorOrNil()
}

func (i *Installer) writeArtifact(target string, artifact types.ExtractedArtifact) error {
	if err := os.MkdirAll(target, 0o755); err != nil {
		return err
	}

	if err := os.WriteFile(filepath.Join(target, manifest.FileName), []byte(artifact.RawContent), 0o644); err != nil {
		return err
	}

	for _, resource := range artifact.Resources {
		path := filepath.Join(target, filepath.FromSlash(resource.RelPath))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, resource.Data, 0o644); err != nil {
			return err
		}
	}

	return nil
}

// InstalledSkill describes one entry in the skills directory.
type InstalledSkill struct {
	LocalName   string
	Name        string
	Description string
	Directory   string
}

// ListInstalled returns the skills under the directory in lexicographic
// order. Entries without a parseable manifest keep their folder name and
// an empty description.
func (i *Installer) ListInstalled() ([]InstalledSkill, error) {
	entries, err := os.ReadDir(i.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to read skills directory")
	}

	var skills []InstalledSkill
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		dir := filepath.Join(i.dir, entry.Name())
		skill := InstalledSkill{
			LocalName: entry.Name(),
			Name:      entry.Name(),
			Directory: dir,
		}

		if content, err := os.ReadFile(filepath.Join(dir, manifest.FileName)); err == nil {
			if md, err := manifest.Parse(content); err == nil {
				skill.Name = md.Name
				skill.Description = md.Description
			}
		}

		skills = append(skills, skill)
	}

	return skills, nil
}

// Remove deletes an installed skill by local name.
func (i *Installer) Remove(localName string) error {
	target := filepath.Join(i.dir, localName)

	if _, err := os.Stat(target); os.IsNotExist(err) {
		return errors.Errorf("skill %q is not installed", localName)
	}

	return errors.Wrapf(os.RemoveAll(target), "failed to remove %s", localName)
}
