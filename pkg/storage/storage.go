// Package storage persists discovered repositories and installed-artifact
// records as JSON files between runs.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/jingkaihe/skillscout/pkg/types"
)

// Default file names inside the storage directory.
const (
	ReposFile     = "repos.json"
	InstalledFile = "installed.json"
)

// InstalledRecord tracks one installed artifact for skip-existing
// bookkeeping across runs.
type InstalledRecord struct {
	LocalName   string    `json:"local_name"`
	SourceRepo  string    `json:"source_repo"`
	SourceURL   string    `json:"source_url"`
	Confidence  float64   `json:"confidence"`
	InstalledAt time.Time `json:"installed_at"`
}

// Store reads and writes the JSON files under a single directory.
type Store struct {
	dir string
}

// New creates a Store rooted at dir. The directory is created on first write.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// ReposPath returns the path of the repository list file.
func (s *Store) ReposPath() string {
	return filepath.Join(s.dir, ReposFile)
}

// HasRepos reports whether a repository list has been saved.
func (s *Store) HasRepos() bool {
	_, err := os.Stat(s.ReposPath())
	return err == nil
}

// SaveRepos writes the repository list, replacing any previous one.
func (s *Store) SaveRepos(repos []types.RepositoryRef) error {
	return s.writeJSON(s.ReposPath(), repos)
}

// LoadRepos reads the repository list. A missing file yields an empty list.
func (s *Store) LoadRepos() ([]types.RepositoryRef, error) {
	var repos []types.RepositoryRef
	if err := s.readJSON(s.ReposPath(), &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

func (s *Store) installedPath() string {
	return filepath.Join(s.dir, InstalledFile)
}

// LoadInstalled reads the installed records keyed by local name. A missing
// file yields an empty map.
func (s *Store) LoadInstalled() (map[string]InstalledRecord, error) {
	records := make(map[string]InstalledRecord)
	if err := s.readJSON(s.installedPath(), &records); err != nil {
		return nil, err
	}
	return records, nil
}

// RecordInstalled merges the given records into the installed file.
func (s *Store) RecordInstalled(records []InstalledRecord) error {
	existing, err := s.LoadInstalled()
	if err != nil {
		return err
	}

	for _, record := range records {
		existing[record.LocalName] = record
	}

	return s.writeJSON(s.installedPath(), existing)
}

// ForgetInstalled drops a record, typically after a skill is removed.
func (s *Store) ForgetInstalled(localName string) error {
	existing, err := s.LoadInstalled()
	if err != nil {
		return err
	}

	if _, ok := existing[localName]; !ok {
		return nil
	}
	delete(existing, localName)

	return s.writeJSON(s.installedPath(), existing)
}

func (s *Store) writeJSON(path string, v any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrap(err, "failed to create storage directory")
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", filepath.Base(path))
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", filepath.Base(path))
	}
	return nil
}

func (s *Store) readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "failed to read %s", filepath.Base(path))
	}

	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "failed to decode %s", filepath.Base(path))
	}
	return nil
}
