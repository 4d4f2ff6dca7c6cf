// Package ui provides the interactive repository picker shown before a
// batch extraction.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillscout/pkg/types"
)

type repoItem struct {
	repo     types.RepositoryRef
	selected bool
}

// Model is the bubbletea model for the repository multi-select.
type Model struct {
	items     []repoItem
	cursor    int
	confirmed bool
	width     int
	height    int
}

// NewModel builds a picker over the given repositories, all selected by
// default.
func NewModel(repos []types.RepositoryRef) Model {
	items := make([]repoItem, len(repos))
	for i, repo := range repos {
		items[i] = repoItem{repo: repo, selected: true}
	}
	return Model{items: items}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Confirmed reports whether the user accepted the selection rather than
// quitting out.
func (m Model) Confirmed() bool {
	return m.confirmed
}

// Selected returns the chosen repositories in display order.
func (m Model) Selected() []types.RepositoryRef {
	var repos []types.RepositoryRef
	for _, item := range m.items {
		if item.selected {
			repos = append(repos, item.repo)
		}
	}
	return repos
}

// SelectRepositories runs the picker and returns the confirmed selection.
// Quitting without confirming returns an error.
func SelectRepositories(repos []types.RepositoryRef) ([]types.RepositoryRef, error) {
	program := tea.NewProgram(NewModel(repos))
	final, err := program.Run()
	if err != nil {
		return nil, errors.Wrap(err, "repository picker failed")
	}

	model, ok := final.(Model)
	if !ok || !model.Confirmed() {
		return nil, errors.New("selection cancelled")
	}
	return model.Selected(), nil
}
