package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	itemStyle = lipgloss.NewStyle().PaddingLeft(2)

	selectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(2).
				Foreground(lipgloss.Color("170"))

	descriptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			PaddingTop(1)
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Select repositories") + "\n\n")

	for i, item := range m.items {
		checkbox := "[ ]"
		if item.selected {
			checkbox = "[x]"
		}

		line := fmt.Sprintf("%s %s", checkbox, item.repo.FullName())
		if item.repo.Description != "" {
			line += " " + descriptionStyle.Render(truncate(item.repo.Description, 60))
		}

		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString(itemStyle.Render("  "+line) + "\n")
		}
	}

	b.WriteString(footerStyle.Render(fmt.Sprintf(
		"%d/%d selected · space toggle · a all · enter confirm · q quit",
		len(m.Selected()), len(m.items),
	)))

	return b.String()
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
