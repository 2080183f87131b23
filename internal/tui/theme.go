package tui

import "github.com/charmbracelet/lipgloss"

type theme struct {
	title   lipgloss.Style
	sidebar lipgloss.Style
	content lipgloss.Style
	cursor  lipgloss.Style
	active  lipgloss.Style
	status  lipgloss.Style
}

func themeFor(dark bool) theme {
	accent, muted, border := lipgloss.Color("#0969da"), lipgloss.Color("#59636e"), lipgloss.Color("#d1d9e0")
	if dark {
		accent, muted, border = lipgloss.Color("#4493f8"), lipgloss.Color("#9198a1"), lipgloss.Color("#3d444d")
	}
	return theme{
		title:   lipgloss.NewStyle().Bold(true).Foreground(accent),
		sidebar: lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, true, false, false).BorderForeground(border).PaddingRight(1),
		content: lipgloss.NewStyle().PaddingLeft(1),
		cursor:  lipgloss.NewStyle().Reverse(true),
		active:  lipgloss.NewStyle().Bold(true).Foreground(accent),
		status:  lipgloss.NewStyle().Foreground(muted),
	}
}

func joinHorizontal(left, right string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}
