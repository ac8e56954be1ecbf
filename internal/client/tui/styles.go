package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.Color("#ECA62E")
	danger  = lipgloss.Color("#DA4343")
	muted   = lipgloss.Color("#495158")
	white   = lipgloss.Color("#FFFFFF")
	linkRed = lipgloss.Color("#FF0000")
)

type styles struct {
	logo       lipgloss.Style
	banner     lipgloss.Style
	input      lipgloss.Style
	inputFocus lipgloss.Style
	button     lipgloss.Style
	buttonOn   lipgloss.Style
	buttonOff  lipgloss.Style
	text       lipgloss.Style
	link       lipgloss.Style
	hint       lipgloss.Style
}

func newStyles() styles {
	button := lipgloss.NewStyle().
		Bold(true).
		Foreground(accent).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(muted).
		Padding(0, 3)
	input := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(muted).
		Padding(0, 1).
		Width(36)
	return styles{
		logo:       lipgloss.NewStyle().Bold(true).Foreground(accent).MarginBottom(1),
		banner:     lipgloss.NewStyle().Foreground(white).Background(danger).Padding(0, 2).MarginBottom(1),
		input:      input,
		inputFocus: input.BorderForeground(accent),
		button:     button,
		buttonOn:   button.BorderForeground(accent),
		buttonOff:  button.Foreground(muted),
		text:       lipgloss.NewStyle().MarginTop(1),
		link:       lipgloss.NewStyle().Foreground(linkRed),
		hint:       lipgloss.NewStyle().Foreground(muted),
	}
}

const logo = "O W N E R H U B"
