package main

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.AdaptiveColor{Light: "#5A4FCF", Dark: "#B4A9FF"}
	successColor = lipgloss.AdaptiveColor{Light: "#1E7D32", Dark: "#A6E3A1"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#F38BA8"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#6C6F85", Dark: "#7F849C"}
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)
