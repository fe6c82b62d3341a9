package ui

import "github.com/charmbracelet/lipgloss"

// Semantic colors, named once and reused across every rendered view.
var (
	ColorAccent = lipgloss.Color("39")  // running task, headers
	ColorWarn   = lipgloss.Color("214") // paused task, rest suggestion banner
	ColorPass   = lipgloss.Color("42")  // stopped task
	ColorMuted  = lipgloss.Color("243") // idle task, secondary text
)
