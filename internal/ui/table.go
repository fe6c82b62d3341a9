// Package ui renders Overview responses to the terminal with lipgloss,
// for the CLI's non-JSON mode.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/untoldecay/timetrack/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	mutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func statusStyle(status model.Status) lipgloss.Style {
	switch status {
	case model.StatusRunning:
		return lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	case model.StatusPaused:
		return lipgloss.NewStyle().Foreground(ColorWarn)
	case model.StatusStopped:
		return lipgloss.NewStyle().Foreground(ColorPass)
	default:
		return mutedStyle
	}
}

// RenderOverview renders an Overview as an indented task tree followed by
// a totals column, with the active task and rest suggestion called out.
func RenderOverview(o *model.Overview) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", headerStyle.Render("range"), o.Range)
	if o.ActiveTaskID != nil {
		fmt.Fprintf(&b, "%s  %s\n", headerStyle.Render("active"), *o.ActiveTaskID)
	} else {
		fmt.Fprintf(&b, "%s  %s\n", headerStyle.Render("active"), mutedStyle.Render("none"))
	}
	b.WriteString("\n")

	byParent := make(map[string][]model.TaskRecord)
	var roots []model.TaskRecord
	for _, t := range o.Tasks {
		if t.ParentID == nil {
			roots = append(roots, t)
		} else {
			byParent[*t.ParentID] = append(byParent[*t.ParentID], t)
		}
	}

	for _, root := range roots {
		renderTaskRow(&b, root, byParent, 0)
	}

	if o.RestSuggestion != nil {
		b.WriteString("\n")
		b.WriteString(RenderRestSuggestion(o.RestSuggestion))
	}

	return b.String()
}

func renderTaskRow(b *strings.Builder, t model.TaskRecord, byParent map[string][]model.TaskRecord, depth int) {
	indent := strings.Repeat("  ", depth)
	tagSuffix := ""
	if len(t.Tags) > 0 {
		tagSuffix = mutedStyle.Render(" #" + strings.Join(t.Tags, " #"))
	}
	fmt.Fprintf(b, "%s%s %s  %s%s\n",
		indent,
		statusStyle(t.Status).Render(string(t.Status)),
		t.Title,
		mutedStyle.Render(fmt.Sprintf("excl=%ds incl=%ds", t.ExclusiveSeconds, t.InclusiveSeconds)),
		tagSuffix,
	)
	for _, child := range byParent[t.ID] {
		renderTaskRow(b, child, byParent, depth+1)
	}
}

// RenderRestSuggestion renders the rest-suggestion banner in a bordered
// box, styled by urgency.
func RenderRestSuggestion(s *model.RestSuggestion) string {
	style := boxStyle.BorderForeground(ColorMuted)
	if s.SuggestedMinutes > 0 {
		style = boxStyle.BorderForeground(ColorWarn)
	}

	var b strings.Builder
	if s.SuggestedMinutes > 0 {
		fmt.Fprintf(&b, "Consider a %d minute break.\n", s.SuggestedMinutes)
	} else {
		b.WriteString("No break needed right now.\n")
	}
	for _, reason := range s.Reasons {
		fmt.Fprintf(&b, "- %s\n", reason)
	}
	return style.Render(strings.TrimRight(b.String(), "\n"))
}
