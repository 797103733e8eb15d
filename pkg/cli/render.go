package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/platinummonkey/pluginloader/pkg/plugins"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	foundStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	missingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	labelStyle   = lipgloss.NewStyle().Width(10).Foreground(lipgloss.Color("245"))
)

// outcomeStyles colours attempt outcomes
var outcomeStyles = map[plugins.Outcome]lipgloss.Style{
	plugins.OutcomeLoaded:   foundStyle,
	plugins.OutcomeRejected: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	plugins.OutcomeFailed:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	plugins.OutcomeSkipped:  dimStyle,
}

// renderReport renders one resolution report. Attempts are listed when
// verbose is set or the plugin was not found.
func renderReport(r plugins.Report, verbose bool) string {
	var status string
	if r.Found {
		status = foundStyle.Render("✔ " + r.Identifier)
	} else {
		status = missingStyle.Render("✘ " + r.Identifier)
	}

	lines := []string{status}
	if r.Found {
		lines = append(lines,
			field("strategy", r.Strategy),
			field("path", r.Path),
		)
		if r.PluginName != "" {
			lines = append(lines, field("plugin", r.PluginName))
		}
		if len(r.Exports) > 0 {
			lines = append(lines, field("exports", strings.Join(r.Exports, ", ")))
		}
	} else if r.LastError != "" {
		lines = append(lines, field("error", r.LastError))
	}
	lines = append(lines, field("took", fmt.Sprintf("%.2fms", r.DurationMS)))

	if verbose || !r.Found {
		lines = append(lines, renderAttempts(r.Attempts))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func field(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, "  ", labelStyle.Render(label), value)
}

func renderAttempts(attempts []plugins.AttemptEntry) string {
	rows := make([]string, 0, len(attempts))
	for i, a := range attempts {
		style, ok := outcomeStyles[a.Outcome]
		if !ok {
			style = dimStyle
		}
		row := fmt.Sprintf("    %d. %-20s %s", i+1, a.Strategy, style.Render(string(a.Outcome)))
		if a.Path != "" {
			row += dimStyle.Render("  " + a.Path)
		}
		if a.Error != "" && a.Outcome != plugins.OutcomeSkipped {
			row += "\n       " + dimStyle.Render(a.Error)
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

// renderStrategies renders the strategy order as a numbered list
func renderStrategies(names []string) string {
	lines := []string{titleStyle.Render("Resolution order")}
	for i, name := range names {
		lines = append(lines, fmt.Sprintf("  %d. %s", i+1, name))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
