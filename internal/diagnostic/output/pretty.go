package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"netcheck/internal/diagnostic/domain"
)

func RenderPretty(report *domain.Report) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).Render("netcheck")
	stepStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	successStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	warningStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	failureStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	lines := []string{title, stepStyle.Render(report.TargetURL), ""}

	for _, step := range report.Steps {
		label := statusLabel(step.Status, successStyle, warningStyle, failureStyle)
		line := fmt.Sprintf("%s %-9s %s", label, step.ID, step.ResultText)
		if step.Recommendation != "" {
			line += " (" + step.Recommendation + ")"
		}
		lines = append(lines, stepStyle.Render(line))
	}

	lines = append(lines, "")
	summary := fmt.Sprintf("%s score=%d", strings.ToUpper(string(report.OverallStatus)), report.Score)
	switch report.OverallStatus {
	case domain.OverallExcellent, domain.OverallGood:
		lines = append(lines, successStyle.Render(summary))
	case domain.OverallAcceptable, domain.OverallPoor:
		lines = append(lines, warningStyle.Render(summary))
	default:
		lines = append(lines, failureStyle.Render(summary))
	}

	for _, issue := range report.Issues {
		lines = append(lines, fmt.Sprintf("[%s/%s] %s: %s", issue.Category, issue.Severity, issue.Title, issue.Description))
	}
	if len(report.Recommendations) > 0 {
		lines = append(lines, "Recommendations:")
		for _, rec := range report.Recommendations {
			lines = append(lines, "- "+rec)
		}
	}

	return strings.Join(lines, "\n")
}

func statusLabel(status domain.StepStatus, ok, warn, fail lipgloss.Style) string {
	switch status {
	case domain.StatusSuccess:
		return ok.Render("OK  ")
	case domain.StatusWarning:
		return warn.Render("WARN")
	case domain.StatusError:
		return fail.Render("FAIL")
	case domain.StatusRunning:
		return "RUN "
	case domain.StatusPending:
		return "--  "
	}
	return "?   "
}
