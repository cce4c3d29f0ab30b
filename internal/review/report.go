package review

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mdekker/coderev/internal/domain"
	"github.com/mdekker/coderev/internal/terminal"
)

// severityGlyphs maps each severity to its report marker and color.
var severityGlyphs = map[domain.Severity]struct {
	glyph string
	color string
}{
	domain.SeverityCritical: {"✗", terminal.Red},
	domain.SeverityHigh:     {"⚠", terminal.Yellow},
	domain.SeverityMedium:   {"•", terminal.Cyan},
	domain.SeverityLow:      {"ℹ", terminal.Dim},
}

// RenderReport formats a review result for stdout. Issues are grouped by
// severity, most severe first, preserving arrival order within each group.
// Empty groups are omitted.
func RenderReport(result *domain.ReviewResult) string {
	var b strings.Builder
	width := terminal.ReportWidth()

	b.WriteString(terminal.Ruler(width, "="))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s%sCode Review%s\n", terminal.Color(terminal.Bold), terminal.Color(terminal.White), terminal.Color(terminal.Reset)))
	b.WriteString(fmt.Sprintf("%sScore:%s %s/100", terminal.Color(terminal.Dim), terminal.Color(terminal.Reset), formatScore(result.OverallScore)))
	b.WriteString(fmt.Sprintf("  %s%s%s", terminal.Color(terminal.Dim), issueCount(len(result.Issues)), terminal.Color(terminal.Reset)))
	b.WriteString("\n")
	b.WriteString(terminal.Ruler(width, "="))
	b.WriteString("\n")

	if summary := strings.TrimSpace(result.Summary); summary != "" {
		b.WriteString("\n")
		b.WriteString(terminal.WrapText(summary, width, ""))
		b.WriteString("\n")
	}

	buckets := domain.BySeverity(result.Issues)
	for _, sev := range domain.SeverityOrder {
		issues := buckets[sev]
		if len(issues) == 0 {
			continue
		}
		b.WriteString("\n")
		b.WriteString(renderBucket(sev, issues, width))
	}

	return b.String()
}

func renderBucket(sev domain.Severity, issues []domain.Issue, width int) string {
	var b strings.Builder
	style := severityGlyphs[sev]

	b.WriteString(fmt.Sprintf("%s%s%s %s (%d)%s\n",
		terminal.Color(style.color), style.glyph,
		terminal.Color(terminal.Bold), strings.ToUpper(string(sev)),
		len(issues), terminal.Color(terminal.Reset)))
	b.WriteString(terminal.Ruler(width, "-"))
	b.WriteString("\n")

	for _, issue := range issues {
		b.WriteString(renderIssue(issue, width))
	}
	return b.String()
}

func renderIssue(issue domain.Issue, width int) string {
	var b strings.Builder

	location := issue.File
	if issue.Line > 0 {
		location = fmt.Sprintf("%s:%d", issue.File, issue.Line)
	}
	b.WriteString(fmt.Sprintf("  %s%s%s %s[%s]%s\n",
		terminal.Color(terminal.Bold), location, terminal.Color(terminal.Reset),
		terminal.Color(terminal.Dim), issue.Category, terminal.Color(terminal.Reset)))

	b.WriteString(terminal.WrapText(issue.Description, width, "  "))
	b.WriteString("\n")

	if issue.Suggestion != "" {
		suggestion := terminal.WrapText(issue.Suggestion, width, "    ")
		suggestion = strings.TrimPrefix(suggestion, "    ")
		b.WriteString(fmt.Sprintf("    %s↳ %s%s\n",
			terminal.Color(terminal.Green), suggestion, terminal.Color(terminal.Reset)))
	}
	b.WriteString("\n")
	return b.String()
}

// formatScore renders the score without a forced decimal point, so whole
// scores read as integers.
func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func issueCount(n int) string {
	if n == 1 {
		return "1 issue"
	}
	return fmt.Sprintf("%d issues", n)
}
