package review

import (
	"strings"
	"testing"

	"github.com/mdekker/coderev/internal/domain"
	"github.com/mdekker/coderev/internal/terminal"
)

func TestRenderReport(t *testing.T) {
	result := &domain.ReviewResult{
		Issues: []domain.Issue{
			{Severity: domain.SeverityLow, Category: domain.CategoryStyle, File: "util.go", Line: 3, Description: "Unused helper"},
			{Severity: domain.SeverityCritical, Category: domain.CategorySecurity, File: "auth.go", Line: 42, Description: "SQL injection in login query", Suggestion: "Use parameterized queries"},
			{Severity: domain.SeverityCritical, Category: domain.CategoryBug, File: "main.go", Description: "Nil deref on startup"},
		},
		Summary:      "Two critical issues and one minor cleanup.",
		OverallScore: 55,
	}

	var out string
	terminal.WithColorsDisabled(func() {
		out = RenderReport(result)
	})

	for _, want := range []string{
		"55/100",
		"3 issues",
		"Two critical issues and one minor cleanup.",
		"CRITICAL (2)",
		"LOW (1)",
		"auth.go:42",
		"[security]",
		"↳ Use parameterized queries",
		"util.go:3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q\n%s", want, out)
		}
	}

	// Severity groups render most severe first.
	if strings.Index(out, "CRITICAL") > strings.Index(out, "LOW") {
		t.Error("critical group should precede low group")
	}
	// Arrival order is preserved within a group.
	if strings.Index(out, "auth.go:42") > strings.Index(out, "main.go") {
		t.Error("issue order within a group should match arrival order")
	}
}

// The output schema constrains severities to the four known values, so an
// unrecognized severity should not occur in practice. When one does slip
// through, the header still counts it even though no group lists it.
func TestRenderReportUnknownSeverityCountedButUnlisted(t *testing.T) {
	result := &domain.ReviewResult{
		Issues: []domain.Issue{
			{Severity: domain.SeverityHigh, Category: domain.CategoryBug, File: "a.go", Description: "Off by one"},
			{Severity: domain.Severity("blocker"), Category: domain.CategoryBug, File: "b.go", Description: "Made-up severity"},
		},
		Summary:      "Mixed severities.",
		OverallScore: 70,
	}

	var out string
	terminal.WithColorsDisabled(func() {
		out = RenderReport(result)
	})

	if !strings.Contains(out, "2 issues") {
		t.Errorf("header should count all issues\n%s", out)
	}
	if strings.Contains(out, "b.go") {
		t.Errorf("unrecognized severity should not be rendered in any group\n%s", out)
	}
	if strings.Contains(out, "BLOCKER") {
		t.Errorf("no group should exist for an unrecognized severity\n%s", out)
	}
}

func TestRenderReportSkipsEmptyGroups(t *testing.T) {
	result := &domain.ReviewResult{
		Issues: []domain.Issue{
			{Severity: domain.SeverityLow, Category: domain.CategoryStyle, File: "a.go", Description: "Minor"},
		},
		Summary:      "Minor issues only.",
		OverallScore: 92,
	}

	var out string
	terminal.WithColorsDisabled(func() {
		out = RenderReport(result)
	})

	for _, absent := range []string{"CRITICAL", "HIGH", "MEDIUM"} {
		if strings.Contains(out, absent) {
			t.Errorf("report should not contain empty group %q\n%s", absent, out)
		}
	}
	if !strings.Contains(out, "LOW (1)") {
		t.Errorf("report missing LOW group\n%s", out)
	}
	if !strings.Contains(out, "1 issue") || strings.Contains(out, "1 issues") {
		t.Errorf("report should use singular issue count\n%s", out)
	}
}

func TestRenderReportNoIssues(t *testing.T) {
	result := &domain.ReviewResult{
		Issues:       []domain.Issue{},
		Summary:      "Clean.",
		OverallScore: 100,
	}

	var out string
	terminal.WithColorsDisabled(func() {
		out = RenderReport(result)
	})

	if !strings.Contains(out, "100/100") {
		t.Errorf("report missing score\n%s", out)
	}
	if !strings.Contains(out, "0 issues") {
		t.Errorf("report missing issue count\n%s", out)
	}
}

func TestRenderReportLocationWithoutLine(t *testing.T) {
	result := &domain.ReviewResult{
		Issues: []domain.Issue{
			{Severity: domain.SeverityHigh, Category: domain.CategoryPerformance, File: "cache.go", Description: "Unbounded growth"},
		},
		Summary:      "One issue.",
		OverallScore: 70,
	}

	var out string
	terminal.WithColorsDisabled(func() {
		out = RenderReport(result)
	})

	if strings.Contains(out, "cache.go:") {
		t.Errorf("location should not include a line suffix when line is absent\n%s", out)
	}
	if !strings.Contains(out, "cache.go") {
		t.Errorf("report missing file location\n%s", out)
	}
}

func TestFormatScore(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{85, "85"},
		{85.5, "85.5"},
		{0, "0"},
		{100, "100"},
		{120, "120"},
		{-3, "-3"},
	}

	for _, tt := range tests {
		if got := formatScore(tt.score); got != tt.want {
			t.Errorf("formatScore(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
