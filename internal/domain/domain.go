// Package domain provides core types for the code reviewer.
package domain

// Severity is the priority level of a review issue.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SeverityOrder lists severities in fixed rendering priority, most dangerous first.
var SeverityOrder = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Category classifies what kind of problem an issue describes.
type Category string

const (
	CategoryBug         Category = "bug"
	CategorySecurity    Category = "security"
	CategoryPerformance Category = "performance"
	CategoryStyle       Category = "style"
)

// Issue is a single finding reported by the review agent.
// File is the path as the agent reported it; it is not re-validated
// against the filesystem.
type Issue struct {
	Severity    Severity `json:"severity"`
	Category    Category `json:"category"`
	File        string   `json:"file"`
	Line        int      `json:"line,omitempty"`
	Description string   `json:"description"`
	Suggestion  string   `json:"suggestion,omitempty"`
}

// ReviewResult is the structured deliverable of one review session.
// Issues keep the order the agent emitted them; sorting happens at render
// time. OverallScore carries whatever number the agent returned - it is
// presented as N/100 but never clamped.
type ReviewResult struct {
	Issues       []Issue `json:"issues"`
	Summary      string  `json:"summary"`
	OverallScore float64 `json:"overallScore"`
}

// BySeverity partitions issues into severity buckets. The partition is
// stable: within each bucket, issues keep their original relative order.
// Issues with an unknown severity value fall into no bucket.
func BySeverity(issues []Issue) map[Severity][]Issue {
	buckets := make(map[Severity][]Issue, len(SeverityOrder))
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow:
			buckets[issue.Severity] = append(buckets[issue.Severity], issue)
		}
	}
	return buckets
}
