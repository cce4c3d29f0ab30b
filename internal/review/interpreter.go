package review

import (
	"fmt"

	"github.com/mdekker/coderev/internal/capability"
	"github.com/mdekker/coderev/internal/domain"
	"github.com/mdekker/coderev/internal/terminal"
)

const maxTextPreview = 120

// interpreter consumes session events one at a time, in arrival order,
// emitting a progress line per event. The result slot is written at most
// once, on a successful terminal event, and never mutated afterwards.
type interpreter struct {
	logger  *terminal.Logger
	verbose bool
	result  *domain.ReviewResult
}

func newInterpreter(logger *terminal.Logger, verbose bool) *interpreter {
	return &interpreter{
		logger:  logger,
		verbose: verbose,
	}
}

// toolSummarizers maps each known tool name to its one-line argument
// summary. Tools are a closed set; anything not listed here summarizes as
// empty rather than failing.
var toolSummarizers = map[string]func(input map[string]any) string{
	ToolRead: func(input map[string]any) string {
		return stringField(input, "file_path", "file")
	},
	ToolGlob: func(input map[string]any) string {
		return stringField(input, "pattern", "pattern")
	},
	ToolGrep: func(input map[string]any) string {
		pattern := stringField(input, "pattern", "")
		path := stringField(input, "path", ".")
		return fmt.Sprintf("%q in %s", pattern, path)
	},
}

// summarizeTool builds the human-readable argument summary for one tool
// invocation.
func summarizeTool(tool string, input map[string]any) string {
	if summarize, ok := toolSummarizers[tool]; ok {
		return summarize(input)
	}
	return ""
}

// delegationTarget extracts the sub-capability name from a delegation
// invocation, falling back to "unknown" when absent.
func delegationTarget(input map[string]any) string {
	return stringField(input, "subagent_type", "unknown")
}

// stringField returns input[key] if it is a non-empty string, else fallback.
func stringField(input map[string]any, key, fallback string) string {
	if value, ok := input[key].(string); ok && value != "" {
		return value
	}
	return fallback
}

// handle processes one event. Tool invocations and delegations produce
// progress lines; the terminal event validates and records the result.
func (i *interpreter) handle(ev capability.Event) {
	switch e := ev.(type) {
	case capability.ToolUseEvent:
		if e.Tool == ToolDelegate {
			i.logger.Logf(terminal.StyleInfo, "Delegating to %s%s%s",
				terminal.Color(terminal.Bold), delegationTarget(e.Input), terminal.Color(terminal.Reset))
			return
		}
		if summary := summarizeTool(e.Tool, e.Input); summary != "" {
			i.logger.Logf(terminal.StyleDim, "[%s] %s", e.Tool, summary)
		} else {
			i.logger.Logf(terminal.StyleDim, "[%s]", e.Tool)
		}

	case capability.TextEvent:
		if i.verbose {
			text := e.Text
			if len(text) > maxTextPreview {
				text = text[:maxTextPreview] + "..."
			}
			i.logger.Log(text, terminal.StyleDim)
		}

	case capability.ResultEvent:
		i.handleResult(e)
	}
}

// handleResult interprets the terminal event. Validation failures and
// reported non-success statuses are handled here - logged, result left
// unset - and never propagate.
func (i *interpreter) handleResult(e capability.ResultEvent) {
	if e.Subtype != "success" {
		status := e.Subtype
		if status == "" {
			status = "unknown"
		}
		i.logger.Logf(terminal.StyleError, "Review failed: %s", status)
		return
	}
	if e.IsError {
		i.logger.Log("Review failed: engine reported an error", terminal.StyleError)
		return
	}
	if e.Payload == nil {
		i.logger.Log("Review failed: no structured output returned", terminal.StyleError)
		return
	}

	result, err := domain.DecodeResult(e.Payload)
	if err != nil {
		i.logger.Log("Review failed: invalid response structure", terminal.StyleError)
		return
	}

	if i.result != nil {
		// A second terminal event should never arrive; keep the first.
		return
	}
	i.result = result
	i.logger.Logf(terminal.StyleSuccess, "Review complete %s($%.4f)%s",
		terminal.Color(terminal.Dim), e.TotalCostUSD, terminal.Color(terminal.Reset))
}
