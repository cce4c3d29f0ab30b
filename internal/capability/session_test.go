package capability

import (
	"io"
	"strings"
	"testing"
)

// drain reads every event from a session built over the given NDJSON stream.
func drain(t *testing.T, stream string) []Event {
	t.Helper()
	session := NewSession(io.NopCloser(strings.NewReader(stream)))
	defer session.Close()

	var events []Event
	for {
		ev, err := session.Next()
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if ev == nil {
			return events
		}
		events = append(events, ev)
	}
}

func TestSession_ToolUseEvents(t *testing.T) {
	stream := `{"type":"system","subtype":"init","session_id":"abc"}
{"type":"assistant","message":{"content":[{"type":"tool_use","name":"Read","input":{"file_path":"main.go"}}]}}
{"type":"assistant","message":{"content":[{"type":"tool_use","name":"Grep","input":{"pattern":"TODO","path":"internal"}}]}}
`

	events := drain(t, stream)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	first, ok := events[0].(ToolUseEvent)
	if !ok {
		t.Fatalf("events[0] = %T, want ToolUseEvent", events[0])
	}
	if first.Tool != "Read" {
		t.Errorf("Tool = %q, want Read", first.Tool)
	}
	if got := first.Input["file_path"]; got != "main.go" {
		t.Errorf("Input[file_path] = %v, want main.go", got)
	}

	second := events[1].(ToolUseEvent)
	if second.Tool != "Grep" || second.Input["pattern"] != "TODO" {
		t.Errorf("second event = %+v, want Grep/TODO", second)
	}
}

func TestSession_MultipleBlocksPerLine(t *testing.T) {
	stream := `{"type":"assistant","message":{"content":[{"type":"text","text":"checking auth"},{"type":"tool_use","name":"Read","input":{"file_path":"auth.go"}}]}}
`

	events := drain(t, stream)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if text, ok := events[0].(TextEvent); !ok || text.Text != "checking auth" {
		t.Errorf("events[0] = %+v, want TextEvent 'checking auth'", events[0])
	}
	if tool, ok := events[1].(ToolUseEvent); !ok || tool.Tool != "Read" {
		t.Errorf("events[1] = %+v, want ToolUseEvent Read", events[1])
	}
}

func TestSession_ResultEvent(t *testing.T) {
	stream := `{"type":"result","subtype":"success","is_error":false,"num_turns":12,"total_cost_usd":0.0734,"structured_output":{"issues":[],"summary":"clean","overallScore":95}}
`

	events := drain(t, stream)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	result, ok := events[0].(ResultEvent)
	if !ok {
		t.Fatalf("events[0] = %T, want ResultEvent", events[0])
	}
	if result.Subtype != "success" || result.IsError {
		t.Errorf("result = %+v, want success/not-error", result)
	}
	if result.TotalCostUSD != 0.0734 {
		t.Errorf("TotalCostUSD = %v, want 0.0734", result.TotalCostUSD)
	}
	if result.NumTurns != 12 {
		t.Errorf("NumTurns = %d, want 12", result.NumTurns)
	}
	if result.Payload == nil {
		t.Fatal("Payload = nil, want structured output")
	}
	if !strings.Contains(string(result.Payload), `"summary":"clean"`) {
		t.Errorf("Payload = %s, want summary field", result.Payload)
	}
}

func TestSession_ResultWithoutPayload(t *testing.T) {
	tests := []struct {
		name   string
		stream string
	}{
		{"absent", `{"type":"result","subtype":"error_max_turns","is_error":true,"num_turns":50}` + "\n"},
		{"null", `{"type":"result","subtype":"success","structured_output":null}` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := drain(t, tt.stream)
			if len(events) != 1 {
				t.Fatalf("got %d events, want 1", len(events))
			}
			result := events[0].(ResultEvent)
			if result.Payload != nil {
				t.Errorf("Payload = %s, want nil", result.Payload)
			}
		})
	}
}

func TestSession_SkipsChatterAndMalformedLines(t *testing.T) {
	stream := `{"type":"system","subtype":"init"}
not json at all
{"type":"user","message":{"content":[{"type":"tool_result","content":"file contents"}]}}

{"type":"assistant","message":{"content":[{"type":"tool_use","name":"Glob","input":{"pattern":"**/*.go"}}]}}
`

	session := NewSession(io.NopCloser(strings.NewReader(stream)))
	defer session.Close()

	ev, err := session.Next()
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	tool, ok := ev.(ToolUseEvent)
	if !ok || tool.Tool != "Glob" {
		t.Errorf("event = %+v, want Glob tool use", ev)
	}

	if ev, err := session.Next(); ev != nil || err != nil {
		t.Errorf("Next() after end = (%v, %v), want (nil, nil)", ev, err)
	}

	if session.ParseErrors() != 1 {
		t.Errorf("ParseErrors() = %d, want 1", session.ParseErrors())
	}
}

func TestSession_EmptyStream(t *testing.T) {
	events := drain(t, "")
	if len(events) != 0 {
		t.Errorf("got %d events from empty stream, want 0", len(events))
	}
}
