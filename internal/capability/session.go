package capability

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
)

const (
	// scannerInitialBuffer is the initial buffer size for the scanner (64KB).
	scannerInitialBuffer = 64 * 1024
	// scannerMaxLineSize is the maximum line size the scanner will handle (100MB).
	scannerMaxLineSize = 100 * 1024 * 1024
)

// Session is a single open review session: a lazy, ordered, single-pass
// sequence of Events read from the engine's stream.
//
// The stream is NDJSON. Each line is one wire message; assistant messages
// may carry several content blocks, which surface as individual Events in
// block order. Lines that are not well-formed JSON are counted and skipped
// rather than failing the session.
type Session struct {
	reader      io.ReadCloser
	scanner     *bufio.Scanner
	pending     []Event
	parseErrors int
}

// ExitCoder is an optional interface for readers that can report process
// exit codes. The exit code is only valid after Close() has been called.
type ExitCoder interface {
	ExitCode() int
}

// StderrProvider is an optional interface for readers that capture
// subprocess stderr. Only valid after Close() has been called.
type StderrProvider interface {
	Stderr() string
}

// NewSession wraps a stream reader in a Session. The reader is typically an
// ExecutionResult from a live subprocess, but any NDJSON source works -
// tests feed canned streams through here.
func NewSession(reader io.ReadCloser) *Session {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, scannerInitialBuffer), scannerMaxLineSize)
	return &Session{
		reader:  reader,
		scanner: scanner,
	}
}

// streamLine is one NDJSON line from the engine.
type streamLine struct {
	Type    string `json:"type"`
	Subtype string `json:"subtype"`
	IsError bool   `json:"is_error"`
	Message *struct {
		Content []contentBlock `json:"content"`
	} `json:"message"`
	StructuredOutput json.RawMessage `json:"structured_output"`
	TotalCostUSD     float64         `json:"total_cost_usd"`
	NumTurns         int             `json:"num_turns"`
}

// contentBlock is one block inside an assistant message.
type contentBlock struct {
	Type  string         `json:"type"`
	Name  string         `json:"name"`
	Input map[string]any `json:"input"`
	Text  string         `json:"text"`
}

// Next returns the next Event from the stream, blocking until one arrives.
// Returns (nil, nil) when the stream is exhausted.
// Returns (nil, error) for fatal scanner errors - the caller should stop.
func (s *Session) Next() (Event, error) {
	if len(s.pending) > 0 {
		ev := s.pending[0]
		s.pending = s.pending[1:]
		return ev, nil
	}

	for s.scanner.Scan() {
		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var msg streamLine
		if err := json.Unmarshal(line, &msg); err != nil {
			s.parseErrors++
			continue
		}

		events := decodeLine(&msg)
		if len(events) == 0 {
			continue
		}

		s.pending = events[1:]
		return events[0], nil
	}

	if err := s.scanner.Err(); err != nil {
		return nil, err
	}

	// End of stream
	return nil, nil
}

// decodeLine converts one wire message into zero or more Events.
// Message types other than assistant and result are control chatter
// (session init, tool results) and produce nothing.
func decodeLine(msg *streamLine) []Event {
	switch msg.Type {
	case "assistant":
		if msg.Message == nil {
			return nil
		}
		var events []Event
		for _, block := range msg.Message.Content {
			switch block.Type {
			case "tool_use":
				events = append(events, ToolUseEvent{
					Tool:  block.Name,
					Input: block.Input,
				})
			case "text":
				if block.Text != "" {
					events = append(events, TextEvent{Text: block.Text})
				}
			}
		}
		return events

	case "result":
		return []Event{ResultEvent{
			Subtype:      msg.Subtype,
			IsError:      msg.IsError,
			Payload:      normalizePayload(msg.StructuredOutput),
			TotalCostUSD: msg.TotalCostUSD,
			NumTurns:     msg.NumTurns,
		}}

	default:
		return nil
	}
}

// normalizePayload maps an absent or JSON-null structured_output to nil so
// callers can treat "no payload" uniformly.
func normalizePayload(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return raw
}

// ParseErrors returns the number of malformed stream lines skipped so far.
func (s *Session) ParseErrors() int {
	return s.parseErrors
}

// Close closes the underlying stream. For subprocess-backed sessions this
// waits for the process to exit; ExitCode() and Stderr() are valid after.
func (s *Session) Close() error {
	return s.reader.Close()
}

// ExitCode returns the backend process exit code, or 0 if the underlying
// reader does not report one. Only valid after Close().
func (s *Session) ExitCode() int {
	if coder, ok := s.reader.(ExitCoder); ok {
		return coder.ExitCode()
	}
	return 0
}

// Stderr returns captured backend stderr, or "" if the underlying reader
// does not capture it. Only valid after Close().
func (s *Session) Stderr() string {
	if provider, ok := s.reader.(StderrProvider); ok {
		return provider.Stderr()
	}
	return ""
}
