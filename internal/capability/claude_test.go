package capability

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"
)

func TestBuildClaudeArgs_Full(t *testing.T) {
	req := &Request{
		Prompt:         "review this directory",
		Model:          "sonnet",
		AllowedTools:   []string{"Read", "Glob", "Grep", "Task"},
		PermissionMode: "bypassPermissions",
		MaxTurns:       50,
		OutputSchema:   json.RawMessage(`{"type":"object"}`),
		Agents: map[string]AgentDef{
			"security-reviewer": {
				Description: "Security analysis",
				Prompt:      "find vulnerabilities",
				Tools:       []string{"Read", "Grep"},
			},
		},
	}

	args, err := buildClaudeArgs(req)
	if err != nil {
		t.Fatalf("buildClaudeArgs() error = %v", err)
	}

	wantPairs := map[string]string{
		"-p":                "review this directory",
		"--output-format":   "stream-json",
		"--model":           "sonnet",
		"--allowedTools":    "Read,Glob,Grep,Task",
		"--permission-mode": "bypassPermissions",
		"--max-turns":       "50",
		"--json-schema":     `{"type":"object"}`,
	}
	for flag, want := range wantPairs {
		idx := slices.Index(args, flag)
		if idx < 0 || idx+1 >= len(args) {
			t.Errorf("missing flag %s in %v", flag, args)
			continue
		}
		if args[idx+1] != want {
			t.Errorf("%s = %q, want %q", flag, args[idx+1], want)
		}
	}

	if !slices.Contains(args, "--verbose") {
		t.Error("missing --verbose")
	}

	agentsIdx := slices.Index(args, "--agents")
	if agentsIdx < 0 {
		t.Fatalf("missing --agents in %v", args)
	}
	var agents map[string]AgentDef
	if err := json.Unmarshal([]byte(args[agentsIdx+1]), &agents); err != nil {
		t.Fatalf("--agents value is not valid JSON: %v", err)
	}
	def, ok := agents["security-reviewer"]
	if !ok {
		t.Fatal("security-reviewer missing from --agents")
	}
	if def.Prompt != "find vulnerabilities" || len(def.Tools) != 2 {
		t.Errorf("security-reviewer def = %+v", def)
	}
}

func TestBuildClaudeArgs_Minimal(t *testing.T) {
	args, err := buildClaudeArgs(&Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("buildClaudeArgs() error = %v", err)
	}

	joined := strings.Join(args, " ")
	for _, flag := range []string{"--model", "--allowedTools", "--max-turns", "--json-schema", "--agents", "--permission-mode"} {
		if strings.Contains(joined, flag) {
			t.Errorf("unexpected %s in minimal args: %v", flag, args)
		}
	}
}

func TestNew(t *testing.T) {
	c, err := New("claude")
	if err != nil {
		t.Fatalf("New(claude) error = %v", err)
	}
	if c.Name() != "claude" {
		t.Errorf("Name() = %q, want claude", c.Name())
	}

	if _, err := New("gpt"); err == nil {
		t.Error("New(gpt) expected error")
	}
}
