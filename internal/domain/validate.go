package domain

import (
	"encoding/json"
	"fmt"
)

// ValidShape reports whether an untyped payload has the structural shape of
// a ReviewResult: a non-nil object with an array-valued "issues", a string
// "summary", and a numeric "overallScore".
//
// The check is shallow. Per-issue fields are not inspected;
// severity and category enum membership is trusted from the output schema
// sent with the request.
func ValidShape(payload any) bool {
	obj, ok := payload.(map[string]any)
	if !ok || obj == nil {
		return false
	}
	if _, ok := obj["issues"].([]any); !ok {
		return false
	}
	if _, ok := obj["summary"].(string); !ok {
		return false
	}
	if _, ok := obj["overallScore"].(float64); !ok {
		return false
	}
	return true
}

// DecodeResult parses raw JSON into a ReviewResult after checking its shape
// with ValidShape. It returns an error rather than a partially-filled result
// when the payload does not conform.
func DecodeResult(raw []byte) (*ReviewResult, error) {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("structured payload is not valid JSON: %w", err)
	}

	if !ValidShape(payload) {
		return nil, fmt.Errorf("structured payload does not match the review result shape")
	}

	var result ReviewResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode review result: %w", err)
	}
	return &result, nil
}
