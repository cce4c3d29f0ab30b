package domain

import "encoding/json"

// ResultSchema is the JSON schema the capability is asked to conform its
// structured output to. The same shape is re-checked on receipt by
// ValidShape - a schema sent with the request is a hint, not a guarantee.
const ResultSchema = `{
  "type": "object",
  "properties": {
    "issues": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "severity": {"type": "string", "enum": ["low", "medium", "high", "critical"]},
          "category": {"type": "string", "enum": ["bug", "security", "performance", "style"]},
          "file": {"type": "string"},
          "line": {"type": "number"},
          "description": {"type": "string"},
          "suggestion": {"type": "string"}
        },
        "required": ["severity", "category", "file", "description"]
      }
    },
    "summary": {"type": "string"},
    "overallScore": {"type": "number"}
  },
  "required": ["issues", "summary", "overallScore"]
}`

// ResultSchemaJSON returns the schema as raw JSON for embedding in a
// capability request.
func ResultSchemaJSON() json.RawMessage {
	return json.RawMessage(ResultSchema)
}
