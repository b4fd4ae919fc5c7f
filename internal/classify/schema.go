package classify

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Closed answer schemas for the two question sets. Responses that fail
// validation are treated as classifier failure so the caller degrades to
// the rule-based path instead of acting on malformed output.

const bookAnalysisSchema = `{
	"type": "object",
	"required": ["genre", "tone", "audience", "pacing"],
	"properties": {
		"genre":    {"type": "string", "minLength": 1},
		"tone":     {"type": "string", "minLength": 1},
		"audience": {"type": "string", "minLength": 1},
		"pacing":   {"type": "string", "minLength": 1},
		"style":    {"type": "string"},
		"accent":   {"type": "string"},
		"narrator_gender": {"type": "string"}
	}
}`

const epilogueAnswerSchema = `{
	"type": "object",
	"required": ["has_epilogue"],
	"properties": {
		"has_epilogue":      {"type": "boolean"},
		"start_page_offset": {"type": "integer", "minimum": 0},
		"confidence":        {"type": "integer", "minimum": 0, "maximum": 100}
	}
}`

var (
	bookAnalysisValidator   = jsonschema.MustCompileString("book_analysis.json", bookAnalysisSchema)
	epilogueAnswerValidator = jsonschema.MustCompileString("epilogue_answer.json", epilogueAnswerSchema)

	jsonObject = regexp.MustCompile(`(?s)\{.*\}`)
)

// extractJSON pulls the first JSON object out of a model response, which
// may wrap it in prose or a code fence.
func extractJSON(content string) ([]byte, error) {
	m := jsonObject.FindString(content)
	if m == "" {
		return nil, fmt.Errorf("no JSON object in response")
	}
	return []byte(m), nil
}

// validateAndDecode checks raw against schema, then decodes into out.
func validateAndDecode(schema *jsonschema.Schema, raw []byte, out any) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("failed to parse response JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("response failed schema validation: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
