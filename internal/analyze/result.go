package analyze

import "encoding/json"

// Result is the structured outcome of analyzing one bug document.
type Result struct {
	BugID         string `json:"bug_id"`
	Summary       string `json:"summary"`
	Urgent        bool   `json:"urgent"`
	UrgencyReason string `json:"urgency_reason"`
	FixSuggestion string `json:"fix_suggestion"`
	HasContent    bool   `json:"has_content"`
}

// parseResult decodes a model response into a Result. has_content
// defaults to true when the field is absent.
func parseResult(data []byte) (Result, error) {
	res := Result{HasContent: true}
	if err := json.Unmarshal(data, &res); err != nil {
		return Result{}, err
	}
	return res, nil
}

// noContentResult is the deterministic result for empty documents.
func noContentResult(bugID string) Result {
	return Result{
		BugID:         bugID,
		Summary:       "No content",
		Urgent:        false,
		UrgencyReason: "document is empty or has no usable content",
		FixSuggestion: "none",
		HasContent:    false,
	}
}
