package analyze

import "strings"

const fence = "```"

// extractJSON strips at most one markdown code fence from a model
// response. A labeled fence (```json) and an unlabeled fence are both
// recognized; when no fence is present the trimmed raw text is
// returned. Only the span between the first and second fence
// delimiters is kept, so any prose around the block is dropped.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)

	start := strings.Index(s, fence)
	if start < 0 {
		return s
	}
	inner := s[start+len(fence):]
	// Drop the language label up to the first newline, if any.
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
		label := strings.TrimSpace(inner[:nl])
		if isFenceLabel(label) {
			inner = inner[nl+1:]
		}
	}
	end := strings.Index(inner, fence)
	if end < 0 {
		return strings.TrimSpace(inner)
	}
	return strings.TrimSpace(inner[:end])
}

// isFenceLabel reports whether s looks like a fence language label
// rather than content (e.g. "json"). An empty label is fine.
func isFenceLabel(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
