package analyze

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an experienced bug triage analyst. Analyze the provided bug document and report:

1. summary: 3-5 sentences covering the core problem, its scope, and its severity
2. urgent: whether the bug needs an immediate fix (is it high priority?)
3. urgency_reason: 1-2 sentences on why it does or does not need an immediate fix, considering affected users and security risk
4. fix_suggestion: 1-2 sentences proposing how to fix the bug

If the document does not contain enough information to analyze, mark it as having no content.

Return only valid JSON (no code block markers) with these fields:
- summary (string)
- urgent (boolean: true or false)
- urgency_reason (string)
- fix_suggestion (string)
- has_content (boolean: true or false)`

// buildUserPrompt assembles the per-document analysis request.
func buildUserPrompt(bugID, content string) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following bug document.\n\n")
	sb.WriteString(fmt.Sprintf("Bug ID: %s\n\n", bugID))
	sb.WriteString("Document content:\n")
	sb.WriteString(content)
	sb.WriteString("\n\nReturn only JSON, no other text.")
	return sb.String()
}
