package report

// Badge classifies a bug section in the report.
type Badge string

const (
	BadgeUrgent    Badge = "urgent"
	BadgeDeferred  Badge = "deferred"
	BadgeNoContent Badge = "no-content"
)

// DeriveBadge maps an analysis outcome to its badge. Urgent wins over
// everything else, even when the document had no content.
func DeriveBadge(urgent, hasContent bool) Badge {
	switch {
	case urgent:
		return BadgeUrgent
	case hasContent:
		return BadgeDeferred
	default:
		return BadgeNoContent
	}
}

// Markdown renders the badge as shown in report headings.
func (b Badge) Markdown() string {
	switch b {
	case BadgeUrgent:
		return "🔴 **Urgent**"
	case BadgeDeferred:
		return "🟢 **Deferred**"
	default:
		return "⚪ **No content**"
	}
}
