package analyses

import (
	"fmt"
	"strings"
)

const reportTimestampLayout = "2006-01-02 15:04:05"

// RenderRecord renders one COMPLETE analysis into the plaintext export format.
func RenderRecord(a Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- Analysis ID: %d ---\n", a.ID)
	fmt.Fprintf(&b, "Timestamp: %s\n", a.CreatedAt.UTC().Format(reportTimestampLayout))
	fmt.Fprintf(&b, "Original Ticket: \"%s\"\n", a.TicketText)
	if a.Result != nil {
		fmt.Fprintf(&b, "Emotion: %s\n", a.Result.Emotion)
		fmt.Fprintf(&b, "Topic: %s\n", a.Result.Topic)
		fmt.Fprintf(&b, "Urgency: %d/10\n", a.Result.UrgencyScore)
		fmt.Fprintf(&b, "Summary: %s\n", a.Result.Summary)
	}
	return b.String()
}

// RenderReport renders a sequence of COMPLETE analyses, one block per record
// separated by a blank line.
func RenderReport(records []Analysis) string {
	blocks := make([]string, 0, len(records))
	for _, a := range records {
		blocks = append(blocks, RenderRecord(a))
	}
	return strings.Join(blocks, "\n")
}
