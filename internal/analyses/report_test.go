package analyses

import (
	"strings"
	"testing"
	"time"
)

func completedRecord(id int64, text string, urgency int) Analysis {
	return Analysis{
		ID:         id,
		Status:     StatusComplete,
		TicketText: text,
		Result: &Result{
			Emotion:      "anger",
			Summary:      "User reports repeated crashes.",
			Topic:        "Crashes",
			UrgencyScore: urgency,
		},
		CreatedAt: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
	}
}

func TestRenderRecordTemplate(t *testing.T) {
	doc := RenderRecord(completedRecord(7, "The app crashes on login", 9))

	want := `--- Analysis ID: 7 ---
Timestamp: 2026-01-15 10:30:00
Original Ticket: "The app crashes on login"
Emotion: anger
Topic: Crashes
Urgency: 9/10
Summary: User reports repeated crashes.
`
	if doc != want {
		t.Fatalf("rendered document mismatch:\n got: %q\nwant: %q", doc, want)
	}
}

func TestRenderRecordUrgencyLine(t *testing.T) {
	doc := RenderRecord(completedRecord(1, "so slow", 9))
	if !strings.Contains(doc, "Urgency: 9/10") {
		t.Fatalf("expected literal urgency line, got:\n%s", doc)
	}
}

func TestRenderReportSeparatesRecords(t *testing.T) {
	doc := RenderReport([]Analysis{
		completedRecord(2, "second", 5),
		completedRecord(1, "first", 4),
	})

	if strings.Count(doc, "--- Analysis ID:") != 2 {
		t.Fatalf("expected 2 record blocks:\n%s", doc)
	}
	if !strings.Contains(doc, "\n\n--- Analysis ID: 1 ---") {
		t.Fatalf("expected blank line between records:\n%s", doc)
	}
}

func TestRenderRecordVerbatimTicketText(t *testing.T) {
	text := `He said "it's broken" & gave up <twice>`
	doc := RenderRecord(completedRecord(3, text, 2))
	if !strings.Contains(doc, `Original Ticket: "`+text+`"`) {
		t.Fatalf("ticket text not reproduced verbatim:\n%s", doc)
	}
}
