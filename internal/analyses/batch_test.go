package analyses

import (
	"errors"
	"testing"
)

func TestParseBatchPlainLines(t *testing.T) {
	raw := []byte("first ticket\n\nsecond ticket\r\nthird ticket\n")

	tickets, err := ParseBatch(raw)
	if err != nil {
		t.Fatalf("ParseBatch: %v", err)
	}
	want := []string{"first ticket", "second ticket", "third ticket"}
	if len(tickets) != len(want) {
		t.Fatalf("expected %d tickets, got %d", len(want), len(tickets))
	}
	for i := range want {
		if tickets[i] != want[i] {
			t.Fatalf("ticket %d = %q, want %q", i, tickets[i], want[i])
		}
	}
}

func TestParseBatchOriginalTicketMarker(t *testing.T) {
	raw := []byte(`--- Analysis ID: 3 ---
Timestamp: 2026-01-15 10:30:00
Original Ticket: "The app crashes on login"
Emotion: anger
Topic: Crashes
Urgency: 9/10
Summary: User cannot log in.

--- Analysis ID: 4 ---
Original Ticket: "Love the new dashboard"
Emotion: delight
`)

	tickets, err := ParseBatch(raw)
	if err != nil {
		t.Fatalf("ParseBatch: %v", err)
	}
	if len(tickets) != 2 {
		t.Fatalf("expected 2 tickets from marker lines, got %d: %v", len(tickets), tickets)
	}
	if tickets[0] != "The app crashes on login" {
		t.Fatalf("ticket 0 = %q", tickets[0])
	}
	if tickets[1] != "Love the new dashboard" {
		t.Fatalf("ticket 1 = %q", tickets[1])
	}
}

func TestParseBatchInvalidUTF8(t *testing.T) {
	if _, err := ParseBatch([]byte{0xff, 0xfe, 0xfd}); !errors.Is(err, ErrBadEncoding) {
		t.Fatalf("expected ErrBadEncoding, got %v", err)
	}
}

func TestParseBatchEmpty(t *testing.T) {
	if _, err := ParseBatch([]byte("\n \n\t\n")); !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}
	if _, err := ParseBatch(nil); !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch for empty input, got %v", err)
	}
}
