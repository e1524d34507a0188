package analyses

import (
	"strings"
	"unicode/utf8"
)

const originalTicketMarker = "Original Ticket:"

// ParseBatch decodes an uploaded batch file into individual ticket texts.
//
// The bytes must be valid UTF-8. If any line carries the "Original Ticket:"
// marker (the format emitted by the report export, so an exported report can
// be re-submitted as a batch), only those lines are used, with the marker and
// surrounding quotes stripped. Otherwise every non-empty line is a ticket.
func ParseBatch(raw []byte) ([]string, error) {
	if !utf8.Valid(raw) {
		return nil, ErrBadEncoding
	}

	var all, marked []string
	for _, line := range strings.Split(string(raw), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(trimmed, originalTicketMarker); ok {
			text := strings.TrimSpace(rest)
			text = strings.Trim(text, `"`)
			if text != "" {
				marked = append(marked, text)
			}
			continue
		}
		all = append(all, trimmed)
	}

	tickets := all
	if len(marked) > 0 {
		tickets = marked
	}
	if len(tickets) == 0 {
		return nil, ErrEmptyBatch
	}
	return tickets, nil
}
