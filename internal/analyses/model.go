package analyses

import "time"

const (
	StatusPending  = "PENDING"
	StatusComplete = "COMPLETE"
	StatusFailed   = "FAILED"
)

// Result holds the four classification fields of a COMPLETE record.
type Result struct {
	Emotion      string `json:"emotion"`
	Summary      string `json:"summary"`
	Topic        string `json:"topic"`
	UrgencyScore int    `json:"urgency_score"`
}

// Analysis represents one feedback ticket's classification job.
// Exactly one of Result (COMPLETE) or ErrorMessage (FAILED) is set;
// a PENDING record carries neither.
type Analysis struct {
	ID           int64     `json:"id"`
	Status       string    `json:"status"`
	TicketText   string    `json:"ticket_text"`
	Result       *Result   `json:"result,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
