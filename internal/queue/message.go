package queue

import "time"

// Message is the payload handed to queue workers.
type Message struct {
	JobID      int64
	RequestID  string
	EnqueuedAt time.Time
}
