package analyses

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrEmptyText          = errors.New("text is required")
	ErrIrrelevantInput    = errors.New("input judged not to be genuine feedback")
	ErrBadEncoding        = errors.New("batch upload is not valid UTF-8 text")
	ErrEmptyBatch         = errors.New("batch contains no usable lines")
	ErrNothingToExport    = errors.New("nothing to export")
	ErrQueueNotConfigured = errors.New("job queue not configured")
)

// InvalidInputError indicates the ticket failed pre-validation and was never
// sent to the external model.
type InvalidInputError struct {
	Reason string
}

func (e InvalidInputError) Error() string { return "invalid input: " + e.Reason }

// MalformedResponseError indicates the external model returned a payload that
// does not match the expected structure.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e MalformedResponseError) Error() string {
	if e.Err != nil {
		return "malformed model response: " + e.Reason + ": " + e.Err.Error()
	}
	return "malformed model response: " + e.Reason
}

func (e MalformedResponseError) Unwrap() error { return e.Err }
