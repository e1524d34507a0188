package analyses

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"feedback-backend/internal/llm"
)

const (
	defaultMaxFeedbackChars = 5000
	irrelevantTopic         = "Irrelevant"
)

var validEmotions = map[string]struct{}{
	"anger":     {},
	"delight":   {},
	"sadness":   {},
	"neutral":   {},
	"confusion": {},
}

// Texts with no run of three consecutive letters carry no word-like token and
// are rejected before reaching the model.
var wordLikePattern = regexp.MustCompile(`[A-Za-z]{3}`)

// Classifier validates ticket text, invokes the external model, and
// normalizes its output into a typed Result.
type Classifier struct {
	LLM      llm.Client
	MaxChars int
}

// Classify runs the full gateway pipeline for one ticket. Failures are typed:
// InvalidInputError (pre-validation), MalformedResponseError (structure), or
// ErrIrrelevantInput (model judged the text not to be feedback). No retries
// are attempted; any failure is terminal for this call.
func (g *Classifier) Classify(ctx context.Context, text string) (Result, error) {
	if err := g.validateInput(text); err != nil {
		return Result{}, err
	}
	if g.LLM == nil {
		return Result{}, llm.ErrNotConfigured
	}
	raw, err := g.LLM.Classify(ctx, text)
	if err != nil {
		return Result{}, err
	}
	return ParseResult(raw)
}

func (g *Classifier) validateInput(text string) error {
	max := g.MaxChars
	if max <= 0 {
		max = defaultMaxFeedbackChars
	}
	if utf8.RuneCountInString(text) > max {
		return InvalidInputError{Reason: fmt.Sprintf("feedback exceeds %d characters", max)}
	}
	if !wordLikePattern.MatchString(text) {
		return InvalidInputError{Reason: "no word-like content"}
	}
	return nil
}

// ParseResult sanitizes and parses a raw model payload into a Result,
// enforcing the response contract. It is independent of the network call so
// structural-parsing bugs are caught without invoking the external model.
func ParseResult(raw json.RawMessage) (Result, error) {
	cleaned := StripCodeFences(string(raw))
	if cleaned == "" {
		return Result{}, MalformedResponseError{Reason: "empty payload"}
	}

	var parsed struct {
		Emotion      *string `json:"emotion"`
		Summary      *string `json:"summary"`
		Topic        *string `json:"topic"`
		UrgencyScore *int    `json:"urgency_score"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return Result{}, MalformedResponseError{Reason: "not a JSON object", Err: err}
	}

	if parsed.Emotion == nil {
		return Result{}, MalformedResponseError{Reason: "missing field emotion"}
	}
	if parsed.Summary == nil {
		return Result{}, MalformedResponseError{Reason: "missing field summary"}
	}
	if parsed.Topic == nil {
		return Result{}, MalformedResponseError{Reason: "missing field topic"}
	}
	if parsed.UrgencyScore == nil {
		return Result{}, MalformedResponseError{Reason: "missing field urgency_score"}
	}

	emotion := strings.ToLower(strings.TrimSpace(*parsed.Emotion))
	if _, ok := validEmotions[emotion]; !ok {
		return Result{}, MalformedResponseError{Reason: fmt.Sprintf("unknown emotion %q", *parsed.Emotion)}
	}

	score := *parsed.UrgencyScore
	if score < 1 || score > 10 {
		return Result{}, MalformedResponseError{Reason: fmt.Sprintf("urgency_score %d out of range 1-10", score)}
	}

	summary := strings.TrimSpace(*parsed.Summary)
	if summary == "" {
		return Result{}, MalformedResponseError{Reason: "empty summary"}
	}
	topic := strings.TrimSpace(*parsed.Topic)
	if topic == "" {
		return Result{}, MalformedResponseError{Reason: "empty topic"}
	}

	// An irrelevant classification is a semantic failure of the job, not a
	// successful low-priority result.
	if strings.EqualFold(topic, irrelevantTopic) {
		return Result{}, ErrIrrelevantInput
	}

	return Result{
		Emotion:      emotion,
		Summary:      summary,
		Topic:        topic,
		UrgencyScore: score,
	}, nil
}
