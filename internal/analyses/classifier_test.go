package analyses

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

type stubLLM struct {
	resp  string
	err   error
	calls int
}

func (s *stubLLM) Classify(ctx context.Context, ticketText string) (json.RawMessage, error) {
	_ = ctx
	_ = ticketText
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(s.resp), nil
}

const validResponse = `{"emotion":"anger","summary":"User is upset about crashes.","topic":"Crashes","urgency_score":9}`

func TestClassifySuccess(t *testing.T) {
	llmStub := &stubLLM{resp: validResponse}
	g := &Classifier{LLM: llmStub}

	result, err := g.Classify(context.Background(), "The app keeps crashing and I am furious")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if result.Emotion != "anger" || result.Topic != "Crashes" || result.UrgencyScore != 9 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if llmStub.calls != 1 {
		t.Fatalf("expected 1 model call, got %d", llmStub.calls)
	}
}

func TestClassifyRejectsTooLongWithoutModelCall(t *testing.T) {
	llmStub := &stubLLM{resp: validResponse}
	g := &Classifier{LLM: llmStub, MaxChars: 10}

	_, err := g.Classify(context.Background(), strings.Repeat("a", 11))
	var invalid InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
	if llmStub.calls != 0 {
		t.Fatalf("model must not be invoked on pre-validation failure, got %d calls", llmStub.calls)
	}
}

func TestClassifyRejectsNonWordInputWithoutModelCall(t *testing.T) {
	llmStub := &stubLLM{resp: validResponse}
	g := &Classifier{LLM: llmStub}

	for _, text := range []string{"12345", "!!! ??? !!!", "a1 b2 c3"} {
		_, err := g.Classify(context.Background(), text)
		var invalid InvalidInputError
		if !errors.As(err, &invalid) {
			t.Fatalf("text %q: expected InvalidInputError, got %v", text, err)
		}
	}
	if llmStub.calls != 0 {
		t.Fatalf("model must not be invoked on pre-validation failure, got %d calls", llmStub.calls)
	}
}

func TestClassifyPropagatesModelError(t *testing.T) {
	wantErr := errors.New("gemini request timeout")
	g := &Classifier{LLM: &stubLLM{err: wantErr}}

	_, err := g.Classify(context.Background(), "valid feedback text")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected model error to propagate, got %v", err)
	}
}

func TestParseResultFencedPayload(t *testing.T) {
	raw := json.RawMessage("```json\n" + validResponse + "\n```")

	result, err := ParseResult(raw)
	if err != nil {
		t.Fatalf("ParseResult: %v", err)
	}
	if result.UrgencyScore != 9 {
		t.Fatalf("expected urgency 9, got %d", result.UrgencyScore)
	}
}

func TestParseResultMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", "the model rambled instead"},
		{"missing emotion", `{"summary":"s","topic":"t","urgency_score":5}`},
		{"missing summary", `{"emotion":"anger","topic":"t","urgency_score":5}`},
		{"missing topic", `{"emotion":"anger","summary":"s","urgency_score":5}`},
		{"missing urgency", `{"emotion":"anger","summary":"s","topic":"t"}`},
		{"unknown emotion", `{"emotion":"ecstatic","summary":"s","topic":"t","urgency_score":5}`},
		{"urgency too low", `{"emotion":"anger","summary":"s","topic":"t","urgency_score":0}`},
		{"urgency too high", `{"emotion":"anger","summary":"s","topic":"t","urgency_score":11}`},
		{"empty summary", `{"emotion":"anger","summary":"  ","topic":"t","urgency_score":5}`},
		{"empty payload", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseResult(json.RawMessage(tc.raw))
			var malformed MalformedResponseError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedResponseError, got %v", err)
			}
		})
	}
}

func TestParseResultIrrelevantTopic(t *testing.T) {
	for _, topic := range []string{"Irrelevant", "irrelevant", "IRRELEVANT"} {
		raw := `{"emotion":"neutral","summary":"s","topic":"` + topic + `","urgency_score":1}`
		_, err := ParseResult(json.RawMessage(raw))
		if !errors.Is(err, ErrIrrelevantInput) {
			t.Fatalf("topic %q: expected ErrIrrelevantInput, got %v", topic, err)
		}
	}
}

func TestParseResultNormalizesEmotionCase(t *testing.T) {
	raw := `{"emotion":" Anger ","summary":"s","topic":"Billing","urgency_score":3}`
	result, err := ParseResult(json.RawMessage(raw))
	if err != nil {
		t.Fatalf("ParseResult: %v", err)
	}
	if result.Emotion != "anger" {
		t.Fatalf("expected normalized emotion anger, got %q", result.Emotion)
	}
}
