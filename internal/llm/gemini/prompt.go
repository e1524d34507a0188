package gemini

import "fmt"

const instructionTemplate = `You are a customer feedback analyst. Analyze the support ticket below and return a single, valid JSON object with exactly these keys:
- "emotion": one of "anger", "delight", "sadness", "neutral", "confusion"
- "summary": a one-sentence summary of the ticket
- "topic": a short label for the subject of the ticket
- "urgency_score": an integer from 1 (trivial) to 10 (critical)

If the text is not genuine customer feedback (spam, a news headline, gibberish), set "topic" to "Irrelevant".

Return only the JSON object, with no other text.

Ticket Text: %q`

// BuildPrompt renders the classification instruction for a ticket.
func BuildPrompt(ticketText string) string {
	return fmt.Sprintf(instructionTemplate, ticketText)
}
