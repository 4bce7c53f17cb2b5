package llm

import (
	"context"
	"fmt"
	"strings"
)

const reviewSystemPrompt = "You are a seasoned product management interview coach. " +
	"You give candid, specific feedback in Markdown."

const reviewPrompt = `Here is the transcript of a mock product management interview.
Lines starting with Q: are the interviewer, lines starting with A: are the candidate.

%s

Write a short review of the candidate's answers. Use these sections:

## Strengths
## Areas to improve
## Practice next

Keep each section to a few bullet points. If an answer is empty, say the
candidate did not answer rather than guessing.`

// SummarizeInterview asks the model for feedback on a finished transcript.
// It runs in a conversation of its own, apart from the one the interview used.
func SummarizeInterview(
	ctx context.Context,
	model Completer,
	transcript string,
) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "Nothing was answered, so there is nothing to review.", nil
	}

	conv := NewConversation(reviewSystemPrompt)
	summary, err := model.Complete(ctx, conv, fmt.Sprintf(reviewPrompt, transcript))
	if err != nil {
		return "", fmt.Errorf("summarize interview: %w", err)
	}
	return summary, nil
}
