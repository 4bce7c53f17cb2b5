package interview

import (
	"fmt"
	"strings"
)

type Kind int

const (
	Question Kind = iota
	FollowUp
)

func (k Kind) String() string {
	if k == FollowUp {
		return "Follow-up"
	}
	return "Question"
}

type Entry struct {
	Kind   Kind
	Prompt string
	Answer string
}

// Block is the Q:/A: form of the entry that is fed back into follow-up
// generation.
func (e Entry) Block() string {
	return fmt.Sprintf("Q: %s\nA: %s\n\n", e.Prompt, e.Answer)
}

// Transcript is the ordered, append-only record of one session.
type Transcript struct {
	entries []Entry
}

func (t *Transcript) Append(e Entry) {
	t.entries = append(t.entries, e)
}

func (t *Transcript) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

func (t *Transcript) Len() int {
	return len(t.entries)
}

// Text is the running context: every exchange as a Q:/A: block, oldest
// first.
func (t *Transcript) Text() string {
	var sb strings.Builder
	for _, e := range t.entries {
		sb.WriteString(e.Block())
	}
	return sb.String()
}

// Markdown renders the transcript for reading at the end of a session.
func (t *Transcript) Markdown() string {
	var sb strings.Builder
	sb.WriteString("# Interview transcript\n\n")
	if len(t.entries) == 0 {
		sb.WriteString("_No questions were answered._\n")
		return sb.String()
	}
	n := 0
	for _, e := range t.entries {
		if e.Kind == Question {
			n++
			fmt.Fprintf(&sb, "## %d. %s\n\n", n, e.Prompt)
		} else {
			fmt.Fprintf(&sb, "**Follow-up:** %s\n\n", e.Prompt)
		}
		answer := e.Answer
		if strings.TrimSpace(answer) == "" {
			answer = "_(no answer)_"
		}
		fmt.Fprintf(&sb, "> %s\n\n", answer)
	}
	return sb.String()
}
