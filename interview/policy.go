package interview

import (
	"fmt"
	"strings"
)

// EmptyAnswerPolicy decides what an empty answer means. Empty answers come
// from a recognition service failure, never from silence.
type EmptyAnswerPolicy int

const (
	// Proceed records the empty answer and carries on.
	Proceed EmptyAnswerPolicy = iota
	// Retry asks the same prompt again, a limited number of times.
	Retry
	// Quit ends the session as if the candidate had said quit.
	Quit
)

func (p EmptyAnswerPolicy) String() string {
	switch p {
	case Retry:
		return "retry"
	case Quit:
		return "quit"
	}
	return "proceed"
}

func ParseEmptyAnswerPolicy(s string) (EmptyAnswerPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "proceed":
		return Proceed, nil
	case "retry":
		return Retry, nil
	case "quit":
		return Quit, nil
	}
	return Proceed, fmt.Errorf("unknown empty answer policy %q", s)
}

type TopicParsing int

const (
	// Strict recognizes every topic phrase in the answer and turns the
	// answer down when anything but separators sits between them.
	Strict TopicParsing = iota
	// Lenient recognizes the topic phrases and skips the other words with a
	// warning.
	Lenient
	// Legacy splits the answer on ", " and looks every piece up verbatim.
	Legacy
)

func (p TopicParsing) String() string {
	switch p {
	case Lenient:
		return "lenient"
	case Legacy:
		return "legacy"
	}
	return "strict"
}

func ParseTopicParsing(s string) (TopicParsing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return Strict, nil
	case "lenient":
		return Lenient, nil
	case "legacy":
		return Legacy, nil
	}
	return Strict, fmt.Errorf("unknown topic parsing mode %q", s)
}

type Options struct {
	// SelectionAttempts caps the difficulty and topic prompts. Zero keeps
	// asking forever.
	SelectionAttempts  int
	EmptyAnswer        EmptyAnswerPolicy
	EmptyAnswerRetries int
	TopicParsing       TopicParsing
}
