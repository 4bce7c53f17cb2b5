package bank

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrUnknownTopic      = errors.New("unknown topic")
	ErrNoTopics          = errors.New("no known topic in selection")
)

// Normalize lowercases a recognized utterance and strips the surrounding
// whitespace and end punctuation that recognizers like to add.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.TrimSpace(strings.TrimRight(s, ".!?"))
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch Normalize(s) {
	case "easy":
		return Easy, nil
	case "medium":
		return Medium, nil
	case "hard":
		return Hard, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

// ParseTopic accepts exactly one topic phrase.
func ParseTopic(s string) (Topic, error) {
	n := Normalize(s)
	for _, t := range Topics {
		if n == t.String() {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTopic, s)
}

// MentionsTopic reports whether s contains any topic phrase anywhere.
func MentionsTopic(s string) bool {
	n := Normalize(s)
	for _, t := range Topics {
		if strings.Contains(n, t.String()) {
			return true
		}
	}
	return false
}

// TopicSelection is the result of parsing a spoken topic list.
type TopicSelection struct {
	Topics []Topic
	// Unknown holds every fragment between topics that is not a separator.
	Unknown []string
}

// Tokens renders the topics in bank key form.
func (s TopicSelection) Tokens() []string {
	tokens := make([]string, len(s.Topics))
	for i, t := range s.Topics {
		tokens[i] = t.String()
	}
	return tokens
}

var separatorWords = map[string]bool{
	"and":  true,
	"plus": true,
	"&":    true,
}

// ParseTopics finds every topic phrase in s in spoken order. Topics may be
// separated by commas, "and", "plus", "&" or plain spaces; anything else
// between or around them ends up in Unknown. Repeated topics are kept once.
func ParseTopics(s string) (TopicSelection, error) {
	n := Normalize(s)
	var sel TopicSelection
	seen := make(map[Topic]bool)

	for len(n) > 0 {
		at, topic := -1, Topic(0)
		for _, t := range Topics {
			i := strings.Index(n, t.String())
			if i >= 0 && (at < 0 || i < at) {
				at, topic = i, t
			}
		}
		if at < 0 {
			sel.Unknown = appendFragment(sel.Unknown, n)
			break
		}
		sel.Unknown = appendFragment(sel.Unknown, n[:at])
		if !seen[topic] {
			seen[topic] = true
			sel.Topics = append(sel.Topics, topic)
		}
		n = n[at+len(topic.String()):]
	}

	if len(sel.Topics) == 0 {
		return sel, fmt.Errorf("%w: %q", ErrNoTopics, s)
	}
	return sel, nil
}

func appendFragment(unknown []string, gap string) []string {
	var words []string
	for _, w := range strings.FieldsFunc(gap, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	}) {
		if !separatorWords[w] {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return unknown
	}
	return append(unknown, strings.Join(words, " "))
}

// SplitTopicsLegacy splits on the literal ", " the way the first version of
// the interview did. Tokens that are not exact topic names later fail lookup.
func SplitTopicsLegacy(s string) []string {
	return strings.Split(s, ", ")
}
