// Package bank holds the fixed table of interview questions keyed by
// difficulty and topic.
package bank

import (
	"fmt"
	"strings"
)

type Difficulty int

const (
	Easy Difficulty = iota + 1
	Medium
	Hard
)

var Difficulties = []Difficulty{Easy, Medium, Hard}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	}
	return fmt.Sprintf("difficulty(%d)", int(d))
}

type Topic int

const (
	ProductSense Topic = iota + 1
	MarketResearch
	Behavioral
	UserExperience
)

var Topics = []Topic{ProductSense, MarketResearch, Behavioral, UserExperience}

// String returns the spoken phrase for the topic, which is also its key in
// the bank.
func (t Topic) String() string {
	switch t {
	case ProductSense:
		return "product sense"
	case MarketResearch:
		return "market research"
	case Behavioral:
		return "behavioral"
	case UserExperience:
		return "user experience"
	}
	return fmt.Sprintf("topic(%d)", int(t))
}

// Title is the capitalized form used in prompts and tables.
func (t Topic) Title() string {
	words := strings.Fields(t.String())
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

type key struct {
	difficulty Difficulty
	topic      Topic
}

// Bank maps a (difficulty, topic) pair to an ordered list of questions. It is
// never mutated after construction.
type Bank struct {
	questions map[key][]string
}

// Questions returns a copy of the questions for the pair, or false if the
// pair is not in the bank.
func (b *Bank) Questions(d Difficulty, t Topic) ([]string, bool) {
	qs, ok := b.questions[key{d, t}]
	if !ok {
		return nil, false
	}
	return append([]string(nil), qs...), true
}

// Lookup resolves a raw topic token, as produced by splitting the spoken
// topic selection, against the bank.
func (b *Bank) Lookup(d Difficulty, token string) ([]string, bool) {
	t, err := ParseTopic(token)
	if err != nil {
		return nil, false
	}
	return b.Questions(d, t)
}

// Len is the total number of questions in the bank.
func (b *Bank) Len() int {
	n := 0
	for _, qs := range b.questions {
		n += len(qs)
	}
	return n
}

// Diagnostics receives non-fatal notes from Assemble.
type Diagnostics interface {
	Warn(msg interface{}, keyvals ...interface{})
}

// Assemble concatenates the questions of every token in order. Tokens that do
// not name a topic in the bank are skipped and reported.
func Assemble(
	b *Bank,
	d Difficulty,
	tokens []string,
	diag Diagnostics,
) []string {
	var selected []string
	for _, token := range tokens {
		qs, ok := b.Lookup(d, token)
		if !ok {
			if diag != nil {
				diag.Warn(
					fmt.Sprintf("Invalid question type '%s', skipping.", token),
					"difficulty", d,
				)
			}
			continue
		}
		selected = append(selected, qs...)
	}
	return selected
}

// AssembleTopics is Assemble for already parsed topics.
func AssembleTopics(b *Bank, d Difficulty, topics []Topic) []string {
	var selected []string
	for _, t := range topics {
		qs, _ := b.Questions(d, t)
		selected = append(selected, qs...)
	}
	return selected
}

// Default returns the product management question bank.
func Default() *Bank {
	return &Bank{questions: map[key][]string{
		{Easy, ProductSense}: {
			"Can you describe a recent project you worked on?",
			"What is your favorite aspect of product management?",
			"How do you approach setting goals for a new project?",
		},
		{Easy, MarketResearch}: {
			"How do you conduct basic market research?",
			"What factors do you consider when assessing market demand?",
			"Describe a time when market research influenced a product decision.",
			"How do you gather customer feedback for a new product?",
			"What are some important metrics to measure market potential?",
		},
		{Easy, Behavioral}: {
			"Describe a time when you had to work under pressure.",
			"How do you handle conflicts within a team?",
			"Tell me about a challenging situation you faced and how you resolved it.",
			"What motivates you in your work?",
			"How do you prioritize tasks in a fast-paced environment?",
		},
		{Easy, UserExperience}: {
			"How do you ensure your product meets user needs?",
			"Describe a time when user feedback led to product improvements.",
			"What methods do you use to test product usability?",
			"How do you incorporate user-centered design principles?",
			"Describe a situation where you had to balance user feedback with business goals.",
		},
		{Medium, ProductSense}: {
			"How do you prioritize features in a product roadmap?",
			"Describe a time when you had to pivot a product strategy.",
			"What are key considerations when defining a product roadmap?",
			"How do you align product features with customer needs?",
			"Describe a successful product launch strategy.",
		},
		{Medium, MarketResearch}: {
			"How do you analyze competitors' products?",
			"What tools and methods do you use for competitive analysis?",
			"Describe a time when competitive analysis influenced a product decision.",
			"How do you validate market demand for a new product idea?",
			"What are the challenges of conducting global market research?",
		},
		{Medium, Behavioral}: {
			"Describe a time when you had to resolve a conflict between team members.",
			"How do you handle disagreements with stakeholders?",
			"Tell me about a time when you had to manage a difficult team member.",
			"How do you ensure team cohesion during project execution?",
			"What strategies do you use to build strong relationships with stakeholders?",
		},
		{Medium, UserExperience}: {
			"How do you conduct usability testing for a product?",
			"Describe a time when user research led to a significant product improvement.",
			"What methods do you use to gather qualitative user feedback?",
			"How do you prioritize user experience enhancements?",
			"Describe a project where you successfully improved user retention rates.",
		},
		{Hard, ProductSense}: {
			"Describe a time when you had to make a critical product decision under uncertainty.",
			"How do you prioritize conflicting stakeholder requirements?",
			"What strategies do you use to mitigate product risks?",
			"Tell me about a product failure you experienced and what you learned from it.",
			"How do you manage multiple product initiatives simultaneously?",
		},
		{Hard, MarketResearch}: {
			"How do you assess market trends and their impact on product strategy?",
			"Describe a time when you successfully introduced a disruptive product to the market.",
			"What are the ethical considerations in market research?",
			"How do you analyze complex market data to inform strategic decisions?",
			"What strategies do you use to identify emerging market opportunities?",
		},
		{Hard, Behavioral}: {
			"Describe a challenging leadership situation you faced and how you resolved it.",
			"How do you foster innovation within a product team?",
			"Tell me about a time when you had to make a decision that went against popular opinion.",
			"How do you handle high-pressure situations that affect product delivery?",
			"What strategies do you use to manage team performance during tight deadlines?",
		},
		{Hard, UserExperience}: {
			"Describe a project where you successfully implemented a user-centered design approach.",
			"How do you integrate accessibility considerations into product design?",
			"Tell me about a time when you had to balance conflicting user needs.",
			"What metrics do you use to measure the success of UX improvements?",
			"How do you advocate for user experience in cross-functional teams?",
		},
	}}
}
