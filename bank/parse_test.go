package bank

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		input string
		want  Difficulty
		err   bool
	}{
		{"easy", Easy, false},
		{"Medium", Medium, false},
		{" HARD. ", Hard, false},
		{"", 0, true},
		{"easy please", 0, true},
		{"very hard", 0, true},
		{"expert", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDifficulty(tt.input)
			if tt.err {
				if !errors.Is(err, ErrUnknownDifficulty) {
					t.Fatalf("ParseDifficulty(%q) error = %v, want ErrUnknownDifficulty", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDifficulty(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDifficulty(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestMentionsTopic(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"product sense", true},
		{"I want product sense and behavioral questions", true},
		{"USER EXPERIENCE", true},
		{"marketresearch", false},
		{"product", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := MentionsTopic(tt.input); got != tt.want {
				t.Errorf("MentionsTopic(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTopics(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		topics  []Topic
		unknown []string
	}{
		{
			name:   "comma list",
			input:  "product sense, market research",
			topics: []Topic{ProductSense, MarketResearch},
		},
		{
			name:   "spoken and",
			input:  "Behavioral and User Experience.",
			topics: []Topic{Behavioral, UserExperience},
		},
		{
			name:   "no separator",
			input:  "market research product sense",
			topics: []Topic{MarketResearch, ProductSense},
		},
		{
			name:   "comma without space",
			input:  "behavioral,product sense & market research",
			topics: []Topic{Behavioral, ProductSense, MarketResearch},
		},
		{
			name:   "duplicates collapse",
			input:  "behavioral, behavioral and product sense",
			topics: []Topic{Behavioral, ProductSense},
		},
		{
			name:    "filler reported",
			input:   "I want product sense and behavioral questions",
			topics:  []Topic{ProductSense, Behavioral},
			unknown: []string{"i want", "questions"},
		},
		{
			name:    "unknown topic between known ones",
			input:   "product sense, cooking, behavioral",
			topics:  []Topic{ProductSense, Behavioral},
			unknown: []string{"cooking"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTopics(tt.input)
			if err != nil {
				t.Fatalf("ParseTopics(%q) error = %v", tt.input, err)
			}
			if !reflect.DeepEqual(got.Topics, tt.topics) {
				t.Errorf("Topics = %v, want %v", got.Topics, tt.topics)
			}
			if !reflect.DeepEqual(got.Unknown, tt.unknown) {
				t.Errorf("Unknown = %q, want %q", got.Unknown, tt.unknown)
			}
		})
	}
}

func TestParseTopicsRejectsNoTopic(t *testing.T) {
	sel, err := ParseTopics("cooking and gardening")
	if !errors.Is(err, ErrNoTopics) {
		t.Fatalf("error = %v, want ErrNoTopics", err)
	}
	if !reflect.DeepEqual(sel.Unknown, []string{"cooking gardening"}) {
		t.Errorf("Unknown = %q", sel.Unknown)
	}
}

func TestParseTopicsTokensFeedAssemble(t *testing.T) {
	sel, err := ParseTopics("product sense and market research")
	if err != nil {
		t.Fatal(err)
	}
	// The legacy split would have produced one unusable token here.
	if legacy := Assemble(Default(), Medium, SplitTopicsLegacy("product sense and market research"), nil); len(legacy) != 0 {
		t.Fatalf("legacy split assembled %d questions, want 0", len(legacy))
	}
	if got := Assemble(Default(), Medium, sel.Tokens(), nil); len(got) != 10 {
		t.Errorf("assembled %d questions, want 10", len(got))
	}
}

func TestParseTopic(t *testing.T) {
	if got, err := ParseTopic(" Market Research "); err != nil || got != MarketResearch {
		t.Errorf("ParseTopic() = %v, %v", got, err)
	}
	if _, err := ParseTopic("market"); !errors.Is(err, ErrUnknownTopic) {
		t.Errorf("error = %v, want ErrUnknownTopic", err)
	}
}
