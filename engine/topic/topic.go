// Package topic classifies free-text questions into support topics with
// fixed keyword lists and matches resources against a topic.
package topic

import (
	"regexp"
	"strings"

	"github.com/lifelineconnect/lifeline/engine/domain"
)

// Rule describes how a topic is recognised in a question and how resources
// are matched to it.
type Rule struct {
	Topic domain.Topic
	// Display is the word used in the ask response sentence.
	Display string
	// Keywords trigger the topic when any is contained in the lowercased query.
	Keywords []string
	// CategoryPattern is matched as a case-insensitive substring of Resource.Category.
	CategoryPattern string
	// DescriptionPattern is a case-insensitive alternation matched against Resource.Description.
	DescriptionPattern *regexp.Regexp
}

// rules are in classification precedence order.
var rules = []Rule{
	{
		Topic:              domain.TopicFood,
		Display:            "food",
		Keywords:           []string{"food", "hungry", "meal", "pantry", "grocer", "snap benefit"},
		CategoryPattern:    "food",
		DescriptionPattern: regexp.MustCompile(`(?i)food|meal|pantry|grocer|nutrition`),
	},
	{
		Topic:   domain.TopicHousing,
		Display: "housing",
		// Bare "rent" is left out: it occurs inside "different", "parent" and "current".
		Keywords:           []string{"housing", "shelter", "homeless", "my rent", "pay rent", "paying rent", "rent help", "rent assistance", "rental", "evict", "apartment", "place to stay"},
		CategoryPattern:    "housing",
		DescriptionPattern: regexp.MustCompile(`(?i)housing|shelter|homeless|\brent\b|rental|evict`),
	},
	{
		Topic:              domain.TopicUtilities,
		Display:            "utility",
		Keywords:           []string{"utilit", "electric", "power bill", "water bill", "gas bill", "light bill", "energy"},
		CategoryPattern:    "utilit",
		DescriptionPattern: regexp.MustCompile(`(?i)utilit|electric|energy|water bill|heating`),
	},
	{
		Topic:              domain.TopicMentalHealth,
		Display:            "mental health",
		Keywords:           []string{"mental", "counsel", "therap", "depress", "anxiety", "crisis", "suicid"},
		CategoryPattern:    "mental",
		DescriptionPattern: regexp.MustCompile(`(?i)mental|counsel|therap|behavioral|crisis`),
	},
}

// Classify returns the first topic whose keyword list has a hit in text,
// checking food, housing, utilities and mental health in that order.
func Classify(text string) domain.Topic {
	lower := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.Keywords {
			if strings.Contains(lower, kw) {
				return r.Topic
			}
		}
	}
	return domain.TopicNone
}

// RuleFor returns the rule of t. ok is false for none and unknown topics.
func RuleFor(t domain.Topic) (Rule, bool) {
	for _, r := range rules {
		if r.Topic == t {
			return r, true
		}
	}
	return Rule{}, false
}

// Rules returns all rules in precedence order.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

// Display returns the sentence word for t, or "" for none.
func Display(t domain.Topic) string {
	r, ok := RuleFor(t)
	if !ok {
		return ""
	}
	return r.Display
}

// Matches reports whether res belongs to the rule's topic: its category
// contains the category pattern or its description matches the description
// pattern.
func (r Rule) Matches(res domain.Resource) bool {
	if strings.Contains(strings.ToLower(res.Category), r.CategoryPattern) {
		return true
	}
	return r.DescriptionPattern.MatchString(res.Description)
}
