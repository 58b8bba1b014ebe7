// Package chatbot implements the rule-based learning assistant: intent
// classification, canned and synthesized replies, and per-learner sessions.
package chatbot

import (
	"strings"
	"unicode"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/calc"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/domain"
)

// Analysis is the classifier's verdict for one utterance.
type Analysis struct {
	Intent   domain.Intent
	Concepts []string
	// Value holds the computed result when Intent is arithmetic.
	Value float64
}

type rule struct {
	intent domain.Intent
	cues   [][]string
}

// rules are evaluated in order; the first rule with a matching cue wins.
var rules = []rule{
	{domain.IntentExplanation, cues("what is", "what's", "whats", "what are", "explain", "how does", "define")},
	{domain.IntentHowTo, cues("how to", "how do i", "how can i", "steps", "process")},
	{domain.IntentStudyAdvice, cues("study", "studying", "learn", "learning", "tips", "tip")},
	{domain.IntentMotivation, cues("motivation", "motivate", "motivated", "encourage", "encouragement", "overwhelm", "overwhelmed", "give up", "discouraged")},
	{domain.IntentGreeting, cues("hello", "hi", "hey", "good morning", "good afternoon", "good evening", "greetings")},
	{domain.IntentFarewell, cues("bye", "goodbye", "see you", "farewell", "take care")},
	{domain.IntentHelp, cues("help", "confused", "stuck")},
}

func cues(phrases ...string) [][]string {
	out := make([][]string, 0, len(phrases))
	for _, p := range phrases {
		out = append(out, strings.Fields(p))
	}
	return out
}

// Classify assigns exactly one intent to an utterance. Arithmetic is checked
// first and short-circuits keyword matching; anything unmatched is general.
func Classify(utterance string) Analysis {
	if v, ok := calc.TryEvaluate(utterance); ok {
		return Analysis{Intent: domain.IntentArithmetic, Value: v}
	}

	words := tokenize(utterance)
	a := Analysis{Intent: domain.IntentGeneral, Concepts: extractConcepts(words)}
	for _, r := range rules {
		if matchesAny(words, r.cues) {
			a.Intent = r.intent
			break
		}
	}
	return a
}

// ExtractConcepts returns the recognized vocabulary terms in order of appearance.
func ExtractConcepts(utterance string) []string {
	return extractConcepts(tokenize(utterance))
}

func extractConcepts(words []string) []string {
	var concepts []string
	seen := make(map[string]bool)
	for _, w := range words {
		if _, ok := termIndex[w]; ok && !seen[w] {
			seen[w] = true
			concepts = append(concepts, w)
		}
	}
	return concepts
}

// tokenize lower-cases s and splits it into words made of letters, digits and
// inner apostrophes.
func tokenize(s string) []string {
	s = strings.ToLower(strings.ReplaceAll(s, "’", "'"))
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

func matchesAny(words []string, phrases [][]string) bool {
	for _, p := range phrases {
		if containsPhrase(words, p) {
			return true
		}
	}
	return false
}

func containsPhrase(words, phrase []string) bool {
	if len(phrase) == 0 || len(phrase) > len(words) {
		return false
	}
	for i := 0; i+len(phrase) <= len(words); i++ {
		match := true
		for j, p := range phrase {
			if strings.Trim(words[i+j], "'") != p {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
