package chatbot

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/domain"
)

// Searcher is the optional web-search collaborator consulted for general questions.
type Searcher interface {
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

var questionWords = []string{"what", "how", "why", "when", "where", "which", "who"}

var searchKeywords = cues(
	"search", "find", "look up", "what is", "who is", "latest", "news", "explain", "how to",
	"tutorial", "guide", "help", "information", "current", "recent", "update", "trend",
	"technology", "framework", "library", "tool", "platform", "service", "api", "database",
	"algorithm", "method", "technique", "approach", "strategy",
)

// shouldSearch reports whether a general utterance is worth a web lookup.
func shouldSearch(utterance string) bool {
	words := tokenize(utterance)
	if len(words) == 0 {
		return false
	}
	if isQuestion(words) || matchesAny(words, searchKeywords) {
		return true
	}
	return len(strings.TrimSpace(utterance)) > 10
}

func isQuestion(words []string) bool {
	for _, q := range questionWords {
		if words[0] == q {
			return true
		}
	}
	return false
}

var (
	reWhitespace  = regexp.MustCompile(`\s+`)
	reEllipsis    = regexp.MustCompile(`\.{3,}|…`)
	reBrackets    = regexp.MustCompile(`\[[^\]]*\]`)
	reParens      = regexp.MustCompile(`\([^)]*\)`)
	reRelTime     = regexp.MustCompile(`(?i)\b\d+\s+(?:minutes?|hours?|days?|weeks?)\s+ago\b`)
	reVotes       = regexp.MustCompile(`(?i)\b\d+\s+(?:upvotes?|comments?|points?)\b`)
	reSentenceEnd = regexp.MustCompile(`[.!?]+`)
)

const (
	minSentenceLen  = 20
	maxSynthSummary = 400
	updatedFooter   = "\n\n*Updated information from recent sources*"
)

// cleanSnippet removes boilerplate noise commonly found in search snippets.
func cleanSnippet(s string) string {
	s = reEllipsis.ReplaceAllString(s, ".")
	s = reBrackets.ReplaceAllString(s, "")
	s = reParens.ReplaceAllString(s, "")
	s = reRelTime.ReplaceAllString(s, "recently")
	s = reVotes.ReplaceAllString(s, "")
	return strings.TrimSpace(reWhitespace.ReplaceAllString(s, " "))
}

// synthesize builds a short answer from the top search results.
func synthesize(query string, results []domain.SearchResult) string {
	var parts []string
	for _, r := range results {
		text := r.Snippet
		if strings.TrimSpace(r.ExtractedContent) != "" {
			text = r.ExtractedContent
		}
		if text = cleanSnippet(text); text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("I found some information about %s, but couldn't extract the specific details. "+
			"You might want to search for this topic directly.", query)
	}

	combined := strings.Join(parts, " ")
	var sentences []string
	for _, s := range reSentenceEnd.Split(combined, -1) {
		if s = strings.TrimSpace(s); len(s) > minSentenceLen {
			sentences = append(sentences, s)
		}
		if len(sentences) == 2 {
			break
		}
	}

	var answer string
	if len(sentences) > 0 {
		answer = strings.Join(sentences, ". ") + "."
	} else {
		excerpt, truncated := truncateRunes(combined, maxSynthSummary)
		if isQuestion(tokenize(query)) {
			answer = "Based on current information, " + excerpt
		} else {
			answer = fmt.Sprintf("Here's what I found about %s: %s", query, excerpt)
		}
		if truncated {
			answer += "..."
		}
	}
	if len(answer) > 50 {
		answer += updatedFooter
	}
	return answer
}

func truncateRunes(s string, n int) (string, bool) {
	r := []rune(s)
	if len(r) <= n {
		return s, false
	}
	return strings.TrimSpace(string(r[:n])), true
}

func sourcesOf(results []domain.SearchResult) []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range results {
		if r.URL != "" && !seen[r.URL] {
			seen[r.URL] = true
			out = append(out, r.URL)
		}
	}
	return out
}
