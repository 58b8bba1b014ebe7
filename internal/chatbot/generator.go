package chatbot

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/calc"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/domain"
)

// Reply is the outcome of one chat exchange. Response is always populated.
type Reply struct {
	Response   string        `json:"response"`
	Error      string        `json:"error,omitempty"`
	Confidence float64       `json:"confidence"`
	Sources    []string      `json:"sources,omitempty"`
	Intent     domain.Intent `json:"intent,omitempty"`
}

// Generator turns a classified utterance into reply text and records the
// exchange in the learner's session.
type Generator struct {
	store    *SessionStore
	searcher Searcher
	pick     func(n int) int
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithSearcher enables search-backed answers for general questions.
func WithSearcher(s Searcher) GeneratorOption {
	return func(g *Generator) { g.searcher = s }
}

// WithPicker overrides the random choice among candidate replies.
func WithPicker(pick func(n int) int) GeneratorOption {
	return func(g *Generator) { g.pick = pick }
}

// NewGenerator creates a generator that records turns in store.
func NewGenerator(store *SessionStore, opts ...GeneratorOption) *Generator {
	g := &Generator{store: store, pick: rand.IntN}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Respond appends the user turn, builds a reply and appends the assistant turn.
// A fault while composing yields the apology text with Error set; it never panics.
func (g *Generator) Respond(ctx context.Context, utterance string, s *Session) (reply Reply) {
	g.store.AppendTurn(s, domain.ConversationTurn{Role: domain.RoleUser, Content: utterance})

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Reply generation panicked", "owner_id", s.OwnerID(), "panic", r)
			reply = Reply{Response: ApologyText, Error: "failed to generate a response"}
		}
		g.store.AppendTurn(s, domain.ConversationTurn{Role: domain.RoleAssistant, Content: reply.Response})
	}()

	return g.compose(ctx, utterance, s.Context())
}

func (g *Generator) compose(ctx context.Context, utterance string, lc domain.LearningContext) Reply {
	a := Classify(utterance)
	switch a.Intent {
	case domain.IntentArithmetic:
		return Reply{Response: "The answer is " + calc.Format(a.Value), Confidence: confidenceArithmetic, Intent: a.Intent}

	case domain.IntentGreeting:
		switch {
		case lc.CourseTitle != "" && lc.LessonTitle != "":
			return Reply{Response: lessonGreeting(lc.CourseTitle, lc.LessonTitle), Confidence: confidenceGreeting, Intent: a.Intent}
		case lc.CourseTitle != "":
			return Reply{Response: courseGreeting(lc.CourseTitle), Confidence: confidenceGreeting, Intent: a.Intent}
		}
		return g.canned(a.Intent, confidenceGreeting)

	case domain.IntentFarewell:
		return g.canned(a.Intent, confidenceFarewell)
	case domain.IntentStudyAdvice:
		return g.canned(a.Intent, confidenceStudyAdvice)
	case domain.IntentMotivation:
		return g.canned(a.Intent, confidenceMotivation)
	case domain.IntentHelp:
		return g.canned(a.Intent, confidenceHelp)
	case domain.IntentHowTo:
		return g.canned(a.Intent, confidenceHowTo)

	case domain.IntentExplanation:
		return explain(a.Concepts)
	}

	if reply, ok := g.searchAnswer(ctx, utterance); ok {
		return reply
	}
	if lc.CourseTitle != "" && lc.LessonTitle != "" {
		return Reply{Response: lessonGeneral(lc.CourseTitle, lc.LessonTitle), Confidence: confidenceGeneralInCourse, Intent: domain.IntentGeneral}
	}
	return g.canned(domain.IntentGeneral, confidenceGeneral)
}

func (g *Generator) canned(intent domain.Intent, confidence float64) Reply {
	candidates := replyTable[intent]
	return Reply{Response: candidates[g.pick(len(candidates))], Confidence: confidence, Intent: intent}
}

func explain(concepts []string) Reply {
	if len(concepts) == 0 {
		return Reply{Response: noConceptExplanation, Confidence: confidenceNoConcept, Intent: domain.IntentExplanation}
	}
	concept := concepts[0]
	subject, _ := SubjectOf(concept)
	text, ok := Explain(subject, concept)
	if !ok {
		return Reply{Response: text, Confidence: confidenceUnknownConcept, Intent: domain.IntentExplanation}
	}
	return Reply{Response: text, Confidence: confidenceExplained, Intent: domain.IntentExplanation}
}

func (g *Generator) searchAnswer(ctx context.Context, utterance string) (Reply, bool) {
	if g.searcher == nil || !shouldSearch(utterance) {
		return Reply{}, false
	}
	query := strings.TrimSpace(utterance)
	results, err := g.searcher.Search(ctx, query)
	if err != nil {
		slog.Warn("Search failed, using canned reply", "error", err)
		return Reply{}, false
	}
	if len(results) == 0 {
		return Reply{}, false
	}
	return Reply{
		Response:   synthesize(query, results),
		Confidence: confidenceSearch,
		Sources:    sourcesOf(results),
		Intent:     domain.IntentGeneral,
	}, true
}
