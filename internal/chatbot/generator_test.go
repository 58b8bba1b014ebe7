package chatbot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/domain"
)

type fakeSearcher struct {
	results []domain.SearchResult
	err     error
	panics  bool
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, query string) ([]domain.SearchResult, error) {
	if f.panics {
		panic("search exploded")
	}
	f.queries = append(f.queries, query)
	return f.results, f.err
}

func contains(candidates []string, s string) bool {
	for _, c := range candidates {
		if c == s {
			return true
		}
	}
	return false
}

func respond(t *testing.T, g *Generator, st *SessionStore, utterance string, lc domain.LearningContext) Reply {
	t.Helper()
	s := st.GetOrCreate("owner")
	st.UpdateContext(s, domain.PatchFrom(lc))
	return g.Respond(context.Background(), utterance, s)
}

func TestRespondCannedIntents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in         string
		intent     domain.Intent
		confidence float64
	}{
		{"hello", domain.IntentGreeting, confidenceGreeting},
		{"goodbye", domain.IntentFarewell, confidenceFarewell},
		{"study tips please", domain.IntentStudyAdvice, confidenceStudyAdvice},
		{"I need motivation", domain.IntentMotivation, confidenceMotivation},
		{"I'm confused", domain.IntentHelp, confidenceHelp},
		{"how to start", domain.IntentHowTo, confidenceHowTo},
		{"ok", domain.IntentGeneral, confidenceGeneral},
	}
	for _, tt := range tests {
		st := NewSessionStore()
		g := NewGenerator(st)
		reply := respond(t, g, st, tt.in, domain.LearningContext{})
		if reply.Intent != tt.intent || reply.Confidence != tt.confidence {
			t.Errorf("%q: got %s/%v, want %s/%v", tt.in, reply.Intent, reply.Confidence, tt.intent, tt.confidence)
		}
		if !contains(Candidates(tt.intent), reply.Response) {
			t.Errorf("%q: reply not in candidate set: %q", tt.in, reply.Response)
		}
		if reply.Error != "" {
			t.Errorf("%q: unexpected error %q", tt.in, reply.Error)
		}
	}
}

func TestRespondArithmetic(t *testing.T) {
	t.Parallel()

	st := NewSessionStore()
	reply := respond(t, NewGenerator(st), st, "2+2*3", domain.LearningContext{})
	if reply.Response != "The answer is 8" || reply.Confidence != 0.95 {
		t.Fatalf("unexpected arithmetic reply: %+v", reply)
	}

	reply = respond(t, NewGenerator(st), st, "1/0", domain.LearningContext{})
	if reply.Intent == domain.IntentArithmetic {
		t.Fatalf("division by zero must not produce an arithmetic answer: %+v", reply)
	}
}

func TestRespondGreetingUsesContext(t *testing.T) {
	t.Parallel()

	st := NewSessionStore()
	g := NewGenerator(st)
	reply := respond(t, g, st, "hi", domain.LearningContext{CourseTitle: "Intro to Go", LessonTitle: "Channels"})
	if !strings.Contains(reply.Response, "**Intro to Go**") || !strings.Contains(reply.Response, "**Channels**") {
		t.Fatalf("expected course and lesson in greeting: %q", reply.Response)
	}

	st2 := NewSessionStore()
	reply = respond(t, NewGenerator(st2), st2, "hi", domain.LearningContext{CourseTitle: "Intro to Go"})
	if !strings.Contains(reply.Response, "**Intro to Go**") {
		t.Fatalf("expected course in greeting: %q", reply.Response)
	}
}

func TestRespondExplanation(t *testing.T) {
	t.Parallel()

	st := NewSessionStore()
	g := NewGenerator(st)

	reply := respond(t, g, st, "What is a variable?", domain.LearningContext{})
	want, _ := Explain(SubjectProgramming, "variable")
	if reply.Response != want || reply.Confidence != confidenceExplained {
		t.Fatalf("unexpected known explanation: %+v", reply)
	}

	reply = respond(t, g, st, "explain calculus", domain.LearningContext{})
	if !strings.HasPrefix(reply.Response, `"calculus" is an important mathematical concept`) || reply.Confidence != confidenceUnknownConcept {
		t.Fatalf("unexpected unknown-concept reply: %+v", reply)
	}

	reply = respond(t, g, st, "explain photosynthesis", domain.LearningContext{})
	if reply.Response != noConceptExplanation || reply.Confidence != confidenceNoConcept {
		t.Fatalf("unexpected no-concept reply: %+v", reply)
	}
}

func TestRespondGeneralWithSearch(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{results: []domain.SearchResult{{
		URL:     "https://go.dev/doc",
		Snippet: "Go is an open source programming language supported by Google. It is fast and reliable at scale.",
	}}}
	st := NewSessionStore()
	g := NewGenerator(st, WithSearcher(searcher))

	reply := respond(t, g, st, "tell me about golang", domain.LearningContext{})
	if reply.Confidence != confidenceSearch || len(reply.Sources) != 1 || reply.Sources[0] != "https://go.dev/doc" {
		t.Fatalf("unexpected search reply: %+v", reply)
	}
	if !strings.HasSuffix(reply.Response, updatedFooter) {
		t.Fatalf("expected footer: %q", reply.Response)
	}
	if len(searcher.queries) != 1 || searcher.queries[0] != "tell me about golang" {
		t.Fatalf("unexpected queries: %v", searcher.queries)
	}
}

func TestRespondGeneralSearchFailureFallsBack(t *testing.T) {
	t.Parallel()

	st := NewSessionStore()
	g := NewGenerator(st, WithSearcher(&fakeSearcher{err: errors.New("timeout")}))

	reply := respond(t, g, st, "tell me about golang", domain.LearningContext{})
	if reply.Error != "" || !contains(Candidates(domain.IntentGeneral), reply.Response) {
		t.Fatalf("expected canned general reply, got %+v", reply)
	}

	reply = respond(t, g, st, "tell me about golang", domain.LearningContext{CourseTitle: "Go", LessonTitle: "Maps"})
	if reply.Response != lessonGeneral("Go", "Maps") || reply.Confidence != confidenceGeneralInCourse {
		t.Fatalf("expected contextual general reply, got %+v", reply)
	}
}

func TestRespondRecoversFromPanics(t *testing.T) {
	t.Parallel()

	st := NewSessionStore()
	g := NewGenerator(st, WithSearcher(&fakeSearcher{panics: true}))
	s := st.GetOrCreate("owner")

	reply := g.Respond(context.Background(), "tell me about golang", s)
	if reply.Response != ApologyText || reply.Error == "" {
		t.Fatalf("expected apology with error flag, got %+v", reply)
	}

	turns := s.Turns()
	if len(turns) != 2 || turns[0].Role != domain.RoleUser || turns[1].Role != domain.RoleAssistant {
		t.Fatalf("expected user and assistant turns, got %+v", turns)
	}
	if turns[1].Content != ApologyText {
		t.Fatalf("expected apology to be recorded, got %q", turns[1].Content)
	}
}

func TestWithPickerSelectsCandidate(t *testing.T) {
	t.Parallel()

	st := NewSessionStore()
	g := NewGenerator(st, WithPicker(func(n int) int { return n - 1 }))
	reply := respond(t, g, st, "goodbye", domain.LearningContext{})
	farewells := Candidates(domain.IntentFarewell)
	if reply.Response != farewells[len(farewells)-1] {
		t.Fatalf("expected last farewell, got %q", reply.Response)
	}
}
