package chatbot

import (
	"reflect"
	"testing"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/domain"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want domain.Intent
	}{
		{"hello", domain.IntentGreeting},
		{"Hey there!", domain.IntentGreeting},
		{"Good morning", domain.IntentGreeting},
		{"this is fine", domain.IntentGeneral},
		{"bye for now", domain.IntentFarewell},
		{"What is a variable?", domain.IntentExplanation},
		{"what's an array", domain.IntentExplanation},
		{"Can you explain loops", domain.IntentExplanation},
		{"how does an experiment work", domain.IntentExplanation},
		{"How do I install Python", domain.IntentHowTo},
		{"what are the steps to learn", domain.IntentExplanation},
		{"any tips for studying?", domain.IntentStudyAdvice},
		{"I feel overwhelmed", domain.IntentMotivation},
		{"I want to give up", domain.IntentMotivation},
		{"hi, I need help", domain.IntentGreeting},
		{"I'm stuck", domain.IntentHelp},
		{"2+2*3", domain.IntentArithmetic},
		{"tell me about the weather", domain.IntentGeneral},
		{"", domain.IntentGeneral},
	}
	for _, tt := range tests {
		got := Classify(tt.in)
		if got.Intent != tt.want {
			t.Errorf("Classify(%q) = %s, want %s", tt.in, got.Intent, tt.want)
		}
		if !got.Intent.Valid() {
			t.Errorf("Classify(%q) returned invalid intent %q", tt.in, got.Intent)
		}
	}
}

func TestClassifyArithmeticValue(t *testing.T) {
	t.Parallel()

	a := Classify("what is (3+4)*2")
	if a.Intent != domain.IntentArithmetic || a.Value != 14 {
		t.Fatalf("unexpected analysis: %+v", a)
	}
}

func TestExtractConcepts(t *testing.T) {
	t.Parallel()

	got := ExtractConcepts("Explain how a Function calls another function inside a loop, then the atom")
	want := []string{"function", "loop", "atom"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractConcepts = %v, want %v", got, want)
	}
	if got := ExtractConcepts("nothing relevant"); len(got) != 0 {
		t.Fatalf("expected no concepts, got %v", got)
	}
}

func TestSubjectOfPrefersProgramming(t *testing.T) {
	t.Parallel()

	if s, ok := SubjectOf("function"); !ok || s != SubjectProgramming {
		t.Fatalf("SubjectOf(function) = %v, %v", s, ok)
	}
	if s, ok := SubjectOf("calculus"); !ok || s != SubjectMath {
		t.Fatalf("SubjectOf(calculus) = %v, %v", s, ok)
	}
	if _, ok := SubjectOf("poetry"); ok {
		t.Fatal("expected unknown term")
	}
}
