// Package summarize turns lesson text into summaries, study notes and key
// concept lists through a hosted completion endpoint. Every surface method
// absorbs faults into an Envelope carrying a fixed fallback payload.
package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/completion"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/domain"
)

// ErrEmptyContent is returned when there is nothing to summarize.
var ErrEmptyContent = errors.New("content is empty")

const (
	DefaultTitle    = "Lesson"
	DefaultMaxWords = 200

	defaultReadingMinutes = 5

	SummaryFallbackText    = "Unable to generate summary at this time."
	SummaryFallbackPoint   = "Content analysis temporarily unavailable"
	StudyNotesFallback     = "Unable to generate study notes at this time."
	studyNotesUnavailable  = "Study notes not available"
	summaryUnavailableText = "Summary not available"
)

const (
	summarySystem  = "You are an educational content summarizer. Always respond with valid JSON."
	notesSystem    = "You are an expert educator creating comprehensive study notes. Use markdown formatting."
	conceptsSystem = "You are an expert at extracting key concepts from educational content. Return only the concepts, one per line."

	summaryPrompt = `You are an expert educational content summarizer. Please analyze the following lesson content and provide:

1. A concise summary (max %d words)
2. 3-5 key points as bullet points
3. Estimated reading time in minutes
4. Difficulty level (beginner/intermediate/advanced)

Lesson Title: %s
Content: %s

Please respond in JSON format:
{
  "summary": "concise summary here",
  "keyPoints": ["point 1", "point 2", "point 3"],
  "estimatedReadingTime": 5,
  "difficulty": "beginner"
}`

	notesPrompt = `Create comprehensive study notes for the following lesson content. Include:
- Main concepts and definitions
- Important formulas or code examples
- Common mistakes to avoid
- Practice questions or exercises
- Additional resources for further study

Lesson: %s
Content: %s

Format the response in markdown with clear sections.`

	conceptsPrompt = `Extract the main concepts and key terms from this educational content. Return only the concepts as a simple list, one per line.

Content: %s`
)

// FallbackSummary is returned whenever summarization fails.
func FallbackSummary() domain.SummaryResult {
	return domain.SummaryResult{
		Summary:              SummaryFallbackText,
		KeyPoints:            []string{SummaryFallbackPoint},
		EstimatedReadingTime: defaultReadingMinutes,
		Difficulty:           domain.DifficultyIntermediate,
	}
}

// Envelope is the uniform result of a summarization surface call.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error,omitempty"`
}

// Recorder receives summarizer outcomes for metrics.
type Recorder interface {
	RecordSummary(operation, outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordSummary(string, string) {}

// Adapter wraps a completion endpoint with the summarization prompts.
type Adapter struct {
	llm   completion.Completer
	cache Cache
	rec   Recorder
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithCache stores successful summaries in c.
func WithCache(c Cache) Option {
	return func(a *Adapter) { a.cache = c }
}

// WithRecorder reports outcomes to r.
func WithRecorder(r Recorder) Option {
	return func(a *Adapter) {
		if r != nil {
			a.rec = r
		}
	}
}

// NewAdapter creates an adapter. A nil completer makes every call fall back.
func NewAdapter(llm completion.Completer, opts ...Option) *Adapter {
	a := &Adapter{llm: llm, rec: noopRecorder{}}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ready reports whether a completion endpoint is configured.
func (a *Adapter) Ready() bool { return a.llm != nil }

// Summarize produces a structured summary of content.
func (a *Adapter) Summarize(ctx context.Context, content, title string, maxWords int) (domain.SummaryResult, error) {
	if strings.TrimSpace(content) == "" {
		return domain.SummaryResult{}, ErrEmptyContent
	}
	if title == "" {
		title = DefaultTitle
	}
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}

	key := CacheKey(title, maxWords, content)
	if a.cache != nil {
		if v, ok := a.cache.Get(ctx, key); ok {
			return v, nil
		}
	}

	raw, err := a.complete(ctx, completion.Request{
		System:      summarySystem,
		Prompt:      fmt.Sprintf(summaryPrompt, maxWords, title, content),
		Temperature: 0.7,
		MaxTokens:   500,
	})
	if err != nil {
		return domain.SummaryResult{}, err
	}
	result, err := ParseSummary(raw)
	if err != nil {
		return domain.SummaryResult{}, err
	}
	if a.cache != nil {
		a.cache.Set(ctx, key, result)
	}
	return result, nil
}

// StudyNotes produces markdown study notes for a lesson.
func (a *Adapter) StudyNotes(ctx context.Context, content, title string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyContent
	}
	if title == "" {
		title = DefaultTitle
	}
	notes, err := a.complete(ctx, completion.Request{
		System:      notesSystem,
		Prompt:      fmt.Sprintf(notesPrompt, title, content),
		Temperature: 0.7,
		MaxTokens:   1000,
	})
	if err != nil {
		return "", err
	}
	if notes == "" {
		return studyNotesUnavailable, nil
	}
	return notes, nil
}

// KeyConcepts lists the main concepts in content, one entry per reply line.
func (a *Adapter) KeyConcepts(ctx context.Context, content string) ([]string, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	raw, err := a.complete(ctx, completion.Request{
		System:      conceptsSystem,
		Prompt:      fmt.Sprintf(conceptsPrompt, content),
		Temperature: 0.5,
		MaxTokens:   300,
	})
	if err != nil {
		return nil, err
	}
	return splitConcepts(raw), nil
}

func (a *Adapter) complete(ctx context.Context, req completion.Request) (string, error) {
	if a.llm == nil {
		return "", completion.ErrNotConfigured
	}
	return a.llm.Complete(ctx, req)
}

// SummarizeContent is the non-failing summarize surface.
func (a *Adapter) SummarizeContent(ctx context.Context, content, title string, maxWords int) Envelope[domain.SummaryResult] {
	v, err := a.Summarize(ctx, content, title, maxWords)
	if err != nil {
		a.fail("summarize", title, err)
		return Envelope[domain.SummaryResult]{Data: FallbackSummary(), Error: "Failed to summarize content"}
	}
	a.rec.RecordSummary("summarize", "ok")
	return Envelope[domain.SummaryResult]{Success: true, Data: v}
}

// GenerateStudyNotes is the non-failing study notes surface.
func (a *Adapter) GenerateStudyNotes(ctx context.Context, content, title string) Envelope[string] {
	v, err := a.StudyNotes(ctx, content, title)
	if err != nil {
		a.fail("study_notes", title, err)
		return Envelope[string]{Data: StudyNotesFallback, Error: "Failed to generate study notes"}
	}
	a.rec.RecordSummary("study_notes", "ok")
	return Envelope[string]{Success: true, Data: v}
}

// ExtractKeyConcepts is the non-failing key concepts surface.
func (a *Adapter) ExtractKeyConcepts(ctx context.Context, content string) Envelope[[]string] {
	v, err := a.KeyConcepts(ctx, content)
	if err != nil {
		a.fail("key_concepts", "", err)
		return Envelope[[]string]{Data: []string{}, Error: "Failed to extract key concepts"}
	}
	a.rec.RecordSummary("key_concepts", "ok")
	return Envelope[[]string]{Success: true, Data: v}
}

func (a *Adapter) fail(op, title string, err error) {
	outcome := "error"
	switch {
	case errors.Is(err, ErrEmptyContent):
		outcome = "empty"
	case errors.Is(err, completion.ErrNotConfigured):
		outcome = "disabled"
	case errors.Is(err, ErrMalformed):
		outcome = "malformed"
	}
	a.rec.RecordSummary(op, outcome)
	slog.Warn("Summarizer fell back", "operation", op, "title", title, "outcome", outcome, "error", err)
}

// ErrMalformed is returned when the summary reply is not the documented JSON.
var ErrMalformed = errors.New("malformed summary reply")

type summaryReply struct {
	Summary              string   `json:"summary"`
	KeyPoints            []string `json:"keyPoints"`
	EstimatedReadingTime float64  `json:"estimatedReadingTime"`
	Difficulty           string   `json:"difficulty"`
}

// ParseSummary decodes a summary reply, filling missing fields with defaults.
// A reply wrapped in a markdown code fence is accepted.
func ParseSummary(raw string) (domain.SummaryResult, error) {
	body := stripCodeFence(strings.TrimSpace(raw))
	var reply summaryReply
	if err := json.Unmarshal([]byte(body), &reply); err != nil {
		return domain.SummaryResult{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	out := domain.SummaryResult{
		Summary:              strings.TrimSpace(reply.Summary),
		EstimatedReadingTime: int(reply.EstimatedReadingTime + 0.5),
		Difficulty:           domain.Difficulty(strings.ToLower(strings.TrimSpace(reply.Difficulty))),
		KeyPoints:            make([]string, 0, len(reply.KeyPoints)),
	}
	if out.Summary == "" {
		out.Summary = summaryUnavailableText
	}
	for _, p := range reply.KeyPoints {
		if p = strings.TrimSpace(p); p != "" {
			out.KeyPoints = append(out.KeyPoints, p)
		}
	}
	if out.EstimatedReadingTime <= 0 {
		out.EstimatedReadingTime = defaultReadingMinutes
	}
	if !out.Difficulty.Valid() {
		out.Difficulty = domain.DifficultyIntermediate
	}
	return out, nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

func splitConcepts(raw string) []string {
	out := []string{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimSpace(strings.TrimLeft(line, "-*•"))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func logCacheError(op string, err error) {
	slog.Warn("Summary cache unavailable", "operation", op, "error", err)
}
