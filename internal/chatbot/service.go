package chatbot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/domain"
)

// Recorder receives chat outcomes for metrics.
type Recorder interface {
	RecordChatReply(intent string, failed bool)
	RecordChatFallback(surface string)
}

type noopRecorder struct{}

func (noopRecorder) RecordChatReply(string, bool) {}
func (noopRecorder) RecordChatFallback(string)    {}

// MessageRequest is one inbound chat message.
type MessageRequest struct {
	OwnerID   string
	SessionID string
	Message   string
	// Context, when set, is merged into the session before the reply is built.
	Context *domain.ContextPatch
	Channel string
	// RequestID correlates the audit log with the transport request.
	RequestID string
}

// Service is the chat surface consumed by HTTP, websocket and CLI callers.
// None of its methods return errors; faults become fallback text.
type Service struct {
	store *SessionStore
	gen   *Generator
	log   ConversationLogger
	rec   Recorder
	pick  func(n int) int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithConversationLogger records every exchange to l.
func WithConversationLogger(l ConversationLogger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRecorder reports outcomes to r.
func WithRecorder(r Recorder) ServiceOption {
	return func(s *Service) {
		if r != nil {
			s.rec = r
		}
	}
}

// NewService creates the chat service over store and gen.
func NewService(store *SessionStore, gen *Generator, opts ...ServiceOption) *Service {
	s := &Service{
		store: store,
		gen:   gen,
		log:   noopConversationLogger{},
		rec:   noopRecorder{},
		pick:  gen.pick,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SendMessage records the message and its reply in the owner's session.
// Messages for one owner are handled one at a time in arrival order.
func (s *Service) SendMessage(ctx context.Context, req MessageRequest) Reply {
	sess := s.store.GetOrCreate(req.OwnerID)

	sess.exchange.Lock()
	defer sess.exchange.Unlock()

	if req.Context != nil && !req.Context.IsEmpty() {
		s.store.UpdateContext(sess, *req.Context)
	}

	start := time.Now()
	s.logEvent(req, "inbound", "chat_user_message", req.Message, nil)
	reply := s.gen.Respond(ctx, req.Message, sess)
	s.rec.RecordChatReply(string(reply.Intent), reply.Error != "")

	slog.Info("Chat reply generated",
		"owner_id", req.OwnerID,
		"intent", reply.Intent,
		"confidence", reply.Confidence,
		"sources", len(reply.Sources),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	s.logEvent(req, "outbound", "chat_assistant_message", reply.Response, map[string]any{
		"intent":     reply.Intent,
		"confidence": reply.Confidence,
		"sources":    reply.Sources,
		"error":      reply.Error,
	})
	return reply
}

func (s *Service) logEvent(req MessageRequest, direction, eventType, content string, meta map[string]any) {
	if meta == nil {
		meta = map[string]any{}
	}
	if req.RequestID != "" {
		meta["request_id"] = req.RequestID
	}
	channel := req.Channel
	if channel == "" {
		channel = "chat_http"
	}
	s.log.Log(ConversationLogEvent{
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		UserID:     req.OwnerID,
		SessionID:  req.SessionID,
		Channel:    channel,
		Direction:  direction,
		EventType:  eventType,
		ContentRaw: content,
		Meta:       meta,
	})
}

// StudyTips returns tips for topic, or general techniques when topic is blank.
func (s *Service) StudyTips(topic string) string {
	return s.guard("study_tips", StudyTipsFallback, func() string {
		if topic = strings.TrimSpace(topic); topic != "" {
			return fmt.Sprintf(topicStudyTipsFormat, topic)
		}
		return generalStudyTips
	})
}

// ExplainConcept explains a single concept named by the caller.
func (s *Service) ExplainConcept(concept string) string {
	concept = strings.TrimSpace(concept)
	return s.guard("explain", ExplainFallback(concept), func() string {
		if concept == "" {
			return noConceptExplanation
		}
		if text, ok := LookupExplanation(concept); ok {
			return text
		}
		if subject, ok := SubjectOf(strings.ToLower(concept)); ok {
			text, _ := Explain(subject, strings.ToLower(concept))
			return text
		}
		return genericConceptPrompt(concept)
	})
}

// Motivation returns an encouraging message.
func (s *Service) Motivation() string {
	return s.guard("motivation", MotivationFallback, func() string {
		candidates := replyTable[domain.IntentMotivation]
		return candidates[s.pick(len(candidates))]
	})
}

func (s *Service) guard(surface, fallback string, fn func() string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Chat surface panicked", "surface", surface, "panic", r)
			s.rec.RecordChatFallback(surface)
			out = fallback
		}
	}()
	if out = fn(); out == "" {
		s.rec.RecordChatFallback(surface)
		return fallback
	}
	return out
}

// ClearHistory empties the owner's turns and keeps the context. Unknown owners are a no-op.
func (s *Service) ClearHistory(ownerID string) {
	if sess, ok := s.store.Lookup(ownerID); ok {
		s.store.Clear(sess)
		slog.Info("Chat history cleared", "owner_id", ownerID)
	}
}

// History returns the owner's turns, or nil when no session exists.
func (s *Service) History(ownerID string) []domain.ConversationTurn {
	if sess, ok := s.store.Lookup(ownerID); ok {
		return s.store.History(sess)
	}
	return nil
}

// Context returns the owner's learning context.
func (s *Service) Context(ownerID string) domain.LearningContext {
	if sess, ok := s.store.Lookup(ownerID); ok {
		return sess.Context()
	}
	return domain.LearningContext{}
}

// UpdateContext merges patch into the owner's context, creating the session if needed.
func (s *Service) UpdateContext(ownerID string, patch domain.ContextPatch) domain.LearningContext {
	return s.store.UpdateContext(s.store.GetOrCreate(ownerID), patch)
}

// Sessions returns the number of live sessions.
func (s *Service) Sessions() int {
	return s.store.Len()
}
