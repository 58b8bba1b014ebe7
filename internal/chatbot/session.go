package chatbot

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/domain"
)

// Session is one learner's conversation: an append-only turn history plus the
// learning context used to personalize replies.
type Session struct {
	ownerID   string
	createdAt time.Time

	// exchange serializes message handling so turns land in arrival order.
	exchange sync.Mutex

	mu      sync.RWMutex
	turns   []domain.ConversationTurn
	context domain.LearningContext
}

// OwnerID returns the identifier of the learner that owns the session.
func (s *Session) OwnerID() string { return s.ownerID }

// CreatedAt returns when the session was first created.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// Context returns a copy of the session's learning context.
func (s *Session) Context() domain.LearningContext {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.context
}

// Turns returns a copy of the turn history in creation order.
func (s *Session) Turns() []domain.ConversationTurn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ConversationTurn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of turns in the session.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.turns)
}

// SessionStore owns every live session for the lifetime of the process.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	now   func() time.Time
	newID func() string
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// GetOrCreate returns the session for ownerID, creating it on first use.
// Repeated calls return the same *Session.
func (st *SessionStore) GetOrCreate(ownerID string) *Session {
	st.mu.RLock()
	s, ok := st.sessions[ownerID]
	st.mu.RUnlock()
	if ok {
		return s
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[ownerID]; ok {
		return s
	}
	s = &Session{ownerID: ownerID, createdAt: st.now()}
	st.sessions[ownerID] = s
	slog.Debug("Chat session created", "owner_id", ownerID)
	return s
}

// Lookup returns the session for ownerID without creating one.
func (st *SessionStore) Lookup(ownerID string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[ownerID]
	return s, ok
}

// AppendTurn adds turn to the end of the session history. A missing ID is
// generated, and CreatedAt is forced strictly after the previous turn.
func (st *SessionStore) AppendTurn(s *Session, turn domain.ConversationTurn) domain.ConversationTurn {
	if turn.ID == "" {
		turn.ID = st.newID()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = st.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if n := len(s.turns); n > 0 {
		if last := s.turns[n-1].CreatedAt; !turn.CreatedAt.After(last) {
			turn.CreatedAt = last.Add(time.Microsecond)
		}
	}
	s.turns = append(s.turns, turn)
	return turn
}

// Clear empties the turn history. The learning context is kept.
func (st *SessionStore) Clear(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
}

// UpdateContext shallow-merges patch into the session context and returns the result.
func (st *SessionStore) UpdateContext(s *Session, patch domain.ContextPatch) domain.LearningContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.context = s.context.Merge(patch)
	return s.context
}

// History returns a read-only copy of the session's turns.
func (st *SessionStore) History(s *Session) []domain.ConversationTurn {
	return s.Turns()
}

// Len returns the number of live sessions.
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
