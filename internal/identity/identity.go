// Package identity resolves the learner behind each request: a user id forwarded
// by the upstream identity provider, or an anonymous per-device id.
package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/course"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/domain"
)

const (
	AnonCookieName        = "edunova_anon_id"
	UserHeaderName        = "X-User-ID"
	EmailHeaderName       = "X-User-Email"
	FirstNameHeaderName   = "X-User-First-Name"
	LastNameHeaderName    = "X-User-Last-Name"
	ImageHeaderName       = "X-User-Image"
	SessionHeaderName     = "X-EduNova-Session-ID"
	DefaultSessionIDValue = "default"
	anonCookieMaxAge      = 30 * 24 * time.Hour
)

type contextKey int

const (
	userIDKey contextKey = iota
	sessionIDKey
)

var (
	anonIDPattern    = regexp.MustCompile(`^anon_[a-f0-9]{32}$`)
	userIDPattern    = regexp.MustCompile(`^[A-Za-z0-9_.:@|-]{1,128}$`)
	sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)
)

// StudentEnsurer creates the student record for a user on first sight.
type StudentEnsurer interface {
	EnsureStudent(ctx context.Context, p course.StudentProfile) (*domain.Student, error)
}

// UserIDFromContext extracts the user ID from the request context.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

// SessionIDFromContext extracts the tab session ID from the request context.
func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionIDKey).(string); ok {
		return v
	}
	return DefaultSessionIDValue
}

// WithUser returns a context carrying the given user and session IDs.
func WithUser(ctx context.Context, userID, sessionID string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, sessionIDKey, sanitizeSessionID(sessionID))
}

func generateAnonID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate anonymous id: %w", err)
	}
	return "anon_" + hex.EncodeToString(buf), nil
}

func isValidAnonID(id string) bool {
	return anonIDPattern.MatchString(id)
}

func sanitizeSessionID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || !sessionIDPattern.MatchString(id) {
		return DefaultSessionIDValue
	}
	return id
}

func deriveUsername(userID string) string {
	if len(userID) > 13 {
		return "anon-" + userID[len(userID)-8:]
	}
	return "anon-user"
}

func setAnonCookie(w http.ResponseWriter, id string, isDev bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AnonCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(anonCookieMaxAge.Seconds()),
		Expires:  time.Now().Add(anonCookieMaxAge),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !isDev,
	})
}

func getOrCreateAnonID(w http.ResponseWriter, r *http.Request, isDev bool) (string, error) {
	if c, err := r.Cookie(AnonCookieName); err == nil && isValidAnonID(c.Value) {
		setAnonCookie(w, c.Value, isDev)
		return c.Value, nil
	}

	id, err := generateAnonID()
	if err != nil {
		return "", err
	}
	setAnonCookie(w, id, isDev)
	return id, nil
}

func sessionIDFromRequest(r *http.Request) string {
	sid := r.Header.Get(SessionHeaderName)
	if sid == "" {
		sid = r.URL.Query().Get("session_id")
	}
	return sanitizeSessionID(sid)
}

// profileFromRequest returns the forwarded identity, or ok=false when the
// request carries no usable user header.
func profileFromRequest(r *http.Request) (course.StudentProfile, bool) {
	id := strings.TrimSpace(r.Header.Get(UserHeaderName))
	if id == "" || !userIDPattern.MatchString(id) {
		return course.StudentProfile{}, false
	}
	return course.StudentProfile{
		ExternalID: id,
		Email:      strings.TrimSpace(r.Header.Get(EmailHeaderName)),
		FirstName:  strings.TrimSpace(r.Header.Get(FirstNameHeaderName)),
		LastName:   strings.TrimSpace(r.Header.Get(LastNameHeaderName)),
		ImageURL:   strings.TrimSpace(r.Header.Get(ImageHeaderName)),
	}, true
}

// Middleware injects the learner identity and per-request session ID, creating
// the student record on first sight.
func Middleware(students StudentEnsurer, isDev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profile, ok := profileFromRequest(r)
			if !ok {
				anonID, err := getOrCreateAnonID(w, r, isDev)
				if err != nil {
					http.Error(w, `{"error":"failed to establish anonymous identity"}`, http.StatusInternalServerError)
					return
				}
				profile = course.StudentProfile{ExternalID: anonID, FirstName: deriveUsername(anonID)}
			}

			if students != nil {
				if _, err := students.EnsureStudent(r.Context(), profile); err != nil {
					slog.Error("Failed to initialize student", "user_id", profile.ExternalID, "error", err)
					http.Error(w, `{"error":"failed to initialize student"}`, http.StatusInternalServerError)
					return
				}
			}

			ctx := WithUser(r.Context(), profile.ExternalID, sessionIDFromRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IPFromRequest returns a normalized remote IP for optional request tracing.
func IPFromRequest(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
