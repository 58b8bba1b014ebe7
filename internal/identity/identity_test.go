package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/course"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/domain"
)

type fakeEnsurer struct {
	mu       sync.Mutex
	profiles []course.StudentProfile
	err      error
}

func (f *fakeEnsurer) EnsureStudent(_ context.Context, p course.StudentProfile) (*domain.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles = append(f.profiles, p)
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Student{ExternalID: p.ExternalID}, nil
}

func serve(t *testing.T, ens StudentEnsurer, req *http.Request) (*httptest.ResponseRecorder, string, string) {
	t.Helper()
	var gotUser, gotSession string
	h := Middleware(ens, true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotSession = SessionIDFromContext(r.Context())
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, gotUser, gotSession
}

func TestMiddlewareUsesForwardedUser(t *testing.T) {
	t.Parallel()

	ens := &fakeEnsurer{}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(UserHeaderName, "user_2abc")
	req.Header.Set(FirstNameHeaderName, "Ada")
	req.Header.Set(SessionHeaderName, "tab-1")

	rec, user, session := serve(t, ens, req)
	if user != "user_2abc" || session != "tab-1" {
		t.Fatalf("unexpected identity %q/%q", user, session)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("expected no anonymous cookie for forwarded users")
	}
	if len(ens.profiles) != 1 || ens.profiles[0].FirstName != "Ada" {
		t.Fatalf("unexpected ensured profiles: %+v", ens.profiles)
	}
}

func TestMiddlewareIssuesAnonymousCookie(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/?session_id=bad%20id", nil)
	rec, user, session := serve(t, &fakeEnsurer{}, req)
	if !isValidAnonID(user) {
		t.Fatalf("expected anonymous id, got %q", user)
	}
	if session != DefaultSessionIDValue {
		t.Fatalf("expected invalid session to fall back, got %q", session)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Value != user {
		t.Fatalf("expected anon cookie, got %+v", cookies)
	}

	again := httptest.NewRequest(http.MethodGet, "/", nil)
	again.AddCookie(cookies[0])
	_, user2, _ := serve(t, &fakeEnsurer{}, again)
	if user2 != user {
		t.Fatalf("expected cookie id to be reused, got %q want %q", user2, user)
	}
}

func TestMiddlewareRejectsInvalidUserHeader(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(UserHeaderName, "bad id with spaces")
	_, user, _ := serve(t, &fakeEnsurer{}, req)
	if !strings.HasPrefix(user, "anon_") {
		t.Fatalf("expected anonymous fallback, got %q", user)
	}
}

func TestMiddlewareEnsureFailure(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec, _, _ := serve(t, &fakeEnsurer{err: errors.New("db down")}, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
