package course

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/store"
)

const testCatalog = `{
  "courses": [{
    "title": "Web Development Basics",
    "category": "Programming",
    "modules": [
      {"title": "HTML", "lessons": [
        {"id": "html-1", "title": "Tags", "blocks": ["Tags wrap content.", "Most tags close."]},
        {"id": "html-2", "title": "Attributes", "content": "Attributes configure tags."}
      ]},
      {"title": "CSS", "lessons": [{"id": "css-1", "title": "Selectors"}]}
    ]
  }]
}`

func newTestService(t *testing.T) *Service {
	t.Helper()
	repo, err := store.NewSQLite(filepath.Join(t.TempDir(), "course.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	svc := NewService(repo)
	n, err := svc.Import(context.Background(), strings.NewReader(testCatalog))
	if err != nil || n != 1 {
		t.Fatalf("Import = %d, %v", n, err)
	}
	return svc
}

func TestImportDerivesSlugsAndContent(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()

	c, err := svc.Course(ctx, "web-development-basics")
	if err != nil {
		t.Fatalf("Course by slug: %v", err)
	}
	if c.ID != "web-development-basics" || c.Modules[0].ID != "web-development-basics-m1" {
		t.Fatalf("unexpected derived ids: %s %s", c.ID, c.Modules[0].ID)
	}
	l, err := svc.Lesson(ctx, "html-1")
	if err != nil {
		t.Fatalf("Lesson: %v", err)
	}
	if l.Content != "Tags wrap content.\n\nMost tags close." {
		t.Fatalf("unexpected joined content: %q", l.Content)
	}

	if _, err := svc.Course(ctx, "missing"); !errors.Is(err, ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestEnrollmentAndProgressFlow(t *testing.T) {
	t.Parallel()
	svc := newTestService(t)
	ctx := context.Background()
	const user = "user_abc"
	const course = "web-development-basics"

	p, err := svc.Progress(ctx, user, course)
	if err != nil || p.ProgressPercentage != 0 || p.TotalLessons != 3 {
		t.Fatalf("expected default progress for unknown student, got %+v, %v", p, err)
	}
	if _, err := svc.Enroll(ctx, user, course); !errors.Is(err, ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}

	st, err := svc.EnsureStudent(ctx, StudentProfile{ExternalID: user, Email: "ada@example.com"})
	if err != nil || st.Name != "ada@example.com" {
		t.Fatalf("EnsureStudent = %+v, %v", st, err)
	}

	e, err := svc.Enroll(ctx, user, course)
	if err != nil || e.PaymentID != FreePaymentID || e.Amount != 0 {
		t.Fatalf("Enroll = %+v, %v", e, err)
	}
	if ok, _ := svc.IsEnrolled(ctx, user, course); !ok {
		t.Fatal("expected enrollment")
	}

	if err := svc.CompleteLesson(ctx, user, "html-1"); err != nil {
		t.Fatalf("CompleteLesson: %v", err)
	}
	p, err = svc.Progress(ctx, user, course)
	if err != nil || p.ProgressPercentage != 33 || p.Modules[0].ProgressPercentage != 50 {
		t.Fatalf("unexpected progress: %+v, %v", p, err)
	}

	lc, err := svc.LessonContext(ctx, user, "html-2")
	if err != nil {
		t.Fatalf("LessonContext: %v", err)
	}
	if lc.CourseTitle != "Web Development Basics" || lc.LessonTitle != "Attributes" {
		t.Fatalf("unexpected context: %+v", lc)
	}
	if lc.UserProgress != "33% complete (1 of 3 lessons)" {
		t.Fatalf("unexpected progress text: %q", lc.UserProgress)
	}

	if err := svc.UncompleteLesson(ctx, user, "html-1"); err != nil {
		t.Fatalf("UncompleteLesson: %v", err)
	}
	if done, _ := svc.IsLessonCompleted(ctx, user, "html-1"); done {
		t.Fatal("expected lesson to be uncompleted")
	}
}

func TestSlugify(t *testing.T) {
	t.Parallel()
	if got := Slugify("  Intro to C++ & Go! "); got != "intro-to-c-go" {
		t.Fatalf("Slugify = %q", got)
	}
}
