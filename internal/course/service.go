package course

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/domain"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/store"
)

var (
	// ErrCourseNotFound is returned when a course ID or slug is unknown.
	ErrCourseNotFound = errors.New("course not found")
	// ErrLessonNotFound is returned when a lesson ID is unknown.
	ErrLessonNotFound = errors.New("lesson not found")
	// ErrStudentNotFound is returned when the caller has no student record.
	ErrStudentNotFound = errors.New("student not found")
)

// FreePaymentID marks enrollments that were not paid for.
const FreePaymentID = "free"

// Service exposes catalog and learner operations keyed by external user ids.
type Service struct {
	repo store.Repository
}

// NewService creates a course service.
func NewService(repo store.Repository) *Service {
	return &Service{repo: repo}
}

// ListCourses returns all courses, or those matching query when it is non-empty.
func (s *Service) ListCourses(ctx context.Context, query string) ([]domain.Course, error) {
	if strings.TrimSpace(query) != "" {
		return s.repo.SearchCourses(ctx, query)
	}
	return s.repo.ListCourses(ctx)
}

// Course loads a course with its modules by ID or slug.
func (s *Service) Course(ctx context.Context, idOrSlug string) (*domain.Course, error) {
	c, err := s.repo.GetCourse(ctx, idOrSlug)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if c == nil {
		return nil, ErrCourseNotFound
	}
	return c, nil
}

// Lesson loads a lesson by ID.
func (s *Service) Lesson(ctx context.Context, lessonID string) (*domain.Lesson, error) {
	l, err := s.repo.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if l == nil {
		return nil, ErrLessonNotFound
	}
	return l, nil
}

// StudentProfile carries the identity provider's view of a user.
type StudentProfile struct {
	ExternalID string
	Email      string
	FirstName  string
	LastName   string
	ImageURL   string
}

// EnsureStudent creates the student record on first sight and returns it.
func (s *Service) EnsureStudent(ctx context.Context, p StudentProfile) (*domain.Student, error) {
	if existing, err := s.repo.GetStudent(ctx, p.ExternalID); err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	} else if existing != nil {
		return existing, nil
	}

	name := domain.DisplayName(p.FirstName, p.LastName, p.Email)
	if name == "" {
		name = "Learner"
	}
	st, err := s.repo.CreateStudentIfNotExists(ctx, &domain.Student{
		ExternalID: p.ExternalID,
		Email:      p.Email,
		Name:       name,
		ImageURL:   p.ImageURL,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Student created", "external_id", p.ExternalID)
	return st, nil
}

// Student returns the student for externalID.
func (s *Service) Student(ctx context.Context, externalID string) (*domain.Student, error) {
	st, err := s.repo.GetStudent(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if st == nil {
		return nil, ErrStudentNotFound
	}
	return st, nil
}

// Enroll enrolls the student in a course for free. Repeats return the existing enrollment.
func (s *Service) Enroll(ctx context.Context, externalID, courseID string) (*domain.Enrollment, error) {
	st, err := s.Student(ctx, externalID)
	if err != nil {
		return nil, err
	}
	c, err := s.Course(ctx, courseID)
	if err != nil {
		return nil, err
	}
	e, err := s.repo.Enroll(ctx, &domain.Enrollment{
		StudentID: st.ID,
		CourseID:  c.ID,
		PaymentID: FreePaymentID,
		Amount:    0,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Student enrolled", "external_id", externalID, "course_id", c.ID)
	return e, nil
}

// IsEnrolled reports whether the user is enrolled. Unknown students are not enrolled.
func (s *Service) IsEnrolled(ctx context.Context, externalID, courseID string) (bool, error) {
	st, err := s.repo.GetStudent(ctx, externalID)
	if err != nil || st == nil {
		return false, err
	}
	c, err := s.Course(ctx, courseID)
	if err != nil {
		return false, err
	}
	return s.repo.IsEnrolled(ctx, st.ID, c.ID)
}

// EnrolledCourses lists the user's courses. Unknown students have none.
func (s *Service) EnrolledCourses(ctx context.Context, externalID string) ([]domain.Course, error) {
	st, err := s.repo.GetStudent(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if st == nil {
		return []domain.Course{}, nil
	}
	return s.repo.EnrolledCourses(ctx, st.ID)
}

// CompleteLesson marks a lesson completed for the user.
func (s *Service) CompleteLesson(ctx context.Context, externalID, lessonID string) error {
	st, err := s.Student(ctx, externalID)
	if err != nil {
		return err
	}
	l, err := s.Lesson(ctx, lessonID)
	if err != nil {
		return err
	}
	return s.repo.CompleteLesson(ctx, &domain.LessonCompletion{
		StudentID: st.ID,
		LessonID:  l.ID,
		ModuleID:  l.ModuleID,
		CourseID:  l.CourseID,
	})
}

// UncompleteLesson clears a lesson completion for the user.
func (s *Service) UncompleteLesson(ctx context.Context, externalID, lessonID string) error {
	st, err := s.Student(ctx, externalID)
	if err != nil {
		return err
	}
	return s.repo.UncompleteLesson(ctx, st.ID, lessonID)
}

// IsLessonCompleted reports completion status. Unknown students have completed nothing.
func (s *Service) IsLessonCompleted(ctx context.Context, externalID, lessonID string) (bool, error) {
	st, err := s.repo.GetStudent(ctx, externalID)
	if err != nil || st == nil {
		return false, err
	}
	return s.repo.IsLessonCompleted(ctx, st.ID, lessonID)
}

// Progress returns the user's progress through a course. A user without a
// student record gets the empty default rather than an error.
func (s *Service) Progress(ctx context.Context, externalID, courseID string) (domain.CourseProgress, error) {
	c, err := s.Course(ctx, courseID)
	if err != nil {
		return domain.CourseProgress{}, err
	}
	st, err := s.repo.GetStudent(ctx, externalID)
	if err != nil {
		return domain.CourseProgress{}, fmt.Errorf("get student: %w", err)
	}
	if st == nil {
		return Progress(c, nil), nil
	}
	ids, err := s.repo.CompletedLessons(ctx, st.ID, c.ID)
	if err != nil {
		return domain.CourseProgress{}, err
	}
	return Progress(c, ids), nil
}

// LessonContext resolves the chat learning context for a lesson the user is viewing.
func (s *Service) LessonContext(ctx context.Context, externalID, lessonID string) (domain.LearningContext, error) {
	l, err := s.Lesson(ctx, lessonID)
	if err != nil {
		return domain.LearningContext{}, err
	}
	c, err := s.Course(ctx, l.CourseID)
	if err != nil {
		return domain.LearningContext{}, err
	}

	lc := domain.LearningContext{CourseTitle: c.Title, LessonTitle: l.Title, CurrentTopic: l.Title}
	if p, err := s.Progress(ctx, externalID, c.ID); err == nil && p.TotalLessons > 0 {
		lc.UserProgress = fmt.Sprintf("%d%% complete (%d of %d lessons)",
			p.ProgressPercentage, len(p.CompletedLessons), p.TotalLessons)
	}
	return lc, nil
}
