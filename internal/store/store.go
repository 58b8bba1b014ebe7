// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/domain"
)

// Repository persists the course catalog and learner records.
// Lookups of missing rows return nil and no error.
type Repository interface {
	// ListCourses returns every course without modules, ordered by title.
	ListCourses(ctx context.Context) ([]domain.Course, error)

	// SearchCourses returns courses whose title, description or category has a
	// word starting with query (case-insensitive).
	SearchCourses(ctx context.Context, query string) ([]domain.Course, error)

	// GetCourse loads a course by ID or slug with its modules and lessons.
	GetCourse(ctx context.Context, idOrSlug string) (*domain.Course, error)

	// GetLesson loads a single lesson.
	GetLesson(ctx context.Context, lessonID string) (*domain.Lesson, error)

	// UpsertCourse writes a course and replaces its modules and lessons.
	UpsertCourse(ctx context.Context, course *domain.Course) error

	// GetStudent retrieves a student by the identity provider's user id.
	GetStudent(ctx context.Context, externalID string) (*domain.Student, error)

	// CreateStudentIfNotExists inserts student unless one with the same external
	// id exists, and returns the stored record.
	CreateStudentIfNotExists(ctx context.Context, student *domain.Student) (*domain.Student, error)

	// Enroll records an enrollment. Enrolling twice returns the existing record.
	Enroll(ctx context.Context, e *domain.Enrollment) (*domain.Enrollment, error)

	// IsEnrolled reports whether the student is enrolled in the course.
	IsEnrolled(ctx context.Context, studentID, courseID string) (bool, error)

	// EnrolledCourses lists the courses a student is enrolled in, newest first.
	EnrolledCourses(ctx context.Context, studentID string) ([]domain.Course, error)

	// CompleteLesson marks a lesson completed. Completing twice is a no-op.
	CompleteLesson(ctx context.Context, c *domain.LessonCompletion) error

	// UncompleteLesson removes a completion. Missing completions are a no-op.
	UncompleteLesson(ctx context.Context, studentID, lessonID string) error

	// IsLessonCompleted reports whether the student completed the lesson.
	IsLessonCompleted(ctx context.Context, studentID, lessonID string) (bool, error)

	// CompletedLessons lists lesson IDs the student completed in a course.
	CompletedLessons(ctx context.Context, studentID, courseID string) ([]string, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
