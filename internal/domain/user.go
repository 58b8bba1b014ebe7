package domain

import (
	"strings"
	"time"
)

// Student is a learner known to the platform, keyed by the identity provider's user id.
type Student struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"externalId"`
	Email      string    `json:"email,omitempty"`
	Name       string    `json:"name"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// DisplayName builds a student name from first and last name, falling back to the email.
func DisplayName(firstName, lastName, email string) string {
	name := strings.TrimSpace(strings.TrimSpace(firstName) + " " + strings.TrimSpace(lastName))
	if name == "" {
		return email
	}
	return name
}

// Enrollment records a student's access to a course.
type Enrollment struct {
	ID         string    `json:"id"`
	StudentID  string    `json:"studentId"`
	CourseID   string    `json:"courseId"`
	PaymentID  string    `json:"paymentId"`
	Amount     int64     `json:"amount"`
	EnrolledAt time.Time `json:"enrolledAt"`
}

// LessonCompletion records that a student finished a lesson.
type LessonCompletion struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"studentId"`
	LessonID    string    `json:"lessonId"`
	ModuleID    string    `json:"moduleId"`
	CourseID    string    `json:"courseId"`
	CompletedAt time.Time `json:"completedAt"`
}
