package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/course"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/identity"
)

// CourseHandler serves the catalog and learner endpoints.
type CourseHandler struct {
	courses *course.Service
}

// NewCourseHandler creates a course handler.
func NewCourseHandler(courses *course.Service) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// RegisterRoutes registers catalog and learner routes.
func (h *CourseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/courses", h.ListCourses)
	r.Get("/courses/{courseID}", h.GetCourse)
	r.Post("/courses/{courseID}/enroll", h.Enroll)
	r.Get("/courses/{courseID}/enrollment", h.GetEnrollment)
	r.Get("/courses/{courseID}/progress", h.GetProgress)
	r.Get("/lessons/{lessonID}", h.GetLesson)
	r.Get("/lessons/{lessonID}/completion", h.GetCompletion)
	r.Post("/lessons/{lessonID}/completion", h.CompleteLesson)
	r.Delete("/lessons/{lessonID}/completion", h.UncompleteLesson)
	r.Get("/me", h.GetMe)
	r.Get("/me/courses", h.MyCourses)
}

// ListCourses handles GET /api/courses[?q=].
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courses.ListCourses(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		slog.Error("Failed to list courses", "error", err)
		Error(w, http.StatusInternalServerError, "failed to list courses")
		return
	}
	JSON(w, http.StatusOK, courses)
}

// GetCourse handles GET /api/courses/{courseID}; the key may be an ID or slug.
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	c, err := h.courses.Course(r.Context(), chi.URLParam(r, "courseID"))
	if err != nil {
		h.writeError(w, err, "failed to load course")
		return
	}
	JSON(w, http.StatusOK, c)
}

// GetLesson handles GET /api/lessons/{lessonID}.
func (h *CourseHandler) GetLesson(w http.ResponseWriter, r *http.Request) {
	l, err := h.courses.Lesson(r.Context(), chi.URLParam(r, "lessonID"))
	if err != nil {
		h.writeError(w, err, "failed to load lesson")
		return
	}
	JSON(w, http.StatusOK, l)
}

// GetMe returns the caller's student record.
func (h *CourseHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	st, err := h.courses.Student(r.Context(), identity.UserIDFromContext(r.Context()))
	if err != nil {
		h.writeError(w, err, "failed to load student")
		return
	}
	JSON(w, http.StatusOK, st)
}

// MyCourses lists the caller's enrolled courses.
func (h *CourseHandler) MyCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.courses.EnrolledCourses(r.Context(), identity.UserIDFromContext(r.Context()))
	if err != nil {
		slog.Error("Failed to list enrolled courses", "error", err)
		Error(w, http.StatusInternalServerError, "failed to list enrolled courses")
		return
	}
	JSON(w, http.StatusOK, courses)
}

// Enroll handles POST /api/courses/{courseID}/enroll.
func (h *CourseHandler) Enroll(w http.ResponseWriter, r *http.Request) {
	e, err := h.courses.Enroll(r.Context(), identity.UserIDFromContext(r.Context()), chi.URLParam(r, "courseID"))
	if err != nil {
		h.writeError(w, err, "failed to enroll")
		return
	}
	JSON(w, http.StatusOK, e)
}

// GetEnrollment reports whether the caller is enrolled in a course.
func (h *CourseHandler) GetEnrollment(w http.ResponseWriter, r *http.Request) {
	ok, err := h.courses.IsEnrolled(r.Context(), identity.UserIDFromContext(r.Context()), chi.URLParam(r, "courseID"))
	if err != nil {
		h.writeError(w, err, "failed to check enrollment")
		return
	}
	JSON(w, http.StatusOK, map[string]bool{"enrolled": ok})
}

// GetProgress handles GET /api/courses/{courseID}/progress.
func (h *CourseHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	p, err := h.courses.Progress(r.Context(), identity.UserIDFromContext(r.Context()), chi.URLParam(r, "courseID"))
	if err != nil {
		h.writeError(w, err, "failed to load progress")
		return
	}
	JSON(w, http.StatusOK, p)
}

// GetCompletion reports whether the caller completed a lesson.
func (h *CourseHandler) GetCompletion(w http.ResponseWriter, r *http.Request) {
	done, err := h.courses.IsLessonCompleted(r.Context(), identity.UserIDFromContext(r.Context()), chi.URLParam(r, "lessonID"))
	if err != nil {
		h.writeError(w, err, "failed to check completion")
		return
	}
	JSON(w, http.StatusOK, map[string]bool{"completed": done})
}

// CompleteLesson handles POST /api/lessons/{lessonID}/completion.
func (h *CourseHandler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	if err := h.courses.CompleteLesson(r.Context(), identity.UserIDFromContext(r.Context()), chi.URLParam(r, "lessonID")); err != nil {
		slog.Error("Failed to complete lesson", "error", err)
		JSON(w, statusFor(err), map[string]interface{}{"success": false, "error": "Failed to complete lesson"})
		return
	}
	JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// UncompleteLesson handles DELETE /api/lessons/{lessonID}/completion.
func (h *CourseHandler) UncompleteLesson(w http.ResponseWriter, r *http.Request) {
	if err := h.courses.UncompleteLesson(r.Context(), identity.UserIDFromContext(r.Context()), chi.URLParam(r, "lessonID")); err != nil {
		slog.Error("Failed to uncomplete lesson", "error", err)
		JSON(w, statusFor(err), map[string]interface{}{"success": false, "error": "Failed to uncomplete lesson"})
		return
	}
	JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *CourseHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error(fallback, "error", err)
		Error(w, status, fallback)
		return
	}
	Error(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, course.ErrCourseNotFound), errors.Is(err, course.ErrLessonNotFound):
		return http.StatusNotFound
	case errors.Is(err, course.ErrStudentNotFound):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
