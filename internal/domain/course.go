package domain

import "time"

// Course is a published course with its ordered modules.
type Course struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Instructor  string    `json:"instructor,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Price       int64     `json:"price"`
	Modules     []Module  `json:"modules,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LessonCount returns the total number of lessons across all modules.
func (c *Course) LessonCount() int {
	n := 0
	for _, m := range c.Modules {
		n += len(m.Lessons)
	}
	return n
}

// Module groups lessons inside a course.
type Module struct {
	ID       string   `json:"id"`
	CourseID string   `json:"courseId"`
	Title    string   `json:"title"`
	Position int      `json:"position"`
	Lessons  []Lesson `json:"lessons,omitempty"`
}

// Lesson is a single unit of course content. Content holds the plain-text blocks
// joined by blank lines.
type Lesson struct {
	ID          string `json:"id"`
	ModuleID    string `json:"moduleId"`
	CourseID    string `json:"courseId"`
	Slug        string `json:"slug,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	VideoURL    string `json:"videoUrl,omitempty"`
	Content     string `json:"content,omitempty"`
	Position    int    `json:"position"`
}

// CourseProgress summarizes a student's completion of one course.
type CourseProgress struct {
	CourseID           string           `json:"courseId"`
	CompletedLessons   []string         `json:"completedLessons"`
	TotalLessons       int              `json:"totalLessons"`
	ProgressPercentage int              `json:"progressPercentage"`
	Modules            []ModuleProgress `json:"modules,omitempty"`
}

// ModuleProgress summarizes completion of a single module.
type ModuleProgress struct {
	ModuleID           string `json:"moduleId"`
	Title              string `json:"title"`
	CompletedLessons   int    `json:"completedLessons"`
	TotalLessons       int    `json:"totalLessons"`
	ProgressPercentage int    `json:"progressPercentage"`
}
