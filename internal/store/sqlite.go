package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/domain"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/shared"
)

const (
	writeAttempts  = 3
	writeBaseDelay = 50 * time.Millisecond
)

// SQLiteStore implements Repository using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite creates a new SQLite-backed repository.
func NewSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := dbPath + "?_journal=WAL&_sync=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	query := `
	PRAGMA busy_timeout = 5000;
	CREATE TABLE IF NOT EXISTS courses (
		id TEXT PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		instructor TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		price INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS modules (
		id TEXT PRIMARY KEY,
		course_id TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		position INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_modules_course ON modules(course_id, position);

	CREATE TABLE IF NOT EXISTS lessons (
		id TEXT PRIMARY KEY,
		module_id TEXT NOT NULL REFERENCES modules(id) ON DELETE CASCADE,
		course_id TEXT NOT NULL,
		slug TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		video_url TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_lessons_module ON lessons(module_id, position);

	CREATE TABLE IF NOT EXISTS students (
		id TEXT PRIMARY KEY,
		external_id TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		image_url TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS enrollments (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		course_id TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		payment_id TEXT NOT NULL,
		amount INTEGER NOT NULL,
		enrolled_at INTEGER NOT NULL,
		UNIQUE(student_id, course_id)
	);

	CREATE TABLE IF NOT EXISTS lesson_completions (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		lesson_id TEXT NOT NULL,
		module_id TEXT NOT NULL,
		course_id TEXT NOT NULL,
		completed_at INTEGER NOT NULL,
		UNIQUE(student_id, lesson_id)
	);
	CREATE INDEX IF NOT EXISTS idx_completions_course ON lesson_completions(student_id, course_id);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}

const courseColumns = `c.id, c.slug, c.title, c.description, c.category, c.instructor, c.image_url, c.price, c.created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (domain.Course, error) {
	var c domain.Course
	var createdAt int64
	err := row.Scan(&c.ID, &c.Slug, &c.Title, &c.Description, &c.Category,
		&c.Instructor, &c.ImageURL, &c.Price, &createdAt)
	c.CreatedAt = time.Unix(createdAt, 0)
	return c, err
}

func (s *SQLiteStore) queryCourses(ctx context.Context, query string, args ...any) ([]domain.Course, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query courses: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close course rows", "error", closeErr)
		}
	}()

	courses := []domain.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate courses: %w", err)
	}
	return courses, nil
}

// ListCourses returns every course ordered by title.
func (s *SQLiteStore) ListCourses(ctx context.Context) ([]domain.Course, error) {
	return s.queryCourses(ctx, `SELECT `+courseColumns+` FROM courses c ORDER BY c.title COLLATE NOCASE`)
}

// SearchCourses matches word prefixes in title, description or category.
func (s *SQLiteStore) SearchCourses(ctx context.Context, query string) ([]domain.Course, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return s.ListCourses(ctx)
	}
	prefix := escapeLike(query) + "%"
	inner := "% " + prefix

	q := `SELECT ` + courseColumns + ` FROM courses c WHERE
		lower(c.title) LIKE ?1 ESCAPE '\' OR lower(c.title) LIKE ?2 ESCAPE '\' OR
		lower(c.description) LIKE ?1 ESCAPE '\' OR lower(c.description) LIKE ?2 ESCAPE '\' OR
		lower(c.category) LIKE ?1 ESCAPE '\' OR lower(c.category) LIKE ?2 ESCAPE '\'
		ORDER BY c.title COLLATE NOCASE`
	return s.queryCourses(ctx, q, prefix, inner)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// GetCourse loads a course by ID or slug with its modules and lessons.
func (s *SQLiteStore) GetCourse(ctx context.Context, idOrSlug string) (*domain.Course, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+courseColumns+` FROM courses c WHERE c.id = ? OR c.slug = ? LIMIT 1`, idOrSlug, idOrSlug)
	course, err := scanCourse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan course: %w", err)
	}

	modules, err := s.loadModules(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	course.Modules = modules
	return &course, nil
}

func (s *SQLiteStore) loadModules(ctx context.Context, courseID string) ([]domain.Module, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.title, m.position,
		       l.id, l.slug, l.title, l.description, l.video_url, l.content, l.position
		FROM modules m LEFT JOIN lessons l ON l.module_id = m.id
		WHERE m.course_id = ?
		ORDER BY m.position, m.id, l.position, l.id`, courseID)
	if err != nil {
		return nil, fmt.Errorf("query modules: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close module rows", "error", closeErr)
		}
	}()

	var modules []domain.Module
	for rows.Next() {
		var m domain.Module
		var lessonID, slug, title, desc, video, content sql.NullString
		var position sql.NullInt64
		if err := rows.Scan(&m.ID, &m.Title, &m.Position,
			&lessonID, &slug, &title, &desc, &video, &content, &position); err != nil {
			return nil, fmt.Errorf("scan module row: %w", err)
		}
		if n := len(modules); n == 0 || modules[n-1].ID != m.ID {
			m.CourseID = courseID
			modules = append(modules, m)
		}
		if lessonID.Valid {
			cur := &modules[len(modules)-1]
			cur.Lessons = append(cur.Lessons, domain.Lesson{
				ID:          lessonID.String,
				ModuleID:    cur.ID,
				CourseID:    courseID,
				Slug:        slug.String,
				Title:       title.String,
				Description: desc.String,
				VideoURL:    video.String,
				Content:     content.String,
				Position:    int(position.Int64),
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate modules: %w", err)
	}
	return modules, nil
}

// GetLesson loads a single lesson.
func (s *SQLiteStore) GetLesson(ctx context.Context, lessonID string) (*domain.Lesson, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, module_id, course_id, slug, title, description, video_url, content, position
		FROM lessons WHERE id = ?`, lessonID)

	var l domain.Lesson
	err := row.Scan(&l.ID, &l.ModuleID, &l.CourseID, &l.Slug, &l.Title,
		&l.Description, &l.VideoURL, &l.Content, &l.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan lesson: %w", err)
	}
	return &l, nil
}

// UpsertCourse writes the course and replaces its module tree in one transaction.
func (s *SQLiteStore) UpsertCourse(ctx context.Context, course *domain.Course) error {
	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now()
	}
	return shared.RetryOnConflict(ctx, "upsert_course", writeAttempts, writeBaseDelay, func() error {
		return s.upsertCourseOnce(ctx, course)
	})
}

func (s *SQLiteStore) upsertCourseOnce(ctx context.Context, course *domain.Course) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin course tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO courses (id, slug, title, description, category, instructor, image_url, price, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			slug = excluded.slug,
			title = excluded.title,
			description = excluded.description,
			category = excluded.category,
			instructor = excluded.instructor,
			image_url = excluded.image_url,
			price = excluded.price`,
		course.ID, course.Slug, course.Title, course.Description, course.Category,
		course.Instructor, course.ImageURL, course.Price, course.CreatedAt.Unix(),
	); err != nil {
		return fmt.Errorf("upsert course: %w", err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM lessons WHERE course_id = ?`, course.ID); err != nil {
		return fmt.Errorf("delete lessons: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM modules WHERE course_id = ?`, course.ID); err != nil {
		return fmt.Errorf("delete modules: %w", err)
	}

	for mi, m := range course.Modules {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO modules (id, course_id, title, position) VALUES (?, ?, ?, ?)`,
			m.ID, course.ID, m.Title, mi,
		); err != nil {
			return fmt.Errorf("insert module %s: %w", m.ID, err)
		}
		for li, l := range m.Lessons {
			if _, err = tx.ExecContext(ctx, `
				INSERT INTO lessons (id, module_id, course_id, slug, title, description, video_url, content, position)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				l.ID, m.ID, course.ID, l.Slug, l.Title, l.Description, l.VideoURL, l.Content, li,
			); err != nil {
				return fmt.Errorf("insert lesson %s: %w", l.ID, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit course tx: %w", err)
	}
	return nil
}

// GetStudent retrieves a student by external id.
func (s *SQLiteStore) GetStudent(ctx context.Context, externalID string) (*domain.Student, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, external_id, email, name, image_url, created_at, updated_at
		FROM students WHERE external_id = ?`, externalID)

	var st domain.Student
	var createdAt, updatedAt int64
	err := row.Scan(&st.ID, &st.ExternalID, &st.Email, &st.Name, &st.ImageURL, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan student: %w", err)
	}
	st.CreatedAt = time.Unix(createdAt, 0)
	st.UpdatedAt = time.Unix(updatedAt, 0)
	return &st, nil
}

// CreateStudentIfNotExists inserts the student unless the external id is taken.
func (s *SQLiteStore) CreateStudentIfNotExists(ctx context.Context, student *domain.Student) (*domain.Student, error) {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now

	err := shared.RetryOnConflict(ctx, "create_student", writeAttempts, writeBaseDelay, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO students (id, external_id, email, name, image_url, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(external_id) DO NOTHING`,
			student.ID, student.ExternalID, student.Email, student.Name, student.ImageURL,
			student.CreatedAt.Unix(), student.UpdatedAt.Unix(),
		)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	return s.GetStudent(ctx, student.ExternalID)
}

// Enroll records an enrollment, returning the existing one on repeat.
func (s *SQLiteStore) Enroll(ctx context.Context, e *domain.Enrollment) (*domain.Enrollment, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = time.Now()
	}

	err := shared.RetryOnConflict(ctx, "enroll", writeAttempts, writeBaseDelay, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO enrollments (id, student_id, course_id, payment_id, amount, enrolled_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(student_id, course_id) DO NOTHING`,
			e.ID, e.StudentID, e.CourseID, e.PaymentID, e.Amount, e.EnrolledAt.Unix(),
		)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("insert enrollment: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, student_id, course_id, payment_id, amount, enrolled_at
		FROM enrollments WHERE student_id = ? AND course_id = ?`, e.StudentID, e.CourseID)
	var out domain.Enrollment
	var enrolledAt int64
	if err := row.Scan(&out.ID, &out.StudentID, &out.CourseID, &out.PaymentID, &out.Amount, &enrolledAt); err != nil {
		return nil, fmt.Errorf("scan enrollment: %w", err)
	}
	out.EnrolledAt = time.Unix(enrolledAt, 0)
	return &out, nil
}

// IsEnrolled reports whether the student is enrolled in the course.
func (s *SQLiteStore) IsEnrolled(ctx context.Context, studentID, courseID string) (bool, error) {
	return s.exists(ctx, `SELECT 1 FROM enrollments WHERE student_id = ? AND course_id = ?`, studentID, courseID)
}

// EnrolledCourses lists a student's courses, most recent enrollment first.
func (s *SQLiteStore) EnrolledCourses(ctx context.Context, studentID string) ([]domain.Course, error) {
	return s.queryCourses(ctx, `
		SELECT `+courseColumns+` FROM courses c
		JOIN enrollments e ON e.course_id = c.id
		WHERE e.student_id = ?
		ORDER BY e.enrolled_at DESC, c.title`, studentID)
}

// CompleteLesson records a completion; repeats keep the first timestamp.
func (s *SQLiteStore) CompleteLesson(ctx context.Context, c *domain.LessonCompletion) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CompletedAt.IsZero() {
		c.CompletedAt = time.Now()
	}
	err := shared.RetryOnConflict(ctx, "complete_lesson", writeAttempts, writeBaseDelay, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO lesson_completions (id, student_id, lesson_id, module_id, course_id, completed_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(student_id, lesson_id) DO NOTHING`,
			c.ID, c.StudentID, c.LessonID, c.ModuleID, c.CourseID, c.CompletedAt.Unix(),
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("complete lesson: %w", err)
	}
	return nil
}

// UncompleteLesson removes a completion if present.
func (s *SQLiteStore) UncompleteLesson(ctx context.Context, studentID, lessonID string) error {
	err := shared.RetryOnConflict(ctx, "uncomplete_lesson", writeAttempts, writeBaseDelay, func() error {
		_, err := s.db.ExecContext(ctx,
			`DELETE FROM lesson_completions WHERE student_id = ? AND lesson_id = ?`, studentID, lessonID)
		return err
	})
	if err != nil {
		return fmt.Errorf("uncomplete lesson: %w", err)
	}
	return nil
}

// IsLessonCompleted reports whether the student completed the lesson.
func (s *SQLiteStore) IsLessonCompleted(ctx context.Context, studentID, lessonID string) (bool, error) {
	return s.exists(ctx, `SELECT 1 FROM lesson_completions WHERE student_id = ? AND lesson_id = ?`, studentID, lessonID)
}

// CompletedLessons lists completed lesson IDs in a course, oldest first.
func (s *SQLiteStore) CompletedLessons(ctx context.Context, studentID, courseID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT lesson_id FROM lesson_completions
		WHERE student_id = ? AND course_id = ?
		ORDER BY completed_at, lesson_id`, studentID, courseID)
	if err != nil {
		return nil, fmt.Errorf("query completions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close completion rows", "error", closeErr)
		}
	}()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan completion row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completions: %w", err)
	}
	return ids, nil
}

func (s *SQLiteStore) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query existence: %w", err)
	}
	return true, nil
}

var _ Repository = (*SQLiteStore)(nil)
