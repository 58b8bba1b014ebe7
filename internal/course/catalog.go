package course

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/domain"
)

// Catalog is the JSON document accepted by Import.
type Catalog struct {
	Courses []CatalogCourse `json:"courses"`
}

// CatalogCourse is one course entry in a catalog file.
type CatalogCourse struct {
	ID          string          `json:"id"`
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Instructor  string          `json:"instructor"`
	ImageURL    string          `json:"imageUrl"`
	Price       int64           `json:"price"`
	Modules     []CatalogModule `json:"modules"`
}

// CatalogModule is one module entry in a catalog file.
type CatalogModule struct {
	ID      string          `json:"id"`
	Title   string          `json:"title"`
	Lessons []CatalogLesson `json:"lessons"`
}

// CatalogLesson is one lesson entry. Content may be given as a single string or
// as a list of text blocks, which are joined by blank lines.
type CatalogLesson struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	VideoURL    string   `json:"videoUrl"`
	Content     string   `json:"content"`
	Blocks      []string `json:"blocks"`
}

// ImportFile loads a catalog from path and upserts every course.
func (s *Service) ImportFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()
	return s.Import(ctx, f)
}

// Import decodes a catalog and upserts every course, returning how many were written.
func (s *Service) Import(ctx context.Context, r io.Reader) (int, error) {
	var cat Catalog
	if err := json.NewDecoder(r).Decode(&cat); err != nil {
		return 0, fmt.Errorf("decode catalog: %w", err)
	}

	for i, cc := range cat.Courses {
		c, err := cc.toDomain()
		if err != nil {
			return i, fmt.Errorf("course %d: %w", i, err)
		}
		if err := s.repo.UpsertCourse(ctx, c); err != nil {
			return i, fmt.Errorf("import course %s: %w", c.ID, err)
		}
		slog.Debug("Course imported", "course_id", c.ID, "lessons", c.LessonCount())
	}
	slog.Info("Catalog imported", "courses", len(cat.Courses))
	return len(cat.Courses), nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s and joins its alphanumeric runs with hyphens.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

func (cc CatalogCourse) toDomain() (*domain.Course, error) {
	if strings.TrimSpace(cc.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	c := &domain.Course{
		ID:          cc.ID,
		Slug:        cc.Slug,
		Title:       cc.Title,
		Description: cc.Description,
		Category:    cc.Category,
		Instructor:  cc.Instructor,
		ImageURL:    cc.ImageURL,
		Price:       cc.Price,
	}
	if c.Slug == "" {
		c.Slug = Slugify(c.Title)
	}
	if c.ID == "" {
		c.ID = c.Slug
	}

	for mi, cm := range cc.Modules {
		m := domain.Module{ID: cm.ID, CourseID: c.ID, Title: cm.Title, Position: mi}
		if m.ID == "" {
			m.ID = fmt.Sprintf("%s-m%d", c.ID, mi+1)
		}
		for li, cl := range cm.Lessons {
			l := domain.Lesson{
				ID:          cl.ID,
				ModuleID:    m.ID,
				CourseID:    c.ID,
				Slug:        cl.Slug,
				Title:       cl.Title,
				Description: cl.Description,
				VideoURL:    cl.VideoURL,
				Content:     cl.Content,
				Position:    li,
			}
			if l.ID == "" {
				l.ID = fmt.Sprintf("%s-l%d", m.ID, li+1)
			}
			if l.Slug == "" {
				l.Slug = Slugify(l.Title)
			}
			if l.Content == "" && len(cl.Blocks) > 0 {
				l.Content = strings.Join(cl.Blocks, "\n\n")
			}
			m.Lessons = append(m.Lessons, l)
		}
		c.Modules = append(c.Modules, m)
	}
	return c, nil
}
