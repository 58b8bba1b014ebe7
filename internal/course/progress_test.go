package course

import (
	"testing"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/domain"
)

func TestPercentage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		completed, total, want int
	}{
		{0, 0, 0},
		{3, 0, 0},
		{0, 4, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{4, 4, 100},
	}
	for _, tt := range tests {
		if got := Percentage(tt.completed, tt.total); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %d, want %d", tt.completed, tt.total, got, tt.want)
		}
	}
}

func TestProgressPerModule(t *testing.T) {
	t.Parallel()

	c := &domain.Course{ID: "c1", Modules: []domain.Module{
		{ID: "m1", Title: "One", Lessons: []domain.Lesson{{ID: "a"}, {ID: "b"}}},
		{ID: "m2", Title: "Two", Lessons: []domain.Lesson{{ID: "c"}}},
		{ID: "m3", Title: "Empty"},
	}}

	p := Progress(c, []string{"b", "c", "stray"})
	if p.TotalLessons != 3 || p.ProgressPercentage != 67 {
		t.Fatalf("unexpected totals: %+v", p)
	}
	if len(p.CompletedLessons) != 2 {
		t.Fatalf("expected stray id to be ignored, got %v", p.CompletedLessons)
	}
	want := []int{50, 100, 0}
	for i, mp := range p.Modules {
		if mp.ProgressPercentage != want[i] {
			t.Errorf("module %s: got %d%%, want %d%%", mp.ModuleID, mp.ProgressPercentage, want[i])
		}
	}

	empty := Progress(&domain.Course{ID: "none"}, nil)
	if empty.ProgressPercentage != 0 || empty.CompletedLessons == nil {
		t.Fatalf("unexpected empty progress: %+v", empty)
	}
}
