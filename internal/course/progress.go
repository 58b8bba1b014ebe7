// Package course implements the learner-facing catalog, enrollment and
// progress operations on top of the store.
package course

import (
	"math"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/domain"
)

// Percentage returns round(completed/total*100), or 0 when total is 0.
func Percentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// Progress computes course and per-module completion from the completed lesson IDs.
// IDs that do not belong to the course are ignored.
func Progress(c *domain.Course, completedIDs []string) domain.CourseProgress {
	done := make(map[string]bool, len(completedIDs))
	for _, id := range completedIDs {
		done[id] = true
	}

	p := domain.CourseProgress{CourseID: c.ID, CompletedLessons: []string{}}
	for _, m := range c.Modules {
		mp := domain.ModuleProgress{ModuleID: m.ID, Title: m.Title, TotalLessons: len(m.Lessons)}
		for _, l := range m.Lessons {
			if done[l.ID] {
				mp.CompletedLessons++
				p.CompletedLessons = append(p.CompletedLessons, l.ID)
			}
		}
		mp.ProgressPercentage = Percentage(mp.CompletedLessons, mp.TotalLessons)
		p.TotalLessons += mp.TotalLessons
		p.Modules = append(p.Modules, mp)
	}
	p.ProgressPercentage = Percentage(len(p.CompletedLessons), p.TotalLessons)
	return p
}
