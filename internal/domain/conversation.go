// Package domain contains core domain types for the EduNova application.
package domain

import (
	"strings"
	"time"
)

// Role identifies who authored a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one immutable entry in a learner's chat history.
type ConversationTurn struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// LearningContext frames the course and lesson a learner is currently viewing.
// An empty field means the value is unknown.
type LearningContext struct {
	CourseTitle  string `json:"courseTitle,omitempty"`
	LessonTitle  string `json:"lessonTitle,omitempty"`
	CurrentTopic string `json:"currentTopic,omitempty"`
	UserProgress string `json:"userProgress,omitempty"`
}

// ContextPatch is a partial LearningContext. Nil fields are left untouched on merge.
type ContextPatch struct {
	CourseTitle  *string `json:"courseTitle,omitempty"`
	LessonTitle  *string `json:"lessonTitle,omitempty"`
	CurrentTopic *string `json:"currentTopic,omitempty"`
	UserProgress *string `json:"userProgress,omitempty"`
}

// IsEmpty reports whether the patch carries no fields.
func (p ContextPatch) IsEmpty() bool {
	return p.CourseTitle == nil && p.LessonTitle == nil && p.CurrentTopic == nil && p.UserProgress == nil
}

// Merge returns a copy of c with every field present in p overwritten.
func (c LearningContext) Merge(p ContextPatch) LearningContext {
	if p.CourseTitle != nil {
		c.CourseTitle = strings.TrimSpace(*p.CourseTitle)
	}
	if p.LessonTitle != nil {
		c.LessonTitle = strings.TrimSpace(*p.LessonTitle)
	}
	if p.CurrentTopic != nil {
		c.CurrentTopic = strings.TrimSpace(*p.CurrentTopic)
	}
	if p.UserProgress != nil {
		c.UserProgress = strings.TrimSpace(*p.UserProgress)
	}
	return c
}

// Overlay returns p with every field present in o replacing p's field,
// including fields explicitly set to the empty string.
func (p ContextPatch) Overlay(o ContextPatch) ContextPatch {
	if o.CourseTitle != nil {
		p.CourseTitle = o.CourseTitle
	}
	if o.LessonTitle != nil {
		p.LessonTitle = o.LessonTitle
	}
	if o.CurrentTopic != nil {
		p.CurrentTopic = o.CurrentTopic
	}
	if o.UserProgress != nil {
		p.UserProgress = o.UserProgress
	}
	return p
}

// PatchFrom builds a patch that sets every non-empty field of c.
func PatchFrom(c LearningContext) ContextPatch {
	var p ContextPatch
	if c.CourseTitle != "" {
		p.CourseTitle = &c.CourseTitle
	}
	if c.LessonTitle != "" {
		p.LessonTitle = &c.LessonTitle
	}
	if c.CurrentTopic != "" {
		p.CurrentTopic = &c.CurrentTopic
	}
	if c.UserProgress != "" {
		p.UserProgress = &c.UserProgress
	}
	return p
}

// Intent is the classified purpose of a user message.
type Intent string

const (
	IntentGreeting    Intent = "greeting"
	IntentFarewell    Intent = "farewell"
	IntentStudyAdvice Intent = "study-advice"
	IntentMotivation  Intent = "motivation"
	IntentExplanation Intent = "explanation"
	IntentHowTo       Intent = "how-to"
	IntentHelp        Intent = "help"
	IntentArithmetic  Intent = "arithmetic"
	IntentGeneral     Intent = "general"
)

// Intents lists every valid intent.
var Intents = []Intent{
	IntentGreeting, IntentFarewell, IntentStudyAdvice, IntentMotivation,
	IntentExplanation, IntentHowTo, IntentHelp, IntentArithmetic, IntentGeneral,
}

// Valid reports whether i is a member of the closed intent set.
func (i Intent) Valid() bool {
	for _, known := range Intents {
		if i == known {
			return true
		}
	}
	return false
}
