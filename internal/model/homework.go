package model

import (
	"time"

	"github.com/google/uuid"
)

type HomeworkStatus string

const (
	HomeworkStatusTodo    HomeworkStatus = "todo"
	HomeworkStatusDone    HomeworkStatus = "done"
	HomeworkStatusSkipped HomeworkStatus = "skipped"
)

// HomeworkItem belongs to one enrollment and is authored by the course's
// teacher. CompletedAt is derived from Status: nil exactly when todo,
// stamped once on a transition away from todo, not touched on lateral
// done<->skipped moves.
type HomeworkItem struct {
	ID                 uuid.UUID      `json:"id"`
	EnrollmentID       uuid.UUID      `json:"enrollment_id"`
	CreatedByTeacherID uuid.UUID      `json:"created_by_teacher_id"`
	Title              string         `json:"title"`
	Description        *string        `json:"description"`
	LinkUrl            *string        `json:"link_url"`
	DueAt              *time.Time     `json:"due_at"` // UTC, past allowed
	Status             HomeworkStatus `json:"status"`
	CompletedAt        *time.Time     `json:"completed_at"`

	// Student-authored.
	StudentAnswer            *string    `json:"student_answer"`
	StudentAnswerSubmittedAt *time.Time `json:"student_answer_submitted_at"`

	// Teacher review, set together on check.
	TeacherComment *string    `json:"teacher_comment"`
	TeacherGrade   *int       `json:"teacher_grade"` // 0..100
	CheckedAt      *time.Time `json:"checked_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
