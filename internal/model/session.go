package model

import (
	"time"

	"github.com/google/uuid"
)

type SessionStatus string

const (
	SessionStatusPlanned  SessionStatus = "planned"
	SessionStatusDone     SessionStatus = "done"
	SessionStatusCanceled SessionStatus = "canceled"
)

const (
	MinSessionDurationMinutes = 1
	MaxSessionDurationMinutes = 1440
)

// Session is one scheduled or completed meeting between a teacher and a
// student under a course, optionally tied to a lesson.
//
// While planned, the session is a live view into current course content.
// Once done, the snapshot fields freeze what the lesson looked like at
// completion time and are never recomputed, even if the lesson is later
// edited or deleted (lesson deletion nulls LessonID, snapshots survive).
type Session struct {
	ID              uuid.UUID     `json:"id"`
	CourseID        uuid.UUID     `json:"course_id"`
	TeacherID       uuid.UUID     `json:"teacher_id"` // denormalized from course ownership at creation
	StudentID       uuid.UUID     `json:"student_id"`
	LessonID        *uuid.UUID    `json:"lesson_id"`
	StartsAt        time.Time     `json:"starts_at"` // UTC, past allowed
	DurationMinutes int           `json:"duration_minutes"`
	VideoLink       *string       `json:"video_link"` // overrides the course default when set
	Notes           *string       `json:"notes"`
	Status          SessionStatus `json:"status"`

	LessonTitleSnapshot       *string `json:"lesson_title_snapshot"`
	LessonMaterialUrlSnapshot *string `json:"lesson_material_url_snapshot"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
