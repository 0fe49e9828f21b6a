package model

import (
	"time"

	"github.com/google/uuid"
)

type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "draft"
	CourseStatusPublished CourseStatus = "published"
	CourseStatusArchived  CourseStatus = "archived"
)

type Course struct {
	ID               uuid.UUID    `json:"id"`
	TeacherID        uuid.UUID    `json:"teacher_id"` // immutable after creation
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	DefaultVideoLink *string      `json:"default_video_link"` // fallback for sessions without their own link
	Status           CourseStatus `json:"status"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}
