package model

import (
	"time"

	"github.com/google/uuid"
)

type EnrollmentStatus string

const (
	EnrollmentStatusActive  EnrollmentStatus = "active"
	EnrollmentStatusRevoked EnrollmentStatus = "revoked"
)

// Enrollment links one student to one course. Unique on (CourseID, StudentID):
// a student enrolls in a course at most once, revoke is not reversible.
type Enrollment struct {
	ID        uuid.UUID        `json:"id"`
	CourseID  uuid.UUID        `json:"course_id"`
	StudentID uuid.UUID        `json:"student_id"`
	Plan      *string          `json:"plan"`
	Progress  *string          `json:"progress"`
	Status    EnrollmentStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Writable reports whether new sessions or homework may be created against
// this enrollment. Updates to already-existing rows are not gated by it.
func (e *Enrollment) Writable() bool {
	return e.Status != EnrollmentStatusRevoked
}
