package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/model"
	"github.com/tutorhub/backend/internal/repository"
)

// SessionService runs the session lifecycle: planned -> done via Complete
// (idempotent), planned <-> canceled via Update, done terminal. Snapshots
// of the linked lesson are taken exactly once, at completion.
type SessionService struct {
	courses     CourseStore
	lessons     LessonStore
	enrollments EnrollmentStore
	sessions    SessionStore
	clock       Clock
	logger      *zap.Logger
}

func NewSessionService(
	courses CourseStore,
	lessons LessonStore,
	enrollments EnrollmentStore,
	sessions SessionStore,
	clock Clock,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		courses:     courses,
		lessons:     lessons,
		enrollments: enrollments,
		sessions:    sessions,
		clock:       clock,
		logger:      logger,
	}
}

type CreateSessionInput struct {
	CourseID        uuid.UUID  `json:"course_id"`
	StudentID       uuid.UUID  `json:"student_id"`
	StartsAt        time.Time  `json:"starts_at"` // past allowed
	DurationMinutes int        `json:"duration_minutes"`
	LessonID        *uuid.UUID `json:"lesson_id"`
	VideoLink       *string    `json:"video_link"`
	Notes           *string    `json:"notes"`
}

// SessionPatch is a partial update: absent fields keep the stored value,
// present-null clears LessonID/VideoLink/Notes. Status done is rejected
// here, that transition belongs to Complete.
type SessionPatch struct {
	StartsAt        model.Opt[time.Time]           `json:"starts_at"`
	DurationMinutes model.Opt[int]                 `json:"duration_minutes"`
	LessonID        model.Opt[uuid.UUID]           `json:"lesson_id"`
	VideoLink       model.Opt[string]              `json:"video_link"`
	Notes           model.Opt[string]              `json:"notes"`
	Status          model.Opt[model.SessionStatus] `json:"status"`
}

// Create schedules a session. Checks run in a fixed order and the first
// failure wins: duration bounds, course ownership, enrollment existence,
// enrollment not revoked, lesson-belongs-to-course.
func (s *SessionService) Create(ctx context.Context, teacherID uuid.UUID, in CreateSessionInput) (*model.Session, error) {
	if in.DurationMinutes < model.MinSessionDurationMinutes || in.DurationMinutes > model.MaxSessionDurationMinutes {
		return nil, ErrInvalidDuration
	}

	course, err := s.courses.GetByIDForTeacher(ctx, in.CourseID, teacherID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	enrollment, err := s.enrollments.GetByCourseAndStudent(ctx, in.CourseID, in.StudentID)
	if err != nil {
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	if enrollment == nil {
		return nil, ErrEnrollmentNotFound
	}
	if !enrollment.Writable() {
		return nil, ErrRevoked
	}

	if in.LessonID != nil {
		ok, err := s.lessons.ExistsInCourse(ctx, *in.LessonID, in.CourseID)
		if err != nil {
			return nil, fmt.Errorf("check lesson: %w", err)
		}
		if !ok {
			return nil, ErrLessonWrongCourse
		}
	}

	now := s.clock.Now()
	session := &model.Session{
		ID:              uuid.New(),
		CourseID:        in.CourseID,
		TeacherID:       teacherID,
		StudentID:       in.StudentID,
		LessonID:        in.LessonID,
		StartsAt:        in.StartsAt,
		DurationMinutes: in.DurationMinutes,
		VideoLink:       in.VideoLink,
		Notes:           in.Notes,
		Status:          model.SessionStatusPlanned,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("session created",
		zap.String("session_id", session.ID.String()),
		zap.String("course_id", in.CourseID.String()),
		zap.String("student_id", in.StudentID.String()),
	)

	return session, nil
}

// Update applies a partial update to a session the teacher owns.
func (s *SessionService) Update(ctx context.Context, teacherID, sessionID uuid.UUID, patch SessionPatch) error {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	if session == nil || session.TeacherID != teacherID {
		return ErrNotFound
	}

	if patch.DurationMinutes.Set && patch.DurationMinutes.Value != nil {
		d := *patch.DurationMinutes.Value
		if d < model.MinSessionDurationMinutes || d > model.MaxSessionDurationMinutes {
			return ErrInvalidDuration
		}
	}

	if patch.Status.Set && patch.Status.Value != nil {
		switch *patch.Status.Value {
		case model.SessionStatusDone:
			return ErrDoneViaCompleteOnly
		case model.SessionStatusPlanned, model.SessionStatusCanceled:
		default:
			return ErrInvalidInput
		}
	}

	if patch.LessonID.Set && patch.LessonID.Value != nil {
		ok, err := s.lessons.ExistsInCourse(ctx, *patch.LessonID.Value, session.CourseID)
		if err != nil {
			return fmt.Errorf("check lesson: %w", err)
		}
		if !ok {
			return ErrLessonWrongCourse
		}
	}

	if patch.StartsAt.Set && patch.StartsAt.Value != nil {
		session.StartsAt = *patch.StartsAt.Value
	}
	if patch.DurationMinutes.Set && patch.DurationMinutes.Value != nil {
		session.DurationMinutes = *patch.DurationMinutes.Value
	}
	if patch.LessonID.Set {
		session.LessonID = patch.LessonID.Value
	}
	if patch.VideoLink.Set {
		session.VideoLink = patch.VideoLink.Value
	}
	if patch.Notes.Set {
		session.Notes = patch.Notes.Value
	}
	if patch.Status.Set && patch.Status.Value != nil {
		session.Status = *patch.Status.Value
	}

	session.UpdatedAt = s.clock.Now()

	if err := s.sessions.Update(ctx, session); err != nil {
		return fmt.Errorf("update session: %w", err)
	}

	return nil
}

// Complete moves a planned session to done and freezes the lesson snapshot.
// Calling it on an already-done session is a no-op: the stored snapshot is
// never recomputed. A canceled session cannot be completed.
func (s *SessionService) Complete(ctx context.Context, teacherID, sessionID uuid.UUID) error {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	if session == nil || session.TeacherID != teacherID {
		return ErrNotFound
	}

	if session.Status == model.SessionStatusDone {
		return nil
	}
	if session.Status == model.SessionStatusCanceled {
		return ErrCannotCompleteCanceled
	}

	if session.LessonID != nil {
		lesson, err := s.lessons.GetByIDInCourse(ctx, *session.LessonID, session.CourseID)
		if err != nil {
			return fmt.Errorf("get lesson: %w", err)
		}
		// A deleted lesson leaves the snapshot empty; completion still goes
		// through.
		if lesson != nil {
			session.LessonTitleSnapshot = &lesson.Title
			session.LessonMaterialUrlSnapshot = lesson.MaterialUrl
		}
	}

	session.Status = model.SessionStatusDone
	session.UpdatedAt = s.clock.Now()

	if err := s.sessions.Update(ctx, session); err != nil {
		return fmt.Errorf("update session: %w", err)
	}

	s.logger.Info("session completed",
		zap.String("session_id", session.ID.String()),
		zap.Bool("snapshot", session.LessonTitleSnapshot != nil),
	)

	return nil
}

// ListForTeacher returns the teacher's sessions, latest start first. The
// teacher view exposes everything, live and snapshot fields alike.
func (s *SessionService) ListForTeacher(ctx context.Context, teacherID uuid.UUID, filter repository.SessionFilter) ([]*model.Session, error) {
	return s.sessions.ListByTeacher(ctx, teacherID, filter)
}

// StudentSessionItem is the student list projection.
type StudentSessionItem struct {
	ID              uuid.UUID           `json:"id"`
	CourseID        uuid.UUID           `json:"course_id"`
	StartsAt        time.Time           `json:"starts_at"`
	DurationMinutes int                 `json:"duration_minutes"`
	Status          model.SessionStatus `json:"status"`
}

// StudentSessionDetail is the student detail projection. VideoLink already
// holds the effective link (session override, else course default). While
// the session is planned LiveLessonMaterialUrl reflects the lesson as it is
// right now; once done only the frozen snapshot fields are populated.
type StudentSessionDetail struct {
	ID                        uuid.UUID           `json:"id"`
	StartsAt                  time.Time           `json:"starts_at"`
	DurationMinutes           int                 `json:"duration_minutes"`
	Status                    model.SessionStatus `json:"status"`
	VideoLink                 *string             `json:"video_link"`
	LiveLessonMaterialUrl     *string             `json:"live_lesson_material_url"`
	LessonTitleSnapshot       *string             `json:"lesson_title_snapshot"`
	LessonMaterialUrlSnapshot *string             `json:"lesson_material_url_snapshot"`
}

// ListForStudent returns the student's own sessions, latest start first.
func (s *SessionService) ListForStudent(ctx context.Context, studentID uuid.UUID, filter repository.SessionFilter) ([]*StudentSessionItem, error) {
	sessions, err := s.sessions.ListByStudent(ctx, studentID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]*StudentSessionItem, 0, len(sessions))
	for _, session := range sessions {
		items = append(items, &StudentSessionItem{
			ID:              session.ID,
			CourseID:        session.CourseID,
			StartsAt:        session.StartsAt,
			DurationMinutes: session.DurationMinutes,
			Status:          session.Status,
		})
	}

	return items, nil
}

// GetForStudent materializes the student view of one session.
func (s *SessionService) GetForStudent(ctx context.Context, studentID, sessionID uuid.UUID) (*StudentSessionDetail, error) {
	session, err := s.sessions.GetByIDForStudent(ctx, sessionID, studentID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil {
		return nil, ErrNotFound
	}

	course, err := s.courses.GetByID(ctx, session.CourseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}

	effective := session.VideoLink
	if effective == nil && course != nil {
		effective = course.DefaultVideoLink
	}

	var liveMaterial *string
	if session.Status == model.SessionStatusPlanned && session.LessonID != nil {
		lesson, err := s.lessons.GetByIDInCourse(ctx, *session.LessonID, session.CourseID)
		if err != nil {
			return nil, fmt.Errorf("get lesson: %w", err)
		}
		if lesson != nil {
			liveMaterial = lesson.MaterialUrl
		}
	}

	return &StudentSessionDetail{
		ID:                        session.ID,
		StartsAt:                  session.StartsAt,
		DurationMinutes:           session.DurationMinutes,
		Status:                    session.Status,
		VideoLink:                 effective,
		LiveLessonMaterialUrl:     liveMaterial,
		LessonTitleSnapshot:       session.LessonTitleSnapshot,
		LessonMaterialUrlSnapshot: session.LessonMaterialUrlSnapshot,
	}, nil
}
