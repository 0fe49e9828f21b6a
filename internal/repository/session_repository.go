package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/backend/internal/model"
)

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

const sessionColumns = `id, course_id, teacher_id, student_id, lesson_id, starts_at, duration_minutes,
		video_link, notes, status, lesson_title_snapshot, lesson_material_url_snapshot, created_at, updated_at`

func scanSession(row pgx.Row) (*model.Session, error) {
	var s model.Session
	err := row.Scan(
		&s.ID,
		&s.CourseID,
		&s.TeacherID,
		&s.StudentID,
		&s.LessonID,
		&s.StartsAt,
		&s.DurationMinutes,
		&s.VideoLink,
		&s.Notes,
		&s.Status,
		&s.LessonTitleSnapshot,
		&s.LessonMaterialUrlSnapshot,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SessionFilter narrows session list queries. Nil fields are not applied.
// The time range is half-open: starts_at >= From, starts_at < To.
type SessionFilter struct {
	CourseID  *uuid.UUID
	StudentID *uuid.UUID
	From      *time.Time
	To        *time.Time
	Status    *model.SessionStatus
}

func (f SessionFilter) apply(conds []string, args []any) ([]string, []any) {
	if f.CourseID != nil {
		args = append(args, *f.CourseID)
		conds = append(conds, fmt.Sprintf("course_id = $%d", len(args)))
	}
	if f.StudentID != nil {
		args = append(args, *f.StudentID)
		conds = append(conds, fmt.Sprintf("student_id = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		conds = append(conds, fmt.Sprintf("starts_at >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		conds = append(conds, fmt.Sprintf("starts_at < $%d", len(args)))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	return conds, args
}

// Create inserts a new session.
func (r *SessionRepository) Create(ctx context.Context, session *model.Session) error {
	query := `
		INSERT INTO sessions (id, course_id, teacher_id, student_id, lesson_id, starts_at, duration_minutes,
			video_link, notes, status, lesson_title_snapshot, lesson_material_url_snapshot, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.pool.Exec(
		ctx, query,
		session.ID,
		session.CourseID,
		session.TeacherID,
		session.StudentID,
		session.LessonID,
		session.StartsAt,
		session.DurationMinutes,
		session.VideoLink,
		session.Notes,
		session.Status,
		session.LessonTitleSnapshot,
		session.LessonMaterialUrlSnapshot,
		session.CreatedAt,
		session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

// GetByID returns the session or nil when no row matches.
func (r *SessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

	s, err := scanSession(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get session by id: %w", err)
	}

	return s, nil
}

// GetByIDForStudent returns the session only when it belongs to the student.
func (r *SessionRepository) GetByIDForStudent(ctx context.Context, id, studentID uuid.UUID) (*model.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1 AND student_id = $2`

	s, err := scanSession(r.pool.QueryRow(ctx, query, id, studentID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get session for student: %w", err)
	}

	return s, nil
}

// ListByTeacher returns the teacher's sessions matching the filter,
// latest start first.
func (r *SessionRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID, filter SessionFilter) ([]*model.Session, error) {
	args := []any{teacherID}
	conds := []string{"teacher_id = $1"}
	conds, args = filter.apply(conds, args)

	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE ` + joinConds(conds) + ` ORDER BY starts_at DESC`

	return r.list(ctx, query, args)
}

// ListByStudent returns the student's sessions matching the filter,
// latest start first.
func (r *SessionRepository) ListByStudent(ctx context.Context, studentID uuid.UUID, filter SessionFilter) ([]*model.Session, error) {
	args := []any{studentID}
	conds := []string{"student_id = $1"}
	conds, args = filter.apply(conds, args)

	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE ` + joinConds(conds) + ` ORDER BY starts_at DESC`

	return r.list(ctx, query, args)
}

func (r *SessionRepository) list(ctx context.Context, query string, args []any) ([]*model.Session, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*model.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	return sessions, rows.Err()
}

// Update replaces the mutable session fields, snapshots included.
func (r *SessionRepository) Update(ctx context.Context, session *model.Session) error {
	query := `
		UPDATE sessions
		SET lesson_id = $1, starts_at = $2, duration_minutes = $3, video_link = $4, notes = $5,
			status = $6, lesson_title_snapshot = $7, lesson_material_url_snapshot = $8, updated_at = $9
		WHERE id = $10
	`

	result, err := r.pool.Exec(
		ctx, query,
		session.LessonID,
		session.StartsAt,
		session.DurationMinutes,
		session.VideoLink,
		session.Notes,
		session.Status,
		session.LessonTitleSnapshot,
		session.LessonMaterialUrlSnapshot,
		session.UpdatedAt,
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("session not found")
	}

	return nil
}

func joinConds(conds []string) string {
	out := conds[0]
	for _, c := range conds[1:] {
		out += " AND " + c
	}
	return out
}
