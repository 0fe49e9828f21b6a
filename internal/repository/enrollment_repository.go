package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/backend/internal/model"
)

type EnrollmentRepository struct {
	pool *pgxpool.Pool
}

func NewEnrollmentRepository(pool *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{pool: pool}
}

const enrollmentColumns = `id, course_id, student_id, plan, progress, status, created_at, updated_at`

func scanEnrollment(row pgx.Row) (*model.Enrollment, error) {
	var e model.Enrollment
	err := row.Scan(
		&e.ID,
		&e.CourseID,
		&e.StudentID,
		&e.Plan,
		&e.Progress,
		&e.Status,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new enrollment. The unique (course_id, student_id) index
// is the authoritative guard; a violation comes back as ErrDuplicate.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *model.Enrollment) error {
	query := `
		INSERT INTO enrollments (id, course_id, student_id, plan, progress, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(
		ctx, query,
		enrollment.ID,
		enrollment.CourseID,
		enrollment.StudentID,
		enrollment.Plan,
		enrollment.Progress,
		enrollment.Status,
		enrollment.CreatedAt,
		enrollment.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create enrollment: %w", err)
	}

	return nil
}

// GetByID returns the enrollment or nil when no row matches.
func (r *EnrollmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE id = $1`

	e, err := scanEnrollment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get enrollment by id: %w", err)
	}

	return e, nil
}

// GetByCourseAndStudent returns the enrollment for (courseID, studentID), or nil.
func (r *EnrollmentRepository) GetByCourseAndStudent(ctx context.Context, courseID, studentID uuid.UUID) (*model.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE course_id = $1 AND student_id = $2`

	e, err := scanEnrollment(r.pool.QueryRow(ctx, query, courseID, studentID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get enrollment by course and student: %w", err)
	}

	return e, nil
}

// ListByCourse returns the course's enrollments, newest first.
func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*model.Enrollment, error) {
	query := `
		SELECT ` + enrollmentColumns + `
		FROM enrollments
		WHERE course_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments by course: %w", err)
	}
	defer rows.Close()

	var enrollments []*model.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		enrollments = append(enrollments, e)
	}

	return enrollments, rows.Err()
}

// Update replaces the teacher bookkeeping fields and status.
func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *model.Enrollment) error {
	query := `
		UPDATE enrollments
		SET plan = $1, progress = $2, status = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.pool.Exec(
		ctx, query,
		enrollment.Plan,
		enrollment.Progress,
		enrollment.Status,
		enrollment.UpdatedAt,
		enrollment.ID,
	)
	if err != nil {
		return fmt.Errorf("update enrollment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("enrollment not found")
	}

	return nil
}
