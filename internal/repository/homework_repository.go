package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/backend/internal/model"
)

type HomeworkRepository struct {
	pool *pgxpool.Pool
}

func NewHomeworkRepository(pool *pgxpool.Pool) *HomeworkRepository {
	return &HomeworkRepository{pool: pool}
}

const homeworkColumns = `id, enrollment_id, created_by_teacher_id, title, description, link_url, due_at,
		status, completed_at, student_answer, student_answer_submitted_at,
		teacher_comment, teacher_grade, checked_at, created_at, updated_at`

// Due items first in due order, undated items after them, newest created
// first inside each group. Shared by every homework list query.
const homeworkOrder = ` ORDER BY due_at IS NULL, due_at ASC, created_at DESC`

func scanHomework(row pgx.Row) (*model.HomeworkItem, error) {
	var h model.HomeworkItem
	err := row.Scan(
		&h.ID,
		&h.EnrollmentID,
		&h.CreatedByTeacherID,
		&h.Title,
		&h.Description,
		&h.LinkUrl,
		&h.DueAt,
		&h.Status,
		&h.CompletedAt,
		&h.StudentAnswer,
		&h.StudentAnswerSubmittedAt,
		&h.TeacherComment,
		&h.TeacherGrade,
		&h.CheckedAt,
		&h.CreatedAt,
		&h.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// Create inserts a new homework item.
func (r *HomeworkRepository) Create(ctx context.Context, item *model.HomeworkItem) error {
	query := `
		INSERT INTO homework_items (id, enrollment_id, created_by_teacher_id, title, description, link_url, due_at,
			status, completed_at, student_answer, student_answer_submitted_at,
			teacher_comment, teacher_grade, checked_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.pool.Exec(
		ctx, query,
		item.ID,
		item.EnrollmentID,
		item.CreatedByTeacherID,
		item.Title,
		item.Description,
		item.LinkUrl,
		item.DueAt,
		item.Status,
		item.CompletedAt,
		item.StudentAnswer,
		item.StudentAnswerSubmittedAt,
		item.TeacherComment,
		item.TeacherGrade,
		item.CheckedAt,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create homework item: %w", err)
	}

	return nil
}

// GetByID returns the homework item or nil when no row matches.
func (r *HomeworkRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.HomeworkItem, error) {
	query := `SELECT ` + homeworkColumns + ` FROM homework_items WHERE id = $1`

	h, err := scanHomework(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get homework by id: %w", err)
	}

	return h, nil
}

// ListByEnrollment returns the enrollment's homework in due order.
func (r *HomeworkRepository) ListByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]*model.HomeworkItem, error) {
	query := `SELECT ` + homeworkColumns + ` FROM homework_items WHERE enrollment_id = $1` + homeworkOrder

	rows, err := r.pool.Query(ctx, query, enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("list homework by enrollment: %w", err)
	}
	defer rows.Close()

	var items []*model.HomeworkItem
	for rows.Next() {
		h, err := scanHomework(rows)
		if err != nil {
			return nil, fmt.Errorf("scan homework item: %w", err)
		}
		items = append(items, h)
	}

	return items, rows.Err()
}

// StudentHomeworkItem carries the course id joined from the enrollment for
// the student projections.
type StudentHomeworkItem struct {
	Item     *model.HomeworkItem
	CourseID uuid.UUID
}

// CheckedFilter selects items by review state in student list queries.
type CheckedFilter int

const (
	CheckedAny     CheckedFilter = iota
	CheckedOnly                  // checked_at is set
	UncheckedOnly                // checked_at is null
)

// ListForStudent returns homework reachable through the student's active
// enrollments. Items tied to a revoked enrollment are invisible here even
// though they still exist for the teacher.
func (r *HomeworkRepository) ListForStudent(ctx context.Context, studentID uuid.UUID, filter CheckedFilter) ([]*StudentHomeworkItem, error) {
	query := `
		SELECT h.id, h.enrollment_id, h.created_by_teacher_id, h.title, h.description, h.link_url, h.due_at,
			h.status, h.completed_at, h.student_answer, h.student_answer_submitted_at,
			h.teacher_comment, h.teacher_grade, h.checked_at, h.created_at, h.updated_at,
			e.course_id
		FROM homework_items h
		JOIN enrollments e ON e.id = h.enrollment_id
		WHERE e.student_id = $1 AND e.status = $2
	`
	switch filter {
	case CheckedOnly:
		query += ` AND h.checked_at IS NOT NULL`
	case UncheckedOnly:
		query += ` AND h.checked_at IS NULL`
	}
	query += ` ORDER BY h.due_at IS NULL, h.due_at ASC, h.created_at DESC`

	rows, err := r.pool.Query(ctx, query, studentID, model.EnrollmentStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list homework for student: %w", err)
	}
	defer rows.Close()

	var items []*StudentHomeworkItem
	for rows.Next() {
		var h model.HomeworkItem
		var courseID uuid.UUID
		err := rows.Scan(
			&h.ID,
			&h.EnrollmentID,
			&h.CreatedByTeacherID,
			&h.Title,
			&h.Description,
			&h.LinkUrl,
			&h.DueAt,
			&h.Status,
			&h.CompletedAt,
			&h.StudentAnswer,
			&h.StudentAnswerSubmittedAt,
			&h.TeacherComment,
			&h.TeacherGrade,
			&h.CheckedAt,
			&h.CreatedAt,
			&h.UpdatedAt,
			&courseID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan student homework: %w", err)
		}
		items = append(items, &StudentHomeworkItem{Item: &h, CourseID: courseID})
	}

	return items, rows.Err()
}

// GetForStudent returns the item only when it belongs to one of the
// student's active enrollments.
func (r *HomeworkRepository) GetForStudent(ctx context.Context, id, studentID uuid.UUID) (*StudentHomeworkItem, error) {
	query := `
		SELECT h.id, h.enrollment_id, h.created_by_teacher_id, h.title, h.description, h.link_url, h.due_at,
			h.status, h.completed_at, h.student_answer, h.student_answer_submitted_at,
			h.teacher_comment, h.teacher_grade, h.checked_at, h.created_at, h.updated_at,
			e.course_id
		FROM homework_items h
		JOIN enrollments e ON e.id = h.enrollment_id
		WHERE h.id = $1 AND e.student_id = $2 AND e.status = $3
	`

	var h model.HomeworkItem
	var courseID uuid.UUID
	err := r.pool.QueryRow(ctx, query, id, studentID, model.EnrollmentStatusActive).Scan(
		&h.ID,
		&h.EnrollmentID,
		&h.CreatedByTeacherID,
		&h.Title,
		&h.Description,
		&h.LinkUrl,
		&h.DueAt,
		&h.Status,
		&h.CompletedAt,
		&h.StudentAnswer,
		&h.StudentAnswerSubmittedAt,
		&h.TeacherComment,
		&h.TeacherGrade,
		&h.CheckedAt,
		&h.CreatedAt,
		&h.UpdatedAt,
		&courseID,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get homework for student: %w", err)
	}

	return &StudentHomeworkItem{Item: &h, CourseID: courseID}, nil
}

// Update replaces the mutable homework fields.
func (r *HomeworkRepository) Update(ctx context.Context, item *model.HomeworkItem) error {
	query := `
		UPDATE homework_items
		SET title = $1, description = $2, link_url = $3, due_at = $4, status = $5, completed_at = $6,
			student_answer = $7, student_answer_submitted_at = $8,
			teacher_comment = $9, teacher_grade = $10, checked_at = $11, updated_at = $12
		WHERE id = $13
	`

	result, err := r.pool.Exec(
		ctx, query,
		item.Title,
		item.Description,
		item.LinkUrl,
		item.DueAt,
		item.Status,
		item.CompletedAt,
		item.StudentAnswer,
		item.StudentAnswerSubmittedAt,
		item.TeacherComment,
		item.TeacherGrade,
		item.CheckedAt,
		item.UpdatedAt,
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update homework item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("homework item not found")
	}

	return nil
}

// Delete removes the homework item.
func (r *HomeworkRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM homework_items WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete homework item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("homework item not found")
	}

	return nil
}
