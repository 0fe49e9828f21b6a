package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/backend/internal/model"
)

type CourseRepository struct {
	pool *pgxpool.Pool
}

func NewCourseRepository(pool *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{pool: pool}
}

const courseColumns = `id, teacher_id, title, description, default_video_link, status, created_at, updated_at`

func scanCourse(row pgx.Row) (*model.Course, error) {
	var c model.Course
	err := row.Scan(
		&c.ID,
		&c.TeacherID,
		&c.Title,
		&c.Description,
		&c.DefaultVideoLink,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new course.
func (r *CourseRepository) Create(ctx context.Context, course *model.Course) error {
	query := `
		INSERT INTO courses (id, teacher_id, title, description, default_video_link, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(
		ctx, query,
		course.ID,
		course.TeacherID,
		course.Title,
		course.Description,
		course.DefaultVideoLink,
		course.Status,
		course.CreatedAt,
		course.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create course: %w", err)
	}

	return nil
}

// GetByID returns the course or nil when no row matches.
func (r *CourseRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`

	c, err := scanCourse(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get course by id: %w", err)
	}

	return c, nil
}

// GetByIDForTeacher returns the course only when the teacher owns it.
func (r *CourseRepository) GetByIDForTeacher(ctx context.Context, id, teacherID uuid.UUID) (*model.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1 AND teacher_id = $2`

	c, err := scanCourse(r.pool.QueryRow(ctx, query, id, teacherID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get course for teacher: %w", err)
	}

	return c, nil
}

// ListByTeacher returns the teacher's courses, most recently updated first.
func (r *CourseRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*model.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses
		WHERE teacher_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := r.pool.Query(ctx, query, teacherID)
	if err != nil {
		return nil, fmt.Errorf("list courses by teacher: %w", err)
	}
	defer rows.Close()

	var courses []*model.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}

	return courses, rows.Err()
}

// ListByStudent returns courses reachable through the student's active
// enrollments, most recently updated first.
func (r *CourseRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.Course, error) {
	query := `
		SELECT c.id, c.teacher_id, c.title, c.description, c.default_video_link, c.status, c.created_at, c.updated_at
		FROM courses c
		JOIN enrollments e ON e.course_id = c.id
		WHERE e.student_id = $1 AND e.status = $2
		ORDER BY c.updated_at DESC
	`

	rows, err := r.pool.Query(ctx, query, studentID, model.EnrollmentStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list courses by student: %w", err)
	}
	defer rows.Close()

	var courses []*model.Course
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		courses = append(courses, c)
	}

	return courses, rows.Err()
}

// GetByIDForStudent returns the course only when the student holds an
// active enrollment in it.
func (r *CourseRepository) GetByIDForStudent(ctx context.Context, id, studentID uuid.UUID) (*model.Course, error) {
	query := `
		SELECT c.id, c.teacher_id, c.title, c.description, c.default_video_link, c.status, c.created_at, c.updated_at
		FROM courses c
		JOIN enrollments e ON e.course_id = c.id
		WHERE c.id = $1 AND e.student_id = $2 AND e.status = $3
	`

	c, err := scanCourse(r.pool.QueryRow(ctx, query, id, studentID, model.EnrollmentStatusActive))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get course for student: %w", err)
	}

	return c, nil
}

// Update replaces the mutable course fields.
func (r *CourseRepository) Update(ctx context.Context, course *model.Course) error {
	query := `
		UPDATE courses
		SET title = $1, description = $2, default_video_link = $3, status = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := r.pool.Exec(
		ctx, query,
		course.Title,
		course.Description,
		course.DefaultVideoLink,
		course.Status,
		course.UpdatedAt,
		course.ID,
	)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("course not found")
	}

	return nil
}
