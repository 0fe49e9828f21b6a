package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/backend/internal/model"
)

type LessonRepository struct {
	pool *pgxpool.Pool
}

func NewLessonRepository(pool *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{pool: pool}
}

const lessonColumns = `id, course_id, title, material_url, status, created_at, updated_at`

func scanLesson(row pgx.Row) (*model.Lesson, error) {
	var l model.Lesson
	err := row.Scan(
		&l.ID,
		&l.CourseID,
		&l.Title,
		&l.MaterialUrl,
		&l.Status,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Create inserts a new lesson.
func (r *LessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	query := `
		INSERT INTO lessons (id, course_id, title, material_url, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(
		ctx, query,
		lesson.ID,
		lesson.CourseID,
		lesson.Title,
		lesson.MaterialUrl,
		lesson.Status,
		lesson.CreatedAt,
		lesson.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}

	return nil
}

// GetByIDForTeacher returns the lesson only when its course belongs to the teacher.
func (r *LessonRepository) GetByIDForTeacher(ctx context.Context, id, teacherID uuid.UUID) (*model.Lesson, error) {
	query := `
		SELECT l.id, l.course_id, l.title, l.material_url, l.status, l.created_at, l.updated_at
		FROM lessons l
		JOIN courses c ON c.id = l.course_id
		WHERE l.id = $1 AND c.teacher_id = $2
	`

	l, err := scanLesson(r.pool.QueryRow(ctx, query, id, teacherID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get lesson for teacher: %w", err)
	}

	return l, nil
}

// GetByIDInCourse returns the lesson scoped to the given course, or nil.
func (r *LessonRepository) GetByIDInCourse(ctx context.Context, id, courseID uuid.UUID) (*model.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1 AND course_id = $2`

	l, err := scanLesson(r.pool.QueryRow(ctx, query, id, courseID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get lesson in course: %w", err)
	}

	return l, nil
}

// ExistsInCourse reports whether the lesson belongs to the course.
func (r *LessonRepository) ExistsInCourse(ctx context.Context, id, courseID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM lessons WHERE id = $1 AND course_id = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id, courseID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check lesson in course: %w", err)
	}

	return exists, nil
}

// ListByCourse returns the course's lessons, most recently updated first.
func (r *LessonRepository) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*model.Lesson, error) {
	query := `
		SELECT ` + lessonColumns + `
		FROM lessons
		WHERE course_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := r.pool.Query(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("list lessons by course: %w", err)
	}
	defer rows.Close()

	var lessons []*model.Lesson
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lessons = append(lessons, l)
	}

	return lessons, rows.Err()
}

// StudentLessonItem is a lesson row projected for the student course screen.
// Done means one of the student's completed sessions references the lesson.
type StudentLessonItem struct {
	Lesson *model.Lesson
	Done   bool
}

// ListForStudentCourse returns the course's lessons with a per-student done
// flag derived from that student's completed sessions.
func (r *LessonRepository) ListForStudentCourse(ctx context.Context, courseID, studentID uuid.UUID) ([]*StudentLessonItem, error) {
	query := `
		SELECT l.id, l.course_id, l.title, l.material_url, l.status, l.created_at, l.updated_at,
			EXISTS (
				SELECT 1 FROM sessions s
				WHERE s.lesson_id = l.id AND s.student_id = $2 AND s.status = $3
			) AS done
		FROM lessons l
		WHERE l.course_id = $1
		ORDER BY l.created_at ASC
	`

	rows, err := r.pool.Query(ctx, query, courseID, studentID, model.SessionStatusDone)
	if err != nil {
		return nil, fmt.Errorf("list lessons for student: %w", err)
	}
	defer rows.Close()

	var items []*StudentLessonItem
	for rows.Next() {
		var item StudentLessonItem
		var l model.Lesson
		err := rows.Scan(
			&l.ID,
			&l.CourseID,
			&l.Title,
			&l.MaterialUrl,
			&l.Status,
			&l.CreatedAt,
			&l.UpdatedAt,
			&item.Done,
		)
		if err != nil {
			return nil, fmt.Errorf("scan student lesson: %w", err)
		}
		item.Lesson = &l
		items = append(items, &item)
	}

	return items, rows.Err()
}

// Update replaces the mutable lesson fields.
func (r *LessonRepository) Update(ctx context.Context, lesson *model.Lesson) error {
	query := `
		UPDATE lessons
		SET title = $1, material_url = $2, status = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.pool.Exec(
		ctx, query,
		lesson.Title,
		lesson.MaterialUrl,
		lesson.Status,
		lesson.UpdatedAt,
		lesson.ID,
	)
	if err != nil {
		return fmt.Errorf("update lesson: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("lesson not found")
	}

	return nil
}
