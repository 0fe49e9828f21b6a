package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/model"
	"github.com/tutorhub/backend/internal/repository"
)

// HomeworkService runs the homework lifecycle. CompletedAt is derived, not
// settable: nil exactly while the item is todo, stamped on the first
// transition away from todo and kept across done<->skipped moves, cleared
// on a transition back to todo.
type HomeworkService struct {
	courses     CourseStore
	enrollments EnrollmentStore
	homework    HomeworkStore
	clock       Clock
	logger      *zap.Logger
}

func NewHomeworkService(
	courses CourseStore,
	enrollments EnrollmentStore,
	homework HomeworkStore,
	clock Clock,
	logger *zap.Logger,
) *HomeworkService {
	return &HomeworkService{
		courses:     courses,
		enrollments: enrollments,
		homework:    homework,
		clock:       clock,
		logger:      logger,
	}
}

type CreateHomeworkInput struct {
	Title       string                `json:"title"`
	Description *string               `json:"description"`
	LinkUrl     *string               `json:"link_url"`
	DueAt       *time.Time            `json:"due_at"` // past allowed
	Status      *model.HomeworkStatus `json:"status"` // defaults to todo
}

// HomeworkPatch is a partial update: absent fields keep the stored value,
// present-null clears Description/LinkUrl/DueAt. Title cannot be cleared.
type HomeworkPatch struct {
	Title       model.Opt[string]               `json:"title"`
	Description model.Opt[string]               `json:"description"`
	LinkUrl     model.Opt[string]               `json:"link_url"`
	DueAt       model.Opt[time.Time]            `json:"due_at"`
	Status      model.Opt[model.HomeworkStatus] `json:"status"`
}

type CheckHomeworkInput struct {
	Comment string `json:"comment"`
	Grade   int    `json:"grade"`
}

func validHomeworkStatus(s model.HomeworkStatus) bool {
	switch s {
	case model.HomeworkStatusTodo, model.HomeworkStatusDone, model.HomeworkStatusSkipped:
		return true
	}
	return false
}

// applyStatus sets the status and keeps the CompletedAt derivation intact.
func applyStatus(item *model.HomeworkItem, status model.HomeworkStatus, now time.Time) {
	item.Status = status
	if status == model.HomeworkStatusTodo {
		item.CompletedAt = nil
	} else if item.CompletedAt == nil {
		item.CompletedAt = &now
	}
}

// ownedItem loads the item and checks the acting teacher owns the course
// behind its enrollment. Any miss collapses to ErrNotFound.
func (s *HomeworkService) ownedItem(ctx context.Context, teacherID, homeworkID uuid.UUID) (*model.HomeworkItem, error) {
	item, err := s.homework.GetByID(ctx, homeworkID)
	if err != nil {
		return nil, fmt.Errorf("get homework: %w", err)
	}
	if item == nil {
		return nil, ErrNotFound
	}

	enrollment, err := s.enrollments.GetByID(ctx, item.EnrollmentID)
	if err != nil {
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	if enrollment == nil {
		return nil, ErrNotFound
	}

	course, err := s.courses.GetByID(ctx, enrollment.CourseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil || course.TeacherID != teacherID {
		return nil, ErrNotFound
	}

	return item, nil
}

// ListByEnrollment returns the enrollment's homework for its teacher.
func (s *HomeworkService) ListByEnrollment(ctx context.Context, teacherID, enrollmentID uuid.UUID) ([]*model.HomeworkItem, error) {
	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	if enrollment == nil {
		return nil, ErrNotFound
	}

	course, err := s.courses.GetByID(ctx, enrollment.CourseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil || course.TeacherID != teacherID {
		return nil, ErrNotFound
	}

	return s.homework.ListByEnrollment(ctx, enrollmentID)
}

// Create assigns homework against an active enrollment the teacher owns.
func (s *HomeworkService) Create(ctx context.Context, teacherID, enrollmentID uuid.UUID, in CreateHomeworkInput) (*model.HomeworkItem, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || len(title) > 200 {
		return nil, ErrInvalidInput
	}

	enrollment, err := s.enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	if enrollment == nil {
		return nil, ErrNotFound
	}

	course, err := s.courses.GetByID(ctx, enrollment.CourseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil || course.TeacherID != teacherID {
		return nil, ErrNotFound
	}

	if !enrollment.Writable() {
		return nil, ErrRevoked
	}

	status := model.HomeworkStatusTodo
	if in.Status != nil {
		if !validHomeworkStatus(*in.Status) {
			return nil, ErrInvalidInput
		}
		status = *in.Status
	}

	now := s.clock.Now()
	item := &model.HomeworkItem{
		ID:                 uuid.New(),
		EnrollmentID:       enrollmentID,
		CreatedByTeacherID: teacherID,
		Title:              title,
		Description:        in.Description,
		LinkUrl:            in.LinkUrl,
		DueAt:              in.DueAt,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	applyStatus(item, status, now)

	if err := s.homework.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create homework: %w", err)
	}

	s.logger.Info("homework created",
		zap.String("homework_id", item.ID.String()),
		zap.String("enrollment_id", enrollmentID.String()),
		zap.String("status", string(item.Status)),
	)

	return item, nil
}

// Update applies a partial update. The revoked gate deliberately does not
// apply here: existing homework stays editable after a revoke.
func (s *HomeworkService) Update(ctx context.Context, teacherID, homeworkID uuid.UUID, patch HomeworkPatch) error {
	item, err := s.ownedItem(ctx, teacherID, homeworkID)
	if err != nil {
		return err
	}

	if patch.Title.Set && patch.Title.Value != nil {
		title := strings.TrimSpace(*patch.Title.Value)
		if title == "" || len(title) > 200 {
			return ErrInvalidInput
		}
		item.Title = title
	}
	if patch.Description.Set {
		item.Description = patch.Description.Value
	}
	if patch.LinkUrl.Set {
		item.LinkUrl = patch.LinkUrl.Value
	}
	if patch.DueAt.Set {
		item.DueAt = patch.DueAt.Value
	}

	now := s.clock.Now()
	if patch.Status.Set && patch.Status.Value != nil {
		if !validHomeworkStatus(*patch.Status.Value) {
			return ErrInvalidInput
		}
		applyStatus(item, *patch.Status.Value, now)
	}

	item.UpdatedAt = now

	if err := s.homework.Update(ctx, item); err != nil {
		return fmt.Errorf("update homework: %w", err)
	}

	return nil
}

// Delete removes the item permanently.
func (s *HomeworkService) Delete(ctx context.Context, teacherID, homeworkID uuid.UUID) error {
	item, err := s.ownedItem(ctx, teacherID, homeworkID)
	if err != nil {
		return err
	}

	if err := s.homework.Delete(ctx, item.ID); err != nil {
		return fmt.Errorf("delete homework: %w", err)
	}

	s.logger.Info("homework deleted", zap.String("homework_id", homeworkID.String()))

	return nil
}

// Check records the teacher review. Re-checking overwrites the previous
// comment, grade and timestamp.
func (s *HomeworkService) Check(ctx context.Context, teacherID, homeworkID uuid.UUID, in CheckHomeworkInput) error {
	item, err := s.ownedItem(ctx, teacherID, homeworkID)
	if err != nil {
		return err
	}

	if in.Grade < 0 || in.Grade > 100 {
		return ErrInvalidGrade
	}

	comment := strings.TrimSpace(in.Comment)
	if comment == "" {
		item.TeacherComment = nil
	} else {
		item.TeacherComment = &comment
	}

	now := s.clock.Now()
	grade := in.Grade
	item.TeacherGrade = &grade
	item.CheckedAt = &now
	item.UpdatedAt = now

	if err := s.homework.Update(ctx, item); err != nil {
		return fmt.Errorf("check homework: %w", err)
	}

	s.logger.Info("homework checked",
		zap.String("homework_id", homeworkID.String()),
		zap.Int("grade", grade),
	)

	return nil
}

// SubmitAnswer stores the student's answer. One submission window: once the
// item is checked, answers are no longer accepted.
func (s *HomeworkService) SubmitAnswer(ctx context.Context, studentID, homeworkID uuid.UUID, answer string) error {
	row, err := s.homework.GetForStudent(ctx, homeworkID, studentID)
	if err != nil {
		return fmt.Errorf("get homework: %w", err)
	}
	if row == nil {
		return ErrNotFound
	}

	item := row.Item
	if item.CheckedAt != nil {
		return ErrAlreadyChecked
	}

	trimmed := strings.TrimSpace(answer)
	if trimmed == "" {
		return ErrInvalidInput
	}

	now := s.clock.Now()
	item.StudentAnswer = &trimmed
	item.StudentAnswerSubmittedAt = &now
	item.UpdatedAt = now

	if err := s.homework.Update(ctx, item); err != nil {
		return fmt.Errorf("submit answer: %w", err)
	}

	return nil
}

// StudentHomeworkItem is the student list projection.
type StudentHomeworkItem struct {
	ID           uuid.UUID  `json:"id"`
	CourseID     uuid.UUID  `json:"course_id"`
	EnrollmentID uuid.UUID  `json:"enrollment_id"`
	Title        string     `json:"title"`
	DueAt        *time.Time `json:"due_at"`
	Checked      bool       `json:"checked"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// StudentHomeworkDetail is the student detail projection.
type StudentHomeworkDetail struct {
	ID                       uuid.UUID  `json:"id"`
	CourseID                 uuid.UUID  `json:"course_id"`
	EnrollmentID             uuid.UUID  `json:"enrollment_id"`
	Title                    string     `json:"title"`
	Description              *string    `json:"description"`
	LinkUrl                  *string    `json:"link_url"`
	DueAt                    *time.Time `json:"due_at"`
	StudentAnswer            *string    `json:"student_answer"`
	StudentAnswerSubmittedAt *time.Time `json:"student_answer_submitted_at"`
	Checked                  bool       `json:"checked"`
	TeacherComment           *string    `json:"teacher_comment"`
	TeacherGrade             *int       `json:"teacher_grade"`
	CheckedAt                *time.Time `json:"checked_at"`
	CreatedAt                time.Time  `json:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at"`
}

// ListForStudent returns homework visible to the student. filter is "",
// "active" (not yet checked) or "checked".
func (s *HomeworkService) ListForStudent(ctx context.Context, studentID uuid.UUID, filter string) ([]*StudentHomeworkItem, error) {
	checked := repository.CheckedAny
	switch strings.ToLower(filter) {
	case "active":
		checked = repository.UncheckedOnly
	case "checked":
		checked = repository.CheckedOnly
	}

	rows, err := s.homework.ListForStudent(ctx, studentID, checked)
	if err != nil {
		return nil, err
	}

	items := make([]*StudentHomeworkItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, &StudentHomeworkItem{
			ID:           row.Item.ID,
			CourseID:     row.CourseID,
			EnrollmentID: row.Item.EnrollmentID,
			Title:        row.Item.Title,
			DueAt:        row.Item.DueAt,
			Checked:      row.Item.CheckedAt != nil,
			CreatedAt:    row.Item.CreatedAt,
			UpdatedAt:    row.Item.UpdatedAt,
		})
	}

	return items, nil
}

// GetForStudent returns the student detail view of one item.
func (s *HomeworkService) GetForStudent(ctx context.Context, studentID, homeworkID uuid.UUID) (*StudentHomeworkDetail, error) {
	row, err := s.homework.GetForStudent(ctx, homeworkID, studentID)
	if err != nil {
		return nil, fmt.Errorf("get homework: %w", err)
	}
	if row == nil {
		return nil, ErrNotFound
	}

	item := row.Item
	return &StudentHomeworkDetail{
		ID:                       item.ID,
		CourseID:                 row.CourseID,
		EnrollmentID:             item.EnrollmentID,
		Title:                    item.Title,
		Description:              item.Description,
		LinkUrl:                  item.LinkUrl,
		DueAt:                    item.DueAt,
		StudentAnswer:            item.StudentAnswer,
		StudentAnswerSubmittedAt: item.StudentAnswerSubmittedAt,
		Checked:                  item.CheckedAt != nil,
		TeacherComment:           item.TeacherComment,
		TeacherGrade:             item.TeacherGrade,
		CheckedAt:                item.CheckedAt,
		CreatedAt:                item.CreatedAt,
		UpdatedAt:                item.UpdatedAt,
	}, nil
}
