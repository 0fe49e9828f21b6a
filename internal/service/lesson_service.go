package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/model"
	"github.com/tutorhub/backend/internal/repository"
)

type LessonService struct {
	courses CourseStore
	lessons LessonStore
	clock   Clock
	logger  *zap.Logger
}

func NewLessonService(courses CourseStore, lessons LessonStore, clock Clock, logger *zap.Logger) *LessonService {
	return &LessonService{courses: courses, lessons: lessons, clock: clock, logger: logger}
}

type CreateLessonInput struct {
	Title       string              `json:"title"`
	MaterialUrl *string             `json:"material_url"`
	Status      *model.LessonStatus `json:"status"` // defaults to draft
}

type LessonPatch struct {
	Title       model.Opt[string]             `json:"title"`
	MaterialUrl model.Opt[string]             `json:"material_url"`
	Status      model.Opt[model.LessonStatus] `json:"status"`
}

func validLessonStatus(s model.LessonStatus) bool {
	switch s {
	case model.LessonStatusDraft, model.LessonStatusPublished, model.LessonStatusArchived:
		return true
	}
	return false
}

func (s *LessonService) Create(ctx context.Context, teacherID, courseID uuid.UUID, in CreateLessonInput) (*model.Lesson, error) {
	course, err := s.courses.GetByIDForTeacher(ctx, courseID, teacherID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	title := strings.TrimSpace(in.Title)
	if title == "" || len(title) > 200 {
		return nil, ErrInvalidInput
	}

	status := model.LessonStatusDraft
	if in.Status != nil {
		if !validLessonStatus(*in.Status) {
			return nil, ErrInvalidInput
		}
		status = *in.Status
	}

	now := s.clock.Now()
	lesson := &model.Lesson{
		ID:          uuid.New(),
		CourseID:    courseID,
		Title:       title,
		MaterialUrl: in.MaterialUrl,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.lessons.Create(ctx, lesson); err != nil {
		return nil, fmt.Errorf("create lesson: %w", err)
	}

	s.logger.Info("lesson created",
		zap.String("lesson_id", lesson.ID.String()),
		zap.String("course_id", courseID.String()),
	)

	return lesson, nil
}

// ListByCourse returns the course's lessons for its teacher. A course the
// teacher does not own lists as empty rather than erroring.
func (s *LessonService) ListByCourse(ctx context.Context, teacherID, courseID uuid.UUID) ([]*model.Lesson, error) {
	course, err := s.courses.GetByIDForTeacher(ctx, courseID, teacherID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return []*model.Lesson{}, nil
	}
	return s.lessons.ListByCourse(ctx, courseID)
}

func (s *LessonService) Update(ctx context.Context, teacherID, lessonID uuid.UUID, patch LessonPatch) (*model.Lesson, error) {
	lesson, err := s.lessons.GetByIDForTeacher(ctx, lessonID, teacherID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil {
		return nil, ErrNotFound
	}

	if patch.Title.Set && patch.Title.Value != nil {
		title := strings.TrimSpace(*patch.Title.Value)
		if title == "" || len(title) > 200 {
			return nil, ErrInvalidInput
		}
		lesson.Title = title
	}
	if patch.MaterialUrl.Set {
		lesson.MaterialUrl = patch.MaterialUrl.Value
	}
	if patch.Status.Set && patch.Status.Value != nil {
		if !validLessonStatus(*patch.Status.Value) {
			return nil, ErrInvalidInput
		}
		lesson.Status = *patch.Status.Value
	}

	lesson.UpdatedAt = s.clock.Now()

	if err := s.lessons.Update(ctx, lesson); err != nil {
		return nil, fmt.Errorf("update lesson: %w", err)
	}

	return lesson, nil
}

// ListForStudent returns the course's lessons with a per-lesson done flag,
// visible only through an active enrollment. A lesson is done when one of
// the student's done sessions in the course references it. filter is "",
// "planned" or "done".
func (s *LessonService) ListForStudent(ctx context.Context, studentID, courseID uuid.UUID, filter string) ([]*repository.StudentLessonItem, error) {
	course, err := s.courses.GetByIDForStudent(ctx, courseID, studentID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return nil, ErrNotFound
	}

	items, err := s.lessons.ListForStudentCourse(ctx, courseID, studentID)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filter) {
	case "planned":
		items = filterLessons(items, false)
	case "done":
		items = filterLessons(items, true)
	}
	return items, nil
}

func filterLessons(items []*repository.StudentLessonItem, done bool) []*repository.StudentLessonItem {
	out := make([]*repository.StudentLessonItem, 0, len(items))
	for _, item := range items {
		if item.Done == done {
			out = append(out, item)
		}
	}
	return out
}
