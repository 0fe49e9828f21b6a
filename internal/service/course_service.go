package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/model"
)

type CourseService struct {
	courses CourseStore
	clock   Clock
	logger  *zap.Logger
}

func NewCourseService(courses CourseStore, clock Clock, logger *zap.Logger) *CourseService {
	return &CourseService{courses: courses, clock: clock, logger: logger}
}

type CreateCourseInput struct {
	Title            string              `json:"title"`
	Description      string              `json:"description"`
	DefaultVideoLink *string             `json:"default_video_link"`
	Status           *model.CourseStatus `json:"status"` // defaults to draft
}

type CoursePatch struct {
	Title            model.Opt[string]             `json:"title"`
	Description      model.Opt[string]             `json:"description"`
	DefaultVideoLink model.Opt[string]             `json:"default_video_link"`
	Status           model.Opt[model.CourseStatus] `json:"status"`
}

func validCourseStatus(s model.CourseStatus) bool {
	switch s {
	case model.CourseStatusDraft, model.CourseStatusPublished, model.CourseStatusArchived:
		return true
	}
	return false
}

func (s *CourseService) Create(ctx context.Context, teacherID uuid.UUID, in CreateCourseInput) (*model.Course, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || len(title) > 200 {
		return nil, ErrInvalidInput
	}

	status := model.CourseStatusDraft
	if in.Status != nil {
		if !validCourseStatus(*in.Status) {
			return nil, ErrInvalidInput
		}
		status = *in.Status
	}

	now := s.clock.Now()
	course := &model.Course{
		ID:               uuid.New(),
		TeacherID:        teacherID,
		Title:            title,
		Description:      strings.TrimSpace(in.Description),
		DefaultVideoLink: in.DefaultVideoLink,
		Status:           status,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.courses.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("create course: %w", err)
	}

	s.logger.Info("course created",
		zap.String("course_id", course.ID.String()),
		zap.String("teacher_id", teacherID.String()),
	)

	return course, nil
}

func (s *CourseService) ListForTeacher(ctx context.Context, teacherID uuid.UUID) ([]*model.Course, error) {
	return s.courses.ListByTeacher(ctx, teacherID)
}

func (s *CourseService) GetForTeacher(ctx context.Context, teacherID, courseID uuid.UUID) (*model.Course, error) {
	course, err := s.courses.GetByIDForTeacher(ctx, courseID, teacherID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return nil, ErrNotFound
	}
	return course, nil
}

func (s *CourseService) Update(ctx context.Context, teacherID, courseID uuid.UUID, patch CoursePatch) (*model.Course, error) {
	course, err := s.courses.GetByIDForTeacher(ctx, courseID, teacherID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return nil, ErrNotFound
	}

	if patch.Title.Set && patch.Title.Value != nil {
		title := strings.TrimSpace(*patch.Title.Value)
		if title == "" || len(title) > 200 {
			return nil, ErrInvalidInput
		}
		course.Title = title
	}
	if patch.Description.Set && patch.Description.Value != nil {
		course.Description = strings.TrimSpace(*patch.Description.Value)
	}
	if patch.DefaultVideoLink.Set {
		course.DefaultVideoLink = patch.DefaultVideoLink.Value
	}
	if patch.Status.Set && patch.Status.Value != nil {
		if !validCourseStatus(*patch.Status.Value) {
			return nil, ErrInvalidInput
		}
		course.Status = *patch.Status.Value
	}

	course.UpdatedAt = s.clock.Now()

	if err := s.courses.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("update course: %w", err)
	}

	return course, nil
}

// Archive moves the course to archived instead of deleting it. Archiving
// an already archived course is a no-op.
func (s *CourseService) Archive(ctx context.Context, teacherID, courseID uuid.UUID) error {
	course, err := s.courses.GetByIDForTeacher(ctx, courseID, teacherID)
	if err != nil {
		return fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return ErrNotFound
	}

	if course.Status == model.CourseStatusArchived {
		return nil
	}

	course.Status = model.CourseStatusArchived
	course.UpdatedAt = s.clock.Now()

	if err := s.courses.Update(ctx, course); err != nil {
		return fmt.Errorf("archive course: %w", err)
	}

	s.logger.Info("course archived", zap.String("course_id", courseID.String()))

	return nil
}

// ListForStudent returns courses the student has an active enrollment in.
func (s *CourseService) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]*model.Course, error) {
	return s.courses.ListByStudent(ctx, studentID)
}

func (s *CourseService) GetForStudent(ctx context.Context, studentID, courseID uuid.UUID) (*model.Course, error) {
	course, err := s.courses.GetByIDForStudent(ctx, courseID, studentID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return nil, ErrNotFound
	}
	return course, nil
}
