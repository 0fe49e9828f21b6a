package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/model"
	"github.com/tutorhub/backend/internal/repository"
)

type EnrollmentService struct {
	users       UserStore
	courses     CourseStore
	enrollments EnrollmentStore
	clock       Clock
	logger      *zap.Logger
}

func NewEnrollmentService(
	users UserStore,
	courses CourseStore,
	enrollments EnrollmentStore,
	clock Clock,
	logger *zap.Logger,
) *EnrollmentService {
	return &EnrollmentService{
		users:       users,
		courses:     courses,
		enrollments: enrollments,
		clock:       clock,
		logger:      logger,
	}
}

type EnrollStudentInput struct {
	StudentCode string  `json:"student_code"`
	Plan        *string `json:"plan"`
}

type EnrollmentPatch struct {
	Plan     model.Opt[string] `json:"plan"`
	Progress model.Opt[string] `json:"progress"`
}

// EnrollmentListItem decorates an enrollment with the student identity for
// the teacher roster view.
type EnrollmentListItem struct {
	Enrollment  *model.Enrollment `json:"enrollment"`
	StudentName string            `json:"student_name"`
	StudentCode *string           `json:"student_code"`
}

// Enroll adds a student to the teacher's course by student code. The unique
// index on (course_id, student_id) is authoritative under races.
func (s *EnrollmentService) Enroll(ctx context.Context, teacherID, courseID uuid.UUID, in EnrollStudentInput) (*model.Enrollment, error) {
	course, err := s.courses.GetByIDForTeacher(ctx, courseID, teacherID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	code := strings.TrimSpace(in.StudentCode)
	if code == "" {
		return nil, ErrInvalidInput
	}

	student, err := s.users.GetStudentByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}

	existing, err := s.enrollments.GetByCourseAndStudent(ctx, courseID, student.ID)
	if err != nil {
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyEnrolled
	}

	now := s.clock.Now()
	enrollment := &model.Enrollment{
		ID:        uuid.New(),
		CourseID:  courseID,
		StudentID: student.ID,
		Plan:      in.Plan,
		Status:    model.EnrollmentStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, fmt.Errorf("create enrollment: %w", err)
	}

	s.logger.Info("student enrolled",
		zap.String("enrollment_id", enrollment.ID.String()),
		zap.String("course_id", courseID.String()),
		zap.String("student_id", student.ID.String()),
	)

	return enrollment, nil
}

// ListByCourse returns the roster for the teacher's course.
func (s *EnrollmentService) ListByCourse(ctx context.Context, teacherID, courseID uuid.UUID) ([]*EnrollmentListItem, error) {
	course, err := s.courses.GetByIDForTeacher(ctx, courseID, teacherID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	enrollments, err := s.enrollments.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	items := make([]*EnrollmentListItem, 0, len(enrollments))
	for _, enrollment := range enrollments {
		item := &EnrollmentListItem{Enrollment: enrollment}
		student, err := s.users.GetByID(ctx, enrollment.StudentID)
		if err != nil {
			return nil, fmt.Errorf("get student: %w", err)
		}
		if student != nil {
			item.StudentName = student.Name
			item.StudentCode = student.StudentCode
		}
		items = append(items, item)
	}

	return items, nil
}

// owned loads the enrollment and checks the teacher owns its course.
func (s *EnrollmentService) owned(ctx context.Context, teacherID, enrollmentID uuid.UUID) (*model.Enrollment, error) {
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

	return enrollment, nil
}

// Update edits plan and progress notes. Works on revoked enrollments too.
func (s *EnrollmentService) Update(ctx context.Context, teacherID, enrollmentID uuid.UUID, patch EnrollmentPatch) (*model.Enrollment, error) {
	enrollment, err := s.owned(ctx, teacherID, enrollmentID)
	if err != nil {
		return nil, err
	}

	if patch.Plan.Set {
		enrollment.Plan = patch.Plan.Value
	}
	if patch.Progress.Set {
		enrollment.Progress = patch.Progress.Value
	}

	enrollment.UpdatedAt = s.clock.Now()

	if err := s.enrollments.Update(ctx, enrollment); err != nil {
		return nil, fmt.Errorf("update enrollment: %w", err)
	}

	return enrollment, nil
}

// Revoke moves the enrollment to revoked. Revoking an already revoked
// enrollment is a no-op.
func (s *EnrollmentService) Revoke(ctx context.Context, teacherID, enrollmentID uuid.UUID) error {
	enrollment, err := s.owned(ctx, teacherID, enrollmentID)
	if err != nil {
		return err
	}

	if enrollment.Status == model.EnrollmentStatusRevoked {
		return nil
	}

	enrollment.Status = model.EnrollmentStatusRevoked
	enrollment.UpdatedAt = s.clock.Now()

	if err := s.enrollments.Update(ctx, enrollment); err != nil {
		return fmt.Errorf("revoke enrollment: %w", err)
	}

	s.logger.Info("enrollment revoked", zap.String("enrollment_id", enrollmentID.String()))

	return nil
}
