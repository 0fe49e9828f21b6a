package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/model"
)

const (
	seedTeacherEmail = "teacher@seed.local"
	seedStudentEmail = "student@seed.local"
	seedPassword     = "seed-password-1"
	seedCourseTitle  = "Seed Course"
	seedLessonTitle  = "Seed Lesson 1"
)

// SeedService provisions a known teacher, student, course, lesson and
// enrollment for local development. Safe to call repeatedly: existing rows
// are reused, never duplicated.
type SeedService struct {
	users       UserStore
	courses     CourseStore
	lessons     LessonStore
	enrollments EnrollmentStore
	tokens      TokenIssuer
	passwords   PasswordHasher
	clock       Clock
	logger      *zap.Logger
}

func NewSeedService(
	users UserStore,
	courses CourseStore,
	lessons LessonStore,
	enrollments EnrollmentStore,
	tokens TokenIssuer,
	passwords PasswordHasher,
	clock Clock,
	logger *zap.Logger,
) *SeedService {
	return &SeedService{
		users:       users,
		courses:     courses,
		lessons:     lessons,
		enrollments: enrollments,
		tokens:      tokens,
		passwords:   passwords,
		clock:       clock,
		logger:      logger,
	}
}

type SeedResult struct {
	TeacherToken string    `json:"teacher_token"`
	StudentToken string    `json:"student_token"`
	TeacherID    uuid.UUID `json:"teacher_id"`
	StudentID    uuid.UUID `json:"student_id"`
	StudentCode  string    `json:"student_code"`
	CourseID     uuid.UUID `json:"course_id"`
	LessonID     uuid.UUID `json:"lesson_id"`
	EnrollmentID uuid.UUID `json:"enrollment_id"`
}

func (s *SeedService) ensureUser(ctx context.Context, email string, role model.UserRole, name string, code *string) (*model.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	hash, err := s.passwords.Hash(seedPassword)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.clock.Now()
	user = &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Name:         name,
		StudentCode:  code,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Run provisions the seed fixture and returns tokens for both accounts.
func (s *SeedService) Run(ctx context.Context) (*SeedResult, error) {
	teacher, err := s.ensureUser(ctx, seedTeacherEmail, model.RoleTeacher, "Seed Teacher", nil)
	if err != nil {
		return nil, err
	}

	code := "900000001"
	student, err := s.ensureUser(ctx, seedStudentEmail, model.RoleStudent, "Seed Student", &code)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()

	courses, err := s.courses.ListByTeacher(ctx, teacher.ID)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	var course *model.Course
	for _, c := range courses {
		if c.Title == seedCourseTitle {
			course = c
			break
		}
	}
	if course == nil {
		course = &model.Course{
			ID:          uuid.New(),
			TeacherID:   teacher.ID,
			Title:       seedCourseTitle,
			Description: "Created by the dev seed endpoint.",
			Status:      model.CourseStatusPublished,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.courses.Create(ctx, course); err != nil {
			return nil, fmt.Errorf("create course: %w", err)
		}
	}

	lessons, err := s.lessons.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	var lesson *model.Lesson
	for _, l := range lessons {
		if l.Title == seedLessonTitle {
			lesson = l
			break
		}
	}
	if lesson == nil {
		lesson = &model.Lesson{
			ID:        uuid.New(),
			CourseID:  course.ID,
			Title:     seedLessonTitle,
			Status:    model.LessonStatusPublished,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.lessons.Create(ctx, lesson); err != nil {
			return nil, fmt.Errorf("create lesson: %w", err)
		}
	}

	enrollment, err := s.enrollments.GetByCourseAndStudent(ctx, course.ID, student.ID)
	if err != nil {
		return nil, fmt.Errorf("get enrollment: %w", err)
	}
	if enrollment == nil {
		enrollment = &model.Enrollment{
			ID:        uuid.New(),
			CourseID:  course.ID,
			StudentID: student.ID,
			Status:    model.EnrollmentStatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.enrollments.Create(ctx, enrollment); err != nil {
			return nil, fmt.Errorf("create enrollment: %w", err)
		}
	}

	teacherToken, err := s.tokens.Issue(teacher)
	if err != nil {
		return nil, fmt.Errorf("issue teacher token: %w", err)
	}
	studentToken, err := s.tokens.Issue(student)
	if err != nil {
		return nil, fmt.Errorf("issue student token: %w", err)
	}

	s.logger.Info("dev seed applied",
		zap.String("course_id", course.ID.String()),
		zap.String("enrollment_id", enrollment.ID.String()),
	)

	studentCode := ""
	if student.StudentCode != nil {
		studentCode = *student.StudentCode
	}

	return &SeedResult{
		TeacherToken: teacherToken,
		StudentToken: studentToken,
		TeacherID:    teacher.ID,
		StudentID:    student.ID,
		StudentCode:  studentCode,
		CourseID:     course.ID,
		LessonID:     lesson.ID,
		EnrollmentID: enrollment.ID,
	}, nil
}
