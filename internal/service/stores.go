package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tutorhub/backend/internal/model"
	"github.com/tutorhub/backend/internal/repository"
)

// Store interfaces are defined here, on the consumer side, and satisfied by
// the pgx repositories. Tests swap in in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetStudentByCode(ctx context.Context, code string) (*model.User, error)
	StudentCodeExists(ctx context.Context, code string) (bool, error)
}

type CourseStore interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Course, error)
	GetByIDForTeacher(ctx context.Context, id, teacherID uuid.UUID) (*model.Course, error)
	GetByIDForStudent(ctx context.Context, id, studentID uuid.UUID) (*model.Course, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]*model.Course, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.Course, error)
	Update(ctx context.Context, course *model.Course) error
}

type LessonStore interface {
	Create(ctx context.Context, lesson *model.Lesson) error
	GetByIDForTeacher(ctx context.Context, id, teacherID uuid.UUID) (*model.Lesson, error)
	GetByIDInCourse(ctx context.Context, id, courseID uuid.UUID) (*model.Lesson, error)
	ExistsInCourse(ctx context.Context, id, courseID uuid.UUID) (bool, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*model.Lesson, error)
	ListForStudentCourse(ctx context.Context, courseID, studentID uuid.UUID) ([]*repository.StudentLessonItem, error)
	Update(ctx context.Context, lesson *model.Lesson) error
}

type EnrollmentStore interface {
	Create(ctx context.Context, enrollment *model.Enrollment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Enrollment, error)
	GetByCourseAndStudent(ctx context.Context, courseID, studentID uuid.UUID) (*model.Enrollment, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*model.Enrollment, error)
	Update(ctx context.Context, enrollment *model.Enrollment) error
}

type SessionStore interface {
	Create(ctx context.Context, session *model.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Session, error)
	GetByIDForStudent(ctx context.Context, id, studentID uuid.UUID) (*model.Session, error)
	ListByTeacher(ctx context.Context, teacherID uuid.UUID, filter repository.SessionFilter) ([]*model.Session, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID, filter repository.SessionFilter) ([]*model.Session, error)
	Update(ctx context.Context, session *model.Session) error
}

type HomeworkStore interface {
	Create(ctx context.Context, item *model.HomeworkItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.HomeworkItem, error)
	ListByEnrollment(ctx context.Context, enrollmentID uuid.UUID) ([]*model.HomeworkItem, error)
	ListForStudent(ctx context.Context, studentID uuid.UUID, filter repository.CheckedFilter) ([]*repository.StudentHomeworkItem, error)
	GetForStudent(ctx context.Context, id, studentID uuid.UUID) (*repository.StudentHomeworkItem, error)
	Update(ctx context.Context, item *model.HomeworkItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PasswordResetStore interface {
	Create(ctx context.Context, token *model.PasswordResetToken) error
	GetByTokenHash(ctx context.Context, hash string) (*model.PasswordResetToken, error)
	Consume(ctx context.Context, tokenID, userID uuid.UUID, passwordHash string, now time.Time) error
}
