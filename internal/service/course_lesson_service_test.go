package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorhub/backend/internal/model"
)

func TestCourseLifecycle(t *testing.T) {
	clock := newFixedClock()
	enrollments := newFakeEnrollmentStore()
	courses := newFakeCourseStore(enrollments)
	svc := NewCourseService(courses, clock, testLogger())
	ctx := context.Background()
	teacherID := uuid.New()

	course, err := svc.Create(ctx, teacherID, CreateCourseInput{Title: "  Algebra  ", Description: "Linear equations"})
	require.NoError(t, err)
	assert.Equal(t, "Algebra", course.Title)
	assert.Equal(t, model.CourseStatusDraft, course.Status)

	_, err = svc.Create(ctx, teacherID, CreateCourseInput{Title: " "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	updated, err := svc.Update(ctx, teacherID, course.ID, CoursePatch{
		DefaultVideoLink: model.OptOf("https://meet.test/room"),
		Status:           model.OptOf(model.CourseStatusPublished),
	})
	require.NoError(t, err)
	assert.Equal(t, model.CourseStatusPublished, updated.Status)
	require.NotNil(t, updated.DefaultVideoLink)

	// Clearing the default link.
	updated, err = svc.Update(ctx, teacherID, course.ID, CoursePatch{
		DefaultVideoLink: model.OptNull[string](),
	})
	require.NoError(t, err)
	assert.Nil(t, updated.DefaultVideoLink)

	_, err = svc.Update(ctx, uuid.New(), course.ID, CoursePatch{})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Archive(ctx, teacherID, course.ID))
	stored, _ := courses.GetByID(ctx, course.ID)
	assert.Equal(t, model.CourseStatusArchived, stored.Status)

	// Archive is a no-op the second time.
	require.NoError(t, svc.Archive(ctx, teacherID, course.ID))
}

func TestCourseStudentVisibility(t *testing.T) {
	clock := newFixedClock()
	enrollments := newFakeEnrollmentStore()
	courses := newFakeCourseStore(enrollments)
	svc := NewCourseService(courses, clock, testLogger())
	ctx := context.Background()
	teacherID := uuid.New()
	studentID := uuid.New()

	course, err := svc.Create(ctx, teacherID, CreateCourseInput{Title: "Algebra"})
	require.NoError(t, err)

	_, err = svc.GetForStudent(ctx, studentID, course.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	enrollment := &model.Enrollment{
		ID:        uuid.New(),
		CourseID:  course.ID,
		StudentID: studentID,
		Status:    model.EnrollmentStatusActive,
	}
	require.NoError(t, enrollments.Create(ctx, enrollment))

	got, err := svc.GetForStudent(ctx, studentID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, course.ID, got.ID)

	// Revoke hides the course again.
	enrollment.Status = model.EnrollmentStatusRevoked
	require.NoError(t, enrollments.Update(ctx, enrollment))
	_, err = svc.GetForStudent(ctx, studentID, course.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := svc.ListForStudent(ctx, studentID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestLessonLifecycle(t *testing.T) {
	clock := newFixedClock()
	enrollments := newFakeEnrollmentStore()
	courses := newFakeCourseStore(enrollments)
	sessions := newFakeSessionStore()
	lessons := newFakeLessonStore(courses, sessions)
	svc := NewLessonService(courses, lessons, clock, testLogger())
	ctx := context.Background()
	teacherID := uuid.New()
	courseID := uuid.New()

	require.NoError(t, courses.Create(ctx, &model.Course{ID: courseID, TeacherID: teacherID, Title: "Algebra"}))

	_, err := svc.Create(ctx, teacherID, uuid.New(), CreateLessonInput{Title: "Limits"})
	assert.ErrorIs(t, err, ErrCourseNotFound)

	lesson, err := svc.Create(ctx, teacherID, courseID, CreateLessonInput{Title: "Limits"})
	require.NoError(t, err)
	assert.Equal(t, model.LessonStatusDraft, lesson.Status)

	updated, err := svc.Update(ctx, teacherID, lesson.ID, LessonPatch{
		MaterialUrl: model.OptOf("https://materials.test/limits.pdf"),
		Status:      model.OptOf(model.LessonStatusPublished),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.MaterialUrl)

	_, err = svc.Update(ctx, uuid.New(), lesson.ID, LessonPatch{})
	assert.ErrorIs(t, err, ErrNotFound)

	// Listing a course the teacher does not own yields an empty list.
	list, err := svc.ListByCourse(ctx, uuid.New(), courseID)
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = svc.ListByCourse(ctx, teacherID, courseID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestLessonStudentListDoneFlag(t *testing.T) {
	clock := newFixedClock()
	enrollments := newFakeEnrollmentStore()
	courses := newFakeCourseStore(enrollments)
	sessions := newFakeSessionStore()
	lessons := newFakeLessonStore(courses, sessions)
	svc := NewLessonService(courses, lessons, clock, testLogger())
	ctx := context.Background()
	teacherID := uuid.New()
	studentID := uuid.New()
	courseID := uuid.New()

	require.NoError(t, courses.Create(ctx, &model.Course{ID: courseID, TeacherID: teacherID, Title: "Algebra"}))
	require.NoError(t, enrollments.Create(ctx, &model.Enrollment{
		ID: uuid.New(), CourseID: courseID, StudentID: studentID, Status: model.EnrollmentStatusActive,
	}))

	first, err := svc.Create(ctx, teacherID, courseID, CreateLessonInput{Title: "Limits"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, teacherID, courseID, CreateLessonInput{Title: "Derivatives"})
	require.NoError(t, err)

	// One done session referencing the first lesson marks it done.
	require.NoError(t, sessions.Create(ctx, &model.Session{
		ID:        uuid.New(),
		CourseID:  courseID,
		TeacherID: teacherID,
		StudentID: studentID,
		LessonID:  &first.ID,
		Status:    model.SessionStatusDone,
	}))

	items, err := svc.ListForStudent(ctx, studentID, courseID, "")
	require.NoError(t, err)
	require.Len(t, items, 2)

	done, err := svc.ListForStudent(ctx, studentID, courseID, "done")
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "Limits", done[0].Lesson.Title)

	planned, err := svc.ListForStudent(ctx, studentID, courseID, "planned")
	require.NoError(t, err)
	require.Len(t, planned, 1)
	assert.Equal(t, "Derivatives", planned[0].Lesson.Title)

	_, err = svc.ListForStudent(ctx, uuid.New(), courseID, "")
	assert.ErrorIs(t, err, ErrNotFound)
}
