package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tutorhub/backend/internal/model"
	"github.com/tutorhub/backend/internal/repository"
)

// In-memory stores shared by the service tests. They mirror the observable
// behaviour of the pgx repositories: nil for a missing row, ErrDuplicate
// from unique indexes, repository list ordering.

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFixedClock() *fixedClock {
	return &fixedClock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
}

func testLogger() *zap.Logger { return zap.NewNop() }

type fakeUserStore struct {
	users map[uuid.UUID]*model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uuid.UUID]*model.User{}}
}

func (f *fakeUserStore) Create(_ context.Context, user *model.User) error {
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) GetStudentByCode(_ context.Context, code string) (*model.User, error) {
	for _, u := range f.users {
		if u.Role == model.RoleStudent && u.StudentCode != nil && *u.StudentCode == code {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) StudentCodeExists(_ context.Context, code string) (bool, error) {
	u, err := f.GetStudentByCode(context.Background(), code)
	return u != nil, err
}

type fakeCourseStore struct {
	courses     map[uuid.UUID]*model.Course
	enrollments *fakeEnrollmentStore
}

func newFakeCourseStore(enrollments *fakeEnrollmentStore) *fakeCourseStore {
	return &fakeCourseStore{courses: map[uuid.UUID]*model.Course{}, enrollments: enrollments}
}

func (f *fakeCourseStore) Create(_ context.Context, course *model.Course) error {
	cp := *course
	f.courses[course.ID] = &cp
	return nil
}

func (f *fakeCourseStore) GetByID(_ context.Context, id uuid.UUID) (*model.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCourseStore) GetByIDForTeacher(_ context.Context, id, teacherID uuid.UUID) (*model.Course, error) {
	c, ok := f.courses[id]
	if !ok || c.TeacherID != teacherID {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCourseStore) GetByIDForStudent(ctx context.Context, id, studentID uuid.UUID) (*model.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, nil
	}
	e, _ := f.enrollments.GetByCourseAndStudent(ctx, id, studentID)
	if e == nil || e.Status != model.EnrollmentStatusActive {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCourseStore) ListByTeacher(_ context.Context, teacherID uuid.UUID) ([]*model.Course, error) {
	var out []*model.Course
	for _, c := range f.courses {
		if c.TeacherID == teacherID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (f *fakeCourseStore) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]*model.Course, error) {
	var out []*model.Course
	for _, c := range f.courses {
		if got, _ := f.GetByIDForStudent(ctx, c.ID, studentID); got != nil {
			out = append(out, got)
		}
	}
	return out, nil
}

func (f *fakeCourseStore) Update(_ context.Context, course *model.Course) error {
	cp := *course
	f.courses[course.ID] = &cp
	return nil
}

type fakeLessonStore struct {
	lessons  map[uuid.UUID]*model.Lesson
	courses  *fakeCourseStore
	sessions *fakeSessionStore
}

func newFakeLessonStore(courses *fakeCourseStore, sessions *fakeSessionStore) *fakeLessonStore {
	return &fakeLessonStore{lessons: map[uuid.UUID]*model.Lesson{}, courses: courses, sessions: sessions}
}

func (f *fakeLessonStore) Create(_ context.Context, lesson *model.Lesson) error {
	cp := *lesson
	f.lessons[lesson.ID] = &cp
	return nil
}

func (f *fakeLessonStore) GetByIDForTeacher(_ context.Context, id, teacherID uuid.UUID) (*model.Lesson, error) {
	l, ok := f.lessons[id]
	if !ok {
		return nil, nil
	}
	c := f.courses.courses[l.CourseID]
	if c == nil || c.TeacherID != teacherID {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLessonStore) GetByIDInCourse(_ context.Context, id, courseID uuid.UUID) (*model.Lesson, error) {
	l, ok := f.lessons[id]
	if !ok || l.CourseID != courseID {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (f *fakeLessonStore) ExistsInCourse(ctx context.Context, id, courseID uuid.UUID) (bool, error) {
	l, err := f.GetByIDInCourse(ctx, id, courseID)
	return l != nil, err
}

func (f *fakeLessonStore) ListByCourse(_ context.Context, courseID uuid.UUID) ([]*model.Lesson, error) {
	var out []*model.Lesson
	for _, l := range f.lessons {
		if l.CourseID == courseID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (f *fakeLessonStore) ListForStudentCourse(ctx context.Context, courseID, studentID uuid.UUID) ([]*repository.StudentLessonItem, error) {
	lessons, _ := f.ListByCourse(ctx, courseID)
	out := make([]*repository.StudentLessonItem, 0, len(lessons))
	for _, l := range lessons {
		done := false
		if f.sessions != nil {
			for _, s := range f.sessions.sessions {
				if s.StudentID == studentID && s.CourseID == courseID &&
					s.Status == model.SessionStatusDone && s.LessonID != nil && *s.LessonID == l.ID {
					done = true
				}
			}
		}
		out = append(out, &repository.StudentLessonItem{Lesson: l, Done: done})
	}
	return out, nil
}

func (f *fakeLessonStore) Update(_ context.Context, lesson *model.Lesson) error {
	cp := *lesson
	f.lessons[lesson.ID] = &cp
	return nil
}

func (f *fakeLessonStore) delete(id uuid.UUID) {
	delete(f.lessons, id)
}

type fakeEnrollmentStore struct {
	enrollments map[uuid.UUID]*model.Enrollment
}

func newFakeEnrollmentStore() *fakeEnrollmentStore {
	return &fakeEnrollmentStore{enrollments: map[uuid.UUID]*model.Enrollment{}}
}

func (f *fakeEnrollmentStore) Create(_ context.Context, enrollment *model.Enrollment) error {
	for _, e := range f.enrollments {
		if e.CourseID == enrollment.CourseID && e.StudentID == enrollment.StudentID {
			return repository.ErrDuplicate
		}
	}
	cp := *enrollment
	f.enrollments[enrollment.ID] = &cp
	return nil
}

func (f *fakeEnrollmentStore) GetByID(_ context.Context, id uuid.UUID) (*model.Enrollment, error) {
	e, ok := f.enrollments[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEnrollmentStore) GetByCourseAndStudent(_ context.Context, courseID, studentID uuid.UUID) (*model.Enrollment, error) {
	for _, e := range f.enrollments {
		if e.CourseID == courseID && e.StudentID == studentID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeEnrollmentStore) ListByCourse(_ context.Context, courseID uuid.UUID) ([]*model.Enrollment, error) {
	var out []*model.Enrollment
	for _, e := range f.enrollments {
		if e.CourseID == courseID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentStore) Update(_ context.Context, enrollment *model.Enrollment) error {
	cp := *enrollment
	f.enrollments[enrollment.ID] = &cp
	return nil
}

type fakeSessionStore struct {
	sessions map[uuid.UUID]*model.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[uuid.UUID]*model.Session{}}
}

func (f *fakeSessionStore) Create(_ context.Context, session *model.Session) error {
	cp := *session
	f.sessions[session.ID] = &cp
	return nil
}

func (f *fakeSessionStore) GetByID(_ context.Context, id uuid.UUID) (*model.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionStore) GetByIDForStudent(_ context.Context, id, studentID uuid.UUID) (*model.Session, error) {
	s, ok := f.sessions[id]
	if !ok || s.StudentID != studentID {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func matchSession(s *model.Session, filter repository.SessionFilter) bool {
	if filter.CourseID != nil && s.CourseID != *filter.CourseID {
		return false
	}
	if filter.StudentID != nil && s.StudentID != *filter.StudentID {
		return false
	}
	if filter.From != nil && s.StartsAt.Before(*filter.From) {
		return false
	}
	if filter.To != nil && !s.StartsAt.Before(*filter.To) {
		return false
	}
	if filter.Status != nil && s.Status != *filter.Status {
		return false
	}
	return true
}

func (f *fakeSessionStore) list(match func(*model.Session) bool, filter repository.SessionFilter) []*model.Session {
	var out []*model.Session
	for _, s := range f.sessions {
		if match(s) && matchSession(s, filter) {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.After(out[j].StartsAt) })
	return out
}

func (f *fakeSessionStore) ListByTeacher(_ context.Context, teacherID uuid.UUID, filter repository.SessionFilter) ([]*model.Session, error) {
	return f.list(func(s *model.Session) bool { return s.TeacherID == teacherID }, filter), nil
}

func (f *fakeSessionStore) ListByStudent(_ context.Context, studentID uuid.UUID, filter repository.SessionFilter) ([]*model.Session, error) {
	return f.list(func(s *model.Session) bool { return s.StudentID == studentID }, filter), nil
}

func (f *fakeSessionStore) Update(_ context.Context, session *model.Session) error {
	cp := *session
	f.sessions[session.ID] = &cp
	return nil
}

type fakeHomeworkStore struct {
	items       map[uuid.UUID]*model.HomeworkItem
	enrollments *fakeEnrollmentStore
}

func newFakeHomeworkStore(enrollments *fakeEnrollmentStore) *fakeHomeworkStore {
	return &fakeHomeworkStore{items: map[uuid.UUID]*model.HomeworkItem{}, enrollments: enrollments}
}

func (f *fakeHomeworkStore) Create(_ context.Context, item *model.HomeworkItem) error {
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeHomeworkStore) GetByID(_ context.Context, id uuid.UUID) (*model.HomeworkItem, error) {
	i, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := *i
	return &cp, nil
}

func sortHomework(items []*model.HomeworkItem) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch {
		case a.DueAt == nil && b.DueAt != nil:
			return false
		case a.DueAt != nil && b.DueAt == nil:
			return true
		case a.DueAt != nil && b.DueAt != nil && !a.DueAt.Equal(*b.DueAt):
			return a.DueAt.Before(*b.DueAt)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}

func (f *fakeHomeworkStore) ListByEnrollment(_ context.Context, enrollmentID uuid.UUID) ([]*model.HomeworkItem, error) {
	var out []*model.HomeworkItem
	for _, i := range f.items {
		if i.EnrollmentID == enrollmentID {
			cp := *i
			out = append(out, &cp)
		}
	}
	sortHomework(out)
	return out, nil
}

func (f *fakeHomeworkStore) ListForStudent(ctx context.Context, studentID uuid.UUID, filter repository.CheckedFilter) ([]*repository.StudentHomeworkItem, error) {
	var raw []*model.HomeworkItem
	for _, i := range f.items {
		e := f.enrollments.enrollments[i.EnrollmentID]
		if e == nil || e.StudentID != studentID || e.Status != model.EnrollmentStatusActive {
			continue
		}
		if filter == repository.CheckedOnly && i.CheckedAt == nil {
			continue
		}
		if filter == repository.UncheckedOnly && i.CheckedAt != nil {
			continue
		}
		cp := *i
		raw = append(raw, &cp)
	}
	sortHomework(raw)

	out := make([]*repository.StudentHomeworkItem, 0, len(raw))
	for _, i := range raw {
		e := f.enrollments.enrollments[i.EnrollmentID]
		out = append(out, &repository.StudentHomeworkItem{Item: i, CourseID: e.CourseID})
	}
	return out, nil
}

func (f *fakeHomeworkStore) GetForStudent(_ context.Context, id, studentID uuid.UUID) (*repository.StudentHomeworkItem, error) {
	i, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	e := f.enrollments.enrollments[i.EnrollmentID]
	if e == nil || e.StudentID != studentID || e.Status != model.EnrollmentStatusActive {
		return nil, nil
	}
	cp := *i
	return &repository.StudentHomeworkItem{Item: &cp, CourseID: e.CourseID}, nil
}

func (f *fakeHomeworkStore) Update(_ context.Context, item *model.HomeworkItem) error {
	cp := *item
	f.items[item.ID] = &cp
	return nil
}

func (f *fakeHomeworkStore) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.items, id)
	return nil
}

type fakeResetStore struct {
	tokens map[uuid.UUID]*model.PasswordResetToken
	users  *fakeUserStore
}

func newFakeResetStore(users *fakeUserStore) *fakeResetStore {
	return &fakeResetStore{tokens: map[uuid.UUID]*model.PasswordResetToken{}, users: users}
}

func (f *fakeResetStore) Create(_ context.Context, token *model.PasswordResetToken) error {
	cp := *token
	f.tokens[token.ID] = &cp
	return nil
}

func (f *fakeResetStore) GetByTokenHash(_ context.Context, hash string) (*model.PasswordResetToken, error) {
	for _, t := range f.tokens {
		if t.TokenHash == hash {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeResetStore) Consume(_ context.Context, tokenID, userID uuid.UUID, passwordHash string, now time.Time) error {
	if u, ok := f.users.users[userID]; ok {
		u.PasswordHash = passwordHash
		u.UpdatedAt = now
	}
	for _, t := range f.tokens {
		if t.ID == tokenID || (t.UserID == userID && t.UsedAt == nil) {
			at := now
			t.UsedAt = &at
		}
	}
	return nil
}

type fakeTokenIssuer struct{}

func (fakeTokenIssuer) Issue(user *model.User) (string, error) {
	return "token-" + user.ID.String(), nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (fakeHasher) Compare(hash, password string) bool { return hash == "hash:"+password }

type fakeEmailSender struct {
	to      []string
	bodies  []string
	failAll bool
}

func (f *fakeEmailSender) Send(_ context.Context, to, _, body string) error {
	if f.failAll {
		return context.DeadlineExceeded
	}
	f.to = append(f.to, to)
	f.bodies = append(f.bodies, body)
	return nil
}
