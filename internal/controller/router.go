package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/tutorhub/backend/internal/auth"
	"github.com/tutorhub/backend/internal/model"
)

// Router bundles the controllers and knows how to mount them on an Echo
// instance.
type Router struct {
	jwt         *auth.JWTManager
	authCtl     *AuthController
	courses     *CourseController
	enrollments *EnrollmentController
	homework    *HomeworkController
	sessions    *SessionController
	student     *StudentController
	seed        *SeedController // nil outside dev
}

func NewRouter(
	jwt *auth.JWTManager,
	authCtl *AuthController,
	courses *CourseController,
	enrollments *EnrollmentController,
	homework *HomeworkController,
	sessions *SessionController,
	student *StudentController,
	seed *SeedController,
) *Router {
	return &Router{
		jwt:         jwt,
		authCtl:     authCtl,
		courses:     courses,
		enrollments: enrollments,
		homework:    homework,
		sessions:    sessions,
		student:     student,
		seed:        seed,
	}
}

func (r *Router) Mount(e *echo.Echo) {
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	api := e.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", r.authCtl.Register)
	authGroup.POST("/login", r.authCtl.Login)
	authGroup.GET("/me", r.authCtl.Me, r.jwt.RequireAuth())
	authGroup.POST("/password-reset/request", r.authCtl.PasswordResetRequest)
	authGroup.POST("/password-reset/confirm", r.authCtl.PasswordResetConfirm)

	teacher := api.Group("", r.jwt.RequireAuth(), auth.RequireRole(model.RoleTeacher))
	teacher.GET("/courses", r.courses.List)
	teacher.POST("/courses", r.courses.Create)
	teacher.GET("/courses/:courseId", r.courses.Get)
	teacher.PUT("/courses/:courseId", r.courses.Update)
	teacher.DELETE("/courses/:courseId", r.courses.Archive)
	teacher.GET("/courses/:courseId/lessons", r.courses.ListLessons)
	teacher.POST("/courses/:courseId/lessons", r.courses.CreateLesson)
	teacher.PUT("/lessons/:lessonId", r.courses.UpdateLesson)
	teacher.GET("/courses/:courseId/enrollments", r.enrollments.ListByCourse)
	teacher.POST("/courses/:courseId/enrollments", r.enrollments.Enroll)
	teacher.PUT("/enrollments/:enrollmentId", r.enrollments.Update)
	teacher.POST("/enrollments/:enrollmentId/revoke", r.enrollments.Revoke)
	teacher.GET("/enrollments/:enrollmentId/homework", r.enrollments.ListHomework)
	teacher.POST("/enrollments/:enrollmentId/homework", r.enrollments.CreateHomework)
	teacher.PUT("/homework/:homeworkId", r.homework.Update)
	teacher.DELETE("/homework/:homeworkId", r.homework.Delete)
	teacher.POST("/homework/:homeworkId/check", r.homework.Check)
	teacher.GET("/sessions", r.sessions.List)
	teacher.POST("/sessions", r.sessions.Create)
	teacher.PUT("/sessions/:sessionId", r.sessions.Update)
	teacher.POST("/sessions/:sessionId/complete", r.sessions.Complete)

	my := api.Group("/my", r.jwt.RequireAuth(), auth.RequireRole(model.RoleStudent))
	my.GET("/courses", r.student.ListCourses)
	my.GET("/courses/:courseId", r.student.GetCourse)
	my.GET("/courses/:courseId/lessons", r.student.ListLessons)
	my.GET("/sessions", r.student.ListSessions)
	my.GET("/sessions/:sessionId", r.student.GetSession)
	my.GET("/homework", r.student.ListHomework)
	my.GET("/homework/:homeworkId", r.student.GetHomework)
	my.POST("/homework/:homeworkId/answer", r.student.SubmitAnswer)

	if r.seed != nil {
		api.POST("/dev/seed", r.seed.Run)
	}
}
