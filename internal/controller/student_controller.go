package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tutorhub/backend/internal/auth"
	"github.com/tutorhub/backend/internal/service"
)

// StudentController serves the /api/my surface: everything a student can
// see through their active enrollments.
type StudentController struct {
	courses  *service.CourseService
	lessons  *service.LessonService
	sessions *service.SessionService
	homework *service.HomeworkService
}

func NewStudentController(
	courses *service.CourseService,
	lessons *service.LessonService,
	sessions *service.SessionService,
	homework *service.HomeworkService,
) *StudentController {
	return &StudentController{
		courses:  courses,
		lessons:  lessons,
		sessions: sessions,
		homework: homework,
	}
}

func (ctl *StudentController) ListCourses(c echo.Context) error {
	courses, err := ctl.courses.ListForStudent(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, courses)
}

func (ctl *StudentController) GetCourse(c echo.Context) error {
	courseID, err := pathID(c, "courseId")
	if err != nil {
		return writeError(c, err)
	}

	course, err := ctl.courses.GetForStudent(c.Request().Context(), auth.UserID(c), courseID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, course)
}

func (ctl *StudentController) ListLessons(c echo.Context) error {
	courseID, err := pathID(c, "courseId")
	if err != nil {
		return writeError(c, err)
	}

	lessons, err := ctl.lessons.ListForStudent(c.Request().Context(), auth.UserID(c), courseID, c.QueryParam("filter"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, lessons)
}

func (ctl *StudentController) ListSessions(c echo.Context) error {
	sessions, err := ctl.sessions.ListForStudent(c.Request().Context(), auth.UserID(c), sessionFilter(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, sessions)
}

func (ctl *StudentController) GetSession(c echo.Context) error {
	sessionID, err := pathID(c, "sessionId")
	if err != nil {
		return writeError(c, err)
	}

	detail, err := ctl.sessions.GetForStudent(c.Request().Context(), auth.UserID(c), sessionID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

func (ctl *StudentController) ListHomework(c echo.Context) error {
	items, err := ctl.homework.ListForStudent(c.Request().Context(), auth.UserID(c), c.QueryParam("filter"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (ctl *StudentController) GetHomework(c echo.Context) error {
	homeworkID, err := pathID(c, "homeworkId")
	if err != nil {
		return writeError(c, err)
	}

	detail, err := ctl.homework.GetForStudent(c.Request().Context(), auth.UserID(c), homeworkID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

type answerBody struct {
	Answer string `json:"answer"`
}

func (ctl *StudentController) SubmitAnswer(c echo.Context) error {
	homeworkID, err := pathID(c, "homeworkId")
	if err != nil {
		return writeError(c, err)
	}

	var body answerBody
	if err := c.Bind(&body); err != nil {
		return bindError(c)
	}

	if err := ctl.homework.SubmitAnswer(c.Request().Context(), auth.UserID(c), homeworkID, body.Answer); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
