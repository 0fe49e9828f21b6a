package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tutorhub/backend/internal/auth"
	"github.com/tutorhub/backend/internal/service"
)

type CourseController struct {
	courses *service.CourseService
	lessons *service.LessonService
}

func NewCourseController(courses *service.CourseService, lessons *service.LessonService) *CourseController {
	return &CourseController{courses: courses, lessons: lessons}
}

func (ctl *CourseController) List(c echo.Context) error {
	courses, err := ctl.courses.ListForTeacher(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, courses)
}

func (ctl *CourseController) Create(c echo.Context) error {
	var in service.CreateCourseInput
	if err := c.Bind(&in); err != nil {
		return bindError(c)
	}

	course, err := ctl.courses.Create(c.Request().Context(), auth.UserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, course)
}

func (ctl *CourseController) Get(c echo.Context) error {
	courseID, err := pathID(c, "courseId")
	if err != nil {
		return writeError(c, err)
	}

	course, err := ctl.courses.GetForTeacher(c.Request().Context(), auth.UserID(c), courseID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, course)
}

func (ctl *CourseController) Update(c echo.Context) error {
	courseID, err := pathID(c, "courseId")
	if err != nil {
		return writeError(c, err)
	}

	var patch service.CoursePatch
	if err := c.Bind(&patch); err != nil {
		return bindError(c)
	}

	course, err := ctl.courses.Update(c.Request().Context(), auth.UserID(c), courseID, patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, course)
}

func (ctl *CourseController) Archive(c echo.Context) error {
	courseID, err := pathID(c, "courseId")
	if err != nil {
		return writeError(c, err)
	}

	if err := ctl.courses.Archive(c.Request().Context(), auth.UserID(c), courseID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (ctl *CourseController) ListLessons(c echo.Context) error {
	courseID, err := pathID(c, "courseId")
	if err != nil {
		return writeError(c, err)
	}

	lessons, err := ctl.lessons.ListByCourse(c.Request().Context(), auth.UserID(c), courseID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, lessons)
}

func (ctl *CourseController) CreateLesson(c echo.Context) error {
	courseID, err := pathID(c, "courseId")
	if err != nil {
		return writeError(c, err)
	}

	var in service.CreateLessonInput
	if err := c.Bind(&in); err != nil {
		return bindError(c)
	}

	lesson, err := ctl.lessons.Create(c.Request().Context(), auth.UserID(c), courseID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, lesson)
}

func (ctl *CourseController) UpdateLesson(c echo.Context) error {
	lessonID, err := pathID(c, "lessonId")
	if err != nil {
		return writeError(c, err)
	}

	var patch service.LessonPatch
	if err := c.Bind(&patch); err != nil {
		return bindError(c)
	}

	lesson, err := ctl.lessons.Update(c.Request().Context(), auth.UserID(c), lessonID, patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, lesson)
}
