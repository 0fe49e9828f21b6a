package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tutorhub/backend/internal/auth"
	"github.com/tutorhub/backend/internal/service"
)

type EnrollmentController struct {
	enrollments *service.EnrollmentService
	homework    *service.HomeworkService
}

func NewEnrollmentController(enrollments *service.EnrollmentService, homework *service.HomeworkService) *EnrollmentController {
	return &EnrollmentController{enrollments: enrollments, homework: homework}
}

func (ctl *EnrollmentController) ListByCourse(c echo.Context) error {
	courseID, err := pathID(c, "courseId")
	if err != nil {
		return writeError(c, err)
	}

	items, err := ctl.enrollments.ListByCourse(c.Request().Context(), auth.UserID(c), courseID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (ctl *EnrollmentController) Enroll(c echo.Context) error {
	courseID, err := pathID(c, "courseId")
	if err != nil {
		return writeError(c, err)
	}

	var in service.EnrollStudentInput
	if err := c.Bind(&in); err != nil {
		return bindError(c)
	}

	enrollment, err := ctl.enrollments.Enroll(c.Request().Context(), auth.UserID(c), courseID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, enrollment)
}

func (ctl *EnrollmentController) Update(c echo.Context) error {
	enrollmentID, err := pathID(c, "enrollmentId")
	if err != nil {
		return writeError(c, err)
	}

	var patch service.EnrollmentPatch
	if err := c.Bind(&patch); err != nil {
		return bindError(c)
	}

	enrollment, err := ctl.enrollments.Update(c.Request().Context(), auth.UserID(c), enrollmentID, patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, enrollment)
}

func (ctl *EnrollmentController) Revoke(c echo.Context) error {
	enrollmentID, err := pathID(c, "enrollmentId")
	if err != nil {
		return writeError(c, err)
	}

	if err := ctl.enrollments.Revoke(c.Request().Context(), auth.UserID(c), enrollmentID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (ctl *EnrollmentController) ListHomework(c echo.Context) error {
	enrollmentID, err := pathID(c, "enrollmentId")
	if err != nil {
		return writeError(c, err)
	}

	items, err := ctl.homework.ListByEnrollment(c.Request().Context(), auth.UserID(c), enrollmentID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

func (ctl *EnrollmentController) CreateHomework(c echo.Context) error {
	enrollmentID, err := pathID(c, "enrollmentId")
	if err != nil {
		return writeError(c, err)
	}

	var in service.CreateHomeworkInput
	if err := c.Bind(&in); err != nil {
		return bindError(c)
	}

	item, err := ctl.homework.Create(c.Request().Context(), auth.UserID(c), enrollmentID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}
