package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tutorhub/backend/internal/auth"
	"github.com/tutorhub/backend/internal/service"
)

type HomeworkController struct {
	homework *service.HomeworkService
}

func NewHomeworkController(homework *service.HomeworkService) *HomeworkController {
	return &HomeworkController{homework: homework}
}

func (ctl *HomeworkController) Update(c echo.Context) error {
	homeworkID, err := pathID(c, "homeworkId")
	if err != nil {
		return writeError(c, err)
	}

	var patch service.HomeworkPatch
	if err := c.Bind(&patch); err != nil {
		return bindError(c)
	}

	if err := ctl.homework.Update(c.Request().Context(), auth.UserID(c), homeworkID, patch); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (ctl *HomeworkController) Delete(c echo.Context) error {
	homeworkID, err := pathID(c, "homeworkId")
	if err != nil {
		return writeError(c, err)
	}

	if err := ctl.homework.Delete(c.Request().Context(), auth.UserID(c), homeworkID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (ctl *HomeworkController) Check(c echo.Context) error {
	homeworkID, err := pathID(c, "homeworkId")
	if err != nil {
		return writeError(c, err)
	}

	var in service.CheckHomeworkInput
	if err := c.Bind(&in); err != nil {
		return bindError(c)
	}

	if err := ctl.homework.Check(c.Request().Context(), auth.UserID(c), homeworkID, in); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
