package controller

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tutorhub/backend/internal/auth"
	"github.com/tutorhub/backend/internal/model"
	"github.com/tutorhub/backend/internal/repository"
	"github.com/tutorhub/backend/internal/service"
)

type SessionController struct {
	sessions *service.SessionService
}

func NewSessionController(sessions *service.SessionService) *SessionController {
	return &SessionController{sessions: sessions}
}

// sessionFilter reads the optional list filters off the query string.
// Malformed values are ignored rather than rejected.
func sessionFilter(c echo.Context) repository.SessionFilter {
	var f repository.SessionFilter

	if raw := c.QueryParam("course_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			f.CourseID = &id
		}
	}
	if raw := c.QueryParam("student_id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			f.StudentID = &id
		}
	}
	if raw := c.QueryParam("from"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			f.From = &t
		}
	}
	if raw := c.QueryParam("to"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			f.To = &t
		}
	}
	if raw := c.QueryParam("status"); raw != "" {
		status := model.SessionStatus(raw)
		f.Status = &status
	}

	return f
}

func (ctl *SessionController) List(c echo.Context) error {
	sessions, err := ctl.sessions.ListForTeacher(c.Request().Context(), auth.UserID(c), sessionFilter(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, sessions)
}

func (ctl *SessionController) Create(c echo.Context) error {
	var in service.CreateSessionInput
	if err := c.Bind(&in); err != nil {
		return bindError(c)
	}

	session, err := ctl.sessions.Create(c.Request().Context(), auth.UserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, session)
}

func (ctl *SessionController) Update(c echo.Context) error {
	sessionID, err := pathID(c, "sessionId")
	if err != nil {
		return writeError(c, err)
	}

	var patch service.SessionPatch
	if err := c.Bind(&patch); err != nil {
		return bindError(c)
	}

	if err := ctl.sessions.Update(c.Request().Context(), auth.UserID(c), sessionID, patch); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (ctl *SessionController) Complete(c echo.Context) error {
	sessionID, err := pathID(c, "sessionId")
	if err != nil {
		return writeError(c, err)
	}

	if err := ctl.sessions.Complete(c.Request().Context(), auth.UserID(c), sessionID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
