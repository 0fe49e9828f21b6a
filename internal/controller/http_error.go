package controller

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/tutorhub/backend/internal/service"
)

// writeError maps a coded service error onto the HTTP surface. Anything
// outside the closed code set is a 500 with a generic body.
func writeError(c echo.Context, err error) error {
	var coded *service.Error
	if !errors.As(err, &coded) {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal"})
	}

	status := http.StatusBadRequest
	switch coded.Code() {
	case service.ErrNotFound.Code(), service.ErrCourseNotFound.Code():
		status = http.StatusNotFound
	case service.ErrRevoked.Code(),
		service.ErrEnrollmentNotFound.Code(),
		service.ErrAlreadyEnrolled.Code(),
		service.ErrCannotCompleteCanceled.Code(),
		service.ErrEmailAlreadyExists.Code():
		status = http.StatusConflict
	case service.ErrInvalidCredentials.Code():
		status = http.StatusUnauthorized
	}

	return c.JSON(status, echo.Map{"error": coded.Code()})
}

func bindError(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": service.ErrInvalidInput.Code()})
}

// pathID parses a uuid path parameter. A malformed id behaves like a
// missing resource.
func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, service.ErrNotFound
	}
	return id, nil
}
