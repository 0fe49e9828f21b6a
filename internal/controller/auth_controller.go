package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tutorhub/backend/internal/auth"
	"github.com/tutorhub/backend/internal/service"
)

type AuthController struct {
	auth  *service.AuthService
	reset *service.PasswordResetService
}

func NewAuthController(authSvc *service.AuthService, reset *service.PasswordResetService) *AuthController {
	return &AuthController{auth: authSvc, reset: reset}
}

func (ctl *AuthController) Register(c echo.Context) error {
	var in service.RegisterInput
	if err := c.Bind(&in); err != nil {
		return bindError(c)
	}

	result, err := ctl.auth.Register(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, result)
}

func (ctl *AuthController) Login(c echo.Context) error {
	var in service.LoginInput
	if err := c.Bind(&in); err != nil {
		return bindError(c)
	}

	result, err := ctl.auth.Login(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

func (ctl *AuthController) Me(c echo.Context) error {
	user, err := ctl.auth.Me(c.Request().Context(), auth.UserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, user)
}

type resetRequestBody struct {
	Email string `json:"email"`
}

func (ctl *AuthController) PasswordResetRequest(c echo.Context) error {
	var body resetRequestBody
	if err := c.Bind(&body); err != nil {
		return bindError(c)
	}

	devToken, err := ctl.reset.Request(c.Request().Context(), body.Email)
	if err != nil {
		return writeError(c, err)
	}

	resp := echo.Map{"ok": true}
	if devToken != "" {
		resp["token"] = devToken
	}
	return c.JSON(http.StatusOK, resp)
}

type resetConfirmBody struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

func (ctl *AuthController) PasswordResetConfirm(c echo.Context) error {
	var body resetConfirmBody
	if err := c.Bind(&body); err != nil {
		return bindError(c)
	}

	if err := ctl.reset.Confirm(c.Request().Context(), body.Token, body.NewPassword); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"ok": true})
}
