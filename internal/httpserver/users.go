package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/content_backend/internal/logging"
	"github.com/Skotchmaster/content_backend/internal/middleware/auth"
	"github.com/Skotchmaster/content_backend/internal/service"
	"github.com/Skotchmaster/content_backend/internal/transport"
)

type UsersHTTP struct {
	Svc *service.AuthService
}

func (h *UsersHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("register_error", "status", 422, "error", err)
		return err
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, transport.NewUserResponse(user))
}

func (h *UsersHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	res, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Incorrect username or password")
		}
		return err
	}

	return c.JSON(http.StatusOK, transport.TokenResponse{
		AccessToken: res.AccessToken,
		TokenType:   res.TokenType,
	})
}

func (h *UsersHTTP) Logout(c echo.Context) error {
	p, ok := auth.CurrentPrincipal(c)
	if !ok {
		return service.ErrMissingCredentials
	}
	if err := h.Svc.Logout(c.Request().Context(), p); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.DetailResponse{Detail: "Successfully logged out"})
}

func (h *UsersHTTP) Me(c echo.Context) error {
	p, ok := auth.CurrentPrincipal(c)
	if !ok {
		return service.ErrMissingCredentials
	}
	return c.JSON(http.StatusOK, transport.NewUserResponse(p.User))
}

func (h *UsersHTTP) GetUser(c echo.Context) error {
	p, ok := auth.CurrentPrincipal(c)
	if !ok {
		return service.ErrMissingCredentials
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.Svc.GetUser(c.Request().Context(), p.User, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transport.NewUserResponse(user))
}

func (h *UsersHTTP) DeleteUser(c echo.Context) error {
	p, ok := auth.CurrentPrincipal(c)
	if !ok {
		return service.ErrMissingCredentials
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteUser(c.Request().Context(), p.User, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *UsersHTTP) ChangePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users_change_password")

	p, ok := auth.CurrentPrincipal(c)
	if !ok {
		return service.ErrMissingCredentials
	}

	var req transport.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("change_password_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.Validate(); err != nil {
		return err
	}

	if err := h.Svc.ChangePassword(ctx, p.User, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Current password is incorrect")
		}
		return err
	}
	return c.JSON(http.StatusOK, transport.DetailResponse{Detail: "Password updated successfully"})
}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid id")
	}
	return uint(id), nil
}
