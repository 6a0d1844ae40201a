package httpserver

import (
	"errors"
	"net/http"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/content_backend/internal/logging"
	"github.com/Skotchmaster/content_backend/internal/service"
)

const (
	detailUnauthorized     = "Could not validate credentials"
	detailNotAuthenticated = "Not authenticated"
)

// toHTTPError is the one place where domain failures become status codes.
func toHTTPError(err error) *echo.HTTPError {
	var be *echo.BindingError
	if errors.As(err, &be) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, be.Message)
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, verrs)
	}

	switch {
	case errors.Is(err, service.ErrMissingCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, detailNotAuthenticated)
	case service.IsUnauthorized(err):
		return echo.NewHTTPError(http.StatusUnauthorized, detailUnauthorized)
	case errors.Is(err, service.ErrMalformedTokenPayload):
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid token payload")
	case errors.Is(err, service.ErrDuplicateRegistration):
		return echo.NewHTTPError(http.StatusBadRequest, "Username or email already registered")
	case errors.Is(err, service.ErrDuplicateTitle):
		return echo.NewHTTPError(http.StatusBadRequest, "A blog with this title already exists")
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusUnprocessableEntity,
			strings.TrimSuffix(err.Error(), ": "+service.ErrValidation.Error()))
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "Not enough permissions")
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)).SetInternal(err)
}

// ErrorHandler renders every error as {"detail": ...}. 401 responses always
// carry the bearer challenge.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	he := toHTTPError(err)
	if he.Code == http.StatusUnauthorized {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	}
	if he.Code >= http.StatusInternalServerError {
		logging.FromContext(c.Request().Context()).Error("unhandled_error", "status", he.Code, "error", err)
	}

	detail := he.Message
	if m, ok := detail.(string); ok && m == "" {
		detail = http.StatusText(he.Code)
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(he.Code)
	} else {
		werr = c.JSON(he.Code, map[string]any{"detail": detail})
	}
	if werr != nil {
		c.Logger().Error(werr)
	}
}
