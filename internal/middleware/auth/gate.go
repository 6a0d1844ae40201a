package auth

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/content_backend/internal/logging"
	loggingmw "github.com/Skotchmaster/content_backend/internal/middleware/logging"
	"github.com/Skotchmaster/content_backend/internal/service"
)

const principalKey = "principal"

type Authenticator interface {
	Authenticate(ctx context.Context, authorization string) (*service.Principal, error)
}

type Gate struct {
	Svc Authenticator
}

func NewGate(svc Authenticator) *Gate {
	return &Gate{Svc: svc}
}

// RequireAuth resolves the caller or stops the chain with the gate's error.
// The error is left for the HTTP error handler to translate into a 401.
func (g *Gate) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		p, err := g.Svc.Authenticate(ctx, c.Request().Header.Get(echo.HeaderAuthorization))
		if err != nil {
			return err
		}

		c.Set(principalKey, p)
		c.Set(loggingmw.PrincipalKey, p.User.ID)

		l := logging.FromContext(ctx).With("user_id", p.User.ID)
		c.SetRequest(c.Request().WithContext(logging.IntoContext(ctx, l)))

		return next(c)
	}
}

// CurrentPrincipal returns the caller stored by RequireAuth.
func CurrentPrincipal(c echo.Context) (*service.Principal, bool) {
	p, ok := c.Get(principalKey).(*service.Principal)
	return p, ok && p != nil && p.User != nil
}
