package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/proposaldesk/docstore/internal/model"
)

// PrincipalResolver turns a bearer token into a Principal.
type PrincipalResolver interface {
	Resolve(ctx context.Context, tokenValue string) (model.Principal, error)
}

// principalKey is the echo context key holding the resolved Principal.
const principalKey = "principal"

// Authenticate resolves the bearer token once per request and stores the
// Principal in the request context.
type Authenticate struct {
	resolver PrincipalResolver
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(resolver PrincipalResolver) *Authenticate {
	return &Authenticate{resolver: resolver}
}

// Handle parses the Authorization header, resolves the Principal and stores
// it for downstream handlers. Resolution failures propagate to the error
// boundary.
func (m *Authenticate) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := strings.TrimPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")

		principal, err := m.resolver.Resolve(c.Request().Context(), token)
		if err != nil {
			return err
		}

		c.Set(principalKey, principal)
		return next(c)
	}
}

// Principal returns the Principal stored by Authenticate. The zero Principal
// is returned on routes that skip authentication.
func Principal(c echo.Context) model.Principal {
	p, _ := c.Get(principalKey).(model.Principal)
	return p
}
