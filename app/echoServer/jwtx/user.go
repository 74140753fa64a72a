// app/echoServer/jwtx/user.go
package jwtx

import (
	"errors"

	jwtutil "campuscloset/util/jwt"

	"github.com/labstack/echo/v4"
)

// ContextKey is where the auth middleware stores the session claims that
// jwtutil.Parse accepted.
const ContextKey = "user"

func SessionFromContext(c echo.Context) (*jwtutil.SessionClaims, error) {
	claims, ok := c.Get(ContextKey).(*jwtutil.SessionClaims)
	if !ok || claims == nil {
		return nil, errors.New("no session in context")
	}
	return claims, nil
}

// EmailFromContext returns the session email, or "" when there is no valid session.
func EmailFromContext(c echo.Context) string {
	claims, err := SessionFromContext(c)
	if err != nil {
		return ""
	}
	return claims.Email
}
