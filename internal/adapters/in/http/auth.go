package http

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/user"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	tokenContextKey = "token"
	actorContextKey = "actor"
)

var errMissingActor = errors.New("request carries no verified actor")

// Claims are the identity claims carried by bearer tokens: the subject is the
// user id, role is one of customer, agent or admin.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Actor converts verified claims into the caller identity used by commands.
func (c *Claims) Actor() (user.Actor, error) {
	id, err := kernel.UUIDFromString(c.Subject)
	if err != nil {
		return user.Actor{}, fmt.Errorf("token subject: %w", err)
	}
	role, err := user.ParseRole(c.Role)
	if err != nil {
		return user.Actor{}, fmt.Errorf("token role: %w", err)
	}
	return user.NewActor(id, role)
}

// Authenticate verifies the HS256 bearer token (header, or the token query
// parameter for websocket clients) and stores the actor on the context.
func Authenticate(secret string) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(secret),
		SigningMethod: echojwt.AlgorithmHS256,
		ContextKey:    tokenContextKey,
		TokenLookup:   "header:Authorization:Bearer ,query:token",
		NewClaimsFunc: func(echo.Context) jwt.Claims { return new(Claims) },
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(func(c echo.Context) error {
			token, ok := c.Get(tokenContextKey).(*jwt.Token)
			if !ok {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
			}
			claims, ok := token.Claims.(*Claims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid token claims"})
			}
			actor, err := claims.Actor()
			if err != nil {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid token claims"})
			}
			c.Set(actorContextKey, actor)
			return next(c)
		})
	}
}

// RequireRole rejects callers whose role is not listed. It must run after Authenticate.
func RequireRole(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, err := actorFrom(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{Message: "Authentication required"})
			}
			if !slices.Contains(roles, actor.Role) {
				return c.JSON(http.StatusForbidden, ErrorResponse{Message: "Access denied"})
			}
			return next(c)
		}
	}
}

func actorFrom(c echo.Context) (user.Actor, error) {
	actor, ok := c.Get(actorContextKey).(user.Actor)
	if !ok {
		return user.Actor{}, errMissingActor
	}
	return actor, nil
}
