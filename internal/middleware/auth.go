package middleware

import (
	"net/http"
	"strings"
	"time"

	"fruitables-shop/internal/model"
	"fruitables-shop/internal/token"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	AccessTokenCookie  = "fruitables_ac"
	SessionCookie      = "fruitables_session"
	sessionCookieAge   = 30 * 24 * time.Hour
	identityContextKey = "identity"
	sessionContextKey  = "cart_session_id"
)

// Identity is the resolved current user. Absent for anonymous requests.
type Identity struct {
	Username string
	FullName string
	Role     int32
}

// Auth resolves the identity from a bearer token or the access-token cookie.
// An invalid token is treated as anonymous; the cookie variant is cleared so
// the browser stops sending it.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, fromCookie := extractToken(c)
			if raw != "" {
				claims, err := token.Parse(jwtSecret, raw)
				if err == nil {
					c.Set(identityContextKey, &Identity{
						Username: claims.Subject,
						FullName: claims.FullName,
						Role:     claims.Role,
					})
				} else if fromCookie {
					c.SetCookie(&http.Cookie{
						Name:   AccessTokenCookie,
						Value:  "",
						Path:   "/",
						MaxAge: -1,
					})
				}
			}
			return next(c)
		}
	}
}

// RequireAuth rejects anonymous requests. Must run after Auth.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "login required")
			}
			return next(c)
		}
	}
}

// CartSession guarantees a stable per-browser session id for the anonymous
// cart owner, minted on first visit.
func CartSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			sessionID := ""
			if err == nil && cookie.Value != "" {
				sessionID = cookie.Value
			} else {
				sessionID = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     SessionCookie,
					Value:    sessionID,
					Path:     "/",
					Expires:  time.Now().Add(sessionCookieAge),
					HttpOnly: true,
				})
			}
			c.Set(sessionContextKey, sessionID)
			return next(c)
		}
	}
}

func CurrentUser(c echo.Context) *Identity {
	identity, _ := c.Get(identityContextKey).(*Identity)
	return identity
}

func SessionID(c echo.Context) string {
	sessionID, _ := c.Get(sessionContextKey).(string)
	return sessionID
}

// CartOwner resolves the discriminated cart key for the request: a logged-in
// identity always wins over the anonymous session id.
func CartOwner(c echo.Context) model.CartOwner {
	owner := model.CartOwner{SessionID: SessionID(c)}
	if identity := CurrentUser(c); identity != nil {
		owner.CustomerID = identity.Username
	}
	return owner
}

func extractToken(c echo.Context) (raw string, fromCookie bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer "), false
	}

	cookie, err := c.Cookie(AccessTokenCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
