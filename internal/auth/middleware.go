package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"portal/internal/account"
	"portal/internal/session"
)

const sessionKey = "session"

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Path   string
	Domain string
	Secure bool
}

// DefaultCookieName is used when CookieConfig.Name is empty.
const DefaultCookieName = "portal_session"

func (cc CookieConfig) name() string {
	if cc.Name == "" {
		return DefaultCookieName
	}
	return cc.Name
}

func (cc CookieConfig) path() string {
	if cc.Path == "" {
		return "/"
	}
	return cc.Path
}

// Set writes token as an HttpOnly, SameSite=Lax cookie that lives for ttl.
func (cc CookieConfig) Set(c *gin.Context, token string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cc.name(), token, int(ttl.Seconds()), cc.path(), cc.Domain, cc.Secure, true)
}

// Clear expires the cookie on the client.
func (cc CookieConfig) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cc.name(), "", -1, cc.path(), cc.Domain, cc.Secure, true)
}

// Token returns the raw cookie value, or "" when absent.
func (cc CookieConfig) Token(c *gin.Context) string {
	v, err := c.Cookie(cc.name())
	if err != nil {
		return ""
	}
	return v
}

// LoadSession resolves the cookie into a session and stores it in the
// gin context. A missing or invalid cookie leaves the request anonymous;
// RequireSession decides whether that is acceptable. A store failure
// aborts with 500.
func LoadSession(mgr *SessionManager, cookie CookieConfig, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := cookie.Token(c)
		if token == "" {
			c.Next()
			return
		}
		sess, err := mgr.Resolve(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(sessionKey, sess)
		case errors.Is(err, account.ErrUnauthenticated):
			// stale cookie
		default:
			log.WithError(err).Error("session lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"msg": "Internal server error"})
			return
		}
		c.Next()
	}
}

// SessionFrom returns the session LoadSession attached, if any.
func SessionFrom(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*session.Session)
	return sess, ok && sess != nil
}

// RequireSession rejects anonymous requests with 401.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := SessionFrom(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Not authenticated"})
			return
		}
		c.Next()
	}
}

// RequireRole rejects sessions whose role is not in kinds with 403, and
// anonymous requests with 401.
func RequireRole(kinds ...account.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := SessionFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Not authenticated"})
			return
		}
		for _, k := range kinds {
			if sess.Identity.Role == k {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "Access denied"})
	}
}
