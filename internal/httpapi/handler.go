// Package httpapi exposes the portal over JSON/HTTP with gin.
package httpapi

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"
	"github.com/sirupsen/logrus"

	"portal/internal/account"
	"portal/internal/auth"
	"portal/internal/metrics"
	"portal/internal/portal"
)

// Config carries the handler's collaborators. Metrics and LoginLimit are
// optional.
type Config struct {
	Service  *portal.Service
	Sessions *auth.SessionManager
	Cookie   auth.CookieConfig
	Metrics  *metrics.Metrics
	Log      logrus.FieldLogger

	// LoginLimit, when set, runs in front of both login routes.
	LoginLimit gin.HandlerFunc
}

// Handler serves the /api routes.
type Handler struct {
	svc        *portal.Service
	sessions   *auth.SessionManager
	cookie     auth.CookieConfig
	metrics    *metrics.Metrics
	log        logrus.FieldLogger
	loginLimit gin.HandlerFunc
}

// New validates cfg.
func New(cfg Config) (*Handler, error) {
	if cfg.Service == nil {
		return nil, oops.Code("HTTPAPI_INVALID_DEPENDENCY").Errorf("portal service is required")
	}
	if cfg.Sessions == nil {
		return nil, oops.Code("HTTPAPI_INVALID_DEPENDENCY").Errorf("session manager is required")
	}
	h := &Handler{
		svc:        cfg.Service,
		sessions:   cfg.Sessions,
		cookie:     cfg.Cookie,
		metrics:    cfg.Metrics,
		log:        cfg.Log,
		loginLimit: cfg.LoginLimit,
	}
	if h.metrics == nil {
		h.metrics = metrics.NewWithRegistry(prometheus.NewRegistry())
	}
	if h.log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		h.log = l
	}
	if h.loginLimit == nil {
		h.loginLimit = func(c *gin.Context) { c.Next() }
	}
	return h, nil
}

// Register mounts every route under /api.
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api", auth.LoadSession(h.sessions, h.cookie, h.log))
	requireAdmin := auth.RequireRole(account.KindAdmin)

	authGroup := api.Group("/auth")
	authGroup.POST("/login", h.loginLimit, h.login)
	authGroup.POST("/logout", h.logout)
	authGroup.GET("/current-user", auth.RequireSession(), h.currentUser)
	authGroup.POST("/update-account", auth.RequireSession(), h.updateAccount)

	students := api.Group("/students")
	students.POST("/register", h.registerStudent)
	students.POST("/login", h.loginLimit, h.studentLogin)

	professors := api.Group("/professors")
	professors.POST("/register", requireAdmin, h.registerProfessor)

	admin := api.Group("/admin")
	// bootstrap rules for the first admin live in the service
	admin.POST("/register", h.registerAdmin)

	managed := admin.Group("", requireAdmin)
	managed.GET("/", h.listAdmins)
	managed.GET("/users", h.listAccounts("users"))
	managed.GET("/accounts", h.listAccounts("accounts"))
	managed.PUT("/users/:id/status", h.updateStatus("user"))
	managed.PUT("/accounts/:id/status", h.updateStatus("account"))
	managed.PATCH("/accounts/:id/status", h.updateStatus("account"))
	managed.DELETE("/users/:id", h.deleteAccount("User deleted successfully"))
	managed.DELETE("/accounts/:id", h.deleteAccount("Account deleted successfully"))
}
