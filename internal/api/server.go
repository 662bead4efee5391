// Package api exposes accounts, profiles and the per-user workspace over HTTP.
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"apex-business/internal/common/auth"
	"apex-business/internal/common/errors"
	"apex-business/internal/common/logger"
	"apex-business/internal/models"
	"apex-business/internal/workspace"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

type ProfileStore interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Upsert(ctx context.Context, userID string, p models.Profile) error
}

type SettingsStore interface {
	Get(ctx context.Context, userID string) (models.Settings, error)
	Upsert(ctx context.Context, userID string, s models.Settings) error
}

// WelcomeSender delivers the registration e-mail.
type WelcomeSender interface {
	SendWelcome(ctx context.Context, name, email string) error
}

// ReadinessCheck is run by /ready; a non-nil error marks the service unready.
type ReadinessCheck func(ctx context.Context) error

type Deps struct {
	Users      UserStore
	Profiles   ProfileStore
	Settings   SettingsStore
	Tokens     *auth.TokenManager
	Passwords  *auth.PasswordHasher
	Notifier   WelcomeSender
	Workspaces *workspace.Registry
	Logger     logger.Logger

	AllowedOrigins []string
	Readiness      map[string]ReadinessCheck
	Now            func() time.Time
}

// Server holds the handlers. Background work started by a request, such
// as the welcome e-mail, is tracked so shutdown can wait for it.
type Server struct {
	deps       Deps
	errHandler *errors.ErrorHandler
	logger     logger.Logger
	now        func() time.Time

	background sync.WaitGroup
}

func NewServer(deps Deps) *Server {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		deps:       deps,
		errHandler: errors.NewErrorHandler(deps.Logger),
		logger:     deps.Logger.WithFields(map[string]interface{}{"component": "api"}),
		now:        now,
	}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(s.logger), CORS(s.deps.AllowedOrigins), s.errHandler.Middleware())

	r.GET("/health", s.health)
	r.GET("/ready", s.ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.register)
	authGroup.POST("/login", s.login)
	authGroup.POST("/logout", RequireAuth(s.deps.Tokens), s.logout)

	protected := api.Group("", RequireAuth(s.deps.Tokens))

	protected.GET("/user/profile", s.getProfile)
	protected.POST("/user/profile", s.saveProfile)
	protected.GET("/user/settings", s.getSettings)
	protected.POST("/user/settings", s.saveSettings)

	protected.GET("/dashboard", s.dashboard)
	protected.GET("/sections/:section", s.getSection)
	protected.POST("/sections/:section/regenerate", s.regenerateSection)

	protected.GET("/roadmap", s.getRoadmap)
	protected.POST("/roadmap/tasks/:id/toggle", s.toggleTask)

	protected.GET("/chat", s.getChat)
	protected.POST("/chat/messages", s.sendMessage)
	protected.POST("/chat/new", s.newChat)
	protected.GET("/chat/sessions", s.listSessions)
	protected.GET("/chat/sessions/:id", s.getSession)
	protected.POST("/chat/sessions/:id/open", s.openSession)
	protected.DELETE("/chat/sessions/:id", s.deleteSession)

	return r
}

// Wait blocks until background work started by handlers has finished.
func (s *Server) Wait() {
	s.background.Wait()
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]string, len(s.deps.Readiness))
	status := http.StatusOK
	for name, check := range s.deps.Readiness {
		if err := check(ctx); err != nil {
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	c.JSON(status, gin.H{"status": state, "checks": checks})
}

// workspaceFor loads the caller's workspace, pushing the error on failure.
func (s *Server) workspaceFor(c *gin.Context) (*workspace.Workspace, bool) {
	ws, err := s.deps.Workspaces.Get(c.Request.Context(), userID(c))
	if err != nil {
		_ = c.Error(err)
		return nil, false
	}
	return ws, true
}
