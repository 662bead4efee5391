package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"apex-business/internal/common/auth"
	"apex-business/internal/common/errors"
	"apex-business/internal/common/validation"
	"apex-business/internal/models"

	"github.com/gin-gonic/gin"
)

const welcomeTimeout = 30 * time.Second

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := bindValidated(c, registerSchema, &req); err != nil {
		_ = c.Error(err)
		return
	}
	if !validation.ValidateEmail(req.Email) {
		_ = c.Error(errors.NewValidationFailedError("email: invalid address"))
		return
	}

	hash, err := s.deps.Passwords.Hash(req.Password)
	if err != nil {
		_ = c.Error(errors.NewInternalError(err))
		return
	}

	user, err := s.deps.Users.Create(c.Request.Context(), req.Name, req.Email, hash)
	if err != nil {
		_ = c.Error(err)
		return
	}

	token, err := s.deps.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		_ = c.Error(errors.NewInternalError(err))
		return
	}

	s.sendWelcome(user.Name, user.Email)

	s.logger.Info("User registered", map[string]interface{}{"userId": user.ID})
	c.JSON(http.StatusCreated, authResponse{Token: token, User: user})
}

// sendWelcome delivers the welcome mail off the request path. Failures are
// logged only; registration already succeeded.
func (s *Server) sendWelcome(name, email string) {
	if s.deps.Notifier == nil {
		return
	}
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		ctx, cancel := context.WithTimeout(context.Background(), welcomeTimeout)
		defer cancel()
		if err := s.deps.Notifier.SendWelcome(ctx, name, email); err != nil {
			s.logger.Warn("Welcome email failed", map[string]interface{}{
				"email": email,
				"error": err.Error(),
			})
		}
	}()
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := bindValidated(c, loginSchema, &req); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := s.deps.Users.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if user == nil {
		_ = c.Error(errors.NewAuthenticationFailedError("invalid email or password"))
		return
	}

	if err := s.deps.Passwords.Compare(user.PasswordHash, req.Password); err != nil {
		if !stderrors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Warn("Password comparison failed", map[string]interface{}{"userId": user.ID, "error": err.Error()})
		}
		_ = c.Error(errors.NewAuthenticationFailedError("invalid email or password"))
		return
	}

	token, err := s.deps.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		_ = c.Error(errors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}

// logout revokes the presented token and drops the caller's workspace.
func (s *Server) logout(c *gin.Context) {
	if claims := claimsFrom(c); claims != nil {
		if err := s.deps.Tokens.Revoke(c.Request.Context(), claims); err != nil {
			_ = c.Error(errors.NewCacheUnavailableError(err))
			return
		}
	}
	s.deps.Workspaces.Discard(userID(c))
	c.JSON(http.StatusOK, gin.H{"success": true})
}
