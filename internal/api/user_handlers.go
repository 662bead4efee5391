package api

import (
	"net/http"
	"strings"

	"apex-business/internal/models"

	"github.com/gin-gonic/gin"
)

func (s *Server) getProfile(c *gin.Context) {
	profile, err := s.deps.Profiles.Get(c.Request.Context(), userID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// saveProfile replaces the stored profile. Name and email default to the
// account's. The live workspace was built from the old profile, so it is
// discarded and the next request starts a fresh one.
func (s *Server) saveProfile(c *gin.Context) {
	var profile models.Profile
	if err := bindValidated(c, profileSchema, &profile); err != nil {
		_ = c.Error(err)
		return
	}

	ctx := c.Request.Context()
	id := userID(c)

	if strings.TrimSpace(profile.Name) == "" || strings.TrimSpace(profile.Email) == "" {
		user, err := s.deps.Users.GetByID(ctx, id)
		if err != nil {
			_ = c.Error(err)
			return
		}
		if strings.TrimSpace(profile.Name) == "" {
			profile.Name = user.Name
		}
		if strings.TrimSpace(profile.Email) == "" {
			profile.Email = user.Email
		}
	}
	profile.BusinessIdea = strings.TrimSpace(profile.BusinessIdea)

	if err := s.deps.Profiles.Upsert(ctx, id, profile); err != nil {
		_ = c.Error(err)
		return
	}
	s.deps.Workspaces.Discard(id)

	c.JSON(http.StatusOK, profile)
}

func (s *Server) getSettings(c *gin.Context) {
	settings, err := s.deps.Settings.Get(c.Request.Context(), userID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// saveSettings applies the fields present in the body over the stored settings.
func (s *Server) saveSettings(c *gin.Context) {
	ctx := c.Request.Context()
	id := userID(c)

	settings, err := s.deps.Settings.Get(ctx, id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if err := bindValidated(c, settingsSchema, &settings); err != nil {
		_ = c.Error(err)
		return
	}
	if err := s.deps.Settings.Upsert(ctx, id, settings); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
