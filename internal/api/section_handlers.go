package api

import (
	"net/http"
	"strconv"

	"apex-business/internal/common/errors"
	"apex-business/internal/models"

	"github.com/gin-gonic/gin"
)

type sectionResponse struct {
	Section models.Section        `json:"section"`
	Result  *models.SectionResult `json:"result"`
	Loading bool                  `json:"loading"`
}

type roadmapResponse struct {
	Tasks    []models.RoadmapTask `json:"tasks"`
	Progress int                  `json:"progress"`
}

func (s *Server) dashboard(c *gin.Context) {
	ws, ok := s.workspaceFor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ws.Dashboard(s.now()))
}

func (s *Server) getSection(c *gin.Context) {
	s.serveSection(c, false)
}

func (s *Server) regenerateSection(c *gin.Context) {
	s.serveSection(c, true)
}

func (s *Server) serveSection(c *gin.Context, regenerate bool) {
	section, err := models.ParseSection(c.Param("section"))
	if err != nil {
		_ = c.Error(errors.NewUnknownSectionError(c.Param("section")))
		return
	}

	ws, ok := s.workspaceFor(c)
	if !ok {
		return
	}

	var res *models.SectionResult
	if regenerate {
		res, err = ws.Sections.Regenerate(c.Request.Context(), section)
	} else {
		res, err = ws.Sections.Ensure(c.Request.Context(), section)
	}
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, sectionResponse{
		Section: section,
		Result:  res,
		Loading: ws.Sections.IsLoading(section),
	})
}

func (s *Server) getRoadmap(c *gin.Context) {
	ws, ok := s.workspaceFor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, roadmapResponse{Tasks: ws.Roadmap.Tasks(), Progress: ws.Roadmap.Progress()})
}

func (s *Server) toggleTask(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		_ = c.Error(errors.NewValidationFailedError("id: must be an integer"))
		return
	}

	ws, ok := s.workspaceFor(c)
	if !ok {
		return
	}
	if !ws.Roadmap.Toggle(id) {
		_ = c.Error(errors.NewTaskNotFoundError(id))
		return
	}
	c.JSON(http.StatusOK, roadmapResponse{Tasks: ws.Roadmap.Tasks(), Progress: ws.Roadmap.Progress()})
}
