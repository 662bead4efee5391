package api

import (
	"net/http"
	"time"

	"apex-business/internal/models"
	"apex-business/internal/sessions"
	"apex-business/internal/workspace"

	"github.com/gin-gonic/gin"
)

type chatResponse struct {
	SessionID string               `json:"sessionId"`
	Title     string               `json:"title"`
	Messages  []models.ChatMessage `json:"messages"`
	Loading   bool                 `json:"loading"`
}

type sendMessageRequest struct {
	Text string `json:"text"`
}

type sendMessageResponse struct {
	Reply *models.ChatMessage `json:"reply"`
	chatResponse
}

type sessionSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Label        string    `json:"label"`
	MessageCount int       `json:"messageCount"`
}

func toChatResponse(snap workspace.ChatSnapshot) chatResponse {
	return chatResponse{
		SessionID: snap.Session.ID,
		Title:     snap.Session.Title,
		Messages:  snap.Session.Messages,
		Loading:   snap.Loading,
	}
}

func (s *Server) getChat(c *gin.Context) {
	ws, ok := s.workspaceFor(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toChatResponse(ws.Chat.Snapshot()))
}

func (s *Server) sendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := bindValidated(c, messageSchema, &req); err != nil {
		_ = c.Error(err)
		return
	}

	ws, ok := s.workspaceFor(c)
	if !ok {
		return
	}

	reply, err := ws.Chat.Send(c.Request.Context(), req.Text)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, sendMessageResponse{Reply: reply, chatResponse: toChatResponse(ws.Chat.Snapshot())})
}

func (s *Server) newChat(c *gin.Context) {
	ws, ok := s.workspaceFor(c)
	if !ok {
		return
	}
	ws.Chat.Reset()
	c.JSON(http.StatusOK, toChatResponse(ws.Chat.Snapshot()))
}

func (s *Server) listSessions(c *gin.Context) {
	list, err := s.deps.Workspaces.Sessions(userID(c)).List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	now := s.now()
	out := make([]sessionSummary, 0, len(list))
	for _, sess := range list {
		out = append(out, sessionSummary{
			ID:           sess.ID,
			Title:        sess.Title,
			UpdatedAt:    sess.UpdatedAt,
			Label:        sessions.FormatRelative(sess.UpdatedAt, now),
			MessageCount: len(sess.Messages),
		})
	}
	c.JSON(http.StatusOK, gin.H{"sessions": out})
}

func (s *Server) getSession(c *gin.Context) {
	sess, err := s.deps.Workspaces.Sessions(userID(c)).Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (s *Server) openSession(c *gin.Context) {
	ws, ok := s.workspaceFor(c)
	if !ok {
		return
	}
	if _, err := ws.Chat.Open(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, toChatResponse(ws.Chat.Snapshot()))
}

func (s *Server) deleteSession(c *gin.Context) {
	if err := s.deps.Workspaces.Sessions(userID(c)).Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
