package workspace

import (
	"context"
	"strings"
	"sync"
	"time"

	"apex-business/internal/common/errors"
	"apex-business/internal/common/logger"
	"apex-business/internal/common/metrics"
	"apex-business/internal/gateway"
	"apex-business/internal/models"
	"apex-business/internal/sessions"
)

// SessionSaver persists a chat session after each turn.
type SessionSaver interface {
	Save(ctx context.Context, session models.ChatSession) error
	Get(ctx context.Context, id string) (*models.ChatSession, error)
}

// ChatThread is the active mentor conversation of a workspace.
type ChatThread struct {
	gateway gateway.Gateway
	profile models.Profile
	store   SessionSaver
	logger  logger.Logger
	now     func() time.Time

	// sendMu serializes turns; mu guards session and loading so reads never
	// wait on a gateway call.
	sendMu  sync.Mutex
	mu      sync.RWMutex
	session models.ChatSession
	loading bool
}

// ChatSnapshot is a point-in-time copy of the thread.
type ChatSnapshot struct {
	Session models.ChatSession
	Loading bool
}

func NewChatThread(gw gateway.Gateway, profile models.Profile, store SessionSaver, log logger.Logger, now func() time.Time) *ChatThread {
	if now == nil {
		now = time.Now
	}
	return &ChatThread{
		gateway: gw,
		profile: profile,
		store:   store,
		logger:  log.WithFields(map[string]interface{}{"component": "chat"}),
		now:     now,
		session: sessions.NewSession(now()),
	}
}

// Send appends the user message, asks the mentor and appends the reply. A
// blank message is rejected without touching the transcript or the gateway.
// On gateway failure the user message stays and no reply is appended.
func (c *ChatThread) Send(ctx context.Context, text string) (*models.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.NewChatMessageEmptyError()
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	c.mu.Lock()
	history := append([]models.ChatMessage(nil), c.session.Messages...)
	c.session.Messages = append(c.session.Messages, models.ChatMessage{Role: models.RoleUser, Text: text})
	c.loading = true
	c.mu.Unlock()
	metrics.ChatMessagesTotal.WithLabelValues(string(models.RoleUser)).Inc()

	reply, err := c.gateway.MentorReply(context.WithoutCancel(ctx), c.profile, history, text)

	c.mu.Lock()
	c.loading = false
	var msg *models.ChatMessage
	if err == nil {
		m := models.ChatMessage{Role: models.RoleModel, Text: reply}
		c.session.Messages = append(c.session.Messages, m)
		msg = &m
	}
	c.mu.Unlock()

	c.persist(context.WithoutCancel(ctx))

	if err != nil {
		c.logger.Error("Mentor reply failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}
	metrics.ChatMessagesTotal.WithLabelValues(string(models.RoleModel)).Inc()
	return msg, nil
}

// Reset starts a new, unsaved conversation.
func (c *ChatThread) Reset() models.ChatSession {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = sessions.NewSession(c.now())
	return c.session.Clone()
}

// Open makes a stored session the active thread.
func (c *ChatThread) Open(ctx context.Context, id string) (models.ChatSession, error) {
	stored, err := c.store.Get(ctx, id)
	if err != nil {
		return models.ChatSession{}, err
	}

	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = stored.Clone()
	if c.session.Messages == nil {
		c.session.Messages = []models.ChatMessage{}
	}
	return c.session.Clone(), nil
}

func (c *ChatThread) Snapshot() ChatSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return ChatSnapshot{Session: c.session.Clone(), Loading: c.loading}
}

// persist saves the thread with a fresh title and updatedAt. Storage errors
// are logged; the turn itself already happened.
func (c *ChatThread) persist(ctx context.Context) {
	c.mu.Lock()
	c.session.Title = sessions.TitleFor(c.session)
	c.session.UpdatedAt = c.now()
	snapshot := c.session.Clone()
	c.mu.Unlock()

	if err := c.store.Save(ctx, snapshot); err != nil {
		c.logger.Warn("Failed to save chat session", map[string]interface{}{
			"sessionId": snapshot.ID,
			"error":     err.Error(),
		})
	}
}
