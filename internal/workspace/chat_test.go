package workspace

import (
	"context"
	"fmt"
	"testing"
	"time"

	"apex-business/internal/common/errors"
	"apex-business/internal/common/logger"
	"apex-business/internal/models"
	"apex-business/internal/sessions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestChat(t *testing.T) (*ChatThread, *fakeGateway, *sessions.Store) {
	t.Helper()
	gw := newFakeGateway()
	log := logger.NewTestLogger(t)
	store := sessions.NewStore(sessions.NewMemoryKV(), "chat:test", 20, log)
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }
	return NewChatThread(gw, models.Profile{Name: "Ada"}, store, log, now), gw, store
}

func TestChatThread_NewThreadIsEmpty(t *testing.T) {
	c, _, _ := createTestChat(t)
	snap := c.Snapshot()

	assert.Empty(t, snap.Session.Messages)
	assert.Equal(t, sessions.DefaultTitle, snap.Session.Title)
	assert.False(t, snap.Loading)
}

func TestChatThread_BlankMessageRejected(t *testing.T) {
	c, gw, store := createTestChat(t)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := c.Send(context.Background(), text)
		assert.True(t, errors.IsCode(err, errors.ErrCodeChatMessageEmpty))
	}

	assert.Empty(t, c.Snapshot().Session.Messages)
	assert.Equal(t, 0, gw.count("MentorReply"))

	list, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestChatThread_SendAppendsTurnAndPersists(t *testing.T) {
	c, gw, store := createTestChat(t)
	ctx := context.Background()

	reply, err := c.Send(ctx, "How do I price my coffee?")
	require.NoError(t, err)
	assert.Equal(t, models.RoleModel, reply.Role)
	assert.Equal(t, "mentor says hi", reply.Text)

	snap := c.Snapshot()
	require.Len(t, snap.Session.Messages, 2)
	assert.Equal(t, models.RoleUser, snap.Session.Messages[0].Role)
	assert.Equal(t, "How do I price my coffee?", snap.Session.Title)

	stored, err := store.Get(ctx, snap.Session.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Messages, 2)

	// the gateway sees prior turns only
	_, err = c.Send(ctx, "And the margins?")
	require.NoError(t, err)
	require.Len(t, gw.history, 2)
	assert.Empty(t, gw.history[0])
	assert.Len(t, gw.history[1], 2)
}

func TestChatThread_FailureKeepsUserMessage(t *testing.T) {
	c, gw, store := createTestChat(t)
	gw.setErr(errors.NewAIGatewayFailedError("MentorReply", fmt.Errorf("quota")))

	_, err := c.Send(context.Background(), "hello")
	require.Error(t, err)

	snap := c.Snapshot()
	require.Len(t, snap.Session.Messages, 1)
	assert.Equal(t, "hello", snap.Session.Messages[0].Text)
	assert.False(t, snap.Loading)

	stored, err := store.Get(context.Background(), snap.Session.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Messages, 1)
}

func TestChatThread_ResetAndOpen(t *testing.T) {
	c, _, _ := createTestChat(t)
	ctx := context.Background()

	_, err := c.Send(ctx, "first thread")
	require.NoError(t, err)
	firstID := c.Snapshot().Session.ID

	fresh := c.Reset()
	assert.NotEqual(t, firstID, fresh.ID)
	assert.Empty(t, c.Snapshot().Session.Messages)

	opened, err := c.Open(ctx, firstID)
	require.NoError(t, err)
	assert.Equal(t, firstID, opened.ID)
	assert.Len(t, c.Snapshot().Session.Messages, 2)

	_, err = c.Open(ctx, "chat_missing")
	assert.True(t, errors.IsCode(err, errors.ErrCodeSessionNotFound))
	assert.Equal(t, firstID, c.Snapshot().Session.ID)
}
