package sessions

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"apex-business/internal/common/database"
	"apex-business/internal/common/errors"
	"apex-business/internal/common/logger"
	"apex-business/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helpers
// ==========================

func createTestStore(t *testing.T) (*Store, *MemoryKV) {
	kv := NewMemoryKV()
	return NewStore(kv, KeyFor("apexbusiness_chat_history", "user-1"), DefaultMaxSessions, logger.NewTestLogger(t)), kv
}

func session(id string) models.ChatSession {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return models.ChatSession{ID: id, Title: DefaultTitle, CreatedAt: now, UpdatedAt: now, Messages: []models.ChatMessage{}}
}

func ids(list []models.ChatSession) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = s.ID
	}
	return out
}

// ==========================
// Store Tests
// ==========================

func TestStore_ListEmpty(t *testing.T) {
	s, _ := createTestStore(t)
	list, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)
}

func TestStore_SavePrependsAndReplacesInPlace(t *testing.T) {
	s, _ := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, session("a")))
	require.NoError(t, s.Save(ctx, session("b")))
	require.NoError(t, s.Save(ctx, session("c")))

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, ids(list))

	updated := session("a")
	updated.Title = "Pricing questions"
	require.NoError(t, s.Save(ctx, updated))

	list, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, ids(list))
	assert.Equal(t, "Pricing questions", list[2].Title)
}

func TestStore_NeverExceedsCap(t *testing.T) {
	s, _ := createTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 21; i++ {
		require.NoError(t, s.Save(ctx, session(fmt.Sprintf("s%d", i))))
		list, err := s.List(ctx)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(list), DefaultMaxSessions)
	}

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 20)
	assert.Equal(t, "s21", list[0].ID)
	assert.Equal(t, "s2", list[19].ID)
	assert.NotContains(t, ids(list), "s1")
}

func TestStore_EvictsByPositionNotAccess(t *testing.T) {
	s, _ := createTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 20; i++ {
		require.NoError(t, s.Save(ctx, session(fmt.Sprintf("s%d", i))))
	}
	// Reading the oldest does not protect it.
	_, err := s.Get(ctx, "s1")
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, session("s21")))
	_, err = s.Get(ctx, "s1")
	assert.True(t, errors.IsCode(err, errors.ErrCodeSessionNotFound))
}

func TestStore_GetAndDelete(t *testing.T) {
	s, _ := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, session("a")))
	require.NoError(t, s.Save(ctx, session("b")))

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.ID)

	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.Delete(ctx, "missing"))

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(list))

	_, err = s.Get(ctx, "a")
	assert.True(t, errors.IsCode(err, errors.ErrCodeSessionNotFound))
}

func TestStore_CorruptDataReadsAsEmpty(t *testing.T) {
	s, kv := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, s.key, []byte("{not json")))

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, s.Save(ctx, session("fresh")))
	list, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, ids(list))
}

func TestStore_RedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := database.NewRedisFromCmdable(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	key := KeyFor("apexbusiness_chat_history", "user-9")
	s := NewStore(NewRedisKV(rc), key, 2, logger.NewTestLogger(t))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, session("a")))
	require.NoError(t, s.Save(ctx, session("b")))
	require.NoError(t, s.Save(ctx, session("c")))

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, ids(list))

	raw, err := mr.Get(key)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, `[{"id":"c"`))
	assert.Zero(t, mr.TTL(key))
}

func TestStore_RedisUnavailable(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	key := KeyFor("apexbusiness_chat_history", "user-1")
	mock.ExpectGet(key).SetErr(stderrors.New("connection refused"))

	s := NewStore(NewRedisKV(database.NewRedisFromCmdable(rdb)), key, 20, logger.NewTestLogger(t))
	_, err := s.List(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeCacheUnavailable))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Helper Function Tests
// ==========================

func TestTitleFor(t *testing.T) {
	forty := strings.Repeat("a", 40)
	fortyOne := strings.Repeat("b", 41)

	tests := []struct {
		name     string
		messages []models.ChatMessage
		want     string
	}{
		{"no messages", nil, DefaultTitle},
		{"only model", []models.ChatMessage{{Role: models.RoleModel, Text: "Hi"}}, DefaultTitle},
		{"short", []models.ChatMessage{{Role: models.RoleUser, Text: "Pricing?"}}, "Pricing?"},
		{"exactly forty", []models.ChatMessage{{Role: models.RoleUser, Text: forty}}, forty},
		{"forty one", []models.ChatMessage{{Role: models.RoleUser, Text: fortyOne}}, strings.Repeat("b", 40) + "..."},
		{"first user message wins", []models.ChatMessage{
			{Role: models.RoleModel, Text: "Welcome"},
			{Role: models.RoleUser, Text: "first"},
			{Role: models.RoleUser, Text: "second"},
		}, "first"},
		{"counts characters not bytes", []models.ChatMessage{{Role: models.RoleUser, Text: strings.Repeat("ж", 40)}}, strings.Repeat("ж", 40)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TitleFor(models.ChatSession{Messages: tt.messages}))
		})
	}
}

func TestNewSession(t *testing.T) {
	now := time.UnixMilli(1767225600000)
	s := NewSession(now)

	assert.True(t, strings.HasPrefix(s.ID, "chat_1767225600000_"))
	assert.Len(t, s.ID, len("chat_1767225600000_")+9)
	assert.Equal(t, DefaultTitle, s.Title)
	assert.Empty(t, s.Messages)
	assert.Equal(t, now, s.CreatedAt)
	assert.NotEqual(t, s.ID, NewSession(now).ID)
}

func TestFormatRelative(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "Just now"},
		{5 * time.Minute, "5m ago"},
		{59 * time.Minute, "59m ago"},
		{3 * time.Hour, "3h ago"},
		{2 * 24 * time.Hour, "2d ago"},
		{8 * 24 * time.Hour, "Mar 2, 2026"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRelative(now.Add(-tt.ago), now))
		})
	}
}
