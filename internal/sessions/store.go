// Package sessions persists a bounded, most-recent-first list of mentor chat
// sessions per user as one JSON array in a key-value store.
package sessions

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"apex-business/internal/common/errors"
	"apex-business/internal/common/logger"
	"apex-business/internal/common/metrics"
	"apex-business/internal/models"

	"github.com/google/uuid"
)

const (
	// DefaultMaxSessions caps the stored list; older entries are dropped from the tail.
	DefaultMaxSessions = 20
	// DefaultTitle is used until the session has a user message.
	DefaultTitle = "New Conversation"

	titleLimit = 40
)

// KeyFor returns the storage key of a user's session list.
func KeyFor(prefix, userID string) string {
	return prefix + ":" + userID
}

// Store is one user's session list. Read-modify-write cycles are serialized
// within the process; writers in other processes win by last write.
type Store struct {
	kv     KV
	key    string
	max    int
	logger logger.Logger
	mu     sync.Mutex
}

func NewStore(kv KV, key string, max int, log logger.Logger) *Store {
	if max < 1 {
		max = DefaultMaxSessions
	}
	return &Store{
		kv:     kv,
		key:    key,
		max:    max,
		logger: log.WithFields(map[string]interface{}{"component": "sessions", "key": key}),
	}
}

// List returns sessions most-recently-saved first. Unreadable data reads as empty.
func (s *Store) List(ctx context.Context) ([]models.ChatSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Get returns one session by id.
func (s *Store) Get(ctx context.Context, id string) (*models.ChatSession, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			found := list[i]
			return &found, nil
		}
	}
	return nil, errors.NewSessionNotFoundError(id)
}

// Save replaces the session with the same id in place, or prepends it, then
// truncates the list to the cap.
func (s *Store) Save(ctx context.Context, session models.ChatSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return err
	}

	replaced := false
	for i := range list {
		if list[i].ID == session.ID {
			list[i] = session
			replaced = true
			break
		}
	}
	if !replaced {
		list = append([]models.ChatSession{session}, list...)
	}

	if len(list) > s.max {
		evicted := len(list) - s.max
		list = list[:s.max]
		metrics.ChatSessionsEvicted.Add(float64(evicted))
		s.logger.Debug("Evicted oldest chat sessions", map[string]interface{}{"count": evicted})
	}

	return s.store(ctx, list)
}

// Delete removes the session; deleting an unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := list[:0]
	for _, sess := range list {
		if sess.ID != id {
			kept = append(kept, sess)
		}
	}
	return s.store(ctx, kept)
}

func (s *Store) load(ctx context.Context) ([]models.ChatSession, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if stderrors.Is(err, ErrKeyNotFound) {
		return []models.ChatSession{}, nil
	}
	if err != nil {
		return nil, errors.NewCacheUnavailableError(err)
	}

	var list []models.ChatSession
	if err := json.Unmarshal(raw, &list); err != nil {
		s.logger.Warn("Discarding unreadable chat history", map[string]interface{}{"error": err.Error()})
		return []models.ChatSession{}, nil
	}
	if list == nil {
		list = []models.ChatSession{}
	}
	return list, nil
}

func (s *Store) store(ctx context.Context, list []models.ChatSession) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return errors.NewInternalError(err)
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		return errors.NewCacheUnavailableError(err)
	}
	return nil
}

// TitleFor derives a display title from the first user message: its first 40
// characters, with "..." appended only when it was longer.
func TitleFor(session models.ChatSession) string {
	for _, m := range session.Messages {
		if m.Role != models.RoleUser {
			continue
		}
		if utf8.RuneCountInString(m.Text) <= titleLimit {
			return m.Text
		}
		return string([]rune(m.Text)[:titleLimit]) + "..."
	}
	return DefaultTitle
}

// NewSession starts an empty session stamped with now.
func NewSession(now time.Time) models.ChatSession {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return models.ChatSession{
		ID:        fmt.Sprintf("chat_%d_%s", now.UnixMilli(), suffix),
		Title:     DefaultTitle,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []models.ChatMessage{},
	}
}

// FormatRelative renders t as a short label relative to now.
func FormatRelative(t, now time.Time) string {
	diff := now.Sub(t)
	switch mins := int(diff / time.Minute); {
	case mins < 1:
		return "Just now"
	case mins < 60:
		return fmt.Sprintf("%dm ago", mins)
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff/time.Hour))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff/(24*time.Hour)))
	default:
		return t.Format("Jan 2, 2006")
	}
}
