package models

import "time"

// ChatRole is who authored a chat message.
type ChatRole string

const (
	RoleUser  ChatRole = "user"
	RoleModel ChatRole = "model"
)

type ChatMessage struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}

// ChatSession is a persisted mentor conversation.
type ChatSession struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
	Messages  []ChatMessage `json:"messages"`
}

// Clone returns a copy whose message slice is not shared.
func (s ChatSession) Clone() ChatSession {
	out := s
	out.Messages = append([]ChatMessage(nil), s.Messages...)
	return out
}
