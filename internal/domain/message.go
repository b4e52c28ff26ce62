// Package domain contains core domain types for the PyTutor application.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a chat message.
type Role string

const (
	// RoleUser marks a message written by the learner.
	RoleUser Role = "user"
	// RoleModel marks a message produced by the tutor model.
	RoleModel Role = "model"
)

// ChatMessage is a single entry in a topic's conversation transcript.
// Messages are append-only: once part of a history they are never edited
// or removed individually.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// NewMessage creates a chat message with a fresh id and the current time.
// Ids are random rather than clock-derived so that a user message and an
// immediate fallback reply minted in the same tick cannot collide.
func NewMessage(role Role, text string) ChatMessage {
	return ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	}
}
