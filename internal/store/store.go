// Package store provides per-user progress persistence behind a
// backend-agnostic contract.
package store

import (
	"context"

	"github.com/ashpool37/pytutor-server/internal/domain"
)

// SaveRequest describes one progress save. ActiveModuleID/ActiveTopicID
// are the last-active pointers to record for the user; Progress is the
// snapshot to upsert. Progress.TopicID may differ from ActiveTopicID when
// an outgoing topic's buffer is flushed during a topic switch.
type SaveRequest struct {
	Username       string
	ActiveModuleID string
	ActiveTopicID  string
	Progress       domain.TopicProgress
}

// Store is the progress persistence contract shared by both backends.
//
// LoadUser returns the existing record for username, creating and
// persisting a default record (catalog entry point, empty progress map)
// if none exists. A stored record that fails to deserialize is treated as
// absent and regenerated; parse errors never reach the caller.
//
// SaveProgress updates the user's last-active pointers and replaces the
// snapshot for Progress.TopicID wholesale. Last write wins; there is no
// optimistic concurrency check.
type Store interface {
	LoadUser(ctx context.Context, username string) (*domain.UserRecord, error)
	SaveProgress(ctx context.Context, req SaveRequest) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}
