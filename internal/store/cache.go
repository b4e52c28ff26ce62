package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/ashpool37/pytutor-server/internal/curriculum"
	"github.com/ashpool37/pytutor-server/internal/domain"
	gocache "github.com/patrickmn/go-cache"
)

// cacheKeyPrefix namespaces user records inside the shared cache.
const cacheKeyPrefix = "pytutor:"

// CacheStore is the local in-process backend: one whole-record JSON blob
// per username under a fixed key prefix. Reads and writes optionally
// sleep for a configured duration to mimic network latency, so the rest
// of the system exercises the same asynchronous paths as with the
// relational backend.
type CacheStore struct {
	cache   *gocache.Cache
	latency time.Duration
}

var _ Store = (*CacheStore)(nil)

// NewCache creates a cache-backed store. Records never expire; latency of
// zero disables the simulated delay.
func NewCache(latency time.Duration) *CacheStore {
	return &CacheStore{
		cache:   gocache.New(gocache.NoExpiration, 0),
		latency: latency,
	}
}

func (s *CacheStore) sleep(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	select {
	case <-time.After(s.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LoadUser returns the stored record for username, regenerating a default
// record if the entry is missing or does not parse.
func (s *CacheStore) LoadUser(ctx context.Context, username string) (*domain.UserRecord, error) {
	if err := s.sleep(ctx); err != nil {
		return nil, err
	}

	key := cacheKeyPrefix + username
	if v, ok := s.cache.Get(key); ok {
		if blob, ok := v.([]byte); ok {
			var rec domain.UserRecord
			if err := json.Unmarshal(blob, &rec); err == nil {
				if rec.Progress == nil {
					rec.Progress = map[string]domain.TopicProgress{}
				}
				return &rec, nil
			}
			slog.Warn("corrupted cache record, resetting user data", "user", username)
		}
		s.cache.Delete(key)
	}

	moduleID, topic := curriculum.First()
	rec := domain.DefaultRecord(username, moduleID, topic.ID)
	if err := s.put(key, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// SaveProgress performs a whole-record read-modify-write; the last save
// for a username wins.
func (s *CacheStore) SaveProgress(ctx context.Context, req SaveRequest) error {
	if err := s.sleep(ctx); err != nil {
		return err
	}

	key := cacheKeyPrefix + req.Username
	rec := &domain.UserRecord{Username: req.Username}
	if v, ok := s.cache.Get(key); ok {
		if blob, ok := v.([]byte); ok {
			if err := json.Unmarshal(blob, rec); err != nil {
				// Corrupt blob: rebuild around this save.
				rec = &domain.UserRecord{Username: req.Username}
			}
		}
	}

	if rec.Progress == nil {
		rec.Progress = map[string]domain.TopicProgress{}
	}
	rec.Progress[req.Progress.TopicID] = req.Progress
	rec.LastActiveModuleID = req.ActiveModuleID
	rec.LastActiveTopicID = req.ActiveTopicID

	return s.put(key, rec)
}

func (s *CacheStore) put(key string, rec *domain.UserRecord) error {
	blob, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal user record: %w", err)
	}
	s.cache.Set(key, blob, gocache.NoExpiration)
	return nil
}

// Ping always succeeds; the cache lives in-process.
func (s *CacheStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op for the in-process cache.
func (s *CacheStore) Close() error {
	return nil
}
