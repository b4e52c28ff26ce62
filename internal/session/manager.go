// Package session owns the live editing state for the single logical
// session: the active user, the active topic, and the code/chat buffers.
// All transitions funnel through Login, Logout, SwitchTopic and Save.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ashpool37/pytutor-server/internal/curriculum"
	"github.com/ashpool37/pytutor-server/internal/domain"
	"github.com/ashpool37/pytutor-server/internal/store"
	"github.com/ashpool37/pytutor-server/internal/tutor"
)

// State is the session lifecycle position.
type State string

const (
	StateLoggedOut      State = "logged_out"
	StateLoggingIn      State = "logging_in"
	StateActive         State = "active"
	StateSwitchingTopic State = "switching_topic"
)

var (
	// ErrNotActive is returned by operations that require a logged-in session.
	ErrNotActive = errors.New("no active session")
	// ErrAlreadyLoggedIn is returned by Login while a session is active.
	ErrAlreadyLoggedIn = errors.New("session already active")
	// ErrRunInProgress is returned by RunCode while a prior run is outstanding.
	ErrRunInProgress = errors.New("code run already in progress")
)

// greetingTimeout bounds the deferred greeting call, which runs detached
// from the login/switch request that scheduled it.
const greetingTimeout = 60 * time.Second

// Manager is the session state machine. It exclusively owns the buffers;
// the tutor gateway only ever sees copies and returns new values that the
// manager merges back in.
type Manager struct {
	store   store.Store
	gateway *tutor.Gateway

	mu       sync.Mutex
	state    State
	record   *domain.UserRecord
	moduleID string
	topic    *curriculum.Topic
	code     string
	chat     []domain.ChatMessage
	// epoch increments on every login/logout/switch; deferred gateway
	// results carrying a stale epoch are discarded instead of being
	// merged into a buffer they no longer belong to.
	epoch int64

	saving  atomic.Bool
	running atomic.Bool
	wg      sync.WaitGroup
}

// NewManager creates a logged-out session manager.
func NewManager(st store.Store, gw *tutor.Gateway) *Manager {
	return &Manager{
		store:   st,
		gateway: gw,
		state:   StateLoggedOut,
	}
}

// SaveOptions optionally overrides what Save persists. A nil Code or
// History means "use the current buffer"; an empty TopicID means "use the
// active topic". The last-active pointers always follow the current
// session position regardless of TopicID, which is what lets a topic
// switch flush the outgoing topic's buffer.
type SaveOptions struct {
	Code    *string
	History []domain.ChatMessage
	TopicID string
}

// Snapshot is a point-in-time view of the session for observers.
type Snapshot struct {
	State    State                `json:"state"`
	Username string               `json:"username,omitempty"`
	ModuleID string               `json:"moduleId,omitempty"`
	Topic    *curriculum.Topic    `json:"topic,omitempty"`
	Code     string               `json:"code"`
	Chat     []domain.ChatMessage `json:"chatHistory"`
	Saving   bool                 `json:"saving"`
}

// Login transitions LoggedOut -> LoggingIn -> Active. The stored
// last-active pointers are resolved against the curriculum; stale
// pointers fall back to the catalog entry point. A topic without saved
// progress gets the starter template and a deferred tutor greeting that
// never blocks the transition. On store failure the session returns to
// LoggedOut with identity cleared.
func (m *Manager) Login(ctx context.Context, username string) error {
	m.mu.Lock()
	if m.state != StateLoggedOut {
		m.mu.Unlock()
		return ErrAlreadyLoggedIn
	}
	m.state = StateLoggingIn
	m.epoch++
	m.mu.Unlock()

	rec, err := m.store.LoadUser(ctx, username)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		slog.Error("login failed, degrading to logged out", "user", username, "error", err)
		m.resetLocked()
		return fmt.Errorf("login %q: %w", username, err)
	}

	m.record = rec
	moduleID := rec.LastActiveModuleID
	topic, ferr := curriculum.Find(rec.LastActiveModuleID, rec.LastActiveTopicID)
	if ferr != nil {
		slog.Warn("stored topic pointers are stale, falling back to first topic",
			"user", username,
			"module_id", rec.LastActiveModuleID,
			"topic_id", rec.LastActiveTopicID)
		moduleID, topic = curriculum.First()
	}

	m.moduleID = moduleID
	m.topic = topic
	m.hydrateLocked(topic)
	m.state = StateActive

	if len(m.chat) == 0 {
		m.scheduleGreetingLocked(topic)
	}

	slog.Info("session active", "user", username, "module_id", moduleID, "topic_id", topic.ID)
	return nil
}

// Logout clears buffers and identity without saving: unsaved buffer
// content is lost unless the caller saved first.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateLoggedOut {
		return
	}
	if m.record != nil {
		slog.Info("session logged out", "user", m.record.Username)
	}
	m.resetLocked()
}

// SwitchTopic transitions Active -> SwitchingTopic -> Active. The
// outgoing topic's buffers are persisted under the outgoing topic id
// before the active pointers move; a reload mid-switch therefore resumes
// on the old topic with its edits intact rather than on the new topic
// with them lost. No-op if the topic is already active.
func (m *Manager) SwitchTopic(ctx context.Context, moduleID, topicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateActive {
		return ErrNotActive
	}
	if m.topic != nil && m.topic.ID == topicID {
		return nil
	}

	topic, err := curriculum.Find(moduleID, topicID)
	if err != nil {
		return err
	}

	m.state = StateSwitchingTopic
	m.epoch++

	// Persist the outgoing topic first, keyed by the outgoing id and
	// still pointing at the outgoing position. This ordering is
	// load-bearing: point-to-new before save would let a reload land on
	// the new topic while the old topic's edits are gone.
	outgoing := store.SaveRequest{
		Username:       m.record.Username,
		ActiveModuleID: m.moduleID,
		ActiveTopicID:  m.topic.ID,
		Progress:       domain.NewProgress(m.topic.ID, m.code, cloneHistory(m.chat)),
	}
	if err := m.store.SaveProgress(ctx, outgoing); err != nil {
		slog.Error("failed to persist outgoing topic", "user", m.record.Username,
			"topic_id", outgoing.Progress.TopicID, "error", err)
	}
	m.record.SetProgress(moduleID, topicID, outgoing.Progress)

	m.moduleID = moduleID
	m.topic = topic
	m.hydrateLocked(topic)
	m.state = StateActive

	if len(m.chat) == 0 {
		m.scheduleGreetingLocked(topic)
	}

	slog.Info("topic switched", "user", m.record.Username,
		"from", outgoing.Progress.TopicID, "to", topicID)
	return nil
}

// Save persists the given or current buffers for the given or current
// topic, pointing the user's last-active position at the current session
// position. Store failures are logged and swallowed: the in-memory
// session stays the source of truth and a later save may succeed.
func (m *Manager) Save(ctx context.Context, opts SaveOptions) error {
	m.mu.Lock()
	if m.state != StateActive {
		m.mu.Unlock()
		return ErrNotActive
	}

	code := m.code
	if opts.Code != nil {
		code = *opts.Code
	}
	history := m.chat
	if opts.History != nil {
		history = opts.History
	}
	topicID := m.topic.ID
	if opts.TopicID != "" {
		topicID = opts.TopicID
	}

	req := store.SaveRequest{
		Username:       m.record.Username,
		ActiveModuleID: m.moduleID,
		ActiveTopicID:  m.topic.ID,
		Progress:       domain.NewProgress(topicID, code, cloneHistory(history)),
	}
	m.record.SetProgress(m.moduleID, m.topic.ID, req.Progress)
	m.mu.Unlock()

	m.saving.Store(true)
	defer m.saving.Store(false)

	if err := m.store.SaveProgress(ctx, req); err != nil {
		slog.Error("failed to save progress", "user", req.Username,
			"topic_id", req.Progress.TopicID, "error", err)
	}
	return nil
}

// Saving reports whether a save is in flight, so callers can suppress
// duplicate triggers. Overlapping saves are not serialized; both carry
// the session state at their call time and the last to land wins.
func (m *Manager) Saving() bool {
	return m.saving.Load()
}

// SetCode replaces the code buffer with the editor's current content.
func (m *Manager) SetCode(code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateActive {
		return ErrNotActive
	}
	m.code = code
	return nil
}

// SendMessage runs one chat turn: the user message is appended
// optimistically, one generation call produces either the assistant
// reply or a fallback error message, and the result triggers an implicit
// save. Returns the two messages appended.
func (m *Manager) SendMessage(ctx context.Context, text string) ([]domain.ChatMessage, error) {
	m.mu.Lock()
	if m.state != StateActive {
		m.mu.Unlock()
		return nil, ErrNotActive
	}

	userMsg := domain.NewMessage(domain.RoleUser, text)
	m.chat = append(m.chat, userMsg)

	topic := m.topic
	code := m.code
	history := cloneHistory(m.chat)
	epoch := m.epoch
	m.mu.Unlock()

	reply := m.gateway.ChatTurn(ctx, topic, code, history, text)

	m.mu.Lock()
	if m.state != StateActive || m.epoch != epoch {
		// The session moved on while the model was generating; the
		// reply belongs to a buffer that no longer exists.
		m.mu.Unlock()
		slog.Warn("discarding stale chat reply", "topic_id", topic.ID)
		return []domain.ChatMessage{userMsg}, nil
	}
	m.chat = append(m.chat, reply)
	m.mu.Unlock()

	if err := m.Save(ctx, SaveOptions{}); err != nil {
		slog.Warn("implicit save after chat turn failed", "error", err)
	}
	return []domain.ChatMessage{userMsg, reply}, nil
}

// RunCode streams a simulated execution of the current code buffer,
// appending chunks to the returned output in arrival order and passing
// each to sink as it lands. A mid-stream failure keeps the partial output
// and appends a diagnostic suffix. Success or failure, the current code
// buffer is saved afterwards: the run marks the topic as exercised, the
// terminal output itself is not persisted. Runs are serialized; a second
// call while one is outstanding returns ErrRunInProgress.
func (m *Manager) RunCode(ctx context.Context, sink func(chunk string)) (string, error) {
	if !m.running.CompareAndSwap(false, true) {
		return "", ErrRunInProgress
	}
	defer m.running.Store(false)

	m.mu.Lock()
	if m.state != StateActive {
		m.mu.Unlock()
		return "", ErrNotActive
	}
	code := m.code
	m.mu.Unlock()

	var out strings.Builder
	for chunk, err := range m.gateway.NarrateExecution(ctx, code) {
		if err != nil {
			suffix := tutor.RunFailureSuffix(err)
			out.WriteString(suffix)
			if sink != nil {
				sink(suffix)
			}
			break
		}
		out.WriteString(chunk)
		if sink != nil {
			sink(chunk)
		}
	}

	if err := m.Save(ctx, SaveOptions{}); err != nil {
		slog.Warn("implicit save after run failed", "error", err)
	}
	return out.String(), nil
}

// View returns a point-in-time snapshot of the session.
func (m *Manager) View() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := Snapshot{
		State:    m.state,
		ModuleID: m.moduleID,
		Topic:    m.topic,
		Code:     m.code,
		Chat:     cloneHistory(m.chat),
		Saving:   m.saving.Load(),
	}
	if m.record != nil {
		snap.Username = m.record.Username
	}
	return snap
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Record returns the in-memory user record, or nil when logged out.
func (m *Manager) Record() *domain.UserRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record
}

// Wait blocks until deferred background work (tutor greetings) has
// settled. Called during graceful shutdown.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// hydrateLocked fills the buffers for topic from the record's saved
// progress, or resets them to the starter template.
func (m *Manager) hydrateLocked(topic *curriculum.Topic) {
	if p, ok := m.record.ProgressFor(topic.ID); ok {
		m.code = p.Code
		m.chat = cloneHistory(p.ChatHistory)
		return
	}
	m.code = curriculum.DefaultCode(topic)
	m.chat = nil
}

// scheduleGreetingLocked defers the introductory tutor message so the
// login/switch transition completes without waiting on generation. The
// greeting only lands if the session is still on the same topic with an
// empty chat buffer by the time it arrives.
func (m *Manager) scheduleGreetingLocked(topic *curriculum.Topic) {
	epoch := m.epoch
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), greetingTimeout)
		defer cancel()

		msg := m.gateway.Greet(ctx, topic)

		m.mu.Lock()
		defer m.mu.Unlock()
		if m.state != StateActive || m.epoch != epoch || len(m.chat) > 0 {
			slog.Debug("discarding stale greeting", "topic_id", topic.ID)
			return
		}
		m.chat = []domain.ChatMessage{msg}
	}()
}

func (m *Manager) resetLocked() {
	m.epoch++
	m.state = StateLoggedOut
	m.record = nil
	m.moduleID = ""
	m.topic = nil
	m.code = ""
	m.chat = nil
}

func cloneHistory(history []domain.ChatMessage) []domain.ChatMessage {
	if history == nil {
		return nil
	}
	out := make([]domain.ChatMessage, len(history))
	copy(out, history)
	return out
}
