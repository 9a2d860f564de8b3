// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/thaplubot/thaplubot-tui/internal/api"
	"github.com/thaplubot/thaplubot-tui/internal/logging"
	"github.com/thaplubot/thaplubot-tui/internal/model"
)

// User-visible texts. They match what the hosted web client shows.
const (
	ErrTextNotResponding = "API not responding"
	ErrTextCannotConnect = "Cannot connect to ThapluBot API. Make sure it's running on localhost:5001"
	ErrTextNoResponse    = "Failed to get response"
	ErrTextSendFailed    = "Failed to connect to ThapluBot API"

	ReplyGenericApology = "Sorry, I encountered an error. Please try again."
	ReplyConnectApology = "Oops! I couldn't connect to my backend. Make sure the API is running on localhost:5001! 🔌"
)

var (
	// ErrRequestInFlight is returned by SendMessage when single-flight is
	// enabled and another send has not finished.
	ErrRequestInFlight = errors.New("a message is already being sent")

	// ErrRejected wraps application-level failures reported by the backend.
	ErrRejected = errors.New("backend rejected message")
)

// Backend is the subset of the API client the manager needs.
type Backend interface {
	Health(ctx context.Context) error
	Chat(ctx context.Context, message, sessionID string) (*api.ChatResponse, error)
	DeleteContext(ctx context.Context, sessionID string) error
}

// Recorder persists transcripts. Record is called after every completed
// exchange with the full state; Reset is called after the chat is cleared
// so the next Record starts a new transcript.
type Recorder interface {
	Record(s State) error
	Reset()
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config holds configuration for the manager.
type Config struct {
	// HealthInterval is the period of the connectivity probe (default: 30s).
	HealthInterval time.Duration

	// SingleFlight rejects SendMessage while another call is outstanding.
	// Off by default: overlapping sends run concurrently and their replies
	// are appended in completion order.
	SingleFlight bool

	// Logger receives debug events; nil disables logging.
	Logger *zap.Logger

	// Recorder, when set, is told about every completed exchange.
	Recorder Recorder
}

// DefaultConfig returns the default manager configuration.
func DefaultConfig() Config {
	return Config{
		HealthInterval: 30 * time.Second,
	}
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager is the conversation state store. All methods are safe for
// concurrent use.
type Manager struct {
	backend Backend
	cfg     Config
	log     *zap.Logger

	mu        sync.Mutex
	history   model.History
	sessionID string
	connected bool
	probed    bool
	inFlight  int
	lastError string

	// generation advances on every ClearChat. recordMu orders Record
	// calls against each other and against Reset.
	generation uint64
	recordMu   sync.Mutex
	recorded   int

	subscribers map[int]chan State
	nextSubID   int

	started bool
	closed  bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a manager. Call Start to begin health probing.
func New(backend Backend, cfg Config) *Manager {
	if cfg.HealthInterval <= 0 {
		cfg.HealthInterval = DefaultConfig().HealthInterval
	}
	log := logging.OrNop(cfg.Logger)
	return &Manager{
		backend:     backend,
		cfg:         cfg,
		log:         log,
		subscribers: make(map[int]chan State),
	}
}

// Start runs a health probe immediately and then every HealthInterval
// until ctx is done or Close is called. Calling Start more than once, or
// after Close, does nothing.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.started || m.closed {
		m.mu.Unlock()
		return
	}
	m.started = true
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	m.mu.Unlock()

	go m.probeLoop(ctx)
}

func (m *Manager) probeLoop(ctx context.Context) {
	defer close(m.done)

	m.CheckConnectivity(ctx)

	ticker := time.NewTicker(m.cfg.HealthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CheckConnectivity(ctx)
		}
	}
}

// Close stops the health probe and waits for it to exit, then closes all
// subscription channels. Outstanding SendMessage calls are not cancelled;
// their results still update the state. Close is idempotent.
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	cancel, done := m.cancel, m.done
	m.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	m.mu.Lock()
	for id, ch := range m.subscribers {
		close(ch)
		delete(m.subscribers, id)
	}
	m.mu.Unlock()
}

// =============================================================================
// OPERATIONS
// =============================================================================

// CheckConnectivity probes the backend once and records the result. A
// probe interrupted by ctx leaves the state untouched.
func (m *Manager) CheckConnectivity(ctx context.Context) {
	err := m.backend.Health(ctx)
	if err != nil && ctx.Err() != nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.probed = true
	switch {
	case err == nil:
		if !m.connected {
			m.log.Info("backend_connected")
		}
		m.connected = true
		m.lastError = ""
	case api.IsStatus(err):
		m.log.Warn("backend_not_responding", zap.Error(err))
		m.connected = false
		m.lastError = ErrTextNotResponding
	default:
		m.log.Warn("backend_unreachable", zap.Error(err))
		m.connected = false
		m.lastError = ErrTextCannotConnect
	}
	m.notifyLocked()
}

// SendMessage sends content to the backend. Content that is blank after
// trimming is ignored without error. The user message is appended before
// the request is issued and exactly one bot message is appended when it
// resolves, whatever the outcome.
//
// The returned error describes a failed exchange for logging; the state
// already reflects it.
func (m *Manager) SendMessage(ctx context.Context, content string) error {
	text := strings.TrimSpace(content)
	if text == "" {
		return nil
	}

	m.mu.Lock()
	if m.cfg.SingleFlight && m.inFlight > 0 {
		m.mu.Unlock()
		return ErrRequestInFlight
	}
	m.history.Append(model.NewUserMessage(text))
	m.notifyLocked()
	gen := m.generation

	m.inFlight++
	m.lastError = ""
	m.notifyLocked()
	sessionID := m.sessionID
	m.mu.Unlock()

	resp, err := m.backend.Chat(ctx, text, sessionID)

	var (
		reply  model.Message
		result error
	)

	m.mu.Lock()
	switch {
	case err != nil:
		m.log.Warn("chat_failed", zap.Error(err))
		m.lastError = ErrTextSendFailed
		reply = model.NewBotMessage(ReplyConnectApology, "", nil, "")
		result = err

	case !resp.Success:
		m.lastError = resp.Error
		if m.lastError == "" {
			m.lastError = ErrTextNoResponse
		}
		content := resp.Response
		if content == "" {
			content = ReplyGenericApology
		}
		m.log.Warn("chat_rejected", zap.String("error", m.lastError))
		reply = model.NewBotMessage(content, "", nil, "")
		result = fmt.Errorf("%w: %s", ErrRejected, m.lastError)

	default:
		m.sessionID = resp.SessionID
		reply = model.NewBotMessage(resp.Response, resp.Timestamp, resp.Sources, resp.Verification())
		m.log.Debug("chat_reply",
			zap.String("session", resp.SessionID),
			zap.Int("sources", len(resp.Sources)),
			zap.String("verification", resp.VerificationStatus),
		)
	}

	m.history.Append(reply)
	m.inFlight--
	m.notifyLocked()
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.record(gen, snap)
	return result
}

// ClearChat ends the conversation. When a session exists the backend is
// asked to drop its context; that call is best-effort and its error is
// discarded. History, session id and last error are then reset
// unconditionally.
//
// Sends still in flight when the chat is cleared update the state when
// they resolve but are not recorded.
func (m *Manager) ClearChat(ctx context.Context) {
	m.mu.Lock()
	sessionID := m.sessionID
	m.mu.Unlock()

	if sessionID != "" {
		if err := m.backend.DeleteContext(ctx, sessionID); err != nil {
			m.log.Debug("context_delete_failed", zap.String("session", sessionID), zap.Error(err))
		}
	}

	m.recordMu.Lock()
	defer m.recordMu.Unlock()

	m.mu.Lock()
	m.history.Clear()
	m.sessionID = ""
	m.lastError = ""
	m.generation++
	m.notifyLocked()
	m.mu.Unlock()

	m.recorded = 0
	if m.cfg.Recorder != nil {
		m.cfg.Recorder.Reset()
	}
}

// =============================================================================
// OBSERVATION
// =============================================================================

// Snapshot returns the current state.
func (m *Manager) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Subscribe returns a channel that receives the state after every change
// and a function that ends the subscription. The channel holds only the
// latest state: a slow reader skips intermediate states but never misses
// the final one. The channel is closed by unsubscribe or Close.
func (m *Manager) Subscribe() (<-chan State, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ch := make(chan State, 1)
	if m.closed {
		close(ch)
		return ch, func() {}
	}

	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if c, ok := m.subscribers[id]; ok {
				close(c)
				delete(m.subscribers, id)
			}
		})
	}
}

func (m *Manager) snapshotLocked() State {
	return State{
		SessionID: m.sessionID,
		Messages:  m.history.Messages(),
		Connected: m.connected,
		Probed:    m.probed,
		Pending:   m.inFlight > 0,
		InFlight:  m.inFlight,
		LastError: m.lastError,
	}
}

// notifyLocked publishes the current state to every subscriber, replacing
// any state they have not read yet. Must hold m.mu.
func (m *Manager) notifyLocked() {
	if len(m.subscribers) == 0 {
		return
	}
	s := m.snapshotLocked()
	for _, ch := range m.subscribers {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- s:
		default:
		}
	}
}

// record saves s unless the chat was cleared after the send started or a
// longer transcript has already been saved.
func (m *Manager) record(gen uint64, s State) {
	if m.cfg.Recorder == nil {
		return
	}

	m.recordMu.Lock()
	defer m.recordMu.Unlock()

	m.mu.Lock()
	stale := gen != m.generation
	m.mu.Unlock()
	if stale || len(s.Messages) <= m.recorded {
		return
	}
	m.recorded = len(s.Messages)

	if err := m.cfg.Recorder.Record(s); err != nil {
		m.log.Warn("transcript_save_failed", zap.Error(err))
	}
}
