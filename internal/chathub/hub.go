// Package chathub is the real-time core of the gateway. A single goroutine
// (ManagerService.Run) owns every registry, so handlers run to completion
// without locks and check-then-set sequences such as ticket claims are atomic.
package chathub

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"quizblog/gateway/internal/config"
	"quizblog/gateway/internal/metrics"
	"quizblog/gateway/internal/models"
)

// EventPublisher receives domain events. Publish must not block.
type EventPublisher interface {
	Publish(event models.DomainEvent)
}

// Translator resolves user-facing strings.
type Translator interface {
	GetString(lang, key string) string
}

type Options struct {
	Config     config.RealtimeConfig
	Clock      clockwork.Clock
	Logger     *zap.Logger
	Publisher  EventPublisher
	Translator Translator
}

type ManagerService struct {
	cfg       config.RealtimeConfig
	clock     clockwork.Clock
	log       *zap.Logger
	publisher EventPublisher
	text      Translator

	// Channels
	RegisterCh   chan Client
	UnregisterCh chan Client
	IncomingCh   chan models.Inbound
	commands     chan func()
	done         chan struct{}

	// Registries, touched only from the Run goroutine.
	conns        map[string]*connection
	presence     map[string]*models.PresenceEntry
	userConns    map[string][]string // user id -> conn ids in registration order
	rooms        map[string]*models.ChatRoom
	quizzes      map[string]*models.QuizSession
	contacts     map[string]*models.ContactSession
	chats        map[string]*models.ActiveChat
	assignTimers map[string]clockwork.Timer

	counters counters
	routes   map[string]map[string]HandlerFunc
	pipeline HandlerFunc
}

type counters struct {
	startedAt         time.Time
	totalConnections  int
	peakConnections   int
	participantSeq    uint64
	totalContacts     int
	resolvedContacts  int
	messagesExchanged int
	avgResponseMins   float64
	assignAttempts    int
}

func NewManagerService(opts Options) *ManagerService {
	if opts.Config == (config.RealtimeConfig{}) {
		opts.Config = config.DefaultRealtime()
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Publisher == nil {
		opts.Publisher = nopPublisher{}
	}
	if opts.Translator == nil {
		opts.Translator = keyTranslator{}
	}

	m := &ManagerService{
		cfg:       opts.Config,
		clock:     opts.Clock,
		log:       opts.Logger,
		publisher: opts.Publisher,
		text:      opts.Translator,

		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		IncomingCh:   make(chan models.Inbound, 256),
		commands:     make(chan func(), 64),
		done:         make(chan struct{}),

		conns:        make(map[string]*connection),
		presence:     make(map[string]*models.PresenceEntry),
		userConns:    make(map[string][]string),
		rooms:        make(map[string]*models.ChatRoom),
		quizzes:      make(map[string]*models.QuizSession),
		contacts:     make(map[string]*models.ContactSession),
		chats:        make(map[string]*models.ActiveChat),
		assignTimers: make(map[string]clockwork.Timer),
	}
	m.counters.startedAt = m.clock.Now()
	m.routes = m.buildRoutes()
	m.pipeline = chain(m.route, m.touchActivity, m.admission)
	return m
}

// Run is the hub loop. It returns when ctx is cancelled, after closing every
// remaining client.
func (m *ManagerService) Run(ctx context.Context) {
	sweep := m.clock.NewTicker(m.cfg.SweepInterval)
	stats := m.clock.NewTicker(m.cfg.StatsInterval)
	roster := m.clock.NewTicker(m.cfg.RosterInterval)
	defer func() {
		sweep.Stop()
		stats.Stop()
		roster.Stop()
		m.shutdown()
	}()

	m.log.Info("hub started")
	for {
		select {
		case c := <-m.RegisterCh:
			m.register(c)
		case c := <-m.UnregisterCh:
			m.unregister(c.GetConnID())
		case in := <-m.IncomingCh:
			m.handleInbound(in)
		case fn := <-m.commands:
			fn()
		case <-sweep.Chan():
			m.sweep()
		case <-stats.Chan():
			m.broadcastStats()
		case <-roster.Chan():
			m.broadcastRoster()
		case <-ctx.Done():
			m.log.Info("hub stopping", zap.Int("connections", len(m.conns)))
			return
		}
	}
}

func (m *ManagerService) shutdown() {
	close(m.done)
	for id, t := range m.assignTimers {
		t.Stop()
		delete(m.assignTimers, id)
	}
	for id, c := range m.conns {
		c.client.Close()
		delete(m.conns, id)
	}
	metrics.ActiveConnections.Set(0)
}

// Register hands a verified client to the hub loop.
func (m *ManagerService) Register(c Client) error {
	select {
	case m.RegisterCh <- c:
		return nil
	case <-m.done:
		return ErrHubStopped
	}
}

func (m *ManagerService) Unregister(c Client) {
	select {
	case m.UnregisterCh <- c:
	case <-m.done:
	}
}

func (m *ManagerService) Submit(in models.Inbound) {
	select {
	case m.IncomingCh <- in:
	case <-m.done:
	}
}

// Exec runs fn on the hub goroutine and waits for it to finish. ctx only
// bounds the wait for a free slot in the command queue.
func (m *ManagerService) Exec(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		fn()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case m.commands <- wrapped:
	case <-m.done:
		return ErrHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	// Once queued, fn will run; wait for it so callers never race its writes.
	select {
	case <-finished:
		return nil
	case <-m.done:
		return ErrHubStopped
	}
}

// enqueue schedules fn on the hub goroutine without waiting. Used by timers.
func (m *ManagerService) enqueue(fn func()) {
	select {
	case m.commands <- fn:
	case <-m.done:
	}
}

func (m *ManagerService) register(c Client) {
	id := c.GetConnID()
	if _, ok := m.conns[id]; ok {
		return
	}
	now := m.clock.Now()
	conn := newConnection(c, now, m.cfg.RateLimitWindow, m.cfg.RateLimitMax)

	m.conns[id] = conn
	m.counters.totalConnections++
	if len(m.conns) > m.counters.peakConnections {
		m.counters.peakConnections = len(m.conns)
	}
	metrics.TotalConnections.Inc()
	metrics.ActiveConnections.Set(float64(len(m.conns)))

	m.log.Debug("client registered",
		zap.String("conn_id", id),
		zap.String("namespace", conn.namespace),
		zap.String("user_id", conn.userID()),
		zap.Bool("authenticated", conn.identity != nil))

	m.registerPresence(conn)
}

// unregister is idempotent; every cleanup step tolerates missing state.
func (m *ManagerService) unregister(connID string) {
	conn, ok := m.conns[connID]
	if !ok {
		return
	}

	for roomID := range conn.rooms {
		m.leaveRoom(conn, roomID)
	}
	for quizID := range conn.quizzes {
		m.leaveQuiz(conn, quizID)
	}
	m.releaseContacts(conn)
	m.removePresence(conn)

	delete(m.conns, connID)
	conn.client.Close()
	metrics.ActiveConnections.Set(float64(len(m.conns)))

	m.log.Debug("client unregistered", zap.String("conn_id", connID))
}

type nopPublisher struct{}

func (nopPublisher) Publish(models.DomainEvent) {}

type keyTranslator struct{}

func (keyTranslator) GetString(_, key string) string { return key }
