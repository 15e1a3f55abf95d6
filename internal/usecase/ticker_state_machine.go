package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vitos/tickerwatch/internal/domain"
	"go.uber.org/zap"
)

const (
	DefaultFetchTimeout   = 10 * time.Second
	defaultJournalTimeout = 2 * time.Second
)

type MachineConfig struct {
	Symbols       []string
	PollInterval  time.Duration
	FreshnessTick time.Duration
	FetchTimeout  time.Duration
}

func DefaultMachineConfig() MachineConfig {
	return MachineConfig{
		Symbols:       domain.DefaultSymbols,
		PollInterval:  DefaultPollInterval,
		FreshnessTick: DefaultFreshnessTick,
		FetchTimeout:  DefaultFetchTimeout,
	}
}

// StateSnapshot is a consistent copy of everything a consumer can observe.
type StateSnapshot struct {
	State            domain.ResponseState
	Query            string
	AppliedFilter    domain.Filter
	PendingFilter    domain.Filter
	Refreshing       bool
	FreshnessSeconds int64
	Phase            SchedulerPhase
}

func (s StateSnapshot) MarshalJSON() ([]byte, error) {
	state, err := domain.MarshalState(s.State)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		State            json.RawMessage `json:"response"`
		Query            string          `json:"query"`
		AppliedFilter    domain.Filter   `json:"applied_filter"`
		PendingFilter    domain.Filter   `json:"pending_filter"`
		Refreshing       bool            `json:"refreshing"`
		FreshnessSeconds int64           `json:"freshness_seconds"`
		Phase            SchedulerPhase  `json:"scheduler"`
	}{state, s.Query, s.AppliedFilter, s.PendingFilter, s.Refreshing, s.FreshnessSeconds, s.Phase})
}

// TickerStateMachine owns the raw list, query, filters and ResponseState.
// Every mutation, including applying a fetch outcome, runs under mu, so
// concurrent fetches land whole and in completion order.
type TickerStateMachine struct {
	cfg       MachineConfig
	source    domain.QuoteSource
	journal   domain.FetchJournal
	logger    *zap.Logger
	repo      *TickerRepository
	scheduler *PollScheduler
	clock     *FreshnessClock
	newKey    func() string
	timeNow   func() time.Time // For testing

	mu         sync.Mutex
	state      domain.ResponseState
	query      string
	applied    domain.Filter
	pending    domain.Filter
	refreshing bool
	stopped    bool

	subsMu  sync.Mutex
	subs    map[int]chan StateSnapshot
	nextSub int
}

// NewTickerStateMachine wires the scheduler and freshness clock. journal may be nil.
func NewTickerStateMachine(cfg MachineConfig, source domain.QuoteSource, journal domain.FetchJournal, logger *zap.Logger) *TickerStateMachine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(cfg.Symbols) == 0 {
		cfg.Symbols = domain.DefaultSymbols
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}

	m := &TickerStateMachine{
		cfg:     cfg,
		source:  source,
		journal: journal,
		logger:  logger,
		repo:    NewTickerRepository(),
		newKey:  uuid.NewString,
		timeNow: time.Now,
		state:   domain.Loading{},
		subs:    make(map[int]chan StateSnapshot),
	}
	m.scheduler = NewPollScheduler(cfg.PollInterval, m.fetch, logger)
	m.clock = NewFreshnessClock(cfg.FreshnessTick, func(int64) { m.publish() })
	return m
}

// Start begins polling and the freshness clock. The first fetch runs immediately.
// Cancelling ctx tears the machine down like Stop, except subscribers stay open
// until Stop is called.
func (m *TickerStateMachine) Start(ctx context.Context) error {
	m.mu.Lock()
	if !m.repo.HasData() {
		m.state = domain.Loading{}
	}
	m.mu.Unlock()

	if err := m.scheduler.Start(ctx); err != nil {
		return err
	}
	context.AfterFunc(ctx, func() {
		m.mu.Lock()
		m.stopped = true
		m.mu.Unlock()
	})
	m.clock.Start(ctx)
	m.publish()
	return nil
}

// Stop halts both loops. Outcomes of fetches still in flight are discarded and
// subscriber channels are closed.
func (m *TickerStateMachine) Stop(ctx context.Context) error {
	m.mu.Lock()
	m.stopped = true
	m.mu.Unlock()

	err := m.scheduler.Stop(ctx)
	m.clock.Stop()

	m.subsMu.Lock()
	for id, ch := range m.subs {
		close(ch)
		delete(m.subs, id)
	}
	m.subsMu.Unlock()

	return err
}

// Reload resets to Loading, resumes polling and fetches immediately. It
// reports false, leaving the state untouched, when the machine is not running.
func (m *TickerStateMachine) Reload() bool {
	m.mu.Lock()
	if m.stopped || m.scheduler.Phase() == PhaseIdle {
		m.mu.Unlock()
		return false
	}
	m.state = domain.Loading{}
	m.scheduler.Resume()
	m.mu.Unlock()

	m.publish()
	return m.scheduler.Trigger()
}

// Refresh fetches immediately while keeping the current data visible.
func (m *TickerStateMachine) Refresh() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.refreshing = true
	m.mu.Unlock()
	m.publish()

	if !m.scheduler.Trigger() {
		m.mu.Lock()
		m.refreshing = false
		m.mu.Unlock()
		m.publish()
	}
}

// UpdateSearchQuery filters the visible list by q, matched case-insensitively
// against name and symbol. An empty q shows everything.
func (m *TickerStateMachine) UpdateSearchQuery(q string) {
	m.mu.Lock()
	m.query = q
	m.recomputeLocked()
	m.mu.Unlock()
	m.publish()
}

// SelectPendingFilter stages f without touching the view.
func (m *TickerStateMachine) SelectPendingFilter(f domain.Filter) {
	m.mu.Lock()
	m.pending = f
	m.mu.Unlock()
	m.publish()
}

// ApplyPendingFilter commits the staged filter and recomputes the view.
func (m *TickerStateMachine) ApplyPendingFilter() {
	m.mu.Lock()
	m.applied = m.pending
	m.recomputeLocked()
	m.mu.Unlock()
	m.publish()
}

// ClearFilter resets both the applied and pending filter to FilterNone.
func (m *TickerStateMachine) ClearFilter() {
	m.mu.Lock()
	m.applied = domain.FilterNone
	m.pending = domain.FilterNone
	m.recomputeLocked()
	m.mu.Unlock()
	m.publish()
}

// FiltersApplied returns the active filter.
func (m *TickerStateMachine) FiltersApplied() domain.Filter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applied
}

func (m *TickerStateMachine) State() domain.ResponseState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *TickerStateMachine) Snapshot() StateSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return StateSnapshot{
		State:            m.state,
		Query:            m.query,
		AppliedFilter:    m.applied,
		PendingFilter:    m.pending,
		Refreshing:       m.refreshing,
		FreshnessSeconds: m.clock.Seconds(),
		Phase:            m.scheduler.Phase(),
	}
}

// Subscribe returns a channel that always holds the latest snapshot; older
// unread values are dropped. The channel is closed by cancel or Stop.
func (m *TickerStateMachine) Subscribe() (<-chan StateSnapshot, func()) {
	ch := make(chan StateSnapshot, 1)

	m.subsMu.Lock()
	ch <- m.Snapshot()
	if m.isStopped() {
		m.subsMu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := m.nextSub
	m.nextSub++
	m.subs[id] = ch
	m.subsMu.Unlock()

	cancel := func() {
		m.subsMu.Lock()
		defer m.subsMu.Unlock()
		if c, ok := m.subs[id]; ok {
			close(c)
			delete(m.subs, id)
		}
	}
	return ch, cancel
}

func (m *TickerStateMachine) isStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

// publish must not be called with mu held. The snapshot is taken under subsMu
// so concurrent publishers cannot deliver an older snapshot last.
func (m *TickerStateMachine) publish() {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()

	if len(m.subs) == 0 {
		return
	}
	snap := m.Snapshot()
	for _, ch := range m.subs {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func (m *TickerStateMachine) recomputeLocked() {
	switch s := m.state.(type) {
	case domain.Success:
		m.state = domain.Success{Data: m.repo.Derive(m.query, m.applied)}
	case domain.Error:
		next := domain.Error{Key: domain.SearchKey, Message: s.Message}
		if m.repo.HasData() {
			next.Data = m.repo.Derive(m.query, m.applied)
			next.HasData = true
		}
		m.state = next
	}
}

func (m *TickerStateMachine) fetch(ctx context.Context) {
	start := m.timeNow()

	fctx, cancel := context.WithTimeout(ctx, m.cfg.FetchTimeout)
	raw, err := m.source.FetchTickers(fctx, m.cfg.Symbols)
	cancel()

	m.applyOutcome(ctx, raw, err, m.timeNow().Sub(start))
}

func (m *TickerStateMachine) applyOutcome(ctx context.Context, raw []domain.RawTicker, fetchErr error, took time.Duration) {
	m.mu.Lock()
	if m.stopped || ctx.Err() != nil {
		m.mu.Unlock()
		m.logger.Debug("Discarding fetch outcome after teardown", zap.Error(fetchErr))
		return
	}

	rec := domain.FetchRecord{At: m.timeNow(), Duration: took}
	m.refreshing = false

	if fetchErr == nil {
		m.repo.SetRaw(raw)
		m.state = domain.Success{Data: m.repo.Derive(m.query, m.applied)}
		m.clock.Reset()
		m.scheduler.Resume()

		rec.ID = m.newKey()
		rec.OK = true
		rec.Count = len(raw)
		m.logger.Debug("Tickers fetched", zap.Int("count", len(raw)), zap.Duration("took", took))
	} else {
		next := domain.Error{Key: m.newKey(), Message: domain.FailureMessage(fetchErr)}
		if m.repo.HasData() {
			next.Data = m.repo.Derive(m.query, m.applied)
			next.HasData = true
		}
		m.state = next
		m.scheduler.Pause()

		rec.ID = next.Key
		rec.Message = next.Message
		rec.Count = len(next.Data)
		m.logger.Warn("Ticker fetch failed",
			zap.Error(fetchErr),
			zap.Bool("stale_data", next.HasData),
			zap.Duration("took", took))
	}
	m.mu.Unlock()

	m.publish()
	m.record(ctx, rec)
}

func (m *TickerStateMachine) record(ctx context.Context, rec domain.FetchRecord) {
	if m.journal == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultJournalTimeout)
	defer cancel()
	if err := m.journal.Record(ctx, rec); err != nil {
		m.logger.Error("Failed to journal fetch", zap.Error(err))
	}
}
