package handrail

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aretw0/handrail/internal/logging"
	"github.com/aretw0/handrail/internal/runtime"
	"github.com/aretw0/handrail/pkg/domain"
	"github.com/aretw0/handrail/pkg/ports"
)

// DefaultStateKey is the store key used when WithStore is given an empty
// key. Hosts running several wizards against one backend should pick
// distinct keys.
const DefaultStateKey = "handrail:wizard"

// Stepper is an explicit, injectable state container for one multi-step
// workflow. All mutations are serialized through an internal mutex; a
// second call issued while a transition (including its completion
// callback) is in flight simply waits its turn instead of reading stale
// state.
type Stepper[T any] struct {
	opMu sync.Mutex // serializes mutations end to end

	stateMu sync.RWMutex // guards state, current and config for readers
	state   *domain.State[T]
	current int
	config  domain.Config

	engine *runtime.Engine[T]

	store ports.StateStore[T] // nil disables persistence
	key   string

	logger *slog.Logger
	hooks  domain.LifecycleHooks

	busy atomic.Bool

	subMu   sync.Mutex
	subs    map[int]func(domain.State[T])
	nextSub int

	seedSteps   []domain.StepState
	seedGeneral T
}

// Option defines a functional option for configuring the Stepper.
type Option[T any] func(*Stepper[T])

// WithSteps sets the initial step list. Access flags are normalized by
// the configured AccessPolicy.
func WithSteps[T any](steps []domain.StepState) Option[T] {
	return func(s *Stepper[T]) {
		s.seedSteps = steps
	}
}

// WithGeneralState sets the initial shared payload.
func WithGeneralState[T any](general T) Option[T] {
	return func(s *Stepper[T]) {
		s.seedGeneral = general
	}
}

// WithConfig replaces the whole behavioral configuration.
func WithConfig[T any](cfg domain.Config) Option[T] {
	return func(s *Stepper[T]) {
		s.config = cfg
	}
}

// WithNavigation sets the per-direction step overrides.
func WithNavigation[T any](nav domain.NavigationConfig) Option[T] {
	return func(s *Stepper[T]) {
		s.config.Navigation = nav
	}
}

// WithValidation sets the jump-navigation validation policy.
func WithValidation[T any](v domain.ValidationConfig) Option[T] {
	return func(s *Stepper[T]) {
		s.config.Validation = v
	}
}

// WithAccessPolicy sets the initial step accessibility policy.
func WithAccessPolicy[T any](p domain.AccessPolicy) Option[T] {
	return func(s *Stepper[T]) {
		s.config.Policy = p
	}
}

// WithStore enables persistence under the given key. An empty key falls
// back to DefaultStateKey.
func WithStore[T any](store ports.StateStore[T], key string) Option[T] {
	return func(s *Stepper[T]) {
		s.store = store
		s.key = key
	}
}

// WithLogger sets a custom structured logger.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(s *Stepper[T]) {
		s.logger = logger
	}
}

// WithHooks registers observability hooks.
func WithHooks[T any](hooks domain.LifecycleHooks) Option[T] {
	return func(s *Stepper[T]) {
		s.hooks = hooks
	}
}

// New initializes a Stepper. When a store is configured and holds a
// usable state, that state is adopted, LoadedFromStore is set, and the
// active index becomes the count of completed steps. A missing,
// undecodable or invariant-breaking blob is logged and ignored: store
// trouble never fails construction.
func New[T any](ctx context.Context, opts ...Option[T]) (*Stepper[T], error) {
	s := &Stepper[T]{
		config: domain.DefaultConfig(),
		logger: logging.NewNop(),
		subs:   make(map[int]func(domain.State[T])),
	}
	for _, opt := range opts {
		opt(s)
	}

	policy, err := domain.ParseAccessPolicy(string(s.config.Policy))
	if err != nil {
		return nil, err
	}
	s.config.Policy = policy
	if s.store != nil && s.key == "" {
		s.key = DefaultStateKey
	}

	s.engine = runtime.NewEngine[T](s.logger)

	steps, info := runtime.InitSteps(s.seedSteps, s.config.Policy)
	state := domain.NewState(s.seedGeneral)
	state.Steps = steps
	state.GeneralInfo = info
	s.state = state

	s.restore(ctx)
	return s, nil
}

// restore replaces the default state with a persisted one, if any.
func (s *Stepper[T]) restore(ctx context.Context) {
	if s.store == nil {
		return
	}

	loaded, err := s.store.Load(ctx, s.key)
	if err != nil {
		if !errors.Is(err, domain.ErrStateNotFound) {
			s.logger.Error("failed to load saved state", slog.String("key", s.key), "error", err)
		}
		return
	}
	if len(loaded.Steps) != loaded.GeneralInfo.TotalSteps {
		// Shape drift: the blob predates a step-list change. Treated as
		// no saved state.
		s.logger.Warn("discarding saved state with inconsistent step count",
			slog.String("key", s.key),
			slog.Int("steps", len(loaded.Steps)),
			slog.Int("totalSteps", loaded.GeneralInfo.TotalSteps),
		)
		return
	}

	loaded.LoadedFromStore = true
	s.state = loaded
	s.current = clampIndex(loaded.CompletedSteps(), loaded.GeneralInfo.TotalSteps)
	s.logger.Debug("restored saved state",
		slog.String("key", s.key),
		slog.Int("index", s.current),
	)
}

// clampIndex keeps a derived index inside [0, total); a fully completed
// wizard resumes on its last step.
func clampIndex(i, total int) int {
	if i >= total {
		i = total - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// State returns a copy of the current wizard state.
func (s *Stepper[T]) State() domain.State[T] {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return *s.state.Clone()
}

// CurrentIndex returns the active step index.
func (s *Stepper[T]) CurrentIndex() int {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.current
}

// Config returns the current behavioral configuration.
func (s *Stepper[T]) Config() domain.Config {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.config
}

// ActiveStep returns the derived view of the step at the current index.
// With an empty step list it returns a synthetic placeholder: empty
// name, all flags false, IsFirstStep true, IsLastStep false.
func (s *Stepper[T]) ActiveStep() domain.ActiveStep {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()

	total := s.state.GeneralInfo.TotalSteps
	if total == 0 {
		return domain.ActiveStep{IsFirstStep: true}
	}
	return domain.ActiveStep{
		StepState:   s.state.Steps[s.current],
		Index:       s.current,
		IsFirstStep: s.current == 0,
		IsLastStep:  s.current == total-1,
	}
}

// Loading reports whether a navigation call (including an awaited
// completion callback) is in flight.
func (s *Stepper[T]) Loading() bool {
	return s.busy.Load()
}

// Subscribe registers an observer invoked with a state copy after every
// committed mutation. The returned function cancels the subscription.
func (s *Stepper[T]) Subscribe(fn func(domain.State[T])) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// notify fans the committed state out to subscribers, each getting its
// own copy.
func (s *Stepper[T]) notify() {
	s.subMu.Lock()
	fns := make([]func(domain.State[T]), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(s.State())
	}
}

// persist writes state to the configured store. Write failures are
// logged and reported through OnStateSaved, never surfaced: persistence
// is best effort.
func (s *Stepper[T]) persist(ctx context.Context, state *domain.State[T]) {
	if s.store == nil {
		return
	}

	ev := &domain.SaveEvent{
		EventBase: eventBase(domain.EventStateSaved),
		Key:       s.key,
	}
	if err := s.store.Save(ctx, s.key, state); err != nil {
		s.logger.Error("failed to persist state", slog.String("key", s.key), "error", err)
		ev.Failed = true
	}
	if s.hooks.OnStateSaved != nil {
		s.hooks.OnStateSaved(ctx, ev)
	}
}

// clearStore removes the persisted blob without touching in-memory state.
func (s *Stepper[T]) clearStore(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.Clear(ctx, s.key); err != nil {
		s.logger.Error("failed to clear saved state", slog.String("key", s.key), "error", err)
	}
}

func eventBase(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t}
}
