package maintenance

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Repository loads and saves the full AppData record. Implementations
// swallow their own failures: Load falls back to DefaultData and Save logs.
// Implementation: internal/storage.
type Repository interface {
	Load(ctx context.Context) AppData
	Save(ctx context.Context, data AppData)
}

// Service is the single in-memory snapshot every view reads from. Each
// mutation runs as one load-mutate-save cycle through the repository.
type Service struct {
	mu      sync.Mutex
	repo    Repository
	mutator Mutator
	logger  *logrus.Logger

	snapMu      sync.RWMutex
	snapshot    AppData
	subscribers map[int]func(AppData)
	nextSubID   int
}

// Option configures a Service.
type Option func(*serviceOptions)

type serviceOptions struct {
	now    func() time.Time
	newID  func() string
	logger *logrus.Logger
}

// WithClock overrides the time source used to stamp entries.
func WithClock(now func() time.Time) Option {
	return func(o *serviceOptions) { o.now = now }
}

// WithIDGenerator overrides how new entry ids are produced.
func WithIDGenerator(newID func() string) Option {
	return func(o *serviceOptions) { o.newID = newID }
}

// WithLogger sets the logger; the default discards output.
func WithLogger(logger *logrus.Logger) Option {
	return func(o *serviceOptions) { o.logger = logger }
}

// NewService wires a Service around repo. The snapshot starts as
// DefaultData until Refresh or Run loads the stored record.
func NewService(repo Repository, opts ...Option) *Service {
	var o serviceOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logrus.New()
		o.logger.SetOutput(io.Discard)
	}
	return &Service{
		repo:        repo,
		mutator:     NewMutator(o.now, o.newID),
		logger:      o.logger,
		snapshot:    DefaultData(),
		subscribers: make(map[int]func(AppData)),
	}
}

// Snapshot returns a copy of the last loaded or saved record.
func (s *Service) Snapshot() AppData {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	return s.snapshot.Clone()
}

// Refresh reloads the record from the repository and publishes it.
func (s *Service) Refresh(ctx context.Context) AppData {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.repo.Load(ctx)
	s.publish(data)
	return data.Clone()
}

// Run loads the stored record, applies fn, saves the result, and publishes
// it. When fn fails nothing is saved and the error is returned as is.
// Publishing happens before the write lock is released, so the snapshot
// always matches the last stored record.
func (s *Service) Run(ctx context.Context, fn func(AppData) (AppData, error)) (AppData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := s.repo.Load(ctx)
	next, err := fn(data)
	if err != nil {
		s.logger.WithError(err).Debug("mutation rejected")
		s.publish(data)
		return data.Clone(), err
	}
	s.repo.Save(ctx, next)
	s.publish(next)
	return next.Clone(), nil
}

// Schedule creates or edits the current pending service.
func (s *Service) Schedule(ctx context.Context, input ServiceInput) (AppData, error) {
	return s.ScheduleFrom(ctx, func(AppData) (ServiceInput, error) {
		return input, nil
	})
}

// ScheduleFrom builds the input from the freshly loaded record and
// schedules it in the same cycle. Use it when the input depends on stored
// state, such as the default interval.
func (s *Service) ScheduleFrom(ctx context.Context, build func(AppData) (ServiceInput, error)) (AppData, error) {
	var input ServiceInput
	data, err := s.Run(ctx, func(data AppData) (AppData, error) {
		var err error
		if input, err = build(data); err != nil {
			return data, err
		}
		return s.mutator.ScheduleOrUpdateService(data, input)
	})
	if err != nil {
		return data, err
	}
	s.logger.WithFields(logrus.Fields{
		"id":       data.Current.ID,
		"type":     data.Current.ServiceType,
		"next_due": data.Current.NextDue,
		"edit":     input.Editing != nil,
	}).Info("service scheduled")
	return data, nil
}

// UpdateCurrent edits the pending service, keeping its id and date.
func (s *Service) UpdateCurrent(ctx context.Context, edit func(Form) Form) (AppData, error) {
	return s.Run(ctx, func(data AppData) (AppData, error) {
		if !data.HasPending() {
			return data, ErrNoCurrentService
		}
		form := edit(NewForm(data, data.Current, nil))
		input, err := form.Input()
		if err != nil {
			return data, err
		}
		return s.mutator.ScheduleOrUpdateService(data, input)
	})
}

// Complete marks the pending service done and moves it into history.
func (s *Service) Complete(ctx context.Context) (AppData, error) {
	data, err := s.Run(ctx, s.mutator.CompleteCurrentService)
	if err != nil {
		return data, err
	}
	s.logger.WithFields(logrus.Fields{
		"id":       data.History[0].ID,
		"odometer": data.History[0].Odometer,
	}).Info("service completed")
	return data, nil
}

// SetDefaultInterval updates the interval used to pre-fill new entries.
func (s *Service) SetDefaultInterval(ctx context.Context, value float64) (AppData, error) {
	return s.Run(ctx, func(data AppData) (AppData, error) {
		return UpdateDefaultInterval(data, value)
	})
}

// Subscribe registers fn to receive every published snapshot in order.
// fn runs while the write lock is held: it must not block or call back
// into the Service. The returned func removes the subscription.
func (s *Service) Subscribe(fn func(AppData)) func() {
	s.snapMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.snapMu.Unlock()

	return func() {
		s.snapMu.Lock()
		delete(s.subscribers, id)
		s.snapMu.Unlock()
	}
}

// publish must be called with s.mu held.
func (s *Service) publish(data AppData) {
	s.snapMu.Lock()
	s.snapshot = data.Clone()
	subs := make([]func(AppData), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.snapMu.Unlock()

	for _, fn := range subs {
		fn(data.Clone())
	}
}
