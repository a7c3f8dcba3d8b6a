package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tidepool-org/prescription-wizard/draftstore"
	"github.com/tidepool-org/prescription-wizard/notify"
	"github.com/tidepool-org/prescription-wizard/prescriptions"
)

var Module = fx.Provide(NewConfig, NewClock, NewSessions)

var ErrSessionNotFound = errors.New("wizard session not found")

type Config struct {
	SubmissionCooldown time.Duration `envconfig:"TIDEPOOL_WIZARD_SUBMISSION_COOLDOWN" default:"1s"`
}

func NewConfig() (Config, error) {
	cfg := Config{}
	err := envconfig.Process("", &cfg)
	return cfg, err
}

func NewClock() clock.Clock {
	return clock.New()
}

type Params struct {
	fx.In

	Config    Config
	Store     draftstore.Store
	Service   prescriptions.Service
	Notifier  notify.Notifier
	Clock     clock.Clock
	Logger    *zap.SugaredLogger
	Lifecycle fx.Lifecycle `optional:"true"`
}

// Sessions keeps the wizard sessions started by the api
type Sessions struct {
	config   Config
	store    draftstore.Store
	service  prescriptions.Service
	notifier notify.Notifier
	clock    clock.Clock
	logger   *zap.SugaredLogger

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessions(p Params) *Sessions {
	s := &Sessions{
		config:   p.Config,
		store:    p.Store,
		service:  p.Service,
		notifier: p.Notifier,
		clock:    p.Clock,
		logger:   p.Logger,
		sessions: map[string]*Session{},
	}
	if p.Lifecycle != nil {
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				s.Wait()
				return nil
			},
		})
	}
	return s
}

// Start creates a session with a new identifier. The options session id is ignored.
func (s *Sessions) Start(ctx context.Context, opts Options, router Router) (*Session, error) {
	opts.SessionId = uuid.NewString()
	session, err := Start(ctx, opts, Dependencies{
		Store:    s.store,
		Service:  s.service,
		Notifier: s.notifier,
		Router:   router,
		Clock:    s.clock,
		Cooldown: s.config.SubmissionCooldown,
		Logger:   s.logger,
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[session.Id()] = session
	s.mu.Unlock()
	return session, nil
}

func (s *Sessions) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Close forgets the session. An in-flight submission still completes.
func (s *Sessions) Close(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Wait blocks until the submissions of every known session completed
func (s *Sessions) Wait() {
	s.mu.RLock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		sessions = append(sessions, session)
	}
	s.mu.RUnlock()

	for _, session := range sessions {
		session.Wait()
	}
}
