// Package engine assembles the group, membership, and default-group
// services over a shared store and an injected authorization oracle.
package engine

import (
	"time"

	"github.com/JohnathanALves/reaction"
	"github.com/JohnathanALves/reaction/internal/repos"
	"github.com/JohnathanALves/reaction/internal/repos/db"
	"github.com/JohnathanALves/reaction/internal/repos/inmemory"
	"github.com/JohnathanALves/reaction/logx"
	"github.com/JohnathanALves/reaction/metrics"
	"github.com/JohnathanALves/reaction/sqlx"
)

type Engine struct {
	logger logx.Logger

	groups      *GroupService
	memberships *MembershipService
	defaults    *DefaultGroupResolver
}

type store interface {
	repos.GroupRepo
	repos.MembershipRepo
	repos.DefaultGroupRepo
}

func New(opts ...Option) (*Engine, error) {
	config := &engineConfig{
		logger:  &emptyLogger{},
		statter: &emptyStatter{},
	}

	for _, opt := range opts {
		opt(config)
	}

	if config.authorizer == nil {
		return nil, reaction.ErrNoAuthorizer
	}

	var s store
	if config.conn == nil {
		s = inmemory.NewStore()
	} else {
		s = db.NewStore(config.conn)
	}

	logger := config.logger

	return &Engine{
		logger:      logger,
		groups:      newGroupService(logger, config.statter, config.authorizer, s, s, s),
		memberships: newMembershipService(logger, config.statter, config.authorizer, s, s, s),
		defaults:    newDefaultGroupResolver(logger, config.statter, config.authorizer, s, s),
	}, nil
}

func (e *Engine) Groups() *GroupService {
	return e.groups
}

func (e *Engine) Memberships() *MembershipService {
	return e.memberships
}

func (e *Engine) Defaults() *DefaultGroupResolver {
	return e.defaults
}

type Option func(*engineConfig)

func WithLogger(logger logx.Logger) Option {
	return func(o *engineConfig) {
		o.logger = logger
	}
}

// WithDBConn switches the engine from the in-memory store to the SQL store.
func WithDBConn(conn *sqlx.DB) Option {
	return func(o *engineConfig) {
		o.conn = conn
	}
}

// WithAuthorizer sets the oracle consulted before every mutation. There is
// no default; New fails without one.
func WithAuthorizer(authorizer reaction.Authorizer) Option {
	return func(o *engineConfig) {
		o.authorizer = authorizer
	}
}

func WithStatter(statter metrics.Statter) Option {
	return func(o *engineConfig) {
		o.statter = statter
	}
}

type engineConfig struct {
	logger  logx.Logger
	statter metrics.Statter

	authorizer reaction.Authorizer

	conn *sqlx.DB
}

type emptyLogger struct{}

func (l *emptyLogger) WithName(string) logx.Logger {
	return l
}

func (l *emptyLogger) WithData(...logx.Data) logx.Logger {
	return l
}

func (l *emptyLogger) Debug(string, ...logx.Data) {}

func (l *emptyLogger) Info(string, ...logx.Data) {}

func (l *emptyLogger) Error(string, error, ...logx.Data) {}

type emptyStatter struct{}

func (s *emptyStatter) Inc(string, int64) {}

func (s *emptyStatter) Gauge(string, int64) {}

func (s *emptyStatter) TimingDuration(string, time.Duration) {}
