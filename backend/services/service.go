// Package services holds the quiz platform operations: accounts, quiz
// authoring, enrollment, grading and reporting. Every operation receives the
// request context and works on the *gorm.DB handle given to New; storage
// errors come back as *PersistenceError, guard failures as the Err* values.
package services

import (
	"context"
	"errors"
	"io"
	"log"

	"classquiz/backend/cache"
	"classquiz/backend/events"

	"gorm.io/gorm"
)

type Service struct {
	db          *gorm.DB
	logger      *log.Logger
	leaderboard cache.Leaderboard
	publisher   events.Publisher
}

type Option func(*Service)

func WithLeaderboard(lb cache.Leaderboard) Option {
	return func(s *Service) {
		if lb != nil {
			s.leaderboard = lb
		}
	}
}

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func New(db *gorm.DB, logger *log.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Service{
		db:          db,
		logger:      logger,
		leaderboard: cache.Nop{},
		publisher:   events.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping checks that the database answers.
func (s *Service) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return persistence("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return persistence("ping", err)
	}
	return nil
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
