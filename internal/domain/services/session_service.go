package services

import (
	"context"
	"sync"

	"github.com/agentfleet/watcher/internal/domain/entities"
	"github.com/agentfleet/watcher/internal/domain/errs"
	"github.com/agentfleet/watcher/internal/domain/interfaces"

	"go.uber.org/zap"
)

// SessionService creates and tracks graph sessions. Sessions live until
// deleted by the client or process exit.
type SessionService interface {
	CreateSession(ctx context.Context, view entities.ViewKind, filters entities.ViewFilters, direction LayoutDirection) (*GraphSession, error)
	GetSession(id string) (*GraphSession, error)
	DeleteSession(id string) error
}

type sessionService struct {
	batch    BatchService
	source   interfaces.ExpandDataSource
	logger   *zap.Logger
	mu       sync.RWMutex
	sessions map[string]*GraphSession
}

func NewSessionService(batch BatchService, source interfaces.ExpandDataSource, logger *zap.Logger) *sessionService {
	return &sessionService{
		batch:    batch,
		source:   source,
		logger:   logger,
		sessions: make(map[string]*GraphSession),
	}
}

func (s *sessionService) CreateSession(ctx context.Context, view entities.ViewKind, filters entities.ViewFilters, direction LayoutDirection) (*GraphSession, error) {
	if !view.Valid() {
		return nil, errs.ValidationErrorf("unknown view kind: %s", view)
	}

	session := newGraphSession(s.batch, newExpandCache(s.source), view, filters, direction, s.logger)
	if err := session.start(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.logger.Info("graph session created",
		zap.String("session_id", session.ID), zap.String("view", string(view)))
	return session, nil
}

func (s *sessionService) GetSession(id string) (*GraphSession, error) {
	if id == "" {
		return nil, errs.ValidationErrorf("session ID is required")
	}

	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errs.NotFoundErrorf("session not found: %s", id)
	}
	return session, nil
}

func (s *sessionService) DeleteSession(id string) error {
	s.mu.Lock()
	session, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	if !ok {
		return errs.NotFoundErrorf("session not found: %s", id)
	}
	session.Close()
	return nil
}

// verify interface implementation
var _ SessionService = &sessionService{}
