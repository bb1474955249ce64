package booking

import (
	"strconv"
	"sync"

	"durianflight/pkg/idgen"
	"durianflight/pkg/logger"
)

// Service owns one Workflow per user session. Sessions live in memory for
// the lifetime of the process; bookings themselves are never persisted
// here, the inventory provider is the system of record.
type Service struct {
	mu        sync.RWMutex
	sessions  map[string]*Workflow
	inventory Inventory
	notifier  Notifier
	idgen     idgen.Generator
	logger    logger.Client
}

func NewService(inventory Inventory, notifier Notifier, gen idgen.Generator, log logger.Client) *Service {
	return &Service{
		sessions:  make(map[string]*Workflow),
		inventory: inventory,
		notifier:  notifier,
		idgen:     gen,
		logger:    log,
	}
}

// CreateSession starts a new workflow session and returns its ID.
func (s *Service) CreateSession() string {
	id := strconv.FormatInt(s.idgen.GenerateID(), 10)

	s.mu.Lock()
	s.sessions[id] = NewWorkflow(s.inventory, s.notifier, s.logger)
	s.mu.Unlock()

	s.logger.Info("session created", logger.Field{Key: "session_id", Value: id})
	return id
}

// Workflow returns the workflow for a session ID.
func (s *Service) Workflow(id string) (*Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wf, ok := s.sessions[id]
	if !ok {
		return nil, NewNotFoundError("session " + id + " not found")
	}
	return wf, nil
}

// DropSession discards a session and its in-progress state.
func (s *Service) DropSession(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}
