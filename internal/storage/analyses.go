// Package storage keeps completed and in-flight analyses in memory for the
// retrieval endpoints. Nothing survives the process; there is no database.
package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"accentdetect/internal/model"
)

type Store struct {
	mu       sync.Mutex
	analyses map[uuid.UUID]*model.Analysis
	order    []uuid.UUID // insertion order, oldest first
}

func New() *Store {
	return &Store{analyses: make(map[uuid.UUID]*model.Analysis)}
}

// Create registers a new analysis in the validating state and returns a copy.
func (s *Store) Create(source, input string) *model.Analysis {
	a := &model.Analysis{
		ID:        uuid.New(),
		Source:    source,
		Input:     input,
		Status:    model.StatusValidating,
		Metadata:  make(map[string]interface{}),
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	s.analyses[a.ID] = a
	s.order = append(s.order, a.ID)
	s.mu.Unlock()

	return copyAnalysis(a)
}

// UpdateStatus moves an analysis to a new pipeline state.
func (s *Store) UpdateStatus(id uuid.UUID, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.analyses[id]; ok {
		a.Status = status
	}
}

// Complete records a finished run with its result and metadata.
func (s *Store) Complete(id uuid.UUID, result model.AccentResult, metadata map[string]interface{}, elapsedMs int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.analyses[id]; ok {
		a.Status = model.StatusDone
		a.Result = &result
		a.ProcessingTimeMs = &elapsedMs
		for k, v := range metadata {
			a.Metadata[k] = v
		}
	}
}

// Fail records a failed run with its error kind and message.
func (s *Store) Fail(id uuid.UUID, kind, message string, elapsedMs int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.analyses[id]; ok {
		a.Status = model.StatusFailed
		a.ErrorKind = &kind
		a.ErrorMessage = &message
		a.ProcessingTimeMs = &elapsedMs
	}
}

// Get retrieves an analysis by ID.
func (s *Store) Get(id uuid.UUID) (*model.Analysis, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.analyses[id]
	if !ok {
		return nil, false
	}
	// Return a copy to avoid race conditions
	return copyAnalysis(a), true
}

// List returns up to limit analyses, newest first.
func (s *Store) List(limit int) []*model.Analysis {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.Analysis, 0, limit)
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		if a, ok := s.analyses[s.order[i]]; ok {
			out = append(out, copyAnalysis(a))
		}
	}
	return out
}

func copyAnalysis(a *model.Analysis) *model.Analysis {
	cp := *a
	if a.Result != nil {
		r := *a.Result
		cp.Result = &r
	}
	cp.Metadata = make(map[string]interface{}, len(a.Metadata))
	for k, v := range a.Metadata {
		cp.Metadata[k] = v
	}
	return &cp
}
