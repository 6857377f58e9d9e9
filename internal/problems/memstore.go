package problems

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/programme-lv/judge/internal/execution"
)

// MemStore keeps problems in memory.
type MemStore struct {
	mu        sync.RWMutex
	problems  map[string]*Problem
	solutions map[string]map[execution.LanguageID][]byte
	tests     map[string][]execution.TestCase
}

func NewMemStore() *MemStore {
	return &MemStore{
		problems:  make(map[string]*Problem),
		solutions: make(map[string]map[execution.LanguageID][]byte),
		tests:     make(map[string][]execution.TestCase),
	}
}

// Put adds or replaces a problem together with its solutions and tests.
func (s *MemStore) Put(p Problem, solutions map[execution.LanguageID][]byte, tests []execution.TestCase) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.Solutions = p.Solutions[:0:0]
	for lang := range solutions {
		p.Solutions = append(p.Solutions, lang)
	}
	slices.Sort(p.Solutions)

	s.problems[p.ID] = &p
	s.solutions[p.ID] = solutions
	s.tests[p.ID] = slices.Clone(tests)
}

func (s *MemStore) FindProblemByID(_ context.Context, id string) (*Problem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.problems[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProblemNotFound, id)
	}
	cp := *p
	return &cp, nil
}

func (s *MemStore) FindReferenceSolution(_ context.Context, id string, lang execution.LanguageID) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.problems[id]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrProblemNotFound, id)
	}
	src, ok := s.solutions[id][lang]
	if !ok {
		return nil, fmt.Errorf("%w: problem %s has none in %s", execution.ErrNoReferenceSolution, id, lang)
	}
	return src, nil
}

func (s *MemStore) FindTestCases(_ context.Context, id string) ([]execution.TestCase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tests, ok := s.tests[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrProblemNotFound, id)
	}
	return slices.Clone(tests), nil
}
