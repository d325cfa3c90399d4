// Package store owns the in-memory collection of loaded projects. All
// mutation of loaded project state goes through it, guarded by a single
// lock, so services and the autosave path can share it across goroutines.
package store

import (
	"sync"

	"github.com/rowanmb/jobsite/internal/domain/project"
)

var _ project.Store = (*Store)(nil)

// Store is the process-wide project collection. It is populated on list
// load, updated field-by-field through Apply, and emptied on Reset.
type Store struct {
	mu       sync.RWMutex
	projects map[string]*project.Project
}

// New creates an empty store.
func New() *Store {
	return &Store{projects: make(map[string]*project.Project)}
}

// Replace swaps the loaded collection for the given projects.
func (s *Store) Replace(projects []*project.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = make(map[string]*project.Project, len(projects))
	for _, p := range projects {
		s.projects[p.ID] = p
	}
}

// Put inserts or overwrites a single project.
func (s *Store) Put(p *project.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = p
}

// Get returns a copy of the project with the given id.
func (s *Store) Get(id string) (project.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return project.Project{}, false
	}
	return p.Clone(), true
}

// Apply runs mutator against the stored project under the write lock and
// returns a snapshot of the resulting state. The mutation is synchronous
// and always succeeds when the project is loaded.
func (s *Store) Apply(id string, mutator func(*project.Project)) (project.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return project.Project{}, false
	}
	mutator(p)
	return p.Clone(), true
}

// Remove drops the project from the collection. It does not touch pending
// autosave timers; a scheduled write for the removed project still fires.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.projects, id)
}

// All returns copies of every loaded project.
func (s *Store) All() []project.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]project.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p.Clone())
	}
	return out
}

// Len reports how many projects are loaded.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.projects)
}

// Reset empties the collection (sign-out).
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = make(map[string]*project.Project)
}
