package navigation

import (
	"sync"

	"oasi/internal/logging"
)

// State is the navigation snapshot. SelectedEntity is meaningful only when
// HasEntity is true.
type State struct {
	Current        ViewID
	SelectedEntity EntityID
	HasEntity      bool
}

// Entity returns the selected entity, if any.
func (s State) Entity() (EntityID, bool) {
	return s.SelectedEntity, s.HasEntity
}

// Selector owns the NavigationState. It is never persisted; a new
// Selector always starts at Home.
type Selector struct {
	mu          sync.RWMutex
	state       State
	subscribers []func(State)
}

// New returns a Selector at Home with no selected entity.
func New() *Selector {
	return &Selector{state: State{Current: Home}}
}

// State returns the current snapshot.
func (s *Selector) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Current returns the current view.
func (s *Selector) Current() ViewID {
	return s.State().Current
}

// SetView replaces the current view. Moving to any view other than
// ProductDetail clears the selected entity.
func (s *Selector) SetView(v ViewID) {
	s.mu.Lock()
	from := s.state.Current
	s.state.Current = v
	if v != ProductDetail {
		s.state.SelectedEntity = 0
		s.state.HasEntity = false
	}
	next := s.state
	s.mu.Unlock()

	logging.Navigation("view %s -> %s", from, v)
	s.notify(next)
}

// SetSelectedEntity sets the entity the product-detail view shows.
func (s *Selector) SetSelectedEntity(id EntityID) {
	s.mu.Lock()
	s.state.SelectedEntity = id
	s.state.HasEntity = true
	next := s.state
	s.mu.Unlock()

	logging.NavigationDebug("selected entity %d", id)
	s.notify(next)
}

// ClearSelectedEntity drops the selected entity.
func (s *Selector) ClearSelectedEntity() {
	s.mu.Lock()
	s.state.SelectedEntity = 0
	s.state.HasEntity = false
	next := s.state
	s.mu.Unlock()

	s.notify(next)
}

// Navigate selects id and then switches to v.
func (s *Selector) Navigate(v ViewID, id EntityID) {
	s.SetSelectedEntity(id)
	s.SetView(v)
}

// Subscribe registers fn to run synchronously after every change.
func (s *Selector) Subscribe(fn func(State)) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.mu.Unlock()
}

func (s *Selector) notify(st State) {
	s.mu.RLock()
	subs := append([]func(State){}, s.subscribers...)
	s.mu.RUnlock()
	for _, fn := range subs {
		fn(st)
	}
}
