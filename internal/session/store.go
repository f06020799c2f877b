// Package session holds the single source of truth for who is logged in.
//
// The Store keeps the current Session in memory and mirrors it into one
// durable storage slot so it survives a restart. It never talks to the
// backend: the login view obtains the token and hands it over.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"oasi/internal/logging"
	"oasi/internal/storage"
)

// StorageKey is the durable slot holding the serialized session.
const StorageKey = "oasi.session"

// ErrInvalidSession is returned by Login for an empty token or a user
// without an id.
var ErrInvalidSession = errors.New("session: token and user id are required")

// UserSummary identifies the logged-in user.
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"nome"`
	Email string `json:"email,omitempty"`
	Phone string `json:"telefone,omitempty"`
}

// Session is the authenticated user/token pair. The zero value is the
// empty session.
type Session struct {
	User  *UserSummary `json:"user"`
	Token string       `json:"token"`
}

// Present reports whether the session carries a user and a token.
func (s Session) Present() bool {
	return s.User != nil && s.User.ID > 0 && s.Token != ""
}

func (s Session) clone() Session {
	if s.User == nil {
		return Session{Token: s.Token}
	}
	u := *s.User
	return Session{User: &u, Token: s.Token}
}

// Store owns the current Session.
type Store struct {
	mu        sync.RWMutex
	storage   storage.Storage
	current   Session
	listeners map[int]func(Session)
	nextID    int

	// unsaved marks a session that exists only in memory because the
	// last Login could not persist it.
	unsaved bool
}

// NewStore returns a Store with an empty session backed by st.
// Call Restore once at startup to load a persisted session.
func NewStore(st storage.Storage) *Store {
	return &Store{
		storage:   st,
		listeners: make(map[int]func(Session)),
	}
}

// Login replaces the session with token/user and persists it. The
// in-memory session is updated even if persisting fails; the returned
// error then only reports that the session will not survive a restart,
// and Restore keeps the in-memory session until the next Login or Logout.
func (s *Store) Login(token string, user UserSummary) error {
	if token == "" || user.ID <= 0 {
		return ErrInvalidSession
	}

	next := Session{User: &user, Token: token}

	s.mu.Lock()
	s.current = next.clone()
	s.mu.Unlock()

	logging.Session("login: user %d (%s)", user.ID, user.Name)
	s.notify(next)

	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	err = s.storage.Set(StorageKey, data)

	s.mu.Lock()
	s.unsaved = err != nil
	s.mu.Unlock()

	if err != nil {
		logging.Get(logging.CategorySession).Error("login: failed to persist session: %v", err)
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Logout clears the session and removes the durable slot.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.current = Session{}
	s.unsaved = false
	s.mu.Unlock()

	logging.Session("logout")
	s.notify(Session{})

	if err := s.storage.Remove(StorageKey); err != nil {
		logging.Get(logging.CategorySession).Error("logout: failed to remove slot: %v", err)
		return fmt.Errorf("failed to remove persisted session: %w", err)
	}
	return nil
}

// Restore loads the persisted session. An absent, unreadable or malformed
// slot yields the empty session. Restore never fails. A session whose
// Login could not be persisted is kept rather than overwritten.
func (s *Store) Restore() Session {
	s.mu.RLock()
	unsaved, current := s.unsaved, s.current.clone()
	s.mu.RUnlock()
	if unsaved {
		logging.Get(logging.CategorySession).Warn("restore: keeping unsaved session for user %d", current.User.ID)
		return current
	}

	restored := s.load()

	s.mu.Lock()
	changed := !sameSession(s.current, restored)
	s.current = restored.clone()
	s.mu.Unlock()

	if changed {
		s.notify(restored)
	}
	return restored
}

func (s *Store) load() Session {
	data, ok, err := s.storage.Get(StorageKey)
	if err != nil {
		logging.Get(logging.CategorySession).Warn("restore: storage read failed: %v", err)
		return Session{}
	}
	if !ok {
		logging.SessionDebug("restore: no persisted session")
		return Session{}
	}

	var persisted Session
	if err := json.Unmarshal(data, &persisted); err != nil {
		logging.Get(logging.CategorySession).Warn("restore: malformed session slot: %v", err)
		return Session{}
	}
	if !persisted.Present() {
		logging.Get(logging.CategorySession).Warn("restore: incomplete session slot ignored")
		return Session{}
	}

	logging.Session("restore: user %d", persisted.User.ID)
	return persisted
}

// Current returns a copy of the current session.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.clone()
}

// Authenticated reports whether a session is present.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Present()
}

// UserID returns the logged-in user's id, for scoping backend calls.
func (s *Store) UserID() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.current.Present() {
		return 0, false
	}
	return s.current.User.ID, true
}

// Token returns the bearer token, or "" without a session.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Token
}

// Subscribe registers fn to be called after every session change.
// Listeners run synchronously on the goroutine that made the change.
func (s *Store) Subscribe(fn func(Session)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(sess Session) {
	s.mu.RLock()
	fns := make([]func(Session), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(sess.clone())
	}
}

func sameSession(a, b Session) bool {
	if a.Token != b.Token {
		return false
	}
	if a.User == nil || b.User == nil {
		return a.User == b.User
	}
	return *a.User == *b.User
}
