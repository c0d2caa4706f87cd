// Package session keeps per-user UI state in memory. Nothing here is
// persisted: navigation state is convenience, not authorization, and a
// restart only costs the user one /start.
package session

import (
	"sync"

	"github.com/dmitrijs2005/filekeeper/internal/bot/models"
)

// Store is a keyed store of UserSession values. Besides guarding its own
// map, it hands out a per-user mutex so the router can serialize handler
// invocations for one user: a user spamming buttons must never race two
// read-modify-write cycles against the same session.
type Store struct {
	mu       sync.Mutex
	sessions map[int64]*models.UserSession
	locks    map[int64]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]*models.UserSession),
		locks:    make(map[int64]*sync.Mutex),
	}
}

// Get returns the session for userID, creating a default-initialized one on
// first access.
func (s *Store) Get(userID int64) *models.UserSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(userID)
}

func (s *Store) getLocked(userID int64) *models.UserSession {
	sess, ok := s.sessions[userID]
	if !ok {
		sess = models.NewUserSession(userID)
		s.sessions[userID] = sess
	}
	return sess
}

// Update applies fn to the user's session under the store lock.
func (s *Store) Update(userID int64, fn func(*models.UserSession)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.getLocked(userID))
}

// Reset clears the session back to defaults (used on returning home or after
// completing a multi-step action). The live message reference survives so the
// renderer can keep editing the same message.
func (s *Store) Reset(userID int64) {
	s.Update(userID, func(sess *models.UserSession) {
		sess.Reset()
	})
}

// Lock acquires the per-user handler mutex. Callers must pair it with
// Unlock; the router wraps every event in it.
func (s *Store) Lock(userID int64) {
	s.userMutex(userID).Lock()
}

func (s *Store) Unlock(userID int64) {
	s.userMutex(userID).Unlock()
}

func (s *Store) userMutex(userID int64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		s.locks[userID] = m
	}
	return m
}
