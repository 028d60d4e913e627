package session

import (
	"sync"

	"github.com/jon4hz/familytravel/internal/database"
	"github.com/samber/lo"
)

// Roster is the most recently fetched snapshot of all users.
type Roster struct {
	mu    sync.RWMutex
	users []database.User
}

// NewRoster creates a roster holding the given seed users.
func NewRoster(seed []database.User) *Roster {
	return &Roster{users: append([]database.User(nil), seed...)}
}

// Replace swaps the snapshot.
func (r *Roster) Replace(users []database.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append([]database.User(nil), users...)
}

// Users returns a copy of the snapshot.
func (r *Roster) Users() []database.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]database.User(nil), r.users...)
}

// Find returns the user with the given id.
func (r *Roster) Find(id int64) (database.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Find(r.users, func(u database.User) bool { return u.ID == id })
}

// First returns the user with the lowest id.
func (r *Roster) First() (database.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.users) == 0 {
		return database.User{}, false
	}
	return lo.MinBy(r.users, func(a, b database.User) bool { return a.ID < b.ID }), true
}
