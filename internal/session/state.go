// Package session tracks which household member is currently active.
package session

import (
	"fmt"
	"sync"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// State stores the id of the active user.
type State interface {
	ActiveUserID(c *gin.Context) int64
	SetActiveUserID(c *gin.Context, id int64) error
}

var (
	_ State = (*GlobalState)(nil)
	_ State = (*CookieState)(nil)
)

// GlobalState keeps one active user for the whole process.
// Every client sees and changes the same user; concurrent requests are
// serialized on the mutex but the last writer wins.
type GlobalState struct {
	mu       sync.RWMutex
	activeID int64
}

// NewGlobalState creates a global state with defaultID as the active user.
func NewGlobalState(defaultID int64) *GlobalState {
	return &GlobalState{activeID: defaultID}
}

func (s *GlobalState) ActiveUserID(_ *gin.Context) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID
}

func (s *GlobalState) SetActiveUserID(_ *gin.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activeID = id
	return nil
}

const activeUserKey = "active_user_id"

// CookieState keeps the active user per browser in the gin session.
// It requires the sessions middleware to be installed.
type CookieState struct {
	defaultID int64
}

// NewCookieState creates a cookie backed state falling back to defaultID.
func NewCookieState(defaultID int64) *CookieState {
	return &CookieState{defaultID: defaultID}
}

func (s *CookieState) ActiveUserID(c *gin.Context) int64 {
	if id, ok := sessions.Default(c).Get(activeUserKey).(int64); ok && id > 0 {
		return id
	}
	return s.defaultID
}

func (s *CookieState) SetActiveUserID(c *gin.Context, id int64) error {
	session := sessions.Default(c)
	session.Set(activeUserKey, id)
	if err := session.Save(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}
