package state

import (
	"sync"
	"time"
)

// DashboardInfo is what the background poller last learned about the target.
type DashboardInfo struct {
	Target      string
	CurrentUser string
	Err         string
	CheckedAt   time.Time
}

// DashboardStore holds the dashboard cards. It is separate from the output
// sink so polling never overwrites command results.
type DashboardStore interface {
	Snapshot() DashboardInfo
	SetCurrentUser(target, user string, at time.Time)
	SetError(target, msg string, at time.Time)
}

type dashboardStore struct {
	mu   sync.RWMutex
	info DashboardInfo
}

func NewDashboardStore() DashboardStore {
	return &dashboardStore{}
}

func (s *dashboardStore) Snapshot() DashboardInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info
}

func (s *dashboardStore) SetCurrentUser(target, user string, at time.Time) {
	s.mu.Lock()
	s.info = DashboardInfo{Target: target, CurrentUser: user, CheckedAt: at}
	s.mu.Unlock()
}

func (s *dashboardStore) SetError(target, msg string, at time.Time) {
	s.mu.Lock()
	s.info = DashboardInfo{Target: target, Err: msg, CheckedAt: at}
	s.mu.Unlock()
}
