package service

import (
	"sync"
	"time"

	"quizverse_backend/pkg/apperror"
)

const DefaultSessionTimeout = 1800 * time.Second

// PresenceTracker is the process-wide map of active users. It estimates how
// many users are online and gates long-idle sessions; it is not persisted and
// is not the source of truth for authentication.
type PresenceTracker struct {
	mu       sync.Mutex
	lastSeen map[uint]time.Time
	timeout  time.Duration
	now      func() time.Time
}

func NewPresenceTracker(timeout time.Duration) *PresenceTracker {
	if timeout <= 0 {
		timeout = DefaultSessionTimeout
	}
	return &PresenceTracker{
		lastSeen: make(map[uint]time.Time),
		timeout:  timeout,
		now:      time.Now,
	}
}

// Register marks a user present after a successful login.
func (p *PresenceTracker) Register(userID uint) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lastSeen[userID] = p.now()
}

// Touch refreshes the user's presence on an authenticated request. If the
// user's entry has gone stale (or was already evicted) the session is
// considered expired and must be re-established through login.
func (p *PresenceTracker) Touch(userID uint) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	p.evictLocked(now)

	if _, ok := p.lastSeen[userID]; !ok {
		return apperror.ErrSessionExpired
	}
	p.lastSeen[userID] = now
	return nil
}

// Remove drops a user on logout or account deletion.
func (p *PresenceTracker) Remove(userID uint) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.lastSeen, userID)
}

// OnlineCount reports how many users are currently considered online.
func (p *PresenceTracker) OnlineCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.evictLocked(p.now())
	return len(p.lastSeen)
}

// OnlineUsers returns the IDs of the currently active users.
func (p *PresenceTracker) OnlineUsers() []uint {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.evictLocked(p.now())

	ids := make([]uint, 0, len(p.lastSeen))
	for id := range p.lastSeen {
		ids = append(ids, id)
	}
	return ids
}

func (p *PresenceTracker) evictLocked(now time.Time) {
	cutoff := now.Add(-p.timeout)
	for id, seen := range p.lastSeen {
		if seen.Before(cutoff) {
			delete(p.lastSeen, id)
		}
	}
}
