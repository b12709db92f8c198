package verification

import (
	"sync"

	"github.com/google/uuid"
)

// lockRegistry tracks in-flight verification per (case, document) pair.
// A second verification request for a locked pair is rejected rather
// than queued.
type lockRegistry struct {
	mu     sync.Mutex
	locked map[lockKey]struct{}
}

type lockKey struct {
	caseID     uuid.UUID
	documentID uuid.UUID
}

func newLockRegistry() *lockRegistry {
	return &lockRegistry{locked: make(map[lockKey]struct{})}
}

// Acquire claims the lock for a pair. Returns ErrInProgress when the
// pair is already being verified.
func (r *lockRegistry) Acquire(caseID, documentID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := lockKey{caseID, documentID}
	if _, held := r.locked[key]; held {
		return ErrInProgress
	}
	r.locked[key] = struct{}{}
	return nil
}

// Release frees the lock for a pair. Safe to call for an unheld lock.
func (r *lockRegistry) Release(caseID, documentID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locked, lockKey{caseID, documentID})
}
