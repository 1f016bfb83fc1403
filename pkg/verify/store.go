// NFTGate - Discord NFT ownership verification bot

package verify

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/skyforge/nftgate/pkg/logger"
)

// PendingVerification is one user's in-flight ownership proof. Presence in
// the store means "awaiting transaction hash"; the record is deleted on
// every terminal outcome.
type PendingVerification struct {
	UserID    string
	Wallet    common.Address
	CreatedAt time.Time
}

// PendingStore is an in-memory map of user ID to pending verification.
// State does not survive a restart; users simply relink their wallet.
type PendingStore struct {
	mu      sync.Mutex
	window  time.Duration
	entries map[string]*PendingVerification
	now     func() time.Time
}

// NewPendingStore creates a store whose records expire after window.
func NewPendingStore(window time.Duration) *PendingStore {
	return &PendingStore{
		window:  window,
		entries: make(map[string]*PendingVerification),
		now:     time.Now,
	}
}

// Put creates or overwrites the pending record for a user. A new wallet
// submission always restarts the attempt, last writer wins.
func (s *PendingStore) Put(userID string, wallet common.Address) *PendingVerification {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := &PendingVerification{
		UserID:    userID,
		Wallet:    wallet,
		CreatedAt: s.now(),
	}
	s.entries[userID] = rec
	return rec
}

// Get returns the pending record for a user, if any.
func (s *PendingStore) Get(userID string) (*PendingVerification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.entries[userID]
	return rec, ok
}

// Delete removes the pending record for a user.
func (s *PendingStore) Delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, userID)
}

// Len returns the number of pending records.
func (s *PendingStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}

// Expired reports whether a record is older than the validation window.
func (s *PendingStore) Expired(rec *PendingVerification) bool {
	return s.now().Sub(rec.CreatedAt) > s.window
}

// StartSweeper evicts expired records on an interval until ctx is done.
// Expiry is still checked lazily on every transaction submission; the
// sweeper only bounds how long abandoned records linger.
func (s *PendingStore) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if evicted := s.sweep(); evicted > 0 {
					logger.InfoCF("verify", "Evicted expired verification requests", map[string]any{
						"count": evicted,
					})
				}
			}
		}
	}()
}

func (s *PendingStore) sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	cutoff := s.now().Add(-s.window)
	for userID, rec := range s.entries {
		if rec.CreatedAt.Before(cutoff) {
			delete(s.entries, userID)
			evicted++
		}
	}
	return evicted
}
