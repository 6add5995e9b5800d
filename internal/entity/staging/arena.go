// Package staging holds uploaded payloads awaiting publication.
//
// An upload can be staged first and published later by handle. The arena keeps
// each staged record in memory under a fresh handle; handles are single-use
// and expire after a TTL, so an abandoned upload never lingers and a handle
// can never publish twice. Concurrent uploads stage independently: there is no
// shared slot to overwrite.
package staging

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/tablegate/internal/entity/domain"
)

// janitorInterval is how often expired entries are swept. Take checks expiry
// itself, so the sweep only bounds memory, not correctness.
const janitorInterval = 1 * time.Minute

// Arena stages parsed records between upload and publication.
type Arena struct {
	ttl     time.Duration
	entries sync.Map // map[string]*entry
	done    chan struct{}
	closeMu sync.Once
}

type entry struct {
	record    domain.Record
	expiresAt time.Time
}

// NewArena creates an arena whose staged entries expire after ttl.
// Call Close to stop the background sweeper.
func NewArena(ttl time.Duration) *Arena {
	a := &Arena{
		ttl:  ttl,
		done: make(chan struct{}),
	}
	go a.janitor()
	return a
}

// Put stages a record and returns its handle and absolute expiry.
// The record is copied, so later mutation by the caller has no effect.
func (a *Arena) Put(record domain.Record) (id string, expiresAt time.Time) {
	id = uuid.Must(uuid.NewV7()).String()
	expiresAt = time.Now().UTC().Add(a.ttl)
	a.entries.Store(id, &entry{
		record:    record.Clone(),
		expiresAt: expiresAt,
	})
	return id, expiresAt
}

// Take removes and returns the staged record for the given handle.
// Handles are single-use: a second Take with the same handle fails. Unknown,
// consumed, and expired handles all return ErrStagingNotFound.
func (a *Arena) Take(id string) (domain.Record, error) {
	val, ok := a.entries.LoadAndDelete(id)
	if !ok {
		return nil, domain.ErrStagingNotFound
	}
	e := val.(*entry)
	if time.Now().UTC().After(e.expiresAt) {
		return nil, domain.ErrStagingNotFound
	}
	return e.record, nil
}

// Len reports the number of currently staged entries, expired ones included
// until the next sweep.
func (a *Arena) Len() int {
	count := 0
	a.entries.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// Close stops the background sweeper. Safe to call more than once.
func (a *Arena) Close() {
	a.closeMu.Do(func() {
		close(a.done)
	})
}

// janitor sweeps expired entries until Close.
func (a *Arena) janitor() {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.done:
			return
		case <-ticker.C:
			now := time.Now().UTC()
			a.entries.Range(func(key, value any) bool {
				if now.After(value.(*entry).expiresAt) {
					a.entries.Delete(key)
				}
				return true
			})
		}
	}
}
