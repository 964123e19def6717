package genstore

import (
	"context"
	"sync"
	"time"
)

type localGen struct {
	gen     uint64
	touched time.Time
}

// LocalGenStore keeps generations in-process.
// With a sweep interval and retention set, a background loop forgets
// counters that have not been bumped within retention.
type LocalGenStore struct {
	mu   sync.RWMutex
	gens map[string]localGen

	ticker *time.Ticker
	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

var _ GenStore = (*LocalGenStore)(nil)

func NewLocalGenStore(sweepInterval, retention time.Duration) *LocalGenStore {
	s := &LocalGenStore{gens: make(map[string]localGen)}
	if sweepInterval > 0 && retention > 0 {
		s.ticker = time.NewTicker(sweepInterval)
		s.stopCh = make(chan struct{})
		s.wg.Add(1)
		go s.sweep(retention)
	}
	return s
}

func (s *LocalGenStore) sweep(retention time.Duration) {
	defer s.wg.Done()
	for {
		select {
		case <-s.ticker.C:
			s.Cleanup(retention)
		case <-s.stopCh:
			return
		}
	}
}

func (s *LocalGenStore) Snapshot(_ context.Context, format string) (uint64, error) {
	s.mu.RLock()
	g := s.gens[format].gen
	s.mu.RUnlock()
	return g, nil
}

func (s *LocalGenStore) Bump(_ context.Context, format string) (uint64, error) {
	now := time.Now()
	s.mu.Lock()
	g := s.gens[format]
	g.gen++
	g.touched = now
	s.gens[format] = g
	s.mu.Unlock()
	return g.gen, nil
}

// Cleanup forgets counters idle for longer than retention. A forgotten
// counter reads as 0 again, so retention should outlive the cache TTL.
func (s *LocalGenStore) Cleanup(retention time.Duration) {
	if retention <= 0 {
		return
	}
	cutoff := time.Now().Add(-retention)

	s.mu.Lock()
	for f, g := range s.gens {
		if g.touched.Before(cutoff) {
			delete(s.gens, f)
		}
	}
	s.mu.Unlock()
}

func (s *LocalGenStore) Close(_ context.Context) error {
	s.once.Do(func() {
		if s.stopCh == nil {
			return
		}
		s.ticker.Stop()
		close(s.stopCh)
		s.wg.Wait()
	})
	return nil
}
