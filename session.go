package predictplot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aouyang1/go-predictplot/method"
	"github.com/aouyang1/go-predictplot/series"
)

var (
	ErrConsentRequired = errors.New("disclaimer must be accepted before adding points")
	ErrInvalidValue    = errors.New("invalid value")
)

const subscriberBuffer = 1

// Session owns one growing series, the enabled method selection and the dataset derived from
// them. Every mutation recomputes the dataset under the write lock so readers never observe a
// partially built dataset.
type Session struct {
	predictor *Predictor
	persister Persister
	opt       Options

	mu        sync.RWMutex
	store     *series.Store
	selection method.Selection
	dataset   ChartDataset
	consented bool

	subMu       sync.Mutex
	subscribers map[chan ChartDataset]struct{}

	// pending holds observations not yet handed to the persister, oldest first. A single
	// drain goroutine runs while the queue is non-empty.
	pmu      sync.Mutex
	pending  []series.Observation
	draining bool
	inflight sync.WaitGroup
}

// NewSession creates an empty session with every method enabled. A nil persister discards
// observations.
func NewSession(opt *Options, persister Persister) (*Session, error) {
	p, err := NewPredictor(opt)
	if err != nil {
		return nil, err
	}
	if persister == nil {
		persister = NopPersister{}
	}
	return &Session{
		predictor:   p,
		persister:   persister,
		opt:         p.Options(),
		store:       series.NewStore(),
		selection:   method.SelectAll(),
		dataset:     NewChartDataset(0),
		subscribers: make(map[chan ChartDataset]struct{}),
	}, nil
}

// Consent records that the disclaimer has been accepted
func (s *Session) Consent() {
	s.mu.Lock()
	s.consented = true
	s.mu.Unlock()
}

// Consented reports whether adding points is currently allowed
func (s *Session) Consented() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.consented || !s.opt.RequireConsent
}

// AddPoint appends value as the next observation, recomputes the dataset and queues the
// observation for persistence without waiting on it. Observations reach the persister in the
// order they were added.
func (s *Session) AddPoint(value float64) (series.Observation, error) {
	s.mu.Lock()
	if s.opt.RequireConsent && !s.consented {
		s.mu.Unlock()
		return series.Observation{}, ErrConsentRequired
	}

	obs, err := s.store.Append(value)
	if err != nil {
		s.mu.Unlock()
		return series.Observation{}, fmt.Errorf("%w, %w", ErrInvalidValue, err)
	}
	s.recompute()
	s.enqueue(obs)
	s.mu.Unlock()

	return obs, nil
}

// Reset clears the series and the dataset. Persisted history is untouched and the next
// point added is assigned index 1.
func (s *Session) Reset() {
	s.mu.Lock()
	s.store.Reset()
	s.recompute()
	s.mu.Unlock()
}

// SetSelection replaces the enabled methods and recomputes the dataset with the existing
// series
func (s *Session) SetSelection(sel method.Selection) {
	s.mu.Lock()
	s.selection = sel
	s.recompute()
	s.mu.Unlock()
}

// Selection returns the enabled methods
func (s *Session) Selection() method.Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// Series returns a copy of the observed series
func (s *Session) Series() series.Series {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Snapshot()
}

// Dataset returns a copy of the current dataset
func (s *Session) Dataset() ChartDataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset.Copy()
}

// recompute must be called with the write lock held so subscribers see datasets in
// mutation order
func (s *Session) recompute() {
	s.dataset = s.predictor.Dataset(s.store.Snapshot(), s.selection)
	s.publish(s.dataset)
}

// enqueue must be called with the write lock held so the queue follows append order
func (s *Session) enqueue(obs series.Observation) {
	s.inflight.Add(1)

	s.pmu.Lock()
	defer s.pmu.Unlock()
	s.pending = append(s.pending, obs)
	if !s.draining {
		s.draining = true
		go s.drain()
	}
}

func (s *Session) drain() {
	for {
		s.pmu.Lock()
		if len(s.pending) == 0 {
			s.draining = false
			s.pending = nil
			s.pmu.Unlock()
			return
		}
		obs := s.pending[0]
		s.pending = s.pending[1:]
		s.pmu.Unlock()

		s.persist(obs)
		s.inflight.Done()
	}
}

func (s *Session) persist(obs series.Observation) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("persister panicked", "entry_number", obs.Index, "value", obs.Value, "panic", fmt.Sprint(r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.opt.PersistTimeout)
	defer cancel()
	if err := s.persister.Persist(ctx, obs); err != nil {
		slog.Error("unable to persist observation", "entry_number", obs.Index, "value", obs.Value, "error", err.Error())
	}
}

// Wait blocks until every queued observation has been handed to the persister and the call
// has returned
func (s *Session) Wait() {
	s.inflight.Wait()
}

// Subscribe returns a channel receiving every newly computed dataset, starting with the
// current one. Slow receivers only see the latest dataset. The returned function
// unsubscribes and closes the channel.
func (s *Session) Subscribe() (<-chan ChartDataset, func()) {
	ch := make(chan ChartDataset, subscriberBuffer)

	s.mu.RLock()
	ch <- s.dataset.Copy()
	s.subMu.Lock()
	s.subscribers[ch] = struct{}{}
	s.subMu.Unlock()
	s.mu.RUnlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subscribers, ch)
			close(ch)
			s.subMu.Unlock()
		})
	}
	return ch, unsubscribe
}

func (s *Session) publish(ds ChartDataset) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	if len(s.subscribers) == 0 {
		return
	}
	for ch := range s.subscribers {
		ds := ds.Copy()
		select {
		case ch <- ds:
			continue
		default:
		}
		// drop the stale dataset so the latest one fits
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- ds:
		default:
		}
	}
}
