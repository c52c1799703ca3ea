package store

import (
	"sync"
	"time"

	"github.com/wonny/stockai/dashboard/internal/contracts"
	"github.com/wonny/stockai/dashboard/internal/notice"
)

// Snapshot is a point-in-time copy of the dashboard state
type Snapshot struct {
	SelectedStock       *contracts.Stock            `json:"selectedStock"`
	Prediction          *contracts.PredictionResult `json:"prediction"`
	Rankings            []contracts.StockRanking    `json:"rankings"`
	IsLoading           bool                        `json:"isLoading"`
	Notice              *notice.Notice              `json:"notice"`
	RankingsUpdatedAt   time.Time                   `json:"rankingsUpdatedAt"`
	PredictionUpdatedAt time.Time                   `json:"predictionUpdatedAt"`
}

// Store holds selection, predictions and rankings.
// Every write replaces a whole field; nothing is merged.
// ⭐ SSOT: 대시보드 상태는 이 구조체에서만
type Store struct {
	mu    sync.RWMutex
	state Snapshot

	guard          bool
	rankingsIssued uint64
	predictIssued  uint64

	subs    map[int]chan Snapshot
	nextSub int

	now func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithSequenceGuard drops responses that are not from the latest request.
// Off means the last response to resolve wins.
func WithSequenceGuard(on bool) Option {
	return func(s *Store) { s.guard = on }
}

// WithClock overrides time.Now (tests)
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty store (sequence guard on)
func New(opts ...Option) *Store {
	s := &Store{
		guard: true,
		subs:  make(map[int]chan Snapshot),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state.Rankings = []contracts.StockRanking{}
	return s
}

// Snapshot returns a copy of the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyLocked()
}

// BeginRankings issues a ticket for a rankings request
func (s *Store) BeginRankings() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rankingsIssued++
	return s.rankingsIssued
}

// ApplyRankings replaces the rankings; false when the response is stale
func (s *Store) ApplyRankings(seq uint64, rankings []contracts.StockRanking) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.guard && seq != s.rankingsIssued {
		return false
	}

	if rankings == nil {
		rankings = []contracts.StockRanking{}
	}
	s.state.Rankings = rankings
	s.state.RankingsUpdatedAt = s.now()
	s.publishLocked()
	return true
}

// FailRankings records a notice for a failed rankings request
func (s *Store) FailRankings(seq uint64, n *notice.Notice) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.guard && seq != s.rankingsIssued {
		return false
	}

	s.state.Notice = n
	s.publishLocked()
	return true
}

// SelectStock replaces the selection, drops the old prediction and
// issues a prediction ticket
func (s *Store) SelectStock(stock contracts.Stock) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	selected := stock
	s.state.SelectedStock = &selected
	s.state.Prediction = nil
	return s.beginPredictionLocked()
}

// BeginPrediction issues a prediction ticket for the current selection
func (s *Store) BeginPrediction() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beginPredictionLocked()
}

func (s *Store) beginPredictionLocked() uint64 {
	s.predictIssued++
	s.state.IsLoading = true
	s.state.Notice = nil
	s.publishLocked()
	return s.predictIssued
}

// ApplyPrediction stores a prediction result; false when stale
func (s *Store) ApplyPrediction(seq uint64, result *contracts.PredictionResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.guard && seq != s.predictIssued {
		return false
	}

	s.state.Prediction = result
	s.state.PredictionUpdatedAt = s.now()
	s.state.IsLoading = false
	s.publishLocked()
	return true
}

// FailPrediction records a notice for a failed prediction; false when stale
func (s *Store) FailPrediction(seq uint64, n *notice.Notice) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.guard && seq != s.predictIssued {
		return false
	}

	s.state.Notice = n
	s.state.IsLoading = false
	s.publishLocked()
	return true
}

// SetNotice replaces the current notice
func (s *Store) SetNotice(n *notice.Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Notice = n
	s.publishLocked()
}

// DismissNotice clears the current notice
func (s *Store) DismissNotice() {
	s.SetNotice(nil)
}

// Subscribe returns a channel receiving a snapshot after every change.
// A slow subscriber only ever sees the latest snapshot.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, 1)
	s.subs[id] = ch

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}

	return ch, unsubscribe
}

func (s *Store) publishLocked() {
	if len(s.subs) == 0 {
		return
	}

	snap := s.copyLocked()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// 밀린 스냅샷은 버리고 최신 것으로 교체
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

func (s *Store) copyLocked() Snapshot {
	snap := s.state
	snap.Rankings = make([]contracts.StockRanking, len(s.state.Rankings))
	copy(snap.Rankings, s.state.Rankings)
	if s.state.SelectedStock != nil {
		selected := *s.state.SelectedStock
		snap.SelectedStock = &selected
	}
	return snap
}
