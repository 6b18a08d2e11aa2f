package repository

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/carlospagolacorrea-rgb/RMW2/internal/common/clock"
	"github.com/carlospagolacorrea-rgb/RMW2/internal/domain/model"
	"github.com/carlospagolacorrea-rgb/RMW2/pkg/metrics"
)

// Treap-based, in-memory Leaderboard implementation.
//
// Ordering: score DESC, then member id ASC (deterministic).
// The BST comparator treats "less" as "ranks earlier", so an in-order
// traversal yields the table from best to worst.

// scoreScale controls fixed-point scaling from float64.
const scoreScale = 1_000_000_000_000 // 12 decimal places

type scoreFP int64

func toFixedPoint(x float64) scoreFP {
	if math.IsNaN(x) {
		return 0
	}
	scaled := x * scoreScale
	if scaled > float64(math.MaxInt64) {
		return scoreFP(math.MaxInt64)
	}
	if scaled < float64(math.MinInt64) {
		return scoreFP(math.MinInt64)
	}
	return scoreFP(math.Round(scaled))
}

// record stores the fixed-point score plus the row it ranks.
type record struct {
	score scoreFP
	row   model.RankingRecord
}

// treap node
type node struct {
	id    string
	score scoreFP
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less returns true if (aScore, aID) should appear before (bScore, bID).
func less(aScore scoreFP, aID string, bScore scoreFP, bID string) bool {
	if aScore != bScore {
		return aScore > bScore
	}
	return aID < bID
}

func rotateRight(y *node) *node {
	x := y.left
	t2 := x.right
	x.right = y
	y.left = t2
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	t2 := y.left
	y.left = x
	x.right = t2
	fix(x)
	fix(y)
	return y
}

// priority derives a heap priority from the member id (FNV-1a), so the tree
// shape does not depend on insertion order of scores.
func priority(id string) uint64 {
	h := uint64(14695981039346656037)
	for i := 0; i < len(id); i++ {
		h ^= uint64(id[i])
		h *= 1099511628211
	}
	return h
}

func insert(n *node, id string, score scoreFP) *node {
	if n == nil {
		return &node{id: id, score: score, prio: priority(id), size: 1}
	}
	if less(score, id, n.score, n.id) {
		n.left = insert(n.left, id, score)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, id, score)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func deleteNode(n *node, id string, score scoreFP) *node {
	if n == nil {
		return nil
	}
	if score == n.score && id == n.id {
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = deleteNode(n.right, id, score)
		} else {
			n = rotateLeft(n)
			n.left = deleteNode(n.left, id, score)
		}
	} else if less(score, id, n.score, n.id) {
		n.left = deleteNode(n.left, id, score)
	} else {
		n.right = deleteNode(n.right, id, score)
	}
	fix(n)
	return n
}

// collectTopN appends up to limit rows in rank order.
func collectTopN(n *node, limit int, records map[string]record, out *[]model.RankingRecord) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTopN(n.left, limit, records, out)
	if len(*out) < limit {
		if rec, ok := records[n.id]; ok {
			*out = append(*out, rec.row)
		}
	}
	if len(*out) < limit {
		collectTopN(n.right, limit, records, out)
	}
}

// board is one ranked view.
type board struct {
	root *node
	byID map[string]record
}

func newBoard() *board { return &board{byID: make(map[string]record)} }

// updateBest stores row under id when ns beats the current best.
func (b *board) updateBest(id string, ns scoreFP, row model.RankingRecord) bool {
	if old, ok := b.byID[id]; ok {
		if ns <= old.score {
			return false
		}
		b.root = deleteNode(b.root, id, old.score)
	}
	b.byID[id] = record{score: ns, row: row}
	b.root = insert(b.root, id, ns)
	return true
}

func (b *board) topN(n int) []model.RankingRecord {
	out := make([]model.RankingRecord, 0, min(n, len(b.byID)))
	collectTopN(b.root, n, b.byID, &out)
	return out
}

// TreapStore is the single-node Leaderboard.
type TreapStore struct {
	mu     sync.RWMutex
	global *board
	daily  map[string]*board

	clock                 clock.Clock
	retention             int
	metricsUpdateInterval time.Duration

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

var _ Leaderboard = (*TreapStore)(nil)

// NewTreapStore constructs a treap store with configuration options.
func NewTreapStore(ctx context.Context, opts ...Option) *TreapStore {
	s := &TreapStore{
		global:                newBoard(),
		daily:                 make(map[string]*board),
		clock:                 &clock.DefaultClock{},
		retention:             2,
		metricsUpdateInterval: 5 * time.Second,
		stopChan:              make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startMetricsUpdater(ctx)
	return s
}

// Close stops the background metrics updater.
func (s *TreapStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

// Submit implements Leaderboard.Submit in O(log n) expected time.
func (s *TreapStore) Submit(ctx context.Context, rec model.RankingRecord) (bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordRepositoryLatency("submit", float64(time.Since(start).Microseconds())/1000)
	}()

	now := s.clock.Now()
	rec, err := normalizeRecord(rec, now)
	if err != nil {
		metrics.RecordErrorByComponent("repository", "invalid_record")
		return false, err
	}
	id := memberID(rec)
	ns := toFixedPoint(rec.Score)

	s.mu.Lock()
	defer s.mu.Unlock()
	improved := s.global.updateBest(id, ns, rec)

	day := dayOf(rec.CreatedAt)
	b, ok := s.daily[day]
	if !ok {
		b = newBoard()
		s.daily[day] = b
	}
	b.updateBest(id, ns, rec)
	s.pruneLocked(now)

	metrics.RecordLeaderboardSubmission()
	return improved, nil
}

// Global returns the top-n rows of all time.
func (s *TreapStore) Global(ctx context.Context, n int) ([]model.RankingRecord, error) {
	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.global.topN(n)
	metrics.RecordRankingsReturned(len(out))
	return out, nil
}

// Daily returns the top-n rows created on the current UTC date.
func (s *TreapStore) Daily(ctx context.Context, n int) ([]model.RankingRecord, error) {
	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.daily[dayOf(s.clock.Now())]
	if !ok {
		return []model.RankingRecord{}, nil
	}
	out := b.topN(n)
	metrics.RecordRankingsReturned(len(out))
	return out, nil
}

// Count returns the number of rows in the global view.
func (s *TreapStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.global.byID)
}

// pruneLocked drops daily views older than the retention window.
func (s *TreapStore) pruneLocked(now time.Time) {
	cutoff := dayOf(now.AddDate(0, 0, -s.retention))
	for day := range s.daily {
		// dayLayout sorts lexically
		if day < cutoff {
			delete(s.daily, day)
		}
	}
}

// startMetricsUpdater periodically publishes the size of each view.
func (s *TreapStore) startMetricsUpdater(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.metricsUpdateInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.updateMetrics()
			}
		}
	}()
}

func (s *TreapStore) updateMetrics() {
	s.mu.RLock()
	global := len(s.global.byID)
	today := 0
	if b, ok := s.daily[dayOf(s.clock.Now())]; ok {
		today = len(b.byID)
	}
	s.mu.RUnlock()
	metrics.UpdateRepositoryEntries("global", global)
	metrics.UpdateRepositoryEntries("daily", today)
}
