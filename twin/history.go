package twin

import (
	"sync"
	"time"

	"github.com/tidwall/btree"

	"github.com/katalvlaran/citytwin/metrics"
)

// Point is one history sample, taken after a tick.
type Point struct {
	Tick    uint64           `json:"tick"`
	Time    time.Time        `json:"time"`
	Metrics metrics.Snapshot `json:"metrics"`
}

func pointLess(a, b Point) bool { return a.Tick < b.Tick }

// History keeps the most recent points ordered by tick. Once the limit is
// reached, adding a point evicts the oldest one.
type History struct {
	mu    sync.RWMutex
	tree  *btree.BTreeG[Point]
	limit int
}

// NewHistory returns an empty history retaining at most limit points
// (minimum 1).
func NewHistory(limit int) *History {
	if limit < 1 {
		limit = 1
	}
	return &History{
		tree:  btree.NewBTreeGOptions(pointLess, btree.Options{NoLocks: true}),
		limit: limit,
	}
}

// Add stores p, replacing any point with the same tick.
func (h *History) Add(p Point) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.tree.Set(p)
	for h.tree.Len() > h.limit {
		h.tree.PopMin()
	}
}

// Points returns the retained points in tick order.
func (h *History) Points() []Point {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Point, 0, h.tree.Len())
	h.tree.Scan(func(p Point) bool {
		out = append(out, p)
		return true
	})
	return out
}

// Since returns the retained points with Tick >= tick, in order.
func (h *History) Since(tick uint64) []Point {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var out []Point
	h.tree.Ascend(Point{Tick: tick}, func(p Point) bool {
		out = append(out, p)
		return true
	})
	return out
}

// Last returns the newest point.
func (h *History) Last() (Point, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.tree.Max()
}

// Len returns the number of retained points.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.tree.Len()
}

// Clear drops every point.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.tree.Clear()
}
