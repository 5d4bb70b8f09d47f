package bfs_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/katalvlaran/citytwin/bfs"
	"github.com/katalvlaran/citytwin/builder"
	"github.com/katalvlaran/citytwin/core"
	"github.com/katalvlaran/citytwin/policy"
)

// road is a passable street for hand-built graphs.
func road(from, to string) core.Edge {
	return core.Edge{Source: from, Target: to, Capacity: 100, BaseWeight: 1, SpeedLimit: 40}
}

func mustGraph(t *testing.T, ids []string, edges ...core.Edge) *core.Graph {
	t.Helper()
	nodes := make([]core.Node, len(ids))
	for i, id := range ids {
		nodes[i] = core.Node{ID: id}
	}
	g, err := core.NewGraph(nodes, edges)
	if err != nil {
		t.Fatalf("NewGraph: %v", err)
	}
	return g
}

// TestBFS_Errors verifies that invalid inputs and options are rejected.
func TestBFS_Errors(t *testing.T) {
	if _, err := bfs.BFS(nil, "A"); !errors.Is(err, bfs.ErrGraphNil) {
		t.Errorf("nil graph: want ErrGraphNil, got %v", err)
	}
	g := mustGraph(t, []string{"A"})
	if _, err := bfs.BFS(g, "missing"); !errors.Is(err, bfs.ErrStartNodeNotFound) {
		t.Errorf("missing start: want ErrStartNodeNotFound, got %v", err)
	}
	if _, err := bfs.BFS(g, "A", bfs.WithMaxDepth(-1)); !errors.Is(err, bfs.ErrOptionViolation) {
		t.Errorf("negative depth: want ErrOptionViolation, got %v", err)
	}
}

// TestBFS_CycleAndDepths covers a two-way ring and checks layering.
func TestBFS_CycleAndDepths(t *testing.T) {
	g := mustGraph(t, []string{"A", "B", "C", "D"},
		road("A", "B"), road("B", "A"),
		road("B", "C"), road("C", "B"),
		road("C", "D"), road("D", "C"),
		road("D", "A"), road("A", "D"),
	)
	res, err := bfs.BFS(g, "A")
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"A", "B", "D", "C"}; !reflect.DeepEqual(res.Order, want) {
		t.Errorf("Order = %v; want %v", res.Order, want)
	}
	for id, want := range map[string]int{"A": 0, "B": 1, "D": 1, "C": 2} {
		if got := res.Depth[id]; got != want {
			t.Errorf("Depth[%s] = %d; want %d", id, got, want)
		}
	}
	if got := res.Parent["C"]; got != "e_B_C" {
		t.Errorf("Parent[C] = %q; want e_B_C (first by edge ID)", got)
	}
}

// TestBFS_OneWay ensures direction is respected.
func TestBFS_OneWay(t *testing.T) {
	g := mustGraph(t, []string{"X", "Y"}, road("X", "Y"))

	if res, _ := bfs.BFS(g, "X"); !reflect.DeepEqual(res.Order, []string{"X", "Y"}) {
		t.Errorf("from X: got %v; want [X Y]", res.Order)
	}
	res, _ := bfs.BFS(g, "Y")
	if !reflect.DeepEqual(res.Order, []string{"Y"}) {
		t.Errorf("from Y: got %v; want [Y]", res.Order)
	}
	if got := res.Unreached(g); !reflect.DeepEqual(got, []string{"X"}) {
		t.Errorf("Unreached from Y = %v; want [X]", got)
	}
}

// TestBFS_SkipsImpassable covers closed and zero-capacity roads.
func TestBFS_SkipsImpassable(t *testing.T) {
	closed := road("A", "B")
	closed.Closed = true
	empty := road("A", "C")
	empty.Capacity = 0
	g := mustGraph(t, []string{"A", "B", "C"}, closed, empty)

	res, err := bfs.BFS(g, "A")
	if err != nil {
		t.Fatal(err)
	}
	if got := res.Unreached(g); !reflect.DeepEqual(got, []string{"B", "C"}) {
		t.Errorf("Unreached = %v; want [B C]", got)
	}

	// A custom filter may follow zero-capacity roads; closed ones stay hidden.
	res, _ = bfs.BFS(g, "A", bfs.WithFilterEdge(func(*core.Edge) bool { return true }))
	if want := []string{"A", "C"}; !reflect.DeepEqual(res.Order, want) {
		t.Errorf("open filter: got %v; want %v", res.Order, want)
	}
}

// TestBFS_MaxDepth verifies WithMaxDepth for positive, zero and large depths.
func TestBFS_MaxDepth(t *testing.T) {
	g := mustGraph(t, []string{"A", "B", "C"}, road("A", "B"), road("B", "C"))
	cases := []struct {
		depth int
		want  []string
	}{
		{1, []string{"A", "B"}},
		{0, []string{"A", "B", "C"}},
		{10, []string{"A", "B", "C"}},
	}
	for _, tc := range cases {
		res, err := bfs.BFS(g, "A", bfs.WithMaxDepth(tc.depth))
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(res.Order, tc.want) {
			t.Errorf("MaxDepth=%d: got %v; want %v", tc.depth, res.Order, tc.want)
		}
	}
}

// TestBFS_OnVisit asserts hook order and error propagation.
func TestBFS_OnVisit(t *testing.T) {
	g := mustGraph(t, []string{"A", "B", "C"}, road("A", "B"), road("B", "C"))

	var seen []string
	_, err := bfs.BFS(g, "A", bfs.WithOnVisit(func(id string, d int) error {
		seen = append(seen, id+"@"+strconv.Itoa(d))
		return nil
	}))
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"A@0", "B@1", "C@2"}; !reflect.DeepEqual(seen, want) {
		t.Errorf("OnVisit = %v; want %v", seen, want)
	}

	stop := errors.New("stop")
	_, err = bfs.BFS(g, "A", bfs.WithOnVisit(func(id string, _ int) error {
		if id == "B" {
			return stop
		}
		return nil
	}))
	if !errors.Is(err, stop) || !strings.Contains(err.Error(), `"B"`) {
		t.Errorf("OnVisit error: got %v", err)
	}
}

// TestBFS_PathTo covers the start node, a reachable and an unreachable node.
func TestBFS_PathTo(t *testing.T) {
	g := mustGraph(t, []string{"A", "B", "C", "Z"}, road("A", "B"), road("B", "C"))
	res, _ := bfs.BFS(g, "A")

	if path, err := res.PathTo(g, "A"); err != nil || len(path) != 0 {
		t.Errorf("PathTo start: got %v, %v; want empty", path, err)
	}
	if path, _ := res.PathTo(g, "C"); !reflect.DeepEqual(path, []string{"e_A_B", "e_B_C"}) {
		t.Errorf("PathTo C: got %v", path)
	}
	if _, err := res.PathTo(g, "Z"); err == nil || !strings.Contains(err.Error(), "no path") {
		t.Errorf("PathTo unreachable: expected error, got %v", err)
	}
}

// TestBFS_Cancellation verifies that a cancelled context halts BFS.
func TestBFS_Cancellation(t *testing.T) {
	ids := make([]string, 101)
	edges := make([]core.Edge, 100)
	for i := range ids {
		ids[i] = fmt.Sprintf("v%d", i)
	}
	for i := range edges {
		edges[i] = road(ids[i], ids[i+1])
	}
	g := mustGraph(t, ids, edges...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := bfs.BFS(g, "v0", bfs.WithContext(ctx)); !errors.Is(err, context.Canceled) {
		t.Errorf("Cancellation: want context.Canceled, got %v", err)
	}
}

// TestBFS_ReferenceCity checks the grid stays connected when downtown is
// closed, and that closing everything isolates the start.
func TestBFS_ReferenceCity(t *testing.T) {
	g, err := builder.ReferenceCity()
	if err != nil {
		t.Fatal(err)
	}
	res, _ := bfs.BFS(g, "n_0_0")
	if got := res.Depth["n_4_4"]; got != 6 {
		t.Errorf("hops n_0_0→n_4_4 = %d; want 6 (highway shortcut is one hop)", got)
	}

	closed, err := policy.Apply(g, policy.CloseRoad{Target: policy.Target{Tag: builder.DowntownZone}})
	if err != nil {
		t.Fatal(err)
	}
	res, _ = bfs.BFS(closed, "n_0_0")
	if got := res.Unreached(closed); !reflect.DeepEqual(got, []string{"n_2_1", "n_1_2", "n_2_2"}) {
		t.Errorf("Unreached with downtown closed = %v", got)
	}

	all, err := policy.Apply(g, policy.CloseRoad{Target: policy.Target{Tag: policy.TagAll}})
	if err != nil {
		t.Fatal(err)
	}
	res, _ = bfs.BFS(all, "n_0_0")
	if got := len(res.Unreached(all)); got != 24 {
		t.Errorf("Unreached with all closed = %d; want 24", got)
	}
}
