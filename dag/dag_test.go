package dag

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	apperrors "github.com/ashokvundavalli/AderantDevops-sub005/errors"
	"github.com/ashokvundavalli/AderantDevops-sub005/graph"
)

// --- test helpers ---

type fixture struct {
	g       *graph.Graph
	handles map[string]graph.Handle
}

func newFixture(names ...string) *fixture {
	f := &fixture{g: graph.New(), handles: make(map[string]graph.Handle)}
	for _, name := range names {
		f.handles[name] = f.g.AddVertex(&graph.Project{
			Identity:       uuid.New(),
			AssemblyName:   name,
			Path:           name + ".csproj",
			SolutionRoot:   "src",
			IncludeInBuild: true,
		})
	}
	return f
}

// dep records that from depends on each of to.
func (f *fixture) dep(from string, to ...string) *fixture {
	for _, t := range to {
		f.g.AddEdge(f.handles[from], f.handles[t])
	}
	return f
}

func (f *fixture) names(hs []graph.Handle) []string {
	out := make([]string, len(hs))
	for i, h := range hs {
		out[i] = f.g.Name(h)
	}
	return out
}

func (f *fixture) levelNames(levels [][]graph.Handle) [][]string {
	out := make([][]string, len(levels))
	for i, level := range levels {
		out[i] = f.names(level)
	}
	return out
}

func indexOf(order []graph.Handle) map[graph.Handle]int {
	idx := make(map[graph.Handle]int, len(order))
	for i, h := range order {
		idx[h] = i
	}
	return idx
}

// --- Sort tests ---

func TestSort_Linear(t *testing.T) {
	f := newFixture("c", "b", "a").dep("c", "b").dep("b", "a")

	order, err := Sort(f.g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := fmt.Sprint(f.names(order))
	if got != "[a b c]" {
		t.Fatalf("expected [a b c], got %s", got)
	}
}

func TestSort_Diamond(t *testing.T) {
	f := newFixture("A", "B", "C", "D").dep("B", "A").dep("C", "A").dep("D", "B", "C")

	order, err := Sort(f.g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := fmt.Sprint(f.names(order)); got != "[A B C D]" {
		t.Fatalf("expected [A B C D], got %s", got)
	}
}

func TestSort_EveryEdgeRespected(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		n := 30
		names := make([]string, n)
		for i := range names {
			names[i] = fmt.Sprintf("v%02d", i)
		}
		f := newFixture(names...)
		// Edges only from higher to lower index keep the graph acyclic.
		for i := 1; i < n; i++ {
			for j := 0; j < i; j++ {
				if rng.Intn(5) == 0 {
					f.dep(names[i], names[j])
				}
			}
		}

		order, err := Sort(f.g)
		if err != nil {
			t.Fatalf("trial %d: unexpected error: %v", trial, err)
		}
		if len(order) != n {
			t.Fatalf("trial %d: expected %d vertices, got %d", trial, n, len(order))
		}
		idx := indexOf(order)
		for _, v := range f.g.Vertices() {
			for _, w := range f.g.DependsOn(v) {
				if idx[w] >= idx[v] {
					t.Fatalf("trial %d: %s emitted before its dependency %s", trial, f.g.Name(v), f.g.Name(w))
				}
			}
		}
	}
}

func TestSort_CycleDetection(t *testing.T) {
	f := newFixture("A", "B").dep("A", "B").dep("B", "A")

	_, err := Sort(f.g)
	var cycle *apperrors.CircularDependencyError
	if !errors.As(err, &cycle) {
		t.Fatalf("expected CircularDependencyError, got %v", err)
	}
	if got := fmt.Sprint(cycle.Vertices()); got != "[A B]" {
		t.Fatalf("expected conflict set [A B], got %s", got)
	}
	for _, c := range cycle.Conflicts {
		if len(c.DependsOn) != 1 {
			t.Errorf("expected one conflicting dependency for %s, got %v", c.Vertex, c.DependsOn)
		}
	}
}

func TestSort_CycleReportsBlockedDependents(t *testing.T) {
	// root is fine, A<->B is a cycle, C is blocked behind it.
	f := newFixture("root", "A", "B", "C").
		dep("A", "root", "B").
		dep("B", "A").
		dep("C", "B", "root")

	_, err := Sort(f.g)
	var cycle *apperrors.CircularDependencyError
	if !errors.As(err, &cycle) {
		t.Fatalf("expected CircularDependencyError, got %v", err)
	}
	if got := fmt.Sprint(cycle.Vertices()); got != "[A B C]" {
		t.Fatalf("expected [A B C], got %s", got)
	}
	for _, c := range cycle.Conflicts {
		for _, d := range c.DependsOn {
			if d == "root" {
				t.Errorf("emitted vertex root listed as conflict of %s", c.Vertex)
			}
		}
	}
}

func TestSort_SelfLoop(t *testing.T) {
	f := newFixture("A").dep("A", "A")
	if _, err := Sort(f.g); err == nil {
		t.Fatal("expected cycle error for self loop")
	}
}

// --- Propagate tests ---

func TestPropagate_Chain(t *testing.T) {
	// C depends on B, B depends on A.
	f := newFixture("A", "B", "C").dep("C", "B").dep("B", "A")

	dirty, unknown := Propagate(f.g, []string{"b"})
	if len(unknown) != 0 {
		t.Fatalf("unexpected unknown names: %v", unknown)
	}
	if got := fmt.Sprint(f.names(dirty.Sorted())); got != "[B C]" {
		t.Fatalf("expected [B C], got %s", got)
	}
	if dirty.Has(f.handles["A"]) {
		t.Fatal("A must remain clean")
	}
}

func TestPropagate_UnknownNames(t *testing.T) {
	f := newFixture("A")
	dirty, unknown := Propagate(f.g, []string{"Missing"})
	if len(dirty) != 0 {
		t.Fatalf("expected empty dirty set, got %v", dirty)
	}
	if len(unknown) != 1 || unknown[0] != "Missing" {
		t.Fatalf("expected [Missing], got %v", unknown)
	}
}

func TestPropagate_ReachesEveryTransitiveDependent(t *testing.T) {
	f := newFixture("A", "B", "C", "D", "E").
		dep("B", "A").
		dep("C", "A").
		dep("D", "C").
		dep("E", "D")

	dirty, _ := Propagate(f.g, []string{"A"})
	if len(dirty) != 5 {
		t.Fatalf("expected all 5 dirty, got %v", f.names(dirty.Sorted()))
	}
}

func TestMarkDirty_And_Filter(t *testing.T) {
	f := newFixture("A", "B", "C").dep("C", "B").dep("B", "A")
	m := f.g.AddVertex(&graph.Module{ModuleName: "Mod"})
	f.g.AddEdge(m, f.handles["A"])

	dirty, _ := Propagate(f.g, []string{"B"})
	if n := MarkDirty(f.g, dirty); n != 2 {
		t.Fatalf("expected 2 dirty projects, got %d", n)
	}

	order, err := Sort(f.g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	kept := Filter(f.g, order)
	if got := fmt.Sprint(f.names(kept)); got != "[Mod B C]" && got != "[B Mod C]" {
		t.Fatalf("expected module and dirty projects only, got %s", got)
	}
}

func TestFilter_KeepsExcludedDirtyProjects(t *testing.T) {
	f := newFixture("A", "B", "C")
	dirty, _ := Propagate(f.g, []string{"A", "B"})
	MarkDirty(f.g, dirty)
	f.g.Project(f.handles["B"]).IncludeInBuild = false

	kept := Filter(f.g, f.g.Vertices())
	if got := fmt.Sprint(f.names(kept)); got != "[A B]" {
		t.Fatalf("expected [A B], got %s", got)
	}
}

// --- BuildLevels tests ---

func TestBuildLevels_Diamond(t *testing.T) {
	f := newFixture("A", "B", "C", "D").dep("B", "A").dep("C", "A").dep("D", "B", "C")

	order, err := Sort(f.g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	levels := BuildLevels(f.g, order)
	if got := fmt.Sprint(f.levelNames(levels)); got != "[[A] [B C] [D]]" {
		t.Fatalf("expected [[A] [B C] [D]], got %s", got)
	}
	if err := ValidateLevels(f.g, levels); err != nil {
		t.Fatalf("invalid levels: %v", err)
	}
}

func TestBuildLevels_NoEdges(t *testing.T) {
	f := newFixture("a", "b", "c")
	levels := BuildLevels(f.g, f.g.Vertices())
	if len(levels) != 1 || len(levels[0]) != 3 {
		t.Fatalf("expected a single level of 3, got %v", f.levelNames(levels))
	}
}

func TestBuildLevels_Empty(t *testing.T) {
	f := newFixture()
	if levels := BuildLevels(f.g, nil); levels != nil {
		t.Fatalf("expected nil levels, got %v", levels)
	}
}

func TestBuildLevels_GreedyIsOrderDependent(t *testing.T) {
	// X is independent but sorts after B; the greedy walk never goes back
	// to level 0, so X lands next to B.
	f := newFixture("A", "B", "X").dep("B", "A")
	seq := []graph.Handle{f.handles["A"], f.handles["B"], f.handles["X"]}

	levels := BuildLevels(f.g, seq)
	if got := fmt.Sprint(f.levelNames(levels)); got != "[[A] [B X]]" {
		t.Fatalf("expected [[A] [B X]], got %s", got)
	}
}

func TestBuildLevels_IgnoresFilteredDependencies(t *testing.T) {
	f := newFixture("A", "B", "C").dep("B", "A").dep("C", "B")
	// A is clean and filtered out.
	seq := []graph.Handle{f.handles["B"], f.handles["C"]}

	levels := BuildLevels(f.g, seq)
	if got := fmt.Sprint(f.levelNames(levels)); got != "[[B] [C]]" {
		t.Fatalf("expected [[B] [C]], got %s", got)
	}
}

func TestBuildLevels_InvariantHoldsOnRandomGraphs(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		n := 40
		names := make([]string, n)
		for i := range names {
			names[i] = fmt.Sprintf("p%02d", i)
		}
		f := newFixture(names...)
		for i := 1; i < n; i++ {
			for j := 0; j < i; j++ {
				if rng.Intn(8) == 0 {
					f.dep(names[i], names[j])
				}
			}
		}
		order, err := Sort(f.g)
		if err != nil {
			t.Fatalf("trial %d: unexpected error: %v", trial, err)
		}
		// Drop a random subset to mimic dirty filtering.
		var seq []graph.Handle
		for _, h := range order {
			if rng.Intn(4) != 0 {
				seq = append(seq, h)
			}
		}
		levels := BuildLevels(f.g, seq)
		if err := ValidateLevels(f.g, levels); err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		total := 0
		for _, level := range levels {
			total += len(level)
		}
		if total != len(seq) {
			t.Fatalf("trial %d: expected %d placed vertices, got %d", trial, len(seq), total)
		}
	}
}

func TestValidateLevels_DetectsSameLevelDependency(t *testing.T) {
	f := newFixture("A", "B").dep("B", "A")
	bad := [][]graph.Handle{{f.handles["A"], f.handles["B"]}}
	if err := ValidateLevels(f.g, bad); err == nil {
		t.Fatal("expected error for dependency in the same level")
	}
}
