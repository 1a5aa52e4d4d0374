package dag

import (
	"sort"

	"github.com/ashokvundavalli/AderantDevops-sub005/graph"
)

// Set is a set of vertex handles.
type Set map[graph.Handle]struct{}

// Has reports whether h is in the set.
func (s Set) Has(h graph.Handle) bool {
	_, ok := s[h]
	return ok
}

// Add inserts h and reports whether it was absent.
func (s Set) Add(h graph.Handle) bool {
	if _, ok := s[h]; ok {
		return false
	}
	s[h] = struct{}{}
	return true
}

// Sorted returns the members in handle order.
func (s Set) Sorted() []graph.Handle {
	hs := make([]graph.Handle, 0, len(s))
	for h := range s {
		hs = append(hs, h)
	}
	sort.Slice(hs, func(i, j int) bool { return hs[i] < hs[j] })
	return hs
}

// Propagate closes the set of directly changed units over the dependents
// relation: any vertex that depends on a dirty vertex is dirty, until no
// vertex is added. Names are matched case-insensitively against vertices of
// every kind. Names that match no vertex are returned as unknown.
func Propagate(g *graph.Graph, changed []string) (Set, []string) {
	dirty := make(Set)
	var unknown []string
	var frontier []graph.Handle

	for _, name := range changed {
		hs := g.LookupAll(name)
		if len(hs) == 0 {
			unknown = append(unknown, name)
			continue
		}
		for _, h := range hs {
			if dirty.Add(h) {
				frontier = append(frontier, h)
			}
		}
	}

	dependents := g.Dependents()
	for len(frontier) > 0 {
		var next []graph.Handle
		for _, h := range frontier {
			for _, d := range dependents[h] {
				if dirty.Add(d) {
					next = append(next, d)
				}
			}
		}
		frontier = next
	}
	return dirty, unknown
}

// MarkDirty sets IsDirty on every project vertex from the dirty set and
// clears it on the rest. It returns the number of dirty projects.
func MarkDirty(g *graph.Graph, dirty Set) int {
	count := 0
	for _, h := range g.OfKind(graph.KindProject) {
		p := g.Project(h)
		p.IsDirty = dirty.Has(h)
		if p.IsDirty {
			count++
		}
	}
	return count
}

// MarkAllDirty flags every project as dirty, for full builds.
func MarkAllDirty(g *graph.Graph) int {
	projects := g.OfKind(graph.KindProject)
	for _, h := range projects {
		g.Project(h).IsDirty = true
	}
	return len(projects)
}

// Filter keeps every vertex of order that is not a clean project. Modules
// and directory markers always survive because they carry ordering, not
// build output. Dirty projects excluded from the build survive too, so
// their dependents stay ordered behind them.
func Filter(g *graph.Graph, order []graph.Handle) []graph.Handle {
	kept := make([]graph.Handle, 0, len(order))
	for _, h := range order {
		if p := g.Project(h); p != nil && !p.IsDirty {
			continue
		}
		kept = append(kept, h)
	}
	return kept
}
