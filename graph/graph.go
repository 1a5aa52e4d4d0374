package graph

import (
	"slices"
)

// Handle addresses a vertex inside a Graph. Handles are dense, stable and
// assigned in insertion order.
type Handle int

type vertex struct {
	ref    DependencyRef
	deps   []Handle
	depSet map[Handle]struct{}
}

type indexKey struct {
	kind Kind
	name string
}

// Graph is the reference graph: an arena of vertices and the directed
// "depends on" relation between them. An edge from -> to means "to" must be
// complete before "from" may start.
//
// A Graph is owned by a single planning pass and is not safe for concurrent
// mutation.
type Graph struct {
	vertices []vertex
	byKind   map[indexKey]Handle
	byName   map[string][]Handle
	edges    int
}

// New returns a graph with no vertices or edges.
func New() *Graph {
	return &Graph{
		byKind: make(map[indexKey]Handle),
		byName: make(map[string][]Handle),
	}
}

// AddVertex appends ref to the arena and returns its handle. Name lookups
// resolve to the first vertex added under a given kind and name.
func (g *Graph) AddVertex(ref DependencyRef) Handle {
	h := Handle(len(g.vertices))
	g.vertices = append(g.vertices, vertex{ref: ref})

	name := Fold(ref.Name())
	key := indexKey{kind: ref.Kind(), name: name}
	if _, exists := g.byKind[key]; !exists {
		g.byKind[key] = h
	}
	g.byName[name] = append(g.byName[name], h)
	return h
}

// AddEdge records that from depends on to. Re-adding an existing edge is a
// no-op. It reports whether a new edge was added.
func (g *Graph) AddEdge(from, to Handle) bool {
	v := &g.vertices[from]
	if v.depSet == nil {
		v.depSet = make(map[Handle]struct{})
	}
	if _, ok := v.depSet[to]; ok {
		return false
	}
	v.depSet[to] = struct{}{}
	v.deps = append(v.deps, to)
	g.edges++
	return true
}

// HasEdge reports whether from depends directly on to.
func (g *Graph) HasEdge(from, to Handle) bool {
	_, ok := g.vertices[from].depSet[to]
	return ok
}

// Len returns the number of vertices.
func (g *Graph) Len() int { return len(g.vertices) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return g.edges }

// Vertices returns every handle in insertion order.
func (g *Graph) Vertices() []Handle {
	hs := make([]Handle, len(g.vertices))
	for i := range hs {
		hs[i] = Handle(i)
	}
	return hs
}

// Ref returns the payload of a vertex.
func (g *Graph) Ref(h Handle) DependencyRef { return g.vertices[h].ref }

// Name returns the name of a vertex.
func (g *Graph) Name(h Handle) string { return g.vertices[h].ref.Name() }

// Kind returns the variant of a vertex.
func (g *Graph) Kind(h Handle) Kind { return g.vertices[h].ref.Kind() }

// DependsOn returns the direct dependencies of h in insertion order. The
// returned slice must not be modified.
func (g *Graph) DependsOn(h Handle) []Handle { return g.vertices[h].deps }

// Dependents returns the reverse adjacency: for every vertex, the vertices
// that depend on it, in handle order.
func (g *Graph) Dependents() [][]Handle {
	rev := make([][]Handle, len(g.vertices))
	for from := range g.vertices {
		for _, to := range g.vertices[from].deps {
			rev[to] = append(rev[to], Handle(from))
		}
	}
	return rev
}

// Lookup finds the first vertex of the given kind with a case-insensitive
// name match.
func (g *Graph) Lookup(kind Kind, name string) (Handle, bool) {
	h, ok := g.byKind[indexKey{kind: kind, name: Fold(name)}]
	return h, ok
}

// LookupAll returns every vertex of any kind whose name matches.
func (g *Graph) LookupAll(name string) []Handle {
	return slices.Clone(g.byName[Fold(name)])
}

// OfKind returns every vertex of the given kind in insertion order.
func (g *Graph) OfKind(kind Kind) []Handle {
	var hs []Handle
	for i := range g.vertices {
		if g.vertices[i].ref.Kind() == kind {
			hs = append(hs, Handle(i))
		}
	}
	return hs
}

// Project returns the project payload of h, or nil if h is not a project.
func (g *Graph) Project(h Handle) *Project {
	p, _ := g.vertices[h].ref.(*Project)
	return p
}

// Module returns the module payload of h, or nil if h is not a module.
func (g *Graph) Module(h Handle) *Module {
	m, _ := g.vertices[h].ref.(*Module)
	return m
}

// Clone deep-copies vertices and edges. Handles remain valid in the copy.
func (g *Graph) Clone() *Graph {
	cp := &Graph{
		vertices: make([]vertex, len(g.vertices)),
		byKind:   make(map[indexKey]Handle, len(g.byKind)),
		byName:   make(map[string][]Handle, len(g.byName)),
		edges:    g.edges,
	}
	for i, v := range g.vertices {
		nv := vertex{ref: v.ref.clone(), deps: slices.Clone(v.deps)}
		if v.depSet != nil {
			nv.depSet = make(map[Handle]struct{}, len(v.depSet))
			for h := range v.depSet {
				nv.depSet[h] = struct{}{}
			}
		}
		cp.vertices[i] = nv
	}
	for k, h := range g.byKind {
		cp.byKind[k] = h
	}
	for k, hs := range g.byName {
		cp.byName[k] = slices.Clone(hs)
	}
	return cp
}

// RemoveEdges deletes every edge for which drop returns true and returns the
// number removed. It is meant for speculative copies made with Clone.
func (g *Graph) RemoveEdges(drop func(from, to Handle) bool) int {
	removed := 0
	for i := range g.vertices {
		v := &g.vertices[i]
		kept := v.deps[:0]
		for _, to := range v.deps {
			if drop(Handle(i), to) {
				delete(v.depSet, to)
				removed++
				continue
			}
			kept = append(kept, to)
		}
		v.deps = kept
	}
	g.edges -= removed
	return removed
}
