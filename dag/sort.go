package dag

import (
	apperrors "github.com/ashokvundavalli/AderantDevops-sub005/errors"
	"github.com/ashokvundavalli/AderantDevops-sub005/graph"
)

// Sort returns every vertex of g ordered so that each vertex comes after all
// of its dependencies. The order is deterministic: vertices become ready in
// handle order and leave the ready queue first-in first-out.
//
// If the graph has a cycle, Sort returns a *errors.CircularDependencyError
// listing every vertex that could not be emitted and, for each, the
// dependencies that were also left unemitted.
func Sort(g *graph.Graph) ([]graph.Handle, error) {
	n := g.Len()
	pending := make([]int, n)
	for _, h := range g.Vertices() {
		pending[h] = len(g.DependsOn(h))
	}
	dependents := g.Dependents()

	queue := make([]graph.Handle, 0, n)
	for _, h := range g.Vertices() {
		if pending[h] == 0 {
			queue = append(queue, h)
		}
	}

	order := make([]graph.Handle, 0, n)
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		order = append(order, h)

		for _, d := range dependents[h] {
			pending[d]--
			if pending[d] == 0 {
				queue = append(queue, d)
			}
		}
	}

	if len(order) != n {
		return nil, cycleError(g, order)
	}
	return order, nil
}

func cycleError(g *graph.Graph, order []graph.Handle) *apperrors.CircularDependencyError {
	emitted := make([]bool, g.Len())
	for _, h := range order {
		emitted[h] = true
	}

	err := &apperrors.CircularDependencyError{}
	for _, h := range g.Vertices() {
		if emitted[h] {
			continue
		}
		c := apperrors.Conflict{Vertex: g.Name(h)}
		for _, dep := range g.DependsOn(h) {
			if !emitted[dep] {
				c.DependsOn = append(c.DependsOn, g.Name(dep))
			}
		}
		err.Conflicts = append(err.Conflicts, c)
	}
	return err
}
