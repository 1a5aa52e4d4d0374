package dag

import (
	"fmt"

	"github.com/ashokvundavalli/AderantDevops-sub005/graph"
)

// BuildLevels partitions a topologically sorted sequence into levels. All
// members of a level may build concurrently; level N+1 starts only after
// level N has completed.
//
// The partition is greedy and order dependent: the sequence is walked once
// and a new level is opened whenever the next vertex depends on something
// already placed in the current level. It is not a minimum-height layering.
// Dependencies absent from sequence (filtered out) are ignored.
func BuildLevels(g *graph.Graph, sequence []graph.Handle) [][]graph.Handle {
	if len(sequence) == 0 {
		return nil
	}

	levels := [][]graph.Handle{nil}
	current := make(Set)

	for i := 0; i < len(sequence); {
		h := sequence[i]
		if dependsOnAny(g, h, current) {
			// Re-examine h against the fresh level.
			levels = append(levels, nil)
			current = make(Set)
			continue
		}
		last := len(levels) - 1
		levels[last] = append(levels[last], h)
		current.Add(h)
		i++
	}
	return levels
}

func dependsOnAny(g *graph.Graph, h graph.Handle, level Set) bool {
	for _, dep := range g.DependsOn(h) {
		if level.Has(dep) {
			return true
		}
	}
	return false
}

// ValidateLevels checks that every dependency of a vertex placed in level k
// lies in a level strictly below k. Dependencies not present in any level
// are ignored.
func ValidateLevels(g *graph.Graph, levels [][]graph.Handle) error {
	levelOf := make(map[graph.Handle]int)
	for i, level := range levels {
		for _, h := range level {
			if prev, dup := levelOf[h]; dup {
				return fmt.Errorf("dag: vertex %q placed in levels %d and %d", g.Name(h), prev, i)
			}
			levelOf[h] = i
		}
	}
	for i, level := range levels {
		for _, h := range level {
			for _, dep := range g.DependsOn(h) {
				j, ok := levelOf[dep]
				if ok && j >= i {
					return fmt.Errorf("dag: %q in level %d depends on %q in level %d", g.Name(h), i, g.Name(dep), j)
				}
			}
		}
	}
	return nil
}
