// Package plan computes incremental build plans.
//
// A Planner pulls raw declarations and changed unit names from its
// collaborators, resolves them into a reference graph, orders the graph,
// drops clean projects and partitions what is left into stages. Members of
// one stage may build in parallel; a stage starts only after the previous
// one has finished.
//
//	p := plan.New(source, changes, plan.Options{Mode: plan.ModeIncremental})
//	bp, err := p.ComputeBuildPlan(ctx)
//
// Duplicate project identities, ambiguous aliases and dependency cycles fail
// the pass with typed errors from the errors package; no partial plan is
// returned.
package plan
