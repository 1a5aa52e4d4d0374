// Package dag orders a resolved reference graph and partitions it into
// build levels.
//
// Three passes share the same graph:
//   - Sort: Kahn-style topological order, or a CircularDependencyError
//   - Propagate/Filter: closes a changed set over dependents and drops clean projects
//   - BuildLevels: greedy partition of the filtered order into concurrent groups
package dag
