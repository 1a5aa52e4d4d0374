// Package graph is the vertex model and reference graph of the build planner.
//
// Vertices live in an arena addressed by integer handles, so cloning a graph
// for speculative diagnostics is a slice copy and a cyclic (invalid) graph
// never creates cyclic ownership.
package graph
