// Package resolver turns raw project, module and template declarations into
// a reference graph.
//
// Declared references are matched to vertices in a fixed precedence. Anything
// that cannot be matched is dropped from the graph and reported as an Issue;
// duplicate project identities and ambiguous aliases are fatal.
package resolver
