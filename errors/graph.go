package errors

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// DuplicateIdentityError reports two or more projects sharing a project
// identity. Resolution is aborted because identity fallback is ambiguous.
type DuplicateIdentityError struct {
	Identity string
	Paths    []string
}

func (e *DuplicateIdentityError) Error() string {
	return fmt.Sprintf("duplicate project identity %s: %s", e.Identity, strings.Join(e.Paths, ", "))
}

// AppError converts the error into the structured envelope.
func (e *DuplicateIdentityError) AppError() *AppError {
	return &AppError{
		Code:       ErrCodeDuplicateIdentity,
		Message:    fmt.Sprintf("Project identity %s is declared by %d projects.", e.Identity, len(e.Paths)),
		HTTPStatus: http.StatusConflict,
		Details: map[string]any{
			"identity": e.Identity,
			"paths":    e.Paths,
		},
		Cause: e,
	}
}

// Conflict is one vertex left unemitted by a failed sort together with the
// dependencies that were also left unemitted.
type Conflict struct {
	Vertex    string   `json:"vertex"`
	DependsOn []string `json:"depends_on"`
}

// CircularDependencyError reports the blocked subgraph of a failed sort.
type CircularDependencyError struct {
	Conflicts []Conflict
	// DeclaredCycle is true when the cycle survives removal of synthetic
	// solution-bracketing edges.
	DeclaredCycle bool
}

// Vertices returns the names of every unemitted vertex, sorted.
func (e *CircularDependencyError) Vertices() []string {
	names := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		names = append(names, c.Vertex)
	}
	sort.Strings(names)
	return names
}

func (e *CircularDependencyError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "circular dependency among %d vertices", len(e.Conflicts))
	for _, c := range e.Conflicts {
		fmt.Fprintf(&b, "\n  %s -> [%s]", c.Vertex, strings.Join(c.DependsOn, ", "))
	}
	return b.String()
}

// AppError converts the error into the structured envelope.
func (e *CircularDependencyError) AppError() *AppError {
	return &AppError{
		Code:       ErrCodeCircularDependency,
		Message:    fmt.Sprintf("The dependency graph contains a cycle involving %d vertices.", len(e.Conflicts)),
		HTTPStatus: http.StatusConflict,
		Details: map[string]any{
			"conflicts":      e.Conflicts,
			"declared_cycle": e.DeclaredCycle,
		},
		Cause: e,
	}
}

// AmbiguousAliasError reports an alias claimed by more than one container module.
type AmbiguousAliasError struct {
	Alias      string
	Containers []string
}

func (e *AmbiguousAliasError) Error() string {
	return fmt.Sprintf("alias %q is claimed by multiple containers: %s", e.Alias, strings.Join(e.Containers, ", "))
}

// AppError converts the error into the structured envelope.
func (e *AmbiguousAliasError) AppError() *AppError {
	return &AppError{
		Code:       ErrCodeAmbiguousAlias,
		Message:    fmt.Sprintf("Alias %s has more than one container.", e.Alias),
		HTTPStatus: http.StatusConflict,
		Details: map[string]any{
			"alias":      e.Alias,
			"containers": e.Containers,
		},
		Cause: e,
	}
}

// Enveloper is implemented by typed errors that carry an AppError form.
type Enveloper interface {
	error
	AppError() *AppError
}
