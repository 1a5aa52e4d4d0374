package resolver

import (
	"fmt"

	apperrors "github.com/ashokvundavalli/AderantDevops-sub005/errors"
	"github.com/ashokvundavalli/AderantDevops-sub005/graph"
)

// AliasPolicy decides what happens when more than one container claims the
// same alias.
type AliasPolicy string

const (
	// AliasStrict fails resolution with an AmbiguousAliasError.
	AliasStrict AliasPolicy = "strict"
	// AliasFirstMatch keeps the first declared container and reports an issue.
	AliasFirstMatch AliasPolicy = "first-match"
)

// AliasTable maps module names and aliases to canonical container names.
// It is built once per resolution pass and owned by it.
type AliasTable struct {
	canonical map[string]string
	claims    map[string][]string
}

// NewAliasTable builds the table from the union of declared module names and
// their container relationships. A module name always maps to itself; an
// alias that is also a module name is not recorded, since direct matches win.
func NewAliasTable(modules []ModuleDeclaration, policy AliasPolicy) (*AliasTable, []Issue, error) {
	t := &AliasTable{
		canonical: make(map[string]string),
		claims:    make(map[string][]string),
	}

	for i := range modules {
		key := graph.Fold(modules[i].Name)
		if _, ok := t.canonical[key]; !ok {
			t.canonical[key] = modules[i].Name
		}
	}

	var order []string
	spelling := make(map[string]string)
	for i := range modules {
		for _, alias := range modules[i].Contains {
			key := graph.Fold(alias)
			if key == "" {
				continue
			}
			if _, isModule := t.canonical[key]; isModule {
				continue
			}
			if len(t.claims[key]) == 0 {
				order = append(order, key)
				spelling[key] = alias
			}
			if !containsFold(t.claims[key], modules[i].Name) {
				t.claims[key] = append(t.claims[key], modules[i].Name)
			}
		}
	}

	var issues []Issue
	for _, key := range order {
		containers := t.claims[key]
		if len(containers) > 1 {
			if policy != AliasFirstMatch {
				return nil, nil, &apperrors.AmbiguousAliasError{Alias: spelling[key], Containers: containers}
			}
			issues = append(issues, Issue{
				Code:    IssueAmbiguousAlias,
				Subject: spelling[key],
				Message: fmt.Sprintf("alias claimed by %v, using %s", containers, containers[0]),
			})
		}
		t.canonical[key] = containers[0]
	}
	return t, issues, nil
}

// Canonical returns the canonical container name for a module name or alias.
func (t *AliasTable) Canonical(name string) (string, bool) {
	c, ok := t.canonical[graph.Fold(name)]
	return c, ok
}

// Len returns the number of names the table resolves.
func (t *AliasTable) Len() int { return len(t.canonical) }

func containsFold(names []string, name string) bool {
	key := graph.Fold(name)
	for _, n := range names {
		if graph.Fold(n) == key {
			return true
		}
	}
	return false
}
