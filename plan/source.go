package plan

import (
	"context"

	"github.com/ashokvundavalli/AderantDevops-sub005/resolver"
)

// ChangeSource supplies the names of units changed since the last build.
type ChangeSource interface {
	ChangedUnitNames(ctx context.Context) ([]string, error)
}

// DeclarationSource supplies the raw declarations a plan is computed from.
type DeclarationSource interface {
	ProjectFiles(ctx context.Context) ([]resolver.ProjectDeclaration, error)
	ModuleManifests(ctx context.Context) ([]resolver.ModuleDeclaration, error)
	TemplateReferences(ctx context.Context, solutionRoot string) ([]resolver.TemplateReference, error)
}

// StaticChanges is a fixed list of changed unit names.
type StaticChanges []string

func (s StaticChanges) ChangedUnitNames(context.Context) ([]string, error) {
	return s, nil
}

// StaticDeclarations serves declarations held in memory.
type StaticDeclarations resolver.Declarations

func (s StaticDeclarations) ProjectFiles(context.Context) ([]resolver.ProjectDeclaration, error) {
	return s.Projects, nil
}

func (s StaticDeclarations) ModuleManifests(context.Context) ([]resolver.ModuleDeclaration, error) {
	return s.Modules, nil
}

func (s StaticDeclarations) TemplateReferences(_ context.Context, root string) ([]resolver.TemplateReference, error) {
	return s.Templates[root], nil
}
