package resolver

import (
	"fmt"

	"github.com/google/uuid"

	apperrors "github.com/ashokvundavalli/AderantDevops-sub005/errors"
	"github.com/ashokvundavalli/AderantDevops-sub005/graph"
)

// DefaultBootstrapModule is the well-known code-generation bootstrap component.
const DefaultBootstrapModule = "Build.T4Task"

// Issue codes reported by resolution. None of them is fatal.
const (
	IssueUnresolvedProject  = "unresolved-project-reference"
	IssueUnresolvedAssembly = "unresolved-assembly-reference"
	IssueUnresolvedModule   = "unresolved-module-reference"
	IssueUnresolvedTemplate = "unresolved-template-reference"
	IssueAmbiguousAssembly  = "ambiguous-assembly-name"
	IssueAmbiguousAlias     = "ambiguous-alias"
	IssueDuplicateModule    = "duplicate-module"
)

// Issue is a recoverable finding of the resolution pass.
type Issue struct {
	Code    string
	Subject string
	Message string
	// Ref is set for unresolved references.
	Ref Reference
}

// Options tune a resolution pass.
type Options struct {
	// BootstrapModule names the code-generation bootstrap component.
	BootstrapModule string
	// AliasPolicy decides how ambiguous aliases are handled.
	AliasPolicy AliasPolicy
	// StrictIdentities fails on any duplicate project identity, not only
	// when identity fallback needs it.
	StrictIdentities bool
	// DefaultConfiguration applies to projects that declare none.
	DefaultConfiguration graph.BuildConfiguration
}

// Result is the resolved graph and everything that was dropped on the way.
type Result struct {
	Graph  *graph.Graph
	Issues []Issue
	// Roots are the distinct solution roots in order of first appearance.
	Roots []string
}

// Resolver turns declarations into a reference graph. A Resolver owns all of
// its lookup tables and serves a single pass; create one per call to Resolve.
type Resolver struct {
	opts  Options
	decls Declarations

	g          *graph.Graph
	projects   []graph.Handle
	byAssembly map[string][]graph.Handle
	byIdentity map[uuid.UUID][]graph.Handle
	byRoot     map[string][]graph.Handle
	rootOwner  map[string]graph.Handle
	aliases    *AliasTable
	issues     []Issue
	warnedName map[string]bool
}

// Resolve runs every resolution rule over decls and returns the graph.
//
// Rules run in this order: project-to-project and assembly references,
// module references (with alias fallback), module inheritance, code
// generation templates, bootstrap propagation and solution bracketing.
// Unresolvable references are dropped and reported as issues. A duplicate
// project identity met during identity fallback is fatal.
func Resolve(decls Declarations, opts Options) (*Result, error) {
	if opts.BootstrapModule == "" {
		opts.BootstrapModule = DefaultBootstrapModule
	}
	if opts.AliasPolicy == "" {
		opts.AliasPolicy = AliasStrict
	}
	r := &Resolver{
		opts:       opts,
		decls:      decls,
		g:          graph.New(),
		byAssembly: make(map[string][]graph.Handle),
		byIdentity: make(map[uuid.UUID][]graph.Handle),
		byRoot:     make(map[string][]graph.Handle),
		rootOwner:  make(map[string]graph.Handle),
		warnedName: make(map[string]bool),
	}
	return r.run()
}

func (r *Resolver) run() (*Result, error) {
	if r.opts.StrictIdentities {
		if err := r.checkIdentities(); err != nil {
			return nil, err
		}
	}

	r.addProjects()
	if err := r.addModules(); err != nil {
		return nil, err
	}

	if err := r.resolveProjectReferences(); err != nil {
		return nil, err
	}
	r.resolveModuleReferences()
	r.inheritModuleDependencies()
	r.resolveTemplates()
	r.propagateBootstrap()
	roots := r.bracketSolutions()

	return &Result{Graph: r.g, Issues: r.issues, Roots: roots}, nil
}

func (r *Resolver) checkIdentities() error {
	seen := make(map[uuid.UUID][]string)
	var order []uuid.UUID
	for i := range r.decls.Projects {
		p := &r.decls.Projects[i]
		if len(seen[p.Identity]) == 0 {
			order = append(order, p.Identity)
		}
		seen[p.Identity] = append(seen[p.Identity], p.Path)
	}
	for _, id := range order {
		if paths := seen[id]; len(paths) > 1 {
			return &apperrors.DuplicateIdentityError{Identity: id.String(), Paths: paths}
		}
	}
	return nil
}

func (r *Resolver) addProjects() {
	for i := range r.decls.Projects {
		d := &r.decls.Projects[i]
		cfg := graph.BuildConfiguration{Configuration: d.Configuration, Platform: d.Platform}
		if cfg.Configuration == "" {
			cfg.Configuration = r.opts.DefaultConfiguration.Configuration
		}
		if cfg.Platform == "" {
			cfg.Platform = r.opts.DefaultConfiguration.Platform
		}
		h := r.g.AddVertex(&graph.Project{
			Identity:       d.Identity,
			AssemblyName:   d.AssemblyName,
			Path:           d.Path,
			SolutionRoot:   d.SolutionRoot,
			IncludeInBuild: d.Included(),
			Configuration:  cfg,
			SourceFiles:    append([]string(nil), d.SourceFiles...),
		})
		r.projects = append(r.projects, h)

		name := graph.Fold(d.AssemblyName)
		r.byAssembly[name] = append(r.byAssembly[name], h)
		r.byIdentity[d.Identity] = append(r.byIdentity[d.Identity], h)
		root := graph.NormalizePath(d.SolutionRoot)
		r.byRoot[root] = append(r.byRoot[root], h)
	}
}

func (r *Resolver) addModules() error {
	aliases, issues, err := NewAliasTable(r.decls.Modules, r.opts.AliasPolicy)
	if err != nil {
		return err
	}
	r.aliases = aliases
	r.issues = append(r.issues, issues...)

	for i := range r.decls.Modules {
		d := &r.decls.Modules[i]
		if _, dup := r.g.Lookup(graph.KindModule, d.Name); dup {
			r.issue(IssueDuplicateModule, d.Name, "module declared more than once, keeping the first declaration", nil)
			continue
		}
		h := r.g.AddVertex(&graph.Module{
			ModuleName:           d.Name,
			SolutionRoot:         d.SolutionRoot,
			DeclaredDependencies: append([]string(nil), d.DependsOn...),
			Contains:             append([]string(nil), d.Contains...),
		})
		if d.SolutionRoot != "" {
			root := graph.NormalizePath(d.SolutionRoot)
			if _, owned := r.rootOwner[root]; !owned {
				r.rootOwner[root] = h
			}
		}
	}
	return nil
}

// resolveProjectReferences applies rule 1 and resolves plain assembly
// references by name.
func (r *Resolver) resolveProjectReferences() error {
	for i, from := range r.projects {
		d := &r.decls.Projects[i]
		for _, ref := range d.ProjectReferences {
			to, ok, err := r.matchProjectReference(ref)
			if err != nil {
				return err
			}
			if !ok {
				r.unresolved(IssueUnresolvedProject, d.AssemblyName, ref)
				continue
			}
			r.link(from, to)
		}
		for _, name := range d.AssemblyReferences {
			ref := AssemblyReference{AssemblyName: name}
			to, ok := r.matchAssembly(name, uuid.Nil)
			if !ok {
				r.unresolved(IssueUnresolvedAssembly, d.AssemblyName, ref)
				continue
			}
			r.link(from, to)
		}
	}
	return nil
}

// matchProjectReference matches by assembly name first and falls back to
// the project identity, which must then be unique.
func (r *Resolver) matchProjectReference(ref ProjectReference) (graph.Handle, bool, error) {
	if h, ok := r.matchAssembly(ref.Name(), ref.Identity); ok {
		return h, true, nil
	}
	candidates := r.byIdentity[ref.Identity]
	switch len(candidates) {
	case 0:
		return 0, false, nil
	case 1:
		return candidates[0], true, nil
	default:
		paths := make([]string, len(candidates))
		for i, h := range candidates {
			paths[i] = r.g.Project(h).Path
		}
		return 0, false, &apperrors.DuplicateIdentityError{Identity: ref.Identity.String(), Paths: paths}
	}
}

// matchAssembly finds a project by assembly name. When several projects
// share the name, one with the preferred identity wins, otherwise the first.
func (r *Resolver) matchAssembly(name string, prefer uuid.UUID) (graph.Handle, bool) {
	key := graph.Fold(name)
	candidates := r.byAssembly[key]
	if len(candidates) == 0 {
		return 0, false
	}
	if len(candidates) > 1 {
		if prefer != uuid.Nil {
			for _, h := range candidates {
				if r.g.Project(h).Identity == prefer {
					return h, true
				}
			}
		}
		if !r.warnedName[key] {
			r.warnedName[key] = true
			r.issue(IssueAmbiguousAssembly, name,
				fmt.Sprintf("%d projects produce this assembly, using %s", len(candidates), r.g.Project(candidates[0]).Path), nil)
		}
	}
	return candidates[0], true
}

// resolveModuleReferences applies rule 2.
func (r *Resolver) resolveModuleReferences() {
	for _, from := range r.g.OfKind(graph.KindModule) {
		m := r.g.Module(from)
		for _, name := range m.DeclaredDependencies {
			to, ok := r.matchModule(name)
			if !ok {
				r.unresolved(IssueUnresolvedModule, m.ModuleName, ModuleReference{ModuleName: name})
				continue
			}
			r.link(from, to)
		}
	}
}

func (r *Resolver) matchModule(name string) (graph.Handle, bool) {
	if h, ok := r.g.Lookup(graph.KindModule, name); ok {
		return h, true
	}
	container, ok := r.aliases.Canonical(name)
	if !ok {
		return 0, false
	}
	return r.g.Lookup(graph.KindModule, container)
}

// inheritModuleDependencies makes every project depend on the modules its
// owning module depends on.
func (r *Resolver) inheritModuleDependencies() {
	for _, p := range r.projects {
		owner, ok := r.rootOwner[graph.NormalizePath(r.g.Project(p).SolutionRoot)]
		if !ok {
			continue
		}
		for _, dep := range r.g.DependsOn(owner) {
			if r.g.Kind(dep) == graph.KindModule {
				r.link(p, dep)
			}
		}
	}
}

// link adds from -> to unless it would be a self edge.
func (r *Resolver) link(from, to graph.Handle) {
	if from == to {
		return
	}
	r.g.AddEdge(from, to)
}

func (r *Resolver) issue(code, subject, message string, ref Reference) {
	r.issues = append(r.issues, Issue{Code: code, Subject: subject, Message: message, Ref: ref})
}

func (r *Resolver) unresolved(code, subject string, ref Reference) {
	r.issue(code, subject, ref.Describe()+" matches no vertex and was dropped", ref)
}
