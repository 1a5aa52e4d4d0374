package resolver

import (
	"github.com/google/uuid"

	"github.com/ashokvundavalli/AderantDevops-sub005/graph"
)

// resolveTemplates applies rule 3. Every project of a root whose sources
// include a template depends on each assembly the template loads. The module
// owning the root gets the same edges.
func (r *Resolver) resolveTemplates() {
	for _, root := range SolutionRoots(r.decls.Projects) {
		templates := r.decls.Templates[root]
		if len(templates) == 0 {
			continue
		}
		key := graph.NormalizePath(root)
		owner, hasOwner := r.rootOwner[key]

		for _, tmpl := range templates {
			var users []graph.Handle
			for _, p := range r.byRoot[key] {
				if r.g.Project(p).HasSourceFile(tmpl.TemplateFile) {
					users = append(users, p)
				}
			}
			if len(users) == 0 {
				continue
			}
			for _, name := range tmpl.AssemblyNames {
				to, ok := r.matchAssembly(name, uuid.Nil)
				if !ok {
					r.unresolved(IssueUnresolvedTemplate, tmpl.TemplateFile, AssemblyReference{AssemblyName: name})
					continue
				}
				for _, p := range users {
					r.link(p, to)
				}
				if hasOwner {
					r.link(owner, to)
				}
			}
		}
	}
}

// propagateBootstrap applies rule 4: a vertex that depends on the bootstrap
// component also depends on every project under the component's root.
// Vertices inside that root are left alone.
func (r *Resolver) propagateBootstrap() {
	tool, ok := r.g.Lookup(graph.KindModule, r.opts.BootstrapModule)
	if !ok {
		return
	}
	root := r.g.Module(tool).SolutionRoot
	if root == "" {
		return
	}
	key := graph.NormalizePath(root)
	toolProjects := r.byRoot[key]
	if len(toolProjects) == 0 {
		return
	}

	var users []graph.Handle
	for _, h := range r.g.Vertices() {
		if h == tool || !r.g.HasEdge(h, tool) {
			continue
		}
		if inRoot(r.g, h, key) {
			continue
		}
		users = append(users, h)
	}
	for _, h := range users {
		for _, p := range toolProjects {
			r.link(h, p)
		}
	}
}

func inRoot(g *graph.Graph, h graph.Handle, key string) bool {
	switch ref := g.Ref(h).(type) {
	case *graph.Project:
		return graph.NormalizePath(ref.SolutionRoot) == key
	case *graph.Module:
		return ref.SolutionRoot != "" && graph.NormalizePath(ref.SolutionRoot) == key
	default:
		return false
	}
}

// bracketSolutions applies rule 5: an init and a completion marker per
// solution root. Projects depend on the init marker; the completion marker
// depends on the init marker and every project of the root.
func (r *Resolver) bracketSolutions() []string {
	roots := SolutionRoots(r.decls.Projects)
	for _, root := range roots {
		start := r.g.AddVertex(&graph.DirectoryMarker{SolutionRoot: root})
		done := r.g.AddVertex(&graph.DirectoryMarker{SolutionRoot: root, IsCompletion: true})
		for _, p := range r.byRoot[graph.NormalizePath(root)] {
			r.g.AddEdge(p, start)
			r.g.AddEdge(done, p)
		}
		r.g.AddEdge(done, start)
	}
	return roots
}
