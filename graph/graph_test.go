package graph

import (
	"testing"

	"github.com/google/uuid"
)

func newProject(name, root string) *Project {
	return &Project{
		Identity:       uuid.New(),
		AssemblyName:   name,
		Path:           root + "/" + name + "/" + name + ".csproj",
		SolutionRoot:   root,
		IncludeInBuild: true,
	}
}

func TestGraph_AddVertex_Lookup(t *testing.T) {
	g := New()
	a := g.AddVertex(newProject("Core.Services", "src/Core"))
	m := g.AddVertex(&Module{ModuleName: "Core.Services"})

	got, ok := g.Lookup(KindProject, "core.SERVICES")
	if !ok || got != a {
		t.Fatalf("expected project handle %d, got %d (ok=%v)", a, got, ok)
	}
	got, ok = g.Lookup(KindModule, "Core.Services")
	if !ok || got != m {
		t.Fatalf("expected module handle %d, got %d (ok=%v)", m, got, ok)
	}
	if _, ok := g.Lookup(KindDirectoryMarker, "Core.Services"); ok {
		t.Fatal("expected no directory marker match")
	}

	all := g.LookupAll("core.services")
	if len(all) != 2 {
		t.Fatalf("expected 2 vertices sharing the name, got %v", all)
	}
}

func TestGraph_AddEdge_Idempotent(t *testing.T) {
	g := New()
	a := g.AddVertex(newProject("A", "r"))
	b := g.AddVertex(newProject("B", "r"))

	if !g.AddEdge(b, a) {
		t.Fatal("expected first edge to be added")
	}
	if g.AddEdge(b, a) {
		t.Fatal("expected duplicate edge to be a no-op")
	}
	if g.EdgeCount() != 1 {
		t.Fatalf("expected 1 edge, got %d", g.EdgeCount())
	}
	if deps := g.DependsOn(b); len(deps) != 1 || deps[0] != a {
		t.Fatalf("unexpected deps: %v", deps)
	}
	if !g.HasEdge(b, a) || g.HasEdge(a, b) {
		t.Fatal("edge direction is wrong")
	}
}

func TestGraph_DependsOn_InsertionOrder(t *testing.T) {
	g := New()
	a := g.AddVertex(newProject("A", "r"))
	b := g.AddVertex(newProject("B", "r"))
	c := g.AddVertex(newProject("C", "r"))
	d := g.AddVertex(newProject("D", "r"))

	g.AddEdge(d, c)
	g.AddEdge(d, a)
	g.AddEdge(d, b)
	g.AddEdge(d, a)

	deps := g.DependsOn(d)
	want := []Handle{c, a, b}
	if len(deps) != len(want) {
		t.Fatalf("expected %v, got %v", want, deps)
	}
	for i := range want {
		if deps[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, deps)
		}
	}
}

func TestGraph_Dependents(t *testing.T) {
	g := New()
	a := g.AddVertex(newProject("A", "r"))
	b := g.AddVertex(newProject("B", "r"))
	c := g.AddVertex(newProject("C", "r"))
	g.AddEdge(b, a)
	g.AddEdge(c, a)

	rev := g.Dependents()
	if len(rev[a]) != 2 || rev[a][0] != b || rev[a][1] != c {
		t.Fatalf("unexpected dependents of A: %v", rev[a])
	}
	if len(rev[b]) != 0 {
		t.Fatalf("expected no dependents of B, got %v", rev[b])
	}
}

func TestGraph_Clone_IsDeep(t *testing.T) {
	g := New()
	a := g.AddVertex(newProject("A", "r"))
	b := g.AddVertex(newProject("B", "r"))
	g.AddEdge(b, a)

	cp := g.Clone()
	cp.Project(a).IsDirty = true
	c := cp.AddVertex(newProject("C", "r"))
	cp.AddEdge(c, b)
	cp.AddEdge(a, b)

	if g.Project(a).IsDirty {
		t.Error("mutating the clone's payload changed the original")
	}
	if g.Len() != 2 {
		t.Errorf("expected original to keep 2 vertices, got %d", g.Len())
	}
	if g.HasEdge(a, b) || g.EdgeCount() != 1 {
		t.Error("adding edges to the clone changed the original")
	}
	if !cp.HasEdge(b, a) {
		t.Error("clone lost an edge")
	}
}

func TestGraph_RemoveEdges(t *testing.T) {
	g := New()
	p := g.AddVertex(newProject("P", "r"))
	start := g.AddVertex(&DirectoryMarker{SolutionRoot: "r"})
	done := g.AddVertex(&DirectoryMarker{SolutionRoot: "r", IsCompletion: true})
	g.AddEdge(p, start)
	g.AddEdge(done, p)
	g.AddEdge(done, start)

	removed := g.RemoveEdges(func(from, to Handle) bool {
		return g.Kind(from) == KindDirectoryMarker || g.Kind(to) == KindDirectoryMarker
	})
	if removed != 3 {
		t.Fatalf("expected 3 edges removed, got %d", removed)
	}
	if g.EdgeCount() != 0 || g.HasEdge(p, start) {
		t.Fatal("expected no edges left")
	}
	if g.AddEdge(p, start) == false {
		t.Fatal("expected removed edge to be addable again")
	}
}

func TestDirectoryMarker_Name(t *testing.T) {
	start := &DirectoryMarker{SolutionRoot: "src/Web"}
	done := &DirectoryMarker{SolutionRoot: "src/Web", IsCompletion: true}
	if start.Name() == done.Name() {
		t.Fatal("start and completion markers must have distinct names")
	}
}

func TestVertex_NamesAndKinds(t *testing.T) {
	tests := []struct {
		ref  DependencyRef
		name string
		kind string
	}{
		{&Project{AssemblyName: "Core.Api"}, "Core.Api", "project"},
		{&Module{ModuleName: "Core"}, "Core", "module"},
		{&DirectoryMarker{SolutionRoot: "src"}, "src#init", "directory"},
		{&DirectoryMarker{SolutionRoot: "src", IsCompletion: true}, "src#completion", "directory"},
	}
	for _, tt := range tests {
		if tt.ref.Name() != tt.name || tt.ref.Kind().String() != tt.kind {
			t.Errorf("got %s/%s, want %s/%s", tt.ref.Name(), tt.ref.Kind(), tt.name, tt.kind)
		}
	}
	if Kind(0).String() != "unknown" {
		t.Errorf("expected unknown for the zero kind, got %s", Kind(0))
	}
	if got := (BuildConfiguration{Configuration: "Release", Platform: "x64"}).String(); got != "Release|x64" {
		t.Errorf("unexpected configuration %q", got)
	}
}

func TestProject_HasSourceFile(t *testing.T) {
	p := newProject("A", "r")
	p.SourceFiles = []string{`Generated\Entities.tt`, "Program.cs"}

	if !p.HasSourceFile("generated/entities.TT") {
		t.Error("expected separator and case to be ignored")
	}
	if p.HasSourceFile("Other.tt") {
		t.Error("unexpected match")
	}
}
