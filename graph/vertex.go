package graph

import (
	"strings"

	"github.com/google/uuid"
)

// Kind identifies the variant of a vertex.
type Kind uint8

const (
	KindProject Kind = iota + 1
	KindModule
	KindDirectoryMarker
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindProject:
		return "project"
	case KindModule:
		return "module"
	case KindDirectoryMarker:
		return "directory"
	default:
		return "unknown"
	}
}

// DependencyRef is the payload of a vertex. The set of implementations is
// closed: *Project, *Module and *DirectoryMarker.
type DependencyRef interface {
	// Name is the comparison key of the vertex. Comparisons are case-insensitive.
	Name() string
	Kind() Kind

	clone() DependencyRef
}

// BuildConfiguration is a configuration and platform pair, e.g. Debug|AnyCPU.
type BuildConfiguration struct {
	Configuration string `json:"configuration"`
	Platform      string `json:"platform"`
}

// String formats the pair as Configuration|Platform.
func (c BuildConfiguration) String() string {
	return c.Configuration + "|" + c.Platform
}

// Project is a compilation unit discovered from a build-unit file.
type Project struct {
	Identity       uuid.UUID
	AssemblyName   string
	Path           string
	SolutionRoot   string
	IsDirty        bool
	IncludeInBuild bool
	Configuration  BuildConfiguration
	// SourceFiles are paths relative to the solution root. They are used to
	// match code-generation templates.
	SourceFiles []string
}

// Name returns the assembly name.
func (p *Project) Name() string { return p.AssemblyName }

// Kind returns KindProject.
func (p *Project) Kind() Kind { return KindProject }

// HasSourceFile reports whether file is one of the project's source files.
// Path separators and case are ignored.
func (p *Project) HasSourceFile(file string) bool {
	want := NormalizePath(file)
	for _, f := range p.SourceFiles {
		if NormalizePath(f) == want {
			return true
		}
	}
	return false
}

func (p *Project) clone() DependencyRef {
	cp := *p
	cp.SourceFiles = append([]string(nil), p.SourceFiles...)
	return &cp
}

// Module is a whole component read from a module manifest.
type Module struct {
	ModuleName string
	// SolutionRoot is the directory the module owns. Empty for modules that
	// are consumed only as prebuilt packages.
	SolutionRoot string
	// DeclaredDependencies are the raw module names from the manifest.
	DeclaredDependencies []string
	// Contains lists the alias names this module is the container for.
	Contains []string
}

// Name returns the module name.
func (m *Module) Name() string { return m.ModuleName }

// Kind returns KindModule.
func (m *Module) Kind() Kind { return KindModule }

func (m *Module) clone() DependencyRef {
	cp := *m
	cp.DeclaredDependencies = append([]string(nil), m.DeclaredDependencies...)
	cp.Contains = append([]string(nil), m.Contains...)
	return &cp
}

// DirectoryMarker brackets the projects of a solution root. The init marker
// precedes every project of the root and the completion marker follows them.
type DirectoryMarker struct {
	SolutionRoot string
	IsCompletion bool
}

// Name returns the solution root suffixed with #init or #completion.
func (d *DirectoryMarker) Name() string {
	if d.IsCompletion {
		return d.SolutionRoot + "#completion"
	}
	return d.SolutionRoot + "#init"
}

// Kind returns KindDirectoryMarker.
func (d *DirectoryMarker) Kind() Kind { return KindDirectoryMarker }

func (d *DirectoryMarker) clone() DependencyRef {
	cp := *d
	return &cp
}

// Fold returns the case-insensitive comparison key for a name.
func Fold(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizePath folds a path for comparison: forward slashes, no trailing
// separator, lower case.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), `\`, "/")
	p = strings.TrimSuffix(p, "/")
	return strings.ToLower(p)
}
