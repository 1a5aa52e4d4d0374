package resolver

import (
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/ashokvundavalli/AderantDevops-sub005/graph"
)

// ProjectDeclaration is the raw content scanned from one build-unit file.
type ProjectDeclaration struct {
	Identity     uuid.UUID `yaml:"identity" json:"identity" validate:"required"`
	AssemblyName string    `yaml:"assembly" json:"assembly" validate:"required"`
	Path         string    `yaml:"path" json:"path" validate:"required"`
	SolutionRoot string    `yaml:"root" json:"root" validate:"required"`

	Configuration string `yaml:"configuration,omitempty" json:"configuration,omitempty"`
	Platform      string `yaml:"platform,omitempty" json:"platform,omitempty"`
	// IncludeInBuild defaults to true when absent.
	IncludeInBuild *bool `yaml:"include_in_build,omitempty" json:"include_in_build,omitempty"`

	SourceFiles        []string           `yaml:"sources,omitempty" json:"sources,omitempty"`
	ProjectReferences  []ProjectReference `yaml:"project_references,omitempty" json:"project_references,omitempty" validate:"dive"`
	AssemblyReferences []string           `yaml:"assembly_references,omitempty" json:"assembly_references,omitempty"`
}

// Included reports whether the project takes part in the build.
func (d *ProjectDeclaration) Included() bool {
	return d.IncludeInBuild == nil || *d.IncludeInBuild
}

// ModuleDeclaration is one entry of a module manifest.
type ModuleDeclaration struct {
	Name string `yaml:"name" json:"name" validate:"required"`
	// SolutionRoot is the directory the module owns, if it is built from source.
	SolutionRoot string `yaml:"root,omitempty" json:"root,omitempty"`
	DependsOn    []string `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	// Contains lists alias names resolved to this module.
	Contains []string `yaml:"contains,omitempty" json:"contains,omitempty"`
}

// TemplateReference is one code-generation template of a solution root and
// the assemblies it loads. TemplateFile is relative to the solution root.
type TemplateReference struct {
	TemplateFile  string   `yaml:"template" json:"template" validate:"required"`
	AssemblyNames []string `yaml:"assemblies" json:"assemblies"`
}

// Reference is an unresolved placeholder read from a declaration. It is
// replaced by an edge during resolution and never scheduled.
type Reference interface {
	Name() string
	Describe() string
}

// ProjectReference points at another project by identity and relative path.
// AssemblyName is the declared target name, which is frequently stale.
type ProjectReference struct {
	Identity     uuid.UUID `yaml:"identity" json:"identity"`
	RelativePath string    `yaml:"path" json:"path" validate:"required"`
	AssemblyName string    `yaml:"name,omitempty" json:"name,omitempty"`
}

// Name returns the declared assembly name, or the file name of the
// referenced project without its extension.
func (r ProjectReference) Name() string {
	if r.AssemblyName != "" {
		return r.AssemblyName
	}
	base := path.Base(strings.ReplaceAll(r.RelativePath, `\`, "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}

func (r ProjectReference) Describe() string {
	return "project reference " + r.Name() + " {" + r.Identity.String() + "} (" + r.RelativePath + ")"
}

// AssemblyReference points at an assembly by name.
type AssemblyReference struct {
	AssemblyName string
}

func (r AssemblyReference) Name() string     { return r.AssemblyName }
func (r AssemblyReference) Describe() string { return "assembly reference " + r.AssemblyName }

// ModuleReference points at a module or a module alias by name.
type ModuleReference struct {
	ModuleName string
}

func (r ModuleReference) Name() string     { return r.ModuleName }
func (r ModuleReference) Describe() string { return "module reference " + r.ModuleName }

// SolutionRoots returns the distinct solution roots of projects in order of
// first appearance. Roots are compared after path normalization.
func SolutionRoots(projects []ProjectDeclaration) []string {
	seen := make(map[string]struct{})
	var roots []string
	for i := range projects {
		key := graph.NormalizePath(projects[i].SolutionRoot)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		roots = append(roots, projects[i].SolutionRoot)
	}
	return roots
}

// Declarations is the complete raw input of one resolution pass.
type Declarations struct {
	Projects []ProjectDeclaration
	Modules  []ModuleDeclaration
	// Templates holds the code-generation scan of each solution root, keyed
	// by the root as returned from SolutionRoots.
	Templates map[string][]TemplateReference
}
