package plan

import (
	"github.com/ashokvundavalli/AderantDevops-sub005/graph"
)

// Mode selects how dirty projects are determined.
type Mode string

const (
	// ModeIncremental rebuilds changed units and everything depending on them.
	ModeIncremental Mode = "incremental"
	// ModeFull rebuilds every project.
	ModeFull Mode = "full"
)

// Plan is the outcome of one planning pass.
type Plan struct {
	ID          string       `json:"id"`
	Mode        Mode         `json:"mode"`
	Stages      []Stage      `json:"stages"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	// DirtyCount is the number of dirty projects, including excluded ones.
	DirtyCount  int `json:"dirty_count"`
	VertexCount int `json:"vertex_count"`
}

// Stage is one level of the plan. Its members do not depend on each other.
type Stage struct {
	Index   int      `json:"index"`
	Members []Member `json:"members"`
}

// Member is one vertex scheduled in a stage.
type Member struct {
	Name          string `json:"name"`
	Kind          string `json:"kind"`
	Path          string `json:"path,omitempty"`
	SolutionRoot  string `json:"solution_root,omitempty"`
	Configuration string `json:"configuration,omitempty"`
	Platform      string `json:"platform,omitempty"`
}

// Levels returns the member names of each stage.
func (p *Plan) Levels() [][]string {
	levels := make([][]string, len(p.Stages))
	for i, st := range p.Stages {
		names := make([]string, len(st.Members))
		for j, m := range st.Members {
			names[j] = m.Name
		}
		levels[i] = names
	}
	return levels
}

// Projects returns the number of project members across all stages.
func (p *Plan) Projects() int {
	n := 0
	for _, st := range p.Stages {
		for _, m := range st.Members {
			if m.Kind == graph.KindProject.String() {
				n++
			}
		}
	}
	return n
}

func newMember(g *graph.Graph, h graph.Handle) Member {
	m := Member{Name: g.Name(h), Kind: g.Kind(h).String()}
	switch ref := g.Ref(h).(type) {
	case *graph.Project:
		m.Path = ref.Path
		m.SolutionRoot = ref.SolutionRoot
		m.Configuration = ref.Configuration.Configuration
		m.Platform = ref.Configuration.Platform
	case *graph.Module:
		m.SolutionRoot = ref.SolutionRoot
	case *graph.DirectoryMarker:
		m.SolutionRoot = ref.SolutionRoot
	}
	return m
}

// newStages turns levels into stages. Projects excluded from the build are
// left out and a stage with no members left is dropped.
func newStages(g *graph.Graph, levels [][]graph.Handle) []Stage {
	stages := make([]Stage, 0, len(levels))
	for _, level := range levels {
		members := make([]Member, 0, len(level))
		for _, h := range level {
			if p := g.Project(h); p != nil && !p.IncludeInBuild {
				continue
			}
			members = append(members, newMember(g, h))
		}
		if len(members) == 0 {
			continue
		}
		stages = append(stages, Stage{Index: len(stages), Members: members})
	}
	return stages
}
