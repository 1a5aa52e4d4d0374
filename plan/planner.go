package plan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ashokvundavalli/AderantDevops-sub005/dag"
	apperrors "github.com/ashokvundavalli/AderantDevops-sub005/errors"
	"github.com/ashokvundavalli/AderantDevops-sub005/graph"
	"github.com/ashokvundavalli/AderantDevops-sub005/logger"
	"github.com/ashokvundavalli/AderantDevops-sub005/observability"
	"github.com/ashokvundavalli/AderantDevops-sub005/resolver"
	"github.com/ashokvundavalli/AderantDevops-sub005/validation"
)

// Planning phases, used as span names, metric attributes and log fields.
const (
	PhaseLoad    = "load"
	PhaseResolve = "resolve"
	PhaseSort    = "sort"
	PhaseDirty   = "dirty"
	PhaseLevels  = "levels"
)

// Options tune a Planner.
type Options struct {
	Mode             Mode
	BootstrapModule  string
	AliasPolicy      resolver.AliasPolicy
	StrictIdentities bool
	// Configuration and Platform apply to projects that declare none.
	Configuration string
	Platform      string
}

// Planner computes build plans from its collaborators. A Planner holds no
// state between passes and may be used concurrently.
type Planner struct {
	decls   DeclarationSource
	changes ChangeSource
	opts    Options
	log     *logger.Logger
	metrics *observability.Metrics
	newID   func() string
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *logger.Logger) Option {
	return func(p *Planner) { p.log = l }
}

// WithMetrics records pass and phase metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Planner) { p.metrics = m }
}

// WithIDGenerator replaces the plan ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(p *Planner) { p.newID = fn }
}

// New creates a Planner. changes may be nil in full mode.
func New(decls DeclarationSource, changes ChangeSource, opts Options, options ...Option) *Planner {
	if opts.Mode == "" {
		opts.Mode = ModeIncremental
	}
	p := &Planner{
		decls:   decls,
		changes: changes,
		opts:    opts,
		log:     logger.Nop(),
		newID:   uuid.NewString,
	}
	for _, o := range options {
		o(p)
	}
	return p
}

// Compute runs one pass over in-memory declarations.
func Compute(ctx context.Context, decls resolver.Declarations, changed []string, opts Options) (*Plan, error) {
	return New(StaticDeclarations(decls), StaticChanges(changed), opts).ComputeBuildPlan(ctx)
}

// ComputeBuildPlan runs a full planning pass: load declarations, resolve
// them into a graph, sort it, mark dirty projects and partition the
// remaining vertices into stages.
func (p *Planner) ComputeBuildPlan(ctx context.Context) (*Plan, error) {
	start := time.Now()
	id := p.newID()

	ctx, span := observability.StartSpan(ctx, observability.SpanComputePlan, trace.WithAttributes(
		attribute.String(observability.AttrPlanID, id),
		attribute.String(observability.AttrMode, string(p.opts.Mode)),
	))
	defer span.End()
	log := p.log.WithContext(ctx).WithFields(logger.Fields(logger.FieldPlanID, id))

	bp, err := p.compute(ctx, log, id)

	status := "ok"
	if err != nil {
		status = "error"
		code := apperrors.ErrCodeInternal
		if appErr, ok := apperrors.AsAppError(err); ok {
			code = appErr.Code
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String(observability.AttrErrorCode, string(code)))
		if p.metrics != nil {
			p.metrics.RecordError(ctx, string(code))
		}
		log.Error("planning failed", logger.Fields(logger.FieldCode, string(code), logger.FieldError, err.Error()))
	}
	if p.metrics != nil {
		p.metrics.RecordPlan(ctx, string(p.opts.Mode), status, time.Since(start))
	}
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int(observability.AttrLevels, len(bp.Stages)))
	log.Info("plan computed", logger.Fields(
		"stages", len(bp.Stages),
		"projects", bp.Projects(),
		"dirty", bp.DirtyCount,
		"diagnostics", len(bp.Diagnostics),
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return bp, nil
}

func (p *Planner) compute(ctx context.Context, log *logger.Logger, id string) (*Plan, error) {
	var (
		decls   resolver.Declarations
		changed []string
	)
	err := p.phase(ctx, log, PhaseLoad, func(ctx context.Context) error {
		var err error
		if decls, err = p.load(ctx); err != nil {
			return err
		}
		changed, err = p.changedUnits(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	var res *resolver.Result
	err = p.phase(ctx, log, PhaseResolve, func(ctx context.Context) error {
		var err error
		res, err = resolver.Resolve(decls, resolver.Options{
			BootstrapModule:  p.opts.BootstrapModule,
			AliasPolicy:      p.opts.AliasPolicy,
			StrictIdentities: p.opts.StrictIdentities,
			DefaultConfiguration: graph.BuildConfiguration{
				Configuration: p.opts.Configuration,
				Platform:      p.opts.Platform,
			},
		})
		if err != nil {
			return err
		}
		observability.SetSpanAttribute(ctx, observability.AttrVertices, res.Graph.Len())
		observability.SetSpanAttribute(ctx, observability.AttrEdges, res.Graph.EdgeCount())
		if p.metrics != nil {
			p.metrics.RecordGraph(ctx, res.Graph.Len())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	g := res.Graph

	var order []graph.Handle
	err = p.phase(ctx, log, PhaseSort, func(ctx context.Context) error {
		var err error
		order, err = dag.Sort(g)
		var cycle *apperrors.CircularDependencyError
		if errors.As(err, &cycle) {
			cycle.DeclaredCycle = declaredCycle(g)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	var (
		dirtyCount int
		unknown    []string
	)
	err = p.phase(ctx, log, PhaseDirty, func(ctx context.Context) error {
		if p.opts.Mode == ModeFull {
			dirtyCount = dag.MarkAllDirty(g)
		} else {
			var dirty dag.Set
			dirty, unknown = dag.Propagate(g, changed)
			dirtyCount = dag.MarkDirty(g, dirty)
		}
		observability.SetSpanAttribute(ctx, observability.AttrDirty, dirtyCount)
		if p.metrics != nil {
			p.metrics.RecordDirty(ctx, dirtyCount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var levels [][]graph.Handle
	err = p.phase(ctx, log, PhaseLevels, func(ctx context.Context) error {
		levels = dag.BuildLevels(g, dag.Filter(g, order))
		if err := dag.ValidateLevels(g, levels); err != nil {
			return apperrors.Internal(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	bp := &Plan{
		ID:          id,
		Mode:        p.opts.Mode,
		Stages:      newStages(g, levels),
		DirtyCount:  dirtyCount,
		VertexCount: g.Len(),
	}
	bp.Diagnostics = append(fromIssues(res.Issues), unknownChanges(unknown)...)
	p.report(ctx, log, bp.Diagnostics)
	return bp, nil
}

// phase runs fn inside a traced phase and logs its duration.
func (p *Planner) phase(ctx context.Context, log *logger.Logger, name string, fn func(ctx context.Context) error) error {
	pctx, ph := observability.StartPhase(ctx, name, p.metrics)
	err := fn(pctx)
	d := ph.End(pctx, err)
	log.Debug("phase finished", logger.PhaseFields(name, d))
	return err
}

// load fetches and validates every declaration.
func (p *Planner) load(ctx context.Context) (resolver.Declarations, error) {
	var decls resolver.Declarations

	projects, err := p.decls.ProjectFiles(ctx)
	if err != nil {
		return decls, sourceError("project", err)
	}
	for i := range projects {
		if err := validation.ValidateDeclaration(projectLabel(i, &projects[i]), &projects[i]); err != nil {
			return decls, err
		}
	}

	modules, err := p.decls.ModuleManifests(ctx)
	if err != nil {
		return decls, sourceError("module", err)
	}
	for i := range modules {
		if err := validation.ValidateDeclaration(fmt.Sprintf("module[%d]", i), &modules[i]); err != nil {
			return decls, err
		}
	}

	templates := make(map[string][]resolver.TemplateReference)
	for _, root := range resolver.SolutionRoots(projects) {
		refs, err := p.decls.TemplateReferences(ctx, root)
		if err != nil {
			return decls, sourceError("template", err)
		}
		for i := range refs {
			if err := validation.ValidateDeclaration(fmt.Sprintf("%s template[%d]", root, i), &refs[i]); err != nil {
				return decls, err
			}
		}
		if len(refs) > 0 {
			templates[root] = refs
		}
	}

	decls.Projects = projects
	decls.Modules = modules
	decls.Templates = templates
	return decls, nil
}

func (p *Planner) changedUnits(ctx context.Context) ([]string, error) {
	if p.opts.Mode == ModeFull {
		return nil, nil
	}
	if p.changes == nil {
		return nil, apperrors.InvalidInput("changes", "incremental mode requires a change source")
	}
	names, err := p.changes.ChangedUnitNames(ctx)
	if err != nil {
		return nil, sourceError("change", err)
	}
	return names, nil
}

func (p *Planner) report(ctx context.Context, log *logger.Logger, diags []Diagnostic) {
	for _, d := range diags {
		fields := logger.Fields(logger.FieldCode, d.Code, logger.FieldVertex, d.Subject)
		if d.Severity == SeverityInfo && !d.unresolved() {
			log.Debug(d.Message, fields)
		} else {
			log.Warn(d.Message, fields)
		}
		if p.metrics != nil {
			p.metrics.RecordDiagnostic(ctx, d.Code)
		}
	}
}

// declaredCycle reports whether g still has a cycle once the synthetic
// solution-bracketing edges are removed. It works on a clone.
func declaredCycle(g *graph.Graph) bool {
	trial := g.Clone()
	trial.RemoveEdges(func(from, to graph.Handle) bool {
		return trial.Kind(from) == graph.KindDirectoryMarker || trial.Kind(to) == graph.KindDirectoryMarker
	})
	_, err := dag.Sort(trial)
	return err != nil
}

func sourceError(source string, err error) error {
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}
	return apperrors.SourceFailed(source, err)
}

func projectLabel(i int, d *resolver.ProjectDeclaration) string {
	if d.Path != "" {
		return d.Path
	}
	return fmt.Sprintf("project[%d]", i)
}
