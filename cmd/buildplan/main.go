// Command buildplan computes the staged build plan of a workspace.
//
// Usage:
//
//	buildplan [flags] [changed-unit ...]
//
// Changed units come from --changes and from the positional arguments. With
// --full every project is rebuilt. With --serve the plan is served over HTTP
// instead of printed.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/ashokvundavalli/AderantDevops-sub005/config"
	apperrors "github.com/ashokvundavalli/AderantDevops-sub005/errors"
	"github.com/ashokvundavalli/AderantDevops-sub005/logger"
	"github.com/ashokvundavalli/AderantDevops-sub005/manifest"
	"github.com/ashokvundavalli/AderantDevops-sub005/observability"
	"github.com/ashokvundavalli/AderantDevops-sub005/plan"
	"github.com/ashokvundavalli/AderantDevops-sub005/server"
	"github.com/ashokvundavalli/AderantDevops-sub005/version"
)

const name = "buildplan"

// Exit codes.
const (
	exitFailure = 1
	exitFatal   = 2
)

// exitError carries the process exit code of a failed run.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, err)
	var exit *exitError
	if errors.As(err, &exit) {
		os.Exit(exit.code)
	}
	os.Exit(exitFailure)
}

type options struct {
	configFile string
	root       string
	changes    string
	full       bool
	json       bool
	serve      bool
	version    bool
	logLevel   string
}

func parseFlags(args []string, stderr io.Writer) (*options, []string, error) {
	var o options
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: %s [flags] [changed-unit ...]\n\nFlags:\n", name)
		fs.PrintDefaults()
	}

	fs.StringVarP(&o.configFile, "config", "c", "", "config file (default: searched)")
	fs.StringVarP(&o.root, "root", "r", "", "workspace root, overrides manifest.root")
	fs.StringVar(&o.changes, "changes", "", "file listing changed unit names, one per line")
	fs.BoolVar(&o.full, "full", false, "rebuild every project")
	fs.BoolVar(&o.json, "json", false, "print the plan as JSON")
	fs.BoolVar(&o.serve, "serve", false, "serve plans over HTTP instead of printing one")
	fs.BoolVar(&o.version, "version", false, "print the version and exit")
	fs.StringVar(&o.logLevel, "log-level", "", "log level, overrides logging.level")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return &o, fs.Args(), nil
}

func loadConfig(o *options) (*config.Config, error) {
	var loaderOpts []config.LoaderOption
	if o.configFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(o.configFile))
	}
	var cfg config.Config
	if err := config.Load(name, &cfg, loaderOpts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()

	if o.root != "" {
		cfg.Manifest.Root = o.root
	}
	if o.changes != "" {
		cfg.Manifest.ChangesFile = o.changes
	}
	if o.full {
		cfg.Planner.Mode = string(plan.ModeFull)
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	o, changed, err := parseFlags(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return &exitError{code: exitFatal, err: err}
	}
	if o.version {
		fmt.Fprintf(stdout, "%s %s\n", name, version.Get())
		return nil
	}

	cfg, err := loadConfig(o)
	if err != nil {
		return &exitError{code: exitFailure, err: fmt.Errorf("configuration: %w", err)}
	}

	logOut := stderr
	if cfg.Logging.Output == "stdout" {
		logOut = stdout
	}
	logger.SetGlobalLogger(logger.NewWithWriter(&cfg.Logging, cfg.Name, logOut))
	logger.RegisterDefaults()
	log := logger.Get(logger.ComponentCLI)

	shutdown, err := initTelemetry(ctx, cfg)
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	defer shutdown()

	metrics, err := observability.NewMetrics(observability.Meter())
	if err != nil {
		return &exitError{code: exitFailure, err: err}
	}

	planner := plan.New(
		manifest.NewSource(cfg.Manifest, logger.Get(logger.ComponentManifest)),
		manifest.ChangeList{Path: cfg.Manifest.ChangesFile, Names: changed},
		cfg.Planner.Options(),
		plan.WithLogger(logger.Get(logger.ComponentPlanner)),
		plan.WithMetrics(metrics),
	)

	if o.serve {
		return serve(ctx, cfg, planner)
	}

	bp, err := planner.ComputeBuildPlan(ctx)
	if err != nil {
		code := exitFailure
		if apperrors.IsFatal(err) {
			code = exitFatal
		}
		return &exitError{code: code, err: err}
	}
	log.Debug("plan printed", logger.Fields(logger.FieldPlanID, bp.ID))

	if o.json {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(bp)
	}
	return printPlan(stdout, bp)
}

// initTelemetry starts the configured exporters and returns a function that
// flushes and stops them.
func initTelemetry(ctx context.Context, cfg *config.Config) (func(), error) {
	v := version.Get().Version
	var stops []func(context.Context) error

	if cfg.Observability.Tracing.Enabled {
		tp, err := observability.InitTracer(ctx, cfg.TracerConfig(v))
		if err != nil {
			return nil, err
		}
		stops = append(stops, tp.Shutdown)
	}
	if cfg.Observability.Metrics.Enabled {
		mp, err := observability.InitMeter(ctx, cfg.MeterConfig(v))
		if err != nil {
			return nil, err
		}
		stops = append(stops, mp.Shutdown)
	}

	return func() {
		for _, stop := range stops {
			if err := stop(context.Background()); err != nil {
				logger.Warn("telemetry shutdown failed", logger.Fields(logger.FieldError, err.Error()))
			}
		}
	}, nil
}

func serve(ctx context.Context, cfg *config.Config, planner server.Planner) error {
	srv := server.New(cfg.Server, cfg.Name, planner, logger.Get(logger.ComponentServer))
	if err := srv.Start(ctx); err != nil {
		return &exitError{code: exitFailure, err: err}
	}
	<-ctx.Done()
	return srv.Stop(context.Background())
}

func printPlan(w io.Writer, bp *plan.Plan) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "plan %s (%s): %d stages, %d projects, %d dirty\n",
		bp.ID, bp.Mode, len(bp.Stages), bp.Projects(), bp.DirtyCount)
	for _, st := range bp.Stages {
		fmt.Fprintf(tw, "stage %d\n", st.Index)
		for _, m := range st.Members {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", m.Name, m.Kind, m.Path)
		}
	}
	if len(bp.Diagnostics) > 0 {
		fmt.Fprintln(tw, "diagnostics")
		for _, d := range bp.Diagnostics {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", strings.ToUpper(string(d.Severity)), d.Code, d.Message)
		}
	}
	return tw.Flush()
}
