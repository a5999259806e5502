package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravitas-dev/gravitas/pkg/errors"
	"github.com/gravitas-dev/gravitas/pkg/graph"
	"github.com/gravitas-dev/gravitas/pkg/layout"
	"github.com/gravitas-dev/gravitas/pkg/render"
)

// Runner executes the load → layout → render pipeline.
//
// The Runner is stateless except for its logger; it holds no pipeline
// results. Multiple goroutines can safely use the same Runner with different
// options.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger falls back to the package default.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete load → layout → render pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	result := &Result{Artifacts: make(map[string][]byte)}

	// Stage 1: Load
	loadStart := time.Now()
	g, err := r.Load(opts)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	r.Logger.Info("loaded graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.LoadTime)

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "pipeline canceled")
	}

	// Stage 2: Layout
	layoutStart := time.Now()
	layoutRes, err := r.ComputeLayout(g, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = layoutRes
	result.Stats.LayoutTime = time.Since(layoutStart)

	r.Logger.Info("computed layout",
		"positions", len(layoutRes.Positions),
		"iterations", layoutRes.Stats.Iterations,
		"duration", result.Stats.LayoutTime)

	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "pipeline canceled")
	}

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := r.Render(g, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the input graph. An in-memory graph wins over a file path.
func (r *Runner) Load(opts Options) (*graph.Graph, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	if opts.Graph != nil {
		return opts.Graph, nil
	}
	g, err := graph.ReadGraphFile(opts.Path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "load graph")
	}
	return g, nil
}

// ComputeLayout runs the layout engine and injects the resulting positions
// back onto the graph's nodes.
func (r *Runner) ComputeLayout(g *graph.Graph, opts Options) (layout.Result, error) {
	opts.SetLayoutDefaults()
	r.applyLogger(&opts)

	cfg, err := opts.LayoutConfig()
	if err != nil {
		return layout.Result{}, err
	}

	engine := layout.New(cfg, opts.Logger)
	res := engine.Run(g, opts.Width, opts.Height)

	store := layout.NewStore()
	store.Apply(res)
	store.Inject(g)
	return res, nil
}

// Render produces every requested output format from a positioned graph.
func (r *Runner) Render(g *graph.Graph, opts Options) (map[string][]byte, error) {
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		// Renderers return coded errors; re-wrapping would hide the code
		// from errors.As, which finds the outermost match.
		data, err := r.renderFormat(g, format, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func (r *Runner) renderFormat(g *graph.Graph, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return render.RenderSVG(g, opts.Width, opts.Height, r.svgOptions(opts)...), nil
	case FormatDOT:
		return []byte(render.ToDOT(g, render.DOTOptions{Labels: opts.Labels, KeepPositions: true})), nil
	case FormatJSON:
		data, err := graph.MarshalGraph(g)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render json")
		}
		return data, nil
	case FormatPNG:
		svg := render.RenderSVG(g, opts.Width, opts.Height, r.svgOptions(opts)...)
		return render.ToPNG(svg, opts.PNGScale)
	case FormatPDF:
		svg := render.RenderSVG(g, opts.Width, opts.Height, r.svgOptions(opts)...)
		return render.ToPDF(svg)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", format)
	}
}

func (r *Runner) svgOptions(opts Options) []render.SVGOption {
	var svgOpts []render.SVGOption
	if opts.Labels {
		svgOpts = append(svgOpts, render.WithLabels())
	}
	if opts.Background != "" {
		svgOpts = append(svgOpts, render.WithBackground(opts.Background))
	}
	return svgOpts
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
