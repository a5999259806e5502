package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitas-dev/gravitas/pkg/pipeline"
)

// exportCommand creates the export command for rendering graph visuals.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output  string
		formats string
	)
	opts := pipeline.Options{}
	opts.SetLayoutDefaults()

	cmd := &cobra.Command{
		Use:   "export [graph.json]",
		Short: "Render an entity graph as SVG, PNG, PDF, DOT, or JSON",
		Long: `Render an entity graph as SVG, PNG, PDF, DOT, or positioned JSON.

The export command runs the full pipeline: it loads the graph, computes a
layout (reusing position hints when present), and writes one output file per
requested format. Formats are comma-separated:

  gravitas export graph.json -f svg,png
  gravitas export graph.json -f dot --labels`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Path = args[0]
			opts.Formats = parseFormats(formats)
			return c.runExport(cmd.Context(), opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: input name)")
	cmd.Flags().StringVarP(&formats, "format", "f", "svg", "comma-separated output formats: svg, dot, png, pdf, json")
	cmd.Flags().StringVarP(&opts.Preset, "preset", "p", "", "layout preset: default, dense, sparse")
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "canvas width")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "canvas height")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed for reproducible runs (0 = random)")
	cmd.Flags().BoolVar(&opts.Labels, "labels", false, "render node labels")
	cmd.Flags().StringVar(&opts.Background, "background", "", "background color (default: transparent)")
	cmd.Flags().Float64Var(&opts.PNGScale, "png-scale", pipeline.DefaultPNGScale, "PNG raster scale factor")

	return cmd
}

// runExport executes the pipeline and writes one file per format.
func (c *CLI) runExport(ctx context.Context, opts pipeline.Options, output string) error {
	opts.Logger = c.Logger
	runner := c.newRunner()

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Export failed")
		return err
	}
	spinner.Stop()

	base := output
	if base == "" {
		base = strings.TrimSuffix(opts.Path, filepath.Ext(opts.Path))
	}

	printSuccess("Export complete")
	for _, format := range opts.Formats {
		path := base + "." + format
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.Layout.Stats.DanglingEdges)

	return nil
}
