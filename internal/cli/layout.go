package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gravitas-dev/gravitas/pkg/graph"
	"github.com/gravitas-dev/gravitas/pkg/layout"
	"github.com/gravitas-dev/gravitas/pkg/pipeline"
)

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output      string
		presetsFile string
	)
	opts := pipeline.Options{}
	opts.SetLayoutDefaults()

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute force-directed positions for an entity graph",
		Long: `Compute force-directed positions for an entity graph.

The layout command takes a graph.json file and runs the physics simulation.
The output is the same graph with x/y positions written onto every node,
ready for 'export' or 'view'. Nodes that already carry positions keep them
as simulation starting points; pinned nodes are never moved.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, presetsFile)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVarP(&opts.Preset, "preset", "p", "", "layout preset: default, dense, sparse")
	cmd.Flags().StringVar(&presetsFile, "presets-file", "", "TOML file with additional presets")
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "canvas width")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "canvas height")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed for reproducible runs (0 = random)")

	return cmd
}

// runLayout loads the graph, computes positions, and writes the output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output, presetsFile string) error {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	if presetsFile == "" {
		presetsFile = defaultPresetsFile()
	}
	if presetsFile != "" {
		cfg, err := resolveFilePreset(presetsFile, opts.Preset)
		if err != nil {
			return err
		}
		if cfg != nil {
			opts.Config = cfg
		}
	}

	runner := c.newRunner()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	prog := newProgress(c.Logger)
	res, err := runner.ComputeLayout(g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Laid out %d nodes", res.Stats.NodeCount))

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := graph.WriteGraphFile(g, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.Stats.DanglingEdges)
	if res.Stats.DanglingEdges > 0 {
		printWarning("%d edges reference missing nodes and were left out of the simulation", res.Stats.DanglingEdges)
	}
	printNewline()
	printNextStep("Render", appName+" export "+outputPath)

	return nil
}

// resolveFilePreset loads a preset file and returns the named entry, or nil
// when no preset name was given (file presets only matter when selected).
func resolveFilePreset(path, name string) (*layout.Config, error) {
	presets, err := layout.LoadPresets(path)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, nil
	}
	cfg, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("preset %q not found in %s", name, path)
	}
	return &cfg, nil
}
