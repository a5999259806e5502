package cli

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/gravitas-dev/gravitas/pkg/layout"
)

// presetsCommand creates the presets command for listing layout parameter sets.
func (c *CLI) presetsCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List available layout presets",
		Long: `List available layout presets and their simulation parameters.

Built-in presets cover the common cases: 'default' for mixed graphs, 'dense'
for large result sets, 'sparse' for small graphs that should spread out.
Additional presets can be defined in a TOML file:

  [presets.boardroom]
  charge_strength = -420.0
  link_distance = 150.0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				file = defaultPresetsFile()
			}
			return runPresets(file)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "TOML file with additional presets (default: $XDG_CONFIG_HOME/gravitas/presets.toml)")
	return cmd
}

func runPresets(file string) error {
	presets := make(map[string]layout.Config)
	for _, name := range layout.PresetNames() {
		cfg, err := layout.Preset(name)
		if err != nil {
			return err
		}
		presets[name] = cfg
	}

	names := layout.PresetNames()
	if file != "" {
		merged, err := layout.LoadPresets(file)
		if err != nil {
			return err
		}
		presets = merged
		names = slices.Sorted(maps.Keys(merged))
	}

	for _, name := range names {
		cfg := presets[name]
		fmt.Println(StyleTitle.Render(name))
		printKeyValue("charge", fmt.Sprintf("%g", cfg.ChargeStrength))
		printKeyValue("link distance", fmt.Sprintf("%g", cfg.LinkDistance))
		printKeyValue("min distance", fmt.Sprintf("%g", cfg.MinDistance))
		printKeyValue("iterations", fmt.Sprintf("%d", cfg.Iterations))
		printKeyValue("cooling", fmt.Sprintf("%g", cfg.CoolingRate))
		printKeyValue("center force", fmt.Sprintf("%g", cfg.CenterForce))
		printKeyValue("padding", fmt.Sprintf("%g", cfg.Padding))
		printNewline()
	}
	return nil
}
