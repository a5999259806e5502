package cli

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gravitas-dev/gravitas/pkg/graph"
	"github.com/gravitas-dev/gravitas/pkg/interaction"
	"github.com/gravitas-dev/gravitas/pkg/layout"
	"github.com/gravitas-dev/gravitas/pkg/viewport"
)

// viewCommand creates the view command for interactive terminal browsing.
func (c *CLI) viewCommand() *cobra.Command {
	var preset string

	cmd := &cobra.Command{
		Use:   "view [graph.json]",
		Short: "Browse an entity graph interactively in the terminal",
		Long: `Browse an entity graph interactively in the terminal.

Nodes are laid out with the physics simulation and drawn as colored dots.
Click a node to select it, drag to reposition it (dragged nodes stay pinned),
scroll to zoom, and use the arrow keys to pan.

Keys:
  arrows     pan
  +/-        zoom in/out
  0          reset viewport
  r          refresh layout (re-runs the simulation with jittered positions)
  q          quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := graph.ReadGraphFile(args[0])
			if err != nil {
				return fmt.Errorf("load graph %s: %w", args[0], err)
			}
			cfg, err := layout.Preset(preset)
			if err != nil {
				return err
			}
			model := newViewModel(g, cfg)
			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&preset, "preset", "p", "", "layout preset: default, dense, sparse")
	return cmd
}

// =============================================================================
// View Model
// =============================================================================

// cellAspect is the world height covered by one terminal row. Terminal cells
// are roughly twice as tall as wide, so one row spans two world units.
const cellAspect = 2.0

// terminalPadding is the edge clearance in world units, shared by the
// simulation and the drag clamp so drags cannot park nodes where the
// simulation refuses to place them.
const terminalPadding = 2.0

var (
	viewNodeStyles = map[graph.Category]lipgloss.Style{
		graph.CategoryCompany:     lipgloss.NewStyle().Foreground(colorBlue),
		graph.CategoryPerson:      lipgloss.NewStyle().Foreground(colorYellow),
		graph.CategoryTransaction: lipgloss.NewStyle().Foreground(colorCyan),
		graph.CategoryRating:      lipgloss.NewStyle().Foreground(colorGreen),
		graph.CategoryOther:       lipgloss.NewStyle().Foreground(colorGray),
	}
	viewSelectedStyle = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	viewPinnedStyle   = lipgloss.NewStyle().Foreground(colorRed)
)

// viewModel is the bubbletea model for the interactive graph viewer.
type viewModel struct {
	g       *graph.Graph
	cfg     layout.Config
	store   *layout.Store
	trigger *layout.Trigger
	view    *viewport.Viewport
	ctrl    *interaction.Controller
	rng     *rand.Rand

	cols, rows     int     // drawable grid size in cells
	worldW, worldH float64 // canvas size in world units

	panning  bool
	panLastX float64
	panLastY float64

	selected string
	status   string
}

// newViewModel wires the layout store, trigger, viewport, and interaction
// controller for one graph.
func newViewModel(g *graph.Graph, cfg layout.Config) *viewModel {
	store := layout.NewStore()
	view := viewport.New()
	m := &viewModel{
		g:       g,
		cfg:     cfg,
		store:   store,
		trigger: layout.NewTrigger(store, 0),
		view:    view,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	m.ctrl = interaction.NewController(store, view, 0, 0, terminalPadding, nil)
	m.ctrl.OnNodeClick(func(id string) {
		m.selected = id
	})
	m.trigger.SyncTopology(g)
	return m
}

func (m *viewModel) Init() tea.Cmd {
	return nil
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		return m.updateKeys(msg)
	case tea.MouseMsg:
		m.updateMouse(msg)
	}
	return m, nil
}

func (m *viewModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	const panStep = 4.0
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up":
		m.view.PanBy(0, panStep)
	case "down":
		m.view.PanBy(0, -panStep)
	case "left":
		m.view.PanBy(panStep, 0)
	case "right":
		m.view.PanBy(-panStep, 0)
	case "+", "=":
		m.view.ZoomIn()
	case "-":
		m.view.ZoomOut()
	case "0":
		m.view.Reset()
	case "r":
		m.trigger.Refresh(m.rng)
		m.relayout()
		m.status = "layout refreshed"
	}
	return m, nil
}

func (m *viewModel) updateMouse(msg tea.MouseMsg) {
	sx, sy := float64(msg.X), float64(msg.Y-1)*cellAspect // header row offset

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.view.Wheel(-1)
		return
	case tea.MouseButtonWheelDown:
		m.view.Wheel(1)
		return
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		if id, ok := m.nodeAt(sx, sy); ok {
			m.ctrl.PointerDown(id, sx, sy)
			return
		}
		// Press on empty canvas pans the viewport.
		m.panning = true
		m.panLastX, m.panLastY = sx, sy
	case tea.MouseActionMotion:
		if m.panning {
			z := m.view.Zoom()
			m.view.PanBy((sx-m.panLastX)/z, (sy-m.panLastY)/z)
			m.panLastX, m.panLastY = sx, sy
			return
		}
		m.ctrl.PointerMove(sx, sy)
	case tea.MouseActionRelease:
		if m.panning {
			m.panning = false
			return
		}
		m.ctrl.PointerUp(sx, sy)
	}
}

// resize recomputes the world dimensions from the terminal size and re-runs
// the layout when the trigger calls for one.
func (m *viewModel) resize(width, height int) {
	m.cols = width
	m.rows = height - 2 // header and footer
	if m.rows < 1 {
		m.rows = 1
	}
	m.worldW = float64(m.cols)
	m.worldH = float64(m.rows) * cellAspect
	m.ctrl.SetBounds(m.worldW, m.worldH)

	if m.trigger.NeedsLayout(m.g) {
		m.relayout()
	}
}

// relayout runs the engine from the current stored positions.
func (m *viewModel) relayout() {
	if m.worldW <= 0 || m.worldH <= 0 {
		return
	}
	m.store.Inject(m.g)
	engine := layout.New(m.terminalConfig(), nil)
	res := engine.Run(m.g, m.worldW, m.worldH)
	m.store.Apply(res)
	m.trigger.MarkApplied(m.g)
}

// terminalConfig shrinks the world-scale simulation parameters down to
// terminal-cell dimensions.
func (m *viewModel) terminalConfig() layout.Config {
	cfg := m.cfg
	span := math.Min(m.worldW, m.worldH)
	cfg.Padding = terminalPadding
	cfg.LinkDistance = math.Min(cfg.LinkDistance, span/4)
	cfg.MinDistance = math.Min(cfg.MinDistance, 4)
	return cfg
}

// nodeAt finds the node nearest to a world point, within a small pick radius.
func (m *viewModel) nodeAt(sx, sy float64) (string, bool) {
	const pickRadius = 3.0
	wx, wy := m.view.ToWorld(sx, sy, 0, 0)

	best := ""
	bestDist := pickRadius
	for _, n := range m.g.Nodes {
		e, ok := m.store.Get(n.ID)
		if !ok {
			continue
		}
		if d := math.Hypot(e.X-wx, e.Y-wy); d < bestDist {
			best, bestDist = n.ID, d
		}
	}
	return best, best != ""
}

func (m *viewModel) View() string {
	if m.cols == 0 {
		return "loading..."
	}

	grid := make([][]string, m.rows)
	for r := range grid {
		grid[r] = make([]string, m.cols)
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}

	for _, n := range m.g.Nodes {
		e, ok := m.store.Get(n.ID)
		if !ok {
			continue
		}
		sx, sy := m.view.ToScreen(e.X, e.Y, 0, 0)
		col := int(math.Round(sx))
		row := int(math.Round(sy / cellAspect))
		if col < 0 || col >= m.cols || row < 0 || row >= m.rows {
			continue
		}
		grid[row][col] = m.nodeGlyph(n, e)
	}

	var b strings.Builder
	b.WriteString(m.headerLine())
	b.WriteString("\n")
	for _, row := range grid {
		b.WriteString(strings.Join(row, ""))
		b.WriteString("\n")
	}
	b.WriteString(m.footerLine())
	return b.String()
}

func (m *viewModel) nodeGlyph(n graph.Node, e layout.Entry) string {
	switch {
	case n.ID == m.selected:
		return viewSelectedStyle.Render("●")
	case e.Pinned:
		return viewPinnedStyle.Render("●")
	default:
		return viewNodeStyles[n.Category.Normalize()].Render("●")
	}
}

func (m *viewModel) headerLine() string {
	title := StyleTitle.Render(appName)
	info := StyleDim.Render(fmt.Sprintf("  %d nodes · %d edges · zoom %.1f",
		m.g.NodeCount(), m.g.EdgeCount(), m.view.Zoom()))
	return title + info
}

func (m *viewModel) footerLine() string {
	help := StyleDim.Render("arrows pan · +/- zoom · 0 reset · r refresh · q quit")
	if m.selected != "" {
		if n, ok := m.g.Node(m.selected); ok {
			sel := StyleHighlight.Render(n.DisplayLabel())
			cat := StyleDim.Render(" (" + string(n.Category.Normalize()) + ")")
			return sel + cat + "  " + help
		}
	}
	if m.status != "" {
		return StyleDim.Render(m.status) + "  " + help
	}
	return help
}
