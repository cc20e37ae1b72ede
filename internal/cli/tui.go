package cli

import (
	"context"
	"fmt"
	"image"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fatou/pkg/cache"
	"github.com/matzehuels/fatou/pkg/dynamics/family"
	"github.com/matzehuels/fatou/pkg/numeric/qring"
	"github.com/matzehuels/fatou/pkg/pipeline"
	"github.com/matzehuels/fatou/pkg/plane"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// tuiCommand creates the interactive explorer command.
func (c *CLI) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Explore the families interactively in the terminal",
		Long: `Explore the families interactively in the terminal.

Pick a family, then pan and zoom through its plane rendered as colored
half-block cells. Every view change recomputes at terminal resolution,
so exploration stays fluid even deep into a zoom.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Frames are throwaway planes at terminal resolution; a
			// memory cache makes backtracking instant without filling
			// the disk cache. The TUI owns the screen, so logs are
			// dropped.
			runner := pipeline.NewRunner(cache.NewMemoryCache(), nil,
				log.NewWithOptions(io.Discard, log.Options{}))
			defer runner.Close()

			m := newExplorerModel(cmd.Context(), runner)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err := p.Run()
			return err
		},
	}
}

// =============================================================================
// Family Picker
// =============================================================================

// tuiFamily is one picker entry with its seed options.
type tuiFamily struct {
	name string
	desc string
	opts pipeline.Options
}

// tuiFamilies seeds each family with a view worth looking at.
var tuiFamilies = []tuiFamily{
	{
		name: "mandelbrot",
		desc: "z² + c over the parameter plane",
		opts: pipeline.Options{Family: pipeline.FamilyMandelbrot},
	},
	{
		name: "julia",
		desc: "the basilica, c = −1",
		opts: pipeline.Options{Family: pipeline.FamilyJulia, Param: -1},
	},
	{
		name: "biquadratic",
		desc: "degree-four parameter plane",
		opts: pipeline.Options{Family: pipeline.FamilyBiquadratic},
	},
	{
		name: "gaussian",
		desc: "z² + c over Z[i]/(5+2i)",
		opts: pipeline.Options{Family: pipeline.FamilyGaussian, Mod: complex(5, 2)},
	},
	{
		name: "eisenstein",
		desc: "z² + c over Z[ω]/(3+ω)",
		opts: pipeline.Options{Family: pipeline.FamilyEisenstein, Mod: complex(3, 1)},
	},
}

// =============================================================================
// Explorer Model
// =============================================================================

const (
	modePick = iota
	modeView
)

// explorerChrome is the header and footer line count around the frame.
const explorerChrome = 2

// frameMsg delivers an asynchronously rendered frame. Frames from
// superseded views carry a stale sequence number and are dropped.
type frameMsg struct {
	seq  int
	view string
	err  error
}

// explorerModel is the bubbletea model for the plane explorer.
type explorerModel struct {
	ctx    context.Context
	runner *pipeline.Runner

	mode   int
	cursor int

	opts      pipeline.Options
	width     int
	height    int
	frame     string
	seq       int
	computing bool
	err       error
}

// newExplorerModel creates the explorer starting at the family picker.
func newExplorerModel(ctx context.Context, runner *pipeline.Runner) explorerModel {
	return explorerModel{ctx: ctx, runner: runner}
}

func (m explorerModel) Init() tea.Cmd {
	return nil
}

func (m explorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.mode == modeView {
			return m.recompute()
		}
		return m, nil

	case frameMsg:
		if msg.seq != m.seq {
			return m, nil // stale frame from a superseded view
		}
		m.computing = false
		m.err = msg.err
		if msg.err == nil {
			m.frame = msg.view
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode == modePick {
			return m.updatePicker(msg)
		}
		return m.updateExplorer(msg)
	}
	return m, nil
}

func (m explorerModel) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(tuiFamilies)-1 {
			m.cursor++
		}
	case "enter":
		m.mode = modeView
		m.opts = tuiFamilies[m.cursor].opts
		m.opts.Bounds = familyBounds(m.opts)
		m.opts.MaxIters = 100
		m.frame = ""
		m.err = nil
		if m.width > 0 {
			return m.recompute()
		}
	}
	return m, nil
}

func (m explorerModel) updateExplorer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "f":
		m.mode = modePick
		return m, nil
	case "left", "h":
		m.opts.Bounds = panBounds(m.opts.Bounds, -0.1, 0)
	case "right", "l":
		m.opts.Bounds = panBounds(m.opts.Bounds, 0.1, 0)
	case "up", "k":
		m.opts.Bounds = panBounds(m.opts.Bounds, 0, 0.1)
	case "down", "j":
		m.opts.Bounds = panBounds(m.opts.Bounds, 0, -0.1)
	case "+", "=":
		m.opts.Bounds = zoomBounds(m.opts.Bounds, 0.5)
	case "-", "_":
		m.opts.Bounds = zoomBounds(m.opts.Bounds, 2)
	case "]":
		if m.opts.MaxIters < 100000 {
			m.opts.MaxIters *= 2
		}
	case "[":
		if m.opts.MaxIters > 25 {
			m.opts.MaxIters /= 2
		}
	case "p":
		m.opts.PhaseColoring = !m.opts.PhaseColoring
	case "r":
		m.opts = tuiFamilies[m.cursor].opts
		m.opts.Bounds = familyBounds(m.opts)
		m.opts.MaxIters = 100
	default:
		return m, nil
	}
	return m.recompute()
}

// recompute bumps the frame sequence and schedules a render of the
// current view at terminal resolution.
func (m explorerModel) recompute() (tea.Model, tea.Cmd) {
	m.seq++
	m.computing = true

	seq := m.seq
	opts := m.opts
	opts.ResX = max(2, m.width)
	opts.ResY = max(2, (m.height-explorerChrome)*2)
	runner := m.runner
	ctx := m.ctx

	return m, func() tea.Msg {
		p, err := runner.ComputePlane(ctx, opts)
		if err != nil {
			return frameMsg{seq: seq, err: err}
		}
		img, err := runner.Colorize(p, opts)
		if err != nil {
			return frameMsg{seq: seq, err: err}
		}
		return frameMsg{seq: seq, view: renderHalfBlocks(img)}
	}
}

func (m explorerModel) View() string {
	if m.mode == modePick {
		return m.viewPicker()
	}
	return m.viewExplorer()
}

func (m explorerModel) viewPicker() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Family"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ explore  q quit"))
	b.WriteString("\n\n")

	for i, f := range tuiFamilies {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-12s  %s", cursor, f.name, listDimStyle.Render(f.desc))
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m explorerModel) viewExplorer() string {
	var b strings.Builder

	bounds := m.opts.Bounds
	center := fmt.Sprintf("%.6g%+.6gi", (bounds.MinX+bounds.MaxX)/2, (bounds.MinY+bounds.MaxY)/2)
	span := fmt.Sprintf("%.3g", bounds.MaxX-bounds.MinX)

	header := StyleTitle.Render(m.opts.Family) +
		listDimStyle.Render(fmt.Sprintf("  %s · span %s · %d iters", center, span, m.opts.MaxIters))
	if m.computing {
		header += listDimStyle.Render(" · computing…")
	}
	b.WriteString(header)
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(StyleWarning.Render(m.err.Error()))
		b.WriteString("\n")
	case m.frame == "":
		b.WriteString(listDimStyle.Render("computing first frame…"))
		b.WriteString("\n")
	default:
		b.WriteString(m.frame)
	}

	b.WriteString(listDimStyle.Render("←↓↑→ pan · +/- zoom · [/] iters · p phase · f families · q quit"))
	return b.String()
}

// =============================================================================
// Frame Rendering
// =============================================================================

// renderHalfBlocks folds two image rows into one terminal row with the
// upper-half-block glyph: foreground paints the upper pixel, background
// the lower.
func renderHalfBlocks(img *image.RGBA) string {
	bounds := img.Bounds()
	var b strings.Builder

	for y := bounds.Min.Y; y+1 < bounds.Max.Y; y += 2 {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			top := img.RGBAAt(x, y)
			bot := img.RGBAAt(x, y+1)
			cell := lipgloss.NewStyle().
				Foreground(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", top.R, top.G, top.B))).
				Background(lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", bot.R, bot.G, bot.B)))
			b.WriteString(cell.Render("▀"))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// familyBounds resolves the default view rectangle for the options'
// family, so panning always starts from an explicit rectangle.
func familyBounds(opts pipeline.Options) plane.Bounds {
	switch opts.Family {
	case pipeline.FamilyJulia:
		return family.NewJulia(family.NewMandelbrot(), opts.Param).DefaultBounds()
	case pipeline.FamilyBiquadratic:
		return family.NewBiquadratic(opts.Param).DefaultBounds()
	case pipeline.FamilyGaussian:
		return family.NewGaussianMandel(qring.GaussianFromComplex(opts.Mod), nil).DefaultBounds()
	case pipeline.FamilyEisenstein:
		return family.NewEisensteinMandel(qring.EisensteinFromComplex(opts.Mod), nil).DefaultBounds()
	default:
		return family.NewMandelbrot().DefaultBounds()
	}
}

// panBounds shifts the rectangle by the given fraction of each span.
func panBounds(b plane.Bounds, dx, dy float64) plane.Bounds {
	w, h := b.MaxX-b.MinX, b.MaxY-b.MinY
	return plane.NewBounds(b.MinX+dx*w, b.MaxX+dx*w, b.MinY+dy*h, b.MaxY+dy*h)
}

// zoomBounds scales the rectangle around its center.
func zoomBounds(b plane.Bounds, scale float64) plane.Bounds {
	cx, cy := (b.MinX+b.MaxX)/2, (b.MinY+b.MaxY)/2
	hw, hh := (b.MaxX-b.MinX)/2*scale, (b.MaxY-b.MinY)/2*scale
	return plane.NewBounds(cx-hw, cx+hw, cy-hh, cy+hh)
}
