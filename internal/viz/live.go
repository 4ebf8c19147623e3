package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/bounce/internal/collide"
	"github.com/san-kum/bounce/internal/config"
	"github.com/san-kum/bounce/internal/logging"
	"github.com/san-kum/bounce/internal/metrics"
	"github.com/san-kum/bounce/internal/sim"
)

const (
	width           = 80
	height          = 24
	frameRate       = 60
	restitutionStep = 0.05
)

type TickMsg time.Time

type configMsg struct{ cfg *config.Config }

type watchErrMsg struct{ err error }

// Model is the live viewer: it owns the world, steps it on every tick and
// renders it.
type Model struct {
	sim        *sim.Simulator
	world      *sim.World
	initial    *sim.World
	opts       collide.Options
	series     *metrics.Series
	collisions []float64
	canvas     *Canvas
	title      string
	running    bool
	watcher    *config.Watcher
	notice     string
	drift      float64
	energy0    float64
}

// NewModel builds a viewer for w. The world is cloned so that reset can
// restore it.
func NewModel(w *sim.World, opts collide.Options, title string) (Model, error) {
	r, err := collide.NewResolver(opts)
	if err != nil {
		return Model{}, err
	}
	return Model{
		sim:        sim.New(r, logging.Discard()),
		world:      w,
		initial:    w.Clone(),
		opts:       opts,
		series:     metrics.NewSeries(metrics.DefaultWindow),
		collisions: make([]float64, 0, metrics.DefaultWindow),
		canvas:     NewCanvas(width, height),
		title:      title,
		running:    true,
		energy0:    w.TotalEnergy(),
	}, nil
}

// WithWatcher makes the viewer apply configs from w as they arrive.
func (m Model) WithWatcher(w *config.Watcher) Model {
	m.watcher = w
	return m
}

func (m Model) World() *sim.World        { return m.world }
func (m Model) Options() collide.Options { return m.opts }
func (m Model) Running() bool            { return m.running }

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func waitForConfig(w *config.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case cfg, ok := <-w.Configs:
			if !ok {
				return nil
			}
			return configMsg{cfg: cfg}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return watchErrMsg{err: err}
		}
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), waitForConfig(m.watcher))
}

// Update handles keys, frame ticks and config reloads.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			if !m.running {
				m.step()
			}
		case "r":
			m.reset()
		case "up", "k":
			m.setRestitution(m.opts.Restitution + restitutionStep)
		case "down", "j":
			m.setRestitution(m.opts.Restitution - restitutionStep)
		case "m":
			opts := m.opts
			if opts.Mode == collide.ModeSequential {
				opts.Mode = collide.ModeDeferred
			} else {
				opts.Mode = collide.ModeSequential
			}
			m.apply(opts)
		case "p":
			opts := m.opts
			if opts.Policy == collide.PolicyNearest {
				opts.Policy = collide.PolicyMostRecent
			} else {
				opts.Policy = collide.PolicyNearest
			}
			m.apply(opts)
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	case configMsg:
		m.reload(msg.cfg)
		return m, waitForConfig(m.watcher)
	case watchErrMsg:
		m.notice = "config: " + msg.err.Error()
		return m, waitForConfig(m.watcher)
	}
	return m, nil
}

func (m *Model) step() {
	st := m.sim.Step(m.world)
	m.series.Observe(m.world)
	m.collisions = append(m.collisions, float64(st.Collisions))
	if len(m.collisions) > metrics.DefaultWindow {
		m.collisions = m.collisions[1:]
	}
	if m.energy0 != 0 {
		m.drift = (m.world.TotalEnergy() - m.energy0) / math.Abs(m.energy0)
	}
}

func (m *Model) reset() {
	m.world = m.initial.Clone()
	m.series.Reset()
	m.collisions = m.collisions[:0]
	m.drift = 0
	m.energy0 = m.world.TotalEnergy()
}

func (m *Model) setRestitution(e float64) {
	opts := m.opts
	opts.Restitution = math.Round(min(max(e, 0), 1)*100) / 100
	m.apply(opts)
}

func (m *Model) apply(opts collide.Options) {
	r, err := collide.NewResolver(opts)
	if err != nil {
		m.notice = err.Error()
		return
	}
	m.sim.SetResolver(r)
	m.opts = opts
}

// reload takes the physics settings from cfg. The bodies are kept.
func (m *Model) reload(cfg *config.Config) {
	opts, err := cfg.ResolverOptions()
	if err != nil {
		m.notice = "config: " + err.Error()
		return
	}
	m.apply(opts)
	m.world.Params = cfg.WorldParams()
	m.initial.Params = m.world.Params
	m.notice = "config reloaded"
}

// project maps world coordinates to canvas dots. An open top wall is
// drawn at y = 0.
func (m *Model) project() (toDots func(x, y float64) (float64, float64), scale float64) {
	b := m.world.Params.Bounds
	top := b.Top
	if math.IsInf(top, 0) {
		top = 0
	}
	sx := float64(m.canvas.DotWidth()-1) / (b.Right - b.Left)
	sy := float64(m.canvas.DotHeight()-1) / (b.Bottom - top)
	return func(x, y float64) (float64, float64) {
		return (x - b.Left) * sx, (y - top) * sy
	}, math.Min(sx, sy)
}

func (m *Model) draw() {
	m.canvas.Clear()
	toDots, scale := m.project()
	for _, b := range m.world.Bodies {
		x, y := toDots(b.Pos.X, b.Pos.Y)
		m.canvas.DrawCircle(x, y, b.Radius*scale)
	}
	w, h := m.canvas.DotWidth()-1, m.canvas.DotHeight()-1
	m.canvas.DrawLine(0, 0, 0, h)
	m.canvas.DrawLine(0, h, w, h)
	m.canvas.DrawLine(w, h, w, 0)
	if !math.IsInf(m.world.Params.Bounds.Top, 0) {
		m.canvas.DrawLine(0, 0, w, 0)
	}
}

// View renders the canvas beside the stats panel.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")
	if m.running {
		s.WriteString(statusRunning.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(statusPaused.Render("PAUSED") + "\n\n")
	}

	if m.series.Len() > 1 {
		chart := asciigraph.PlotMany(
			[][]float64{m.series.Kinetic(), m.series.Total()},
			asciigraph.Height(6),
			asciigraph.Width(36),
			asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
			asciigraph.Caption("kinetic / total"),
		)
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", m.world.Time))
	row("Bodies", fmt.Sprintf("%d", len(m.world.Bodies)))
	row("Kinetic", fmt.Sprintf("%.4g", m.world.KineticEnergy()))
	row("Total", fmt.Sprintf("%.4g", m.world.TotalEnergy()))
	s.WriteString(labelStyle.Render("Drift") +
		lipgloss.NewStyle().Foreground(driftColor(m.drift)).Render(fmt.Sprintf("%+.2f%%", m.drift*100)) + "\n")
	row("Restitution", fmt.Sprintf("%.2f", m.opts.Restitution))
	row("Mode", m.opts.Mode.String())
	row("Policy", m.opts.Policy.String())
	s.WriteString(labelStyle.Render("Collisions") + Sparkline(m.collisions, 30) + "\n")

	if m.notice != "" {
		s.WriteString("\n" + noticeStyle.Render(m.notice) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause N:Step R:Reset Q:Quit\n↑↓:Restitution M:Mode P:Policy"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
}
