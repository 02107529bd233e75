// Package viz is the interactive terminal host for the engine. It owns
// everything the engine must not: the camera transform, input handling,
// and the render loop. All physics goes through the engine API.
package viz

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/gravlab/internal/engine"
	"github.com/san-kum/gravlab/internal/preset"
)

const (
	canvasWidth     = 80
	canvasHeight    = 28
	historyCapacity = 300
)

// injection parameters the user tunes before clicking bodies in.
var paramNames = []string{"mass", "vx", "vy"}

type TickMsg time.Time

// Model is the bubbletea model driving one engine interactively.
type Model struct {
	eng    *engine.Engine
	dt     float64
	fps    int
	rng    *rand.Rand
	preset string

	// camera state, host-owned: world -> dot is p*zoom + offset.
	offset engine.Vec2
	zoom   float64

	canvas  *Canvas
	running bool
	t       float64

	params   map[string]float64
	selected int

	energyHist []float64
	lastErr    error
}

// NewModel builds the interactive model around an already-populated
// engine. presetName is what the r key reloads.
func NewModel(eng *engine.Engine, presetName string, dt float64, fps int, seed int64) Model {
	if fps <= 0 {
		fps = 60
	}
	return Model{
		eng:     eng,
		dt:      dt,
		fps:     fps,
		rng:     rand.New(rand.NewSource(seed)),
		preset:  presetName,
		offset:  engine.Vec2{X: float64(canvasWidth), Y: float64(canvasHeight) * 2},
		zoom:    0.15,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		running: true,
		params:  map[string]float64{"mass": 100, "vx": 0, "vy": 0},
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case TickMsg:
		if m.running {
			// One synchronous step per tick; the next tick is only
			// scheduled after this one finishes, so steps never overlap.
			m.eng.Step(m.dt)
			m.t += m.dt
			m.energyHist = append(m.energyHist, m.eng.Energy())
			if len(m.energyHist) > historyCapacity {
				m.energyHist = m.energyHist[1:]
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "c":
		m.eng.Clear()
		m.t = 0
		m.energyHist = m.energyHist[:0]
	case "r":
		m.lastErr = preset.Load(m.eng, m.preset, m.rng)
		m.t = 0
		m.energyHist = m.energyHist[:0]
	case "p":
		names := preset.Names()
		for i, name := range names {
			if name == m.preset {
				m.preset = names[(i+1)%len(names)]
				break
			}
		}
		m.lastErr = preset.Load(m.eng, m.preset, m.rng)
		m.t = 0
		m.energyHist = m.energyHist[:0]
	case "tab":
		m.selected = (m.selected + 1) % len(paramNames)
	case "up", "k":
		m.adjustParam(1)
	case "down", "j":
		m.adjustParam(-1)
	case "left":
		m.offset.X += 8
	case "right":
		m.offset.X -= 8
	case "shift+up":
		m.offset.Y += 8
	case "shift+down":
		m.offset.Y -= 8
	case "+", "=":
		m.zoomAt(1.25, float64(m.canvas.DotWidth())/2, float64(m.canvas.DotHeight())/2)
	case "-", "_":
		m.zoomAt(1/1.25, float64(m.canvas.DotWidth())/2, float64(m.canvas.DotHeight())/2)
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	// Terminal cell -> dot space; the canvas is padded by one cell.
	dx := float64((msg.X - 1) * 2)
	dy := float64(msg.Y * 4)

	switch msg.Button {
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return
		}
		pos := m.toWorld(dx, dy)
		vel := engine.Vec2{X: m.params["vx"], Y: m.params["vy"]}
		col := randomColor(m.rng)
		_, m.lastErr = m.eng.AddBody(pos, m.params["mass"], vel, col)
	case tea.MouseButtonWheelUp:
		m.zoomAt(1.1, dx, dy)
	case tea.MouseButtonWheelDown:
		m.zoomAt(1/1.1, dx, dy)
	}
}

// zoomAt rescales around a fixed dot so the point under the cursor stays
// put, the same relative-zoom rule as any map view.
func (m *Model) zoomAt(factor, dx, dy float64) {
	world := m.toWorld(dx, dy)
	m.zoom *= factor
	m.offset.X = dx - world.X*m.zoom
	m.offset.Y = dy - world.Y*m.zoom
}

func (m *Model) toWorld(dx, dy float64) engine.Vec2 {
	return engine.Vec2{
		X: (dx - m.offset.X) / m.zoom,
		Y: (dy - m.offset.Y) / m.zoom,
	}
}

func (m *Model) toDots(p engine.Vec2) (int, int) {
	return int(p.X*m.zoom + m.offset.X), int(p.Y*m.zoom + m.offset.Y)
}

func (m *Model) adjustParam(dir int) {
	key := paramNames[m.selected]
	switch key {
	case "mass":
		// Multiplicative so the useful range 1..10000 is reachable.
		if dir > 0 {
			m.params[key] *= 1.25
		} else {
			m.params[key] /= 1.25
		}
	default:
		m.params[key] += 0.5 * float64(dir)
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	for _, b := range m.eng.Snapshot() {
		for _, p := range b.Trail {
			x, y := m.toDots(p)
			m.canvas.Set(x, y)
		}
		x, y := m.toDots(b.Pos)
		r := int(b.Radius * m.zoom)
		m.canvas.FillCircle(x, y, r)
	}
}

func (m Model) View() string {
	m.draw()

	var s strings.Builder
	s.WriteString(headerStyle.Render("GRAVLAB · "+strings.ToUpper(m.preset)) + "\n")
	if m.running {
		s.WriteString(runStyle.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(pausedStyle.Render("PAUSED") + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.1fs", m.t)) + "\n")
	s.WriteString(labelStyle.Render("Bodies") + valueStyle.Render(fmt.Sprintf("%d", m.eng.Len())) + "\n")
	s.WriteString(labelStyle.Render("Mass") + valueStyle.Render(fmt.Sprintf("%.0f", m.eng.TotalMass())) + "\n")
	s.WriteString(labelStyle.Render("Merges") + valueStyle.Render(fmt.Sprintf("%d", m.eng.Merges())) + "\n")
	p := m.eng.Momentum()
	s.WriteString(labelStyle.Render("Momentum") + valueStyle.Render(fmt.Sprintf("%.1f", p.Len())) + "\n")
	s.WriteString(labelStyle.Render("Zoom") + valueStyle.Render(fmt.Sprintf("%.2fx", m.zoom)) + "\n")

	if len(m.energyHist) > 1 {
		chart := asciigraph.Plot(m.energyHist,
			asciigraph.Height(4),
			asciigraph.Width(28),
			asciigraph.Caption("energy"),
		)
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	s.WriteString("\nNEW BODY (click to place)\n")
	for i, key := range paramNames {
		line := fmt.Sprintf("%-6s %s", key, formatParam(key, m.params[key]))
		if i == m.selected {
			s.WriteString(activeStyle.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + labelStyle.Render(line) + "\n")
		}
	}

	if m.lastErr != nil {
		s.WriteString("\n" + pausedStyle.Render(m.lastErr.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("─────────────────────\nSP:pause R:reset C:clear\nP:preset Tab/↑↓:tune\n←→:pan +/-:zoom Q:quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		panelStyle.Render(s.String()),
	)
}

func formatParam(key string, v float64) string {
	if key == "mass" {
		return fmt.Sprintf("%.0f", math.Round(v))
	}
	return fmt.Sprintf("%+.1f", v)
}

func randomColor(rng *rand.Rand) color.RGBA {
	return color.RGBA{
		R: uint8(rng.Intn(256)),
		G: uint8(rng.Intn(256)),
		B: uint8(rng.Intn(256)),
		A: 255,
	}
}
