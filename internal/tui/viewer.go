package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/ifscloud/internal/pointcloud"
	"github.com/san-kum/ifscloud/internal/viz"
)

const (
	rotStep    = 0.1
	spinStep   = 0.03
	minCanvasW = 20
	minCanvasH = 8
)

type viewerModel struct {
	title  string
	cloud  *pointcloud.Cloud
	bounds pointcloud.Box
	cam    *viz.Camera

	box  bool
	axes bool
	spin bool

	width, height int
}

// NewViewer returns an orbit viewer for c.
func NewViewer(title string, c *pointcloud.Cloud) tea.Model {
	b := c.Bounds()
	return viewerModel{
		title:  title,
		cloud:  c,
		bounds: b,
		cam:    viz.FitCamera(b),
		width:  80,
		height: 24,
	}
}

func spinTick() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m viewerModel) Init() tea.Cmd { return nil }

func (m viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tickMsg:
		if m.spin {
			m.cam.RotateY(spinStep)
			return m, spinTick()
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.cam.RotateY(-rotStep)
		case "right", "l":
			m.cam.RotateY(rotStep)
		case "up", "k":
			m.cam.RotateX(-rotStep)
		case "down", "j":
			m.cam.RotateX(rotStep)
		case "z":
			m.cam.RotateZ(rotStep)
		case "Z":
			m.cam.RotateZ(-rotStep)
		case "+", "=":
			m.cam.ZoomIn()
		case "-", "_":
			m.cam.ZoomOut()
		case "b":
			m.box = !m.box
		case "a":
			m.axes = !m.axes
		case "r":
			m.cam.Reset()
		case " ":
			m.spin = !m.spin
			if m.spin {
				return m, spinTick()
			}
		}
	}
	return m, nil
}

func (m viewerModel) canvasSize() (int, int) {
	w, h := m.width-4, m.height-7
	if w < minCanvasW {
		w = minCanvasW
	}
	if h < minCanvasH {
		h = minCanvasH
	}
	return w, h
}

func (m viewerModel) View() string {
	w, h := m.canvasSize()
	canvas := viz.Preview(m.cloud, m.cam, w, h)
	if m.box {
		viz.Render3D(canvas, viz.BoxWireframe(m.bounds), m.cam)
	}
	if m.axes {
		c := m.bounds.Center()
		size := m.bounds.Size()
		l := math.Max(size[0], math.Max(size[1], size[2])) / 2
		viz.Render3D(canvas, viz.AxesWireframe(viz.Vec3{X: c[0], Y: c[1], Z: c[2]}, l), m.cam)
	}

	var b strings.Builder
	b.WriteString(" " + cyan.Render(m.title) + "  " + dim.Render(fmt.Sprintf("%d points", m.cloud.Len())) + "\n")
	b.WriteString(canvas.Render(dimmer))

	size := m.bounds.Size()
	status := fmt.Sprintf("size %.2f × %.2f × %.2f   zoom %.2f", size[0], size[1], size[2], m.cam.Zoom)
	if m.spin {
		status += "   spinning"
	}
	b.WriteString(" " + dim.Render(status) + "\n")
	b.WriteString(" " + viz.KeyHint.Render("←→↑↓ orbit  z/Z roll  +/- zoom  space spin  b box  a axes  r reset  q quit"))
	return lipgloss.NewStyle().MaxWidth(m.width).Render(b.String())
}

// RunViewer opens the orbit viewer full-screen.
func RunViewer(title string, c *pointcloud.Cloud) error {
	_, err := tea.NewProgram(NewViewer(title, c), tea.WithAltScreen()).Run()
	return err
}
