package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/SeamusWaldron/cubesim"
	"github.com/SeamusWaldron/cubesim/internal/cube"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	moveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

// sticker is the width of one facelet in cells.
const sticker = "  "

func colorHex(c cubesim.Color) string {
	rgb := c.RGB()
	return fmt.Sprintf("#%02x%02x%02x",
		uint8(rgb[0]*255+0.5), uint8(rgb[1]*255+0.5), uint8(rgb[2]*255+0.5))
}

func renderFace(grid [3][3]cubesim.Color) string {
	rows := make([]string, 3)
	for r := range grid {
		var b strings.Builder
		for _, c := range grid[r] {
			b.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(colorHex(c))).Render(sticker))
		}
		rows[r] = b.String()
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderNet draws the six outer faces as a flattened net:
//
//	  U
//	L F R B
//	  D
func renderNet(f cubesim.Frame) string {
	face := func(fc cube.Face) string {
		return lipgloss.NewStyle().MarginRight(1).Render(renderFace(f.Facelets(fc)))
	}
	blank := lipgloss.NewStyle().Width(3*len(sticker) + 1).Render("")

	top := lipgloss.JoinHorizontal(lipgloss.Top, blank, face(cube.FacePosY))
	middle := lipgloss.JoinHorizontal(lipgloss.Top,
		face(cube.FaceNegX), face(cube.FacePosZ), face(cube.FacePosX), face(cube.FaceNegZ))
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, blank, face(cube.FaceNegY))
	return lipgloss.JoinVertical(lipgloss.Left, top, middle, bottom)
}

// Gizmo canvas size in cells. Cells are about twice as tall as wide, so the
// horizontal radius is twice the vertical one.
const (
	gizmoRows = 9
	gizmoCols = 17
)

var gizmoAxes = [3]struct {
	label byte
	axis  cube.Axis
}{
	{'X', cube.AxisX},
	{'Y', cube.AxisY},
	{'Z', cube.AxisZ},
}

// renderGizmo projects the three unit axes through view*rotation onto a
// small character canvas. Axes pointing away from the camera are drawn
// with dots.
func renderGizmo(view, rotation mgl32.Mat4) string {
	var canvas [gizmoRows][gizmoCols]byte
	for r := range canvas {
		for c := range canvas[r] {
			canvas[r][c] = ' '
		}
	}
	cy, cx := gizmoRows/2, gizmoCols/2
	ry, rx := float32(gizmoRows/2), float32(gizmoCols/2)

	mv := view.Mul4(rotation)
	for _, a := range gizmoAxes {
		d := mv.Mul4x1(a.axis.Vec().Vec4(0))
		mark := byte('-')
		if d[2] < 0 {
			mark = '.'
		}
		const steps = 8
		for s := 1; s <= steps; s++ {
			t := float32(s) / steps
			row := cy - int(math.Round(float64(d[1]*t*ry)))
			col := cx + int(math.Round(float64(d[0]*t*rx)))
			if row < 0 || row >= gizmoRows || col < 0 || col >= gizmoCols {
				continue
			}
			if s == steps {
				canvas[row][col] = a.label
			} else if canvas[row][col] == ' ' {
				canvas[row][col] = mark
			}
		}
	}
	canvas[cy][cx] = '+'

	lines := make([]string, gizmoRows)
	for r := range canvas {
		lines[r] = string(canvas[r][:])
	}
	return strings.Join(lines, "\n")
}

// renderRotation prints the upper-left 3x3 block of m.
func renderRotation(m mgl32.Mat4) string {
	var b strings.Builder
	for r := 0; r < 3; r++ {
		fmt.Fprintf(&b, "%6.2f %6.2f %6.2f", m.At(r, 0), m.At(r, 1), m.At(r, 2))
		if r < 2 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// renderProgress draws a bar of width cells filled to fraction p.
func renderProgress(p float64, width int) string {
	p = math.Max(0, math.Min(1, p))
	filled := int(math.Round(p * float64(width)))
	return moveStyle.Render(strings.Repeat("█", filled)) +
		statusStyle.Render(strings.Repeat("░", width-filled))
}
