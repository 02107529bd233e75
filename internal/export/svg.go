// Package export renders recorded runs to SVG.
package export

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/san-kum/gravlab/internal/sim"
)

// TrailsSVG renders a run's frames as one SVG document: a polyline per
// body colored with its display color, and a filled circle (radius
// sqrt(mass), the physical radius) for each body in the final frame.
// Bodies are tracked across frames by color, which is stable for a
// body's whole lifetime and survives merges with the surviving body.
func TrailsSVG(frames []sim.Frame, size float64) string {
	if len(frames) == 0 {
		return ""
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, f := range frames {
		for _, b := range f.Bodies {
			minX = math.Min(minX, b.X)
			maxX = math.Max(maxX, b.X)
			minY = math.Min(minY, b.Y)
			maxY = math.Max(maxY, b.Y)
		}
	}
	if minX > maxX {
		return ""
	}
	// Pad so final-frame circles are not clipped at the edges.
	pad := 0.05*(maxX-minX) + 40
	minX, maxX = minX-pad, maxX+pad
	minY, maxY = minY-pad, maxY+pad

	scale := size / math.Max(maxX-minX, maxY-minY)
	px := func(x float64) float64 { return (x - minX) * scale }
	py := func(y float64) float64 { return (y - minY) * scale }

	paths := make(map[string][]string)
	order := make([]string, 0)
	for _, f := range frames {
		for _, b := range f.Bodies {
			if _, seen := paths[b.Color]; !seen {
				order = append(order, b.Color)
			}
			paths[b.Color] = append(paths[b.Color],
				fmt.Sprintf("%.1f,%.1f", px(b.X), py(b.Y)))
		}
	}

	w := (maxX - minX) * scale
	h := (maxY - minY) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, w, h, w, h))

	for _, col := range order {
		sb.WriteString(fmt.Sprintf(
			`<polyline points="%s" fill="none" stroke="%s" stroke-width="1" stroke-opacity="0.5"/>`,
			strings.Join(paths[col], " "), svgColor(col)))
		sb.WriteByte('\n')
	}

	final := frames[len(frames)-1]
	for _, b := range final.Bodies {
		sb.WriteString(fmt.Sprintf(
			`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`,
			px(b.X), py(b.Y), math.Sqrt(b.Mass)*scale, svgColor(b.Color)))
		sb.WriteByte('\n')
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// WriteTrailsSVG renders frames and writes the document to path.
func WriteTrailsSVG(path string, frames []sim.Frame, size float64) error {
	doc := TrailsSVG(frames, size)
	if doc == "" {
		return fmt.Errorf("no frames to export")
	}
	return os.WriteFile(path, []byte(doc), 0644)
}

func svgColor(c string) string {
	if len(c) == 7 && c[0] == '#' {
		return c
	}
	return "#c8c8ff"
}
