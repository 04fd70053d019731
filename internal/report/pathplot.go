package report

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/banshee-data/trackreplay/internal/fsutil"
	"github.com/banshee-data/trackreplay/internal/geo"
	"github.com/banshee-data/trackreplay/internal/session"
	"github.com/banshee-data/trackreplay/internal/telemetry"
	"github.com/banshee-data/trackreplay/internal/track"
)

// MaxPlotPoints caps the vertices plotted per session.
const MaxPlotPoints = 4000

func xys(points []geo.Point) plotter.XYs {
	out := make(plotter.XYs, len(points))
	for i, p := range points {
		out[i] = plotter.XY{X: p.Lon, Y: p.Lat}
	}
	return out
}

// parseHex turns "#rrggbb" into a colour, falling back to grey.
func parseHex(s string) color.Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.Gray{Y: 128}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.Gray{Y: 128}
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// PathPlot draws the reference corridor (if any), every session path in
// its colour and the start/end anchors, in lon/lat space.
func PathPlot(ref *track.ReferenceTrack, sessions []session.Session) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Session paths"
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"

	if ref != nil {
		p.Title.Text = fmt.Sprintf("Session paths - %s", ref.Meta.Name)
		centre, err := plotter.NewLine(xys(ref.Path))
		if err != nil {
			return nil, fmt.Errorf("corridor line: %w", err)
		}
		centre.Color = color.Gray{Y: 160}
		centre.Width = vg.Points(1)
		centre.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(centre)
		p.Legend.Add(ref.Meta.Name, centre)

		anchors, err := plotter.NewScatter(xys([]geo.Point{ref.Start(), ref.End()}))
		if err != nil {
			return nil, fmt.Errorf("anchors: %w", err)
		}
		anchors.GlyphStyle.Shape = draw.PyramidGlyph{}
		anchors.GlyphStyle.Radius = vg.Points(4)
		p.Add(anchors)
	}

	for _, s := range sessions {
		if len(s.Data) < 2 {
			continue
		}
		line, err := plotter.NewLine(xys(telemetry.Decimate(s.Data, MaxPlotPoints)))
		if err != nil {
			return nil, fmt.Errorf("session %s: %w", s.Name, err)
		}
		line.Color = parseHex(s.Color)
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// WritePathPlot renders PathPlot as a PNG to path on fsys.
func WritePathPlot(fsys fsutil.FileSystem, path string, ref *track.ReferenceTrack, sessions []session.Session) error {
	p, err := PathPlot(ref, sessions)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(10*vg.Inch, 10*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("render path plot: %w", err)
	}

	f, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
