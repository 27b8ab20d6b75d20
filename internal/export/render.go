// Package export renders dock layout snapshots to PNG images: every
// surface's window at its desktop position, its dock tree as nested
// outlines, floating windows on top.
package export

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/bnema/undock/pkg/dock"
	"github.com/bnema/undock/pkg/geom"
	"github.com/bnema/undock/pkg/tiles"
)

// Options tunes the rendered image.
type Options struct {
	// RootRect is the desktop rectangle of the root viewport. Snapshots
	// carry placements for detached windows only, so the root's has to
	// come from the caller.
	RootRect geom.Rect
	// Scale is pixels per desktop unit.
	Scale float64
	// Padding is the border around the whole scene, in desktop units.
	Padding float64

	TitleBandHeight      float64
	TabBarHeight         float64
	FloatingHeaderHeight float64
}

// DefaultOptions returns the renderer defaults.
func DefaultOptions() Options {
	return Options{
		RootRect:             geom.R(0, 0, 1280, 800),
		Scale:                1.0,
		Padding:              24,
		TitleBandHeight:      24,
		TabBarHeight:         20,
		FloatingHeaderHeight: 14,
	}
}

const (
	fontSize   = 12.0
	labelInset = 4.0
)

// surface is one window to draw: the root viewport or a detached dock.
type surface struct {
	rect   geom.Rect
	title  string
	band   bool
	tree   dock.TreeSnapshot
	floats []dock.FloatingSnapshot
}

// RenderPNG draws the layout to a PNG file.
func RenderPNG(snap dock.LayoutSnapshot, path string, opts Options) error {
	if snap.Root.Root == 0 && len(snap.Floating) == 0 && len(snap.Detached) == 0 {
		return fmt.Errorf("nothing to render")
	}
	if opts.Scale <= 0 {
		opts.Scale = 1.0
	}
	if !opts.RootRect.IsPositive() {
		opts.RootRect = DefaultOptions().RootRect
	}

	scene := collectSurfaces(snap, opts)

	// Scene bounds across all windows
	bounds := scene[0].rect
	for _, s := range scene[1:] {
		if s.rect.Min.X < bounds.Min.X {
			bounds.Min.X = s.rect.Min.X
		}
		if s.rect.Min.Y < bounds.Min.Y {
			bounds.Min.Y = s.rect.Min.Y
		}
		if s.rect.Max.X > bounds.Max.X {
			bounds.Max.X = s.rect.Max.X
		}
		if s.rect.Max.Y > bounds.Max.Y {
			bounds.Max.Y = s.rect.Max.Y
		}
	}
	bounds = bounds.Expand(opts.Padding)

	imageWidth := int(bounds.Width() * opts.Scale)
	imageHeight := int(bounds.Height() * opts.Scale)
	if imageWidth < 1 || imageHeight < 1 {
		return fmt.Errorf("degenerate scene bounds")
	}

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetColor(color.Black)

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %v", err)
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)

	r := &renderer{dc: dc, opts: opts, origin: bounds.Min}
	for _, s := range scene {
		r.drawSurface(s)
	}

	return dc.SavePNG(path)
}

// collectSurfaces flattens the snapshot into drawable windows, root
// first so detached windows paint over it. Detached windows without a
// stored position cascade to the right of the root.
func collectSurfaces(snap dock.LayoutSnapshot, opts Options) []surface {
	scene := []surface{{
		rect:   opts.RootRect,
		tree:   snap.Root,
		floats: snap.Floating,
	}}

	cascade := 0
	for _, ds := range snap.Detached {
		rect, ok := ds.Placement.Rect()
		if !ok {
			step := float64(cascade) * 40
			rect = geom.RectFromMinSize(
				geom.Pt(opts.RootRect.Max.X+40+step, opts.RootRect.Min.Y+step),
				ds.Placement.Size,
			)
			cascade++
		}
		title := ds.Placement.Title
		if title == "" {
			title = "detached"
		}
		scene = append(scene, surface{
			rect:   rect,
			title:  title,
			band:   true,
			tree:   ds.Tree,
			floats: ds.Floating,
		})
	}
	return scene
}

type renderer struct {
	dc     *gg.Context
	opts   Options
	origin geom.Point
}

func (r *renderer) drawSurface(s surface) {
	// Occlude whatever this window overlaps before outlining it
	r.fillRect(s.rect, color.White)
	r.strokeRect(s.rect)

	inner := s.rect
	if s.band {
		band, rest := s.rect.SplitTop(r.opts.TitleBandHeight)
		r.strokeRect(band)
		r.label(s.title, band, color.Black)
		inner = rest
	}

	r.drawTree(s.tree, inner)
	for _, f := range s.floats {
		r.drawFloating(f, inner)
	}
}

func (r *renderer) drawTree(snap dock.TreeSnapshot, rect geom.Rect) {
	if snap.Root == 0 {
		return
	}
	byID := make(map[tiles.TileID]dock.TileSnapshot, len(snap.Tiles))
	for _, ts := range snap.Tiles {
		byID[ts.ID] = ts
	}
	r.drawTile(byID, snap.Root, rect)
}

func (r *renderer) drawTile(byID map[tiles.TileID]dock.TileSnapshot, id tiles.TileID, rect geom.Rect) {
	ts, ok := byID[id]
	if !ok || rect.Width() < 1 || rect.Height() < 1 {
		return
	}

	switch ts.Kind {
	case "pane":
		r.strokeRect(rect)
		label := ts.Pane
		if label == "" {
			label = "pane"
		}
		r.label(label, rect, color.Black)

	case "split":
		for i, child := range partition(rect, ts) {
			r.drawTile(byID, ts.Children[i], child)
		}

	case "tabs":
		if len(ts.Children) == 0 {
			return
		}
		bar, rest := rect.SplitTop(r.opts.TabBarHeight)
		r.strokeRect(bar)

		active := ts.Active
		if _, ok := byID[active]; !ok {
			active = ts.Children[0]
		}

		cellW := bar.Width() / float64(len(ts.Children))
		for i, child := range ts.Children {
			cell := geom.R(
				bar.Min.X+float64(i)*cellW, bar.Min.Y,
				bar.Min.X+float64(i+1)*cellW, bar.Max.Y,
			)
			if child == active {
				r.fillRect(cell, color.Black)
				r.label(r.tabTitle(byID, child), cell, color.White)
			} else {
				r.strokeRect(cell)
				r.label(r.tabTitle(byID, child), cell, color.Black)
			}
		}

		r.drawTile(byID, active, rest)
	}
}

func (r *renderer) drawFloating(f dock.FloatingSnapshot, inner geom.Rect) {
	rect := geom.RectFromMinSize(inner.Min.Add(f.Offset), f.Size)
	header, body := rect.SplitTop(r.opts.FloatingHeaderHeight)
	if f.Collapsed {
		rect = header
	}

	r.fillRect(rect, color.White)
	r.strokeRect(rect)
	r.strokeRect(header)
	r.label(r.treeTitle(f.Tree), header, color.Black)

	if !f.Collapsed {
		r.drawTree(f.Tree, body)
	}
}

// tabTitle names a tab button: the pane key for pane children, the
// container kind otherwise.
func (r *renderer) tabTitle(byID map[tiles.TileID]dock.TileSnapshot, id tiles.TileID) string {
	ts, ok := byID[id]
	if !ok {
		return "?"
	}
	if ts.Kind == "pane" && ts.Pane != "" {
		return ts.Pane
	}
	return ts.Kind
}

// treeTitle names a floating window after its first pane.
func (r *renderer) treeTitle(snap dock.TreeSnapshot) string {
	for _, ts := range snap.Tiles {
		if ts.Kind == "pane" && ts.Pane != "" {
			return ts.Pane
		}
	}
	return "floating"
}

// partition cuts a rect along the split's axis by its shares. Missing
// or degenerate shares fall back to equal cuts.
func partition(rect geom.Rect, ts dock.TileSnapshot) []geom.Rect {
	n := len(ts.Children)
	if n == 0 {
		return nil
	}

	shares := ts.Shares
	total := 0.0
	for _, s := range shares {
		total += s
	}
	if len(shares) != n || total <= 0 {
		shares = make([]float64, n)
		for i := range shares {
			shares[i] = 1
		}
		total = float64(n)
	}

	out := make([]geom.Rect, 0, n)
	if ts.Dir == tiles.Vertical.String() {
		y := rect.Min.Y
		for _, s := range shares {
			h := rect.Height() * s / total
			out = append(out, geom.R(rect.Min.X, y, rect.Max.X, y+h))
			y += h
		}
	} else {
		x := rect.Min.X
		for _, s := range shares {
			w := rect.Width() * s / total
			out = append(out, geom.R(x, rect.Min.Y, x+w, rect.Max.Y))
			x += w
		}
	}
	// Absorb float drift into the last cut
	last := &out[n-1]
	if ts.Dir == tiles.Vertical.String() {
		last.Max.Y = rect.Max.Y
	} else {
		last.Max.X = rect.Max.X
	}
	return out
}

func (r *renderer) px(p geom.Point) (float64, float64) {
	return (p.X - r.origin.X) * r.opts.Scale, (p.Y - r.origin.Y) * r.opts.Scale
}

func (r *renderer) strokeRect(rect geom.Rect) {
	x, y := r.px(rect.Min)
	r.dc.SetLineWidth(1.0)
	r.dc.SetColor(color.Black)
	r.dc.DrawRectangle(x, y, rect.Width()*r.opts.Scale, rect.Height()*r.opts.Scale)
	r.dc.Stroke()
}

func (r *renderer) fillRect(rect geom.Rect, c color.Color) {
	x, y := r.px(rect.Min)
	r.dc.SetColor(c)
	r.dc.DrawRectangle(x, y, rect.Width()*r.opts.Scale, rect.Height()*r.opts.Scale)
	r.dc.Fill()
}

// label draws a string near the rect's top left, truncated to fit.
func (r *renderer) label(s string, rect geom.Rect, c color.Color) {
	maxW := rect.Width()*r.opts.Scale - 2*labelInset
	if maxW <= 0 {
		return
	}
	s = r.truncate(s, maxW)
	if s == "" {
		return
	}
	x, y := r.px(rect.Min)
	r.dc.SetColor(c)
	r.dc.DrawString(s, x+labelInset, y+fontSize+labelInset/2)
}

func (r *renderer) truncate(s string, maxW float64) string {
	if w, _ := r.dc.MeasureString(s); w <= maxW {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "…"
		if w, _ := r.dc.MeasureString(candidate); w <= maxW {
			return candidate
		}
	}
	return ""
}
