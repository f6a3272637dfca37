package canvasrenderer

import (
	"image/color"
	"math"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/adframe/layout"
)

// labelInsetPx 为区域标签相对区域左上角的偏移。
const labelInsetPx = 8

// zoneColors 为各区域固定的示意颜色。
var zoneColors = map[layout.ZoneName]color.NRGBA{
	layout.ZoneHero:     {R: 0x25, G: 0x63, B: 0xEB, A: 0xFF}, // blue
	layout.ZoneLogo:     {R: 0x7C, G: 0x3A, B: 0xED, A: 0xFF}, // violet
	layout.ZoneHeadline: {R: 0xDC, G: 0x26, B: 0x26, A: 0xFF}, // red
	layout.ZoneSubtext:  {R: 0xEA, G: 0x58, B: 0x0C, A: 0xFF}, // orange
	layout.ZoneCTA:      {R: 0x16, G: 0xA3, B: 0x4A, A: 0xFF}, // green
	layout.ZoneBadge:    {R: 0xDB, G: 0x27, B: 0x77, A: 0xFF}, // magenta
	layout.ZoneLegal:    {R: 0x6B, G: 0x72, B: 0x80, A: 0xFF}, // grey
}

var safeZoneColor = color.NRGBA{R: 0x06, G: 0xB6, B: 0xD4, A: 0xDD}

// ZoneColor 返回区域的示意颜色（不透明）。
func ZoneColor(name layout.ZoneName) color.NRGBA {
	if c, ok := zoneColors[name]; ok {
		return c
	}
	return color.NRGBA{A: 0xFF}
}

// Diagram 构建区域示意图：每个区域半透明填充、实线描边并在左上角标注名称，
// 可选绘制虚线安全区。
func (r *Renderer) Diagram(l layout.Layout) (*canvas.Canvas, error) {
	c, ctx := newCanvas(l)
	labelPx := r.labelPx(l.Canvas)

	for _, z := range layout.Resolve(l).Zones {
		col := ZoneColor(z.Name)
		fill := col
		fill.A = r.opts.FillAlpha
		b := z.Px

		ctx.SetFillColor(fill)
		ctx.SetStrokeColor(col)
		ctx.SetStrokeWidth(r.opts.StrokePx)
		ctx.DrawPath(float64(b.X), float64(b.Y), canvas.Rectangle(float64(b.W), float64(b.H)))

		if err := r.drawLabel(ctx, string(z.Name), b, labelPx, col); err != nil {
			return nil, err
		}
	}

	if r.opts.ShowSafeZone {
		sz := layout.LayoutSafeZonePx(l.Canvas)
		ctx.SetFillColor(color.NRGBA{})
		ctx.SetStrokeColor(safeZoneColor)
		ctx.SetStrokeWidth(math.Max(1, r.opts.StrokePx/2))
		ctx.SetDashes(0, 12, 8)
		ctx.DrawPath(float64(sz.X), float64(sz.Y), canvas.Rectangle(float64(sz.W), float64(sz.H)))
		ctx.SetDashes(0)
	}
	return c, nil
}

// drawLabel 在区域内侧左上角绘制名称；区域过小时跳过。
func (r *Renderer) drawLabel(ctx *canvas.Context, text string, b layout.PxBox, sizePx float64, col color.NRGBA) error {
	if float64(b.H) < sizePx+labelInsetPx || float64(b.W) < 2*labelInsetPx {
		return nil
	}
	face, err := r.face(sizePx, col)
	if err != nil {
		return err
	}
	line := canvas.NewTextLine(face, text, canvas.Left)
	baseline := float64(b.Y+labelInsetPx) + face.Metrics().Ascent
	ctx.DrawText(float64(b.X+labelInsetPx), baseline, line)
	return nil
}

func (r *Renderer) labelPx(c layout.Canvas) float64 {
	if r.opts.LabelPx > 0 {
		return r.opts.LabelPx
	}
	w, h := c.Size()
	return math.Max(12, math.Round(float64(min(w, h))*0.02))
}
