package canvasrenderer

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/adframe/autofit"
	"github.com/ByLCY/adframe/binding"
	"github.com/ByLCY/adframe/layout"
)

// Guide 将区域示意图叠加到生成图上，便于人工检查。
// 底图尺寸与画布不一致时先缩放到画布尺寸。
func (r *Renderer) Guide(base image.Image, l layout.Layout) (*image.NRGBA, error) {
	overlay, err := r.Rasterize(l)
	if err != nil {
		return nil, err
	}
	return imaging.Overlay(fitBase(base, l.Canvas), overlay, image.Pt(0, 0), 1.0), nil
}

// Compose 为回退合成：对每个有文案的文字区域执行 Autofit（使用真实字体测量），
// 按区域对齐方式绘制折行结果，并在内框中垂直居中。返回合成图与各区域的排版结果。
func (r *Renderer) Compose(base image.Image, l layout.Layout, texts binding.Copy) (*image.NRGBA, map[layout.ZoneName]autofit.Result, error) {
	c, ctx := newCanvas(l)
	results := make(map[layout.ZoneName]autofit.Result, len(texts))

	for _, name := range l.Zones() {
		zone, ok := l.Text(name)
		if !ok {
			continue
		}
		text, ok := texts[name]
		if !ok {
			continue
		}
		res, box := autofit.FitZone(text, zone, l.Canvas, r, r.opts.LineHeight)
		results[name] = res
		if err := r.drawCopy(ctx, res, box, zone); err != nil {
			return nil, nil, err
		}
	}

	out := imaging.Overlay(fitBase(base, l.Canvas), rasterize(c), image.Pt(0, 0), 1.0)
	return out, results, nil
}

func (r *Renderer) drawCopy(ctx *canvas.Context, res autofit.Result, box layout.PxBox, zone layout.TextZone) error {
	if len(res.Lines) == 0 || res.FontSizePx <= 0 {
		return nil
	}
	face, err := r.face(res.FontSizePx, r.opts.TextColor)
	if err != nil {
		return err
	}

	pad := max(0, zone.Padding)
	innerX := float64(box.X) + pad
	innerW := max(0, float64(box.W)-2*pad)
	innerH := max(0, float64(box.H)-2*pad)

	var (
		align   canvas.TextAlign
		anchorX float64
	)
	switch zone.Align {
	case layout.AlignLeft:
		align, anchorX = canvas.Left, innerX
	case layout.AlignRight:
		align, anchorX = canvas.Right, innerX+innerW
	default:
		align, anchorX = canvas.Center, innerX+innerW/2
	}

	// 基线：行顶部 + 行内留白的一半 + 字体上升部
	metrics := face.Metrics()
	glyphH := metrics.Ascent + metrics.Descent
	top := float64(box.Y) + pad + (innerH-res.Height())/2
	for i, line := range res.Lines {
		lineTop := top + float64(i)*res.LineHeightPx
		baseline := lineTop + (res.LineHeightPx-glyphH)/2 + metrics.Ascent
		ctx.DrawText(anchorX, baseline, canvas.NewTextLine(face, line, align))
	}
	return nil
}

// fitBase 返回与画布同尺寸的底图；nil 底图视为透明画布。
func fitBase(base image.Image, c layout.Canvas) image.Image {
	w, h := c.Size()
	if base == nil {
		return imaging.New(w, h, color.Transparent)
	}
	if b := base.Bounds(); b.Dx() != w || b.Dy() != h {
		return imaging.Resize(base, w, h, imaging.Lanczos)
	}
	return base
}
