package autofit

import (
	"math"
	"strings"

	"github.com/ByLCY/adframe/layout"
)

const (
	// HardFloorPx 是尺寸搜索的最小字号；再小只会进入兜底分支。
	HardFloorPx = 10
	// DefaultLineHeight 为默认行高倍数。
	DefaultLineHeight = 1.2
	// MaxSearchPx 限制起始字号，避免超大盒子导致搜索过长。
	MaxSearchPx = 2048
	// lastResortPx 为兜底字号。
	lastResortPx = 1
)

// Params 为单次自适应排版的参数。MinFontPx 是偏好值而非下限；
// MaxFontPx、LineHeightMul 为 0 时分别表示不限制与使用默认值。
type Params struct {
	Padding       float64 `json:"padding"`
	MaxLines      int     `json:"maxLines"`
	MinFontPx     float64 `json:"minFontPx"`
	MaxFontPx     float64 `json:"maxFontPx,omitempty"`
	LineHeightMul float64 `json:"lineHeightMul,omitempty"`
}

// Result 为排版结果。BelowMin 表示最终字号低于 MinFontPx（包括兜底情况）。
type Result struct {
	FontSizePx   float64  `json:"fontSizePx"`
	LineHeightPx float64  `json:"lineHeightPx"`
	Lines        []string `json:"lines"`
	BelowMin     bool     `json:"belowMin"`
}

// Height 返回所有行的总高度。
func (r Result) Height() float64 { return float64(len(r.Lines)) * r.LineHeightPx }

// ParamsForZone 用文字区域的配置构造参数。
func ParamsForZone(z layout.TextZone, lineHeightMul float64) Params {
	return Params{
		Padding:       z.Padding,
		MaxLines:      z.MaxLines,
		MinFontPx:     z.MinFontPx,
		MaxFontPx:     z.MaxFontPx,
		LineHeightMul: lineHeightMul,
	}
}

// FitZone 解析文字区域在画布上的像素框，并按区域参数执行 Autofit。
func FitZone(text string, z layout.TextZone, c layout.Canvas, m Measurer, lineHeightMul float64) (Result, layout.PxBox) {
	box := layout.DenormalizeBox(z.Box, c)
	return Autofit(text, float64(box.W), float64(box.H), ParamsForZone(z, lineHeightMul), m), box
}

// Autofit 选取能完整放入盒子的最大字号与折行。该函数对任何输入都返回可用结果：
// 行数不超过 MaxLines，总行高不超过内框高度，文案从不截断。
func Autofit(text string, boxW, boxH float64, p Params, m Measurer) Result {
	p = p.withDefaults()
	text = Normalize(text)
	innerW := math.Max(0, finite(boxW)-2*p.Padding)
	innerH := math.Max(0, finite(boxH)-2*p.Padding)

	if text == "" {
		size := math.Max(0, ceiling(innerH, p))
		return Result{
			FontSizePx:   size,
			LineHeightPx: size * p.LineHeightMul,
			Lines:        []string{},
			BelowMin:     size < p.MinFontPx,
		}
	}

	top := ceiling(innerH, p)
	for size := top; size >= HardFloorPx; size-- {
		if res, ok := tryFit(text, size, innerW, innerH, p, m); ok {
			return res
		}
	}
	return lastResort(text, innerW, innerH, math.Min(top, HardFloorPx-1), p, m)
}

// tryFit 以给定字号折行，行数与总行高都满足约束时返回结果。
func tryFit(text string, size, innerW, innerH float64, p Params, m Measurer) (Result, bool) {
	lines := Wrap(text, innerW, m.MeasureForFont(size))
	lineH := size * p.LineHeightMul
	if len(lines) > p.MaxLines || float64(len(lines))*lineH > innerH {
		return Result{}, false
	}
	return Result{
		FontSizePx:   size,
		LineHeightPx: lineH,
		Lines:        lines,
		BelowMin:     size < p.MinFontPx,
	}, true
}

// lastResort 处理下限以下的情况：先从 start 逐级降到 1px 继续搜索，
// 仍放不下时以 1px 折行，多出的行并入最后一行，保证行数上限且不丢失文案。
// 内框连一行 1px 文本都放不下时，字号继续按内框高度缩小。
func lastResort(text string, innerW, innerH, start float64, p Params, m Measurer) Result {
	for size := start; size >= lastResortPx; size-- {
		if res, ok := tryFit(text, size, innerW, innerH, p, m); ok {
			return res
		}
	}

	size := float64(lastResortPx)
	lines := Wrap(text, innerW, m.MeasureForFont(size))
	if len(lines) > p.MaxLines {
		lines = mergeTail(text, lines, p.MaxLines)
	}
	if need := float64(len(lines)) * size * p.LineHeightMul; need > innerH {
		size = innerH / (float64(len(lines)) * p.LineHeightMul)
	}
	return Result{
		FontSizePx:   size,
		LineHeightPx: size * p.LineHeightMul,
		Lines:        lines,
		BelowMin:     true,
	}
}

// mergeTail 保留前 n-1 行，其余原文（含原有空格，不额外插入）并入第 n 行。
func mergeTail(text string, lines []string, n int) []string {
	off := 0
	for _, line := range lines[:n-1] {
		if i := strings.Index(text[off:], line); i >= 0 {
			off += i + len(line)
		}
	}
	tail := strings.TrimLeft(text[off:], " ")
	return append(lines[:n-1:n-1], tail)
}

// ceiling 计算起始字号：floor(innerH / maxLines / lineHeightMul)，并受 MaxFontPx 与 MaxSearchPx 约束。
func ceiling(innerH float64, p Params) float64 {
	c := math.Min(MaxSearchPx, math.Floor(innerH/float64(p.MaxLines)/p.LineHeightMul))
	if p.MaxFontPx > 0 {
		c = math.Min(c, math.Floor(p.MaxFontPx))
	}
	return c
}

func (p Params) withDefaults() Params {
	if p.MaxLines < 1 {
		p.MaxLines = 1
	}
	if p.Padding < 0 || math.IsNaN(p.Padding) || math.IsInf(p.Padding, 0) {
		p.Padding = 0
	}
	if p.LineHeightMul <= 0 || math.IsNaN(p.LineHeightMul) || math.IsInf(p.LineHeightMul, 0) {
		p.LineHeightMul = DefaultLineHeight
	}
	if math.IsNaN(p.MaxFontPx) || p.MaxFontPx < 0 {
		p.MaxFontPx = 0
	}
	return p
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
