package layout

import (
	"math"
	"strings"
)

// 宽高比标签。
const (
	RatioSquare   = "1:1"
	RatioPortrait = "4:5"
	RatioStory    = "9:16"
)

const (
	defaultSafeMargin = 0.05
	defaultGridPx     = 8
)

// preset 保存某一宽高比下的画布与手工调校的默认区域位置。
// 不同比例的可用纵向空间差异很大（9:16 在主视觉上方的留白远多于方图），因此逐比例设定。
type preset struct {
	canvas   Canvas
	hero     NormalizedBox
	logo     NormalizedBox
	headline NormalizedBox
	subtext  NormalizedBox
	cta      NormalizedBox
	badge    NormalizedBox
	legal    NormalizedBox
}

var presets = map[string]preset{
	RatioSquare: {
		canvas:   Canvas{Width: 1080, Height: 1080, AspectRatio: RatioSquare},
		logo:     NormalizedBox{X: 0.06, Y: 0.035, W: 0.16, H: 0.06},
		headline: NormalizedBox{X: 0.08, Y: 0.10, W: 0.84, H: 0.22},
		hero:     NormalizedBox{X: 0.15, Y: 0.34, W: 0.70, H: 0.40},
		badge:    NormalizedBox{X: 0.76, Y: 0.30, W: 0.18, H: 0.10},
		subtext:  NormalizedBox{X: 0.10, Y: 0.76, W: 0.80, H: 0.09},
		cta:      NormalizedBox{X: 0.30, Y: 0.87, W: 0.40, H: 0.075},
		legal:    NormalizedBox{X: 0.08, Y: 0.955, W: 0.84, H: 0.035},
	},
	RatioPortrait: {
		canvas:   Canvas{Width: 1080, Height: 1350, AspectRatio: RatioPortrait},
		logo:     NormalizedBox{X: 0.06, Y: 0.04, W: 0.16, H: 0.05},
		headline: NormalizedBox{X: 0.08, Y: 0.10, W: 0.84, H: 0.18},
		hero:     NormalizedBox{X: 0.12, Y: 0.30, W: 0.76, H: 0.42},
		badge:    NormalizedBox{X: 0.74, Y: 0.28, W: 0.20, H: 0.09},
		subtext:  NormalizedBox{X: 0.10, Y: 0.74, W: 0.80, H: 0.08},
		cta:      NormalizedBox{X: 0.30, Y: 0.84, W: 0.40, H: 0.07},
		legal:    NormalizedBox{X: 0.08, Y: 0.95, W: 0.84, H: 0.03},
	},
	RatioStory: {
		canvas:   Canvas{Width: 1080, Height: 1920, AspectRatio: RatioStory},
		logo:     NormalizedBox{X: 0.06, Y: 0.05, W: 0.18, H: 0.04},
		headline: NormalizedBox{X: 0.08, Y: 0.12, W: 0.84, H: 0.16},
		hero:     NormalizedBox{X: 0.10, Y: 0.32, W: 0.80, H: 0.36},
		badge:    NormalizedBox{X: 0.72, Y: 0.29, W: 0.22, H: 0.07},
		subtext:  NormalizedBox{X: 0.10, Y: 0.70, W: 0.80, H: 0.08},
		cta:      NormalizedBox{X: 0.25, Y: 0.81, W: 0.50, H: 0.06},
		legal:    NormalizedBox{X: 0.08, Y: 0.93, W: 0.84, H: 0.03},
	},
}

// AspectRatios 返回支持的宽高比标签。
func AspectRatios() []string { return []string{RatioSquare, RatioPortrait, RatioStory} }

// NormalizeAspectRatio 将别名（square、1x1、portrait、story 等）规整为标准标签；
// 无法识别时回退为 1:1。
func NormalizeAspectRatio(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1:1", "1x1", "square":
		return RatioSquare
	case "4:5", "4x5", "portrait", "feed":
		return RatioPortrait
	case "9:16", "9x16", "story", "reel", "vertical":
		return RatioStory
	default:
		return RatioSquare
	}
}

// RatioForSize 选取与给定像素尺寸最接近的预设宽高比。
func RatioForSize(width, height int) string {
	if width <= 0 || height <= 0 {
		return RatioSquare
	}
	target := float64(width) / float64(height)
	best, bestDiff := RatioSquare, math.Inf(1)
	for _, r := range AspectRatios() {
		c := presets[r].canvas
		if d := math.Abs(float64(c.Width)/float64(c.Height) - target); d < bestDiff {
			best, bestDiff = r, d
		}
	}
	return best
}

// CreateDefaultLayout 按宽高比生成默认版面。每次返回全新的副本。
func CreateDefaultLayout(aspectRatio string) Layout {
	p := presets[NormalizeAspectRatio(aspectRatio)]
	canvas := p.canvas
	canvas.SafeMarginRatio = defaultSafeMargin
	canvas.GridPx = defaultGridPx

	badge := defaultTextZone(ZoneBadge, p.badge)
	legal := defaultTextZone(ZoneLegal, p.legal)
	return Layout{
		Version:  CurrentVersion,
		Canvas:   canvas,
		Hero:     MediaZone{Box: p.hero, Padding: 0, Fit: FitCover},
		Logo:     MediaZone{Box: p.logo, Padding: 8, Fit: FitContain},
		Headline: defaultTextZone(ZoneHeadline, p.headline),
		Subtext:  defaultTextZone(ZoneSubtext, p.subtext),
		CTA:      defaultTextZone(ZoneCTA, p.cta),
		Badge:    &badge,
		Legal:    &legal,
	}
}

// defaultTextZone 返回各文字区域的默认排版参数。
func defaultTextZone(name ZoneName, box NormalizedBox) TextZone {
	z := TextZone{Box: box, Align: AlignCenter}
	switch name {
	case ZoneHeadline:
		z.MaxLines, z.Padding, z.MinFontPx = 2, 24, 28
	case ZoneSubtext:
		z.MaxLines, z.Padding, z.MinFontPx = 3, 12, 18
	case ZoneCTA:
		z.MaxLines, z.Padding, z.MinFontPx = 1, 12, 20
	case ZoneBadge:
		z.MaxLines, z.Padding, z.MinFontPx = 2, 8, 16
	case ZoneLegal:
		z.Align = AlignLeft
		z.MaxLines, z.Padding, z.MinFontPx = 2, 4, 10
	default:
		z.MaxLines, z.Padding, z.MinFontPx = 1, 8, 12
	}
	return z
}
