package layout

import (
	"encoding/json"
	"fmt"
	"strings"
)

// 该文件定义版面模型：归一化坐标框、画布与各类区域，供自适应排版、叠加渲染与 QA 打分共用。

// CurrentVersion 为当前版面文档的 schema 版本。
const CurrentVersion = 2

// ZoneName 标识一个保留区域。
type ZoneName string

const (
	ZoneHero     ZoneName = "hero"
	ZoneLogo     ZoneName = "logo"
	ZoneHeadline ZoneName = "headline"
	ZoneSubtext  ZoneName = "subtext"
	ZoneCTA      ZoneName = "cta"
	ZoneBadge    ZoneName = "badge"
	ZoneLegal    ZoneName = "legal"
)

// AllZones 按绘制顺序列出全部区域（媒体区域在前，文字区域在后）。
var AllZones = []ZoneName{ZoneHero, ZoneLogo, ZoneHeadline, ZoneSubtext, ZoneCTA, ZoneBadge, ZoneLegal}

// ZoneKind 区分媒体区域与文字区域。
type ZoneKind int

const (
	KindMedia ZoneKind = iota
	KindText
)

// Kind 返回区域类型；未知名称按文字区域处理。
func (n ZoneName) Kind() ZoneKind {
	switch n {
	case ZoneHero, ZoneLogo:
		return KindMedia
	default:
		return KindText
	}
}

// ParseZoneName 解析区域名称（大小写不敏感）。
func ParseZoneName(s string) (ZoneName, bool) {
	name := ZoneName(strings.ToLower(strings.TrimSpace(s)))
	for _, z := range AllZones {
		if z == name {
			return z, true
		}
	}
	return "", false
}

// NormalizedBox 以画布宽高的比例（0..1）描述矩形，与分辨率无关。
// JSON 形式为 [x, y, w, h]。
type NormalizedBox struct {
	X float64
	Y float64
	W float64
	H float64
}

// MarshalJSON 输出四元数组。
func (b NormalizedBox) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{b.X, b.Y, b.W, b.H})
}

// UnmarshalJSON 接受 [x, y, w, h] 数组，也兼容 {"x":..,"y":..,"w":..,"h":..} 对象。
func (b *NormalizedBox) UnmarshalJSON(data []byte) error {
	var arr []float64
	if err := json.Unmarshal(data, &arr); err == nil {
		if len(arr) != 4 {
			return fmt.Errorf("box 需要 4 个数值，实际 %d 个", len(arr))
		}
		*b = NormalizedBox{X: arr[0], Y: arr[1], W: arr[2], H: arr[3]}
		return nil
	}
	var obj struct {
		X *float64 `json:"x"`
		Y *float64 `json:"y"`
		W *float64 `json:"w"`
		H *float64 `json:"h"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("无法解析 box: %w", err)
	}
	if obj.X == nil || obj.Y == nil || obj.W == nil || obj.H == nil {
		return fmt.Errorf("box 对象缺少 x/y/w/h 字段")
	}
	*b = NormalizedBox{X: *obj.X, Y: *obj.Y, W: *obj.W, H: *obj.H}
	return nil
}

// FitMode 描述媒体在区域内的适配方式。
type FitMode string

const (
	FitContain FitMode = "contain"
	FitCover   FitMode = "cover"
)

// Align 为文字水平对齐方式。
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Canvas 记录像素尺寸、宽高比标签、安全边距比例与网格吸附尺寸。
type Canvas struct {
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	AspectRatio     string  `json:"aspectRatio"`
	SafeMarginRatio float64 `json:"safeMarginRatio"`
	GridPx          int     `json:"gridPx"`
}

// MediaZone 用于主视觉（hero）与 logo。Padding 单位为像素。
type MediaZone struct {
	Box     NormalizedBox `json:"box"`
	Padding float64       `json:"padding"`
	Fit     FitMode       `json:"fit"`
}

// TextZone 用于标题、副文案、CTA 以及可选的角标与法律声明。
// MinFontPx 是偏好值而非硬性下限；MaxFontPx 为 0 表示不限制。
type TextZone struct {
	Box       NormalizedBox `json:"box"`
	Align     Align         `json:"align"`
	MaxLines  int           `json:"maxLines"`
	Padding   float64       `json:"padding"`
	MinFontPx float64       `json:"minFontPx"`
	MaxFontPx float64       `json:"maxFontPx,omitempty"`
}

// Layout 是当前版本（v2）的版面聚合。Badge 与 Legal 可为空。
type Layout struct {
	Version  int       `json:"version"`
	Canvas   Canvas    `json:"canvas"`
	Hero     MediaZone `json:"hero"`
	Logo     MediaZone `json:"logo"`
	Headline TextZone  `json:"headline"`
	Subtext  TextZone  `json:"subtext"`
	CTA      TextZone  `json:"cta"`
	Badge    *TextZone `json:"badge,omitempty"`
	Legal    *TextZone `json:"legal,omitempty"`
}

// Zones 返回版面中实际存在的区域，顺序与 AllZones 一致。
func (l Layout) Zones() []ZoneName {
	out := make([]ZoneName, 0, len(AllZones))
	for _, z := range AllZones {
		if _, ok := l.Box(z); ok {
			out = append(out, z)
		}
	}
	return out
}

// Box 返回指定区域的归一化坐标框。
func (l Layout) Box(name ZoneName) (NormalizedBox, bool) {
	if m, ok := l.Media(name); ok {
		return m.Box, true
	}
	if t, ok := l.Text(name); ok {
		return t.Box, true
	}
	return NormalizedBox{}, false
}

// Media 返回媒体区域的副本。
func (l Layout) Media(name ZoneName) (MediaZone, bool) {
	switch name {
	case ZoneHero:
		return l.Hero, true
	case ZoneLogo:
		return l.Logo, true
	}
	return MediaZone{}, false
}

// Text 返回文字区域的副本；缺省的 badge/legal 返回 false。
func (l Layout) Text(name ZoneName) (TextZone, bool) {
	switch name {
	case ZoneHeadline:
		return l.Headline, true
	case ZoneSubtext:
		return l.Subtext, true
	case ZoneCTA:
		return l.CTA, true
	case ZoneBadge:
		if l.Badge != nil {
			return *l.Badge, true
		}
	case ZoneLegal:
		if l.Legal != nil {
			return *l.Legal, true
		}
	}
	return TextZone{}, false
}

// withBox 返回替换了指定区域坐标框的新版面；区域不存在时返回 false。
func (l Layout) withBox(name ZoneName, nb NormalizedBox) (Layout, bool) {
	switch name {
	case ZoneHero:
		l.Hero.Box = nb
	case ZoneLogo:
		l.Logo.Box = nb
	case ZoneHeadline:
		l.Headline.Box = nb
	case ZoneSubtext:
		l.Subtext.Box = nb
	case ZoneCTA:
		l.CTA.Box = nb
	case ZoneBadge:
		if l.Badge == nil {
			return l, false
		}
		z := *l.Badge
		z.Box = nb
		l.Badge = &z
	case ZoneLegal:
		if l.Legal == nil {
			return l, false
		}
		z := *l.Legal
		z.Box = nb
		l.Legal = &z
	default:
		return l, false
	}
	return l, true
}

// Clone 深拷贝版面（复制可选区域指针）。
func (l Layout) Clone() Layout {
	if l.Badge != nil {
		b := *l.Badge
		l.Badge = &b
	}
	if l.Legal != nil {
		g := *l.Legal
		l.Legal = &g
	}
	return l
}
