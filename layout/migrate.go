package layout

import (
	"encoding/json"
	"fmt"
	"math"
)

// 版面文档有两个 schema 版本：v1 只有 headline/subtext/cta，v2 为当前完整结构。
// 两种形态以 Document 标签联合表示，迁移是纯函数式的向上转换。

// Origin 描述 LoadLayout 的结果来源，便于调用方记录日志。
type Origin string

const (
	OriginV2       Origin = "v2"
	OriginV1       Origin = "v1-migrated"
	OriginFallback Origin = "default"
)

// Document 是 v1/v2 文档的标签联合。
type Document interface {
	SchemaVersion() int
}

// DocumentV1 为旧版文档：只包含三个文字区域，画布信息可选。
type DocumentV1 struct {
	Canvas      *Canvas
	AspectRatio string
	Headline    TextZone
	Subtext     TextZone
	CTA         TextZone
}

// DocumentV2 为当前版本文档。
type DocumentV2 struct {
	Layout Layout
}

func (DocumentV1) SchemaVersion() int { return 1 }
func (DocumentV2) SchemaVersion() int { return 2 }

// rawTextZone/rawMediaZone 用指针字段区分"缺失"与"零值"。
type rawTextZone struct {
	Box       *NormalizedBox `json:"box"`
	Align     Align          `json:"align"`
	MaxLines  int            `json:"maxLines"`
	Padding   *float64       `json:"padding"`
	MinFontPx float64        `json:"minFontPx"`
	MaxFontPx float64        `json:"maxFontPx"`
}

type rawMediaZone struct {
	Box     *NormalizedBox `json:"box"`
	Padding *float64       `json:"padding"`
	Fit     FitMode        `json:"fit"`
}

type rawDocument struct {
	Version     int           `json:"version"`
	AspectRatio string        `json:"aspectRatio"`
	Canvas      *Canvas       `json:"canvas"`
	Hero        *rawMediaZone `json:"hero"`
	Logo        *rawMediaZone `json:"logo"`
	Headline    *rawTextZone  `json:"headline"`
	Subtext     *rawTextZone  `json:"subtext"`
	CTA         *rawTextZone  `json:"cta"`
	Badge       *rawTextZone  `json:"badge"`
	Legal       *rawTextZone  `json:"legal"`
}

// DecodeDocument 先按 v2 解析，失败后按 v1 解析；两者都不满足时返回错误。
func DecodeDocument(data []byte) (Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("解析版面 JSON 失败: %w", err)
	}
	if doc, ok := decodeV2(raw); ok {
		return doc, nil
	}
	if doc, ok := decodeV1(raw); ok {
		return doc, nil
	}
	return nil, fmt.Errorf("版面文档既不是 v2 也不是 v1 结构（version=%d）", raw.Version)
}

// decodeV2 接受 version=2 且含三个文字区域的文档。hero、logo 与画布均可缺省，
// 缺失部分按同比例默认值补齐，文档中已有的区域原样保留。
func decodeV2(raw rawDocument) (DocumentV2, bool) {
	if raw.Version != CurrentVersion {
		return DocumentV2{}, false
	}
	if !hasText(raw.Headline) || !hasText(raw.Subtext) || !hasText(raw.CTA) {
		return DocumentV2{}, false
	}

	// 用同比例的默认值补齐零值字段，例如缺失的 maxLines。
	defaults := CreateDefaultLayout(inferRatio(raw.Canvas, raw.AspectRatio))
	l := Layout{
		Version:  CurrentVersion,
		Canvas:   defaults.Canvas,
		Hero:     defaults.Hero,
		Logo:     defaults.Logo,
		Headline: mergeText(*raw.Headline, defaults.Headline),
		Subtext:  mergeText(*raw.Subtext, defaults.Subtext),
		CTA:      mergeText(*raw.CTA, defaults.CTA),
	}
	if raw.Canvas != nil {
		l.Canvas = mergeCanvas(*raw.Canvas, defaults.Canvas)
	}
	if hasMedia(raw.Hero) {
		l.Hero = mergeMedia(*raw.Hero, defaults.Hero)
	}
	if hasMedia(raw.Logo) {
		l.Logo = mergeMedia(*raw.Logo, defaults.Logo)
	}
	if hasText(raw.Badge) {
		z := mergeText(*raw.Badge, *defaults.Badge)
		l.Badge = &z
	}
	if hasText(raw.Legal) {
		z := mergeText(*raw.Legal, *defaults.Legal)
		l.Legal = &z
	}
	return DocumentV2{Layout: l}, true
}

func decodeV1(raw rawDocument) (DocumentV1, bool) {
	if raw.Version > 1 {
		return DocumentV1{}, false
	}
	if !hasText(raw.Headline) || !hasText(raw.Subtext) || !hasText(raw.CTA) {
		return DocumentV1{}, false
	}
	doc := DocumentV1{
		Canvas:      raw.Canvas,
		AspectRatio: raw.AspectRatio,
	}
	defaults := CreateDefaultLayout(doc.ratio())
	doc.Headline = mergeText(*raw.Headline, defaults.Headline)
	doc.Subtext = mergeText(*raw.Subtext, defaults.Subtext)
	doc.CTA = mergeText(*raw.CTA, defaults.CTA)
	return doc, true
}

func (doc DocumentV1) ratio() string { return inferRatio(doc.Canvas, doc.AspectRatio) }

// inferRatio 推断文档的宽高比：画布标签优先，其次顶层标签，最后按像素尺寸匹配。
func inferRatio(c *Canvas, top string) string {
	if c != nil {
		switch {
		case c.AspectRatio != "":
			return c.AspectRatio
		case top == "":
			return RatioForSize(c.Width, c.Height)
		}
	}
	return top
}

// Upcast 将 v1 文档升级为 v2 版面：先按同一宽高比合成默认版面，
// 再把旧文档的 headline/subtext/cta 拼接进去。坐标框原样保留。
func Upcast(doc DocumentV1) Layout {
	l := CreateDefaultLayout(doc.ratio())
	if doc.Canvas != nil {
		l.Canvas = mergeCanvas(*doc.Canvas, l.Canvas)
	}
	l.Headline = spliceText(doc.Headline, l.Headline)
	l.Subtext = spliceText(doc.Subtext, l.Subtext)
	l.CTA = spliceText(doc.CTA, l.CTA)
	return l
}

// ToLayout 把任一版本的文档转换为当前版面。
func ToLayout(doc Document) Layout {
	switch d := doc.(type) {
	case DocumentV2:
		return d.Layout.Clone()
	case DocumentV1:
		return Upcast(d)
	default:
		return CreateDefaultLayout(RatioSquare)
	}
}

// LoadLayout 解析版面文档，永不返回错误：v2 直接使用，v1 迁移，
// 其余情况回退为 1:1 默认版面。所有坐标都会被夹紧到合法范围。
func LoadLayout(data []byte) (Layout, Origin) {
	doc, err := DecodeDocument(data)
	if err != nil {
		return CreateDefaultLayout(RatioSquare), OriginFallback
	}
	origin := OriginV2
	if doc.SchemaVersion() == 1 {
		origin = OriginV1
	}
	return Sanitize(ToLayout(doc)), origin
}

// EncodeLayout 以当前 schema 输出带缩进的 JSON。
func EncodeLayout(l Layout) ([]byte, error) {
	l.Version = CurrentVersion
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("序列化版面失败: %w", err)
	}
	return data, nil
}

// Sanitize 夹紧画布参数与所有区域坐标框，返回新版面。
func Sanitize(l Layout) Layout {
	l = l.Clone()
	l.Version = CurrentVersion
	l.Canvas = mergeCanvas(l.Canvas, CreateDefaultLayout(l.Canvas.AspectRatio).Canvas)
	for _, z := range l.Zones() {
		nb, _ := l.Box(z)
		l, _ = l.withBox(z, ClampNormalized(nb))
	}
	return l
}

func hasText(z *rawTextZone) bool   { return z != nil && z.Box != nil }
func hasMedia(z *rawMediaZone) bool { return z != nil && z.Box != nil }

func mergeCanvas(c, def Canvas) Canvas {
	if c.Width <= 0 || c.Height <= 0 {
		c.Width, c.Height = def.Width, def.Height
	}
	if c.AspectRatio == "" {
		c.AspectRatio = RatioForSize(c.Width, c.Height)
	} else {
		c.AspectRatio = NormalizeAspectRatio(c.AspectRatio)
	}
	if sm := c.SafeMarginRatio; sm <= 0 || sm >= 0.5 || math.IsNaN(sm) {
		c.SafeMarginRatio = def.SafeMarginRatio
	}
	if c.GridPx <= 0 {
		c.GridPx = def.GridPx
	}
	return c
}

func mergeMedia(raw rawMediaZone, def MediaZone) MediaZone {
	z := MediaZone{Box: *raw.Box, Padding: def.Padding, Fit: raw.Fit}
	if raw.Padding != nil && *raw.Padding >= 0 {
		z.Padding = *raw.Padding
	}
	if z.Fit != FitContain && z.Fit != FitCover {
		z.Fit = def.Fit
	}
	return z
}

func mergeText(raw rawTextZone, def TextZone) TextZone {
	z := TextZone{
		Box:       *raw.Box,
		Align:     raw.Align,
		MaxLines:  raw.MaxLines,
		Padding:   def.Padding,
		MinFontPx: raw.MinFontPx,
		MaxFontPx: raw.MaxFontPx,
	}
	if raw.Padding != nil {
		z.Padding = *raw.Padding
	}
	return spliceText(z, def)
}

// spliceText 以 src 为准，仅用 def 补齐 src 中缺失的参数；坐标框总是取 src。
func spliceText(src, def TextZone) TextZone {
	out := src
	switch src.Align {
	case AlignLeft, AlignCenter, AlignRight:
	default:
		out.Align = def.Align
	}
	if src.MaxLines <= 0 {
		out.MaxLines = def.MaxLines
	}
	if src.Padding < 0 || math.IsNaN(src.Padding) {
		out.Padding = def.Padding
	}
	if src.MinFontPx <= 0 {
		out.MinFontPx = def.MinFontPx
	}
	if src.MaxFontPx < 0 {
		out.MaxFontPx = 0
	}
	return out
}
