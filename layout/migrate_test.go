package layout

import (
	"encoding/json"
	"testing"
)

const v1Doc = `{
  "version": 1,
  "aspectRatio": "4:5",
  "headline": {"box": [0.05, 0.06, 0.9, 0.2], "align": "left", "maxLines": 3, "padding": 16, "minFontPx": 32},
  "subtext":  {"box": {"x": 0.1, "y": 0.7, "w": 0.8, "h": 0.1}},
  "cta":      {"box": [0.35, 0.85, 0.3, 0.08], "align": "right"}
}`

// TestLoadLayoutMigratesV1 验证 v1 文档迁移后三个文字区域保持原样，其余区域取同比例默认值。
func TestLoadLayoutMigratesV1(t *testing.T) {
	l, origin := LoadLayout([]byte(v1Doc))
	if origin != OriginV1 {
		t.Fatalf("expected origin %s, got %s", OriginV1, origin)
	}
	if l.Version != CurrentVersion {
		t.Fatalf("expected version %d, got %d", CurrentVersion, l.Version)
	}
	if l.Canvas.AspectRatio != RatioPortrait || l.Canvas.Height != 1350 {
		t.Fatalf("expected 4:5 canvas, got %+v", l.Canvas)
	}

	if l.Headline.Box != (NormalizedBox{X: 0.05, Y: 0.06, W: 0.9, H: 0.2}) {
		t.Fatalf("headline box changed: %+v", l.Headline.Box)
	}
	if l.Headline.Align != AlignLeft || l.Headline.MaxLines != 3 || l.Headline.Padding != 16 || l.Headline.MinFontPx != 32 {
		t.Fatalf("headline params changed: %+v", l.Headline)
	}
	if l.Subtext.Box != (NormalizedBox{X: 0.1, Y: 0.7, W: 0.8, H: 0.1}) {
		t.Fatalf("subtext box changed: %+v", l.Subtext.Box)
	}
	if l.CTA.Box != (NormalizedBox{X: 0.35, Y: 0.85, W: 0.3, H: 0.08}) || l.CTA.Align != AlignRight {
		t.Fatalf("cta changed: %+v", l.CTA)
	}

	def := CreateDefaultLayout(RatioPortrait)
	if l.Subtext.MaxLines != def.Subtext.MaxLines || l.Subtext.Padding != def.Subtext.Padding {
		t.Fatalf("missing subtext params should come from defaults: %+v", l.Subtext)
	}
	if l.Hero != def.Hero || l.Logo != def.Logo {
		t.Fatalf("hero/logo should be ratio defaults: %+v %+v", l.Hero, l.Logo)
	}
	if l.Badge == nil || *l.Badge != *def.Badge || l.Legal == nil || *l.Legal != *def.Legal {
		t.Fatalf("badge/legal should be ratio defaults")
	}
}

func TestLoadLayoutV2RoundTrip(t *testing.T) {
	want := CreateDefaultLayout(RatioStory)
	want.Badge = nil
	want.Headline.MaxFontPx = 96
	data, err := EncodeLayout(want)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	got, origin := LoadLayout(data)
	if origin != OriginV2 {
		t.Fatalf("expected origin %s, got %s", OriginV2, origin)
	}
	if got.Badge != nil {
		t.Fatalf("absent badge should stay absent")
	}
	if got.Headline != want.Headline || got.Canvas != want.Canvas || got.Hero != want.Hero {
		t.Fatalf("v2 round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

// TestLoadLayoutV2PartialZones 验证 v2 文档缺少 hero/logo 或画布时仍按 v2 读取，已有区域不被覆盖。
func TestLoadLayoutV2PartialZones(t *testing.T) {
	doc := `{
  "version": 2,
  "canvas": {"width": 1080, "height": 1350, "aspectRatio": "4:5"},
  "hero": {"box": [0.2, 0.3, 0.5, 0.3]},
  "headline": {"box": [0.1, 0.05, 0.8, 0.15]},
  "subtext": {"box": [0.1, 0.65, 0.8, 0.08]},
  "cta": {"box": [0.3, 0.8, 0.4, 0.08]},
  "badge": {"box": [0.5, 0.5, 0.1, 0.1]}
}`
	l, origin := LoadLayout([]byte(doc))
	if origin != OriginV2 {
		t.Fatalf("expected origin %s, got %s", OriginV2, origin)
	}
	if l.Hero.Box != (NormalizedBox{X: 0.2, Y: 0.3, W: 0.5, H: 0.3}) {
		t.Fatalf("hero box should be kept, got %+v", l.Hero.Box)
	}
	if l.Badge == nil || l.Badge.Box != (NormalizedBox{X: 0.5, Y: 0.5, W: 0.1, H: 0.1}) {
		t.Fatalf("badge should be kept, got %+v", l.Badge)
	}
	if l.Legal != nil {
		t.Fatalf("absent legal should stay absent")
	}
	def := CreateDefaultLayout(RatioPortrait)
	if l.Logo != def.Logo {
		t.Fatalf("missing logo should be the 4:5 default, got %+v", l.Logo)
	}

	// 无画布：按顶层宽高比补齐画布与缺失区域。
	noCanvas := `{
  "version": 2,
  "aspectRatio": "9:16",
  "logo": {"box": [0.7, 0.02, 0.2, 0.05], "fit": "cover"},
  "headline": {"box": [0.1, 0.05, 0.8, 0.15]},
  "subtext": {"box": [0.1, 0.65, 0.8, 0.08]},
  "cta": {"box": [0.3, 0.8, 0.4, 0.08]}
}`
	l, origin = LoadLayout([]byte(noCanvas))
	if origin != OriginV2 {
		t.Fatalf("expected origin %s without canvas, got %s", OriginV2, origin)
	}
	story := CreateDefaultLayout(RatioStory)
	if l.Canvas != story.Canvas || l.Hero != story.Hero {
		t.Fatalf("canvas/hero should be 9:16 defaults: %+v %+v", l.Canvas, l.Hero)
	}
	if l.Logo.Box != (NormalizedBox{X: 0.7, Y: 0.02, W: 0.2, H: 0.05}) || l.Logo.Fit != FitCover {
		t.Fatalf("logo should be kept, got %+v", l.Logo)
	}
	if l.Badge != nil {
		t.Fatalf("badge absent from a v2 document should stay absent")
	}
}

func TestLoadLayoutFallsBack(t *testing.T) {
	inputs := []string{
		``,
		`not json`,
		`[]`,
		`{}`,
		`{"version": 7, "headline": {"box": [0,0,1,1]}}`,
		`{"version": 2, "canvas": {"width": 1080, "height": 1080}}`,
	}
	for _, in := range inputs {
		l, origin := LoadLayout([]byte(in))
		if origin != OriginFallback {
			t.Fatalf("%q: expected fallback, got %s", in, origin)
		}
		if l.Canvas.AspectRatio != RatioSquare || l.Canvas.Width != 1080 {
			t.Fatalf("%q: expected square default, got %+v", in, l.Canvas)
		}
	}
}

func TestLoadLayoutClampsGeometry(t *testing.T) {
	l := CreateDefaultLayout(RatioSquare)
	raw, err := json.Marshal(l)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	doc["headline"].(map[string]any)["box"] = []float64{0.9, -0.5, 0.5, 2}
	doc["canvas"].(map[string]any)["safeMarginRatio"] = 0.9
	raw, _ = json.Marshal(doc)

	got, origin := LoadLayout(raw)
	if origin != OriginV2 {
		t.Fatalf("expected v2, got %s", origin)
	}
	if got.Headline.Box != (NormalizedBox{X: 0.5, Y: 0, W: 0.5, H: 1}) {
		t.Fatalf("headline box not clamped: %+v", got.Headline.Box)
	}
	if got.Canvas.SafeMarginRatio != defaultSafeMargin {
		t.Fatalf("invalid safe margin should reset, got %g", got.Canvas.SafeMarginRatio)
	}
}

func TestDecodeDocumentTaggedUnion(t *testing.T) {
	doc, err := DecodeDocument([]byte(v1Doc))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	v1, ok := doc.(DocumentV1)
	if !ok || v1.SchemaVersion() != 1 {
		t.Fatalf("expected DocumentV1, got %T", doc)
	}
	if _, err := DecodeDocument([]byte(`{"version": 3}`)); err == nil {
		t.Fatalf("expected error for unknown document")
	}
}
