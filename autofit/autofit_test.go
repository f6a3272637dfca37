package autofit

import (
	"strings"
	"testing"

	"github.com/ByLCY/adframe/layout"
)

const epsilon = 1e-9

func checkFits(t *testing.T, label string, res Result, p Params, boxH float64) {
	t.Helper()
	p = p.withDefaults()
	innerH := max(0, boxH-2*p.Padding)
	if len(res.Lines) > p.MaxLines {
		t.Fatalf("%s: %d lines exceed maxLines %d", label, len(res.Lines), p.MaxLines)
	}
	if h := float64(len(res.Lines)) * res.FontSizePx * p.LineHeightMul; h > innerH+epsilon {
		t.Fatalf("%s: height %g exceeds inner height %g", label, h, innerH)
	}
}

// TestAutofitScenarioHeadline 覆盖 1080 方图标题区域的典型场景。
func TestAutofitScenarioHeadline(t *testing.T) {
	c := layout.Canvas{Width: 1080, Height: 1080}
	zone := layout.TextZone{
		Box:       layout.NormalizedBox{X: 0.08, Y: 0.10, W: 0.84, H: 0.22},
		MaxLines:  2,
		Padding:   24,
		MinFontPx: 28,
		MaxFontPx: 28,
	}
	res, box := FitZone("여름 한정 특가 할인 이벤트", zone, c, FixedAdvance(0.5), 0)
	if box.W != 907 || box.H != 238 {
		t.Fatalf("unexpected zone box %+v", box)
	}
	if res.FontSizePx != 28 {
		t.Fatalf("expected 28px, got %g", res.FontSizePx)
	}
	if len(res.Lines) != 1 || res.Lines[0] != "여름 한정 특가 할인 이벤트" {
		t.Fatalf("expected a single line, got %q", res.Lines)
	}
	if res.BelowMin {
		t.Fatalf("28px should not be below min")
	}
	if diff := res.LineHeightPx - 33.6; diff > epsilon || diff < -epsilon {
		t.Fatalf("unexpected line height %g", res.LineHeightPx)
	}
}

// TestAutofitScenarioLongToken 验证无空格的长串回退为逐字符折行且正常结束。
func TestAutofitScenarioLongToken(t *testing.T) {
	p := Params{Padding: 24, MaxLines: 2, MinFontPx: 28}
	text := strings.Repeat("X", 120)
	res := Autofit(text, 907, 238, p, FixedAdvance(0.5))
	checkFits(t, "long token", res, p, 238)
	if len(res.Lines) == 0 {
		t.Fatalf("expected wrapped lines")
	}
	if joined := strings.Join(res.Lines, ""); joined != text {
		t.Fatalf("character wrapping must not drop copy")
	}
	if len(res.Lines) != 2 {
		t.Fatalf("expected character wrap across 2 lines, got %d", len(res.Lines))
	}
}

func TestAutofitInvariants(t *testing.T) {
	texts := []string{
		"",
		"   \t\n ",
		"Summer sale",
		"Buy one get one free on every item in the store this weekend only",
		strings.Repeat("가", 200),
		"tiny " + strings.Repeat("W", 200) + " words",
	}
	boxes := [][2]float64{{907, 238}, {432, 81}, {200, 24}, {8, 8}, {0, 0}, {1080, 1920}}
	params := []Params{
		{Padding: 24, MaxLines: 2, MinFontPx: 28},
		{Padding: 0, MaxLines: 1, MinFontPx: 12},
		{Padding: -5, MaxLines: 0},
		{Padding: 4, MaxLines: 3, MaxFontPx: 40, LineHeightMul: 1.5},
	}
	for _, text := range texts {
		for _, b := range boxes {
			for _, p := range params {
				res := Autofit(text, b[0], b[1], p, FixedAdvance(0.55))
				checkFits(t, text+"@box", res, p, b[1])
				if res.FontSizePx < 0 {
					t.Fatalf("negative font size %g", res.FontSizePx)
				}
				if Normalize(text) != "" && strings.Join(res.Lines, "") == "" {
					t.Fatalf("non-empty text produced no copy")
				}
			}
		}
	}
}

func TestAutofitLastResortKeepsCopy(t *testing.T) {
	p := Params{MaxLines: 1, MinFontPx: 16}
	text := strings.Repeat("Z", 1000)
	res := Autofit(text, 300, 24, p, FixedAdvance(0.5))
	if !res.BelowMin {
		t.Fatalf("last resort must flag belowMin")
	}
	if res.FontSizePx != 1 {
		t.Fatalf("expected 1px last resort, got %g", res.FontSizePx)
	}
	if len(res.Lines) != 1 || res.Lines[0] != text {
		t.Fatalf("extra lines should merge into the last line, got %d lines", len(res.Lines))
	}
}

func TestAutofitSoftMinimum(t *testing.T) {
	p := Params{MaxLines: 1, MinFontPx: 40}
	res := Autofit("Limited time offer", 300, 200, p, FixedAdvance(0.5))
	if !res.BelowMin {
		t.Fatalf("expected belowMin when the text only fits under minFontPx")
	}
	if res.FontSizePx >= 40 || res.FontSizePx < HardFloorPx {
		t.Fatalf("expected shrinking between floor and min, got %g", res.FontSizePx)
	}
	if len(res.Lines) != 1 {
		t.Fatalf("expected one line, got %q", res.Lines)
	}
}

// TestAutofitSmallCeiling 验证 maxFontPx 或内框高度低于 10px 时仍取能放下的最大字号。
func TestAutofitSmallCeiling(t *testing.T) {
	res := Autofit("Terms apply", 400, 200, Params{MaxLines: 1, MaxFontPx: 8}, FixedAdvance(0.5))
	if res.FontSizePx != 8 || len(res.Lines) != 1 || res.Lines[0] != "Terms apply" {
		t.Fatalf("expected one line at maxFontPx 8, got %+v", res)
	}
	if res.BelowMin {
		t.Fatalf("no minimum was set, belowMin should be false")
	}

	short := Autofit("Terms apply", 400, 9, Params{MaxLines: 1, MinFontPx: 12}, FixedAdvance(0.5))
	if short.FontSizePx != 7 || !short.BelowMin {
		t.Fatalf("expected 7px in a 9px box, got %+v", short)
	}
	if short.Height() > 9 {
		t.Fatalf("height %g exceeds the box", short.Height())
	}
}

// 小盒子也要保持单调：宽一些的盒子字号不应更小。
func TestAutofitMonotonicAcrossFloor(t *testing.T) {
	text := "Offer valid while stocks last"
	p := Params{MaxLines: 2}
	prev := 0.0
	for h := 4.0; h <= 60; h++ {
		res := Autofit(text, 120, h, p, FixedAdvance(0.5))
		if res.FontSizePx < prev {
			t.Fatalf("box height %g: size %g smaller than %g", h, res.FontSizePx, prev)
		}
		prev = res.FontSizePx
	}
}

// TestAutofitMonotonic 验证盒子变大时字号不会变小。
func TestAutofitMonotonic(t *testing.T) {
	texts := []string{
		"Summer sale ends Sunday",
		"여름 한정 특가 할인 이벤트",
		strings.Repeat("무료배송", 10),
	}
	p := Params{Padding: 8, MaxLines: 2, MinFontPx: 20}
	m := FixedAdvance(0.6)
	for _, text := range texts {
		prev := 0.0
		for w := 40.0; w <= 1200; w += 37 {
			res := Autofit(text, w, 160, p, m)
			if res.FontSizePx < prev {
				t.Fatalf("%q: font size decreased from %g to %g at width %g", text, prev, res.FontSizePx, w)
			}
			prev = res.FontSizePx
		}
		prev = 0
		for h := 10.0; h <= 600; h += 13 {
			res := Autofit(text, 500, h, p, m)
			if res.FontSizePx < prev {
				t.Fatalf("%q: font size decreased from %g to %g at height %g", text, prev, res.FontSizePx, h)
			}
			prev = res.FontSizePx
		}
	}
}

func TestNormalize(t *testing.T) {
	// 分解形式的韩文（초성+중성）应合成为单个音节。
	decomposed := "\u1112\u1161\u11ab  \t\n\u1100\u1173\u11af"
	if got := Normalize(decomposed); got != "\ud55c \uae00" {
		t.Fatalf("Normalize = %q", got)
	}
}

func TestWrap(t *testing.T) {
	measure := FixedAdvance(1).MeasureForFont(10)
	cases := []struct {
		text  string
		width float64
		want  []string
	}{
		{"aa bb cc", 50, []string{"aa bb", "cc"}},
		{"aa bb cc", 0, []string{"a", "a", "b", "b", "c", "c"}},
		{"abcdefg", 30, []string{"abc", "def", "g"}},
		{"ab cdefghij k", 40, []string{"ab", "cdef", "ghij", "k"}},
		{"", 100, nil},
	}
	for _, tc := range cases {
		got := Wrap(tc.text, tc.width, measure)
		if strings.Join(got, "|") != strings.Join(tc.want, "|") || len(got) != len(tc.want) {
			t.Fatalf("Wrap(%q, %g) = %q, want %q", tc.text, tc.width, got, tc.want)
		}
	}
}
