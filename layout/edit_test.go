package layout

import (
	"errors"
	"testing"

	"github.com/ByLCY/adframe/dsl"
)

func TestCreateDefaultLayoutPresets(t *testing.T) {
	cases := []struct {
		ratio string
		w, h  int
	}{
		{"1:1", 1080, 1080},
		{"square", 1080, 1080},
		{"4x5", 1080, 1350},
		{"9:16", 1080, 1920},
		{"story", 1080, 1920},
		{"21:9", 1080, 1080},
		{"", 1080, 1080},
	}
	for _, tc := range cases {
		l := CreateDefaultLayout(tc.ratio)
		if l.Canvas.Width != tc.w || l.Canvas.Height != tc.h {
			t.Fatalf("%q: expected %dx%d, got %dx%d", tc.ratio, tc.w, tc.h, l.Canvas.Width, l.Canvas.Height)
		}
		if l.Canvas.SafeMarginRatio != 0.05 || l.Canvas.GridPx != 8 {
			t.Fatalf("%q: unexpected canvas params %+v", tc.ratio, l.Canvas)
		}
		if len(l.Zones()) != len(AllZones) {
			t.Fatalf("%q: expected all zones present, got %v", tc.ratio, l.Zones())
		}
		for _, z := range l.Zones() {
			nb, _ := l.Box(z)
			if ClampNormalized(nb) != nb {
				t.Fatalf("%q: default %s box out of range: %+v", tc.ratio, z, nb)
			}
		}
	}

	a := CreateDefaultLayout(RatioSquare)
	b := CreateDefaultLayout(RatioSquare)
	a.Badge.MaxLines = 99
	if b.Badge.MaxLines == 99 {
		t.Fatalf("default layouts must not share zone pointers")
	}
}

func TestRatioForSize(t *testing.T) {
	if got := RatioForSize(1080, 1350); got != RatioPortrait {
		t.Fatalf("expected 4:5, got %s", got)
	}
	if got := RatioForSize(720, 1280); got != RatioStory {
		t.Fatalf("expected 9:16, got %s", got)
	}
	if got := RatioForSize(0, 10); got != RatioSquare {
		t.Fatalf("expected 1:1 for invalid size, got %s", got)
	}
}

func TestMoveClampsAndSnaps(t *testing.T) {
	l := CreateDefaultLayout(RatioSquare)
	moved, err := Move(l, ZoneHeadline, 5000, -20, EditOptions{})
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	b := DenormalizeBox(moved.Headline.Box, moved.Canvas)
	if b.X+b.W != 1080 || b.Y != 0 {
		t.Fatalf("move should clamp to canvas edge, got %+v", b)
	}
	if l.Headline.Box == moved.Headline.Box {
		t.Fatalf("original layout must not change")
	}

	snapped, err := Move(l, ZoneCTA, 101, 203, EditOptions{Snap: true})
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	sb := DenormalizeBox(snapped.CTA.Box, snapped.Canvas)
	if sb.X%8 != 0 || sb.Y%8 != 0 || sb.W%8 != 0 || sb.H%8 != 0 {
		t.Fatalf("snapped box should sit on the 8px grid, got %+v", sb)
	}
}

func TestResizeAndNudge(t *testing.T) {
	l := CreateDefaultLayout(RatioSquare)
	l, err := Resize(l, ZoneLogo, 2, 4000, EditOptions{})
	if err != nil {
		t.Fatalf("resize failed: %v", err)
	}
	b := DenormalizeBox(l.Logo.Box, l.Canvas)
	if b.W != MinBoxPx || b.H != 1080 || b.Y != 0 {
		t.Fatalf("resize should clamp size, got %+v", b)
	}

	before := DenormalizeBox(l.Subtext.Box, l.Canvas)
	l, err = Nudge(l, ZoneSubtext, -10, 6, EditOptions{})
	if err != nil {
		t.Fatalf("nudge failed: %v", err)
	}
	after := DenormalizeBox(l.Subtext.Box, l.Canvas)
	if after.X != before.X-10 || after.Y != before.Y+6 || after.W != before.W {
		t.Fatalf("nudge moved box incorrectly: %+v -> %+v", before, after)
	}
}

func TestEditUnknownZone(t *testing.T) {
	l := CreateDefaultLayout(RatioSquare)
	l.Legal = nil
	if _, err := Nudge(l, ZoneLegal, 1, 1, EditOptions{}); !errors.Is(err, ErrUnknownZone) {
		t.Fatalf("expected ErrUnknownZone for absent zone, got %v", err)
	}
	if _, err := Move(l, ZoneName("footer"), 0, 0, EditOptions{}); !errors.Is(err, ErrUnknownZone) {
		t.Fatalf("expected ErrUnknownZone, got %v", err)
	}
}

func TestApplyScript(t *testing.T) {
	script, err := dsl.ParseString(`
move headline to 0.1 0.5
snap on
resize cta to 50% 100px
nudge logo by 3 3
`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	l, err := ApplyScript(CreateDefaultLayout(RatioSquare), script, EditOptions{})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	hb := DenormalizeBox(l.Headline.Box, l.Canvas)
	if hb.X != 108 || hb.Y != 540 {
		t.Fatalf("headline expected at (108,540), got %+v", hb)
	}
	cb := DenormalizeBox(l.CTA.Box, l.Canvas)
	if cb.W != 544 || cb.H != 104 {
		t.Fatalf("cta expected 544x104 after snap, got %+v", cb)
	}
	lb := DenormalizeBox(l.Logo.Box, l.Canvas)
	if lb.X%8 != 0 || lb.Y%8 != 0 {
		t.Fatalf("logo should be snapped after snap on, got %+v", lb)
	}

	bad, _ := dsl.ParseString("nudge footer by 1 1")
	if _, err := ApplyScript(l, bad, EditOptions{}); !errors.Is(err, ErrUnknownZone) {
		t.Fatalf("expected ErrUnknownZone, got %v", err)
	}
}

func TestResolve(t *testing.T) {
	l := CreateDefaultLayout(RatioSquare)
	l.Badge = nil
	res := Resolve(l)
	if len(res.Zones) != len(AllZones)-1 {
		t.Fatalf("expected %d zones, got %d", len(AllZones)-1, len(res.Zones))
	}
	hz, ok := res.Zone(ZoneHeadline)
	if !ok {
		t.Fatalf("headline missing")
	}
	want := PxBox{X: 86, Y: 108, W: 907, H: 238}
	if hz.Px != want || hz.Kind != "text" {
		t.Fatalf("headline resolved to %+v (%s), want %+v", hz.Px, hz.Kind, want)
	}
	if _, ok := res.Zone(ZoneBadge); ok {
		t.Fatalf("absent badge should not resolve")
	}
	if res.SafeZone != (PxBox{X: 54, Y: 54, W: 972, H: 972}) {
		t.Fatalf("unexpected safe zone %+v", res.SafeZone)
	}
}
