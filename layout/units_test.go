package layout

import (
	"math"
	"testing"
)

// TestNormalizeRoundTrip 验证已夹紧的像素框经 normalize→denormalize 往返后保持不变。
func TestNormalizeRoundTrip(t *testing.T) {
	canvases := []Canvas{
		{Width: 1080, Height: 1080},
		{Width: 1080, Height: 1350},
		{Width: 1080, Height: 1920},
		{Width: 333, Height: 71},
		{Width: 5, Height: 3},
	}
	boxes := []PxBox{
		{X: 0, Y: 0, W: 8, H: 8},
		{X: 86, Y: 108, W: 907, H: 238},
		{X: 1000, Y: 1000, W: 500, H: 500},
		{X: -40, Y: 17, W: 3, H: 9999},
		{X: 1, Y: 2, W: 1, H: 1},
	}
	for _, c := range canvases {
		for _, b := range boxes {
			clamped := ClampBoxPx(b, c)
			got := DenormalizeBox(NormalizeBox(clamped, c), c)
			if got != clamped {
				t.Fatalf("canvas %dx%d: 往返结果不一致: in=%+v got=%+v", c.Width, c.Height, clamped, got)
			}
		}
	}
}

// TestClampBoxPxInvariant 覆盖宽高与位置的边界约束，两轴行为一致。
func TestClampBoxPxInvariant(t *testing.T) {
	c := Canvas{Width: 200, Height: 100}
	cases := []struct {
		in   PxBox
		want PxBox
	}{
		{PxBox{X: 10, Y: 10, W: 50, H: 50}, PxBox{X: 10, Y: 10, W: 50, H: 50}},
		{PxBox{X: -5, Y: -5, W: 2, H: 0}, PxBox{X: 0, Y: 0, W: 8, H: 8}},
		{PxBox{X: 190, Y: 95, W: 50, H: 50}, PxBox{X: 150, Y: 50, W: 50, H: 50}},
		{PxBox{X: 0, Y: 0, W: 500, H: 500}, PxBox{X: 0, Y: 0, W: 200, H: 100}},
	}
	for _, tc := range cases {
		if got := ClampBoxPx(tc.in, c); got != tc.want {
			t.Fatalf("ClampBoxPx(%+v) = %+v, want %+v", tc.in, got, tc.want)
		}
	}

	tiny := Canvas{Width: 4, Height: 6}
	if got := ClampBoxPx(PxBox{X: 3, Y: 3, W: 1, H: 1}, tiny); got != (PxBox{X: 0, Y: 0, W: 4, H: 6}) {
		t.Fatalf("小画布应以画布尺寸作为最小边长: %+v", got)
	}
}

// TestDenormalizeBoundsOnBadInput 验证越界、NaN 等输入被夹紧而不会越出画布。
func TestDenormalizeBoundsOnBadInput(t *testing.T) {
	c := Canvas{Width: 1080, Height: 1350}
	inputs := []NormalizedBox{
		{X: -1, Y: -1, W: 3, H: 3},
		{X: 0.9, Y: 0.9, W: 0.5, H: 0.5},
		{X: math.NaN(), Y: math.Inf(1), W: math.Inf(-1), H: 0},
		{X: 1e30, Y: -1e30, W: 1e30, H: 1e-30},
	}
	for _, nb := range inputs {
		b := DenormalizeBox(nb, c)
		if b.W < MinBoxPx || b.H < MinBoxPx || b.W > c.Width || b.H > c.Height {
			t.Fatalf("尺寸越界: %+v -> %+v", nb, b)
		}
		if b.X < 0 || b.Y < 0 || b.X+b.W > c.Width || b.Y+b.H > c.Height {
			t.Fatalf("位置越界: %+v -> %+v", nb, b)
		}
	}
}

func TestClampNormalized(t *testing.T) {
	in := NormalizedBox{X: 0.08, Y: 0.10, W: 0.84, H: 0.22}
	if got := ClampNormalized(in); got != in {
		t.Fatalf("合法坐标框不应被修改: %+v", got)
	}
	edge := NormalizedBox{X: 0.5, Y: 0.7, W: 0.5, H: 0.3}
	if got := ClampNormalized(edge); got != edge {
		t.Fatalf("贴边坐标框不应被修改: %+v", got)
	}
	got := ClampNormalized(NormalizedBox{X: 0.9, Y: -0.2, W: 0.3, H: -1})
	if math.Abs(got.X-0.7) > 1e-12 || got.Y != 0 || got.W != 0.3 || got.H != 0.01 {
		t.Fatalf("夹紧结果错误: %+v", got)
	}
}

func TestSnapBoxPx(t *testing.T) {
	got := SnapBoxPx(PxBox{X: 13, Y: 3, W: 101, H: 2}, 8)
	want := PxBox{X: 16, Y: 0, W: 104, H: 8}
	if got != want {
		t.Fatalf("SnapBoxPx = %+v, want %+v", got, want)
	}
	b := PxBox{X: 13, Y: 3, W: 101, H: 2}
	if SnapBoxPx(b, 0) != b {
		t.Fatalf("grid<=1 时不应修改坐标框")
	}
}

func TestLayoutSafeZonePx(t *testing.T) {
	c := Canvas{Width: 1080, Height: 1920, SafeMarginRatio: 0.05}
	got := LayoutSafeZonePx(c)
	want := PxBox{X: 54, Y: 54, W: 972, H: 1812}
	if got != want {
		t.Fatalf("LayoutSafeZonePx = %+v, want %+v", got, want)
	}
	if z := LayoutSafeZonePx(Canvas{Width: 100, Height: 100}); z != (PxBox{W: 100, H: 100}) {
		t.Fatalf("零边距应返回整个画布: %+v", z)
	}
}
