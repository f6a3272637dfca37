package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/ByLCY/adframe/dsl"
)

// ErrUnknownZone 表示编辑目标不是版面中存在的区域。
var ErrUnknownZone = errors.New("unknown zone")

// EditPx 以像素坐标框替换区域位置；结果总是重新夹紧，开启吸附时先对齐网格。
func EditPx(l Layout, name ZoneName, fn func(PxBox) PxBox, opts EditOptions) (Layout, error) {
	nb, ok := l.Box(name)
	if !ok {
		return l, fmt.Errorf("%w: %q", ErrUnknownZone, name)
	}
	b := fn(DenormalizeBox(nb, l.Canvas))
	if opts.Snap {
		b = SnapBoxPx(b, l.Canvas.GridPx)
	}
	out, _ := l.Clone().withBox(name, NormalizeBox(b, l.Canvas))
	return out, nil
}

// Move 把区域左上角移动到像素位置 (x, y)。
func Move(l Layout, name ZoneName, x, y int, opts EditOptions) (Layout, error) {
	return EditPx(l, name, func(b PxBox) PxBox {
		b.X, b.Y = x, y
		return b
	}, opts)
}

// Resize 在保持左上角不变的前提下修改区域宽高。
func Resize(l Layout, name ZoneName, w, h int, opts EditOptions) (Layout, error) {
	return EditPx(l, name, func(b PxBox) PxBox {
		b.W, b.H = w, h
		return b
	}, opts)
}

// Nudge 将区域平移 (dx, dy) 像素。
func Nudge(l Layout, name ZoneName, dx, dy int, opts EditOptions) (Layout, error) {
	return EditPx(l, name, func(b PxBox) PxBox {
		b.X += dx
		b.Y += dy
		return b
	}, opts)
}

// ApplyScript 依次执行编辑脚本中的语句。snap 语句只影响其后的语句。
// 出错时返回出错语句之前的版面以及带行号的错误。
func ApplyScript(l Layout, script *dsl.Script, opts EditOptions) (Layout, error) {
	if script == nil {
		return l, nil
	}
	cw, ch := l.Canvas.Size()
	for _, st := range script.Statements {
		var (
			next Layout
			err  error
		)
		switch {
		case st.Snap != nil:
			opts.Snap = st.Snap.On()
			continue
		case st.Move != nil:
			next, err = withZone(st.Move.Zone, func(name ZoneName) (Layout, error) {
				return Move(l, name,
					pxRound(st.Move.X.Pixels(cw, dsl.UnitNone)),
					pxRound(st.Move.Y.Pixels(ch, dsl.UnitNone)), opts)
			})
		case st.Resize != nil:
			next, err = withZone(st.Resize.Zone, func(name ZoneName) (Layout, error) {
				return Resize(l, name,
					pxRound(st.Resize.W.Pixels(cw, dsl.UnitNone)),
					pxRound(st.Resize.H.Pixels(ch, dsl.UnitNone)), opts)
			})
		case st.Nudge != nil:
			next, err = withZone(st.Nudge.Zone, func(name ZoneName) (Layout, error) {
				return Nudge(l, name,
					pxRound(st.Nudge.DX.Pixels(cw, dsl.UnitPx)),
					pxRound(st.Nudge.DY.Pixels(ch, dsl.UnitPx)), opts)
			})
		default:
			continue
		}
		if err != nil {
			return l, fmt.Errorf("第 %d 行 %s: %w", st.Pos.Line, st.Kind(), err)
		}
		l = next
	}
	return l, nil
}

func withZone(raw string, fn func(ZoneName) (Layout, error)) (Layout, error) {
	name, ok := ParseZoneName(raw)
	if !ok {
		return Layout{}, fmt.Errorf("%w: %q", ErrUnknownZone, raw)
	}
	return fn(name)
}

func pxRound(v float64) int {
	v = math.Max(-coordLimit, math.Min(coordLimit, finite(v)))
	return int(math.Round(v))
}
