package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/adframe/autofit"
	"github.com/ByLCY/adframe/fonts"
	"github.com/ByLCY/adframe/layout"
	"github.com/ByLCY/adframe/renderer"
)

// 画布单位为 mm，以 1 DPMM 栅格化，因此 1 个画布单位恰好等于 1 像素。
// 字体大小以 pt 表示，创建字体面时需要把像素字号换算为 pt。
const ptPerPx = 72.0 / 25.4

// fallbackAdvance 为字体不可用时的等宽测量比例。
const fallbackAdvance = 0.55

// Renderer draws zone overlays and fallback copy via github.com/tdewolff/canvas.
// It is safe for concurrent use.
type Renderer struct {
	opts Options

	fontMu   sync.Mutex
	family   *canvas.FontFamily
	fontErr  error
	faces    map[faceKey]*canvas.FontFace
	fallback autofit.Measurer
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ autofit.Measurer  = (*Renderer)(nil)
)

type faceKey struct {
	sizePx float64
	col    color.NRGBA
}

// Options configures the canvas renderer.
type Options struct {
	// FontPath 为空时使用内置 Go Regular；也可写 "embed:go-bold" 或 TTF/OTF 文件路径。
	FontPath string
	// ShowSafeZone 绘制虚线安全区。
	ShowSafeZone bool
	// FillAlpha 为区域填充透明度（0..255），0 表示只描边不填充。
	FillAlpha uint8
	// StrokePx 为区域描边宽度，0 表示使用默认值。
	StrokePx float64
	// LabelPx 为区域标签字号，0 表示按画布短边自动计算。
	LabelPx float64
	// TextColor 为回退合成时的文字颜色，零值表示白色。
	TextColor color.NRGBA
	// LineHeight 为回退合成时的行高倍数，0 表示默认值。
	LineHeight float64
}

// DefaultOptions 返回默认配置：内置字体，显示安全区，填充透明度 64。
func DefaultOptions() Options {
	return Options{ShowSafeZone: true, FillAlpha: 64}
}

// NewRenderer creates a renderer with default options.
func NewRenderer() *Renderer { return NewRendererWithOptions(DefaultOptions()) }

// NewRendererWithOptions creates a renderer. Fonts are loaded lazily on first use.
func NewRendererWithOptions(opts Options) *Renderer {
	if opts.StrokePx <= 0 {
		opts.StrokePx = 3
	}
	if opts.TextColor == (color.NRGBA{}) {
		opts.TextColor = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	}
	if opts.LineHeight <= 0 {
		opts.LineHeight = autofit.DefaultLineHeight
	}
	return &Renderer{
		opts:     opts,
		faces:    map[faceKey]*canvas.FontFace{},
		fallback: autofit.FixedAdvance(fallbackAdvance),
	}
}

// FontErr 返回加载自定义字体时遇到的错误（此时已回退为内置字体）。
func (r *Renderer) FontErr() error {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	return r.fontErr
}

// Render 实现 renderer.Renderer：输出与画布同尺寸的 PNG 区域示意图。
func (r *Renderer) Render(l layout.Layout) ([]byte, error) {
	img, err := r.Rasterize(l)
	if err != nil {
		return nil, err
	}
	return EncodePNG(img)
}

// Rasterize 将示意图栅格化为 RGBA 位图，尺寸与画布像素尺寸一致。
func (r *Renderer) Rasterize(l layout.Layout) (*image.RGBA, error) {
	c, err := r.Diagram(l)
	if err != nil {
		return nil, err
	}
	return rasterize(c), nil
}

// RenderSVG 以 SVG 输出示意图。
func (r *Renderer) RenderSVG(l layout.Layout) ([]byte, error) {
	c, err := r.Diagram(l)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w, h := l.Canvas.Size()
	s := svg.New(&buf, float64(w), float64(h), nil)
	c.RenderTo(s)
	if err := s.Close(); err != nil {
		return nil, fmt.Errorf("写入 SVG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodePNG 将位图编码为 PNG。
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("编码 PNG 失败: %w", err)
	}
	return buf.Bytes(), nil
}

func rasterize(c *canvas.Canvas) *image.RGBA {
	return rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace)
}

// newCanvas 创建与版面画布同尺寸、左上角为原点的画布。
func newCanvas(l layout.Layout) (*canvas.Canvas, *canvas.Context) {
	w, h := l.Canvas.Size()
	c := canvas.New(float64(w), float64(h))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与版面保持左上角为原点
	return c, ctx
}

// MeasureForFont 实现 autofit.Measurer，使用真实字体测量文本宽度（像素）。
func (r *Renderer) MeasureForFont(sizePx float64) func(string) float64 {
	face, err := r.face(sizePx, color.NRGBA{A: 255})
	if err != nil {
		return r.fallback.MeasureForFont(sizePx)
	}
	return func(text string) float64 {
		r.fontMu.Lock()
		defer r.fontMu.Unlock()
		return face.TextWidth(text)
	}
}

// face 返回缓存的字体面；字号单位为像素。
func (r *Renderer) face(sizePx float64, col color.NRGBA) (*canvas.FontFace, error) {
	family, err := r.ensureFontFamily()
	if err != nil {
		return nil, err
	}
	key := faceKey{sizePx: sizePx, col: col}
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if f, ok := r.faces[key]; ok {
		return f, nil
	}
	f := family.Face(sizePx*ptPerPx, col, canvas.FontRegular, canvas.FontNormal)
	r.faces[key] = f
	return f, nil
}

// ensureFontFamily 加载配置的字体；失败时记录错误并回退为内置字体。
func (r *Renderer) ensureFontFamily() (*canvas.FontFamily, error) {
	r.fontMu.Lock()
	defer r.fontMu.Unlock()
	if r.family != nil {
		return r.family, nil
	}

	family, err := loadFamily("adframe", r.opts.FontPath)
	if err != nil && r.opts.FontPath != "" {
		r.fontErr = err
		family, err = loadFamily("adframe-fallback", "")
	}
	if err != nil {
		return nil, err
	}
	r.family = family
	return family, nil
}

func loadFamily(name, path string) (*canvas.FontFamily, error) {
	data, err := fonts.Load(path)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %q 失败: %w", path, err)
	}
	return family, nil
}
