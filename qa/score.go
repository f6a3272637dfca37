package qa

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"
	"slices"

	"github.com/disintegration/imaging"
	"github.com/montanaflynn/stats"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/adframe/layout"
)

// 保留区域 QA：在生成图上按版面区域裁剪、转灰度，统计亮度的均值与总体标准差。
// 文字区域应保持平坦，标准差超过阈值的部分按权重扣分。

// ErrUnavailable 表示图片字节缺失或无法解码。调用方应按失败处理（见 FailClosed）。
var ErrUnavailable = errors.New("qa: image unavailable")

const (
	DefaultThreshold = 0.16
	DefaultWeight    = 220.0
	DefaultPassScore = 70.0
)

// Options 为打分参数。Zones 为空时对版面中存在的全部区域打分。
type Options struct {
	Threshold float64
	Weight    float64
	Zones     []layout.ZoneName
}

// Option 修改打分参数。
type Option func(*Options)

// WithThreshold 设置标准差阈值（0..1 灰度尺度）。
func WithThreshold(v float64) Option { return func(o *Options) { o.Threshold = v } }

// WithWeight 设置超出阈值部分的扣分权重。
func WithWeight(v float64) Option { return func(o *Options) { o.Weight = v } }

// WithZones 指定参与打分的区域。
func WithZones(zones ...layout.ZoneName) Option {
	return func(o *Options) { o.Zones = slices.Clone(zones) }
}

func resolveOptions(opts []Option) Options {
	o := Options{Threshold: DefaultThreshold, Weight: DefaultWeight}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.Threshold < 0 || math.IsNaN(o.Threshold) {
		o.Threshold = DefaultThreshold
	}
	if o.Weight < 0 || math.IsNaN(o.Weight) {
		o.Weight = DefaultWeight
	}
	return o
}

// ZoneStat 为单个区域的统计结果。
type ZoneStat struct {
	Zone    layout.ZoneName `json:"zone"`
	Box     layout.PxBox    `json:"box"`
	Mean    float64         `json:"mean"`
	StdDev  float64         `json:"stdDev"`
	Area    int             `json:"area"`
	Penalty float64         `json:"penalty"`
}

// Report 为一次打分的结果，宽高为解码后图片的实际尺寸。
type Report struct {
	Score  float64    `json:"score"`
	Zones  []ZoneStat `json:"zones"`
	Width  int        `json:"resolvedWidth"`
	Height int        `json:"resolvedHeight"`
}

// Zone 按名称查找区域统计。
func (r Report) Zone(name layout.ZoneName) (ZoneStat, bool) {
	for _, z := range r.Zones {
		if z.Zone == name {
			return z, true
		}
	}
	return ZoneStat{}, false
}

// Score 解码图片字节并打分。唯一的错误来源是缺失或无法解码的图片，错误包装 ErrUnavailable。
func Score(data []byte, l layout.Layout, opts ...Option) (Report, error) {
	if len(data) == 0 {
		return Report{}, fmt.Errorf("%w: empty image", ErrUnavailable)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Report{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return ScoreImage(img, l, opts...), nil
}

// ScoreImage 对已解码的图片打分。区域坐标按图片自身尺寸反归一化，与版面画布尺寸无关。
func ScoreImage(img image.Image, l layout.Layout, opts ...Option) Report {
	o := resolveOptions(opts)
	bounds := img.Bounds()
	target := layout.Canvas{Width: bounds.Dx(), Height: bounds.Dy()}

	rep := Report{Width: bounds.Dx(), Height: bounds.Dy()}
	total := 0.0
	for _, name := range scoredZones(l, o.Zones) {
		nb, _ := l.Box(name)
		box := layout.DenormalizeBox(nb, target)
		mean, sd := zoneStats(img, box.Rect().Add(bounds.Min))
		penalty := math.Max(0, sd-o.Threshold) * o.Weight
		total += penalty
		rep.Zones = append(rep.Zones, ZoneStat{
			Zone:    name,
			Box:     box,
			Mean:    mean,
			StdDev:  sd,
			Area:    box.Area(),
			Penalty: penalty,
		})
	}
	rep.Score = math.Max(0, math.Min(100, 100-total))
	return rep
}

// scoredZones 返回参与打分且在版面中存在的区域。
func scoredZones(l layout.Layout, want []layout.ZoneName) []layout.ZoneName {
	present := l.Zones()
	if len(want) == 0 {
		return present
	}
	out := make([]layout.ZoneName, 0, len(want))
	for _, z := range present {
		if slices.Contains(want, z) {
			out = append(out, z)
		}
	}
	return out
}

// zoneStats 计算区域灰度（0..1）的均值与总体标准差。
func zoneStats(img image.Image, rect image.Rectangle) (float64, float64) {
	gray := imaging.Grayscale(imaging.Crop(img, rect))
	n := len(gray.Pix) / 4
	if n == 0 {
		return 0, 0
	}
	values := make(stats.Float64Data, n)
	for i := range values {
		values[i] = float64(gray.Pix[i*4]) / 255
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return 0, 0
	}
	sd, err := stats.StandardDeviationPopulation(values)
	if err != nil {
		return mean, 0
	}
	return mean, sd
}

// FailClosed 在打分失败时返回 0 分报告，使调用方按"不通过"处理。
func FailClosed(rep Report, err error) Report {
	if err != nil {
		return Report{Score: 0}
	}
	return rep
}

// Passes 判断分数是否达到通过线；passAt 非正时使用 DefaultPassScore。
func Passes(score, passAt float64) bool {
	if passAt <= 0 {
		passAt = DefaultPassScore
	}
	return score >= passAt
}
