package autofit

import "unicode/utf8"

// Measurer 提供按字号测量文本宽度的能力。Autofit 本身不做任何测量，
// 具体实现可以是真实字体（见 renderer/canvas）、字宽表或测试桩。
type Measurer interface {
	MeasureForFont(sizePx float64) func(text string) float64
}

// MeasurerFunc 将普通函数适配为 Measurer。
type MeasurerFunc func(sizePx float64) func(text string) float64

// MeasureForFont 实现 Measurer。
func (f MeasurerFunc) MeasureForFont(sizePx float64) func(text string) float64 { return f(sizePx) }

// FixedAdvance 返回等宽测量：宽度 = 字符数 × 字号 × ratio。
// ratio 非正时按 0.5 处理。
func FixedAdvance(ratio float64) Measurer {
	if ratio <= 0 {
		ratio = 0.5
	}
	return MeasurerFunc(func(sizePx float64) func(string) float64 {
		advance := sizePx * ratio
		return func(text string) float64 {
			return float64(utf8.RuneCountInString(text)) * advance
		}
	})
}
