package autofit

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize 将文本转换为 NFC，并把所有空白序列折叠为单个空格后去掉首尾空白。
func Normalize(text string) string {
	return strings.Join(strings.Fields(norm.NFC.String(text)), " ")
}

// Wrap 按给定宽度折行。text 应已经过 Normalize。
// 含空格时按词贪心折行，仍然溢出的行（单个超长词）再按字符折行；
// 不含空格时直接按字符折行。每行至少包含一个字符，因此任意宽度都能结束。
func Wrap(text string, width float64, measure func(string) float64) []string {
	if text == "" {
		return nil
	}
	if !strings.Contains(text, " ") {
		return wrapChars(text, width, measure)
	}

	var lines []string
	current := ""
	for _, word := range strings.Split(text, " ") {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if current == "" || measure(candidate) <= width {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	lines = append(lines, current)

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if measure(line) > width {
			out = append(out, wrapChars(line, width, measure)...)
			continue
		}
		out = append(out, line)
	}
	return out
}

// wrapChars 逐字符折行。
func wrapChars(text string, width float64, measure func(string) float64) []string {
	var (
		lines   []string
		builder strings.Builder
	)
	for _, r := range text {
		if builder.Len() > 0 {
			candidate := builder.String() + string(r)
			if measure(candidate) > width {
				lines = append(lines, strings.TrimRight(builder.String(), " "))
				builder.Reset()
				if r == ' ' {
					continue
				}
			}
		}
		builder.WriteRune(r)
	}
	if builder.Len() > 0 {
		lines = append(lines, builder.String())
	}
	return lines
}
