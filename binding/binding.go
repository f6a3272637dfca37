package binding

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ByLCY/adframe/layout"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Copy 为各文字区域的文案，键为区域名称。
type Copy map[layout.ZoneName]string

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值，
// 同时返回未能解析的路径。data 为空或路径不存在时保留原占位符。
func Interpolate(text string, data any) (string, []string) {
	var missing []string
	out := exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(match[2 : len(match)-1])
		if path == "" || data == nil {
			missing = append(missing, path)
			return match
		}
		val, ok := resolvePath(data, path)
		if !ok {
			missing = append(missing, path)
			return match
		}
		return format(val)
	})
	return out, missing
}

// ResolveCopy 将原始文案文档（区域名 → 模板）解析为 Copy。
// 未知的区域名返回错误；空白文案会被跳过。未解析的占位符按区域汇总返回。
func ResolveCopy(raw map[string]string, data any) (Copy, map[layout.ZoneName][]string, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(Copy, len(raw))
	var missing map[layout.ZoneName][]string
	for _, k := range keys {
		name, ok := layout.ParseZoneName(k)
		if !ok {
			return nil, nil, fmt.Errorf("文案包含未知区域 %q", k)
		}
		if name.Kind() != layout.KindText {
			return nil, nil, fmt.Errorf("区域 %q 不是文字区域", k)
		}
		text, miss := Interpolate(raw[k], data)
		if strings.TrimSpace(text) == "" {
			continue
		}
		out[name] = text
		if len(miss) > 0 {
			if missing == nil {
				missing = make(map[layout.ZoneName][]string)
			}
			missing[name] = miss
		}
	}
	return out, missing, nil
}

func format(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

func resolvePath(data any, path string) (any, bool) {
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes, ok := parseSegment(segment)
		if !ok {
			return nil, false
		}
		if name != "" {
			m, isMap := current.(map[string]any)
			if !isMap {
				return nil, false
			}
			if current, ok = m[name]; !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			arr, isArr := current.([]any)
			if !isArr || idx < 0 || idx >= len(arr) {
				return nil, false
			}
			current = arr[idx]
		}
	}
	return current, true
}

// parseSegment 拆分 name[0][1] 形式的路径片段。
func parseSegment(segment string) (string, []int, bool) {
	i := strings.IndexByte(segment, '[')
	if i == -1 {
		return segment, nil, segment != ""
	}
	name, rest := segment[:i], segment[i:]
	var indexes []int
	for rest != "" {
		end := strings.IndexByte(rest, ']')
		if rest[0] != '[' || end == -1 {
			return "", nil, false
		}
		idx, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, false
		}
		indexes = append(indexes, idx)
		rest = rest[end+1:]
	}
	return name, indexes, true
}
