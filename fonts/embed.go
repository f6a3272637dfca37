package fonts

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// 内置字体名称。
const (
	Regular = "go-regular"
	Bold    = "go-bold"
)

var builtin = map[string][]byte{
	Regular: goregular.TTF,
	Bold:    gobold.TTF,
}

// Load 返回字体字节数据。path 为空时返回 Go Regular；
// "embed:go-regular"、"embed:go-bold" 或直接写名称表示内置字体，其余按文件路径读取 TTF/OTF。
func Load(path string) ([]byte, error) {
	if path == "" {
		return goregular.TTF, nil
	}
	name := strings.TrimPrefix(path, "embed:")
	if data, ok := builtin[name]; ok {
		return data, nil
	}
	if strings.HasPrefix(path, "embed:") {
		return nil, fmt.Errorf("未知的内置字体 %s", name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取字体文件 %s 失败: %w", path, err)
	}
	return data, nil
}
