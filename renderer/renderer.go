package renderer

import "github.com/ByLCY/adframe/layout"

// Renderer 将版面输出为图像文件，例如 PNG 格式的区域示意图。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(l layout.Layout) ([]byte, error)
}
