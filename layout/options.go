package layout

// EditOptions 控制交互式编辑（移动/缩放）后的坐标处理。
type EditOptions struct {
	// Snap 为 true 时，编辑后的像素坐标吸附到 Canvas.GridPx 网格。
	Snap bool
}
