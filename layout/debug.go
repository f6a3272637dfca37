package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// ResolvedZone 是某个区域在画布上的像素结果。
type ResolvedZone struct {
	Name       ZoneName      `json:"name"`
	Kind       string        `json:"kind"`
	Normalized NormalizedBox `json:"normalized"`
	Px         PxBox         `json:"px"`
}

// Resolved 汇总版面在像素空间中的解析结果，供调试输出与命令行使用。
type Resolved struct {
	Canvas   Canvas         `json:"canvas"`
	SafeZone PxBox          `json:"safeZone"`
	Zones    []ResolvedZone `json:"zones"`
}

// Zone 按名称查找解析结果。
func (r Resolved) Zone(name ZoneName) (ResolvedZone, bool) {
	for _, z := range r.Zones {
		if z.Name == name {
			return z, true
		}
	}
	return ResolvedZone{}, false
}

// Resolve 计算所有存在区域的像素坐标框。
func Resolve(l Layout) Resolved {
	res := Resolved{
		Canvas:   l.Canvas,
		SafeZone: LayoutSafeZonePx(l.Canvas),
	}
	for _, name := range l.Zones() {
		nb, _ := l.Box(name)
		kind := "text"
		if name.Kind() == KindMedia {
			kind = "media"
		}
		res.Zones = append(res.Zones, ResolvedZone{
			Name:       name,
			Kind:       kind,
			Normalized: nb,
			Px:         DenormalizeBox(nb, l.Canvas),
		})
	}
	return res
}

// WriteDebugJSON 将解析结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(res Resolved, path string) error {
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化调试信息失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入调试文件失败: %w", err)
	}
	return nil
}
