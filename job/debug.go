package job

import (
	"encoding/json"
	"os"

	"github.com/ByLCY/stitchtext/stitch"
)

// WriteDebugJSON 将最终配置与布局计划输出为 JSON，便于调试或可视化。
func WriteDebugJSON(cfg stitch.Config, plan *stitch.Plan, path string) error {
	if plan == nil {
		return nil
	}
	doc := struct {
		Config    stitch.Config `json:"config"`
		Plan      *stitch.Plan  `json:"plan"`
		CellCount int           `json:"cellCount"`
	}{cfg, plan, plan.CellCount()}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
