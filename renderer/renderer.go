package renderer

import (
	"image"
	"log"

	"github.com/ByLCY/stitchtext/effect"
	"github.com/ByLCY/stitchtext/imageio"
	"github.com/ByLCY/stitchtext/stitch"
	"github.com/ByLCY/stitchtext/viewer"
)

// Renderer 按配置绘制文字与十字绣图案，返回栅格图像。
type Renderer interface {
	Render(cfg stitch.Config) (image.Image, error)
}

// WriteFile 渲染 cfg，执行 cfg 指定的后处理后写入 cfg.OutputPath，随后尽力调用 v 展示。
// 字体加载失败与写入失败都会立即返回，此时输出文件不存在。
func WriteFile(r Renderer, cfg stitch.Config, v viewer.Viewer) error {
	img, err := r.Render(cfg)
	if err != nil {
		return err
	}
	if err := imageio.WriteFile(cfg.OutputPath, effect.Apply(img, cfg)); err != nil {
		return err
	}
	if v != nil {
		if err := v.Show(cfg.OutputPath); err != nil {
			log.Printf("无法展示图片 %s: %v", cfg.OutputPath, err)
		}
	}
	return nil
}
