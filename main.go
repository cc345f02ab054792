package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ByLCY/stitchtext/dsl"
	"github.com/ByLCY/stitchtext/job"
	"github.com/ByLCY/stitchtext/renderer"
	canvasrenderer "github.com/ByLCY/stitchtext/renderer/canvas"
	"github.com/ByLCY/stitchtext/stitch"
	"github.com/ByLCY/stitchtext/viewer"
)

// overrides 记录命令行上显式给出的参数，优先级高于任务文件。
type overrides struct {
	text   *string
	font   *string
	size   *float64
	stitch *int
	out    *string
	effect *string
	height *int
}

func main() {
	defaults := stitch.DefaultConfig()
	input := flag.String("in", "", "任务文件路径（.stitch），为空时使用默认参数")
	dataJSON := flag.String("data", "", "绑定到任务文件的 JSON 数据")
	debug := flag.String("debug", "", "布局调试 JSON 输出路径")
	show := flag.Bool("show", true, "保存后用系统图片查看器打开")
	text := flag.String("text", defaults.Text, "要渲染的文字")
	font := flag.String("font", defaults.Font.Src, "字体路径，或 embed:<name> 使用内置字体")
	size := flag.Float64("size", defaults.Font.Size, "字号（像素）")
	stitchSize := flag.Int("stitch", defaults.StitchSize, "针脚格子大小（像素）")
	output := flag.String("out", defaults.OutputPath, "图片输出路径，格式由扩展名决定")
	effectName := flag.String("effect", string(defaults.Effect), "保存前的图像效果：crossstitch，为空时不处理")
	height := flag.Int("height", defaults.ExportHeight, "按固定高度等比导出（如 720、1280），0 表示原尺寸")
	flag.Parse()

	var ov overrides
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "text":
			ov.text = text
		case "font":
			ov.font = font
		case "size":
			ov.size = size
		case "stitch":
			ov.stitch = stitchSize
		case "out":
			ov.out = output
		case "effect":
			ov.effect = effectName
		case "height":
			ov.height = height
		}
	})

	var inputData any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &inputData); err != nil {
			log.Fatalf("解析 data JSON 失败: %v", err)
		}
	}

	baseDir := "."
	if *input != "" {
		baseDir = filepath.Dir(*input)
	}
	var v viewer.Viewer = viewer.Nop{}
	if *show {
		v = viewer.System{}
	}

	r := canvasrenderer.NewRenderer(baseDir)
	cfg, err := run(*input, *debug, inputData, ov, r, v)
	if err != nil {
		log.Fatalf("生成图片失败: %v", err)
	}
	fmt.Printf("已生成图片：%s\n", cfg.OutputPath)
}

// run 串联任务解析、参数合并、渲染与保存。
func run(inputPath, debugPath string, data any, ov overrides, r *canvasrenderer.Renderer, v viewer.Viewer) (stitch.Config, error) {
	if r == nil {
		return stitch.Config{}, fmt.Errorf("renderer 不能为空")
	}
	cfg := stitch.DefaultConfig()
	if inputPath != "" {
		var err error
		if cfg, err = loadJob(inputPath, data, cfg); err != nil {
			return cfg, err
		}
	}
	ov.apply(&cfg)

	if debugPath != "" {
		if err := writeDebug(r, cfg, debugPath); err != nil {
			return cfg, err
		}
	}

	if err := renderer.WriteFile(r, cfg, v); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadJob(path string, data any, base stitch.Config) (stitch.Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return base, fmt.Errorf("无法打开任务文件 %s: %w", path, err)
	}
	defer file.Close()

	doc, err := dsl.Parse(file)
	if err != nil {
		return base, fmt.Errorf("解析任务文件失败: %w", err)
	}
	cfg, err := job.Build(doc, data, base)
	if err != nil {
		return base, fmt.Errorf("任务参数无效: %w", err)
	}
	return cfg, nil
}

func (ov overrides) apply(cfg *stitch.Config) {
	if ov.text != nil {
		cfg.Text = *ov.text
	}
	if ov.font != nil {
		cfg.Font.Src = *ov.font
	}
	if ov.size != nil {
		cfg.Font.Size = *ov.size
	}
	if ov.stitch != nil {
		cfg.StitchSize = *ov.stitch
	}
	if ov.out != nil {
		cfg.OutputPath = *ov.out
	}
	if ov.effect != nil {
		cfg.Effect = stitch.Effect(*ov.effect)
	}
	if ov.height != nil {
		cfg.ExportHeight = *ov.height
	}
}

func writeDebug(r *canvasrenderer.Renderer, cfg stitch.Config, debugPath string) error {
	plan, _, err := r.Plan(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := job.WriteDebugJSON(cfg, plan, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}
