package stitch

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig 表示几何参数不合法（画布尺寸、针脚大小或线宽）。
var ErrInvalidConfig = errors.New("stitch: 配置不合法")

// MaxLength 是针脚大小与线宽的上限，保证格子坐标在 int 与 float64 中都能精确表示。
const MaxLength int64 = 1 << 52

// MaxExportSide 限制按固定高度导出时的边长。
const MaxExportSide = 1 << 14

// Effect 是保存前对整幅图像做的后处理。
type Effect string

const (
	EffectNone        Effect = ""
	EffectCrossStitch Effect = "crossstitch" // 按格子取平均色，重绘为斜向十字针迹并叠加布纹
)

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

var (
	White = Color{R: 255, G: 255, B: 255}
	Black = Color{}
	Red   = Color{R: 255}
)

// Size 以像素为单位。
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FontRef 指向字体资源以及请求的字号（像素/em）。
// Src 可以是文件路径、embed:<name>（内置字体）或 built-in:<name>（注入的字体数据）。
type FontRef struct {
	Src  string  `json:"src"`
	Size float64 `json:"size"`
}

// Config 描述一次渲染所需的全部参数，只被消费一次。
type Config struct {
	Text          string  `json:"text"`
	Font          FontRef `json:"font"`
	ImageSize     Size    `json:"imageSize"`
	StitchSize    int     `json:"stitchSize"`
	StitchColor   Color   `json:"stitchColor"`
	LineThickness int     `json:"lineThickness"`
	Background    Color   `json:"background"`
	Foreground    Color   `json:"foreground"`
	OutputPath    string  `json:"outputPath"`

	// 以下为保存前的后处理，零值表示原样输出。
	Effect       Effect `json:"effect,omitempty"`
	ExportHeight int    `json:"exportHeight,omitempty"` // 等比缩放到该高度，如 720 或 1280
}

// DefaultConfig 返回示例调用使用的参数。
func DefaultConfig() Config {
	return Config{
		Text:          "Cross Stitch",
		Font:          FontRef{Src: "embed:goregular", Size: 48},
		ImageSize:     Size{Width: 600, Height: 200},
		StitchSize:    12,
		StitchColor:   Red,
		LineThickness: 2,
		Background:    White,
		Foreground:    Black,
		OutputPath:    "cross_stitch_text_output.png",
	}
}

// Validate 检查几何参数。字体相关问题留给加载阶段，以 FontLoadError 报告。
func (c Config) Validate() error {
	if c.ImageSize.Width <= 0 || c.ImageSize.Height <= 0 {
		return fmt.Errorf("%w: 画布尺寸必须为正数，当前 %dx%d", ErrInvalidConfig, c.ImageSize.Width, c.ImageSize.Height)
	}
	if c.StitchSize <= 0 || int64(c.StitchSize) > MaxLength {
		return fmt.Errorf("%w: stitchSize 必须在 1 到 %d 之间，当前 %d", ErrInvalidConfig, MaxLength, c.StitchSize)
	}
	if c.LineThickness < 1 || int64(c.LineThickness) > MaxLength {
		return fmt.Errorf("%w: lineThickness 必须在 1 到 %d 之间，当前 %d", ErrInvalidConfig, MaxLength, c.LineThickness)
	}
	switch c.Effect {
	case EffectNone, EffectCrossStitch:
	default:
		return fmt.Errorf("%w: 未知的效果 %q", ErrInvalidConfig, c.Effect)
	}
	if c.ExportHeight < 0 || c.ExportHeight > MaxExportSide {
		return fmt.Errorf("%w: exportHeight 必须在 0 到 %d 之间，当前 %d", ErrInvalidConfig, MaxExportSide, c.ExportHeight)
	}
	if out := c.ExportSize(); out.Width > MaxExportSide {
		return fmt.Errorf("%w: 导出宽度 %d 超过 %d", ErrInvalidConfig, out.Width, MaxExportSide)
	}
	for name, col := range map[string]Color{"stitchColor": c.StitchColor, "background": c.Background, "foreground": c.Foreground} {
		if !col.valid() {
			return fmt.Errorf("%w: %s 超出 0-255 范围: %+v", ErrInvalidConfig, name, col)
		}
	}
	return nil
}

// ExportSize 返回保存到文件的尺寸：未设置 ExportHeight 时即画布尺寸，
// 否则高度固定、宽度按画布宽高比向下取整（至少 1）。
func (c Config) ExportSize() Size {
	if c.ExportHeight == 0 || c.ImageSize.Height <= 0 {
		return c.ImageSize
	}
	w := int(int64(c.ExportHeight) * int64(c.ImageSize.Width) / int64(c.ImageSize.Height))
	return Size{Width: max(w, 1), Height: c.ExportHeight}
}

func (c Color) valid() bool {
	in := func(v int) bool { return v >= 0 && v <= 255 }
	return in(c.R) && in(c.G) && in(c.B)
}
