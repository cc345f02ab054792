package canvasrenderer

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"golang.org/x/image/font/opentype"

	"github.com/ByLCY/stitchtext/fonts"
	"github.com/ByLCY/stitchtext/renderer"
	"github.com/ByLCY/stitchtext/stitch"
)

// ptPerPx 将像素字号换算为 canvas 使用的 pt；画布单位为 mm，按 1mm = 1px 栅格化。
const ptPerPx = 72 / 25.4

// Renderer draws text and cross-stitch overlays via github.com/tdewolff/canvas.
type Renderer struct {
	baseDir string

	// injected resources
	fontBlobs map[string][]byte // by unique name
	fontErrs  map[string]error  // 注入时读取失败的资源

	fontMu sync.Mutex
	fonts  map[string]*loadedFont // by resolved src
}

var _ renderer.Renderer = (*Renderer)(nil)

type loadedFont struct {
	family *canvas.FontFamily
	sfnt   *opentype.Font
}

// Options configures the canvas renderer.
type Options struct {
	BaseDir string
	Fonts   map[string]Resource // built-in fonts accessible via built-in:<name>
}

// Resource can be provided either by Bytes or by Path.
type Resource struct {
	Bytes []byte
	Path  string
}

// NewRenderer creates a canvas-based renderer rooted at baseDir for resolving font paths.
func NewRenderer(baseDir string) *Renderer { return NewRendererWithOptions(Options{BaseDir: baseDir}) }

// NewRendererWithOptions creates a renderer with injected fonts and optional baseDir.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:   opts.BaseDir,
		fontBlobs: map[string][]byte{},
		fontErrs:  map[string]error{},
		fonts:     map[string]*loadedFont{},
	}
	for name, res := range opts.Fonts {
		if name == "" {
			continue
		}
		if len(res.Bytes) > 0 {
			r.fontBlobs[name] = res.Bytes
			continue
		}
		if res.Path != "" {
			data, err := os.ReadFile(res.Path)
			if err != nil {
				r.fontErrs[name] = err // 使用时随 built-in 资源缺失一并报告
				continue
			}
			if len(data) > 0 {
				r.fontBlobs[name] = data
			}
		}
	}
	return r
}

// Plan 加载字体并计算文本位置与针脚网格，不进行绘制。
func (r *Renderer) Plan(cfg stitch.Config) (*stitch.Plan, *Face, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	face, err := r.Face(cfg.Font)
	if err != nil {
		return nil, nil, err
	}
	return stitch.Layout(cfg, face), face, nil
}

// Render 绘制背景、居中文字以及每个字符上的 "+" 形针脚，返回 RGBA 图像。
func (r *Renderer) Render(cfg stitch.Config) (image.Image, error) {
	plan, face, err := r.Plan(cfg)
	if err != nil {
		return nil, err
	}

	w, h := float64(cfg.ImageSize.Width), float64(cfg.ImageSize.Height)
	c := canvas.New(w, h)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 左上角为原点，与像素坐标一致

	if plan.Text != "" {
		// Origin.Y 是上升线位置，基线再向下 ascent
		textFace := face.canvasFace(toColor(cfg.Foreground))
		line := canvas.NewTextLine(textFace, plan.Text, canvas.Left)
		ctx.DrawText(float64(plan.Origin.X), float64(plan.Origin.Y+face.Ascent()), line)
	}

	drawStitches(ctx, plan, cfg.StitchColor, cfg.LineThickness)

	return flatten(rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace), cfg.Background), nil
}

// flatten 将透明的栅格结果合成到纯色背景上，输出完全不透明。
func flatten(src *image.RGBA, bg stitch.Color) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), image.NewUniform(toColor(bg)), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Over)
	return dst
}

func drawStitches(ctx *canvas.Context, plan *stitch.Plan, col stitch.Color, thickness int) {
	ctx.SetFillColor(color.RGBA{})
	ctx.SetStrokeColor(toColor(col))

	w, h := float64(plan.Canvas.Width), float64(plan.Canvas.Height)
	t := float64(thickness)
	// 奇数线宽时偏移半像素，使线条落在整像素行/列上
	shift := 0.0
	if thickness%2 == 1 {
		shift = 0.5
	}
	for _, g := range plan.Glyphs {
		for _, cell := range g.Cells {
			cross := cell.Cross(plan.StitchSize)
			hz, vt := cross[0], cross[1]
			cy, cx := float64(hz.From.Y)+shift, float64(vt.From.X)+shift
			if s, ok := (band{float64(hz.From.X), cy - t/2, float64(hz.To.X), cy + t/2}).clip(w, h); ok {
				ctx.SetStrokeWidth(s.y1 - s.y0)
				drawSegment(ctx, s.x0, (s.y0+s.y1)/2, s.x1, (s.y0+s.y1)/2)
			}
			if s, ok := (band{cx - t/2, float64(vt.From.Y), cx + t/2, float64(vt.To.Y)}).clip(w, h); ok {
				ctx.SetStrokeWidth(s.x1 - s.x0)
				drawSegment(ctx, (s.x0+s.x1)/2, s.y0, (s.x0+s.x1)/2, s.y1)
			}
		}
	}
}

// band 是一段带线宽的轴对齐线段覆盖的矩形（平头端点）。
type band struct{ x0, y0, x1, y1 float64 }

// clip 把矩形裁剪到画布外扩 1px 的范围；与画布不相交时返回 false。
// 裁剪后栅格化的工作量只取决于画布大小，与针脚大小和线宽无关。
func (b band) clip(w, h float64) (band, bool) {
	b.x0, b.x1 = max(b.x0, -1), min(b.x1, w+1)
	b.y0, b.y1 = max(b.y0, -1), min(b.y1, h+1)
	return b, b.x0 < b.x1 && b.y0 < b.y1
}

func drawSegment(ctx *canvas.Context, x1, y1, x2, y2 float64) {
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(x2-x1, y2-y1)
	ctx.DrawPath(x1, y1, p)
}

// Face 解析字体资源并在请求的像素字号下创建字体面。
func (r *Renderer) Face(ref stitch.FontRef) (*Face, error) {
	fail := func(err error) (*Face, error) {
		return nil, &stitch.FontLoadError{Src: ref.Src, Err: err}
	}
	if ref.Size <= 0 || math.IsNaN(ref.Size) || math.IsInf(ref.Size, 0) {
		return fail(fmt.Errorf("字号无效: %g", ref.Size))
	}
	lf, err := r.ensureFont(ref.Src)
	if err != nil {
		return fail(err)
	}
	face, err := newFace(lf, ref.Size)
	if err != nil {
		return fail(err)
	}
	return face, nil
}

func (r *Renderer) ensureFont(src string) (*loadedFont, error) {
	if src == "" {
		src = "embed:" + fonts.Default
	}
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if lf, ok := r.fonts[src]; ok {
		return lf, nil
	}
	data, err := r.loadFontBytes(src)
	if err != nil {
		return nil, err
	}
	sf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("解析字体失败: %w", err)
	}
	family := canvas.NewFontFamily(familyName(src))
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("载入字体族失败: %w", err)
	}
	lf := &loadedFont{family: family, sfnt: sf}
	r.fonts[src] = lf
	return lf, nil
}

func (r *Renderer) loadFontBytes(src string) ([]byte, error) {
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		if blob, ok := r.fontBlobs[name]; ok {
			return blob, nil
		}
		if err, ok := r.fontErrs[name]; ok {
			return nil, fmt.Errorf("读取内置字体资源 built-in:%s 失败: %w", name, err)
		}
		return nil, fmt.Errorf("找不到内置字体资源 built-in:%s", name)
	}
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	// Path based
	path := src
	if !filepath.IsAbs(path) && r.baseDir != "" {
		path = filepath.Join(r.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func familyName(src string) string {
	base := filepath.Base(strings.TrimPrefix(src, "embed:"))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func toColor(c stitch.Color) color.Color {
	return color.RGBA{R: uint8(c.R), G: uint8(c.G), B: uint8(c.B), A: 0xff}
}
