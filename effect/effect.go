// Package effect 在保存前对渲染结果做整图后处理：十字绣化与按固定高度缩放。
package effect

import (
	"image"
	"image/color"
	"math"
	"math/rand/v2"

	"golang.org/x/image/draw"

	"github.com/ByLCY/stitchtext/stitch"
)

// Apply 依次执行 cfg 指定的效果与导出缩放。cfg 应已通过 Validate。
func Apply(img image.Image, cfg stitch.Config) image.Image {
	if cfg.Effect == stitch.EffectCrossStitch {
		img = CrossStitch(img, DefaultCrossStitch)
	}
	if cfg.ExportHeight > 0 {
		img = ScaleToHeight(img, cfg.ExportHeight)
	}
	return img
}

// CrossStitchOptions 控制十字绣效果。
type CrossStitchOptions struct {
	Cell   int     // 格子边长
	Cross  int     // 十字的跨度
	Gap    int     // 靠近十字端点的阴影宽度
	Fabric uint8   // 布料底色（灰度）
	Noise  float64 // 布纹噪点幅度，取值 ±Noise/2
	Seed   uint64  // 线色明暗与噪点的随机种子，相同种子输出相同
}

var DefaultCrossStitch = CrossStitchOptions{Cell: 8, Cross: 6, Gap: 1, Fabric: 245, Noise: 10, Seed: 1}

// 像素到对角线的距离小于该值时视为在线上。
const threadHalfWidth = 1.2

// CrossStitch 把 src 切成 Cell×Cell 的格子，每格取平均色，
// 在布料底色上画一个 "×" 形斜向针迹，最后叠加整图布纹噪点。
func CrossStitch(src image.Image, opts CrossStitchOptions) *image.RGBA {
	b := src.Bounds()
	in := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(in, in.Bounds(), src, b.Min, draw.Src)
	out := image.NewRGBA(in.Bounds())
	if opts.Cell <= 0 {
		draw.Draw(out, out.Bounds(), in, image.Point{}, draw.Src)
		return out
	}

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	w, h := in.Bounds().Dx(), in.Bounds().Dy()
	half := float64(opts.Cell) / 2
	reach := float64(opts.Cross) / 2
	for y := 0; y < h; y += opts.Cell {
		for x := 0; x < w; x += opts.Cell {
			cell := image.Rect(x, y, min(x+opts.Cell, w), min(y+opts.Cell, h))
			avg := average(in, cell)
			for py := cell.Min.Y; py < cell.Max.Y; py++ {
				for px := cell.Min.X; px < cell.Max.X; px++ {
					rx, ry := float64(px-x)-half, float64(py-y)-half
					c := color.RGBA{R: opts.Fabric, G: opts.Fabric, B: opts.Fabric, A: 0xff}
					if onCross(rx, ry, reach) {
						k := 0.8 + 0.2*rng.Float64()
						shade := 0.0
						edge := reach - float64(opts.Gap)
						if math.Abs(rx) > edge || math.Abs(ry) > edge {
							shade = 40
						}
						c.R = clamp(math.Min(255, avg[0]*k) - shade)
						c.G = clamp(math.Min(255, avg[1]*k) - shade)
						c.B = clamp(math.Min(255, avg[2]*k) - shade)
					}
					out.SetRGBA(px, py, c)
				}
			}
		}
	}
	if opts.Noise > 0 {
		addFabricNoise(out, opts.Noise, rng)
	}
	return out
}

// onCross 判断相对格子中心的 (x, y) 是否落在 "×" 的两条对角线上。
func onCross(x, y, reach float64) bool {
	if math.Abs(x) > reach || math.Abs(y) > reach {
		return false
	}
	return math.Abs(y-x) < threadHalfWidth || math.Abs(y+x) < threadHalfWidth
}

func average(img *image.RGBA, r image.Rectangle) [3]float64 {
	var sum [3]float64
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := img.RGBAAt(x, y)
			sum[0] += float64(c.R)
			sum[1] += float64(c.G)
			sum[2] += float64(c.B)
		}
	}
	n := float64(r.Dx() * r.Dy())
	for i := range sum {
		sum[i] = math.Round(sum[i] / n)
	}
	return sum
}

func addFabricNoise(img *image.RGBA, amount float64, rng *rand.Rand) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		n := (rng.Float64() - 0.5) * amount
		img.Pix[i] = clamp(float64(img.Pix[i]) + n)
		img.Pix[i+1] = clamp(float64(img.Pix[i+1]) + n)
		img.Pix[i+2] = clamp(float64(img.Pix[i+2]) + n)
	}
}

func clamp(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}

// ScaleToHeight 等比缩放到 height 行，宽度按原宽高比向下取整（至少 1）。
func ScaleToHeight(src image.Image, height int) image.Image {
	b := src.Bounds()
	if height <= 0 || b.Dy() == 0 || height == b.Dy() {
		return src
	}
	size := stitch.Config{ImageSize: stitch.Size{Width: b.Dx(), Height: b.Dy()}, ExportHeight: height}.ExportSize()
	dst := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
