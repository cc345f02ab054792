package effect

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/ByLCY/stitchtext/stitch"
)

func uniform(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func within(v, lo, hi uint8) bool { return v >= lo && v <= hi }

func TestCrossStitchCellLayout(t *testing.T) {
	blue := color.RGBA{B: 255, A: 255}
	out := CrossStitch(uniform(16, 16, blue), DefaultCrossStitch)
	if out.Bounds() != image.Rect(0, 0, 16, 16) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	// 格子角落不在十字上，是布料底色加噪点
	if c := out.RGBAAt(0, 0); !within(c.R, 240, 250) || !within(c.B, 240, 250) {
		t.Fatalf("corner pixel %+v should be fabric", c)
	}
	// 格子中心在两条对角线交点上，取格子平均色
	if c := out.RGBAAt(4, 4); c.R > 5 || c.B < 195 {
		t.Fatalf("center pixel %+v should carry the cell color", c)
	}
	// 十字端点附近加深
	if c := out.RGBAAt(7, 7); c.R > 5 || !within(c.B, 159, 220) {
		t.Fatalf("end pixel %+v should be shaded", c)
	}
	// 中心行上离开对角线的像素仍是布料
	if c := out.RGBAAt(1, 4); !within(c.G, 240, 250) {
		t.Fatalf("off-diagonal pixel %+v should be fabric", c)
	}
}

func TestCrossStitchAveragesEachCell(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if x < 4 {
				src.SetRGBA(x, y, color.RGBA{R: 200, A: 255})
			} else {
				src.SetRGBA(x, y, color.RGBA{A: 255})
			}
		}
	}
	opts := DefaultCrossStitch
	opts.Noise = 0
	c := CrossStitch(src, opts).RGBAAt(4, 4)
	// 平均红色 100，线色明暗系数在 0.8-1.0 之间
	if !within(c.R, 80, 100) || c.G != 0 || c.B != 0 {
		t.Fatalf("center pixel %+v, want averaged red", c)
	}
}

func TestCrossStitchIsDeterministic(t *testing.T) {
	src := uniform(21, 13, color.RGBA{R: 10, G: 120, B: 30, A: 255})
	a := CrossStitch(src, DefaultCrossStitch)
	b := CrossStitch(src, DefaultCrossStitch)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatalf("same seed should give identical output")
	}
	if a.Bounds().Size() != (image.Point{X: 21, Y: 13}) {
		t.Fatalf("partial cells changed the size: %v", a.Bounds())
	}
}

func TestScaleToHeight(t *testing.T) {
	src := uniform(600, 200, color.RGBA{R: 255, A: 255})
	for _, h := range []int{720, 1280, 50} {
		got := ScaleToHeight(src, h).Bounds().Size()
		want := image.Point{X: h * 3, Y: h}
		if got != want {
			t.Fatalf("ScaleToHeight(%d) = %v, want %v", h, got, want)
		}
	}
	if got := ScaleToHeight(src, 0); got != image.Image(src) {
		t.Fatalf("height 0 should return the source unchanged")
	}
	// 宽度向下取整
	if got := ScaleToHeight(uniform(10, 3, color.RGBA{A: 255}), 10).Bounds().Size(); got != (image.Point{X: 33, Y: 10}) {
		t.Fatalf("odd aspect size = %v, want 33x10", got)
	}
}

func TestApply(t *testing.T) {
	src := uniform(60, 20, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	cfg := stitch.DefaultConfig()
	if got := Apply(src, cfg); got != image.Image(src) {
		t.Fatalf("zero-value effect settings should not touch the image")
	}
	cfg.Effect = stitch.EffectCrossStitch
	cfg.ExportHeight = 40
	if got := Apply(src, cfg).Bounds().Size(); got != (image.Point{X: 120, Y: 40}) {
		t.Fatalf("Apply size = %v, want 120x40", got)
	}
}
