package canvasrenderer

import (
	"fmt"
	"image/color"

	"github.com/tdewolff/canvas"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"

	"github.com/ByLCY/stitchtext/stitch"
)

// Face 是某个字号下的字体面。测量走 x/image/font，绘制走 canvas，
// 两者读取同一份字体数据。
type Face struct {
	family  *canvas.FontFamily
	measure font.Face
	size    float64 // px per em
	ascent  int
	descent int
}

var _ stitch.Measurer = (*Face)(nil)

func newFace(lf *loadedFont, size float64) (*Face, error) {
	mf, err := opentype.NewFace(lf.sfnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72, // 1pt = 1px
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("创建字体面失败: %w", err)
	}
	m := mf.Metrics()
	return &Face{
		family:  lf.family,
		measure: mf,
		size:    size,
		ascent:  m.Ascent.Ceil(),
		descent: m.Descent.Ceil(),
	}, nil
}

// Ascent 返回上升部高度（像素）。
func (f *Face) Ascent() int { return f.ascent }

// TextBounds 返回上升线位于 y=0、笔位于 x=0 时整串文本的紧致包围盒。
func (f *Face) TextBounds(text string) stitch.Bounds {
	if text == "" {
		return stitch.Bounds{}
	}
	b, _ := font.BoundString(f.measure, text)
	if b.Empty() {
		return stitch.Bounds{}
	}
	return stitch.Bounds{
		Left:   b.Min.X.Floor(),
		Top:    f.ascent + b.Min.Y.Floor(),
		Right:  b.Max.X.Ceil(),
		Bottom: f.ascent + b.Max.Y.Ceil(),
	}
}

// CharSize 独立测量单个字符：宽度为前进宽度，高度为 ascent + descent。
func (f *Face) CharSize(ch string) (int, int) {
	adv := font.MeasureString(f.measure, ch)
	return adv.Round(), f.ascent + f.descent
}

func (f *Face) canvasFace(col color.Color) *canvas.FontFace {
	return f.family.Face(f.size*ptPerPx, col, canvas.FontRegular, canvas.FontNormal)
}
