package stitch

import (
	"golang.org/x/text/unicode/norm"
)

// Measurer 负责文本测量，由渲染器基于已加载的字体实现。
type Measurer interface {
	// TextBounds 返回整串文本在原点（上升线位于 y=0）绘制时的紧致像素包围盒。
	TextBounds(text string) Bounds
	// CharSize 返回单个字符独立测量得到的前进宽度与高度。
	CharSize(ch string) (width, height int)
}

// Bounds 为像素包围盒 (left, top, right, bottom)。
type Bounds struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

func (b Bounds) Width() int  { return b.Right - b.Left }
func (b Bounds) Height() int { return b.Bottom - b.Top }

// Point 为像素坐标，原点在左上角。
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Segment 是一条直线段。
type Segment struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

// Cell 是一个针脚格子，X/Y 为左上角。
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Center 返回格子中心。
func (c Cell) Center(size int) Point {
	return Point{X: c.X + size/2, Y: c.Y + size/2}
}

// Cross 返回穿过格子中心的水平线与垂直线，组成 "+" 形。
func (c Cell) Cross(size int) [2]Segment {
	ctr := c.Center(size)
	half := size / 2
	return [2]Segment{
		{From: Point{X: ctr.X - half, Y: ctr.Y}, To: Point{X: ctr.X + half, Y: ctr.Y}},
		{From: Point{X: ctr.X, Y: ctr.Y - half}, To: Point{X: ctr.X, Y: ctr.Y + half}},
	}
}

// Glyph 记录单个字符的区域与其针脚格子。
type Glyph struct {
	Char   string `json:"char"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Cells  []Cell `json:"cells"`
}

// Plan 保存布局计算结果：整串包围盒、居中原点以及每个字符的针脚。
type Plan struct {
	Text       string  `json:"text"`
	Canvas     Size    `json:"canvas"`
	Bounds     Bounds  `json:"bounds"`
	Origin     Point   `json:"origin"`
	StitchSize int     `json:"stitchSize"`
	Glyphs     []Glyph `json:"glyphs"`
}

// CellCount 返回所有字符的格子总数。
func (p *Plan) CellCount() int {
	n := 0
	for _, g := range p.Glyphs {
		n += len(g.Cells)
	}
	return n
}

// Layout 根据配置和测量结果计算文本位置与针脚网格。
// 文本按 NFC 规范化后逐个 rune 处理；每个字符的宽度独立测量，
// 与整串排版（字距、连字）可能不一致，这里保留该行为。
func Layout(cfg Config, m Measurer) *Plan {
	text := norm.NFC.String(cfg.Text)
	bounds := m.TextBounds(text)
	origin := Point{
		X: floorDiv(cfg.ImageSize.Width-bounds.Width(), 2),
		Y: floorDiv(cfg.ImageSize.Height-bounds.Height(), 2),
	}

	plan := &Plan{
		Text:       text,
		Canvas:     cfg.ImageSize,
		Bounds:     bounds,
		Origin:     origin,
		StitchSize: cfg.StitchSize,
	}
	if cfg.StitchSize <= 0 {
		return plan
	}

	offset := 0
	for _, r := range text {
		ch := string(r)
		w, h := m.CharSize(ch)
		g := Glyph{
			Char:   ch,
			X:      origin.X + offset,
			Y:      origin.Y,
			Width:  w,
			Height: h,
			Cells:  tile(origin.X+offset, origin.Y, w, h, cfg.StitchSize),
		}
		plan.Glyphs = append(plan.Glyphs, g)
		offset += w
	}
	return plan
}

// tile 以 size 为步长覆盖 [0,w)×[0,h)，末尾格子允许超出字符区域。
func tile(x, y, w, h, size int) []Cell {
	if w <= 0 || h <= 0 {
		return nil
	}
	cells := make([]Cell, 0, ceilDiv(w, size)*ceilDiv(h, size))
	for i := 0; i < w; i += size {
		for j := 0; j < h; j += size {
			cells = append(cells, Cell{X: x + i, Y: y + j})
		}
	}
	return cells
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int { return (a + b - 1) / b }
