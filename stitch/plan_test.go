package stitch

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fixedMeasurer 每个字符宽 w、高 h，整串包围盒为 n*w × h。
type fixedMeasurer struct {
	w, h int
	top  int
}

func (m fixedMeasurer) TextBounds(text string) Bounds {
	n := 0
	for range text {
		n++
	}
	if n == 0 {
		return Bounds{}
	}
	return Bounds{Left: 1, Top: m.top, Right: 1 + n*m.w, Bottom: m.top + m.h}
}

func (m fixedMeasurer) CharSize(string) (int, int) { return m.w, m.h }

func TestLayoutCentersText(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Text = "AB"
	cfg.ImageSize = Size{Width: 600, Height: 200}
	plan := Layout(cfg, fixedMeasurer{w: 31, h: 45, top: 10})

	if plan.Bounds.Width() != 62 || plan.Bounds.Height() != 45 {
		t.Fatalf("unexpected bounds: %+v", plan.Bounds)
	}
	// (600-62)/2 = 269, (200-45)/2 = 77（向下取整）
	want := Point{X: 269, Y: 77}
	if diff := cmp.Diff(want, plan.Origin); diff != "" {
		t.Fatalf("origin mismatch (-want +got):\n%s", diff)
	}
	if plan.Origin.X < 0 || plan.Origin.X+plan.Bounds.Width() > cfg.ImageSize.Width {
		t.Fatalf("text escapes canvas horizontally: %+v", plan.Origin)
	}
	if plan.Origin.Y < 0 || plan.Origin.Y+plan.Bounds.Height() > cfg.ImageSize.Height {
		t.Fatalf("text escapes canvas vertically: %+v", plan.Origin)
	}
}

func TestLayoutCellCountPerGlyph(t *testing.T) {
	tests := []struct {
		name       string
		w, h, size int
		want       int
	}{
		{"exact multiple", 24, 36, 12, 2 * 3},
		{"overflow", 25, 37, 12, 3 * 4},
		{"smaller than cell", 5, 5, 12, 1},
		{"unit cells", 3, 4, 1, 12},
		{"zero width", 0, 40, 12, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Text = "X"
			cfg.StitchSize = tt.size
			plan := Layout(cfg, fixedMeasurer{w: tt.w, h: tt.h})
			if len(plan.Glyphs) != 1 {
				t.Fatalf("expected 1 glyph, got %d", len(plan.Glyphs))
			}
			if got := len(plan.Glyphs[0].Cells); got != tt.want {
				t.Fatalf("cells = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLayoutAccumulatesAdvances(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Text = "abc"
	plan := Layout(cfg, fixedMeasurer{w: 20, h: 30})
	if len(plan.Glyphs) != 3 {
		t.Fatalf("expected 3 glyphs, got %d", len(plan.Glyphs))
	}
	for i, g := range plan.Glyphs {
		if g.X != plan.Origin.X+20*i {
			t.Fatalf("glyph %d x = %d, want %d", i, g.X, plan.Origin.X+20*i)
		}
		if g.Y != plan.Origin.Y {
			t.Fatalf("glyph %d y = %d, want %d", i, g.Y, plan.Origin.Y)
		}
		for _, c := range g.Cells {
			if c.X < g.X || c.X >= g.X+g.Width || c.Y < g.Y || c.Y >= g.Y+g.Height {
				t.Fatalf("glyph %d cell %+v starts outside its box", i, c)
			}
		}
	}
}

func TestLayoutEmptyText(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Text = ""
	plan := Layout(cfg, fixedMeasurer{w: 20, h: 30})
	if n := plan.CellCount(); n != 0 {
		t.Fatalf("expected no cells for empty text, got %d", n)
	}
	if plan.Origin != (Point{X: 300, Y: 100}) {
		t.Fatalf("unexpected origin for empty text: %+v", plan.Origin)
	}
}

func TestLayoutNormalizesCombiningMarks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Text = "e\u0301" // e + 组合重音符
	plan := Layout(cfg, fixedMeasurer{w: 10, h: 10})
	if len(plan.Glyphs) != 1 || plan.Glyphs[0].Char != "\u00e9" {
		t.Fatalf("expected a single composed glyph, got %+v", plan.Glyphs)
	}
}

func TestCellCross(t *testing.T) {
	c := Cell{X: 100, Y: 50}
	got := c.Cross(12)
	want := [2]Segment{
		{From: Point{X: 100, Y: 56}, To: Point{X: 112, Y: 56}},
		{From: Point{X: 106, Y: 50}, To: Point{X: 106, Y: 62}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("cross mismatch (-want +got):\n%s", diff)
	}
}

func TestFloorDiv(t *testing.T) {
	cases := [][3]int{{7, 2, 3}, {-7, 2, -4}, {-8, 2, -4}, {0, 2, 0}}
	for _, c := range cases {
		if got := floorDiv(c[0], c[1]); got != c[2] {
			t.Fatalf("floorDiv(%d,%d) = %d, want %d", c[0], c[1], got, c[2])
		}
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config rejected: %v", err)
	}
	mutations := map[string]func(*Config){
		"zero stitch":    func(c *Config) { c.StitchSize = 0 },
		"thin line":      func(c *Config) { c.LineThickness = 0 },
		"huge stitch":    func(c *Config) { c.StitchSize = int(MaxLength) + 1 },
		"huge line":      func(c *Config) { c.LineThickness = int(MaxLength) * 2 },
		"empty canvas":   func(c *Config) { c.ImageSize = Size{} },
		"color overflow": func(c *Config) { c.StitchColor = Color{R: 300} },
		"unknown effect": func(c *Config) { c.Effect = "glass" },
		"below zero":     func(c *Config) { c.ExportHeight = -1 },
		"tall export":    func(c *Config) { c.ExportHeight = MaxExportSide + 1 },
		"wide export":    func(c *Config) { c.ImageSize = Size{Width: 10000, Height: 10}; c.ExportHeight = 720 },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestExportSize(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.ExportSize(); got != cfg.ImageSize {
		t.Fatalf("ExportSize without height = %+v, want %+v", got, cfg.ImageSize)
	}
	cfg.ExportHeight = 720
	if got := cfg.ExportSize(); got != (Size{Width: 2160, Height: 720}) {
		t.Fatalf("ExportSize(720) = %+v", got)
	}
	cfg.ImageSize = Size{Width: 1, Height: 5000}
	if got := cfg.ExportSize(); got != (Size{Width: 1, Height: 720}) {
		t.Fatalf("narrow ExportSize = %+v, want width clamped to 1", got)
	}
}
