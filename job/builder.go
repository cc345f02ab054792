package job

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/stitchtext/binding"
	"github.com/ByLCY/stitchtext/dsl"
	"github.com/ByLCY/stitchtext/stitch"
)

var namedColors = map[string]stitch.Color{
	"white": stitch.White,
	"black": stitch.Black,
	"red":   stitch.Red,
	"green": {G: 128},
	"blue":  {B: 255},
	"gray":  {R: 128, G: 128, B: 128},
}

// Build 将任务文件 AST 叠加到 base 配置上，字符串中的 ${...} 以 data 绑定。
// 未出现的项保留 base 中的值；未知命令被忽略。
func Build(doc *dsl.Document, data any, base stitch.Config) (stitch.Config, error) {
	cfg := base
	if doc == nil || doc.Block == nil {
		return cfg, fmt.Errorf("任务文件为空")
	}
	b := &builder{cfg: &cfg, data: data}
	for _, stmt := range doc.Block.Statements {
		var err error
		switch {
		case stmt.Assignment != nil:
			err = b.assign(stmt.Assignment)
		case stmt.Command != nil:
			err = b.command(stmt.Command)
		case stmt.Text != nil:
			cfg.Text = b.bind(string(stmt.Text.Value))
		}
		if err != nil {
			return base, err
		}
	}
	return cfg, nil
}

type builder struct {
	cfg  *stitch.Config
	data any
}

func (b *builder) bind(s string) string { return binding.Interpolate(s, b.data) }

func (b *builder) assign(a *dsl.Assignment) error {
	val := a.Value.Value
	if a.Value.IsString() {
		val = b.bind(val)
	}
	switch strings.ToLower(a.Key) {
	case "text":
		b.cfg.Text = val
	case "output":
		b.cfg.OutputPath = val
	case "font":
		b.cfg.Font.Src = val
	case "effect":
		b.cfg.Effect = stitch.Effect(strings.ToLower(val))
	case "background", "foreground":
		c, err := parseColor(val)
		if err != nil {
			return fmt.Errorf("%s: %w", a.Pos, err)
		}
		if strings.EqualFold(a.Key, "background") {
			b.cfg.Background = c
		} else {
			b.cfg.Foreground = c
		}
	}
	return nil
}

func (b *builder) command(cmd *dsl.Command) error {
	positional, attrs, err := b.parseArgs(cmd.Args)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", cmd.Pos, cmd.Name, err)
	}
	switch strings.ToLower(cmd.Name) {
	case "canvas":
		err = b.canvas(positional, attrs)
	case "font":
		if len(positional) > 0 {
			b.cfg.Font.Src = positional[0]
		}
		if v, ok := attrs["size"]; ok {
			l, perr := ParseLength(v)
			if perr != nil {
				err = perr
				break
			}
			b.cfg.Font.Size = l.PX()
		}
	case "text":
		if len(positional) > 0 {
			b.cfg.Text = positional[0]
		}
		if content, ok := b.extractText(cmd.Block); ok {
			b.cfg.Text = content
		}
		if v, ok := attrs["color"]; ok {
			b.cfg.Foreground, err = parseColor(v)
		}
	case "pattern", "stitch":
		err = b.pattern(attrs)
	case "effect":
		if len(positional) > 0 {
			b.cfg.Effect = stitch.Effect(strings.ToLower(positional[0]))
		}
	case "output":
		if len(positional) > 0 {
			b.cfg.OutputPath = positional[0]
		}
		if v, ok := attrs["height"]; ok {
			b.cfg.ExportHeight, err = parsePixels(v)
		}
	}
	if err != nil {
		return fmt.Errorf("%s: %s: %w", cmd.Pos, cmd.Name, err)
	}
	return nil
}

func (b *builder) canvas(positional []string, attrs map[string]string) error {
	switch len(positional) {
	case 0:
	case 1:
		w, h, err := parseDimension(positional[0])
		if err != nil {
			return err
		}
		b.cfg.ImageSize = stitch.Size{Width: w, Height: h}
	default:
		w, err := parsePixels(positional[0])
		if err != nil {
			return err
		}
		h, err := parsePixels(positional[1])
		if err != nil {
			return err
		}
		b.cfg.ImageSize = stitch.Size{Width: w, Height: h}
	}
	if v, ok := attrs["background"]; ok {
		c, err := parseColor(v)
		if err != nil {
			return err
		}
		b.cfg.Background = c
	}
	return nil
}

func (b *builder) pattern(attrs map[string]string) error {
	for key, v := range attrs {
		var err error
		switch key {
		case "size":
			b.cfg.StitchSize, err = parsePixels(v)
		case "thickness", "width":
			b.cfg.LineThickness, err = parsePixels(v)
		case "color":
			b.cfg.StitchColor, err = parseColor(v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// parseArgs 拆分参数：开头的非标识符为位置参数，其后为 key value 对。
func (b *builder) parseArgs(args []*dsl.Lexeme) ([]string, map[string]string, error) {
	value := func(l *dsl.Lexeme) string {
		if l.IsString() {
			return b.bind(l.Value)
		}
		return l.Value
	}
	cursor := 0
	var positional []string
	for cursor < len(args) && args[cursor].Type != "Ident" {
		positional = append(positional, value(args[cursor]))
		cursor++
	}
	attrs := map[string]string{}
	for cursor < len(args) {
		if cursor+1 >= len(args) {
			return nil, nil, fmt.Errorf("参数 %s 缺少取值", args[cursor].Value)
		}
		attrs[strings.ToLower(args[cursor].Value)] = value(args[cursor+1])
		cursor += 2
	}
	return positional, attrs, nil
}

func (b *builder) extractText(block *dsl.Block) (string, bool) {
	if block == nil {
		return "", false
	}
	var sb strings.Builder
	found := false
	for _, stmt := range block.Statements {
		if stmt.Text != nil {
			sb.WriteString(string(stmt.Text.Value))
			found = true
		}
	}
	return b.bind(sb.String()), found
}

func parseColor(value string) (stitch.Color, error) {
	v := strings.TrimSpace(strings.ToLower(value))
	if c, ok := namedColors[v]; ok {
		return c, nil
	}
	v = strings.TrimPrefix(v, "#")
	switch len(v) {
	case 3:
		v = strings.Repeat(v[0:1], 2) + strings.Repeat(v[1:2], 2) + strings.Repeat(v[2:3], 2)
	case 6:
	default:
		return stitch.Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return stitch.Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	return stitch.Color{R: int(n >> 16 & 0xff), G: int(n >> 8 & 0xff), B: int(n & 0xff)}, nil
}
