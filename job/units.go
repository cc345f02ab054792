package job

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is the unit a length was written in.
type Unit int

const (
	UnitPX Unit = iota // pixels, also used for unit-less numbers
	UnitPT             // points
	UnitMM             // millimeters
	UnitIN             // inches
)

// CSS 参考分辨率：1in = 96px。
const pxPerInch = 96.0

func (u Unit) String() string {
	switch u {
	case UnitPT:
		return "pt"
	case UnitMM:
		return "mm"
	case UnitIN:
		return "in"
	default:
		return "px"
	}
}

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// PX converts the length to pixels.
func (l Length) PX() float64 {
	switch l.Unit {
	case UnitPT:
		return l.Value * pxPerInch / 72
	case UnitMM:
		return l.Value * pxPerInch / 25.4
	case UnitIN:
		return l.Value * pxPerInch
	default:
		return l.Value
	}
}

// ParseLength parses "48", "12px", "36pt", "10mm" or "1in".
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	unit := UnitPX
	for _, suf := range []struct {
		s string
		u Unit
	}{{"px", UnitPX}, {"pt", UnitPT}, {"mm", UnitMM}, {"in", UnitIN}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			v = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return Length{}, fmt.Errorf("无法解析长度 %q", value)
	}
	return Length{Value: f, Unit: unit}, nil
}

// parsePixels 解析长度并四舍五入为整数像素。
func parsePixels(value string) (int, error) {
	l, err := ParseLength(value)
	if err != nil {
		return 0, err
	}
	px := l.PX()
	if px < 0 {
		return int(px - 0.5), nil
	}
	return int(px + 0.5), nil
}

// parseDimension 解析 "600x200"。
func parseDimension(value string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(value), "x")
	if !ok {
		return 0, 0, fmt.Errorf("无法解析尺寸 %q，应为 宽x高", value)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return 0, 0, fmt.Errorf("无法解析尺寸 %q: %w", value, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return 0, 0, fmt.Errorf("无法解析尺寸 %q: %w", value, err)
	}
	return w, h, nil
}
