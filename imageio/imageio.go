// Package imageio 根据文件扩展名选择栅格编码器，并以原子方式写出图片。
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/ByLCY/stitchtext/stitch"
)

// ErrUnsupportedFormat 表示扩展名没有对应的编码器。
var ErrUnsupportedFormat = errors.New("不支持的图片格式")

// Encoder 将图片编码写入 w。
type Encoder func(w io.Writer, img image.Image) error

var encoders = map[string]Encoder{
	".png":  encodePNG,
	".jpg":  encodeJPEG,
	".jpeg": encodeJPEG,
	".gif":  encodeGIF,
	".bmp":  bmp.Encode,
	".tif":  encodeTIFF,
	".tiff": encodeTIFF,
}

func encodePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	return enc.Encode(w, img)
}

func encodeJPEG(w io.Writer, img image.Image) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: 95})
}

func encodeGIF(w io.Writer, img image.Image) error {
	return gif.Encode(w, img, &gif.Options{NumColors: 256})
}

func encodeTIFF(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
}

// EncoderFor 返回 path 扩展名对应的编码器。
func EncoderFor(path string) (Encoder, error) {
	ext := strings.ToLower(filepath.Ext(path))
	enc, ok := encoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q（可用：%s）", ErrUnsupportedFormat, ext, strings.Join(Extensions(), ", "))
	}
	return enc, nil
}

// Extensions 列出支持的扩展名。
func Extensions() []string {
	out := make([]string, 0, len(encoders))
	for ext := range encoders {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

// WriteFile 编码 img 并写入 path。先写入同目录下的临时文件再原子替换，
// 任何失败都不会留下输出文件。错误统一为 *stitch.ImageWriteError。
func WriteFile(path string, img image.Image) error {
	wrap := func(e error) error { return &stitch.ImageWriteError{Path: path, Err: e} }
	if path == "" {
		return wrap(errors.New("输出路径为空"))
	}
	enc, err := EncoderFor(path)
	if err != nil {
		return wrap(err)
	}
	if err := writeAtomic(path, func(w io.Writer) error {
		if err := enc(w, img); err != nil {
			return fmt.Errorf("编码失败: %w", err)
		}
		return nil
	}); err != nil {
		return wrap(err)
	}
	return nil
}
