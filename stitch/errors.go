package stitch

import "fmt"

// FontLoadError 表示字体资源无法打开、解析，或字号无效。
type FontLoadError struct {
	Src string
	Err error
}

func (e *FontLoadError) Error() string {
	return fmt.Sprintf("加载字体 %s 失败: %v", e.Src, e.Err)
}

func (e *FontLoadError) Unwrap() error { return e.Err }

// ImageWriteError 表示输出路径不可写、目录不存在或格式不受支持。
type ImageWriteError struct {
	Path string
	Err  error
}

func (e *ImageWriteError) Error() string {
	return fmt.Sprintf("写入图片 %s 失败: %v", e.Path, e.Err)
}

func (e *ImageWriteError) Unwrap() error { return e.Err }
