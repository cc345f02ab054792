// Package viewer 用宿主环境的默认图片查看器打开生成的文件。
package viewer

import (
	"fmt"

	"github.com/skratchdot/open-golang/open"
)

// Viewer 展示已保存的图片。失败不影响渲染结果，由调用方决定是否记录。
type Viewer interface {
	Show(path string) error
}

// Nop 什么都不做，测试中用来关闭展示。
type Nop struct{}

func (Nop) Show(string) error { return nil }

// System 调用平台默认程序（xdg-open / open / rundll32）打开图片，不等待其退出。
type System struct {
	// start 为空时使用 open.Start。
	start func(input string) error
}

func (s System) Show(path string) error {
	start := s.start
	if start == nil {
		start = open.Start
	}
	if err := start(path); err != nil {
		return fmt.Errorf("启动图片查看器失败: %w", err)
	}
	return nil
}

// Func 将普通函数适配为 Viewer。
type Func func(path string) error

func (f Func) Show(path string) error { return f(path) }
