//go:build !windows

package imageio

import (
	"io"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// writeAtomic 在目标目录创建临时文件，写入成功后原子替换 path。
func writeAtomic(path string, write func(io.Writer) error) error {
	pf, err := renameio.NewPendingFile(path,
		renameio.WithTempDir(filepath.Dir(path)),
		renameio.WithPermissions(0o644))
	if err != nil {
		return err
	}
	defer pf.Cleanup()

	if err := write(pf); err != nil {
		return err
	}
	return pf.CloseAtomicallyReplace()
}
