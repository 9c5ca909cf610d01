package xfsys

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDirPerm 默认目录权限
//
// 0750 权限说明：
//   - 所有者：读写执行 (7)
//   - 组：读执行 (5)
//   - 其他：无权限 (0)
//
// 符合 gosec G301 安全建议
const DefaultDirPerm = 0750

// EnsureDir 确保 filename 的父目录在 fsys 上存在。
//
// 参数：
//   - fsys: 文件系统实现，不能为 nil
//   - filename: 文件路径（不是目录路径），不能为空，不能包含空字节
//   - perm: 目录权限，必须包含所有者执行位（0100），否则目录无法遍历
//
// filename 没有目录部分（如 "trace.log"）时直接返回 nil。
// 如果目录已存在，不会修改其权限。
//
// 设计决策: 多实例并发写同一路径时，MkdirAll 可能因目录恰好被对方创建而
// 失败。失败后复查目标已经是目录则按成功处理——调用方要的是"目录在"，
// 不关心是谁建的；其余错误原样包装返回。
func EnsureDir(fsys FS, filename string, perm os.FileMode) error {
	if filename == "" {
		return fmt.Errorf("filename is required: %w", ErrEmptyPath)
	}
	if containsNullByte(filename) {
		return fmt.Errorf("filename contains null byte: %w", ErrNullByte)
	}
	// 目录必须包含所有者执行位（0100），否则无法进入和遍历
	if perm&0100 == 0 {
		return fmt.Errorf("directory permission %04o missing owner execute bit: %w", perm, ErrInvalidPerm)
	}

	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}

	if err := fsys.MkdirAll(dir, perm); err != nil {
		if info, statErr := fsys.Stat(dir); statErr == nil && info.IsDir() {
			return nil
		}
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}
