package xfsys

import "errors"

var (
	// ErrEmptyPath 表示必需的路径参数为空。
	ErrEmptyPath = errors.New("xfsys: path is required")

	// ErrNullByte 表示路径中包含空字节（\x00），Linux 内核会在空字节处截断路径,
	// 导致 Go 代码与操作系统看到的路径不一致。
	ErrNullByte = errors.New("xfsys: path contains null byte")

	// ErrNotFile 表示路径没有指向一个文件（如以分隔符结尾的显式目录路径）。
	ErrNotFile = errors.New("xfsys: path does not name a file")

	// ErrInvalidPerm 表示目录权限无效（如缺少所有者执行位，目录无法遍历）。
	ErrInvalidPerm = errors.New("xfsys: invalid directory permission")
)
