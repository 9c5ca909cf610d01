package xfsys

import (
	"fmt"
	"path/filepath"
	"strings"
)

// containsNullByte 检测路径是否包含空字节。
// Linux 内核在 VFS 层会在空字节处截断路径，导致 Go 代码与操作系统看到的路径不一致。
func containsNullByte(path string) bool {
	return strings.ContainsRune(path, 0)
}

// Normalize 校验文件路径格式并转换为规范的绝对路径。
//
// 校验项：
//   - 拒绝空路径和包含空字节的路径
//   - 拒绝显式目录路径（尾随 "/" 或 "\"）
//   - 拒绝规范化后没有文件名部分的路径（如 "."、".."、"/"）
//
// 相对路径基于当前工作目录解析为绝对路径。
//
// 设计决策: 不拒绝 ".." 路径段。本函数的输入是运营方配置的输出文件路径，
// 不是不可信的外部输入，".." 交给 filepath.Abs 按词法解析即可；按段拒绝
// 反而会把 "logs/../archive/t.log" 这类合法配置挡在门外。
func Normalize(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename is required: %w", ErrEmptyPath)
	}

	if containsNullByte(filename) {
		return "", fmt.Errorf("filename contains null byte: %w", ErrNullByte)
	}

	// 尾随分隔符表示目录，必须在 filepath.Clean 之前检查，因为 Clean 会移除它。
	// 同时检查 / 和 \：Windows 接受两种分隔符，Linux 上以 "\" 结尾的文件名
	// 极为罕见且几乎总是跨平台拼接错误，统一拒绝。
	if strings.HasSuffix(filename, "/") || strings.HasSuffix(filename, "\\") {
		return "", fmt.Errorf("path is a directory: %w", ErrNotFile)
	}

	cleaned := filepath.Clean(filename)

	// 规范化后必须仍有文件名部分："." 、".." 和根目录都不是文件
	base := filepath.Base(cleaned)
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "", fmt.Errorf("no file name specified: %w", ErrNotFile)
	}

	abs, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return abs, nil
}
