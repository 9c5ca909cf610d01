package xfsys

import (
	"io"
	"os"
)

// File 定义已打开文件的最小能力集，用于依赖注入和测试。
// *os.File 实现了此接口。
type File interface {
	io.Writer
	Close() error
	Name() string
}

// FS 定义文件系统窄接口，仅暴露消费方用到的操作。
//
// 设计决策: 不复用 io/fs.FS——标准库接口是只读抽象，本包的消费方
// 需要创建目录和追加写入，窄接口按实际用途裁剪，mock 成本也最低。
type FS interface {
	// Stat 返回路径的文件信息，路径不存在时返回满足
	// errors.Is(err, fs.ErrNotExist) 的错误。
	Stat(name string) (os.FileInfo, error)

	// MkdirAll 递归创建目录，语义与 os.MkdirAll 一致。
	MkdirAll(path string, perm os.FileMode) error

	// OpenAppend 以追加写模式打开文件，不存在则以 perm 权限创建。
	OpenAppend(name string, perm os.FileMode) (File, error)
}

// OS 返回直通本机文件系统的 FS 实现。
func OS() FS { return osFS{} }

type osFS struct{}

// 确保 osFS 实现 FS 接口（编译时检查）
var _ FS = osFS{}

func (osFS) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (osFS) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (osFS) OpenAppend(name string, perm os.FileMode) (File, error) {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_APPEND, perm)
	if err != nil {
		return nil, err
	}
	return f, nil
}
