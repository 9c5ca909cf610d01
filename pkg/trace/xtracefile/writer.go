package xtracefile

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/encoding"

	"github.com/omeyang/tracekit/pkg/util/xfsys"
)

const (
	// writeBufferSize 写缓冲区大小。每条消息写完立即 Flush，缓冲只负责
	// 把一条消息的前缀、正文、行结束符合并为尽量少的系统调用。
	writeBufferSize = 4096

	// timestampLayout 行首时间戳格式
	timestampLayout = "2006-01-02 15:04:05"
)

// lineEnding 平台行结束符
var lineEnding = func() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}()

// Writer 模板驱动的自轮转文本跟踪写入器
//
// 零值不可用，必须通过 [New] 构造。配置构造后不可变；文件句柄、
// 写缓冲与字节计数构成唯一的可变状态，由单把互斥锁守护。
type Writer struct {
	template string
	opts     options
	res      *resolver
	enc      *encoding.Encoder // nil 表示 UTF-8 直写

	mu      sync.Mutex
	file    xfsys.File
	buf     *bufio.Writer
	size    int64     // 当前文件字节数（含打开时的既有内容）
	openDay time.Time // 当前文件归属的日历日（本地时区）
}

// New 创建跟踪写入器
//
// template 为文件名模板，支持日期与版本占位符（默认 %YYYYMMDD% 和
// %VERSION%），相对路径基于当前工作目录。空模板合法：写入调用静默
// 丢弃，不产生文件也不报错。
//
// 配置在此一次性解析冻结，属性值非法返回 [ErrInvalidAttribute]，
// 编码未知返回 [ErrUnknownEncoding]。文件到首次写入才打开。
func New(template string, opts ...Option) (*Writer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	enc, err := resolveEncoding(o.encodingName)
	if err != nil {
		return nil, err
	}

	return &Writer{
		template: template,
		opts:     o,
		res:      newResolver(&o),
		enc:      enc,
	}, nil
}

// Write 追加一条消息（不附加行结束符）
//
// 按配置附加时间戳与 goroutine 标记，必要时先完成轮转。消息的全部
// 字节连续落盘，不与并发写入交错。
func (w *Writer) Write(msg string) error {
	return w.write(msg, false)
}

// WriteLine 追加一条消息并以平台行结束符收尾
func (w *Writer) WriteLine(msg string) error {
	return w.write(msg, true)
}

func (w *Writer) write(msg string, newline bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	ok, err := w.ensureLocked()
	if err != nil {
		return err
	}
	if !ok {
		// 空模板：输出端退化为黑洞
		return nil
	}

	data := []byte(w.compose(msg, newline))
	if w.enc != nil {
		data, err = w.enc.Bytes(data)
		if err != nil {
			return fmt.Errorf("encode message: %w", err)
		}
	}

	if _, err := w.buf.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", w.file.Name(), err)
	}
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", w.file.Name(), err)
	}
	w.size += int64(len(data))
	return nil
}

// Flush 将缓冲数据刷入当前文件，未打开文件时是安全的空操作
//
// 只保证数据离开本进程的缓冲，不调用 fsync。
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.buf == nil {
		return nil
	}
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("flush %s: %w", w.file.Name(), err)
	}
	return nil
}

// Close 刷新并释放当前文件
//
// 幂等：未打开或已关闭时返回 nil。关闭不是终态，之后的写入会按模板
// 重新选择目标文件继续——输出端可能被宿主框架反复关闭与复用。
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

// IsThreadSafe 报告写入器是否并发安全
//
// 恒为 true：所有公开方法都在内部互斥锁下执行，消费方无需外部加锁。
func (w *Writer) IsThreadSafe() bool { return true }

// ensureLocked 确保存在可写的目标文件，必要时先轮转。
// 返回 false 表示空模板，本次写入应静默丢弃。调用方必须持有 w.mu。
func (w *Writer) ensureLocked() (bool, error) {
	if w.template == "" {
		return false, nil
	}

	now := w.opts.clock.Now()

	// 跨日历日或大小达到上限：关闭当前文件，交还路径解析重新选目标。
	// 旧文件关闭失败不阻断本次写入，通过 OnError 上报后继续。
	if w.file != nil && (!sameDay(w.openDay, now) || w.size >= w.opts.maxSize) {
		w.reportError(w.closeLocked())
	}

	if w.file == nil {
		if err := w.openLocked(now); err != nil {
			return false, err
		}
	}
	return true, nil
}

// openLocked 解析目标路径并以追加模式打开。调用方必须持有 w.mu。
func (w *Writer) openLocked(now time.Time) error {
	path, err := w.res.nextName(w.template, now)
	if err != nil {
		return err
	}

	// 目标可能是未满上限的既有文件，字节计数要从现有大小续起
	var size int64
	info, err := w.opts.fsys.Stat(path)
	switch {
	case err == nil:
		size = info.Size()
	case errors.Is(err, fs.ErrNotExist):
		// 新文件从 0 计
	default:
		return fmt.Errorf("stat %s: %w", path, err)
	}

	file, err := w.opts.fsys.OpenAppend(path, w.opts.fileMode)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	w.file = file
	w.buf = bufio.NewWriterSize(file, writeBufferSize)
	w.size = size
	w.openDay = now
	return nil
}

// closeLocked 刷新并关闭当前文件，清空打开状态。调用方必须持有 w.mu。
func (w *Writer) closeLocked() error {
	if w.file == nil {
		return nil
	}

	name := w.file.Name()
	flushErr := w.buf.Flush()
	closeErr := w.file.Close()
	w.file = nil
	w.buf = nil
	w.size = 0
	w.openDay = time.Time{}

	if flushErr != nil {
		return fmt.Errorf("flush %s: %w", name, flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", name, closeErr)
	}
	return nil
}

// compose 按配置拼装输出行：[时间戳] [tid-N] 正文 行结束符
func (w *Writer) compose(msg string, newline bool) string {
	var b strings.Builder
	b.Grow(len(msg) + 40)

	if w.opts.appendDate {
		b.WriteByte('[')
		b.WriteString(w.opts.clock.Now().Format(timestampLayout))
		b.WriteString("] ")
	}
	if w.opts.appendGoroutineID {
		b.WriteString("[tid-")
		b.WriteString(strconv.FormatUint(goroutineID(), 10))
		b.WriteString("] ")
	}
	b.WriteString(msg)
	if newline {
		b.WriteString(lineEnding)
	}
	return b.String()
}

// reportError 通过回调上报尽力而为操作的内部错误
//
// 设计决策: 写入器自身不打日志（它常常就是日志的输出目标），失败只
// 通过回调外送。回调 panic 被 recover 隔离，不反向中断写入主流程。
func (w *Writer) reportError(err error) {
	if err != nil && w.opts.onError != nil {
		defer func() { recover() }() //nolint:errcheck // recover 返回值无需检查
		w.opts.onError(err)
	}
}

// sameDay 判断两个时刻是否处于同一本地日历日
func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
