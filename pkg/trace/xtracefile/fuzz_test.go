package xtracefile

import (
	"path/filepath"
	"strings"
	"testing"
)

// =============================================================================
// 模糊测试（Fuzz）
//
// 模糊测试用于发现边界条件和异常输入下的潜在问题。
// 运行方式：go test -fuzz=FuzzXxx -fuzztime=30s
// =============================================================================

// FuzzResolveName 模糊测试模板解析
//
// 测试目标：
//   - 任意模板输入不会导致 panic
//   - 成功结果是规范化的绝对路径
//   - 成功结果中不再出现占位符
func FuzzResolveName(f *testing.F) {
	// 添加种子语料
	f.Add("app-%YYYYMMDD%-%VERSION%.log")
	f.Add("/var/trace/app-%YYYYMMDD%-%VERSION%.log")
	f.Add("%YYYYMMDD%/%VERSION%")
	f.Add("%VERSION%%VERSION%.log")
	f.Add("plain.log")
	f.Add("")
	f.Add(".")
	f.Add("..")
	f.Add("/")
	f.Add("/var/trace/")
	f.Add("app-%YYYYMMDD.log") // 残缺占位符按字面处理
	f.Add("跟踪-%YYYYMMDD%.log")
	f.Add("a/b/../c/%VERSION%.log")
	f.Add("app-\x00-%VERSION%.log")
	f.Add(strings.Repeat("%VERSION%", 100))

	o := defaultOptions()
	r := newResolver(&o)

	f.Fuzz(func(t *testing.T, template string) {
		result, err := r.resolveName(template, fixedNow, 0)

		if err != nil {
			// 错误是可接受的（空模板、非文件路径等）
			return
		}

		// 1. 结果是规范化的绝对路径
		if !filepath.IsAbs(result) {
			t.Errorf("结果 %q 不是绝对路径", result)
		}
		if result != filepath.Clean(result) {
			t.Errorf("结果 %q 不是规范化的路径", result)
		}

		// 2. 占位符全部被替换
		if strings.Contains(result, o.datePlaceholder) {
			t.Errorf("结果 %q 仍包含日期占位符", result)
		}
		if strings.Contains(result, o.versionPlaceholder) {
			t.Errorf("结果 %q 仍包含版本占位符", result)
		}
	})
}

// FuzzWriteLine 模糊测试消息写入
//
// 测试目标：
//   - 任意消息内容不会导致 panic 或写入失败
//   - 消息内容不影响写入器的后续可用性
func FuzzWriteLine(f *testing.F) {
	// 添加种子语料
	f.Add("hello")
	f.Add("")
	f.Add("多字节消息")
	f.Add("café niño")
	f.Add("line\nbreak")
	f.Add("tab\tand\rreturn")
	f.Add(string([]byte{0xff, 0xfe, 0xfd})) // 非法 UTF-8
	f.Add("\x00")
	f.Add(strings.Repeat("x", 1<<16))

	template := filepath.Join(f.TempDir(), "fuzz-%YYYYMMDD%-%VERSION%.log")
	w, err := New(template)
	if err != nil {
		f.Fatalf("创建写入器失败: %v", err)
	}
	f.Cleanup(func() { _ = w.Close() })

	f.Fuzz(func(t *testing.T, msg string) {
		// 消息是纯负载，内容永远不应导致写入失败
		if err := w.WriteLine(msg); err != nil {
			t.Errorf("WriteLine(%q) 失败: %v", msg, err)
		}
	})
}

// FuzzWithAttributes 模糊测试属性键值解析
//
// 测试目标：
//   - 任意键值对不会导致 panic
//   - 非法值以 ErrInvalidAttribute 暴露而不是崩溃
func FuzzWithAttributes(f *testing.F) {
	// 添加种子语料：(键, 值)
	f.Add("MaxSize", "1048576")
	f.Add("MaxSize", "abc")
	f.Add("MaxSize", "-1")
	f.Add("Encoding", "utf-8")
	f.Add("Encoding", "klingon-7")
	f.Add("AppendDate", "true")
	f.Add("AppendThreadId", "maybe")
	f.Add("DatePlaceHolder", "{DATE}")
	f.Add("VersionFormat", "%s")
	f.Add("Unknown", "ignored")
	f.Add("a.b.c", "nested")
	f.Add("", "")

	f.Fuzz(func(t *testing.T, key, value string) {
		w, err := New("t-%YYYYMMDD%-%VERSION%.log",
			WithAttributes(map[string]string{key: value}))

		if err != nil {
			// 配置错误是可接受的
			return
		}
		if w == nil {
			t.Error("New 无错误但返回 nil 写入器")
		}
	})
}
