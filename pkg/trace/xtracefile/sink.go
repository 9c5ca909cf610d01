package xtracefile

// 编译时断言：*Writer 实现 Sink 接口
var _ Sink = (*Writer)(nil)

// Sink 文本跟踪输出端接口
//
// 跟踪框架面向此接口转发消息，不关心目标是文件、网络还是黑洞。
// 扩展新实现时，必须满足以下约定：
//   - IsThreadSafe 返回 true 时，所有方法必须并发安全
//   - Close 之后允许再次写入（输出端可被框架反复关闭/复用）
//   - Flush 只保证数据离开实现自身的缓冲
type Sink interface {
	// Write 追加一条消息，不附加行结束符
	Write(msg string) error

	// WriteLine 追加一条消息并以平台行结束符收尾
	WriteLine(msg string) error

	// Flush 将缓冲数据刷向底层目标
	Flush() error

	// Close 释放当前持有的资源，重复调用安全
	Close() error

	// IsThreadSafe 报告实现是否并发安全，决定消费方是否需要外部加锁
	IsThreadSafe() bool
}
