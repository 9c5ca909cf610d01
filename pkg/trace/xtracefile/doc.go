// Package xtracefile 提供模板驱动的自轮转文本跟踪写入器。
//
// 文件名由模板与占位符共同决定，写入器在写入过程中自动完成轮转：
// 跨过日历日时切换到新日期的文件，文件大小达到上限时切换到下一个
// 版本号的文件。
//
// # 占位符与轮转
//
// 模板中的日期占位符（默认 %YYYYMMDD%）替换为当天日期，版本占位符
// （默认 %VERSION%）替换为从 0 开始探测的版本号：
//
//	w, err := xtracefile.New("/var/trace/app-%YYYYMMDD%-%VERSION%.log")
//
// 上述模板在 2026 年 8 月 22 日产生 app-20260822-0.log；写满 MaxSize
// 后自动切换到 app-20260822-1.log，以此类推；次日第一条写入落到
// app-20260823-0.log。
//
// 模板不含日期占位符时所有日期共用同一文件；不含版本占位符时大小
// 超限不再换文件，继续向原文件追加（超限被接受）。空模板也是合法的：
// 写入调用静默丢弃，适配"配置缺失时输出端退化为黑洞"的托管场景。
//
// # 配置
//
// 配置在 New 时一次性解析冻结，之后不可变，配置类错误全部在构造期
// 暴露。除 With* 选项外，也接受字符串键值对形式的属性批量配置
// （WithAttributes），键名与选项一一对应：MaxSize、Encoding、
// AppendDate、AppendThreadId、DateFormat、VersionFormat、
// DatePlaceHolder、VersionPlaceHolder。未知键忽略，缺失键取默认值，
// 非法值返回 [ErrInvalidAttribute]。
//
// # 行修饰
//
// 每条消息按配置附加前缀后落盘：
//
//	[2026-08-22 10:30:00] [tid-42] message
//
// 时间戳由 AppendDate 控制，tid 标记由 AppendThreadId 控制（取当前
// goroutine 的数字标识）。WriteLine 额外追加平台行结束符。
//
// # 编码
//
// 输出字节编码由 IANA 字符集名称指定（默认 windows-1252），目标
// 编码无法表示的字符替换为替代字符，不会写入失败。UTF-8 直写不转码。
//
// # 并发
//
// 所有公开方法并发安全：单把互斥锁串行化写入、轮转判定与文件切换，
// 每条消息的字节连续落盘，不与并发写入交错。IsThreadSafe 恒为 true，
// 消费方无需外部加锁。
//
// # 错误处理
//
// 预定义错误变量支持 [errors.Is] 判断：
//
//	_, err := xtracefile.New(tpl, xtracefile.WithAttributes(attrs))
//	if errors.Is(err, xtracefile.ErrInvalidAttribute) {
//	    // 属性配置有误
//	}
//
// 写入路径上的 I/O 错误原样包装返回，不重试、不缓冲、不静默恢复。
// 轮转过程中关闭旧文件这类尽力而为操作的失败通过 WithOnError 回调
// 上报。回调不得向同一写入器写入数据，否则会递归死锁。
package xtracefile
