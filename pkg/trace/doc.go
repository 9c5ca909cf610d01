// Package trace 提供跟踪输出相关的子包。
//
// 子包列表：
//   - xtracefile: 自轮转跟踪文件写入器，模板化文件名、按大小与日历日切换
//
// 设计原则：
//   - 写入路径串行化，单条消息原子落盘
//   - 文件系统通过能力接口注入，便于故障注入测试
//   - 写入器自身不打日志，内部故障走回调
package trace
