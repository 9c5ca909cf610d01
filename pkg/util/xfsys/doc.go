// Package xfsys 提供窄接口形式的文件系统能力抽象。
//
// 本包是为"需要把文件系统作为可注入依赖"的组件准备的：接口只暴露
// 消费方实际用到的操作（Stat、MkdirAll、追加打开），默认实现直通本机
// 文件系统，测试中可替换为 mock 以注入各种失败场景。
//
// # 核心能力
//
//   - FS / File: 文件系统窄接口与最小文件写入接口
//   - OS: 本机文件系统实现
//   - Normalize: 文件路径校验与绝对路径规范化
//   - EnsureDir: 确保父目录存在，容忍并发创建竞争
//
// # 路径语义
//
// Normalize 只做格式校验（空路径、空字节、显式目录路径），不拒绝 ".."
// 路径段：本包面向运营方配置的文件路径（如日志输出位置），".." 由
// filepath.Abs 按词法正常解析。若输入来自不可信来源，调用方应自行做
// 目录约束。
//
// # 并发创建
//
// 多个进程或实例可能同时为同一路径创建父目录。EnsureDir 在 MkdirAll
// 失败后复查目录是否已存在，已存在则按成功处理，使"对方先建好了"
// 这类竞争不会冒泡成错误。
//
// # 错误处理
//
// 预定义错误变量支持 [errors.Is] 判断：
//
//	_, err := xfsys.Normalize("trace.log/")
//	if errors.Is(err, xfsys.ErrNotFile) {
//	    // 路径指向目录而非文件
//	}
package xfsys
