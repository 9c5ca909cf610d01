// Package util 提供通用工具相关的子包。
//
// 子包列表：
//   - xfsys: 文件系统能力接口，路径规范化、目录创建、可注入的 FS/File 抽象
//
// 设计原则：
//   - 提供常用的文件和路径操作封装
//   - 窄接口便于测试替身注入
//   - 跨平台兼容
package util
