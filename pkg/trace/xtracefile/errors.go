package xtracefile

import "errors"

// 配置校验错误（New 返回）
var (
	// ErrInvalidAttribute 配置属性无效（值无法解析、越界或占位符配置冲突）
	ErrInvalidAttribute = errors.New("xtracefile: invalid attribute")

	// ErrUnknownEncoding 编码名称无法解析为受支持的字符集
	ErrUnknownEncoding = errors.New("xtracefile: unknown encoding")
)

// 写入路径错误（Write/WriteLine 返回）
var (
	// ErrPathResolution 模板替换占位符后无法形成可用的文件路径
	ErrPathResolution = errors.New("xtracefile: cannot resolve file path")

	// ErrVersionExhausted 版本号探测达到上限仍无可写目标
	ErrVersionExhausted = errors.New("xtracefile: version space exhausted")
)
