package xtracefile

import (
	"bytes"
	"runtime"
	"strconv"
)

// goroutineID 返回当前 goroutine 的数字标识
//
// Go 运行时有意不暴露 goroutine id，这里从 runtime.Stack 首行
// "goroutine N [running]:" 中解析。仅用于跟踪行的来源标记，不承载
// 任何调度语义；解析失败返回 0，不影响写入。
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	frame := bytes.TrimPrefix(buf[:n], []byte("goroutine "))

	i := bytes.IndexByte(frame, ' ')
	if i <= 0 {
		return 0
	}
	id, err := strconv.ParseUint(string(frame[:i]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
