package xtracefile

import "time"

// Clock 提供当前时间，是轮转判定和时间戳前缀的时间来源。
// 生产环境使用系统时钟；测试中注入可控时钟以覆盖跨天轮转场景。
type Clock interface {
	Now() time.Time
}

// systemClock 直通 time.Now 的默认时钟
type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
