// xtracepipe 将标准输入按行写入自轮转跟踪文件。
//
// 用法:
//
//	xtracepipe [选项] <文件名模板>
//
// 模板支持日期与版本占位符（默认 %YYYYMMDD% 和 %VERSION%），
// 文件写满或跨日历日时自动切换到下一个目标文件:
//
//	xtracepipe /var/trace/app-%YYYYMMDD%-%VERSION%.log
//
// 选项:
//
//	-c, --config           属性配置文件（YAML 或 JSON，键见下）
//	    --max-size         单个文件大小上限（字节）
//	    --encoding         输出编码（IANA 字符集名称）
//	    --date-format      日期占位符格式（Go 时间布局）
//	    --version-format   版本占位符格式（fmt 动词）
//	    --date-placeholder     模板中的日期占位符字面量
//	    --version-placeholder  模板中的版本占位符字面量
//	    --no-timestamp     关闭行首时间戳
//	    --no-goroutine-id  关闭 goroutine 来源标记
//
// 配置文件持有与 WithAttributes 相同的键（MaxSize、Encoding、AppendDate、
// AppendThreadId、DateFormat、VersionFormat、DatePlaceHolder、
// VersionPlaceHolder）。命令行选项优先于配置文件，配置文件优先于默认值。
//
// 退出码:
//
//	0: 输入全部写入（或收到信号后正常收束）
//	1: 运行期失败（目标不可写、磁盘错误等）
//	2: 参数错误（缺少模板、非法属性、未知 flag 等）
//
// 示例:
//
//	tail -f /var/log/app.log | xtracepipe /var/trace/app-%YYYYMMDD%-%VERSION%.log
//	journalctl -f | xtracepipe --max-size 16777216 --encoding utf-8 /var/trace/sys-%VERSION%.log
//	xtracepipe --config trace.yaml /var/trace/app-%YYYYMMDD%-%VERSION%.log < input.txt
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入，例如:
//
//	go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse --short HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// ）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run())
}

// createApp 创建 CLI 应用。
func createApp() *cli.Command {
	return &cli.Command{
		Name:      "xtracepipe",
		Usage:     "将标准输入按行写入自轮转跟踪文件",
		Version:   fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		ArgsUsage: "<文件名模板>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "属性配置文件（YAML 或 JSON）",
			},
			&cli.Int64Flag{
				Name:  "max-size",
				Usage: "单个文件大小上限（字节）",
			},
			&cli.StringFlag{
				Name:  "encoding",
				Usage: "输出编码（IANA 字符集名称，如 utf-8、windows-1252）",
			},
			&cli.StringFlag{
				Name:  "date-format",
				Usage: "日期占位符格式（Go 时间布局，如 20060102）",
			},
			&cli.StringFlag{
				Name:  "version-format",
				Usage: "版本占位符格式（fmt 动词，如 %d、%03d）",
			},
			&cli.StringFlag{
				Name:  "date-placeholder",
				Usage: "模板中的日期占位符字面量",
			},
			&cli.StringFlag{
				Name:  "version-placeholder",
				Usage: "模板中的版本占位符字面量",
			},
			&cli.BoolFlag{
				Name:  "no-timestamp",
				Usage: "关闭行首时间戳",
			},
			&cli.BoolFlag{
				Name:  "no-goroutine-id",
				Usage: "关闭 goroutine 来源标记",
			},
		},
		Action: runPipe,
		// 设计决策: 禁止 urfave/cli 直接调用 os.Exit，
		// 由 run() 统一处理退出码映射，确保与文档退出码契约一致。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			// ExitCoder 错误的消息需在此输出，
			// 替代 HandleExitCoder 的默认 os.Exit 行为。
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, err)
			}
		},
		Description: `xtracepipe 是跟踪文件写入器的命令行入口，把任意按行产出的
数据流（tail、journalctl、应用日志管道）落到自轮转的跟踪文件。

写入行为:
  每行按配置附加 [时间戳] 与 [tid-N] 前缀后追加写入；
  文件写满 --max-size 或跨日历日时自动换到下一个目标文件；
  收到 SIGINT/SIGTERM 后停止读取、刷出缓冲并正常退出，
  再次发送信号则强制退出。`,
	}
}

// usageError 表示用户侧参数或配置错误，映射到退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

// isCLIUsageError 识别 CLI 框架产生的用法错误（未知 flag、非法取值等）。
// 这类错误由 flag 解析器或 ExitErrHandler 输出详情，只需映射退出码。
func isCLIUsageError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "flag provided but not defined") ||
		strings.Contains(msg, "invalid value") ||
		strings.Contains(msg, "No help topic")
}

func run() int {
	app := createApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 设置信号处理
	setupSignalHandler(cancel)

	if err := app.Run(ctx, os.Args); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		// CLI 框架产生的参数错误（如未知 flag）也返回退出码 2，
		// 与文档契约"参数错误 → 退出码 2"保持一致。
		if isCLIUsageError(err) {
			// flag 解析器或 ExitErrHandler 已向 stderr 输出错误详情，此处仅设置退出码
			return 2
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}

	return 0
}

// setupSignalHandler 设置信号处理。
// 设计决策: 第一次信号优雅取消（读完当前行、刷出缓冲后退出），
// 第二次信号强制退出（退出码 130 = 128 + SIGINT）。
// 当输入端长时间无新行时，用户可通过再次 Ctrl+C 强制退出。
func setupSignalHandler(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel() // 第一次信号: 优雅取消

		<-sigCh
		signal.Stop(sigCh) // 回收订阅
		os.Exit(130)       // 第二次信号: 强制退出
	}()
}
