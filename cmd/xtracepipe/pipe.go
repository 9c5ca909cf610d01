package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/tracekit/pkg/trace/xtracefile"
)

// maxLineBytes 单行输入长度上限。超长行视为输入损坏，报错退出
// 而不是静默截断。
const maxLineBytes = 1 << 20

// runPipe 是根命令动作：构造写入器并把标准输入灌进去。
func runPipe(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return &usageError{msg: "需要且仅需要一个文件名模板参数"}
	}
	template := cmd.Args().First()

	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}

	w, err := xtracefile.New(template, opts...)
	if err != nil {
		// 属性值或编码名非法属于用户输入问题，映射到退出码 2
		return &usageError{msg: err.Error()}
	}

	lines, pipeErr := pipe(ctx, os.Stdin, w)
	closeErr := w.Close()
	if pipeErr != nil {
		return pipeErr
	}
	if closeErr != nil {
		return fmt.Errorf("关闭写入器失败: %w", closeErr)
	}

	fmt.Fprintf(os.Stderr, "共写入 %d 行\n", lines)
	return nil
}

// pipe 把 r 的每一行写入 sink，直到输入耗尽或 ctx 取消。
// 返回成功写入的行数。
//
// 设计决策: ctx 取消按正常收束处理而不是报错——信号触发的退出
// 属于预期停机，已读出的当前行仍会写入，不丢不损。
func pipe(ctx context.Context, r io.Reader, sink xtracefile.Sink) (int64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var lines int64
	for scanner.Scan() {
		if err := sink.WriteLine(scanner.Text()); err != nil {
			return lines, fmt.Errorf("已写入 %d 行后失败: %w", lines, err)
		}
		lines++

		select {
		case <-ctx.Done():
			return lines, nil
		default:
		}
	}
	if err := scanner.Err(); err != nil {
		return lines, fmt.Errorf("读取输入失败: %w", err)
	}
	return lines, nil
}
