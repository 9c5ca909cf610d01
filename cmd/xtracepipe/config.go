package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/urfave/cli/v3"

	"github.com/omeyang/tracekit/pkg/trace/xtracefile"
)

// buildOptions 把配置文件与命令行 flag 装配成写入器选项。
// 选项按应用顺序后者覆盖前者：先配置文件，后命令行 flag。
func buildOptions(cmd *cli.Command) ([]xtracefile.Option, error) {
	var opts []xtracefile.Option

	if path := cmd.String("config"); path != "" {
		attrs, err := loadAttributes(path)
		if err != nil {
			return nil, err
		}
		opts = append(opts, xtracefile.WithAttributes(attrs))
	}

	if cmd.IsSet("max-size") {
		opts = append(opts, xtracefile.WithMaxSize(cmd.Int64("max-size")))
	}
	if cmd.IsSet("encoding") {
		opts = append(opts, xtracefile.WithEncoding(cmd.String("encoding")))
	}
	if cmd.IsSet("date-format") {
		opts = append(opts, xtracefile.WithDateFormat(cmd.String("date-format")))
	}
	if cmd.IsSet("version-format") {
		opts = append(opts, xtracefile.WithVersionFormat(cmd.String("version-format")))
	}
	if cmd.IsSet("date-placeholder") {
		opts = append(opts, xtracefile.WithDatePlaceholder(cmd.String("date-placeholder")))
	}
	if cmd.IsSet("version-placeholder") {
		opts = append(opts, xtracefile.WithVersionPlaceholder(cmd.String("version-placeholder")))
	}
	if cmd.Bool("no-timestamp") {
		opts = append(opts, xtracefile.WithAppendDate(false))
	}
	if cmd.Bool("no-goroutine-id") {
		opts = append(opts, xtracefile.WithAppendGoroutineID(false))
	}

	return opts, nil
}

// loadAttributes 从 YAML 或 JSON 文件读出属性键值对。
// 文件格式由扩展名决定，值统一还原为字符串交给属性解析。
func loadAttributes(path string) (map[string]string, error) {
	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, &usageError{msg: fmt.Sprintf("读取配置文件 %s 失败: %v", path, err)}
	}

	raw := k.All()
	attrs := make(map[string]string, len(raw))
	for key, value := range raw {
		attrs[key] = stringifyAttr(value)
	}
	return attrs, nil
}

// parserFor 按扩展名选择配置解析器。
func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	default:
		return nil, &usageError{msg: fmt.Sprintf("不支持的配置文件格式: %s（支持 .yaml/.yml/.json）", path)}
	}
}

// stringifyAttr 把解析出的属性值还原为字符串。
//
// JSON 的数字一律解析为 float64，直接 fmt.Sprint 会输出科学计数法
// （67108864 变成 6.7108864e+07），必须走最短精确表示。
func stringifyAttr(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
