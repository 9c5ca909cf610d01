package xtracefile

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/omeyang/tracekit/pkg/util/xfsys"
)

// 默认配置值
const (
	// DefaultMaxSize 默认单个文件大小上限（字节）
	DefaultMaxSize = 64 * 1024 * 1024

	// DefaultEncoding 默认输出编码（固定 8 位代码页）
	DefaultEncoding = "windows-1252"

	// DefaultDateFormat 默认日期占位符格式（Go 时间布局）
	DefaultDateFormat = "20060102"

	// DefaultVersionFormat 默认版本号格式（fmt 动词）
	DefaultVersionFormat = "%d"

	// DefaultDatePlaceholder 默认日期占位符
	DefaultDatePlaceholder = "%YYYYMMDD%"

	// DefaultVersionPlaceholder 默认版本占位符
	DefaultVersionPlaceholder = "%VERSION%"

	// DefaultFileMode 默认跟踪文件权限
	DefaultFileMode os.FileMode = 0644
)

// options 写入器配置，构造后不可变
type options struct {
	maxSize            int64
	encodingName       string
	appendDate         bool
	appendGoroutineID  bool
	dateFormat         string
	versionFormat      string
	datePlaceholder    string
	versionPlaceholder string
	fileMode           os.FileMode
	clock              Clock
	fsys               xfsys.FS
	onError            func(error)

	err error // 首个选项应用错误（first-error-wins）
}

// Option 写入器配置选项函数
type Option func(*options)

func defaultOptions() options {
	return options{
		maxSize:            DefaultMaxSize,
		encodingName:       DefaultEncoding,
		appendDate:         true,
		appendGoroutineID:  true,
		dateFormat:         DefaultDateFormat,
		versionFormat:      DefaultVersionFormat,
		datePlaceholder:    DefaultDatePlaceholder,
		versionPlaceholder: DefaultVersionPlaceholder,
		fileMode:           DefaultFileMode,
		clock:              systemClock{},
		fsys:               xfsys.OS(),
	}
}

// attrConfig 属性映射的解码目标，attr 标签即属性键名
type attrConfig struct {
	MaxSize            int64  `attr:"MaxSize"`
	Encoding           string `attr:"Encoding"`
	AppendDate         bool   `attr:"AppendDate"`
	AppendThreadID     bool   `attr:"AppendThreadId"`
	DateFormat         string `attr:"DateFormat"`
	VersionFormat      string `attr:"VersionFormat"`
	DatePlaceholder    string `attr:"DatePlaceHolder"`
	VersionPlaceholder string `attr:"VersionPlaceHolder"`
}

// WithAttributes 以字符串键值对批量设置配置属性
//
// 键名：MaxSize、Encoding、AppendDate、AppendThreadId、DateFormat、
// VersionFormat、DatePlaceHolder、VersionPlaceHolder。未知键忽略，
// 缺失键保持当前值，布尔与整数值宽松解析（"true"/"1"/"67108864"）。
//
// 设计决策: 属性在选项应用时立即解析，解析失败通过 New 的返回值
// 暴露（first-error-wins），配置问题不会拖到首次写入才爆发。
func WithAttributes(attrs map[string]string) Option {
	return func(o *options) {
		if o.err != nil {
			return
		}
		o.err = o.applyAttributes(attrs)
	}
}

// applyAttributes 把属性映射解码到当前配置之上
func (o *options) applyAttributes(attrs map[string]string) error {
	if len(attrs) == 0 {
		return nil
	}

	src := make(map[string]any, len(attrs))
	for key, val := range attrs {
		src[key] = val
	}

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(src, "."), nil); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAttribute, err)
	}

	// 以当前配置预填解码目标：映射里没出现的键保持原值
	ac := attrConfig{
		MaxSize:            o.maxSize,
		Encoding:           o.encodingName,
		AppendDate:         o.appendDate,
		AppendThreadID:     o.appendGoroutineID,
		DateFormat:         o.dateFormat,
		VersionFormat:      o.versionFormat,
		DatePlaceholder:    o.datePlaceholder,
		VersionPlaceholder: o.versionPlaceholder,
	}
	if err := k.UnmarshalWithConf("", &ac, koanf.UnmarshalConf{
		Tag: "attr",
		DecoderConfig: &mapstructure.DecoderConfig{
			TagName:          "attr",
			WeaklyTypedInput: true,
			Result:           &ac,
		},
	}); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAttribute, err)
	}

	o.maxSize = ac.MaxSize
	o.encodingName = ac.Encoding
	o.appendDate = ac.AppendDate
	o.appendGoroutineID = ac.AppendThreadID
	o.dateFormat = ac.DateFormat
	o.versionFormat = ac.VersionFormat
	o.datePlaceholder = ac.DatePlaceholder
	o.versionPlaceholder = ac.VersionPlaceholder
	return nil
}

// WithMaxSize 设置单个文件大小上限（字节）
func WithMaxSize(bytes int64) Option {
	return func(o *options) {
		o.maxSize = bytes
	}
}

// WithEncoding 设置输出编码（IANA 字符集名称，如 "utf-8"、"iso-8859-1"）
func WithEncoding(name string) Option {
	return func(o *options) {
		o.encodingName = name
	}
}

// WithAppendDate 设置是否在行首附加 [yyyy-MM-dd HH:mm:ss] 时间戳
func WithAppendDate(enabled bool) Option {
	return func(o *options) {
		o.appendDate = enabled
	}
}

// WithAppendGoroutineID 设置是否在消息前附加 [tid-N] 来源标记
func WithAppendGoroutineID(enabled bool) Option {
	return func(o *options) {
		o.appendGoroutineID = enabled
	}
}

// WithDateFormat 设置日期占位符的替换格式（Go 时间布局）
func WithDateFormat(layout string) Option {
	return func(o *options) {
		o.dateFormat = layout
	}
}

// WithVersionFormat 设置版本占位符的替换格式（fmt 动词，如 "%d"、"%03d"）
func WithVersionFormat(format string) Option {
	return func(o *options) {
		o.versionFormat = format
	}
}

// WithDatePlaceholder 设置模板中的日期占位符字面量
func WithDatePlaceholder(token string) Option {
	return func(o *options) {
		o.datePlaceholder = token
	}
}

// WithVersionPlaceholder 设置模板中的版本占位符字面量
func WithVersionPlaceholder(token string) Option {
	return func(o *options) {
		o.versionPlaceholder = token
	}
}

// WithFileMode 设置跟踪文件创建权限
//
// 仅在文件由本写入器创建时生效，已存在文件的权限不会被修改。
func WithFileMode(mode os.FileMode) Option {
	return func(o *options) {
		o.fileMode = mode
	}
}

// WithClock 注入时间源，轮转判定与时间戳前缀都从这里取时间
func WithClock(clock Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithFileSystem 注入文件系统实现，默认直通本机文件系统
func WithFileSystem(fsys xfsys.FS) Option {
	return func(o *options) {
		o.fsys = fsys
	}
}

// WithOnError 设置错误回调函数
//
// 接收轮转过程中尽力而为操作（如关闭被换下的旧文件）的失败通知。
//
// 设计决策: 不使用日志库记录内部错误，写入器本身常作为日志输出目标,
// 内部再打日志会形成递归写入（写失败 → 打日志 → 再写失败）。
// 回调函数不得向同一写入器写入数据。
func WithOnError(fn func(error)) Option {
	return func(o *options) {
		o.onError = fn
	}
}

// validate 校验最终配置
func (o *options) validate() error {
	if o.err != nil {
		return o.err
	}
	if o.maxSize <= 0 {
		return fmt.Errorf("%w: MaxSize must be positive, got %d", ErrInvalidAttribute, o.maxSize)
	}
	if o.dateFormat == "" {
		return fmt.Errorf("%w: DateFormat is empty", ErrInvalidAttribute)
	}
	// 版本格式必须能把整数格式化为干净的文本：fmt 对动词不匹配或缺失
	// 会在输出中插入 "%!" 标记，落到文件名里就是残缺路径
	if strings.Contains(fmt.Sprintf(o.versionFormat, 1), "%!") {
		return fmt.Errorf("%w: VersionFormat %q cannot format an integer", ErrInvalidAttribute, o.versionFormat)
	}
	if o.datePlaceholder == "" || o.versionPlaceholder == "" {
		return fmt.Errorf("%w: placeholders must be non-empty", ErrInvalidAttribute)
	}
	// 占位符互不包含才能保证替换结果与替换顺序无关
	if strings.Contains(o.datePlaceholder, o.versionPlaceholder) ||
		strings.Contains(o.versionPlaceholder, o.datePlaceholder) {
		return fmt.Errorf("%w: placeholders %q and %q overlap", ErrInvalidAttribute,
			o.datePlaceholder, o.versionPlaceholder)
	}
	// FileMode 仅允许权限位（低 9 位），拒绝文件类型位、setuid/setgid 等
	if o.fileMode&^os.FileMode(0o777) != 0 {
		return fmt.Errorf("%w: FileMode %04o contains non-permission bits", ErrInvalidAttribute, o.fileMode)
	}
	if o.clock == nil {
		return fmt.Errorf("%w: Clock is nil", ErrInvalidAttribute)
	}
	if o.fsys == nil {
		return fmt.Errorf("%w: FileSystem is nil", ErrInvalidAttribute)
	}
	return nil
}

// resolveEncoding 将 IANA 字符集名称解析为编码器
//
// UTF-8 是 Go 字符串的原生编码，返回 nil 编码器表示直写不转码。
// 其余编码包装 ReplaceUnsupported：目标字符集无法表示的字符替换为
// 替代字符，转码永不失败。
func resolveEncoding(name string) (*encoding.Encoder, error) {
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, name)
	}
	if enc == nil {
		// IANA 已注册但 x/text 未实现的字符集
		return nil, fmt.Errorf("%w: %q is not supported", ErrUnknownEncoding, name)
	}
	if enc == unicode.UTF8 {
		return nil, nil
	}
	return encoding.ReplaceUnsupported(enc.NewEncoder()), nil
}
