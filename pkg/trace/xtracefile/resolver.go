package xtracefile

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/omeyang/tracekit/pkg/util/xfsys"
)

// maxVersion 版本号探测上限
//
// 同一天内同一模板轮转出超过十万个文件说明大小上限与写入量严重失配，
// 继续探测只是对文件系统做线性扫描，直接报错交由运营方处理。
const maxVersion = 99999

// resolver 把文件名模板解析为当前应写入的目标路径。
// 无状态：判定完全基于模板、配置与文件系统现状，可独立于写入器使用。
type resolver struct {
	fsys               xfsys.FS
	maxSize            int64
	dateFormat         string
	versionFormat      string
	datePlaceholder    string
	versionPlaceholder string
}

func newResolver(o *options) *resolver {
	return &resolver{
		fsys:               o.fsys,
		maxSize:            o.maxSize,
		dateFormat:         o.dateFormat,
		versionFormat:      o.versionFormat,
		datePlaceholder:    o.datePlaceholder,
		versionPlaceholder: o.versionPlaceholder,
	}
}

// resolveName 替换模板占位符并规范化为绝对路径
//
// 占位符不存在时该维度保持字面不变。两个占位符互不包含（构造期校验），
// 替换结果与替换顺序无关。
func (r *resolver) resolveName(template string, now time.Time, version int) (string, error) {
	name := strings.ReplaceAll(template, r.datePlaceholder, now.Format(r.dateFormat))
	name = strings.ReplaceAll(name, r.versionPlaceholder, fmt.Sprintf(r.versionFormat, version))

	path, err := xfsys.Normalize(name)
	if err != nil {
		return "", fmt.Errorf("%w: template %q: %w", ErrPathResolution, template, err)
	}
	return path, nil
}

// isValidTarget 判定候选路径当前是否可作为写入目标
//
// 规则：
//   - 文件不存在：可写（将创建新文件）
//   - 文件存在且大小未达上限：可写（继续追加）
//   - 模板不含版本占位符：可写（没有下一个版本可换，接受超限追加）
//   - 其余情况：不可写，探测下一个版本
func (r *resolver) isValidTarget(path string, hasVersion bool) (bool, error) {
	info, err := r.fsys.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() < r.maxSize {
		return true, nil
	}
	return !hasVersion, nil
}

// nextName 返回模板此刻应写入的目标路径，并确保其父目录存在
//
// 含版本占位符时从 0 开始逐个探测，取第一个可写候选；超过 maxVersion
// 仍无可写目标时返回 [ErrVersionExhausted]。不含版本占位符时首个候选
// 必定可写，单次探测即返回。
func (r *resolver) nextName(template string, now time.Time) (string, error) {
	hasVersion := strings.Contains(template, r.versionPlaceholder)

	for version := 0; version <= maxVersion; version++ {
		path, err := r.resolveName(template, now, version)
		if err != nil {
			return "", err
		}

		ok, err := r.isValidTarget(path, hasVersion)
		if err != nil {
			return "", err
		}
		if ok {
			if err := xfsys.EnsureDir(r.fsys, path, xfsys.DefaultDirPerm); err != nil {
				return "", err
			}
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: template %q", ErrVersionExhausted, template)
}
