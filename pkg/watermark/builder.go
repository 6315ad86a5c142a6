package watermark

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/novvoo/go-pdf-utils/internal/logging"
	"github.com/novvoo/go-pdf-utils/pkg/pdfdoc"
)

// Builder 以链式调用构造 Spec。
// 数值越界时回退到默认值；无法解析的输入记录为 ConfigurationError，由 Build 返回。
type Builder struct {
	spec Spec
	errs []error
}

// NewBuilder 从默认参数开始构造
func NewBuilder() *Builder {
	return &Builder{spec: *DefaultSpec()}
}

// Text 设置水印文本
func (b *Builder) Text(text string) *Builder {
	b.spec.text = text
	return b
}

// FontFamily 设置字体；空值或未知字体回退到 Helvetica，名称忽略大小写匹配
func (b *Builder) FontFamily(family string) *Builder {
	if name, ok := pdfdoc.MatchStandardFont(family); ok {
		b.spec.fontFamily = name
		return b
	}
	if family != "" {
		logging.Debug("unknown font %q, falling back to %s", family, DefaultFontFamily)
	}
	b.spec.fontFamily = DefaultFontFamily
	return b
}

// FontSize 设置字号；小于 1 时回退到 36
func (b *Builder) FontSize(size float64) *Builder {
	b.spec.fontSize = clampFontSize(size)
	return b
}

// TextRotation 设置文字旋转角度（度）
func (b *Builder) TextRotation(degrees int) *Builder {
	b.spec.textRotation = degrees
	return b
}

// Color 设置填充颜色
func (b *Builder) Color(c RGB) *Builder {
	b.spec.color = c
	return b
}

// HexColor 解析并设置颜色；空字符串回退到白色
func (b *Builder) HexColor(s string) *Builder {
	if strings.TrimSpace(s) == "" {
		b.spec.color = White
		return b
	}
	c, err := ParseColor(s)
	if err != nil {
		b.errs = append(b.errs, newConfigError("color", "malformed color "+strconv.Quote(s), err))
		return b
	}
	b.spec.color = c
	return b
}

// Alpha 设置不透明度；不在 (0, 1] 内时回退到 1
func (b *Builder) Alpha(alpha float64) *Builder {
	if math.IsNaN(alpha) || alpha <= 0 || alpha > 1 {
		alpha = DefaultAlpha
	}
	b.spec.alpha = alpha
	return b
}

// XPosition 设置水平位置；负值回退到 0
func (b *Builder) XPosition(x float64) *Builder {
	b.spec.x = clampNonNegative(x)
	return b
}

// YPosition 设置垂直位置；负值回退到 0
func (b *Builder) YPosition(y float64) *Builder {
	b.spec.y = clampNonNegative(y)
	return b
}

// Position 同时设置两个坐标
func (b *Builder) Position(x, y float64) *Builder {
	return b.XPosition(x).YPosition(y)
}

// InvertY 设置是否以页面顶部为 Y 原点
func (b *Builder) InvertY(invert bool) *Builder {
	b.spec.invertY = invert
	return b
}

// 属性名（与文档管理平台的操作参数一致）
const (
	PropText         = "text"
	PropFontFamily   = "fontFamily"
	PropFontSize     = "fontSize"
	PropTextRotation = "textRotation"
	PropColor        = "hex255Color"
	PropAlpha        = "alphaColor"
	PropXPosition    = "xPosition"
	PropYPosition    = "yPosition"
	PropInvertY      = "invertY"
)

// ApplyProperties 按属性名批量设置参数。按键名排序后依次应用，未知属性名记为错误。
func (b *Builder) ApplyProperties(props map[string]string) *Builder {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := strings.TrimSpace(props[key])
		switch key {
		case PropText:
			b.Text(props[key])
		case PropFontFamily:
			b.FontFamily(value)
		case PropFontSize:
			if f, ok := b.parseFloat(key, value); ok {
				b.FontSize(f)
			}
		case PropTextRotation:
			if f, ok := b.parseFloat(key, value); ok {
				switch {
				case !finite(f):
					f = 0
				case math.Abs(f) > math.MaxInt32:
					// 超出 int 范围的角度只保留 360 的余数
					f = math.Mod(f, 360)
				}
				b.TextRotation(int(math.Round(f)))
			}
		case PropColor:
			b.HexColor(value)
		case PropAlpha:
			if f, ok := b.parseFloat(key, value); ok {
				b.Alpha(f)
			}
		case PropXPosition:
			if f, ok := b.parseFloat(key, value); ok {
				b.XPosition(f)
			}
		case PropYPosition:
			if f, ok := b.parseFloat(key, value); ok {
				b.YPosition(f)
			}
		case PropInvertY:
			v, err := strconv.ParseBool(value)
			if err != nil {
				b.errs = append(b.errs, newConfigError(key, "invalid boolean "+strconv.Quote(value), err))
				continue
			}
			b.InvertY(v)
		default:
			b.errs = append(b.errs, newConfigError(key, "unknown property", nil))
		}
	}
	return b
}

func (b *Builder) parseFloat(key, value string) (float64, bool) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		b.errs = append(b.errs, newConfigError(key, "invalid number "+strconv.Quote(value), err))
		return 0, false
	}
	return f, true
}

// Build 返回不可变的 Spec；有配置错误时返回所有错误
func (b *Builder) Build() (*Spec, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	spec := b.spec
	return &spec, nil
}

// clampFontSize 小于 1 或非有限值的字号回退到默认值
func clampFontSize(size float64) float64 {
	if !finite(size) || size < 1 {
		return DefaultFontSize
	}
	return size
}

// clampNonNegative 负值或非有限值回退到 0
func clampNonNegative(v float64) float64 {
	if !finite(v) || v < 0 {
		return 0
	}
	return v
}

// finite 排除 NaN 与 ±Inf，写入内容流的数值必须是有限值
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
