// Package watermark 计算文字水印在页面上的位置与角度，并把它绘制到 PDF 的每一页。
package watermark

import (
	"fmt"

	"github.com/novvoo/go-pdf-utils/pkg/pdfdoc"
)

// 默认值
const (
	DefaultFontFamily = pdfdoc.DefaultFont
	DefaultFontSize   = 36.0
	DefaultAlpha      = 1.0
)

// Spec 一次水印请求的参数。由 Builder 创建后不可修改，所有字段在创建时已校验。
type Spec struct {
	text         string
	fontFamily   string
	fontSize     float64
	textRotation int
	color        RGB
	alpha        float64
	x, y         float64
	invertY      bool
}

// DefaultSpec 返回默认参数（空文本，即不绘制）
func DefaultSpec() *Spec {
	return &Spec{
		fontFamily: DefaultFontFamily,
		fontSize:   DefaultFontSize,
		color:      White,
		alpha:      DefaultAlpha,
	}
}

// Text 水印文本；空字符串表示不绘制
func (s *Spec) Text() string { return s.text }

// FontFamily 标准 Type1 字体名
func (s *Spec) FontFamily() string { return s.fontFamily }

// FontSize 字号（point）
func (s *Spec) FontSize() float64 { return s.fontSize }

// TextRotation 文字额外旋转角度（度），不限范围
func (s *Spec) TextRotation() int { return s.textRotation }

// Color 未混合的填充颜色
func (s *Spec) Color() RGB { return s.color }

// Alpha 不透明度 (0, 1]
func (s *Spec) Alpha() float64 { return s.alpha }

// XPosition 水平位置（point）
func (s *Spec) XPosition() float64 { return s.x }

// YPosition 垂直位置（point），InvertY 时从页面顶部量起
func (s *Spec) YPosition() float64 { return s.y }

// InvertY 是否以页面左上角为 Y 原点
func (s *Spec) InvertY() bool { return s.invertY }

// IsNoop 文本为空时不需要绘制
func (s *Spec) IsNoop() bool { return s.text == "" }

// Fill 与白色混合后的实际填充颜色
func (s *Spec) Fill() RGB {
	return s.color.Blend(s.alpha)
}

func (s *Spec) String() string {
	return fmt.Sprintf("Spec{text=%q font=%s/%g rotation=%d color=%s alpha=%g pos=(%g, %g) invertY=%v}",
		s.text, s.fontFamily, s.fontSize, s.textRotation, s.color, s.alpha, s.x, s.y, s.invertY)
}
