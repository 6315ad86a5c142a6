package watermark

import (
	"math"

	"github.com/novvoo/go-pdf-utils/pkg/pdfdoc"
)

// StringWidthFunc 返回文本在字体设计单位（1/1000 em）下的宽度
type StringWidthFunc func(text, family string) float64

// Placement 单个页面上水印的绘制参数，每页重新计算
type Placement struct {
	X, Y     float64 // 文本原点
	Rotation float64 // 弧度，逆时针
	Fill     RGB     // 已与白色混合
}

// Place 计算 spec 在 page 上的绘制位置。文本为空时 ok 为 false，调用方应跳过该页。
//
// 页面固有旋转为 90/270 度时，忽略 X/Y 位置，把文本居中并按 (页面旋转 - 文字旋转) 旋转；
// 否则文字旋转非零时在 (X, Y) 处旋转，都为零时只做平移。
func Place(spec *Spec, page pdfdoc.PageGeometry, width StringWidthFunc) (p Placement, ok bool) {
	if spec.IsNoop() {
		return Placement{}, false
	}

	y := resolveY(spec, page.Height)
	textWidth := width(spec.text, spec.fontFamily) * spec.fontSize / 1000

	landscape := isLandscape(page.Rotation)
	logicalWidth, logicalHeight := page.Width, page.Height
	if landscape {
		logicalWidth, logicalHeight = page.Height, page.Width
	}

	var centeredX, centeredY float64
	if landscape {
		centeredX = logicalHeight / 2
		centeredY = (logicalWidth - textWidth) / 2
	} else {
		centeredX = (logicalWidth - textWidth) / 2
		centeredY = logicalHeight / 2
	}

	totalRotation := page.Rotation - spec.textRotation

	p.Fill = spec.Fill()
	switch {
	case landscape:
		p.X, p.Y = centeredX, centeredY
		p.Rotation = radians(totalRotation)
	case isTextRotated(spec.textRotation):
		p.X, p.Y = spec.x, y
		p.Rotation = radians(spec.textRotation)
	default:
		p.X, p.Y = spec.x, y
	}
	return p, true
}

// isLandscape 页面固有旋转是否为 90 或 270 度
func isLandscape(rotation int) bool {
	r := pdfdoc.NormalizeRotation(rotation)
	return r == 90 || r == 270
}

// isTextRotated 角度不是 360 的整数倍时文字才算被旋转
func isTextRotated(degrees int) bool {
	return degrees%360 != 0
}

// resolveY InvertY 时 Y 从页面顶部量起
func resolveY(spec *Spec, pageHeight float64) float64 {
	if spec.invertY {
		return pageHeight - spec.y
	}
	return spec.y
}

func radians(degrees int) float64 {
	return float64(degrees) * math.Pi / 180
}
