package pdfdoc

import (
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/font"
)

// DefaultFont 默认水印字体
const DefaultFont = "Helvetica"

// designUnits TextWidth 以该字号计算时，结果即为字体设计单位（1/1000 em）
const designUnits = 1000

// StandardFonts 返回可用的 14 种标准 Type1 字体名称（排序后）
func StandardFonts() []string {
	names := append([]string(nil), font.CoreFontNames()...)
	sort.Strings(names)
	return names
}

// IsStandardFont 名称是否精确匹配一个标准字体
func IsStandardFont(name string) bool {
	return font.IsCoreFont(name)
}

// MatchStandardFont 在标准字体中查找最接近的名称：
// 先精确匹配，再忽略大小写与空格/下划线差异。找不到时 ok 为 false。
func MatchStandardFont(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if font.IsCoreFont(name) {
		return name, true
	}
	want := fontKey(name)
	for _, candidate := range font.CoreFontNames() {
		if fontKey(candidate) == want {
			return candidate, true
		}
	}
	return "", false
}

func fontKey(name string) string {
	r := strings.NewReplacer(" ", "", "_", "-")
	return strings.ToLower(r.Replace(name))
}

// symbolicFont Symbol 与 ZapfDingbats 使用内置编码，不能指定 WinAnsiEncoding
func symbolicFont(name string) bool {
	return name == "Symbol" || name == "ZapfDingbats"
}

// StandardMetrics 基于 pdfcpu 内置 AFM 数据的 FontMetrics
type StandardMetrics struct{}

// StringWidth 返回字体设计单位下的宽度；未知字体按 Helvetica 计算
func (StandardMetrics) StringWidth(text, family string) float64 {
	if !font.IsCoreFont(family) {
		family = DefaultFont
	}
	return font.TextWidth(text, family, designUnits)
}
