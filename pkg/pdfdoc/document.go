// Package pdfdoc 定义水印和页面提取所需的最小 PDF 文档接口，
// 并提供基于 pdfcpu 的实现。
package pdfdoc

import "io"

// MimeType PDF 媒体类型
const MimeType = "application/pdf"

// PageGeometry 单个页面的几何信息（只读）
type PageGeometry struct {
	Width    float64 // MediaBox 宽度（旋转前，单位 point）
	Height   float64 // MediaBox 高度（旋转前，单位 point）
	Rotation int     // 页面固有旋转：0, 90, 180, 270
}

// Landscape 页面固有旋转为 90 或 270 时返回 true
func (g PageGeometry) Landscape() bool {
	return g.Rotation == 90 || g.Rotation == 270
}

// NormalizeRotation 将 /Rotate 值规范化到 {0, 90, 180, 270}。
// 非 90 倍数的值按 PDF 规范无效，视为 0。
func NormalizeRotation(deg int) int {
	if deg%90 != 0 {
		return 0
	}
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Info 文档信息字典中可写的字段，空值表示不修改
type Info struct {
	Title   string
	Subject string
	Author  string
}

// Empty 所有字段都为空时返回 true
func (i Info) Empty() bool {
	return i.Title == "" && i.Subject == "" && i.Author == ""
}

// Loader 从字节加载文档或创建空文档
type Loader interface {
	Load(data []byte) (Document, error)
	Empty(info Info) (Document, error)
}

// Document 已加载的 PDF 文档。页码从 1 开始。
type Document interface {
	PageCount() int
	Page(n int) (PageGeometry, error)
	// NewContentStream 为第 n 页打开一个追加式内容流，Close 时提交
	NewContentStream(n int) (ContentStream, error)
	// CopyPages 复制 [start, end] 页到新文档，保留源文档信息；start > end 时返回零页文档
	CopyPages(start, end int) (Document, error)
	// Info 读取文档信息字典中的 Title、Subject、Author
	Info() (Info, error)
	// SetInfo 写入 info 中的非空字段，其余字段保持不变
	SetInfo(info Info) error
	// PageText 提取第 n 页内容流中显示的文本
	PageText(n int) (string, error)
	Save(w io.Writer) error
	Close() error
}

// ContentStream 文本绘制原语。
// 与 bufio.Writer 类似，绘制方法不返回错误；第一个错误会被记录并由 Close 返回。
type ContentStream interface {
	BeginText()
	SetFont(family string, size float64)
	SetFillColor(r, g, b uint8)
	// SetTextTransform 设置文本矩阵：绕原点旋转 theta（弧度）后平移到 (x, y)
	SetTextTransform(theta, x, y float64)
	DrawString(s string)
	EndText()
	Close() error
}

// FontMetrics 字体度量，返回字体设计单位（1/1000 em）下的字符串宽度
type FontMetrics interface {
	StringWidth(text, family string) float64
}
