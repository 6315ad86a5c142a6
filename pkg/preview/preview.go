// Package preview 把水印在页面上的位置画成 PNG，用于在不打开 PDF 阅读器的情况下检查布局。
//
// 预览使用页面内容坐标（MediaBox，未应用 /Rotate），与水印计算使用的坐标一致。
package preview

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"math"

	"github.com/novvoo/go-cairo/pkg/cairo"

	"github.com/novvoo/go-pdf-utils/internal/logging"
	"github.com/novvoo/go-pdf-utils/pkg/pdfdoc"
	"github.com/novvoo/go-pdf-utils/pkg/watermark"
)

// Options 预览参数
type Options struct {
	DPI float64 // 默认 72
	// StampOpacity 文本框填充的不透明度，默认 0.5
	StampOpacity float64
}

// Renderer 水印布局预览
type Renderer struct {
	opts    Options
	metrics pdfdoc.FontMetrics
}

// NewRenderer 创建预览渲染器
func NewRenderer(opts Options) *Renderer {
	if opts.DPI <= 0 {
		opts.DPI = 72
	}
	if opts.StampOpacity <= 0 || opts.StampOpacity > 1 {
		opts.StampOpacity = 0.5
	}
	return &Renderer{opts: opts, metrics: pdfdoc.StandardMetrics{}}
}

// StampBox 返回水印文本框的四个角（页面坐标）：
// 文本空间中从基线原点 (0, 0) 到 (宽度, 字号) 的矩形，经文本矩阵变换。
func StampBox(spec *watermark.Spec, p watermark.Placement, metrics pdfdoc.FontMetrics) [4]Point {
	w := metrics.StringWidth(spec.Text(), spec.FontFamily()) * spec.FontSize() / 1000
	h := spec.FontSize()
	m := pdfdoc.NewTextMatrix(p.Rotation, p.X, p.Y)

	var box [4]Point
	for i, c := range [4][2]float64{{0, 0}, {w, 0}, {w, h}, {0, h}} {
		x, y := m.Transform(c[0], c[1])
		box[i] = Point{X: x, Y: y}
	}
	return box
}

// Render 绘制页面边框与水印文本框。文本为空时只绘制页面。
func (r *Renderer) Render(page pdfdoc.PageGeometry, spec *watermark.Spec) (image.Image, error) {
	conv := newConverter(page.Height, r.opts.DPI)
	width := int(math.Ceil(page.Width * conv.scale))
	height := int(math.Ceil(page.Height * conv.scale))
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid page size %gx%g", page.Width, page.Height)
	}

	surface := cairo.NewImageSurface(cairo.FormatARGB32, width, height)
	defer surface.Destroy()
	imgSurf, ok := surface.(cairo.ImageSurface)
	if !ok {
		return nil, fmt.Errorf("failed to create image surface")
	}

	ctx := cairo.NewContext(surface)
	defer ctx.Destroy()

	// 页面背景与边框
	ctx.SetSourceRGB(1, 1, 1)
	ctx.Paint()
	ctx.SetSourceRGB(0.6, 0.6, 0.6)
	ctx.SetLineWidth(1)
	ctx.Rectangle(0.5, 0.5, float64(width)-1, float64(height)-1)
	ctx.Stroke()

	p, ok := watermark.Place(spec, page, r.metrics.StringWidth)
	if !ok {
		logging.Debug("preview: empty watermark text, drawing page only")
		return surfaceToImage(imgSurf)
	}

	box := StampBox(spec, p, r.metrics)
	fill := p.Fill
	red, green, blue := float64(fill.R)/255, float64(fill.G)/255, float64(fill.B)/255

	// 文本框：半透明填充加描边
	x, y := conv.toImage(box[0])
	ctx.MoveTo(x, y)
	for _, pt := range box[1:] {
		x, y = conv.toImage(pt)
		ctx.LineTo(x, y)
	}
	ctx.ClosePath()
	ctx.SetSourceRGBA(red, green, blue, r.opts.StampOpacity)
	ctx.FillPreserve()
	ctx.SetSourceRGB(red*0.7, green*0.7, blue*0.7)
	ctx.SetLineWidth(1)
	ctx.Stroke()

	// 文本原点
	ox, oy := conv.toImage(Point{X: p.X, Y: p.Y})
	ctx.Arc(ox, oy, 3, 0, 2*math.Pi)
	ctx.SetSourceRGB(0.8, 0, 0)
	ctx.Fill()

	logging.Debug("preview: stamp origin (%.2f, %.2f) -> pixel (%.1f, %.1f)", p.X, p.Y, ox, oy)
	if logging.GetLogger().Level() <= logging.LevelDebug {
		lo, hi := pixelBounds(conv, box)
		// 像素框换算回页面坐标，检查取整误差
		pl, ph := conv.toPage(lo.X, hi.Y), conv.toPage(hi.X, lo.Y)
		logging.Debug("preview: stamp pixel box (%.1f, %.1f)-(%.1f, %.1f), page (%.2f, %.2f)-(%.2f, %.2f)",
			lo.X, lo.Y, hi.X, hi.Y, pl.X, pl.Y, ph.X, ph.Y)
	}
	return surfaceToImage(imgSurf)
}

// pixelBounds 文本框在图像中的外接矩形（像素坐标）
func pixelBounds(conv converter, box [4]Point) (lo, hi Point) {
	for i, pt := range box {
		x, y := conv.toImage(pt)
		if i == 0 {
			lo, hi = Point{X: x, Y: y}, Point{X: x, Y: y}
			continue
		}
		lo.X, lo.Y = math.Min(lo.X, x), math.Min(lo.Y, y)
		hi.X, hi.Y = math.Max(hi.X, x), math.Max(hi.Y, y)
	}
	return lo, hi
}

// WritePNG 渲染并以 PNG 格式写入 w
func (r *Renderer) WritePNG(w io.Writer, page pdfdoc.PageGeometry, spec *watermark.Spec) error {
	img, err := r.Render(page, spec)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to write PNG: %w", err)
	}
	return nil
}
