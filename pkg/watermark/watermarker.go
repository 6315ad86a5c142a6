package watermark

import (
	"bytes"
	"errors"

	"github.com/novvoo/go-pdf-utils/internal/logging"
	"github.com/novvoo/go-pdf-utils/pkg/pdfdoc"
)

// Watermarker 把同一个水印绘制到文档的每一页
type Watermarker struct {
	Spec    *Spec
	Loader  pdfdoc.Loader
	Metrics pdfdoc.FontMetrics
}

// New 创建使用 pdfcpu 后端和标准字体度量的 Watermarker
func New(spec *Spec) *Watermarker {
	return &Watermarker{
		Spec:    spec,
		Loader:  pdfdoc.NewLoader(),
		Metrics: pdfdoc.StandardMetrics{},
	}
}

// Watermark 返回加了水印的新文档，src 不会被修改。
// 文本为空时直接返回 src 的副本，不解析文档。
func (w *Watermarker) Watermark(src []byte) ([]byte, error) {
	spec := w.Spec
	if spec == nil {
		spec = DefaultSpec()
	}
	if spec.IsNoop() {
		logging.Debug("empty watermark text, returning a copy of the input")
		return bytes.Clone(src), nil
	}

	doc, err := w.Loader.Load(src)
	if err != nil {
		return nil, pdfdoc.WrapIO("load", 0, err)
	}

	out, err := w.stampAll(doc, spec)
	if cerr := doc.Close(); cerr != nil {
		if err == nil {
			err = pdfdoc.WrapIO("close", 0, cerr)
		} else {
			logging.Warn("failed to close document: %v", cerr)
		}
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// WatermarkBlob 与 Watermark 相同，保留文件名，媒体类型固定为 application/pdf
func (w *Watermarker) WatermarkBlob(src *pdfdoc.Blob) (*pdfdoc.Blob, error) {
	if src == nil {
		return nil, pdfdoc.WrapIO("load", 0, errors.New("nil blob"))
	}
	data, err := w.Watermark(src.Data)
	if err != nil {
		return nil, err
	}
	return &pdfdoc.Blob{Data: data, FileName: src.FileName, MimeType: pdfdoc.MimeType}, nil
}

func (w *Watermarker) stampAll(doc pdfdoc.Document, spec *Spec) ([]byte, error) {
	metrics := w.Metrics
	if metrics == nil {
		metrics = pdfdoc.StandardMetrics{}
	}

	n := doc.PageCount()
	logging.Info("watermarking %d pages with %q", n, spec.Text())

	for i := 1; i <= n; i++ {
		if err := w.stampPage(doc, i, spec, metrics.StringWidth); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, pdfdoc.WrapIO("save", 0, err)
	}
	return buf.Bytes(), nil
}

func (w *Watermarker) stampPage(doc pdfdoc.Document, n int, spec *Spec, width StringWidthFunc) (err error) {
	page, err := doc.Page(n)
	if err != nil {
		return pdfdoc.WrapIO("page", n, err)
	}

	p, ok := Place(spec, page, width)
	if !ok {
		return nil
	}
	logging.Debug("page %d (%gx%g, rotate %d): origin (%.2f, %.2f), angle %.4f rad, fill %s",
		n, page.Width, page.Height, page.Rotation, p.X, p.Y, p.Rotation, p.Fill)

	cs, err := doc.NewContentStream(n)
	if err != nil {
		return pdfdoc.WrapIO("stamp", n, err)
	}
	defer func() {
		if cerr := cs.Close(); cerr != nil && err == nil {
			err = pdfdoc.WrapIO("stamp", n, cerr)
		}
	}()

	cs.BeginText()
	cs.SetFont(spec.FontFamily(), spec.FontSize())
	cs.SetFillColor(p.Fill.R, p.Fill.G, p.Fill.B)
	cs.SetTextTransform(p.Rotation, p.X, p.Y)
	cs.DrawString(spec.Text())
	cs.EndText()
	return nil
}
