package pdfdoc

import (
	"bytes"
	"fmt"
)

// BlankPage 描述 NewRawPDF 生成的一页
type BlankPage struct {
	Width    float64
	Height   float64
	Rotation int
	// Text 非空时用 Helvetica 12pt 写在页面左下 (72, 72) 处
	Text string
}

// NewRawPDF 直接写出一个结构完整（xref 偏移正确）的最小 PDF。
// pages 为空时生成零页文档，用于空的页面提取结果和测试用例。
func NewRawPDF(pages []BlankPage, info Info) []byte {
	w := &rawWriter{}
	w.buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")

	// 对象编号：1 Catalog，2 Pages，3 Font，4 Info，之后每页 2 个（Page + Contents）
	const (
		catalogNr = 1
		pagesNr   = 2
		fontNr    = 3
		infoNr    = 4
		firstPage = 5
	)

	var kids bytes.Buffer
	for i := range pages {
		if i > 0 {
			kids.WriteByte(' ')
		}
		fmt.Fprintf(&kids, "%d 0 R", firstPage+2*i)
	}

	w.object(catalogNr, fmt.Sprintf("<< /Type /Catalog /Pages %d 0 R >>", pagesNr))
	w.object(pagesNr, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids.String(), len(pages)))
	w.object(fontNr, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	w.object(infoNr, infoDict(info))

	for i, p := range pages {
		pageNr := firstPage + 2*i
		contentsNr := pageNr + 1

		rotate := ""
		if r := NormalizeRotation(p.Rotation); r != 0 {
			rotate = fmt.Sprintf(" /Rotate %d", r)
		}
		w.object(pageNr, fmt.Sprintf(
			"<< /Type /Page /Parent %d 0 R /MediaBox [0 0 %s %s]%s /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
			pagesNr, formatNumber(p.Width), formatNumber(p.Height), rotate, fontNr, contentsNr))

		var content string
		if p.Text != "" {
			encoded, err := encodeWinAnsi(p.Text)
			if err != nil {
				encoded = []byte(p.Text)
			}
			content = fmt.Sprintf("BT\n/F1 12 Tf\n72 72 Td\n(%s) Tj\nET\n", escapeLiteral(encoded))
		}
		w.stream(contentsNr, content)
	}

	w.trailer(catalogNr, infoNr)
	return w.buf.Bytes()
}

func infoDict(info Info) string {
	var b bytes.Buffer
	b.WriteString("<< /Producer (go-pdf-utils)")
	for _, kv := range [][2]string{{"Title", info.Title}, {"Subject", info.Subject}, {"Author", info.Author}} {
		if kv[1] == "" {
			continue
		}
		raw, utf16, err := encodeTextString(kv[1])
		if err != nil {
			continue
		}
		if utf16 {
			fmt.Fprintf(&b, " /%s <%X>", kv[0], raw)
		} else {
			fmt.Fprintf(&b, " /%s (%s)", kv[0], escapeLiteral(raw))
		}
	}
	b.WriteString(" >>")
	return b.String()
}

// rawWriter 记录每个对象的字节偏移，用于生成 xref 表
type rawWriter struct {
	buf     bytes.Buffer
	offsets []int // 下标为对象编号
}

func (w *rawWriter) begin(nr int) {
	for len(w.offsets) <= nr {
		w.offsets = append(w.offsets, 0)
	}
	w.offsets[nr] = w.buf.Len()
	fmt.Fprintf(&w.buf, "%d 0 obj\n", nr)
}

func (w *rawWriter) object(nr int, body string) {
	w.begin(nr)
	w.buf.WriteString(body)
	w.buf.WriteString("\nendobj\n")
}

func (w *rawWriter) stream(nr int, content string) {
	w.begin(nr)
	fmt.Fprintf(&w.buf, "<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(content), content)
}

func (w *rawWriter) trailer(rootNr, infoNr int) {
	xref := w.buf.Len()
	fmt.Fprintf(&w.buf, "xref\n0 %d\n", len(w.offsets))
	w.buf.WriteString("0000000000 65535 f \n")
	for _, off := range w.offsets[1:] {
		fmt.Fprintf(&w.buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&w.buf, "trailer\n<< /Size %d /Root %d 0 R /Info %d 0 R >>\nstartxref\n%d\n%%%%EOF\n",
		len(w.offsets), rootNr, infoNr, xref)
}
