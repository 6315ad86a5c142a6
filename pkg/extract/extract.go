// Package extract 把文档中连续的一段页面复制成新文档。
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/novvoo/go-pdf-utils/internal/logging"
	"github.com/novvoo/go-pdf-utils/pkg/pdfdoc"
)

// DefaultBaseName 源文档没有文件名时使用的基础名
const DefaultBaseName = "extracted"

// Request 页面范围（从 1 开始，包含两端）与可选的元数据
type Request struct {
	Start, End int
	// FileName 为空时由源文件名和实际页码范围生成
	FileName string
	Title    string
	Subject  string
	Author   string
}

// Result 提取结果
type Result struct {
	pdfdoc.Blob
	// 实际复制的页码范围；空结果时都为 0
	Start, End int
	PageCount  int
}

// Extractor 页面范围提取器
type Extractor struct {
	Loader pdfdoc.Loader
}

// New 创建使用 pdfcpu 后端的 Extractor
func New() *Extractor {
	return &Extractor{Loader: pdfdoc.NewLoader()}
}

// Clamp 把请求的范围限制在 [1, pageCount] 内。
// 返回 ok 为 false 表示范围为空，应生成零页文档。
func Clamp(start, end, pageCount int) (int, int, bool) {
	if end > pageCount {
		end = pageCount
	}
	if start < 1 {
		start = 1
	}
	if start > end || start > pageCount {
		return start, end, false
	}
	return start, end, true
}

// FileName 生成 "<base>-<start>-<end>.pdf"。
// base 为源文件名去掉结尾的 .pdf（不区分大小写），源文件名为空时为 "extracted"。
func FileName(source string, start, end int) string {
	base := source
	if len(base) > len(".pdf") && strings.EqualFold(base[len(base)-len(".pdf"):], ".pdf") {
		base = base[:len(base)-len(".pdf")]
	}
	if base == "" {
		base = DefaultBaseName
	}
	return fmt.Sprintf("%s-%d-%d.pdf", base, start, end)
}

// Extract 复制 src 中 [req.Start, req.End] 的页面
func (e *Extractor) Extract(src *pdfdoc.Blob, req Request) (*Result, error) {
	if src == nil {
		return nil, pdfdoc.WrapIO("load", 0, errors.New("nil blob"))
	}

	doc, err := e.Loader.Load(src.Data)
	if err != nil {
		return nil, pdfdoc.WrapIO("load", 0, err)
	}
	defer func() {
		if cerr := doc.Close(); cerr != nil {
			logging.Warn("failed to close source document: %v", cerr)
		}
	}()

	total := doc.PageCount()
	start, end, ok := Clamp(req.Start, req.End, total)
	info := pdfdoc.Info{Title: req.Title, Subject: req.Subject, Author: req.Author}

	if ok {
		logging.Info("extracting pages %d-%d of %d", start, end, total)
	} else {
		logging.Info("page range %d-%d is empty for a %d-page document", req.Start, req.End, total)
	}
	// 范围为空时 start > end，CopyPages 返回带源文档信息的零页文档
	out, err := doc.CopyPages(start, end)
	if err != nil {
		return nil, pdfdoc.WrapIO("copy pages", 0, err)
	}

	res, err := e.finish(out, info)
	if cerr := out.Close(); cerr != nil && err == nil {
		err = pdfdoc.WrapIO("close", 0, cerr)
	}
	if err != nil {
		return nil, err
	}

	// 空结果没有实际范围，文件名使用请求的页码
	if !ok {
		start, end = req.Start, req.End
	} else {
		res.Start, res.End = start, end
	}
	res.FileName = req.FileName
	if res.FileName == "" {
		res.FileName = FileName(src.FileName, start, end)
	}
	return res, nil
}

func (e *Extractor) finish(out pdfdoc.Document, info pdfdoc.Info) (*Result, error) {
	if !info.Empty() {
		if err := out.SetInfo(info); err != nil {
			return nil, pdfdoc.WrapIO("set info", 0, err)
		}
	}

	var buf bytes.Buffer
	if err := out.Save(&buf); err != nil {
		return nil, pdfdoc.WrapIO("save", 0, err)
	}
	return &Result{
		Blob:      pdfdoc.Blob{Data: buf.Bytes(), MimeType: pdfdoc.MimeType},
		PageCount: out.PageCount(),
	}, nil
}
