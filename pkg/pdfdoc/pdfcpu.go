package pdfdoc

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/novvoo/go-pdf-utils/internal/logging"
)

// ErrClosed 对已关闭的文档或内容流进行操作
var ErrClosed = errors.New("document is closed")

// PDFCPULoader 基于 pdfcpu 的 Loader 实现
type PDFCPULoader struct {
	// NewConfig 为每次操作创建 pdfcpu 配置；为 nil 时使用宽松校验的默认配置
	NewConfig func() *model.Configuration
}

// NewLoader 创建默认的 pdfcpu 加载器
func NewLoader() *PDFCPULoader {
	return &PDFCPULoader{}
}

func (l *PDFCPULoader) config() *model.Configuration {
	if l.NewConfig != nil {
		return l.NewConfig()
	}
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Load 解析并校验 PDF。data 会被复制，调用方的缓冲区不会被修改。
func (l *PDFCPULoader) Load(data []byte) (Document, error) {
	src := bytes.Clone(data)

	ctx, err := api.ReadContext(bytes.NewReader(src), l.config())
	if err != nil {
		return nil, WrapIO("load", 0, err)
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, WrapIO("validate", 0, err)
	}

	logging.Debug("loaded PDF: %d bytes, %d pages", len(src), ctx.PageCount)
	return newDocument(l, ctx, src), nil
}

// Empty 创建零页文档，info 中的非空字段写入信息字典
func (l *PDFCPULoader) Empty(info Info) (Document, error) {
	src := NewRawPDF(nil, info)

	// 零页文档无法通过页树校验，这里只解析
	ctx, err := api.ReadContext(bytes.NewReader(src), l.config())
	if err != nil {
		return nil, WrapIO("create", 0, err)
	}
	return newDocument(l, ctx, src), nil
}

type document struct {
	loader *PDFCPULoader
	ctx    *model.Context
	src    []byte
	dirty  bool
	closed bool
	fonts  map[string]types.IndirectRef // 标准字体名 -> 字体字典引用
}

func newDocument(l *PDFCPULoader, ctx *model.Context, src []byte) *document {
	return &document{
		loader: l,
		ctx:    ctx,
		src:    src,
		fonts:  make(map[string]types.IndirectRef),
	}
}

func (d *document) PageCount() int {
	if d.closed {
		return 0
	}
	return d.ctx.PageCount
}

func (d *document) checkPage(op string, n int) error {
	if d.closed {
		return WrapIO(op, n, ErrClosed)
	}
	if n < 1 || n > d.ctx.PageCount {
		return WrapIO(op, n, fmt.Errorf("invalid page number: %d (total pages: %d)", n, d.ctx.PageCount))
	}
	return nil
}

func (d *document) Page(n int) (PageGeometry, error) {
	if err := d.checkPage("page", n); err != nil {
		return PageGeometry{}, err
	}

	_, _, inh, err := d.ctx.PageDict(n, false)
	if err != nil {
		return PageGeometry{}, WrapIO("page", n, err)
	}

	// 默认页面尺寸（Letter size: 8.5 x 11 inches）
	g := PageGeometry{Width: 612, Height: 792}
	if inh != nil {
		if inh.MediaBox != nil {
			g.Width = inh.MediaBox.Width()
			g.Height = inh.MediaBox.Height()
		} else {
			logging.Warn("page %d has no MediaBox, assuming Letter", n)
		}
		g.Rotation = NormalizeRotation(inh.Rotate)
	}
	return g, nil
}

func (d *document) NewContentStream(n int) (ContentStream, error) {
	if err := d.checkPage("open content stream", n); err != nil {
		return nil, err
	}
	return &pageContent{doc: d, page: n, fonts: make(map[string]string)}, nil
}

// CopyPages 复制 [start, end] 页到新文档；start > end 时返回零页文档。
// 源文档信息字典中的 Title、Subject、Author 会带到新文档。
func (d *document) CopyPages(start, end int) (Document, error) {
	if d.closed {
		return nil, WrapIO("copy pages", 0, ErrClosed)
	}
	info, err := d.info()
	if err != nil {
		return nil, WrapIO("copy pages", 0, err)
	}
	if start > end {
		return d.loader.Empty(info)
	}
	if start < 1 || end > d.ctx.PageCount {
		return nil, WrapIO("copy pages", 0, fmt.Errorf("invalid page range %d-%d (total pages: %d)", start, end, d.ctx.PageCount))
	}

	src := d.src
	if d.dirty {
		var buf bytes.Buffer
		if err := d.Save(&buf); err != nil {
			return nil, err
		}
		src = buf.Bytes()
	}

	var out bytes.Buffer
	selected := []string{fmt.Sprintf("%d-%d", start, end)}
	if err := api.Trim(bytes.NewReader(src), &out, selected, d.loader.config()); err != nil {
		return nil, WrapIO("copy pages", 0, err)
	}
	cp, err := d.loader.Load(out.Bytes())
	if err != nil {
		return nil, err
	}
	if err := cp.SetInfo(info); err != nil {
		cp.Close()
		return nil, err
	}
	return cp, nil
}

func (d *document) Info() (Info, error) {
	if d.closed {
		return Info{}, WrapIO("read info", 0, ErrClosed)
	}
	info, err := d.info()
	if err != nil {
		return Info{}, WrapIO("read info", 0, err)
	}
	return info, nil
}

// info 读取信息字典中的 Title、Subject、Author；缺失或不是字符串的字段为空
func (d *document) info() (Info, error) {
	var info Info
	if d.ctx.Info == nil {
		return info, nil
	}
	dict, err := d.ctx.DereferenceDict(*d.ctx.Info)
	if err != nil || dict == nil {
		return info, err
	}

	for key, dst := range map[string]*string{"Title": &info.Title, "Subject": &info.Subject, "Author": &info.Author} {
		obj, found := dict.Find(key)
		if !found || obj == nil {
			continue
		}
		obj, err := d.ctx.Dereference(obj)
		if err != nil {
			return Info{}, err
		}
		switch o := obj.(type) {
		case types.StringLiteral:
			raw, _ := readLiteral([]byte("("+string(o)+")"), 0)
			*dst = decodeTextString(raw)
		case types.HexLiteral:
			raw, _ := readHex([]byte("<"+string(o)+">"), 0)
			*dst = decodeTextString(raw)
		}
	}
	return info, nil
}

func (d *document) SetInfo(info Info) error {
	if d.closed {
		return WrapIO("set info", 0, ErrClosed)
	}
	if info.Empty() {
		return nil
	}

	var dict types.Dict
	if d.ctx.Info != nil {
		existing, err := d.ctx.DereferenceDict(*d.ctx.Info)
		if err != nil {
			return WrapIO("set info", 0, err)
		}
		dict = existing
	}
	if dict == nil {
		dict = types.NewDict()
		ref, err := d.ctx.IndRefForNewObject(dict)
		if err != nil {
			return WrapIO("set info", 0, err)
		}
		d.ctx.Info = ref
	}

	for _, kv := range [][2]string{{"Title", info.Title}, {"Subject", info.Subject}, {"Author", info.Author}} {
		if kv[1] == "" {
			continue
		}
		raw, utf16, err := encodeTextString(kv[1])
		if err != nil {
			return WrapIO("set info", 0, fmt.Errorf("encode %s: %w", kv[0], err))
		}
		if utf16 {
			dict[kv[0]] = types.HexLiteral(hex.EncodeToString(raw))
		} else {
			dict[kv[0]] = types.StringLiteral(escapeLiteral(raw))
		}
	}

	d.dirty = true
	return nil
}

func (d *document) PageText(n int) (string, error) {
	if err := d.checkPage("extract text", n); err != nil {
		return "", err
	}

	r, err := pdfcpu.ExtractPageContent(d.ctx, n)
	if err != nil {
		return "", WrapIO("extract text", n, err)
	}
	if r == nil {
		return "", nil
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return "", WrapIO("extract text", n, err)
	}
	return ExtractTextFromStream(content), nil
}

func (d *document) Save(w io.Writer) error {
	if d.closed {
		return WrapIO("save", 0, ErrClosed)
	}
	if err := api.WriteContext(d.ctx, w); err != nil {
		return WrapIO("save", 0, err)
	}
	return nil
}

func (d *document) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.ctx = nil
	d.src = nil
	d.fonts = nil
	return nil
}

// fontRef 每个文档每种字体只创建一个字体字典
func (d *document) fontRef(family string) (types.IndirectRef, error) {
	if ref, ok := d.fonts[family]; ok {
		return ref, nil
	}

	fd := types.Dict{
		"Type":     types.Name("Font"),
		"Subtype":  types.Name("Type1"),
		"BaseFont": types.Name(family),
	}
	if !symbolicFont(family) {
		fd["Encoding"] = types.Name("WinAnsiEncoding")
	}

	ref, err := d.ctx.IndRefForNewObject(fd)
	if err != nil {
		return types.IndirectRef{}, err
	}
	d.fonts[family] = *ref
	return *ref, nil
}

func (d *document) newStream(content []byte) (types.IndirectRef, error) {
	sd, err := d.ctx.NewStreamDictForBuf(content)
	if err != nil {
		return types.IndirectRef{}, err
	}
	if err := sd.Encode(); err != nil {
		return types.IndirectRef{}, err
	}
	ref, err := d.ctx.IndRefForNewObject(*sd)
	if err != nil {
		return types.IndirectRef{}, err
	}
	return *ref, nil
}

// pageResources 返回页面资源字典的浅拷贝（自身或继承的）
func (d *document) pageResources(pageDict types.Dict, inh *model.InheritedPageAttrs) (types.Dict, error) {
	if obj, found := pageDict.Find("Resources"); found && obj != nil {
		res, err := d.ctx.DereferenceDict(obj)
		if err != nil {
			return nil, err
		}
		if res != nil {
			return cloneDict(res), nil
		}
	}
	if inh != nil && inh.Resources != nil {
		return cloneDict(inh.Resources), nil
	}
	return types.NewDict(), nil
}

// pageFonts 返回页面字体资源字典的浅拷贝
func (d *document) pageFonts(res types.Dict) (types.Dict, error) {
	obj, found := res.Find("Font")
	if !found || obj == nil {
		return types.NewDict(), nil
	}
	fonts, err := d.ctx.DereferenceDict(obj)
	if err != nil {
		return nil, err
	}
	if fonts == nil {
		return types.NewDict(), nil
	}
	return cloneDict(fonts), nil
}

// contentArray 把页面现有的 /Contents 统一成引用数组
func (d *document) contentArray(pageDict types.Dict) (types.Array, error) {
	obj, found := pageDict.Find("Contents")
	if !found || obj == nil {
		return nil, nil
	}

	switch o := obj.(type) {
	case types.IndirectRef:
		deref, err := d.ctx.Dereference(o)
		if err != nil {
			return nil, err
		}
		if arr, ok := deref.(types.Array); ok {
			return append(types.Array(nil), arr...), nil
		}
		return types.Array{o}, nil
	case types.Array:
		return append(types.Array(nil), o...), nil
	case types.StreamDict:
		ref, err := d.ctx.IndRefForNewObject(o)
		if err != nil {
			return nil, err
		}
		return types.Array{*ref}, nil
	}
	return nil, fmt.Errorf("unexpected /Contents type %T", obj)
}

// freeFontName 在页面字体资源中找一个未使用的名称
func (d *document) freeFontName(page int, taken map[string]string) (string, error) {
	pageDict, _, inh, err := d.ctx.PageDict(page, false)
	if err != nil {
		return "", err
	}
	res, err := d.pageResources(pageDict, inh)
	if err != nil {
		return "", err
	}
	fonts, err := d.pageFonts(res)
	if err != nil {
		return "", err
	}
	for i := 1; ; i++ {
		name := fmt.Sprintf("WmF%d", i)
		if _, used := fonts[name]; used {
			continue
		}
		if _, used := taken[name]; used {
			continue
		}
		return name, nil
	}
}

// appendContent 提交一个内容流：原有内容包在 q/Q 中，新内容追加在最后
func (d *document) appendContent(page int, content []byte, fonts map[string]string) error {
	pageDict, _, inh, err := d.ctx.PageDict(page, false)
	if err != nil {
		return err
	}

	if len(fonts) > 0 {
		res, err := d.pageResources(pageDict, inh)
		if err != nil {
			return err
		}
		fontRes, err := d.pageFonts(res)
		if err != nil {
			return err
		}
		for name, family := range fonts {
			ref, err := d.fontRef(family)
			if err != nil {
				return err
			}
			fontRes[name] = ref
		}
		res["Font"] = fontRes
		pageDict["Resources"] = res
	}

	existing, err := d.contentArray(pageDict)
	if err != nil {
		return err
	}

	contents := make(types.Array, 0, len(existing)+2)
	if len(existing) > 0 {
		headRef, err := d.newStream([]byte("q\n"))
		if err != nil {
			return err
		}
		tailRef, err := d.newStream(append([]byte("Q\n"), content...))
		if err != nil {
			return err
		}
		contents = append(contents, headRef)
		contents = append(contents, existing...)
		contents = append(contents, tailRef)
	} else {
		// 没有原有内容时不需要 q/Q
		ref, err := d.newStream(content)
		if err != nil {
			return err
		}
		contents = append(contents, ref)
	}
	pageDict["Contents"] = contents

	d.dirty = true
	return nil
}

func cloneDict(src types.Dict) types.Dict {
	dst := types.NewDict()
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
