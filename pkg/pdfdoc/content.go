package pdfdoc

import (
	"bytes"
	"fmt"
)

// pageContent 缓冲绘制操作，Close 时一次性追加到页面。
// 第一个错误会被记住，之后的调用都是空操作，Close 返回该错误。
type pageContent struct {
	doc    *document
	page   int
	buf    bytes.Buffer
	fonts  map[string]string // 资源名 -> 标准字体名
	font   string            // 当前字体
	err    error
	closed bool
}

// ok 关闭后或出错后的绘制调用被忽略
func (c *pageContent) ok() bool {
	if c.err == nil && !c.closed && c.doc.closed {
		c.err = ErrClosed
	}
	return !c.closed && c.err == nil
}

func (c *pageContent) BeginText() {
	if !c.ok() {
		return
	}
	c.buf.WriteString("BT\n")
}

func (c *pageContent) SetFont(family string, size float64) {
	if !c.ok() {
		return
	}
	name, ok := MatchStandardFont(family)
	if !ok {
		c.err = fmt.Errorf("unsupported font %q", family)
		return
	}

	res := ""
	for k, v := range c.fonts {
		if v == name {
			res = k
			break
		}
	}
	if res == "" {
		free, err := c.doc.freeFontName(c.page, c.fonts)
		if err != nil {
			c.err = err
			return
		}
		res = free
		c.fonts[res] = name
	}

	c.font = name
	fmt.Fprintf(&c.buf, "/%s %s Tf\n", res, formatNumber(size))
}

func (c *pageContent) SetFillColor(r, g, b uint8) {
	if !c.ok() {
		return
	}
	fmt.Fprintf(&c.buf, "%s %s %s rg\n",
		formatNumber(float64(r)/255), formatNumber(float64(g)/255), formatNumber(float64(b)/255))
}

func (c *pageContent) SetTextTransform(theta, x, y float64) {
	if !c.ok() {
		return
	}
	fmt.Fprintf(&c.buf, "%s Tm\n", NewTextMatrix(theta, x, y).Operands())
}

func (c *pageContent) DrawString(s string) {
	if !c.ok() {
		return
	}
	if c.font == "" {
		c.err = fmt.Errorf("DrawString before SetFont")
		return
	}

	var encoded []byte
	if symbolicFont(c.font) {
		encoded = []byte(s)
	} else {
		b, err := encodeWinAnsi(s)
		if err != nil {
			c.err = fmt.Errorf("encode text: %w", err)
			return
		}
		encoded = b
	}
	fmt.Fprintf(&c.buf, "(%s) Tj\n", escapeLiteral(encoded))
}

func (c *pageContent) EndText() {
	if !c.ok() {
		return
	}
	c.buf.WriteString("ET\n")
}

func (c *pageContent) Close() error {
	if c.closed {
		return c.wrapped()
	}
	c.closed = true

	if c.err != nil {
		return c.wrapped()
	}
	if c.doc.closed {
		c.err = ErrClosed
		return c.wrapped()
	}
	if c.buf.Len() == 0 {
		return nil
	}
	if err := c.doc.appendContent(c.page, c.buf.Bytes(), c.fonts); err != nil {
		c.err = err
		return c.wrapped()
	}
	return nil
}

func (c *pageContent) wrapped() error {
	if c.err == nil {
		return nil
	}
	return WrapIO("write content", c.page, c.err)
}
