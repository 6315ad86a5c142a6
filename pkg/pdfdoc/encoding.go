package pdfdoc

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// encodeWinAnsi 把 UTF-8 文本转为 WinAnsiEncoding 字节，无法编码的字符替换为替代字符
func encodeWinAnsi(s string) ([]byte, error) {
	enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
	return enc.Bytes([]byte(s))
}

// decodeWinAnsi 把 WinAnsiEncoding 字节还原为 UTF-8
func decodeWinAnsi(b []byte) string {
	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

// encodeTextString 文档信息字典的文本字符串：纯 ASCII 原样，其他使用带 BOM 的 UTF-16BE
func encodeTextString(s string) ([]byte, bool, error) {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return []byte(s), false, nil
	}
	enc := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder()
	b, err := enc.Bytes([]byte(s))
	return b, true, err
}

// decodeTextString 还原文档信息字典的文本字符串：带 BOM 的 UTF-16BE，
// 否则按 PDFDocEncoding 处理（与 WinAnsi 在可打印范围内基本一致）
func decodeTextString(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		out, err := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder().Bytes(b)
		if err == nil {
			return string(out)
		}
	}
	return decodeWinAnsi(b)
}

// escapeLiteral 生成 PDF 字面量字符串的内容（不含括号）
func escapeLiteral(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) + 8)
	for _, c := range b {
		switch c {
		case '\\', '(', ')':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
