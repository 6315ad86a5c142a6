package pdfdoc

import (
	"encoding/hex"
	"strings"
)

// ExtractTextFromStream 从解码后的内容流中提取显示的文本。
// 支持 Tj、TJ、' 和 " 操作符；字符串按 WinAnsiEncoding 解码，
// 每个 BT/ET 文本对象之间以换行分隔。
func ExtractTextFromStream(stream []byte) string {
	var result strings.Builder
	var pending [][]byte // 等待操作符的字符串操作数
	inArray := false

	flush := func() {
		for _, s := range pending {
			result.WriteString(decodeWinAnsi(s))
		}
		pending = pending[:0]
	}

	i := 0
	for i < len(stream) {
		ch := stream[i]
		switch {
		case isWhite(ch):
			i++

		case ch == '%':
			// 注释直到行尾
			for i < len(stream) && stream[i] != '\n' && stream[i] != '\r' {
				i++
			}

		case ch == '(':
			s, next := readLiteral(stream, i)
			pending = append(pending, s)
			i = next

		case ch == '<' && i+1 < len(stream) && stream[i+1] == '<':
			// 内联字典（BDC 等的属性），跳过
			i = skipDict(stream, i)

		case ch == '<':
			s, next := readHex(stream, i)
			pending = append(pending, s)
			i = next

		case ch == '[':
			inArray = true
			pending = pending[:0]
			i++

		case ch == ']':
			inArray = false
			i++

		default:
			start := i
			for i < len(stream) && !isWhite(stream[i]) && !isDelimiter(stream[i]) {
				i++
			}
			if i == start {
				i++
				continue
			}
			token := string(stream[start:i])
			if inArray {
				continue // TJ 数组中的字距调整数字
			}
			switch token {
			case "Tj", "TJ":
				flush()
			case "'", "\"":
				result.WriteByte('\n')
				flush()
			case "ET":
				result.WriteByte('\n')
				pending = pending[:0]
			default:
				if !isOperand(token) {
					pending = pending[:0]
				}
			}
		}
	}

	return result.String()
}

func isWhite(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// isOperand 数字和名称是操作数，其余 token 视为操作符
func isOperand(tok string) bool {
	if tok == "" {
		return false
	}
	c := tok[0]
	return c == '/' || c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9')
}

// readLiteral 读取从 stream[i] == '(' 开始的字面量字符串，处理嵌套括号与转义
func readLiteral(stream []byte, i int) ([]byte, int) {
	var out []byte
	depth := 1
	i++
	for i < len(stream) && depth > 0 {
		c := stream[i]
		switch c {
		case '\\':
			i++
			if i >= len(stream) {
				return out, i
			}
			e := stream[i]
			switch e {
			case 'n':
				out = append(out, '\n')
			case 'r':
				out = append(out, '\r')
			case 't':
				out = append(out, '\t')
			case 'b':
				out = append(out, '\b')
			case 'f':
				out = append(out, '\f')
			case '\r', '\n':
				// 续行
				if e == '\r' && i+1 < len(stream) && stream[i+1] == '\n' {
					i++
				}
			default:
				if e >= '0' && e <= '7' {
					v := 0
					n := 0
					for n < 3 && i < len(stream) && stream[i] >= '0' && stream[i] <= '7' {
						v = v*8 + int(stream[i]-'0')
						i++
						n++
					}
					out = append(out, byte(v))
					continue
				}
				out = append(out, e)
			}
			i++
			continue
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				i++
				continue
			}
		}
		out = append(out, c)
		i++
	}
	return out, i
}

// readHex 读取 <...> 十六进制字符串；奇数位时末尾补 0
func readHex(stream []byte, i int) ([]byte, int) {
	i++
	var digits []byte
	for i < len(stream) && stream[i] != '>' {
		if !isWhite(stream[i]) {
			digits = append(digits, stream[i])
		}
		i++
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, hex.DecodedLen(len(digits)))
	n, _ := hex.Decode(out, digits)
	return out[:n], i + 1
}

func skipDict(stream []byte, i int) int {
	depth := 0
	for i+1 < len(stream) {
		if stream[i] == '<' && stream[i+1] == '<' {
			depth++
			i += 2
			continue
		}
		if stream[i] == '>' && stream[i+1] == '>' {
			depth--
			i += 2
			if depth == 0 {
				return i
			}
			continue
		}
		if stream[i] == '(' {
			_, i = readLiteral(stream, i)
			continue
		}
		i++
	}
	return len(stream)
}
