package pdfdoc

import (
	"fmt"
	"math"
	"strconv"
)

// Matrix PDF 仿射变换矩阵 [a b c d e f]
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
type Matrix struct {
	A, B, C, D, E, F float64
}

// NewIdentityMatrix 创建单位矩阵
func NewIdentityMatrix() Matrix {
	return Matrix{A: 1, D: 1}
}

// NewTranslationMatrix 创建平移矩阵
func NewTranslationMatrix(tx, ty float64) Matrix {
	return Matrix{A: 1, D: 1, E: tx, F: ty}
}

// NewRotationMatrix 创建旋转矩阵（弧度，逆时针）
func NewRotationMatrix(theta float64) Matrix {
	cos := math.Cos(theta)
	sin := math.Sin(theta)
	return Matrix{A: cos, B: sin, C: -sin, D: cos}
}

// NewTextMatrix 文本矩阵：先绕原点旋转 theta，再平移到 (x, y)
func NewTextMatrix(theta, x, y float64) Matrix {
	return NewRotationMatrix(theta).Multiply(NewTranslationMatrix(x, y))
}

// Multiply 矩阵乘法 m × other：先应用 m，再应用 other
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.B*other.C,
		B: m.A*other.B + m.B*other.D,
		C: m.C*other.A + m.D*other.C,
		D: m.C*other.B + m.D*other.D,
		E: m.E*other.A + m.F*other.C + other.E,
		F: m.E*other.B + m.F*other.D + other.F,
	}
}

// Transform 对点进行变换
func (m Matrix) Transform(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// Invert 计算逆矩阵
func (m Matrix) Invert() (Matrix, error) {
	det := m.A*m.D - m.B*m.C
	if math.Abs(det) < 1e-10 {
		return Matrix{}, fmt.Errorf("matrix is not invertible (determinant is zero)")
	}

	inv := 1.0 / det
	return Matrix{
		A: m.D * inv,
		B: -m.B * inv,
		C: -m.C * inv,
		D: m.A * inv,
		E: (m.C*m.F - m.D*m.E) * inv,
		F: (m.B*m.E - m.A*m.F) * inv,
	}, nil
}

// Operands 以内容流操作数格式输出六个分量
func (m Matrix) Operands() string {
	return formatNumber(m.A) + " " + formatNumber(m.B) + " " +
		formatNumber(m.C) + " " + formatNumber(m.D) + " " +
		formatNumber(m.E) + " " + formatNumber(m.F)
}

func (m Matrix) String() string {
	return fmt.Sprintf("[%.3f %.3f %.3f %.3f %.3f %.3f]", m.A, m.B, m.C, m.D, m.E, m.F)
}

// formatNumber 最多保留 4 位小数，去掉多余的零；-0 输出为 0
func formatNumber(v float64) string {
	s := strconv.FormatFloat(math.Round(v*1e4)/1e4, 'f', -1, 64)
	if s == "-0" {
		return "0"
	}
	return s
}
