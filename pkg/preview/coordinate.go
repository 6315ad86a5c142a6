package preview

// Point 页面坐标系中的点（point，原点在左下角）
type Point struct {
	X, Y float64
}

// converter PDF 坐标（原点左下，Y 向上）与图像坐标（原点左上，Y 向下）之间的转换
type converter struct {
	pageHeight float64
	scale      float64 // 像素 / point
}

func newConverter(pageHeight, dpi float64) converter {
	return converter{pageHeight: pageHeight, scale: dpi / 72.0}
}

// toImage 把页面坐标转换为像素坐标
func (c converter) toImage(p Point) (float64, float64) {
	return p.X * c.scale, (c.pageHeight - p.Y) * c.scale
}

// toPage 把像素坐标转换回页面坐标
func (c converter) toPage(x, y float64) Point {
	return Point{X: x / c.scale, Y: c.pageHeight - y/c.scale}
}
