package preview

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/novvoo/go-cairo/pkg/cairo"
)

// surfaceToImage 复制 surface 的绘制结果为 NRGBA 图像。
// go-cairo 的光栅化结果保存在 GetGoImage 返回的 Go 图像中。
func surfaceToImage(surf cairo.ImageSurface) (*image.NRGBA, error) {
	src := surf.GetGoImage()
	if src == nil {
		return nil, fmt.Errorf("image surface has no backing image")
	}

	bounds := src.Bounds()
	img := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(img, img.Bounds(), src, bounds.Min, draw.Src)
	return img, nil
}
