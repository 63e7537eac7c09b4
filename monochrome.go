package appicon

import (
	"image"

	"github.com/ekklesia/appicon/utils"
)

// monochrome converts the artwork into a single color silhouette, as expected by the
// themed launcher icons of Android 13. The shape is carried by the alpha channel only:
// every pixel becomes white, with an opacity given by its coverage and luminance, so
// dark details drawn over the artwork are still visible after the system tints the layer.
func monochrome(src *image.NRGBA) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		si := src.PixOffset(bounds.Min.X, y)
		di := dst.PixOffset(bounds.Min.X, y)
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := src.Pix[si+0], src.Pix[si+1], src.Pix[si+2], src.Pix[si+3]
			if a != 0 {
				lum := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
				// Black keeps half of its opacity, white all of it.
				alpha := float64(a) * (0.5 + lum/510)

				dst.Pix[di+0] = 0xff
				dst.Pix[di+1] = 0xff
				dst.Pix[di+2] = 0xff
				dst.Pix[di+3] = uint8(utils.Clamp(alpha+0.5, 0, 255))
			}
			si += 4
			di += 4
		}
	}
	return dst
}
