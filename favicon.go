package appicon

import (
	"fmt"
	"image"
	"io"

	ico "github.com/sergeymakinen/go-ico"
	"golang.org/x/image/draw"
)

// encodeFavicon scales img into a square of the given size and encodes it in ICO format.
func encodeFavicon(w io.Writer, img image.Image, size int) error {
	if size <= 0 || size > MaxFaviconSize {
		return fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	if err := ico.Encode(w, dst); err != nil {
		return fmt.Errorf("could not encode the favicon: %w", err)
	}
	return nil
}
