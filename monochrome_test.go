package appicon

import (
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMonochrome_ShouldKeepShapeInAlpha(t *testing.T) {
	assert := assert.New(t)

	img := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	img.SetNRGBA(1, 0, color.NRGBA{A: 0xff})
	img.SetNRGBA(2, 0, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x80})

	res := monochrome(img)

	assert.Equal(color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, res.NRGBAAt(0, 0))
	assert.Equal(color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x80}, res.NRGBAAt(1, 0))
	assert.Equal(color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x80}, res.NRGBAAt(2, 0))
	assert.Equal(color.NRGBA{}, res.NRGBAAt(3, 0))
}

func TestMonochrome_ShouldBeGeneratedByProcessor(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	proc := &Processor{Size: 64, Monochrome: true}
	res, err := proc.Process(strings.NewReader(halfSVG), dir, DefaultNames)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(filepath.Join(dir, "app_icon_monochrome.png"), res.Monochrome)
	assert.Contains(res.Paths(), res.Monochrome)

	img := openImage(t, res.Monochrome)
	assert.Equal(color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xa6}, img.NRGBAAt(8, 32))
	assert.Equal(uint8(0), img.NRGBAAt(56, 32).A)
}
