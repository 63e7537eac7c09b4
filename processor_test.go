package appicon

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
)

var p *Processor

func init() {
	p = &Processor{
		Size: 64,
	}
}

func openImage(t *testing.T, path string) *image.NRGBA {
	t.Helper()

	img, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("could not open %s: %v", path, err)
	}
	return imgToNRGBA(img)
}

func TestProcessor_ShouldGenerateIconAndForeground(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	res, err := p.Process(strings.NewReader(halfSVG), dir, DefaultNames)
	if !assert.NoError(err) {
		return
	}
	assert.Equal(filepath.Join(dir, "app_icon.png"), res.Icon)
	assert.Equal(filepath.Join(dir, "app_icon_foreground.png"), res.Foreground)
	assert.Equal([]string{res.Icon, res.Foreground}, res.Paths())

	// The full icon holds the rasterized bytes as they are.
	want, err := NewRasterizer(64).RasterizePNG(strings.NewReader(halfSVG))
	assert.NoError(err)
	got, err := os.ReadFile(res.Icon)
	assert.NoError(err)
	assert.True(bytes.Equal(want, got), "the full icon should contain the rasterized PNG")

	icon := openImage(t, res.Icon)
	foreground := openImage(t, res.Foreground)

	assert.Equal(image.Rect(0, 0, 64, 64), foreground.Bounds())
	assert.Equal(icon.Pix, foreground.Pix)
	assert.Equal(color.NRGBA{R: 0xff, A: 0xff}, foreground.NRGBAAt(8, 32))
	assert.Equal(uint8(0), foreground.NRGBAAt(56, 32).A)
}

func TestProcessor_ShouldFlattenBackground(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	proc := &Processor{Size: 64, Background: "#ffffff"}
	res, err := proc.Process(strings.NewReader(halfSVG), dir, DefaultNames)
	if !assert.NoError(err) {
		return
	}

	icon := openImage(t, res.Icon)
	assert.Equal(color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, icon.NRGBAAt(56, 32))
	assert.Equal(color.NRGBA{R: 0xff, A: 0xff}, icon.NRGBAAt(8, 32))

	// The foreground layer keeps its transparency.
	foreground := openImage(t, res.Foreground)
	assert.Equal(uint8(0), foreground.NRGBAAt(56, 32).A)
}

func TestProcessor_ShouldComposeBackground(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	proc := &Processor{Size: 64, Background: "#0000ff", BackgroundOp: "dst_in"}
	res, err := proc.Process(strings.NewReader(halfSVG), dir, DefaultNames)
	if !assert.NoError(err) {
		return
	}

	// The background color only remains where the artwork is.
	icon := openImage(t, res.Icon)
	assert.Equal(color.NRGBA{B: 0xff, A: 0xff}, icon.NRGBAAt(8, 32))
	assert.Equal(uint8(0), icon.NRGBAAt(56, 32).A)
}

func TestProcessor_ShouldKeepAlphaOfOpaqueForeground(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	proc := &Processor{Size: 32, Monochrome: true}
	res, err := proc.Process(strings.NewReader(redSquareSVG), dir, DefaultNames)
	if !assert.NoError(err) {
		return
	}

	for _, path := range []string{res.Foreground, res.Monochrome} {
		f, err := os.Open(path)
		if !assert.NoError(err) {
			return
		}
		img, err := png.Decode(f)
		f.Close()
		if !assert.NoError(err) {
			return
		}

		// The decoder only returns *image.NRGBA for PNG files carrying an alpha channel.
		_, ok := img.(*image.NRGBA)
		assert.True(ok, "%s should be an RGBA PNG, got %T", path, img)
	}
	assert.Equal(color.NRGBA{R: 0xff, A: 0xff}, openImage(t, res.Foreground).NRGBAAt(16, 16))
}

func TestProcessor_ShouldInsetForeground(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	proc := &Processor{Size: 64, Inset: 25}
	res, err := proc.Process(strings.NewReader(redSquareSVG), dir, DefaultNames)
	if !assert.NoError(err) {
		return
	}

	foreground := openImage(t, res.Foreground)
	assert.Equal(image.Rect(0, 0, 64, 64), foreground.Bounds())
	assert.Equal(uint8(0), foreground.NRGBAAt(4, 4).A)
	assert.Equal(uint8(0), foreground.NRGBAAt(60, 60).A)
	assert.Equal(color.NRGBA{R: 0xff, A: 0xff}, foreground.NRGBAAt(32, 32))

	// The full icon is not affected by the inset.
	icon := openImage(t, res.Icon)
	assert.Equal(color.NRGBA{R: 0xff, A: 0xff}, icon.NRGBAAt(4, 4))
}

func TestProcessor_ShouldGenerateExtraSizes(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	proc := &Processor{Size: 64, Sizes: []int{16, 48}}
	res, err := proc.Process(strings.NewReader(redSquareSVG), dir, DefaultNames)
	if !assert.NoError(err) {
		return
	}

	assert.Equal([]string{
		filepath.Join(dir, "app_icon_16.png"),
		filepath.Join(dir, "app_icon_48.png"),
	}, res.Sizes)
	assert.Equal(image.Rect(0, 0, 16, 16), openImage(t, res.Sizes[0]).Bounds())
	assert.Equal(image.Rect(0, 0, 48, 48), openImage(t, res.Sizes[1]).Bounds())
}

func TestProcessor_ShouldGenerateFavicon(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	proc := &Processor{Size: 64, Favicon: true, FaviconSize: 32}
	res, err := proc.Process(strings.NewReader(redSquareSVG), dir, DefaultNames)
	if !assert.NoError(err) {
		return
	}

	assert.Equal(filepath.Join(dir, "favicon.ico"), res.Favicon)
	data, err := os.ReadFile(res.Favicon)
	if assert.NoError(err) {
		assert.Equal([]byte{0, 0, 1, 0, 1, 0}, data[:6])
		assert.Equal(byte(32), data[6])
	}
	assert.Contains(res.Paths(), res.Favicon)
}

func TestProcessor_ShouldCustomizeNames(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	names := NamesFor("icons/logo.svg")
	assert.Equal(Names{
		Source:     "logo.svg",
		Icon:       "logo.png",
		Foreground: "logo_foreground.png",
		Monochrome: "logo_monochrome.png",
		Favicon:    "logo.ico",
	}, names)

	res, err := p.Process(strings.NewReader(redSquareSVG), dir, names)
	if assert.NoError(err) {
		assert.FileExists(filepath.Join(dir, "logo.png"))
		assert.FileExists(filepath.Join(dir, "logo_foreground.png"))
		assert.Equal(2, len(res.Paths()))
	}
}

func TestProcessor_ShouldNotWriteOnInvalidSource(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	_, err := p.Process(strings.NewReader("<html></html>"), dir, DefaultNames)
	assert.Error(err)
	assert.True(IsSourceError(err))

	entries, err := os.ReadDir(dir)
	assert.NoError(err)
	assert.Empty(entries)
}

func TestProcessor_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		proc    Processor
		wantErr bool
	}{
		{name: "defaults", proc: Processor{}},
		{name: "negative size", proc: Processor{Size: -1}, wantErr: true},
		{name: "inset too large", proc: Processor{Inset: MaxInset + 1}, wantErr: true},
		{name: "negative inset", proc: Processor{Inset: -5}, wantErr: true},
		{name: "invalid background", proc: Processor{Background: "#zzzzzz"}, wantErr: true},
		{name: "invalid extra size", proc: Processor{Sizes: []int{48, 0}}, wantErr: true},
		{name: "favicon too large", proc: Processor{FaviconSize: 512}, wantErr: true},
		{name: "background operation", proc: Processor{Background: "#fff", BackgroundOp: "dst_in"}},
		{name: "background operation without color", proc: Processor{BackgroundOp: "dst_in"}, wantErr: true},
		{name: "unknown background operation", proc: Processor{Background: "#fff", BackgroundOp: "multiply"}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			proc := tc.proc
			err := proc.Validate()
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, DefaultSize, proc.Size)
			assert.Equal(t, DefaultFaviconSize, proc.FaviconSize)
		})
	}
}
