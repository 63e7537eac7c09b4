package appicon

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/ekklesia/appicon/utils"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

var (
	// ErrInvalidSize is returned when the requested raster dimensions are not positive.
	ErrInvalidSize = errors.New("raster width and height must be greater than zero")
	// ErrInvalidSVG is returned when the source could not be parsed as an SVG document.
	ErrInvalidSVG = errors.New("invalid SVG document")
)

// Rasterizer converts SVG documents into raster images of a fixed size.
type Rasterizer struct {
	Width  int
	Height int
	// Stretch scales the viewBox to the whole canvas, ignoring its aspect ratio.
	// By default the drawing is fitted inside the canvas and centered.
	Stretch bool
}

// NewRasterizer returns a Rasterizer producing square images of the given size.
func NewRasterizer(size int) *Rasterizer {
	return &Rasterizer{Width: size, Height: size}
}

// Rasterize parses the SVG document read from r and renders it on a transparent canvas.
func (rs *Rasterizer) Rasterize(r io.Reader) (*image.RGBA, error) {
	if rs.Width <= 0 || rs.Height <= 0 {
		return nil, ErrInvalidSize
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read the SVG source: %w", err)
	}
	if !utils.IsSVG(data) {
		return nil, fmt.Errorf("%w: missing <svg> root element", ErrInvalidSVG)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSVG, err)
	}

	x, y, w, h := rs.target(icon.ViewBox.W, icon.ViewBox.H)
	icon.SetTarget(x, y, w, h)

	img := image.NewRGBA(image.Rect(0, 0, rs.Width, rs.Height))
	scanner := rasterx.NewScannerGV(rs.Width, rs.Height, img, img.Bounds())
	raster := rasterx.NewDasher(rs.Width, rs.Height, scanner)
	icon.Draw(raster, 1.0)

	return img, nil
}

// RasterizePNG renders the SVG document read from r and returns the PNG encoded bytes.
func (rs *Rasterizer) RasterizePNG(r io.Reader) ([]byte, error) {
	img, err := rs.Rasterize(r)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("could not encode the rasterized image: %w", err)
	}
	return buf.Bytes(), nil
}

// target computes the rectangle the viewBox of size vw x vh is mapped onto.
func (rs *Rasterizer) target(vw, vh float64) (x, y, w, h float64) {
	cw, ch := float64(rs.Width), float64(rs.Height)
	if rs.Stretch || vw <= 0 || vh <= 0 {
		return 0, 0, cw, ch
	}

	scale := cw / vw
	if s := ch / vh; s < scale {
		scale = s
	}
	w, h = vw*scale, vh*scale

	return (cw - w) / 2, (ch - h) / 2, w, h
}
