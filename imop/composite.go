// Package imop implements the Porter-Duff composition operations used for mixing
// an icon layer with its backdrop. The image/draw core package implements only
// the source-over-destination and source operations, this package covers the rest.
//
// The icon generator uses it to combine the transparent artwork with a solid
// background color, since some launcher icon targets reject an alpha channel.
package imop

import (
	"fmt"
	"image"
	"image/color"
	"math"
)

// The supported composition operations.
const (
	Clear   = "clear"
	Copy    = "copy"
	Dst     = "dst"
	SrcOver = "src_over"
	DstOver = "dst_over"
	SrcIn   = "src_in"
	DstIn   = "dst_in"
	SrcOut  = "src_out"
	DstOut  = "dst_out"
	SrcAtop = "src_atop"
	DstAtop = "dst_atop"
	Xor     = "xor"
)

var operations = []string{
	Clear, Copy, Dst, SrcOver, DstOver, SrcIn, DstIn, SrcOut, DstOut, SrcAtop, DstAtop, Xor,
}

// Composite holds the currently active composition operation.
type Composite struct {
	current string
}

// InitOp initializes a new Composite using SrcOver as the default operation.
func InitOp() *Composite {
	return &Composite{current: SrcOver}
}

// Set activates one of the supported composition operations.
func (op *Composite) Set(cop string) error {
	for _, o := range operations {
		if o == cop {
			op.current = cop
			return nil
		}
	}
	return fmt.Errorf("unsupported composite operation: %q", cop)
}

// Draw composes src over backdrop with the active operation and writes the result into dst.
// All three images are expected to share the same bounds.
func (op *Composite) Draw(dst, src, backdrop *image.NRGBA) {
	b := dst.Bounds().Intersect(src.Bounds()).Intersect(backdrop.Bounds())

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			s := src.NRGBAAt(x, y)
			d := backdrop.NRGBAAt(x, y)
			dst.SetNRGBA(x, y, op.mix(s, d))
		}
	}
}

// mix applies the composition formula over a single pixel pair.
// Fs and Fd are the fractions of the source and destination coverage kept by the operation.
func (op *Composite) mix(s, d color.NRGBA) color.NRGBA {
	as, ad := float64(s.A)/255, float64(d.A)/255

	var fs, fd float64
	switch op.current {
	case Clear:
		fs, fd = 0, 0
	case Copy:
		fs, fd = 1, 0
	case Dst:
		fs, fd = 0, 1
	case SrcOver:
		fs, fd = 1, 1-as
	case DstOver:
		fs, fd = 1-ad, 1
	case SrcIn:
		fs, fd = ad, 0
	case DstIn:
		fs, fd = 0, as
	case SrcOut:
		fs, fd = 1-ad, 0
	case DstOut:
		fs, fd = 0, 1-as
	case SrcAtop:
		fs, fd = ad, 1-as
	case DstAtop:
		fs, fd = 1-ad, as
	case Xor:
		fs, fd = 1-ad, 1-as
	}

	ao := as*fs + ad*fd
	if ao <= 0 {
		return color.NRGBA{}
	}

	channel := func(cs, cd uint8) uint8 {
		// Premultiplied sum, converted back to straight alpha.
		v := (as*fs*float64(cs) + ad*fd*float64(cd)) / ao
		return uint8(math.Min(255, math.Round(v)))
	}

	return color.NRGBA{
		R: channel(s.R, d.R),
		G: channel(s.G, d.G),
		B: channel(s.B, d.B),
		A: uint8(math.Min(255, math.Round(ao*255))),
	}
}

// Flatten composes img over a uniform background of color c and returns a new image.
// With an opaque background the result carries no transparency.
func Flatten(img *image.NRGBA, c color.NRGBA) *image.NRGBA {
	dst, _ := Compose(img, c, SrcOver)
	return dst
}

// Compose combines img with a uniform backdrop of color c using the cop operation.
func Compose(img *image.NRGBA, c color.NRGBA, cop string) (*image.NRGBA, error) {
	op := InitOp()
	if err := op.Set(cop); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	backdrop := image.NewNRGBA(bounds)
	for i := 0; i < len(backdrop.Pix); i += 4 {
		backdrop.Pix[i+0] = c.R
		backdrop.Pix[i+1] = c.G
		backdrop.Pix[i+2] = c.B
		backdrop.Pix[i+3] = c.A
	}

	dst := image.NewNRGBA(bounds)
	op.Draw(dst, img, backdrop)
	return dst, nil
}
