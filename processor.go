package appicon

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/ekklesia/appicon/imop"
	"github.com/ekklesia/appicon/utils"
)

const (
	// DefaultSize is the edge length of the generated launcher icon.
	DefaultSize = 1024
	// DefaultFaviconSize is the edge length of the generated favicon.
	DefaultFaviconSize = 48
	// MaxFaviconSize is the largest image an ICO directory entry can describe.
	MaxFaviconSize = 256
	// MaxInset is the largest foreground padding, in percent of the icon size, on each side.
	MaxInset = 40
)

// Names holds the file names used for the source and the generated assets.
type Names struct {
	Source     string
	Icon       string
	Foreground string
	Monochrome string
	Favicon    string
}

// DefaultNames are the file names expected by the flutter_launcher_icons configuration.
var DefaultNames = Names{
	Source:     "app_icon.svg",
	Icon:       "app_icon.png",
	Foreground: "app_icon_foreground.png",
	Monochrome: "app_icon_monochrome.png",
	Favicon:    "favicon.ico",
}

// NamesFor derives the asset names from the source file name,
// e.g. logo.svg produces logo.png, logo_foreground.png, logo_monochrome.png and logo.ico.
func NamesFor(src string) Names {
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	return Names{
		Source:     filepath.Base(src),
		Icon:       base + ".png",
		Foreground: base + "_foreground.png",
		Monochrome: base + "_monochrome.png",
		Favicon:    base + ".ico",
	}
}

// withDefaults fills the empty names with the default ones.
func (n Names) withDefaults() Names {
	if n.Source == "" {
		n.Source = DefaultNames.Source
	}
	if n.Icon == "" {
		n.Icon = DefaultNames.Icon
	}
	if n.Foreground == "" {
		n.Foreground = DefaultNames.Foreground
	}
	if n.Monochrome == "" {
		n.Monochrome = DefaultNames.Monochrome
	}
	if n.Favicon == "" {
		n.Favicon = DefaultNames.Favicon
	}
	return n
}

// Processor options
type Processor struct {
	// Size is the edge length of the full icon and the foreground layer.
	Size int
	// Background is an optional hex color the full icon is flattened onto.
	Background string
	// BackgroundOp is the composition operation combining the artwork with the background,
	// imop.SrcOver if empty.
	BackgroundOp string
	// Inset is the foreground padding in percent of the icon size on each side.
	Inset int
	// Sizes lists the additional square PNG sizes generated from the full icon.
	Sizes []int
	// Monochrome enables the single color layer of themed launcher icons.
	Monochrome bool
	// Favicon enables the generation of an ICO file.
	Favicon     bool
	FaviconSize int
	// Stretch ignores the aspect ratio of the SVG viewBox.
	Stretch bool
	Spinner *utils.Spinner
}

// Result holds the paths of the generated assets.
type Result struct {
	Icon       string
	Foreground string
	Monochrome string
	Favicon    string
	Sizes      []string
}

// Paths returns every generated file in the order they were written.
func (r *Result) Paths() []string {
	paths := []string{r.Icon, r.Foreground}
	if r.Monochrome != "" {
		paths = append(paths, r.Monochrome)
	}
	paths = append(paths, r.Sizes...)
	if r.Favicon != "" {
		paths = append(paths, r.Favicon)
	}
	return paths
}

// Validate checks the processor options and fills in the defaults.
func (p *Processor) Validate() error {
	if p.Size == 0 {
		p.Size = DefaultSize
	}
	if p.Size < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, p.Size)
	}
	if p.Inset < 0 || p.Inset > MaxInset {
		return fmt.Errorf("the foreground inset should be between 0 and %d percent, got %d", MaxInset, p.Inset)
	}
	if p.Background != "" {
		if _, err := utils.ParseHexColor(p.Background); err != nil {
			return err
		}
	}
	if p.BackgroundOp != "" {
		if p.Background == "" {
			return errors.New("the background operation requires a background color")
		}
		if err := imop.InitOp().Set(p.BackgroundOp); err != nil {
			return err
		}
	}
	for _, s := range p.Sizes {
		if s <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidSize, s)
		}
	}
	if p.FaviconSize == 0 {
		p.FaviconSize = DefaultFaviconSize
	}
	if p.FaviconSize < 0 || p.FaviconSize > MaxFaviconSize {
		return fmt.Errorf("the favicon size should be between 1 and %d, got %d", MaxFaviconSize, p.FaviconSize)
	}
	return nil
}

// Process rasterizes the SVG read from r and writes the generated assets into dir.
//
// The full icon is the rasterized PNG as is, unless a background color is configured.
// The foreground layer is the same rendering decoded back and stored as
// non-premultiplied RGBA, keeping its transparency.
func (p *Processor) Process(r io.Reader, dir string, names Names) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	names = names.withDefaults()

	rs := &Rasterizer{Width: p.Size, Height: p.Size, Stretch: p.Stretch}
	data, err := rs.RasterizePNG(r)
	if err != nil {
		return nil, err
	}

	img, err := decodePNG(data)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Icon:       filepath.Join(dir, names.Icon),
		Foreground: filepath.Join(dir, names.Foreground),
	}

	icon := img
	if p.Background != "" {
		bg, _ := utils.ParseHexColor(p.Background)
		if p.BackgroundOp == "" {
			icon = imop.Flatten(img, bg)
		} else if icon, err = imop.Compose(img, bg, p.BackgroundOp); err != nil {
			return nil, err
		}
		if data, err = encodePNG(icon); err != nil {
			return nil, err
		}
	}
	if err := writeFile(res.Icon, data); err != nil {
		return nil, err
	}

	foreground := img
	if p.Inset > 0 {
		foreground = insetImage(img, p.Inset)
	}
	if err := writeRGBA(res.Foreground, foreground); err != nil {
		return nil, err
	}

	if p.Monochrome {
		res.Monochrome = filepath.Join(dir, names.Monochrome)
		if err := writeRGBA(res.Monochrome, monochrome(foreground)); err != nil {
			return nil, err
		}
	}

	base := strings.TrimSuffix(names.Icon, filepath.Ext(names.Icon))
	if res.Sizes, err = writeSizes(dir, base, icon, p.Sizes); err != nil {
		return nil, err
	}

	if p.Favicon {
		var buf bytes.Buffer
		if err := encodeFavicon(&buf, icon, p.FaviconSize); err != nil {
			return nil, err
		}
		res.Favicon = filepath.Join(dir, names.Favicon)
		if err := writeFile(res.Favicon, buf.Bytes()); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// insetImage shrinks the artwork by the given percent on each side and centers it
// on a transparent canvas of the original size. Adaptive launcher icons crop the
// outer part of the foreground layer, this keeps the artwork inside the safe zone.
func insetImage(img *image.NRGBA, percent int) *image.NRGBA {
	b := img.Bounds()
	w := b.Dx() * (100 - 2*percent) / 100
	h := b.Dy() * (100 - 2*percent) / 100

	canvas := imaging.New(b.Dx(), b.Dy(), color.NRGBA{})
	if w <= 0 || h <= 0 {
		return canvas
	}
	scaled := imaging.Resize(img, w, h, imaging.Lanczos)
	return imaging.PasteCenter(canvas, scaled)
}

// IsSourceError reports whether err was caused by a missing or unreadable icon source,
// in which case the caller should print the alternatives guidance.
func IsSourceError(err error) bool {
	return errors.Is(err, ErrSourceUnavailable) || errors.Is(err, ErrInvalidSVG)
}
