package appicon

import (
	"fmt"
	"image"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
)

// Presets maps a platform name to the launcher icon sizes it requires.
var Presets = map[string][]int{
	// mdpi, hdpi, xhdpi, xxhdpi, xxxhdpi
	"android": {48, 72, 96, 144, 192},
	"ios":     {20, 29, 40, 58, 60, 76, 80, 87, 120, 152, 167, 180},
	"web":     {16, 32, 192, 512},
}

// ParseSizes parses a comma separated list of sizes and preset names
// (e.g. "android,512") into a sorted list of unique sizes.
func ParseSizes(s string) ([]int, error) {
	seen := make(map[int]struct{})
	for _, field := range strings.Split(s, ",") {
		field = strings.ToLower(strings.TrimSpace(field))
		if field == "" {
			continue
		}
		if preset, ok := Presets[field]; ok {
			for _, n := range preset {
				seen[n] = struct{}{}
			}
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("unknown icon size or preset: %q", field)
		}
		if n <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidSize, n)
		}
		seen[n] = struct{}{}
	}

	sizes := make([]int, 0, len(seen))
	for n := range seen {
		sizes = append(sizes, n)
	}
	sort.Ints(sizes)

	return sizes, nil
}

// writeSizes writes a resampled copy of img for every size as <base>_<size>.png into dir.
func writeSizes(dir, base string, img image.Image, sizes []int) ([]string, error) {
	paths := make([]string, 0, len(sizes))
	for _, n := range sizes {
		path := filepath.Join(dir, fmt.Sprintf("%s_%d.png", base, n))
		if err := writePNG(path, imaging.Resize(img, n, n, imaging.Lanczos)); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
