package tray

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// IconSize is the edge length, in pixels, icons are scaled to.
const IconSize = 64

// LoadIcon reads an image file and returns it as PNG bytes scaled to fit
// IconSize. ICO files are returned verbatim since the Windows tray consumes
// them directly.
func LoadIcon(path string) ([]byte, error) {
	if strings.EqualFold(filepath.Ext(path), ".ico") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read icon: %w", err)
		}
		return data, nil
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open icon: %w", err)
	}
	return encodePNG(imaging.Fit(img, IconSize, IconSize, imaging.Lanczos))
}

// DefaultIcon is a plain rounded pink square used when no icon file is found.
func DefaultIcon() []byte {
	bg := imaging.New(IconSize, IconSize, color.NRGBA{})
	fg := imaging.New(IconSize-8, IconSize-8, color.NRGBA{R: 0xf2, G: 0x4f, B: 0xd1, A: 0xff})
	// knock out the corners for a rounded look
	r := 6
	for y := 0; y < fg.Bounds().Dy(); y++ {
		for x := 0; x < fg.Bounds().Dx(); x++ {
			if outsideCorner(x, y, fg.Bounds().Dx(), fg.Bounds().Dy(), r) {
				fg.SetNRGBA(x, y, color.NRGBA{})
			}
		}
	}
	img := imaging.Paste(bg, fg, image.Pt(4, 4))
	data, err := encodePNG(img)
	if err != nil {
		return nil
	}
	return data
}

func outsideCorner(x, y, w, h, r int) bool {
	cx, cy := -1, -1
	switch {
	case x < r && y < r:
		cx, cy = r, r
	case x >= w-r && y < r:
		cx, cy = w-r-1, r
	case x < r && y >= h-r:
		cx, cy = r, h-r-1
	case x >= w-r && y >= h-r:
		cx, cy = w-r-1, h-r-1
	default:
		return false
	}
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy > r*r
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode icon: %w", err)
	}
	return buf.Bytes(), nil
}
