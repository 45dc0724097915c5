package imagesource

import (
	"image"
	"strconv"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
)

// readOrientation returns the EXIF Orientation tag (1-8) of an encoded image,
// or 0 when there is none.
func readOrientation(data []byte) int {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil || rawExif == nil {
		return 0
	}
	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return 0
	}
	for _, entry := range entries {
		if entry.TagName != "Orientation" {
			continue
		}
		if v, ok := entry.Value.([]uint16); ok && len(v) > 0 {
			return validOrientation(int(v[0]))
		}
		n, err := strconv.Atoi(strings.Trim(entry.Formatted, "[] "))
		if err == nil {
			return validOrientation(n)
		}
	}
	return 0
}

func validOrientation(o int) int {
	if o < 1 || o > 8 {
		return 0
	}
	return o
}

// applyOrientation returns img transformed so that it displays upright.
//
//	1 identity        5 transpose
//	2 mirror X        6 rotate 90 clockwise
//	3 rotate 180      7 transverse
//	4 mirror Y        8 rotate 90 counter-clockwise
func applyOrientation(img image.Image, orientation int) image.Image {
	if orientation < 2 || orientation > 8 {
		return img
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	dw, dh := w, h
	if orientation >= 5 {
		dw, dh = h, w
	}

	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	for y := range dh {
		for x := range dw {
			var sx, sy int
			switch orientation {
			case 2:
				sx, sy = w-1-x, y
			case 3:
				sx, sy = w-1-x, h-1-y
			case 4:
				sx, sy = x, h-1-y
			case 5:
				sx, sy = y, x
			case 6:
				sx, sy = y, h-1-x
			case 7:
				sx, sy = w-1-y, h-1-x
			case 8:
				sx, sy = w-1-y, x
			}
			dst.Set(x, y, img.At(b.Min.X+sx, b.Min.Y+sy))
		}
	}
	return dst
}
