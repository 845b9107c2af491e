// Package processor decodes uploaded images and derives the placeholder and
// the cropped size variants.
package processor

import (
	"bytes"
	"encoding/base64"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	_ "golang.org/x/image/webp"
)

const (
	placeholderSize    = 16
	placeholderQuality = 20
	variantQuality     = 85
)

type Size struct {
	Name   string
	Width  int
	Height int
}

// Sizes are generated for every upload, centre cropped.
var Sizes = []Size{
	{Name: "thumbnail", Width: 400, Height: 400},
	{Name: "card", Width: 800, Height: 800},
	{Name: "product", Width: 2000, Height: 2000},
	{Name: "hero", Width: 1920, Height: 1080},
}

type Variant struct {
	Name   string
	Width  int
	Height int
	Ext    string
	Data   []byte
}

// Decode reads JPEG, PNG, GIF and WebP data and applies EXIF orientation.
func Decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}
	return img, nil
}

// Placeholder returns a 16x16 cover-cropped JPEG as a base64 data URI.
func Placeholder(img image.Image) (string, error) {
	small := imaging.Fill(img, placeholderSize, placeholderSize, imaging.Center, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, small, imaging.JPEG, imaging.JPEGQuality(placeholderQuality)); err != nil {
		return "", errors.Wrap(err, "encode placeholder")
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Variants crops img to every configured size. Sources smaller than a size
// keep the target aspect ratio at the largest dimensions that fit.
func Variants(img image.Image, mimeType string) ([]Variant, error) {
	format, ext := encoding(mimeType)
	b := img.Bounds()

	out := make([]Variant, 0, len(Sizes))
	for _, s := range Sizes {
		w, h := fit(b.Dx(), b.Dy(), s.Width, s.Height)
		cropped := imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos)

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, cropped, format, imaging.JPEGQuality(variantQuality)); err != nil {
			return nil, errors.Wrapf(err, "encode %s variant", s.Name)
		}
		out = append(out, Variant{Name: s.Name, Width: w, Height: h, Ext: ext, Data: buf.Bytes()})
	}
	return out, nil
}

func fit(srcW, srcH, dstW, dstH int) (int, int) {
	scale := math.Min(1, math.Min(float64(srcW)/float64(dstW), float64(srcH)/float64(dstH)))
	w := int(math.Round(float64(dstW) * scale))
	h := int(math.Round(float64(dstH) * scale))
	return max(w, 1), max(h, 1)
}

// WebP has no encoder here, so its variants are written as JPEG.
func encoding(mimeType string) (imaging.Format, string) {
	switch mimeType {
	case "image/png":
		return imaging.PNG, ".png"
	case "image/gif":
		return imaging.GIF, ".gif"
	default:
		return imaging.JPEG, ".jpg"
	}
}
