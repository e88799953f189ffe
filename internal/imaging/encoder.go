// Package imaging turns user supplied pictures into small inline JPEG data URIs.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"math"
	"strings"

	"github.com/talkincode/productdesk/internal/domain"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const (
	DefaultBoundingBox = 300
	DefaultQuality     = 70

	// MaxPixels bounds the decoded raster of an upload
	MaxPixels = 40_000_000

	dataURIPrefix = "data:image/jpeg;base64,"
)

// Image is an encoded picture ready to be stored on a product
type Image struct {
	DataURI string `json:"image"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

// Encoder downsizes images to fit a square bounding box and re-encodes
// them as JPEG.
type Encoder struct {
	BoundingBox int
	Quality     int
}

func NewEncoder(box, quality int) *Encoder {
	if box <= 0 {
		box = DefaultBoundingBox
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Encoder{BoundingBox: box, Quality: quality}
}

// FitDimensions scales (w, h) uniformly so the longer side is at most box.
// Images already inside the box keep their size.
func FitDimensions(w, h, box int) (int, int, error) {
	if w <= 0 || h <= 0 {
		return 0, 0, domain.NewError(domain.CodeDecode, "Image has no pixels", nil)
	}
	if box <= 0 {
		return 0, 0, domain.NewError(domain.CodeDecode, "Bounding box must be positive", nil)
	}
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= box {
		return w, h, nil
	}
	scale := float64(box) / float64(longest)
	return scaleSide(w, scale), scaleSide(h, scale), nil
}

func scaleSide(side int, scale float64) int {
	v := int(math.Round(float64(side) * scale))
	if v < 1 {
		return 1
	}
	return v
}

// Encode decodes r, fits it into the bounding box and returns it as a
// JPEG data URI.
func (e *Encoder) Encode(r io.Reader) (Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Image{}, domain.NewError(domain.CodeDecode, "Failed to read image", err)
	}
	return e.EncodeBytes(data)
}

// EncodeBytes is Encode over an in-memory buffer. The header is checked
// against MaxPixels before the full raster is decoded.
func (e *Encoder) EncodeBytes(data []byte) (Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Image{}, domain.NewError(domain.CodeDecode, "File is not a supported image", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return Image{}, domain.NewError(domain.CodeDecode, "Image is too large",
			fmt.Errorf("%dx%d exceeds %d pixels", cfg.Width, cfg.Height, MaxPixels))
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Image{}, domain.NewError(domain.CodeDecode, "File is not a supported image", err)
	}
	b := src.Bounds()
	w, h, err := FitDimensions(b.Dx(), b.Dy(), e.BoundingBox)
	if err != nil {
		return Image{}, err
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	// JPEG has no alpha; transparent areas become white instead of black
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: e.Quality}); err != nil {
		return Image{}, domain.NewError(domain.CodeDecode, "Failed to encode image", err)
	}
	return Image{
		DataURI: dataURIPrefix + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Width:   w,
		Height:  h,
	}, nil
}

// DecodeDataURI reverses the data URI produced by Encode and returns the
// raw image bytes.
func DecodeDataURI(uri string) ([]byte, error) {
	i := strings.Index(uri, ";base64,")
	if !strings.HasPrefix(uri, "data:") || i < 0 {
		return nil, domain.NewError(domain.CodeDecode, "Not a base64 data URI", nil)
	}
	data, err := base64.StdEncoding.DecodeString(uri[i+len(";base64,"):])
	if err != nil {
		return nil, domain.NewError(domain.CodeDecode, "Corrupt data URI", err)
	}
	return data, nil
}

// Dimensions reports the pixel size of an encoded data URI without
// decoding the full image.
func Dimensions(uri string) (int, int, error) {
	data, err := DecodeDataURI(uri)
	if err != nil {
		return 0, 0, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, domain.NewError(domain.CodeDecode, "File is not a supported image", err)
	}
	return cfg.Width, cfg.Height, nil
}
