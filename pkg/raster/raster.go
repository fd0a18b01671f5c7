// Package raster renders vector assets to bitmaps.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/disintegration/imaging"
	"github.com/fulmenhq/brandkit/pkg/safeio"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

const (
	// DefaultWidth is the normalized output width in pixels.
	DefaultWidth = 256
	// DefaultJPEGQuality is used when Options.JPEGQuality is zero.
	DefaultJPEGQuality = 90
	// TransparentExt is the extension of the output that keeps transparency.
	TransparentExt = ".png"
	// OpaqueExt is the extension of the output composited onto the background.
	OpaqueExt = ".jpg"
)

// ErrNoViewBox is returned for markup without a usable viewBox.
var ErrNoViewBox = errors.New("svg has no usable viewBox")

// Options configures a Renderer.
type Options struct {
	Width       int
	Background  color.Color
	JPEGQuality int
}

// Renderer rasterizes vector markup at a fixed width. It is safe for
// concurrent use.
type Renderer struct {
	width      int
	background color.Color
	quality    int
}

// NewRenderer returns a Renderer with defaults filled in.
func NewRenderer(opts Options) *Renderer {
	r := &Renderer{width: opts.Width, background: opts.Background, quality: opts.JPEGQuality}
	if r.width <= 0 {
		r.width = DefaultWidth
	}
	if r.background == nil {
		r.background = color.White
	}
	if r.quality <= 0 || r.quality > 100 {
		r.quality = DefaultJPEGQuality
	}
	return r
}

// Width returns the output width.
func (r *Renderer) Width() int { return r.width }

// Rasterize renders markup with a transparent background at the
// renderer's width; height follows the viewBox aspect ratio.
func (r *Renderer) Rasterize(svg []byte) (*image.RGBA, error) {
	return rasterize(svg, r.width)
}

// Outputs lists the files written for one source.
type Outputs struct {
	Transparent string
	Opaque      string
}

// RenderFile rasterizes src and writes {base}.png and {base}.jpg into outDir.
func (r *Renderer) RenderFile(src, outDir string) (Outputs, error) {
	var out Outputs
	data, err := safeio.ReadFileContained(filepath.Dir(src), src)
	if err != nil {
		return out, err
	}
	img, err := r.Rasterize(data)
	if err != nil {
		return out, fmt.Errorf("%s: %w", filepath.Base(src), err)
	}

	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	out.Transparent = filepath.Join(outDir, base+TransparentExt)
	out.Opaque = filepath.Join(outDir, base+OpaqueExt)

	var png bytes.Buffer
	if err := imaging.Encode(&png, img, imaging.PNG); err != nil {
		return out, fmt.Errorf("encode png: %w", err)
	}
	if _, err := safeio.WriteFileIfChanged(out.Transparent, png.Bytes()); err != nil {
		return out, err
	}

	var jpg bytes.Buffer
	if err := imaging.Encode(&jpg, r.Flatten(img), imaging.JPEG, imaging.JPEGQuality(r.quality)); err != nil {
		return out, fmt.Errorf("encode jpeg: %w", err)
	}
	if _, err := safeio.WriteFileIfChanged(out.Opaque, jpg.Bytes()); err != nil {
		return out, err
	}
	return out, nil
}

// Flatten composites img onto the renderer's opaque background.
func (r *Renderer) Flatten(img image.Image) *image.NRGBA {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), r.background)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

func rasterize(svg []byte, width int) (img *image.RGBA, err error) {
	prepared, err := prepare(svg)
	if err != nil {
		return nil, err
	}

	// oksvg panics on some unsupported constructs; one bad file must not
	// take the batch down.
	defer func() {
		if p := recover(); p != nil {
			img, err = nil, fmt.Errorf("render: %v", p)
		}
	}()

	icon, err := oksvg.ReadIconStream(bytes.NewReader(prepared), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	vb := icon.ViewBox
	if vb.W <= 0 || vb.H <= 0 {
		return nil, ErrNoViewBox
	}
	height := int(math.Round(float64(width) * vb.H / vb.W))
	if height < 1 {
		height = 1
	}

	icon.SetTarget(0, 0, float64(width), float64(height))
	img = image.NewRGBA(image.Rect(0, 0, width, height))
	scanner := rasterx.NewScannerGV(width, height, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1.0)
	return img, nil
}

// prepare drops relative width/height from the root so the viewBox alone
// drives the output size, deriving a viewBox first when only absolute
// sizes are present.
func prepare(svg []byte) ([]byte, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromBytes(svg); err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	root := doc.Root()
	if root == nil || !strings.EqualFold(root.Tag, "svg") {
		return nil, errors.New("no svg root element")
	}
	if vb := root.SelectAttrValue("viewBox", ""); strings.TrimSpace(vb) == "" {
		w, errW := strconv.ParseFloat(strings.TrimSuffix(root.SelectAttrValue("width", ""), "px"), 64)
		h, errH := strconv.ParseFloat(strings.TrimSuffix(root.SelectAttrValue("height", ""), "px"), 64)
		if errW != nil || errH != nil || w <= 0 || h <= 0 {
			return nil, ErrNoViewBox
		}
		root.CreateAttr("viewBox", fmt.Sprintf("0 0 %s %s",
			strconv.FormatFloat(w, 'f', -1, 64), strconv.FormatFloat(h, 'f', -1, 64)))
	}
	root.RemoveAttr("width")
	root.RemoveAttr("height")
	return doc.WriteToBytes()
}

// ParseHexColor parses "#rrggbb", "rrggbb" or "#rgb" into an opaque colour.
func ParseHexColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
