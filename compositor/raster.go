package compositor

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"net/url"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// rasterize draws an SVG document onto a new w x h canvas.
func rasterize(doc []byte, w, h int) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(doc), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("compositor: read svg: %w", err)
	}
	return drawIcon(icon, w, h), nil
}

func drawIcon(icon *oksvg.SvgIcon, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return img
}

// overlay decodes p and draws it scaled into its box on dst.
func overlay(dst *image.RGBA, p placedImage) error {
	r := image.Rect(round(p.x), round(p.y), round(p.x+p.w), round(p.y+p.h))
	if r.Empty() {
		return nil
	}
	mime, data, err := decodeDataURL(p.src)
	if err != nil {
		return err
	}

	var src image.Image
	if mime == "image/svg+xml" {
		icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.IgnoreErrorMode)
		if err != nil {
			return fmt.Errorf("compositor: decode svg image: %w", err)
		}
		if icon.ViewBox.W <= 0 || icon.ViewBox.H <= 0 {
			return fmt.Errorf("compositor: svg image has no view box")
		}
		src = drawIcon(icon, r.Dx(), r.Dy())
	} else {
		decoded, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("compositor: decode %s image: %w", mime, err)
		}
		scaled := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
		xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), decoded, decoded.Bounds(), xdraw.Over, nil)
		src = scaled
	}

	mask := image.NewUniform(color.Alpha{A: uint8(clamp01(p.opacity)*255 + 0.5)})
	xdraw.DrawMask(dst, r, src, image.Point{}, mask, image.Point{}, xdraw.Over)
	return nil
}

// decodeDataURL splits a data: URL into its media type and payload.
func decodeDataURL(s string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return "", nil, fmt.Errorf("compositor: image source is not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("compositor: malformed data URL")
	}
	mime, params, _ := strings.Cut(meta, ";")
	if mime == "" {
		mime = "text/plain"
	}
	if strings.Contains(params, "base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return "", nil, fmt.Errorf("compositor: data URL payload: %w", err)
		}
		return mime, data, nil
	}
	text, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, fmt.Errorf("compositor: data URL payload: %w", err)
	}
	return mime, []byte(text), nil
}
