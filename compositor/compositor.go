// Package compositor renders layout trees to PNG. Trees are laid out with
// a small flexbox engine, written as SVG with text converted to glyph
// outlines, then rasterized. Image nodes are decoded and drawn over the
// raster at their laid out boxes.
package compositor

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"

	"github.com/eringen/ogsite/layout"
)

// ErrNoFonts is returned when a render is attempted without any font.
var ErrNoFonts = errors.New("compositor: no fonts")

// Options control the output canvas. Zero values use the Open Graph size.
type Options struct {
	Width  int
	Height int
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = layout.Width
	}
	if h <= 0 {
		h = layout.Height
	}
	return w, h
}

// SVG lays out tree and returns the vector stage of the render. Image
// nodes are not part of the document.
func SVG(tree *layout.Node, fonts []Font, opts Options) ([]byte, error) {
	doc, _, err := render(tree, fonts, opts)
	return doc, err
}

// Composite renders tree to a PNG. Any failure aborts the render; no
// partial image is returned.
func Composite(tree *layout.Node, fonts []Font, opts Options) ([]byte, error) {
	doc, images, err := render(tree, fonts, opts)
	if err != nil {
		return nil, err
	}
	w, h := opts.size()
	img, err := rasterize(doc, w, h)
	if err != nil {
		return nil, err
	}
	for _, p := range images {
		if err := overlay(img, p); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("compositor: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func render(tree *layout.Node, fonts []Font, opts Options) ([]byte, []placedImage, error) {
	if tree == nil {
		return nil, nil, errors.New("compositor: nil tree")
	}
	reg, err := newRegistry(fonts)
	if err != nil {
		return nil, nil, err
	}
	defer reg.close()

	w, h := opts.size()
	fl := &flex{reg: reg}
	root, err := fl.place(tree, 0, 0, float64(w), float64(h))
	if err != nil {
		return nil, nil, err
	}

	e := newEmitter(reg)
	if err := e.frame(root, 1); err != nil {
		return nil, nil, fmt.Errorf("compositor: %w", err)
	}
	return e.document(w, h), e.images, nil
}
