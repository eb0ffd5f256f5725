// Package render paints a computed quilt plan onto a pixel canvas. It owns
// everything the layout engine treats as a collaborator: decoding source
// images, background fill, stretch-mode scaling and the final encode.
package render

import (
	"image"

	"github.com/charmbracelet/log"
	"golang.org/x/image/draw"

	"github.com/kiesman99/quilt/pkg/quilt"
)

// Compose lays out the given images per cfg and renders them onto a single
// canvas. Image order is placement order. A nil or empty slice yields an
// empty 0x0 canvas.
func Compose(logger *log.Logger, images []image.Image, cfg quilt.Config) (*image.RGBA, error) {
	dims := make([]quilt.Dimension, len(images))
	for i, img := range images {
		b := img.Bounds()
		dims[i] = quilt.Dimension{Width: b.Dx(), Height: b.Dy()}
	}

	tiles, err := quilt.Tiles(dims)
	if err != nil {
		return nil, err
	}

	plan, err := quilt.Layout(tiles, cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("computed plan", "canvas_width", plan.Width, "canvas_height", plan.Height, "tiles", len(plan.Placements))

	canvas := image.NewRGBA(image.Rect(0, 0, plan.Width, plan.Height))
	if cfg.Background.A != 0 {
		draw.Draw(canvas, canvas.Bounds(), image.NewUniform(cfg.Background), image.Point{}, draw.Src)
	}

	for _, p := range plan.Placements {
		src := images[p.Tile]
		dst, win := quilt.Window(tiles[p.Tile], p, cfg)
		logger.Debug("placing tile", "tile", p.Tile, "row", p.Row, "col", p.Col, "cell", p.Cell, "dst", dst)

		// Window rectangles are in natural pixel coordinates; shift into
		// the source image's own coordinate space.
		win = win.Add(src.Bounds().Min)

		if dst.Dx() == win.Dx() && dst.Dy() == win.Dy() {
			draw.Draw(canvas, dst, src, win.Min, draw.Over)
		} else {
			draw.CatmullRom.Scale(canvas, dst, src, win, draw.Over, nil)
		}
	}

	return canvas, nil
}
