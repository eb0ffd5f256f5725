// Package quilt computes the pixel geometry for composing independently
// sized images into one grid. It is pure: no I/O, no shared state, safe to
// call concurrently on independent inputs. Decoding source images and
// painting the computed plan onto a canvas are left to the caller.
package quilt

import "image"

// Tiles builds tile descriptors from source image dimensions. Input order is
// preserved and becomes placement order; no reordering by size or aspect
// ratio happens here or later.
func Tiles(dims []Dimension) ([]Tile, error) {
	tiles := make([]Tile, len(dims))
	for i, d := range dims {
		if d.Width <= 0 || d.Height <= 0 {
			return nil, &DimensionError{Index: i, Width: d.Width, Height: d.Height}
		}
		tiles[i] = Tile{Index: i, Width: d.Width, Height: d.Height}
	}
	return tiles, nil
}

// Layout assigns every tile a cell on the canvas and computes the canvas
// size. Tiles fill along the configured direction and wrap when the bounded
// axis is full; the orthogonal axis grows as far as needed, even past the
// other max. An empty tile slice yields an empty plan with a 0x0 canvas.
func Layout(tiles []Tile, cfg Config) (Plan, error) {
	if err := cfg.Validate(); err != nil {
		return Plan{}, err
	}
	if len(tiles) == 0 {
		return Plan{}, nil
	}

	// Pass 1: walk tiles in input order, filling the primary axis and
	// wrapping at its max. Only the primary axis is bounded.
	limit := cfg.MaxColumns
	if cfg.Direction == Vertical {
		limit = cfg.MaxRows
	}

	type coord struct{ row, col int }
	coords := make([]coord, len(tiles))
	rows, cols := 1, 1
	primary, secondary := 0, 0
	for i := range tiles {
		if cfg.Direction == Horizontal {
			coords[i] = coord{row: secondary, col: primary}
		} else {
			coords[i] = coord{row: primary, col: secondary}
		}
		if coords[i].row >= rows {
			rows = coords[i].row + 1
		}
		if coords[i].col >= cols {
			cols = coords[i].col + 1
		}
		primary++
		if limit >= 1 && primary >= limit {
			primary = 0
			secondary++
		}
	}

	// Pass 2: derive column widths and row heights per the sizing mode.
	colWidths := make([]int, cols)
	rowHeights := make([]int, rows)
	switch cfg.Sizing {
	case SizeActual:
		for i, t := range tiles {
			c := coords[i]
			if t.Width > colWidths[c.col] {
				colWidths[c.col] = t.Width
			}
			if t.Height > rowHeights[c.row] {
				rowHeights[c.row] = t.Height
			}
		}
	case SizeLargest, SizeSmallest:
		w, h := tiles[0].Width, tiles[0].Height
		for _, t := range tiles[1:] {
			if cfg.Sizing == SizeLargest {
				w = max(w, t.Width)
				h = max(h, t.Height)
			} else {
				w = min(w, t.Width)
				h = min(h, t.Height)
			}
		}
		for i := range colWidths {
			colWidths[i] = w
		}
		for i := range rowHeights {
			rowHeights[i] = h
		}
	}

	colStarts := make([]int, cols)
	for i := 1; i < cols; i++ {
		colStarts[i] = colStarts[i-1] + colWidths[i-1]
	}
	rowStarts := make([]int, rows)
	for i := 1; i < rows; i++ {
		rowStarts[i] = rowStarts[i-1] + rowHeights[i-1]
	}

	plan := Plan{
		Width:      colStarts[cols-1] + colWidths[cols-1],
		Height:     rowStarts[rows-1] + rowHeights[rows-1],
		Placements: make([]Placement, len(tiles)),
	}
	for i := range tiles {
		c := coords[i]
		x, y := colStarts[c.col], rowStarts[c.row]
		plan.Placements[i] = Placement{
			Tile: tiles[i].Index,
			Row:  c.row,
			Col:  c.col,
			Cell: image.Rect(x, y, x+colWidths[c.col], y+rowHeights[c.row]),
		}
	}
	return plan, nil
}

// Window computes where a tile's pixels land once its cell is fixed. dst is
// the target rectangle in canvas coordinates and src the source rectangle in
// natural pixel coordinates, per the configured stretch mode and alignment:
//
//   - StretchNone: src is the whole tile, dst is the natural size aligned in
//     the cell. dst may extend past the cell when the tile is larger.
//   - StretchFit: src is the whole tile, dst is the largest same-ratio
//     rectangle inside the cell, aligned; at least one dst dimension equals
//     the cell's.
//   - StretchFill: dst is the whole cell, src is the largest same-ratio crop
//     of the tile covering it, aligned (right alignment keeps the right
//     edge and crops the left).
func Window(t Tile, p Placement, cfg Config) (dst, src image.Rectangle) {
	cell := p.Cell
	cw, ch := cell.Dx(), cell.Dy()

	switch cfg.Stretch {
	case StretchFit:
		if cw*t.Height <= ch*t.Width {
			// width is the limiting dimension
			dst = alignRect(cell, cw, scaleDim(t.Height, cw, t.Width), cfg.HAlign, cfg.VAlign)
		} else {
			dst = alignRect(cell, scaleDim(t.Width, ch, t.Height), ch, cfg.HAlign, cfg.VAlign)
		}
		src = image.Rect(0, 0, t.Width, t.Height)
	case StretchFill:
		dst = cell
		natural := image.Rect(0, 0, t.Width, t.Height)
		if cw*t.Height <= ch*t.Width {
			// height is the limiting ratio, crop horizontally
			src = alignRect(natural, scaleDim(cw, t.Height, ch), t.Height, cfg.HAlign, cfg.VAlign)
		} else {
			src = alignRect(natural, t.Width, scaleDim(ch, t.Width, cw), cfg.HAlign, cfg.VAlign)
		}
	default: // StretchNone
		dst = alignRect(cell, t.Width, t.Height, cfg.HAlign, cfg.VAlign)
		src = image.Rect(0, 0, t.Width, t.Height)
	}
	return dst, src
}

// scaleDim scales n by num/den, rounding to nearest.
func scaleDim(n, num, den int) int {
	return (n*num + den/2) / den
}

// alignRect places a w x h rectangle inside outer per the alignments. When
// the rectangle is larger than outer the offset goes negative and the result
// extends past outer; callers relying on StretchNone overflow depend on that.
func alignRect(outer image.Rectangle, w, h int, ha HAlign, va VAlign) image.Rectangle {
	x := outer.Min.X
	switch ha {
	case AlignCenter:
		x += (outer.Dx() - w) / 2
	case AlignRight:
		x += outer.Dx() - w
	}
	y := outer.Min.Y
	switch va {
	case AlignMiddle:
		y += (outer.Dy() - h) / 2
	case AlignBottom:
		y += outer.Dy() - h
	}
	return image.Rect(x, y, x+w, y+h)
}
