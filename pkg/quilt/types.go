package quilt

import (
	"fmt"
	"image"
	"image/color"
)

// Direction is the primary axis along which tiles are placed before wrapping.
type Direction int

const (
	Horizontal Direction = iota
	Vertical
)

func (d Direction) String() string {
	switch d {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// SizingMode determines how row heights and column widths are derived from
// tile natural sizes.
type SizingMode int

const (
	// SizeActual sizes each row and column independently to its own largest
	// tile. A tile's cell width comes from its column and its cell height
	// from its row, so the cell may not match the tile's aspect ratio.
	SizeActual SizingMode = iota
	// SizeLargest gives every cell the dimensions of the largest tile,
	// producing a uniform grid.
	SizeLargest
	// SizeSmallest gives every cell the dimensions of the smallest tile.
	SizeSmallest
)

func (m SizingMode) String() string {
	switch m {
	case SizeActual:
		return "actual"
	case SizeLargest:
		return "largest"
	case SizeSmallest:
		return "smallest"
	}
	return fmt.Sprintf("SizingMode(%d)", int(m))
}

// StretchMode is the policy for mapping a tile's natural pixels into its cell.
type StretchMode int

const (
	// StretchNone renders the tile at natural size, aligned within the cell.
	// A tile larger than its cell overflows and may overlap neighboring
	// cells; this is accepted behavior, not an error.
	StretchNone StretchMode = iota
	// StretchFit scales the tile uniformly so it fits inside the cell, with
	// background showing in the leftover space.
	StretchFit
	// StretchFill scales the tile uniformly so it covers the cell, cropping
	// the overflow.
	StretchFill
)

func (m StretchMode) String() string {
	switch m {
	case StretchNone:
		return "none"
	case StretchFit:
		return "fit"
	case StretchFill:
		return "fill"
	}
	return fmt.Sprintf("StretchMode(%d)", int(m))
}

// HAlign positions a tile's rendered content horizontally within its cell.
type HAlign int

const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
)

func (a HAlign) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	}
	return fmt.Sprintf("HAlign(%d)", int(a))
}

// VAlign positions a tile's rendered content vertically within its cell.
type VAlign int

const (
	AlignTop VAlign = iota
	AlignMiddle
	AlignBottom
)

func (a VAlign) String() string {
	switch a {
	case AlignTop:
		return "top"
	case AlignMiddle:
		return "middle"
	case AlignBottom:
		return "bottom"
	}
	return fmt.Sprintf("VAlign(%d)", int(a))
}

// ParseDirection parses a direction name. Single letters match the CLI flags.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "h", "horizontal":
		return Horizontal, nil
	case "v", "vertical":
		return Vertical, nil
	}
	return 0, fmt.Errorf("unknown direction %q (want h|v)", s)
}

// ParseSizingMode parses a sizing mode name.
func ParseSizingMode(s string) (SizingMode, error) {
	switch s {
	case "a", "actual":
		return SizeActual, nil
	case "l", "largest":
		return SizeLargest, nil
	case "s", "smallest":
		return SizeSmallest, nil
	}
	return 0, fmt.Errorf("unknown sizing mode %q (want a|l|s)", s)
}

// ParseStretchMode parses a stretch mode name. "o" and "original" are kept as
// aliases for none, and "r"/"ratio" for fit, matching older releases.
func ParseStretchMode(s string) (StretchMode, error) {
	switch s {
	case "n", "none", "o", "original":
		return StretchNone, nil
	case "r", "ratio", "fit":
		return StretchFit, nil
	case "f", "fill":
		return StretchFill, nil
	}
	return 0, fmt.Errorf("unknown stretch mode %q (want n|r|f)", s)
}

// ParseHAlign parses a horizontal alignment name.
func ParseHAlign(s string) (HAlign, error) {
	switch s {
	case "l", "left":
		return AlignLeft, nil
	case "c", "center":
		return AlignCenter, nil
	case "r", "right":
		return AlignRight, nil
	}
	return 0, fmt.Errorf("unknown horizontal alignment %q (want l|c|r)", s)
}

// ParseVAlign parses a vertical alignment name.
func ParseVAlign(s string) (VAlign, error) {
	switch s {
	case "t", "top":
		return AlignTop, nil
	case "m", "middle":
		return AlignMiddle, nil
	case "b", "bottom":
		return AlignBottom, nil
	}
	return 0, fmt.Errorf("unknown vertical alignment %q (want t|m|b)", s)
}

// Dimension is the natural pixel size of one source image.
type Dimension struct {
	Width  int
	Height int
}

// Tile describes one source image for layout: its position in input order
// (which is also placement order) and its natural size. Tiles are created by
// Tiles and never mutated.
type Tile struct {
	Index  int
	Width  int
	Height int
}

// Config holds all layout parameters, resolved before Layout runs.
// The zero value is a valid configuration: horizontal, unbounded columns,
// actual sizing, no stretching, top-left alignment, transparent background.
type Config struct {
	Direction Direction
	// MaxColumns caps the column count before wrapping when Direction is
	// Horizontal. Values <= 0 mean unbounded.
	MaxColumns int
	// MaxRows caps the row count before wrapping when Direction is
	// Vertical. Values <= 0 mean unbounded.
	MaxRows    int
	Sizing     SizingMode
	Stretch    StretchMode
	HAlign     HAlign
	VAlign     VAlign
	Background color.NRGBA
}

// Validate checks that all enumerated options hold allowed values.
func (c Config) Validate() error {
	if c.Direction < Horizontal || c.Direction > Vertical {
		return &ConfigError{Option: "direction", Value: int(c.Direction)}
	}
	if c.Sizing < SizeActual || c.Sizing > SizeSmallest {
		return &ConfigError{Option: "sizing", Value: int(c.Sizing)}
	}
	if c.Stretch < StretchNone || c.Stretch > StretchFill {
		return &ConfigError{Option: "stretch", Value: int(c.Stretch)}
	}
	if c.HAlign < AlignLeft || c.HAlign > AlignRight {
		return &ConfigError{Option: "horizontal alignment", Value: int(c.HAlign)}
	}
	if c.VAlign < AlignTop || c.VAlign > AlignBottom {
		return &ConfigError{Option: "vertical alignment", Value: int(c.VAlign)}
	}
	return nil
}

// Placement assigns one tile to a grid position and a cell rectangle in
// canvas coordinates.
type Placement struct {
	Tile int // index into the tile slice
	Row  int
	Col  int
	Cell image.Rectangle
}

// Plan is the computed geometry of a quilt: the canvas size and one placement
// per tile, in input order. The cells tile a non-overlapping grid whose union
// is exactly the canvas rectangle.
type Plan struct {
	Width      int
	Height     int
	Placements []Placement
}

// DimensionError reports a source image with a non-positive width or height.
type DimensionError struct {
	Index  int
	Width  int
	Height int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("image %d has invalid dimensions %dx%d", e.Index, e.Width, e.Height)
}

// ConfigError reports an enumerated option holding a value outside its
// allowed set.
type ConfigError struct {
	Option string
	Value  int
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s value %d", e.Option, e.Value)
}
