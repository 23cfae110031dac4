package game

import (
	"fmt"
	"slices"
)

// colorNames is the fixed alphabet rooms draw their palettes from, ordered by
// how recognizable the colors are on a board.
var colorNames = []string{
	"red", "blue", "green", "yellow", "orange", "purple", "pink", "cyan",
	"lime", "indigo", "crimson", "navy", "teal", "gold", "coral", "violet",
	"salmon", "turquoise", "khaki", "plum", "maroon", "olive", "silver",
	"chocolate", "tomato", "orchid",
}

const MinPaletteSize = 2

// MaxPaletteSize is the number of distinct color names available.
func MaxPaletteSize() int { return len(colorNames) }

// NewPalette picks the first count color tokens. Palettes are immutable for
// the room's lifetime, so callers get a fresh slice.
func NewPalette(count int) ([]string, error) {
	if count < MinPaletteSize {
		return nil, fmt.Errorf("%w: palette needs at least %d colors", ErrIllegalMove, MinPaletteSize)
	}
	if count > len(colorNames) {
		return nil, fmt.Errorf("%w: palette cannot exceed %d colors", ErrIllegalMove, len(colorNames))
	}
	return slices.Clone(colorNames[:count]), nil
}

// InPalette reports whether token is a legal color for this palette.
func InPalette(palette []string, token string) bool {
	return slices.Contains(palette, token)
}
