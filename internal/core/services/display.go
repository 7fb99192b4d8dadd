package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/timerdiv/internal/core/domain"
	"github.com/custodia-labs/timerdiv/internal/core/ports/driving"
)

// Ensure DisplayService implements the interface.
var _ driving.DisplayService = (*DisplayService)(nil)

// DisplayService encodes seven-segment glyphs for the display firmware.
type DisplayService struct {
	glyphs []domain.Glyph
}

// NewDisplayService creates a display service for the given glyphs.
// nil selects the decimal digits.
func NewDisplayService(glyphs []domain.Glyph) *DisplayService {
	if glyphs == nil {
		glyphs = domain.DigitGlyphs()
	}
	return &DisplayService{glyphs: glyphs}
}

// Masks returns one segment mask per glyph, in glyph order.
func (s *DisplayService) Masks() []uint8 {
	masks := make([]uint8, len(s.glyphs))
	for i, g := range s.glyphs {
		masks[i] = g.Mask()
	}
	return masks
}

// Header renders the masks as the seg_patterns C array, one binary
// literal per line annotated with its index.
func (s *DisplayService) Header() string {
	masks := s.Masks()

	var b strings.Builder
	fmt.Fprintf(&b, "static const uint8_t seg_patterns[%d] = {\n", len(masks))
	b.WriteString("    //GFEDCBA\n")
	for i, m := range masks {
		fmt.Fprintf(&b, "    0b%07b, // %d\n", m, i)
	}
	b.WriteString("};\n")
	return b.String()
}
