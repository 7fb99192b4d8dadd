package domain

import "strings"

// SegmentCount is the number of segments in a seven-segment digit,
// lettered A through G.
const SegmentCount = 7

// Glyph is the ASCII-art drawing of one seven-segment digit. A segment is
// lit iff its capital letter appears anywhere in the drawing.
type Glyph string

// Mask encodes the glyph with bit s set iff segment 'A'+s is lit.
func (g Glyph) Mask() uint8 {
	var m uint8
	for s := 0; s < SegmentCount; s++ {
		if strings.ContainsRune(string(g), rune('A'+s)) {
			m |= 1 << s
		}
	}
	return m
}

// DigitGlyphs returns the drawings of the decimal digits 0-9 in order.
//
//	  A
//	F   B
//	  G
//	E   C
//	  D
func DigitGlyphs() []Glyph {
	return []Glyph{
		"  A  \nF   B\n     \nE   C\n  D  ",
		"     \n    B\n     \n    C\n     ",
		"  A  \n    B\n  G  \nE    \n  D  ",
		"  A  \n    B\n  G  \n    C\n  D  ",
		"     \nF   B\n  G  \n    C\n     ",
		"  A  \nF    \n  G  \n    C\n  D  ",
		"  A  \nF    \n  G  \nE   C\n  D  ",
		"  A  \n    B\n     \n    C\n     ",
		"  A  \nF   B\n  G  \nE   C\n  D  ",
		"  A  \nF   B\n  G  \n    C\n  D  ",
	}
}
