package otshaper

import (
	"unicode"

	ucd "github.com/go-text/typesetting/unicodedata"
)

// Per-character Unicode properties, computed once at the start of a
// shaping call and carried in GlyphInfo.unicode.

type generalCategory uint8

const (
	otherCategory generalCategory = iota
	control
	format
	spaceSeparator
	decimalNumber
	nonSpacingMark
	spacingMark
	enclosingMark
)

func (gc generalCategory) isMark() bool {
	return gc == nonSpacingMark || gc == spacingMark || gc == enclosingMark
}

type unicodeProp uint16

const (
	upCategoryMask     unicodeProp = 0x001F
	upDefaultIgnorable unicodeProp = 0x0100
)

func (p unicodeProp) generalCategory() generalCategory {
	return generalCategory(p & upCategoryMask)
}

func generalCategoryOf(r rune) generalCategory {
	switch {
	case unicode.Is(unicode.Nd, r):
		return decimalNumber
	case unicode.Is(unicode.Mn, r):
		return nonSpacingMark
	case unicode.Is(unicode.Mc, r):
		return spacingMark
	case unicode.Is(unicode.Me, r):
		return enclosingMark
	case unicode.Is(unicode.Cf, r):
		return format
	case unicode.Is(unicode.Cc, r):
		return control
	case unicode.Is(unicode.Zs, r):
		return spaceSeparator
	}
	return otherCategory
}

// isDefaultIgnorable reports the Unicode Default_Ignorable_Code_Point
// property for the ranges relevant to shaping.
func isDefaultIgnorable(r rune) bool {
	switch {
	case r == 0x00AD, r == 0x034F, r == 0x061C, r == 0x3164,
		r == 0xFEFF, r == 0xFFA0:
		return true
	case r >= 0x115F && r <= 0x1160:
		return true
	case r >= 0x17B4 && r <= 0x17B5:
		return true
	case r >= 0x180B && r <= 0x180E:
		return true
	case r >= 0x200B && r <= 0x200F:
		return true
	case r >= 0x202A && r <= 0x202E:
		return true
	case r >= 0x2060 && r <= 0x206F:
		return true
	case r >= 0xFE00 && r <= 0xFE0F:
		return true
	case r >= 0xFFF0 && r <= 0xFFF8:
		return true
	case r >= 0x1BCA0 && r <= 0x1BCA3:
		return true
	case r >= 0x1D173 && r <= 0x1D17A:
		return true
	case r >= 0xE0000 && r <= 0xE0FFF:
		return true
	}
	return false
}

func computeUnicodeProp(r rune) unicodeProp {
	p := unicodeProp(generalCategoryOf(r))
	if isDefaultIgnorable(r) {
		p |= upDefaultIgnorable
	}
	return p
}

// setUnicodeProps tags every glyph record with its Unicode properties
// and raises the run-level scratch flags derived from them.
func (b *Buffer) setUnicodeProps() {
	for i := range b.Info {
		r := b.Info[i].Codepoint
		b.Info[i].unicode = computeUnicodeProp(r)
		if r >= 0x80 {
			b.scratchFlags |= bsfHasNonASCII
		}
		if b.Info[i].isDefaultIgnorable() {
			b.scratchFlags |= bsfHasDefaultIgnorables
		}
		// Spaces other than U+0020 commonly lack a glyph; their widths
		// are synthesized from the space glyph at position time.
		if b.Info[i].unicode.generalCategory() == spaceSeparator && r != ' ' {
			b.scratchFlags |= bsfHasSpaceFallback
		}
	}
}

// insertDottedCircle prepends a dotted-circle placeholder when the run
// starts with a combining mark that has no visible base.
func (b *Buffer) insertDottedCircle(face Face) {
	if b.Flags&DoNotInsertDottedCircle != 0 || b.Flags&Bot == 0 {
		return
	}
	if len(b.Info) == 0 || !b.Info[0].isMark() {
		return
	}
	if _, ok := face.NominalGlyph(0x25CC); !ok {
		return
	}
	dc := GlyphInfo{
		Codepoint: 0x25CC,
		Cluster:   b.Info[0].Cluster,
		Mask:      b.Info[0].Mask,
		unicode:   computeUnicodeProp(0x25CC),
	}
	b.Info = append(b.Info, GlyphInfo{})
	copy(b.Info[1:], b.Info)
	b.Info[0] = dc
}

// isClusterExtender reports characters that stay in the cluster of the
// preceding base: combining marks, joiners and variation selectors.
func isClusterExtender(gi *GlyphInfo) bool {
	if gi.isMark() {
		return true
	}
	r := gi.Codepoint
	return r == 0x200C || r == 0x200D || (r >= 0xFE00 && r <= 0xFE0F)
}

// formClusters establishes the unsafe-to-split grouping later passes
// must respect: each base keeps its following extenders.
func (b *Buffer) formClusters() {
	if len(b.Info) < 2 {
		return
	}
	base := 0
	for i := 1; i < len(b.Info); i++ {
		if isClusterExtender(&b.Info[i]) {
			continue
		}
		if i-base > 1 {
			b.mergeClusters(base, i)
		}
		base = i
	}
	if len(b.Info)-base > 1 {
		b.mergeClusters(base, len(b.Info))
	}
}

// ensureNativeDirection normalizes the buffer to the script's native
// layout direction. The caller-requested direction is restored by the
// pipeline after positioning.
func (b *Buffer) ensureNativeDirection() {
	direction := b.Props.Direction
	horizDir := scriptHorizontalDirection(b.Props.Script)

	if (direction.isHorizontal() && horizDir != DirectionInvalid && direction != horizDir) ||
		(direction.isVertical() && direction != TopToBottom) {
		b.reverseClusters()
		b.Props.Direction = direction.Reverse()
	}
}

// mirrorCodepoint returns the canonical Bidi_Mirroring_Glyph for a
// rune, or the rune itself when it has none.
func mirrorCodepoint(r rune) rune {
	if m, ok := ucd.LookupMirrorChar(r); ok {
		return m
	}
	return r
}

// vertCharFor returns the vertical presentation form for a codepoint,
// or the codepoint itself. Used for vertical runs when the font lacks
// an explicit 'vert' feature.
func vertCharFor(u rune) rune {
	switch u >> 8 {
	case 0x20:
		switch u {
		case 0x2013:
			return 0xfe32 // EN DASH
		case 0x2014:
			return 0xfe31 // EM DASH
		case 0x2025:
			return 0xfe30 // TWO DOT LEADER
		case 0x2026:
			return 0xfe19 // HORIZONTAL ELLIPSIS
		}
	case 0x30:
		switch u {
		case 0x3001:
			return 0xfe11 // IDEOGRAPHIC COMMA
		case 0x3002:
			return 0xfe12 // IDEOGRAPHIC FULL STOP
		case 0x3008:
			return 0xfe3f // LEFT ANGLE BRACKET
		case 0x3009:
			return 0xfe40 // RIGHT ANGLE BRACKET
		case 0x300a:
			return 0xfe3d // LEFT DOUBLE ANGLE BRACKET
		case 0x300b:
			return 0xfe3e // RIGHT DOUBLE ANGLE BRACKET
		case 0x300c:
			return 0xfe41 // LEFT CORNER BRACKET
		case 0x300d:
			return 0xfe42 // RIGHT CORNER BRACKET
		case 0x300e:
			return 0xfe43 // LEFT WHITE CORNER BRACKET
		case 0x300f:
			return 0xfe44 // RIGHT WHITE CORNER BRACKET
		case 0x3010:
			return 0xfe3b // LEFT BLACK LENTICULAR BRACKET
		case 0x3011:
			return 0xfe3c // RIGHT BLACK LENTICULAR BRACKET
		case 0x3014:
			return 0xfe39 // LEFT TORTOISE SHELL BRACKET
		case 0x3015:
			return 0xfe3a // RIGHT TORTOISE SHELL BRACKET
		case 0x3016:
			return 0xfe17 // LEFT WHITE LENTICULAR BRACKET
		case 0x3017:
			return 0xfe18 // RIGHT WHITE LENTICULAR BRACKET
		}
	case 0xfe:
		if u == 0xfe4f {
			return 0xfe34 // WAVY LOW LINE
		}
	case 0xff:
		switch u {
		case 0xff01:
			return 0xfe15 // FULLWIDTH EXCLAMATION MARK
		case 0xff08:
			return 0xfe35 // FULLWIDTH LEFT PARENTHESIS
		case 0xff09:
			return 0xfe36 // FULLWIDTH RIGHT PARENTHESIS
		case 0xff0c:
			return 0xfe10 // FULLWIDTH COMMA
		case 0xff1a:
			return 0xfe13 // FULLWIDTH COLON
		case 0xff1b:
			return 0xfe14 // FULLWIDTH SEMICOLON
		case 0xff1f:
			return 0xfe16 // FULLWIDTH QUESTION MARK
		case 0xff3b:
			return 0xfe47 // FULLWIDTH LEFT SQUARE BRACKET
		case 0xff3d:
			return 0xfe48 // FULLWIDTH RIGHT SQUARE BRACKET
		case 0xff3f:
			return 0xfe33 // FULLWIDTH LOW LINE
		case 0xff5b:
			return 0xfe37 // FULLWIDTH LEFT CURLY BRACKET
		case 0xff5d:
			return 0xfe38 // FULLWIDTH RIGHT CURLY BRACKET
		}
	}
	return u
}
