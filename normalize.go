package otshaper

import (
	"sort"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Unicode normalization of the codepoint stream, run before glyph
// mapping. The goal is not normalization per se but picking the
// representation of each combining sequence that the font can render
// best: decompose what the font has no precomposed glyph for, then
// recompose what it does have, with combining marks in canonical order
// in between. Engines can veto or redirect individual steps through
// their normalization hooks.

func combiningClass(r rune) uint8 {
	return norm.NFC.PropertiesString(string(r)).CCC()
}

func decomposeUnicode(ab rune) (a, b rune, ok bool) {
	dec := norm.NFD.PropertiesString(string(ab)).Decomposition()
	if len(dec) == 0 {
		return ab, 0, false
	}

	first, n := utf8.DecodeRune(dec)
	if first == utf8.RuneError && n == 1 {
		return ab, 0, false
	}
	if n == len(dec) {
		return first, 0, true
	}

	second, m := utf8.DecodeRune(dec[n:])
	if second == utf8.RuneError && m == 1 {
		return ab, 0, false
	}
	if n+m != len(dec) {
		// Stay conservative: no multi-rune decompositions here.
		return ab, 0, false
	}

	return first, second, true
}

func composeUnicode(a, b rune) (rune, bool) {
	composed := norm.NFC.String(string([]rune{a, b}))
	first, n := utf8.DecodeRuneInString(composed)
	if first == utf8.RuneError && n == 1 {
		return 0, false
	}
	if n != len(composed) {
		return 0, false
	}
	return first, true
}

type normalizeContext struct {
	plan        *ShapePlan
	buffer      *Buffer
	face        Face
	hasGposMark bool
}

var _ NormalizeContext = normalizeContext{}

func (normalizeContext) DecomposeUnicode(ab rune) (a, b rune, ok bool) {
	return decomposeUnicode(ab)
}

func (normalizeContext) ComposeUnicode(a, b rune) (ab rune, ok bool) {
	return composeUnicode(a, b)
}

func (c normalizeContext) HasGposMark() bool { return c.hasGposMark }

// decomposeChar recursively decomposes ab and appends the resulting
// chars to the output, reusing info (cluster, mask) from the source
// glyph. Returns false when ab neither decomposes nor maps to a glyph;
// the caller then keeps ab as is.
func decomposeChar(c normalizeContext, e ShapingEngine, out *[]GlyphInfo, src GlyphInfo, ab rune, shortCircuit bool) bool {
	a, b, ok := engineDecompose(e, c, ab)
	if !ok {
		_, has := c.face.NominalGlyph(ab)
		if has {
			info := src
			info.Codepoint = ab
			*out = append(*out, info)
		}
		return has
	}

	_, hasB := c.face.NominalGlyph(b)
	if b == 0 {
		hasB = true
	}
	if hasB {
		if _, hasA := c.face.NominalGlyph(a); shortCircuit && hasA {
			info := src
			info.Codepoint = a
			*out = append(*out, info)
		} else if !decomposeChar(c, e, out, src, a, shortCircuit) {
			return false
		}
		if b != 0 {
			info := src
			info.Codepoint = b
			*out = append(*out, info)
		}
		return true
	}
	return false
}

// otShapeNormalize rewrites the codepoint stream of the buffer
// according to the plan's normalization mode.
func otShapeNormalize(plan *ShapePlan, buffer *Buffer, face Face) {
	if len(buffer.Info) == 0 {
		return
	}
	mode := plan.normalizationMode
	if mode == NormalizationNone {
		return
	}
	e := plan.engine
	c := normalizeContext{
		plan:        plan,
		buffer:      buffer,
		face:        face,
		hasGposMark: plan.map_.getMask1(T("mark")) != 0,
	}
	// With default mode, keep precomposed chars the font knows about.
	shortCircuit := mode != NormalizationDecomposed

	// First pass: decompose.
	out := make([]GlyphInfo, 0, len(buffer.Info))
	for _, info := range buffer.Info {
		n := len(out)
		if !decomposeChar(c, e, &out, info, info.Codepoint, shortCircuit) {
			out = append(out[:n], info)
		}
	}
	buffer.Info = out

	// Second pass: within each combining sequence, bring marks into
	// canonical order.
	for start := 0; start < len(buffer.Info); {
		end := start + 1
		for end < len(buffer.Info) && combiningClass(buffer.Info[end].Codepoint) != 0 {
			end++
		}
		if end-start > 2 {
			seq := buffer.Info[start+1 : end]
			sort.SliceStable(seq, func(i, j int) bool {
				return combiningClass(seq[i].Codepoint) < combiningClass(seq[j].Codepoint)
			})
			if h, ok := e.(EngineReorderHook); ok {
				h.ReorderMarks(plan, buffer, start+1, end)
			}
		}
		start = end
	}

	if mode == NormalizationDecomposed {
		return
	}

	// Third pass: recompose pairs the font has precomposed glyphs for.
	// A character composes with its starter when it immediately follows
	// it (this covers starter+starter pairs such as Hangul jamo) or when
	// no mark of equal or higher combining class sits in between.
	out = buffer.Info[:0]
	starter := -1
	prevCCC := uint8(255)
	for _, info := range buffer.Info[:len(buffer.Info):len(buffer.Info)] {
		ccc := combiningClass(info.Codepoint)
		if starter >= 0 && (starter == len(out)-1 || (ccc != 0 && prevCCC < ccc)) {
			if composed, ok := engineCompose(e, c, out[starter].Codepoint, info.Codepoint); ok {
				if _, has := face.NominalGlyph(composed); has {
					out[starter].Codepoint = composed
					if info.Cluster < out[starter].Cluster {
						out[starter].Cluster = info.Cluster
					}
					continue
				}
			}
		}
		out = append(out, info)
		if ccc == 0 {
			starter = len(out) - 1
			prevCCC = 0
		} else {
			prevCCC = ccc
		}
	}
	buffer.Info = out
}
