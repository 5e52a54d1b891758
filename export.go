package otshaper

// Exported surface for script engine packages. Engines live outside
// this package and reach buffer internals only through these methods.

// ComplexCategory returns the engine-owned per-glyph category.
func (gi *GlyphInfo) ComplexCategory() uint8 { return gi.complexCategory }

// SetComplexCategory stores an engine-owned per-glyph category.
func (gi *GlyphInfo) SetComplexCategory(v uint8) { gi.complexCategory = v }

// ComplexAux returns the engine-owned auxiliary per-glyph value.
func (gi *GlyphInfo) ComplexAux() uint8 { return gi.complexAux }

// SetComplexAux stores an engine-owned auxiliary per-glyph value.
func (gi *GlyphInfo) SetComplexAux(v uint8) { gi.complexAux = v }

// IsDefaultIgnorable reports whether the glyph's character is a Unicode
// default-ignorable.
func (gi *GlyphInfo) IsDefaultIgnorable() bool { return gi.isDefaultIgnorable() }

// IsUnicodeMark reports whether the glyph's character is a combining
// mark.
func (gi *GlyphInfo) IsUnicodeMark() bool { return gi.isMark() }

// MergeClusters extends the smallest cluster value over the glyph span
// [start,end).
func (b *Buffer) MergeClusters(start, end int) { b.mergeClusters(start, end) }

// UnsafeToBreak marks the glyph span [start,end) as not safely
// breakable.
func (b *Buffer) UnsafeToBreak(start, end int) { b.unsafeToBreak(start, end) }

// UnsafeToConcat marks the glyph span [start,end) as not safely
// concatenable with re-shaped neighbor runs. A no-op unless the buffer
// requested unsafe-to-concat flagging.
func (b *Buffer) UnsafeToConcat(start, end int) {
	if b.Flags&ProduceUnsafeToConcat == 0 {
		return
	}
	for i := start; i < end && i < len(b.Info); i++ {
		b.Info[i].Mask |= GlyphUnsafeToConcat
	}
	b.scratchFlags |= bsfHasGlyphFlags
}

// SafeToInsertTatweel marks the glyph span [start,end) as a place where
// a tatweel may be inserted for justification. When the buffer did not
// request tatweel flagging, the span degrades to unsafe-to-break.
func (b *Buffer) SafeToInsertTatweel(start, end int) {
	if b.Flags&ProduceSafeToInsertTatweel == 0 {
		b.unsafeToBreak(start, end)
		return
	}
	for i := start; i < end && i < len(b.Info); i++ {
		b.Info[i].Mask |= GlyphSafeToInsertTatweel
	}
	b.scratchFlags |= bsfHasGlyphFlags
}
