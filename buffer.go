package otshaper

import "math"

// GID is a glyph index within a face.
type GID uint32

// NOTDEF is the glyph index for OpenType ".notdef".
const NOTDEF = GID(0)

// Run-level glyph flags. They live in the low bits of the per-glyph
// mask word; compiled feature masks are allocated above them.
const (
	// GlyphUnsafeToBreak marks a glyph where breaking the line and
	// re-shaping each side would not reproduce the same result.
	GlyphUnsafeToBreak GlyphMask = 0x1
	// GlyphUnsafeToConcat marks a glyph where concatenating with an
	// adjacent re-shaped run is not safe.
	GlyphUnsafeToConcat GlyphMask = 0x2
	// GlyphSafeToInsertTatweel marks a position where a tatweel may be
	// inserted for justification.
	GlyphSafeToInsertTatweel GlyphMask = 0x4

	glyphFlagDefined GlyphMask = 0x7
)

// BufferFlags alter run-level shaping behavior.
type BufferFlags uint16

const (
	// Bot marks the buffer as starting at the beginning of text.
	Bot BufferFlags = 1 << iota
	// Eot marks the buffer as ending at the end of text.
	Eot
	// PreserveDefaultIgnorables keeps default-ignorable glyphs visible.
	PreserveDefaultIgnorables
	// RemoveDefaultIgnorables removes default-ignorable glyphs entirely.
	RemoveDefaultIgnorables
	// DoNotInsertDottedCircle suppresses dotted-circle insertion before
	// stray combining marks.
	DoNotInsertDottedCircle
	// ProduceUnsafeToConcat requests unsafe-to-concat flagging.
	ProduceUnsafeToConcat
	// ProduceSafeToInsertTatweel requests tatweel-insertion flagging.
	ProduceSafeToInsertTatweel
)

type bufferScratchFlags uint32

const (
	bsfDefault              bufferScratchFlags = 0
	bsfHasNonASCII          bufferScratchFlags = 1 << iota
	bsfHasDefaultIgnorables
	bsfHasSpaceFallback
	bsfHasGlyphFlags
	bsfHasBrokenSyllable
)

// Safety budgets, recomputed from glyph count at the start of every
// shaping call and restored to these defaults at the end.
const (
	maxLenFactor  = 64
	maxLenMin     = 16384
	maxLenDefault = 0x3FFFFFFF

	maxOpsFactor  = 1024
	maxOpsMin     = 16384
	maxOpsDefault = 0x1FFFFFFF
)

// GlyphInfo is one glyph record of a buffer. Before substitution the
// Glyph field holds the default cmap mapping of Codepoint; lookups may
// replace, insert or delete records.
type GlyphInfo struct {
	Codepoint rune
	Glyph     GID
	// Cluster groups characters/glyphs that must not be split across a
	// break. Monotone along the buffer in logical order.
	Cluster int
	// Mask carries feature bits and run-level glyph flags.
	Mask GlyphMask

	unicode    unicodeProp
	glyphProps uint8 // synthesized glyph class, see synthesizeGlyphClasses

	// Scratch fields owned by the active shaping engine.
	complexCategory uint8
	complexAux      uint8
}

func (gi *GlyphInfo) isMark() bool {
	return gi.unicode.generalCategory().isMark()
}

func (gi *GlyphInfo) isDefaultIgnorable() bool {
	return gi.unicode&upDefaultIgnorable != 0
}

// GlyphPos is the position of one glyph, in font units.
type GlyphPos struct {
	XAdvance int32
	YAdvance int32
	XOffset  int32
	YOffset  int32
}

// Buffer is the mutable working set of one shaping call: glyph records
// plus parallel positions, the run's segment properties, and run-level
// state. A buffer is exclusively owned by the single call operating on
// it; the pipeline never retains a reference beyond that call.
type Buffer struct {
	Info []GlyphInfo
	Pos  []GlyphPos

	Props SegmentProperties
	Flags BufferFlags

	// Invisible is the glyph used to replace hidden default-ignorables,
	// or 0 to use the face's space glyph.
	Invisible GID

	scratchFlags bufferScratchFlags

	// Cooperative work budgets. Execution collaborators must consult
	// them through ConsumeOps and CheckLen and stop when exhausted.
	maxLen int
	maxOps int

	// Output staging area used while lookups insert or delete glyphs.
	outInfo    []GlyphInfo
	idx        int
	haveOutput bool
}

// NewBuffer returns an empty buffer with default budgets.
func NewBuffer() *Buffer {
	return &Buffer{maxLen: maxLenDefault, maxOps: maxOpsDefault}
}

// AddRunes appends a run of characters. Each character receives its
// index (offset by clusterBase) as initial cluster value.
func (b *Buffer) AddRunes(text []rune, clusterBase int) {
	for i, r := range text {
		b.Info = append(b.Info, GlyphInfo{Codepoint: r, Cluster: clusterBase + i})
	}
}

// Clear resets the buffer for reuse, keeping allocations.
func (b *Buffer) Clear() {
	b.Info = b.Info[:0]
	b.Pos = b.Pos[:0]
	b.outInfo = b.outInfo[:0]
	b.idx = 0
	b.haveOutput = false
	b.scratchFlags = bsfDefault
	b.maxLen = maxLenDefault
	b.maxOps = maxOpsDefault
}

// Len returns the number of glyph records.
func (b *Buffer) Len() int { return len(b.Info) }

// ConsumeOps charges n units against the operations budget and reports
// whether work may continue. Lookup interpreters call this once per
// applied operation.
func (b *Buffer) ConsumeOps(n int) bool {
	b.maxOps -= n
	return b.maxOps > 0
}

// CheckLen reports whether growing the buffer to n glyphs stays within
// the length budget.
func (b *Buffer) CheckLen(n int) bool {
	return n <= b.maxLen
}

// setBudgets recomputes maxLen/maxOps from the glyph count.
func (b *Buffer) setBudgets() {
	count := len(b.Info)
	b.maxLen = scaleBudget(count, maxLenFactor, maxLenMin, b.maxLen)
	b.maxOps = scaleBudget(count, maxOpsFactor, maxOpsMin, b.maxOps)
}

// scaleBudget returns count*factor, floored at floor. A multiplication
// that would overflow keeps the previous budget value instead of
// wrapping around.
func scaleBudget(count, factor, floor, prev int) int {
	if count > math.MaxInt/factor {
		return prev
	}
	return maxInt(count*factor, floor)
}

// resetBudgets restores the process-wide default budgets.
func (b *Buffer) resetBudgets() {
	b.maxLen = maxLenDefault
	b.maxOps = maxOpsDefault
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// resetMasks overwrites every glyph's mask with the given value,
// preserving nothing.
func (b *Buffer) resetMasks(mask GlyphMask) {
	for i := range b.Info {
		b.Info[i].Mask = mask
	}
}

// setMasks sets value under mask for all glyphs whose cluster lies in
// [start,end). Cluster values, not glyph indices: ranged feature
// overrides are expressed in character positions.
func (b *Buffer) setMasks(value, mask GlyphMask, start, end int) {
	if mask == 0 {
		return
	}
	value &= mask
	for i := range b.Info {
		if b.Info[i].Cluster >= start && b.Info[i].Cluster < end {
			b.Info[i].Mask = (b.Info[i].Mask &^ mask) | value
		}
	}
}

// mergeClusters extends the smallest cluster value over [start,end).
func (b *Buffer) mergeClusters(start, end int) {
	if end-start < 2 {
		return
	}
	cluster := b.Info[start].Cluster
	for i := start + 1; i < end; i++ {
		if b.Info[i].Cluster < cluster {
			cluster = b.Info[i].Cluster
		}
	}
	for i := start; i < end; i++ {
		b.Info[i].Cluster = cluster
	}
}

// unsafeToBreak marks the glyph span [start,end) as not breakable.
func (b *Buffer) unsafeToBreak(start, end int) {
	if end-start < 1 {
		return
	}
	for i := start; i < end; i++ {
		b.Info[i].Mask |= GlyphUnsafeToBreak | GlyphUnsafeToConcat
	}
	b.scratchFlags |= bsfHasGlyphFlags
}

// Reverse reverses the glyph sequence, and positions when present.
func (b *Buffer) Reverse() {
	b.reverseRange(0, len(b.Info))
}

func (b *Buffer) reverseRange(start, end int) {
	for i, j := start, end-1; i < j; i, j = i+1, j-1 {
		b.Info[i], b.Info[j] = b.Info[j], b.Info[i]
	}
	if len(b.Pos) == len(b.Info) {
		for i, j := start, end-1; i < j; i, j = i+1, j-1 {
			b.Pos[i], b.Pos[j] = b.Pos[j], b.Pos[i]
		}
	}
}

// reverseClusters reverses the glyph sequence while keeping each
// cluster's internal order intact.
func (b *Buffer) reverseClusters() {
	b.Reverse()
	count := len(b.Info)
	start := 0
	for start < count {
		end := start + 1
		for end < count && b.Info[end].Cluster == b.Info[start].Cluster {
			end++
		}
		b.reverseRange(start, end)
		start = end
	}
}

// clearPositions (re)allocates the position array, zeroed.
func (b *Buffer) clearPositions() {
	if cap(b.Pos) < len(b.Info) {
		b.Pos = make([]GlyphPos, len(b.Info))
		return
	}
	b.Pos = b.Pos[:len(b.Info)]
	for i := range b.Pos {
		b.Pos[i] = GlyphPos{}
	}
}

// --- Output staging -----------------------------------------------------
//
// Lookups that insert or delete glyphs write into outInfo while idx
// walks Info; swapBuffers commits the staged output. Lookup
// interpreters follow the same protocol.

func (b *Buffer) clearOutput() {
	b.outInfo = b.outInfo[:0]
	b.idx = 0
	b.haveOutput = true
}

// cur returns the glyph record at idx+i.
func (b *Buffer) cur(i int) *GlyphInfo {
	return &b.Info[b.idx+i]
}

// nextGlyph copies the current glyph to the output and advances.
func (b *Buffer) nextGlyph() {
	if b.haveOutput {
		b.outInfo = append(b.outInfo, b.Info[b.idx])
	}
	b.idx++
}

// swapBuffers commits staged output as the new glyph sequence.
func (b *Buffer) swapBuffers() {
	assert(b.haveOutput, "swapBuffers without staged output")
	b.Info, b.outInfo = b.outInfo, b.Info
	b.outInfo = b.outInfo[:0]
	b.idx = 0
	b.haveOutput = false
}

// deleteGlyphsInplace removes all glyphs matching filter, merging their
// cluster value into a neighbor so cluster coverage stays unbroken.
// Pos entries move along with their Info records, as this may run
// after positioning.
func (b *Buffer) deleteGlyphsInplace(filter func(*GlyphInfo) bool) {
	out := b.Info[:0]
	for i := range b.Info {
		if filter(&b.Info[i]) {
			if len(out) > 0 {
				if b.Info[i].Cluster < out[len(out)-1].Cluster {
					out[len(out)-1].Cluster = b.Info[i].Cluster
				}
			} else if i+1 < len(b.Info) && b.Info[i].Cluster < b.Info[i+1].Cluster {
				b.Info[i+1].Cluster = b.Info[i].Cluster
			}
			continue
		}
		if i < len(b.Pos) {
			b.Pos[len(out)] = b.Pos[i]
		}
		out = append(out, b.Info[i])
	}
	b.Info = out
	if len(b.Pos) > len(b.Info) {
		b.Pos = b.Pos[:len(b.Info)]
	}
}

// --- Cluster iteration --------------------------------------------------

type clusterIter struct {
	buffer *Buffer
	start  int
}

func (b *Buffer) clusterIterator() (*clusterIter, int) {
	return &clusterIter{buffer: b}, len(b.Info)
}

// next returns the next [start,end) cluster span; start == len signals
// exhaustion.
func (ci *clusterIter) next() (int, int) {
	info := ci.buffer.Info
	count := len(info)
	start := ci.start
	if start >= count {
		return count, count
	}
	end := start + 1
	for end < count && info[end].Cluster == info[start].Cluster {
		end++
	}
	ci.start = end
	return start, end
}
