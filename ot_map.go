package otshaper

import (
	"math/bits"
	"sort"
)

// The feature map: plan-time builder plus compiled, queryable form.
//
// The builder accumulates feature requests; compile assigns each active
// feature a disjoint bit-field (mask and shift) inside the 32-bit
// per-glyph mask word, resolves each feature against the face's layout
// tables, and schedules the resulting lookups into stages separated by
// GSUB pauses.

// PauseFunc is a substitution synchronization point: it runs between
// two lookup stages and may mutate the buffer.
type PauseFunc func(plan *ShapePlan, face Face, buffer *Buffer)

type featureInfo struct {
	tag Tag
	seq int // sequence number, for stable sorting
	// maxValue is the largest value the feature was requested with.
	maxValue     uint32
	flags        FeatureFlags
	defaultValue uint32
	stage        [2]int
}

type stageInfo struct {
	index int
	pause PauseFunc
}

type otMapBuilder struct {
	face  Face
	props SegmentProperties

	chosenScript  [2]Tag
	foundScript   [2]bool
	scriptIndex   [2]int
	languageIndex [2]int

	currentStage [2]int
	featureInfos []featureInfo
	stages       [2][]stageInfo
}

func newOtMapBuilder(face Face, props SegmentProperties) otMapBuilder {
	b := otMapBuilder{face: face, props: props}

	scriptTags := otTagsFromScript(props.Script)
	langTags := []Tag{otTagFromLanguage(props.Language), tagDefaultLanguage}

	for table := TableGSUB; table <= TableGPOS; table++ {
		chosen, scriptIndex, found := face.SelectScript(table, scriptTags)
		b.chosenScript[table] = chosen
		b.foundScript[table] = found
		b.scriptIndex[table] = scriptIndex
		if found {
			langIndex, _ := face.SelectLanguage(table, scriptIndex, langTags)
			b.languageIndex[table] = langIndex
		} else {
			b.languageIndex[table] = DefaultLanguageIndex
		}
	}
	return b
}

func (b *otMapBuilder) addFeatureExt(tag Tag, flags FeatureFlags, value uint32) {
	if tag == 0 {
		return
	}
	var def uint32
	if flags&FeatureGlobal != 0 {
		def = value
	}
	b.featureInfos = append(b.featureInfos, featureInfo{
		tag:          tag,
		seq:          len(b.featureInfos) + 1,
		maxValue:     value,
		flags:        flags,
		defaultValue: def,
		stage:        [2]int{b.currentStage[TableGSUB], b.currentStage[TableGPOS]},
	})
}

// addFeature requests a feature without activating it globally.
func (b *otMapBuilder) addFeature(tag Tag) { b.addFeatureExt(tag, FeatureNone, 1) }

// enableFeature requests a feature active for the whole run.
func (b *otMapBuilder) enableFeature(tag Tag) { b.addFeatureExt(tag, FeatureGlobal, 1) }

func (b *otMapBuilder) enableFeatureExt(tag Tag, flags FeatureFlags, value uint32) {
	b.addFeatureExt(tag, FeatureGlobal|flags, value)
}

func (b *otMapBuilder) hasFeature(tag Tag) bool {
	for _, fi := range b.featureInfos {
		if fi.tag == tag {
			return true
		}
	}
	return false
}

// addGSUBPause closes the current GSUB lookup stage. A nil fn is a pure
// synchronization point without a callback.
func (b *otMapBuilder) addGSUBPause(fn PauseFunc) {
	b.addPause(TableGSUB, fn)
}

func (b *otMapBuilder) addPause(table TableType, fn PauseFunc) {
	if fn != nil {
		b.stages[table] = append(b.stages[table], stageInfo{
			index: b.currentStage[table],
			pause: fn,
		})
	}
	b.currentStage[table]++
}

// --- Compiled map -------------------------------------------------------

type featureMap struct {
	tag           Tag
	index         [2]int
	stage         [2]int
	shift         uint32
	mask          GlyphMask
	mask1         GlyphMask // mask for value 1, the lowest bit of mask
	needsFallback bool
	autoZWNJ      bool
	autoZWJ       bool
	random        bool
}

type stageMap struct {
	lastLookup int // end of this stage's slice of the lookup list
	pause      PauseFunc
}

// otMap is the compiled feature map of a plan: immutable, queryable,
// and executable against a buffer.
type otMap struct {
	chosenScript [2]Tag
	foundScript  [2]bool
	globalMask   GlyphMask

	features []featureMap // sorted by tag
	lookups  [2][]LookupMap
	stages   [2][]stageMap
}

// The single global bit sits directly above the run-level glyph flags;
// feature bit-fields are allocated above it.
var (
	globalBitShift = uint32(bits.OnesCount32(uint32(glyphFlagDefined)))
	globalBitMask  = GlyphMask(glyphFlagDefined + 1)
)

func (b *otMapBuilder) compile(m *otMap) {
	m.chosenScript = b.chosenScript
	m.foundScript = b.foundScript
	m.globalMask = globalBitMask

	// Sort requests by tag, stable in request order, and merge
	// duplicates; later requests win so user overrides beat defaults.
	infos := b.featureInfos
	sort.SliceStable(infos, func(i, j int) bool { return infos[i].tag < infos[j].tag })
	j := 0
	for i := 1; i < len(infos); i++ {
		if infos[i].tag != infos[j].tag {
			j++
			infos[j] = infos[i]
			continue
		}
		if infos[i].flags&FeatureGlobal != 0 {
			infos[j].flags |= FeatureGlobal
			infos[j].maxValue = infos[i].maxValue
			infos[j].defaultValue = infos[i].defaultValue
		} else {
			infos[j].flags &^= FeatureGlobal
			if infos[i].maxValue > infos[j].maxValue {
				infos[j].maxValue = infos[i].maxValue
			}
			// Inherit default from the previous request.
		}
		infos[j].flags |= infos[i].flags & FeatureHasFallback
		infos[j].stage[TableGSUB] = minInt(infos[j].stage[TableGSUB], infos[i].stage[TableGSUB])
		infos[j].stage[TableGPOS] = minInt(infos[j].stage[TableGPOS], infos[i].stage[TableGPOS])
	}
	if len(infos) > 0 {
		infos = infos[:j+1]
	}

	// Allocate bit-fields.
	var allocated GlyphMask = GlyphMask(glyphFlagDefined) | globalBitMask
	nextBit := globalBitShift + 1
	for _, info := range infos {
		var bitsNeeded uint32
		if info.flags&FeatureGlobal != 0 && info.maxValue == 1 {
			// Uses the global bit.
			bitsNeeded = 0
		} else {
			// Cap the bit-field; larger values saturate.
			bitsNeeded = minUint32(otMapMaxBits, uint32(bits.Len32(info.maxValue)))
		}
		if info.maxValue == 0 || nextBit+bitsNeeded > 32 {
			continue // feature disabled, or not enough bits
		}

		var featureIndex [2]int
		found := false
		for table := TableGSUB; table <= TableGPOS; table++ {
			featureIndex[table] = NoFeatureIndex
			if b.foundScript[table] {
				if fi, ok := b.face.FindFeature(table,
					b.scriptIndex[table], b.languageIndex[table], info.tag); ok {
					featureIndex[table] = fi
				}
			}
			if featureIndex[table] == NoFeatureIndex && info.flags&FeatureGlobalSearch != 0 {
				if fi, ok := b.face.FindFeatureAnyScript(table, info.tag); ok {
					featureIndex[table] = fi
				}
			}
			found = found || featureIndex[table] != NoFeatureIndex
		}
		if !found && info.flags&FeatureHasFallback == 0 {
			continue
		}

		fm := featureMap{
			tag:           info.tag,
			index:         featureIndex,
			stage:         info.stage,
			needsFallback: !found,
			autoZWNJ:      info.flags&FeatureManualZWNJ == 0,
			autoZWJ:       info.flags&FeatureManualZWJ == 0,
			random:        info.flags&FeatureRandom != 0,
		}
		if info.flags&FeatureGlobal != 0 && info.maxValue == 1 {
			fm.shift = globalBitShift
			fm.mask = globalBitMask
		} else {
			fm.shift = nextBit
			fm.mask = (1<<(nextBit+bitsNeeded) - 1) &^ (1<<nextBit - 1)
			assert(fm.mask&allocated == 0, "feature mask bit-fields overlap")
			allocated |= fm.mask
			nextBit += bitsNeeded
			m.globalMask |= (info.defaultValue << fm.shift) & fm.mask
		}
		fm.mask1 = (1 << fm.shift) & fm.mask
		m.features = append(m.features, fm)
	}

	// Features are sorted by tag already; record and schedule lookups.
	for table := TableGSUB; table <= TableGPOS; table++ {
		b.compileStages(m, table)
	}
}

func (b *otMapBuilder) compileStages(m *otMap, table TableType) {
	stageIndex := 0
	requiredIndex := NoFeatureIndex
	if b.foundScript[table] {
		if ri, ok := b.face.RequiredFeature(table, b.scriptIndex[table], b.languageIndex[table]); ok {
			requiredIndex = ri
		}
	}
	for stage := 0; stage <= b.currentStage[table]; stage++ {
		if requiredIndex != NoFeatureIndex && stage == 0 {
			m.addLookups(b.face, table, requiredIndex, globalBitMask, true, true, false)
		}
		for _, fm := range m.features {
			if fm.stage[table] == stage && fm.index[table] != NoFeatureIndex {
				m.addLookups(b.face, table, fm.index[table], fm.mask,
					fm.autoZWNJ, fm.autoZWJ, fm.random)
			}
		}

		// Sort this stage's lookups and merge duplicate indices.
		start := 0
		if n := len(m.stages[table]); n > 0 {
			start = m.stages[table][n-1].lastLookup
		}
		m.lookups[table] = dedupLookups(m.lookups[table], start)

		var pause PauseFunc
		if stageIndex < len(b.stages[table]) && b.stages[table][stageIndex].index == stage {
			pause = b.stages[table][stageIndex].pause
			stageIndex++
		}
		m.stages[table] = append(m.stages[table], stageMap{
			lastLookup: len(m.lookups[table]),
			pause:      pause,
		})
	}
}

func (m *otMap) addLookups(face Face, table TableType, featureIndex int,
	mask GlyphMask, autoZWNJ, autoZWJ, random bool,
) {
	for _, idx := range face.FeatureLookups(table, featureIndex) {
		m.lookups[table] = append(m.lookups[table], LookupMap{
			Index:    idx,
			Mask:     mask,
			AutoZWNJ: autoZWNJ,
			AutoZWJ:  autoZWJ,
			Random:   random,
		})
	}
}

func dedupLookups(lookups []LookupMap, start int) []LookupMap {
	span := lookups[start:]
	if len(span) < 2 {
		return lookups
	}
	sort.SliceStable(span, func(i, j int) bool { return span[i].Index < span[j].Index })
	j := 0
	for i := 1; i < len(span); i++ {
		if span[i].Index != span[j].Index {
			j++
			span[j] = span[i]
			continue
		}
		span[j].Mask |= span[i].Mask
		span[j].AutoZWNJ = span[j].AutoZWNJ && span[i].AutoZWNJ
		span[j].AutoZWJ = span[j].AutoZWJ && span[i].AutoZWJ
	}
	return lookups[:start+j+1]
}

// --- Queries ------------------------------------------------------------

func (m *otMap) findFeature(tag Tag) *featureMap {
	i := sort.Search(len(m.features), func(i int) bool { return m.features[i].tag >= tag })
	if i < len(m.features) && m.features[i].tag == tag {
		return &m.features[i]
	}
	return nil
}

// getMask returns the feature's full bit-field and its shift.
func (m *otMap) getMask(tag Tag) (GlyphMask, uint32) {
	if f := m.findFeature(tag); f != nil {
		return f.mask, f.shift
	}
	return 0, 0
}

// getMask1 returns the mask bit representing value 1 of the feature.
func (m *otMap) getMask1(tag Tag) GlyphMask {
	if f := m.findFeature(tag); f != nil {
		return f.mask1
	}
	return 0
}

func (m *otMap) needsFallback(tag Tag) bool {
	if f := m.findFeature(tag); f != nil {
		return f.needsFallback
	}
	return false
}

func (m *otMap) featureIndex(table TableType, tag Tag) int {
	if f := m.findFeature(tag); f != nil {
		return f.index[table]
	}
	return NoFeatureIndex
}

// --- Execution ----------------------------------------------------------

// apply drives one table's staged lookups over the buffer, running
// pause callbacks between stages. A face without a LayoutApplier
// degrades to pauses only.
func (m *otMap) apply(table TableType, plan *ShapePlan, face Face, buffer *Buffer) {
	applier, hasApplier := face.(LayoutApplier)
	start := 0
	for _, st := range m.stages[table] {
		if hasApplier && st.lastLookup > start {
			applier.ApplyLookups(table, plan, buffer, m.lookups[table][start:st.lastLookup])
		}
		start = st.lastLookup
		if st.pause != nil {
			st.pause(plan, face, buffer)
		}
	}
}

func (m *otMap) substitute(plan *ShapePlan, face Face, buffer *Buffer) {
	m.apply(TableGSUB, plan, face, buffer)
}

func (m *otMap) position(plan *ShapePlan, face Face, buffer *Buffer) {
	m.apply(TableGPOS, plan, face, buffer)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func minUint32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}
