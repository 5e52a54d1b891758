package otshaper

import "fmt"

// The shape planner and the compiled shape plan.
//
// Planning answers, once per (face, segment, feature-set) combination,
// every decision shaping needs: which shaping engine handles the
// script, which layout tables drive substitution and positioning, and
// which mask bits select each feature. The resulting ShapePlan is
// immutable and may shape any number of buffers, concurrently.

type otShapePlanner struct {
	face      Face
	props     SegmentProperties
	engine    ShapingEngine
	map_      otMapBuilder
	aatMap    aatMapBuilder
	applyMorx bool

	scriptZeroMarks               bool
	scriptFallbackMarkPositioning bool
}

var _ FeaturePlanner = (*otShapePlanner)(nil)

func (planner *otShapePlanner) EnableFeature(tag Tag) {
	planner.map_.enableFeature(tag)
}

func (planner *otShapePlanner) AddFeatureExt(tag Tag, flags FeatureFlags, value uint32) {
	planner.map_.addFeatureExt(tag, flags, value)
}

func (planner *otShapePlanner) EnableFeatureExt(tag Tag, flags FeatureFlags, value uint32) {
	planner.map_.enableFeatureExt(tag, flags, value)
}

func (planner *otShapePlanner) AddGSUBPause(fn PauseFunc) {
	planner.map_.addGSUBPause(fn)
}

func (planner *otShapePlanner) HasFeature(tag Tag) bool {
	return planner.map_.hasFeature(tag)
}

func newOtShapePlanner(face Face, props SegmentProperties) *otShapePlanner {
	var out otShapePlanner
	out.face = face
	out.props = props
	out.map_ = newOtMapBuilder(face, props)
	out.aatMap = newAatMapBuilder(face)

	// Glyph metamorphosis drives substitution when present, unless the
	// face also has OT substitution and the run is vertical.
	out.applyMorx = face.HasAATSubstitution() &&
		(props.Direction.isHorizontal() || !face.HasOTSubstitution())

	out.engine = out.selectShaper()

	zwm, fb := engineMarksBehavior(out.engine)
	out.scriptZeroMarks = zwm != ZeroWidthMarksNone
	out.scriptFallbackMarkPositioning = fb
	return &out
}

func (planner *otShapePlanner) selectShaper() ShapingEngine {
	engine := resolveShaperForContext(SelectionContext{
		Script:       planner.props.Script,
		Direction:    planner.props.Direction,
		ChosenScript: planner.map_.chosenScript,
		FoundScript:  planner.map_.foundScript,
	})
	if planner.applyMorx && engineRequiresGSUB(engine) {
		// The engine's runtime hooks assume GSUB application; with
		// morx in charge, shape script-agnostically instead.
		tracer().Debugf("engine %q requires GSUB, overridden by morx", engine.Name())
		engine = defaultEngine{}.New()
	}
	return engine
}

var (
	commonFeatures = [...]otMapFeature{
		{T("abvm"), FeatureGlobal},
		{T("blwm"), FeatureGlobal},
		{T("ccmp"), FeatureGlobal},
		{T("locl"), FeatureGlobal},
		{T("mark"), FeatureGlobal | FeatureManualJoiners},
		{T("mkmk"), FeatureGlobal | FeatureManualJoiners},
		{T("rlig"), FeatureGlobal},
	}

	horizontalFeatures = [...]otMapFeature{
		{T("calt"), FeatureGlobal},
		{T("clig"), FeatureGlobal},
		{T("curs"), FeatureGlobal},
		{T("dist"), FeatureGlobal},
		{T("kern"), FeatureGlobal | FeatureHasFallback},
		{T("liga"), FeatureGlobal},
		{T("rclt"), FeatureGlobal},
	}
)

func (planner *otShapePlanner) collectFeatures(userFeatures []Feature) {
	map_ := &planner.map_

	map_.enableFeature(T("rvrn"))
	map_.addGSUBPause(nil)

	switch planner.props.Direction {
	case LeftToRight:
		map_.enableFeature(T("ltra"))
		map_.enableFeature(T("ltrm"))
	case RightToLeft:
		map_.enableFeature(T("rtla"))
		map_.addFeature(T("rtlm"))
	}

	/* Automatic fractions. */
	map_.addFeature(T("frac"))
	map_.addFeature(T("numr"))
	map_.addFeature(T("dnom"))

	/* Random! */
	map_.enableFeatureExt(T("rand"), FeatureRandom, otMapMaxValue)

	// Tracking. Enabled by default, with a fallback outside the layout
	// tables, so users can disable it via a feature override.
	map_.enableFeatureExt(T("trak"), FeatureHasFallback, 1)

	map_.enableFeature(T("HARF")) /* Considered required. */

	engineCollectFeatures(planner.engine, planner, planner.props.Script)

	map_.enableFeature(T("BUZZ")) /* Considered required. */

	for _, feat := range commonFeatures {
		map_.addFeatureExt(feat.tag, feat.flags, 1)
	}

	if planner.props.Direction.isHorizontal() {
		for _, feat := range horizontalFeatures {
			map_.addFeatureExt(feat.tag, feat.flags, 1)
		}
	} else {
		// A 'vert' feature is wanted no matter which script or langsys
		// it is listed under, so search the whole feature list.
		map_.enableFeatureExt(T("vert"), FeatureGlobalSearch, 1)
	}

	for _, f := range userFeatures {
		flags := FeatureNone
		if f.IsGlobal() {
			flags = FeatureGlobal
		}
		map_.addFeatureExt(f.Tag, flags, f.Value)
	}

	if planner.applyMorx {
		for _, f := range userFeatures {
			planner.aatMap.addFeature(f.Tag, f.Value)
		}
	}

	engineOverrideFeatures(planner.engine, planner)
}

func (planner *otShapePlanner) compile(plan *ShapePlan) {
	face := planner.face
	plan.props = planner.props
	plan.engine = planner.engine
	plan.normalizationMode = engineNormalizationPreference(planner.engine)

	planner.map_.compile(&plan.map_)
	if planner.applyMorx {
		planner.aatMap.compile(&plan.aatMap)
	}

	plan.fracMask = plan.map_.getMask1(T("frac"))
	plan.numrMask = plan.map_.getMask1(T("numr"))
	plan.dnomMask = plan.map_.getMask1(T("dnom"))
	plan.hasFrac = plan.fracMask != 0 || (plan.numrMask != 0 && plan.dnomMask != 0)

	plan.rtlmMask = plan.map_.getMask1(T("rtlm"))
	plan.hasVert = plan.map_.getMask1(T("vert")) != 0

	kernTag := T("kern")
	if !planner.props.Direction.isHorizontal() {
		kernTag = T("vkrn")
	}
	plan.kernMask, _ = plan.map_.getMask(kernTag)
	plan.requestedKerning = plan.kernMask != 0
	plan.trakMask, _ = plan.map_.getMask(T("trak"))
	plan.requestedTracking = plan.trakMask != 0

	hasGposKern := plan.map_.featureIndex(TableGPOS, kernTag) != NoFeatureIndex
	gposTag := engineGposTag(planner.engine)
	disableGpos := gposTag != 0 && gposTag != plan.map_.chosenScript[TableGPOS]

	// Decide who provides glyph classes. GDEF or Unicode.
	if !face.HasGlyphClasses() {
		plan.fallbackGlyphClasses = true
	}

	// Decide who does substitutions. morx, GSUB, or fallback.
	plan.applyMorx = planner.applyMorx

	// Decide who does positioning. kerx, GPOS, kern, or fallback.
	if face.HasAATPositioning() {
		plan.applyKerx = true
	} else if !plan.applyMorx && !disableGpos && face.HasOTPositioning() {
		plan.applyGpos = true
	}

	if !plan.applyKerx && (!hasGposKern || !plan.applyGpos) {
		if face.HasAATPositioning() {
			plan.applyKerx = true
		} else if face.HasKernTable() {
			plan.applyKern = true
		}
	}

	plan.zeroMarks = planner.scriptZeroMarks && !plan.applyKerx &&
		(!plan.applyKern || !face.HasMachineKerning())
	plan.hasGposMark = plan.map_.getMask1(T("mark")) != 0

	plan.adjustMarkPositioningWhenZeroing = !plan.applyGpos && !plan.applyKerx &&
		(!plan.applyKern || !face.HasCrossKerning())

	plan.fallbackMarkPositioning = plan.adjustMarkPositioningWhenZeroing &&
		planner.scriptFallbackMarkPositioning

	// With morx, mark offsets stay untouched when zeroing advances;
	// metamorphosis-built sequences rely on that.
	if plan.applyMorx {
		plan.adjustMarkPositioningWhenZeroing = false
	}

	plan.applyTrak = plan.requestedTracking && face.HasTracking()
}

// ShapePlan is the compiled, immutable shaping strategy for one
// (face, segment properties, feature set) combination. A plan is only
// valid for the face it was compiled from. It is safe for concurrent
// use by multiple goroutines.
type ShapePlan struct {
	engine ShapingEngine
	props  SegmentProperties

	map_   otMap
	aatMap aatMap

	normalizationMode NormalizationMode

	fracMask GlyphMask
	numrMask GlyphMask
	dnomMask GlyphMask
	rtlmMask GlyphMask
	kernMask GlyphMask
	trakMask GlyphMask

	hasFrac                          bool
	hasVert                          bool
	hasGposMark                      bool
	zeroMarks                        bool
	requestedKerning                 bool
	requestedTracking                bool
	fallbackGlyphClasses             bool
	fallbackMarkPositioning          bool
	adjustMarkPositioningWhenZeroing bool

	applyGpos bool
	applyMorx bool
	applyKerx bool
	applyKern bool
	applyTrak bool

	engineData interface{}
	released   bool
}

// NewShapePlan compiles a shape plan. The returned plan captures every
// layout decision for the combination of arguments; it does not retain
// the face.
func NewShapePlan(face Face, props SegmentProperties, userFeatures []Feature) (*ShapePlan, error) {
	if face == nil {
		return nil, errShaper("cannot plan shaping without a face")
	}
	planner := newOtShapePlanner(face, props)
	planner.collectFeatures(userFeatures)

	plan := &ShapePlan{}
	planner.compile(plan)

	if h, ok := plan.engine.(EngineDataHooks); ok {
		if err := h.InitPlanData(plan); err != nil {
			h.ReleasePlanData(plan)
			return nil, fmt.Errorf("shaping engine %q: %w", plan.engine.Name(), err)
		}
	}
	tracer().Debugf("compiled shape plan: engine=%s script=%s gpos=%v morx=%v kerx=%v kern=%v",
		plan.engine.Name(), plan.props.Script, plan.applyGpos, plan.applyMorx,
		plan.applyKerx, plan.applyKern)
	return plan, nil
}

// Release frees per-plan engine data. The plan must not be used for
// shaping afterwards. Release is idempotent.
func (plan *ShapePlan) Release() {
	if plan.released {
		return
	}
	plan.released = true
	if h, ok := plan.engine.(EngineDataHooks); ok {
		h.ReleasePlanData(plan)
	}
}

// Engine returns the shaping engine selected for this plan.
func (plan *ShapePlan) Engine() ShapingEngine { return plan.engine }

// Backend decisions, fixed at compile time.

// AppliesGpos reports whether OpenType positioning drives positioning.
func (plan *ShapePlan) AppliesGpos() bool { return plan.applyGpos }

// AppliesMorx reports whether glyph metamorphosis drives substitution.
func (plan *ShapePlan) AppliesMorx() bool { return plan.applyMorx }

// AppliesKerx reports whether the AAT kerning machine drives positioning.
func (plan *ShapePlan) AppliesKerx() bool { return plan.applyKerx }

// AppliesKern reports whether the legacy kern table drives kerning.
func (plan *ShapePlan) AppliesKern() bool { return plan.applyKern }

// AppliesTracking reports whether AAT tracking is applied.
func (plan *ShapePlan) AppliesTracking() bool { return plan.applyTrak }

// Props returns the segment properties the plan was compiled for.
func (plan *ShapePlan) Props() SegmentProperties { return plan.props }

// ChosenScript returns the script tag selected in the given table.
func (plan *ShapePlan) ChosenScript(table TableType) Tag {
	return plan.map_.chosenScript[table]
}

// AATFeatures returns the feature requests mirrored for the AAT
// substitution machine. Empty unless morx drives substitution.
func (plan *ShapePlan) AATFeatures() []AATFeature { return plan.aatMap.Features() }

// FeatureMask1 returns the mask bit representing value 1 of a feature,
// or 0 when the feature is not in the plan.
func (plan *ShapePlan) FeatureMask1(tag Tag) GlyphMask {
	return plan.map_.getMask1(tag)
}

// FeatureNeedsFallback reports whether the feature was requested with a
// fallback and the face's tables could not serve it.
func (plan *ShapePlan) FeatureNeedsFallback(tag Tag) bool {
	return plan.map_.needsFallback(tag)
}

// EngineData returns the per-plan data attached by the engine's
// InitPlanData hook.
func (plan *ShapePlan) EngineData() interface{} { return plan.engineData }

// SetEngineData attaches per-plan engine data. Only meaningful from
// within InitPlanData.
func (plan *ShapePlan) SetEngineData(data interface{}) { plan.engineData = data }

func (plan *ShapePlan) substitute(face Face, buffer *Buffer) {
	if plan.applyMorx {
		if aat, ok := face.(AATApplier); ok {
			aat.SubstituteMorx(plan, buffer)
		}
		return
	}
	plan.map_.substitute(plan, face, buffer)
}

func (plan *ShapePlan) position(face Face, buffer *Buffer) {
	switch {
	case plan.applyGpos:
		plan.map_.position(plan, face, buffer)
	case plan.applyKerx:
		if aat, ok := face.(AATApplier); ok {
			aat.PositionKerx(plan, buffer)
		}
	case plan.applyKern:
		if kern, ok := face.(KernApplier); ok {
			kern.ApplyKern(plan, buffer)
		}
	default:
		if fb, ok := face.(FallbackApplier); ok {
			fb.FallbackKern(plan, buffer)
		}
	}
	if plan.applyTrak {
		if aat, ok := face.(AATApplier); ok {
			aat.ApplyTracking(plan, buffer)
		}
	}
}

/*
 * Shaping pipeline
 */

type otContext struct {
	plan         *ShapePlan
	face         Face
	buffer       *Buffer
	userFeatures []Feature

	// transient stuff
	targetDirection Direction
}

// Shape runs the full shaping pipeline over the buffer: the buffer's
// codepoints are replaced by positioned glyphs of the face the plan was
// compiled from. Features given here refine the plan's user features
// with per-range values; they must be a subset of the features the plan
// was compiled with.
func (plan *ShapePlan) Shape(face Face, buffer *Buffer, features []Feature) {
	c := otContext{plan: plan, face: face, buffer: buffer, userFeatures: features}
	buffer.scratchFlags = bsfDefault
	buffer.setBudgets()

	// Save the original direction, we use it later.
	c.targetDirection = buffer.Props.Direction

	buffer.clearOutput()

	c.initializeMasks()
	buffer.setUnicodeProps()
	buffer.insertDottedCircle(face)

	buffer.formClusters()

	buffer.ensureNativeDirection()

	if h, ok := plan.engine.(EnginePreprocessHook); ok {
		h.PreprocessText(plan, buffer, face)
	}

	c.substituteBeforePosition() // glyph mapping and GSUB/morx

	c.position()

	c.substituteAfterPosition()

	propagateFlags(buffer)

	buffer.Props.Direction = c.targetDirection

	buffer.resetBudgets()
}

func (c *otContext) initializeMasks() {
	c.buffer.resetMasks(c.plan.map_.globalMask)
}

/*
 * Substitute
 */

func (c *otContext) otRotateChars() {
	info := c.buffer.Info

	if c.targetDirection.isBackward() {
		rtlmMask := c.plan.rtlmMask

		for i := range info {
			codepoint := mirrorCodepoint(info[i].Codepoint)
			if codepoint != info[i].Codepoint && c.faceHasGlyph(codepoint) {
				info[i].Codepoint = codepoint
			} else {
				info[i].Mask |= rtlmMask
			}
		}
	}

	if c.targetDirection.isVertical() && !c.plan.hasVert {
		for i := range info {
			codepoint := vertCharFor(info[i].Codepoint)
			if codepoint != info[i].Codepoint && c.faceHasGlyph(codepoint) {
				info[i].Codepoint = codepoint
			}
		}
	}
}

func (c *otContext) faceHasGlyph(r rune) bool {
	_, ok := c.face.NominalGlyph(r)
	return ok
}

func (c *otContext) setupMasksFraction() {
	if c.buffer.scratchFlags&bsfHasNonASCII == 0 || !c.plan.hasFrac {
		return
	}

	buffer := c.buffer

	var preMask, postMask GlyphMask
	if buffer.Props.Direction.isForward() {
		preMask = c.plan.numrMask | c.plan.fracMask
		postMask = c.plan.fracMask | c.plan.dnomMask
	} else {
		preMask = c.plan.fracMask | c.plan.dnomMask
		postMask = c.plan.numrMask | c.plan.fracMask
	}

	count := len(buffer.Info)
	info := buffer.Info
	for i := 0; i < count; i++ {
		if info[i].Codepoint == 0x2044 /* FRACTION SLASH */ {
			start, end := i, i+1
			for start != 0 && info[start-1].unicode.generalCategory() == decimalNumber {
				start--
			}
			for end < count && info[end].unicode.generalCategory() == decimalNumber {
				end++
			}

			buffer.unsafeToBreak(start, end)

			for j := start; j < i; j++ {
				info[j].Mask |= preMask
			}
			info[i].Mask |= c.plan.fracMask
			for j := i + 1; j < end; j++ {
				info[j].Mask |= postMask
			}

			i = end - 1
		}
	}
}

func (c *otContext) setupMasks() {
	map_ := &c.plan.map_
	buffer := c.buffer

	c.setupMasksFraction()

	if h, ok := c.plan.engine.(EngineMaskHook); ok {
		h.SetupMasks(c.plan, buffer, c.face)
	}

	for _, feature := range c.userFeatures {
		if !feature.IsGlobal() {
			mask, shift := map_.getMask(feature.Tag)
			buffer.setMasks(feature.Value<<shift, mask, feature.Start, feature.End)
		}
	}
}

// mapGlyphs resolves every codepoint through the face's cmap. Unmapped
// codepoints become the notdef glyph.
func (c *otContext) mapGlyphs() {
	info := c.buffer.Info
	for i := range info {
		if g, ok := c.face.NominalGlyph(info[i].Codepoint); ok {
			info[i].Glyph = g
		} else {
			info[i].Glyph = NOTDEF
		}
	}
}

// Glyph classes synthesized from Unicode categories when the face has
// no class table.
const (
	glyphClassBase uint8 = 1
	glyphClassMark uint8 = 3
)

func synthesizeGlyphClasses(buffer *Buffer) {
	info := buffer.Info
	for i := range info {
		/* Never mark default-ignorables as marks.
		 * They won't get in the way of lookups anyway,
		 * but having them as mark will cause them to be skipped
		 * over if the lookup-flag says so, but at least for the
		 * Mongolian variation selectors, looks like Uniscribe
		 * marks them as non-mark. Some Mongolian fonts without
		 * GDEF rely on this. Another notable character that
		 * this applies to is COMBINING GRAPHEME JOINER. */
		class := glyphClassMark
		if info[i].unicode.generalCategory() != nonSpacingMark || info[i].isDefaultIgnorable() {
			class = glyphClassBase
		}

		info[i].glyphProps = class
	}
}

func (c *otContext) substituteBeforePosition() {
	buffer := c.buffer

	c.otRotateChars()

	otShapeNormalize(c.plan, buffer, c.face)

	c.setupMasks()

	// This is unfortunate to go here, but necessary...
	if c.plan.fallbackMarkPositioning {
		if fb, ok := c.face.(FallbackApplier); ok {
			fb.RecategorizeMarks(c.plan, buffer)
		}
	}

	c.mapGlyphs()

	if la, ok := c.face.(LayoutApplier); ok {
		la.SubstituteStart(buffer)
	}

	if c.plan.fallbackGlyphClasses {
		synthesizeGlyphClasses(buffer)
	}

	c.plan.substitute(c.face, buffer)
}

func (c *otContext) substituteAfterPosition() {
	hideDefaultIgnorables(c.buffer, c.face)

	if c.plan.applyMorx {
		if aat, ok := c.face.(AATApplier); ok {
			aat.RemoveDeletedGlyphs(c.buffer)
		}
	}

	if h, ok := c.plan.engine.(EnginePostprocessHook); ok {
		h.PostprocessGlyphs(c.plan, c.buffer, c.face)
	}
}

func zeroWidthDefaultIgnorables(buffer *Buffer) {
	if buffer.scratchFlags&bsfHasDefaultIgnorables == 0 ||
		buffer.Flags&PreserveDefaultIgnorables != 0 ||
		buffer.Flags&RemoveDefaultIgnorables != 0 {
		return
	}

	pos := buffer.Pos
	for i, info := range buffer.Info {
		if info.isDefaultIgnorable() {
			pos[i].XAdvance, pos[i].YAdvance, pos[i].XOffset, pos[i].YOffset = 0, 0, 0, 0
		}
	}
}

func hideDefaultIgnorables(buffer *Buffer, face Face) {
	if buffer.scratchFlags&bsfHasDefaultIgnorables == 0 ||
		buffer.Flags&PreserveDefaultIgnorables != 0 {
		return
	}

	info := buffer.Info

	var (
		invisible = buffer.Invisible
		ok        = invisible != 0
	)
	if invisible == 0 {
		invisible, ok = face.NominalGlyph(' ')
	}
	if buffer.Flags&RemoveDefaultIgnorables == 0 && ok {
		// Replace default-ignorables with a zero-advance invisible glyph.
		for i := range info {
			if info[i].isDefaultIgnorable() {
				info[i].Glyph = invisible
			}
		}
	} else {
		buffer.deleteGlyphsInplace((*GlyphInfo).isDefaultIgnorable)
	}
}

/*
 * Position
 */

func zeroMarkWidthsByGdef(buffer *Buffer, adjustOffsets bool) {
	for i, inf := range buffer.Info {
		if inf.isMark() {
			pos := &buffer.Pos[i]
			if adjustOffsets {
				pos.XOffset -= pos.XAdvance
				pos.YOffset -= pos.YAdvance
			}
			pos.XAdvance = 0
			pos.YAdvance = 0
		}
	}
}

// positionDefault fills the position array with cmap-level metrics.
func (c *otContext) positionDefault() {
	direction := c.buffer.Props.Direction
	info := c.buffer.Info
	pos := c.buffer.Pos

	if direction.isHorizontal() {
		for i, inf := range info {
			pos[i].XAdvance, pos[i].YAdvance = c.face.HAdvance(inf.Glyph), 0
			hx, hy := c.face.HOrigin(inf.Glyph)
			pos[i].XOffset, pos[i].YOffset = -hx, -hy
		}
	} else {
		for i, inf := range info {
			pos[i].XAdvance, pos[i].YAdvance = 0, c.face.VAdvance(inf.Glyph)
			vx, vy := c.face.VOrigin(inf.Glyph)
			pos[i].XOffset, pos[i].YOffset = -vx, -vy
		}
	}
	if c.buffer.scratchFlags&bsfHasSpaceFallback != 0 {
		if fb, ok := c.face.(FallbackApplier); ok {
			fb.FallbackSpaces(c.plan, c.buffer)
		}
	}
}

func (c *otContext) positionComplex() {
	info := c.buffer.Info
	pos := c.buffer.Pos

	/* If the font has no GPOS and direction is forward, then when
	 * zeroing mark widths, we shift the mark with it, such that the
	 * mark is positioned hanging over the previous glyph. When
	 * direction is backward we don't shift and it will end up
	 * hanging over the next glyph after the final reordering.
	 *
	 * Note: If fallback positioning happens, we don't care about
	 * this as it will be overridden. */
	adjustOffsetsWhenZeroing := c.plan.adjustMarkPositioningWhenZeroing &&
		c.buffer.Props.Direction.isForward()

	// Switch glyph origins to what GPOS expects (horizontal), apply
	// GPOS, switch back.

	for i, inf := range info {
		hx, hy := c.face.HOrigin(inf.Glyph)
		pos[i].XOffset, pos[i].YOffset = pos[i].XOffset+hx, pos[i].YOffset+hy
	}

	la, hasLayout := c.face.(LayoutApplier)
	if hasLayout {
		la.PositionStart(c.buffer)
	}

	markBehavior, _ := engineMarksBehavior(c.plan.engine)

	if c.plan.zeroMarks && markBehavior == ZeroWidthMarksByGDEFEarly {
		zeroMarkWidthsByGdef(c.buffer, adjustOffsetsWhenZeroing)
	}

	c.plan.position(c.face, c.buffer)

	if c.plan.zeroMarks && markBehavior == ZeroWidthMarksByGDEFLate {
		zeroMarkWidthsByGdef(c.buffer, adjustOffsetsWhenZeroing)
	}

	if hasLayout {
		la.PositionFinishAdvances(c.buffer)
	}

	zeroWidthDefaultIgnorables(c.buffer)

	if c.plan.applyMorx {
		if aat, ok := c.face.(AATApplier); ok {
			aat.ZeroWidthDeletedGlyphs(c.buffer)
		}
	}

	if hasLayout {
		la.PositionFinishOffsets(c.buffer)
	}

	for i, inf := range info {
		hx, hy := c.face.HOrigin(inf.Glyph)
		pos[i].XOffset, pos[i].YOffset = pos[i].XOffset-hx, pos[i].YOffset-hy
	}

	if c.plan.fallbackMarkPositioning {
		if fb, ok := c.face.(FallbackApplier); ok {
			fb.FallbackMarkPosition(c.plan, c.buffer, adjustOffsetsWhenZeroing)
		}
	}
}

func (c *otContext) position() {
	c.buffer.clearPositions()

	c.positionDefault()

	c.positionComplex()

	if c.buffer.Props.Direction.isBackward() {
		c.buffer.Reverse()
	}
}

/* Propagate cluster-level glyph flags to be the same on all cluster
 * glyphs. Simplifies using them. */
func propagateFlags(buffer *Buffer) {
	if buffer.scratchFlags&bsfHasGlyphFlags == 0 {
		return
	}

	/* If we are producing SAFE_TO_INSERT_TATWEEL, then do two things:
	 *
	 * - If the places that the Arabic shaper marked as SAFE_TO_INSERT_TATWEEL,
	 *   are UNSAFE_TO_BREAK, then clear the SAFE_TO_INSERT_TATWEEL,
	 * - Any place that is SAFE_TO_INSERT_TATWEEL, is also now UNSAFE_TO_BREAK.
	 *
	 * We couldn't make this interaction earlier. It has to be done here.
	 */
	flipTatweel := buffer.Flags&ProduceSafeToInsertTatweel != 0

	clearConcat := buffer.Flags&ProduceUnsafeToConcat == 0

	info := buffer.Info

	iter, count := buffer.clusterIterator()
	for start, end := iter.next(); start < count; start, end = iter.next() {
		var mask GlyphMask
		for i := start; i < end; i++ {
			mask |= info[i].Mask & glyphFlagDefined
		}

		if flipTatweel {
			if mask&GlyphUnsafeToBreak != 0 {
				mask &^= GlyphSafeToInsertTatweel
			}
			if mask&GlyphSafeToInsertTatweel != 0 {
				mask |= GlyphUnsafeToBreak | GlyphUnsafeToConcat
			}
		}

		if clearConcat {
			mask &^= GlyphUnsafeToConcat
		}

		for i := start; i < end; i++ {
			info[i].Mask = mask
		}
	}
}
