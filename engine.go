package otshaper

import "github.com/go-text/typesetting/language"

// ZeroWidthMarksMode controls when (and whether) the pipeline zeroes
// the advance widths of mark glyphs.
type ZeroWidthMarksMode uint8

const (
	ZeroWidthMarksNone ZeroWidthMarksMode = iota
	ZeroWidthMarksByGDEFEarly
	ZeroWidthMarksByGDEFLate
)

// NormalizationMode controls Unicode normalization before substitution.
type NormalizationMode uint8

const (
	NormalizationDefault NormalizationMode = iota
	NormalizationNone
	NormalizationComposed
	NormalizationDecomposed
)

// SelectionContext contains the minimum planner state needed to select
// a shaping engine.
type SelectionContext struct {
	Script       language.Script
	Direction    Direction
	ChosenScript [2]Tag
	FoundScript  [2]bool
}

// ShapingEngine is the mandatory surface of a script-specific shaper.
// Everything beyond selection is optional: engines declare capabilities
// by additionally implementing the hook interfaces below, which the
// planner and pipeline discover by type assertion.
type ShapingEngine interface {
	Name() string
	// Match returns a non-negative score when the engine matches the
	// context. Negative scores mean "no match". Higher score wins.
	Match(ctx SelectionContext) int
	// New returns a fresh engine instance for the selected plan.
	New() ShapingEngine
}

// FeaturePlanner is the plan-time view exposed to feature collection
// hooks. It intentionally hides most planner internals.
type FeaturePlanner interface {
	EnableFeature(tag Tag)
	AddFeatureExt(tag Tag, flags FeatureFlags, value uint32)
	EnableFeatureExt(tag Tag, flags FeatureFlags, value uint32)
	AddGSUBPause(fn PauseFunc)
	HasFeature(tag Tag) bool
}

// EnginePolicy exposes policy decisions consulted during plan
// compilation.
type EnginePolicy interface {
	// MarksBehavior reports when mark advances are zeroed and whether
	// fallback mark positioning is acceptable for this script.
	MarksBehavior() (zwm ZeroWidthMarksMode, fallbackPosition bool)
	NormalizationPreference() NormalizationMode
}

// EngineGposPolicy lets an engine disable GPOS when the planner chose a
// script tag other than the engine's own.
type EngineGposPolicy interface {
	GposTag() Tag
}

// EngineGSUBDependence marks engines whose runtime hooks assume GSUB
// application. When glyph metamorphosis tables are used for
// substitution instead, such engines are replaced by the default one.
type EngineGSUBDependence interface {
	RequiresGSUB() bool
}

// EnginePlanHooks exposes plan-time feature hooks.
type EnginePlanHooks interface {
	CollectFeatures(plan FeaturePlanner, script language.Script)
	OverrideFeatures(plan FeaturePlanner)
}

// EngineDataHooks lets an engine attach per-plan data. A failing
// InitPlanData aborts plan compilation; ReleasePlanData runs when the
// plan is released, and on the failure path.
type EngineDataHooks interface {
	InitPlanData(plan *ShapePlan) error
	ReleasePlanData(plan *ShapePlan)
}

// EnginePreprocessHook runs before normalization, on codepoints.
type EnginePreprocessHook interface {
	PreprocessText(plan *ShapePlan, buffer *Buffer, face Face)
}

// EngineMaskHook runs after the global mask was set on all glyphs and
// may refine per-glyph masks.
type EngineMaskHook interface {
	SetupMasks(plan *ShapePlan, buffer *Buffer, face Face)
}

// EnginePostprocessHook runs at the very end of the pipeline, on glyphs.
type EnginePostprocessHook interface {
	PostprocessGlyphs(plan *ShapePlan, buffer *Buffer, face Face)
}

// NormalizeContext is the runtime view exposed to normalization hooks.
type NormalizeContext interface {
	DecomposeUnicode(ab rune) (a, b rune, ok bool)
	ComposeUnicode(a, b rune) (ab rune, ok bool)
	HasGposMark() bool
}

// EngineNormalizeHooks lets an engine veto or redirect individual
// decompositions and compositions.
type EngineNormalizeHooks interface {
	Decompose(c NormalizeContext, ab rune) (a, b rune, ok bool)
	Compose(c NormalizeContext, a, b rune) (ab rune, ok bool)
}

// EngineReorderHook reorders marks within a combining sequence during
// normalization.
type EngineReorderHook interface {
	ReorderMarks(plan *ShapePlan, buffer *Buffer, start, end int)
}

// Dispatch helpers supplying the defaults for engines that do not
// implement a hook.

func engineMarksBehavior(e ShapingEngine) (ZeroWidthMarksMode, bool) {
	if p, ok := e.(EnginePolicy); ok {
		return p.MarksBehavior()
	}
	return ZeroWidthMarksByGDEFLate, true
}

func engineNormalizationPreference(e ShapingEngine) NormalizationMode {
	if p, ok := e.(EnginePolicy); ok {
		return p.NormalizationPreference()
	}
	return NormalizationDefault
}

func engineGposTag(e ShapingEngine) Tag {
	if p, ok := e.(EngineGposPolicy); ok {
		return p.GposTag()
	}
	return 0
}

func engineRequiresGSUB(e ShapingEngine) bool {
	if p, ok := e.(EngineGSUBDependence); ok {
		return p.RequiresGSUB()
	}
	return false
}

func engineCollectFeatures(e ShapingEngine, plan FeaturePlanner, script language.Script) {
	if h, ok := e.(EnginePlanHooks); ok {
		h.CollectFeatures(plan, script)
	}
}

func engineOverrideFeatures(e ShapingEngine, plan FeaturePlanner) {
	if h, ok := e.(EnginePlanHooks); ok {
		h.OverrideFeatures(plan)
	}
}

func engineDecompose(e ShapingEngine, c NormalizeContext, ab rune) (rune, rune, bool) {
	if h, ok := e.(EngineNormalizeHooks); ok {
		return h.Decompose(c, ab)
	}
	return c.DecomposeUnicode(ab)
}

func engineCompose(e ShapingEngine, c NormalizeContext, a, b rune) (rune, bool) {
	if h, ok := e.(EngineNormalizeHooks); ok {
		return h.Compose(c, a, b)
	}
	return c.ComposeUnicode(a, b)
}
