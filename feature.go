package otshaper

import "math"

// GlyphMask is the per-glyph bit-field word. Feature bits assigned by
// the compiled feature map and run-level glyph flags share this word.
type GlyphMask = uint32

const (
	// FeatureGlobalStart marks a feature range covering the run start.
	FeatureGlobalStart = 0
	// FeatureGlobalEnd marks a feature range covering the run end.
	FeatureGlobalEnd = math.MaxInt32
)

// Feature is a caller-supplied feature override. A Start/End pair of
// FeatureGlobalStart/FeatureGlobalEnd requests whole-run scope; any
// other range applies to character indices in [Start,End) only.
type Feature struct {
	Tag   Tag
	Value uint32
	Start int
	End   int
}

// IsGlobal reports whether the feature applies to the whole run.
func (f Feature) IsGlobal() bool {
	return f.Start == FeatureGlobalStart && f.End == FeatureGlobalEnd
}

// GlobalFeature returns a whole-run feature request.
func GlobalFeature(tag Tag, value uint32) Feature {
	return Feature{Tag: tag, Value: value, Start: FeatureGlobalStart, End: FeatureGlobalEnd}
}

// FeatureFlags guide feature resolution during plan compilation.
type FeatureFlags uint16

const FeatureNone FeatureFlags = 0

const (
	// FeatureGlobal: feature applies to all characters of the run.
	FeatureGlobal FeatureFlags = 1 << iota
	// FeatureHasFallback: plan has a synthesized fallback if the font
	// lacks the feature; don't turn the feature's mask bits into global
	// ones.
	FeatureHasFallback
	// FeatureManualZWNJ: the shaper handles ZWNJ skipping itself.
	FeatureManualZWNJ
	// FeatureManualZWJ: the shaper handles ZWJ skipping itself.
	FeatureManualZWJ
	// FeatureGlobalSearch: search the feature under all scripts in the
	// font, not only the chosen one.
	FeatureGlobalSearch
	// FeatureRandom: feature selects randomized alternates.
	FeatureRandom
	// FeaturePerSyllable: feature must not cross syllable boundaries.
	FeaturePerSyllable
)

// FeatureManualJoiners disables automatic skipping for both ZWJ and ZWNJ.
const FeatureManualJoiners = FeatureManualZWNJ | FeatureManualZWJ

// otMapMaxValue is the largest feature value a mask bit-field can encode.
const otMapMaxValue = math.MaxUint32

// otMapMaxBits caps the width of a single feature's bit-field.
const otMapMaxBits = 8

type otMapFeature struct {
	tag   Tag
	flags FeatureFlags
}
