package otshaper

// TableType identifies one OpenType layout table family.
type TableType uint8

const (
	TableGSUB TableType = iota
	TableGPOS
)

func (t TableType) String() string {
	if t == TableGPOS {
		return "GPOS"
	}
	return "GSUB"
}

// Special index values returned by layout queries.
const (
	// NoScriptIndex signals an unsupported script.
	NoScriptIndex = 0xFFFF
	// NoFeatureIndex signals an unsupported feature.
	NoFeatureIndex = 0xFFFF
	// DefaultLanguageIndex signals the default language system.
	DefaultLanguageIndex = 0xFFFF
)

// Face is the read-only font collaborator of the shaping core. It
// answers capability, metric and layout-table queries; it never parses
// or interprets table data on behalf of this package.
//
// All methods must be safe for concurrent use.
type Face interface {
	// NominalGlyph maps a codepoint through the face's cmap.
	NominalGlyph(r rune) (GID, bool)

	// HAdvance returns the horizontal advance of a glyph in font units.
	HAdvance(g GID) int32
	// VAdvance returns the vertical advance of a glyph in font units,
	// signed as it is to be applied (negative for top-to-bottom flow).
	VAdvance(g GID) int32
	// HOrigin returns the horizontal-layout origin of a glyph.
	// It is (0,0) for virtually all fonts.
	HOrigin(g GID) (x, y int32)
	// VOrigin returns the vertical-layout origin of a glyph.
	VOrigin(g GID) (x, y int32)

	// HasGlyphClasses reports a glyph-class source (GDEF class table).
	HasGlyphClasses() bool
	// HasOTSubstitution reports an OpenType-Layout substitution table.
	HasOTSubstitution() bool
	// HasOTPositioning reports an OpenType-Layout positioning table.
	HasOTPositioning() bool
	// HasAATSubstitution reports an AAT substitution table (morx).
	HasAATSubstitution() bool
	// HasAATPositioning reports an AAT positioning table (kerx).
	HasAATPositioning() bool
	// HasKernTable reports a legacy kerning table.
	HasKernTable() bool
	// HasMachineKerning reports state-machine subtables in the legacy
	// kerning table.
	HasMachineKerning() bool
	// HasCrossKerning reports cross-stream subtables in the legacy
	// kerning table.
	HasCrossKerning() bool
	// HasTracking reports an AAT tracking table (trak).
	HasTracking() bool

	// SelectScript picks the first of the candidate script tags present
	// in the table's script list. When none is found it reports
	// (DFLT-or-fallback, NoScriptIndex, false).
	SelectScript(table TableType, tags []Tag) (chosen Tag, scriptIndex int, found bool)
	// SelectLanguage picks the first of the candidate language tags
	// under the selected script, or (DefaultLanguageIndex, false).
	SelectLanguage(table TableType, scriptIndex int, tags []Tag) (languageIndex int, found bool)
	// FindFeature locates a feature tag in the selected langsys.
	FindFeature(table TableType, scriptIndex, languageIndex int, tag Tag) (featureIndex int, found bool)
	// FindFeatureAnyScript searches a feature tag under every script of
	// the table. Used for features commonly mis-tagged in real fonts.
	FindFeatureAnyScript(table TableType, tag Tag) (featureIndex int, found bool)
	// RequiredFeature returns the langsys' required feature, if any.
	RequiredFeature(table TableType, scriptIndex, languageIndex int) (featureIndex int, found bool)
	// FeatureLookups returns the lookup indices of a feature.
	FeatureLookups(table TableType, featureIndex int) []uint16
}

// LookupMap is one scheduled lookup of a compiled feature map: the
// lookup index plus the per-glyph mask gating its application. Lookup
// interpreters must skip glyphs whose mask does not intersect Mask,
// and must consult the buffer's budgets (Buffer.ConsumeOps,
// Buffer.CheckLen), aborting their remaining work when exhausted.
type LookupMap struct {
	Index    uint16
	Mask     GlyphMask
	AutoZWNJ bool
	AutoZWJ  bool
	Random   bool
}

// LayoutApplier is the optional OpenType-Layout execution collaborator
// of a face. A face that does not implement it degrades to no-op
// substitution/positioning (glyphs keep their cmap mapping and default
// advances).
type LayoutApplier interface {
	// SubstituteStart is called once before GSUB lookups run.
	SubstituteStart(buffer *Buffer)
	// ApplyLookups applies a batch of lookups of one table in order.
	ApplyLookups(table TableType, plan *ShapePlan, buffer *Buffer, lookups []LookupMap)
	// PositionStart is called once before GPOS lookups run.
	PositionStart(buffer *Buffer)
	// PositionFinishAdvances resolves deferred advance adjustments.
	PositionFinishAdvances(buffer *Buffer)
	// PositionFinishOffsets resolves attachment chains into offsets.
	PositionFinishOffsets(buffer *Buffer)
}

// AATApplier is the optional AAT execution collaborator of a face.
type AATApplier interface {
	// SubstituteMorx runs the AAT substitution machine.
	SubstituteMorx(plan *ShapePlan, buffer *Buffer)
	// PositionKerx runs the AAT positioning machine.
	PositionKerx(plan *ShapePlan, buffer *Buffer)
	// ApplyTracking applies the AAT tracking table.
	ApplyTracking(plan *ShapePlan, buffer *Buffer)
	// RemoveDeletedGlyphs drops glyphs the substitution machine marked
	// deleted.
	RemoveDeletedGlyphs(buffer *Buffer)
	// ZeroWidthDeletedGlyphs zeroes advances of deleted glyphs that are
	// still present during positioning.
	ZeroWidthDeletedGlyphs(buffer *Buffer)
}

// KernApplier is the optional legacy-kerning collaborator of a face.
type KernApplier interface {
	ApplyKern(plan *ShapePlan, buffer *Buffer)
}

// FallbackApplier supplies the synthesized algorithms used when the
// face lacks the preferred table for a behavior. A face without it
// degrades to doing nothing, which is always safe.
type FallbackApplier interface {
	// FallbackKern kerns directly on default advances.
	FallbackKern(plan *ShapePlan, buffer *Buffer)
	// FallbackSpaces synthesizes widths for space variants.
	FallbackSpaces(plan *ShapePlan, buffer *Buffer)
	// RecategorizeMarks prepares marks for fallback positioning.
	RecategorizeMarks(plan *ShapePlan, buffer *Buffer)
	// FallbackMarkPosition places marks relative to their base glyphs.
	FallbackMarkPosition(plan *ShapePlan, buffer *Buffer, adjustOffsetsWhenZeroing bool)
}
