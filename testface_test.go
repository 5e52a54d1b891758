package otshaper

// testFace is a synthetic font face for the tests in this package. Its
// cmap maps every codepoint to GID(codepoint) unless restricted, every
// glyph has the same advance (or its glyph id as advance, when a test
// needs to tell glyphs apart), and its layout tables are described by
// plain slices.

type testFeatureEntry struct {
	tag     Tag
	lookups []uint16
}

type testFace struct {
	missing        map[rune]bool // codepoints without a glyph
	advance        int32
	advanceByGlyph bool // advance equals the glyph id, to tell glyphs apart

	glyphClasses bool
	otSub        bool
	otPos        bool
	aatSub       bool
	aatPos       bool
	kernTable    bool
	machineKern  bool
	crossKern    bool
	tracking     bool

	scripts  [2][]Tag
	features [2][]testFeatureEntry
	required [2]int
}

func newTestFace() *testFace {
	return &testFace{
		advance:  600,
		required: [2]int{NoFeatureIndex, NoFeatureIndex},
	}
}

// addFeature registers a feature in a table; the single lookup index is
// derived from the feature's position so lookup lists stay predictable.
func (f *testFace) addFeature(table TableType, tag Tag) *testFace {
	idx := uint16(len(f.features[table]))
	f.features[table] = append(f.features[table], testFeatureEntry{
		tag:     tag,
		lookups: []uint16{idx},
	})
	return f
}

func (f *testFace) NominalGlyph(r rune) (GID, bool) {
	if f.missing[r] {
		return 0, false
	}
	return GID(r), true
}

func (f *testFace) HAdvance(g GID) int32 {
	if f.advanceByGlyph {
		return int32(g)
	}
	return f.advance
}

func (f *testFace) VAdvance(g GID) int32 {
	if f.advanceByGlyph {
		return -int32(g)
	}
	return -f.advance
}

func (f *testFace) HOrigin(g GID) (int32, int32) { return 0, 0 }
func (f *testFace) VOrigin(g GID) (int32, int32) { return f.advance / 2, f.advance }

func (f *testFace) HasGlyphClasses() bool    { return f.glyphClasses }
func (f *testFace) HasOTSubstitution() bool  { return f.otSub }
func (f *testFace) HasOTPositioning() bool   { return f.otPos }
func (f *testFace) HasAATSubstitution() bool { return f.aatSub }
func (f *testFace) HasAATPositioning() bool  { return f.aatPos }
func (f *testFace) HasKernTable() bool       { return f.kernTable }
func (f *testFace) HasMachineKerning() bool  { return f.machineKern }
func (f *testFace) HasCrossKerning() bool    { return f.crossKern }
func (f *testFace) HasTracking() bool        { return f.tracking }

func (f *testFace) SelectScript(table TableType, tags []Tag) (Tag, int, bool) {
	for _, tag := range tags {
		for i, have := range f.scripts[table] {
			if have == tag {
				return tag, i, true
			}
		}
	}
	return tagDefaultScript, NoScriptIndex, false
}

func (f *testFace) SelectLanguage(table TableType, scriptIndex int, tags []Tag) (int, bool) {
	return DefaultLanguageIndex, false
}

func (f *testFace) FindFeature(table TableType, scriptIndex, languageIndex int, tag Tag) (int, bool) {
	for i, entry := range f.features[table] {
		if entry.tag == tag {
			return i, true
		}
	}
	return NoFeatureIndex, false
}

func (f *testFace) FindFeatureAnyScript(table TableType, tag Tag) (int, bool) {
	return f.FindFeature(table, 0, DefaultLanguageIndex, tag)
}

func (f *testFace) RequiredFeature(table TableType, scriptIndex, languageIndex int) (int, bool) {
	return f.required[table], f.required[table] != NoFeatureIndex
}

func (f *testFace) FeatureLookups(table TableType, featureIndex int) []uint16 {
	if featureIndex < 0 || featureIndex >= len(f.features[table]) {
		return nil
	}
	return f.features[table][featureIndex].lookups
}
