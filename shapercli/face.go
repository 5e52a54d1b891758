package main

import (
	"github.com/npillmayer/otshaper"
)

// capFace is a synthetic font face assembled interactively. Every
// codepoint maps onto itself, advances are uniform, and the layout
// capabilities are simple toggles plus script/feature lists per table.
// It lets the REPL exercise every backend decision of the planner
// without loading a real font.
type capFace struct {
	advance int32

	glyphClasses bool
	otSub        bool
	otPos        bool
	aatSub       bool
	aatPos       bool
	kernTable    bool
	machineKern  bool
	crossKern    bool
	tracking     bool

	scripts  [2][]otshaper.Tag
	features [2][]capFeature
	required [2]int
}

type capFeature struct {
	tag     otshaper.Tag
	lookups []uint16
}

func newCapFace() *capFace {
	return &capFace{
		advance:  600,
		required: [2]int{otshaper.NoFeatureIndex, otshaper.NoFeatureIndex},
	}
}

// capability maps a user-facing capability name onto its toggle.
func (f *capFace) capability(name string) (*bool, bool) {
	switch name {
	case "gdef":
		return &f.glyphClasses, true
	case "gsub":
		return &f.otSub, true
	case "gpos":
		return &f.otPos, true
	case "morx":
		return &f.aatSub, true
	case "kerx":
		return &f.aatPos, true
	case "kern":
		return &f.kernTable, true
	case "machinekern":
		return &f.machineKern, true
	case "crosskern":
		return &f.crossKern, true
	case "trak":
		return &f.tracking, true
	}
	return nil, false
}

func (f *capFace) addScript(table otshaper.TableType, tag otshaper.Tag) {
	for _, t := range f.scripts[table] {
		if t == tag {
			return
		}
	}
	f.scripts[table] = append(f.scripts[table], tag)
}

// addFeature registers a feature tag under the table and assigns it a
// fresh lookup index. Returns the feature index.
func (f *capFace) addFeature(table otshaper.TableType, tag otshaper.Tag) int {
	for i, feat := range f.features[table] {
		if feat.tag == tag {
			return i
		}
	}
	index := len(f.features[table])
	f.features[table] = append(f.features[table], capFeature{
		tag:     tag,
		lookups: []uint16{uint16(index)},
	})
	return index
}

func (f *capFace) NominalGlyph(r rune) (otshaper.GID, bool) { return otshaper.GID(r), true }
func (f *capFace) HAdvance(g otshaper.GID) int32            { return f.advance }
func (f *capFace) VAdvance(g otshaper.GID) int32            { return -f.advance }
func (f *capFace) HOrigin(g otshaper.GID) (int32, int32)    { return 0, 0 }
func (f *capFace) VOrigin(g otshaper.GID) (int32, int32)    { return f.advance / 2, f.advance }

func (f *capFace) HasGlyphClasses() bool    { return f.glyphClasses }
func (f *capFace) HasOTSubstitution() bool  { return f.otSub }
func (f *capFace) HasOTPositioning() bool   { return f.otPos }
func (f *capFace) HasAATSubstitution() bool { return f.aatSub }
func (f *capFace) HasAATPositioning() bool  { return f.aatPos }
func (f *capFace) HasKernTable() bool       { return f.kernTable }
func (f *capFace) HasMachineKerning() bool  { return f.machineKern }
func (f *capFace) HasCrossKerning() bool    { return f.crossKern }
func (f *capFace) HasTracking() bool        { return f.tracking }

func (f *capFace) SelectScript(table otshaper.TableType, tags []otshaper.Tag) (otshaper.Tag, int, bool) {
	for _, tag := range tags {
		for i, t := range f.scripts[table] {
			if t == tag {
				return tag, i, true
			}
		}
	}
	return otshaper.T("DFLT"), otshaper.NoScriptIndex, false
}

func (f *capFace) SelectLanguage(table otshaper.TableType, scriptIndex int, tags []otshaper.Tag) (int, bool) {
	return otshaper.DefaultLanguageIndex, false
}

func (f *capFace) FindFeature(table otshaper.TableType, scriptIndex, languageIndex int, tag otshaper.Tag) (int, bool) {
	for i, feat := range f.features[table] {
		if feat.tag == tag {
			return i, true
		}
	}
	return otshaper.NoFeatureIndex, false
}

func (f *capFace) FindFeatureAnyScript(table otshaper.TableType, tag otshaper.Tag) (int, bool) {
	return f.FindFeature(table, 0, 0, tag)
}

func (f *capFace) RequiredFeature(table otshaper.TableType, scriptIndex, languageIndex int) (int, bool) {
	if f.required[table] == otshaper.NoFeatureIndex {
		return otshaper.NoFeatureIndex, false
	}
	return f.required[table], true
}

func (f *capFace) FeatureLookups(table otshaper.TableType, featureIndex int) []uint16 {
	if featureIndex < 0 || featureIndex >= len(f.features[table]) {
		return nil
	}
	return f.features[table][featureIndex].lookups
}
