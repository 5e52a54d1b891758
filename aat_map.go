package otshaper

import "sort"

// AATFeature is one feature request forwarded to the AAT glyph
// metamorphosis machinery. AAT has no mask-based glyph selection, so
// the request carries the raw tag and value and the applier translates
// them to feature-type/selector pairs of the font's morx table.
type AATFeature struct {
	Tag   Tag
	Value uint32
	seq   int
}

type aatMapBuilder struct {
	face     Face
	features []AATFeature
}

func newAatMapBuilder(face Face) aatMapBuilder {
	return aatMapBuilder{face: face}
}

func (b *aatMapBuilder) addFeature(tag Tag, value uint32) {
	b.features = append(b.features, AATFeature{Tag: tag, Value: value, seq: len(b.features)})
}

// aatMap is the compiled form: requests sorted by tag, later requests
// of the same tag winning.
type aatMap struct {
	features []AATFeature
}

func (b *aatMapBuilder) compile(m *aatMap) {
	feats := b.features
	sort.SliceStable(feats, func(i, j int) bool { return feats[i].Tag < feats[j].Tag })
	j := 0
	for i := 1; i < len(feats); i++ {
		if feats[i].Tag != feats[j].Tag {
			j++
		}
		feats[j] = feats[i]
	}
	if len(feats) > 0 {
		feats = feats[:j+1]
	}
	m.features = feats
}

// Features returns the compiled AAT feature requests, sorted by tag.
func (m *aatMap) Features() []AATFeature {
	return m.features
}
