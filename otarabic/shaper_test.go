package otarabic

import (
	"testing"

	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/otshaper"
)

// identityFace maps every codepoint onto itself and carries no layout
// tables, which forces the presentation-form fallback path.
type identityFace struct{}

func (identityFace) NominalGlyph(r rune) (otshaper.GID, bool) { return otshaper.GID(r), true }
func (identityFace) HAdvance(g otshaper.GID) int32            { return 600 }
func (identityFace) VAdvance(g otshaper.GID) int32            { return -600 }
func (identityFace) HOrigin(g otshaper.GID) (int32, int32)    { return 0, 0 }
func (identityFace) VOrigin(g otshaper.GID) (int32, int32)    { return 300, 600 }
func (identityFace) HasGlyphClasses() bool                    { return false }
func (identityFace) HasOTSubstitution() bool                  { return false }
func (identityFace) HasOTPositioning() bool                   { return false }
func (identityFace) HasAATSubstitution() bool                 { return false }
func (identityFace) HasAATPositioning() bool                  { return false }
func (identityFace) HasKernTable() bool                       { return false }
func (identityFace) HasMachineKerning() bool                  { return false }
func (identityFace) HasCrossKerning() bool                    { return false }
func (identityFace) HasTracking() bool                        { return false }

func (identityFace) SelectScript(table otshaper.TableType, tags []otshaper.Tag) (otshaper.Tag, int, bool) {
	return otshaper.T("DFLT"), otshaper.NoScriptIndex, false
}

func (identityFace) SelectLanguage(table otshaper.TableType, scriptIndex int, tags []otshaper.Tag) (int, bool) {
	return otshaper.DefaultLanguageIndex, false
}

func (identityFace) FindFeature(table otshaper.TableType, scriptIndex, languageIndex int, tag otshaper.Tag) (int, bool) {
	return otshaper.NoFeatureIndex, false
}

func (identityFace) FindFeatureAnyScript(table otshaper.TableType, tag otshaper.Tag) (int, bool) {
	return otshaper.NoFeatureIndex, false
}

func (identityFace) RequiredFeature(table otshaper.TableType, scriptIndex, languageIndex int) (int, bool) {
	return otshaper.NoFeatureIndex, false
}

func (identityFace) FeatureLookups(table otshaper.TableType, featureIndex int) []uint16 {
	return nil
}

func TestMatch(t *testing.T) {
	cases := []struct {
		name  string
		ctx   otshaper.SelectionContext
		score int
	}{
		{"arabic", otshaper.SelectionContext{Script: language.Arabic, Direction: otshaper.RightToLeft}, 110},
		{"mongolian", otshaper.SelectionContext{Script: language.Mongolian, Direction: otshaper.LeftToRight}, 110},
		{"syriac with DFLT script", otshaper.SelectionContext{
			Script:       language.Syriac,
			Direction:    otshaper.RightToLeft,
			ChosenScript: [2]otshaper.Tag{otshaper.T("DFLT"), otshaper.T("DFLT")},
		}, -1},
		{"syriac with syrc script", otshaper.SelectionContext{
			Script:       language.Syriac,
			Direction:    otshaper.RightToLeft,
			ChosenScript: [2]otshaper.Tag{otshaper.T("syrc"), otshaper.T("syrc")},
		}, 110},
		{"latin", otshaper.SelectionContext{Script: language.Latin, Direction: otshaper.LeftToRight}, -1},
		{"vertical arabic", otshaper.SelectionContext{Script: language.Arabic, Direction: otshaper.TopToBottom}, -1},
	}
	for _, c := range cases {
		if got := (Shaper{}).Match(c.ctx); got != c.score {
			t.Errorf("%s: Match = %d, want %d", c.name, got, c.score)
		}
	}
}

func TestEngineName(t *testing.T) {
	if New().Name() != "arabic" {
		t.Errorf("Name = %q, want %q", New().Name(), "arabic")
	}
}

func TestRegisterIdempotent(t *testing.T) {
	if err := Register(); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if err := Register(); err != nil {
		t.Fatalf("second Register failed: %v", err)
	}
}

func TestFeatureIsSyriac(t *testing.T) {
	for _, tag := range []string{"fin2", "fin3", "med2"} {
		if !featureIsSyriac(otshaper.T(tag)) {
			t.Errorf("%s should be a Syriac feature", tag)
		}
	}
	for _, tag := range []string{"isol", "fina", "medi", "init", "rlig"} {
		if featureIsSyriac(otshaper.T(tag)) {
			t.Errorf("%s should not be a Syriac feature", tag)
		}
	}
}

func TestJoiningTypes(t *testing.T) {
	cases := []struct {
		r    rune
		want uint8
	}{
		{0x0621, joiningTypeU}, /* HAMZA */
		{0x0627, joiningTypeR}, /* ALEF */
		{0x0628, joiningTypeD}, /* BEH */
		{0x0640, joiningTypeC}, /* TATWEEL */
		{0x064E, joiningTypeT}, /* FATHA */
		{0x0710, joiningGroupAlaph},
		{0x0715, joiningGroupDalathRish},
		{0x1820, joiningTypeD}, /* MONGOLIAN A */
		{0x200D, joiningTypeC}, /* ZWJ */
	}
	for _, c := range cases {
		if got := getJoiningType(c.r, false); got != c.want {
			t.Errorf("joining type of %04X = %d, want %d", c.r, got, c.want)
		}
	}
	if got := getJoiningType('a', true); got != joiningTypeT {
		t.Errorf("transparent glyph should join as T, got %d", got)
	}
	if got := getJoiningType('a', false); got != joiningTypeU {
		t.Errorf("unlisted glyph should join as U, got %d", got)
	}
}

func joinRunes(t *testing.T, text []rune) []uint8 {
	t.Helper()
	buffer := otshaper.NewBuffer()
	buffer.AddRunes(text, 0)
	applyArabicJoining(buffer)
	actions := make([]uint8, len(buffer.Info))
	for i := range buffer.Info {
		actions[i] = buffer.Info[i].ComplexAux()
	}
	return actions
}

func TestJoiningActions(t *testing.T) {
	cases := []struct {
		name string
		text []rune
		want []uint8
	}{
		{"isolated letter", []rune{0x0639}, []uint8{arabIsol}},
		{"right-joining pair",
			[]rune{0x0644, 0x0627}, /* LAM ALEF */
			[]uint8{arabInit, arabFina}},
		{"dual-joining word",
			[]rune{0x0645, 0x062D, 0x0645, 0x062F}, /* MEEM HAH MEEM DAL */
			[]uint8{arabInit, arabMedi, arabMedi, arabFina}},
		{"non-joining break",
			[]rune{0x0628, 0x0621, 0x0628}, /* BEH HAMZA BEH */
			[]uint8{arabIsol, arabNone, arabIsol}},
		{"mark is transparent",
			[]rune{0x0628, 0x064E, 0x0628}, /* BEH FATHA BEH */
			[]uint8{arabInit, arabNone, arabFina}},
		{"dal does not join forward",
			[]rune{0x062F, 0x0628}, /* DAL BEH */
			[]uint8{arabIsol, arabIsol}},
	}
	for _, c := range cases {
		got := joinRunes(t, c.text)
		if len(got) != len(c.want) {
			t.Errorf("%s: %d actions, want %d", c.name, len(got), len(c.want))
			continue
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Errorf("%s: action[%d] = %d, want %d", c.name, i, got[i], c.want[i])
			}
		}
	}
}

func TestMongolianVariationSelectors(t *testing.T) {
	buffer := otshaper.NewBuffer()
	buffer.AddRunes([]rune{0x182D, 0x180B}, 0) /* GA, FVS1 */
	ap := &arabicShapePlan{}
	ap.setupMasks(buffer, language.Mongolian)
	if got, want := buffer.Info[1].ComplexAux(), buffer.Info[0].ComplexAux(); got != want {
		t.Errorf("FVS action = %d, want the letter's action %d", got, want)
	}
}

func TestSetupMasksAppliesActionMasks(t *testing.T) {
	ap := &arabicShapePlan{}
	for i := range arabicFeatures {
		ap.maskArray[i] = 1 << (3 + uint(i))
	}
	buffer := otshaper.NewBuffer()
	buffer.AddRunes([]rune{0x0628, 0x0628}, 0) /* BEH BEH */
	ap.setupMasks(buffer, language.Arabic)

	if buffer.Info[0].Mask&ap.maskArray[arabInit] == 0 {
		t.Errorf("first glyph should carry the init mask, got %#x", buffer.Info[0].Mask)
	}
	if buffer.Info[1].Mask&ap.maskArray[arabFina] == 0 {
		t.Errorf("second glyph should carry the fina mask, got %#x", buffer.Info[1].Mask)
	}
	if buffer.Info[0].Mask&ap.maskArray[arabFina] != 0 {
		t.Errorf("first glyph should not carry the fina mask")
	}
}

func TestPresentationForms(t *testing.T) {
	cases := []struct {
		letter rune
		action uint8
		want   rune
	}{
		{0x0628, arabIsol, 0xFE8F}, /* BEH */
		{0x0628, arabInit, 0xFE91},
		{0x0628, arabMedi, 0xFE92},
		{0x0628, arabFina, 0xFE90},
		{0x0627, arabFina, 0xFE8E}, /* ALEF */
		{0x0627, arabMedi, 0},      /* ALEF has no medial form */
		{0x0621, arabIsol, 0xFE80}, /* HAMZA */
		{0x0621, arabFina, 0},
		{0x0628, arabNone, 0},
		{0x0041, arabIsol, 0}, /* not an Arabic letter */
	}
	for _, c := range cases {
		if got := presentationForm(c.letter, c.action); got != c.want {
			t.Errorf("presentationForm(%04X, %d) = %04X, want %04X", c.letter, c.action, got, c.want)
		}
	}
}

func TestLamAlefLigature(t *testing.T) {
	cases := []struct {
		alef      rune
		lamAction uint8
		want      rune
	}{
		{0x0627, arabInit, 0xFEFB},
		{0x0627, arabMedi, 0xFEFC},
		{0x0622, arabInit, 0xFEF5},
		{0x0622, arabMedi, 0xFEF6},
		{0x0623, arabInit, 0xFEF7},
		{0x0625, arabMedi, 0xFEFA},
		{0x0627, arabIsol, 0}, /* lam not joining forward */
		{0x0627, arabFina, 0},
		{0x0648, arabInit, 0}, /* WAW is not an alef variant */
	}
	for _, c := range cases {
		if got := lamAlefLigature(c.alef, c.lamAction); got != c.want {
			t.Errorf("lamAlefLigature(%04X, %d) = %04X, want %04X", c.alef, c.lamAction, got, c.want)
		}
	}
}

func TestReorderMarksRotatesModifierMarks(t *testing.T) {
	buffer := otshaper.NewBuffer()
	/* BEH, SHADDA (ccc 33), HAMZA ABOVE (ccc 230, modifier) */
	buffer.AddRunes([]rune{0x0628, 0x0651, 0x0654}, 0)
	reorderMarksArabic(buffer, 1, 3)

	want := []rune{0x0628, 0x0654, 0x0651}
	for i, r := range want {
		if buffer.Info[i].Codepoint != r {
			t.Fatalf("codepoint[%d] = %04X, want %04X", i, buffer.Info[i].Codepoint, r)
		}
	}
}

func TestReorderMarksKeepsPlainMarks(t *testing.T) {
	buffer := otshaper.NewBuffer()
	/* BEH, SHADDA, FATHA: no modifier combining mark present. */
	buffer.AddRunes([]rune{0x0628, 0x0651, 0x064E}, 0)
	reorderMarksArabic(buffer, 1, 3)

	want := []rune{0x0628, 0x0651, 0x064E}
	for i, r := range want {
		if buffer.Info[i].Codepoint != r {
			t.Fatalf("codepoint[%d] = %04X, want %04X", i, buffer.Info[i].Codepoint, r)
		}
	}
}

func shapeArabic(t *testing.T, text []rune) *otshaper.Buffer {
	t.Helper()
	if err := Register(); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	props := otshaper.SegmentProperties{
		Script:    language.Arabic,
		Direction: otshaper.RightToLeft,
	}
	plan, err := otshaper.NewShapePlan(identityFace{}, props, nil)
	if err != nil {
		t.Fatalf("NewShapePlan failed: %v", err)
	}
	defer plan.Release()

	if plan.Engine().Name() != "arabic" {
		t.Fatalf("plan selected engine %q, want arabic", plan.Engine().Name())
	}

	buffer := otshaper.NewBuffer()
	buffer.AddRunes(text, 0)
	buffer.Props = props
	plan.Shape(identityFace{}, buffer, nil)
	return buffer
}

func TestShapeFallbackPresentationForms(t *testing.T) {
	buffer := shapeArabic(t, []rune{0x0645, 0x062D, 0x0645, 0x062F}) /* MEEM HAH MEEM DAL */

	/* Visual order, right to left: DAL.fina, MEEM.medi, HAH.medi, MEEM.init. */
	want := []rune{0xFEAA, 0xFEE4, 0xFEA4, 0xFEE3}
	if len(buffer.Info) != len(want) {
		t.Fatalf("shaped to %d glyphs, want %d", len(buffer.Info), len(want))
	}
	for i, r := range want {
		if buffer.Info[i].Codepoint != r {
			t.Errorf("glyph[%d] = %04X, want %04X", i, buffer.Info[i].Codepoint, r)
		}
		if buffer.Info[i].Glyph != otshaper.GID(r) {
			t.Errorf("glyph[%d] mapped to %d, want %d", i, buffer.Info[i].Glyph, r)
		}
	}
}

func TestShapeFallbackLamAlef(t *testing.T) {
	buffer := shapeArabic(t, []rune{0x0644, 0x0627}) /* LAM ALEF */

	if len(buffer.Info) != 1 {
		t.Fatalf("shaped to %d glyphs, want 1 ligature", len(buffer.Info))
	}
	if buffer.Info[0].Codepoint != 0xFEFB {
		t.Errorf("ligature = %04X, want FEFB", buffer.Info[0].Codepoint)
	}
	if buffer.Info[0].Cluster != 0 {
		t.Errorf("ligature cluster = %d, want 0", buffer.Info[0].Cluster)
	}
}
