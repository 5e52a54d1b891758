package otarabic

import (
	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/otshaper"
	"golang.org/x/text/unicode/norm"
)

func featureIsSyriac(tag otshaper.Tag) bool {
	return '2' <= byte(tag) && byte(tag) <= '3'
}

var arabicFeatures = [...]otshaper.Tag{
	otshaper.T("isol"),
	otshaper.T("fina"),
	otshaper.T("fin2"),
	otshaper.T("fin3"),
	otshaper.T("medi"),
	otshaper.T("med2"),
	otshaper.T("init"),
}

/* Same order as arabicFeatures. */
const (
	arabIsol = iota
	arabFina
	arabFin2
	arabFin3
	arabMedi
	arabMed2
	arabInit

	arabNone
)

const (
	joiningTypeU = iota
	joiningTypeL
	joiningTypeR
	joiningTypeD
	joiningGroupAlaph
	joiningGroupDalathRish
	numStateMachineCols
	joiningTypeT
	joiningTypeC = joiningTypeD
)

var arabicStateTable = [...][numStateMachineCols]struct {
	prevAction uint8
	currAction uint8
	nextState  uint16
}{
	/*   jt_U,          jt_L,          jt_R,          jt_D,          jg_ALAPH,      jg_DALATH_RISH */

	/* State 0: prev was U, not willing to join. */
	{{arabNone, arabNone, 0}, {arabNone, arabIsol, 2}, {arabNone, arabIsol, 1}, {arabNone, arabIsol, 2}, {arabNone, arabIsol, 1}, {arabNone, arabIsol, 6}},

	/* State 1: prev was R or ISOL/ALAPH, not willing to join. */
	{{arabNone, arabNone, 0}, {arabNone, arabIsol, 2}, {arabNone, arabIsol, 1}, {arabNone, arabIsol, 2}, {arabNone, arabFin2, 5}, {arabNone, arabIsol, 6}},

	/* State 2: prev was D/L in ISOL form, willing to join. */
	{{arabNone, arabNone, 0}, {arabNone, arabIsol, 2}, {arabInit, arabFina, 1}, {arabInit, arabFina, 3}, {arabInit, arabFina, 4}, {arabInit, arabFina, 6}},

	/* State 3: prev was D in FINA form, willing to join. */
	{{arabNone, arabNone, 0}, {arabNone, arabIsol, 2}, {arabMedi, arabFina, 1}, {arabMedi, arabFina, 3}, {arabMedi, arabFina, 4}, {arabMedi, arabFina, 6}},

	/* State 4: prev was FINA ALAPH, not willing to join. */
	{{arabNone, arabNone, 0}, {arabNone, arabIsol, 2}, {arabMed2, arabIsol, 1}, {arabMed2, arabIsol, 2}, {arabMed2, arabFin2, 5}, {arabMed2, arabIsol, 6}},

	/* State 5: prev was FIN2/FIN3 ALAPH, not willing to join. */
	{{arabNone, arabNone, 0}, {arabNone, arabIsol, 2}, {arabIsol, arabIsol, 1}, {arabIsol, arabIsol, 2}, {arabIsol, arabFin2, 5}, {arabIsol, arabIsol, 6}},

	/* State 6: prev was DALATH/RISH, not willing to join. */
	{{arabNone, arabNone, 0}, {arabNone, arabIsol, 2}, {arabNone, arabIsol, 1}, {arabNone, arabIsol, 2}, {arabNone, arabFin3, 5}, {arabNone, arabIsol, 6}},
}

func collectArabicFeatures(plan otshaper.FeaturePlanner, script language.Script) {
	plan.EnableFeature(otshaper.T("stch"))
	plan.AddGSUBPause(nil)

	plan.EnableFeatureExt(otshaper.T("ccmp"), otshaper.FeatureManualZWJ, 1)
	plan.EnableFeatureExt(otshaper.T("locl"), otshaper.FeatureManualZWJ, 1)

	plan.AddGSUBPause(nil)

	for _, feat := range arabicFeatures {
		flags := otshaper.FeatureManualZWJ
		if script == language.Arabic && !featureIsSyriac(feat) {
			flags |= otshaper.FeatureHasFallback
		}
		plan.AddFeatureExt(feat, flags, 1)
		// A pause per feature: positional forms must not interact
		// within a single lookup batch.
		plan.AddGSUBPause(nil)
	}

	plan.EnableFeatureExt(otshaper.T("rlig"), otshaper.FeatureManualZWJ|otshaper.FeatureHasFallback, 1)

	if script == language.Arabic {
		plan.AddGSUBPause(arabicFallbackShape)
	}

	plan.EnableFeatureExt(otshaper.T("calt"), otshaper.FeatureManualZWJ, 1)
	if !plan.HasFeature(otshaper.T("rclt")) {
		plan.AddGSUBPause(nil)
		plan.EnableFeatureExt(otshaper.T("rclt"), otshaper.FeatureManualZWJ, 1)
	}

	plan.EnableFeatureExt(otshaper.T("liga"), otshaper.FeatureManualZWJ, 1)
	plan.EnableFeatureExt(otshaper.T("clig"), otshaper.FeatureManualZWJ, 1)
	plan.EnableFeatureExt(otshaper.T("mset"), otshaper.FeatureManualZWJ, 1)
}

type arabicShapePlan struct {
	/* The +1 slot is for arabNone, which is not an OT feature. */
	maskArray  [len(arabicFeatures) + 1]otshaper.GlyphMask
	doFallback bool
}

func newArabicPlan(plan *otshaper.ShapePlan) *arabicShapePlan {
	arabicPlan := &arabicShapePlan{}
	arabicPlan.doFallback = plan.Props().Script == language.Arabic
	for i, feat := range arabicFeatures {
		arabicPlan.maskArray[i] = plan.FeatureMask1(feat)
		arabicPlan.doFallback = arabicPlan.doFallback &&
			(featureIsSyriac(feat) || plan.FeatureNeedsFallback(feat))
	}
	return arabicPlan
}

func arabicPlanOf(plan *otshaper.ShapePlan) *arabicShapePlan {
	if ap, ok := plan.EngineData().(*arabicShapePlan); ok {
		return ap
	}
	return &arabicShapePlan{}
}

func getJoiningType(u rune, isTransparent bool) uint8 {
	if jType, ok := arabicJoinings[u]; ok {
		switch jType {
		case ajU:
			return joiningTypeU
		case ajL:
			return joiningTypeL
		case ajR:
			return joiningTypeR
		case ajD:
			return joiningTypeD
		case ajAlaph:
			return joiningGroupAlaph
		case ajDalathRish:
			return joiningGroupDalathRish
		case ajT:
			return joiningTypeT
		case ajC:
			return joiningTypeC
		}
	}
	if isTransparent {
		return joiningTypeT
	}
	return joiningTypeU
}

func applyArabicJoining(buffer *otshaper.Buffer) {
	info := buffer.Info
	prev, state := -1, uint16(0)

	for i := 0; i < len(info); i++ {
		// Marks and format controls are transparent to joining.
		transparent := info[i].IsUnicodeMark() || info[i].IsDefaultIgnorable()
		thisType := getJoiningType(info[i].Codepoint, transparent)

		if thisType == joiningTypeT {
			info[i].SetComplexAux(arabNone)
			continue
		}

		entry := &arabicStateTable[state][thisType]

		if entry.prevAction != arabNone && prev != -1 {
			info[prev].SetComplexAux(entry.prevAction)
			buffer.SafeToInsertTatweel(prev, i+1)
		} else if prev != -1 {
			if thisType >= joiningTypeR || (2 <= state && state <= 5) {
				buffer.UnsafeToConcat(prev, i+1)
			}
		}

		info[i].SetComplexAux(entry.currAction)
		prev = i
		state = entry.nextState
	}
}

func mongolianVariationSelectors(buffer *otshaper.Buffer) {
	/* Mongolian FVSes connect to the letter before them. */
	info := buffer.Info
	for i := 1; i < len(info); i++ {
		if cp := info[i].Codepoint; 0x180B <= cp && cp <= 0x180D || cp == 0x180F {
			info[i].SetComplexAux(info[i-1].ComplexAux())
		}
	}
}

func (ap *arabicShapePlan) setupMasks(buffer *otshaper.Buffer, script language.Script) {
	applyArabicJoining(buffer)
	if script == language.Mongolian {
		mongolianVariationSelectors(buffer)
	}

	info := buffer.Info
	for i := range info {
		info[i].Mask |= ap.maskArray[info[i].ComplexAux()]
	}
}

// Modifier combining marks, reordered to the start of their combining
// class group so they attach to the letter rather than to marks of the
// same class preceding them.
var modifierCombiningMarks = [...]rune{
	0x0654, /* ARABIC HAMZA ABOVE */
	0x0655, /* ARABIC HAMZA BELOW */
	0x0658, /* ARABIC MARK NOON GHUNNA */
	0x06DC, /* ARABIC SMALL HIGH SEEN */
	0x06E3, /* ARABIC SMALL LOW SEEN */
	0x06E7, /* ARABIC SMALL HIGH YEH */
	0x06E8, /* ARABIC SMALL HIGH NOON */
	0x08CA, /* ARABIC SMALL HIGH FARSI YEH */
	0x08CB, /* ARABIC SMALL HIGH YEH BARREE WITH TWO DOTS BELOW */
	0x08CD, /* ARABIC SMALL HIGH ZAH */
	0x08CE, /* ARABIC LARGE ROUND DOT ABOVE */
	0x08CF, /* ARABIC LARGE ROUND DOT BELOW */
	0x08D3, /* ARABIC SMALL LOW WAW */
	0x08F3, /* ARABIC SMALL HIGH WAW */
}

func isModifierCombiningMark(u rune) bool {
	for _, mcm := range modifierCombiningMarks {
		if u == mcm {
			return true
		}
	}
	return false
}

func combiningClass(r rune) uint8 {
	return norm.NFC.PropertiesString(string(r)).CCC()
}

func reorderMarksArabic(buffer *otshaper.Buffer, start, end int) {
	info := buffer.Info

	i := start
	for cc := uint8(220); cc <= 230; cc += 10 {
		for i < end && combiningClass(info[i].Codepoint) < cc {
			i++
		}
		if i == end {
			break
		}
		if combiningClass(info[i].Codepoint) > cc {
			continue
		}

		j := i
		for j < end && combiningClass(info[j].Codepoint) == cc &&
			isModifierCombiningMark(info[j].Codepoint) {
			j++
		}
		if i == j {
			continue
		}

		// Rotate the MCM run to the front of the sequence.
		buffer.MergeClusters(start, j)
		temp := make([]otshaper.GlyphInfo, j-i)
		copy(temp, info[i:j])
		copy(info[start+j-i:], info[start:i])
		copy(info[start:], temp)

		start += j - i
		i = j
	}
}
