package otarabic

import "github.com/npillmayer/otshaper"

// Fallback shaping for fonts that encode Arabic presentation forms in
// their cmap but carry no usable positional substitution rules. The
// joining actions computed during mask setup select the Unicode
// presentation form directly, and the mandatory lam-alef ligatures are
// formed from their encoded ligature codepoints.

type shapingEntry struct {
	letter rune
	forms  [4]rune // isol, fina, medi, init; 0 where not encoded
}

var arabicShaping = [...]shapingEntry{
	{0x0621, [4]rune{0xFE80, 0, 0, 0}},           /* HAMZA */
	{0x0622, [4]rune{0xFE81, 0xFE82, 0, 0}},      /* ALEF WITH MADDA ABOVE */
	{0x0623, [4]rune{0xFE83, 0xFE84, 0, 0}},      /* ALEF WITH HAMZA ABOVE */
	{0x0624, [4]rune{0xFE85, 0xFE86, 0, 0}},      /* WAW WITH HAMZA ABOVE */
	{0x0625, [4]rune{0xFE87, 0xFE88, 0, 0}},      /* ALEF WITH HAMZA BELOW */
	{0x0626, [4]rune{0xFE89, 0xFE8A, 0xFE8C, 0xFE8B}}, /* YEH WITH HAMZA ABOVE */
	{0x0627, [4]rune{0xFE8D, 0xFE8E, 0, 0}},      /* ALEF */
	{0x0628, [4]rune{0xFE8F, 0xFE90, 0xFE92, 0xFE91}}, /* BEH */
	{0x0629, [4]rune{0xFE93, 0xFE94, 0, 0}},      /* TEH MARBUTA */
	{0x062A, [4]rune{0xFE95, 0xFE96, 0xFE98, 0xFE97}}, /* TEH */
	{0x062B, [4]rune{0xFE99, 0xFE9A, 0xFE9C, 0xFE9B}}, /* THEH */
	{0x062C, [4]rune{0xFE9D, 0xFE9E, 0xFEA0, 0xFE9F}}, /* JEEM */
	{0x062D, [4]rune{0xFEA1, 0xFEA2, 0xFEA4, 0xFEA3}}, /* HAH */
	{0x062E, [4]rune{0xFEA5, 0xFEA6, 0xFEA8, 0xFEA7}}, /* KHAH */
	{0x062F, [4]rune{0xFEA9, 0xFEAA, 0, 0}},      /* DAL */
	{0x0630, [4]rune{0xFEAB, 0xFEAC, 0, 0}},      /* THAL */
	{0x0631, [4]rune{0xFEAD, 0xFEAE, 0, 0}},      /* REH */
	{0x0632, [4]rune{0xFEAF, 0xFEB0, 0, 0}},      /* ZAIN */
	{0x0633, [4]rune{0xFEB1, 0xFEB2, 0xFEB4, 0xFEB3}}, /* SEEN */
	{0x0634, [4]rune{0xFEB5, 0xFEB6, 0xFEB8, 0xFEB7}}, /* SHEEN */
	{0x0635, [4]rune{0xFEB9, 0xFEBA, 0xFEBC, 0xFEBB}}, /* SAD */
	{0x0636, [4]rune{0xFEBD, 0xFEBE, 0xFEC0, 0xFEBF}}, /* DAD */
	{0x0637, [4]rune{0xFEC1, 0xFEC2, 0xFEC4, 0xFEC3}}, /* TAH */
	{0x0638, [4]rune{0xFEC5, 0xFEC6, 0xFEC8, 0xFEC7}}, /* ZAH */
	{0x0639, [4]rune{0xFEC9, 0xFECA, 0xFECC, 0xFECB}}, /* AIN */
	{0x063A, [4]rune{0xFECD, 0xFECE, 0xFED0, 0xFECF}}, /* GHAIN */
	{0x0641, [4]rune{0xFED1, 0xFED2, 0xFED4, 0xFED3}}, /* FEH */
	{0x0642, [4]rune{0xFED5, 0xFED6, 0xFED8, 0xFED7}}, /* QAF */
	{0x0643, [4]rune{0xFED9, 0xFEDA, 0xFEDC, 0xFEDB}}, /* KAF */
	{0x0644, [4]rune{0xFEDD, 0xFEDE, 0xFEE0, 0xFEDF}}, /* LAM */
	{0x0645, [4]rune{0xFEE1, 0xFEE2, 0xFEE4, 0xFEE3}}, /* MEEM */
	{0x0646, [4]rune{0xFEE5, 0xFEE6, 0xFEE8, 0xFEE7}}, /* NOON */
	{0x0647, [4]rune{0xFEE9, 0xFEEA, 0xFEEC, 0xFEEB}}, /* HEH */
	{0x0648, [4]rune{0xFEED, 0xFEEE, 0, 0}},      /* WAW */
	{0x0649, [4]rune{0xFEEF, 0xFEF0, 0, 0}},      /* ALEF MAKSURA */
	{0x064A, [4]rune{0xFEF1, 0xFEF2, 0xFEF4, 0xFEF3}}, /* YEH */
}

func presentationForm(u rune, action uint8) rune {
	var col int
	switch action {
	case arabIsol:
		col = 0
	case arabFina:
		col = 1
	case arabMedi:
		col = 2
	case arabInit:
		col = 3
	default:
		return 0
	}
	for _, e := range arabicShaping {
		if e.letter == u {
			return e.forms[col]
		}
	}
	return 0
}

// Lam-alef ligatures, isolated and final form per alef variant.
var lamAlefLigatures = [...]struct {
	alef        rune
	isol, fina rune
}{
	{0x0622, 0xFEF5, 0xFEF6}, /* ALEF WITH MADDA ABOVE */
	{0x0623, 0xFEF7, 0xFEF8}, /* ALEF WITH HAMZA ABOVE */
	{0x0625, 0xFEF9, 0xFEFA}, /* ALEF WITH HAMZA BELOW */
	{0x0627, 0xFEFB, 0xFEFC}, /* ALEF */
}

func lamAlefLigature(alef rune, lamAction uint8) rune {
	if lamAction != arabInit && lamAction != arabMedi {
		return 0
	}
	for _, l := range lamAlefLigatures {
		if l.alef != alef {
			continue
		}
		if lamAction == arabInit {
			return l.isol
		}
		return l.fina
	}
	return 0
}

// arabicFallbackShape runs as a GSUB pause after the positional
// features. It only acts when the plan determined that the font's
// tables cannot provide the positional forms.
func arabicFallbackShape(plan *otshaper.ShapePlan, face otshaper.Face, buffer *otshaper.Buffer) {
	ap := arabicPlanOf(plan)
	if !ap.doFallback {
		return
	}

	info := buffer.Info

	// Lam-alef ligatures first; they consume the positional action of
	// the lam.
	out := info[:0]
	for i := 0; i < len(info); i++ {
		if info[i].Codepoint == 0x0644 /* LAM */ && i+1 < len(info) {
			lig := lamAlefLigature(info[i+1].Codepoint, info[i].ComplexAux())
			if lig != 0 {
				if g, ok := face.NominalGlyph(lig); ok {
					merged := info[i]
					merged.Codepoint = lig
					merged.Glyph = g
					if info[i+1].Cluster < merged.Cluster {
						merged.Cluster = info[i+1].Cluster
					}
					merged.Mask |= info[i+1].Mask
					merged.SetComplexAux(arabNone)
					out = append(out, merged)
					buffer.UnsafeToBreak(len(out)-1, len(out))
					i++
					continue
				}
			}
		}
		out = append(out, info[i])
	}
	buffer.Info = out
	info = buffer.Info

	// Positional presentation forms.
	for i := range info {
		form := presentationForm(info[i].Codepoint, info[i].ComplexAux())
		if form == 0 {
			continue
		}
		if g, ok := face.NominalGlyph(form); ok {
			info[i].Codepoint = form
			info[i].Glyph = g
		}
	}
}
