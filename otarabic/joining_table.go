package otarabic

// arabicJoining is the joining property used to shape Arabic-script runes.
// Values mirror the Joining_Type field of the Unicode ArabicShaping data
// file, with the ALAPH and DALATH RISH joining groups split out because
// the Syriac state machine treats them specially.
type arabicJoining byte

const (
	ajU          arabicJoining = 'U' // Un-joining, e.g. Full Stop
	ajR          arabicJoining = 'R' // Right-joining, e.g. Arabic Letter Dal
	ajAlaph      arabicJoining = 'a' // Alaph group (included in kind R)
	ajDalathRish arabicJoining = 'd' // Dalat Rish group (included in kind R)
	ajD          arabicJoining = 'D' // Dual-joining, e.g. Arabic Letter Ain
	ajC          arabicJoining = 'C' // Join-Causing, e.g. Tatweel, ZWJ
	ajL          arabicJoining = 'L' // Left-joining, i.e. fictional
	ajT          arabicJoining = 'T' // Transparent, e.g. Arabic Fatha
)

type joiningRange struct {
	first, last rune
	class       arabicJoining
}

// joiningRanges lists the Joining_Type assignments for the blocks the
// Arabic engine shapes: Arabic, Syriac, Arabic Supplement and Mongolian,
// derived from ArabicShaping.txt of the Unicode Character Database.
// Runs of consecutive runes sharing a class are collapsed into ranges.
var joiningRanges = [...]joiningRange{
	// Arabic
	{0x0600, 0x0605, 'U'},
	{0x0610, 0x061A, 'T'},
	{0x061C, 0x061C, 'T'},
	{0x0620, 0x0620, 'D'},
	{0x0621, 0x0621, 'U'},
	{0x0622, 0x0625, 'R'},
	{0x0626, 0x0626, 'D'},
	{0x0627, 0x0627, 'R'},
	{0x0628, 0x0628, 'D'},
	{0x0629, 0x0629, 'R'},
	{0x062A, 0x062E, 'D'},
	{0x062F, 0x0632, 'R'},
	{0x0633, 0x063F, 'D'},
	{0x0640, 0x0640, 'C'},
	{0x0641, 0x0647, 'D'},
	{0x0648, 0x0648, 'R'},
	{0x0649, 0x064A, 'D'},
	{0x064B, 0x065F, 'T'},
	{0x066E, 0x066F, 'D'},
	{0x0670, 0x0670, 'T'},
	{0x0671, 0x0673, 'R'},
	{0x0674, 0x0674, 'U'},
	{0x0675, 0x0677, 'R'},
	{0x0678, 0x0687, 'D'},
	{0x0688, 0x0699, 'R'},
	{0x069A, 0x06BF, 'D'},
	{0x06C0, 0x06C0, 'R'},
	{0x06C1, 0x06C2, 'D'},
	{0x06C3, 0x06CB, 'R'},
	{0x06CC, 0x06CC, 'D'},
	{0x06CD, 0x06CD, 'R'},
	{0x06CE, 0x06CE, 'D'},
	{0x06CF, 0x06CF, 'R'},
	{0x06D0, 0x06D1, 'D'},
	{0x06D2, 0x06D3, 'R'},
	{0x06D5, 0x06D5, 'R'},
	{0x06D6, 0x06DC, 'T'},
	{0x06DD, 0x06DD, 'U'},
	{0x06DF, 0x06E4, 'T'},
	{0x06E7, 0x06E8, 'T'},
	{0x06EA, 0x06ED, 'T'},
	{0x06EE, 0x06EF, 'R'},
	{0x06FA, 0x06FC, 'D'},
	{0x06FF, 0x06FF, 'D'},

	// Syriac
	{0x0710, 0x0710, 'a'},
	{0x0711, 0x0711, 'T'},
	{0x0712, 0x0714, 'D'},
	{0x0715, 0x0716, 'd'},
	{0x0717, 0x0719, 'R'},
	{0x071A, 0x071D, 'D'},
	{0x071E, 0x071E, 'R'},
	{0x071F, 0x0727, 'D'},
	{0x0728, 0x0728, 'R'},
	{0x0729, 0x0729, 'D'},
	{0x072A, 0x072A, 'R'},
	{0x072B, 0x072B, 'D'},
	{0x072C, 0x072C, 'R'},
	{0x072D, 0x072E, 'D'},
	{0x072F, 0x072F, 'R'},
	{0x0730, 0x074A, 'T'},
	{0x074D, 0x074D, 'R'},
	{0x074E, 0x074F, 'D'},

	// Arabic Supplement
	{0x0750, 0x0758, 'D'},
	{0x0759, 0x075B, 'R'},
	{0x075C, 0x076A, 'D'},
	{0x076B, 0x076C, 'R'},
	{0x076D, 0x0770, 'D'},
	{0x0771, 0x0771, 'R'},
	{0x0772, 0x0772, 'D'},
	{0x0773, 0x0774, 'R'},
	{0x0775, 0x0777, 'D'},
	{0x0778, 0x0779, 'R'},
	{0x077A, 0x077F, 'D'},

	// Arabic Extended-A marks
	{0x08CA, 0x08E1, 'T'},
	{0x08E3, 0x08FF, 'T'},

	// Mongolian
	{0x1807, 0x1807, 'D'},
	{0x180A, 0x180A, 'C'},
	{0x180B, 0x180D, 'T'},
	{0x180E, 0x180E, 'U'},
	{0x180F, 0x180F, 'T'},
	{0x1820, 0x1842, 'D'},
	{0x1843, 0x1843, 'L'},
	{0x1844, 0x1878, 'D'},
	{0x1880, 0x1884, 'U'},
	{0x1885, 0x1886, 'T'},
	{0x1887, 0x18A8, 'D'},
	{0x18A9, 0x18A9, 'T'},
	{0x18AA, 0x18AA, 'D'},

	// Joining controls
	{0x200C, 0x200C, 'U'},
	{0x200D, 0x200D, 'C'},
}

// arabicJoinings is the per-rune lookup built from joiningRanges.
var arabicJoinings = buildJoinings()

func buildJoinings() map[rune]arabicJoining {
	m := make(map[rune]arabicJoining, 1024)
	for _, r := range joiningRanges {
		for u := r.first; u <= r.last; u++ {
			m[u] = r.class
		}
	}
	return m
}
