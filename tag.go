package otshaper

import (
	"github.com/go-text/typesetting/language"
)

// Tag is a 4-byte OpenType code identifying tables, scripts, languages
// and layout features.
type Tag uint32

// NewTag builds a tag from its four bytes.
func NewTag(a, b, c, d byte) Tag {
	return Tag(uint32(a)<<24 | uint32(b)<<16 | uint32(c)<<8 | uint32(d))
}

// T builds a tag from a 4-character string. Shorter strings are padded
// with spaces, as OpenType does for script tags like 'yi  '.
func T(s string) Tag {
	assert(len(s) <= 4, "OpenType tags have at most 4 characters")
	var b [4]byte
	copy(b[:], s)
	for i := len(s); i < 4; i++ {
		b[i] = ' '
	}
	return NewTag(b[0], b[1], b[2], b[3])
}

func (t Tag) String() string {
	return string([]byte{byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t)})
}

var (
	// OpenType script tag `DFLT`, for features that are not script-specific.
	tagDefaultScript = T("DFLT")
	// OpenType language tag `dflt`. Not a valid language tag, but some
	// fonts mistakenly use it.
	tagDefaultLanguage = T("dflt")
)

// oldTagFromScript maps a script to its original OpenType script tag.
func oldTagFromScript(script language.Script) Tag {
	switch script {
	case 0:
		return tagDefaultScript
	// KATAKANA and HIRAGANA both map to 'kana'.
	case language.Hiragana, language.Katakana:
		return T("kana")
	// Spaces at the end are preserved, unlike ISO 15924.
	case language.Lao:
		return T("lao ")
	case language.Yi:
		return T("yi  ")
	case language.Nko:
		return T("nko ")
	case language.Vai:
		return T("vai ")
	}

	// Else, just change the first char to lowercase.
	return Tag(script | 0x20000000)
}

// newTagFromScript maps Indic-family scripts to their revised v2 tags.
func newTagFromScript(script language.Script) Tag {
	switch script {
	case language.Bengali:
		return T("bng2")
	case language.Devanagari:
		return T("dev2")
	case language.Gujarati:
		return T("gjr2")
	case language.Gurmukhi:
		return T("gur2")
	case language.Kannada:
		return T("knd2")
	case language.Malayalam:
		return T("mlm2")
	case language.Oriya:
		return T("ory2")
	case language.Tamil:
		return T("tml2")
	case language.Telugu:
		return T("tel2")
	case language.Myanmar:
		return T("mym2")
	}
	return 0
}

// otTagsFromScript returns the candidate OpenType script tags for a
// script, in decreasing priority: the revised tag where one exists,
// then the traditional tag, then DFLT.
func otTagsFromScript(script language.Script) []Tag {
	var tags []Tag
	if t := newTagFromScript(script); t != 0 {
		tags = append(tags, t)
	}
	if t := oldTagFromScript(script); t != 0 {
		tags = append(tags, t)
	}
	return append(tags, tagDefaultScript)
}

// otTagFromLanguage maps a BCP-47-ish language string to an OpenType
// language tag. Full langsys resolution is the face's responsibility;
// this mapping only covers the trivial cases the planner needs.
func otTagFromLanguage(lang string) Tag {
	if lang == "" {
		return tagDefaultLanguage
	}
	var b [4]byte
	n := 0
	for i := 0; i < len(lang) && n < 4; i++ {
		c := lang[i]
		if c == '-' || c == '_' {
			break
		}
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		b[n] = c
		n++
	}
	if n == 0 {
		return tagDefaultLanguage
	}
	for ; n < 4; n++ {
		b[n] = ' '
	}
	return NewTag(b[0], b[1], b[2], b[3])
}
