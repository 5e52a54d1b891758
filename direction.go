package otshaper

import (
	"github.com/go-text/typesetting/language"
)

// Direction is the text flow direction of a run.
type Direction uint8

const (
	// DirectionInvalid is the zero value; no direction decided yet.
	DirectionInvalid Direction = iota
	LeftToRight
	RightToLeft
	TopToBottom
	BottomToTop
)

func (d Direction) String() string {
	switch d {
	case LeftToRight:
		return "ltr"
	case RightToLeft:
		return "rtl"
	case TopToBottom:
		return "ttb"
	case BottomToTop:
		return "btt"
	}
	return "invalid"
}

func (d Direction) isHorizontal() bool {
	return d == LeftToRight || d == RightToLeft
}

func (d Direction) isVertical() bool {
	return d == TopToBottom || d == BottomToTop
}

func (d Direction) isForward() bool {
	return d == LeftToRight || d == TopToBottom
}

func (d Direction) isBackward() bool {
	return d == RightToLeft || d == BottomToTop
}

// Reverse returns the opposite direction on the same axis.
func (d Direction) Reverse() Direction {
	switch d {
	case LeftToRight:
		return RightToLeft
	case RightToLeft:
		return LeftToRight
	case TopToBottom:
		return BottomToTop
	case BottomToTop:
		return TopToBottom
	}
	return DirectionInvalid
}

// SegmentProperties describe the text segment a plan is compiled for.
// They are immutable per shaping plan.
type SegmentProperties struct {
	Script    language.Script // ISO 15924, see unicode.org/iso15924
	Direction Direction
	Language  string // BCP-47-ish; langsys selection is the face's job
}

// scriptHorizontalDirection returns the canonical horizontal direction
// of a script, or DirectionInvalid when the script has none (e.g. is
// written vertically only).
func scriptHorizontalDirection(script language.Script) Direction {
	switch script {
	case language.Arabic, language.Hebrew, language.Syriac, language.Thaana,
		language.Cypriot, language.Kharoshthi, language.Phoenician,
		language.Nko, language.Lydian, language.Avestan,
		language.Imperial_Aramaic, language.Inscriptional_Pahlavi,
		language.Inscriptional_Parthian, language.Old_South_Arabian,
		language.Old_Turkic, language.Samaritan, language.Mandaic,
		language.Meroitic_Cursive, language.Meroitic_Hieroglyphs,
		language.Manichaean, language.Mende_Kikakui, language.Nabataean,
		language.Old_North_Arabian, language.Palmyrene, language.Psalter_Pahlavi,
		language.Hatran, language.Adlam, language.Hanifi_Rohingya,
		language.Old_Sogdian, language.Sogdian, language.Elymaic,
		language.Chorasmian, language.Yezidi:
		return RightToLeft
	case language.Old_Hungarian, language.Old_Italic, language.Runic:
		// Historically either direction; no canonical one.
		return DirectionInvalid
	}
	return LeftToRight
}
