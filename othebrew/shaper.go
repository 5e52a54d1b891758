// Package othebrew provides the Hebrew shaping engine.
//
// Hebrew needs two refinements over default shaping: composition of
// presentation forms that canonical normalization excludes, wanted for
// old fonts without mark positioning, and GPOS gated on the 'hebr'
// script tag, because Hebrew rules under other tags tend to misbehave.
package othebrew

import (
	"errors"
	"fmt"

	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/otshaper"
)

type Shaper struct{}

var _ otshaper.ShapingEngine = Shaper{}
var _ otshaper.EnginePolicy = Shaper{}
var _ otshaper.EngineGposPolicy = Shaper{}
var _ otshaper.EngineNormalizeHooks = Shaper{}

func (Shaper) Name() string { return "hebrew" }

func (Shaper) Match(ctx otshaper.SelectionContext) int {
	if ctx.Script == language.Hebrew {
		return 100
	}
	return -1
}

func (Shaper) New() otshaper.ShapingEngine { return Shaper{} }

func (Shaper) MarksBehavior() (otshaper.ZeroWidthMarksMode, bool) {
	return otshaper.ZeroWidthMarksByGDEFLate, true
}

func (Shaper) NormalizationPreference() otshaper.NormalizationMode {
	return otshaper.NormalizationDefault
}

func (Shaper) GposTag() otshaper.Tag {
	return otshaper.T("hebr")
}

func (Shaper) Decompose(c otshaper.NormalizeContext, ab rune) (a, b rune, ok bool) {
	return c.DecomposeUnicode(ab)
}

func (Shaper) Compose(c otshaper.NormalizeContext, a, b rune) (rune, bool) {
	return hebrewCompose(c, a, b)
}

// New returns the Hebrew shaping engine.
func New() otshaper.ShapingEngine { return Shaper{} }

// Register registers the Hebrew shaping engine in the global registry.
func Register() error {
	if err := otshaper.RegisterShaper(New()); err != nil {
		if errors.Is(err, otshaper.ErrShaperAlreadyRegistered) {
			return nil
		}
		return fmt.Errorf("register othebrew shaper: %w", err)
	}
	return nil
}

// Presentation forms with dagesh for the letters U+05D0..U+05EA. Zero
// where no presentation form is encoded.
var dageshForms = [0x05EA - 0x05D0 + 1]rune{
	0xFB30, /* ALEF */
	0xFB31, /* BET */
	0xFB32, /* GIMEL */
	0xFB33, /* DALET */
	0xFB34, /* HE */
	0xFB35, /* VAV */
	0xFB36, /* ZAYIN */
	0x0000, /* HET */
	0xFB38, /* TET */
	0xFB39, /* YOD */
	0xFB3A, /* FINAL KAF */
	0xFB3B, /* KAF */
	0xFB3C, /* LAMED */
	0x0000, /* FINAL MEM */
	0xFB3E, /* MEM */
	0x0000, /* FINAL NUN */
	0xFB40, /* NUN */
	0xFB41, /* SAMEKH */
	0x0000, /* AYIN */
	0xFB43, /* FINAL PE */
	0xFB44, /* PE */
	0x0000, /* FINAL TSADI */
	0xFB46, /* TSADI */
	0xFB47, /* QOF */
	0xFB48, /* RESH */
	0xFB49, /* SHIN */
	0xFB4A, /* TAV */
}

// hebrewCompose falls back to presentation forms that are excluded from
// canonical composition but wanted for fonts without GPOS mark
// positioning.
func hebrewCompose(c otshaper.NormalizeContext, a, b rune) (rune, bool) {
	if ab, ok := c.ComposeUnicode(a, b); ok {
		return ab, true
	}
	if c.HasGposMark() {
		return 0, false
	}

	switch b {
	case 0x05B4: /* HIRIQ */
		if a == 0x05D9 { /* YOD */
			return 0xFB1D, true
		}
	case 0x05B7: /* PATAH */
		switch a {
		case 0x05F2: /* YIDDISH YOD YOD */
			return 0xFB1F, true
		case 0x05D0: /* ALEF */
			return 0xFB2E, true
		}
	case 0x05B8: /* QAMATS */
		if a == 0x05D0 { /* ALEF */
			return 0xFB2F, true
		}
	case 0x05B9: /* HOLAM */
		if a == 0x05D5 { /* VAV */
			return 0xFB4B, true
		}
	case 0x05BC: /* DAGESH */
		switch {
		case a >= 0x05D0 && a <= 0x05EA:
			if ab := dageshForms[a-0x05D0]; ab != 0 {
				return ab, true
			}
		case a == 0xFB2A: /* SHIN WITH SHIN DOT */
			return 0xFB2C, true
		case a == 0xFB2B: /* SHIN WITH SIN DOT */
			return 0xFB2D, true
		}
	case 0x05BF: /* RAFE */
		switch a {
		case 0x05D1: /* BET */
			return 0xFB4C, true
		case 0x05DB: /* KAF */
			return 0xFB4D, true
		case 0x05E4: /* PE */
			return 0xFB4E, true
		}
	case 0x05C1: /* SHIN DOT */
		switch a {
		case 0x05E9: /* SHIN */
			return 0xFB2A, true
		case 0xFB49: /* SHIN WITH DAGESH */
			return 0xFB2C, true
		}
	case 0x05C2: /* SIN DOT */
		switch a {
		case 0x05E9: /* SHIN */
			return 0xFB2B, true
		case 0xFB49: /* SHIN WITH DAGESH */
			return 0xFB2D, true
		}
	}
	return 0, false
}
