// Package otarabic provides the Arabic shaping engine.
//
// The engine drives joining analysis over the run, requests the
// positional substitution features with per-feature synchronization
// pauses, and falls back to Unicode presentation forms for fonts
// without usable positional substitution rules.
package otarabic

import (
	"errors"
	"fmt"

	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/otshaper"
)

type Shaper struct{}

var _ otshaper.ShapingEngine = Shaper{}
var _ otshaper.EnginePolicy = Shaper{}
var _ otshaper.EnginePlanHooks = Shaper{}
var _ otshaper.EngineDataHooks = Shaper{}
var _ otshaper.EngineMaskHook = Shaper{}
var _ otshaper.EngineReorderHook = Shaper{}
var _ otshaper.EngineGSUBDependence = Shaper{}

func (Shaper) Name() string { return "arabic" }

func (Shaper) Match(ctx otshaper.SelectionContext) int {
	if ctx.Direction != otshaper.LeftToRight && ctx.Direction != otshaper.RightToLeft {
		return -1
	}

	switch ctx.Script {
	case language.Arabic, language.Mongolian:
		return 110
	case language.Syriac:
		// Use the Arabic engine for Syriac only when GSUB did not pick DFLT.
		if ctx.ChosenScript[otshaper.TableGSUB] != otshaper.T("DFLT") {
			return 110
		}
	}
	return -1
}

func (Shaper) New() otshaper.ShapingEngine { return Shaper{} }

func (Shaper) RequiresGSUB() bool { return true }

func (Shaper) MarksBehavior() (otshaper.ZeroWidthMarksMode, bool) {
	return otshaper.ZeroWidthMarksByGDEFLate, true
}

func (Shaper) NormalizationPreference() otshaper.NormalizationMode {
	return otshaper.NormalizationDefault
}

func (Shaper) CollectFeatures(plan otshaper.FeaturePlanner, script language.Script) {
	collectArabicFeatures(plan, script)
}

func (Shaper) OverrideFeatures(plan otshaper.FeaturePlanner) {}

func (Shaper) InitPlanData(plan *otshaper.ShapePlan) error {
	plan.SetEngineData(newArabicPlan(plan))
	return nil
}

func (Shaper) ReleasePlanData(plan *otshaper.ShapePlan) {
	plan.SetEngineData(nil)
}

func (Shaper) SetupMasks(plan *otshaper.ShapePlan, buffer *otshaper.Buffer, face otshaper.Face) {
	arabicPlanOf(plan).setupMasks(buffer, plan.Props().Script)
}

func (Shaper) ReorderMarks(plan *otshaper.ShapePlan, buffer *otshaper.Buffer, start, end int) {
	reorderMarksArabic(buffer, start, end)
}

// New returns the Arabic shaping engine.
func New() otshaper.ShapingEngine { return Shaper{} }

// Register registers the Arabic shaping engine in the global registry.
func Register() error {
	if err := otshaper.RegisterShaper(New()); err != nil {
		if errors.Is(err, otshaper.ErrShaperAlreadyRegistered) {
			return nil
		}
		return fmt.Errorf("register otarabic shaper: %w", err)
	}
	return nil
}
