package otshaper

import (
	"sync"
	"testing"

	"github.com/go-text/typesetting/language"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite Preparation ------------------------------------------------

type PlanTestEnviron struct {
	suite.Suite
	face *testFace
}

// listen for 'go test' command --> run test methods
func TestPlanFunctions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "otshaper")
	defer teardown()
	suite.Run(t, new(PlanTestEnviron))
}

// run once, before test suite methods
func (env *PlanTestEnviron) SetupSuite() {
	tracing.Select("otshaper").SetTraceLevel(tracing.LevelError)
	env.face = newTestFace()
	env.face.scripts[TableGSUB] = []Tag{T("latn")}
	env.face.addFeature(TableGSUB, T("liga"))
	env.face.addFeature(TableGSUB, T("smcp"))
}

// --- Tests -----------------------------------------------------------------

func (env *PlanTestEnviron) TestPlanFeatureQueries() {
	plan, err := NewShapePlan(env.face, latinProps(), nil)
	env.Require().NoError(err)
	defer plan.Release()

	env.NotZero(plan.FeatureMask1(T("liga")), "expected liga to be compiled")
	env.Zero(plan.FeatureMask1(T("zzzz")), "expected unknown feature to have no mask")
	env.Equal(T("latn"), plan.ChosenScript(TableGSUB))
	env.Equal("default", plan.Engine().Name())
}

func (env *PlanTestEnviron) TestPlanShapesConcurrently() {
	plan, err := NewShapePlan(env.face, latinProps(), nil)
	env.Require().NoError(err)
	defer plan.Release()

	text := []rune("concurrent")
	reference := NewBuffer()
	reference.AddRunes(text, 0)
	reference.Props = latinProps()
	plan.Shape(env.face, reference, nil)

	var wg sync.WaitGroup
	results := make([]*Buffer, 8)
	for i := range results {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			b := NewBuffer()
			b.AddRunes(text, 0)
			b.Props = latinProps()
			plan.Shape(env.face, b, nil)
			results[slot] = b
		}(i)
	}
	wg.Wait()

	for _, b := range results {
		env.Require().Equal(len(reference.Info), len(b.Info))
		for i := range b.Info {
			env.Equal(reference.Info[i].Glyph, b.Info[i].Glyph)
			env.Equal(reference.Pos[i], b.Pos[i])
		}
	}
}

func (env *PlanTestEnviron) TestPlanPropsRoundTrip() {
	props := SegmentProperties{
		Script:    language.Latin,
		Direction: LeftToRight,
		Language:  "en",
	}
	plan, err := NewShapePlan(env.face, props, nil)
	env.Require().NoError(err)
	defer plan.Release()

	env.Equal(props, plan.Props())
}
