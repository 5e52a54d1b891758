package otshaper

// defaultEngine is the script-agnostic shaping engine. It implements
// only the mandatory selection surface plus the policy interface; all
// other hooks fall back to the pipeline defaults.
type defaultEngine struct {
	/* if true, no mark advance zeroing / fallback positioning.
	 * Dumbest shaper ever, basically. */
	dumb        bool
	disableNorm bool
}

var (
	_ ShapingEngine = defaultEngine{}
	_ EnginePolicy  = defaultEngine{}
)

// NewDefaultShapingEngine returns a fresh default OpenType shaping engine.
func NewDefaultShapingEngine() ShapingEngine {
	return defaultEngine{}.New()
}

func (e defaultEngine) Name() string {
	return "default"
}

func (e defaultEngine) Match(SelectionContext) int {
	return 0
}

func (e defaultEngine) New() ShapingEngine {
	return e
}

func (e defaultEngine) MarksBehavior() (ZeroWidthMarksMode, bool) {
	if e.dumb {
		return ZeroWidthMarksNone, false
	}
	return ZeroWidthMarksByGDEFLate, true
}

func (e defaultEngine) NormalizationPreference() NormalizationMode {
	if e.disableNorm {
		return NormalizationNone
	}
	return NormalizationDefault
}
