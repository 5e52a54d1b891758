/*
Package otshaper implements the orchestration core of an OpenType
text-shaping engine: given a run of characters, a font face, and
segment properties (script, direction, language) plus optional feature
overrides, it decides how the face's layout tables should be applied
and then executes that decision, turning characters into positioned
glyphs.

The package API is centered around [NewShapePlan] and [Shape]:
  - callers compile a [ShapePlan] once per (face, segment, features)
    combination,
  - the plan is immutable and may be shared across concurrent shaping
    calls,
  - [Shape] drives a caller-owned [Buffer] through the fixed-order
    shaping pipeline (normalization, mask setup, substitution,
    positioning, cleanup), mutating it in place.

Low-level concerns are collaborator contracts, not implementations:
the [Face] interface answers capability and metric queries, and the
optional [LayoutApplier], [AATApplier], [KernApplier] and
[FallbackApplier] interfaces supply the actual lookup interpreters.
Any missing capability degrades softly; only plan compilation can
fail.

Script-specific behavior plugs in through [ShapingEngine] and the hook
interfaces defined in engine.go. Engines register themselves in a
global registry; exactly one engine is selected per plan, never
re-dispatched per glyph.

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package otshaper

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer returns a trace sink for the otshaper package namespace.
func tracer() tracing.Trace {
	return tracing.Select("otshaper")
}

// errShaper wraps a message as a user-facing shaping error.
func errShaper(x string) error {
	return fmt.Errorf("OpenType text shaping: %s", x)
}

// assert panics when condition is false.
func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
