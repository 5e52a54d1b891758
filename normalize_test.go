package otshaper

import "testing"

func normalizeRunes(t *testing.T, face Face, text []rune) *Buffer {
	t.Helper()
	plan := mustPlan(t, face, latinProps(), nil)
	buffer := NewBuffer()
	buffer.AddRunes(text, 0)
	buffer.Props = latinProps()
	otShapeNormalize(plan, buffer, face)
	return buffer
}

func codepointsOf(b *Buffer) []rune {
	out := make([]rune, len(b.Info))
	for i := range b.Info {
		out[i] = b.Info[i].Codepoint
	}
	return out
}

func TestNormalizeComposesForPrecomposedGlyph(t *testing.T) {
	face := newTestFace()
	buffer := normalizeRunes(t, face, []rune{'e', 0x0301})

	if got := codepointsOf(buffer); len(got) != 1 || got[0] != 0x00E9 {
		t.Fatalf("got %U, want single U+00E9", got)
	}
}

func TestNormalizeComposedClusterTakesMinimum(t *testing.T) {
	face := newTestFace()
	plan := mustPlan(t, face, latinProps(), nil)
	buffer := NewBuffer()
	buffer.AddRunes([]rune{'e', 0x0301}, 5)
	buffer.Props = latinProps()
	otShapeNormalize(plan, buffer, face)

	if len(buffer.Info) != 1 || buffer.Info[0].Cluster != 5 {
		t.Fatalf("composed cluster = %v", clustersOf(buffer))
	}
}

func TestNormalizeStaysDecomposedWithoutPrecomposedGlyph(t *testing.T) {
	face := newTestFace()
	face.missing = map[rune]bool{0x00E9: true}
	buffer := normalizeRunes(t, face, []rune{'e', 0x0301})

	got := codepointsOf(buffer)
	if len(got) != 2 || got[0] != 'e' || got[1] != 0x0301 {
		t.Fatalf("got %U, want decomposed pair", got)
	}
}

func TestNormalizeDecomposesMissingPrecomposed(t *testing.T) {
	face := newTestFace()
	face.missing = map[rune]bool{0x00E9: true}
	buffer := normalizeRunes(t, face, []rune{0x00E9})

	got := codepointsOf(buffer)
	if len(got) != 2 || got[0] != 'e' || got[1] != 0x0301 {
		t.Fatalf("got %U, want e + combining acute", got)
	}
}

func TestNormalizeKeepsPrecomposedWhenMarkMissing(t *testing.T) {
	face := newTestFace()
	face.missing = map[rune]bool{0x0301: true}
	buffer := normalizeRunes(t, face, []rune{0x00E9})

	if got := codepointsOf(buffer); len(got) != 1 || got[0] != 0x00E9 {
		t.Fatalf("got %U, want untouched U+00E9", got)
	}
}

func TestNormalizeReordersMarksByCombiningClass(t *testing.T) {
	face := newTestFace()
	face.missing = map[rune]bool{0x00E1: true} // keep the sequence decomposed

	// Above mark (ccc 230) before below mark (ccc 220); canonical order
	// is the other way around.
	buffer := normalizeRunes(t, face, []rune{'a', 0x0301, 0x0316})

	got := codepointsOf(buffer)
	if len(got) != 3 || got[1] != 0x0316 || got[2] != 0x0301 {
		t.Fatalf("got %U, want below mark reordered before above mark", got)
	}
}

func TestNormalizeBlockedMarkDoesNotCompose(t *testing.T) {
	face := newTestFace()

	// Two above marks: the second is blocked by the first (equal class),
	// so only the first composes with the base.
	buffer := normalizeRunes(t, face, []rune{'e', 0x0301, 0x0300})

	got := codepointsOf(buffer)
	if len(got) != 2 || got[0] != 0x00E9 || got[1] != 0x0300 {
		t.Fatalf("got %U, want U+00E9 + blocked grave", got)
	}
}

func TestNormalizeComposesHangulJamo(t *testing.T) {
	face := newTestFace()

	// L+V are both starters (ccc 0); they still compose because the
	// second directly follows the first in the output.
	buffer := normalizeRunes(t, face, []rune{0x1100, 0x1161})
	if got := codepointsOf(buffer); len(got) != 1 || got[0] != 0xAC00 {
		t.Fatalf("got %U, want single U+AC00", got)
	}

	// The trailing consonant composes onto the freshly built LV syllable.
	buffer = normalizeRunes(t, face, []rune{0x1100, 0x1161, 0x11A8})
	if got := codepointsOf(buffer); len(got) != 1 || got[0] != 0xAC01 {
		t.Fatalf("got %U, want single U+AC01", got)
	}
}

func TestNormalizeEmptyBuffer(t *testing.T) {
	face := newTestFace()
	buffer := normalizeRunes(t, face, nil)
	if len(buffer.Info) != 0 {
		t.Fatal("empty buffer changed")
	}
}
