package otshaper

import (
	"math"
	"testing"

	"github.com/go-text/typesetting/language"
)

func TestBufferAddRunesClusters(t *testing.T) {
	b := NewBuffer()
	b.AddRunes([]rune("abc"), 10)

	if b.Len() != 3 {
		t.Fatalf("len = %d, want 3", b.Len())
	}
	for i, inf := range b.Info {
		if inf.Cluster != 10+i {
			t.Errorf("cluster[%d] = %d, want %d", i, inf.Cluster, 10+i)
		}
	}
}

func TestBufferMergeClusters(t *testing.T) {
	b := NewBuffer()
	b.AddRunes([]rune("abcd"), 0)
	b.mergeClusters(1, 3)

	want := []int{0, 1, 1, 3}
	for i, inf := range b.Info {
		if inf.Cluster != want[i] {
			t.Fatalf("clusters = %v, want %v", clustersOf(b), want)
		}
	}
}

func clustersOf(b *Buffer) []int {
	out := make([]int, len(b.Info))
	for i := range b.Info {
		out[i] = b.Info[i].Cluster
	}
	return out
}

func TestBufferReverseClustersKeepsClusterOrder(t *testing.T) {
	b := NewBuffer()
	b.AddRunes([]rune{'a', 'b', 'c', 'd'}, 0)
	// Two clusters: {a,b} and {c,d}.
	b.Info[1].Cluster = 0
	b.Info[3].Cluster = 2

	b.reverseClusters()

	got := []rune{b.Info[0].Codepoint, b.Info[1].Codepoint, b.Info[2].Codepoint, b.Info[3].Codepoint}
	want := []rune{'c', 'd', 'a', 'b'}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %q, want %q", string(got), string(want))
		}
	}
}

func TestBufferSetMasksByClusterRange(t *testing.T) {
	b := NewBuffer()
	b.AddRunes([]rune("abcd"), 0)
	// Glyph order differs from cluster order after a reversal.
	b.Reverse()

	const mask GlyphMask = 0xF0
	b.setMasks(0x30, mask, 1, 3)

	for i := range b.Info {
		inRange := b.Info[i].Cluster >= 1 && b.Info[i].Cluster < 3
		if got := b.Info[i].Mask & mask; (got == 0x30) != inRange {
			t.Fatalf("glyph %d (cluster %d) mask = %#x", i, b.Info[i].Cluster, b.Info[i].Mask)
		}
	}
}

func TestBufferResetMasks(t *testing.T) {
	b := NewBuffer()
	b.AddRunes([]rune("ab"), 0)
	b.Info[0].Mask = 0xFFFF

	b.resetMasks(0x8)
	for i := range b.Info {
		if b.Info[i].Mask != 0x8 {
			t.Fatalf("mask[%d] = %#x, want 0x8", i, b.Info[i].Mask)
		}
	}
}

func TestBufferDeleteGlyphsKeepsClusterCoverage(t *testing.T) {
	b := NewBuffer()
	b.AddRunes([]rune{'a', 'x', 'b'}, 0)

	b.deleteGlyphsInplace(func(gi *GlyphInfo) bool { return gi.Codepoint == 'x' })

	if b.Len() != 2 {
		t.Fatalf("len = %d, want 2", b.Len())
	}
	// The deleted glyph's cluster merged into its left neighbor: the
	// neighbor keeps the smaller value.
	if b.Info[0].Cluster != 0 || b.Info[1].Cluster != 2 {
		t.Fatalf("clusters = %v", clustersOf(b))
	}
}

func TestBufferDeleteLeadingGlyphMergesRight(t *testing.T) {
	b := NewBuffer()
	b.AddRunes([]rune{'x', 'a'}, 0)

	b.deleteGlyphsInplace(func(gi *GlyphInfo) bool { return gi.Codepoint == 'x' })

	if b.Len() != 1 || b.Info[0].Cluster != 0 {
		t.Fatalf("clusters = %v, want leading cluster inherited", clustersOf(b))
	}
}

func TestBufferDeleteGlyphsShiftsPositions(t *testing.T) {
	b := NewBuffer()
	b.AddRunes([]rune{'a', 'x', 'b'}, 0)
	b.Pos = make([]GlyphPos, 3)
	for i := range b.Pos {
		b.Pos[i].XAdvance = b.Info[i].Codepoint
	}

	b.deleteGlyphsInplace(func(gi *GlyphInfo) bool { return gi.Codepoint == 'x' })

	if len(b.Pos) != 2 {
		t.Fatalf("len(Pos) = %d, want 2", len(b.Pos))
	}
	if b.Pos[0].XAdvance != 'a' || b.Pos[1].XAdvance != 'b' {
		t.Fatalf("positions not shifted with glyphs: %+v", b.Pos)
	}
}

func TestBufferBudgets(t *testing.T) {
	b := NewBuffer()
	b.AddRunes([]rune("ab"), 0)
	b.setBudgets()

	if b.maxLen != maxLenMin {
		t.Fatalf("maxLen = %d, want floor %d", b.maxLen, maxLenMin)
	}
	if b.maxOps != maxOpsMin {
		t.Fatalf("maxOps = %d, want floor %d", b.maxOps, maxOpsMin)
	}
	if !b.CheckLen(maxLenMin) || b.CheckLen(maxLenMin+1) {
		t.Fatal("CheckLen boundary wrong")
	}

	b.maxOps = 2
	if !b.ConsumeOps(1) {
		t.Fatal("budget exhausted too early")
	}
	if b.ConsumeOps(1) {
		t.Fatal("budget not exhausted")
	}

	b.resetBudgets()
	if b.maxLen != maxLenDefault || b.maxOps != maxOpsDefault {
		t.Fatal("budgets not restored to defaults")
	}
}

func TestScaleBudgetOverflowKeepsPrevious(t *testing.T) {
	const prev = 12345

	// Largest count that still multiplies safely.
	limit := math.MaxInt / maxLenFactor
	if got := scaleBudget(limit, maxLenFactor, maxLenMin, prev); got != limit*maxLenFactor {
		t.Fatalf("scaleBudget(limit) = %d, want %d", got, limit*maxLenFactor)
	}
	// One past the limit would overflow: the previous budget survives.
	if got := scaleBudget(limit+1, maxLenFactor, maxLenMin, prev); got != prev {
		t.Fatalf("scaleBudget(limit+1) = %d, want previous %d", got, prev)
	}
	// Small counts are floored.
	if got := scaleBudget(2, maxLenFactor, maxLenMin, prev); got != maxLenMin {
		t.Fatalf("scaleBudget(2) = %d, want floor %d", got, maxLenMin)
	}
}

func TestBufferOutputStaging(t *testing.T) {
	b := NewBuffer()
	b.AddRunes([]rune("abc"), 0)
	b.clearOutput()

	b.nextGlyph()
	b.outInfo = append(b.outInfo, GlyphInfo{Codepoint: 'X', Cluster: b.cur(0).Cluster})
	b.idx++ // consumed 'b'
	b.nextGlyph()
	b.swapBuffers()

	got := []rune{b.Info[0].Codepoint, b.Info[1].Codepoint, b.Info[2].Codepoint}
	if string(got) != "aXc" {
		t.Fatalf("staged output = %q, want aXc", string(got))
	}
}

func TestBufferClusterIterator(t *testing.T) {
	b := NewBuffer()
	b.AddRunes([]rune("abcd"), 0)
	b.mergeClusters(0, 2)
	b.mergeClusters(2, 4)

	iter, count := b.clusterIterator()
	var spans [][2]int
	for start, end := iter.next(); start < count; start, end = iter.next() {
		spans = append(spans, [2]int{start, end})
	}
	if len(spans) != 2 || spans[0] != [2]int{0, 2} || spans[1] != [2]int{2, 4} {
		t.Fatalf("spans = %v", spans)
	}
}

func TestBufferFormClusters(t *testing.T) {
	b := NewBuffer()
	b.AddRunes([]rune{'a', 0x0301, 'b'}, 0)
	b.setUnicodeProps()
	b.formClusters()

	if b.Info[0].Cluster != b.Info[1].Cluster {
		t.Fatal("combining mark left its base's cluster")
	}
	if b.Info[2].Cluster == b.Info[0].Cluster {
		t.Fatal("unrelated base merged in")
	}
}

func TestBufferEnsureNativeDirection(t *testing.T) {
	b := NewBuffer()
	b.AddRunes([]rune{0x05D0, 0x05D1}, 0)
	b.Props = SegmentProperties{Script: language.Hebrew, Direction: LeftToRight}

	b.ensureNativeDirection()

	if b.Props.Direction != RightToLeft {
		t.Fatalf("direction = %v, want flipped to RightToLeft", b.Props.Direction)
	}
	if b.Info[0].Codepoint != 0x05D1 {
		t.Fatal("glyphs not reversed into native order")
	}
}
