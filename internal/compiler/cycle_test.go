package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/avrconf/internal/ir"
)

// entry is a compact constructor for test entries; seq follows call order
// within a slice built by entries().
func entry(kind ir.Kind, id, parent string, attrs ...ir.Attribute) ir.ConfigEntry {
	return ir.ConfigEntry{
		Kind:       kind,
		ID:         id,
		ParentID:   parent,
		Attributes: ir.NewAttributes(attrs...),
		Pos:        ir.Pos{Line: 1, Column: 1},
	}
}

func entries(es ...ir.ConfigEntry) []ir.ConfigEntry {
	for i := range es {
		es[i].Seq = i
		es[i].Pos = ir.Pos{Line: i + 1, Column: 1}
	}
	return es
}

func attr(name string, v ir.Value) ir.Attribute {
	return ir.Attribute{Name: name, Value: v}
}

// TestAnalyzeCycles_Empty tests that empty input produces no reports.
func TestAnalyzeCycles_Empty(t *testing.T) {
	assert.Empty(t, AnalyzeCycles(nil))
}

// TestAnalyzeCycles_Chain tests that a linear inheritance chain is acyclic.
func TestAnalyzeCycles_Chain(t *testing.T) {
	es := entries(
		entry(ir.KindPart, "base", ""),
		entry(ir.KindPart, "mid", "base"),
		entry(ir.KindPart, "leaf", "mid"),
	)
	assert.Empty(t, AnalyzeCycles(es))
}

// TestAnalyzeCycles_SelfLoop tests detection of an entry naming itself.
func TestAnalyzeCycles_SelfLoop(t *testing.T) {
	es := entries(entry(ir.KindProgrammer, "loop", "loop"))

	reports := AnalyzeCycles(es)
	require.Len(t, reports, 1)
	assert.Equal(t, ir.KindProgrammer, reports[0].Kind)
	assert.Equal(t, []string{"loop", "loop"}, reports[0].Chain)
}

// TestAnalyzeCycles_TwoNodeCycle tests detection of A → B → A.
func TestAnalyzeCycles_TwoNodeCycle(t *testing.T) {
	es := entries(
		entry(ir.KindPart, "a", "b"),
		entry(ir.KindPart, "b", "a"),
	)

	reports := AnalyzeCycles(es)
	require.Len(t, reports, 1)
	assert.Equal(t, []string{"a", "b", "a"}, reports[0].Chain)
}

// TestAnalyzeCycles_ThreeNodeCycle tests the chain starts at the earliest
// declared member regardless of where the walk would enter it.
func TestAnalyzeCycles_ThreeNodeCycle(t *testing.T) {
	es := entries(
		entry(ir.KindPart, "x", "z"),
		entry(ir.KindPart, "y", "x"),
		entry(ir.KindPart, "z", "y"),
	)

	reports := AnalyzeCycles(es)
	require.Len(t, reports, 1)
	assert.Equal(t, []string{"x", "z", "y", "x"}, reports[0].Chain)
}

// TestAnalyzeCycles_TailIntoCycle tests that entries hanging off a cycle are
// not themselves reported.
func TestAnalyzeCycles_TailIntoCycle(t *testing.T) {
	es := entries(
		entry(ir.KindPart, "tail", "a"),
		entry(ir.KindPart, "a", "b"),
		entry(ir.KindPart, "b", "a"),
	)

	reports := AnalyzeCycles(es)
	require.Len(t, reports, 1)
	assert.Equal(t, []string{"a", "b", "a"}, reports[0].Chain)
}

// TestAnalyzeCycles_NamespacesAreSeparate tests that a programmer and a part
// sharing ids never form a cycle together.
func TestAnalyzeCycles_NamespacesAreSeparate(t *testing.T) {
	es := entries(
		entry(ir.KindProgrammer, "a", "b"),
		entry(ir.KindPart, "b", "a"),
	)
	assert.Empty(t, AnalyzeCycles(es))
}

// TestAnalyzeCycles_MultipleCycles tests ordering: programmers first, then
// by earliest member.
func TestAnalyzeCycles_MultipleCycles(t *testing.T) {
	es := entries(
		entry(ir.KindPart, "p2", "p2"),
		entry(ir.KindPart, "p0", "p1"),
		entry(ir.KindPart, "p1", "p0"),
		entry(ir.KindProgrammer, "g", "g"),
	)

	reports := AnalyzeCycles(es)
	require.Len(t, reports, 3)
	assert.Equal(t, ir.KindProgrammer, reports[0].Kind)
	assert.Equal(t, []string{"g", "g"}, reports[0].Chain)
	assert.Equal(t, []string{"p2", "p2"}, reports[1].Chain)
	assert.Equal(t, []string{"p0", "p1", "p0"}, reports[2].Chain)
}

// TestAnalyzeCycles_UnknownParentIgnored tests that dangling parent
// references are left to the unknown-parent check.
func TestAnalyzeCycles_UnknownParentIgnored(t *testing.T) {
	es := entries(entry(ir.KindPart, "a", "missing"))
	assert.Empty(t, AnalyzeCycles(es))
}

// TestTarjanSCC_Deterministic tests SCC ordering over a fixed graph.
func TestTarjanSCC_Deterministic(t *testing.T) {
	graph := dependencyGraph{
		{1},
		{0},
		{},
		{3},
	}
	sccs := tarjanSCC(graph)
	assert.Equal(t, [][]int{{0, 1}, {2}, {3}}, sccs)
}

// TestReconstructCyclePath tests path reconstruction from an SCC.
func TestReconstructCyclePath(t *testing.T) {
	graph := dependencyGraph{{2}, {0}, {1}}
	assert.Equal(t, []int{0, 2, 1, 0}, reconstructCyclePath([]int{0, 1, 2}, graph))
	assert.Nil(t, reconstructCyclePath(nil, graph))
}
