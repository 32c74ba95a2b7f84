package compiler

import (
	"slices"

	"github.com/roach88/avrconf/internal/ir"
)

// resolver merges inherited attributes for one namespace.
//
// Resolution is an explicit walk up the parent chain over entry indices:
// unresolved ancestors are collected until a resolved one (or a root) is
// reached, then merged top-down. Results are memoised per index, so each
// entry is merged exactly once regardless of declaration order.
type resolver struct {
	ns   *namespace
	memo map[int]ir.Attributes
}

func newResolver(ns *namespace) *resolver {
	return &resolver{ns: ns, memo: make(map[int]ir.Attributes, len(ns.entries))}
}

func (r *resolver) resolve(i int) (ir.Attributes, error) {
	if attrs, ok := r.memo[i]; ok {
		return attrs, nil
	}

	var chain []int
	visited := make(map[int]bool)
	for j := i; j >= 0; j = r.ns.parentOf(j) {
		if _, done := r.memo[j]; done {
			break
		}
		if visited[j] {
			return ir.Attributes{}, r.cycleError(append(chain, j))
		}
		visited[j] = true
		chain = append(chain, j)
	}

	for k := len(chain) - 1; k >= 0; k-- {
		j := chain[k]
		var base ir.Attributes
		if p := r.ns.parentOf(j); p >= 0 {
			base = r.memo[p]
		}
		r.memo[j] = overlay(base, r.ns.entries[j].Attributes)
	}
	return r.memo[i], nil
}

// cycleError reports the looping tail of a walk. AnalyzeCycles rejects
// cycles before resolution, so this only fires if the two disagree.
func (r *resolver) cycleError(walk []int) error {
	last := walk[len(walk)-1]
	start := slices.Index(walk, last)
	chain := make([]string, 0, len(walk)-start)
	for _, idx := range walk[start:] {
		chain = append(chain, r.ns.entries[idx].ID)
	}
	return &CyclicInheritanceError{Kind: r.ns.kind, Chain: chain}
}

// overlay applies child attributes on top of resolved parent attributes.
// Child keys win; inherited keys keep the parent's position and new keys are
// appended in child order. Blocks present on both sides merge recursively.
func overlay(base, child ir.Attributes) ir.Attributes {
	items := base.Items()
	pos := make(map[string]int, len(items))
	for i, it := range items {
		pos[it.Name] = i
	}

	for name, v := range child.All() {
		i, inherited := pos[name]
		if !inherited {
			pos[name] = len(items)
			items = append(items, ir.Attribute{Name: name, Value: v})
			continue
		}
		parentBlock, pok := items[i].Value.(ir.Block)
		childBlock, cok := v.(ir.Block)
		if pok && cok {
			items[i].Value = ir.Block{Attrs: overlay(parentBlock.Attrs, childBlock.Attrs)}
			continue
		}
		items[i].Value = v
	}
	return ir.NewAttributes(items...)
}
