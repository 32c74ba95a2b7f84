package compiler

import (
	"slices"

	"github.com/roach88/avrconf/internal/ir"
)

// CycleReport describes one inheritance cycle.
type CycleReport struct {
	Kind  ir.Kind
	Chain []string // ["a", "b", "a"]; a self-reference is ["a", "a"]
}

// AnalyzeCycles performs static cycle analysis on parent references.
//
// It builds one dependency graph per namespace over entry indices and uses
// Tarjan's algorithm to find strongly connected components. Every component
// with more than one member, or a single member that names itself as parent,
// is a cycle.
//
// Parent references to unknown ids are ignored here; duplicates resolve to
// the first declaration. Reports are ordered by namespace (programmers first)
// and then by the declaration order of the cycle's earliest member, and each
// chain starts at that member.
func AnalyzeCycles(entries []ir.ConfigEntry) []CycleReport {
	var reports []CycleReport
	for _, kind := range []ir.Kind{ir.KindProgrammer, ir.KindPart} {
		ns := newNamespace(entries, kind)
		reports = append(reports, ns.cycles()...)
	}
	return reports
}

// dependencyGraph maps entry index → indices of the entries it inherits from.
// In this format every node has at most one outgoing edge.
type dependencyGraph [][]int

// namespace is the slice of entries of one kind with integer-keyed lookups.
type namespace struct {
	kind    ir.Kind
	entries []ir.ConfigEntry
	byID    map[string]int
	graph   dependencyGraph
}

func newNamespace(all []ir.ConfigEntry, kind ir.Kind) *namespace {
	ns := &namespace{kind: kind, byID: make(map[string]int)}
	for _, e := range all {
		if e.Kind != kind {
			continue
		}
		if _, dup := ns.byID[e.ID]; !dup {
			ns.byID[e.ID] = len(ns.entries)
		}
		ns.entries = append(ns.entries, e)
	}

	ns.graph = make(dependencyGraph, len(ns.entries))
	for i, e := range ns.entries {
		if !e.HasParent() {
			continue
		}
		if p, ok := ns.byID[e.ParentID]; ok {
			ns.graph[i] = append(ns.graph[i], p)
		}
	}
	return ns
}

// parentOf returns the parent index of entry i, or -1.
func (ns *namespace) parentOf(i int) int {
	if len(ns.graph[i]) == 0 {
		return -1
	}
	return ns.graph[i][0]
}

func (ns *namespace) cycles() []CycleReport {
	var reports []CycleReport
	for _, scc := range tarjanSCC(ns.graph) {
		if len(scc) > 1 || hasSelfLoop(scc[0], ns.graph) {
			path := reconstructCyclePath(scc, ns.graph)
			chain := make([]string, len(path))
			for i, idx := range path {
				chain[i] = ns.entries[idx].ID
			}
			reports = append(reports, CycleReport{Kind: ns.kind, Chain: chain})
		}
	}
	return reports
}

// hasSelfLoop checks if a node has an edge to itself.
func hasSelfLoop(node int, graph dependencyGraph) bool {
	return slices.Contains(graph[node], node)
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
//
// Nodes are visited in index (declaration) order and each SCC is returned
// sorted ascending, with SCCs ordered by their smallest member, so the
// result is deterministic.
func tarjanSCC(graph dependencyGraph) [][]int {
	var (
		index   = 0
		stack   []int
		indices = make([]int, len(graph))
		lowlink = make([]int, len(graph))
		onStack = make([]bool, len(graph))
		visited = make([]bool, len(graph))
		sccs    [][]int
	)

	var strongConnect func(int)
	strongConnect = func(v int) {
		indices[v] = index
		lowlink[v] = index
		visited[v] = true
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if !visited[w] {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// If v is a root node, pop the stack and create an SCC
		if lowlink[v] == indices[v] {
			var scc []int
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			slices.Sort(scc)
			sccs = append(sccs, scc)
		}
	}

	for node := range graph {
		if !visited[node] {
			strongConnect(node)
		}
	}

	slices.SortFunc(sccs, func(a, b []int) int { return a[0] - b[0] })
	return sccs
}

// reconstructCyclePath builds a cycle path from an SCC, starting at its
// first member and following edges inside the SCC until it returns.
func reconstructCyclePath(scc []int, graph dependencyGraph) []int {
	if len(scc) == 0 {
		return nil
	}

	inSCC := make(map[int]bool, len(scc))
	for _, node := range scc {
		inSCC[node] = true
	}

	start := scc[0]
	current := start
	path := []int{current}
	seen := map[int]bool{}

	for {
		seen[current] = true

		next := -1
		for _, neighbor := range graph[current] {
			if inSCC[neighbor] && (!seen[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}
		if next < 0 {
			break
		}

		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}

	return path
}
