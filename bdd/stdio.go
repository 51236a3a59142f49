// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"go.uber.org/zap"
)

// Stats returns information about the engine: capacity, number of nodes ever
// produced, free slots, garbage collections and cache usage.
func (e *Engine) Stats() string {
	return e.stats() + "\n" + e.gcstats() + "\n" + e.cacheString()
}

func (e *Engine) stats() string {
	size := len(e.nodes) - 2
	res := fmt.Sprintf("Allocated:  %d\n", size)
	res += fmt.Sprintf("Produced:   %d\n", e.produced)
	r := (float64(e.freenum) / float64(size)) * 100
	res += fmt.Sprintf("Free:       %d  (%.3g %%)\n", e.freenum, r)
	res += fmt.Sprintf("Used:       %d  (%.3g %%)", size-e.freenum, (100.0 - r))
	return res
}

func (e *Engine) gcstats() string {
	res := fmt.Sprintf("# of GC:    %d\n", len(e.history))
	res += fmt.Sprintf("Ext. refs:  %d\n", e.extrefs)
	res += fmt.Sprintf("Handles:    %d\n", e.setfinalizers)
	res += fmt.Sprintf("Reclaimed:  %d", e.calledfinalizers)
	return res
}

// ******************************************************************************************************

// Capacity returns the number of slots of the node table, terminals excluded.
func (e *Engine) Capacity() int {
	return len(e.nodes) - 2
}

// FreeNodeCount returns the number of free slots after a garbage collection.
func (e *Engine) FreeNodeCount() int {
	e.Collect()
	return e.freenum
}

// ExtRefCount returns the number of external references, counting handles on
// the same node separately.
func (e *Engine) ExtRefCount() int {
	e.drainpending()
	return e.extrefs
}

// NodeCount returns the number of inner nodes reachable from n.
func (e *Engine) NodeCount(n *Node) int {
	a := e.checkptr(n, "NodeCount")
	res := e.markcount(a)
	e.unmarkrec(a)
	return res
}

// ReachableNodeCount returns the number of inner nodes reachable from at
// least one external reference. This is the number of nodes that survive a
// garbage collection.
func (e *Engine) ReachableNodeCount() int {
	e.drainpending()
	res := 0
	for n := range e.refs {
		res += e.markcount(n)
	}
	for n := range e.refs {
		e.unmarkrec(n)
	}
	return res
}

// NodesPerVar returns, for each variable tested in n, the number of nodes
// reachable from n that test it.
func (e *Engine) NodesPerVar(n *Node) map[int]int {
	a := e.checkptr(n, "NodesPerVar")
	res := make(map[int]int)
	e.nodesPerVar(a, res)
	e.unmarkrec(a)
	return res
}

func (e *Engine) nodesPerVar(n int, res map[int]int) {
	if n < 2 || e.nodes[n].mark {
		return
	}
	e.nodes[n].mark = true
	res[int(e.nodes[n].level)]++
	e.nodesPerVar(e.nodes[n].low, res)
	e.nodesPerVar(e.nodes[n].high, res)
}

// AnalyseUniqueHash returns the distribution of the length of the bucket
// chains in the unique table: the value for key k is the number of buckets
// holding exactly k nodes.
func (e *Engine) AnalyseUniqueHash() map[int]int {
	res := make(map[int]int)
	for _, head := range e.unique {
		k := 0
		for n := head; n != 0; n = e.nodes[n].next {
			k++
		}
		res[k]++
	}
	return res
}

// ******************************************************************************************************

// GraphNode is an inner node in the export of a diagram.
type GraphNode struct {
	ID   int
	Var  int
	Low  int
	High int
}

// Graph is the export of a diagram. Nodes are sorted by variable and then by
// index. Zero and One tell whether the terminals are reachable from the root.
type Graph struct {
	Root  int
	Nodes []GraphNode
	Zero  bool
	One   bool
}

// Graph returns the nodes reachable from n.
func (e *Engine) Graph(n *Node) Graph {
	a := e.checkptr(n, "Graph")
	res := Graph{Root: a, Zero: a == 0, One: a == 1}
	e.graph(a, &res)
	e.unmarkrec(a)
	sort.Slice(res.Nodes, func(i, j int) bool {
		if res.Nodes[i].Var != res.Nodes[j].Var {
			return res.Nodes[i].Var < res.Nodes[j].Var
		}
		return res.Nodes[i].ID < res.Nodes[j].ID
	})
	return res
}

func (e *Engine) graph(n int, g *Graph) {
	if n < 2 || e.nodes[n].mark {
		return
	}
	e.nodes[n].mark = true
	low, high := e.nodes[n].low, e.nodes[n].high
	g.Nodes = append(g.Nodes, GraphNode{ID: n, Var: int(e.nodes[n].level), Low: low, High: high})
	for _, m := range [2]int{low, high} {
		switch m {
		case 0:
			g.Zero = true
		case 1:
			g.One = true
		default:
			e.graph(m, g)
		}
	}
}

// ******************************************************************************************************

// Fprint writes a textual representation of n, as a tree of the form (low
// var high), where the terminals are written F and T.
func (e *Engine) Fprint(w io.Writer, n *Node) error {
	a := e.checkptr(n, "Fprint")
	bw := bufio.NewWriter(w)
	e.print(bw, a)
	return bw.Flush()
}

func (e *Engine) print(w *bufio.Writer, n int) {
	switch n {
	case 0:
		w.WriteByte('F')
	case 1:
		w.WriteByte('T')
	default:
		w.WriteByte('(')
		e.print(w, e.nodes[n].low)
		fmt.Fprintf(w, " %d ", e.nodes[n].level)
		e.print(w, e.nodes[n].high)
		w.WriteByte(')')
	}
}

// FprintTable writes the nodes reachable from n, one per line, with their
// variable and successors.
func (e *Engine) FprintTable(w io.Writer, n *Node) error {
	g := e.Graph(n)
	tw := tabwriter.NewWriter(w, 0, 0, 0, ' ', 0)
	for _, v := range g.Nodes {
		fmt.Fprintf(tw, "%d\t[%d\t] ? \t%d\t : %d\n", v.ID, v.Var, v.Low, v.High)
	}
	return tw.Flush()
}

// FprintDot writes a graph-like description of n using the DOT format. Nodes
// are labelled with their variable. We do not draw arcs that go to the
// constant false.
func (e *Engine) FprintDot(w io.Writer, n *Node) error {
	g := e.Graph(n)
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "digraph G {")
	if g.One {
		fmt.Fprintln(bw, "1 [shape=box, label=\"1\", style=filled, shape=box, height=0.3, width=0.3];")
	}
	for _, v := range g.Nodes {
		fmt.Fprintf(bw, "%d %s\n", v.ID, dotlabel(v.ID, v.Var))
		if v.Low != 0 {
			fmt.Fprintf(bw, "%d -> %d [style=dotted];\n", v.ID, v.Low)
		}
		if v.High != 0 {
			fmt.Fprintf(bw, "%d -> %d [style=filled];\n", v.ID, v.High)
		}
	}
	fmt.Fprintln(bw, "}")
	return bw.Flush()
}

func dotlabel(a int, b int) string {
	return fmt.Sprintf(`[label=<
	<FONT POINT-SIZE="20">%d</FONT>
	<FONT POINT-SIZE="10">[%d]</FONT>
>];`, b, a)
}

// ******************************************************************************************************

// logTable dumps the node table at debug level. It is only called when the
// package is built with the debug tag.
func (e *Engine) logTable() {
	for k, n := range e.nodes {
		if k > 1 && n.low == -1 {
			continue
		}
		e.log.Debug("node",
			zap.Int("id", k),
			zap.Int32("level", n.level),
			zap.Int("low", n.low),
			zap.Int("high", n.high),
			zap.Int("next", n.next),
			zap.Int("refs", e.refs[k]))
	}
}
