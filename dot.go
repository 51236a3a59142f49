// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package crocopat

import (
	"bufio"
	"fmt"
	"io"
)

const (
	dotEdgeStyle = ` [arrowsize="1.0",fontname="Helvetica",fontsize="8",`
	dotNodeStyle = ` [fontname="Helvetica",fontsize="16",height="0.3",width="0.5",color=black,style=unfilled,`
)

// varLabels maps the first variable of the block of each attribute in free to
// its name.
func (r *Relation) varLabels(free []string) map[int]string {
	order, err := r.env.sym.VariableOrder(free)
	if err != nil {
		r.env.fatal(err)
	}
	res := make(map[int]string, len(order))
	for _, a := range order {
		res[r.env.pos(a)] = a
	}
	return res
}

// label returns the name of variable v, in the form attr_bit.
func (r *Relation) label(v int, names map[int]string) string {
	bitnr := r.env.sym.BitNr()
	first := (v / bitnr) * bitnr
	name, ok := names[first]
	if !ok {
		if name, ok = r.env.sym.attributeAt(v); !ok {
			name = "?"
		}
	}
	return fmt.Sprintf("%s_%d", name, v-first)
}

// WriteDot writes the BDD of r in the DOT language. Nodes testing the same
// variable have the same rank and are labeled with the name of their
// attribute, taken from free, and the bit they test. Low edges are dotted and
// high edges are solid.
func (r *Relation) WriteDot(w io.Writer, free []string) error {
	names := r.varLabels(free)
	g := r.env.engine.Graph(r.root)
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "digraph BDD {\nsize=\"7.5,10\";\n\n")
	for k, n := range g.Nodes {
		switch {
		case k == 0:
			fmt.Fprintf(bw, "{ rank=same;\n")
		case n.Var != g.Nodes[k-1].Var:
			fmt.Fprintf(bw, "}\n\n{ rank=same;\n")
		}
		fmt.Fprintf(bw, "%d%slabel=%q];\n", n.ID, dotNodeStyle, r.label(n.Var, names))
	}
	if len(g.Nodes) > 0 {
		fmt.Fprintf(bw, "}\n\n")
	}
	fmt.Fprintf(bw, "\n{ rank=same;\n")
	if g.One {
		fmt.Fprintf(bw, "1%sshape=box,label=\"1\"];\n\n", dotNodeStyle)
	}
	if g.Zero {
		fmt.Fprintf(bw, "0%sshape=box,label=\"0\"];\n\n", dotNodeStyle)
	}
	fmt.Fprintf(bw, "}\n\n\n")
	for _, n := range g.Nodes {
		fmt.Fprintf(bw, "%d -> %d%slabel=\"0\",style=dotted]\n", n.ID, n.Low, dotEdgeStyle)
		fmt.Fprintf(bw, "%d -> %d%slabel=\"1\",style=solid]\n\n", n.ID, n.High, dotEdgeStyle)
	}
	fmt.Fprintf(bw, "}\n")
	return bw.Flush()
}

// WriteNodesPerVar writes, for each variable of the attributes in free, a
// line with its label and index followed by a line with the number of nodes
// of r testing it. It writes a single 0 when r has no inner node.
func (r *Relation) WriteNodesPerVar(w io.Writer, free []string) error {
	names := r.varLabels(free)
	count := r.env.engine.NodesPerVar(r.root)
	bw := bufio.NewWriter(w)
	if len(names) == 0 || len(count) == 0 {
		fmt.Fprintln(bw, 0)
		return bw.Flush()
	}
	first, last := -1, -1
	for p := range names {
		if first < 0 || p < first {
			first = p
		}
		if p > last {
			last = p
		}
	}
	bitnr := r.env.sym.BitNr()
	for v := first; v < last+bitnr; v++ {
		if _, ok := names[(v/bitnr)*bitnr]; ok {
			fmt.Fprintf(bw, "%s(%d)\n", r.label(v, names), v)
		}
		fmt.Fprintln(bw, count[v])
	}
	return bw.Flush()
}

// WriteBDDInfo writes the number of nodes of r and the share of free nodes
// in the engine.
func (r *Relation) WriteBDDInfo(w io.Writer) error {
	e := r.env.engine
	free, max := e.FreeNodeCount(), e.Capacity()
	_, err := fmt.Fprintf(w, "Number of BDD nodes: %d\nPercentage of free nodes in BDD package: %d / %d = %d %%\n",
		e.NodeCount(r.root), free, max, free*100/max)
	return err
}
