// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ast

import (
	"fmt"
	"io"
	"strings"
)

// ExportDOT writes the graph in DOT form for debugging. Nodes are
// labelled `{name}[{id}]`; non-default edge tags are annotated.
func (g *Graph) ExportDOT(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "digraph ast {"); err != nil {
		return err
	}
	var werr error
	emit := func(format string, args ...any) {
		if werr == nil {
			_, werr = fmt.Fprintf(w, format, args...)
		}
	}
	g.DFS(func(id NodeID, side VisitSide) {
		if side == Exiting {
			return
		}
		node := g.MustGet(id)
		emit("    n%s [label=%q]\n", id, nodeLabel(node))
		for _, e := range g.edgesOf(id) {
			if e.tag == TagDefault {
				emit("    n%s -> n%s\n", id, e.id)
			} else {
				emit("    n%s -> n%s [label=\"Tag = %s\"]\n", id, e.id, e.tag)
			}
		}
	})
	emit("}\n")
	return werr
}

// ExportDOTString is ExportDOT into a string.
func (g *Graph) ExportDOTString() string {
	var sb strings.Builder
	_ = g.ExportDOT(&sb)
	return sb.String()
}

func nodeLabel(n Node) string {
	name := n.Kind().String()
	switch v := n.(type) {
	case *ModDecl:
		name += " " + v.Name.String()
	case *StructDecl:
		name += " " + v.Name.String()
	case *EnumDecl:
		name += " " + v.Name.String()
	case *TyName:
		name += " " + v.Name.String()
	case *TyParam:
		name += " " + v.Name.String()
	case *NonTyParam:
		name += " " + v.Name.String()
	case *VarDecl:
		name += " " + v.Name.String()
	case *BodyFnDecl:
		name += " " + v.Name.String()
	case *AbstFnDecl:
		name += " " + v.Name.String()
	case *Ref:
		name += " " + v.Context.String() + v.Name.String()
	case *NumLit:
		name += " " + v.Value.String()
	case *CharLit:
		name += " " + v.Value.String()
	case *StrLit:
		name += " " + v.Value.String()
	case *BinExpr:
		name += " " + v.Op.String()
	case *UnExpr:
		name += " " + v.Op.String()
	}
	return fmt.Sprintf("%s[%s]", name, n.ID())
}
