// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package ast

import (
	"fmt"

	"github.com/playbymail/tern/cerrs"
)

// Tag discriminates the semantic role of a child edge. DFS visits a
// parent's children in ascending tag order, insertion order within a
// tag.
type Tag uint8

const (
	TagLeft Tag = iota
	TagRight
	TagPrimary
	TagSecondary
	TagDefault
)

const tagCount = 5

func (t Tag) String() string {
	switch t {
	case TagLeft:
		return "LEFT"
	case TagRight:
		return "RIGHT"
	case TagPrimary:
		return "PRIMARY"
	case TagSecondary:
		return "SECONDARY"
	case TagDefault:
		return "DEFAULT"
	default:
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
}

// NodeID is an arena key: slot index plus generation. An id is stable
// until its node is removed; a stale id fails the generation check on
// access.
type NodeID struct {
	index uint32
	gen   uint32
}

const rootIndex = ^uint32(0)

// RootID addresses the implicit root above the file node. It has no
// node payload.
var RootID = NodeID{index: rootIndex}

func (id NodeID) IsRoot() bool {
	return id.index == rootIndex
}

func (id NodeID) String() string {
	if id.IsRoot() {
		return "root"
	}
	return fmt.Sprintf("%d", id.index)
}

type edge struct {
	id  NodeID
	tag Tag
}

type slot struct {
	node     Node
	gen      uint32
	occupied bool
	detached bool
	parent   NodeID
	pTag     Tag
	children []edge
}

// Graph is the arena-backed syntax graph for one file. It has a single
// exclusive writer; concurrent readers may iterate children without
// locks once mutation stops.
type Graph struct {
	slots        []slot
	free         []uint32
	rootChildren []edge
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{}
}

// Len returns the number of live nodes.
func (g *Graph) Len() int {
	n := 0
	for i := range g.slots {
		if g.slots[i].occupied {
			n++
		}
	}
	return n
}

func (g *Graph) alloc(node Node) NodeID {
	var index uint32
	if n := len(g.free); n > 0 {
		index = g.free[n-1]
		g.free = g.free[:n-1]
	} else {
		g.slots = append(g.slots, slot{})
		index = uint32(len(g.slots) - 1)
	}
	s := &g.slots[index]
	s.node = node
	s.occupied = true
	s.detached = false
	s.children = nil
	id := NodeID{index: index, gen: s.gen}
	node.setID(id)
	return id
}

func (g *Graph) slotFor(id NodeID) *slot {
	if id.IsRoot() || int(id.index) >= len(g.slots) {
		return nil
	}
	s := &g.slots[id.index]
	if !s.occupied || s.gen != id.gen {
		return nil
	}
	return s
}

// AddChild allocates a new node under parent. The factory receives the
// fresh id so the node can store it back; parent may be RootID.
func (g *Graph) AddChild(parent NodeID, factory func(NodeID) Node, tag Tag) NodeID {
	var pending NodeID
	if n := len(g.free); n > 0 {
		pending = NodeID{index: g.free[n-1], gen: g.slots[g.free[n-1]].gen}
	} else {
		pending = NodeID{index: uint32(len(g.slots))}
	}
	node := factory(pending)
	id := g.alloc(node)
	g.link(parent, id, tag)
	return id
}

// AddNode is AddChild for pre-built nodes.
func (g *Graph) AddNode(parent NodeID, node Node, tag Tag) NodeID {
	id := g.alloc(node)
	g.link(parent, id, tag)
	return id
}

func (g *Graph) link(parent, child NodeID, tag Tag) {
	s := g.slotFor(child)
	s.parent = parent
	s.pTag = tag
	if parent.IsRoot() {
		g.rootChildren = append(g.rootChildren, edge{id: child, tag: tag})
		return
	}
	ps := g.slotFor(parent)
	if ps == nil {
		panic(fmt.Sprintf("ast: link to dead parent %s: %s", parent, cerrs.ErrBadNodeID))
	}
	ps.children = append(ps.children, edge{id: child, tag: tag})
}

func (g *Graph) unlink(id NodeID) Tag {
	s := g.slotFor(id)
	tag := s.pTag
	var edges *[]edge
	if s.parent.IsRoot() {
		edges = &g.rootChildren
	} else {
		edges = &g.slotFor(s.parent).children
	}
	for i, e := range *edges {
		if e.id == id {
			*edges = append((*edges)[:i], (*edges)[i+1:]...)
			break
		}
	}
	return tag
}

// Get returns the node for id, or nothing if the id's generation no
// longer matches.
func (g *Graph) Get(id NodeID) (Node, bool) {
	s := g.slotFor(id)
	if s == nil {
		return nil, false
	}
	return s.node, true
}

// MustGet is Get for callers that hold a live id by construction.
func (g *Graph) MustGet(id NodeID) Node {
	n, ok := g.Get(id)
	if !ok {
		panic(fmt.Sprintf("ast: dead node id %s: %s", id, cerrs.ErrBadNodeID))
	}
	return n
}

// Replace swaps the node stored at id, keeping the id and all edges.
func (g *Graph) Replace(id NodeID, node Node) bool {
	s := g.slotFor(id)
	if s == nil {
		return false
	}
	node.setID(id)
	s.node = node
	return true
}

// ParentOf returns the parent edge target in constant time. The parent
// of a top-level node is RootID.
func (g *Graph) ParentOf(id NodeID) (NodeID, bool) {
	s := g.slotFor(id)
	if s == nil || s.detached {
		return NodeID{}, false
	}
	return s.parent, true
}

// ChildrenOf returns the ids of children with the given tag in the
// order they were attached.
func (g *Graph) ChildrenOf(id NodeID, tag Tag) []NodeID {
	var out []NodeID
	for _, e := range g.edgesOf(id) {
		if e.tag == tag {
			out = append(out, e.id)
		}
	}
	return out
}

// FirstChild returns the first child with the given tag.
func (g *Graph) FirstChild(id NodeID, tag Tag) (NodeID, bool) {
	for _, e := range g.edgesOf(id) {
		if e.tag == tag {
			return e.id, true
		}
	}
	return NodeID{}, false
}

// OrderedChildren returns all children in ascending tag order,
// insertion order within a tag: the DFS visiting order.
func (g *Graph) OrderedChildren(id NodeID) []NodeID {
	edges := g.edgesOf(id)
	if len(edges) == 0 {
		return nil
	}
	out := make([]NodeID, 0, len(edges))
	for tag := Tag(0); tag < tagCount; tag++ {
		for _, e := range edges {
			if e.tag == tag {
				out = append(out, e.id)
			}
		}
	}
	return out
}

func (g *Graph) edgesOf(id NodeID) []edge {
	if id.IsRoot() {
		return g.rootChildren
	}
	s := g.slotFor(id)
	if s == nil {
		return nil
	}
	return s.children
}

// Retag rewrites the tag of parent's child edges from one role to
// another, keeping their relative order.
func (g *Graph) Retag(parent NodeID, from, to Tag) {
	var edges []edge
	if parent.IsRoot() {
		edges = g.rootChildren
	} else {
		s := g.slotFor(parent)
		if s == nil {
			return
		}
		edges = s.children
	}
	for i := range edges {
		if edges[i].tag == from {
			edges[i].tag = to
			if cs := g.slotFor(edges[i].id); cs != nil {
				cs.pTag = to
			}
		}
	}
}

// Remove deletes a node and all of its descendants. Their ids become
// stale.
func (g *Graph) Remove(id NodeID) bool {
	s := g.slotFor(id)
	if s == nil {
		return false
	}
	if !s.detached {
		g.unlink(id)
	}
	g.freeSubtree(id)
	return true
}

func (g *Graph) freeSubtree(id NodeID) {
	s := g.slotFor(id)
	if s == nil {
		return
	}
	for _, e := range s.children {
		g.freeSubtree(e.id)
	}
	s.node = nil
	s.occupied = false
	s.children = nil
	s.gen++
	g.free = append(g.free, id.index)
}

// Detached is a subtree removed from the graph. Its nodes stay in the
// arena with their ids intact until reattached or removed.
type Detached struct {
	Root NodeID
	// Tag is the edge tag that attached the subtree to its old parent.
	Tag Tag
}

// DetachSubtree removes the node and all its descendants as a
// free-standing subgraph, returning the edge tag that attached it.
func (g *Graph) DetachSubtree(id NodeID) (*Detached, error) {
	if id.IsRoot() {
		return nil, cerrs.ErrDetachedRoot
	}
	s := g.slotFor(id)
	if s == nil {
		return nil, cerrs.ErrBadNodeID
	}
	tag := g.unlink(id)
	s.detached = true
	return &Detached{Root: id, Tag: tag}, nil
}

// AttachSubtree attaches a previously detached subtree under parent.
// All ids are preserved.
func (g *Graph) AttachSubtree(parent NodeID, d *Detached, tag Tag) error {
	s := g.slotFor(d.Root)
	if s == nil {
		return cerrs.ErrBadNodeID
	}
	if !s.detached {
		return cerrs.ErrNotDetached
	}
	s.detached = false
	g.link(parent, d.Root, tag)
	return nil
}
