package tab

import (
	"context"

	"github.com/javanhut/RavenPanel/render"
	"pkt.systems/pslog"
)

// MaxPanes caps the panes in one split group.
const MaxPanes = 16

// SplitID identifies a split group.
type SplitID uint64

// SplitDirection indicates how a node is split
type SplitDirection int

const (
	SplitVertical   SplitDirection = iota // Children arranged left to right
	SplitHorizontal                       // Children arranged top to bottom
)

// node is a leaf holding a pane or a container dividing its area equally
// between its children.
type node struct {
	pane     *Pane
	dir      SplitDirection
	children []*node
	parent   *node
}

func (n *node) isLeaf() bool { return n.pane != nil }

func (n *node) firstLeaf() *node {
	for !n.isLeaf() {
		if len(n.children) == 0 {
			return nil
		}
		n = n.children[0]
	}
	return n
}

func (n *node) leaves(out []*node) []*node {
	if n == nil {
		return out
	}
	if n.isLeaf() {
		return append(out, n)
	}
	for _, child := range n.children {
		out = child.leaves(out)
	}
	return out
}

// PaneLayout is the pixel rectangle assigned to a pane.
type PaneLayout struct {
	Pane *Pane
	Rect render.Rect
}

// SplitGroup is one tab: a tree of panes with one of them active.
type SplitGroup struct {
	id     SplitID
	panes  map[PaneID]*Pane
	root   *node
	active PaneID
	log    pslog.Logger
}

func newSplitGroup(id SplitID, logger pslog.Logger) *SplitGroup {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &SplitGroup{id: id, panes: make(map[PaneID]*Pane), log: logger}
}

func (g *SplitGroup) ID() SplitID { return g.id }

// IsEmpty reports whether the group has no panes.
func (g *SplitGroup) IsEmpty() bool { return len(g.panes) == 0 }

func (g *SplitGroup) Len() int { return len(g.panes) }

// AddPane places p in the group. The first pane becomes the root; later
// panes split the active pane side by side. The new pane becomes active.
func (g *SplitGroup) AddPane(p *Pane) bool {
	if g.root == nil {
		g.adopt(p)
		g.root = &node{pane: p}
		g.active = p.id
		return true
	}
	return g.SplitPane(g.active, p, SplitVertical)
}

// SplitPane splits the pane target in direction dir, placing p after it.
// It returns false for a stale target or when the group is full.
func (g *SplitGroup) SplitPane(target PaneID, p *Pane, dir SplitDirection) bool {
	if len(g.panes) >= MaxPanes {
		return false
	}
	leaf := g.find(target)
	if leaf == nil {
		return false
	}
	g.adopt(p)

	// the leaf becomes a container holding the old pane and the new one
	existing := &node{pane: leaf.pane, parent: leaf}
	added := &node{pane: p, parent: leaf}
	leaf.pane = nil
	leaf.dir = dir
	leaf.children = []*node{existing, added}

	g.active = p.id
	return true
}

func (g *SplitGroup) adopt(p *Pane) {
	p.split = g.id
	g.panes[p.id] = p
}

func (g *SplitGroup) find(id PaneID) *node {
	if _, ok := g.panes[id]; !ok {
		return nil
	}
	for _, leaf := range g.root.leaves(nil) {
		if leaf.pane.id == id {
			return leaf
		}
	}
	return nil
}

// RemovePane tears down the pane and collapses its place in the layout.
// When it was active, the first pane of its sibling subtree becomes active.
func (g *SplitGroup) RemovePane(id PaneID) bool {
	leaf := g.find(id)
	if leaf == nil {
		return false
	}
	p := leaf.pane
	if err := p.close(); err != nil {
		g.log.Warn("pane close failed", "tab", g.id, "pane", id, "err", err)
	}
	delete(g.panes, id)

	parent := leaf.parent
	if parent == nil {
		g.root = nil
		g.active = 0
		return true
	}

	idx := 0
	for i, child := range parent.children {
		if child == leaf {
			idx = i
			break
		}
	}
	parent.children = append(parent.children[:idx], parent.children[idx+1:]...)
	sibling := parent.children[min(idx, len(parent.children)-1)]

	if len(parent.children) == 1 {
		// Replace parent with its only child
		only := parent.children[0]
		only.parent = parent.parent
		if parent.parent == nil {
			g.root = only
		} else {
			for i, child := range parent.parent.children {
				if child == parent {
					parent.parent.children[i] = only
					break
				}
			}
		}
		sibling = only
	}

	if g.active == id {
		if first := sibling.firstLeaf(); first != nil {
			g.active = first.pane.id
		}
	}
	return true
}

// closeAll tears down every pane.
func (g *SplitGroup) closeAll() {
	for _, p := range g.Panes() {
		g.RemovePane(p.id)
	}
}

// ActivePane returns the active pane, or nil when the group is empty.
func (g *SplitGroup) ActivePane() *Pane {
	return g.panes[g.active]
}

// SetActive makes id the active pane; stale ids are ignored.
func (g *SplitGroup) SetActive(id PaneID) bool {
	if _, ok := g.panes[id]; !ok {
		return false
	}
	g.active = id
	return true
}

// Pane looks a pane up by id.
func (g *SplitGroup) Pane(id PaneID) (*Pane, bool) {
	p, ok := g.panes[id]
	return p, ok
}

// Panes returns the panes in layout order.
func (g *SplitGroup) Panes() []*Pane {
	leaves := g.root.leaves(nil)
	panes := make([]*Pane, 0, len(leaves))
	for _, leaf := range leaves {
		panes = append(panes, leaf.pane)
	}
	return panes
}

// NextPane switches to the next pane
func (g *SplitGroup) NextPane() { g.cycle(1) }

// PrevPane switches to the previous pane
func (g *SplitGroup) PrevPane() { g.cycle(-1) }

func (g *SplitGroup) cycle(step int) {
	panes := g.Panes()
	if len(panes) <= 1 {
		return
	}
	current := 0
	for i, p := range panes {
		if p.id == g.active {
			current = i
			break
		}
	}
	g.active = panes[(current+step+len(panes))%len(panes)].id
}

// Layouts divides bounds between the panes, splitting each container's area
// equally between its children.
func (g *SplitGroup) Layouts(bounds render.Rect) []PaneLayout {
	var out []PaneLayout
	collectLayouts(g.root, bounds, &out)
	return out
}

func collectLayouts(n *node, r render.Rect, out *[]PaneLayout) {
	if n == nil {
		return
	}
	if n.isLeaf() {
		*out = append(*out, PaneLayout{Pane: n.pane, Rect: r})
		return
	}
	count := float32(len(n.children))
	for i, child := range n.children {
		sub := r
		switch n.dir {
		case SplitVertical:
			sub.W = r.W / count
			sub.X = r.X + float32(i)*sub.W
		case SplitHorizontal:
			sub.H = r.H / count
			sub.Y = r.Y + float32(i)*sub.H
		}
		collectLayouts(child, sub, out)
	}
}

// Resize lays the group out in bounds and resizes every pane to its share.
// The first error is returned after all panes were resized.
func (g *SplitGroup) Resize(bounds render.Rect) error {
	var first error
	for _, l := range g.Layouts(bounds) {
		if err := l.Pane.Resize(l.Rect.W, l.Rect.H); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Title is the title of the active pane.
func (g *SplitGroup) Title() string {
	if p := g.ActivePane(); p != nil {
		return p.Title()
	}
	return ""
}
