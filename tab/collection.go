// Package tab tracks the terminal tabs of the panel: the ordered strip of
// split groups, the panes inside each group and which ones are active.
package tab

import (
	"context"

	"pkt.systems/pslog"
)

// TabID identifies a tab. A tab is a split group, so they share ids.
type TabID = SplitID

// PruneResult describes what PruneEmpty removed.
type PruneResult struct {
	Removed       []TabID
	ActiveRemoved bool
	Empty         bool
}

// Collection is the ordered set of tabs. It is used from the UI goroutine
// only.
type Collection struct {
	order  []TabID
	tabs   map[TabID]*SplitGroup
	active int
	lastID SplitID
	ops    int
	log    pslog.Logger
}

// NewCollection creates an empty collection.
func NewCollection(logger pslog.Logger) *Collection {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Collection{
		tabs: make(map[TabID]*SplitGroup),
		log:  logger,
	}
}

// OpenTab appends a new empty tab and returns its id. It does not select it.
func (c *Collection) OpenTab() TabID {
	c.lastID++
	id := c.lastID
	c.order = append(c.order, id)
	c.tabs[id] = newSplitGroup(id, c.log)
	c.log.Debug("tab opened", "tab", id, "tabs", len(c.order))
	return id
}

// CloseTab tears down every pane of the tab. The emptied tab is removed by
// the next PruneEmpty. Stale ids return false.
func (c *Collection) CloseTab(id TabID) bool {
	g, ok := c.tabs[id]
	if !ok {
		return false
	}
	g.closeAll()
	c.log.Debug("tab closed", "tab", id)
	return true
}

// PruneEmpty removes every tab without panes. The removable slots of the
// order are overwritten with one of the removed ids in a single pass, then
// the order is rebuilt without that sentinel, so the cost is linear in the
// number of tabs.
func (c *Collection) PruneEmpty() PruneResult {
	var removed []TabID
	for _, id := range c.order {
		c.ops++
		if c.tabs[id].IsEmpty() {
			removed = append(removed, id)
		}
	}
	if len(removed) == 0 {
		return PruneResult{Empty: len(c.order) == 0}
	}

	var activeID TabID
	if c.active < len(c.order) {
		activeID = c.order[c.active]
	}

	sentinel := removed[0]
	for i, id := range c.order {
		c.ops++
		if c.tabs[id].IsEmpty() {
			c.order[i] = sentinel
		}
	}
	for _, id := range removed {
		c.ops++
		delete(c.tabs, id)
	}

	next := make([]TabID, 0, len(c.order)-len(removed))
	newActive := -1
	for _, id := range c.order {
		c.ops++
		if id == sentinel {
			continue
		}
		if id == activeID {
			newActive = len(next)
		}
		next = append(next, id)
	}
	c.order = next

	res := PruneResult{Removed: removed, Empty: len(next) == 0}
	switch {
	case res.Empty:
		c.active = 0
		res.ActiveRemoved = true
	case newActive < 0:
		c.active = min(c.active, len(next)-1)
		res.ActiveRemoved = true
	default:
		c.active = newActive
	}
	c.log.Debug("tabs pruned", "removed", len(removed), "tabs", len(next), "active_removed", res.ActiveRemoved)
	return res
}

// PruneOps is the number of slot visits and map deletes done by PruneEmpty
// so far.
func (c *Collection) PruneOps() int { return c.ops }

// RemoveExited removes the panes whose session has exited and returns their
// ids. Emptied tabs are left for PruneEmpty.
func (c *Collection) RemoveExited() []PaneID {
	var gone []PaneID
	for _, id := range c.order {
		g := c.tabs[id]
		for _, p := range g.Panes() {
			if p.session.Exited() {
				g.RemovePane(p.id)
				gone = append(gone, p.id)
			}
		}
	}
	if len(gone) > 0 {
		c.log.Debug("exited panes removed", "panes", len(gone))
	}
	return gone
}

// SelectTab makes the tab at index active, clamping the index.
func (c *Collection) SelectTab(index int) {
	if len(c.order) == 0 {
		c.active = 0
		return
	}
	c.active = min(max(index, 0), len(c.order)-1)
}

// SelectID makes the tab with the given id active.
func (c *Collection) SelectID(id TabID) bool {
	for i, v := range c.order {
		if v == id {
			c.active = i
			return true
		}
	}
	return false
}

// NextTab switches to the next tab
func (c *Collection) NextTab() {
	if len(c.order) > 1 {
		c.active = (c.active + 1) % len(c.order)
	}
}

// PrevTab switches to the previous tab
func (c *Collection) PrevTab() {
	if len(c.order) > 1 {
		c.active = (c.active - 1 + len(c.order)) % len(c.order)
	}
}

// ActiveSplit returns the active tab, or nil when there are none.
func (c *Collection) ActiveSplit() *SplitGroup {
	if len(c.order) == 0 {
		return nil
	}
	return c.tabs[c.order[c.active]]
}

// ActivePane returns the active pane of the active tab.
func (c *Collection) ActivePane() *Pane {
	if g := c.ActiveSplit(); g != nil {
		return g.ActivePane()
	}
	return nil
}

// Split looks a tab up by id.
func (c *Collection) Split(id TabID) (*SplitGroup, bool) {
	g, ok := c.tabs[id]
	return g, ok
}

// FindPane returns the pane and the tab holding it.
func (c *Collection) FindPane(id PaneID) (*Pane, *SplitGroup, bool) {
	for _, tid := range c.order {
		g := c.tabs[tid]
		if p, ok := g.Pane(id); ok {
			return p, g, true
		}
	}
	return nil, nil, false
}

// Order returns a copy of the tab ids left to right.
func (c *Collection) Order() []TabID {
	out := make([]TabID, len(c.order))
	copy(out, c.order)
	return out
}

func (c *Collection) Len() int         { return len(c.order) }
func (c *Collection) ActiveIndex() int { return c.active }

// Titles returns the tab titles left to right.
func (c *Collection) Titles() []string {
	titles := make([]string, len(c.order))
	for i, id := range c.order {
		titles[i] = c.tabs[id].Title()
	}
	return titles
}

// CloseAll tears down every pane and forgets every tab.
func (c *Collection) CloseAll() {
	for _, id := range c.order {
		c.tabs[id].closeAll()
		delete(c.tabs, id)
	}
	c.order = nil
	c.active = 0
}
