package coordination

import (
	"sort"
	"sync"

	"github.com/zakellyputra/contractpilot/model"
)

// Snapshot is the coordinator state consumers render from. All views read
// the same snapshot; none keeps a private copy of the active id.
type Snapshot struct {
	ActiveClauseID string   `json:"activeClauseId"`
	Sticky         bool     `json:"sticky"`
	ScrollTo       string   `json:"scrollTo,omitempty"`
	ExpandedGroups []string `json:"expandedGroups"`
}

// Coordinator is the single source of truth for which clause is active.
// Hover sets a transient selection, click a sticky one; a click on a
// sub-clause also records a navigation-list scroll target and forces its
// parent group open. Ids that are not in the current clause set resolve
// to "no selection" so stale state after a data refresh never surfaces.
type Coordinator struct {
	mu       sync.Mutex
	known    map[string]struct{}
	groups   []Group
	active   string
	sticky   bool
	scrollTo string
	expanded map[string]bool
	subs     map[int]func(Snapshot)
	nextSub  int
}

// NewCoordinator builds a coordinator over the given clause set. Groups
// default to collapsed.
func NewCoordinator(clauses []model.Clause) *Coordinator {
	c := &Coordinator{
		expanded: make(map[string]bool),
		subs:     make(map[int]func(Snapshot)),
	}
	c.index(clauses)
	return c
}

// index rebuilds the clause id set and group hierarchy. Caller holds no
// lock for NewCoordinator; Reload locks.
func (c *Coordinator) index(clauses []model.Clause) {
	c.known = make(map[string]struct{}, len(clauses))
	for i := range clauses {
		c.known[clauses[i].ID] = struct{}{}
	}
	c.groups = BuildGroups(clauses)
}

// Reload replaces the clause set, e.g. after the pipeline delivers more
// clauses. A selection pointing at a clause that no longer exists resets
// to no selection; expanded state for vanished groups is dropped.
func (c *Coordinator) Reload(clauses []model.Clause) {
	c.mu.Lock()
	c.index(clauses)
	if _, ok := c.known[c.active]; !ok {
		c.active = ""
		c.sticky = false
	}
	if _, ok := c.known[c.scrollTo]; !ok {
		c.scrollTo = ""
	}
	groupIDs := make(map[string]struct{}, len(c.groups))
	for i := range c.groups {
		groupIDs[c.groups[i].ID] = struct{}{}
	}
	for id := range c.expanded {
		if _, ok := groupIDs[id]; !ok {
			delete(c.expanded, id)
		}
	}
	c.notifyLocked()
}

// Hover marks a clause active while the pointer is over it. Hovering
// supersedes a sticky click selection.
func (c *Coordinator) Hover(id string) {
	c.mu.Lock()
	if _, ok := c.known[id]; ok {
		c.active = id
	} else {
		c.active = ""
	}
	c.sticky = false
	c.notifyLocked()
}

// HoverEnd clears a hover selection. A sticky click selection survives
// the pointer leaving.
func (c *Coordinator) HoverEnd() {
	c.mu.Lock()
	if !c.sticky {
		c.active = ""
	}
	c.notifyLocked()
}

// Click selects a clause stickily, records it as the navigation-list
// scroll target, and expands the group it belongs to so a sub-clause card
// is visible.
func (c *Coordinator) Click(id string) {
	c.mu.Lock()
	if _, ok := c.known[id]; !ok {
		c.active = ""
		c.sticky = false
		c.notifyLocked()
		return
	}
	c.active = id
	c.sticky = true
	c.scrollTo = id
	if groupID, ok := GroupOf(c.groups, id); ok {
		c.expanded[groupID] = true
	}
	c.notifyLocked()
}

// ToggleGroup flips a group's expanded/collapsed state.
func (c *Coordinator) ToggleGroup(groupID string) {
	c.mu.Lock()
	c.expanded[groupID] = !c.expanded[groupID]
	c.notifyLocked()
}

// Active returns the currently active clause id, or "" when nothing is
// selected.
func (c *Coordinator) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Snapshot returns the state all views render from.
func (c *Coordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Coordinator) snapshotLocked() Snapshot {
	expanded := make([]string, 0, len(c.expanded))
	for id, open := range c.expanded {
		if open {
			expanded = append(expanded, id)
		}
	}
	sort.Strings(expanded)
	return Snapshot{
		ActiveClauseID: c.active,
		Sticky:         c.sticky,
		ScrollTo:       c.scrollTo,
		ExpandedGroups: expanded,
	}
}

// Subscribe registers a view callback invoked after every state change.
// The returned function unsubscribes.
func (c *Coordinator) Subscribe(fn func(Snapshot)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// notifyLocked snapshots under the lock, releases it, then fans out to
// subscribers so callbacks may call back into the coordinator.
func (c *Coordinator) notifyLocked() {
	snap := c.snapshotLocked()
	fns := make([]func(Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
