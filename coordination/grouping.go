package coordination

import (
	"sort"

	"github.com/google/uuid"
	"github.com/zakellyputra/contractpilot/model"
)

// GroupKind tags the variants of a navigation-list entry.
type GroupKind string

const (
	// KindClause is a group headed by a real top-level clause.
	KindClause GroupKind = "clause"
	// KindOrphanHeader is a synthetic header for sub-clauses whose parent
	// heading was never extracted as a standalone clause.
	KindOrphanHeader GroupKind = "orphan_header"
)

// orphanNamespace seeds the deterministic ids of synthetic group headers.
var orphanNamespace = uuid.MustParse("8c2f1d3a-5b76-4e0e-9a41-d20f6c51b8e7")

// Group is one entry of the resolved clause hierarchy. Clause is set only
// for KindClause; orphan headers carry the heading text and a summary of
// their children instead.
type Group struct {
	Kind        GroupKind      `json:"kind"`
	ID          string         `json:"id"`
	Heading     string         `json:"heading"`
	Clause      *model.Clause  `json:"clause,omitempty"`
	Children    []model.Clause `json:"children,omitempty"`
	HasChildren bool           `json:"hasChildren"`
	ChildCount  int            `json:"childCount"`
	WorstRisk   string         `json:"worstRisk,omitempty"`
}

// OrphanGroupID derives the id of a synthetic group header from its
// heading text. Deterministic: the same heading always yields the same id.
func OrphanGroupID(heading string) string {
	return uuid.NewSHA1(orphanNamespace, []byte(heading)).String()
}

// BuildGroups partitions clauses into top-level groups and their
// sub-clauses. Sub-clauses attach to the first top-level clause whose
// ClauseType equals their ParentHeading, ordered by SubClauseIndex with
// ties broken by input order. ParentHeading values matching no top-level
// clause produce a synthetic orphan header summarizing child count and
// the worst risk level among the children. The result is a pure function
// of the input: the same clause array always yields the same groups.
func BuildGroups(clauses []model.Clause) []Group {
	var groups []Group
	groupByType := make(map[string]int) // clauseType -> index in groups

	for i := range clauses {
		c := clauses[i]
		if c.IsSubClause() {
			continue
		}
		if _, dup := groupByType[c.ClauseType]; !dup && c.ClauseType != "" {
			groupByType[c.ClauseType] = len(groups)
		}
		groups = append(groups, Group{
			Kind:    KindClause,
			ID:      c.ID,
			Heading: c.ClauseType,
			Clause:  &c,
		})
	}

	// Attach sub-clauses; collect orphans by heading in first-seen order.
	orphanByHeading := make(map[string]int) // heading -> index in groups
	for i := range clauses {
		c := clauses[i]
		if !c.IsSubClause() {
			continue
		}
		if gi, ok := groupByType[c.ParentHeading]; ok {
			groups[gi].Children = append(groups[gi].Children, c)
			continue
		}
		gi, ok := orphanByHeading[c.ParentHeading]
		if !ok {
			gi = len(groups)
			orphanByHeading[c.ParentHeading] = gi
			groups = append(groups, Group{
				Kind:    KindOrphanHeader,
				ID:      OrphanGroupID(c.ParentHeading),
				Heading: c.ParentHeading,
			})
		}
		groups[gi].Children = append(groups[gi].Children, c)
	}

	for gi := range groups {
		g := &groups[gi]
		// Stable sort keeps input order for equal sub-clause indexes.
		sort.SliceStable(g.Children, func(a, b int) bool {
			return g.Children[a].SubClauseIndex < g.Children[b].SubClauseIndex
		})
		g.ChildCount = len(g.Children)
		g.HasChildren = g.ChildCount > 0
		if g.Kind == KindOrphanHeader {
			worst := ""
			for _, child := range g.Children {
				if worst == "" {
					worst = child.RiskLevel
				} else {
					worst = model.WorseRisk(worst, child.RiskLevel)
				}
			}
			g.WorstRisk = worst
		}
	}

	return groups
}

// GroupOf returns the id of the group a clause renders under: the parent
// group id for sub-clauses, the clause's own group for top-level clauses.
// The second return is false when the clause id is unknown.
func GroupOf(groups []Group, clauseID string) (string, bool) {
	for gi := range groups {
		g := &groups[gi]
		if g.Kind == KindClause && g.Clause.ID == clauseID {
			return g.ID, true
		}
		for _, child := range g.Children {
			if child.ID == clauseID {
				return g.ID, true
			}
		}
	}
	return "", false
}
