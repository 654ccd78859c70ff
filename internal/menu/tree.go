package menu

import (
	"errors"
	"sort"
)

// ErrNoRoot reports a non-empty menu set in which every record points at
// another record as its parent, which can only happen when the parent graph
// contains a cycle.
var ErrNoRoot = errors.New("menu: no root menus, parent graph forms a cycle")

// BuildTree assembles the flat records into an ordered forest. Siblings are
// ordered by ascending sort key, ties broken by input order. A menu whose
// parent is not in the set is promoted to a root rather than dropped.
func BuildTree(menus []Menu) ([]*Node, error) {
	if len(menus) == 0 {
		return []*Node{}, nil
	}

	ordered := make([]Menu, len(menus))
	copy(ordered, menus)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Sort < ordered[j].Sort
	})

	byID := make(map[string]Menu, len(ordered))
	for _, m := range ordered {
		byID[m.ID] = m
	}

	childIDs := make(map[string][]string, len(ordered))
	var rootIDs []string
	for _, m := range ordered {
		if m.ParentID == "" {
			rootIDs = append(rootIDs, m.ID)
			continue
		}
		if _, haveParent := byID[m.ParentID]; !haveParent {
			rootIDs = append(rootIDs, m.ID)
			continue
		}
		childIDs[m.ParentID] = append(childIDs[m.ParentID], m.ID)
	}
	if len(rootIDs) == 0 {
		return nil, ErrNoRoot
	}

	visited := make(map[string]bool, len(ordered))
	forest := make([]*Node, 0, len(rootIDs))
	for _, id := range rootIDs {
		if node := attach(id, byID, childIDs, visited); node != nil {
			forest = append(forest, node)
		}
	}
	return forest, nil
}

// attach builds the subtree rooted at id. The visited set guards against
// malformed parent graphs so traversal can never loop.
func attach(id string, byID map[string]Menu, childIDs map[string][]string, visited map[string]bool) *Node {
	if visited[id] {
		return nil
	}
	visited[id] = true

	record := byID[id]
	node := &Node{Menu: record}
	if record.ParentID != "" {
		if parent, ok := byID[record.ParentID]; ok {
			node.ParentName = parent.Name
		}
	}
	for _, childID := range childIDs[id] {
		if child := attach(childID, byID, childIDs, visited); child != nil {
			node.Children = append(node.Children, child)
		}
	}
	return node
}

// dedupeByCode drops menus whose code was already seen, keeping the first
// occurrence. Used when unioning per-role grants.
func dedupeByCode(menus []Menu) []Menu {
	seen := make(map[string]bool, len(menus))
	out := make([]Menu, 0, len(menus))
	for _, m := range menus {
		if seen[m.Code] {
			continue
		}
		seen[m.Code] = true
		out = append(out, m)
	}
	return out
}
