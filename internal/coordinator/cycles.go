package coordinator

import (
	"sort"

	"github.com/warrenlabs/warren/pkg/tracker"
)

// Cycle detection over the two directed graphs a namespace induces: the
// parent chain (each entity has at most one outgoing parent edge) and the
// dependency graph (arbitrary fan-out).

// parentCycle walks the parent chain upward from the given entity and
// returns the chain if it loops back on itself. A self-parent is the
// degenerate one-element cycle.
func parentCycle(e *tracker.Entity, byID map[tracker.EntityID]*tracker.Entity) []tracker.EntityID {
	visited := map[tracker.EntityID]bool{e.ID: true}
	chain := []tracker.EntityID{e.ID}

	current := e
	for current.ParentID != nil {
		pid := *current.ParentID
		chain = append(chain, pid)

		if visited[pid] {
			return chain
		}
		visited[pid] = true

		parent, ok := byID[pid]
		if !ok {
			return nil // dangling parent is reported separately
		}
		current = parent
	}

	return nil
}

// dependencyCycles finds every distinct cycle in the dependency graph via
// iterative depth-first search with three-color marking. Entities are
// visited in ascending id order so reports are deterministic. Edges to
// non-existent entities are ignored (reported as dangling references
// elsewhere).
func dependencyCycles(byID map[tracker.EntityID]*tracker.Entity, order []tracker.EntityID) [][]tracker.EntityID {
	const (
		white = 0 // unvisited
		grey  = 1 // on the current DFS path
		black = 2 // fully explored
	)

	color := make(map[tracker.EntityID]int, len(byID))
	var cycles [][]tracker.EntityID

	var path []tracker.EntityID

	var visit func(id tracker.EntityID)
	visit = func(id tracker.EntityID) {
		color[id] = grey
		path = append(path, id)

		deps := append([]tracker.EntityID(nil), byID[id].Dependencies...)
		sort.Slice(deps, func(i, j int) bool { return deps[i].Less(deps[j]) })

		for _, dep := range deps {
			if _, ok := byID[dep]; !ok {
				continue
			}

			switch color[dep] {
			case white:
				visit(dep)
			case grey:
				// Found a back edge: the cycle is the path suffix from dep.
				for i, p := range path {
					if p == dep {
						cycle := append([]tracker.EntityID(nil), path[i:]...)
						cycles = append(cycles, cycle)
						break
					}
				}
			}
		}

		path = path[:len(path)-1]
		color[id] = black
	}

	for _, id := range order {
		if color[id] == white {
			visit(id)
		}
	}

	return cycles
}
