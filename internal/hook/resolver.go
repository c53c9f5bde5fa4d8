package hook

import (
	"fmt"
	"math"
	"sort"
)

var positiveInfinity = math.Inf(1)

// CycleError reports a dependency cycle found while resolving one
// phase's hooks, carrying the offending hook names for diagnostics.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("Circular dependency: %v", e.Cycle)
}

// Resolve orders the hooks of a single phase: build a
// graph where u -> v means u must run before v (derived from
// before/after, with the "all" sentinel expanded against every other
// registered hook of the phase), then topologically sort with ties
// broken by ascending priority and then declaration order.
//
// Unknown names referenced in before/after participate in the graph as
// phantom nodes (satisfied vacuously) but never appear in the returned
// order, since they have no Descriptor to run.
func Resolve(hooks []Descriptor) ([]Descriptor, error) {
	declIndex := make(map[string]int, len(hooks))
	priorityByName := make(map[string]float64, len(hooks))
	byName := make(map[string]Descriptor, len(hooks))
	for i, h := range hooks {
		declIndex[h.Name] = i
		priorityByName[h.Name] = priorityOf(h)
		byName[h.Name] = h
	}

	edges := map[string]map[string]bool{} // u -> set of v, meaning u before v
	nodes := map[string]bool{}
	addNode := func(n string) {
		nodes[n] = true
		if edges[n] == nil {
			edges[n] = map[string]bool{}
		}
	}
	addEdge := func(u, v string) {
		addNode(u)
		addNode(v)
		if u == v {
			return
		}
		edges[u][v] = true
	}

	for _, h := range hooks {
		addNode(h.Name)
	}

	for _, h := range hooks {
		for _, u := range h.After {
			if u == All {
				for other := range byName {
					if other != h.Name {
						addEdge(other, h.Name)
					}
				}
				continue
			}
			addEdge(u, h.Name)
		}
		for _, v := range h.Before {
			if v == All {
				for other := range byName {
					if other != h.Name {
						addEdge(h.Name, other)
					}
				}
				continue
			}
			addEdge(h.Name, v)
		}
	}

	order, err := topoSort(nodes, edges, declIndex, priorityByName)
	if err != nil {
		return nil, err
	}

	out := make([]Descriptor, 0, len(hooks))
	for _, name := range order {
		if d, ok := byName[name]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

// topoSort runs Kahn's algorithm, at each step choosing among the
// zero-indegree "ready" set the node with lowest (priority, declaration
// index, name) so that resolution is deterministic and honors the
// priority tie-break. Phantom nodes (referenced but
// never registered) sort last, since they carry no declared priority.
func topoSort(nodes map[string]bool, edges map[string]map[string]bool, declIndex map[string]int, priorityByName map[string]float64) ([]string, error) {
	indegree := map[string]int{}
	for n := range nodes {
		indegree[n] = 0
	}
	for _, vs := range edges {
		for v := range vs {
			indegree[v]++
		}
	}

	var ready []string
	for n := range nodes {
		if indegree[n] == 0 {
			ready = append(ready, n)
		}
	}

	less := func(a, b string) bool {
		pa, paOK := priorityByName[a]
		pb, pbOK := priorityByName[b]
		if !paOK {
			pa = positiveInfinity
		}
		if !pbOK {
			pb = positiveInfinity
		}
		if pa != pb {
			return pa < pb
		}
		ia, aok := declIndex[a]
		ib, bok := declIndex[b]
		switch {
		case aok && bok:
			if ia != ib {
				return ia < ib
			}
		case aok && !bok:
			return true
		case !aok && bok:
			return false
		}
		return a < b
	}

	var order []string
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return less(ready[i], ready[j]) })
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)

		for v := range edges[n] {
			indegree[v]--
			if indegree[v] == 0 {
				ready = append(ready, v)
			}
		}
	}

	if len(order) != len(nodes) {
		return nil, &CycleError{Cycle: remainingCycle(nodes, indegree)}
	}
	return order, nil
}

func remainingCycle(nodes map[string]bool, indegree map[string]int) []string {
	var cycle []string
	for n := range nodes {
		if indegree[n] > 0 {
			cycle = append(cycle, n)
		}
	}
	sort.Strings(cycle)
	return cycle
}
