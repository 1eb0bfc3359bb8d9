// CLAUDE:SUMMARY Iterative connected components over edge lists with an explicit visited set.
package cluster

// connectedComponents returns maximal sets of tab indexes transitively
// connected by edges. Traversal is iterative with an explicit visited set,
// keeping the engine re-entrant across concurrent invocations. Seeds follow
// seed order, so identical input yields identical component order. Indexes
// with no surviving edges come out as singleton components.
func connectedComponents(seeds []int, edges []edge) [][]int {
	adj := make(map[int][]int, len(seeds))
	for _, e := range edges {
		adj[e.a] = append(adj[e.a], e.b)
		adj[e.b] = append(adj[e.b], e.a)
	}

	visited := make(map[int]bool, len(seeds))
	var components [][]int

	for _, seed := range seeds {
		if visited[seed] {
			continue
		}
		visited[seed] = true

		comp := []int{seed}
		stack := []int{seed}
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, next := range adj[n] {
				if visited[next] {
					continue
				}
				visited[next] = true
				comp = append(comp, next)
				stack = append(stack, next)
			}
		}
		components = append(components, comp)
	}
	return components
}
