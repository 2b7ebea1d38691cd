package cfg

// TraverseEdges applies visit to the edges of g reachable from entry, in
// breadth-first order. Each vertex is entered once; the first call is
// visit(-1, entry).
func (g *Graph) TraverseEdges(entry int, visit func(from, to int)) {
	if !g.HasBlock(entry) {
		return
	}
	visited := make([]bool, g.NumBlocks())
	queue := []Edge{{From: -1, To: entry}}
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		if !visited[e.To] {
			visited[e.To] = true
			visit(e.From, e.To)
			for _, succ := range g.succs[e.To] {
				queue = append(queue, Edge{From: e.To, To: succ})
			}
		}
	}
}

// Reachable returns, for every vertex, whether it can be reached from entry.
func (g *Graph) Reachable(entry int) []bool {
	reached := make([]bool, g.NumBlocks())
	g.TraverseEdges(entry, func(_, to int) { reached[to] = true })
	return reached
}

// PostOrder returns the vertices reachable from entry in depth-first
// postorder. Successors are explored in input order.
func (g *Graph) PostOrder(entry int) []int {
	if !g.HasBlock(entry) {
		return nil
	}
	type frame struct {
		b    int
		next int // Index of the next successor to explore.
	}
	visited := make([]bool, g.NumBlocks())
	order := make([]int, 0, g.NumBlocks())
	stack := []frame{{b: entry}}
	visited[entry] = true
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(g.succs[top.b]) {
			s := g.succs[top.b][top.next]
			top.next++
			if !visited[s] {
				visited[s] = true
				stack = append(stack, frame{b: s})
			}
			continue
		}
		order = append(order, top.b)
		stack = stack[:len(stack)-1]
	}
	return order
}

// ReversePostOrder returns the vertices reachable from entry in reverse
// depth-first postorder, starting with entry.
func (g *Graph) ReversePostOrder(entry int) []int {
	order := g.PostOrder(entry)
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}
