package graph

func (g *FlowGraph) forwardFromRoot() map[string]bool {
	visited := make(map[string]bool, len(g.nodes))

	root, ok := g.Root()
	if !ok {
		return visited
	}

	queue := []string{root.ID}
	visited[root.ID] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, conn := range g.outgoing[current] {
			if !visited[conn.Target] {
				visited[conn.Target] = true
				queue = append(queue, conn.Target)
			}
		}
	}

	return visited
}

func (g *FlowGraph) backwardFromTerminals() map[string]bool {
	incoming := make(map[string][]string, len(g.nodes))
	for _, conn := range g.connections {
		incoming[conn.Target] = append(incoming[conn.Target], conn.Source.NodeID)
	}

	visited := make(map[string]bool, len(g.nodes))
	queue := make([]string, 0)

	for _, node := range g.nodes {
		if node.IsTerminal() {
			visited[node.ID] = true
			queue = append(queue, node.ID)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, source := range incoming[current] {
			if !visited[source] {
				visited[source] = true
				queue = append(queue, source)
			}
		}
	}

	return visited
}
