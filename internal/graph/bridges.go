package graph

// ArticulationPoint is a node whose removal disconnects its component
type ArticulationPoint struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Degree int    `json:"degree"` // distinct neighbours
}

// BridgeEdge is a node pair whose only connection is a single edge position
type BridgeEdge struct {
	SourceID   int    `json:"source_id"`
	TargetID   int    `json:"target_id"`
	SourceName string `json:"source_name"`
	TargetName string `json:"target_name"`
}

// BridgeReport contains bridge analysis results
type BridgeReport struct {
	ArticulationPoints []ArticulationPoint `json:"articulation_points"`
	BridgeEdges        []BridgeEdge        `json:"bridge_edges"`
	APCount            int                 `json:"ap_count"`
	BridgeCount        int                 `json:"bridge_count"`
}

// ComputeBridges finds articulation points and bridge edges. Direction is
// ignored and parallel edges between the same pair count once.
func ComputeBridges(snap *GraphSnapshot) *BridgeReport {
	if len(snap.Nodes) == 0 {
		return &BridgeReport{}
	}

	nodeIDs := snap.NodeIDs()
	adj := undirectedSimple(snap, nodeIDs)
	n := len(nodeIDs)

	disc := make([]int, n) // 0 = unvisited
	low := make([]int, n)
	isAP := make([]bool, n)
	var bridgePairs [][2]int
	clock := 0

	// Iterative Tarjan; each frame remembers the next neighbour to visit.
	type frame struct {
		node, parent, next int
	}

	for root := 0; root < n; root++ {
		if disc[root] != 0 {
			continue
		}
		clock++
		disc[root], low[root] = clock, clock
		stack := []frame{{node: root, parent: -1}}
		rootChildren := 0

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			u := top.node

			if top.next < len(adj[u]) {
				v := adj[u][top.next]
				top.next++
				switch {
				case v == top.parent:
				case disc[v] != 0:
					low[u] = min(low[u], disc[v])
				default:
					clock++
					disc[v], low[v] = clock, clock
					if u == root {
						rootChildren++
					}
					stack = append(stack, frame{node: v, parent: u})
				}
				continue
			}

			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				continue
			}
			p := stack[len(stack)-1].node
			low[p] = min(low[p], low[u])
			if low[u] > disc[p] {
				bridgePairs = append(bridgePairs, [2]int{p, u})
			}
			if p != root && low[u] >= disc[p] {
				isAP[p] = true
			}
		}

		if rootChildren >= 2 {
			isAP[root] = true
		}
	}

	report := &BridgeReport{}
	for i, ap := range isAP {
		if !ap {
			continue
		}
		node := snap.Nodes[nodeIDs[i]]
		report.ArticulationPoints = append(report.ArticulationPoints, ArticulationPoint{
			ID:     node.ID,
			Name:   node.Name,
			Type:   node.NodeType,
			Degree: len(adj[i]),
		})
	}
	for _, pair := range bridgePairs {
		u, v := snap.Nodes[nodeIDs[pair[0]]], snap.Nodes[nodeIDs[pair[1]]]
		report.BridgeEdges = append(report.BridgeEdges, BridgeEdge{
			SourceID:   u.ID,
			TargetID:   v.ID,
			SourceName: u.Name,
			TargetName: v.Name,
		})
	}
	report.APCount = len(report.ArticulationPoints)
	report.BridgeCount = len(report.BridgeEdges)
	return report
}

// undirectedSimple returns index adjacency with self loops and parallel
// edges removed
func undirectedSimple(snap *GraphSnapshot, nodeIDs []int) [][]int {
	index := make(map[int]int, len(nodeIDs))
	for i, id := range nodeIDs {
		index[id] = i
	}
	adj := make([][]int, len(nodeIDs))
	seen := make(map[[2]int]bool)
	for _, e := range snap.Edges {
		u, v := index[e.Source], index[e.Target]
		if u == v {
			continue
		}
		key := [2]int{min(u, v), max(u, v)}
		if seen[key] {
			continue
		}
		seen[key] = true
		adj[u] = append(adj[u], v)
		adj[v] = append(adj[v], u)
	}
	return adj
}
