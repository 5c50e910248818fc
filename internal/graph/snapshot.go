package graph

import "sort"

// NodeInfo is a lightweight node representation decoupled from storage types
type NodeInfo struct {
	ID       int
	Name     string
	NodeType string
	Category string
}

// EdgeInfo is a lightweight edge representation
type EdgeInfo struct {
	Source   int
	Target   int
	Relation string
}

// GraphSnapshot holds a graph with precomputed adjacency lists. Parallel
// edges appear once per edge in the adjacency lists.
type GraphSnapshot struct {
	Nodes  map[int]*NodeInfo
	Edges  []EdgeInfo
	Adj    map[int][]int // undirected
	OutAdj map[int][]int // directed: source -> targets
	InAdj  map[int][]int // directed: target -> sources
}

// NewSnapshot builds a GraphSnapshot from raw nodes and edges. Edges whose
// endpoints are not in nodes are dropped.
func NewSnapshot(nodes []*NodeInfo, edges []EdgeInfo) *GraphSnapshot {
	nodeMap := make(map[int]*NodeInfo, len(nodes))
	adj := make(map[int][]int)
	outAdj := make(map[int][]int)
	inAdj := make(map[int][]int)

	for _, n := range nodes {
		nodeMap[n.ID] = n
		adj[n.ID] = nil // ensure entry exists
		outAdj[n.ID] = nil
		inAdj[n.ID] = nil
	}

	kept := make([]EdgeInfo, 0, len(edges))
	for _, e := range edges {
		if _, ok := nodeMap[e.Source]; !ok {
			continue
		}
		if _, ok := nodeMap[e.Target]; !ok {
			continue
		}
		kept = append(kept, e)
		adj[e.Source] = append(adj[e.Source], e.Target)
		adj[e.Target] = append(adj[e.Target], e.Source)
		outAdj[e.Source] = append(outAdj[e.Source], e.Target)
		inAdj[e.Target] = append(inAdj[e.Target], e.Source)
	}

	return &GraphSnapshot{
		Nodes:  nodeMap,
		Edges:  kept,
		Adj:    adj,
		OutAdj: outAdj,
		InAdj:  inAdj,
	}
}

// FilterToTypes returns a new snapshot containing only nodes of the given
// types and the edges between them
func (s *GraphSnapshot) FilterToTypes(types []string) *GraphSnapshot {
	want := make(map[string]bool, len(types))
	for _, t := range types {
		want[t] = true
	}

	var filteredNodes []*NodeInfo
	for _, id := range s.NodeIDs() {
		if n := s.Nodes[id]; want[n.NodeType] {
			filteredNodes = append(filteredNodes, n)
		}
	}
	// NewSnapshot drops edges that leave the filtered set.
	return NewSnapshot(filteredNodes, s.Edges)
}

// NodeIDs returns a sorted list of all node IDs (for deterministic output)
func (s *GraphSnapshot) NodeIDs() []int {
	ids := make([]int, 0, len(s.Nodes))
	for id := range s.Nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Label returns "name (type)" for a node id, or "?" if unknown
func (s *GraphSnapshot) Label(id int) string {
	n, ok := s.Nodes[id]
	if !ok {
		return "?"
	}
	return n.Name + " (" + n.NodeType + ")"
}
