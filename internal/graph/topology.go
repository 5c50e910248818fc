package graph

import "sort"

// HubNode is a node with high connectivity
type HubNode struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Degree    int    `json:"degree"`
	InDegree  int    `json:"in_degree"`
	OutDegree int    `json:"out_degree"`
}

// DegreeBucket is one bucket in the degree histogram
type DegreeBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// TypeCount is the node count of one node type
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// TopologyReport contains topology analysis results
type TopologyReport struct {
	TotalNodes        int            `json:"total_nodes"`
	TotalEdges        int            `json:"total_edges"`
	DistinctEdges     int            `json:"distinct_edges"`
	NumComponents     int            `json:"num_components"`
	LargestComponent  int            `json:"largest_component"`
	SmallestComponent int            `json:"smallest_component"`
	OrphanCount       int            `json:"orphan_count"`
	OrphanIDs         []int          `json:"orphan_ids"`
	DegreeHistogram   []DegreeBucket `json:"degree_histogram"`
	Hubs              []HubNode      `json:"hubs"`
	NodeTypes         []TypeCount    `json:"node_types"`
}

// ComputeTopology analyzes graph topology: components, orphans, degree
// distribution, hubs and node types. Degrees count parallel edges.
func ComputeTopology(snap *GraphSnapshot, hubThreshold, topN int) *TopologyReport {
	totalNodes := len(snap.Nodes)
	totalEdges := len(snap.Edges)

	if totalNodes == 0 {
		return &TopologyReport{
			DegreeHistogram: defaultHistogram(),
		}
	}

	// Connected components via UnionFind over sorted-id indices
	nodeIDs := snap.NodeIDs()
	index := make(map[int]int, len(nodeIDs))
	for i, id := range nodeIDs {
		index[id] = i
	}
	uf := NewUnionFind(len(nodeIDs))
	type triple struct {
		s, t     int
		relation string
	}
	distinct := make(map[triple]bool)
	for _, e := range snap.Edges {
		uf.Union(index[e.Source], index[e.Target])
		distinct[triple{e.Source, e.Target, e.Relation}] = true
	}

	sizes := uf.ComponentSizes()
	largest, smallest := 0, totalNodes
	for _, size := range sizes {
		if size > largest {
			largest = size
		}
		if size < smallest {
			smallest = size
		}
	}

	// Orphans: degree == 0
	var orphans []int
	for _, id := range nodeIDs {
		if len(snap.Adj[id]) == 0 {
			orphans = append(orphans, id)
		}
	}
	orphanCount := len(orphans)
	if len(orphans) > topN {
		orphans = orphans[:topN]
	}

	// Degree histogram (log-scale buckets)
	histogram := defaultHistogram()
	for _, id := range nodeIDs {
		histogram[degreeBucket(len(snap.Adj[id]))].Count++
	}

	// Hubs: degree > threshold
	var hubs []HubNode
	for _, id := range nodeIDs {
		degree := len(snap.Adj[id])
		if degree > hubThreshold {
			n := snap.Nodes[id]
			hubs = append(hubs, HubNode{
				ID:        id,
				Name:      n.Name,
				Type:      n.NodeType,
				Degree:    degree,
				InDegree:  len(snap.InAdj[id]),
				OutDegree: len(snap.OutAdj[id]),
			})
		}
	}
	sort.SliceStable(hubs, func(i, j int) bool { return hubs[i].Degree > hubs[j].Degree })
	if len(hubs) > topN {
		hubs = hubs[:topN]
	}

	return &TopologyReport{
		TotalNodes:        totalNodes,
		TotalEdges:        totalEdges,
		DistinctEdges:     len(distinct),
		NumComponents:     uf.Count(),
		LargestComponent:  largest,
		SmallestComponent: smallest,
		OrphanCount:       orphanCount,
		OrphanIDs:         orphans,
		DegreeHistogram:   histogram,
		Hubs:              hubs,
		NodeTypes:         countTypes(snap),
	}
}

func countTypes(snap *GraphSnapshot) []TypeCount {
	counts := make(map[string]int)
	for _, n := range snap.Nodes {
		counts[n.NodeType]++
	}
	out := make([]TypeCount, 0, len(counts))
	for t, c := range counts {
		out = append(out, TypeCount{Type: t, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}

func defaultHistogram() []DegreeBucket {
	return []DegreeBucket{
		{Label: "0"}, {Label: "1"}, {Label: "2-3"},
		{Label: "4-7"}, {Label: "8-15"}, {Label: "16-31"}, {Label: "32+"},
	}
}

func degreeBucket(degree int) int {
	switch {
	case degree == 0:
		return 0
	case degree == 1:
		return 1
	case degree <= 3:
		return 2
	case degree <= 7:
		return 3
	case degree <= 15:
		return 4
	case degree <= 31:
		return 5
	default:
		return 6
	}
}
