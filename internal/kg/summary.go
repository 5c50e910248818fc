package kg

import "sort"

// Summary is the run report printed after a conversion.
type Summary struct {
	Rows                int            `json:"rows"`
	Nodes               int            `json:"nodes"`
	Edges               int            `json:"edges"`
	NodesWithTitles     int            `json:"nodes_with_titles"`
	NodesWithDOIs       int            `json:"nodes_with_dois"`
	NodesWithProvenance int            `json:"nodes_with_provenance"`
	NodesByType         map[string]int `json:"nodes_by_type"`
	EdgesByRelation     map[string]int `json:"edges_by_relation"`
}

// Summarize counts nodes, edges and provenance coverage of g.
func Summarize(g Graph, rows int) Summary {
	s := Summary{
		Rows:            rows,
		Nodes:           len(g.Nodes),
		Edges:           len(g.Links),
		NodesByType:     make(map[string]int),
		EdgesByRelation: make(map[string]int),
	}
	for _, n := range g.Nodes {
		s.NodesByType[n.Type]++
		if len(n.Titles) > 0 {
			s.NodesWithTitles++
		}
		if len(n.DOIs) > 0 {
			s.NodesWithDOIs++
		}
		if n.HasProvenance() {
			s.NodesWithProvenance++
		}
	}
	for _, e := range g.Links {
		s.EdgesByRelation[e.Relation]++
	}
	return s
}

// CountEntry is one key/count pair of a sorted breakdown.
type CountEntry struct {
	Key   string
	Count int
}

// SortedCounts orders a breakdown map by count descending, then key.
func SortedCounts(m map[string]int) []CountEntry {
	out := make([]CountEntry, 0, len(m))
	for k, v := range m {
		out = append(out, CountEntry{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Key < out[j].Key
	})
	return out
}
