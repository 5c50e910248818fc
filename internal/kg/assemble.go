package kg

// TypeCategories is the category index entry for one hierarchical type.
// Items has one key per entry of Categories.
type TypeCategories struct {
	Categories []string            `json:"categories"`
	Items      map[string][]string `json:"items"`
}

// CategoryIndex maps each hierarchical item type to its categories. Types
// keeps rule order, which is also the key order in JSON.
type CategoryIndex struct {
	Types  []string
	ByType map[string]*TypeCategories
}

// Get returns the entry for typ, or nil when typ is not indexed.
func (idx CategoryIndex) Get(typ string) *TypeCategories {
	return idx.ByType[typ]
}

// Result is the output of a conversion run.
type Result struct {
	Graph      Graph
	Categories CategoryIndex
	Summary    Summary
}

// Assemble merges provenance into the node records and derives the category
// index. The State can keep accepting rows afterwards; Assemble works on
// copies.
func (s *State) Assemble() *Result {
	nodes := s.Registry.Nodes()
	s.Provenance.Apply(nodes)

	edges := make([]Edge, len(s.Edges))
	copy(edges, s.Edges)

	g := Graph{Nodes: nodes, Links: edges}
	return &Result{
		Graph:      g,
		Categories: BuildCategoryIndex(nodes, s.Rules.Hierarchical),
		Summary:    Summarize(g, s.rows),
	}
}

// BuildCategoryIndex indexes nodes whose type is exactly one of types.
// Category nodes and every other type are left out. Categories keep first
// seen order; items keep node order.
func BuildCategoryIndex(nodes []Node, types []string) CategoryIndex {
	idx := CategoryIndex{
		Types:  make([]string, 0, len(types)),
		ByType: make(map[string]*TypeCategories, len(types)),
	}
	for _, t := range types {
		if _, dup := idx.ByType[t]; dup {
			continue
		}
		idx.Types = append(idx.Types, t)
		idx.ByType[t] = &TypeCategories{
			Categories: []string{},
			Items:      make(map[string][]string),
		}
	}

	for _, n := range nodes {
		entry, ok := idx.ByType[n.Type]
		if !ok || n.Category == "" {
			continue
		}
		if _, seen := entry.Items[n.Category]; !seen {
			entry.Categories = append(entry.Categories, n.Category)
		}
		entry.Items[n.Category] = append(entry.Items[n.Category], n.Name)
	}
	return idx
}
