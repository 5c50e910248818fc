// Package kg turns tabular reaction records into a typed node/edge graph.
//
// A conversion run owns a State (registry, edge list, provenance). Every row
// goes through the category rules first, then every row through the
// relation rules, and the State is assembled into a Result once both passes
// are done.
package kg

// Node is a unique (name, type) entity in the output graph.
type Node struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Category string   `json:"category,omitempty"`
	Titles   []string `json:"titles,omitempty"`
	DOIs     []string `json:"dois,omitempty"`
}

// Edge is a directed, labeled link between two node ids. Relation is
// "<source column>-><target column>".
type Edge struct {
	Source   int    `json:"source"`
	Target   int    `json:"target"`
	Relation string `json:"relation"`
}

// Graph is the combined nodes/links artifact.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Edge `json:"links"`
}

// Row exposes the trimmed value of a column, or "" when the column is
// absent or blank.
type Row interface {
	Value(column string) string
}

// HasProvenance reports whether the node carries any title or DOI.
func (n Node) HasProvenance() bool {
	return len(n.Titles) > 0 || len(n.DOIs) > 0
}
