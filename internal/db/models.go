package db

// Node represents a row in the nodes table with its provenance attached
type Node struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	NodeType string   `json:"type"`
	Category *string  `json:"category"`
	Titles   []string `json:"titles"`
	DOIs     []string `json:"dois"`
	RunID    string   `json:"run_id"`
}

// Edge represents a row in the edges table. Seq preserves emission order.
type Edge struct {
	Seq      int    `json:"seq"`
	SourceID int    `json:"source_id"`
	TargetID int    `json:"target_id"`
	Relation string `json:"relation"`
}

// Run represents a row in the runs table
type Run struct {
	ID              string `json:"id"`
	Source          string `json:"source"`
	CreatedAt       int64  `json:"created_at"` // Unix millis
	RowCount        int    `json:"row_count"`
	NodeCount       int    `json:"node_count"`
	EdgeCount       int    `json:"edge_count"`
	ProvenanceCount int    `json:"provenance_count"`
}
