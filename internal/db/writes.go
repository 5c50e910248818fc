package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"reactionkg/internal/kg"
)

// RunInfo describes where a saved graph came from
type RunInfo struct {
	Source string
	Now    func() time.Time // defaults to time.Now
}

// SaveGraph replaces the stored graph with res and records a run. Everything
// happens in one transaction, so readers see either the old graph or the new
// one. Returns the new run id.
func (d *DB) SaveGraph(res *kg.Result, info RunInfo) (string, error) {
	now := time.Now
	if info.Now != nil {
		now = info.Now
	}
	runID := uuid.NewString()

	tx, err := d.conn.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO runs (id, source, created_at, row_count, node_count, edge_count, provenance_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, runID, info.Source, now().UnixMilli(), res.Summary.Rows,
		len(res.Graph.Nodes), len(res.Graph.Links), res.Summary.NodesWithProvenance); err != nil {
		return "", fmt.Errorf("recording run: %w", err)
	}

	for _, table := range []string{"edges", "node_titles", "node_dois", "nodes"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return "", fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	if err := insertNodes(tx, runID, res.Graph.Nodes); err != nil {
		return "", err
	}
	if err := insertEdges(tx, res.Graph.Links); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing graph: %w", err)
	}
	return runID, nil
}

func insertNodes(tx *sql.Tx, runID string, nodes []kg.Node) error {
	nodeStmt, err := tx.Prepare(`INSERT INTO nodes (id, name, type, category, run_id) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing node insert: %w", err)
	}
	defer nodeStmt.Close()

	titleStmt, err := tx.Prepare(`INSERT INTO node_titles (node_id, position, title) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing title insert: %w", err)
	}
	defer titleStmt.Close()

	doiStmt, err := tx.Prepare(`INSERT INTO node_dois (node_id, position, doi) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing doi insert: %w", err)
	}
	defer doiStmt.Close()

	for _, n := range nodes {
		var category any
		if n.Category != "" {
			category = n.Category
		}
		if _, err := nodeStmt.Exec(n.ID, n.Name, n.Type, category, runID); err != nil {
			return fmt.Errorf("inserting node %d: %w", n.ID, err)
		}
		for i, title := range n.Titles {
			if _, err := titleStmt.Exec(n.ID, i, title); err != nil {
				return fmt.Errorf("inserting title for node %d: %w", n.ID, err)
			}
		}
		for i, doi := range n.DOIs {
			if _, err := doiStmt.Exec(n.ID, i, doi); err != nil {
				return fmt.Errorf("inserting doi for node %d: %w", n.ID, err)
			}
		}
	}
	return nil
}

func insertEdges(tx *sql.Tx, edges []kg.Edge) error {
	stmt, err := tx.Prepare(`INSERT INTO edges (seq, source_id, target_id, relation) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing edge insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range edges {
		if _, err := stmt.Exec(i, e.Source, e.Target, e.Relation); err != nil {
			return fmt.Errorf("inserting edge %d: %w", i, err)
		}
	}
	return nil
}

// Graph rebuilds the stored graph in the shape the builder produced it
func (d *DB) Graph() (*kg.Graph, error) {
	dbNodes, err := d.AllNodes()
	if err != nil {
		return nil, err
	}
	dbEdges, err := d.AllEdges()
	if err != nil {
		return nil, err
	}

	g := &kg.Graph{
		Nodes: make([]kg.Node, 0, len(dbNodes)),
		Links: make([]kg.Edge, 0, len(dbEdges)),
	}
	for _, n := range dbNodes {
		node := kg.Node{ID: n.ID, Name: n.Name, Type: n.NodeType, Titles: n.Titles, DOIs: n.DOIs}
		if n.Category != nil {
			node.Category = *n.Category
		}
		g.Nodes = append(g.Nodes, node)
	}
	for _, e := range dbEdges {
		g.Links = append(g.Links, kg.Edge{Source: e.SourceID, Target: e.TargetID, Relation: e.Relation})
	}
	return g, nil
}
