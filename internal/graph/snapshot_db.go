package graph

import (
	"reactionkg/internal/db"
	"reactionkg/internal/kg"
)

// SnapshotFromDB loads a GraphSnapshot from the database
func SnapshotFromDB(d *db.DB) (*GraphSnapshot, error) {
	dbNodes, err := d.AllNodes()
	if err != nil {
		return nil, err
	}
	dbEdges, err := d.AllEdges()
	if err != nil {
		return nil, err
	}

	nodes := make([]*NodeInfo, 0, len(dbNodes))
	for _, n := range dbNodes {
		info := &NodeInfo{ID: n.ID, Name: n.Name, NodeType: n.NodeType}
		if n.Category != nil {
			info.Category = *n.Category
		}
		nodes = append(nodes, info)
	}

	edges := make([]EdgeInfo, 0, len(dbEdges))
	for _, e := range dbEdges {
		edges = append(edges, EdgeInfo{
			Source:   e.SourceID,
			Target:   e.TargetID,
			Relation: e.Relation,
		})
	}

	return NewSnapshot(nodes, edges), nil
}

// SnapshotFromGraph builds a GraphSnapshot from a converted graph
func SnapshotFromGraph(g *kg.Graph) *GraphSnapshot {
	nodes := make([]*NodeInfo, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes = append(nodes, &NodeInfo{
			ID:       n.ID,
			Name:     n.Name,
			NodeType: n.Type,
			Category: n.Category,
		})
	}
	edges := make([]EdgeInfo, 0, len(g.Links))
	for _, e := range g.Links {
		edges = append(edges, EdgeInfo{Source: e.Source, Target: e.Target, Relation: e.Relation})
	}
	return NewSnapshot(nodes, edges)
}
