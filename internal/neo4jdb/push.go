package neo4jdb

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"reactionkg/internal/kg"
)

const constraintStmt = `CREATE CONSTRAINT kgnode_key_unique IF NOT EXISTS FOR (n:KGNode) REQUIRE n.key IS UNIQUE`

// The push mirrors the graph: nodes whose key is gone are removed, and every
// RELATES edge is recreated so edges that moved between node pairs do not
// linger.
const deleteStaleNodes = `
MATCH (k:KGNode)
WHERE NOT k.key IN $keys
DETACH DELETE k
`

const deleteEdges = `
MATCH (:KGNode)-[r:RELATES]->(:KGNode)
DELETE r
`

const upsertNodes = `
UNWIND $nodes AS n
MERGE (k:KGNode {key: n.key})
SET k.id = n.id,
    k.name = n.name,
    k.type = n.type,
    k.category = n.category,
    k.titles = n.titles,
    k.dois = n.dois
`

const createEdges = `
UNWIND $edges AS e
MATCH (a:KGNode {key: e.source})
MATCH (b:KGNode {key: e.target})
CREATE (a)-[:RELATES {seq: e.seq, relation: e.relation}]->(b)
`

type statement struct {
	query  string
	params map[string]any
}

// NodeKey is the Neo4j identity of a node: "type|name".
func NodeKey(n kg.Node) string {
	return n.Type + "|" + n.Name
}

func nodeParams(nodes []kg.Node) []map[string]any {
	out := make([]map[string]any, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, map[string]any{
			"key":      NodeKey(n),
			"id":       int64(n.ID),
			"name":     n.Name,
			"type":     n.Type,
			"category": n.Category,
			"titles":   nonNil(n.Titles),
			"dois":     nonNil(n.DOIs),
		})
	}
	return out
}

// edgeParams resolves edge endpoints to node keys. Edges pointing at unknown
// ids are an error; the builder never produces them.
func edgeParams(nodes []kg.Node, edges []kg.Edge) ([]map[string]any, error) {
	keys := make(map[int]string, len(nodes))
	for _, n := range nodes {
		keys[n.ID] = NodeKey(n)
	}
	out := make([]map[string]any, 0, len(edges))
	for i, e := range edges {
		src, ok := keys[e.Source]
		if !ok {
			return nil, fmt.Errorf("edge %d: unknown source node %d", i, e.Source)
		}
		dst, ok := keys[e.Target]
		if !ok {
			return nil, fmt.Errorf("edge %d: unknown target node %d", i, e.Target)
		}
		out = append(out, map[string]any{
			"seq":      int64(i),
			"source":   src,
			"target":   dst,
			"relation": e.Relation,
		})
	}
	return out, nil
}

// pushStatements returns the write transaction for a graph, in run order.
func pushStatements(g kg.Graph) ([]statement, error) {
	nodes := nodeParams(g.Nodes)
	edges, err := edgeParams(g.Nodes, g.Links)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(nodes))
	for _, n := range nodes {
		keys = append(keys, n["key"].(string))
	}

	stmts := []statement{
		{query: deleteStaleNodes, params: map[string]any{"keys": keys}},
		{query: deleteEdges},
	}
	if len(nodes) > 0 {
		stmts = append(stmts, statement{query: upsertNodes, params: map[string]any{"nodes": nodes}})
	}
	if len(edges) > 0 {
		stmts = append(stmts, statement{query: createEdges, params: map[string]any{"edges": edges}})
	}
	return stmts, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// PushGraph replaces the KGNode graph in Neo4j with res in a single write
// transaction. A nil client is a no-op.
func (c *Client) PushGraph(ctx context.Context, res *kg.Result) error {
	if c == nil || c.Driver == nil || res == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	stmts, err := pushStatements(res.Graph)
	if err != nil {
		return fmt.Errorf("neo4jdb: %w", err)
	}

	session := c.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: c.Database,
	})
	defer session.Close(ctx)

	if result, err := session.Run(ctx, constraintStmt, nil); err != nil {
		c.log.Warn("neo4j schema init failed (continuing)", "error", err)
	} else {
		_, _ = result.Consume(ctx)
	}

	_, err = session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, st := range stmts {
			if err := run(ctx, tx, st.query, st.params); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("neo4jdb: push graph: %w", err)
	}

	c.log.Info("pushed graph to neo4j", "nodes", len(res.Graph.Nodes), "edges", len(res.Graph.Links))
	return nil
}

func run(ctx context.Context, tx neo4j.ManagedTransaction, query string, params map[string]any) error {
	res, err := tx.Run(ctx, query, params)
	if err != nil {
		return err
	}
	_, err = res.Consume(ctx)
	return err
}
