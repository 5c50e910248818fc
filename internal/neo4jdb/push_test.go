package neo4jdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reactionkg/internal/config"
	"reactionkg/internal/kg"
	"reactionkg/internal/logger"
)

func sampleGraph() kg.Graph {
	return kg.Graph{
		Nodes: []kg.Node{
			{ID: 0, Name: "C1", Type: "Feedstock Category"},
			{ID: 1, Name: "CO2", Type: "Feedstock", Category: "C1", Titles: []string{"Paper A"}},
			{ID: 2, Name: "Ni", Type: "Catalyst"},
		},
		Links: []kg.Edge{
			{Source: 0, Target: 1, Relation: "Feedstock category->Feedstock"},
			{Source: 2, Target: 1, Relation: "Catalyst->Feedstock"},
			{Source: 2, Target: 1, Relation: "Catalyst->Feedstock"},
		},
	}
}

func TestNew_EmptyURIDisablesSink(t *testing.T) {
	c, err := New(context.Background(), config.Neo4jConfig{}, logger.Nop())
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestNew_RequiresLogger(t *testing.T) {
	_, err := New(context.Background(), config.Neo4jConfig{URI: "bolt://localhost:7687"}, nil)
	assert.Error(t, err)
}

func TestNilClient_IsNoOp(t *testing.T) {
	var c *Client
	assert.NoError(t, c.PushGraph(context.Background(), &kg.Result{Graph: sampleGraph()}))
	assert.NoError(t, c.Close(context.Background()))
}

func TestNodeParams(t *testing.T) {
	params := nodeParams(sampleGraph().Nodes)
	require.Len(t, params, 3)

	assert.Equal(t, "Feedstock|CO2", params[1]["key"])
	assert.Equal(t, int64(1), params[1]["id"])
	assert.Equal(t, "C1", params[1]["category"])
	assert.Equal(t, []string{"Paper A"}, params[1]["titles"])
	assert.Equal(t, []string{}, params[1]["dois"])
	assert.Equal(t, "", params[2]["category"])
}

func TestEdgeParams_KeepsMultiplicity(t *testing.T) {
	g := sampleGraph()
	params, err := edgeParams(g.Nodes, g.Links)
	require.NoError(t, err)
	require.Len(t, params, 3)

	assert.Equal(t, "Feedstock Category|C1", params[0]["source"])
	assert.Equal(t, "Feedstock|CO2", params[0]["target"])
	assert.Equal(t, int64(1), params[1]["seq"])
	assert.Equal(t, int64(2), params[2]["seq"])
	assert.Equal(t, params[1]["source"], params[2]["source"])
}

func TestEdgeParams_UnknownEndpoint(t *testing.T) {
	g := sampleGraph()
	_, err := edgeParams(g.Nodes, []kg.Edge{{Source: 0, Target: 9, Relation: "x->y"}})
	assert.ErrorContains(t, err, "unknown target node 9")
}

func TestNodeKey_DistinguishesTypes(t *testing.T) {
	a := NodeKey(kg.Node{Name: "Ni", Type: "Catalyst"})
	b := NodeKey(kg.Node{Name: "Ni", Type: "Product"})
	assert.NotEqual(t, a, b)
}

func TestPushStatements_ReplacesGraph(t *testing.T) {
	stmts, err := pushStatements(sampleGraph())
	require.NoError(t, err)
	require.Len(t, stmts, 4)

	// Stale nodes and all old edges go before anything is written.
	assert.Equal(t, deleteStaleNodes, stmts[0].query)
	assert.Equal(t, []string{"Feedstock Category|C1", "Feedstock|CO2", "Catalyst|Ni"}, stmts[0].params["keys"])
	assert.Equal(t, deleteEdges, stmts[1].query)
	assert.Equal(t, upsertNodes, stmts[2].query)
	assert.Len(t, stmts[2].params["nodes"], 3)
	assert.Equal(t, createEdges, stmts[3].query)
	assert.Len(t, stmts[3].params["edges"], 3)

	assert.Contains(t, createEdges, "CREATE (a)-[:RELATES")
	assert.NotContains(t, createEdges, "MERGE")
}

func TestPushStatements_EmptyGraphClearsEverything(t *testing.T) {
	stmts, err := pushStatements(kg.Graph{})
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	assert.Equal(t, []string{}, stmts[0].params["keys"])
	assert.Equal(t, deleteEdges, stmts[1].query)
}

func TestPushStatements_UnknownEndpoint(t *testing.T) {
	g := sampleGraph()
	g.Links = append(g.Links, kg.Edge{Source: 7, Target: 1, Relation: "x->y"})
	_, err := pushStatements(g)
	assert.ErrorContains(t, err, "unknown source node 7")
}
