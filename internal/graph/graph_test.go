package graph

import (
	"path/filepath"
	"testing"

	"reactionkg/internal/db"
	"reactionkg/internal/kg"
)

// quickSnapshot builds a snapshot of nodes 0..n-1, all of type "Catalyst"
func quickSnapshot(n int, edges [][2]int) *GraphSnapshot {
	var nodes []*NodeInfo
	for i := 0; i < n; i++ {
		nodes = append(nodes, &NodeInfo{ID: i, Name: string(rune('A' + i)), NodeType: "Catalyst"})
	}
	var edgeInfos []EdgeInfo
	for _, e := range edges {
		edgeInfos = append(edgeInfos, EdgeInfo{Source: e[0], Target: e[1], Relation: "Catalyst->Product"})
	}
	return NewSnapshot(nodes, edgeInfos)
}

// --- Snapshot Tests ---

func TestSnapshot_DropsDanglingEdges(t *testing.T) {
	snap := quickSnapshot(2, [][2]int{{0, 1}, {1, 7}})
	if len(snap.Edges) != 1 {
		t.Errorf("expected dangling edge to be dropped, got %d edges", len(snap.Edges))
	}
	if len(snap.OutAdj[0]) != 1 || len(snap.InAdj[1]) != 1 {
		t.Errorf("unexpected adjacency: out=%v in=%v", snap.OutAdj, snap.InAdj)
	}
}

func TestSnapshot_FilterToTypes(t *testing.T) {
	snap := NewSnapshot(
		[]*NodeInfo{
			{ID: 0, Name: "C1", NodeType: "Feedstock Category"},
			{ID: 1, Name: "CO2", NodeType: "Feedstock"},
			{ID: 2, Name: "Ni", NodeType: "Catalyst"},
			{ID: 3, Name: "CH4", NodeType: "Product"},
		},
		[]EdgeInfo{
			{Source: 0, Target: 1, Relation: "Feedstock category->Feedstock"},
			{Source: 2, Target: 3, Relation: "Catalyst->Product"},
			{Source: 1, Target: 2, Relation: "Feedstock->Catalyst"},
		},
	)
	filtered := snap.FilterToTypes([]string{"Catalyst", "Product"})
	if len(filtered.Nodes) != 2 {
		t.Errorf("expected 2 nodes, got %d", len(filtered.Nodes))
	}
	if len(filtered.Edges) != 1 || filtered.Edges[0].Relation != "Catalyst->Product" {
		t.Errorf("expected only Catalyst->Product, got %+v", filtered.Edges)
	}
	if got := filtered.Label(2); got != "Ni (Catalyst)" {
		t.Errorf("Label(2) = %q", got)
	}
	if got := filtered.Label(0); got != "?" {
		t.Errorf("Label of filtered-out node = %q, want ?", got)
	}
}

func TestSnapshotFromGraph(t *testing.T) {
	g := &kg.Graph{
		Nodes: []kg.Node{
			{ID: 0, Name: "C1", Type: "Feedstock Category"},
			{ID: 1, Name: "CO2", Type: "Feedstock", Category: "C1"},
		},
		Links: []kg.Edge{{Source: 0, Target: 1, Relation: "Feedstock category->Feedstock"}},
	}
	snap := SnapshotFromGraph(g)
	if snap.Nodes[1].Category != "C1" {
		t.Errorf("category not carried over: %+v", snap.Nodes[1])
	}
	if len(snap.Adj[0]) != 1 || snap.Adj[0][0] != 1 {
		t.Errorf("unexpected adjacency %v", snap.Adj)
	}
}

func TestSnapshotFromDB(t *testing.T) {
	d, err := db.OpenDB(filepath.Join(t.TempDir(), "kg.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	g := kg.Graph{
		Nodes: []kg.Node{
			{ID: 0, Name: "Ni", Type: "Catalyst", Category: "Metal"},
			{ID: 1, Name: "CH4", Type: "Product"},
		},
		Links: []kg.Edge{
			{Source: 0, Target: 1, Relation: "Catalyst->Product"},
			{Source: 0, Target: 1, Relation: "Catalyst->Product"},
		},
	}
	if _, err := d.SaveGraph(&kg.Result{Graph: g}, db.RunInfo{Source: "test"}); err != nil {
		t.Fatal(err)
	}

	snap, err := SnapshotFromDB(d)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Nodes) != 2 || len(snap.Edges) != 2 {
		t.Fatalf("expected 2 nodes and 2 edges, got %d and %d", len(snap.Nodes), len(snap.Edges))
	}
	if snap.Nodes[0].Category != "Metal" {
		t.Errorf("expected category Metal, got %q", snap.Nodes[0].Category)
	}
}

// --- UnionFind Tests ---

func TestUnionFind(t *testing.T) {
	uf := NewUnionFind(5)
	if uf.Count() != 5 {
		t.Fatalf("expected 5 components, got %d", uf.Count())
	}
	if !uf.Union(0, 1) || !uf.Union(1, 2) {
		t.Error("first unions should merge")
	}
	if uf.Union(0, 2) {
		t.Error("0 and 2 are already joined")
	}
	if uf.Find(0) != uf.Find(2) {
		t.Error("0 and 2 should share a root")
	}
	if uf.Count() != 3 {
		t.Errorf("expected 3 components, got %d", uf.Count())
	}
	total := 0
	for _, s := range uf.ComponentSizes() {
		total += s
	}
	if total != 5 {
		t.Errorf("component sizes should sum to 5, got %d", total)
	}
}

// --- Topology Tests ---

func TestTopology_EmptyGraph(t *testing.T) {
	snap := NewSnapshot(nil, nil)
	r := ComputeTopology(snap, 4, 10)
	if r.TotalNodes != 0 || r.TotalEdges != 0 || r.NumComponents != 0 {
		t.Errorf("empty graph should have all zeros, got nodes=%d edges=%d components=%d",
			r.TotalNodes, r.TotalEdges, r.NumComponents)
	}
	if len(r.DegreeHistogram) != 7 {
		t.Errorf("expected 7 histogram buckets, got %d", len(r.DegreeHistogram))
	}
}

func TestTopology_SingleComponent(t *testing.T) {
	snap := quickSnapshot(5, [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}})
	r := ComputeTopology(snap, 4, 10)
	if r.NumComponents != 1 {
		t.Errorf("expected 1 component, got %d", r.NumComponents)
	}
	if r.LargestComponent != 5 {
		t.Errorf("expected largest=5, got %d", r.LargestComponent)
	}
	if r.OrphanCount != 0 {
		t.Errorf("expected 0 orphans, got %d", r.OrphanCount)
	}
}

func TestTopology_TwoComponents(t *testing.T) {
	snap := quickSnapshot(5, [][2]int{{0, 1}, {1, 2}, {3, 4}})
	r := ComputeTopology(snap, 4, 10)
	if r.NumComponents != 2 {
		t.Errorf("expected 2 components, got %d", r.NumComponents)
	}
	if r.LargestComponent != 3 {
		t.Errorf("expected largest=3, got %d", r.LargestComponent)
	}
	if r.SmallestComponent != 2 {
		t.Errorf("expected smallest=2, got %d", r.SmallestComponent)
	}
}

func TestTopology_ParallelEdges(t *testing.T) {
	snap := quickSnapshot(2, [][2]int{{0, 1}, {0, 1}, {0, 1}})
	r := ComputeTopology(snap, 4, 10)
	if r.TotalEdges != 3 {
		t.Errorf("expected 3 edges, got %d", r.TotalEdges)
	}
	if r.DistinctEdges != 1 {
		t.Errorf("expected 1 distinct edge, got %d", r.DistinctEdges)
	}
	// Both endpoints have degree 3, bucket "2-3".
	if r.DegreeHistogram[2].Count != 2 {
		t.Errorf("expected 2 nodes in 2-3 bucket, got %+v", r.DegreeHistogram)
	}
}

func TestOrphan_Detection(t *testing.T) {
	snap := quickSnapshot(3, [][2]int{{0, 1}})
	r := ComputeTopology(snap, 4, 10)
	if r.OrphanCount != 1 {
		t.Errorf("expected 1 orphan, got %d", r.OrphanCount)
	}
	if len(r.OrphanIDs) != 1 || r.OrphanIDs[0] != 2 {
		t.Errorf("node 2 should be the orphan, got %v", r.OrphanIDs)
	}
}

func TestHub_Detection(t *testing.T) {
	snap := quickSnapshot(6, [][2]int{{0, 1}, {0, 2}, {0, 3}, {0, 4}, {5, 0}})
	r := ComputeTopology(snap, 4, 10)
	if len(r.Hubs) != 1 {
		t.Fatalf("expected 1 hub, got %d", len(r.Hubs))
	}
	hub := r.Hubs[0]
	if hub.ID != 0 || hub.Name != "A" {
		t.Errorf("expected node 0 as hub, got %+v", hub)
	}
	if hub.Degree != 5 || hub.OutDegree != 4 || hub.InDegree != 1 {
		t.Errorf("unexpected degrees: %+v", hub)
	}
}

func TestTopology_NodeTypes(t *testing.T) {
	snap := NewSnapshot([]*NodeInfo{
		{ID: 0, Name: "Ni", NodeType: "Catalyst"},
		{ID: 1, Name: "Fe", NodeType: "Catalyst"},
		{ID: 2, Name: "CH4", NodeType: "Product"},
	}, nil)
	r := ComputeTopology(snap, 4, 10)
	if len(r.NodeTypes) != 2 || r.NodeTypes[0] != (TypeCount{Type: "Catalyst", Count: 2}) {
		t.Errorf("unexpected node types: %+v", r.NodeTypes)
	}
}

// --- Tarjan Tests ---

func TestTarjan_Bridge(t *testing.T) {
	snap := quickSnapshot(3, [][2]int{{0, 1}, {1, 2}})
	r := ComputeBridges(snap)
	if r.BridgeCount != 2 {
		t.Errorf("expected 2 bridges, got %d", r.BridgeCount)
	}
	if r.APCount != 1 || r.ArticulationPoints[0].ID != 1 {
		t.Errorf("node 1 should be the only AP, got %+v", r.ArticulationPoints)
	}
}

func TestTarjan_CycleNoBridges(t *testing.T) {
	snap := quickSnapshot(3, [][2]int{{0, 1}, {1, 2}, {2, 0}})
	r := ComputeBridges(snap)
	if r.BridgeCount != 0 {
		t.Errorf("triangle should have 0 bridges, got %d", r.BridgeCount)
	}
	if r.APCount != 0 {
		t.Errorf("triangle should have 0 APs, got %d", r.APCount)
	}
}

func TestTarjan_TwoCyclesJoined(t *testing.T) {
	snap := quickSnapshot(6, [][2]int{
		{0, 1}, {1, 2}, {2, 0}, // triangle 1
		{3, 4}, {4, 5}, {5, 3}, // triangle 2
		{2, 3}, // bridge
	})
	r := ComputeBridges(snap)
	if r.BridgeCount != 1 {
		t.Errorf("expected 1 bridge (2-3), got %d", r.BridgeCount)
	}
	apIDs := make(map[int]bool)
	for _, ap := range r.ArticulationPoints {
		apIDs[ap.ID] = true
	}
	if len(apIDs) != 2 || !apIDs[2] || !apIDs[3] {
		t.Errorf("2 and 3 should be the APs, got %v", apIDs)
	}
}

func TestTarjan_ParallelEdgesCollapsed(t *testing.T) {
	snap := quickSnapshot(2, [][2]int{{0, 1}, {1, 0}})
	r := ComputeBridges(snap)
	if r.BridgeCount != 1 {
		t.Errorf("parallel edges collapse to one bridge, got %d", r.BridgeCount)
	}
	b := r.BridgeEdges[0]
	if b.SourceName == b.TargetName {
		t.Errorf("bridge endpoints should differ: %+v", b)
	}
}

// --- Health Tests ---

func TestHealthScore_Range(t *testing.T) {
	// All orphans
	snap := quickSnapshot(3, nil)
	r := Analyze(snap, DefaultConfig())
	if r.HealthScore < 0 || r.HealthScore > 1 {
		t.Errorf("health out of range: %f", r.HealthScore)
	}

	// Connected
	snap2 := quickSnapshot(2, [][2]int{{0, 1}})
	r2 := Analyze(snap2, nil)
	if r2.HealthScore < 0 || r2.HealthScore > 1 {
		t.Errorf("health out of range: %f", r2.HealthScore)
	}
}

func TestHealthScore_Perfect(t *testing.T) {
	snap := quickSnapshot(3, [][2]int{{0, 1}, {1, 2}, {2, 0}})
	r := Analyze(snap, &AnalyzerConfig{HubThreshold: 10, TopN: 50})
	if r.HealthScore < 0.95 {
		t.Errorf("perfect graph should have health ~1.0, got %f", r.HealthScore)
	}
}
