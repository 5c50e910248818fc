package db

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"reactionkg/internal/kg"
)

// setupTestDB opens a fresh database file with the schema applied.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := OpenDB(filepath.Join(t.TempDir(), "kg.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func sampleResult() *kg.Result {
	g := kg.Graph{
		Nodes: []kg.Node{
			{ID: 0, Name: "C1", Type: "Feedstock Category"},
			{ID: 1, Name: "CO2", Type: "Feedstock", Category: "C1", Titles: []string{"Paper A", "Paper B"}, DOIs: []string{"10.1/a"}},
			{ID: 2, Name: "Ni", Type: "Catalyst", Titles: []string{"Paper B"}},
		},
		Links: []kg.Edge{
			{Source: 0, Target: 1, Relation: "Feedstock category->Feedstock"},
			{Source: 2, Target: 1, Relation: "Catalyst->Feedstock"},
			{Source: 2, Target: 1, Relation: "Catalyst->Feedstock"},
		},
	}
	return &kg.Result{Graph: g, Summary: kg.Summarize(g, 2)}
}

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestOpenDB_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kg.db")
	for i := 0; i < 2; i++ {
		d, err := OpenDB(path)
		if err != nil {
			t.Fatalf("open #%d: %v", i, err)
		}
		d.Close()
	}
}

func TestSaveGraph_RoundTrip(t *testing.T) {
	d := setupTestDB(t)
	res := sampleResult()

	runID, err := d.SaveGraph(res, RunInfo{Source: "reactions.xlsx", Now: fixedClock(1000)})
	if err != nil {
		t.Fatalf("SaveGraph: %v", err)
	}
	if runID == "" {
		t.Fatal("expected a run id")
	}

	got, err := d.Graph()
	if err != nil {
		t.Fatalf("Graph: %v", err)
	}
	if !reflect.DeepEqual(*got, res.Graph) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", *got, res.Graph)
	}
}

func TestAllNodes_Provenance(t *testing.T) {
	d := setupTestDB(t)
	runID, err := d.SaveGraph(sampleResult(), RunInfo{Source: "x.csv"})
	if err != nil {
		t.Fatal(err)
	}

	nodes, err := d.AllNodes()
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(nodes))
	}
	if nodes[0].Category != nil {
		t.Errorf("category node should have no category, got %q", *nodes[0].Category)
	}
	if nodes[1].Category == nil || *nodes[1].Category != "C1" {
		t.Errorf("CO2 category = %v, want C1", nodes[1].Category)
	}
	if want := []string{"Paper A", "Paper B"}; !reflect.DeepEqual(nodes[1].Titles, want) {
		t.Errorf("titles = %v, want %v", nodes[1].Titles, want)
	}
	if nodes[2].DOIs != nil {
		t.Errorf("Ni should have no DOIs, got %v", nodes[2].DOIs)
	}
	for _, n := range nodes {
		if n.RunID != runID {
			t.Errorf("node %d run_id = %q, want %q", n.ID, n.RunID, runID)
		}
	}
}

func TestAllEdges_KeepsMultiplicityAndOrder(t *testing.T) {
	d := setupTestDB(t)
	if _, err := d.SaveGraph(sampleResult(), RunInfo{Source: "x.csv"}); err != nil {
		t.Fatal(err)
	}
	edges, err := d.AllEdges()
	if err != nil {
		t.Fatal(err)
	}
	if len(edges) != 3 {
		t.Fatalf("expected 3 edges, got %d", len(edges))
	}
	for i, e := range edges {
		if e.Seq != i {
			t.Errorf("edge %d has seq %d", i, e.Seq)
		}
	}
	if edges[1].SourceID != edges[2].SourceID || edges[1].Relation != edges[2].Relation {
		t.Error("duplicate edges should both be stored")
	}
}

func TestSaveGraph_ReplacesPreviousGraph(t *testing.T) {
	d := setupTestDB(t)
	if _, err := d.SaveGraph(sampleResult(), RunInfo{Source: "first.xlsx", Now: fixedClock(1000)}); err != nil {
		t.Fatal(err)
	}

	small := kg.Graph{
		Nodes: []kg.Node{{ID: 0, Name: "Ni", Type: "Catalyst"}, {ID: 1, Name: "CH4", Type: "Product"}},
		Links: []kg.Edge{{Source: 0, Target: 1, Relation: "Catalyst->Product"}},
	}
	second, err := d.SaveGraph(&kg.Result{Graph: small, Summary: kg.Summarize(small, 1)},
		RunInfo{Source: "second.xlsx", Now: fixedClock(2000)})
	if err != nil {
		t.Fatal(err)
	}

	got, err := d.Graph()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(*got, small) {
		t.Errorf("expected only the second graph, got %+v", *got)
	}

	runs, err := d.Runs(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != second || runs[0].Source != "second.xlsx" {
		t.Errorf("newest run first, got %+v", runs[0])
	}
	if runs[1].NodeCount != 3 || runs[1].EdgeCount != 3 || runs[1].ProvenanceCount != 2 || runs[1].RowCount != 2 {
		t.Errorf("unexpected counts on first run: %+v", runs[1])
	}

	limited, err := d.Runs(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Errorf("limit 1 returned %d runs", len(limited))
	}
}

func TestSaveGraph_RollsBackOnError(t *testing.T) {
	d := setupTestDB(t)
	if _, err := d.SaveGraph(sampleResult(), RunInfo{Source: "ok.xlsx"}); err != nil {
		t.Fatal(err)
	}

	// An edge pointing at a missing node violates the foreign key.
	bad := kg.Graph{
		Nodes: []kg.Node{{ID: 0, Name: "Ni", Type: "Catalyst"}},
		Links: []kg.Edge{{Source: 0, Target: 9, Relation: "Catalyst->Product"}},
	}
	if _, err := d.SaveGraph(&kg.Result{Graph: bad}, RunInfo{Source: "bad.xlsx"}); err == nil {
		t.Fatal("expected foreign key failure")
	}

	got, err := d.Graph()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(*got, sampleResult().Graph) {
		t.Error("failed save should leave the previous graph intact")
	}
	runs, _ := d.Runs(0)
	if len(runs) != 1 {
		t.Errorf("failed save should not record a run, got %d runs", len(runs))
	}
}

func TestGraph_Empty(t *testing.T) {
	d := setupTestDB(t)
	g, err := d.Graph()
	if err != nil {
		t.Fatal(err)
	}
	if g.Nodes == nil || g.Links == nil || len(g.Nodes) != 0 || len(g.Links) != 0 {
		t.Errorf("expected empty non-nil graph, got %+v", g)
	}
}
