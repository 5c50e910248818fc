package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"reactionkg/internal/export"
	"reactionkg/internal/graph"
)

var (
	analyzeJSON         bool
	analyzeGraphFile    string
	analyzeTypes        []string
	analyzeTopN         int
	analyzeHubThreshold int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze graph structure: topology, bridges, health score",
	Long: `Reports components, orphans, degree distribution, hubs, articulation points
and bridge edges of a converted graph. The graph is read from graph.json when
--graph is given, otherwise from the sqlite store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot()
		if err != nil {
			return err
		}

		if len(analyzeTypes) > 0 {
			snap = snap.FilterToTypes(analyzeTypes)
		}

		config := &graph.AnalyzerConfig{
			HubThreshold: analyzeHubThreshold,
			TopN:         analyzeTopN,
		}

		report := graph.Analyze(snap, config)

		if analyzeJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		printHumanReadable(cmd.OutOrStdout(), report, snap)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Output as JSON")
	analyzeCmd.Flags().StringVar(&analyzeGraphFile, "graph", "", "Read graph.json instead of the database")
	analyzeCmd.Flags().StringSliceVar(&analyzeTypes, "type", nil, "Scope analysis to these node types (repeatable)")
	analyzeCmd.Flags().IntVar(&analyzeTopN, "top-n", 10, "Number of top items to show per section")
	analyzeCmd.Flags().IntVar(&analyzeHubThreshold, "hub-threshold", 10, "Minimum degree to consider a node a hub")
	rootCmd.AddCommand(analyzeCmd)
}

func loadSnapshot() (*graph.GraphSnapshot, error) {
	if analyzeGraphFile != "" {
		g, err := export.ReadGraph(analyzeGraphFile)
		if err != nil {
			return nil, fmt.Errorf("loading graph: %w", err)
		}
		return graph.SnapshotFromGraph(g), nil
	}

	d, err := OpenDatabase(appConfig)
	if err != nil {
		return nil, err
	}
	defer d.Close()

	snap, err := graph.SnapshotFromDB(d)
	if err != nil {
		return nil, fmt.Errorf("loading graph: %w", err)
	}
	return snap, nil
}

func printHumanReadable(w io.Writer, report *graph.AnalysisReport, snap *graph.GraphSnapshot) {
	// Health bar
	barLen := int(report.HealthScore * 20)
	if barLen > 20 {
		barLen = 20
	}
	bar := strings.Repeat("█", barLen) + strings.Repeat("░", 20-barLen)
	fmt.Fprintf(w, "\n  Graph Health: %.0f%%  [%s]\n", report.HealthScore*100, bar)
	fmt.Fprintf(w, "  breakdown: connectivity=%.2f components=%.2f fragility=%.2f\n\n",
		report.HealthBreakdown.Connectivity,
		report.HealthBreakdown.Components,
		report.HealthBreakdown.Fragility)

	// Topology
	t := report.Topology
	fmt.Fprintln(w, "  TOPOLOGY")
	fmt.Fprintln(w, "  ────────────────────────────────────────")
	fmt.Fprintf(w, "  Nodes: %d  Edges: %d (%d distinct)  Components: %d\n",
		t.TotalNodes, t.TotalEdges, t.DistinctEdges, t.NumComponents)
	fmt.Fprintf(w, "  Largest component: %d  Smallest: %d\n", t.LargestComponent, t.SmallestComponent)

	if len(t.NodeTypes) > 0 {
		fmt.Fprintln(w, "\n  Node types:")
		for _, tc := range t.NodeTypes {
			fmt.Fprintf(w, "    %5d  %s\n", tc.Count, tc.Type)
		}
	}

	if t.OrphanCount > 0 {
		fmt.Fprintf(w, "\n  Orphans: %d disconnected nodes\n", t.OrphanCount)
		limit := min(5, len(t.OrphanIDs))
		for _, id := range t.OrphanIDs[:limit] {
			fmt.Fprintf(w, "    - #%d %s\n", id, truncTitle(snap.Label(id), 50))
		}
		if t.OrphanCount > 5 {
			fmt.Fprintf(w, "    ... and %d more\n", t.OrphanCount-5)
		}
	}

	// Degree distribution
	fmt.Fprintln(w, "\n  Degree distribution:")
	for _, b := range t.DegreeHistogram {
		if b.Count > 0 {
			barWidth := int(math.Log2(float64(b.Count))) + 2
			if barWidth < 1 {
				barWidth = 1
			}
			fmt.Fprintf(w, "    %5s: %4d  %s\n", b.Label, b.Count, strings.Repeat("=", barWidth))
		}
	}

	// Hubs
	if len(t.Hubs) > 0 {
		fmt.Fprintln(w, "\n  Top hubs (degree > threshold):")
		for _, hub := range t.Hubs {
			fmt.Fprintf(w, "    #%d degree=%d (in=%d, out=%d)  %s [%s]\n",
				hub.ID, hub.Degree, hub.InDegree, hub.OutDegree, truncTitle(hub.Name, 40), hub.Type)
		}
	}

	// Bridges
	br := report.Bridges
	if br.APCount > 0 || br.BridgeCount > 0 {
		fmt.Fprintln(w, "\n  STRUCTURAL FRAGILITY")
		fmt.Fprintln(w, "  ────────────────────────────────────────")
		if br.APCount > 0 {
			fmt.Fprintf(w, "  %d articulation points (removal disconnects graph):\n", br.APCount)
			limit := min(10, len(br.ArticulationPoints))
			for _, ap := range br.ArticulationPoints[:limit] {
				fmt.Fprintf(w, "    #%d (degree %d)  %s [%s]\n",
					ap.ID, ap.Degree, truncTitle(ap.Name, 40), ap.Type)
			}
		}
		if br.BridgeCount > 0 {
			fmt.Fprintf(w, "  %d bridge edges (removal disconnects graph):\n", br.BridgeCount)
			limit := min(10, len(br.BridgeEdges))
			for _, be := range br.BridgeEdges[:limit] {
				fmt.Fprintf(w, "    %s -- %s\n", truncTitle(be.SourceName, 30), truncTitle(be.TargetName, 30))
			}
		}
	}

	fmt.Fprintln(w)
}

func truncTitle(s string, max int) string {
	if len(s) <= max {
		return s
	}
	// Cut on a rune boundary
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
