package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"reactionkg/internal/config"
	"reactionkg/internal/db"
	"reactionkg/internal/export"
	"reactionkg/internal/kg"
	"reactionkg/internal/neo4jdb"
	"reactionkg/internal/rows"
)

var (
	convertInput   string
	convertSheet   string
	convertOut     string
	convertNoNeo4j bool
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a reaction spreadsheet into nodes, links, graph and category JSON",
	Long: `Reads every row of the input sheet, applies the configured category and
relation rules, and writes nodes.json, links.json, graph.json and
categories.json to the output directory.

When a database is configured (--db, $REACTIONKG_DB or store.db) the graph is
also saved there. When neo4j.uri is set the graph is pushed to Neo4j unless
--no-neo4j is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := *appConfig
		cfg.Merge(&config.Config{
			Input:  config.InputConfig{Path: convertInput, Sheet: convertSheet},
			Output: config.OutputConfig{Dir: convertOut},
		})
		if err := cfg.ValidateInput(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		res, err := convert(&cfg)
		if err != nil {
			return err
		}

		paths, err := export.WriteAll(cfg.Output.Dir, res)
		if err != nil {
			return err
		}
		log.Info("wrote artifacts", "dir", cfg.Output.Dir, "files", len(paths))

		if path, err := DiscoverDB(&cfg); err == nil {
			if err := saveToStore(path, cfg.Input.Path, res); err != nil {
				return err
			}
		} else if !errors.Is(err, ErrNoDatabase) {
			return err
		}

		if !convertNoNeo4j {
			if err := pushToNeo4j(cmd, cfg.Neo4j, res); err != nil {
				return err
			}
		}

		printSummary(cmd.OutOrStdout(), res, cfg.Output.Dir)
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVar(&convertInput, "input", "", "Spreadsheet to convert (.xlsx, .xlsm, .csv, .tsv)")
	convertCmd.Flags().StringVar(&convertSheet, "sheet", "", "Sheet name or zero-based index (default: first sheet)")
	convertCmd.Flags().StringVar(&convertOut, "out", "", "Output directory (default: output.dir)")
	convertCmd.Flags().BoolVar(&convertNoNeo4j, "no-neo4j", false, "Skip the Neo4j push even if neo4j.uri is set")
	rootCmd.AddCommand(convertCmd)
}

// convert reads the configured input and builds the graph
func convert(cfg *config.Config) (*kg.Result, error) {
	src, err := rows.Open(cfg.Input.Path, cfg.Input.Sheet)
	if err != nil {
		return nil, err
	}
	records, err := src.Rows()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", cfg.Input.Path, err)
	}
	log.Debug("read rows", "path", cfg.Input.Path, "rows", len(records))

	res := kg.Build(records, cfg.RuleSet())
	log.Info("built graph", "rows", res.Summary.Rows, "nodes", res.Summary.Nodes, "edges", res.Summary.Edges)
	return res, nil
}

func saveToStore(path, source string, res *kg.Result) error {
	d, err := db.OpenDB(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer d.Close()

	runID, err := d.SaveGraph(res, db.RunInfo{Source: source})
	if err != nil {
		return fmt.Errorf("saving graph: %w", err)
	}
	log.Info("saved graph", "db", path, "run", runID)
	return nil
}

func pushToNeo4j(cmd *cobra.Command, cfg config.Neo4jConfig, res *kg.Result) error {
	ctx := cmd.Context()
	client, err := neo4jdb.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	if client == nil {
		return nil
	}
	defer client.Close(ctx)
	return client.PushGraph(ctx, res)
}

func printSummary(w io.Writer, res *kg.Result, dir string) {
	s := res.Summary
	fmt.Fprintf(w, "\n  Converted %d rows\n", s.Rows)
	fmt.Fprintln(w, "  ────────────────────────────────────────")
	fmt.Fprintf(w, "  Nodes: %d  Edges: %d\n", s.Nodes, s.Edges)
	fmt.Fprintf(w, "  Provenance: %d nodes with titles, %d with DOIs, %d with either\n",
		s.NodesWithTitles, s.NodesWithDOIs, s.NodesWithProvenance)

	if len(s.NodesByType) > 0 {
		fmt.Fprintln(w, "\n  Nodes by type:")
		for _, c := range kg.SortedCounts(s.NodesByType) {
			fmt.Fprintf(w, "    %5d  %s\n", c.Count, c.Key)
		}
	}
	if len(s.EdgesByRelation) > 0 {
		fmt.Fprintln(w, "\n  Edges by relation:")
		for _, c := range kg.SortedCounts(s.EdgesByRelation) {
			fmt.Fprintf(w, "    %5d  %s\n", c.Count, c.Key)
		}
	}

	fmt.Fprintf(w, "\n  Output: %s\n\n", dir)
}
