// Package export writes a conversion result as JSON artifacts.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"reactionkg/internal/kg"
)

const (
	NodesFile      = "nodes.json"
	LinksFile      = "links.json"
	GraphFile      = "graph.json"
	CategoriesFile = "categories.json"
)

// Artifact is one output file and the value serialized into it.
type Artifact struct {
	Name  string
	Value any
}

// Artifacts lists the four files produced for a result.
func Artifacts(res *kg.Result) []Artifact {
	return []Artifact{
		{Name: NodesFile, Value: res.Graph.Nodes},
		{Name: LinksFile, Value: res.Graph.Links},
		{Name: GraphFile, Value: res.Graph},
		{Name: CategoriesFile, Value: res.Categories},
	}
}

// WriteAll creates dir and writes every artifact into it, returning the
// written paths in artifact order. Each file is replaced atomically, but the
// set is not: on error some files may already hold the new result.
func WriteAll(dir string, res *kg.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	artifacts := Artifacts(res)
	paths := make([]string, len(artifacts))

	var g errgroup.Group
	for i, a := range artifacts {
		path := filepath.Join(dir, a.Name)
		paths[i] = path
		g.Go(func() error {
			data, err := Marshal(a.Value)
			if err != nil {
				return fmt.Errorf("encoding %s: %w", a.Name, err)
			}
			if err := writeFileAtomic(path, data); err != nil {
				return fmt.Errorf("writing %s: %w", a.Name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// Marshal encodes v as two-space indented JSON without HTML escaping.
// Non-ASCII text is written as-is.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadGraph loads a graph.json artifact.
func ReadGraph(path string) (*kg.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var g kg.Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &g, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
