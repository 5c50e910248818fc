package db

import "database/sql"

// scanNode scans a row into a Node. The row must have all 5 columns in standard order.
func scanNode(scanner interface{ Scan(dest ...any) error }) (Node, error) {
	var n Node
	var category sql.NullString
	err := scanner.Scan(&n.ID, &n.Name, &n.NodeType, &category, &n.RunID)
	if category.Valid {
		c := category.String
		n.Category = &c
	}
	return n, err
}

// AllNodes returns all nodes ordered by id, with titles and DOIs loaded in
// insertion order
func (d *DB) AllNodes() ([]Node, error) {
	rows, err := d.conn.Query(`
		SELECT id, name, type, category, run_id
		FROM nodes ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []Node
	index := make(map[int]int)
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		index[n.ID] = len(nodes)
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := d.loadProvenance(`SELECT node_id, title FROM node_titles ORDER BY node_id, position`, func(id int, v string) {
		if i, ok := index[id]; ok {
			nodes[i].Titles = append(nodes[i].Titles, v)
		}
	}); err != nil {
		return nil, err
	}
	if err := d.loadProvenance(`SELECT node_id, doi FROM node_dois ORDER BY node_id, position`, func(id int, v string) {
		if i, ok := index[id]; ok {
			nodes[i].DOIs = append(nodes[i].DOIs, v)
		}
	}); err != nil {
		return nil, err
	}
	return nodes, nil
}

func (d *DB) loadProvenance(query string, add func(id int, v string)) error {
	rows, err := d.conn.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		var v string
		if err := rows.Scan(&id, &v); err != nil {
			return err
		}
		add(id, v)
	}
	return rows.Err()
}
