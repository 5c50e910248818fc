package db

// scanEdge scans a row into an Edge. The row must have all 4 columns in standard order.
func scanEdge(scanner interface{ Scan(dest ...any) error }) (Edge, error) {
	var e Edge
	err := scanner.Scan(&e.Seq, &e.SourceID, &e.TargetID, &e.Relation)
	return e, err
}

// AllEdges returns all edges in emission order
func (d *DB) AllEdges() ([]Edge, error) {
	rows, err := d.conn.Query(`
		SELECT seq, source_id, target_id, relation
		FROM edges ORDER BY seq
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []Edge
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}
