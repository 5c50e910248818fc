package db

// Runs returns the most recent conversion runs, newest first. limit <= 0
// returns all of them.
func (d *DB) Runs(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := d.conn.Query(`
		SELECT id, source, created_at, row_count, node_count, edge_count, provenance_count
		FROM runs ORDER BY created_at DESC, rowid DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Source, &r.CreatedAt, &r.RowCount,
			&r.NodeCount, &r.EdgeCount, &r.ProvenanceCount); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
