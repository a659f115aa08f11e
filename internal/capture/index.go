package capture

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Index is a small sqlite-backed table of capture metadata, letting the
// server answer "list captures for host X" or "captures since time T"
// without scanning every .json sidecar file in the capture directory. The
// teacher never wired its unused mattn/go-sqlite3 indirect dependency to
// anything; this is its first real caller.
type Index struct {
	db *sql.DB
}

// OpenIndex opens (creating if necessary) the sqlite database at path and
// ensures the captures table exists.
func OpenIndex(path string) (*Index, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening capture index: %w", err)
	}
	schema := `
	CREATE TABLE IF NOT EXISTS captures (
		filename       TEXT PRIMARY KEY,
		host           TEXT NOT NULL,
		port           INTEGER NOT NULL,
		protocol       TEXT NOT NULL,
		charset        TEXT NOT NULL,
		start_time     DATETIME NOT NULL,
		end_time       DATETIME,
		bytes_captured INTEGER NOT NULL DEFAULT 0
	);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating captures table: %w", err)
	}
	return &Index{db: db}, nil
}

// Close releases the underlying database handle.
func (idx *Index) Close() error { return idx.db.Close() }

// Insert records a newly started capture.
func (idx *Index) Insert(m Metadata) error {
	_, err := idx.db.Exec(
		`INSERT OR REPLACE INTO captures
		 (filename, host, port, protocol, charset, start_time, end_time, bytes_captured)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Filename, m.Host, m.Port, m.Protocol, m.Charset, m.StartTime, nullableTime(m.EndTime), m.BytesCaptured,
	)
	return err
}

// Update refreshes a capture row, typically once it has ended.
func (idx *Index) Update(m Metadata) error {
	_, err := idx.db.Exec(
		`UPDATE captures SET end_time = ?, bytes_captured = ? WHERE filename = ?`,
		nullableTime(m.EndTime), m.BytesCaptured, m.Filename,
	)
	return err
}

// Delete removes a capture's index row.
func (idx *Index) Delete(filename string) error {
	_, err := idx.db.Exec(`DELETE FROM captures WHERE filename = ?`, filename)
	return err
}

// ByHost returns captures recorded against a given host, most recent first.
func (idx *Index) ByHost(host string) ([]Metadata, error) {
	rows, err := idx.db.Query(
		`SELECT filename, host, port, protocol, charset, start_time, end_time, bytes_captured
		 FROM captures WHERE host = ? ORDER BY start_time DESC`, host)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Metadata
	for rows.Next() {
		var m Metadata
		var end sql.NullTime
		if err := rows.Scan(&m.Filename, &m.Host, &m.Port, &m.Protocol, &m.Charset, &m.StartTime, &end, &m.BytesCaptured); err != nil {
			return nil, err
		}
		if end.Valid {
			m.EndTime = end.Time
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func nullableTime(t interface{ IsZero() bool }) interface{} {
	if t.IsZero() {
		return nil
	}
	return t
}
