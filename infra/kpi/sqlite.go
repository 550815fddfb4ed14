package kpi

import (
	"database/sql"
	"time"

	core "github.com/haocluo92/well-scheduler/core/kpi/history"
	_ "modernc.org/sqlite"
)

// SQLiteStore persists utilization records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS resource_kpi (
        resource TEXT,
        kind TEXT,
        day INTEGER,
        busy_days INTEGER,
        events INTEGER,
        PRIMARY KEY(resource, day)
    );`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Add inserts or updates the utilization record.
func (s *SQLiteStore) Add(r core.Record) error {
	d := core.Day(r.Date)
	_, err := s.db.Exec(`INSERT INTO resource_kpi (resource, kind, day, busy_days, events)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(resource, day) DO UPDATE SET
            busy_days = busy_days + excluded.busy_days,
            events = events + excluded.events`,
		r.Resource, r.Kind, d.Unix(), r.BusyDays, r.Events)
	return err
}

// Query returns records in the range [start,end].
func (s *SQLiteStore) Query(resource string, start, end time.Time) ([]core.Record, error) {
	start = core.Day(start)
	end = core.Day(end)
	rows, err := s.db.Query(`SELECT resource, kind, day, busy_days, events
        FROM resource_kpi WHERE resource = ? AND day >= ? AND day <= ? ORDER BY day`,
		resource, start.Unix(), end.Unix())
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []core.Record
	for rows.Next() {
		var name, kind string
		var ts int64
		var busy, events int
		if err := rows.Scan(&name, &kind, &ts, &busy, &events); err != nil {
			return nil, err
		}
		res = append(res, core.Record{
			Resource: name,
			Kind:     kind,
			Date:     time.Unix(ts, 0).UTC(),
			BusyDays: busy,
			Events:   events,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }
