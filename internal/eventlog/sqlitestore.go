package eventlog

import (
	"database/sql"
	"fmt"
	"time"
)

// SQLiteStore implements Store using a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS alerts (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    timestamp   TEXT    NOT NULL,
    kind        INTEGER NOT NULL,
    medicine_id TEXT    NOT NULL DEFAULT '',
    name        TEXT    NOT NULL DEFAULT '',
    dosage      TEXT    NOT NULL DEFAULT '',
    profile     TEXT    NOT NULL DEFAULT '',
    notified    INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_alerts_timestamp ON alerts(timestamp DESC);
CREATE INDEX IF NOT EXISTS idx_alerts_name      ON alerts(name);
`

// NewSQLiteStore creates the alert tables on db if needed.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("eventlog schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Log(e Entry) error {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	notified := 0
	if e.Notified {
		notified = 1
	}
	_, err := s.db.Exec(
		`INSERT INTO alerts (timestamp, kind, medicine_id, name, dosage, profile, notified)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Time.Format(time.RFC3339), int(e.Kind), e.MedicineID, e.Name, e.Dosage, e.Profile, notified,
	)
	return err
}

func (s *SQLiteStore) Entries(days int) ([]Entry, error) {
	query := `SELECT timestamp, kind, medicine_id, name, dosage, profile, notified FROM alerts`
	var args []any
	if days > 0 {
		query += ` WHERE timestamp >= ?`
		args = append(args, DayCutoff(days).Format(time.RFC3339))
	}
	query += ` ORDER BY id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var tsStr string
		var kind, notified int
		var e Entry
		if err := rows.Scan(&tsStr, &kind, &e.MedicineID, &e.Name, &e.Dosage, &e.Profile, &notified); err != nil {
			return nil, err
		}
		ts, err := time.Parse(time.RFC3339, tsStr)
		if err != nil {
			continue
		}
		e.Time = ts
		e.Kind = EntryKind(kind)
		e.Notified = notified != 0
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) Summaries(days int) ([]Summary, error) {
	query := `SELECT name,
		SUM(CASE WHEN kind = ? THEN 1 ELSE 0 END),
		SUM(CASE WHEN kind = ? THEN 1 ELSE 0 END)
		FROM alerts WHERE kind IN (?, ?)`
	args := []any{int(KindFired), int(KindMuted), int(KindFired), int(KindMuted)}
	if days > 0 {
		query += ` AND timestamp >= ?`
		args = append(args, DayCutoff(days).Format(time.RFC3339))
	}
	query += ` GROUP BY name ORDER BY name`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sm Summary
		if err := rows.Scan(&sm.Name, &sm.Fired, &sm.Muted); err != nil {
			return nil, err
		}
		out = append(out, sm)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Clean(days int) (int, error) {
	if days <= 0 {
		return 0, fmt.Errorf("days must be positive, got %d", days)
	}
	res, err := s.db.Exec(`DELETE FROM alerts WHERE timestamp < ?`, DayCutoff(days).Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}
