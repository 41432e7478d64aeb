package medicine

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SQLiteStore implements Store on a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// Compile-time interface check.
var _ Store = (*SQLiteStore)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS medicines (
    seq           INTEGER PRIMARY KEY AUTOINCREMENT,
    id            TEXT    NOT NULL UNIQUE,
    name          TEXT    NOT NULL,
    dosage        TEXT    NOT NULL DEFAULT '',
    time          TEXT    NOT NULL,
    taken         INTEGER NOT NULL DEFAULT 0,
    food_relation TEXT    NOT NULL DEFAULT 'any',
    created_at    TEXT    NOT NULL,
    updated_at    TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS meta (
    key   TEXT    PRIMARY KEY,
    value INTEGER NOT NULL
);

INSERT OR IGNORE INTO meta (key, value) VALUES ('revision', 0);
`

// NewSQLiteStore creates the medicine tables on db if needed.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("medicine schema: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

const selectColumns = `SELECT id, name, dosage, time, taken, food_relation FROM medicines`

type scanner interface {
	Scan(dest ...any) error
}

func scanMedicine(row scanner) (Medicine, error) {
	var m Medicine
	var taken int
	var food string
	if err := row.Scan(&m.ID, &m.Name, &m.Dosage, &m.Time, &taken, &food); err != nil {
		return Medicine{}, err
	}
	m.Taken = taken != 0
	m.FoodRelation = FoodRelation(food)
	return m, nil
}

// List returns every medicine in insertion order.
func (s *SQLiteStore) List() ([]Medicine, error) {
	rows, err := s.db.Query(selectColumns + ` ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meds := []Medicine{}
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, err
		}
		meds = append(meds, m)
	}
	return meds, rows.Err()
}

func (s *SQLiteStore) Get(id string) (Medicine, error) {
	return get(s.db, id)
}

func get(q interface {
	QueryRow(query string, args ...any) *sql.Row
}, id string) (Medicine, error) {
	m, err := scanMedicine(q.QueryRow(selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Medicine{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return m, err
}

// Add stores a new, untaken medicine with a fresh id.
func (s *SQLiteStore) Add(in Input) (Medicine, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return Medicine{}, err
	}
	m := Medicine{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Dosage:       in.Dosage,
		Time:         in.Time,
		FoodRelation: in.FoodRelation,
	}
	err := s.mutate(func(tx *sql.Tx, ts string) error {
		return insert(tx, m, ts)
	})
	if err != nil {
		return Medicine{}, err
	}
	return m, nil
}

func insert(tx *sql.Tx, m Medicine, ts string) error {
	taken := 0
	if m.Taken {
		taken = 1
	}
	_, err := tx.Exec(
		`INSERT INTO medicines (id, name, dosage, time, taken, food_relation, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Dosage, m.Time, taken, string(m.FoodRelation), ts, ts,
	)
	return err
}

// Update replaces the editable fields of id, keeping its id and taken flag.
func (s *SQLiteStore) Update(id string, in Input) (Medicine, error) {
	in = in.Normalize()
	if err := in.Validate(); err != nil {
		return Medicine{}, err
	}
	var out Medicine
	err := s.mutate(func(tx *sql.Tx, ts string) error {
		res, err := tx.Exec(
			`UPDATE medicines SET name = ?, dosage = ?, time = ?, food_relation = ?, updated_at = ?
			 WHERE id = ?`,
			in.Name, in.Dosage, in.Time, string(in.FoodRelation), ts, id,
		)
		if err := affected(res, err, id); err != nil {
			return err
		}
		out, err = get(tx, id)
		return err
	})
	return out, err
}

// ToggleTaken flips the taken flag of id.
func (s *SQLiteStore) ToggleTaken(id string) (Medicine, error) {
	var out Medicine
	err := s.mutate(func(tx *sql.Tx, ts string) error {
		res, err := tx.Exec(
			`UPDATE medicines SET taken = 1 - taken, updated_at = ? WHERE id = ?`, ts, id)
		if err := affected(res, err, id); err != nil {
			return err
		}
		out, err = get(tx, id)
		return err
	})
	return out, err
}

func (s *SQLiteStore) Delete(id string) error {
	return s.mutate(func(tx *sql.Tx, _ string) error {
		res, err := tx.Exec(`DELETE FROM medicines WHERE id = ?`, id)
		return affected(res, err, id)
	})
}

func (s *SQLiteStore) ResetTaken() (int, error) {
	var n int64
	err := s.mutate(func(tx *sql.Tx, ts string) error {
		res, err := tx.Exec(`UPDATE medicines SET taken = 0, updated_at = ? WHERE taken != 0`, ts)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	return int(n), err
}

// Import adds meds as-is, keeping their ids and taken flags. Entries
// without an id get a fresh one; entries whose id already exists are
// updated in place and keep their list position. Times are not validated,
// so imported medicines may be unschedulable.
func (s *SQLiteStore) Import(meds []Medicine) (int, error) {
	err := s.mutate(func(tx *sql.Tx, ts string) error {
		for _, m := range meds {
			if strings.TrimSpace(m.Name) == "" {
				return fmt.Errorf("%w: name is required", ErrInvalid)
			}
			if m.ID == "" {
				m.ID = uuid.NewString()
			}
			if m.FoodRelation == "" {
				m.FoodRelation = Any
			}
			if !m.FoodRelation.Valid() {
				return fmt.Errorf("%w: %s: food relation %q (want before, with, after or any)", ErrInvalid, m.Name, m.FoodRelation)
			}
			taken := 0
			if m.Taken {
				taken = 1
			}
			res, err := tx.Exec(
				`UPDATE medicines SET name = ?, dosage = ?, time = ?, taken = ?, food_relation = ?, updated_at = ?
				 WHERE id = ?`,
				m.Name, m.Dosage, m.Time, taken, string(m.FoodRelation), ts, m.ID,
			)
			if err != nil {
				return err
			}
			if n, err := res.RowsAffected(); err != nil {
				return err
			} else if n > 0 {
				continue
			}
			if err := insert(tx, m, ts); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(meds), nil
}

func (s *SQLiteStore) Revision() (int64, error) {
	var rev int64
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'revision'`).Scan(&rev)
	return rev, err
}

// mutate runs fn in a transaction and bumps the revision in the same
// transaction.
func (s *SQLiteStore) mutate(fn func(tx *sql.Tx, ts string) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := fn(tx, s.now().Format(time.RFC3339)); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE meta SET value = value + 1 WHERE key = 'revision'`); err != nil {
		return err
	}
	return tx.Commit()
}

func affected(res sql.Result, err error, id string) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
