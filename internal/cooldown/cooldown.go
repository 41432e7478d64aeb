// Package cooldown stops two medtime processes that share one database
// (for example the tray app and "medtime run") from both alerting for the
// same dose.
package cooldown

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// DefaultWindow is how long a claimed medicine stays claimed.
const DefaultWindow = 2 * time.Minute

// retention is how long old claims are kept before pruning.
const retention = 24 * time.Hour

const schema = `
CREATE TABLE IF NOT EXISTS claims (
    medicine_id TEXT    PRIMARY KEY,
    fired_at    INTEGER NOT NULL
);
`

// Guard records recently fired medicines in the shared database.
type Guard struct {
	db     *sql.DB
	window time.Duration
	log    zerolog.Logger
	now    func() time.Time
}

// New creates the claims table on db if needed.
func New(db *sql.DB, window time.Duration, logger zerolog.Logger) (*Guard, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("cooldown schema: %w", err)
	}
	return &Guard{db: db, window: window, log: logger, now: time.Now}, nil
}

// Claim reports whether the caller should fire the reminder for id. It
// returns false when any process claimed id within the window, and
// otherwise records the claim. The check and the write are one statement,
// so concurrent callers cannot both win. A database error allows the
// reminder (fail-open).
func (g *Guard) Claim(id string) bool {
	now := g.now()
	res, err := g.db.Exec(`
		INSERT INTO claims (medicine_id, fired_at) VALUES (?, ?)
		ON CONFLICT (medicine_id) DO UPDATE SET fired_at = excluded.fired_at
		WHERE claims.fired_at <= ?`,
		id, now.UnixNano(), now.Add(-g.window).UnixNano())
	if err != nil {
		g.log.Warn().Err(err).Str("medicine_id", id).Msg("cooldown: claim")
		return true
	}
	n, err := res.RowsAffected()
	if err != nil {
		g.log.Warn().Err(err).Str("medicine_id", id).Msg("cooldown: claim")
		return true
	}
	if n == 0 {
		return false
	}

	if _, err := g.db.Exec(`DELETE FROM claims WHERE fired_at < ?`, now.Add(-retention).UnixNano()); err != nil {
		g.log.Debug().Err(err).Msg("cooldown: prune")
	}
	return true
}
