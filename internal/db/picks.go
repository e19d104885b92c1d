package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/marcus/rangepick/internal/models"
)

type pickRow struct {
	ID        string        `db:"id"`
	StartAt   sql.NullInt64 `db:"start_at"`
	EndAt     sql.NullInt64 `db:"end_at"`
	DateTime  bool          `db:"date_time"`
	Source    string        `db:"source"`
	Preset    string        `db:"preset"`
	CreatedAt int64         `db:"created_at"`
}

func toUnix(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func fromUnix(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0)
	return &t
}

func (r pickRow) pick() models.Pick {
	return models.Pick{
		ID:        r.ID,
		Start:     fromUnix(r.StartAt),
		End:       fromUnix(r.EndAt),
		DateTime:  r.DateTime,
		Source:    models.PickSource(r.Source),
		Preset:    r.Preset,
		CreatedAt: time.Unix(r.CreatedAt, 0),
	}
}

const pickColumns = "id, start_at, end_at, date_time, source, preset, created_at"

// AddPick stores p, filling in its ID, source and creation time when unset.
func (db *DB) AddPick(p *models.Pick) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if p.ID == "" {
		id, err := generateID()
		if err != nil {
			return fmt.Errorf("generate id: %w", err)
		}
		p.ID = id
	}
	if p.Source == "" {
		p.Source = models.SourcePicker
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = clock()
	}
	p.CreatedAt = p.CreatedAt.Truncate(time.Second)

	_, err := db.conn.Exec(`INSERT INTO picks (`+pickColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, toUnix(p.Start), toUnix(p.End), p.DateTime, string(p.Source), p.Preset, p.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("insert pick: %w", err)
	}
	return nil
}

// GetPick looks a pick up by ID. Bare hex IDs are accepted.
func (db *DB) GetPick(id string) (*models.Pick, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var row pickRow
	err := db.conn.Get(&row, `SELECT `+pickColumns+` FROM picks WHERE id = ?`, NormalizePickID(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pick not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	p := row.pick()
	return &p, nil
}

// ListPicks returns up to limit picks, newest first. A limit of zero or less
// returns every pick.
func (db *DB) ListPicks(limit int) ([]models.Pick, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	query := `SELECT ` + pickColumns + ` FROM picks ORDER BY created_at DESC, rowid DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	var rows []pickRow
	if err := db.conn.Select(&rows, query, args...); err != nil {
		return nil, err
	}
	picks := make([]models.Pick, 0, len(rows))
	for _, r := range rows {
		picks = append(picks, r.pick())
	}
	return picks, nil
}

// LastPick returns the most recent complete pick, or nil when there is none.
func (db *DB) LastPick() (*models.Pick, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var row pickRow
	err := db.conn.Get(&row, `SELECT `+pickColumns+` FROM picks
WHERE start_at IS NOT NULL AND end_at IS NOT NULL
ORDER BY created_at DESC, rowid DESC LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p := row.pick()
	return &p, nil
}

// CountPicks returns the number of stored picks.
func (db *DB) CountPicks() (int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var n int
	if err := db.conn.Get(&n, `SELECT COUNT(*) FROM picks`); err != nil {
		return 0, err
	}
	return n, nil
}

// PrunePicks keeps the newest keep picks and deletes the rest.
func (db *DB) PrunePicks(keep int) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if keep < 0 {
		keep = 0
	}
	res, err := db.conn.Exec(`DELETE FROM picks WHERE id NOT IN (
SELECT id FROM picks ORDER BY created_at DESC, rowid DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune picks: %w", err)
	}
	return res.RowsAffected()
}

// ClearPicks deletes every pick.
func (db *DB) ClearPicks() (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	res, err := db.conn.Exec(`DELETE FROM picks`)
	if err != nil {
		return 0, fmt.Errorf("clear picks: %w", err)
	}
	return res.RowsAffected()
}
