package db

// Times are stored as unix seconds so rows read back the same through any
// sqlite driver.
const schema = `
CREATE TABLE IF NOT EXISTS picks (
    id TEXT PRIMARY KEY,
    start_at INTEGER,
    end_at INTEGER,
    date_time INTEGER NOT NULL DEFAULT 0,
    source TEXT NOT NULL DEFAULT 'picker',
    preset TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS picks_created_idx ON picks (created_at);
`
