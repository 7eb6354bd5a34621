package repository

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New creates a new Repository
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, err
	}

	// SQLite works best with a single connection; it also serialises ballot writes.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		return nil, err
	}

	return repo, nil
}

// DB returns the underlying database connection
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// migrate runs database migrations
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS voting_types (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			max_selections INTEGER NOT NULL DEFAULT 0,
			points_per_vote REAL NOT NULL DEFAULT 1,
			min_rating REAL NOT NULL DEFAULT 0,
			max_rating REAL NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS voting_type_places (
			voting_type_id INTEGER NOT NULL,
			place INTEGER NOT NULL,
			points REAL NOT NULL,
			FOREIGN KEY (voting_type_id) REFERENCES voting_types(id) ON DELETE CASCADE,
			UNIQUE(voting_type_id, place)
		)`,
		`CREATE TABLE IF NOT EXISTS event_templates (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT,
			default_voting_type_id INTEGER,
			FOREIGN KEY (default_voting_type_id) REFERENCES voting_types(id) ON DELETE SET NULL
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			is_public BOOLEAN NOT NULL DEFAULT 0,
			voting_starts_at DATETIME,
			voting_ends_at DATETIME,
			template_id INTEGER,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			deleted_at DATETIME,
			FOREIGN KEY (template_id) REFERENCES event_templates(id) ON DELETE SET NULL
		)`,
		`CREATE TABLE IF NOT EXISTS event_voting_configs (
			event_id INTEGER PRIMARY KEY,
			voting_type_id INTEGER NOT NULL,
			FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE,
			FOREIGN KEY (voting_type_id) REFERENCES voting_types(id)
		)`,
		`CREATE TABLE IF NOT EXISTS divisions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id INTEGER NOT NULL,
			code TEXT NOT NULL,
			name TEXT NOT NULL,
			type TEXT,
			display_order INTEGER NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			FOREIGN KEY (event_id) REFERENCES events(id)
		)`,
		`CREATE TABLE IF NOT EXISTS participants (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id INTEGER NOT NULL,
			division_id INTEGER,
			name TEXT NOT NULL,
			email TEXT,
			FOREIGN KEY (event_id) REFERENCES events(id),
			FOREIGN KEY (division_id) REFERENCES divisions(id)
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			event_id INTEGER NOT NULL,
			division_id INTEGER NOT NULL,
			participant_id INTEGER,
			entry_number TEXT NOT NULL,
			name TEXT,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			FOREIGN KEY (event_id) REFERENCES events(id),
			FOREIGN KEY (division_id) REFERENCES divisions(id),
			FOREIGN KEY (participant_id) REFERENCES participants(id),
			UNIQUE(event_id, entry_number)
		)`,
		`CREATE TABLE IF NOT EXISTS judges (
			event_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			name TEXT,
			weight REAL NOT NULL DEFAULT 1,
			PRIMARY KEY (event_id, user_id),
			FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS ballots (
			id TEXT PRIMARY KEY,
			event_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			scope TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (event_id) REFERENCES events(id),
			UNIQUE(event_id, user_id, scope)
		)`,
		`CREATE TABLE IF NOT EXISTS votes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ballot_id TEXT NOT NULL,
			event_id INTEGER NOT NULL,
			user_id INTEGER NOT NULL,
			entry_id INTEGER NOT NULL,
			division_id INTEGER NOT NULL,
			place INTEGER,
			base_points REAL NOT NULL,
			weight_multiplier REAL NOT NULL DEFAULT 1,
			final_points REAL NOT NULL,
			voter_ip TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (ballot_id) REFERENCES ballots(id),
			FOREIGN KEY (event_id) REFERENCES events(id),
			FOREIGN KEY (entry_id) REFERENCES entries(id),
			FOREIGN KEY (division_id) REFERENCES divisions(id)
		)`,
		`CREATE TABLE IF NOT EXISTS vote_summaries (
			entry_id INTEGER PRIMARY KEY,
			event_id INTEGER NOT NULL,
			division_id INTEGER NOT NULL,
			total_points REAL NOT NULL DEFAULT 0,
			vote_count INTEGER NOT NULL DEFAULT 0,
			first_count INTEGER NOT NULL DEFAULT 0,
			second_count INTEGER NOT NULL DEFAULT 0,
			third_count INTEGER NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (entry_id) REFERENCES entries(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_divisions_event ON divisions(event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_event ON entries(event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_event_user ON votes(event_id, user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_entry ON votes(entry_id)`,
		`CREATE INDEX IF NOT EXISTS idx_vote_summaries_event ON vote_summaries(event_id)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}

// withTx runs fn inside a transaction, committing on success and rolling back on error
func (r *Repository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
