package recorder

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/macrolab/macrosim/internal/logger"
)

// SQLiteRecorder persists session results to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so external readers do not block session writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at      INTEGER NOT NULL,
			duration_ticks  INTEGER NOT NULL,
			initial_value   REAL,
			final_value     REAL,
			performance_pct REAL,
			events_resolved INTEGER,
			stability       REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started ON sessions(started_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:32], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSession(rec *SessionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO sessions
		(started_at, duration_ticks, initial_value, final_value, performance_pct, events_resolved, stability)
		VALUES (?,?,?,?,?,?,?)`,
		rec.StartedAt.Unix(), rec.DurationTicks,
		rec.InitialValue, rec.FinalValue, rec.Performance,
		rec.EventsResolved, rec.Stability,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	logger.Info("closing sqlite recorder")
	return r.db.Close()
}
