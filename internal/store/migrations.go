package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// One row per saved assessment run
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			user_height_cm REAL NOT NULL,
			overall_score REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Per-exercise outcomes, same columns as the CSV file
		`CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			timestamp DATETIME NOT NULL,
			exercise TEXT NOT NULL,
			component TEXT NOT NULL,
			reps INTEGER NOT NULL DEFAULT 0,
			duration REAL NOT NULL DEFAULT 0,
			score REAL NOT NULL DEFAULT 0,
			form_errors INTEGER NOT NULL DEFAULT 0,
			feedback TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE INDEX IF NOT EXISTS idx_results_session_id ON results(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_created_at ON sessions(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
