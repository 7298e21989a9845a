package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// High scores table - best score per game
		`CREATE TABLE IF NOT EXISTS high_scores (
			game TEXT PRIMARY KEY,
			score INTEGER NOT NULL CHECK(score >= 0),
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Results table - one row per finished game or match
		`CREATE TABLE IF NOT EXISTS results (
			id TEXT PRIMARY KEY,
			game TEXT NOT NULL CHECK(game IN ('ninja', 'dodge', 'rps')),
			session_id TEXT NOT NULL,
			players INTEGER NOT NULL DEFAULT 1,
			winner TEXT NOT NULL DEFAULT '',
			scores TEXT NOT NULL DEFAULT '{}',
			best INTEGER NOT NULL DEFAULT 0,
			new_record INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_results_game ON results(game)`,
		`CREATE INDEX IF NOT EXISTS idx_results_session_id ON results(session_id)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
