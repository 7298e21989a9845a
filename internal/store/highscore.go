package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// HighScore is the best score recorded for a game.
type HighScore struct {
	Game      string    `db:"game" json:"game"`
	Score     int       `db:"score" json:"score"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// HighScoreRepository reads and raises per-game high scores.
type HighScoreRepository struct {
	db *sqlx.DB
}

// HighScores returns the high score repository for this store.
func (s *Store) HighScores() *HighScoreRepository {
	return &HighScoreRepository{db: s.db}
}

// Get returns the high score of a game, or 0 when none was recorded.
func (r *HighScoreRepository) Get(ctx context.Context, game string) (int, error) {
	var scores []int
	err := r.db.SelectContext(ctx, &scores, `SELECT score FROM high_scores WHERE game = ?`, game)
	if err != nil {
		return 0, fmt.Errorf("get high score %s: %w", game, err)
	}
	if len(scores) == 0 {
		return 0, nil
	}
	return scores[0], nil
}

// Submit stores score when it beats the recorded high score and reports
// whether it did.
func (r *HighScoreRepository) Submit(ctx context.Context, game string, score int) (bool, error) {
	if score <= 0 {
		return false, nil
	}

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO high_scores (game, score, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(game) DO UPDATE SET score = excluded.score, updated_at = excluded.updated_at
		 WHERE excluded.score > high_scores.score`,
		game, score, time.Now().UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("submit high score %s: %w", game, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns every recorded high score ordered by game.
func (r *HighScoreRepository) List(ctx context.Context) ([]HighScore, error) {
	scores := []HighScore{}
	err := r.db.SelectContext(ctx, &scores, `SELECT game, score, updated_at FROM high_scores ORDER BY game`)
	if err != nil {
		return nil, fmt.Errorf("list high scores: %w", err)
	}
	return scores, nil
}
