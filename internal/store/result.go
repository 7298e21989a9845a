package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/oklog/ulid/v2"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Result is one finished arcade game or rock-paper-scissors match.
type Result struct {
	ID        string         `json:"id"`
	Game      string         `json:"game"`
	SessionID string         `json:"session_id"`
	Players   int            `json:"players"`
	Winner    string         `json:"winner,omitempty"`
	Scores    map[string]int `json:"scores"`
	Best      int            `json:"best"`
	NewRecord bool           `json:"new_record"`
	CreatedAt time.Time      `json:"created_at"`
}

type resultRow struct {
	ID        string    `db:"id"`
	Game      string    `db:"game"`
	SessionID string    `db:"session_id"`
	Players   int       `db:"players"`
	Winner    string    `db:"winner"`
	Scores    string    `db:"scores"`
	Best      int       `db:"best"`
	NewRecord bool      `db:"new_record"`
	CreatedAt time.Time `db:"created_at"`
}

func (row *resultRow) result() (*Result, error) {
	res := &Result{
		ID:        row.ID,
		Game:      row.Game,
		SessionID: row.SessionID,
		Players:   row.Players,
		Winner:    row.Winner,
		Best:      row.Best,
		NewRecord: row.NewRecord,
		CreatedAt: row.CreatedAt,
	}
	if err := json.UnmarshalFromString(row.Scores, &res.Scores); err != nil {
		return nil, fmt.Errorf("decode scores of %s: %w", row.ID, err)
	}
	return res, nil
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// newID returns a time ordered result id.
func newID(t time.Time) (string, error) {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	id, err := ulid.New(ulid.Timestamp(t), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// ResultRepository records finished games.
type ResultRepository struct {
	db *sqlx.DB
}

// Results returns the result repository for this store.
func (s *Store) Results() *ResultRepository {
	return &ResultRepository{db: s.db}
}

// Create inserts a result, assigning its id and creation time.
func (r *ResultRepository) Create(ctx context.Context, res *Result) error {
	res.CreatedAt = time.Now().UTC()
	id, err := newID(res.CreatedAt)
	if err != nil {
		return fmt.Errorf("new result id: %w", err)
	}
	res.ID = id

	scores := res.Scores
	if scores == nil {
		scores = map[string]int{}
	}
	encoded, err := json.MarshalToString(scores)
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}

	_, err = r.db.NamedExecContext(ctx,
		`INSERT INTO results (id, game, session_id, players, winner, scores, best, new_record, created_at)
		 VALUES (:id, :game, :session_id, :players, :winner, :scores, :best, :new_record, :created_at)`,
		resultRow{
			ID:        res.ID,
			Game:      res.Game,
			SessionID: res.SessionID,
			Players:   res.Players,
			Winner:    res.Winner,
			Scores:    encoded,
			Best:      res.Best,
			NewRecord: res.NewRecord,
			CreatedAt: res.CreatedAt,
		},
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// GetByID retrieves a result by its id.
func (r *ResultRepository) GetByID(ctx context.Context, id string) (*Result, error) {
	var row resultRow
	err := r.db.GetContext(ctx, &row,
		`SELECT id, game, session_id, players, winner, scores, best, new_record, created_at
		 FROM results WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row.result()
}

// List returns the most recent results first. An empty game lists every
// game; a limit of zero or less returns all rows.
func (r *ResultRepository) List(ctx context.Context, game string, limit int) ([]*Result, error) {
	query := `SELECT id, game, session_id, players, winner, scores, best, new_record, created_at FROM results`
	var args []any
	if game != "" {
		query += ` WHERE game = ?`
		args = append(args, game)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var rows []resultRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	results := make([]*Result, 0, len(rows))
	for i := range rows {
		res, err := rows[i].result()
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
