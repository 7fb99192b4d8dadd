package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/timerdiv/internal/core/domain"
	"github.com/custodia-labs/timerdiv/internal/core/ports/driven"
)

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// Save records a run. The search space and candidates are stored as JSON.
func (s *runStore) Save(ctx context.Context, run *domain.Run) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}

	spaceJSON, err := json.Marshal(run.Space)
	if err != nil {
		return fmt.Errorf("marshalling space: %w", err)
	}
	candidatesJSON, err := json.Marshal(run.Candidates)
	if err != nil {
		return fmt.Errorf("marshalling candidates: %w", err)
	}

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO runs (id, profile, space, candidates, candidate_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			profile = excluded.profile,
			space = excluded.space,
			candidates = excluded.candidates,
			candidate_count = excluded.candidate_count
	`, run.ID, run.Profile, string(spaceJSON), string(candidatesJSON),
		len(run.Candidates), createdAt.UnixNano())
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// Get retrieves a run by ID.
func (s *runStore) Get(ctx context.Context, id string) (*domain.Run, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, profile, space, candidates, created_at
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

// List returns up to limit runs, newest first.
func (s *runStore) List(ctx context.Context, limit int) ([]domain.Run, error) {
	// SQLite treats a negative LIMIT as no limit.
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, profile, space, candidates, created_at
		FROM runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*domain.Run, error) {
	var run domain.Run
	var spaceJSON, candidatesJSON string
	var createdAt int64
	if err := row.Scan(&run.ID, &run.Profile, &spaceJSON, &candidatesJSON, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	if err := json.Unmarshal([]byte(spaceJSON), &run.Space); err != nil {
		return nil, fmt.Errorf("unmarshaling space: %w", err)
	}
	if err := json.Unmarshal([]byte(candidatesJSON), &run.Candidates); err != nil {
		return nil, fmt.Errorf("unmarshaling candidates: %w", err)
	}
	run.CreatedAt = time.Unix(0, createdAt).UTC()
	return &run, nil
}
