package ranking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
)

// PGRepo implements Repo using Postgres. Results are stored as JSONB in the
// shape they were served, so history replays exactly what the client saw.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new ranking.
func (r *PGRepo) Create(ctx context.Context, record Ranking) error {
	const query = `
INSERT INTO rankings (id, client_token, job_description, results, resume_count, model, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	payload, err := marshalResults(record.Results)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		record.ID,
		record.ClientToken,
		record.JobDescription,
		payload,
		record.ResumeCount,
		record.Model,
		record.CreatedAt,
	)
	return err
}

// GetByID returns a ranking by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Ranking, error) {
	const query = `
SELECT id, client_token, job_description, results, resume_count, model, created_at
FROM rankings
WHERE id = $1
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, id)
	record, err := scanRanking(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Ranking{}, ErrNotFound
		}
		return Ranking{}, err
	}
	return record, nil
}

// ListByToken lists rankings for a token ordered newest-first.
func (r *PGRepo) ListByToken(ctx context.Context, token string, limit, offset int) ([]Ranking, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	const query = `
SELECT id, client_token, job_description, results, resume_count, model, created_at
FROM rankings
WHERE client_token = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, token, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Ranking{}
	for rows.Next() {
		record, err := scanRanking(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, rows.Err()
}

func scanRanking(scan func(dest ...any) error) (Ranking, error) {
	var record Ranking
	var results sql.NullString
	if err := scan(
		&record.ID,
		&record.ClientToken,
		&record.JobDescription,
		&results,
		&record.ResumeCount,
		&record.Model,
		&record.CreatedAt,
	); err != nil {
		return Ranking{}, err
	}
	record.Results = []Analysis{}
	if results.Valid && results.String != "" {
		if err := json.Unmarshal([]byte(results.String), &record.Results); err != nil {
			return Ranking{}, err
		}
	}
	return record, nil
}

func marshalResults(results []Analysis) ([]byte, error) {
	if results == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(results)
}

var _ Repo = (*PGRepo)(nil)
