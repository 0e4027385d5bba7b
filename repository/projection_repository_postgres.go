package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"debt-planner/domain"
	"debt-planner/projection"
)

const schema = `
CREATE TABLE IF NOT EXISTS projection_history (
	id         UUID PRIMARY KEY,
	debt_id    TEXT NOT NULL,
	method     TEXT NOT NULL,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS projection_history_debt_idx
	ON projection_history (debt_id, created_at DESC);`

// payload is the JSONB column: the submitted debt and its projection.
type payload struct {
	Debt       json.RawMessage `json:"debt"`
	Projection json.RawMessage `json:"projection"`
}

// OpenPostgres opens and pings a lib/pq connection pool.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// ProjectionRepositoryPostgres stores projection history in PostgreSQL.
type ProjectionRepositoryPostgres struct {
	db *sql.DB
}

func NewProjectionRepositoryPostgres(db *sql.DB) *ProjectionRepositoryPostgres {
	return &ProjectionRepositoryPostgres{db: db}
}

// EnsureSchema creates the history table if it does not exist.
func (r *ProjectionRepositoryPostgres) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (r *ProjectionRepositoryPostgres) Save(
	ctx context.Context,
	rec domain.ProjectionRecord,
) (domain.ProjectionRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	debt, err := json.Marshal(rec.Debt)
	if err != nil {
		return rec, fmt.Errorf("failed to encode debt: %w", err)
	}
	proj, err := json.Marshal(rec.Projection)
	if err != nil {
		return rec, fmt.Errorf("failed to encode projection: %w", err)
	}
	body, err := json.Marshal(payload{Debt: debt, Projection: proj})
	if err != nil {
		return rec, fmt.Errorf("failed to encode payload: %w", err)
	}

	query := `
		INSERT INTO projection_history (id, debt_id, method, payload, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, query, rec.ID, rec.DebtID, string(rec.Method), string(body), rec.CreatedAt); err != nil {
		return rec, fmt.Errorf("failed to save projection: %w", err)
	}
	return rec, nil
}

func (r *ProjectionRepositoryPostgres) ListByDebt(
	ctx context.Context,
	debtID string,
	limit int,
) ([]domain.ProjectionRecord, error) {
	// LIMIT NULL means no limit in PostgreSQL.
	var lim sql.NullInt64
	if limit > 0 {
		lim = sql.NullInt64{Int64: int64(limit), Valid: true}
	}

	query := `
		SELECT id, debt_id, method, payload, created_at
		FROM projection_history
		WHERE debt_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, debtID, lim)
	if err != nil {
		return nil, fmt.Errorf("failed to list projections: %w", err)
	}
	defer rows.Close()

	out := []domain.ProjectionRecord{}
	for rows.Next() {
		var (
			rec    domain.ProjectionRecord
			method string
			body   []byte
		)
		if err := rows.Scan(&rec.ID, &rec.DebtID, &method, &body, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan projection: %w", err)
		}
		rec.Method = projection.Method(method)

		var p payload
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("failed to decode payload of %s: %w", rec.ID, err)
		}
		if err := json.Unmarshal(p.Debt, &rec.Debt); err != nil {
			return nil, fmt.Errorf("failed to decode debt of %s: %w", rec.ID, err)
		}
		if err := json.Unmarshal(p.Projection, &rec.Projection); err != nil {
			return nil, fmt.Errorf("failed to decode projection of %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list projections: %w", err)
	}
	return out, nil
}

func (r *ProjectionRepositoryPostgres) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projection_history WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune projections: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned projections: %w", err)
	}
	return n, nil
}
