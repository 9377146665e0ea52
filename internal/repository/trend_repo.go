package repository

import (
	"context"

	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonghyochu-star/shots-radar/internal/model"
)

// TrendRepo archives daily per-category points in Postgres. The JSON file
// remains the source of truth for serving; the table exists for ad-hoc
// querying and for rebuilding the file if it is lost.
type TrendRepo struct {
	pool *pgxpool.Pool
}

func NewTrendRepo(pool *pgxpool.Pool) *TrendRepo {
	return &TrendRepo{pool: pool}
}

// UpsertPoints writes one run's points in a single transaction. Re-running
// the collector on the same day overwrites that day's rows.
func (r *TrendRepo) UpsertPoints(ctx context.Context, points map[string]model.SeriesPoint) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO trend_points (category, day, views, n)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (category, day)
		DO UPDATE SET views = EXCLUDED.views, n = EXCLUDED.n`

	for label, pt := range points {
		if _, err := tx.Exec(ctx, query, label, pt.Date, pt.Views, pt.N); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// FindByCategory returns a category's archived points, oldest first.
func (r *TrendRepo) FindByCategory(ctx context.Context, label string, limit int) ([]model.SeriesPoint, error) {
	query := `
		SELECT to_char(day, 'YYYY-MM-DD'), views, n
		FROM trend_points
		WHERE category = $1
		ORDER BY day DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, label, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pts []model.SeriesPoint
	for rows.Next() {
		var p model.SeriesPoint
		if err := rows.Scan(&p.Date, &p.Views, &p.N); err != nil {
			return nil, err
		}
		pts = append(pts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Reverse into ascending order to match the serving format.
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
	return pts, nil
}

// Prune deletes rows older than the retention window for every category.
func (r *TrendRepo) Prune(ctx context.Context, retentionDays int) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM trend_points WHERE day < current_date - $1::int`, retentionDays)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// LatestDay returns the most recent archived day across all categories,
// or "" when the table is empty.
func (r *TrendRepo) LatestDay(ctx context.Context) (string, error) {
	var day string
	err := r.pool.QueryRow(ctx,
		`SELECT coalesce(to_char(max(day), 'YYYY-MM-DD'), '') FROM trend_points`).Scan(&day)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return day, nil
}
