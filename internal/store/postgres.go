package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"rwstats/internal/models"
)

// PostgresStore persists visitor records in a visitors table with the
// daily counts as a JSONB column. See schema.sql.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(dsn string, maxOpenConns, maxIdleConns int) (*PostgresStore, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(time.Hour)

	return &PostgresStore{db: db}, nil
}

type visitorRow struct {
	ID             string    `db:"id"`
	TotalVisitors  int64     `db:"total_visitors"`
	UniqueVisitors int64     `db:"unique_visitors"`
	PageViews      int64     `db:"page_views"`
	DailyVisits    []byte    `db:"daily_visits"`
	LastUpdated    time.Time `db:"last_updated"`
}

func (p *PostgresStore) Get(ctx context.Context, id string) (*models.VisitorStats, error) {
	var row visitorRow
	query := `SELECT id, total_visitors, unique_visitors, page_views, daily_visits, last_updated
	          FROM visitors WHERE id = $1`
	if err := p.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get visitor record: %w", err)
	}

	daily := make(map[string]int64)
	if len(row.DailyVisits) > 0 {
		if err := json.Unmarshal(row.DailyVisits, &daily); err != nil {
			return nil, fmt.Errorf("failed to decode daily visits: %w", err)
		}
	}

	return &models.VisitorStats{
		ID:             row.ID,
		TotalVisitors:  row.TotalVisitors,
		UniqueVisitors: row.UniqueVisitors,
		PageViews:      row.PageViews,
		DailyVisits:    daily,
		LastUpdated:    row.LastUpdated,
	}, nil
}

func (p *PostgresStore) Insert(ctx context.Context, stats *models.VisitorStats) error {
	daily, err := json.Marshal(stats.DailyVisits)
	if err != nil {
		return fmt.Errorf("failed to encode daily visits: %w", err)
	}

	query := `INSERT INTO visitors (id, total_visitors, unique_visitors, page_views, daily_visits, last_updated)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err = p.db.ExecContext(ctx, query,
		stats.ID, stats.TotalVisitors, stats.UniqueVisitors, stats.PageViews, daily, stats.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to insert visitor record: %w", err)
	}
	return nil
}

func (p *PostgresStore) Update(ctx context.Context, stats *models.VisitorStats) error {
	daily, err := json.Marshal(stats.DailyVisits)
	if err != nil {
		return fmt.Errorf("failed to encode daily visits: %w", err)
	}

	query := `UPDATE visitors
	          SET total_visitors = $2, unique_visitors = $3, page_views = $4, daily_visits = $5, last_updated = $6
	          WHERE id = $1`
	res, err := p.db.ExecContext(ctx, query,
		stats.ID, stats.TotalVisitors, stats.UniqueVisitors, stats.PageViews, daily, stats.LastUpdated)
	if err != nil {
		return fmt.Errorf("failed to update visitor record: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}
