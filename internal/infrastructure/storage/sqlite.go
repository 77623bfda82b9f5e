package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vitos/gifter_levels/internal/domain"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS coin_price_history (
			id TEXT PRIMARY KEY,
			source_id TEXT NOT NULL,
			device_id TEXT NOT NULL,
			currency_code TEXT NOT NULL,
			price_per_1000 REAL NOT NULL,
			day TEXT NOT NULL,
			created_at DATETIME NOT NULL
		);`,
		// One row per source per currency per UTC day. The unique index makes
		// the lookup-then-write sequence safe against a concurrent retry from
		// the same source.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_price_source_day ON coin_price_history(source_id, currency_code, day);`,
		`CREATE INDEX IF NOT EXISTS idx_price_currency_time ON coin_price_history(currency_code, created_at);`,
		`CREATE TABLE IF NOT EXISTS calculation_history (
			id TEXT PRIMARY KEY,
			source_id TEXT NOT NULL,
			device_id TEXT NOT NULL,
			currency_code TEXT NOT NULL,
			current_level INTEGER NOT NULL,
			target_level INTEGER NOT NULL,
			points_needed INTEGER NOT NULL,
			amount_calculated REAL NOT NULL,
			user_points INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to exec query %s: %w", q, err)
		}
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// PriceRepository Implementation

func (s *SQLiteStore) FindSubmission(ctx context.Context, sourceID, currencyCode string, from, to time.Time) (*domain.PriceSubmission, error) {
	query := `SELECT id, source_id, device_id, currency_code, price_per_1000, created_at
			  FROM coin_price_history
			  WHERE source_id = ? AND currency_code = ? AND created_at >= ? AND created_at < ?`
	row := s.db.QueryRowContext(ctx, query, sourceID, currencyCode, from.UTC(), to.UTC())

	var sub domain.PriceSubmission
	err := row.Scan(&sub.ID, &sub.SourceID, &sub.DeviceID, &sub.CurrencyCode, &sub.PricePer1000, &sub.SubmittedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *SQLiteStore) InsertSubmission(ctx context.Context, sub *domain.PriceSubmission) error {
	query := `INSERT INTO coin_price_history (id, source_id, device_id, currency_code, price_per_1000, day, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)
			  ON CONFLICT(source_id, currency_code, day) DO UPDATE SET
			  price_per_1000=excluded.price_per_1000,
			  device_id=excluded.device_id`
	_, err := s.db.ExecContext(ctx, query,
		sub.ID, sub.SourceID, sub.DeviceID, sub.CurrencyCode, sub.PricePer1000,
		sub.SubmittedAt.UTC().Format("2006-01-02"), sub.SubmittedAt.UTC())
	return err
}

func (s *SQLiteStore) UpdateSubmission(ctx context.Context, id string, pricePer1000 float64, deviceID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE coin_price_history SET price_per_1000 = ?, device_id = ? WHERE id = ?`,
		pricePer1000, deviceID, id)
	return err
}

func (s *SQLiteStore) ListSubmissions(ctx context.Context, currencyCode string) ([]*domain.PriceSubmission, error) {
	query := `SELECT id, source_id, device_id, currency_code, price_per_1000, created_at
			  FROM coin_price_history WHERE currency_code = ? ORDER BY created_at ASC`
	rows, err := s.db.QueryContext(ctx, query, currencyCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*domain.PriceSubmission
	for rows.Next() {
		var sub domain.PriceSubmission
		if err := rows.Scan(&sub.ID, &sub.SourceID, &sub.DeviceID, &sub.CurrencyCode, &sub.PricePer1000, &sub.SubmittedAt); err != nil {
			return nil, err
		}
		subs = append(subs, &sub)
	}
	return subs, rows.Err()
}

func (s *SQLiteStore) LatestSubmission(ctx context.Context, currencyCode string) (*domain.PriceSubmission, error) {
	query := `SELECT id, source_id, device_id, currency_code, price_per_1000, created_at
			  FROM coin_price_history WHERE currency_code = ? ORDER BY created_at DESC LIMIT 1`
	row := s.db.QueryRowContext(ctx, query, currencyCode)

	var sub domain.PriceSubmission
	err := row.Scan(&sub.ID, &sub.SourceID, &sub.DeviceID, &sub.CurrencyCode, &sub.PricePer1000, &sub.SubmittedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// CalculationRepository Implementation

func (s *SQLiteStore) SaveCalculation(ctx context.Context, rec *domain.CalculationRecord) error {
	query := `INSERT INTO calculation_history (id, source_id, device_id, currency_code, current_level, target_level, points_needed, amount_calculated, user_points, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.SourceID, rec.DeviceID, rec.CurrencyCode, rec.CurrentLevel,
		rec.TargetLevel, rec.PointsNeeded, rec.AmountCalculated, rec.UserPoints, rec.CreatedAt.UTC())
	return err
}

func (s *SQLiteStore) ListCalculations(ctx context.Context, limit int) ([]*domain.CalculationRecord, error) {
	query := `SELECT id, source_id, device_id, currency_code, current_level, target_level, points_needed, amount_calculated, user_points, created_at
			  FROM calculation_history ORDER BY created_at DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*domain.CalculationRecord
	for rows.Next() {
		var rec domain.CalculationRecord
		if err := rows.Scan(&rec.ID, &rec.SourceID, &rec.DeviceID, &rec.CurrencyCode, &rec.CurrentLevel,
			&rec.TargetLevel, &rec.PointsNeeded, &rec.AmountCalculated, &rec.UserPoints, &rec.CreatedAt); err != nil {
			return nil, err
		}
		recs = append(recs, &rec)
	}
	return recs, rows.Err()
}
