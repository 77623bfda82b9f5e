package domain

import (
	"context"
	"time"
)

// PriceRepository defines storage operations for price submissions.
type PriceRepository interface {
	// FindSubmission returns the submission from the given source for the
	// given currency whose timestamp falls in [from, to), or nil when none
	// exists.
	FindSubmission(ctx context.Context, sourceID, currencyCode string, from, to time.Time) (*PriceSubmission, error)
	InsertSubmission(ctx context.Context, sub *PriceSubmission) error
	// UpdateSubmission corrects the price and device tag of an existing row.
	UpdateSubmission(ctx context.Context, id string, pricePer1000 float64, deviceID string) error
	// ListSubmissions returns all submissions for a currency ordered by
	// timestamp ascending.
	ListSubmissions(ctx context.Context, currencyCode string) ([]*PriceSubmission, error)
	// LatestSubmission returns the most recent submission for a currency, or
	// nil when none exists.
	LatestSubmission(ctx context.Context, currencyCode string) (*PriceSubmission, error)
}

// CalculationRepository defines storage for the calculation audit history.
type CalculationRepository interface {
	SaveCalculation(ctx context.Context, rec *CalculationRecord) error
	ListCalculations(ctx context.Context, limit int) ([]*CalculationRecord, error)
}
