package domain

import "time"

// PriceSubmission is one community-submitted price for 1000 coins. Effectively
// one row per (source, currency, UTC day): a second submission the same day
// corrects the first in place.
type PriceSubmission struct {
	ID           string    `json:"id"`
	SourceID     string    `json:"source_id"`
	DeviceID     string    `json:"device_id"`
	CurrencyCode string    `json:"currency_code"`
	PricePer1000 float64   `json:"price_per_1000"`
	SubmittedAt  time.Time `json:"submitted_at"`
}

// DailyCandle is the OHLC summary of one UTC day's submissions. Derived on
// demand, never persisted.
type DailyCandle struct {
	Date  time.Time `json:"date"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}

// DailyPoint is one point of the cumulative-mean series.
type DailyPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

type TrendDirection string

const (
	TrendUp   TrendDirection = "up"
	TrendDown TrendDirection = "down"
	TrendFlat TrendDirection = "flat"
)

// Trend summarizes the change between the first and last point of a series.
type Trend struct {
	Direction     TrendDirection `json:"direction"`
	PercentChange float64        `json:"percent_change"`
}

// CalculationRecord is the audit entry appended after a completed tier
// calculation.
type CalculationRecord struct {
	ID               string    `json:"id"`
	SourceID         string    `json:"source_id"`
	DeviceID         string    `json:"device_id"`
	CurrencyCode     string    `json:"currency_code"`
	CurrentLevel     int       `json:"current_level"`
	TargetLevel      int       `json:"target_level"`
	PointsNeeded     int64     `json:"points_needed"`
	AmountCalculated float64   `json:"amount_calculated"`
	UserPoints       int64     `json:"user_points"`
	CreatedAt        time.Time `json:"created_at"`
}
