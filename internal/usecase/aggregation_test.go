package usecase

import (
	"testing"
	"time"

	"github.com/vitos/gifter_levels/internal/domain"
)

func sub(day, hour int, price float64) *domain.PriceSubmission {
	return &domain.PriceSubmission{
		CurrencyCode: "BRL",
		PricePer1000: price,
		SubmittedAt:  time.Date(2024, 6, day, hour, 0, 0, 0, time.UTC),
	}
}

func TestAggregateDaily_SingleDay(t *testing.T) {
	candles := AggregateDaily([]*domain.PriceSubmission{
		sub(1, 9, 10), sub(1, 10, 15), sub(1, 11, 8), sub(1, 12, 12),
	})
	if len(candles) != 1 {
		t.Fatalf("expected 1 candle, got %d", len(candles))
	}
	c := candles[0]
	if c.Open != 10 || c.High != 15 || c.Low != 8 || c.Close != 12 {
		t.Errorf("candle = O %.0f H %.0f L %.0f C %.0f, want O 10 H 15 L 8 C 12", c.Open, c.High, c.Low, c.Close)
	}
}

func TestAggregateDaily_CarryForwardOpen(t *testing.T) {
	candles := AggregateDaily([]*domain.PriceSubmission{
		sub(1, 9, 10), sub(1, 10, 15), sub(1, 11, 8), sub(1, 12, 12),
		sub(2, 9, 20),
	})
	if len(candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(candles))
	}
	c := candles[1]
	// Day two opens at day one's close, even with a single submission.
	if c.Open != 12 || c.High != 20 || c.Low != 20 || c.Close != 20 {
		t.Errorf("candle = O %.0f H %.0f L %.0f C %.0f, want O 12 H 20 L 20 C 20", c.Open, c.High, c.Low, c.Close)
	}
	if !c.Date.Equal(time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("candle date = %v, want 2024-06-02", c.Date)
	}
}

func TestAggregateDaily_Empty(t *testing.T) {
	if candles := AggregateDaily(nil); len(candles) != 0 {
		t.Errorf("expected empty series, got %d candles", len(candles))
	}
	if _, ok := ComputeTrend(nil); ok {
		t.Error("trend must be absent for an empty series")
	}
}

func TestAggregateDaily_TimezoneGrouping(t *testing.T) {
	// 23:30 UTC and 00:30 UTC next day are different calendar days even
	// though they are an hour apart.
	late := &domain.PriceSubmission{PricePer1000: 10, SubmittedAt: time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC)}
	early := &domain.PriceSubmission{PricePer1000: 11, SubmittedAt: time.Date(2024, 6, 2, 0, 30, 0, 0, time.UTC)}

	candles := AggregateDaily([]*domain.PriceSubmission{late, early})
	if len(candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(candles))
	}
	if candles[1].Open != 10 {
		t.Errorf("second day open = %.0f, want 10", candles[1].Open)
	}
}

func TestComputeTrend(t *testing.T) {
	mk := func(closes ...float64) []domain.DailyCandle {
		candles := make([]domain.DailyCandle, len(closes))
		for i, c := range closes {
			candles[i] = domain.DailyCandle{Close: c}
		}
		return candles
	}

	trend, ok := ComputeTrend(mk(10, 8, 12))
	if !ok {
		t.Fatal("expected a trend for 3 candles")
	}
	// (12-10)/10*100 = 20, computed from closes, not opens.
	if trend.PercentChange != 20 {
		t.Errorf("PercentChange = %v, want 20", trend.PercentChange)
	}
	if trend.Direction != domain.TrendUp {
		t.Errorf("Direction = %s, want up", trend.Direction)
	}

	trend, ok = ComputeTrend(mk(10, 5))
	if !ok || trend.Direction != domain.TrendDown || trend.PercentChange != -50 {
		t.Errorf("down trend = %+v ok=%v, want -50%% down", trend, ok)
	}

	trend, ok = ComputeTrend(mk(10, 12, 10))
	if !ok || trend.Direction != domain.TrendFlat || trend.PercentChange != 0 {
		t.Errorf("flat trend = %+v ok=%v, want 0%% flat", trend, ok)
	}

	if _, ok := ComputeTrend(mk(10)); ok {
		t.Error("trend must be absent for a single candle")
	}
}

func TestAggregateCumulativeMean(t *testing.T) {
	points := AggregateCumulativeMean([]*domain.PriceSubmission{
		sub(1, 9, 10), sub(1, 10, 20), // day mean 15
		sub(2, 9, 30), // day mean 30
	})
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	// Running mean of daily means: [15, (15+30)/2].
	if points[0].Value != 15 {
		t.Errorf("points[0] = %v, want 15", points[0].Value)
	}
	if points[1].Value != 22.5 {
		t.Errorf("points[1] = %v, want 22.5", points[1].Value)
	}

	trend, ok := TrendOfPoints(points)
	if !ok || trend.Direction != domain.TrendUp {
		t.Errorf("trend = %+v ok=%v, want up", trend, ok)
	}
	if trend.PercentChange != 50 {
		t.Errorf("PercentChange = %v, want 50", trend.PercentChange)
	}
}

func TestAggregateCumulativeMean_Empty(t *testing.T) {
	if points := AggregateCumulativeMean(nil); len(points) != 0 {
		t.Errorf("expected empty series, got %d points", len(points))
	}
}
