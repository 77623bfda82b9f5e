package usecase

import (
	"sort"
	"time"

	"github.com/vitos/gifter_levels/internal/domain"
)

// dayOf truncates a timestamp to its UTC calendar day. All grouping in this
// package uses UTC; the storage layer stores UTC timestamps.
func dayOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// AggregateDaily folds a time-ascending submission stream into one candle per
// UTC day. High/low/close come from that day's values; open is the previous
// day's close so the series stays continuous across day boundaries. The first
// day has no prior close and opens at its own first value. An empty input
// yields an empty series.
func AggregateDaily(subs []*domain.PriceSubmission) []domain.DailyCandle {
	if len(subs) == 0 {
		return nil
	}

	byDay := make(map[time.Time][]float64)
	var days []time.Time
	for _, sub := range subs {
		day := dayOf(sub.SubmittedAt)
		if _, ok := byDay[day]; !ok {
			days = append(days, day)
		}
		byDay[day] = append(byDay[day], sub.PricePer1000)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	candles := make([]domain.DailyCandle, 0, len(days))
	var prevClose float64
	for i, day := range days {
		values := byDay[day]
		c := domain.DailyCandle{
			Date:  day,
			Open:  prevClose,
			High:  values[0],
			Low:   values[0],
			Close: values[len(values)-1],
		}
		if i == 0 {
			c.Open = values[0]
		}
		for _, v := range values {
			if v > c.High {
				c.High = v
			}
			if v < c.Low {
				c.Low = v
			}
		}
		prevClose = c.Close
		candles = append(candles, c)
	}
	return candles
}

// AggregateCumulativeMean folds the same stream into a running mean of daily
// averages: point i is the mean of the first i daily means. A separate output
// from the OHLC series; both chart variants coexist.
func AggregateCumulativeMean(subs []*domain.PriceSubmission) []domain.DailyPoint {
	if len(subs) == 0 {
		return nil
	}

	byDay := make(map[time.Time][]float64)
	var days []time.Time
	for _, sub := range subs {
		day := dayOf(sub.SubmittedAt)
		if _, ok := byDay[day]; !ok {
			days = append(days, day)
		}
		byDay[day] = append(byDay[day], sub.PricePer1000)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	points := make([]domain.DailyPoint, 0, len(days))
	var cumulative float64
	for i, day := range days {
		values := byDay[day]
		var sum float64
		for _, v := range values {
			sum += v
		}
		cumulative += sum / float64(len(values))
		points = append(points, domain.DailyPoint{
			Date:  day,
			Value: cumulative / float64(i+1),
		})
	}
	return points
}

// ComputeTrend compares the first and last close of a candle series. It needs
// at least two candles; ok is false otherwise.
func ComputeTrend(candles []domain.DailyCandle) (domain.Trend, bool) {
	if len(candles) < 2 {
		return domain.Trend{}, false
	}
	return trendBetween(candles[0].Close, candles[len(candles)-1].Close), true
}

// TrendOfPoints is ComputeTrend for the cumulative-mean series.
func TrendOfPoints(points []domain.DailyPoint) (domain.Trend, bool) {
	if len(points) < 2 {
		return domain.Trend{}, false
	}
	return trendBetween(points[0].Value, points[len(points)-1].Value), true
}

func trendBetween(first, last float64) domain.Trend {
	change := (last - first) / first * 100
	dir := domain.TrendFlat
	if change > 0 {
		dir = domain.TrendUp
	} else if change < 0 {
		dir = domain.TrendDown
	}
	return domain.Trend{Direction: dir, PercentChange: change}
}
