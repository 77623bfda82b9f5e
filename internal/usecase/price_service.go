package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/vitos/gifter_levels/internal/domain"
	"go.uber.org/zap"
)

// PriceService owns the community price history: the one-row-per-source-per-
// day upsert rule, the chart series built from it, and the effective
// cost-per-point derived from the latest submission.
type PriceService struct {
	repo       domain.PriceRepository
	currencies map[string]domain.Currency
	ordered    []domain.Currency
	logger     *zap.Logger
	timeNow    func() time.Time // For testing
}

func NewPriceService(repo domain.PriceRepository, currencies []domain.Currency, logger *zap.Logger) *PriceService {
	byCode := make(map[string]domain.Currency, len(currencies))
	for _, c := range currencies {
		byCode[c.Code] = c
	}
	return &PriceService{
		repo:       repo,
		currencies: byCode,
		ordered:    currencies,
		logger:     logger,
		timeNow:    time.Now,
	}
}

// Currencies returns the configured currency set in config order.
func (s *PriceService) Currencies() []domain.Currency {
	return s.ordered
}

// Currency resolves a code against the configured set.
func (s *PriceService) Currency(code string) (domain.Currency, error) {
	c, ok := s.currencies[code]
	if !ok {
		return domain.Currency{}, domain.ErrUnknownCurrency
	}
	return c, nil
}

// dayWindow returns the UTC [start, end) window of the day containing now.
func dayWindow(now time.Time) (time.Time, time.Time) {
	start := dayOf(now)
	return start, start.AddDate(0, 0, 1)
}

// SubmitPrice records a price for 1000 coins. A source submitting twice on
// the same UTC day for the same currency corrects its earlier row instead of
// adding a second one. Returns whether an existing row was updated.
func (s *PriceService) SubmitPrice(ctx context.Context, sourceID, deviceID, currencyCode string, pricePer1000 float64) (bool, error) {
	if pricePer1000 <= 0 || math.IsNaN(pricePer1000) || math.IsInf(pricePer1000, 0) {
		return false, domain.ErrInvalidPrice
	}
	if _, err := s.Currency(currencyCode); err != nil {
		return false, err
	}
	if deviceID == "" {
		deviceID = "device_" + uuid.NewString()
	}

	now := s.timeNow().UTC()
	from, to := dayWindow(now)

	existing, err := s.repo.FindSubmission(ctx, sourceID, currencyCode, from, to)
	if err != nil {
		return false, fmt.Errorf("lookup today's submission: %w", err)
	}
	if existing != nil {
		if err := s.repo.UpdateSubmission(ctx, existing.ID, pricePer1000, deviceID); err != nil {
			return false, fmt.Errorf("update submission %s: %w", existing.ID, err)
		}
		s.logger.Info("Price submission updated",
			zap.String("id", existing.ID),
			zap.String("currency", currencyCode),
			zap.Float64("price_per_1000", pricePer1000))
		return true, nil
	}

	sub := &domain.PriceSubmission{
		ID:           uuid.NewString(),
		SourceID:     sourceID,
		DeviceID:     deviceID,
		CurrencyCode: currencyCode,
		PricePer1000: pricePer1000,
		SubmittedAt:  now,
	}
	if err := s.repo.InsertSubmission(ctx, sub); err != nil {
		return false, fmt.Errorf("insert submission: %w", err)
	}
	s.logger.Info("Price submission created",
		zap.String("id", sub.ID),
		zap.String("currency", currencyCode),
		zap.Float64("price_per_1000", pricePer1000))
	return false, nil
}

// DailyCandles returns the OHLC series and its trend for a currency. The
// trend is nil for fewer than two candles.
func (s *PriceService) DailyCandles(ctx context.Context, currencyCode string) ([]domain.DailyCandle, *domain.Trend, error) {
	if _, err := s.Currency(currencyCode); err != nil {
		return nil, nil, err
	}
	subs, err := s.repo.ListSubmissions(ctx, currencyCode)
	if err != nil {
		return nil, nil, fmt.Errorf("list submissions: %w", err)
	}
	candles := AggregateDaily(subs)
	if trend, ok := ComputeTrend(candles); ok {
		return candles, &trend, nil
	}
	return candles, nil, nil
}

// CumulativeSeries returns the running-mean series and its trend.
func (s *PriceService) CumulativeSeries(ctx context.Context, currencyCode string) ([]domain.DailyPoint, *domain.Trend, error) {
	if _, err := s.Currency(currencyCode); err != nil {
		return nil, nil, err
	}
	subs, err := s.repo.ListSubmissions(ctx, currencyCode)
	if err != nil {
		return nil, nil, fmt.Errorf("list submissions: %w", err)
	}
	points := AggregateCumulativeMean(subs)
	if trend, ok := TrendOfPoints(points); ok {
		return points, &trend, nil
	}
	return points, nil, nil
}

// EffectiveCurrency returns the currency with its cost-per-point derived from
// the latest submitted price (price per 1000 coins / 1000), falling back to
// the configured default when nothing has been submitted yet.
func (s *PriceService) EffectiveCurrency(ctx context.Context, currencyCode string) (domain.Currency, error) {
	base, err := s.Currency(currencyCode)
	if err != nil {
		return domain.Currency{}, err
	}
	latest, err := s.repo.LatestSubmission(ctx, currencyCode)
	if err != nil {
		return domain.Currency{}, fmt.Errorf("latest submission: %w", err)
	}
	if latest == nil {
		return base, nil
	}
	return domain.WithRate(base, latest.PricePer1000/1000), nil
}
