package usecase

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/vitos/gifter_levels/internal/domain"
	"go.uber.org/zap"
)

// milestoneStep designates every Nth level as an intermediate goal.
const milestoneStep = 5

// ProgressionService maps a gift-points balance onto the tier table and
// computes monetary distances. All lookups are pure; only Calculate has a
// side effect (the audit record).
type ProgressionService struct {
	table      domain.TierTable
	milestones []int
	calcRepo   domain.CalculationRepository
	logger     *zap.Logger
	timeNow    func() time.Time // For testing
}

func NewProgressionService(table domain.TierTable, calcRepo domain.CalculationRepository, logger *zap.Logger) *ProgressionService {
	var milestones []int
	top := table.Top().Level
	for m := milestoneStep; m < top; m += milestoneStep {
		milestones = append(milestones, m)
	}
	milestones = append(milestones, top)

	return &ProgressionService{
		table:      table,
		milestones: milestones,
		calcRepo:   calcRepo,
		logger:     logger,
		timeNow:    time.Now,
	}
}

// Table returns the immutable tier table the service was built with.
func (s *ProgressionService) Table() domain.TierTable {
	return s.table
}

// TierOf returns the level whose range contains points. Points at or past the
// final tier's start map to the final level; the top tier is unbounded above
// its nominal end. Zero or negative points map to level 0.
func (s *ProgressionService) TierOf(points int64) int {
	if points <= 0 {
		return s.table[0].Level
	}
	if points >= s.table.Top().Start {
		return s.table.Top().Level
	}
	for _, t := range s.table {
		if points >= t.Start && points <= t.End {
			return t.Level
		}
	}
	// Unreachable for a validated table.
	return s.table[0].Level
}

// PointsToNextTier returns the points missing to enter the next tier, or 0
// when the balance is at level 0 (not started) or already at the top.
func (s *ProgressionService) PointsToNextTier(points int64) int64 {
	level := s.TierOf(points)
	if level == s.table[0].Level || level == s.table.Top().Level {
		return 0
	}
	next, ok := s.table.ByLevel(level + 1)
	if !ok {
		return 0
	}
	return clampPoints(next.Start - points)
}

// MoneyToNextTier converts PointsToNextTier into the given currency.
func (s *ProgressionService) MoneyToNextTier(points int64, costPerPoint float64) (float64, error) {
	if err := validateRate(costPerPoint); err != nil {
		return 0, err
	}
	return float64(s.PointsToNextTier(points)) * costPerPoint, nil
}

// TotalSpent is the monetary equivalent of the whole balance.
func (s *ProgressionService) TotalSpent(points int64, costPerPoint float64) (float64, error) {
	if points < 0 {
		return 0, domain.ErrInvalidPoints
	}
	if err := validateRate(costPerPoint); err != nil {
		return 0, err
	}
	return float64(points) * costPerPoint, nil
}

// PointsToMilestone returns the points missing to reach an arbitrary level,
// 0 when the balance is already at or past it.
func (s *ProgressionService) PointsToMilestone(points int64, milestoneLevel int) (int64, error) {
	target, ok := s.table.ByLevel(milestoneLevel)
	if !ok {
		return 0, domain.ErrInvalidLevel
	}
	return clampPoints(target.Start - points), nil
}

// MoneyToMilestone converts PointsToMilestone into the given currency.
func (s *ProgressionService) MoneyToMilestone(points int64, milestoneLevel int, costPerPoint float64) (float64, error) {
	if err := validateRate(costPerPoint); err != nil {
		return 0, err
	}
	needed, err := s.PointsToMilestone(points, milestoneLevel)
	if err != nil {
		return 0, err
	}
	return float64(needed) * costPerPoint, nil
}

// ProgressWithinTier returns how far into the current tier the balance is, in
// percent. The open-ended top tier and single-point tiers always report 100.
func (s *ProgressionService) ProgressWithinTier(points int64) float64 {
	level := s.TierOf(points)
	tier, ok := s.table.ByLevel(level)
	if !ok {
		return 0
	}
	if level == s.table.Top().Level || tier.SinglePoint() {
		return 100
	}
	p := float64(points-tier.Start) / float64(tier.End-tier.Start) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// NextMilestone returns the smallest milestone level strictly above
// currentLevel, or the top level when none remain.
func (s *ProgressionService) NextMilestone(currentLevel int) int {
	for _, m := range s.milestones {
		if m > currentLevel {
			return m
		}
	}
	return s.table.Top().Level
}

func clampPoints(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

func validateRate(costPerPoint float64) error {
	if costPerPoint <= 0 || math.IsNaN(costPerPoint) || math.IsInf(costPerPoint, 0) {
		return domain.ErrInvalidRate
	}
	return nil
}

// CalcInput is one complete calculation request.
type CalcInput struct {
	SourceID    string
	DeviceID    string
	Points      int64
	Currency    domain.Currency
	TargetLevel int // 0 means the top level
}

// CalcResult is the full stat set shown after a calculation.
type CalcResult struct {
	CurrentLevel    int             `json:"current_level"`
	Progress        float64         `json:"progress"`
	PointsToNext    int64           `json:"points_to_next"`
	MoneyToNext     float64         `json:"money_to_next"`
	TotalSpent      float64         `json:"total_spent"`
	TargetLevel     int             `json:"target_level"`
	PointsToTarget  int64           `json:"points_to_target"`
	MoneyToTarget   float64         `json:"money_to_target"`
	NextMilestone   int             `json:"next_milestone"`
	Currency        domain.Currency `json:"currency"`
	UserPoints      int64           `json:"user_points"`
}

// Calculate runs the whole stat set for a balance and appends an audit record.
// A failed audit write fails the call; the caller may retry, nothing partial
// is returned.
func (s *ProgressionService) Calculate(ctx context.Context, in CalcInput) (*CalcResult, error) {
	if in.Points < 0 {
		return nil, domain.ErrInvalidPoints
	}
	if err := validateRate(in.Currency.CostPerPoint); err != nil {
		return nil, err
	}
	target := in.TargetLevel
	if target == 0 {
		target = s.table.Top().Level
	}

	level := s.TierOf(in.Points)
	pointsToNext := s.PointsToNextTier(in.Points)
	pointsToTarget, err := s.PointsToMilestone(in.Points, target)
	if err != nil {
		return nil, err
	}

	rate := in.Currency.CostPerPoint
	res := &CalcResult{
		CurrentLevel:   level,
		Progress:       s.ProgressWithinTier(in.Points),
		PointsToNext:   pointsToNext,
		MoneyToNext:    float64(pointsToNext) * rate,
		TotalSpent:     float64(in.Points) * rate,
		TargetLevel:    target,
		PointsToTarget: pointsToTarget,
		MoneyToTarget:  float64(pointsToTarget) * rate,
		NextMilestone:  s.NextMilestone(level),
		Currency:       in.Currency,
		UserPoints:     in.Points,
	}

	rec := &domain.CalculationRecord{
		ID:               uuid.NewString(),
		SourceID:         in.SourceID,
		DeviceID:         in.DeviceID,
		CurrencyCode:     in.Currency.Code,
		CurrentLevel:     level,
		TargetLevel:      target,
		PointsNeeded:     pointsToTarget,
		AmountCalculated: res.MoneyToTarget,
		UserPoints:       in.Points,
		CreatedAt:        s.timeNow().UTC(),
	}
	if err := s.calcRepo.SaveCalculation(ctx, rec); err != nil {
		return nil, err
	}
	s.logger.Info("Calculation saved",
		zap.String("id", rec.ID),
		zap.Int64("points", in.Points),
		zap.Int("level", level),
		zap.String("currency", in.Currency.Code))

	return res, nil
}
