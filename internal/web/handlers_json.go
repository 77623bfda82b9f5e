package web

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/vitos/gifter_levels/internal/domain"
	"github.com/vitos/gifter_levels/internal/usecase"
	"go.uber.org/zap"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if isValidationErr(err) {
		status = http.StatusBadRequest
	} else {
		s.logger.Error("Request failed", zap.Error(err))
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func isValidationErr(err error) bool {
	return errors.Is(err, domain.ErrInvalidPoints) ||
		errors.Is(err, domain.ErrInvalidRate) ||
		errors.Is(err, domain.ErrInvalidPrice) ||
		errors.Is(err, domain.ErrInvalidLevel) ||
		errors.Is(err, domain.ErrUnknownCurrency)
}

// clientIP identifies the submission source: first x-forwarded-for hop, then
// x-real-ip, then the connection's remote address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	if ip := r.Header.Get("X-Real-Ip"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.progression.Table())
}

func (s *Server) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.prices.Currencies())
}

type calculateRequest struct {
	DeviceID     string `json:"device_id"`
	Points       int64  `json:"points"`
	CurrencyCode string `json:"currency_code"`
	TargetLevel  int    `json:"target_level"`
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if req.CurrencyCode == "" {
		req.CurrencyCode = "BRL"
	}

	// The displayed amounts use the effective rate: latest community price
	// when present, configured default otherwise.
	currency, err := s.prices.EffectiveCurrency(r.Context(), req.CurrencyCode)
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.progression.Calculate(r.Context(), usecase.CalcInput{
		SourceID:    clientIP(r),
		DeviceID:    req.DeviceID,
		Points:      req.Points,
		Currency:    currency,
		TargetLevel: req.TargetLevel,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleListCalculations(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	recs, err := s.calcRepo.ListCalculations(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if recs == nil {
		recs = []*domain.CalculationRecord{}
	}
	s.writeJSON(w, http.StatusOK, recs)
}

type submitPriceRequest struct {
	DeviceID     string  `json:"device_id"`
	CurrencyCode string  `json:"currency_code"`
	PricePer1000 float64 `json:"price_per_1000"`
}

func (s *Server) handleSubmitPrice(w http.ResponseWriter, r *http.Request) {
	var req submitPriceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if req.CurrencyCode == "" {
		req.CurrencyCode = "BRL"
	}

	updated, err := s.prices.SubmitPrice(r.Context(), clientIP(r), req.DeviceID, req.CurrencyCode, req.PricePer1000)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.hub.Broadcast(PriceUpdate{
		CurrencyCode: req.CurrencyCode,
		PricePer1000: req.PricePer1000,
		Updated:      updated,
	})
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"updated": updated,
	})
}

func (s *Server) handleGetCandles(w http.ResponseWriter, r *http.Request) {
	currency := r.URL.Query().Get("currency")
	if currency == "" {
		currency = "BRL"
	}
	candles, trend, err := s.prices.DailyCandles(r.Context(), currency)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if candles == nil {
		candles = []domain.DailyCandle{}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"candles": candles,
		"trend":   trend,
	})
}

func (s *Server) handleGetChart(w http.ResponseWriter, r *http.Request) {
	currency := r.URL.Query().Get("currency")
	if currency == "" {
		currency = "BRL"
	}
	points, trend, err := s.prices.CumulativeSeries(r.Context(), currency)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if points == nil {
		points = []domain.DailyPoint{}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"points": points,
		"trend":  trend,
	})
}
