package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/vitos/gifter_levels/internal/config"
	"github.com/vitos/gifter_levels/internal/domain"
	"github.com/vitos/gifter_levels/internal/infrastructure/storage"
	"github.com/vitos/gifter_levels/internal/usecase"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store, err := storage.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("Failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	log := zap.NewNop()
	progression := usecase.NewProgressionService(config.DefaultTierTable(), store, log)
	prices := usecase.NewPriceService(store, config.DefaultCurrencies(), log)
	return NewServer(0, prices, progression, store, log)
}

func doJSON(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("X-Forwarded-For", "1.2.3.4")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestSubmitPriceEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/api/prices", `{"currency_code":"BRL","price_per_1000":58.45,"device_id":"dev1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Success bool `json:"success"`
		Updated bool `json:"updated"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Updated {
		t.Errorf("first submit: %+v, want success and not updated", resp)
	}

	// Same IP, same day: correction, not a second row.
	rec = doJSON(t, s, "POST", "/api/prices", `{"currency_code":"BRL","price_per_1000":60,"device_id":"dev1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Updated {
		t.Error("second same-day submit must report updated")
	}
}

func TestSubmitPriceEndpoint_Validation(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/api/prices", `{"currency_code":"BRL","price_per_1000":-1}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("negative price: status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, s, "POST", "/api/prices", `{"currency_code":"XXX","price_per_1000":10}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown currency: status = %d, want 400", rec.Code)
	}
}

func TestCandlesEndpoint_EmptyHistory(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "GET", "/api/candles?currency=BRL", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Candles []domain.DailyCandle `json:"candles"`
		Trend   *domain.Trend        `json:"trend"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Candles) != 0 || resp.Trend != nil {
		t.Errorf("empty history: %+v", resp)
	}
}

func TestCalculateEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "POST", "/api/calculate", `{"points":37918,"currency_code":"BRL","device_id":"dev1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var res usecase.CalcResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.CurrentLevel != 20 {
		t.Errorf("CurrentLevel = %d, want 20", res.CurrentLevel)
	}
	if res.TargetLevel != 50 {
		t.Errorf("TargetLevel = %d, want 50", res.TargetLevel)
	}

	// The calculation landed in the audit history.
	rec = doJSON(t, s, "GET", "/api/calculations?limit=10", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var recs []*domain.CalculationRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &recs); err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].UserPoints != 37918 {
		t.Errorf("audit history = %+v, want 1 record with 37918 points", recs)
	}
}

func TestCalculateEndpoint_UsesSubmittedRate(t *testing.T) {
	s := newTestServer(t)

	// Submit 100 per 1000 -> effective rate 0.1 per point.
	rec := doJSON(t, s, "POST", "/api/prices", `{"currency_code":"BRL","price_per_1000":100}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	rec = doJSON(t, s, "POST", "/api/calculate", `{"points":1000,"currency_code":"BRL"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var res usecase.CalcResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.TotalSpent != 100 {
		t.Errorf("TotalSpent = %v, want 100 (1000 points at 0.1)", res.TotalSpent)
	}
	if res.Currency.CostPerPoint != 0.1 {
		t.Errorf("effective rate = %v, want 0.1", res.Currency.CostPerPoint)
	}
}

func TestLevelsAndCurrenciesEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s, "GET", "/api/levels", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var levels []domain.Tier
	if err := json.Unmarshal(rec.Body.Bytes(), &levels); err != nil {
		t.Fatal(err)
	}
	if len(levels) != 51 {
		t.Errorf("levels = %d, want 51", len(levels))
	}

	rec = doJSON(t, s, "GET", "/api/currencies", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var currencies []domain.Currency
	if err := json.Unmarshal(rec.Body.Bytes(), &currencies); err != nil {
		t.Fatal(err)
	}
	if len(currencies) != 5 {
		t.Errorf("currencies = %d, want 5", len(currencies))
	}
}
