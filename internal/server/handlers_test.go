package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/dgnsrekt/gexlab/internal/config"
)

const sampleCSV = `strike,contract_type,expiration_date,open_interest,theoretical_volatility,gamma,last,underlying_price
95,PUT,2026-02-20,1000,25.0,0,2.1,100
100,CALL,2026-02-20,800,22.0,0,3.4,100
100,PUT,2026-02-20,900,23.5,0,3.2,100
105,CALL,2026-02-20,1200,21.0,0,1.8,100
`

func testServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	name := "SPXW_exp2026-02-20_2026-01-05_14-30-00.csv"
	if err := os.WriteFile(filepath.Join(dir, name), []byte(sampleCSV), 0600); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		Analytics: config.AnalyticsConfig{
			StrikeWidth: 50, Multiplier: 100, GammaScale: 0.01,
			GridRange: 20, GridStep: 1,
			SpotWindowPct: 0.01, ReferenceMovePct: 0.0025, Workers: 2,
		},
		Data:   config.DataConfig{Directory: dir},
		Server: config.ServerConfig{Port: "8080", RatePerSecond: 100},
	}
	return NewServer(cfg, zap.NewNop()), name
}

func TestHealthHandler(t *testing.T) {
	srv, _ := testServer(t)
	router := NewRouter(srv, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected ok status, got %q", resp.Status)
	}
}

func TestSnapshotsHandler(t *testing.T) {
	srv, name := testServer(t)
	router := NewRouter(srv, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/snapshots", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp snapshotsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Count != 1 || resp.Snapshots[0] != name {
		t.Errorf("expected [%s], got %v", name, resp.Snapshots)
	}
}

func TestMetricsHandler(t *testing.T) {
	srv, name := testServer(t)
	router := NewRouter(srv, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/metrics/"+name, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp metricsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Symbol != "SPXW" || resp.Spot != 100 {
		t.Errorf("unexpected snapshot context: %+v", resp)
	}
	if resp.GrossGEX <= 0 {
		t.Errorf("expected positive gross exposure, got %v", resp.GrossGEX)
	}
	if resp.Imbalance < -1 || resp.Imbalance > 1 {
		t.Errorf("imbalance out of range: %v", resp.Imbalance)
	}
	if resp.HedgeFlow < -1 || resp.HedgeFlow > 1 {
		t.Errorf("hedge flow score out of range: %v", resp.HedgeFlow)
	}
	if len(resp.Strikes) != 3 {
		t.Errorf("expected 3 strike buckets, got %d", len(resp.Strikes))
	}
	if resp.QuotesTotal != 4 || resp.QuotesSkipped != 0 {
		t.Errorf("unexpected pass counters: %+v", resp)
	}
	if resp.PassID == "" {
		t.Error("expected a pass id")
	}
}

func TestMetricsHandlerUnknownSnapshot(t *testing.T) {
	srv, _ := testServer(t)
	router := NewRouter(srv, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/metrics/SPXW_exp2026-02-20_2026-01-06_14-30-00.csv", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestMetricsHandlerRejectsTraversal(t *testing.T) {
	srv, _ := testServer(t)
	router := NewRouter(srv, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/metrics/..%2fsecret.csv", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	srv, _ := testServer(t)
	srv.limiter.SetLimit(1)
	srv.limiter.SetBurst(1)
	router := NewRouter(srv, zap.NewNop())

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/health", nil))
	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/health", nil))

	if first.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", first.Code)
	}
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 on burst exhaustion, got %d", second.Code)
	}
}
