package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/dgnsrekt/gexlab/internal/chain"
	"github.com/dgnsrekt/gexlab/internal/config"
	"github.com/dgnsrekt/gexlab/internal/gex"
)

type Server struct {
	config    *config.Config
	evaluator *gex.Evaluator
	limiter   *rate.Limiter
	logger    *zap.Logger
}

func NewServer(cfg *config.Config, logger *zap.Logger) *Server {
	return &Server{
		config:    cfg,
		evaluator: gex.NewEvaluator(cfg.Analytics.Workers, logger),
		limiter:   rate.NewLimiter(rate.Limit(cfg.Server.RatePerSecond), cfg.Server.RatePerSecond),
		logger:    logger,
	}
}

type healthResponse struct {
	Status        string `json:"status"`
	DataDirectory string `json:"data_directory"`
}

type snapshotsResponse struct {
	Snapshots []string `json:"snapshots"`
	Count     int      `json:"count"`
}

// metricsResponse is the full metric set of one chain pass.
type metricsResponse struct {
	Snapshot string  `json:"snapshot"`
	Symbol   string  `json:"symbol"`
	AsOf     string  `json:"as_of"`
	Spot     float64 `json:"spot"`

	GrossGEX  float64 `json:"gross_gex"`
	NetGEX    float64 `json:"net_gex"`
	Imbalance float64 `json:"imbalance"`
	HedgeFlow float64 `json:"hedge_flow_score"`

	ZeroGammaLevel float64 `json:"zero_gamma_level"`
	ZeroGammaFound bool    `json:"zero_gamma_found"`

	Strikes []gex.StrikeExposure `json:"strikes"`

	PassID        string           `json:"pass_id"`
	QuotesTotal   int              `json:"quotes_total"`
	QuotesSkipped int              `json:"quotes_skipped"`
	SkippedQuotes []gex.SkippedRow `json:"skipped_quotes,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "ok",
		DataDirectory: s.config.Data.Directory,
	})
}

func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	names, err := chain.ListSnapshots(s.config.Data.Directory)
	if err != nil {
		s.logger.Error("listing snapshots", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "snapshot directory unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, snapshotsResponse{Snapshots: names, Count: len(names)})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "snapshot")
	if !validSnapshotName(name) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid snapshot name"})
		return
	}

	path := filepath.Join(s.config.Data.Directory, name)
	snap, err := chain.LoadSnapshot(path, s.config.Analytics.RiskFreeRate, s.logger)
	if err != nil {
		s.logger.Warn("loading snapshot", zap.String("snapshot", name), zap.Error(err))
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "snapshot not found or unreadable"})
		return
	}

	win := s.config.Analytics.Window()
	pass, err := s.evaluator.Evaluate(r.Context(), snap.Quotes, snap.Market, win)
	if err != nil {
		s.logger.Error("chain pass failed", zap.String("snapshot", name), zap.Error(err))
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}

	spot := snap.Market.Spot
	resp := metricsResponse{
		Snapshot:      name,
		Symbol:        snap.Symbol,
		AsOf:          snap.AsOf.Format("2006-01-02T15:04:05Z07:00"),
		Spot:          spot,
		GrossGEX: gex.GrossGEX(pass.Rows, spot, win.StrikeWidth),
		NetGEX:   gex.NetGEX(pass.Rows, spot, win.StrikeWidth),
		HedgeFlow: gex.HedgeFlowScore(pass.Rows, spot,
			s.config.Analytics.SpotWindowPct, s.config.Analytics.ReferenceMovePct),
		Strikes:       gex.NetByStrike(pass.Rows, spot, win.StrikeWidth),
		PassID:        pass.ID,
		QuotesTotal:   pass.Total,
		QuotesSkipped: pass.Skipped + snap.SkippedRows,
		SkippedQuotes: pass.Skips,
	}

	dgi, err := gex.Imbalance(pass.Rows, spot, win.StrikeWidth)
	if err != nil && !errors.Is(err, gex.ErrEmptyWindow) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	// An empty window reads as a neutral market at this surface.
	resp.Imbalance = dgi

	zg, err := s.evaluator.LocateZeroGamma(r.Context(), snap.Quotes, snap.Market, win,
		s.config.Analytics.GridRange, s.config.Analytics.GridStep)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	resp.ZeroGammaLevel = zg.Level
	resp.ZeroGammaFound = zg.Found

	writeJSON(w, http.StatusOK, resp)
}

// validSnapshotName rejects anything that could escape the data directory.
func validSnapshotName(name string) bool {
	if name == "" || strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return false
	}
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".csv.gz")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
