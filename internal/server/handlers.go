package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"agiradar/internal/domain"
	"agiradar/internal/universe"
)

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "agiradar",
	})
}

// ---------------------------------------------------------------------------
// Portfolio
// ---------------------------------------------------------------------------

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	overview, err := s.portfolio.Overview(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handlePortfolioActions(w http.ResponseWriter, r *http.Request) {
	decisions, err := s.portfolio.Actions(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"actions": decisions})
}

func (s *Server) handleLadderOverview(w http.ResponseWriter, r *http.Request) {
	signals, err := s.portfolio.LadderOverview(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"signals": signals})
}

func (s *Server) handleLadderToday(w http.ResponseWriter, r *http.Request) {
	signals, err := s.portfolio.LadderToday(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"signals": signals})
}

func (s *Server) handleLadderDone(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	if strings.TrimSpace(ticker) == "" {
		s.writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}
	done, err := s.progress.MarkDone(ticker)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":      strings.ToUpper(ticker),
		"levels_done": done,
	})
}

// ---------------------------------------------------------------------------
// Universe / radar
// ---------------------------------------------------------------------------

func (s *Server) handleRadar(w http.ResponseWriter, r *http.Request) {
	rows, err := s.scan.Radar(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"radar": rows})
}

type universeRequest struct {
	Ticker         string   `json:"ticker"`
	Name           string   `json:"name"`
	Category       string   `json:"category"`
	Exposure       *int     `json:"exposure"`
	WKN            string   `json:"wkn"`
	ReferencePrice *float64 `json:"reference_price"`
}

func (s *Server) handleUniverseUpsert(w http.ResponseWriter, r *http.Request) {
	var req universeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Ticker) == "" {
		s.writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}
	if req.Exposure != nil && (*req.Exposure < 1 || *req.Exposure > 10) {
		s.writeError(w, http.StatusBadRequest, "exposure must be between 1 and 10")
		return
	}

	entry := universe.Entry{
		Ticker:         req.Ticker,
		Name:           req.Name,
		Category:       req.Category,
		Exposure:       req.Exposure,
		WKN:            req.WKN,
		ReferencePrice: req.ReferencePrice,
	}
	if err := s.universe.Upsert(entry); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleUniverseDelete(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	deleted, err := s.universe.Delete(ticker)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !deleted {
		s.writeError(w, http.StatusNotFound, "ticker not in universe")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"deleted": strings.ToUpper(ticker)})
}

func (s *Server) handleBuyList(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = v
	}
	rows, err := s.scan.BuyList(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"buylist": rows})
}

func (s *Server) handleScanNow(w http.ResponseWriter, r *http.Request) {
	scanID, count, err := s.scan.Run(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"scan_id": scanID,
		"entries": count,
	})
}

// ---------------------------------------------------------------------------
// Journal
// ---------------------------------------------------------------------------

func (s *Server) handleJournalList(w http.ResponseWriter, r *http.Request) {
	trades, err := s.journal.All()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"journal": trades})
}

type journalRequest struct {
	Ticker string  `json:"ticker"`
	Action string  `json:"action"`
	Shares float64 `json:"shares"`
	Price  float64 `json:"price"`
	Date   string  `json:"date"`
	Note   string  `json:"note"`
}

// validate enforces the capture rules at the boundary; the rebuild core
// itself accepts any journal it is handed.
func (req *journalRequest) validate() string {
	if strings.TrimSpace(req.Ticker) == "" {
		return "ticker is required"
	}
	if req.Action != "buy" && req.Action != "sell" {
		return "action must be buy or sell"
	}
	if req.Shares == 0 {
		return "shares must be non-zero"
	}
	if req.Price <= 0 {
		return "price must be positive"
	}
	if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		return "date must be ISO formatted (yyyy-mm-dd)"
	}
	return ""
}

func (s *Server) handleJournalAppend(w http.ResponseWriter, r *http.Request) {
	var req journalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		s.writeError(w, http.StatusBadRequest, msg)
		return
	}

	shares := req.Shares
	if shares < 0 {
		shares = -shares
	}
	id, err := s.journal.Append(domain.Trade{
		Ticker: req.Ticker,
		Action: req.Action,
		Shares: shares,
		Price:  req.Price,
		Date:   req.Date,
		Note:   req.Note,
	})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]interface{}{"id": id})
}

func (s *Server) handleJournalDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid journal id")
		return
	}
	deleted, err := s.journal.DeleteByID(id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !deleted {
		s.writeError(w, http.StatusNotFound, "journal entry not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": id})
}

func (s *Server) handleJournalDeleteTicker(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	count, err := s.journal.DeleteByTicker(ticker)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":  strings.ToUpper(ticker),
		"deleted": count,
	})
}

type targetsRequest struct {
	Targets []float64 `json:"targets"`
}

func (s *Server) handleSetTargets(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	var req targetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if len(req.Targets) == 0 {
		if err := s.journal.ClearTargets(ticker); err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]string{"ticker": strings.ToUpper(ticker), "targets": "cleared"})
		return
	}

	for i := 1; i < len(req.Targets); i++ {
		if req.Targets[i] <= req.Targets[i-1] {
			s.writeError(w, http.StatusBadRequest, "targets must be strictly ascending")
			return
		}
	}
	if err := s.journal.SetTargets(ticker, req.Targets); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":  strings.ToUpper(ticker),
		"targets": req.Targets,
	})
}

// ---------------------------------------------------------------------------
// Settings
// ---------------------------------------------------------------------------

func (s *Server) handleGetThresholds(w http.ResponseWriter, r *http.Request) {
	th, err := s.settings.Thresholds()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, th)
}

func (s *Server) handlePutThresholds(w http.ResponseWriter, r *http.Request) {
	var th domain.Thresholds
	if err := json.NewDecoder(r.Body).Decode(&th); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if th.RunUpPct <= 0 {
		s.writeError(w, http.StatusBadRequest, "run_up_pct must be positive")
		return
	}
	if th.DipPct >= 0 {
		s.writeError(w, http.StatusBadRequest, "dip_pct must be negative")
		return
	}
	if err := s.settings.SaveThresholds(th); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, th)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
