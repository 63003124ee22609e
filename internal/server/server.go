// Package server exposes the discovery pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/llm"
	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/pipeline"
	"github.com/sells-group/leadscout/internal/store"
)

const defaultLeadCount = 10

// Runner executes discovery runs.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

// Analyst is the optional LLM collaborator. A Server with a nil Analyst
// serves discovery but rejects the language endpoints.
type Analyst interface {
	AnalyzeProduct(ctx context.Context, description string) (*llm.ProductAnalysis, error)
	EnrichLeads(ctx context.Context, leads []model.RankedLead) error
	PersonalizeMessage(ctx context.Context, lead model.RankedLead, product string) (string, error)
}

// Server holds the HTTP API's dependencies.
type Server struct {
	store   store.Store
	runner  Runner
	analyst Analyst
}

// New creates a Server. analyst may be nil.
func New(st store.Store, runner Runner, analyst Analyst) *Server {
	return &Server{store: st, runner: runner, analyst: analyst}
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/api/health", s.handleHealth)
	r.Post("/api/analyze-product", s.handleAnalyzeProduct)
	r.Post("/api/find-leads", s.handleFindLeads)
	r.Post("/api/personalize-messages", s.handlePersonalize)
	r.Get("/api/runs", s.handleListRuns)
	r.Get("/api/runs/{runID}/leads", s.handleRunLeads)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAnalyzeProduct(w http.ResponseWriter, r *http.Request) {
	if s.analyst == nil {
		respondError(w, http.StatusServiceUnavailable, "analysis requires an Anthropic API key")
		return
	}

	var req struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Description == "" {
		respondError(w, http.StatusBadRequest, "description is required")
		return
	}

	analysis, err := s.analyst.AnalyzeProduct(r.Context(), req.Description)
	if err != nil {
		zap.L().Error("analyze product failed", zap.Error(err))
		respondError(w, http.StatusBadGateway, "analysis failed")
		return
	}
	respondJSON(w, http.StatusOK, analysis)
}

type findLeadsRequest struct {
	Seed        string                `json:"seed"`
	Profile     model.AudienceProfile `json:"profile"`
	Count       int                   `json:"count"`
	Description string                `json:"description"`
}

type findLeadsResponse struct {
	RunID        string             `json:"run_id"`
	Leads        []model.RankedLead `json:"leads"`
	UsedFallback bool               `json:"used_fallback"`
}

func (s *Server) handleFindLeads(w http.ResponseWriter, r *http.Request) {
	var req findLeadsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Count <= 0 {
		req.Count = defaultLeadCount
	}

	// A product description can stand in for an explicit seed when the
	// analyst is available.
	if req.Seed == "" && req.Description != "" && s.analyst != nil {
		analysis, err := s.analyst.AnalyzeProduct(r.Context(), req.Description)
		if err != nil {
			zap.L().Error("analyze product failed", zap.Error(err))
			respondError(w, http.StatusBadGateway, "analysis failed")
			return
		}
		if len(analysis.SeedTerms) > 0 {
			req.Seed = analysis.SeedTerms[0]
			req.Profile = analysis.Profile
		}
	}
	if req.Seed == "" {
		respondError(w, http.StatusBadRequest, "seed or description is required")
		return
	}

	run, err := s.store.CreateRun(r.Context(), req.Seed, req.Profile, req.Count)
	if err != nil {
		zap.L().Error("create run failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not create run")
		return
	}

	res, err := s.runner.Run(r.Context(), pipeline.Request{
		Seed:    req.Seed,
		Profile: req.Profile,
		Count:   req.Count,
	})
	if err != nil {
		_ = s.store.FailRun(r.Context(), run.ID, err)
		zap.L().Error("discovery run failed", zap.String("run_id", run.ID), zap.Error(err))
		respondError(w, http.StatusBadGateway, "discovery run failed")
		return
	}

	if s.analyst != nil {
		if err := s.analyst.EnrichLeads(r.Context(), res.Leads); err != nil {
			zap.L().Warn("lead enrichment failed", zap.String("run_id", run.ID), zap.Error(err))
		}
	}

	if err := s.store.InsertLeads(r.Context(), run.ID, res.Leads); err != nil {
		zap.L().Error("persist leads failed", zap.String("run_id", run.ID), zap.Error(err))
	}
	if err := s.store.CompleteRun(r.Context(), run.ID, store.RunStats{
		QueriesIssued: res.QueriesIssued,
		PagesFetched:  res.PagesFetched,
		UsedFallback:  res.UsedFallback,
		LeadCount:     len(res.Leads),
	}); err != nil {
		zap.L().Error("complete run failed", zap.String("run_id", run.ID), zap.Error(err))
	}

	respondJSON(w, http.StatusOK, findLeadsResponse{
		RunID:        run.ID,
		Leads:        res.Leads,
		UsedFallback: res.UsedFallback,
	})
}

type personalizeRequest struct {
	Product string             `json:"product"`
	Leads   []model.RankedLead `json:"leads"`
}

type personalizedMessage struct {
	LeadID  string `json:"lead_id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

func (s *Server) handlePersonalize(w http.ResponseWriter, r *http.Request) {
	if s.analyst == nil {
		respondError(w, http.StatusServiceUnavailable, "personalization requires an Anthropic API key")
		return
	}

	var req personalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Product == "" || len(req.Leads) == 0 {
		respondError(w, http.StatusBadRequest, "product and leads are required")
		return
	}

	messages := make([]personalizedMessage, 0, len(req.Leads))
	for _, lead := range req.Leads {
		msg, err := s.analyst.PersonalizeMessage(r.Context(), lead, req.Product)
		if err != nil {
			zap.L().Warn("personalize message failed",
				zap.String("lead", lead.Name), zap.Error(err))
			continue
		}
		messages = append(messages, personalizedMessage{
			LeadID:  lead.ID,
			Name:    lead.Name,
			Message: msg,
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := s.store.ListRuns(r.Context(), 100)
	if err != nil {
		zap.L().Error("list runs failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not list runs")
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleRunLeads(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	if _, err := s.store.GetRun(r.Context(), runID); err != nil {
		respondError(w, http.StatusNotFound, "run not found")
		return
	}

	leads, err := s.store.ListLeads(r.Context(), runID)
	if err != nil {
		zap.L().Error("list leads failed", zap.String("run_id", runID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "could not list leads")
		return
	}
	if leads == nil {
		leads = []model.RankedLead{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"leads": leads})
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response failed", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
