package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/camuig/trader-analyst/internal/chatbot"
	"github.com/camuig/trader-analyst/internal/domain"
	"github.com/camuig/trader-analyst/internal/intent"
	"github.com/camuig/trader-analyst/internal/knowledge"
)

const defaultQueriesLimit = 20

type TradersResponse struct {
	Count   int            `json:"count"`
	Traders []domain.Entry `json:"traders"`
}

type SummaryResponse struct {
	knowledge.Summary
	Styles     []string `json:"styles"`
	RiskLevels []string `json:"risk_levels"`
}

type QueryRequest struct {
	Query string `json:"query"`
}

type QueryResponse struct {
	Answer      string                `json:"answer"`
	RequestID   string                `json:"request_id"`
	Intent      intent.Intent         `json:"intent"`
	Outcome     chatbot.Outcome       `json:"outcome"`
	Suggestions []string              `json:"suggestions,omitempty"`
	Comparison  *knowledge.Comparison `json:"comparison,omitempty"`
	Context     knowledge.Context     `json:"context"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleTraders(w http.ResponseWriter, r *http.Request) {
	c, err := parseCriteria(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	traders := s.kb.Filter(c)
	if traders == nil {
		traders = []domain.Entry{}
	}
	s.writeJSON(w, http.StatusOK, TradersResponse{Count: len(traders), Traders: traders})
}

func (s *Server) handleTrader(w http.ResponseWriter, r *http.Request) {
	id := strings.ToUpper(r.PathValue("id"))
	e, ok := s.kb.Get(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("trader %s not found", id))
		return
	}
	s.writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	c, err := parseCriteria(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, SummaryResponse{
		Summary:    knowledge.Summarize(s.kb.Filter(c)),
		Styles:     s.kb.Styles(),
		RiskLevels: s.kb.RiskLevels(),
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	q := strings.TrimSpace(req.Query)
	if q == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("query is empty"))
		return
	}

	ex := s.bot.Ask(chatbot.WithSource(r.Context(), "web"), q)

	entries := make([]domain.Entry, 0, len(ex.TraderIDs))
	for _, id := range ex.TraderIDs {
		if e, ok := s.kb.Get(id); ok {
			entries = append(entries, e)
		}
	}

	s.writeJSON(w, http.StatusOK, QueryResponse{
		Answer:      ex.Response,
		RequestID:   ex.ID,
		Intent:      ex.Intent,
		Outcome:     ex.Outcome,
		Suggestions: ex.Suggestions,
		Comparison:  ex.Comparison,
		Context:     knowledge.BuildContext(q, entries),
	})
}

func (s *Server) handleQueries(w http.ResponseWriter, r *http.Request) {
	if s.repo == nil {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("query log is disabled"))
		return
	}
	limit := defaultQueriesLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid limit %q", v))
			return
		}
		limit = n
	}

	logs, err := s.repo.GetRecentQueries(limit)
	if err != nil {
		s.logger.Error("get recent queries", "error", err)
		s.writeError(w, http.StatusInternalServerError, fmt.Errorf("internal server error"))
		return
	}
	s.writeJSON(w, http.StatusOK, logs)
}

func parseCriteria(r *http.Request) (knowledge.Criteria, error) {
	q := r.URL.Query()
	c := knowledge.Criteria{
		Style: q.Get("style"),
		Risk:  q.Get("risk"),
	}
	var err error
	if c.MinExperience, err = intParam(q.Get("min_exp")); err != nil {
		return c, fmt.Errorf("min_exp: %w", err)
	}
	if c.MaxExperience, err = intParam(q.Get("max_exp")); err != nil {
		return c, fmt.Errorf("max_exp: %w", err)
	}
	return c, nil
}

func intParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", v)
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative: %d", n)
	}
	return n, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}
