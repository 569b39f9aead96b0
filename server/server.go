package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"url-risk-analyzer/history"
	"url-risk-analyzer/logger"
	"url-risk-analyzer/phishing"
)

const requestTimeout = 60 * time.Second

// Analyzer scores a single URL. *phishing.Analyzer implements it.
type Analyzer interface {
	Analyze(ctx context.Context, rawURL string) phishing.Result
}

// Server serves the analysis API.
type Server struct {
	analyzer Analyzer
	history  *history.Store
	now      func() time.Time
}

// New returns a Server that records each analysis in store.
func New(analyzer Analyzer, store *history.Store) *Server {
	return &Server{analyzer: analyzer, history: store, now: time.Now}
}

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	URL string `json:"url"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Routes returns the API router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(cors)

	r.Get("/", s.handleIndex)
	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/history", s.handleHistory)
	})
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Phishing Detection API Running"))
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	log := logger.Component("server")

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.DebugContext(r.Context(), "bad analyze body", "error", err)
	}
	url := strings.TrimSpace(req.URL)
	if url == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "URL is required"})
		return
	}

	result := s.analyzer.Analyze(r.Context(), url)
	if r.Context().Err() == nil {
		s.history.Add(history.NewEntry(result, s.now()))
	}

	log.InfoContext(r.Context(), "analyze request served",
		"request_id", middleware.GetReqID(r.Context()),
		"url", url,
		"score", result.RiskScore)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.history.List())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
