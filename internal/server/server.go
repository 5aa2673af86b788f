// Package server is the thin HTTP boundary around the analysis engine:
// it maps request bodies to engine calls and engine results (or the
// single SyntaxError failure) to JSON responses. No analysis logic lives
// here.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"codexplain/internal/analyzer"
	"codexplain/internal/config"
	"codexplain/internal/models"
)

type Server struct {
	config *config.Config
	engine *analyzer.Engine
}

func New(cfg *config.Config) *Server {
	return &Server{
		config: cfg,
		engine: analyzer.New(),
	}
}

// Handler returns the route table. Each request runs its own engine call;
// the engine holds no shared mutable state, so no synchronization is
// needed between concurrent requests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	return mux
}

func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:    s.config.Server.Address,
		Handler: s.Handler(),
	}
	return srv.ListenAndServe()
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	source, err := s.readSource(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), 0)
		return
	}

	result, err := s.engine.Analyze(source)
	if err != nil {
		var syntaxErr *models.SyntaxError
		if errors.As(err, &syntaxErr) {
			writeError(w, http.StatusUnprocessableEntity, syntaxErr.Message, syntaxErr.Line)
			return
		}
		writeError(w, http.StatusInternalServerError, "analysis failed", 0)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readSource accepts the snippet either as a raw request body or as the
// form field "code", so a plain HTML form can post straight to /analyze.
func (s *Server) readSource(r *http.Request) (string, error) {
	limit := int64(s.config.Analysis.MaxSourceBytes)
	r.Body = http.MaxBytesReader(nil, r.Body, limit)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return "", fmt.Errorf("reading form body: %w", err)
		}
		code := r.PostFormValue("code")
		if code == "" {
			return "", fmt.Errorf("form field %q is empty", "code")
		}
		return code, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return "", fmt.Errorf("reading request body: %w", err)
	}
	if len(body) == 0 {
		return "", fmt.Errorf("request body is empty")
	}
	return string(body), nil
}

type errorResponse struct {
	Error string `json:"error"`
	Line  int    `json:"line,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message string, line int) {
	writeJSON(w, status, errorResponse{Error: message, Line: line})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
