// Package server exposes the transformation pipeline as an HTTP service:
// POST /transform with form-data carrying the model and a direction query
// parameter, plus a health endpoint. Known transformer errors map to HTTP
// 400; internal errors stay generic.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/cors"

	"github.com/woped/bpmn-pnml-transformer/errs"
	"github.com/woped/bpmn-pnml-transformer/log"
	"github.com/woped/bpmn-pnml-transformer/transform"
)

// Server wires the router, the token-check collaborator and the
// configuration together.
type Server struct {
	config *Config
	tokens *TokenChecker
	router http.Handler
}

// New creates a server from the given configuration.
func New(config *Config) *Server {
	s := &Server{
		config: config,
		tokens: NewTokenChecker(config.CheckTokenURL),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(cors.AllowAll().Handler)
	r.Get("/health", s.handleHealth)
	r.Post("/transform", s.handleTransform)
	s.router = r
	return s
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe starts the server on the configured port.
func (s *Server) ListenAndServe() error {
	addr := ":" + s.config.Port
	log.Info("listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// requestID tags every request with a fresh id for log correlation.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		log.Debug("request %s %s %s", id, r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps a transformer error to the response contract: known errors
// become HTTP 400 with their diagnostic, everything else stays generic.
func writeError(w http.ResponseWriter, err error) {
	if known, ok := errs.AsKnown(err); ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": known.Error()})
		return
	}
	log.Error("transformation failed: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

// handleHealth reports service availability; an optional message parameter
// is echoed back, any other parameter is rejected.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	health := map[string]any{"healthy": true}
	if len(query) > 0 {
		message := query.Get("message")
		if message == "" || len(query) > 1 {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"code":    http.StatusBadRequest,
				"message": "Invalid parameter provided.",
			})
			return
		}
		health["message"] = message
	}
	writeJSON(w, http.StatusOK, health)
}

// handleTransform runs one model transformation in the requested direction.
func (s *Server) handleTransform(w http.ResponseWriter, r *http.Request) {
	if err := s.tokens.Check(); err != nil {
		writeError(w, err)
		return
	}

	direction := r.URL.Query().Get("direction")
	switch direction {
	case "bpmntopnml":
		bpmnContent := r.FormValue("bpmn")
		isTargetWorkflow := r.FormValue("isTargetWorkflow") == "true"
		var result string
		var err error
		if isTargetWorkflow {
			result, err = transform.BPMNToWorkflowNet(bpmnContent)
		} else {
			result, err = transform.BPMNToSTNet(bpmnContent)
		}
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"pnml": result})
	case "pnmltobpmn":
		pnmlContent := r.FormValue("pnml")
		result, err := transform.PNMLToBPMN(pnmlContent)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"bpmn": result})
	default:
		writeError(w, errs.UnexpectedQueryParameter(direction))
	}
}
