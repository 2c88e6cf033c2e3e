// Package httpapi is the inbound transport boundary: the WhatsApp webhook
// endpoint plus health and connectivity probes. Replies go back as the
// text/XML document the messaging gateway expects; malformed requests get a
// fixed error reply, never a fault.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/casavoz/casavoz/internal/providers"
	"github.com/casavoz/casavoz/internal/store"
	"github.com/casavoz/casavoz/internal/triage"
)

// Server serves the webhook and diagnostic endpoints.
type Server struct {
	orchestrator *triage.Orchestrator
	stores       *store.Stores
	provider     providers.Provider
	limiter      *SenderRateLimiter

	httpSrv *http.Server
}

func NewServer(addr string, orchestrator *triage.Orchestrator, stores *store.Stores, provider providers.Provider, rateLimitRPM int) *Server {
	s := &Server{
		orchestrator: orchestrator,
		stores:       stores,
		provider:     provider,
		limiter:      NewSenderRateLimiter(rateLimitRPM),
	}
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /webhook/whatsapp", s.handleWhatsAppWebhook)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /test/db", s.handleTestDB)
	mux.HandleFunc("GET /test/ai", s.handleTestAI)
	return mux
}

// ListenAndServe blocks serving requests until Shutdown or a listener error.
func (s *Server) ListenAndServe() error {
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleTestDB probes tenant store connectivity.
func (s *Server) handleTestDB(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := s.stores.Tenants.Ping(ctx); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"success": false, "error": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// handleTestAI probes the completion provider with a one-line prompt.
func (s *Server) handleTestAI(w http.ResponseWriter, r *http.Request) {
	if s.provider == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"success": false, "error": "no AI provider configured",
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	resp, err := s.provider.Chat(ctx, providers.ChatRequest{
		Messages: []providers.Message{{Role: "user", Content: "Reply with the single word: ok"}},
	})
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"success": false, "error": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true, "content": resp.Content,
	})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Debug("write JSON response", "error", err)
	}
}
