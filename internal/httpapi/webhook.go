package httpapi

import (
	"encoding/xml"
	"log/slog"
	"net/http"

	"github.com/casavoz/casavoz/internal/triage"
)

// replyTooFast is sent when a sender exceeds the per-minute webhook budget.
const replyTooFast = "Recibimos varios mensajes seguidos. Por favor espera un momento."

// twimlResponse is the reply document the messaging gateway consumes.
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// handleWhatsAppWebhook receives one form-encoded inbound message and always
// answers with a reply document — the top-level boundary converts any
// unhandled fault into a fixed apology rather than an HTTP error.
func (s *Server) handleWhatsAppWebhook(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("webhook panic recovered", "panic", rec)
			writeTwiML(w, triage.ReplyApology)
		}
	}()

	if err := r.ParseForm(); err != nil {
		writeTwiML(w, triage.ReplyIncomplete)
		return
	}
	from := r.PostFormValue("From")
	body := r.PostFormValue("Body")

	limitKey := from
	if limitKey == "" {
		limitKey = r.RemoteAddr
	}
	if !s.limiter.Allow(limitKey) {
		slog.Warn("webhook rate limited", "sender", from)
		writeTwiML(w, replyTooFast)
		return
	}

	reply := s.orchestrator.Handle(r.Context(), triage.IncomingMessage{From: from, Body: body})
	writeTwiML(w, reply)
}

func writeTwiML(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	out, err := xml.Marshal(twimlResponse{Message: message})
	if err != nil {
		slog.Error("marshal reply document", "error", err)
		return
	}
	w.Write([]byte(xml.Header))
	w.Write(out)
}
