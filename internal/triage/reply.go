// Package triage implements the inbound-message pipeline: identify the
// sending tenant, classify the message into a structured reply, persist the
// exchange, and escalate urgent issues to the landlord.
package triage

import "strings"

// Category classifies a tenant message.
type Category string

const (
	CategoryUrgent      Category = "URGENT"
	CategoryMaintenance Category = "MAINTENANCE"
	CategoryPayment     Category = "PAYMENT"
	CategoryInquiry     Category = "INQUIRY"
)

// ParseCategory maps a wire token to a Category. Models prompted in Spanish
// sometimes answer with Spanish tags, so both forms are accepted.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "URGENT", "URGENTE":
		return CategoryUrgent, true
	case "MAINTENANCE", "MANTENIMIENTO":
		return CategoryMaintenance, true
	case "PAYMENT", "PAGO":
		return CategoryPayment, true
	case "INQUIRY", "CONSULTA":
		return CategoryInquiry, true
	}
	return "", false
}

// StructuredReply is the classified outcome of one inbound message.
// Produced fresh per invocation and never mutated afterwards.
type StructuredReply struct {
	Message        string   `json:"message"`
	Category       Category `json:"category"`
	NeedsAttention bool     `json:"needsAttention"`
}

// IncomingMessage is one raw inbound message from the transport layer.
// It exists only for the duration of a single triage invocation.
type IncomingMessage struct {
	From string // raw sender identifier, possibly "whatsapp:"-prefixed
	Body string
}

// Fixed sender-facing replies. The sender must always receive some reply
// text; internal faults are never visible beyond these.
const (
	// ReplyNotRecognized is returned when no tenant matches the sender.
	ReplyNotRecognized = "Lo siento, no reconozco este número."
	// ReplyIncomplete is returned when the identifier or body is missing.
	ReplyIncomplete = "Error: datos incompletos"
	// ReplyApology is the terminal catch-all for unhandled faults.
	ReplyApology = "Disculpa, hubo un error."
)

// genericReply is the outer safety net around the whole generation step:
// used when generation fails before the classifier's own fallback can run.
func genericReply() StructuredReply {
	return StructuredReply{
		Message:        "Hola, recibí tu mensaje. El casero responderá pronto.",
		Category:       CategoryInquiry,
		NeedsAttention: true,
	}
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	// Cut on a rune boundary.
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
