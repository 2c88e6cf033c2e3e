package triage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/casavoz/casavoz/internal/store"
)

// Keyword rules applied in order against the lowercased message body.
var (
	urgentKeywords  = []string{"fuga", "emergencia"}
	paymentKeywords = []string{"pago", "renta"}
)

// Fallback is the deterministic rule-based classifier used whenever the AI
// call fails or its output is unusable. It is the terminal safety net: it
// never calls the model and always produces a valid StructuredReply.
// Identical body and property data always produce an identical reply.
func Fallback(body string, prop store.Property) StructuredReply {
	lower := strings.ToLower(body)

	if containsAny(lower, urgentKeywords) {
		return StructuredReply{
			Message:        "🚨 He notificado a tu casero sobre esta emergencia.",
			Category:       CategoryUrgent,
			NeedsAttention: true,
		}
	}

	if containsAny(lower, paymentKeywords) {
		return StructuredReply{
			Message: fmt.Sprintf("Tu renta es $%s MXN, vence el día %d.",
				formatAmount(prop.MonthlyRent), prop.RentDueDay),
			Category:       CategoryPayment,
			NeedsAttention: false,
		}
	}

	return StructuredReply{
		Message:        "Recibí tu mensaje. Te respondo pronto.",
		Category:       CategoryInquiry,
		NeedsAttention: true,
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
