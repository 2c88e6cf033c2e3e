package triage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/casavoz/casavoz/internal/providers"
	"github.com/casavoz/casavoz/internal/store"
)

const systemPrompt = "You are a helpful assistant that responds in JSON."

// Generator produces a StructuredReply for a tenant message. The primary
// path asks the completion provider for a JSON-shaped classification; any
// call failure, timeout, or unparseable output falls over to Fallback.
type Generator struct {
	provider      providers.Provider
	model         string
	temperature   float64
	timeout       time.Duration
	maxReplyChars int
}

func NewGenerator(provider providers.Provider, model string, temperature float64, timeout time.Duration, maxReplyChars int) *Generator {
	return &Generator{
		provider:      provider,
		model:         model,
		temperature:   temperature,
		timeout:       timeout,
		maxReplyChars: maxReplyChars,
	}
}

// Reply classifies one message in the context of the resolved tenant.
// It never fails: the rule fallback is the terminal safety net.
func (g *Generator) Reply(ctx context.Context, body string, tenant *store.Tenant) StructuredReply {
	if g.provider == nil {
		return Fallback(body, tenant.Property)
	}

	// A slow provider must not stall the message handler; on expiry the
	// rule fallback answers instead.
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.provider.Chat(ctx, providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: g.buildPrompt(body, tenant)},
		},
		Model:       g.model,
		Temperature: g.temperature,
		JSONOnly:    true,
	})
	if err != nil {
		slog.Warn("AI call failed, using rule fallback", "provider", g.provider.Name(), "error", err)
		return Fallback(body, tenant.Property)
	}

	reply, err := parseCompletion(resp.Content)
	if err != nil {
		slog.Warn("unusable AI output, using rule fallback", "error", err)
		return Fallback(body, tenant.Property)
	}

	reply.Message = truncate(reply.Message, g.maxReplyChars)
	return reply
}

func (g *Generator) buildPrompt(body string, tenant *store.Tenant) string {
	prop := tenant.Property
	return fmt.Sprintf(`Eres un asistente virtual para inquilinos en México.

INFORMACIÓN:
- Inquilino: %s
- Propiedad: %s
- Renta: $%s MXN
- Día de pago: %d
- Casero: %s

MENSAJE: "%s"

Responde directamente si puedes. Solo marca needsAttention: true para emergencias o solicitudes de reparación; las preguntas de pago o informativas no la llevan.

Responde en JSON:
{
  "message": "Tu respuesta (máximo %d caracteres)",
  "category": "URGENT|MAINTENANCE|PAYMENT|INQUIRY",
  "needsAttention": true o false
}`,
		tenant.Name, prop.Address, formatAmount(prop.MonthlyRent), prop.RentDueDay,
		prop.LandlordName, body, g.maxReplyChars)
}

// parseCompletion parses model output as the StructuredReply shape. Models
// occasionally wrap the object in code fences or prose, so the outermost
// JSON object is extracted first. A missing needsAttention field defaults to
// true: fail safe toward escalation, not silence.
func parseCompletion(content string) (StructuredReply, error) {
	var zero StructuredReply

	start := strings.IndexByte(content, '{')
	end := strings.LastIndexByte(content, '}')
	if start < 0 || end <= start {
		return zero, fmt.Errorf("no JSON object in completion: %.80q", content)
	}

	var raw struct {
		Message        string `json:"message"`
		Category       string `json:"category"`
		NeedsAttention *bool  `json:"needsAttention"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &raw); err != nil {
		return zero, fmt.Errorf("decode completion: %w", err)
	}

	if strings.TrimSpace(raw.Message) == "" {
		return zero, fmt.Errorf("completion missing message field")
	}
	category, ok := ParseCategory(raw.Category)
	if !ok {
		return zero, fmt.Errorf("unknown category %q in completion", raw.Category)
	}

	needsAttention := true
	if raw.NeedsAttention != nil {
		needsAttention = *raw.NeedsAttention
	}

	return StructuredReply{
		Message:        raw.Message,
		Category:       category,
		NeedsAttention: needsAttention,
	}, nil
}
