package triage

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/casavoz/casavoz/internal/phone"
	"github.com/casavoz/casavoz/internal/store"
)

var tracer = otel.Tracer("casavoz/triage")

// Orchestrator composes the pipeline for one inbound message:
// RECEIVED → NORMALIZED → RESOLVED|UNRESOLVED → REPLIED → LOGGED →
// (maybe) ESCALATED → DONE. Each invocation is stateless and independent;
// the transport layer may call Handle concurrently for distinct messages.
type Orchestrator struct {
	phones     *phone.Normalizer
	resolver   *Resolver
	generator  *Generator
	logger     *InteractionLogger
	dispatcher *Dispatcher
}

func NewOrchestrator(phones *phone.Normalizer, resolver *Resolver, generator *Generator, logger *InteractionLogger, dispatcher *Dispatcher) *Orchestrator {
	return &Orchestrator{
		phones:     phones,
		resolver:   resolver,
		generator:  generator,
		logger:     logger,
		dispatcher: dispatcher,
	}
}

// Handle runs one message through the pipeline and returns the reply text
// for the transport layer. It always returns some reply: input faults and
// resolution misses short-circuit to fixed texts, and any unhandled fault
// past resolution converts to a fixed apology.
func (o *Orchestrator) Handle(ctx context.Context, msg IncomingMessage) (replyText string) {
	ctx, span := tracer.Start(ctx, "triage.handle")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("triage panic recovered", "panic", r)
			replyText = ReplyApology
		}
	}()

	if msg.From == "" || msg.Body == "" {
		span.SetAttributes(attribute.String("triage.outcome", "input_fault"))
		return ReplyIncomplete
	}

	candidates, err := o.phones.Candidates(msg.From)
	if err != nil {
		span.SetAttributes(attribute.String("triage.outcome", "input_fault"))
		return ReplyIncomplete
	}

	tenant := o.resolver.Resolve(ctx, candidates)
	if tenant == nil {
		// No log entry and no escalation for unresolved senders.
		slog.Info("tenant not found", "sender", msg.From)
		span.SetAttributes(attribute.String("triage.outcome", "unresolved"))
		return ReplyNotRecognized
	}
	slog.Debug("tenant resolved", "tenant", tenant.Name)

	reply := o.generate(ctx, msg.Body, tenant)
	span.SetAttributes(
		attribute.String("triage.outcome", "replied"),
		attribute.String("triage.category", string(reply.Category)),
		attribute.Bool("triage.urgent", reply.NeedsAttention),
	)

	// Best-effort side effects: neither a log write failure nor a
	// notification failure may alter the reply already computed.
	if err := o.logger.Log(ctx, tenant.ID, msg.Body, reply); err != nil {
		slog.Error("message log write failed", "tenant", tenant.ID, "error", err)
	}

	if sent, err := o.dispatcher.Dispatch(ctx, tenant, msg.Body, reply); err != nil {
		slog.Error("landlord notification failed", "tenant", tenant.ID, "error", err)
	} else if sent {
		slog.Info("landlord notified", "tenant", tenant.Name, "category", reply.Category)
	}

	return reply.Message
}

// generate wraps the whole generation step in a second, outer safety net:
// if the step fails before the classifier's own fallback can answer, a
// simpler generic reply is substituted instead.
func (o *Orchestrator) generate(ctx context.Context, body string, tenant *store.Tenant) StructuredReply {
	reply, err := func() (r StructuredReply, err error) {
		defer func() {
			if p := recover(); p != nil {
				err = fmt.Errorf("generation step panicked: %v", p)
			}
		}()
		return o.generator.Reply(ctx, body, tenant), nil
	}()
	if err != nil {
		slog.Error("generation step failed, using generic reply", "error", err)
		return genericReply()
	}
	return reply
}
