// Package reminder sends rent-due notices to tenants on a cron schedule.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/adhocore/gronx"
	"golang.org/x/time/rate"

	"github.com/casavoz/casavoz/internal/notify"
	"github.com/casavoz/casavoz/internal/store"
)

// Scheduler wakes once a minute, checks the cron expression and, when due,
// notifies every tenant whose rent_due_day matches today. Sends are paced so
// a large tenant list does not burst the messaging provider.
type Scheduler struct {
	cron     string
	tenants  store.TenantStore
	notifier notify.Notifier
	gron     *gronx.Gronx
	limiter  *rate.Limiter
	tick     time.Duration
	now      func() time.Time
}

func NewScheduler(cron string, tenants store.TenantStore, notifier notify.Notifier) *Scheduler {
	return &Scheduler{
		cron:     cron,
		tenants:  tenants,
		notifier: notifier,
		gron:     gronx.New(),
		limiter:  rate.NewLimiter(rate.Every(time.Second), 1),
		tick:     30 * time.Second,
		now:      time.Now,
	}
}

// Run blocks until ctx is cancelled. Each minute is evaluated at most once.
func (s *Scheduler) Run(ctx context.Context) error {
	if !s.gron.IsValid(s.cron) {
		return fmt.Errorf("invalid reminder cron expression %q", s.cron)
	}
	slog.Info("reminder scheduler started", "cron", s.cron)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	var lastFired time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			now := s.now().Truncate(time.Minute)
			if now.Equal(lastFired) {
				continue
			}
			due, err := s.gron.IsDue(s.cron, now)
			if err != nil {
				slog.Error("evaluate reminder cron", "error", err)
				continue
			}
			if !due {
				continue
			}
			lastFired = now
			s.sendDue(ctx, now)
		}
	}
}

func (s *Scheduler) sendDue(ctx context.Context, now time.Time) {
	if s.notifier == nil {
		slog.Warn("reminder due but no notifier configured")
		return
	}
	tenants, err := s.tenants.ListDueOn(ctx, now.Day())
	if err != nil {
		slog.Error("list tenants for reminders", "error", err)
		return
	}
	if len(tenants) == 0 {
		return
	}
	slog.Info("sending rent reminders", "count", len(tenants), "day", now.Day())

	for _, t := range tenants {
		if err := s.limiter.Wait(ctx); err != nil {
			return
		}
		body := reminderText(t)
		if err := s.notifier.Send(ctx, t.Phone, body); err != nil {
			slog.Error("send rent reminder", "tenant", t.Name, "error", err)
			continue
		}
		slog.Debug("rent reminder sent", "tenant", t.Name)
	}
}

func reminderText(t store.Tenant) string {
	return fmt.Sprintf("Hola %s, te recordamos que tu renta de $%.2f MXN vence hoy (día %d). ¡Gracias!",
		t.Name, t.Property.MonthlyRent, t.Property.RentDueDay)
}
