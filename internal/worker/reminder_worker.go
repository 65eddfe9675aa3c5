package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ConectaTel/conecta_api/internal/cache"
	"github.com/ConectaTel/conecta_api/internal/service"
	"github.com/ConectaTel/conecta_api/pkg/mailer"
)

// ReminderWorker emails visitors who left a non-empty cart behind.
// A cart qualifies once it has a contact email, has been idle longer than
// the abandonment threshold, and has not been reminded yet.
type ReminderWorker struct {
	cartCache    *cache.CartCache
	mailerCli    *mailer.Client
	interval     time.Duration
	abandonAfter time.Duration
}

// NewReminderWorker constructs a ReminderWorker.
func NewReminderWorker(
	cartCache *cache.CartCache,
	mailerCli *mailer.Client,
	interval time.Duration,
	abandonAfter time.Duration,
) *ReminderWorker {
	return &ReminderWorker{
		cartCache:    cartCache,
		mailerCli:    mailerCli,
		interval:     interval,
		abandonAfter: abandonAfter,
	}
}

// Start begins the periodic sweep until context is canceled.
func (w *ReminderWorker) Start(ctx context.Context) {
	log.Info().
		Dur("interval", w.interval).
		Dur("abandon_after", w.abandonAfter).
		Msg("Starting reminder worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Reminder worker stopped")
			return
		}
	}
}

func (w *ReminderWorker) run(ctx context.Context) {
	entries, err := w.cartCache.All(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to scan carts")
		return
	}

	cutoff := time.Now().UTC().Add(-w.abandonAfter)
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if entry.ReminderSent || entry.Email == "" {
			continue
		}
		if entry.Cart == nil || entry.Cart.ItemCount() == 0 {
			continue
		}
		if entry.UpdatedAt.After(cutoff) {
			continue
		}
		w.remind(ctx, entry)
	}
}

func (w *ReminderWorker) remind(ctx context.Context, entry *cache.CartEntry) {
	subject := "Seu carrinho está esperando por você"
	body := buildReminderBody(entry)

	if _, err := w.mailerCli.Send(ctx, entry.Email, subject, service.HTMLBody(body)); err != nil {
		log.Error().
			Err(err).
			Str("session_id", entry.SessionID).
			Msg("Failed to send abandoned-cart reminder")
		return
	}

	entry.ReminderSent = true
	if err := w.cartCache.Save(ctx, entry); err != nil {
		log.Error().
			Err(err).
			Str("session_id", entry.SessionID).
			Msg("Failed to mark reminder as sent")
		return
	}

	log.Info().
		Str("session_id", entry.SessionID).
		Int("items", entry.Cart.ItemCount()).
		Msg("Abandoned-cart reminder sent")
}

func buildReminderBody(entry *cache.CartEntry) string {
	var b strings.Builder
	b.WriteString("Olá!\n\nVocê deixou estes planos no seu carrinho:\n\n")
	for _, line := range entry.Cart.Lines {
		fmt.Fprintf(&b, "- %s (x%d)\n", line.Plan.Name, line.Quantity)
	}
	fmt.Fprintf(&b, "\nTotal mensal: R$ %.2f\n\nFinalize seu pedido quando quiser.", float64(entry.Cart.TotalMonthly())/100)
	return b.String()
}
