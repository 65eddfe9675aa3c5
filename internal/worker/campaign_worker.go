package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ConectaTel/conecta_api/internal/service"
)

// CampaignWorker dispatches scheduled campaigns when their time comes and
// sweeps claims abandoned by a dispatch run that died mid-flight.
type CampaignWorker struct {
	campaignService *service.CampaignService
	interval        time.Duration
	staleAfter      time.Duration
}

// NewCampaignWorker constructs a CampaignWorker.
func NewCampaignWorker(campaignService *service.CampaignService, interval, staleAfter time.Duration) *CampaignWorker {
	return &CampaignWorker{
		campaignService: campaignService,
		interval:        interval,
		staleAfter:      staleAfter,
	}
}

// Start begins the periodic dispatch loop until context is canceled.
func (w *CampaignWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Dur("stale_after", w.staleAfter).Msg("Starting campaign worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.campaignService.RequeueStale(w.staleAfter); err != nil {
				log.Error().Err(err).Msg("Stale campaign sweep failed")
			}
			if err := w.campaignService.DispatchDue(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Error().Err(err).Msg("Campaign dispatch sweep failed")
			}
		case <-ctx.Done():
			log.Info().Msg("Campaign worker stopped")
			return
		}
	}
}
