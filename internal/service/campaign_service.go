package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ConectaTel/conecta_api/internal/models"
	"github.com/ConectaTel/conecta_api/internal/repository"
	"github.com/ConectaTel/conecta_api/internal/utils"
	"github.com/ConectaTel/conecta_api/pkg/mailer"
	"github.com/ConectaTel/conecta_api/pkg/whatsapp"
)

// CampaignService handles campaign lifecycle management and dispatch.
type CampaignService struct {
	campaignRepo *repository.CampaignRepository
	customerRepo *repository.CustomerRepository
	templateSvc  *TemplateService
	whatsappCli  *whatsapp.Client
	mailerCli    *mailer.Client
}

// NewCampaignService constructs a CampaignService. Provider clients may be
// nil when the corresponding credentials are not configured; dispatch on
// that channel then fails the campaign with a clear reason.
func NewCampaignService(
	campaignRepo *repository.CampaignRepository,
	customerRepo *repository.CustomerRepository,
	templateSvc *TemplateService,
	whatsappCli *whatsapp.Client,
	mailerCli *mailer.Client,
) *CampaignService {
	return &CampaignService{
		campaignRepo: campaignRepo,
		customerRepo: customerRepo,
		templateSvc:  templateSvc,
		whatsappCli:  whatsappCli,
		mailerCli:    mailerCli,
	}
}

// CampaignRequest is the create/update payload for a campaign.
type CampaignRequest struct {
	Name         string                 `json:"name" binding:"required"`
	Channel      models.CampaignChannel `json:"channel" binding:"required"`
	TemplateID   int                    `json:"templateId" binding:"required"`
	AudienceTags []string               `json:"audienceTags"`
	PersonType   *models.PersonType     `json:"personType"`
	MediaURL     *string                `json:"mediaUrl"`
	ScheduledAt  *time.Time             `json:"scheduledAt"`
}

// CreateCampaign creates a campaign in draft state.
func (s *CampaignService) CreateCampaign(req *CampaignRequest) (*models.Campaign, error) {
	if err := s.validateTemplate(req.TemplateID, req.Channel); err != nil {
		return nil, err
	}

	cp := &models.Campaign{
		Name:         req.Name,
		Channel:      req.Channel,
		TemplateID:   req.TemplateID,
		AudienceTags: req.AudienceTags,
		PersonType:   req.PersonType,
		MediaURL:     req.MediaURL,
		Status:       models.CampaignDraft,
		ScheduledAt:  req.ScheduledAt,
	}
	if err := s.campaignRepo.Create(cp); err != nil {
		return nil, err
	}
	return cp, nil
}

// GetCampaign retrieves a campaign by id.
func (s *CampaignService) GetCampaign(id int) (*models.Campaign, error) {
	cp, err := s.campaignRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, utils.ErrCampaignNotFound
		}
		return nil, err
	}
	return cp, nil
}

// ListCampaigns returns campaigns filtered by status with pagination.
func (s *CampaignService) ListCampaigns(status string, page, limit int) ([]models.Campaign, int, error) {
	return s.campaignRepo.GetAllPaged(status, page, limit)
}

// GetSends returns the per-recipient delivery records of a campaign.
func (s *CampaignService) GetSends(campaignID int) ([]models.CampaignSend, error) {
	if _, err := s.GetCampaign(campaignID); err != nil {
		return nil, err
	}
	return s.campaignRepo.GetSends(campaignID)
}

// UpdateCampaign updates a campaign definition. Only drafts are editable.
func (s *CampaignService) UpdateCampaign(id int, req *CampaignRequest) (*models.Campaign, error) {
	cp, err := s.GetCampaign(id)
	if err != nil {
		return nil, err
	}
	if cp.Status != models.CampaignDraft {
		return nil, utils.ErrCampaignNotDraft
	}
	if err := s.validateTemplate(req.TemplateID, req.Channel); err != nil {
		return nil, err
	}

	cp.Name = req.Name
	cp.Channel = req.Channel
	cp.TemplateID = req.TemplateID
	cp.AudienceTags = req.AudienceTags
	cp.PersonType = req.PersonType
	cp.MediaURL = req.MediaURL
	cp.ScheduledAt = req.ScheduledAt

	if err := s.campaignRepo.Update(cp); err != nil {
		return nil, err
	}
	return cp, nil
}

// Schedule moves a draft campaign to scheduled. A campaign without a
// scheduled time is scheduled for immediate dispatch.
func (s *CampaignService) Schedule(id int, at *time.Time) (*models.Campaign, error) {
	cp, err := s.GetCampaign(id)
	if err != nil {
		return nil, err
	}
	if cp.Status != models.CampaignDraft {
		return nil, utils.ErrCampaignNotDraft
	}

	// Reject scheduling to an audience that resolves to nobody.
	audience, err := s.resolveAudience(cp)
	if err != nil {
		return nil, err
	}
	if len(audience) == 0 {
		return nil, utils.ErrEmptyAudience
	}

	when := time.Now().UTC()
	if at != nil {
		when = *at
	}
	cp.ScheduledAt = &when
	if err := s.campaignRepo.Update(cp); err != nil {
		return nil, err
	}
	if err := s.campaignRepo.SetStatus(id, models.CampaignScheduled); err != nil {
		return nil, err
	}
	return s.GetCampaign(id)
}

// Cancel moves a draft or scheduled campaign back to draft.
func (s *CampaignService) Cancel(id int) (*models.Campaign, error) {
	cp, err := s.GetCampaign(id)
	if err != nil {
		return nil, err
	}
	if cp.Status != models.CampaignScheduled && cp.Status != models.CampaignDraft {
		return nil, utils.ErrCampaignNotDraft
	}
	if err := s.campaignRepo.SetStatus(id, models.CampaignDraft); err != nil {
		return nil, err
	}
	return s.GetCampaign(id)
}

// dueForDispatch reports whether a campaign should be picked up now: it
// must still be scheduled and its scheduled time must have passed.
func dueForDispatch(cp *models.Campaign, now time.Time) bool {
	return cp.Status == models.CampaignScheduled &&
		cp.ScheduledAt != nil &&
		!cp.ScheduledAt.After(now)
}

// DispatchDue claims every scheduled campaign whose time has come and
// sends it. Called by the campaign worker on each tick.
func (s *CampaignService) DispatchDue(ctx context.Context) error {
	scheduled, err := s.campaignRepo.GetScheduled()
	if err != nil {
		return fmt.Errorf("failed to load scheduled campaigns: %w", err)
	}

	now := time.Now().UTC()
	for i := range scheduled {
		cp := &scheduled[i]
		if !dueForDispatch(cp, now) {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := s.campaignRepo.MarkSending(cp.ID); err != nil {
			if err == sql.ErrNoRows {
				continue // claimed by an overlapping run
			}
			return fmt.Errorf("failed to claim campaign %d: %w", cp.ID, err)
		}
		s.dispatch(ctx, cp)
	}
	return nil
}

// RequeueStale returns campaigns stuck in sending to the scheduled queue.
// A dispatch run killed mid-flight never reaches Finish, so its claim has
// to be swept back periodically.
func (s *CampaignService) RequeueStale(staleAfter time.Duration) error {
	n, err := s.campaignRepo.RequeueStale(time.Now().UTC().Add(-staleAfter))
	if err != nil {
		return fmt.Errorf("failed to requeue stale campaigns: %w", err)
	}
	if n > 0 {
		log.Warn().Int64("count", n).Msg("Requeued campaigns stuck in sending")
	}
	return nil
}

// fail moves a claimed campaign to failed with the given reason.
func (s *CampaignService) fail(id int, reason string) {
	if err := s.campaignRepo.Finish(id, models.CampaignFailed, &reason); err != nil {
		log.Error().Err(err).Int("campaign_id", id).Msg("Failed to mark campaign failed")
	}
}

// dispatch sends one campaign to its full audience and records the outcome.
func (s *CampaignService) dispatch(ctx context.Context, cp *models.Campaign) {
	logger := log.With().Int("campaign_id", cp.ID).Str("name", cp.Name).Logger()
	logger.Info().Msg("Dispatching campaign")

	template, err := s.templateSvc.GetTemplate(cp.TemplateID)
	if err != nil {
		s.fail(cp.ID, fmt.Sprintf("template %d not found", cp.TemplateID))
		return
	}

	audience, err := s.resolveAudience(cp)
	if err != nil {
		s.fail(cp.ID, fmt.Sprintf("failed to resolve audience: %v", err))
		return
	}
	if len(audience) == 0 {
		s.fail(cp.ID, "audience resolved to zero recipients")
		return
	}

	sent, failed := 0, 0
	for i := range audience {
		customer := &audience[i]

		destination, ok := destinationFor(customer, cp.Channel)
		if !ok {
			failed++
			s.recordSend(cp, customer, "", "", fmt.Errorf("no %s destination", cp.Channel))
			continue
		}

		vars := map[string]string{
			"nome":     customer.Name,
			"telefone": customer.Phone,
		}
		subject, body := s.templateSvc.Render(template, customer.Phone, vars)

		messageID, err := s.deliver(ctx, cp, destination, subject, body)
		if err != nil {
			failed++
			logger.Warn().Err(err).Int("customer_id", customer.ID).Msg("Campaign send failed")
		} else {
			sent++
		}
		s.recordSend(cp, customer, destination, messageID, err)
	}

	if err := s.campaignRepo.SetCounters(cp.ID, len(audience), sent, failed); err != nil {
		logger.Error().Err(err).Msg("Failed to update campaign counters")
	}

	status := models.CampaignCompleted
	var reason *string
	if sent == 0 {
		status = models.CampaignFailed
		r := "all sends failed"
		reason = &r
	}
	if err := s.campaignRepo.Finish(cp.ID, status, reason); err != nil {
		logger.Error().Err(err).Msg("Failed to finish campaign")
		return
	}
	logger.Info().Int("sent", sent).Int("failed", failed).Str("status", string(status)).Msg("Campaign dispatched")
}

// deliver sends one message on the campaign's channel.
func (s *CampaignService) deliver(ctx context.Context, cp *models.Campaign, destination, subject, body string) (string, error) {
	switch cp.Channel {
	case models.CampaignWhatsApp:
		if s.whatsappCli == nil {
			return "", fmt.Errorf("whatsapp provider not configured")
		}
		if cp.MediaURL != nil && *cp.MediaURL != "" {
			return s.whatsappCli.SendImage(ctx, destination, *cp.MediaURL, body)
		}
		return s.whatsappCli.SendText(ctx, destination, body)
	case models.CampaignEmail:
		if s.mailerCli == nil {
			return "", fmt.Errorf("email provider not configured")
		}
		return s.mailerCli.Send(ctx, destination, subject, HTMLBody(body))
	}
	return "", fmt.Errorf("unknown channel %q", cp.Channel)
}

func (s *CampaignService) recordSend(cp *models.Campaign, customer *models.Customer, destination, messageID string, sendErr error) {
	send := &models.CampaignSend{
		CampaignID:  cp.ID,
		CustomerID:  customer.ID,
		Destination: destination,
	}
	if sendErr != nil {
		send.Status = models.SendFailed
		reason := sendErr.Error()
		send.FailedReason = &reason
	} else {
		send.Status = models.SendSent
		now := time.Now().UTC()
		send.SentAt = &now
		if messageID != "" {
			send.ProviderMessageID = &messageID
		}
	}
	if err := s.campaignRepo.CreateSend(send); err != nil {
		log.Error().Err(err).Int("campaign_id", cp.ID).Int("customer_id", customer.ID).Msg("Failed to record campaign send")
	}
}

func (s *CampaignService) resolveAudience(cp *models.Campaign) ([]models.Customer, error) {
	personType := ""
	if cp.PersonType != nil {
		personType = string(*cp.PersonType)
	}
	return s.customerRepo.GetAudience(cp.AudienceTags, personType, cp.Channel)
}

func (s *CampaignService) validateTemplate(templateID int, channel models.CampaignChannel) error {
	template, err := s.templateSvc.GetTemplate(templateID)
	if err != nil {
		return err
	}
	if !template.IsActive {
		return utils.ErrTemplateInactive
	}
	if template.Channel != channel {
		return fmt.Errorf("template %d is a %s template, campaign channel is %s", templateID, template.Channel, channel)
	}
	return nil
}

func destinationFor(customer *models.Customer, channel models.CampaignChannel) (string, bool) {
	switch channel {
	case models.CampaignWhatsApp:
		return customer.Phone, customer.Phone != ""
	case models.CampaignEmail:
		if customer.Email == nil || *customer.Email == "" {
			return "", false
		}
		return *customer.Email, true
	}
	return "", false
}

// HandleDeliveryReceipt processes one provider delivery-status update.
// Unknown message IDs are logged and dropped: providers may re-deliver
// receipts for sends that predate the current retention window.
func (s *CampaignService) HandleDeliveryReceipt(status whatsapp.StatusNotification) {
	switch status.Status {
	case "delivered", "read":
		if err := s.campaignRepo.MarkDelivered(status.MessageID, time.Now().UTC()); err != nil {
			if err == sql.ErrNoRows {
				log.Debug().Str("message_id", status.MessageID).Msg("Receipt for unknown message id")
				return
			}
			log.Error().Err(err).Str("message_id", status.MessageID).Msg("Failed to mark delivered")
		}
	case "failed":
		reason := "provider reported failure"
		if len(status.Errors) > 0 {
			reason = status.Errors[0].Title
		}
		if err := s.campaignRepo.MarkSendFailed(status.MessageID, reason); err != nil && err != sql.ErrNoRows {
			log.Error().Err(err).Str("message_id", status.MessageID).Msg("Failed to mark send failed")
		}
	}
}
