package handler

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ConectaTel/conecta_api/internal/service"
	"github.com/ConectaTel/conecta_api/internal/utils"
	"github.com/ConectaTel/conecta_api/pkg/whatsapp"
)

// WebhookHandler handles incoming delivery receipts from the messaging
// providers.
type WebhookHandler struct {
	campaignService *service.CampaignService
	whatsappSecret  string
	mailerSecret    string
}

// NewWebhookHandler constructs a WebhookHandler.
func NewWebhookHandler(campaignService *service.CampaignService, whatsappSecret, mailerSecret string) *WebhookHandler {
	return &WebhookHandler{
		campaignService: campaignService,
		whatsappSecret:  whatsappSecret,
		mailerSecret:    mailerSecret,
	}
}

// whatsappWebhookPayload is the Cloud API webhook envelope, reduced to the
// status entries this service consumes.
type whatsappWebhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Statuses []whatsapp.StatusNotification `json:"statuses"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// HandleWhatsAppReceipt handles POST /webhook/whatsapp
func (h *WebhookHandler) HandleWhatsAppReceipt(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid body"})
		return
	}

	// Cloud API signs the raw body with the app secret.
	if h.whatsappSecret != "" {
		signature := strings.TrimPrefix(c.GetHeader("X-Hub-Signature-256"), "sha256=")
		if !utils.VerifySignature(body, signature, h.whatsappSecret) {
			log.Warn().Str("ip", c.ClientIP()).Msg("WhatsApp webhook signature mismatch")
			c.JSON(401, gin.H{"error": "Invalid signature"})
			return
		}
	}

	var payload whatsappWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(400, gin.H{"error": "Invalid JSON"})
		return
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, status := range change.Value.Statuses {
				h.campaignService.HandleDeliveryReceipt(status)
			}
		}
	}

	c.JSON(200, gin.H{"received": true})
}

// mailerWebhookPayload is the email provider's event batch.
type mailerWebhookPayload struct {
	Events []struct {
		MessageID string `json:"message_id"`
		Event     string `json:"event"` // delivered, bounce, dropped
		Reason    string `json:"reason"`
	} `json:"events"`
}

// HandleMailerReceipt handles POST /webhook/mailer
func (h *WebhookHandler) HandleMailerReceipt(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid body"})
		return
	}

	if h.mailerSecret != "" {
		signature := c.GetHeader("X-Webhook-Signature")
		if !utils.VerifySignature(body, signature, h.mailerSecret) {
			log.Warn().Str("ip", c.ClientIP()).Msg("Mailer webhook signature mismatch")
			c.JSON(401, gin.H{"error": "Invalid signature"})
			return
		}
	}

	var payload mailerWebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.JSON(400, gin.H{"error": "Invalid JSON"})
		return
	}

	for _, ev := range payload.Events {
		status := whatsapp.StatusNotification{MessageID: ev.MessageID}
		switch ev.Event {
		case "delivered":
			status.Status = "delivered"
		case "bounce", "dropped":
			status.Status = "failed"
			status.Errors = append(status.Errors, whatsapp.StatusError{Title: ev.Reason})
		default:
			continue
		}
		h.campaignService.HandleDeliveryReceipt(status)
	}

	c.JSON(200, gin.H{"received": true})
}
