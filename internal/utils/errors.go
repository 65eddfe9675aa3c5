package utils

import "errors"

// Common application errors used across services.
var (
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
	ErrInvalidChannel     = errors.New("INVALID_CHANNEL")
	ErrInvalidIP          = errors.New("INVALID_IP")
	ErrPlanNotFound       = errors.New("PLAN_NOT_FOUND")
	ErrPlanInactive       = errors.New("PLAN_INACTIVE")
	ErrEmptyCart          = errors.New("EMPTY_CART")
	ErrOrderNotFound      = errors.New("ORDER_NOT_FOUND")
	ErrInvalidTransition  = errors.New("INVALID_STATUS_TRANSITION")
	ErrCustomerNotFound   = errors.New("CUSTOMER_NOT_FOUND")
	ErrCampaignNotFound   = errors.New("CAMPAIGN_NOT_FOUND")
	ErrCampaignNotDraft   = errors.New("CAMPAIGN_NOT_DRAFT")
	ErrTemplateNotFound   = errors.New("TEMPLATE_NOT_FOUND")
	ErrTemplateInactive   = errors.New("TEMPLATE_INACTIVE")
	ErrEmptyAudience      = errors.New("EMPTY_AUDIENCE")
)
