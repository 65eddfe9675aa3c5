package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ConectaTel/conecta_api/internal/models"
)

func TestDueForDispatch(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name        string
		status      models.CampaignStatus
		scheduledAt *time.Time
		want        bool
	}{
		{"scheduled in the past", models.CampaignScheduled, &past, true},
		{"scheduled exactly now", models.CampaignScheduled, &now, true},
		{"scheduled in the future", models.CampaignScheduled, &future, false},
		{"scheduled without a time", models.CampaignScheduled, nil, false},
		{"draft with past time", models.CampaignDraft, &past, false},
		{"already sending", models.CampaignSending, &past, false},
		{"completed", models.CampaignCompleted, &past, false},
		{"failed", models.CampaignFailed, &past, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cp := &models.Campaign{Status: tc.status, ScheduledAt: tc.scheduledAt}
			assert.Equal(t, tc.want, dueForDispatch(cp, now))
		})
	}
}
