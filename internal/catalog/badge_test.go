package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ConectaTel/conecta_api/internal/models"
)

func TestAssignBadgesBestMatch(t *testing.T) {
	scored := []ScoredPlan{
		{Plan: models.Plan{ID: 1}, Score: 42},
		{Plan: models.Plan{ID: 2}, Score: 10},
	}

	badges := AssignBadges(scored, nil)

	assert.Equal(t, BadgeBestMatch, badges[1])
	assert.NotContains(t, badges, 2)
}

func TestAssignBadgesNoBestMatchWithoutPositiveScore(t *testing.T) {
	scored := []ScoredPlan{
		{Plan: models.Plan{ID: 1}, Score: 0},
		{Plan: models.Plan{ID: 2}, Score: 0},
	}

	badges := AssignBadges(scored, nil)
	assert.Empty(t, badges)
}

func TestAssignBadgesFirstMatchWins(t *testing.T) {
	// Top-ranked, featured, free install: qualifies for every rule but
	// receives only the first one.
	scored := []ScoredPlan{
		{Plan: models.Plan{ID: 1, Featured: true, InstallFee: intPtr(0)}, Score: 50},
	}

	badges := AssignBadges(scored, nil)

	assert.Equal(t, BadgeBestMatch, badges[1])
	assert.Len(t, badges, 1)
}

func TestAssignBadgesLimitedTimeBeforePopular(t *testing.T) {
	scored := []ScoredPlan{
		{Plan: models.Plan{ID: 1}, Score: 30},
		{Plan: models.Plan{ID: 2, Featured: true, InstallFee: intPtr(0)}, Score: 20},
		{Plan: models.Plan{ID: 3, Featured: true, InstallFee: intPtr(9900)}, Score: 10},
		{Plan: models.Plan{ID: 4, Featured: true}, Score: 5},
	}

	badges := AssignBadges(scored, nil)

	assert.Equal(t, BadgeBestMatch, badges[1])
	assert.Equal(t, BadgeLimitedTime, badges[2], "featured with zero install fee")
	assert.Equal(t, BadgePopular, badges[3], "featured with a paid install fee")
	assert.Equal(t, BadgePopular, badges[4], "featured without an install fee set")
}

func TestAssignBadgesAbsenceMeansNoBadge(t *testing.T) {
	scored := []ScoredPlan{
		{Plan: models.Plan{ID: 1}, Score: 5},
		{Plan: models.Plan{ID: 2}, Score: 3},
		{Plan: models.Plan{ID: 3}, Score: 1},
	}

	badges := AssignBadges(scored, nil)

	assert.Len(t, badges, 1, "only the best match qualifies here")
	_, ok := badges[3]
	assert.False(t, ok)
}
