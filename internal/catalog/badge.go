package catalog

// Badge is a short declarative label the storefront renders next to a plan.
type Badge string

const (
	BadgeBestMatch   Badge = "best-match"
	BadgePopular     Badge = "popular"
	BadgeLimitedTime Badge = "limited-time"
)

// badgeRule decides whether a badge applies to one scored plan. Rules are
// evaluated in order and the first match wins; at most one badge per plan.
type badgeRule struct {
	badge   Badge
	applies func(sp *ScoredPlan, rank int, ctx *Context) bool
}

var badgeRules = []badgeRule{
	{
		// The top-ranked plan with a positive score is the best match for
		// the current context.
		badge: BadgeBestMatch,
		applies: func(sp *ScoredPlan, rank int, _ *Context) bool {
			return rank == 0 && sp.Score > 0
		},
	},
	{
		badge: BadgeLimitedTime,
		applies: func(sp *ScoredPlan, _ int, _ *Context) bool {
			return sp.Plan.Featured && sp.Plan.InstallFee != nil && *sp.Plan.InstallFee == 0
		},
	},
	{
		badge: BadgePopular,
		applies: func(sp *ScoredPlan, _ int, _ *Context) bool {
			return sp.Plan.Featured
		},
	},
}

// AssignBadges maps plan IDs to badges for an already-scored, already-sorted
// plan list. Plans matching no rule are absent from the result. Purely
// declarative: no state, no side effects.
func AssignBadges(scored []ScoredPlan, ctx *Context) map[int]Badge {
	out := make(map[int]Badge)
	for rank := range scored {
		for _, rule := range badgeRules {
			if rule.applies(&scored[rank], rank, ctx) {
				out[scored[rank].Plan.ID] = rule.badge
				break
			}
		}
	}
	return out
}
