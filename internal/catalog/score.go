package catalog

import (
	"sort"

	"github.com/ConectaTel/conecta_api/internal/models"
)

// Weights is the scoring policy table. The numeric values carry no inferred
// business meaning; they are tunable constants overridable via configuration.
type Weights struct {
	CategoryMatch   float64 `json:"categoryMatch"`
	CarrierMatch    float64 `json:"carrierMatch"`
	InitialIntent   float64 `json:"initialIntent"`
	DwellPerMinute  float64 `json:"dwellPerMinute"`
	ViewSignal      float64 `json:"viewSignal"`
	AddSignal       float64 `json:"addSignal"`
	RemovedPenalty  float64 `json:"removedPenalty"`
	Featured        float64 `json:"featured"`
	LineCountFit    float64 `json:"lineCountFit"`
}

// DefaultWeights returns the default scoring policy.
func DefaultWeights() Weights {
	return Weights{
		CategoryMatch:  30,
		CarrierMatch:   20,
		InitialIntent:  15,
		DwellPerMinute: 5,
		ViewSignal:     2,
		AddSignal:      8,
		RemovedPenalty: 10,
		Featured:       10,
		LineCountFit:   12,
	}
}

// ScoredPlan pairs a plan with its transient relevance score. Scores are
// recomputed on every catalog read and never persisted.
type ScoredPlan struct {
	Plan  models.Plan `json:"plan"`
	Score float64     `json:"score"`
}

// Score computes a relevance score for each plan and returns the list
// sorted descending by score. The sort is stable: plans with equal scores
// keep their input order. Identical inputs always produce identical
// output; there is no time or randomness dependency.
//
// initial is the first context captured for the session, before the
// visitor started refining filters. Matching it rewards continuity with
// the original intent.
func Score(plans []models.Plan, ctx, initial *Context, signals *Signals, w Weights) []ScoredPlan {
	scored := make([]ScoredPlan, len(plans))
	for i := range plans {
		scored[i] = ScoredPlan{
			Plan:  plans[i],
			Score: scoreOne(&plans[i], ctx, initial, signals, w),
		}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		return scored[a].Score > scored[b].Score
	})
	return scored
}

func scoreOne(p *models.Plan, ctx, initial *Context, signals *Signals, w Weights) float64 {
	var s float64

	if ctx != nil {
		if ctx.HasCategory(p.Category) {
			s += w.CategoryMatch
		}
		if ctx.HasCarrier(p.Carrier) {
			s += w.CarrierMatch
		}
		if ctx.LineCount != nil && p.LinesIncluded != nil && *p.LinesIncluded == *ctx.LineCount {
			s += w.LineCountFit
		}
	}

	// Continuity with the session's very first intent.
	if initial != nil {
		if initial.HasCategory(p.Category) || (initial.PersonType != "" && initial.PersonType == p.PersonType) {
			s += w.InitialIntent
		}
	}

	// Behavioral affinity: dwell time on the plan's category plus direct
	// interactions with the plan itself. Removals count against it.
	if signals != nil {
		s += float64(signals.Dwell(p.Category)) / 60.0 * w.DwellPerMinute
		s += float64(signals.CountViews(p.ID)) * w.ViewSignal
		s += float64(signals.CountAdds(p.ID)) * w.AddSignal
		for _, id := range signals.RemovedPlans {
			if id == p.ID {
				s -= w.RemovedPenalty
			}
		}
	}

	if p.Featured {
		s += w.Featured
	}

	return s
}
