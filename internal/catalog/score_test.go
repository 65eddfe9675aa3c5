package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ConectaTel/conecta_api/internal/models"
)

func TestScoreDeterministic(t *testing.T) {
	plans := testPlans()
	ctx := &Context{
		Categories: []models.PlanCategory{models.CategoryFibra},
		Carriers:   []models.Carrier{models.CarrierVivo},
	}
	signals := &Signals{
		DwellSeconds: map[models.PlanCategory]int{models.CategoryFibra: 120},
		ViewedPlans:  []int{1, 1, 3},
		AddedPlans:   []int{4},
	}

	first := Score(plans, ctx, ctx, signals, DefaultWeights())
	second := Score(plans, ctx, ctx, signals, DefaultWeights())

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Plan.ID, second[i].Plan.ID)
		assert.Equal(t, first[i].Score, second[i].Score)
	}
}

func TestScoreCategoryAndCarrierMatch(t *testing.T) {
	w := DefaultWeights()
	plan := models.Plan{ID: 1, Category: models.CategoryFibra, Carrier: models.CarrierVivo}
	ctx := &Context{
		Categories: []models.PlanCategory{models.CategoryFibra},
		Carriers:   []models.Carrier{models.CarrierVivo},
	}

	got := scoreOne(&plan, ctx, nil, nil, w)
	assert.Equal(t, w.CategoryMatch+w.CarrierMatch, got)

	got = scoreOne(&plan, &Context{}, nil, nil, w)
	assert.Zero(t, got, "empty selection awards no match points")
}

func TestScoreInitialIntentContinuity(t *testing.T) {
	w := DefaultWeights()
	plan := models.Plan{ID: 1, Category: models.CategoryMovel, PersonType: models.PersonTypeBusiness}

	initial := &Context{Categories: []models.PlanCategory{models.CategoryMovel}}
	got := scoreOne(&plan, nil, initial, nil, w)
	assert.Equal(t, w.InitialIntent, got)

	initial = &Context{PersonType: models.PersonTypeBusiness}
	got = scoreOne(&plan, nil, initial, nil, w)
	assert.Equal(t, w.InitialIntent, got, "person-type continuity also counts")

	initial = &Context{Categories: []models.PlanCategory{models.CategoryTV}}
	got = scoreOne(&plan, nil, initial, nil, w)
	assert.Zero(t, got)
}

func TestScoreBehavioralSignals(t *testing.T) {
	w := DefaultWeights()
	plan := models.Plan{ID: 9, Category: models.CategoryFibra}

	signals := &Signals{
		DwellSeconds: map[models.PlanCategory]int{models.CategoryFibra: 90},
		ViewedPlans:  []int{9, 9, 9},
		AddedPlans:   []int{9},
		RemovedPlans: []int{9},
	}

	got := scoreOne(&plan, nil, nil, signals, w)
	want := 90.0/60.0*w.DwellPerMinute + 3*w.ViewSignal + w.AddSignal - w.RemovedPenalty
	assert.InDelta(t, want, got, 1e-9)
}

func TestScoreLineCountFit(t *testing.T) {
	w := DefaultWeights()
	plan := models.Plan{ID: 4, Category: models.CategoryCombo, LinesIncluded: intPtr(4)}

	got := scoreOne(&plan, &Context{LineCount: intPtr(4)}, nil, nil, w)
	assert.Equal(t, w.LineCountFit, got)

	got = scoreOne(&plan, &Context{LineCount: intPtr(3)}, nil, nil, w)
	assert.Zero(t, got, "fit bonus only for an exact match")
}

func TestScoreFeaturedBonus(t *testing.T) {
	w := DefaultWeights()
	plan := models.Plan{ID: 2, Featured: true}

	got := scoreOne(&plan, nil, nil, nil, w)
	assert.Equal(t, w.Featured, got)
}

func TestScoreSortsDescending(t *testing.T) {
	plans := testPlans()
	ctx := &Context{Categories: []models.PlanCategory{models.CategoryFibra}}

	scored := Score(plans, ctx, nil, nil, DefaultWeights())

	for i := 1; i < len(scored); i++ {
		assert.GreaterOrEqual(t, scored[i-1].Score, scored[i].Score)
	}
}

func TestScoreStableOrderForTies(t *testing.T) {
	// Three indistinguishable plans must keep their catalog order.
	plans := []models.Plan{
		{ID: 10, Category: models.CategoryMovel, Carrier: models.CarrierTim},
		{ID: 11, Category: models.CategoryMovel, Carrier: models.CarrierTim},
		{ID: 12, Category: models.CategoryMovel, Carrier: models.CarrierTim},
	}

	scored := Score(plans, &Context{}, nil, nil, DefaultWeights())

	require.Len(t, scored, 3)
	assert.Equal(t, 10, scored[0].Plan.ID)
	assert.Equal(t, 11, scored[1].Plan.ID)
	assert.Equal(t, 12, scored[2].Plan.ID)
}

func TestScoreZeroWeightsYieldZeroScores(t *testing.T) {
	plans := testPlans()
	ctx := &Context{Categories: []models.PlanCategory{models.CategoryFibra}}

	scored := Score(plans, ctx, ctx, &Signals{ViewedPlans: []int{1}}, Weights{})

	for _, sp := range scored {
		assert.Zero(t, sp.Score)
	}
}
