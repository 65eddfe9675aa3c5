package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ConectaTel/conecta_api/internal/models"
)

func intPtr(n int) *int { return &n }

func testPlans() []models.Plan {
	return []models.Plan{
		{ID: 1, Name: "Fibra 300MB", Category: models.CategoryFibra, Carrier: models.CarrierVivo, PersonType: models.PersonTypeBoth, MonthlyPrice: 8990},
		{ID: 2, Name: "Fibra Empresas 500MB", Category: models.CategoryFibra, Carrier: models.CarrierClaro, PersonType: models.PersonTypeBusiness, MonthlyPrice: 14990},
		{ID: 3, Name: "Movel 20GB", Category: models.CategoryMovel, Carrier: models.CarrierTim, PersonType: models.PersonTypePersonal, MonthlyPrice: 4990},
		{ID: 4, Name: "Combo Familia", Category: models.CategoryCombo, Carrier: models.CarrierVivo, PersonType: models.PersonTypeBoth, MonthlyPrice: 19990, LinesIncluded: intPtr(4)},
		{ID: 5, Name: "Streaming Plus", Category: models.CategorySVA, Carrier: models.CarrierVivo, PersonType: models.PersonTypeBoth, MonthlyPrice: 2990},
		{ID: 6, Name: "TV Total", Category: models.CategoryTV, Carrier: models.CarrierClaro, PersonType: models.PersonTypeBoth, MonthlyPrice: 9990},
		{ID: 7, Name: "Fixo Ilimitado", Category: models.CategoryFixo, Carrier: models.CarrierOi, PersonType: models.PersonTypeBoth, MonthlyPrice: 3990},
	}
}

func planIDs(plans []models.Plan) []int {
	ids := make([]int, len(plans))
	for i, p := range plans {
		ids[i] = p.ID
	}
	return ids
}

func TestFilterNilContextReturnsEverything(t *testing.T) {
	plans := testPlans()
	got := Filter(plans, nil)

	assert.Equal(t, planIDs(plans), planIDs(got))
}

func TestFilterPersonType(t *testing.T) {
	plans := testPlans()

	personal := Filter(plans, &Context{PersonType: models.PersonTypePersonal})
	assert.NotContains(t, planIDs(personal), 2, "business-only plan must not reach a personal context")
	assert.Contains(t, planIDs(personal), 1, "plans open to both must survive")

	business := Filter(plans, &Context{PersonType: models.PersonTypeBusiness})
	assert.NotContains(t, planIDs(business), 3, "personal-only plan must not reach a business context")
	assert.Contains(t, planIDs(business), 2)
}

func TestFilterCategorySelectionKeepsSVA(t *testing.T) {
	plans := testPlans()
	ctx := &Context{Categories: []models.PlanCategory{models.CategoryFibra}}

	got := Filter(plans, ctx)

	assert.Contains(t, planIDs(got), 1)
	assert.Contains(t, planIDs(got), 2)
	assert.Contains(t, planIDs(got), 5, "SVA plans attach to any category selection")
	assert.NotContains(t, planIDs(got), 3)
	assert.NotContains(t, planIDs(got), 6)
}

func TestFilterCarrierSelection(t *testing.T) {
	plans := testPlans()
	ctx := &Context{Carriers: []models.Carrier{models.CarrierVivo}}

	got := Filter(plans, ctx)

	for _, p := range got {
		assert.Equal(t, models.CarrierVivo, p.Carrier)
	}
	assert.Contains(t, planIDs(got), 1)
	assert.Contains(t, planIDs(got), 4)
}

func TestFilterLineCount(t *testing.T) {
	plans := testPlans()

	got := Filter(plans, &Context{LineCount: intPtr(4)})
	assert.Contains(t, planIDs(got), 4, "plan bundling exactly the asked lines survives")
	assert.Contains(t, planIDs(got), 1, "plans without a bundled line count always pass")

	got = Filter(plans, &Context{LineCount: intPtr(5)})
	assert.NotContains(t, planIDs(got), 4, "plan bundling fewer lines than asked is excluded")
}

func TestFilterPortabilityExcludesFixedLocation(t *testing.T) {
	plans := testPlans()
	ctx := &Context{Modality: models.ModalityPortability}

	got := Filter(plans, ctx)

	ids := planIDs(got)
	assert.NotContains(t, ids, 1, "fibra cannot port a number")
	assert.NotContains(t, ids, 6, "tv cannot port a number")
	assert.NotContains(t, ids, 7, "fixo cannot port a number")
	assert.Contains(t, ids, 3)
	assert.Contains(t, ids, 4)
	assert.Contains(t, ids, 5)
}

func TestFilterCombinedContext(t *testing.T) {
	// Business visitor browsing fibra on Claro.
	plans := testPlans()
	ctx := &Context{
		Categories: []models.PlanCategory{models.CategoryFibra},
		Carriers:   []models.Carrier{models.CarrierClaro},
		PersonType: models.PersonTypeBusiness,
	}

	got := Filter(plans, ctx)

	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)
}

func TestFilterReturnsSubsetInOriginalOrder(t *testing.T) {
	plans := testPlans()
	ctx := &Context{Carriers: []models.Carrier{models.CarrierVivo, models.CarrierClaro}}

	got := Filter(plans, ctx)

	// Every survivor appears in the source, in the same relative order.
	prev := -1
	for _, p := range got {
		idx := -1
		for i := range plans {
			if plans[i].ID == p.ID {
				idx = i
				break
			}
		}
		require.GreaterOrEqual(t, idx, 0, "filtered plan must come from the input")
		assert.Greater(t, idx, prev, "input order must be preserved")
		prev = idx
	}
}

func TestFilterEmptyResultIsValid(t *testing.T) {
	plans := testPlans()
	ctx := &Context{
		Categories: []models.PlanCategory{models.CategoryTV},
		Carriers:   []models.Carrier{models.CarrierOi},
	}

	got := Filter(plans, ctx)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	plans := testPlans()
	want := planIDs(plans)

	Filter(plans, &Context{PersonType: models.PersonTypeBusiness})

	assert.Equal(t, want, planIDs(plans))
}
