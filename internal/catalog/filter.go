package catalog

import "github.com/ConectaTel/conecta_api/internal/models"

// predicate is one hard-exclusion rule. A plan survives filtering iff it
// satisfies every predicate for the given context.
type predicate func(*models.Plan, *Context) bool

// hardExclusions is the fixed rule list applied by Filter, in order.
var hardExclusions = []predicate{
	matchesPersonType,
	matchesCategorySelection,
	matchesCarrierSelection,
	coversLineCount,
	supportsModality,
}

// Filter returns the plans compatible with the context. Input order is
// preserved and the result is always a (possibly empty) subset of plans;
// an empty result feeds the storefront's "no results" state and is not an
// error.
func Filter(plans []models.Plan, ctx *Context) []models.Plan {
	if ctx == nil {
		out := make([]models.Plan, len(plans))
		copy(out, plans)
		return out
	}

	out := make([]models.Plan, 0, len(plans))
	for i := range plans {
		if compatible(&plans[i], ctx) {
			out = append(out, plans[i])
		}
	}
	return out
}

func compatible(p *models.Plan, ctx *Context) bool {
	for _, pred := range hardExclusions {
		if !pred(p, ctx) {
			return false
		}
	}
	return true
}

// matchesPersonType excludes business-only plans from personal contexts and
// vice versa. Plans marked "both" always pass.
func matchesPersonType(p *models.Plan, ctx *Context) bool {
	if p.PersonType == models.PersonTypeBoth || ctx.PersonType == "" {
		return true
	}
	return p.PersonType == ctx.PersonType
}

// matchesCategorySelection excludes plans outside the selected categories.
// SVA plans are never excluded by category selection: they attach to
// whatever primary lines the visitor is browsing.
func matchesCategorySelection(p *models.Plan, ctx *Context) bool {
	if len(ctx.Categories) == 0 || p.IsSVA() {
		return true
	}
	return ctx.HasCategory(p.Category)
}

// matchesCarrierSelection excludes plans outside the selected carriers.
func matchesCarrierSelection(p *models.Plan, ctx *Context) bool {
	if len(ctx.Carriers) == 0 {
		return true
	}
	return ctx.HasCarrier(p.Carrier)
}

// coversLineCount excludes multi-line plans that bundle fewer lines than
// the visitor asked for. Plans without a bundled line count always pass.
func coversLineCount(p *models.Plan, ctx *Context) bool {
	if ctx.LineCount == nil || p.LinesIncluded == nil {
		return true
	}
	return *p.LinesIncluded >= *ctx.LineCount
}

// supportsModality excludes fixed-location products from portability
// contexts: only mobile plans (and their bundles) can port a number.
func supportsModality(p *models.Plan, ctx *Context) bool {
	if ctx.Modality != models.ModalityPortability {
		return true
	}
	switch p.Category {
	case models.CategoryMovel, models.CategoryCombo, models.CategorySVA:
		return true
	}
	return false
}
