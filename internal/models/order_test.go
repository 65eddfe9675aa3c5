package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidOrderTransition(t *testing.T) {
	allowed := []struct{ from, to OrderStatus }{
		{OrderReceived, OrderProcessing},
		{OrderReceived, OrderCancelled},
		{OrderProcessing, OrderInstalled},
		{OrderProcessing, OrderActivated},
		{OrderProcessing, OrderCancelled},
		{OrderInstalled, OrderActivated},
		{OrderInstalled, OrderCancelled},
	}
	for _, tc := range allowed {
		assert.True(t, ValidOrderTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	denied := []struct{ from, to OrderStatus }{
		{OrderReceived, OrderInstalled},
		{OrderReceived, OrderActivated},
		{OrderActivated, OrderCancelled},
		{OrderActivated, OrderProcessing},
		{OrderCancelled, OrderReceived},
		{OrderCancelled, OrderProcessing},
		{OrderInstalled, OrderReceived},
	}
	for _, tc := range denied {
		assert.False(t, ValidOrderTransition(tc.from, tc.to), "%s -> %s should be rejected", tc.from, tc.to)
	}
}

func TestPlanSVAHelpers(t *testing.T) {
	sva := Plan{Category: CategorySVA}
	assert.True(t, sva.IsSVA())
	assert.False(t, sva.AdmitsSVA())

	for _, c := range []PlanCategory{CategoryFibra, CategoryMovel, CategoryCombo} {
		p := Plan{Category: c}
		assert.False(t, p.IsSVA())
		assert.True(t, p.AdmitsSVA(), "%s admits an attached service", c)
	}

	for _, c := range []PlanCategory{CategoryFixo, CategoryTV} {
		p := Plan{Category: c}
		assert.False(t, p.AdmitsSVA(), "%s is not a primary line", c)
	}
}
