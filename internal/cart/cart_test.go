package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ConectaTel/conecta_api/internal/models"
)

func intPtr(n int) *int { return &n }

func fibraPlan() models.Plan {
	return models.Plan{
		ID:           1,
		Name:         "Fibra 300MB",
		Category:     models.CategoryFibra,
		Carrier:      models.CarrierVivo,
		MonthlyPrice: 8990,
		InstallFee:   intPtr(9900),
	}
}

func movelPlan() models.Plan {
	return models.Plan{
		ID:           2,
		Name:         "Movel 20GB",
		Category:     models.CategoryMovel,
		Carrier:      models.CarrierTim,
		MonthlyPrice: 4990,
	}
}

func svaPlan() models.Plan {
	return models.Plan{
		ID:           3,
		Name:         "Streaming Plus",
		Category:     models.CategorySVA,
		Carrier:      models.CarrierVivo,
		MonthlyPrice: 2990,
	}
}

func TestAddItemCreatesLineWithSnapshot(t *testing.T) {
	c := New()

	line, verr := c.AddItem(fibraPlan(), 1)

	require.Nil(t, verr)
	require.NotNil(t, line)
	assert.NotEmpty(t, line.LineID)
	assert.Equal(t, 8990, line.UnitPrice)
	assert.Equal(t, 9900, line.InstallFee)
	assert.Equal(t, 1, line.Quantity)
}

func TestAddItemMergesSamePlan(t *testing.T) {
	// Adding the same plan three times ends with one line, summed quantity.
	c := New()

	_, verr := c.AddItem(movelPlan(), 2)
	require.Nil(t, verr)
	_, verr = c.AddItem(movelPlan(), 2)
	require.Nil(t, verr)
	_, verr = c.AddItem(movelPlan(), 1)
	require.Nil(t, verr)

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 5, c.Lines[0].Quantity)
	assert.Equal(t, 5, c.ItemCount())
}

func TestAddItemClampsQuantity(t *testing.T) {
	c := New()

	line, verr := c.AddItem(fibraPlan(), 0)
	require.Nil(t, verr)
	assert.Equal(t, 1, line.Quantity)

	line, verr = c.AddItem(movelPlan(), -3)
	require.Nil(t, verr)
	assert.Equal(t, 1, line.Quantity)
}

func TestAddItemPriceChangeDoesNotAffectExistingLine(t *testing.T) {
	c := New()
	plan := fibraPlan()
	_, verr := c.AddItem(plan, 1)
	require.Nil(t, verr)

	plan.MonthlyPrice = 12990
	// New selections would see the new price, but the existing snapshot holds.
	assert.Equal(t, 8990, c.Lines[0].UnitPrice)
	assert.Equal(t, 8990, c.TotalMonthly())
}

func TestSVALimitEnforced(t *testing.T) {
	c := New()
	_, verr := c.AddItem(fibraPlan(), 1)
	require.Nil(t, verr)

	// One eligible line: first SVA unit fits, second does not.
	_, verr = c.AddItem(svaPlan(), 1)
	require.Nil(t, verr)

	before := c.ItemCount()
	line, verr := c.AddItem(svaPlan(), 1)

	require.NotNil(t, verr)
	assert.Equal(t, "SVA_LIMIT", verr.Code)
	assert.Nil(t, line)
	assert.Equal(t, before, c.ItemCount(), "rejected mutation must leave the cart unchanged")
}

func TestSVALimitCountsLineQuantities(t *testing.T) {
	c := New()
	_, verr := c.AddItem(movelPlan(), 3)
	require.Nil(t, verr)

	// Three eligible lines admit three SVA units at once.
	_, verr = c.AddItem(svaPlan(), 3)
	require.Nil(t, verr)
	assert.Equal(t, 3, c.SVACount(3))

	_, verr = c.AddItem(svaPlan(), 1)
	require.NotNil(t, verr)
}

func TestSVANotAllowedWithoutEligibleLines(t *testing.T) {
	c := New()

	_, verr := c.AddItem(svaPlan(), 1)
	require.NotNil(t, verr)
	assert.Empty(t, c.Lines)

	// TV is not an eligible primary line.
	tv := models.Plan{ID: 9, Name: "TV Total", Category: models.CategoryTV, MonthlyPrice: 9990}
	_, verr = c.AddItem(tv, 1)
	require.Nil(t, verr)

	_, verr = c.AddItem(svaPlan(), 1)
	require.NotNil(t, verr)
}

func TestRemoveItemIsIdempotent(t *testing.T) {
	c := New()
	_, verr := c.AddItem(fibraPlan(), 1)
	require.Nil(t, verr)

	c.RemoveItem(1, "")
	assert.Empty(t, c.Lines)

	// Removing again is a no-op, not an error.
	c.RemoveItem(1, "")
	c.RemoveItem(42, "")
	assert.Empty(t, c.Lines)
}

func TestRemoveItemByLineID(t *testing.T) {
	c := New()
	_, verr := c.AddItem(fibraPlan(), 1)
	require.Nil(t, verr)
	dup, verr := c.DuplicateItem(1)
	require.Nil(t, verr)
	require.NotNil(t, dup)

	c.RemoveItem(0, dup.LineID)

	require.Len(t, c.Lines, 1)
	assert.NotEqual(t, dup.LineID, c.Lines[0].LineID)
}

func TestUpdateQuantity(t *testing.T) {
	c := New()
	_, verr := c.AddItem(movelPlan(), 2)
	require.Nil(t, verr)

	verr = c.UpdateQuantity(2, 4, "")
	require.Nil(t, verr)
	assert.Equal(t, 4, c.Lines[0].Quantity)
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	c := New()
	_, verr := c.AddItem(movelPlan(), 2)
	require.Nil(t, verr)

	verr = c.UpdateQuantity(2, 0, "")
	require.Nil(t, verr)
	assert.Empty(t, c.Lines)

	_, verr = c.AddItem(movelPlan(), 2)
	require.Nil(t, verr)
	verr = c.UpdateQuantity(2, -1, "")
	require.Nil(t, verr)
	assert.Empty(t, c.Lines)
}

func TestUpdateQuantitySVAIncreaseChecked(t *testing.T) {
	c := New()
	_, verr := c.AddItem(movelPlan(), 2)
	require.Nil(t, verr)
	_, verr = c.AddItem(svaPlan(), 2)
	require.Nil(t, verr)

	verr = c.UpdateQuantity(3, 3, "")
	require.NotNil(t, verr)
	assert.Equal(t, "SVA_LIMIT", verr.Code)
	assert.Equal(t, 2, c.SVACount(3), "rejected update must leave the quantity unchanged")

	// Decreasing is always allowed.
	verr = c.UpdateQuantity(3, 1, "")
	require.Nil(t, verr)
	assert.Equal(t, 1, c.SVACount(3))
}

func TestUpdateQuantityByLineIDCountsSiblingLines(t *testing.T) {
	c := New()
	_, verr := c.AddItem(movelPlan(), 2)
	require.Nil(t, verr)
	_, verr = c.AddItem(svaPlan(), 1)
	require.Nil(t, verr)
	dup, verr := c.DuplicateItem(3)
	require.Nil(t, verr)
	require.NotNil(t, dup)

	// Two SVA units across two lines already fill the cap of two eligible
	// lines; growing the duplicate by line id alone must still be rejected.
	verr = c.UpdateQuantity(0, 2, dup.LineID)

	require.NotNil(t, verr)
	assert.Equal(t, "SVA_LIMIT", verr.Code)
	assert.Equal(t, 2, c.SVACount(3))
}

func TestDuplicateItem(t *testing.T) {
	c := New()
	_, verr := c.AddItem(fibraPlan(), 3)
	require.Nil(t, verr)

	line, verr := c.DuplicateItem(1)

	require.Nil(t, verr)
	require.NotNil(t, line)
	require.Len(t, c.Lines, 2)
	assert.Equal(t, 1, line.Quantity, "duplicate starts at quantity 1")
	assert.Equal(t, c.Lines[0].UnitPrice, line.UnitPrice, "duplicate reuses the original snapshot")
	assert.NotEqual(t, c.Lines[0].LineID, line.LineID)
}

func TestDuplicateAbsentPlanIsNoOp(t *testing.T) {
	c := New()

	line, verr := c.DuplicateItem(99)

	assert.Nil(t, line)
	assert.Nil(t, verr)
	assert.Empty(t, c.Lines)
}

func TestDuplicateSVAChecked(t *testing.T) {
	c := New()
	_, verr := c.AddItem(fibraPlan(), 1)
	require.Nil(t, verr)
	_, verr = c.AddItem(svaPlan(), 1)
	require.Nil(t, verr)

	line, verr := c.DuplicateItem(3)

	require.NotNil(t, verr)
	assert.Nil(t, line)
	require.Len(t, c.Lines, 2)
}

func TestTotals(t *testing.T) {
	c := New()
	_, verr := c.AddItem(fibraPlan(), 2) // 2 x 8990, install 2 x 9900
	require.Nil(t, verr)
	_, verr = c.AddItem(movelPlan(), 1) // 1 x 4990, no install
	require.Nil(t, verr)

	assert.Equal(t, 2*8990+4990, c.TotalMonthly())
	assert.Equal(t, 2*9900, c.TotalInstall())
	assert.Equal(t, 3, c.ItemCount())
}

func TestClear(t *testing.T) {
	c := New()
	_, verr := c.AddItem(fibraPlan(), 1)
	require.Nil(t, verr)
	_, verr = c.AddItem(movelPlan(), 2)
	require.Nil(t, verr)

	c.Clear()

	assert.Empty(t, c.Lines)
	assert.Zero(t, c.TotalMonthly())
	assert.Zero(t, c.ItemCount())
}
