package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClearanceStageProgression(t *testing.T) {
	ordered := []ClearanceStage{
		ClearanceStageInitiated,
		ClearanceStagePendingInventoryCheck,
		ClearanceStageSettlementApproved,
		ClearanceStagePaymentCompleted,
		ClearanceStageReturnShipped,
		ClearanceStageReturnReceived,
		ClearanceStageClosed,
	}

	t.Run("Each stage advances only to its successor", func(t *testing.T) {
		for i, from := range ordered {
			for j, to := range ordered {
				expected := j == i+1
				assert.Equal(t, expected, from.CanAdvanceTo(to), "%s -> %s", from, to)
			}
		}
	})

	t.Run("Unknown stages never advance", func(t *testing.T) {
		assert.False(t, ClearanceStage("BOGUS").CanAdvanceTo(ClearanceStageInitiated))
		assert.False(t, ClearanceStageClosed.CanAdvanceTo(ClearanceStage("BOGUS")))
		assert.Equal(t, -1, ClearanceStage("BOGUS").Rank())
	})
}

func TestClearanceLastProgressAt(t *testing.T) {
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	shipped := base.AddDate(0, 0, 5)

	c := &Clearance{
		InitiatedAt:     base,
		ReturnShippedAt: &shipped,
	}
	assert.Equal(t, shipped, c.LastProgressAt())

	c.ReturnShippedAt = nil
	assert.Equal(t, base, c.LastProgressAt())
}
