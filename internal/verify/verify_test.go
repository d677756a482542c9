package verify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"euromillions/internal/models"
)

func draw(t *testing.T, jackpot *int64) models.Draw {
	t.Helper()
	date, err := models.NewISODate(2025, time.August, 26)
	require.NoError(t, err)
	return models.Draw{
		Date:       date,
		Numbers:    []int{3, 17, 22, 29, 44},
		Stars:      []int{6, 9},
		JackpotEUR: jackpot,
	}
}

func ptr(v int64) *int64 { return &v }

func TestCompare(t *testing.T) {
	t.Run("identical draws agree regardless of jackpot presence", func(t *testing.T) {
		report := Compare(draw(t, ptr(40000000)), draw(t, nil))

		assert.True(t, report.DateMatch)
		assert.True(t, report.NumbersMatch)
		assert.True(t, report.StarsMatch)
		assert.False(t, report.JackpotMatch) // absent on the API side
		assert.True(t, report.AllOK)
	})

	t.Run("jackpot agreement when both sides carry it", func(t *testing.T) {
		report := Compare(draw(t, ptr(40000000)), draw(t, ptr(40000000)))
		assert.True(t, report.JackpotMatch)
		assert.True(t, report.AllOK)
	})

	t.Run("jackpot disagreement does not break the aggregate", func(t *testing.T) {
		report := Compare(draw(t, ptr(40000000)), draw(t, ptr(26800624)))
		assert.False(t, report.JackpotMatch)
		assert.True(t, report.AllOK)
	})

	t.Run("single differing number breaks the aggregate", func(t *testing.T) {
		a := draw(t, nil)
		b := draw(t, nil)
		b.Numbers = []int{3, 17, 22, 29, 45}
		report := Compare(a, b)
		assert.False(t, report.NumbersMatch)
		assert.False(t, report.AllOK)
	})

	t.Run("same numbers in a different order mismatch", func(t *testing.T) {
		a := draw(t, nil)
		b := draw(t, nil)
		b.Numbers = []int{17, 3, 22, 29, 44}
		report := Compare(a, b)
		assert.False(t, report.NumbersMatch)
		assert.False(t, report.AllOK)
	})

	t.Run("differing dates mismatch", func(t *testing.T) {
		a := draw(t, nil)
		b := draw(t, nil)
		other, err := models.NewISODate(2025, time.August, 19)
		require.NoError(t, err)
		b.Date = other
		report := Compare(a, b)
		assert.False(t, report.DateMatch)
		assert.False(t, report.AllOK)
	})
}
