package normalize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decode mimics the fetch layer: records arrive as generic JSON maps.
func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	return m
}

func TestRecord(t *testing.T) {
	t.Run("delimited strings and tier-recovered jackpot", func(t *testing.T) {
		raw := decode(t, `{
			"date": "2025-08-26",
			"numbers": "01 02 03 04 05",
			"stars": [6, 7],
			"tiers": [
				{"matched_numbers": 5, "matched_stars": 2, "prize": "€10,000,000"},
				{"matched_numbers": 5, "matched_stars": 1, "prize": "€500,000"}
			]
		}`)
		d := Record(raw)

		assert.Equal(t, "2025-08-26", d.Date.String())
		assert.Equal(t, []int{1, 2, 3, 4, 5}, d.Numbers)
		assert.Equal(t, []int{6, 7}, d.Stars)
		require.NotNil(t, d.JackpotEUR)
		assert.Equal(t, int64(10000000), *d.JackpotEUR)
		assert.Equal(t, raw, d.Raw)
	})

	t.Run("alternate key names", func(t *testing.T) {
		raw := decode(t, `{
			"drawDate": "2025-08-26T10:00:00Z",
			"numbers_main": [3, 17, 22, 29, 44],
			"lucky_stars": "6-9",
			"jackpot": 40000000,
			"draw_id": 1887
		}`)
		d := Record(raw)

		assert.Equal(t, "2025-08-26", d.Date.String())
		assert.Equal(t, []int{3, 17, 22, 29, 44}, d.Numbers)
		assert.Equal(t, []int{6, 9}, d.Stars)
		require.NotNil(t, d.JackpotEUR)
		assert.Equal(t, int64(40000000), *d.JackpotEUR)
		assert.Equal(t, "1887", d.ID)
	})

	t.Run("top-level prize beats the tier breakdown", func(t *testing.T) {
		raw := decode(t, `{
			"date": "2025-08-26",
			"numbers": [1, 2, 3, 4, 5],
			"stars": [1, 2],
			"prize": "€17,000,000",
			"prizes": [{"matched_numbers": 5, "matched_stars": 2, "prize": "€99,000,000"}]
		}`)
		d := Record(raw)
		require.NotNil(t, d.JackpotEUR)
		assert.Equal(t, int64(17000000), *d.JackpotEUR)
	})

	t.Run("no exact top-tier combination falls back to highest amount", func(t *testing.T) {
		raw := decode(t, `{
			"date": "2025-08-26",
			"numbers": [1, 2, 3, 4, 5],
			"stars": [1, 2],
			"breakdown": {
				"tiers": [
					{"matched_numbers": 5, "matched_stars": 1, "prize": "€2,000,000"},
					{"matched_numbers": 4, "matched_stars": 2, "prize": "€1,000,000"}
				]
			}
		}`)
		d := Record(raw)
		require.NotNil(t, d.JackpotEUR)
		assert.Equal(t, int64(2000000), *d.JackpotEUR)
	})

	t.Run("oversized and partly garbage lists", func(t *testing.T) {
		raw := decode(t, `{
			"date": "2025-08-26",
			"numbers": [1, "2", "x", 3, null, 4, 5, 6, 7],
			"stars": [8, 9, 10]
		}`)
		d := Record(raw)
		assert.Equal(t, []int{1, 2, 3, 4, 5}, d.Numbers)
		assert.Equal(t, []int{8, 9}, d.Stars)
	})

	t.Run("malformed record degrades to sentinels", func(t *testing.T) {
		raw := decode(t, `{"something": "else"}`)
		d := Record(raw)

		assert.True(t, d.Date.IsUnknown())
		assert.Equal(t, "unknown", d.Date.String())
		assert.Empty(t, d.Numbers)
		assert.Empty(t, d.Stars)
		assert.Nil(t, d.JackpotEUR)

		// The sentinel jackpot serializes as an explicit null.
		out, err := json.Marshal(d)
		require.NoError(t, err)
		assert.Contains(t, string(out), `"jackpot_eur":null`)
		assert.Contains(t, string(out), `"date":"unknown"`)
	})

	t.Run("normalizing the same record twice is deterministic", func(t *testing.T) {
		raw := decode(t, `{
			"date": "2025-08-26",
			"numbers": [1, 2, 3, 4, 5],
			"stars": [1, 2],
			"breakdown": {
				"a": [{"matched_numbers": 5, "matched_stars": 1, "prize": "€2,000,000"}],
				"b": [{"matched_numbers": 4, "matched_stars": 2, "prize": "€1,000,000"}]
			}
		}`)
		first := Record(raw)
		second := Record(raw)
		assert.Equal(t, first, second)
	})
}

func TestHistory(t *testing.T) {
	t.Run("ordered by date descending", func(t *testing.T) {
		records := []map[string]any{
			decode(t, `{"date": "2025-08-19", "numbers": [1,2,3,4,5], "stars": [1,2]}`),
			decode(t, `{"date": "2025-08-26", "numbers": [3,17,22,29,44], "stars": [6,9]}`),
		}
		history := History(records)
		require.Len(t, history, 2)
		assert.Equal(t, "2025-08-26", history[0].Date.String())
		assert.Equal(t, "2025-08-19", history[1].Date.String())
	})

	t.Run("unknown dates sink to the end, ties keep input order", func(t *testing.T) {
		records := []map[string]any{
			decode(t, `{"date": "garbage", "draw_id": "bad"}`),
			decode(t, `{"date": "2025-08-26", "draw_id": "a"}`),
			decode(t, `{"date": "2025-08-26", "draw_id": "b"}`),
		}
		history := History(records)
		require.Len(t, history, 3)
		assert.Equal(t, "a", history[0].ID)
		assert.Equal(t, "b", history[1].ID)
		assert.True(t, history[2].Date.IsUnknown())
	})
}
