package services

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	"github.com/google/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"euromillions/internal/fetch"
	"euromillions/internal/models"
)

func TestMain(m *testing.M) {
	lg := logger.Init("test", false, false, io.Discard)
	code := m.Run()
	lg.Close()
	os.Exit(code)
}

const cardMarkup = `<html><body><div><div><div>
  <p>Jackpot</p>
  <p>€40,000,000</p>
  <h3>Tue 26/08/25</h3>
  <p>Winning numbers</p>
  <span>3</span><span>17</span><span>22</span><span>29</span><span>44</span>
  <p>Lucky Stars</p>
  <span>6</span><span>9</span>
</div></div></div></body></html>`

var matchingRecords = []map[string]any{
	{
		"id":      "draw-1887",
		"date":    "2025-08-26",
		"numbers": []any{3.0, 17.0, 22.0, 29.0, 44.0},
		"stars":   []any{6.0, 9.0},
		"prize":   "€40,000,000",
	},
	{
		"date":    "2025-08-19",
		"numbers": []any{1.0, 2.0, 3.0, 4.0, 5.0},
		"stars":   []any{1.0, 2.0},
	},
}

type stubFetcher struct {
	markup    string
	records   []map[string]any
	markupErr error
	drawsErr  error
}

func (s *stubFetcher) Markup(ctx context.Context, url string) (string, error) {
	return s.markup, s.markupErr
}

func (s *stubFetcher) Draws(ctx context.Context, url string) ([]map[string]any, error) {
	return s.records, s.drawsErr
}

func testSources() models.SourceURLs {
	return models.SourceURLs{Scrape: "https://example.test/history", API: "https://example.test/draws"}
}

func TestResultService_Refresh(t *testing.T) {
	t.Run("agreeing sources produce a verified snapshot", func(t *testing.T) {
		svc := NewResultService(&stubFetcher{markup: cardMarkup, records: matchingRecords}, testSources())

		snap, err := svc.Refresh(context.Background())
		require.NoError(t, err)

		assert.Equal(t, "2025-08-26", snap.LastDraw.Date.String())
		assert.Equal(t, []int{3, 17, 22, 29, 44}, snap.LastDraw.Numbers)
		assert.Equal(t, []int{6, 9}, snap.LastDraw.Stars)
		require.NotNil(t, snap.CurrentJackpotEUR)
		assert.Equal(t, int64(40000000), *snap.CurrentJackpotEUR)

		assert.True(t, snap.Verification.AllOK)
		assert.True(t, snap.Verification.JackpotMatch)
		require.Len(t, snap.History, 2)
		assert.Equal(t, "draw-1887", snap.History[0].ID)
		assert.NotEmpty(t, snap.RunID)
		assert.False(t, snap.Timestamp.IsZero())
		assert.Equal(t, testSources(), snap.Sources)

		assert.Same(t, snap, svc.Latest())
	})

	t.Run("disagreeing numbers are reported, not an error", func(t *testing.T) {
		records := []map[string]any{{
			"date":    "2025-08-26",
			"numbers": []any{1.0, 2.0, 3.0, 4.0, 5.0},
			"stars":   []any{6.0, 9.0},
		}}
		svc := NewResultService(&stubFetcher{markup: cardMarkup, records: records}, testSources())

		snap, err := svc.Refresh(context.Background())
		require.NoError(t, err)
		assert.False(t, snap.Verification.NumbersMatch)
		assert.False(t, snap.Verification.AllOK)
		assert.True(t, snap.Verification.DateMatch)
	})

	t.Run("transport failure aborts the run", func(t *testing.T) {
		svc := NewResultService(&stubFetcher{markupErr: errors.New("connection refused")}, testSources())

		_, err := svc.Refresh(context.Background())
		require.Error(t, err)
		assert.Nil(t, svc.Latest())
	})

	t.Run("schema violation aborts the run", func(t *testing.T) {
		svc := NewResultService(&stubFetcher{markup: cardMarkup, drawsErr: fetch.ErrSchema}, testSources())

		_, err := svc.Refresh(context.Background())
		assert.ErrorIs(t, err, fetch.ErrSchema)
	})

	t.Run("unextractable page aborts the scrape branch", func(t *testing.T) {
		svc := NewResultService(&stubFetcher{markup: "<html><body>maintenance</body></html>", records: matchingRecords}, testSources())

		_, err := svc.Refresh(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "extract latest draw")
	})

	t.Run("failed refresh keeps the previous snapshot", func(t *testing.T) {
		stub := &stubFetcher{markup: cardMarkup, records: matchingRecords}
		svc := NewResultService(stub, testSources())

		first, err := svc.Refresh(context.Background())
		require.NoError(t, err)

		stub.markupErr = errors.New("connection refused")
		_, err = svc.Refresh(context.Background())
		require.Error(t, err)
		assert.Same(t, first, svc.Latest())
	})
}
