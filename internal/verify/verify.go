// Package verify cross-checks the two sources' view of the latest draw.
package verify

import (
	"slices"

	"euromillions/internal/models"
)

// Compare reports field-by-field agreement between the scraped latest draw
// and the latest API draw. Comparisons are exact and order-sensitive: this
// is draw-position data, so the same numbers in a different order is a
// mismatch. The jackpot is compared only when the API side carries an
// amount, and is excluded from AllOK either way. A mismatch is a result,
// never an error.
func Compare(scraped, apiLatest models.Draw) models.VerificationReport {
	r := models.VerificationReport{
		DateMatch:    scraped.Date.Equal(apiLatest.Date),
		NumbersMatch: slices.Equal(scraped.Numbers, apiLatest.Numbers),
		StarsMatch:   slices.Equal(scraped.Stars, apiLatest.Stars),
	}
	r.JackpotMatch = apiLatest.JackpotEUR != nil &&
		scraped.JackpotEUR != nil &&
		*scraped.JackpotEUR == *apiLatest.JackpotEUR
	r.AllOK = r.DateMatch && r.NumbersMatch && r.StarsMatch
	return r
}
