// Package normalize maps loosely-typed draw records from the draws API onto
// the canonical Draw shape. The API's schema has drifted over time — field
// names, date formats and the placement of the jackpot all vary — so every
// logical field resolves through an ordered table of alternate keys.
package normalize

import (
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"euromillions/internal/models"
	"euromillions/internal/parse"
)

// Alternate key names per logical field, tried in order.
var (
	dateKeys   = []string{"date", "draw_date", "drawDate", "draw_time"}
	numberKeys = []string{"numbers", "numbers_main", "numbersList"}
	starKeys   = []string{"stars", "lucky_stars", "luckyStars"}
	prizeKeys  = []string{"prize", "jackpot", "jackpot_eur"}
	idKeys     = []string{"id", "draw_id", "drawId"}
)

// Key names seen inside prize-tier breakdowns.
var (
	tierMainKeys  = []string{"matched_numbers", "matchedNumbers", "numbers_matched"}
	tierStarKeys  = []string{"matched_stars", "matchedStars", "stars_matched", "matched_lucky_stars"}
	tierPrizeKeys = []string{"prize", "amount", "prize_eur", "jackpot"}
)

var digitPairRe = regexp.MustCompile(`\d{1,2}`)

// Record maps one raw API record onto a Draw. Field-level problems degrade
// to sentinels — an unknown date, empty lists, a null jackpot — so a single
// malformed historical record never aborts the batch. The original record is
// retained on the Draw untouched.
func Record(raw map[string]any) models.Draw {
	d := models.Draw{Raw: raw}

	if v, ok := firstKey(raw, dateKeys); ok {
		if s, isStr := v.(string); isStr {
			if date, err := parse.Date(s); err == nil {
				d.Date = date
			}
		}
	}

	if v, ok := firstKey(raw, numberKeys); ok {
		d.Numbers = intList(v, 5)
	}
	if v, ok := firstKey(raw, starKeys); ok {
		d.Stars = intList(v, 2)
	}

	if v, ok := firstKey(raw, prizeKeys); ok {
		if amt, err := parse.Amount(v); err == nil {
			d.JackpotEUR = &amt
		}
	}
	if d.JackpotEUR == nil {
		if amt, ok := tierJackpot(raw); ok {
			d.JackpotEUR = &amt
		}
	}

	if v, ok := firstKey(raw, idKeys); ok {
		d.ID = stringID(v)
	}
	return d
}

// History normalizes every record of an API payload and orders the series by
// date descending; the sort is stable, so records sharing a date keep their
// input order, and unknown dates sink to the end.
func History(records []map[string]any) []models.Draw {
	draws := make([]models.Draw, 0, len(records))
	for _, r := range records {
		draws = append(draws, Record(r))
	}
	sort.SliceStable(draws, func(i, j int) bool {
		return draws[i].Date.After(draws[j].Date)
	})
	return draws
}

func firstKey(raw map[string]any, keys []string) (any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// intList coerces a native list element-wise, silently dropping anything
// non-numeric, or pulls digit groups out of a delimited string. The result
// is truncated to max entries to defend against oversized upstream lists.
func intList(v any, max int) []int {
	var out []int
	switch t := v.(type) {
	case []any:
		for _, e := range t {
			if n, ok := toInt(e); ok {
				out = append(out, n)
			}
		}
	case string:
		for _, tok := range digitPairRe.FindAllString(t, -1) {
			n, _ := strconv.Atoi(tok)
			out = append(out, n)
		}
	}
	if len(out) > max {
		out = out[:max]
	}
	return out
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}

func stringID(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	}
	return ""
}

type tier struct {
	mainMatched int
	starMatched int
	amount      int64
}

// tierJackpot recovers the jackpot from records that only express it inside
// a full prize-tier breakdown. Any nested sub-object carrying a matched main
// count and a matched star count next to a prize-like field is a candidate;
// the tier matching the maximum of both counts is the top prize, and when no
// tier hits that exact combination the largest parsed amount wins.
func tierJackpot(raw map[string]any) (int64, bool) {
	var tiers []tier
	collectTiers(raw, &tiers)
	if len(tiers) == 0 {
		return 0, false
	}

	maxMain, maxStar := 0, 0
	for _, t := range tiers {
		maxMain = max(maxMain, t.mainMatched)
		maxStar = max(maxStar, t.starMatched)
	}
	for _, t := range tiers {
		if t.mainMatched == maxMain && t.starMatched == maxStar {
			return t.amount, true
		}
	}

	best := tiers[0]
	for _, t := range tiers[1:] {
		if t.amount > best.amount {
			best = t
		}
	}
	return best.amount, true
}

// collectTiers walks the record's nested structure. Map keys are visited in
// sorted order so the search stays deterministic.
func collectTiers(v any, out *[]tier) {
	switch t := v.(type) {
	case map[string]any:
		if tr, ok := tierFrom(t); ok {
			*out = append(*out, tr)
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			collectTiers(t[k], out)
		}
	case []any:
		for _, child := range t {
			collectTiers(child, out)
		}
	}
}

func tierFrom(m map[string]any) (tier, bool) {
	mainV, okMain := firstKey(m, tierMainKeys)
	starV, okStar := firstKey(m, tierStarKeys)
	prizeV, okPrize := firstKey(m, tierPrizeKeys)
	if !okMain || !okStar || !okPrize {
		return tier{}, false
	}
	mainN, okMain := toInt(mainV)
	starN, okStar := toInt(starV)
	amt, err := parse.Amount(prizeV)
	if !okMain || !okStar || err != nil {
		return tier{}, false
	}
	return tier{mainMatched: mainN, starMatched: starN, amount: amt}, true
}
