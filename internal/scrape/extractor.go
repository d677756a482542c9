// Package scrape extracts the latest EuroMillions draw from the lottery.ie
// history page. The page carries no stable schema, so every field is resolved
// by a chain of strategies anchored on known label phrases: a structural walk
// through the markup first, then a fallback over the card's flattened text.
package scrape

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"euromillions/internal/models"
	"euromillions/internal/parse"
)

// minBannerJackpot guards the jackpot banner scan against unrelated small
// numbers near the anchor; a real EuroMillions jackpot never goes below it.
// Historical per-draw amounts are not subject to this floor.
const minBannerJackpot = 1_000_000

// ancestorLevels bounds field extraction to the latest draw card: walking up
// this many levels from the "Jackpot" label lands on the card container, so
// older draws further down the page stay out of scope.
const ancestorLevels = 4

// Look-ahead bounds for the structural number scan.
const (
	numbersLookAhead = 60
	starsLookAhead   = 30
)

// Error reports which field of the latest draw card could not be resolved
// after every strategy for it was exhausted.
type Error struct {
	Field string
	Msg   string
}

func (e *Error) Error() string {
	return fmt.Sprintf("scrape %s: %s", e.Field, e.Msg)
}

var (
	euroRe        = regexp.MustCompile(`€[\s\d,]+`)
	smallIntRe    = regexp.MustCompile(`^\d{1,2}$`)
	bareIntRe     = regexp.MustCompile(`\b\d{1,2}\b`)
	amountClassRe = regexp.MustCompile(`\bfont-black\b.*\btext-xl\b`)
	luckyStarsRe  = regexp.MustCompile(`(?i)lucky\s+stars`)
	starsStopRe   = regexp.MustCompile(`View prize breakdown|\* \* \*`)
)

// Latest parses raw page markup and extracts the most recent draw. Date,
// numbers and stars are mandatory: a field that survives neither its
// structural strategy nor its text fallback makes the whole extraction fail,
// so a partially populated draw is never returned. The jackpot banner is the
// one independently failable stage; when both amount strategies miss, the
// draw is returned with an unknown jackpot.
func Latest(markup string) (models.Draw, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return models.Draw{}, &Error{Field: "document", Msg: err.Error()}
	}

	var anchor *html.Node
	for _, root := range doc.Selection.Nodes {
		if anchor = findText(root, "jackpot"); anchor != nil {
			break
		}
	}
	if anchor == nil {
		return models.Draw{}, &Error{Field: "jackpot", Msg: "anchor not found"}
	}

	jackpot := bannerJackpot(anchor)

	section := sectionOf(anchor, ancestorLevels)
	sectionText := flatText(section)

	date, err := parse.DayMonthYear(sectionText)
	if err != nil {
		return models.Draw{}, &Error{Field: "date", Msg: err.Error()}
	}

	numbers, ok := resolveInts(5,
		func() []int {
			if label := findText(section, "winning numbers"); label != nil {
				return collectInts(label, 5, numbersLookAhead, luckyStarsRe)
			}
			return nil
		},
		func() []int {
			return intsBetween(sectionText, "winning numbers", "lucky stars")
		},
	)
	if !ok {
		return models.Draw{}, &Error{Field: "numbers", Msg: "could not resolve 5 main numbers"}
	}

	stars, ok := resolveInts(2,
		func() []int {
			if label := findText(section, "lucky stars"); label != nil {
				return collectInts(label, 2, starsLookAhead, starsStopRe)
			}
			return nil
		},
		func() []int {
			return intsBetween(sectionText, "lucky stars", "")
		},
	)
	if !ok {
		return models.Draw{}, &Error{Field: "stars", Msg: "could not resolve 2 lucky stars"}
	}

	return models.Draw{
		Date:       date,
		Numbers:    numbers,
		Stars:      stars,
		JackpotEUR: jackpot,
	}, nil
}

// resolveInts tries each strategy in order and keeps the first result that
// yields at least want integers, truncated to exactly want.
func resolveInts(want int, strategies ...func() []int) ([]int, bool) {
	for _, strat := range strategies {
		if vals := strat(); len(vals) >= want {
			return vals[:want], true
		}
	}
	return nil, false
}

// amountStrategies resolve the jackpot banner near the anchor. Two exist
// because the markup structure is not contractually stable: a bare euro
// string in a text node, or an amount wrapped in a styled display element.
var amountStrategies = []func(*html.Node) (int64, bool){
	euroTextAmount,
	amountClassAmount,
}

func bannerJackpot(anchor *html.Node) *int64 {
	for _, strat := range amountStrategies {
		if v, ok := strat(anchor); ok {
			return &v
		}
	}
	return nil
}

func euroTextAmount(anchor *html.Node) (int64, bool) {
	var out int64
	found := false
	forEachFollowing(anchor, func(n *html.Node) bool {
		if n.Type != html.TextNode {
			return true
		}
		euro := euroRe.FindString(n.Data)
		if euro == "" {
			return true
		}
		v, err := parse.Amount(euro)
		if err != nil || v < minBannerJackpot {
			return true
		}
		out, found = v, true
		return false
	})
	return out, found
}

func amountClassAmount(anchor *html.Node) (int64, bool) {
	var out int64
	found := false
	forEachFollowing(anchor, func(n *html.Node) bool {
		if n.Type != html.ElementNode || !amountClassRe.MatchString(attrVal(n, "class")) {
			return true
		}
		v, err := parse.Amount(nodeText(n))
		if err != nil || v < minBannerJackpot {
			return true
		}
		out, found = v, true
		return false
	})
	return out, found
}

// collectInts scans the elements after label in document order, keeping
// elements whose whole text is a bare one- or two-digit integer, until want
// integers are found, the stop pattern appears, or limit elements have been
// examined.
func collectInts(label *html.Node, want, limit int, stop *regexp.Regexp) []int {
	var out []int
	seen := 0
	forEachFollowing(label, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		seen++
		if seen > limit {
			return false
		}
		if t := strings.TrimSpace(nodeText(n)); smallIntRe.MatchString(t) {
			v, _ := strconv.Atoi(t)
			out = append(out, v)
			if len(out) == want {
				return false
			}
		}
		return !stop.MatchString(ownText(n))
	})
	return out
}

// intsBetween is the text fallback: slice the card's flattened text after
// startLabel (and before endLabel, when given) and take the bare one- or
// two-digit integers found there.
func intsBetween(sectionText, startLabel, endLabel string) []int {
	slice := sectionText
	if i := indexFold(slice, startLabel); i >= 0 {
		slice = slice[i+len(startLabel):]
	}
	if endLabel != "" {
		if i := indexFold(slice, endLabel); i >= 0 {
			slice = slice[:i]
		}
	}
	var out []int
	for _, tok := range bareIntRe.FindAllString(slice, -1) {
		v, _ := strconv.Atoi(tok)
		out = append(out, v)
	}
	return out
}

// findText returns the first text node under root containing phrase,
// case-insensitively. Script and style subtrees are skipped so markup-borne
// JSON blobs cannot masquerade as labels.
func findText(root *html.Node, phrase string) *html.Node {
	if root.Type == html.ElementNode && (root.Data == "script" || root.Data == "style") {
		return nil
	}
	if root.Type == html.TextNode && strings.Contains(strings.ToLower(root.Data), phrase) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if n := findText(c, phrase); n != nil {
			return n
		}
	}
	return nil
}

// forEachFollowing visits every node strictly after start in document order,
// stopping when visit returns false.
func forEachFollowing(start *html.Node, visit func(*html.Node) bool) {
	for n := successor(start); n != nil; n = successor(n) {
		if !visit(n) {
			return
		}
	}
}

func successor(n *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}
	for ; n != nil; n = n.Parent {
		if n.NextSibling != nil {
			return n.NextSibling
		}
	}
	return nil
}

func sectionOf(n *html.Node, levels int) *html.Node {
	for i := 0; i < levels; i++ {
		if n.Parent == nil || n.Parent.Type == html.DocumentNode {
			break
		}
		n = n.Parent
	}
	return n
}

// flatText renders a node's subtree as whitespace-normalized text. Text nodes
// are joined with a single space so minified markup, where no whitespace
// separates adjacent tags, still yields distinct tokens. Script and style
// subtrees are skipped, matching findText.
func flatText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			if fields := strings.Fields(n.Data); len(fields) > 0 {
				parts = append(parts, strings.Join(fields, " "))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}

// nodeText is the trimmed text of a node's whole subtree.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

// ownText is the text of a node's direct text children only.
func ownText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func indexFold(s, substr string) int {
	return strings.Index(strings.ToLower(s), strings.ToLower(substr))
}
