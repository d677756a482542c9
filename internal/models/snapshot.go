package models

import "time"

// SourceURLs identifies where the two sides of a snapshot came from.
type SourceURLs struct {
	Scrape string `json:"scrape"`
	API    string `json:"api"`
}

// Snapshot is the full output of one pipeline run: the scraped latest draw,
// the normalized API history, and the verification verdict, all stamped with
// a single run timestamp so the emitted artifacts stay consistent.
type Snapshot struct {
	Timestamp         time.Time          `json:"timestamp"`
	RunID             string             `json:"run_id"`
	CurrentJackpotEUR *int64             `json:"currentJackpotEUR"`
	LastDraw          Draw               `json:"lastDraw"`
	Verification      VerificationReport `json:"verification"`
	History           []Draw             `json:"history"`
	Sources           SourceURLs         `json:"sources"`
}

// LatestSummary is the small latest.json payload.
type LatestSummary struct {
	Timestamp  time.Time `json:"timestamp"`
	Date       ISODate   `json:"date"`
	JackpotEUR *int64    `json:"jackpot_eur"`
	Numbers    []int     `json:"numbers"`
	Stars      []int     `json:"stars"`
	Verified   bool      `json:"verified"`
}

// Summary projects the snapshot onto the latest.json shape.
func (s *Snapshot) Summary() LatestSummary {
	return LatestSummary{
		Timestamp:  s.Timestamp,
		Date:       s.LastDraw.Date,
		JackpotEUR: s.LastDraw.JackpotEUR,
		Numbers:    s.LastDraw.Numbers,
		Stars:      s.LastDraw.Stars,
		Verified:   s.Verification.AllOK,
	}
}
