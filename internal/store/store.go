// Package store writes the artifacts of a pipeline run: the full snapshot
// JSON, the small latest.json summary, and the static status page.
package store

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"euromillions/internal/models"
)

// historyRenderLimit caps how many draws the status page shows.
const historyRenderLimit = 200

// Writer persists one snapshot per call, overwriting the previous artifacts.
type Writer struct {
	outDir    string
	templates *template.Template
}

// NewWriter creates a Writer emitting into outDir. The template set must
// contain index.html.
func NewWriter(outDir string, templates *template.Template) *Writer {
	return &Writer{outDir: outDir, templates: templates}
}

// Write emits euromillions.json, latest.json and site/index.html.
func (w *Writer) Write(snap *models.Snapshot) error {
	if err := w.writeJSON("euromillions.json", snap); err != nil {
		return err
	}
	if err := w.writeJSON("latest.json", snap.Summary()); err != nil {
		return err
	}

	siteDir := filepath.Join(w.outDir, "site")
	if err := os.MkdirAll(siteDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", siteDir, err)
	}
	f, err := os.Create(filepath.Join(siteDir, "index.html"))
	if err != nil {
		return fmt.Errorf("failed to create status page: %w", err)
	}
	defer f.Close()
	if err := w.templates.ExecuteTemplate(f, "index.html", PageData(snap)); err != nil {
		return fmt.Errorf("failed to render status page: %w", err)
	}
	return nil
}

func (w *Writer) writeJSON(name string, v any) error {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", w.outDir, err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	path := filepath.Join(w.outDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Page is the view model for the status page template.
type Page struct {
	Timestamp      string
	JackpotDisplay string
	Verified       bool
	VerdictText    string
	Date           string
	Numbers        []int
	Stars          []int
	HistoryCount   int
	Rows           []Row
	SourceScrape   string
	SourceAPI      string
}

// Row is one rendered history entry.
type Row struct {
	Date    string
	Numbers string
	Stars   string
	Jackpot string
}

// PageData projects a snapshot onto the status page view model.
func PageData(snap *models.Snapshot) Page {
	p := Page{
		Timestamp:      snap.Timestamp.Format("2006-01-02T15:04:05Z"),
		JackpotDisplay: euroDisplay(snap.CurrentJackpotEUR),
		Verified:       snap.Verification.AllOK,
		VerdictText:    "Verified vs API",
		Date:           snap.LastDraw.Date.String(),
		Numbers:        snap.LastDraw.Numbers,
		Stars:          snap.LastDraw.Stars,
		HistoryCount:   len(snap.History),
		SourceScrape:   snap.Sources.Scrape,
		SourceAPI:      snap.Sources.API,
	}
	if !p.Verified {
		p.VerdictText = "Mismatch with API"
	}
	for _, d := range snap.History {
		if len(p.Rows) == historyRenderLimit {
			break
		}
		row := Row{
			Date:    d.Date.String(),
			Numbers: models.JoinInts(d.Numbers),
			Stars:   models.JoinInts(d.Stars),
		}
		if d.JackpotEUR != nil {
			row.Jackpot = groupDigits(*d.JackpotEUR)
		}
		p.Rows = append(p.Rows, row)
	}
	return p
}

func euroDisplay(v *int64) string {
	if v == nil {
		return "unknown"
	}
	return "€" + groupDigits(*v)
}

// groupDigits renders 26800624 as "26,800,624".
func groupDigits(v int64) string {
	s := fmt.Sprintf("%d", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var groups []string
	for len(s) > 3 {
		groups = append([]string{s[len(s)-3:]}, groups...)
		s = s[:len(s)-3]
	}
	groups = append([]string{s}, groups...)
	out := strings.Join(groups, ",")
	if neg {
		out = "-" + out
	}
	return out
}
