// Package site renders the persisted history as a static HTML dashboard.
package site

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"

	"github.com/samber/lo"

	"github.com/nordgrid/sweload/internal/analytics"
)

//go:embed page.html.tmpl
var pageTemplate string

// Section is one chart block on the page.
type Section struct {
	ID     string
	Title  string
	Blurb  string
	Figure Figure
}

// Page is everything the dashboard template needs.
type Page struct {
	Title    string
	Tagline  string
	TZName   string
	Sections []Section
	Peaks    []analytics.YearlyPeak
}

type sectionView struct {
	ID         string
	Title      string
	Blurb      string
	DataJSON   template.JS
	LayoutJSON template.JS
}

type peakView struct {
	Year int
	When string
	MW   string
}

type pageView struct {
	Title    string
	Tagline  string
	TZName   string
	Sections []sectionView
	Peaks    []peakView
}

var tmpl = template.Must(template.New("page").Parse(pageTemplate))

// Render produces the full dashboard HTML document.
func Render(page Page) ([]byte, error) {
	view := pageView{
		Title:   page.Title,
		Tagline: page.Tagline,
		TZName:  page.TZName,
		Peaks: lo.Map(page.Peaks, func(p analytics.YearlyPeak, _ int) peakView {
			return peakView{
				Year: p.Year,
				When: p.Time.Format("2006-01-02 15:04"),
				MW:   fmt.Sprintf("%.0f", p.MW),
			}
		}),
	}

	for _, section := range page.Sections {
		data, err := json.Marshal(section.Figure.Data)
		if err != nil {
			return nil, fmt.Errorf("marshal %s data: %w", section.ID, err)
		}
		layout, err := json.Marshal(section.Figure.Layout)
		if err != nil {
			return nil, fmt.Errorf("marshal %s layout: %w", section.ID, err)
		}
		view.Sections = append(view.Sections, sectionView{
			ID:         section.ID,
			Title:      section.Title,
			Blurb:      section.Blurb,
			DataJSON:   template.JS(data),
			LayoutJSON: template.JS(layout),
		})
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("execute page template: %w", err)
	}
	return buf.Bytes(), nil
}

// WritePage writes index.html under dir via temp-file-and-rename, so a crash
// never leaves a truncated page behind.
func WritePage(dir string, html []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	target := filepath.Join(dir, "index.html")
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, html, 0o644); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("write page: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("replace page: %w", err)
	}
	return target, nil
}
