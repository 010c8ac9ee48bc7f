package http

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"sync"
	"time"

	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/dashboard"
	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/forecast"
	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/render"
)

const indexTemplate = "index.html.tmpl"

//go:embed assets
var assetsFS embed.FS

func embeddedAssets() fs.FS {
	sub, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		panic(err) // the directory is compiled in
	}
	return sub
}

var templateFuncs = template.FuncMap{
	"mm":            func(v float64) string { return fmt.Sprintf("%.2f", v) },
	"categoryColor": render.CategoryColor,
}

// pages holds the parsed page template. When reload is set the template is
// parsed again from assets on every render so edits show up without a restart.
type pages struct {
	assets fs.FS
	reload bool

	mu   sync.RWMutex
	tmpl *template.Template
}

func newPages(assets fs.FS, reload bool) (*pages, error) {
	p := &pages{assets: assets, reload: reload}
	tmpl, err := p.parse()
	if err != nil {
		return nil, err
	}
	p.tmpl = tmpl
	return p, nil
}

func (p *pages) parse() (*template.Template, error) {
	tmpl, err := template.New(indexTemplate).Funcs(templateFuncs).ParseFS(p.assets, indexTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}
	return tmpl, nil
}

func (p *pages) renderIndex(w io.Writer, data pageData) error {
	if p.reload {
		tmpl, err := p.parse()
		if err != nil {
			return err
		}
		p.mu.Lock()
		p.tmpl = tmpl
		p.mu.Unlock()
	}
	p.mu.RLock()
	tmpl := p.tmpl
	p.mu.RUnlock()
	return tmpl.Execute(w, data)
}

type legendEntry struct {
	Category forecast.Category
	Color    string
}

type pageData struct {
	Title        string
	Start, End   string
	Min, Max     string
	StartMax     string
	EndMin       string
	Charts       render.Charts
	Summary      forecast.Summary
	Rows         []forecast.TableRow
	Legend       []legendEntry
	MethodAName  string
	MethodBName  string
	MethodAColor string
	MethodBColor string
}

func newPageData(v dashboard.Views, charts render.Charts) pageData {
	legend := make([]legendEntry, 0, len(forecast.Categories))
	for _, c := range forecast.Categories {
		legend = append(legend, legendEntry{Category: c, Color: render.CategoryColor(c)})
	}
	return pageData{
		Title:        "Rainfall Forecast Dashboard",
		Start:        v.Range.Start.Format(forecast.DateLayout),
		End:          v.Range.End.Format(forecast.DateLayout),
		Min:          v.Bounds.Start.Format(forecast.DateLayout),
		Max:          v.Bounds.End.Format(forecast.DateLayout),
		StartMax:     pickerLimit(v.Range.End, v.Bounds.End, v.Range.Inverted()),
		EndMin:       pickerLimit(v.Range.Start, v.Bounds.Start, v.Range.Inverted()),
		Charts:       charts,
		Summary:      v.Summary,
		Rows:         v.Rows,
		Legend:       legend,
		MethodAName:  render.MethodAName,
		MethodBName:  render.MethodBName,
		MethodAColor: render.MethodAColor,
		MethodBColor: render.MethodBColor,
	}
}

// pickerLimit ties one picker to the other's value so start cannot pass end.
// An already inverted selection falls back to the dataset bound so the user
// can still correct it.
func pickerLimit(other, bound time.Time, inverted bool) string {
	if inverted {
		return bound.Format(forecast.DateLayout)
	}
	return other.Format(forecast.DateLayout)
}
