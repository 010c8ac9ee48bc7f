package http

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/dashboard"
	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/forecast"
	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/render"
)

// viewsResponse is the /api/views payload: every view for one range plus
// both charts rendered from the same recomputation.
type viewsResponse struct {
	Start      string              `json:"start"`
	End        string              `json:"end"`
	Min        string              `json:"min"`
	Max        string              `json:"max"`
	Line       forecast.LineSeries `json:"line"`
	Histogram  []categoryBar       `json:"histogram"`
	Rows       []forecast.TableRow `json:"rows"`
	Summary    forecast.Summary    `json:"summary"`
	Charts     render.Charts       `json:"charts"`
	Generation uint64              `json:"generation"`
	Superseded bool                `json:"superseded"`
}

type categoryBar struct {
	forecast.CategoryCount
	Color string `json:"color"`
}

// recompute parses the start/end query parameters and recomputes all views.
// It writes the error response itself and returns false on failure.
func (s *Server) recompute(w http.ResponseWriter, r *http.Request, asJSON bool) (dashboard.Views, bool) {
	q := r.URL.Query()
	rng, err := s.dash.ParseRange(q.Get("start"), q.Get("end"))
	if err != nil {
		s.fail(w, http.StatusBadRequest, err, asJSON)
		return dashboard.Views{}, false
	}
	views, err := s.dash.Recompute(r.Context(), rng)
	if err != nil {
		s.logger.Error("recompute failed", "error", err, "range", rng.String())
		s.fail(w, http.StatusInternalServerError, errors.New("could not compute views"), asJSON)
		return dashboard.Views{}, false
	}
	if views.Superseded {
		s.logger.Debug("serving superseded views", "range", rng.String(), "generation", views.Generation)
	}
	return views, true
}

func (s *Server) fail(w http.ResponseWriter, status int, err error, asJSON bool) {
	if asJSON {
		writeJSONError(w, status, err)
		return
	}
	http.Error(w, err.Error(), status)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	views, ok := s.recompute(w, r, false)
	if !ok {
		return
	}
	charts, err := render.RenderCharts(views.Line, views.Range, views.Histogram)
	if err != nil {
		s.logger.Error("render charts failed", "error", err)
		http.Error(w, "could not render charts", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := s.pages.renderIndex(&buf, newPageData(views, charts)); err != nil {
		s.logger.Error("execute index template failed", "error", err)
		http.Error(w, "could not render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes()) //nolint:errcheck // client may have gone away
}

func (s *Server) handleViews(w http.ResponseWriter, r *http.Request) {
	views, ok := s.recompute(w, r, true)
	if !ok {
		return
	}
	charts, err := render.RenderCharts(views.Line, views.Range, views.Histogram)
	if err != nil {
		s.logger.Error("render charts failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, errors.New("could not render charts"))
		return
	}
	writeJSON(w, http.StatusOK, newViewsResponse(views, charts))
}

func (s *Server) handleLineChart(w http.ResponseWriter, r *http.Request) {
	views, ok := s.recompute(w, r, true)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := render.LineChart(&buf, views.Line, views.Range); err != nil {
		s.logger.Error("render line chart failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, errors.New("could not render chart"))
		return
	}
	writeSVG(w, buf.Bytes())
}

func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	views, ok := s.recompute(w, r, true)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := render.CategoryChart(&buf, views.Histogram); err != nil {
		s.logger.Error("render category chart failed", "error", err)
		writeJSONError(w, http.StatusInternalServerError, errors.New("could not render chart"))
		return
	}
	writeSVG(w, buf.Bytes())
}

func writeSVG(w http.ResponseWriter, svg []byte) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(svg) //nolint:errcheck // client may have gone away
}

func newViewsResponse(v dashboard.Views, charts render.Charts) viewsResponse {
	bars := make([]categoryBar, 0, len(v.Histogram))
	for _, cc := range v.Histogram {
		bars = append(bars, categoryBar{CategoryCount: cc, Color: render.CategoryColor(cc.Category)})
	}
	return viewsResponse{
		Start:      v.Range.Start.Format(forecast.DateLayout),
		End:        v.Range.End.Format(forecast.DateLayout),
		Min:        v.Bounds.Start.Format(forecast.DateLayout),
		Max:        v.Bounds.End.Format(forecast.DateLayout),
		Line:       v.Line,
		Histogram:  bars,
		Rows:       v.Rows,
		Summary:    v.Summary,
		Charts:     charts,
		Generation: v.Generation,
		Superseded: v.Superseded,
	}
}
