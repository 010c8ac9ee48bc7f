// Package dashboard turns a date-range change into one consistent set of
// views over the loaded forecast table.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/dataset"
	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/forecast"
	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/observability"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidDate is returned by ParseRange for a start or end that is not YYYY-MM-DD.
var ErrInvalidDate = errors.New("invalid date")

// State is the dashboard's recomputation state.
type State int32

const (
	Idle State = iota
	Recomputing
)

func (s State) String() string {
	if s == Recomputing {
		return "recomputing"
	}
	return "idle"
}

// Views is everything the page shows for one date range. All fields derive
// from the same filtered slice.
type Views struct {
	Range     forecast.DateRange       `json:"range"`
	Bounds    forecast.DateRange       `json:"bounds"`
	Line      forecast.LineSeries      `json:"line"`
	Histogram []forecast.CategoryCount `json:"histogram"`
	Rows      []forecast.TableRow      `json:"rows"`
	Summary   forecast.Summary         `json:"summary"`

	// Generation numbers recomputations; Superseded is set when a newer one
	// started anywhere in the process before this one finished.
	Generation uint64 `json:"generation"`
	Superseded bool   `json:"superseded"`
}

// SelectionEvent records one completed recomputation.
type SelectionEvent struct {
	Start      string    `json:"start"`
	End        string    `json:"end"`
	Rows       int       `json:"rows"`
	Generation uint64    `json:"generation"`
	ComputedAt time.Time `json:"computed_at"`
}

// SelectionPublisher receives an event after every recomputation.
type SelectionPublisher interface {
	PublishSelection(ctx context.Context, event SelectionEvent) error
}

// Dashboard recomputes views for range changes. It is safe for concurrent use;
// the table it reads is immutable.
type Dashboard struct {
	store     *dataset.Store
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	cache     *viewCache
	publisher SelectionPublisher

	inflight atomic.Int64
	// generation is shared by every client of the process, so Superseded
	// means "a newer selection exists anywhere", not "this viewer moved on".
	generation atomic.Uint64
}

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithClock replaces the real clock used for timing and event stamps.
func WithClock(c clockwork.Clock) Option {
	return func(d *Dashboard) { d.clock = c }
}

// WithCache enables an LRU of derived views. Sizes below 1 leave it disabled.
func WithCache(size int) Option {
	return func(d *Dashboard) {
		if size > 0 {
			d.cache = newViewCache(size)
		}
	}
}

// WithPublisher sends a SelectionEvent after each recomputation.
func WithPublisher(p SelectionPublisher) Option {
	return func(d *Dashboard) { d.publisher = p }
}

// New creates a Dashboard over a loaded store.
func New(store *dataset.Store, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Dashboard {
	d := &Dashboard{
		store:   store,
		logger:  logger,
		metrics: metrics,
		clock:   clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(d)
	}
	metrics.DatasetRows.Set(float64(store.Table().Len()))
	metrics.DashboardState.Set(float64(Idle))
	return d
}

// CheckReadiness delegates to the dataset store.
func (d *Dashboard) CheckReadiness(ctx context.Context) error {
	return d.store.CheckReadiness(ctx)
}

// State reports Recomputing while any recomputation is in flight.
func (d *Dashboard) State() State {
	if d.inflight.Load() > 0 {
		return Recomputing
	}
	return Idle
}

// Bounds returns the full span of the dataset.
func (d *Dashboard) Bounds() forecast.DateRange { return d.store.FullRange() }

// ParseRange reads YYYY-MM-DD start and end values. A blank value defaults to
// the matching dataset bound. The result is clamped to the dataset span.
func (d *Dashboard) ParseRange(start, end string) (forecast.DateRange, error) {
	r := d.store.FullRange()
	var errs []error
	if s := strings.TrimSpace(start); s != "" {
		t, err := forecast.ParseDay(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: start %q", ErrInvalidDate, s))
		}
		r.Start = t
	}
	if s := strings.TrimSpace(end); s != "" {
		t, err := forecast.ParseDay(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: end %q", ErrInvalidDate, s))
		}
		r.End = t
	}
	if err := errors.Join(errs...); err != nil {
		return forecast.DateRange{}, err
	}
	first, last := d.store.Bounds()
	return r.Clamp(first, last), nil
}

// Recompute filters the table to r and derives every view from the result.
// One call always yields a complete, mutually consistent Views.
func (d *Dashboard) Recompute(ctx context.Context, r forecast.DateRange) (Views, error) {
	gen := d.generation.Add(1)
	d.enter()
	defer d.leave()

	start := d.clock.Now()
	d.metrics.Recomputations.Inc()

	views, hit := d.cached(r)
	if !hit {
		var err error
		views, err = d.derive(ctx, r)
		if err != nil {
			return Views{}, fmt.Errorf("recompute %s: %w", r, err)
		}
		if d.cache != nil {
			d.cache.put(r, views)
		}
	}

	views.Generation = gen
	d.metrics.RecomputeTime.Observe(d.clock.Since(start).Seconds())
	d.metrics.SelectedRows.Observe(float64(len(views.Rows)))
	d.logger.Debug("views recomputed",
		"range", r.String(),
		"rows", len(views.Rows),
		"cache_hit", hit,
		"generation", gen,
	)

	d.publish(ctx, views)

	if d.generation.Load() != gen {
		views.Superseded = true
		d.metrics.Superseded.Inc()
		d.logger.Debug("recomputation superseded", "range", r.String(), "generation", gen)
	}
	return views, nil
}

func (d *Dashboard) cached(r forecast.DateRange) (Views, bool) {
	if d.cache == nil {
		return Views{}, false
	}
	v, ok := d.cache.get(r)
	if ok {
		d.metrics.ViewCache.WithLabelValues("hit").Inc()
	} else {
		d.metrics.ViewCache.WithLabelValues("miss").Inc()
	}
	return v, ok
}

// derive runs the filter once and the view derivers concurrently over its result.
func (d *Dashboard) derive(ctx context.Context, r forecast.DateRange) (Views, error) {
	if err := ctx.Err(); err != nil {
		return Views{}, err
	}

	slice := forecast.Filter(d.store.Table(), r.Start, r.End)
	v := Views{Range: r, Bounds: d.store.FullRange()}

	var g errgroup.Group
	g.Go(func() error {
		v.Line = forecast.ToLineSeries(slice)
		return nil
	})
	g.Go(func() error {
		v.Histogram = forecast.ToHistogram(slice)
		return nil
	})
	g.Go(func() error {
		v.Rows = forecast.ToTableRows(slice)
		return nil
	})
	g.Go(func() error {
		v.Summary = forecast.Summarize(slice)
		return nil
	})
	if err := g.Wait(); err != nil {
		return Views{}, err
	}
	return v, ctx.Err()
}

func (d *Dashboard) publish(ctx context.Context, v Views) {
	if d.publisher == nil {
		return
	}
	event := SelectionEvent{
		Start:      v.Range.Start.Format(forecast.DateLayout),
		End:        v.Range.End.Format(forecast.DateLayout),
		Rows:       len(v.Rows),
		Generation: v.Generation,
		ComputedAt: d.clock.Now().UTC(),
	}
	if err := d.publisher.PublishSelection(ctx, event); err != nil {
		d.metrics.SelectionEvents.WithLabelValues("error").Inc()
		d.logger.Warn("publish selection failed", "error", err, "range", v.Range.String())
		return
	}
	d.metrics.SelectionEvents.WithLabelValues("published").Inc()
}

func (d *Dashboard) enter() {
	if d.inflight.Add(1) == 1 {
		d.metrics.DashboardState.Set(float64(Recomputing))
	}
}

func (d *Dashboard) leave() {
	if d.inflight.Add(-1) == 0 {
		d.metrics.DashboardState.Set(float64(Idle))
	}
}
