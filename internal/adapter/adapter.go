// Package adapter wires the snapshot cache, fetch gateway, query pipeline,
// and presentation mapper into the record-supply surface the host widget
// calls. One Adapter instance serves one UI attach; its boundary methods
// never raise — any internal failure degrades to an empty, well-formed
// result.
package adapter

import (
	"context"
	"time"

	"github.com/SweetsNSavories/timeline/internal/config"
	"github.com/SweetsNSavories/timeline/internal/display"
	"github.com/SweetsNSavories/timeline/internal/pipeline"
	"github.com/SweetsNSavories/timeline/internal/record"
	"github.com/SweetsNSavories/timeline/internal/snapshot"
	"github.com/SweetsNSavories/timeline/internal/source"
)

// Logger receives operational messages from the adapter.
// log/slog's *Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Context is the host-supplied init context: the record the timeline is
// attached to.
type Context struct {
	RecordID string
}

// PageResult is the boundary response for one page request.
type PageResult struct {
	RequestID     string           `json:"request_id,omitempty"`
	Records       []display.Record `json:"records"`
	MoreAvailable bool             `json:"more_available"`
}

// Adapter supplies timeline records for one host record. Construct with New,
// call Init before any query. Not a process-wide singleton: one instance per
// UI attach, torn down with it.
type Adapter struct {
	cfg     *config.Config
	gateway source.Gateway
	logger  Logger
	cache   *snapshot.Cache

	recordID string
}

// New creates an adapter. The logger may be nil.
func New(cfg *config.Config, gateway source.Gateway, logger Logger) *Adapter {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Adapter{
		cfg:     cfg,
		gateway: gateway,
		logger:  logger,
		cache:   snapshot.NewCache(),
	}
}

// Init records the host context. It must complete before any query call.
// A missing record identifier is not an error here: queries on such an
// adapter return empty results instead of failing the UI.
func (a *Adapter) Init(ctx context.Context, hostCtx Context) error {
	a.recordID = hostCtx.RecordID
	if a.recordID == "" && a.logger != nil {
		a.logger.Warn("init without a host record identifier, all queries will return empty results")
	}
	return nil
}

// GetRecordsData is the primary entry point: it returns one search-filtered,
// facet-filtered, sorted, cursor-paginated page of display records. It never
// returns an error — transport failures, malformed records, and a missing
// host context all degrade to an empty or partial, well-formed result.
func (a *Adapter) GetRecordsData(ctx context.Context, req pipeline.PageRequest, spec pipeline.FilterSpec) PageResult {
	result := PageResult{
		RequestID: req.RequestID,
		Records:   []display.Record{},
	}

	if a.recordID == "" {
		return result
	}

	req.PageSize = a.clampPageSize(req.PageSize)

	snap, err := a.loadSnapshot(ctx)
	if err != nil {
		// loadSnapshot already degrades transport failures; anything else
		// still must not escape the boundary.
		if a.logger != nil {
			a.logger.Error("snapshot load failed", "error", err.Error())
		}
		return result
	}

	page := pipeline.Query(snap.Records, req, spec, a.cfg.SearchFields)

	result.MoreAvailable = page.MoreAvailable
	result.Records = make([]display.Record, len(page.Records))
	for i, r := range page.Records {
		result.Records[i] = display.ToDisplay(r)
	}

	return result
}

// GetFilterDetails describes the available facet groups. Groups with
// configured options use those; the rest get the distinct values observed in
// the snapshot. Nothing comes back selected — selection state lives with the
// host.
func (a *Adapter) GetFilterDetails(ctx context.Context) []pipeline.FacetGroup {
	groups := make([]pipeline.FacetGroup, 0, len(a.cfg.FacetGroups))

	for _, gc := range a.cfg.FacetGroups {
		group := pipeline.FacetGroup{Name: gc.Name, Field: gc.Field}
		values := gc.Options
		if len(values) == 0 {
			values = a.distinctValues(ctx, gc.Field)
		}
		group.Options = make([]pipeline.FacetOption, len(values))
		for i, v := range values {
			group.Options[i] = pipeline.FacetOption{Value: v}
		}
		groups = append(groups, group)
	}

	return groups
}

// GetRecordUX maps one record to the host's display shape.
func (a *Adapter) GetRecordUX(r record.Record) display.Record {
	return display.ToDisplay(r)
}

// RecordByID finds a record in the current snapshot.
func (a *Adapter) RecordByID(ctx context.Context, id string) (record.Record, bool) {
	if a.recordID == "" || id == "" {
		return record.Record{}, false
	}
	snap, err := a.loadSnapshot(ctx)
	if err != nil {
		return record.Record{}, false
	}
	for _, r := range snap.Records {
		if r.ID == id {
			return r, true
		}
	}
	return record.Record{}, false
}

// FilterSpecFromSelection builds a filter spec from the configured facet
// groups with the given values marked selected. Selection is global across
// groups, matching the pipeline's flatten-then-union semantics.
func (a *Adapter) FilterSpecFromSelection(ctx context.Context, keyword string, selected []string) pipeline.FilterSpec {
	selectedSet := make(map[string]bool, len(selected))
	for _, v := range selected {
		if v != "" {
			selectedSet[v] = true
		}
	}

	groups := a.GetFilterDetails(ctx)
	for gi := range groups {
		for oi := range groups[gi].Options {
			if selectedSet[groups[gi].Options[oi].Value] {
				groups[gi].Options[oi].Selected = true
			}
		}
	}

	return pipeline.FilterSpec{Keyword: keyword, Facets: groups}
}

// loadSnapshot returns the session snapshot, fetching at most once. A failed
// fetch installs an empty snapshot: remote latency (and remote failure) is
// paid once, every later call is local.
func (a *Adapter) loadSnapshot(ctx context.Context) (*snapshot.Snapshot, error) {
	return a.cache.Load(ctx, func(ctx context.Context) (*snapshot.Snapshot, error) {
		q := source.Query{
			Entity: a.cfg.Entity,
			Fields: a.cfg.SelectFields,
			Predicate: &source.Predicate{
				Field: record.FieldRecordID,
				Op:    source.OpEquals,
				Value: a.recordID,
			},
		}

		items, err := a.gateway.Fetch(ctx, q)
		if err != nil {
			if a.logger != nil {
				a.logger.Warn("backing store fetch failed, serving empty snapshot",
					"record_id", a.recordID, "error", err.Error())
			}
			items = nil
		}

		now := time.Now()
		return &snapshot.Snapshot{
			Records:   record.Normalize(items, now),
			FetchedAt: now,
		}, nil
	})
}

// distinctValues collects the distinct values of a payload field across the
// snapshot, in first-seen order.
func (a *Adapter) distinctValues(ctx context.Context, field string) []string {
	if a.recordID == "" {
		return nil
	}
	snap, err := a.loadSnapshot(ctx)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var values []string
	for _, r := range snap.Records {
		v, ok := r.Field(field)
		if !ok || v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}

// clampPageSize applies the configured default and upper bound.
func (a *Adapter) clampPageSize(size int) int {
	if size <= 0 {
		size = a.cfg.DefaultPageSize
	}
	if a.cfg.MaxPageSize > 0 && size > a.cfg.MaxPageSize {
		size = a.cfg.MaxPageSize
	}
	return size
}
