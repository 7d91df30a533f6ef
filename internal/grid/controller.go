package grid

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/Payphone-Digital/storefront/internal/constants"
	ctxutil "github.com/Payphone-Digital/storefront/pkg/context"
	"github.com/Payphone-Digital/storefront/pkg/logger"
	"github.com/Payphone-Digital/storefront/pkg/query"
)

// StateStore is per-client key/value storage. Get reports false on a miss.
type StateStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Defaults seed the route state of a client's first visit.
type Defaults struct {
	PageSize      int
	SortField     string
	SortDirection query.Direction
	MaxPageSize   int
}

// Input holds the values one request supplied. Nil fields were not
// supplied and leave the stored state alone.
type Input struct {
	Page          *int
	PageSize      *int
	SortField     *string
	SortDirection *string
	// Filters replaces the active segments when non-nil.
	Filters []string
	// Clear drops every filter.
	Clear bool
}

// Controller reconciles stored route state with request input for one grid.
// It keeps no per-request state and is safe for concurrent use.
type Controller struct {
	name     string
	defaults Defaults
	store    StateStore
	ttl      time.Duration
}

func NewController(name string, defaults Defaults, store StateStore, ttl time.Duration) *Controller {
	if defaults.PageSize < constants.MinPageSize {
		defaults.PageSize = constants.DefaultPageSize
	}
	if defaults.MaxPageSize < defaults.PageSize {
		defaults.MaxPageSize = max(constants.MaxPageSize, defaults.PageSize)
	}
	if !defaults.SortDirection.Valid() {
		defaults.SortDirection = query.Asc
	}
	return &Controller{name: name, defaults: defaults, store: store, ttl: ttl}
}

func (c *Controller) Name() string {
	return c.name
}

// Initial is the state of a first visit.
func (c *Controller) Initial() RouteState {
	return RouteState{
		PageNumber:    constants.MinPage,
		PageSize:      c.defaults.PageSize,
		SortField:     c.defaults.SortField,
		SortDirection: c.defaults.SortDirection,
	}
}

// Key is the storage key of clientID's state for this grid.
func (c *Controller) Key(clientID string) string {
	return constants.CacheKeyGridState + c.name + ":" + clientID
}

func (c *Controller) logContext(ctx context.Context, function string) context.Context {
	ctx = ctxutil.WithValue(ctx, ctxutil.FunctionKey, function)
	return ctxutil.WithValue(ctx, ctxutil.ModuleKey, "grid")
}

// Load reads clientID's stored state. A missing, unreadable or invalid
// entry yields the initial state; only a cancelled ctx is an error.
func (c *Controller) Load(ctx context.Context, clientID string) (RouteState, error) {
	ctx = c.logContext(ctx, "Load")

	if err := ctx.Err(); err != nil {
		return RouteState{}, err
	}
	if clientID == "" || c.store == nil {
		return c.Initial(), nil
	}

	raw, found, err := c.store.Get(ctx, c.Key(clientID))
	if err != nil {
		logger.WarnWithContext(ctx, "Grid state unavailable, using defaults").
			String("grid", c.name).
			Err(err).
			Log()
		return c.Initial(), nil
	}
	if !found {
		return c.Initial(), nil
	}

	var state RouteState
	if err := json.Unmarshal(raw, &state); err != nil {
		logger.WarnWithContext(ctx, "Grid state unreadable, using defaults").
			String("grid", c.name).
			Err(err).
			Log()
		return c.Initial(), nil
	}
	return c.sanitize(state), nil
}

// sanitize repairs a stored state that violates the grid's bounds.
func (c *Controller) sanitize(state RouteState) RouteState {
	if state.PageNumber < constants.MinPage {
		state.PageNumber = constants.MinPage
	}
	if state.PageSize < constants.MinPageSize || state.PageSize > c.defaults.MaxPageSize {
		state.PageSize = c.defaults.PageSize
	}
	if strings.TrimSpace(state.SortField) == "" {
		state.SortField = c.defaults.SortField
	}
	if !state.SortDirection.Valid() {
		state.SortDirection = query.Asc
	}
	state.Filters = normalizeSegments(state.Filters)
	if len(state.Filters) == 0 {
		state.Filters = nil
	}
	return state
}

// Merge overlays in on state and returns the result; state is not modified.
// A change of page size, sort or filters, and any clear, moves back to the
// first page. An explicit page is honoured only when none of those happened.
func (c *Controller) Merge(state RouteState, in Input) RouteState {
	out := state.Clone()
	reset := false

	if in.PageSize != nil {
		size := min(max(*in.PageSize, constants.MinPageSize), c.defaults.MaxPageSize)
		if size != out.PageSize {
			out.PageSize = size
			reset = true
		}
	}

	if in.SortField != nil && strings.TrimSpace(*in.SortField) != "" {
		field := strings.TrimSpace(*in.SortField)
		dir := query.Asc
		switch {
		case in.SortDirection != nil:
			dir = query.ParseDirection(*in.SortDirection)
		case out.SortFieldIs(field):
			dir = out.SortDirection
		}
		if !out.SortFieldIs(field) || dir != out.SortDirection {
			reset = true
		}
		out.SortField = field
		out.SortDirection = dir
	} else if in.SortDirection != nil {
		dir := query.ParseDirection(*in.SortDirection)
		if dir != out.SortDirection {
			out.SortDirection = dir
			reset = true
		}
	}

	switch {
	case in.Clear:
		out.ClearFilters()
		reset = true
	case in.Filters != nil:
		filters := normalizeSegments(in.Filters)
		if len(filters) == 0 {
			filters = nil
		}
		if !sameFilters(filters, out.Filters) {
			out.Filters = filters
			reset = true
		}
	}

	switch {
	case reset:
		out.PageNumber = constants.MinPage
	case in.Page != nil:
		out.PageNumber = max(*in.Page, constants.MinPage)
	}
	return out
}

// Save writes state as clientID's state for this grid. Concurrent saves for
// the same client are last-write-wins.
func (c *Controller) Save(ctx context.Context, clientID string, state RouteState) error {
	ctx = c.logContext(ctx, "Save")

	if clientID == "" || c.store == nil {
		return nil
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, c.Key(clientID), raw, c.ttl); err != nil {
		logger.ErrorWithContext(ctx, "Failed to save grid state").
			String("grid", c.name).
			Err(err).
			Log()
		return err
	}

	logger.DebugWithContext(ctx, "Grid state saved").
		String("grid", c.name).
		Int("page", state.PageNumber).
		String("sort", state.SortField).
		Strings("filters", state.Filters).
		Log()
	return nil
}

// Reset forgets clientID's state so the next Load starts from the defaults.
func (c *Controller) Reset(ctx context.Context, clientID string) error {
	ctx = c.logContext(ctx, "Reset")

	if clientID == "" || c.store == nil {
		return nil
	}

	if err := c.store.Delete(ctx, c.Key(clientID)); err != nil {
		logger.ErrorWithContext(ctx, "Failed to reset grid state").
			String("grid", c.name).
			Err(err).
			Log()
		return err
	}

	logger.DebugWithContext(ctx, "Grid state reset").
		String("grid", c.name).
		Log()
	return nil
}

// ComputeTotalPages is ceil(count/pageSize), never less than one.
func ComputeTotalPages(count int64, pageSize int) int {
	if count <= 0 || pageSize <= 0 {
		return 1
	}
	return int((count + int64(pageSize) - 1) / int64(pageSize))
}
