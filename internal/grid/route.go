// Package grid keeps the navigation state of a paged, sorted and filtered
// list consistent across stateless requests.
//
// A RouteState is loaded from per-client storage at the start of a request,
// merged with whatever the request supplied, projected into a query
// specification and saved back at the end.
package grid

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/Payphone-Digital/storefront/internal/constants"
	"github.com/Payphone-Digital/storefront/pkg/query"
)

// RouteState is the persisted navigation state of one grid for one client.
type RouteState struct {
	PageNumber    int             `json:"page"`
	PageSize      int             `json:"size"`
	SortField     string          `json:"sort"`
	SortDirection query.Direction `json:"dir"`
	Filters       []string        `json:"filters,omitempty"`
}

// Clone returns an independent copy.
func (r RouteState) Clone() RouteState {
	out := r
	out.Filters = slices.Clone(r.Filters)
	return out
}

// SortFieldIs compares field with the current sort field ignoring case.
func (r RouteState) SortFieldIs(field string) bool {
	return strings.EqualFold(strings.TrimSpace(field), strings.TrimSpace(r.SortField))
}

// SetSortAndDirection sorts by field. Clicking the field current is already
// sorted by reverses its direction; any other field sorts ascending.
func (r *RouteState) SetSortAndDirection(field string, current RouteState) {
	r.SortField = field
	if current.SortFieldIs(field) {
		r.SortDirection = current.SortDirection.Reverse()
	} else {
		r.SortDirection = query.Asc
	}
}

// WithPage returns a copy of r on page n.
func (r RouteState) WithPage(n int) RouteState {
	out := r.Clone()
	out.PageNumber = max(n, constants.MinPage)
	return out
}

// WithSort returns a copy of r as it would be after clicking field.
func (r RouteState) WithSort(field string) RouteState {
	out := r.Clone()
	out.SetSortAndDirection(field, r)
	out.PageNumber = constants.MinPage
	return out
}

// Filter returns the active segment with the given prefix.
func (r RouteState) Filter(prefix string) (Segment, bool) {
	for _, token := range r.Filters {
		if seg, ok := ParseSegment(token); ok && strings.EqualFold(seg.Prefix, prefix) {
			return seg, true
		}
	}
	return Segment{}, false
}

// SetFilter replaces the segment with seg's prefix. An "all" segment removes
// it.
func (r *RouteState) SetFilter(seg Segment) {
	out := make([]string, 0, len(r.Filters)+1)
	for _, token := range r.Filters {
		if cur, ok := ParseSegment(token); ok && cur.Prefix == seg.Prefix {
			continue
		}
		out = append(out, token)
	}
	if !seg.IsAll() {
		out = append(out, seg.String())
	}
	r.Filters = normalizeSegments(out)
}

// ClearFilters drops every filter segment.
func (r *RouteState) ClearFilters() {
	r.Filters = nil
}

func (r RouteState) HasFilters() bool {
	return len(r.Filters) > 0
}

// Values renders r as query parameters for a navigation link.
func (r RouteState) Values() url.Values {
	v := url.Values{}
	v.Set(constants.QueryParamPage, strconv.Itoa(r.PageNumber))
	v.Set(constants.QueryParamPageSize, strconv.Itoa(r.PageSize))
	if r.SortField != "" {
		v.Set(constants.QueryParamSortField, r.SortField)
		v.Set(constants.QueryParamSortDirection, string(r.SortDirection))
	}
	for _, token := range r.Filters {
		v.Add(constants.QueryParamFilter, token)
	}
	return v
}

func sameFilters(a, b []string) bool {
	return slices.EqualFunc(a, b, strings.EqualFold)
}
