package grid

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Payphone-Digital/storefront/pkg/query"
)

type mapStore struct {
	data   map[string][]byte
	getErr error
	setErr error
	delErr error
	sets   int
}

func newMapStore() *mapStore {
	return &mapStore{data: make(map[string][]byte)}
}

func (m *mapStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.sets++
	m.data[key] = value
	return nil
}

func (m *mapStore) Delete(_ context.Context, key string) error {
	if m.delErr != nil {
		return m.delErr
	}
	delete(m.data, key)
	return nil
}

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func newBooks(store StateStore) *Controller {
	return NewController("books", Defaults{PageSize: 10, SortField: "title"}, store, time.Hour)
}

func TestController_LoadDefaultsOnFirstVisit(t *testing.T) {
	c := newBooks(newMapStore())

	state, err := c.Load(context.Background(), "client-1")
	require.NoError(t, err)

	assert.Equal(t, RouteState{PageNumber: 1, PageSize: 10, SortField: "title", SortDirection: query.Asc}, state)
}

func TestController_SaveThenLoad(t *testing.T) {
	store := newMapStore()
	c := newBooks(store)
	ctx := context.Background()

	saved := RouteState{PageNumber: 3, PageSize: 10, SortField: "price", SortDirection: query.Desc, Filters: []string{"genre-novel"}}
	require.NoError(t, c.Save(ctx, "client-1", saved))

	loaded, err := c.Load(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)

	other, err := c.Load(ctx, "client-2")
	require.NoError(t, err)
	assert.Equal(t, c.Initial(), other)

	authors := NewController("authors", Defaults{PageSize: 4, SortField: "firstname"}, store, time.Hour)
	a, err := authors.Load(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, "firstname", a.SortField)
}

func TestController_LoadDegradesOnStoreFailure(t *testing.T) {
	store := newMapStore()
	store.getErr = errors.New("connection refused")
	c := newBooks(store)

	state, err := c.Load(context.Background(), "client-1")
	require.NoError(t, err)
	assert.Equal(t, c.Initial(), state)
}

func TestController_LoadRepairsCorruptState(t *testing.T) {
	store := newMapStore()
	c := newBooks(store)
	store.data[c.Key("client-1")] = []byte(`{"page":0,"size":-1,"sort":"","dir":"up","filters":["bogus","genre-novel"]}`)

	state, err := c.Load(context.Background(), "client-1")
	require.NoError(t, err)
	assert.Equal(t, RouteState{PageNumber: 1, PageSize: 10, SortField: "title", SortDirection: query.Asc, Filters: []string{"genre-novel"}}, state)

	store.data[c.Key("client-2")] = []byte(`not json`)
	state, err = c.Load(context.Background(), "client-2")
	require.NoError(t, err)
	assert.Equal(t, c.Initial(), state)
}

func TestController_LoadCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newBooks(newMapStore()).Load(ctx, "client-1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestController_Merge(t *testing.T) {
	c := newBooks(nil)
	base := RouteState{PageNumber: 2, PageSize: 10, SortField: "title", SortDirection: query.Asc, Filters: []string{"genre-novel"}}

	tests := []struct {
		name string
		in   Input
		want RouteState
	}{
		{
			name: "nothing supplied",
			in:   Input{},
			want: base,
		},
		{
			name: "page click",
			in:   Input{Page: intPtr(5)},
			want: RouteState{PageNumber: 5, PageSize: 10, SortField: "title", SortDirection: query.Asc, Filters: []string{"genre-novel"}},
		},
		{
			name: "page below one",
			in:   Input{Page: intPtr(-3)},
			want: RouteState{PageNumber: 1, PageSize: 10, SortField: "title", SortDirection: query.Asc, Filters: []string{"genre-novel"}},
		},
		{
			name: "new sort field resets page",
			in:   Input{Page: intPtr(2), SortField: strPtr("price"), SortDirection: strPtr("asc")},
			want: RouteState{PageNumber: 1, PageSize: 10, SortField: "price", SortDirection: query.Asc, Filters: []string{"genre-novel"}},
		},
		{
			name: "reversed direction resets page",
			in:   Input{SortField: strPtr("title"), SortDirection: strPtr("desc")},
			want: RouteState{PageNumber: 1, PageSize: 10, SortField: "title", SortDirection: query.Desc, Filters: []string{"genre-novel"}},
		},
		{
			name: "unchanged sort keeps page",
			in:   Input{Page: intPtr(3), SortField: strPtr("TITLE"), SortDirection: strPtr("asc")},
			want: RouteState{PageNumber: 3, PageSize: 10, SortField: "TITLE", SortDirection: query.Asc, Filters: []string{"genre-novel"}},
		},
		{
			name: "new filters reset page",
			in:   Input{Filters: []string{"genre-history", "price-under7"}},
			want: RouteState{PageNumber: 1, PageSize: 10, SortField: "title", SortDirection: query.Asc, Filters: []string{"genre-history", "price-under7"}},
		},
		{
			name: "same filters keep page",
			in:   Input{Page: intPtr(2), Filters: []string{"genre-novel"}},
			want: base,
		},
		{
			name: "malformed filters are dropped",
			in:   Input{Filters: []string{"genre-novel", "garbage", "price-all"}},
			want: base,
		},
		{
			name: "clear",
			in:   Input{Clear: true, Filters: []string{"genre-history"}, Page: intPtr(4)},
			want: RouteState{PageNumber: 1, PageSize: 10, SortField: "title", SortDirection: query.Asc},
		},
		{
			name: "page size change resets page",
			in:   Input{PageSize: intPtr(25)},
			want: RouteState{PageNumber: 1, PageSize: 25, SortField: "title", SortDirection: query.Asc, Filters: []string{"genre-novel"}},
		},
		{
			name: "page size is capped",
			in:   Input{PageSize: intPtr(5000)},
			want: RouteState{PageNumber: 1, PageSize: 100, SortField: "title", SortDirection: query.Asc, Filters: []string{"genre-novel"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := base.Clone()
			got := c.Merge(base, tt.in)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, before, base, "merge must not modify its input")
		})
	}
}

func TestController_MergeClearIsIdempotent(t *testing.T) {
	c := newBooks(nil)
	state := RouteState{PageNumber: 4, PageSize: 10, SortField: "title", SortDirection: query.Asc}

	once := c.Merge(state, Input{Clear: true})
	twice := c.Merge(once, Input{Clear: true})

	assert.Empty(t, once.Filters)
	assert.Equal(t, 1, once.PageNumber)
	assert.Equal(t, once, twice)
}

func TestController_SaveIsUnconditional(t *testing.T) {
	store := newMapStore()
	c := newBooks(store)
	ctx := context.Background()

	state := c.Initial()
	require.NoError(t, c.Save(ctx, "client-1", state))
	require.NoError(t, c.Save(ctx, "client-1", state))
	assert.Equal(t, 2, store.sets)

	store.setErr = errors.New("read only")
	assert.Error(t, c.Save(ctx, "client-1", state))
}

func TestController_SaveWithoutClientIsNoop(t *testing.T) {
	store := newMapStore()

	require.NoError(t, newBooks(store).Save(context.Background(), "", RouteState{}))
	assert.Zero(t, store.sets)
}

func TestController_Reset(t *testing.T) {
	store := newMapStore()
	c := newBooks(store)
	other := NewController("authors", Defaults{PageSize: 4, SortField: "firstname"}, store, time.Hour)
	ctx := context.Background()

	state := c.Merge(c.Initial(), Input{Page: intPtr(3), Filters: []string{"genre-novel"}})
	require.NoError(t, c.Save(ctx, "client-1", state))
	require.NoError(t, other.Save(ctx, "client-1", other.Initial().WithPage(2)))

	require.NoError(t, c.Reset(ctx, "client-1"))

	got, err := c.Load(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, c.Initial(), got)

	kept, err := other.Load(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, 2, kept.PageNumber, "other grids keep their state")

	require.NoError(t, c.Reset(ctx, ""))
	store.delErr = errors.New("read only")
	assert.Error(t, c.Reset(ctx, "client-1"))
}

func TestComputeTotalPages(t *testing.T) {
	tests := []struct {
		count    int64
		pageSize int
		want     int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{23, 10, 3},
		{100, 10, 10},
		{5, 0, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ComputeTotalPages(tt.count, tt.pageSize), "count=%d size=%d", tt.count, tt.pageSize)
	}
}
